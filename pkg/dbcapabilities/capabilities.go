package dbcapabilities

import "strings"

// DatabaseID is the canonical identifier for a supported SQL backend. Use
// these constants to look up capability information and to register drivers.
type DatabaseID string

const (
	// Embedded file-based engines
	SQLite DatabaseID = "sqlite"

	// Client/server relational engines
	MySQL      DatabaseID = "mysql"
	PostgreSQL DatabaseID = "postgres"
)

// PlaceholderStyle enumerates the bind-parameter conventions of the native
// dialects. The neutral convention callers write is always `?`.
type PlaceholderStyle string

const (
	PlaceholderQuestion PlaceholderStyle = "question" // ?
	PlaceholderDollar   PlaceholderStyle = "dollar"   // $1..$n
)

// Capability describes one backend in a way the generic layer and its
// callers can consume uniformly.
type Capability struct {
	// Human-friendly product name, e.g. "PostgreSQL".
	Name string `json:"name"`

	// Canonical ID used across the codebase, e.g. "postgres".
	ID DatabaseID `json:"id"`

	// Embedded marks file-based engines with no server process. For
	// embedded backends the database name is a file path and host/port
	// are ignored.
	Embedded bool `json:"embedded"`

	// DefaultPort is the conventional server port; zero for embedded.
	DefaultPort int `json:"defaultPort,omitempty"`

	// Whether the backend exposes a maintenance/system database to issue
	// CREATE DATABASE and DROP DATABASE against, and its typical names.
	HasSystemDatabase bool     `json:"hasSystemDatabase"`
	SystemDatabases   []string `json:"systemDatabases,omitempty"`

	// SystemSchemas are catalog schemas excluded from table listings.
	SystemSchemas []string `json:"systemSchemas,omitempty"`

	// IdentifierQuote is the native identifier quoting character.
	IdentifierQuote rune `json:"-"`

	// Placeholder is the native bind-parameter style.
	Placeholder PlaceholderStyle `json:"placeholder"`

	// HasServerVariables reports whether the backend has a configuration
	// variable namespace reachable from a session.
	HasServerVariables bool `json:"hasServerVariables"`

	// Common aliases (driver names, env labels) that map to this backend.
	Aliases []string `json:"aliases,omitempty"`
}

// All is the registry of capabilities keyed by canonical backend id.
var All = map[DatabaseID]Capability{
	SQLite: {
		Name:               "SQLite",
		ID:                 SQLite,
		Embedded:           true,
		HasSystemDatabase:  false,
		SystemSchemas:      []string{"sqlite_"},
		IdentifierQuote:    '`',
		Placeholder:        PlaceholderQuestion,
		HasServerVariables: true, // PRAGMA namespace
		Aliases:            []string{"sqlite3"},
	},
	MySQL: {
		Name:               "MySQL",
		ID:                 MySQL,
		DefaultPort:        3306,
		HasSystemDatabase:  true,
		SystemDatabases:    []string{"mysql"},
		SystemSchemas:      []string{"information_schema", "mysql", "performance_schema", "sys"},
		IdentifierQuote:    '`',
		Placeholder:        PlaceholderQuestion,
		HasServerVariables: true,
		Aliases:            []string{"mariadb", "aurora-mysql"},
	},
	PostgreSQL: {
		Name:               "PostgreSQL",
		ID:                 PostgreSQL,
		DefaultPort:        5432,
		HasSystemDatabase:  true,
		SystemDatabases:    []string{"postgres"},
		SystemSchemas:      []string{"pg_catalog", "information_schema"},
		IdentifierQuote:    '"',
		Placeholder:        PlaceholderDollar,
		HasServerVariables: true,
		Aliases:            []string{"postgresql", "pgsql"},
	},
}

// aliasIndex maps lowercased names, ids, and aliases to canonical ids.
var aliasIndex = map[string]DatabaseID{}

func init() {
	for id, cap := range All {
		aliasIndex[strings.ToLower(string(id))] = id
		aliasIndex[strings.ToLower(cap.Name)] = id
		for _, a := range cap.Aliases {
			aliasIndex[strings.ToLower(a)] = id
		}
	}
}

// ParseID resolves an arbitrary backend name (canonical id, alias, or
// product name) to its canonical id.
func ParseID(name string) (DatabaseID, bool) {
	id, ok := aliasIndex[strings.ToLower(strings.TrimSpace(name))]
	return id, ok
}

// Get returns the capability record for a canonical id.
func Get(id DatabaseID) (Capability, bool) {
	cap, ok := All[id]
	return cap, ok
}

// MustGet returns the capability record, panicking on an unknown id. Use
// only with the DatabaseID constants.
func MustGet(id DatabaseID) Capability {
	cap, ok := All[id]
	if !ok {
		panic("dbcapabilities: unknown database id: " + string(id))
	}
	return cap
}

// GetByName resolves a name or alias and returns its capability record.
func GetByName(name string) (Capability, bool) {
	if id, ok := ParseID(name); ok {
		return Get(id)
	}
	return Capability{}, false
}

// IDs returns the canonical ids of all known backends.
func IDs() []DatabaseID {
	ids := make([]DatabaseID, 0, len(All))
	for id := range All {
		ids = append(ids, id)
	}
	return ids
}

// IsEmbedded reports whether the backend is an embedded file-based engine.
func IsEmbedded(id DatabaseID) bool {
	cap, ok := All[id]
	return ok && cap.Embedded
}
