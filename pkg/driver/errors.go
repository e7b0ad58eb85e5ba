package driver

import (
	"errors"
	"fmt"
	"sort"

	"github.com/seriesdb/seriesdb/pkg/dbcapabilities"
)

// Kind is a generic, backend-independent error category. The set is closed
// and rooted at KindDatabase: every error raised by this layer carries
// exactly one Kind, and a native code with no mapping resolves to the root.
type Kind int

const (
	// KindDatabase is the root of the taxonomy and the catch-all for
	// native codes absent from an adapter's code map.
	KindDatabase Kind = iota

	// KindOperational is a runtime failure on a valid request, such as
	// use of a closed connection.
	KindOperational

	// KindProgramming is invalid SQL or a missing schema object.
	KindProgramming

	// KindCannotConnect means the initial connection attempt failed.
	KindCannotConnect

	// KindDisconnect means an established connection was lost mid-session.
	KindDisconnect

	// KindBadPassword means authentication was rejected.
	KindBadPassword

	// KindPermission means the request was denied by the backend's
	// privilege system.
	KindPermission

	// KindDatabaseExists means a database to be created already exists.
	KindDatabaseExists

	// KindNoDatabase means the named database does not exist.
	KindNoDatabase
)

// Sentinel errors, one per taxonomy kind. Callers match with errors.Is;
// ErrDatabase matches every error produced by this layer.
var (
	ErrDatabase       = errors.New("database error")
	ErrOperational    = errors.New("operational error")
	ErrProgramming    = errors.New("programming error")
	ErrCannotConnect  = errors.New("cannot connect to database")
	ErrDisconnect     = errors.New("database connection lost")
	ErrBadPassword    = errors.New("access denied for user")
	ErrPermission     = errors.New("permission denied")
	ErrDatabaseExists = errors.New("database already exists")
	ErrNoDatabase     = errors.New("database does not exist")
)

// ErrConnectionClosed is the cause recorded when an operation is attempted
// on a closed connection or cursor. It surfaces as KindOperational.
var ErrConnectionClosed = errors.New("connection is closed")

var kindNames = map[Kind]string{
	KindDatabase:       "database error",
	KindOperational:    "operational error",
	KindProgramming:    "programming error",
	KindCannotConnect:  "cannot connect",
	KindDisconnect:     "disconnected",
	KindBadPassword:    "bad password",
	KindPermission:     "permission denied",
	KindDatabaseExists: "database exists",
	KindNoDatabase:     "no such database",
}

var kindSentinels = map[Kind]error{
	KindDatabase:       ErrDatabase,
	KindOperational:    ErrOperational,
	KindProgramming:    ErrProgramming,
	KindCannotConnect:  ErrCannotConnect,
	KindDisconnect:     ErrDisconnect,
	KindBadPassword:    ErrBadPassword,
	KindPermission:     ErrPermission,
	KindDatabaseExists: ErrDatabaseExists,
	KindNoDatabase:     ErrNoDatabase,
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "database error"
}

// Sentinel returns the sentinel error for this kind.
func (k Kind) Sentinel() error {
	if s, ok := kindSentinels[k]; ok {
		return s
	}
	return ErrDatabase
}

// Error is the single error type raised across the native boundary. It wraps
// the native failure with the dialect, the operation, and the taxonomy kind;
// the native error type itself never escapes to callers.
type Error struct {
	Dialect dbcapabilities.DatabaseID
	Op      string
	Kind    Kind
	Cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %s: %v", e.Dialect, e.Op, e.Kind, e.Cause)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Dialect, e.Op, e.Kind)
}

// Unwrap returns the native cause carried as diagnostic content.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches the error's own kind sentinel and, for every kind, the root
// ErrDatabase sentinel.
func (e *Error) Is(target error) bool {
	if target == ErrDatabase {
		return true
	}
	return target == e.Kind.Sentinel()
}

// NewError creates a taxonomy error for the given dialect and operation.
func NewError(dialect dbcapabilities.DatabaseID, op string, kind Kind, cause error) *Error {
	return &Error{
		Dialect: dialect,
		Op:      op,
		Kind:    kind,
		Cause:   cause,
	}
}

// Errorf creates a taxonomy error with a formatted cause.
func Errorf(dialect dbcapabilities.DatabaseID, op string, kind Kind, format string, args ...interface{}) *Error {
	return NewError(dialect, op, kind, fmt.Errorf(format, args...))
}

// KindOf reports the taxonomy kind of err, if err came from this layer.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return KindDatabase, false
}

// CodeMap is an adapter's finite table from native error code to taxonomy
// kind. Codes are kept in string form regardless of the native
// representation (errno, SQLSTATE, result code). Lookup is total: a code
// absent from the table resolves to the root kind.
type CodeMap map[string]Kind

// Lookup resolves a native code to its kind, falling through to KindDatabase.
func (m CodeMap) Lookup(code string) Kind {
	if k, ok := m[code]; ok {
		return k
	}
	return KindDatabase
}

// Codes returns the mapped native codes in sorted order, for inspection.
func (m CodeMap) Codes() []string {
	codes := make([]string, 0, len(m))
	for c := range m {
		codes = append(codes, c)
	}
	sort.Strings(codes)
	return codes
}

// Translate builds the taxonomy error for a native failure whose code was
// extracted by the adapter. This is the tail of the guarded-call wrapper:
// native call, code extraction, table lookup, taxonomy error.
func Translate(dialect dbcapabilities.DatabaseID, op, code string, table CodeMap, cause error) *Error {
	return NewError(dialect, op, table.Lookup(code), cause)
}
