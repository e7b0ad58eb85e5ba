package driver

import "fmt"

// Config is the declarative connection record handed to the registry. It is
// produced by an external configuration-loading collaborator; this layer
// performs no file or environment parsing itself. Treat it as immutable once
// handed to Connect, Create, or Drop.
type Config struct {
	// Driver is the backend identifier, resolved against the registry
	// (canonical id or alias, see pkg/dbcapabilities).
	Driver string `json:"driver" yaml:"driver"`

	// Host is the server host for client/server backends. Embedded
	// backends ignore it.
	Host string `json:"host,omitempty" yaml:"host,omitempty"`

	// Port is the server port; zero selects the backend's default.
	Port int `json:"port,omitempty" yaml:"port,omitempty"`

	User     string `json:"user,omitempty" yaml:"user,omitempty"`
	Password string `json:"password,omitempty" yaml:"password,omitempty"`

	// DatabaseName names the database to use. For embedded file-based
	// backends this is the database file path.
	DatabaseName string `json:"database_name" yaml:"database_name"`

	// Options are adapter-specific settings forwarded verbatim to the
	// native client.
	Options map[string]string `json:"options,omitempty" yaml:"options,omitempty"`
}

// Option returns the named passthrough option, or def when absent.
func (c Config) Option(name, def string) string {
	if v, ok := c.Options[name]; ok {
		return v
	}
	return def
}

// Addr returns the host:port pair using port as the fallback when the
// config does not set one.
func (c Config) Addr(defaultPort int) string {
	port := c.Port
	if port == 0 {
		port = defaultPort
	}
	return fmt.Sprintf("%s:%d", c.Host, port)
}

// Redacted returns a copy safe for logging, with the password masked.
func (c Config) Redacted() Config {
	if c.Password != "" {
		c.Password = "****"
	}
	return c
}
