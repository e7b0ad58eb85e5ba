package driver

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfigOption(t *testing.T) {
	cfg := Config{Options: map[string]string{"sslmode": "require"}}
	assert.Equal(t, "require", cfg.Option("sslmode", "disable"))
	assert.Equal(t, "disable", cfg.Option("missing", "disable"))

	var empty Config
	assert.Equal(t, "utf8mb4", empty.Option("charset", "utf8mb4"))
}

func TestConfigAddr(t *testing.T) {
	cfg := Config{Host: "db.internal", Port: 5433}
	assert.Equal(t, "db.internal:5433", cfg.Addr(5432))

	cfg.Port = 0
	assert.Equal(t, "db.internal:5432", cfg.Addr(5432))
}

func TestConfigRedacted(t *testing.T) {
	cfg := Config{User: "wxstation", Password: "hunter2"}
	red := cfg.Redacted()
	assert.Equal(t, "****", red.Password)
	assert.Equal(t, "wxstation", red.User)
	// The original is untouched.
	assert.Equal(t, "hunter2", cfg.Password)

	assert.Empty(t, Config{}.Redacted().Password)
}
