package odbc

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoginTimeoutSeconds(t *testing.T) {
	tests := []struct {
		name string
		in   time.Duration
		want uint32
	}{
		{"zero means unset", 0, 0},
		{"negative clamps to unset", -5 * time.Second, 0},
		{"rounds down to whole seconds", 2500 * time.Millisecond, 2},
		{"whole seconds pass through", 30 * time.Second, 30},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Config{LoginTimeout: tt.in}
			assert.Equal(t, tt.want, c.loginTimeoutSeconds())
		})
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("ODBC_LOGIN_TIMEOUT", "")
	t.Setenv("ODBC_VERSION", "")
	t.Setenv("ODBC_TRACE", "")

	c, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, 3, c.ODBCVersion)
	assert.False(t, c.Trace)
	assert.Equal(t, time.Duration(0), c.LoginTimeout)
}

func TestLoadConfigFromEnvironment(t *testing.T) {
	t.Setenv("ODBC_LOGIN_TIMEOUT", "15s")
	t.Setenv("ODBC_VERSION", "2")
	t.Setenv("ODBC_TRACE", "true")

	c, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, 15*time.Second, c.LoginTimeout)
	assert.Equal(t, 2, c.ODBCVersion)
	assert.True(t, c.Trace)
}
