package odbc

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCapabilitiesForKnownQuirk(t *testing.T) {
	c := capabilitiesFor(ProductMsAccess)
	assert.False(t, c.primaryKeys)
	assert.False(t, c.describeParam)
	assert.False(t, c.scrollableCursor)
}

func TestCapabilitiesForSQLiteAllowsPrimaryKeysOnly(t *testing.T) {
	c := capabilitiesFor(ProductSQLite)
	assert.True(t, c.primaryKeys)
	assert.False(t, c.describeParam)
	assert.False(t, c.scrollableCursor)
}

func TestCapabilitiesForUnknownProductDefaultsFullySupported(t *testing.T) {
	c := capabilitiesFor(ProductUnknown)
	assert.Equal(t, defaultCapabilities, c)
}
