package odbc

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGss struct {
	token []byte
	err   error
}

func (f *fakeGss) GetInitToken(host, service string) ([]byte, error) { return f.token, f.err }
func (f *fakeGss) GetInitTokenFromSpn(spn string) ([]byte, error)    { return f.token, f.err }
func (f *fakeGss) Continue(inToken []byte) (bool, []byte, error)     { return true, nil, nil }

func TestGssTokenNoProviderRegistered(t *testing.T) {
	newGss = nil
	tok, ok, err := gssToken("dbhost", "MSSQLSvc")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, tok)
}

func TestGssTokenUsesRegisteredProvider(t *testing.T) {
	t.Cleanup(func() { newGss = nil })
	RegisterGSSProvider(func() (Gss, error) {
		return &fakeGss{token: []byte("negotiate-token")}, nil
	})

	tok, ok, err := gssToken("dbhost", "MSSQLSvc")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []byte("negotiate-token"), tok)
}

func TestGssTokenPropagatesProviderConstructionError(t *testing.T) {
	t.Cleanup(func() { newGss = nil })
	boom := errors.New("kinit failed")
	RegisterGSSProvider(func() (Gss, error) { return nil, boom })

	_, ok, err := gssToken("dbhost", "MSSQLSvc")
	assert.False(t, ok)
	assert.ErrorIs(t, err, boom)
}

func TestGssTokenPropagatesTokenError(t *testing.T) {
	t.Cleanup(func() { newGss = nil })
	boom := errors.New("no ticket")
	RegisterGSSProvider(func() (Gss, error) { return &fakeGss{err: boom}, nil })

	_, ok, err := gssToken("dbhost", "MSSQLSvc")
	assert.False(t, ok)
	assert.ErrorIs(t, err, boom)
}
