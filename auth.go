package odbc

// NewGSSFunc creates a GSS authentication provider, for use with
// RegisterGSSProvider. Grounded on the teacher's gssapi.go/krb.go: same
// registration-callback shape, because the core has the identical
// problem the teacher does — integrated Kerberos/SSPI auth needs a
// platform-specific implementation the core itself must stay free of.
type NewGSSFunc func() (Gss, error)

var newGss NewGSSFunc

// RegisterGSSProvider registers the function used to create a GSS
// authentication provider. A caller that needs Kerberos/SSPI-negotiated
// login against a driver that requests it (SQL_ATTR_CONNECTION_POOLING
// aside, this applies to SQL Server's integrated security and similar)
// calls this from an init() in its own package, e.g.:
//
//	import "github.com/lib/odbc/auth/krbauth"
//
//	func init() {
//		odbc.RegisterGSSProvider(func() (odbc.Gss, error) { return krbauth.NewGSS() })
//	}
func RegisterGSSProvider(fn NewGSSFunc) {
	newGss = fn
}

// Gss is the interface a GSS authentication provider implements. Only
// GSS provider authors need to care about this; ordinary callers just
// register one.
type Gss interface {
	GetInitToken(host, service string) ([]byte, error)
	GetInitTokenFromSpn(spn string) ([]byte, error)
	Continue(inToken []byte) (done bool, outToken []byte, err error)
}

// gssToken obtains an initial negotiate token from the registered
// provider, or (nil, false) if none is registered (SPEC_FULL §3: gokrb5/sspi
// are kept teacher dependencies whose only home in the core is this
// optional hook). Open and OpenByConnectionString do not call it; the
// registered provider takes no part in opening a connection.
func gssToken(host, service string) ([]byte, bool, error) {
	if newGss == nil {
		return nil, false, nil
	}
	g, err := newGss()
	if err != nil {
		return nil, false, err
	}
	tok, err := g.GetInitToken(host, service)
	if err != nil {
		return nil, false, err
	}
	return tok, true, nil
}
