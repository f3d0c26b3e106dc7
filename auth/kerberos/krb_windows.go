// +build windows

// Package kerberos implements odbc.Gss via Windows SSPI negotiate,
// registered with odbc.RegisterGSSProvider by a caller that needs
// integrated authentication against a driver requesting it.
package kerberos

import (
	"net"

	"github.com/alexbrainman/sspi"
	"github.com/alexbrainman/sspi/negotiate"
)

// canonicalizeHostname resolves host to its canonical DNS name, the form
// SQL Server and similar drivers expect in the service principal name.
// Falls back to host unchanged if the lookup fails.
func canonicalizeHostname(host string) (string, error) {
	cname, err := net.LookupCNAME(host)
	if err != nil {
		return host, nil
	}
	if len(cname) > 0 && cname[len(cname)-1] == '.' {
		cname = cname[:len(cname)-1]
	}
	return cname, nil
}

// Gss implements odbc.Gss.
type Gss struct {
	creds *sspi.Credentials
	ctx   *negotiate.ClientContext
}

func NewGSS() (*Gss, error) {
	g := &Gss{}
	err := g.init()

	if err != nil {
		return nil, err
	}

	return g, nil
}

func (g *Gss) init() error {
	creds, err := negotiate.AcquireCurrentUserCredentials()
	if err != nil {
		return err
	}

	g.creds = creds
	return nil
}

func (g *Gss) GetInitToken(host string, service string) ([]byte, error) {

	host, err := canonicalizeHostname(host)
	if err != nil {
		return nil, err
	}

	spn := service + "/" + host

	return g.GetInitTokenFromSpn(spn)
}

func (g *Gss) GetInitTokenFromSpn(spn string) ([]byte, error) {
	ctx, token, err := negotiate.NewClientContext(g.creds, spn)
	if err != nil {
		return nil, err
	}

	g.ctx = ctx

	return token, nil
}

func (g *Gss) Continue(inToken []byte) (done bool, outToken []byte, err error) {
	return g.ctx.Update(inToken)
}
