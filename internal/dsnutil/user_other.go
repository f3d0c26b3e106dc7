//go:build js || android || hurd || zos || wasip1 || appengine

package dsnutil

import "errors"

func User() (string, error) {
	return "", errors.New("dsnutil.User: not supported on current platform")
}
