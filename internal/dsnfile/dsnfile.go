// Package dsnfile resolves a password for a DSN from a per-user
// credentials file when the caller did not supply one directly — an
// optional convenience layer used by OpenByDSN.
//
// Adapted from the teacher's internal/pgpass: same line format idea
// (colon-delimited fields, "*" wildcard, "#" comments), with entries of the
// form dsn:port:database:uid:password instead of libpq's
// host:port:dbname:user:password. The host argument is not a field of
// the file; it only decides whether a "localhost" port entry applies.
package dsnfile

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"

	"github.com/lib/odbc/internal/dsnutil"
)

// Lookup finds the password entry in the credentials file matching
// dsn/port/database/uid. Returns "" if no file is configured, no
// entry matches, or the file fails the permission check in
// dsnutil.PasswordFile.
func Lookup(dsn, host, port, database, uid, explicitPath string) string {
	path := dsnutil.PasswordFile(explicitPath)
	if path == "" {
		return ""
	}

	fp, err := os.Open(path)
	if err != nil {
		return ""
	}
	defer fp.Close()

	scan := bufio.NewScanner(fp)
	for scan.Scan() {
		line := scan.Text()
		if len(line) == 0 || line[0] == '#' {
			continue
		}
		fields := splitFields(line)
		if len(fields) != 5 {
			continue
		}
		socket := host == "" || filepath.IsAbs(host) || strings.HasPrefix(host, "@")
		if (fields[0] == "*" || fields[0] == dsn || (fields[0] == "localhost" && socket)) &&
			(fields[1] == "*" || fields[1] == port) &&
			(fields[2] == "*" || fields[2] == database) &&
			(fields[3] == "*" || fields[3] == uid) {
			return fields[4]
		}
	}
	return ""
}

// splitFields splits a credentials-file line on unescaped ':'.
func splitFields(s string) []string {
	var (
		fs  = make([]string, 0, 5)
		f   = make([]rune, 0, len(s))
		esc bool
	)
	for _, c := range s {
		switch {
		case esc:
			f, esc = append(f, c), false
		case c == '\\':
			esc = true
		case c == ':':
			fs, f = append(fs, string(f)), f[:0]
		default:
			f = append(f, c)
		}
	}
	return append(fs, string(f))
}
