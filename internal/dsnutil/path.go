package dsnutil

import (
	"fmt"
	"os"
	"os/user"
	"path/filepath"
	"runtime"
)

// Home gets the user's home directory, the base PasswordFile uses to
// locate the per-user ~/.odbcpwd file.
func Home() string {
	if runtime.GOOS == "windows" {
		ad := os.Getenv("APPDATA")
		if ad == "" {
			return ""
		}
		return filepath.Join(ad, "odbc")
	}

	home, _ := os.UserHomeDir()
	if home == "" {
		u, err := user.Current()
		if err != nil {
			return ""
		}
		home = u.HomeDir
	}
	return home
}

// PasswordFile gets the filepath to the credentials file to use for
// looking up a DSN's password when the caller did not supply one,
// returning "" if no such file should be used. Adapted from the
// teacher's pgpass.go/pqutil.Pgpass: same "explicit path, else
// ~/.odbcpwd, else none" resolution and same world/group-readable
// rejection, renamed to ODBC's per-user credentials file instead of
// libpq's ~/.pgpass.
func PasswordFile(explicitPath string) string {
	path := explicitPath
	if path == "" {
		home := Home()
		if home == "" {
			return ""
		}
		path = filepath.Join(home, ".odbcpwd")
	}

	if runtime.GOOS != "windows" {
		fi, err := os.Stat(path)
		if err != nil {
			return ""
		}
		if fi.Mode().Perm()&0o077 != 0 {
			fmt.Fprintf(os.Stderr,
				"WARNING: credentials file %q has group or world access; permissions should be u=rw (0600) or less\n",
				path)
			return ""
		}
	}
	return path
}
