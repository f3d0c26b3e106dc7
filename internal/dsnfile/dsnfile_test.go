package dsnfile

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLookup(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "odbcpwd")
	contents := "# comment line\n" +
		"mydsn:*:*:alice:secret1\n" +
		"*:1433:mydb:bob:secret2\n" +
		"otherdsn:*:*:*:secret3\n"
	if err := os.WriteFile(path, []byte(contents), 0o600); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name                          string
		dsn, host, port, database, uid string
		want                          string
	}{
		{"exact dsn and uid match", "mydsn", "", "", "", "alice", "secret1"},
		{"wildcard dsn, exact port/db/uid", "anydsn", "", "1433", "mydb", "bob", "secret2"},
		{"wildcard everything but dsn", "otherdsn", "", "", "", "anyone", "secret3"},
		{"no match", "nomatch", "", "", "", "nobody", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Lookup(tt.dsn, tt.host, tt.port, tt.database, tt.uid, path)
			if got != tt.want {
				t.Errorf("have %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLookupMissingFileReturnsEmpty(t *testing.T) {
	got := Lookup("dsn", "", "", "", "uid", filepath.Join(t.TempDir(), "does-not-exist"))
	if got != "" {
		t.Errorf("have %q, want empty", got)
	}
}

func TestSplitFieldsEscapedColon(t *testing.T) {
	fields := splitFields(`a:b\:c:d:e:f`)
	want := []string{"a", "b:c", "d", "e", "f"}
	if len(fields) != len(want) {
		t.Fatalf("have %v, want %v", fields, want)
	}
	for i := range want {
		if fields[i] != want[i] {
			t.Errorf("field %d: have %q, want %q", i, fields[i], want[i])
		}
	}
}
