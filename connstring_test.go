package odbc

import "testing"

func TestBuildConnectionString(t *testing.T) {
	tests := []struct {
		name string
		p    ConnectionStringParams
		want string
	}{
		{
			name: "driver and server",
			p:    ConnectionStringParams{Driver: "PostgreSQL Unicode", Server: "db.internal", Port: "5432"},
			want: "Driver=PostgreSQL Unicode;Port=5432;Server=db.internal",
		},
		{
			name: "dsn only",
			p:    ConnectionStringParams{DSN: "mydsn", UID: "alice", PWD: "secret"},
			want: "DSN=mydsn;PWD=secret;UID=alice",
		},
		{
			name: "value needing brace quoting",
			p:    ConnectionStringParams{DSN: "mydsn", PWD: "has;semicolon"},
			want: "DSN=mydsn;PWD={has;semicolon}",
		},
		{
			name: "brace in value is doubled",
			p:    ConnectionStringParams{DSN: "mydsn", PWD: "a}b"},
			want: "DSN=mydsn;PWD={a}}b}",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			have := tt.p.BuildConnectionString()
			if have != tt.want {
				t.Errorf("\nhave: %q\nwant: %q", have, tt.want)
			}
		})
	}
}

func TestParseConnectionString(t *testing.T) {
	tests := []struct {
		in   string
		want map[string]string
	}{
		{
			in:   "DSN=mydsn;UID=alice;PWD=secret",
			want: map[string]string{"DSN": "mydsn", "UID": "alice", "PWD": "secret"},
		},
		{
			in:   "DSN=mydsn;PWD={has;semicolon}",
			want: map[string]string{"DSN": "mydsn", "PWD": "has;semicolon"},
		},
		{
			in:   "",
			want: map[string]string{},
		},
	}

	for _, tt := range tests {
		t.Run("", func(t *testing.T) {
			have := ParseConnectionString(tt.in)
			if len(have) != len(tt.want) {
				t.Fatalf("\nhave: %#v\nwant: %#v", have, tt.want)
			}
			for k, v := range tt.want {
				if have[k] != v {
					t.Errorf("key %q: have %q, want %q", k, have[k], v)
				}
			}
		})
	}
}

func TestSplitConnStringRespectsBraceQuoting(t *testing.T) {
	parts := splitConnString("A=1;B={x;y};C=3")
	want := []string{"A=1", "B={x;y}", "C=3"}
	if len(parts) != len(want) {
		t.Fatalf("have %v, want %v", parts, want)
	}
	for i := range want {
		if parts[i] != want[i] {
			t.Errorf("part %d: have %q, want %q", i, parts[i], want[i])
		}
	}
}

func TestBuildThenParseRoundTrips(t *testing.T) {
	p := ConnectionStringParams{Driver: "Driver X", Server: "host", Port: "1433", Database: "db", UID: "u", PWD: "p;q"}
	s := p.BuildConnectionString()
	got := ParseConnectionString(s)
	if got["Driver"] != p.Driver || got["Server"] != p.Server || got["Port"] != p.Port ||
		got["Database"] != p.Database || got["UID"] != p.UID || got["PWD"] != p.PWD {
		t.Errorf("round trip mismatch: %#v from %q", got, s)
	}
}
