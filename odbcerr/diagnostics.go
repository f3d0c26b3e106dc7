// Package odbcerr implements spec §4.1 (Diagnostics) and §7 (Error Handling
// Design): extracting SQLGetDiagRec records from a CLI handle after every
// call, and the discriminated error-kind taxonomy those records feed into.
//
// Grounded on the teacher's error.go (lib/pq): a single exported Error type
// carrying a five-character SQLSTATE plus a classification table, the same
// shape spec §4.1/§7 ask for, adapted from Postgres wire-protocol error
// fields to ODBC diagnostic records.
package odbcerr

import (
	"fmt"

	"github.com/lib/odbc/cli"
	"github.com/lib/odbc/utfconv"
)

// HYC00 is the well-known "optional feature not implemented" SQLSTATE a
// driver returns when it lacks a capability the core asked for (e.g.
// SQLPrimaryKeys on Access). Exposed so higher layers can detect driver
// limitations without hard-coding the string everywhere, per spec §4.1.
const HYC00 = "HYC00"

// DiagnosticRecord is one row of driver diagnostics: the kind of handle it
// was reported against, the five-character SQL state, the driver's native
// error integer, and the message text.
type DiagnosticRecord struct {
	HandleType cli.HandleType
	State      string
	NativeErr  int32
	Message    string
}

func (d DiagnosticRecord) String() string {
	return fmt.Sprintf("[%s:%s] %s (native %d)", d.HandleType, d.State, d.Message, d.NativeErr)
}

// Class returns the two-character SQLSTATE class, e.g. "HY" for HYC00.
func (d DiagnosticRecord) Class() string {
	if len(d.State) < 2 {
		return d.State
	}
	return d.State[:2]
}

// ExtractDiagnostics walks SQLGetDiagRec starting at record 1 until the
// CLI reports NoData, same algorithm the teacher's diagnostics code uses
// to drain a Postgres ErrorResponse's field list one field at a time.
//
// Extraction itself must never panic: if the CLI misbehaves (garbage
// return code, handle torn down mid-call) this synthesises a single
// pseudo-record describing the extraction failure rather than letting the
// failure propagate, per spec §4.1.
func ExtractDiagnostics(typ cli.HandleType, handle cli.Handle) (records []DiagnosticRecord) {
	defer func() {
		if r := recover(); r != nil {
			records = []DiagnosticRecord{{
				HandleType: typ,
				State:      "HY000",
				Message:    fmt.Sprintf("odbcerr: diagnostic extraction panicked: %v", r),
			}}
		}
	}()

	for recNr := int16(1); ; recNr++ {
		state, native, msg, ret := cli.DiagRec(typ, handle, recNr)
		if ret == cli.NoData {
			break
		}
		if ret == cli.InvalidHandle {
			records = append(records, DiagnosticRecord{
				HandleType: typ,
				State:      "HY000",
				Message:    "odbcerr: handle became invalid while extracting diagnostics",
			})
			break
		}
		stateStr, err := utfconv.FromUTF16(state[:])
		if err != nil {
			stateStr = "HY000"
		}
		msgStr, err := utfconv.FromUTF16(msg)
		if err != nil {
			msgStr = "(unreadable diagnostic message)"
		}
		records = append(records, DiagnosticRecord{
			HandleType: typ,
			State:      stateStr,
			NativeErr:  native,
			Message:    msgStr,
		})
		// a well-behaved driver stops producing records once recNr
		// exceeds what it has; this bound exists only to keep a
		// misbehaving one from spinning forever.
		if recNr > 1<<14 {
			break
		}
	}
	return records
}

// HasState reports whether any record in records carries the given
// five-character SQLSTATE.
func HasState(records []DiagnosticRecord, state string) bool {
	for _, r := range records {
		if r.State == state {
			return true
		}
	}
	return false
}
