// Package odbc is the core: a typed, safe layer over the ODBC
// call-level interface (package github.com/lib/odbc/cli).
package odbc

import (
	"sync"

	"github.com/lib/odbc/cli"
	"github.com/lib/odbc/odbcerr"
)

// handleCore is the machinery shared by every owning handle wrapper: an
// opaque CLI handle plus its allocation state. Spec §4.2 invariants:
// (a) if allocated, parent is allocated; (b) destruction frees the child
// before the parent can be dropped; (c) exactly one owner, sharing is by
// shared reference.
//
// The teacher has no handle hierarchy of its own (a Postgres wire
// connection is flat), but conn.go's alloc/teardown ordering — open the
// socket, then never let the conn be collected while a stmt still
// references it — is the same shape spec §4.2 asks for; this is
// generalised into an explicit parent-handle chain instead of relying on
// a GC finalizer.
type handleCore struct {
	mu        sync.Mutex
	typ       cli.HandleType
	h         cli.Handle
	allocated bool
}

func (c *handleCore) isAllocated() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.allocated
}

func (c *handleCore) raw() cli.Handle {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.h
}

// alloc allocates c's CLI handle as a child of parent (nil for Env).
// Fails if c is already allocated, or if parent is non-nil and not
// itself allocated (spec §4.2: "Allocate fails if already allocated").
func (c *handleCore) alloc(parent *handleCore) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.allocated {
		return odbcerr.NewAssertion("handle not allocated", "handle already allocated")
	}
	var parentHandle cli.Handle
	if parent != nil {
		if !parent.isAllocated() {
			return odbcerr.NewAssertion("parent allocated", "cannot allocate child of an unallocated parent")
		}
		parentHandle = parent.raw()
	}
	h, ret := cli.AllocHandle(c.typ, parentHandle)
	if ret.IsError() {
		pType, pHandle := cli.HandleEnv, cli.Handle(nil)
		if parent != nil {
			pType, pHandle = parent.typ, parent.raw()
		}
		return odbcerr.NewSqlResult("SQLAllocHandle", pType, pHandle, ret)
	}
	c.h = h
	c.allocated = true
	return nil
}

// free releases c's CLI handle. Per spec §4.2: on Error the wrapper
// surfaces the error but retains the handle as live (the CLI contract is
// that the handle is still valid); on InvalidHandle the wrapper forgets
// the handle.
func (c *handleCore) free() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.allocated {
		return odbcerr.NewAssertion("handle allocated", "cannot free a handle that was never allocated")
	}
	ret := cli.FreeHandle(c.typ, c.h)
	switch {
	case ret == cli.InvalidHandle:
		c.allocated = false
		return odbcerr.NewSqlResult("SQLFreeHandle", c.typ, c.h, ret)
	case ret.IsError():
		// still allocated, by CLI contract
		return odbcerr.NewSqlResult("SQLFreeHandle", c.typ, c.h, ret)
	default:
		c.allocated = false
		return nil
	}
}

// Environment owns the CLI environment handle, the root of the handle
// hierarchy (spec §3). Shareable across Databases by shared reference
// (spec §5).
type Environment struct {
	core    handleCore
	version int // requested ODBC version: 2 or 3
	logger  Logger
}

// NewEnvironment allocates a CLI environment handle and requests the
// given ODBC version (2 or 3) via SQL_ATTR_ODBC_VERSION.
func NewEnvironment(odbcVersion int, opts ...EnvironmentOption) (*Environment, error) {
	e := &Environment{core: handleCore{typ: cli.HandleEnv}, version: odbcVersion, logger: nopLogger{}}
	for _, opt := range opts {
		opt(e)
	}
	if err := e.core.alloc(nil); err != nil {
		return nil, err
	}
	const attrODBCVersion = 200 // SQL_ATTR_ODBC_VERSION
	if ret := cli.SetEnvAttr(e.core.raw(), attrODBCVersion, uintptr(odbcVersion)); ret.IsError() {
		err := odbcerr.NewSqlResult("SQLSetEnvAttr", cli.HandleEnv, e.core.raw(), ret)
		_ = e.core.free()
		return nil, err
	}
	return e, nil
}

// EnvironmentOption configures an Environment at construction time.
type EnvironmentOption func(*Environment)

// WithLogger attaches a logger used for warnings the core would
// otherwise swallow (version downgrades, close-path failures). Defaults
// to a no-op logger — a reusable core must never force output onto a
// host program (SPEC_FULL §2.3).
func WithLogger(l Logger) EnvironmentOption {
	return func(e *Environment) { e.logger = l }
}

// Close frees the environment handle. Safe to call once; the core does
// not need Environments to be reusable after Close.
func (e *Environment) Close() error {
	return e.core.free()
}

// statementFreedObserver is the interface a ColumnBuffer implements so a
// Statement can notify it when the statement is freed — the
// bidirectional notification spec §4.2/§9 requires, modeled as a
// plain observer list rather than the teacher's signal/slot analogue
// (Postgres wire conns have nothing like it; this is synthesised
// directly from spec §4.2/§9 and exOdbc's SqlCBuffer/Statement mutual
// deregistration).
type statementFreedObserver interface {
	onStatementFreed(s *Statement)
}

// Statement owns a CLI statement handle. It tracks which ColumnBuffers
// are currently bound to it so that, on Free, it can notify each one to
// drop its own tracking of this statement — preventing a bound buffer
// from holding a dangling reference into a handle the driver has already
// reused (spec §4.2).
type Statement struct {
	core   handleCore
	dbc    *Connection
	mu     sync.Mutex
	bound  map[int]statementFreedObserver // keyed by an id the buffer assigns
	nextID int
}

func newStatement(dbc *Connection) (*Statement, error) {
	s := &Statement{core: handleCore{typ: cli.HandleStmt}, dbc: dbc, bound: make(map[int]statementFreedObserver)}
	if err := s.core.alloc(&dbc.core); err != nil {
		return nil, err
	}
	return s, nil
}

// registerBinding records that observer is bound to this statement,
// returning an id the observer must pass to unregisterBinding on its own
// teardown (the other half of the bidirectional notification).
func (s *Statement) registerBinding(observer statementFreedObserver) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID
	s.nextID++
	s.bound[id] = observer
	return id
}

func (s *Statement) unregisterBinding(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.bound, id)
}

// Close frees the statement handle and notifies every still-bound
// ColumnBuffer so it drops its tracking of this statement (spec §4.2).
func (s *Statement) Close() error {
	s.mu.Lock()
	observers := make([]statementFreedObserver, 0, len(s.bound))
	for _, o := range s.bound {
		observers = append(observers, o)
	}
	s.bound = make(map[int]statementFreedObserver)
	s.mu.Unlock()

	for _, o := range observers {
		o.onStatementFreed(s)
	}
	return s.core.free()
}

// resetCursor performs SQLFreeStmt(SQL_CLOSE), closing any open cursor
// without freeing the handle — used between successive Select calls on
// the same shared statement (spec §4.5, §5 "Ordering guarantees").
func (s *Statement) resetCursor() error {
	if ret := cli.FreeStmt(s.core.raw(), cli.CloseCursor); ret.IsError() {
		return odbcerr.NewSqlResult("SQLFreeStmt", cli.HandleStmt, s.core.raw(), ret)
	}
	return nil
}

// SetQueryTimeout sets SQL_ATTR_QUERY_TIMEOUT in seconds on the
// underlying statement handle. Recovered from
// original_source/.../ExecutableStatement.h (SPEC_FULL §4): a single
// blocking call bounded by a timeout is not the asynchronous execution
// spec §1 excludes as a Non-goal.
func (s *Statement) SetQueryTimeout(seconds uint32) error {
	if ret := cli.SetConnectAttr(s.core.raw(), cli.AttrQueryTimeout, uintptr(seconds)); ret.IsError() {
		return odbcerr.NewSqlResult("SQLSetStmtAttr", cli.HandleStmt, s.core.raw(), ret)
	}
	return nil
}
