// Copyright 2026 The sqlitekit Authors
// SPDX-License-Identifier: Apache-2.0

package sqlitekit

// TxKind selects the locking behavior SQLite's BEGIN statement takes
// at transaction start. https://sqlite.org/lang_transaction.html
type TxKind int

const (
	// TxDeferred acquires no lock until the first statement that needs
	// one. The default.
	TxDeferred TxKind = iota
	// TxImmediate acquires a write lock immediately, failing fast with
	// SQLITE_BUSY instead of deadlocking later.
	TxImmediate
	// TxExclusive acquires an exclusive lock immediately, preventing
	// even other readers from proceeding.
	TxExclusive
)

func (k TxKind) beginStatement() string {
	switch k {
	case TxImmediate:
		return "BEGIN IMMEDIATE;"
	case TxExclusive:
		return "BEGIN EXCLUSIVE;"
	default:
		return "BEGIN DEFERRED;"
	}
}

// Tx is the scoped view of a Conn available only inside
// Conn.Transaction's block. It exposes the same fetch/run/exec surface
// as Conn; the parent Conn itself must not be used from inside the
// block — the transaction borrows it exclusively for the block's
// duration.
type Tx struct {
	conn *Conn
}

// Execute runs script within the transaction.
func (t *Tx) Execute(script string) error { return t.conn.Execute(script) }

// Run prepares q, steps it once, and returns execution stats.
func (t *Tx) Run(q Query) (ExecResult, error) { return t.conn.Run(q) }

// Exec is Run with the ExecResult discarded.
func (t *Tx) Exec(q Query) error { return t.conn.Exec(q) }

// FetchAll prepares q and returns every row.
func (t *Tx) FetchAll(q Query) ([]*Row, error) { return t.conn.FetchAll(q) }

// FetchOne prepares q and requires exactly one row.
func (t *Tx) FetchOne(q Query) (*Row, error) { return t.conn.FetchOne(q) }

// FetchOptional prepares q and returns at most one row.
func (t *Tx) FetchOptional(q Query) (*Row, error) { return t.conn.FetchOptional(q) }

// FetchAllInto prepares q and decodes every row into dest.
func (t *Tx) FetchAllInto(q Query, dest any) error { return t.conn.FetchAllInto(q, dest) }

// FetchOneInto prepares q and decodes exactly one row into dest.
func (t *Tx) FetchOneInto(q Query, dest any) error { return t.conn.FetchOneInto(q, dest) }

// FetchOptionalInto prepares q and decodes at most one row into dest.
func (t *Tx) FetchOptionalInto(q Query, dest any) (bool, error) {
	return t.conn.FetchOptionalInto(q, dest)
}

// FetchOneTuple prepares q and decodes exactly one row positionally
// into dest.
func (t *Tx) FetchOneTuple(q Query, dest ...any) error {
	return t.conn.FetchOneTuple(q, dest...)
}

// FetchOptionalTuple prepares q and decodes at most one row
// positionally into dest.
func (t *Tx) FetchOptionalTuple(q Query, dest ...any) (bool, error) {
	return t.conn.FetchOptionalTuple(q, dest...)
}

// FetchAllTuple prepares q and decodes every row positionally into
// dest (one *[]T per column).
func (t *Tx) FetchAllTuple(q Query, dest ...any) error {
	return t.conn.FetchAllTuple(q, dest...)
}

// Preparing prepares q and invokes block with the live Stmt.
func (t *Tx) Preparing(q Query, block func(*Stmt) error) error {
	return t.conn.Preparing(q, block)
}

// Transaction runs block inside a transaction of the given kind. A
// block that returns nil commits; a block that returns an error rolls
// back and returns that error; a block that panics rolls back and
// re-raises the panic. The parent Conn must not be used concurrently
// with or from inside block — block receives the only valid handle
// (via the *Tx argument) for the transaction's duration.
func (c *Conn) Transaction(kind TxKind, block func(*Tx) error) error {
	if err := c.checkOpen(); err != nil {
		return err
	}
	if err := c.engine.execute(kind.beginStatement()); err != nil {
		return err
	}

	committed := false
	defer func() {
		if !committed {
			// Best-effort rollback; a rollback failure here means the
			// connection is in worse shape than the original error, so
			// it is logged rather than replacing the real cause.
			if err := c.engine.execute("ROLLBACK;"); err != nil {
				c.engine.logger.Error("sqlitekit: rollback failed", "error", err)
			}
		}
	}()

	if err := block(&Tx{conn: c}); err != nil {
		return err
	}

	if err := c.engine.execute("COMMIT;"); err != nil {
		return err
	}
	committed = true
	return nil
}
