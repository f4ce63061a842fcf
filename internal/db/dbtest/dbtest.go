// Package dbtest provides in-memory stand-ins for the pooled connection a
// unit of work drives, so lifecycle and query behavior can be tested without
// a running database.
package dbtest

import (
	"context"
	"errors"
	"reflect"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Statement is one recorded SQL call with its bound arguments.
type Statement struct {
	SQL  string
	Args []any
}

// RowValues is one result row for a queued query result.
type RowValues []any

// ExecResult is one queued response for Exec.
type ExecResult struct {
	Tag pgconn.CommandTag
	Err error
}

// RowResult is one queued response for QueryRow.
type RowResult struct {
	Values []any
	Err    error
}

// QueryResult is one queued response for Query.
type QueryResult struct {
	Rows []RowValues
	Err  error
}

// Recorder collects statements and serves queued responses shared between a
// fake connection and the transaction it began.
type Recorder struct {
	Statements   []Statement
	ExecResults  []ExecResult
	RowResults   []RowResult
	QueryResults []QueryResult
}

func (r *Recorder) record(sql string, args []any) {
	r.Statements = append(r.Statements, Statement{SQL: sql, Args: args})
}

func (r *Recorder) nextExec() (pgconn.CommandTag, error) {
	if len(r.ExecResults) == 0 {
		return pgconn.CommandTag{}, nil
	}
	res := r.ExecResults[0]
	r.ExecResults = r.ExecResults[1:]
	return res.Tag, res.Err
}

func (r *Recorder) nextRow() *FakeRow {
	if len(r.RowResults) == 0 {
		return &FakeRow{Err: pgx.ErrNoRows}
	}
	res := r.RowResults[0]
	r.RowResults = r.RowResults[1:]
	return &FakeRow{Values: res.Values, Err: res.Err}
}

func (r *Recorder) nextQuery() (pgx.Rows, error) {
	if len(r.QueryResults) == 0 {
		return &FakeRows{}, nil
	}
	res := r.QueryResults[0]
	r.QueryResults = r.QueryResults[1:]
	if res.Err != nil {
		return nil, res.Err
	}
	return &FakeRows{rows: res.Rows}, nil
}

// Tag builds a command tag like "INSERT 0 1" or "DELETE 0".
func Tag(s string) pgconn.CommandTag {
	return pgconn.NewCommandTag(s)
}

// FakeConn implements db.PooledConn.
type FakeConn struct {
	Recorder

	BeginErr error
	Tx       *FakeTx
	Releases int
}

// NewFakeConn builds a fake connection ready to begin one transaction.
func NewFakeConn() *FakeConn {
	c := &FakeConn{}
	c.Tx = &FakeTx{rec: &c.Recorder}
	return c
}

func (c *FakeConn) Begin(ctx context.Context) (pgx.Tx, error) {
	if c.BeginErr != nil {
		return nil, c.BeginErr
	}
	c.Tx.Began = true
	return c.Tx, nil
}

func (c *FakeConn) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	c.record(sql, args)
	return c.nextExec()
}

func (c *FakeConn) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	c.record(sql, args)
	return c.nextQuery()
}

func (c *FakeConn) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	c.record(sql, args)
	return c.nextRow()
}

func (c *FakeConn) Release() {
	c.Releases++
}

// FakeTx implements pgx.Tx over the connection's shared recorder.
type FakeTx struct {
	rec *Recorder

	Began       bool
	Commits     int
	Rollbacks   int
	CommitErr   error
	RollbackErr error
}

func (t *FakeTx) Begin(ctx context.Context) (pgx.Tx, error) {
	return t, nil
}

func (t *FakeTx) Commit(ctx context.Context) error {
	t.Commits++
	return t.CommitErr
}

func (t *FakeTx) Rollback(ctx context.Context) error {
	t.Rollbacks++
	return t.RollbackErr
}

func (t *FakeTx) CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error) {
	return 0, errors.New("dbtest: CopyFrom not supported")
}

func (t *FakeTx) SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults {
	return nil
}

func (t *FakeTx) LargeObjects() pgx.LargeObjects {
	return pgx.LargeObjects{}
}

func (t *FakeTx) Prepare(ctx context.Context, name, sql string) (*pgconn.StatementDescription, error) {
	return nil, errors.New("dbtest: Prepare not supported")
}

func (t *FakeTx) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	t.rec.record(sql, args)
	return t.rec.nextExec()
}

func (t *FakeTx) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	t.rec.record(sql, args)
	return t.rec.nextQuery()
}

func (t *FakeTx) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	t.rec.record(sql, args)
	return t.rec.nextRow()
}

func (t *FakeTx) Conn() *pgx.Conn {
	return nil
}

// FakeRow implements pgx.Row.
type FakeRow struct {
	Values []any
	Err    error
}

func (r *FakeRow) Scan(dest ...any) error {
	if r.Err != nil {
		return r.Err
	}
	return assign(dest, r.Values)
}

// FakeRows implements pgx.Rows over preset row values.
type FakeRows struct {
	rows    []RowValues
	idx     int
	closed  bool
	scanErr error
}

// NewFakeRows builds a result set from the given rows.
func NewFakeRows(rows ...RowValues) *FakeRows {
	return &FakeRows{rows: rows}
}

func (r *FakeRows) Close()                                       { r.closed = true }
func (r *FakeRows) Err() error                                   { return r.scanErr }
func (r *FakeRows) CommandTag() pgconn.CommandTag                { return pgconn.CommandTag{} }
func (r *FakeRows) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (r *FakeRows) RawValues() [][]byte                          { return nil }
func (r *FakeRows) Conn() *pgx.Conn                              { return nil }

func (r *FakeRows) Next() bool {
	if r.closed || r.idx >= len(r.rows) {
		return false
	}
	r.idx++
	return true
}

func (r *FakeRows) Scan(dest ...any) error {
	if r.idx == 0 || r.idx > len(r.rows) {
		return errors.New("dbtest: Scan called without Next")
	}
	return assign(dest, r.rows[r.idx-1])
}

func (r *FakeRows) Values() ([]any, error) {
	if r.idx == 0 || r.idx > len(r.rows) {
		return nil, errors.New("dbtest: Values called without Next")
	}
	return r.rows[r.idx-1], nil
}

// assign copies source values into scan destinations, tolerating nils for
// nullable columns.
func assign(dest []any, src []any) error {
	if len(dest) != len(src) {
		return errors.New("dbtest: scan destination count does not match row values")
	}
	for i, d := range dest {
		dv := reflect.ValueOf(d)
		if dv.Kind() != reflect.Ptr || dv.IsNil() {
			return errors.New("dbtest: scan destination must be a non-nil pointer")
		}
		elem := dv.Elem()
		if src[i] == nil {
			elem.Set(reflect.Zero(elem.Type()))
			continue
		}
		sv := reflect.ValueOf(src[i])
		if !sv.Type().AssignableTo(elem.Type()) {
			if sv.Type().ConvertibleTo(elem.Type()) {
				sv = sv.Convert(elem.Type())
			} else {
				return errors.New("dbtest: cannot assign " + sv.Type().String() + " to " + elem.Type().String())
			}
		}
		elem.Set(sv)
	}
	return nil
}
