// Copyright 2026 The sqlitekit Authors
// SPDX-License-Identifier: Apache-2.0

//go:build cgo

package sqliteh

/*
#cgo pkg-config: sqlite3
#cgo !windows LDFLAGS: -lsqlite3

#include <sqlite3.h>
#include <stdlib.h>

// cgo cannot see the SQLITE_STATIC / SQLITE_TRANSIENT macros, which
// are (void(*)(void*))0 and (void(*)(void*))-1 respectively.
static int bind_text_transient(sqlite3_stmt *s, int i, const char *p, int n) {
	if (n == 0) {
		return sqlite3_bind_text(s, i, "", 0, SQLITE_STATIC);
	}
	return sqlite3_bind_text(s, i, p, n, SQLITE_TRANSIENT);
}

static int bind_blob_transient(sqlite3_stmt *s, int i, const void *p, int n) {
	if (n == 0) {
		return sqlite3_bind_zeroblob(s, i, 0);
	}
	return sqlite3_bind_blob(s, i, p, n, SQLITE_TRANSIENT);
}
*/
import "C"

import (
	"sync"
	"time"
	"unsafe"
)

func init() {
	LibraryInit = libraryInit
	Open = openDB
}

var initOnce sync.Once
var initErr error

func libraryInit() error {
	initOnce.Do(func() {
		rc := C.sqlite3_initialize()
		if rc != C.SQLITE_OK {
			initErr = &Error{Code: Code(rc), Msg: "sqlite3_initialize failed", Loc: "initialize"}
		}
	})
	return initErr
}

type db struct {
	ptr *C.sqlite3
}

func openDB(filename string, flags OpenFlags) (DB, error) {
	cFilename := C.CString(filename)
	defer C.free(unsafe.Pointer(cFilename))

	var ptr *C.sqlite3
	rc := C.sqlite3_open_v2(cFilename, &ptr, C.int(flags), nil)
	if rc != C.SQLITE_OK {
		msg := ""
		if ptr != nil {
			msg = C.GoString(C.sqlite3_errmsg(ptr))
			C.sqlite3_close_v2(ptr)
		}
		return nil, &Error{Code: Code(rc), Msg: msg, Loc: "open"}
	}
	return &db{ptr: ptr}, nil
}

func (d *db) errorf(loc string, rc C.int) error {
	return &Error{Code: Code(rc), Msg: C.GoString(C.sqlite3_errmsg(d.ptr)), Loc: loc}
}

func (d *db) Close() error {
	if d.ptr == nil {
		return nil
	}
	rc := C.sqlite3_close_v2(d.ptr)
	d.ptr = nil
	if rc != C.SQLITE_OK {
		return &Error{Code: Code(rc), Msg: "close failed", Loc: "close"}
	}
	return nil
}

func (d *db) Prepare(query string) (Stmt, error) {
	cQuery := C.CString(query)
	defer C.free(unsafe.Pointer(cQuery))

	var s *C.sqlite3_stmt
	var tail *C.char
	rc := C.sqlite3_prepare_v2(d.ptr, cQuery, C.int(len(query))+1, &s, &tail)
	if rc != C.SQLITE_OK {
		return nil, d.errorf("prepare", rc)
	}
	if s == nil {
		// Whitespace- or comment-only input: nothing to execute.
		return nil, nil
	}
	return &stmt{ptr: s, db: d}, nil
}

func (d *db) Exec(script string) error {
	cScript := C.CString(script)
	defer C.free(unsafe.Pointer(cScript))

	var errMsg *C.char
	rc := C.sqlite3_exec(d.ptr, cScript, nil, nil, &errMsg)
	if rc != C.SQLITE_OK {
		msg := C.GoString(errMsg)
		C.sqlite3_free(unsafe.Pointer(errMsg))
		return &Error{Code: Code(rc), Msg: msg, Loc: "exec"}
	}
	return nil
}

func (d *db) Changes() int64      { return int64(C.sqlite3_changes64(d.ptr)) }
func (d *db) TotalChanges() int64 { return int64(C.sqlite3_total_changes64(d.ptr)) }
func (d *db) LastInsertRowID() int64 {
	return int64(C.sqlite3_last_insert_rowid(d.ptr))
}

func (d *db) BusyTimeout(dur time.Duration) error {
	rc := C.sqlite3_busy_timeout(d.ptr, C.int(dur.Milliseconds()))
	if rc != C.SQLITE_OK {
		return d.errorf("busy_timeout", rc)
	}
	return nil
}

type stmt struct {
	ptr *C.sqlite3_stmt
	db  *db
}

func (s *stmt) errorf(loc string, rc C.int) error {
	return s.db.errorf(loc, rc)
}

func (s *stmt) ColumnCount() int { return int(C.sqlite3_column_count(s.ptr)) }

func (s *stmt) ColumnName(col int) string {
	return C.GoString(C.sqlite3_column_name(s.ptr, C.int(col)))
}

func (s *stmt) ColumnDeclType(col int) string {
	p := C.sqlite3_column_decltype(s.ptr, C.int(col))
	if p == nil {
		return ""
	}
	return C.GoString(p)
}

func (s *stmt) BindParameterCount() int {
	return int(C.sqlite3_bind_parameter_count(s.ptr))
}

func (s *stmt) BindNull(pos int) error {
	rc := C.sqlite3_bind_null(s.ptr, C.int(pos))
	if rc != C.SQLITE_OK {
		return s.errorf("bind_null", rc)
	}
	return nil
}

func (s *stmt) BindInt64(pos int, v int64) error {
	rc := C.sqlite3_bind_int64(s.ptr, C.int(pos), C.sqlite3_int64(v))
	if rc != C.SQLITE_OK {
		return s.errorf("bind_int64", rc)
	}
	return nil
}

func (s *stmt) BindDouble(pos int, v float64) error {
	rc := C.sqlite3_bind_double(s.ptr, C.int(pos), C.double(v))
	if rc != C.SQLITE_OK {
		return s.errorf("bind_double", rc)
	}
	return nil
}

func (s *stmt) BindText(pos int, v string) error {
	var cStr *C.char
	if len(v) > 0 {
		cStr = C.CString(v)
		defer C.free(unsafe.Pointer(cStr))
	}
	rc := C.bind_text_transient(s.ptr, C.int(pos), cStr, C.int(len(v)))
	if rc != C.SQLITE_OK {
		return s.errorf("bind_text", rc)
	}
	return nil
}

func (s *stmt) BindBlob(pos int, v []byte) error {
	var ptr unsafe.Pointer
	if len(v) > 0 {
		ptr = C.CBytes(v)
		defer C.free(ptr)
	}
	rc := C.bind_blob_transient(s.ptr, C.int(pos), ptr, C.int(len(v)))
	if rc != C.SQLITE_OK {
		return s.errorf("bind_blob", rc)
	}
	return nil
}

func (s *stmt) Step() (bool, error) {
	rc := C.sqlite3_step(s.ptr)
	switch rc {
	case C.SQLITE_ROW:
		return true, nil
	case C.SQLITE_DONE:
		return false, nil
	default:
		return false, s.errorf("step", rc)
	}
}

func (s *stmt) ColumnType(col int) ColumnType {
	return ColumnType(C.sqlite3_column_type(s.ptr, C.int(col)))
}

func (s *stmt) ColumnInt64(col int) int64 {
	return int64(C.sqlite3_column_int64(s.ptr, C.int(col)))
}

func (s *stmt) ColumnDouble(col int) float64 {
	return float64(C.sqlite3_column_double(s.ptr, C.int(col)))
}

func (s *stmt) ColumnText(col int) string {
	n := C.sqlite3_column_bytes(s.ptr, C.int(col))
	p := C.sqlite3_column_text(s.ptr, C.int(col))
	if p == nil || n == 0 {
		return ""
	}
	return C.GoStringN((*C.char)(unsafe.Pointer(p)), n)
}

func (s *stmt) ColumnBlob(col int) []byte {
	n := C.sqlite3_column_bytes(s.ptr, C.int(col))
	if n == 0 {
		return nil
	}
	p := C.sqlite3_column_blob(s.ptr, C.int(col))
	return C.GoBytes(p, n)
}

func (s *stmt) Reset() error {
	rc := C.sqlite3_reset(s.ptr)
	if rc != C.SQLITE_OK {
		return s.errorf("reset", rc)
	}
	rc = C.sqlite3_clear_bindings(s.ptr)
	if rc != C.SQLITE_OK {
		return s.errorf("clear_bindings", rc)
	}
	return nil
}

func (s *stmt) Finalize() error {
	if s.ptr == nil {
		return nil
	}
	rc := C.sqlite3_finalize(s.ptr)
	s.ptr = nil
	if rc != C.SQLITE_OK {
		return s.errorf("finalize", rc)
	}
	return nil
}
