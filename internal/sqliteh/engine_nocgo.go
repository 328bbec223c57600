// Copyright 2026 The sqlitekit Authors
// SPDX-License-Identifier: Apache-2.0

//go:build !cgo

package sqliteh

import "errors"

// ErrCGORequired is returned by Open when this binary was built with
// CGO_ENABLED=0. The engine is a linked native library; there is no
// pure-Go fallback in this package (see DESIGN.md for why one was not
// added).
var ErrCGORequired = errors.New("sqliteh: built without cgo; rebuild with CGO_ENABLED=1 and libsqlite3 available")

func init() {
	LibraryInit = func() error { return ErrCGORequired }
	Open = func(string, OpenFlags) (DB, error) { return nil, ErrCGORequired }
}
