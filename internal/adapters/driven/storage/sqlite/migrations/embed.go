// Package migrations carries the SQLite schema migrations compiled
// into the binary.
package migrations

import "embed"

// FS holds the numbered up/down scripts; the store applies the
// .up.sql files in order at startup.
//
//go:embed *.sql
var FS embed.FS
