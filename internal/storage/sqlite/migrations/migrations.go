// Package migrations embeds the SQLite schema for game snapshots.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
