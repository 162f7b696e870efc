// Package migrations embeds the postgres schema migrations so the server
// and migrate binaries need no files on disk.
package migrations

import "embed"

// FS holds every *.sql migration in this directory
//
//go:embed *.sql
var FS embed.FS
