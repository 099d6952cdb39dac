package migrations

import "embed"

// FS holds the goose migrations; they are applied from its root directory.
//
//go:embed *.sql
var FS embed.FS
