package migrations

import "embed"

// Files holds the account and project schema migrations.
//
//go:embed *.sql
var Files embed.FS
