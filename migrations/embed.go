package migrations

import "embed"

//go:embed V*.sql
var Files embed.FS
