// Package migrations embeds the SQL migration files applied by goose.
//
// Files are named YYYYMMDDHHMMSS_description.sql and run in lexical order
// when the service starts.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
