// Package migrations embeds the goose migrations of the extract journal.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
