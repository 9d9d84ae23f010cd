// Package migrations embeds the goose SQL migrations for the tasks schema so
// the server binary and integration tests apply the same files.
package migrations

import "embed"

// FS holds every *.sql migration in this directory.
//
//go:embed *.sql
var FS embed.FS
