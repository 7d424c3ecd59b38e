// Package tumotrack holds assets shared by the commands, such as the embedded
// database migrations.
package tumotrack

import "embed"

// Migrations contains the goose migrations of the prediction journal.
//
//go:embed migrations/*.sql
var Migrations embed.FS
