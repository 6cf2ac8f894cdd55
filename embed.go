// Package webscanner exposes the embedded assets shipped with the service
// binary, currently the SQL migrations applied by the migrate subcommand.
package webscanner

import "embed"

// Migrations contains the goose SQL migrations for the service's own tables.
// River's queue tables are migrated separately through rivermigrate.
//
//go:embed migrations/*.sql
var Migrations embed.FS
