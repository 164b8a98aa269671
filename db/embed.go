// Package db carries the embedded SQL migrations applied at startup.
package db

import "embed"

// Migrations contains the versioned schema files consumed by golang-migrate.
//
//go:embed migrations/*.sql
var Migrations embed.FS
