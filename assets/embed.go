// Package assets embeds the SQL migrations shipped with the server.
package assets

import "embed"

// MigrationsDir is the directory inside FS holding *.sql migrations.
const MigrationsDir = "sql"

//go:embed sql/*.sql
var FS embed.FS
