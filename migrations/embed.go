// Package migrations embeds the SQL migration files into the binary so the
// schema can be applied without shipping loose files alongside the executable.
package migrations

import (
	"embed"

	"github.com/hollis-dev/homeinv-core/internal/infrastructure/database"
)

//go:embed *.sql
var migrationsFS embed.FS

func init() {
	database.MigrationsFS = migrationsFS
	database.MigrationsDir = "."
}
