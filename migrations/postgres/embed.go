// Package migrations embeds SQL migration files.
package migrations

import "embed"

// FS contiene las migraciones de la base de infra config.
// Nombres: NNNN_<desc>_up.sql / NNNN_<desc>_down.sql.
//
//go:embed *.sql
var FS embed.FS
