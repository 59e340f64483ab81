package infraconfig

import (
	"context"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// Execer ejecuta SQL sin filas de resultado (pgxpool.Pool lo implementa).
type Execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// Migrate aplica las migraciones *_up.sql (en orden ascendente) o
// *_down.sql (descendente) de fsys. steps > 0 limita la cantidad.
// Devuelve los archivos aplicados.
func Migrate(ctx context.Context, db Execer, fsys fs.FS, action string, steps int) ([]string, error) {
	var suffix string
	switch action {
	case "up":
		suffix = "_up.sql"
	case "down":
		suffix = "_down.sql"
	default:
		return nil, fmt.Errorf("infraconfig: unknown migrate action %q (use up|down)", action)
	}

	files, err := fs.Glob(fsys, "*"+suffix)
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	if action == "down" {
		sort.Sort(sort.Reverse(sort.StringSlice(files)))
	}
	if steps > 0 && steps < len(files) {
		files = files[:steps]
	}

	applied := make([]string, 0, len(files))
	for _, f := range files {
		b, err := fs.ReadFile(fsys, f)
		if err != nil {
			return applied, fmt.Errorf("read %s: %w", f, err)
		}
		sql := strings.TrimSpace(string(b))
		if sql == "" {
			continue
		}
		if _, err := db.Exec(ctx, sql); err != nil {
			return applied, fmt.Errorf("exec %s: %w", f, err)
		}
		applied = append(applied, f)
	}
	return applied, nil
}
