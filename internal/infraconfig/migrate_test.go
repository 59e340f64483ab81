package infraconfig

import (
	"context"
	"errors"
	"testing"
	"testing/fstest"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	migrations "github.com/dropDatabas3/authwire/migrations/postgres"
)

type recordingExec struct {
	sqls []string
	err  error
}

func (r *recordingExec) Exec(_ context.Context, sql string, _ ...any) (pgconn.CommandTag, error) {
	if r.err != nil {
		return pgconn.CommandTag{}, r.err
	}
	r.sqls = append(r.sqls, sql)
	return pgconn.NewCommandTag("OK"), nil
}

func TestMigrate_Order(t *testing.T) {
	fsys := fstest.MapFS{
		"0002_b_up.sql":   {Data: []byte("B UP")},
		"0001_a_up.sql":   {Data: []byte("A UP")},
		"0001_a_down.sql": {Data: []byte("A DOWN")},
		"0002_b_down.sql": {Data: []byte("B DOWN")},
	}

	db := &recordingExec{}
	applied, err := Migrate(context.Background(), db, fsys, "up", 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"0001_a_up.sql", "0002_b_up.sql"}, applied)
	assert.Equal(t, []string{"A UP", "B UP"}, db.sqls)

	db = &recordingExec{}
	applied, err = Migrate(context.Background(), db, fsys, "down", 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"0002_b_down.sql"}, applied)
}

func TestMigrate_Errors(t *testing.T) {
	_, err := Migrate(context.Background(), &recordingExec{}, fstest.MapFS{}, "sideways", 0)
	assert.Error(t, err)

	_, err = Migrate(context.Background(), &recordingExec{err: errors.New("denied")}, migrations.FS, "up", 0)
	assert.ErrorContains(t, err, "denied")
}

func TestMigrate_EmbeddedCreatesTable(t *testing.T) {
	db := &recordingExec{}
	_, err := Migrate(context.Background(), db, migrations.FS, "up", 0)
	require.NoError(t, err)
	require.NotEmpty(t, db.sqls)
	assert.Contains(t, db.sqls[0], "CREATE TABLE IF NOT EXISTS infra_config")
}
