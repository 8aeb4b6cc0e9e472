package migrations

import (
	"strings"
	"testing"

	"github.com/muhammadchandra19/chart-datafeed/pkg/logger"
	"github.com/muhammadchandra19/chart-datafeed/pkg/migration"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFS_UpMigrationsKeepExistingData(t *testing.T) {
	runner := migration.NewRunner(nil, FS, logger.NewNop())

	migrations, err := runner.LoadMigrations()
	require.NoError(t, err)
	require.NotEmpty(t, migrations)

	for _, m := range migrations {
		up := strings.ToUpper(m.UpSQL)
		assert.NotContains(t, up, "DROP TABLE", m.ID)
		assert.NotEmpty(t, m.DownSQL, m.ID)
	}

	assert.Equal(t, "create_ohlc", migrations[0].Name)
	assert.Contains(t, migrations[0].UpSQL, "CREATE TABLE IF NOT EXISTS ohlc")
	assert.Contains(t, migrations[0].DownSQL, "DROP TABLE IF EXISTS ohlc")
}
