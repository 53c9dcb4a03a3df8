package cfg

import (
	"testing"
	"time"

	"github.com/DRSN-tech/qr-menu-backend/pkg/e"
	"github.com/DRSN-tech/qr-menu-backend/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("POSTGRES_USER", "menu")
	t.Setenv("POSTGRES_PASSWORD", "secret")
	t.Setenv("POSTGRES_DB", "qrmenu")
	t.Setenv("KAFKA_BROKERS", "kafka-1:9092,kafka-2:9092")
	t.Setenv("ADISYO_API_KEY", "key")
	t.Setenv("ADISYO_API_SECRET", "secret")
	t.Setenv("ADISYO_CONSUMER_ID", "consumer")
}

func TestLoadDefaults(t *testing.T) {
	setRequiredEnv(t)

	c, err := Load(logger.NewNopLogger())
	require.NoError(t, err)

	assert.Equal(t, "Adisyo Menü", c.Import.MenuName)
	assert.Equal(t, time.Hour, c.Import.SessionTTL)
	assert.True(t, c.Import.ArchiveReport)
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, c.Kafka.Brokers)
	assert.Equal(t, "catalog.import.finished", c.Kafka.Topic)
	assert.Equal(t, 30*time.Second, c.Adisyo.Timeout)
	assert.Equal(t, 3, c.Adisyo.MaxRetries)
	assert.Equal(t, "8080", c.Http.Port)
	assert.Equal(t, "import-reports", c.Minio.BucketName)
	assert.Equal(t, "host=localhost port=5432 user=menu password=secret dbname=qrmenu sslmode=disable", c.Db.DSN())
	assert.EqualValues(t, 10, c.Db.MaxConns)
	assert.Equal(t, "file://db/migrations", c.Db.MigrationsPath)
}

func TestLoadRejectsBadPoolSize(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("POSTGRES_MAX_CONNS", "0")

	_, err := Load(logger.NewNopLogger())
	assert.ErrorIs(t, err, e.ErrIncorrectEnvVariable)
}

func TestLoadRequiresAdisyoCredentials(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("ADISYO_API_SECRET", "")

	_, err := Load(logger.NewNopLogger())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ADISYO_API_KEY")
}

func TestLoadRejectsBadDuration(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("ADISYO_TIMEOUT", "soon")

	_, err := Load(logger.NewNopLogger())
	require.Error(t, err)
}

func TestLoadOverrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("IMPORT_MENU_NAME", "POS Menü")
	t.Setenv("ADISYO_MAX_RETRIES", "1")
	t.Setenv("IMPORT_ARCHIVE_REPORT", "false")

	c, err := Load(logger.NewNopLogger())
	require.NoError(t, err)
	assert.Equal(t, "POS Menü", c.Import.MenuName)
	assert.Equal(t, 1, c.Adisyo.MaxRetries)
	assert.False(t, c.Import.ArchiveReport)
}
