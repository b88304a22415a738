package clickhouse

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildDSN(t *testing.T) {
	dsn := buildDSN(ClientConfig{
		Host: "ch", Port: 9000, Database: "stockmetrics", User: "default", Password: "pw",
		DialTimeout: 5 * time.Second, ReadTimeout: 10 * time.Second,
		AsyncInsert: true, WaitForAsync: true,
	})
	assert.Equal(t, "clickhouse://default:pw@ch:9000/stockmetrics?async_insert=1&dial_timeout=5s&read_timeout=10s&wait_for_async_insert=1", dsn)

	dsn = buildDSN(ClientConfig{Host: "ch", Port: 8123, Database: "db", UseHTTP: true})
	assert.Equal(t, "clickhouse+http://ch:8123/db", dsn)
}

func TestInitSchema(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS a").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS b").WillReturnResult(sqlmock.NewResult(0, 0))

	c := NewClientFromDB(db)
	require.NoError(t, c.InitSchema(context.Background(), []string{
		"CREATE TABLE IF NOT EXISTS a (x UInt8) ENGINE = Memory",
		"CREATE TABLE IF NOT EXISTS b (x UInt8) ENGINE = Memory",
	}))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInitSchemaStopsAtFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("CREATE TABLE a").WillReturnError(assert.AnError)

	err = NewClientFromDB(db).InitSchema(context.Background(), []string{"CREATE TABLE a", "CREATE TABLE b"})
	assert.ErrorContains(t, err, "statement 0")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHealth(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectPing()
	_, err = NewClientFromDB(db).Health(context.Background())
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOptionsKeepDefaultsForZeroValues(t *testing.T) {
	cfg := defaultConfig()
	for _, opt := range []ClientOption{
		WithHost("ch"), WithPort(0), WithDatabase(""), WithTimeouts(0, 3*time.Second, 0), WithCreateDatabase(true),
	} {
		opt(&cfg)
	}
	assert.Equal(t, 9000, cfg.Port)
	assert.Equal(t, "default", cfg.Database)
	assert.Equal(t, 5*time.Second, cfg.DialTimeout)
	assert.Equal(t, 3*time.Second, cfg.ReadTimeout)
	assert.True(t, cfg.CreateDatabase)
}
