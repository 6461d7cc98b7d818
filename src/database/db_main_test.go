package database

import (
	"testing"

	"github.com/stretchr/testify/require"

	"tradejournal/src/database/migrations"
	"tradejournal/src/model"
)

func TestConnect_UnsupportedDriver(t *testing.T) {
	_, err := Connect(Config{Driver: "oracle", DatabaseURL: "x"})
	require.Error(t, err)
}

func TestConnectAndMigrate_SQLite(t *testing.T) {
	db, err := Connect(Config{
		Driver:       DriverSQLite,
		DatabaseURL:  "file:connect_and_migrate?mode=memory&cache=shared",
		GormLogLevel: 1,
		MaxOpenConns: 1,
		MaxIdleConns: 1,
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, Migrate(db))
	// second run is a no-op
	require.NoError(t, Migrate(db))

	for _, table := range []interface{}{&model.User{}, &model.Trade{}, &model.Exception{}, &migrations.DataMigration{}} {
		require.True(t, db.Migrator().HasTable(table), "missing table for %T", table)
	}

	var applied int64
	require.NoError(t, db.Model(&migrations.DataMigration{}).Count(&applied).Error)
	require.EqualValues(t, 2, applied)
}
