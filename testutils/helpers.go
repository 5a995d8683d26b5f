package testutils

import (
	"testing"
	"time"

	"github.com/signupd/signupd/config"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func SetupTestDB(t *testing.T, models ...interface{}) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	if len(models) > 0 {
		err = db.AutoMigrate(models...)
		require.NoError(t, err)
	}

	return db
}

func CleanupTestDB(t *testing.T, db *gorm.DB, tables ...string) {
	for _, table := range tables {
		err := db.Exec("DELETE FROM " + table).Error
		require.NoError(t, err)
	}
}

func GetTestConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{
			Name: "signupd test",
			URL:  "http://localhost:3000",
		},
		Server: config.ServerConfig{
			Host: "localhost",
			Port: "3000",
		},
		Auth: config.AuthConfig{
			BcryptCost:              bcrypt.MinCost,
			VerificationTokenLength: 32,
			VerificationExpiry:      24 * time.Hour,
		},
	}
}
