// Package dbtest opens throwaway in-memory SQLite stores for tests.
package dbtest

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/quickserve/database"
	"github.com/yeremiapane/quickserve/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open returns a migrated store private to the calling test.
func Open(t testing.TB) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, database.Migrate(db))
	return db
}

// SeedMenu creates Burger (150), Fries (80) and an unavailable Milkshake (95),
// keyed by name.
func SeedMenu(t testing.TB, db *gorm.DB) map[string]models.Menu {
	t.Helper()

	category := models.MenuCategory{Name: "Mains"}
	require.NoError(t, db.Create(&category).Error)

	items := []models.Menu{
		{CategoryID: category.ID, Name: "Burger", Price: decimal.NewFromInt(150), IsAvailable: true},
		{CategoryID: category.ID, Name: "Fries", Price: decimal.NewFromInt(80), IsAvailable: true},
		{CategoryID: category.ID, Name: "Milkshake", Price: decimal.NewFromInt(95), IsAvailable: false},
	}
	byName := make(map[string]models.Menu, len(items))
	for i := range items {
		require.NoError(t, db.Create(&items[i]).Error)
		byName[items[i].Name] = items[i]
	}
	return byName
}

// CreateStaff stores a staff account with the given password.
func CreateStaff(t testing.TB, db *gorm.DB, email, password, role string) models.User {
	t.Helper()

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	user := models.User{Name: role, Email: email, Password: string(hashed), Role: role}
	require.NoError(t, db.Create(&user).Error)
	return user
}
