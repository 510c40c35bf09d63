package repository

import (
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/campusconnect/campus-api/internal/models"
)

var testDBCounter atomic.Int64

// setupTestDB opens a uniquely named in-memory database so tests never see
// each other's rows, even though gorm pools connections.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:repo_test_%d?mode=memory&cache=shared", testDBCounter.Add(1))
	// TranslateError matches the production connection so sentinel
	// comparisons behave the same under sqlite.
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Opportunity{},
		&models.Application{},
		&models.ActivityLog{},
		&models.Club{},
		&models.Event{},
	))
	return db
}
