package services

import (
	"testing"
	"time"

	"davetli.app/models"

	"github.com/alicebob/miniredis"
	"github.com/glebarez/sqlite"
	"github.com/go-redis/redis"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.TicketType{},
		&models.InvitationSettings{},
		&models.Invitation{},
		&models.BulkUploadJob{},
		&models.InvitationStats{},
		&models.DuplicateRecord{},
	))
	return db
}

func newTestRedis(t *testing.T) *redis.Client {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)
	return redis.NewClient(&redis.Options{Addr: mr.Addr()})
}

func seedTicketTypes(t *testing.T, db *gorm.DB, globalUnique bool) {
	t.Helper()
	require.NoError(t, db.Create(&models.TicketType{
		Name: "Standard", IsActive: true, EnforceUniqueEmail: true,
	}).Error)
	require.NoError(t, db.Create(&models.TicketType{
		Name: "Press", IsActive: true, EnforceUniqueEmail: false,
	}).Error)
	require.NoError(t, db.Create(&models.InvitationSettings{
		EnforceGlobalUnique: globalUnique,
	}).Error)
}

func seedQuota(t *testing.T, db *gorm.DB, allocated, generated int) {
	t.Helper()
	stats := models.InvitationStats{
		AllocatedInvitations: allocated,
		GeneratedInvitations: generated,
	}
	stats.UpdateRemaining()
	require.NoError(t, db.Create(&stats).Error)
}

func testTicketCache() map[string]TicketCacheEntry {
	return map[string]TicketCacheEntry{
		"standard": {ID: 1, Name: "Standard", EnforceUniqueEmail: true},
		"press":    {ID: 2, Name: "Press", EnforceUniqueEmail: false},
	}
}

// fakeDispatcher kuyruk çağrılarını kaydeder; hata senaryoları için failWith
// atanabilir.
type fakeDispatcher struct {
	validateCalls []string
	generateCalls []string
	failWith      error
}

func (d *fakeDispatcher) EnqueueValidate(jobID, defaultMessage string) error {
	if d.failWith != nil {
		return d.failWith
	}
	d.validateCalls = append(d.validateCalls, jobID)
	return nil
}

func (d *fakeDispatcher) EnqueueGenerate(jobID string, expireDate *time.Time, defaultMessage string) error {
	if d.failWith != nil {
		return d.failWith
	}
	d.generateCalls = append(d.generateCalls, jobID)
	return nil
}

var _ IBulkDispatcher = (*fakeDispatcher)(nil)
