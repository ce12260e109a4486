package services

import (
	"context"
	"testing"
	"time"

	"rendezvous.club/models"
	"rendezvous.club/pkg/session"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// newTestDB opens a private in-memory database with the full schema.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	// One connection only: each connection to :memory: would otherwise be a
	// separate empty database.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.Profile{},
		&models.Event{},
		&models.EventRSVP{},
		&models.Payment{},
		&models.Ticket{},
		&models.FriendRequest{},
		&models.Post{},
		&models.Conversation{},
		&models.Message{},
		&models.Notification{},
		&models.GalleryImage{},
	))
	return db
}

func createTestMember(t *testing.T, db *gorm.DB, username string) *models.Profile {
	t.Helper()
	profile := &models.Profile{
		Email:        username + "@example.com",
		PasswordHash: "x",
		Username:     username,
		FullName:     "Member " + username,
		Status:       models.ProfileStatusActive,
		Role:         models.RoleMember,
	}
	require.NoError(t, db.Create(profile).Error)
	return profile
}

func createTestAdmin(t *testing.T, db *gorm.DB) *models.Profile {
	t.Helper()
	admin := &models.Profile{
		Email:        "staff@example.com",
		PasswordHash: "x",
		Username:     "staff",
		FullName:     "Staff",
		Status:       models.ProfileStatusActive,
		Role:         models.RoleAdmin,
	}
	require.NoError(t, db.Create(admin).Error)
	return admin
}

type testEventOpts struct {
	priceCents  int64
	capacity    *int
	unpublished bool
	status      models.EventStatus
}

func createTestEvent(t *testing.T, db *gorm.DB, creatorID uint, opts testEventOpts) *models.Event {
	t.Helper()
	status := opts.status
	if status == "" {
		status = models.EventStatusScheduled
	}
	event := &models.Event{
		Title:           "Wine Tasting",
		StartTime:       time.Now().Add(48 * time.Hour),
		EndTime:         time.Now().Add(52 * time.Hour),
		PriceCents:      opts.priceCents,
		Currency:        "eur",
		Capacity:        opts.capacity,
		Published:       !opts.unpublished,
		Status:          status,
		CreatedByUserID: creatorID,
	}
	require.NoError(t, db.Create(event).Error)
	return event
}

func memberSession(profile *models.Profile) session.Context {
	return session.Context{UserID: profile.ID, Role: profile.Role}
}

func testCtx() context.Context { return context.Background() }
