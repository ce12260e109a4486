package migrations

import (
	"rendezvous.club/configs/configslog"
	"rendezvous.club/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

func MigrateEventsTables(db *gorm.DB) error {
	configslog.SLog.Info("Migrating events & event_rsvps tables...")
	if err := db.AutoMigrate(&models.Event{}, &models.EventRSVP{}); err != nil {
		configslog.Log.Error("Failed to migrate events & event_rsvps tables", zap.Error(err))
		return err
	}
	configslog.SLog.Info("Events & event_rsvps tables migrated successfully")
	return nil
}
