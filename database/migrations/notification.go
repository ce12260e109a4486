package migrations

import (
	"rendezvous.club/configs/configslog"
	"rendezvous.club/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

func MigrateNotificationsTable(db *gorm.DB) error {
	configslog.SLog.Info("Migrating notifications table...")
	if err := db.AutoMigrate(&models.Notification{}); err != nil {
		configslog.Log.Error("Failed to migrate notifications table", zap.Error(err))
		return err
	}
	configslog.SLog.Info("Notifications table migrated successfully")
	return nil
}
