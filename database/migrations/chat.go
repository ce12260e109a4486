package migrations

import (
	"rendezvous.club/configs/configslog"
	"rendezvous.club/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

func MigrateChatTables(db *gorm.DB) error {
	configslog.SLog.Info("Migrating conversations & messages tables...")
	if err := db.AutoMigrate(&models.Conversation{}, &models.Message{}); err != nil {
		configslog.Log.Error("Failed to migrate conversations & messages tables", zap.Error(err))
		return err
	}
	configslog.SLog.Info("Conversations & messages tables migrated successfully")
	return nil
}
