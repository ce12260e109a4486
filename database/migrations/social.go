package migrations

import (
	"rendezvous.club/configs/configslog"
	"rendezvous.club/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

func MigrateSocialTables(db *gorm.DB) error {
	configslog.SLog.Info("Migrating friend_requests & posts tables...")
	if err := db.AutoMigrate(&models.FriendRequest{}, &models.Post{}); err != nil {
		configslog.Log.Error("Failed to migrate friend_requests & posts tables", zap.Error(err))
		return err
	}
	configslog.SLog.Info("Friend_requests & posts tables migrated successfully")
	return nil
}
