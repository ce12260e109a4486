package migrations

import (
	"rendezvous.club/configs/configslog"
	"rendezvous.club/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

func MigrateGalleryTable(db *gorm.DB) error {
	configslog.SLog.Info("Migrating gallery_images table...")
	if err := db.AutoMigrate(&models.GalleryImage{}); err != nil {
		configslog.Log.Error("Failed to migrate gallery_images table", zap.Error(err))
		return err
	}
	configslog.SLog.Info("Gallery_images table migrated successfully")
	return nil
}
