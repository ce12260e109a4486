package migrations

import (
	"rendezvous.club/configs/configslog"
	"rendezvous.club/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

func MigratePaymentsTables(db *gorm.DB) error {
	configslog.SLog.Info("Migrating payments & tickets tables...")
	if err := db.AutoMigrate(&models.Payment{}, &models.Ticket{}); err != nil {
		configslog.Log.Error("Failed to migrate payments & tickets tables", zap.Error(err))
		return err
	}
	configslog.SLog.Info("Payments & tickets tables migrated successfully")
	return nil
}
