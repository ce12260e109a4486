package seeders

import (
	"errors"

	"rendezvous.club/configs"
	"rendezvous.club/configs/configslog"
	"rendezvous.club/models"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// SeedAdminAccount creates or updates the staff account named by
// ADMIN_EMAIL / ADMIN_PASSWORD. Without both variables the step is skipped.
func SeedAdminAccount(db *gorm.DB) error {
	cfg := configs.App
	if cfg == nil || cfg.AdminEmail == "" || cfg.AdminPassword == "" {
		configslog.SLog.Info("ADMIN_EMAIL/ADMIN_PASSWORD not set, skipping admin seed.")
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		configslog.Log.Error("Admin password hashing failed", zap.Error(err))
		return err
	}

	var existing models.Profile
	result := db.Where("email = ?", cfg.AdminEmail).First(&existing)
	if result.Error == nil {
		// Keep the account aligned with the configured credentials and role.
		updates := map[string]interface{}{
			"password_hash": string(hash),
			"role":          models.RoleAdmin,
			"status":        models.ProfileStatusActive,
		}
		if err := db.Model(&existing).Updates(updates).Error; err != nil {
			configslog.Log.Error("Admin account update failed", zap.Error(err))
			return err
		}
		configslog.SLog.Infof("Admin account '%s' updated (ID: %d).", cfg.AdminEmail, existing.ID)
		return nil
	}
	if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		configslog.Log.Error("Admin account lookup failed", zap.Error(result.Error))
		return result.Error
	}

	admin := models.Profile{
		Email:        cfg.AdminEmail,
		PasswordHash: string(hash),
		Username:     "concierge",
		FullName:     "Club Concierge",
		Status:       models.ProfileStatusActive,
		Role:         models.RoleAdmin,
	}
	if err := db.Create(&admin).Error; err != nil {
		configslog.Log.Error("Admin account creation failed", zap.Error(err))
		return err
	}
	configslog.SLog.Infof("Admin account '%s' created (ID: %d).", cfg.AdminEmail, admin.ID)
	return nil
}
