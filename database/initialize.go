package database

import (
	"rendezvous.club/configs/configslog"
	"rendezvous.club/database/migrations"
	"rendezvous.club/database/seeders"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Initialize runs migrations and seeders inside one transaction so a half
// applied schema never survives a failure.
func Initialize(db *gorm.DB, migrate bool, seed bool) {
	if !migrate && !seed {
		configslog.SLog.Info("Neither migrate nor seed requested, nothing to do.")
		return
	}

	tx := db.Begin()
	if tx.Error != nil {
		configslog.Log.Fatal("Could not begin database transaction", zap.Error(tx.Error))
		return
	}

	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			configslog.Log.Fatal("Database initialization failed (panic)", zap.Any("panic_info", r))
		} else if err := tx.Error; err != nil && err != gorm.ErrInvalidTransaction {
			configslog.SLog.Warn("Rolling back after initialization error.", zap.Error(err))
			rbErr := tx.Rollback().Error
			if rbErr != nil && rbErr != gorm.ErrInvalidTransaction {
				configslog.Log.Error("Rollback reported an additional error", zap.Error(rbErr))
			}
		}
	}()

	configslog.SLog.Info("Database initialization starting...")

	if migrate {
		configslog.SLog.Info("Running migrations...")
		if err := RunMigrationsInOrder(tx); err != nil {
			configslog.Log.Error("Migration failed", zap.Error(err))
			return
		}
		configslog.SLog.Info("Migrations completed.")
	} else {
		configslog.SLog.Info("Migrate flag not set, skipping migration step.")
	}

	if seed {
		configslog.SLog.Info("Running seeders...")
		if err := CheckAndRunSeeders(tx); err != nil {
			configslog.Log.Error("Seeding failed", zap.Error(err))
			return
		}
		configslog.SLog.Info("Seeders completed.")
	} else {
		configslog.SLog.Info("Seed flag not set, skipping seeder step.")
	}

	configslog.SLog.Info("Committing...")
	if err := tx.Commit().Error; err != nil {
		tx.Error = err
		configslog.Log.Error("Commit failed", zap.Error(err))
		return
	}

	configslog.SLog.Info("Database initialization finished successfully")
}

// RunMigrationsInOrder applies the schema respecting foreign key order:
// profiles first, then events, then everything referencing them.
func RunMigrationsInOrder(db *gorm.DB) error {
	steps := []struct {
		name string
		run  func(*gorm.DB) error
	}{
		{"profiles", migrations.MigrateProfilesTable},
		{"events", migrations.MigrateEventsTables},
		{"payments", migrations.MigratePaymentsTables},
		{"social", migrations.MigrateSocialTables},
		{"chat", migrations.MigrateChatTables},
		{"notifications", migrations.MigrateNotificationsTable},
		{"gallery", migrations.MigrateGalleryTable},
	}
	for _, step := range steps {
		configslog.SLog.Infof(" -> Running %s migrations...", step.name)
		if err := step.run(db); err != nil {
			configslog.Log.Error("Migration step failed", zap.String("step", step.name), zap.Error(err))
			return err
		}
	}
	configslog.SLog.Info("All migrations ran successfully.")
	return nil
}

func CheckAndRunSeeders(db *gorm.DB) error {
	configslog.SLog.Info("Checking/creating the staff account...")
	if err := seeders.SeedAdminAccount(db); err != nil {
		configslog.Log.Error("Admin account seed failed", zap.Error(err))
		return err
	}
	configslog.SLog.Info("All seeders checked/ran successfully.")
	return nil
}
