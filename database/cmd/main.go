package main

import (
	"flag"
	"os"

	"rendezvous.club/configs"
	"rendezvous.club/configs/configsdatabase"
	"rendezvous.club/configs/configslog"
	"rendezvous.club/database"
)

// Standalone migration/seed runner:
//
//	go run ./database/cmd -migrate -seed
func main() {
	migrateFlag := flag.Bool("migrate", false, "run the schema migrations")
	seedFlag := flag.Bool("seed", false, "run the seeders")
	flag.Parse()

	cfg, err := configs.LoadConfig()
	if err != nil {
		configslog.InitLogger("development")
		configslog.SLog.Errorf("Config load failed: %v", err)
		os.Exit(1)
	}
	configslog.InitLogger(cfg.Env)
	defer configslog.Sync()

	if _, err := configsdatabase.InitDatabase(cfg.DatabaseURL); err != nil {
		configslog.SLog.Errorf("Database init failed: %v", err)
		os.Exit(1)
	}
	defer configsdatabase.CloseDB()

	configslog.SLog.Info("Running database initialization...")
	database.Initialize(configsdatabase.GetDB(), *migrateFlag, *seedFlag)
	configslog.SLog.Info("Database initialization done.")
}
