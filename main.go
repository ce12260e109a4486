package main

import (
	"flag"
	"os"
	"os/signal"
	"syscall"

	"rendezvous.club/configs"
	"rendezvous.club/configs/configsdatabase"
	"rendezvous.club/configs/configslog"
	"rendezvous.club/database"
	"rendezvous.club/pkg/changefeed"
	"rendezvous.club/routes"
	"rendezvous.club/services"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

func main() {
	migrateFlag := flag.Bool("migrate", false, "run the schema migrations before serving")
	seedFlag := flag.Bool("seed", false, "run the seeders before serving")
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
		configslog.Log.Fatal("Database init failed", zap.Error(err))
	}
	defer configsdatabase.CloseDB()

	if *migrateFlag || *seedFlag {
		database.Initialize(configsdatabase.GetDB(), *migrateFlag, *seedFlag)
	}

	feed := buildFeed(cfg)
	defer feed.Close()
	storage := services.NewStorageService()

	deps := routes.BuildDependencies(feed, storage)

	app := fiber.New(fiber.Config{
		AppName:   "rendezvous.club",
		BodyLimit: int(cfg.StorageUploadLimit) + 1<<20,
	})
	routes.SetupRoutes(app, deps)

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		configslog.SLog.Info("Shutting down...")
		_ = app.Shutdown()
	}()

	configslog.SLog.Infof("Listening on :%s", cfg.Port)
	if err := app.Listen(":" + cfg.Port); err != nil {
		configslog.Log.Fatal("Server stopped", zap.Error(err))
	}
}

func buildFeed(cfg *configs.AppConfig) changefeed.Feed {
	if cfg.RedisAddr == "" {
		return changefeed.NoopFeed{}
	}
	feed, err := changefeed.NewRedisFeed(changefeed.NewRedisClient(cfg.RedisAddr))
	if err != nil {
		configslog.Log.Error("Redis feed init failed, realtime disabled", zap.Error(err))
		return changefeed.NoopFeed{}
	}
	return feed
}
