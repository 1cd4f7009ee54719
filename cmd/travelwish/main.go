package main

import (
	"log"
	"log/slog"

	"github.com/gorilla/securecookie"
	"github.com/joho/godotenv"

	"github.com/vbonduro/travelwish/internal/auth"
	"github.com/vbonduro/travelwish/internal/config"
	"github.com/vbonduro/travelwish/internal/db"
	"github.com/vbonduro/travelwish/internal/logging"
	"github.com/vbonduro/travelwish/internal/photostore"
	"github.com/vbonduro/travelwish/internal/photostore/local"
	"github.com/vbonduro/travelwish/internal/photostore/s3"
	"github.com/vbonduro/travelwish/internal/service"
	"github.com/vbonduro/travelwish/internal/store"
	"github.com/vbonduro/travelwish/internal/web"
	"github.com/vbonduro/travelwish/internal/web/templates"
)

func main() {
	// A .env file is optional; real deployments set the environment directly.
	envErr := godotenv.Load()

	cfg := config.Load()

	logger, cleanup, err := logging.New(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer cleanup()

	if envErr != nil {
		logger.Debug("no .env file loaded", "error", envErr)
	}

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		return
	}
	defer func() {
		if err := database.Close(); err != nil {
			logger.Error("failed to close database", "error", err)
		}
	}()

	placeStore := store.NewPlaceStore(database)
	userStore := store.NewUserStore(database)

	photoStg, err := newPhotoStore(cfg, logger)
	if err != nil {
		logger.Error("failed to initialize photo store", "error", err)
		return
	}

	placeService := service.NewPlaceService(placeStore, photoStg, cfg.PhotoMaxDim, logger)
	authn := auth.NewHeaderAuthenticator(userStore, auth.Config{
		Header:   cfg.AuthHeader,
		LoginURL: cfg.AuthLoginURL,
		DevUser:  cfg.AuthDevUser,
	}, logger)

	server := web.NewServer(placeService, templates.FS, authn, web.NewSessionStore(sessionSecret(cfg, logger)), logger)

	if err := server.ListenAndServe(cfg.ListenAddr); err != nil {
		logger.Error("server error", "error", err)
	}
}

func newPhotoStore(cfg *config.Config, logger *slog.Logger) (photostore.PhotoStore, error) {
	switch cfg.PhotoBackend {
	case "s3":
		logger.Info("using S3 photo backend", "bucket", cfg.S3Bucket, "endpoint", cfg.S3Endpoint)
		return s3.NewS3PhotoStore(s3.Config{
			Bucket:    cfg.S3Bucket,
			Region:    cfg.S3Region,
			Endpoint:  cfg.S3Endpoint,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
		})
	default:
		logger.Info("using local photo backend", "path", cfg.PhotoPath)
		return local.NewLocalPhotoStore(cfg.PhotoPath)
	}
}

// sessionSecret returns the configured cookie signing key. Without one a
// random key is used, so pending notices do not survive a restart.
func sessionSecret(cfg *config.Config, logger *slog.Logger) []byte {
	if cfg.SessionSecret != "" {
		return []byte(cfg.SessionSecret)
	}
	logger.Warn("SESSION_SECRET not set; using a random key for this process")
	return securecookie.GenerateRandomKey(32)
}
