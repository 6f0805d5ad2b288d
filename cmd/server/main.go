package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"path"
	"syscall"
	"time"

	"go.uber.org/zap"

	"neuroscan-server/configs"
	httpServer "neuroscan-server/internal/app/http"
	"neuroscan-server/internal/auth"
	"neuroscan-server/internal/classifier"
	"neuroscan-server/internal/controllers"
	"neuroscan-server/internal/logics"
	"neuroscan-server/internal/repositories"
)

func main() {
	configPath := flag.String("config", "", "path to the configs.yaml directory")
	flag.Parse()

	if *configPath != "" {
		configs.Init(configPath)
	} else {
		configs.Init(nil)
	}
	logger := configs.Logger
	defer logger.Sync()

	db, err := repositories.Open(configs.Configs.Postgres, logger)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}

	// Domain services
	audit := logics.NewLoginAuditService(db, logger)
	email := logics.NewEmailService(configs.Configs.Email, logger)
	codeTTL := time.Duration(configs.Configs.Authn.VerificationCodeExpireMin) * time.Minute
	verification := auth.NewVerificationService(db, logger, email, codeTTL)
	accounts := auth.NewAccountService(db, logger, audit, verification)

	treatments := logics.NewTreatmentService(db, logger)
	if err := treatments.Seed(); err != nil {
		logger.Fatal("Failed to seed treatments", zap.Error(err))
	}

	scanStore, profileStore, err := buildImageStores(logger)
	if err != nil {
		logger.Fatal("Failed to initialize image storage", zap.Error(err))
	}

	clf := classifier.NewHTTPClassifier(configs.Configs.Classifier, logger)
	diagnosis := logics.NewDiagnosisService(db, logger, clf, scanStore, treatments)
	admins := logics.NewAdminService(db, logger, audit)

	sessionMaxAge := configs.Configs.Authn.SessionExpireMin * 60
	srv := httpServer.NewServer(httpServer.Controllers{
		Auth:      controllers.NewAuthController(accounts, verification, sessionMaxAge),
		Diagnosis: controllers.NewDiagnosisController(diagnosis),
		Patients:  controllers.NewPatientController(diagnosis),
		Profile:   controllers.NewProfileController(accounts, profileStore),
		Admin:     controllers.NewAdminController(admins, audit, sessionMaxAge),
	})

	go func() {
		if err := srv.Start(); err != nil {
			logger.Info("HTTP server stopped", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Failed to shutdown HTTP server", zap.Error(err))
	}

	logger.Info("Server shut down successfully")
}

// buildImageStores selects the storage backend for scan uploads and
// profile pictures from the configured backend.
func buildImageStores(logger *zap.Logger) (logics.ImageStore, logics.ImageStore, error) {
	storage := configs.Configs.Storage
	switch storage.Backend {
	case "s3":
		scans, err := logics.NewS3ImageStore(storage.S3, path.Base(storage.UploadDir))
		if err != nil {
			return nil, nil, err
		}
		profiles, err := logics.NewS3ImageStore(storage.S3, path.Base(storage.ProfileDir))
		if err != nil {
			return nil, nil, err
		}
		logger.Info("Using S3 image storage", zap.String("bucket", storage.S3.Bucket))
		return scans, profiles, nil
	default:
		scans, err := logics.NewLocalImageStore(storage.UploadDir)
		if err != nil {
			return nil, nil, err
		}
		profiles, err := logics.NewLocalImageStore(storage.ProfileDir)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("Using local image storage",
			zap.String("uploadDir", storage.UploadDir),
			zap.String("profileDir", storage.ProfileDir),
		)
		return scans, profiles, nil
	}
}
