package repositories

import (
	"fmt"
	"net"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"neuroscan-server/configs"
	"neuroscan-server/internal/models"
)

// Open connects to PostgreSQL and runs migrations. The returned handle is
// injected into services; nothing holds it as ambient global state.
func Open(cfg configs.PostgresConfig, log *zap.Logger) (*gorm.DB, error) {
	host, port, err := net.SplitHostPort(cfg.Address)
	if err != nil {
		return nil, fmt.Errorf("invalid postgres address: %w", err)
	}

	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s",
		host,
		cfg.Username,
		cfg.Password,
		cfg.Database,
		port,
	)
	if cfg.Schema != "" {
		dsn += " search_path=" + cfg.Schema
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}

	if err := AutoMigrate(db); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	log.Info("PostgreSQL connected successfully")
	return db, nil
}

// AutoMigrate migrates schemas in dependency order so foreign keys can be
// created as tables appear.
func AutoMigrate(db *gorm.DB) error {
	modelsInOrder := []interface{}{
		&models.User{},
		&models.Admin{},
		&models.LoginAttempt{},
		&models.Treatment{},
		&models.Patient{},
	}

	for _, model := range modelsInOrder {
		if err := db.AutoMigrate(model); err != nil {
			return err
		}
	}
	return nil
}
