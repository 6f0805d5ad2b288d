package logics

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"neuroscan-server/internal/classifier"
	"neuroscan-server/internal/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Admin{},
		&models.LoginAttempt{},
		&models.Treatment{},
		&models.Patient{},
	))
	return db
}

// fakeClassifier returns a canned verdict or error without any network.
type fakeClassifier struct {
	label      string
	confidence float64
	err        error
	calls      int
}

func (f *fakeClassifier) Classify(_ context.Context, _ string, _ []byte) (*classifier.Prediction, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &classifier.Prediction{Label: f.label, Confidence: f.confidence}, nil
}

// fakeImageStore records saves in memory.
type fakeImageStore struct {
	saved []string
	err   error
}

func (f *fakeImageStore) Save(_ context.Context, originalFilename string, _ []byte, _ string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	path := "uploads/" + originalFilename
	f.saved = append(f.saved, path)
	return path, nil
}
