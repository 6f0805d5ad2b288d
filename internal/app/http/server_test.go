package httpEngine

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"neuroscan-server/configs"
	"neuroscan-server/internal/auth"
	"neuroscan-server/internal/classifier"
	"neuroscan-server/internal/controllers"
	"neuroscan-server/internal/logics"
	"neuroscan-server/internal/models"
)

type nopSender struct{}

func (nopSender) SendVerificationCode(to, code string) error { return nil }

func newServerFixture(t *testing.T) (*Server, *gorm.DB) {
	t.Helper()

	configs.Logger = zap.NewNop()
	configs.Configs.Secrets.SessionSecret = "test-session-secret"
	configs.Configs.Authn.SessionExpireMin = 60
	configs.Configs.Service.AllowedOrigins = []string{"http://localhost:3000"}

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

	logger := zap.NewNop()
	audit := logics.NewLoginAuditService(db, logger)
	verification := auth.NewVerificationService(db, logger, nopSender{}, 15*time.Minute)
	accounts := auth.NewAccountService(db, logger, audit, verification)
	treatments := logics.NewTreatmentService(db, logger)
	require.NoError(t, treatments.Seed())
	store, err := logics.NewLocalImageStore(t.TempDir())
	require.NoError(t, err)
	diagnosis := logics.NewDiagnosisService(db, logger, &staticClassifier{}, store, treatments)
	admins := logics.NewAdminService(db, logger, audit)

	sessionMaxAge := configs.Configs.Authn.SessionExpireMin * 60
	srv := NewServer(Controllers{
		Auth:      controllers.NewAuthController(accounts, verification, sessionMaxAge),
		Diagnosis: controllers.NewDiagnosisController(diagnosis),
		Patients:  controllers.NewPatientController(diagnosis),
		Profile:   controllers.NewProfileController(accounts, store),
		Admin:     controllers.NewAdminController(admins, audit, sessionMaxAge),
	})
	return srv, db
}

func postForm(t *testing.T, srv *Server, path string, form url.Values, cookies []*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	srv.Echo().ServeHTTP(rec, req)
	return rec
}

func get(t *testing.T, srv *Server, path string, cookies []*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	srv.Echo().ServeHTTP(rec, req)
	return rec
}

type staticClassifier struct{}

func (staticClassifier) Classify(_ context.Context, _ string, _ []byte) (*classifier.Prediction, error) {
	return &classifier.Prediction{Label: models.TumorTypeNoTumor, Confidence: 99.0}, nil
}

func TestHealthCheck(t *testing.T) {
	srv, _ := newServerFixture(t)
	rec := get(t, srv, "/", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "NeuroScan")
}

func TestRegisterValidation(t *testing.T) {
	srv, _ := newServerFixture(t)
	rec := postForm(t, srv, "/register", url.Values{"username": {"alice"}}, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLoginEstablishesSession(t *testing.T) {
	srv, _ := newServerFixture(t)

	rec := postForm(t, srv, "/register", url.Values{
		"username": {"alice"},
		"email":    {"alice@example.com"},
		"password": {"correct horse battery"},
	}, nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = postForm(t, srv, "/login", url.Values{
		"username": {"alice"},
		"password": {"correct horse battery"},
	}, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	cookies := rec.Result().Cookies()
	require.NotEmpty(t, cookies)

	rec = get(t, srv, "/me", cookies)
	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "alice", body["username"])
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	srv, _ := newServerFixture(t)

	rec := postForm(t, srv, "/login", url.Values{
		"username": {"nobody"},
		"password": {"whatever"},
	}, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid username or password.")
}

func TestProtectedRoutesRequireSession(t *testing.T) {
	srv, _ := newServerFixture(t)
	for _, path := range []string{"/me", "/patients", "/logout"} {
		rec := get(t, srv, path, nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, path)
	}
}

func TestAdminConsoleFlow(t *testing.T) {
	srv, _ := newServerFixture(t)

	rec := postForm(t, srv, "/admin/create_admin", url.Values{
		"username":              {"root"},
		"password":              {"admin password"},
		"password_confirmation": {"admin password"},
	}, nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	// Console routes reject anonymous requests.
	rec = get(t, srv, "/admin/users", nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = postForm(t, srv, "/admin/login", url.Values{
		"username": {"root"},
		"password": {"admin password"},
	}, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	cookies := rec.Result().Cookies()
	require.NotEmpty(t, cookies)

	rec = get(t, srv, "/admin/users", cookies)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = get(t, srv, "/admin/manage_logins", cookies)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestUserSessionCannotReachAdminConsole(t *testing.T) {
	srv, _ := newServerFixture(t)

	rec := postForm(t, srv, "/register", url.Values{
		"username": {"alice"},
		"email":    {"alice@example.com"},
		"password": {"correct horse battery"},
	}, nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	rec = postForm(t, srv, "/login", url.Values{
		"username": {"alice"},
		"password": {"correct horse battery"},
	}, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = get(t, srv, "/admin/users", rec.Result().Cookies())
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
