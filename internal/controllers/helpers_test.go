package controllers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"fleet_tracker/internal/config"
	"fleet_tracker/internal/models"
	"fleet_tracker/internal/routes"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
	Errors  []string        `json:"errors"`
}

type vehiclePayload struct {
	ID     uint
	Make   string `json:"make"`
	Model  string `json:"model"`
	Year   int    `json:"year"`
	Plate  string `json:"plate"`
	Status string `json:"status"`
	UserID uint   `json:"user_id"`
}

type maintenancePayload struct {
	ID           uint
	VehicleID    uint           `json:"vehicle_id"`
	TechnicianID *uint          `json:"technician_id"`
	Type         string         `json:"type"`
	Cost         float64        `json:"cost"`
	Status       string         `json:"status"`
	Vehicle      vehiclePayload `json:"vehicle"`
}

// setupAPI swaps the global DB handle for an in-memory sqlite database
// and returns the fully wired router.
func setupAPI(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Vehicle{}, &models.Maintenance{}))
	config.DB = db

	return routes.SetupRouter()
}

func doRequest(t *testing.T, r *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

// registerUser creates an account through the public endpoint and returns
// its token and id.
func registerUser(t *testing.T, r *gin.Engine, name, email, role string) (string, uint) {
	t.Helper()

	w := doRequest(t, r, http.MethodPost, "/api/auth/register", "", gin.H{
		"name":     name,
		"email":    email,
		"password": "secret123",
		"role":     role,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	env := decodeEnvelope(t, w)
	var data struct {
		Token string `json:"token"`
		User  struct {
			ID uint `json:"id"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	require.NotEmpty(t, data.Token)
	return data.Token, data.User.ID
}

// createVehicle registers a vehicle for the token's user and returns it.
func createVehicle(t *testing.T, r *gin.Engine, token string, fields gin.H) vehiclePayload {
	t.Helper()

	w := doRequest(t, r, http.MethodPost, "/api/vehicles", token, fields)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	env := decodeEnvelope(t, w)
	var v vehiclePayload
	require.NoError(t, json.Unmarshal(env.Data, &v))
	return v
}
