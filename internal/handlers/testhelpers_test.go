// internal/handlers/testhelpers_test.go
package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/procurehub/rfp-backend/internal/config"
	"github.com/procurehub/rfp-backend/internal/middleware"
	"github.com/procurehub/rfp-backend/internal/models"
	"github.com/procurehub/rfp-backend/internal/services"
	"github.com/procurehub/rfp-backend/internal/utils"
)

func testConfig() *config.Config {
	return &config.Config{
		Environment: "test",
		Server:      config.ServerConfig{Port: "8080"},
		JWT: config.JWTConfig{
			SecretKey:       "test-secret",
			AccessTokenTTL:  1,
			RefreshTokenTTL: 24,
		},
	}
}

// setupTestRouter wires the real handlers and role middleware over an
// in-memory database, leaving out rate limiting and audit logging so
// tests can hammer the routes freely.
func setupTestRouter(t *testing.T) (*gorm.DB, *gin.Engine) {
	t.Helper()

	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.New().String())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.RFP{},
		&models.Response{},
		&models.AuditLog{},
	))

	cfg := testConfig()
	utils.SetJWTSecret(cfg.JWT.SecretKey)

	storageService, err := services.NewStorageService(cfg)
	require.NoError(t, err)
	authService := services.NewAuthService(db, cfg)
	rfpService, responseService := services.NewLifecycleServices(db, storageService, nil)

	authHandler := NewAuthHandler(authService)
	rfpHandler := NewRFPHandler(rfpService, storageService)
	responseHandler := NewResponseHandler(responseService, storageService)

	r := gin.New()
	api := r.Group("/api")

	auth := api.Group("/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
		auth.POST("/refresh", authHandler.RefreshToken)
		auth.GET("/me", middleware.AuthRequired(), authHandler.GetProfile)
	}

	rfps := api.Group("/rfps")
	rfps.Use(middleware.AuthRequired())
	{
		rfps.GET("/search", rfpHandler.SearchRFPs)
		rfps.GET("/available", middleware.SupplierRequired(), responseHandler.ListAvailableRFPs)
		rfps.GET("/submissions/my", middleware.SupplierRequired(), responseHandler.ListMySubmissions)

		rfps.GET("", rfpHandler.ListRFPs)
		rfps.POST("", middleware.BuyerRequired(), rfpHandler.CreateRFP)

		rfps.GET("/:id", rfpHandler.GetRFP)
		rfps.PUT("/:id", middleware.BuyerRequired(), rfpHandler.UpdateRFP)
		rfps.DELETE("/:id", middleware.BuyerRequired(), rfpHandler.DeleteRFP)
		rfps.PATCH("/:id/status", middleware.BuyerRequired(), rfpHandler.UpdateRFPStatus)

		rfps.GET("/:id/responses", middleware.BuyerRequired(), rfpHandler.ListResponsesForRFP)
		rfps.POST("/:id/responses", middleware.SupplierRequired(), responseHandler.SubmitResponse)
		rfps.PATCH("/:id/responses/:rid/status", middleware.BuyerRequired(), responseHandler.DecideResponse)
	}

	return db, r
}

func createAuthedUser(t *testing.T, db *gorm.DB, username string, role models.UserRole) (*models.User, string) {
	t.Helper()

	user := &models.User{
		Username: username,
		Email:    username + "@example.com",
		Role:     role,
	}
	require.NoError(t, user.SetPassword("TestPass123"))
	require.NoError(t, db.Create(user).Error)

	token, err := utils.GenerateJWT(user.ID, user.Username, string(user.Role), 1)
	require.NoError(t, err)

	return user, token
}

func doJSON(t *testing.T, r *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// doMultipart posts form fields plus a small PDF payload under the given
// file field name.
func doMultipart(t *testing.T, r *gin.Engine, path, token string, fields map[string]string, fileField string) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for key, value := range fields {
		require.NoError(t, writer.WriteField(key, value))
	}

	part, err := writer.CreateFormFile(fileField, "document.pdf")
	require.NoError(t, err)
	_, err = part.Write([]byte("%PDF-1.4 test document"))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req, err := http.NewRequest(http.MethodPost, path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}
