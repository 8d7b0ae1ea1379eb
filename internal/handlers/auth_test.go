// internal/handlers/auth_test.go
package handlers

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"
)

type AuthHandlerTestSuite struct {
	suite.Suite
	db     *gorm.DB
	router *gin.Engine
}

func (suite *AuthHandlerTestSuite) SetupTest() {
	suite.db, suite.router = setupTestRouter(suite.T())
}

func (suite *AuthHandlerTestSuite) TestRegisterAndLogin() {
	w := doJSON(suite.T(), suite.router, http.MethodPost, "/api/auth/register", "", map[string]interface{}{
		"username": "acme_buyer",
		"email":    "acme@example.com",
		"password": "TestPass123",
		"role":     "buyer",
	})
	assert.Equal(suite.T(), http.StatusCreated, w.Code)

	body := decodeBody(suite.T(), w)
	assert.True(suite.T(), body["success"].(bool))
	data := body["data"].(map[string]interface{})
	assert.NotEmpty(suite.T(), data["token"])
	assert.Equal(suite.T(), "Bearer", data["token_type"])

	w = doJSON(suite.T(), suite.router, http.MethodPost, "/api/auth/login", "", map[string]interface{}{
		"email":    "acme@example.com",
		"password": "TestPass123",
	})
	assert.Equal(suite.T(), http.StatusOK, w.Code)

	body = decodeBody(suite.T(), w)
	data = body["data"].(map[string]interface{})
	user := data["user"].(map[string]interface{})
	assert.Equal(suite.T(), "buyer", user["role"])
	assert.NotContains(suite.T(), user, "password_hash")
}

func (suite *AuthHandlerTestSuite) TestRegisterDuplicateEmailConflicts() {
	payload := map[string]interface{}{
		"username": "acme_buyer",
		"email":    "acme@example.com",
		"password": "TestPass123",
		"role":     "buyer",
	}

	w := doJSON(suite.T(), suite.router, http.MethodPost, "/api/auth/register", "", payload)
	assert.Equal(suite.T(), http.StatusCreated, w.Code)

	payload["username"] = "acme_buyer_2"
	w = doJSON(suite.T(), suite.router, http.MethodPost, "/api/auth/register", "", payload)
	assert.Equal(suite.T(), http.StatusConflict, w.Code)
}

func (suite *AuthHandlerTestSuite) TestRegisterRejectsWeakPassword() {
	w := doJSON(suite.T(), suite.router, http.MethodPost, "/api/auth/register", "", map[string]interface{}{
		"username": "acme_buyer",
		"email":    "acme@example.com",
		"password": "short",
		"role":     "buyer",
	})
	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

func (suite *AuthHandlerTestSuite) TestLoginWrongPasswordUnauthorized() {
	doJSON(suite.T(), suite.router, http.MethodPost, "/api/auth/register", "", map[string]interface{}{
		"username": "acme_buyer",
		"email":    "acme@example.com",
		"password": "TestPass123",
		"role":     "buyer",
	})

	w := doJSON(suite.T(), suite.router, http.MethodPost, "/api/auth/login", "", map[string]interface{}{
		"email":    "acme@example.com",
		"password": "WrongPass123",
	})
	assert.Equal(suite.T(), http.StatusUnauthorized, w.Code)
}

func (suite *AuthHandlerTestSuite) TestProfileRequiresToken() {
	w := doJSON(suite.T(), suite.router, http.MethodGet, "/api/auth/me", "", nil)
	assert.Equal(suite.T(), http.StatusUnauthorized, w.Code)

	_, token := createAuthedUser(suite.T(), suite.db, "acme_buyer", "buyer")
	w = doJSON(suite.T(), suite.router, http.MethodGet, "/api/auth/me", token, nil)
	assert.Equal(suite.T(), http.StatusOK, w.Code)

	body := decodeBody(suite.T(), w)
	user := body["data"].(map[string]interface{})["user"].(map[string]interface{})
	assert.Equal(suite.T(), "acme_buyer", user["username"])
}

func TestAuthHandlerSuite(t *testing.T) {
	suite.Run(t, new(AuthHandlerTestSuite))
}
