// internal/handlers/rfp_test.go
package handlers

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"

	"github.com/procurehub/rfp-backend/internal/models"
)

type RFPHandlerTestSuite struct {
	suite.Suite
	db     *gorm.DB
	router *gin.Engine

	buyerToken    string
	supplierToken string
	supplier2Tok  string
}

func (suite *RFPHandlerTestSuite) SetupTest() {
	suite.db, suite.router = setupTestRouter(suite.T())

	_, suite.buyerToken = createAuthedUser(suite.T(), suite.db, "acme_buyer", models.UserRoleBuyer)
	_, suite.supplierToken = createAuthedUser(suite.T(), suite.db, "initech_supplier", models.UserRoleSupplier)
	_, suite.supplier2Tok = createAuthedUser(suite.T(), suite.db, "vandelay_supplier", models.UserRoleSupplier)
}

func (suite *RFPHandlerTestSuite) createRFP(title string) string {
	w := doMultipart(suite.T(), suite.router, "/api/rfps", suite.buyerToken, map[string]string{
		"title":       title,
		"description": "Description for " + title,
	}, "document")
	require.Equal(suite.T(), http.StatusCreated, w.Code, w.Body.String())

	body := decodeBody(suite.T(), w)
	rfp := body["data"].(map[string]interface{})["rfp"].(map[string]interface{})
	return rfp["id"].(string)
}

func (suite *RFPHandlerTestSuite) publish(rfpID string) {
	w := doJSON(suite.T(), suite.router, http.MethodPatch, "/api/rfps/"+rfpID+"/status", suite.buyerToken, map[string]string{
		"status": "published",
	})
	require.Equal(suite.T(), http.StatusOK, w.Code, w.Body.String())
}

func (suite *RFPHandlerTestSuite) submitResponse(token, rfpID string) *httptest.ResponseRecorder {
	return doMultipart(suite.T(), suite.router, "/api/rfps/"+rfpID+"/responses", token, map[string]string{
		"response_text": "We can deliver this",
	}, "document")
}

func (suite *RFPHandlerTestSuite) TestCreateRFPRequiresBuyerRole() {
	w := doMultipart(suite.T(), suite.router, "/api/rfps", suite.supplierToken, map[string]string{
		"title":       "Fleet leasing",
		"description": "Lease a fleet",
	}, "document")
	assert.Equal(suite.T(), http.StatusForbidden, w.Code)
}

func (suite *RFPHandlerTestSuite) TestCreateRFPRequiresDocument() {
	w := doJSON(suite.T(), suite.router, http.MethodPost, "/api/rfps", suite.buyerToken, map[string]string{
		"title": "Fleet leasing",
	})
	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

func (suite *RFPHandlerTestSuite) TestFullLifecycleOverHTTP() {
	rfpID := suite.createRFP("Fleet leasing")

	// Draft is invisible to suppliers.
	w := doJSON(suite.T(), suite.router, http.MethodGet, "/api/rfps/"+rfpID, suite.supplierToken, nil)
	assert.Equal(suite.T(), http.StatusNotFound, w.Code)

	suite.publish(rfpID)

	// Both suppliers respond.
	res := suite.submitResponse(suite.supplierToken, rfpID)
	require.Equal(suite.T(), http.StatusCreated, res.Code, res.Body.String())
	winner := decodeBody(suite.T(), res)["data"].(map[string]interface{})["response"].(map[string]interface{})["id"].(string)

	res = suite.submitResponse(suite.supplier2Tok, rfpID)
	require.Equal(suite.T(), http.StatusCreated, res.Code, res.Body.String())

	// Duplicate submission from the same supplier is refused.
	res = suite.submitResponse(suite.supplierToken, rfpID)
	assert.Equal(suite.T(), http.StatusConflict, res.Code)

	// Review starts; no further submissions.
	w = doJSON(suite.T(), suite.router, http.MethodPatch, "/api/rfps/"+rfpID+"/status", suite.buyerToken, map[string]string{
		"status": "under_review",
	})
	require.Equal(suite.T(), http.StatusOK, w.Code, w.Body.String())

	// Buyer sees both responses.
	w = doJSON(suite.T(), suite.router, http.MethodGet, "/api/rfps/"+rfpID+"/responses", suite.buyerToken, nil)
	require.Equal(suite.T(), http.StatusOK, w.Code)
	responses := decodeBody(suite.T(), w)["data"].(map[string]interface{})["responses"].([]interface{})
	assert.Len(suite.T(), responses, 2)

	// Approving one resolves the RFP and rejects the sibling.
	w = doJSON(suite.T(), suite.router, http.MethodPatch,
		fmt.Sprintf("/api/rfps/%s/responses/%s/status", rfpID, winner),
		suite.buyerToken, map[string]string{"status": "approved"})
	require.Equal(suite.T(), http.StatusOK, w.Code, w.Body.String())

	w = doJSON(suite.T(), suite.router, http.MethodGet, "/api/rfps/"+rfpID, suite.buyerToken, nil)
	require.Equal(suite.T(), http.StatusOK, w.Code)
	rfp := decodeBody(suite.T(), w)["data"].(map[string]interface{})["rfp"].(map[string]interface{})
	assert.Equal(suite.T(), "approved", rfp["status"])

	var rejected int64
	suite.db.Model(&models.Response{}).
		Where("status = ?", models.ResponseStatusRejected).
		Count(&rejected)
	assert.Equal(suite.T(), int64(1), rejected)
}

func (suite *RFPHandlerTestSuite) TestAvailableAndMySubmissionsStayDisjoint() {
	first := suite.createRFP("Fleet leasing")
	second := suite.createRFP("Catering")
	suite.publish(first)
	suite.publish(second)

	res := suite.submitResponse(suite.supplierToken, first)
	require.Equal(suite.T(), http.StatusCreated, res.Code, res.Body.String())

	w := doJSON(suite.T(), suite.router, http.MethodGet, "/api/rfps/available", suite.supplierToken, nil)
	require.Equal(suite.T(), http.StatusOK, w.Code)
	available := decodeBody(suite.T(), w)["data"].([]interface{})
	require.Len(suite.T(), available, 1)
	assert.Equal(suite.T(), second, available[0].(map[string]interface{})["id"])

	w = doJSON(suite.T(), suite.router, http.MethodGet, "/api/rfps/submissions/my", suite.supplierToken, nil)
	require.Equal(suite.T(), http.StatusOK, w.Code)
	submissions := decodeBody(suite.T(), w)["data"].([]interface{})
	require.Len(suite.T(), submissions, 1)
	assert.Equal(suite.T(), first, submissions[0].(map[string]interface{})["rfp_id"])
	assert.Equal(suite.T(), "Fleet leasing", submissions[0].(map[string]interface{})["rfp_title"])

	// Buyers have neither list.
	w = doJSON(suite.T(), suite.router, http.MethodGet, "/api/rfps/available", suite.buyerToken, nil)
	assert.Equal(suite.T(), http.StatusForbidden, w.Code)
}

func (suite *RFPHandlerTestSuite) TestSearchOverHTTP() {
	first := suite.createRFP("Datacenter Cooling")
	second := suite.createRFP("Office catering")
	suite.publish(first)
	suite.publish(second)

	w := doJSON(suite.T(), suite.router, http.MethodGet, "/api/rfps/search?q=cooling", suite.supplierToken, nil)
	require.Equal(suite.T(), http.StatusOK, w.Code)
	results := decodeBody(suite.T(), w)["data"].([]interface{})
	require.Len(suite.T(), results, 1)
	assert.Equal(suite.T(), "Datacenter Cooling", results[0].(map[string]interface{})["title"])
}

func (suite *RFPHandlerTestSuite) TestDraftEditAndDelete() {
	rfpID := suite.createRFP("Fleet leasing")

	w := doJSON(suite.T(), suite.router, http.MethodPut, "/api/rfps/"+rfpID, suite.buyerToken, map[string]string{
		"title":       "Fleet leasing 2027",
		"description": "Extended scope",
	})
	require.Equal(suite.T(), http.StatusOK, w.Code, w.Body.String())

	suite.publish(rfpID)

	// Published RFPs can no longer be edited or deleted.
	w = doJSON(suite.T(), suite.router, http.MethodPut, "/api/rfps/"+rfpID, suite.buyerToken, map[string]string{
		"title":       "Too late",
		"description": "Too late",
	})
	assert.Equal(suite.T(), http.StatusConflict, w.Code)

	w = doJSON(suite.T(), suite.router, http.MethodDelete, "/api/rfps/"+rfpID, suite.buyerToken, nil)
	assert.Equal(suite.T(), http.StatusConflict, w.Code)

	draft := suite.createRFP("Catering")
	w = doJSON(suite.T(), suite.router, http.MethodDelete, "/api/rfps/"+draft, suite.buyerToken, nil)
	assert.Equal(suite.T(), http.StatusOK, w.Code)

	w = doJSON(suite.T(), suite.router, http.MethodGet, "/api/rfps/"+draft, suite.buyerToken, nil)
	assert.Equal(suite.T(), http.StatusNotFound, w.Code)
}

func TestRFPHandlerSuite(t *testing.T) {
	suite.Run(t, new(RFPHandlerTestSuite))
}
