// internal/handlers/response.go
package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/procurehub/rfp-backend/internal/i18n"
	"github.com/procurehub/rfp-backend/internal/models"
	"github.com/procurehub/rfp-backend/internal/services"
	"github.com/procurehub/rfp-backend/internal/utils"
)

type ResponseHandler struct {
	responseService *services.ResponseService
	storageService  *services.StorageService
}

func NewResponseHandler(responseService *services.ResponseService, storageService *services.StorageService) *ResponseHandler {
	return &ResponseHandler{
		responseService: responseService,
		storageService:  storageService,
	}
}

// POST /api/rfps/:id/responses
// Multipart form: response_text, document (file).
func (h *ResponseHandler) SubmitResponse(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	actor, err := actorFromContext(c)
	if err != nil {
		utils.UnauthorizedResponse(c, "")
		return
	}

	rfpID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid RFP ID", nil)
		return
	}

	responseText := c.PostForm("response_text")

	fileHeader, err := c.FormFile("document")
	if err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationRequired, "document"), nil)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "document"), err.Error())
		return
	}
	defer file.Close()

	options := h.storageService.GetDefaultUploadOptions("response_documents")
	result, err := h.storageService.UploadFile(file, fileHeader, options)
	if err != nil {
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	req := &services.SubmitResponseRequest{
		ResponseText: responseText,
		DocumentURL:  result.URL,
	}

	response, err := h.responseService.SubmitResponse(actor, rfpID, req)
	if err != nil {
		utils.DomainErrorResponse(c, err)
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message":  i18n.T(lang, i18n.KeyResponseSubmitted),
		"response": response,
	})
}

// PATCH /api/rfps/:id/responses/:rid/status
// Body: {"status": "approved"} or {"status": "rejected"}.
func (h *ResponseHandler) DecideResponse(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	actor, err := actorFromContext(c)
	if err != nil {
		utils.UnauthorizedResponse(c, "")
		return
	}

	rfpID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid RFP ID", nil)
		return
	}

	responseID, err := uuid.Parse(c.Param("rid"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid response ID", nil)
		return
	}

	var req services.DecideResponseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	response, err := h.responseService.DecideResponse(actor, rfpID, responseID, &req)
	if err != nil {
		utils.DomainErrorResponse(c, err)
		return
	}

	var message string
	if response.Status == models.ResponseStatusApproved {
		message = i18n.T(lang, i18n.KeyResponseApproved)
	} else {
		message = i18n.T(lang, i18n.KeyResponseRejected)
	}

	utils.SuccessResponse(c, gin.H{
		"message":  message,
		"response": response,
	})
}

// GET /api/rfps/submissions/my
func (h *ResponseHandler) ListMySubmissions(c *gin.Context) {
	actor, err := actorFromContext(c)
	if err != nil {
		utils.UnauthorizedResponse(c, "")
		return
	}

	params := utils.GetPaginationParams(c)
	submissions, total, err := h.responseService.ListMySubmissions(actor, params)
	if err != nil {
		utils.DomainErrorResponse(c, err)
		return
	}

	result := utils.CreatePaginationResult(submissions, total, params)
	utils.PaginatedResponse(c, result)
}

// GET /api/rfps/available
func (h *ResponseHandler) ListAvailableRFPs(c *gin.Context) {
	actor, err := actorFromContext(c)
	if err != nil {
		utils.UnauthorizedResponse(c, "")
		return
	}

	params := utils.GetPaginationParams(c)
	rfps, total, err := h.responseService.ListAvailableRFPs(actor, params)
	if err != nil {
		utils.DomainErrorResponse(c, err)
		return
	}

	result := utils.CreatePaginationResult(rfps, total, params)
	utils.PaginatedResponse(c, result)
}
