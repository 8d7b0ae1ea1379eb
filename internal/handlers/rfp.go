// internal/handlers/rfp.go
package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/procurehub/rfp-backend/internal/i18n"
	"github.com/procurehub/rfp-backend/internal/models"
	"github.com/procurehub/rfp-backend/internal/services"
	"github.com/procurehub/rfp-backend/internal/utils"
)

type RFPHandler struct {
	rfpService     *services.RFPService
	storageService *services.StorageService
}

func NewRFPHandler(rfpService *services.RFPService, storageService *services.StorageService) *RFPHandler {
	return &RFPHandler{
		rfpService:     rfpService,
		storageService: storageService,
	}
}

// POST /api/rfps
// Multipart form: title, description, document (file). The document is
// stored first; its URL is written together with the new record.
func (h *RFPHandler) CreateRFP(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	actor, err := actorFromContext(c)
	if err != nil {
		utils.UnauthorizedResponse(c, "")
		return
	}

	title := c.PostForm("title")
	description := c.PostForm("description")

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

	options := h.storageService.GetDefaultUploadOptions("rfp_documents")
	result, err := h.storageService.UploadFile(file, fileHeader, options)
	if err != nil {
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	req := &services.CreateRFPRequest{
		Title:       title,
		Description: description,
		DocumentURL: result.URL,
		DocumentKey: result.Key,
	}

	rfp, err := h.rfpService.CreateRFP(actor, req)
	if err != nil {
		utils.DomainErrorResponse(c, err)
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyRFPCreated),
		"rfp":     rfp,
	})
}

// GET /api/rfps
func (h *RFPHandler) ListRFPs(c *gin.Context) {
	actor, err := actorFromContext(c)
	if err != nil {
		utils.UnauthorizedResponse(c, "")
		return
	}

	params := utils.GetPaginationParams(c)
	rfps, total, err := h.rfpService.ListVisibleRFPs(actor, params)
	if err != nil {
		utils.DomainErrorResponse(c, err)
		return
	}

	result := utils.CreatePaginationResult(rfps, total, params)
	utils.PaginatedResponse(c, result)
}

// GET /api/rfps/search?q=
func (h *RFPHandler) SearchRFPs(c *gin.Context) {
	actor, err := actorFromContext(c)
	if err != nil {
		utils.UnauthorizedResponse(c, "")
		return
	}

	params := utils.GetPaginationParams(c)
	rfps, total, err := h.rfpService.SearchRFPs(actor, params.Search, params)
	if err != nil {
		utils.DomainErrorResponse(c, err)
		return
	}

	result := utils.CreatePaginationResult(rfps, total, params)
	utils.PaginatedResponse(c, result)
}

// GET /api/rfps/:id
func (h *RFPHandler) GetRFP(c *gin.Context) {
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

	rfp, err := h.rfpService.GetRFP(actor, rfpID)
	if err != nil {
		utils.DomainErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"rfp": rfp})
}

// PATCH /api/rfps/:id/status
// Body: {"status": "published"} or {"status": "under_review"}. Other
// statuses are not reachable through this endpoint: they come from
// response submission and decisions.
func (h *RFPHandler) UpdateRFPStatus(c *gin.Context) {
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

	var req struct {
		Status models.RFPStatus `json:"status" validate:"required,oneof=published under_review"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}
	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	var rfp *models.RFP
	var message string
	switch req.Status {
	case models.RFPStatusPublished:
		rfp, err = h.rfpService.PublishRFP(actor, rfpID)
		message = i18n.T(lang, i18n.KeyRFPPublished)
	case models.RFPStatusUnderReview:
		rfp, err = h.rfpService.BeginReview(actor, rfpID)
		message = i18n.T(lang, i18n.KeyRFPUnderReview)
	}
	if err != nil {
		utils.DomainErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": message,
		"rfp":     rfp,
	})
}

// PUT /api/rfps/:id
func (h *RFPHandler) UpdateRFP(c *gin.Context) {
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

	var req services.UpdateRFPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	rfp, err := h.rfpService.UpdateRFP(actor, rfpID, &req)
	if err != nil {
		utils.DomainErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyRFPUpdated),
		"rfp":     rfp,
	})
}

// DELETE /api/rfps/:id
func (h *RFPHandler) DeleteRFP(c *gin.Context) {
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

	if err := h.rfpService.DeleteRFP(actor, rfpID); err != nil {
		utils.DomainErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyRFPDeleted),
	})
}

// GET /api/rfps/:id/responses
func (h *RFPHandler) ListResponsesForRFP(c *gin.Context) {
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

	responses, err := h.rfpService.ListResponsesForRFP(actor, rfpID)
	if err != nil {
		utils.DomainErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"responses": responses})
}
