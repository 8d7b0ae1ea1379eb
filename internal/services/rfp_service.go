// internal/services/rfp_service.go
package services

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/procurehub/rfp-backend/internal/models"
	"github.com/procurehub/rfp-backend/internal/utils"
)

// RFPService is the lifecycle engine for RFP records plus the buyer-side
// query surface. Every mutating operation serializes on the RFP
// aggregate, evaluates its guards against the freshly loaded state, and
// applies the effect inside one transaction, so guards never observe a
// stale status.
type RFPService struct {
	db      *gorm.DB
	locks   *aggregateLocks
	storage *StorageService
}

type CreateRFPRequest struct {
	Title       string `json:"title" validate:"required,min=1,max=100"`
	Description string `json:"description" validate:"required,min=1,max=5000"`
	DocumentURL string `json:"document_url" validate:"required"`
	DocumentKey string `json:"-"`
}

type UpdateRFPRequest struct {
	Title       string `json:"title" validate:"required,min=1,max=100"`
	Description string `json:"description" validate:"required,min=1,max=5000"`
}

func NewRFPService(db *gorm.DB, locks *aggregateLocks, storage *StorageService) *RFPService {
	return &RFPService{
		db:      db,
		locks:   locks,
		storage: storage,
	}
}

// CreateRFP starts a new RFP in draft for the calling buyer. The
// document URL must already be minted; it is written atomically with the
// record so a half-created RFP is never observable.
func (s *RFPService) CreateRFP(actor models.Actor, req *CreateRFPRequest) (*models.RFP, error) {
	if !actor.IsBuyer() {
		return nil, models.NewForbiddenError("only buyers can create RFPs")
	}

	if err := utils.ValidateStruct(req); err != nil {
		return nil, models.NewValidationError("validation failed: %v", err)
	}

	rfp := &models.RFP{
		BuyerID:     actor.ID,
		Title:       req.Title,
		Description: req.Description,
		DocumentURL: req.DocumentURL,
		Status:      models.RFPStatusDraft,
	}

	if err := s.db.Create(rfp).Error; err != nil {
		return nil, models.NewDependencyError("failed to create RFP", err)
	}

	return rfp, nil
}

// PublishRFP moves a draft to published, making it visible to suppliers.
func (s *RFPService) PublishRFP(actor models.Actor, rfpID uuid.UUID) (*models.RFP, error) {
	unlock := s.locks.Acquire(rfpID)
	defer unlock()

	rfp, err := s.loadOwnedRFP(actor, rfpID)
	if err != nil {
		return nil, err
	}

	if rfp.Status != models.RFPStatusDraft {
		return nil, models.NewConflictError("only draft RFPs can be published (current status: %s)", rfp.Status)
	}

	// A draft can never have responses: check anyway so the invariant
	// survives direct writes to the store.
	var responseCount int64
	if err := s.db.Model(&models.Response{}).Where("rfp_id = ?", rfpID).Count(&responseCount).Error; err != nil {
		return nil, models.NewDependencyError("failed to count responses", err)
	}
	if responseCount > 0 {
		return nil, models.NewConflictError("RFP already has responses and cannot be published from draft")
	}

	if err := s.db.Model(rfp).Update("status", models.RFPStatusPublished).Error; err != nil {
		return nil, models.NewDependencyError("failed to publish RFP", err)
	}

	rfp.Status = models.RFPStatusPublished
	return rfp, nil
}

// BeginReview moves an RFP with responses into under_review, the only
// state in which responses may be decided.
func (s *RFPService) BeginReview(actor models.Actor, rfpID uuid.UUID) (*models.RFP, error) {
	unlock := s.locks.Acquire(rfpID)
	defer unlock()

	rfp, err := s.loadOwnedRFP(actor, rfpID)
	if err != nil {
		return nil, err
	}

	if rfp.Status != models.RFPStatusResponseSubmitted {
		return nil, models.NewConflictError("review can only begin once responses have been submitted (current status: %s)", rfp.Status)
	}

	var responseCount int64
	if err := s.db.Model(&models.Response{}).Where("rfp_id = ?", rfpID).Count(&responseCount).Error; err != nil {
		return nil, models.NewDependencyError("failed to count responses", err)
	}
	if responseCount == 0 {
		return nil, models.NewConflictError("RFP has no responses to review")
	}

	if err := s.db.Model(rfp).Update("status", models.RFPStatusUnderReview).Error; err != nil {
		return nil, models.NewDependencyError("failed to update RFP status", err)
	}

	rfp.Status = models.RFPStatusUnderReview
	return rfp, nil
}

// UpdateRFP edits title/description, allowed only while the RFP is a
// draft.
func (s *RFPService) UpdateRFP(actor models.Actor, rfpID uuid.UUID, req *UpdateRFPRequest) (*models.RFP, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, models.NewValidationError("validation failed: %v", err)
	}

	unlock := s.locks.Acquire(rfpID)
	defer unlock()

	rfp, err := s.loadOwnedRFP(actor, rfpID)
	if err != nil {
		return nil, err
	}

	if rfp.Status != models.RFPStatusDraft {
		return nil, models.NewConflictError("only draft RFPs can be edited (current status: %s)", rfp.Status)
	}

	updates := map[string]interface{}{
		"title":       req.Title,
		"description": req.Description,
	}
	if err := s.db.Model(rfp).Updates(updates).Error; err != nil {
		return nil, models.NewDependencyError("failed to update RFP", err)
	}

	rfp.Title = req.Title
	rfp.Description = req.Description
	return rfp, nil
}

// DeleteRFP removes a draft RFP. Once any response exists the RFP can no
// longer be a draft, so deletion is refused.
func (s *RFPService) DeleteRFP(actor models.Actor, rfpID uuid.UUID) error {
	unlock := s.locks.Acquire(rfpID)
	defer unlock()

	rfp, err := s.loadOwnedRFP(actor, rfpID)
	if err != nil {
		return err
	}

	if rfp.Status != models.RFPStatusDraft {
		return models.NewConflictError("only draft RFPs can be deleted (current status: %s)", rfp.Status)
	}

	var responseCount int64
	if err := s.db.Model(&models.Response{}).Where("rfp_id = ?", rfpID).Count(&responseCount).Error; err != nil {
		return models.NewDependencyError("failed to count responses", err)
	}
	if responseCount > 0 {
		return models.NewConflictError("RFP with responses cannot be deleted")
	}

	documentURL := rfp.DocumentURL
	if err := s.db.Delete(rfp).Error; err != nil {
		return models.NewDependencyError("failed to delete RFP", err)
	}

	s.locks.Forget(rfpID)

	// Best effort: the record is authoritative, an orphaned document is
	// only storage waste.
	if s.storage != nil && documentURL != "" {
		if key := storageKeyFromURL(documentURL); key != "" {
			if err := s.storage.DeleteFile(key); err != nil {
				logrus.WithError(err).Warn("Failed to delete RFP document from storage")
			}
		}
	}

	return nil
}

// GetRFP fetches one RFP subject to the caller's visibility: buyers see
// their own RFPs in any status, suppliers see RFPs that are or were open
// for responses. Invisible and nonexistent look identical to the caller.
func (s *RFPService) GetRFP(actor models.Actor, rfpID uuid.UUID) (*models.RFP, error) {
	var rfp models.RFP
	if err := s.db.First(&rfp, "id = ?", rfpID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("RFP not found")
		}
		return nil, models.NewDependencyError("failed to load RFP", err)
	}

	if !s.visibleTo(actor, &rfp) {
		return nil, models.NewNotFoundError("RFP not found")
	}

	return &rfp, nil
}

// ListVisibleRFPs returns the RFPs the actor may see, newest first.
func (s *RFPService) ListVisibleRFPs(actor models.Actor, params utils.PaginationParams) ([]models.RFP, int64, error) {
	return s.queryVisible(actor, "", params)
}

// SearchRFPs is ListVisibleRFPs narrowed by a case-insensitive substring
// match on title and description. An empty query returns the unfiltered
// visible set.
func (s *RFPService) SearchRFPs(actor models.Actor, query string, params utils.PaginationParams) ([]models.RFP, int64, error) {
	return s.queryVisible(actor, query, params)
}

// ListResponsesForRFP returns every response on an RFP the buyer owns.
func (s *RFPService) ListResponsesForRFP(actor models.Actor, rfpID uuid.UUID) ([]models.Response, error) {
	if _, err := s.loadOwnedRFP(actor, rfpID); err != nil {
		return nil, err
	}

	var responses []models.Response
	if err := s.db.Where("rfp_id = ?", rfpID).
		Preload("Supplier").
		Order("created_at ASC").
		Find(&responses).Error; err != nil {
		return nil, models.NewDependencyError("failed to load responses", err)
	}

	return responses, nil
}

func (s *RFPService) queryVisible(actor models.Actor, search string, params utils.PaginationParams) ([]models.RFP, int64, error) {
	query := s.visibleQuery(actor)

	if search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER(title) LIKE ? OR LOWER(description) LIKE ?", pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, models.NewDependencyError("failed to count RFPs", err)
	}

	query = query.Order("created_at DESC")
	query = utils.ApplyPagination(query, params)

	var rfps []models.RFP
	if err := query.Find(&rfps).Error; err != nil {
		return nil, 0, models.NewDependencyError("failed to fetch RFPs", err)
	}

	return rfps, total, nil
}

func (s *RFPService) visibleQuery(actor models.Actor) *gorm.DB {
	query := s.db.Model(&models.RFP{})
	if actor.IsBuyer() {
		return query.Where("buyer_id = ?", actor.ID)
	}
	return query.Where("status IN ?", supplierVisibleStatuses())
}

func (s *RFPService) visibleTo(actor models.Actor, rfp *models.RFP) bool {
	if actor.IsBuyer() {
		return rfp.BuyerID == actor.ID
	}
	for _, status := range supplierVisibleStatuses() {
		if rfp.Status == status {
			return true
		}
	}
	return false
}

func supplierVisibleStatuses() []models.RFPStatus {
	return []models.RFPStatus{
		models.RFPStatusPublished,
		models.RFPStatusResponseSubmitted,
		models.RFPStatusUnderReview,
	}
}

// loadOwnedRFP resolves an RFP and asserts the actor is its owning
// buyer. Nonexistent RFPs and suppliers probing foreign RFPs both get
// not-found; an authenticated buyer who is not the owner gets forbidden.
func (s *RFPService) loadOwnedRFP(actor models.Actor, rfpID uuid.UUID) (*models.RFP, error) {
	var rfp models.RFP
	if err := s.db.First(&rfp, "id = ?", rfpID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("RFP not found")
		}
		return nil, models.NewDependencyError("failed to load RFP", err)
	}

	if !actor.IsBuyer() {
		return nil, models.NewForbiddenError("only the owning buyer can manage an RFP")
	}
	if rfp.BuyerID != actor.ID {
		return nil, models.NewForbiddenError("you do not own this RFP")
	}

	return &rfp, nil
}

func storageKeyFromURL(url string) string {
	// Keys carry a folder prefix; everything after the host is the key.
	idx := strings.Index(url, "rfp-documents/")
	if idx == -1 {
		idx = strings.Index(url, "response-documents/")
	}
	if idx == -1 {
		return ""
	}
	return url[idx:]
}
