// internal/services/response_service.go
package services

import (
	"errors"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/procurehub/rfp-backend/internal/database"
	"github.com/procurehub/rfp-backend/internal/models"
	"github.com/procurehub/rfp-backend/internal/utils"
)

// ResponseService handles the supplier side of the lifecycle: submitting
// responses and the queries over a supplier's own submissions, plus the
// buyer's decision on a response. It shares the aggregate locks with
// RFPService so transitions on the same RFP never interleave.
type ResponseService struct {
	db            *gorm.DB
	locks         *aggregateLocks
	notifications *NotificationService
}

type SubmitResponseRequest struct {
	ResponseText string `json:"response_text" validate:"required,min=1,max=5000"`
	DocumentURL  string `json:"document_url" validate:"required"`
}

type DecideResponseRequest struct {
	Status models.ResponseStatus `json:"status" validate:"required,oneof=approved rejected"`
}

func NewResponseService(db *gorm.DB, locks *aggregateLocks, notifications *NotificationService) *ResponseService {
	return &ResponseService{
		db:            db,
		locks:         locks,
		notifications: notifications,
	}
}

// SubmitResponse files a supplier's response against an open RFP. The
// first response flips the RFP from published to response_submitted;
// later responses leave it there. A supplier can submit at most once per
// RFP: the guard catches the common case and the unique index on
// (rfp_id, supplier_id) catches anything that slips past it.
func (s *ResponseService) SubmitResponse(actor models.Actor, rfpID uuid.UUID, req *SubmitResponseRequest) (*models.Response, error) {
	if !actor.IsSupplier() {
		return nil, models.NewForbiddenError("only suppliers can submit responses")
	}

	if err := utils.ValidateStruct(req); err != nil {
		return nil, models.NewValidationError("validation failed: %v", err)
	}

	unlock := s.locks.Acquire(rfpID)
	defer unlock()

	var rfp models.RFP
	if err := s.db.First(&rfp, "id = ?", rfpID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("RFP not found")
		}
		return nil, models.NewDependencyError("failed to load RFP", err)
	}

	// An RFP the supplier cannot see must look nonexistent, even when
	// probed through a submission.
	visible := false
	for _, status := range supplierVisibleStatuses() {
		if rfp.Status == status {
			visible = true
			break
		}
	}
	if !visible {
		return nil, models.NewNotFoundError("RFP not found")
	}

	if !rfp.Status.OpenForResponses() {
		return nil, models.NewConflictError("RFP is not open for responses (current status: %s)", rfp.Status)
	}

	var existing int64
	if err := s.db.Model(&models.Response{}).
		Where("rfp_id = ? AND supplier_id = ?", rfpID, actor.ID).
		Count(&existing).Error; err != nil {
		return nil, models.NewDependencyError("failed to check existing responses", err)
	}
	if existing > 0 {
		return nil, models.NewConflictError("you have already submitted a response to this RFP")
	}

	response := &models.Response{
		RFPID:        rfpID,
		SupplierID:   actor.ID,
		ResponseText: req.ResponseText,
		DocumentURL:  req.DocumentURL,
		Status:       models.ResponseStatusSubmitted,
	}

	err := database.WithTransaction(s.db, func(tx *gorm.DB) error {
		if err := tx.Create(response).Error; err != nil {
			return err
		}
		if rfp.Status == models.RFPStatusPublished {
			if err := tx.Model(&models.RFP{}).
				Where("id = ?", rfpID).
				Update("status", models.RFPStatusResponseSubmitted).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, models.NewConflictError("you have already submitted a response to this RFP")
		}
		return nil, models.NewDependencyError("failed to submit response", err)
	}

	go s.notifyBuyerOfSubmission(rfp, response)

	return response, nil
}

// DecideResponse records the buyer's approve/reject on a submitted
// response while the RFP is under review. Approval resolves the RFP:
// the RFP becomes approved and every sibling still submitted is
// auto-rejected in the same transaction. A rejection only resolves the
// RFP when no submitted responses remain.
func (s *ResponseService) DecideResponse(actor models.Actor, rfpID, responseID uuid.UUID, req *DecideResponseRequest) (*models.Response, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, models.NewValidationError("validation failed: %v", err)
	}

	unlock := s.locks.Acquire(rfpID)
	defer unlock()

	var rfp models.RFP
	if err := s.db.First(&rfp, "id = ?", rfpID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("RFP not found")
		}
		return nil, models.NewDependencyError("failed to load RFP", err)
	}

	if !actor.IsBuyer() {
		return nil, models.NewForbiddenError("only the owning buyer can decide responses")
	}
	if rfp.BuyerID != actor.ID {
		return nil, models.NewForbiddenError("you do not own this RFP")
	}

	if rfp.Status != models.RFPStatusUnderReview {
		return nil, models.NewConflictError("responses can only be decided while the RFP is under review (current status: %s)", rfp.Status)
	}

	var response models.Response
	if err := s.db.First(&response, "id = ? AND rfp_id = ?", responseID, rfpID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("response not found")
		}
		return nil, models.NewDependencyError("failed to load response", err)
	}

	if response.Status != models.ResponseStatusSubmitted {
		return nil, models.NewConflictError("response has already been decided (current status: %s)", response.Status)
	}

	var autoRejected []models.Response
	err := database.WithTransaction(s.db, func(tx *gorm.DB) error {
		if err := tx.Model(&models.Response{}).
			Where("id = ?", responseID).
			Update("status", req.Status).Error; err != nil {
			return err
		}

		if req.Status == models.ResponseStatusApproved {
			// Collect siblings first so their suppliers can be notified.
			if err := tx.Where("rfp_id = ? AND status = ? AND id != ?",
				rfpID, models.ResponseStatusSubmitted, responseID).
				Find(&autoRejected).Error; err != nil {
				return err
			}
			if err := tx.Model(&models.Response{}).
				Where("rfp_id = ? AND status = ?", rfpID, models.ResponseStatusSubmitted).
				Update("status", models.ResponseStatusRejected).Error; err != nil {
				return err
			}
			return tx.Model(&models.RFP{}).
				Where("id = ?", rfpID).
				Update("status", models.RFPStatusApproved).Error
		}

		// Rejection: the RFP resolves only once nothing is left to decide.
		var remaining int64
		if err := tx.Model(&models.Response{}).
			Where("rfp_id = ? AND status = ?", rfpID, models.ResponseStatusSubmitted).
			Count(&remaining).Error; err != nil {
			return err
		}
		if remaining == 0 {
			return tx.Model(&models.RFP{}).
				Where("id = ?", rfpID).
				Update("status", models.RFPStatusRejected).Error
		}
		return nil
	})
	if err != nil {
		return nil, models.NewDependencyError("failed to record decision", err)
	}

	response.Status = req.Status
	go s.notifySuppliersOfDecision(rfp, &response, autoRejected)

	return &response, nil
}

// ListMySubmissions returns the supplier's responses joined with their
// parent RFP title and status, newest submission first.
func (s *ResponseService) ListMySubmissions(actor models.Actor, params utils.PaginationParams) ([]models.ResponseWithRFP, int64, error) {
	if !actor.IsSupplier() {
		return nil, 0, models.NewForbiddenError("only suppliers have submissions")
	}

	base := s.db.Model(&models.Response{}).Where("responses.supplier_id = ?", actor.ID)

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, models.NewDependencyError("failed to count submissions", err)
	}

	var submissions []models.ResponseWithRFP
	query := s.db.Model(&models.Response{}).
		Select("responses.*, rfps.title AS rfp_title, rfps.status AS rfp_status").
		Joins("JOIN rfps ON rfps.id = responses.rfp_id").
		Where("responses.supplier_id = ?", actor.ID).
		Order("responses.created_at DESC")
	query = utils.ApplyPagination(query, params)

	if err := query.Scan(&submissions).Error; err != nil {
		return nil, 0, models.NewDependencyError("failed to fetch submissions", err)
	}

	return submissions, total, nil
}

// ListAvailableRFPs is the supplier's visible set minus the RFPs they
// already responded to, computed as a set difference on rfp_id. A
// supplier is never shown an RFP twice even while its status still
// allows responses from others.
func (s *ResponseService) ListAvailableRFPs(actor models.Actor, params utils.PaginationParams) ([]models.RFP, int64, error) {
	if !actor.IsSupplier() {
		return nil, 0, models.NewForbiddenError("only suppliers have an available RFP list")
	}

	respondedIDs := s.db.Model(&models.Response{}).
		Select("rfp_id").
		Where("supplier_id = ?", actor.ID)

	query := s.db.Model(&models.RFP{}).
		Where("status IN ?", supplierVisibleStatuses()).
		Where("id NOT IN (?)", respondedIDs)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, models.NewDependencyError("failed to count available RFPs", err)
	}

	query = query.Order("created_at DESC")
	query = utils.ApplyPagination(query, params)

	var rfps []models.RFP
	if err := query.Find(&rfps).Error; err != nil {
		return nil, 0, models.NewDependencyError("failed to fetch available RFPs", err)
	}

	return rfps, total, nil
}

// Notification fan-out. Failures are logged, never surfaced: the
// lifecycle transition already committed.

func (s *ResponseService) notifyBuyerOfSubmission(rfp models.RFP, response *models.Response) {
	if s.notifications == nil {
		return
	}

	var buyer, supplier models.User
	if err := s.db.First(&buyer, "id = ?", rfp.BuyerID).Error; err != nil {
		logrus.WithError(err).Warn("Failed to load buyer for notification")
		return
	}
	if err := s.db.First(&supplier, "id = ?", response.SupplierID).Error; err != nil {
		logrus.WithError(err).Warn("Failed to load supplier for notification")
		return
	}

	if err := s.notifications.SendResponseSubmittedEmail(&buyer, &rfp, &supplier); err != nil {
		logrus.WithError(err).Warn("Failed to send submission notification")
	}
}

func (s *ResponseService) notifySuppliersOfDecision(rfp models.RFP, decided *models.Response, autoRejected []models.Response) {
	if s.notifications == nil {
		return
	}

	notify := func(supplierID uuid.UUID, status models.ResponseStatus) {
		var supplier models.User
		if err := s.db.First(&supplier, "id = ?", supplierID).Error; err != nil {
			logrus.WithError(err).Warn("Failed to load supplier for notification")
			return
		}
		if err := s.notifications.SendResponseDecidedEmail(&supplier, &rfp, status); err != nil {
			logrus.WithError(err).Warn("Failed to send decision notification")
		}
	}

	notify(decided.SupplierID, decided.Status)
	for _, sibling := range autoRejected {
		notify(sibling.SupplierID, models.ResponseStatusRejected)
	}
}
