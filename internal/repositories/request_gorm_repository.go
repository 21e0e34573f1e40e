package repositories

import (
	"errors"
	"fmt"

	"bookswap/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMRequestRepository is a GORM implementation of RequestRepository.
type GORMRequestRepository struct {
	db *gorm.DB
}

// NewGORMRequestRepository creates a new instance of GORMRequestRepository.
func NewGORMRequestRepository(db *gorm.DB) *GORMRequestRepository {
	return &GORMRequestRepository{
		db: db,
	}
}

func (r *GORMRequestRepository) withRelations() *gorm.DB {
	return r.db.Preload("Book").Preload("Requester").Preload("Owner")
}

// GetByID retrieves a single request with its book, requester and owner.
func (r *GORMRequestRepository) GetByID(id string) (*models.Request, error) {
	var request models.Request
	if err := r.withRelations().First(&request, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("request with ID %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get request by ID %s: %w", id, err)
	}
	return &request, nil
}

// Create creates a new request in the database.
func (r *GORMRequestRepository) Create(request *models.Request) error {
	if request.ID == "" {
		request.ID = uuid.New().String()
	}
	if err := r.db.Create(request).Error; err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	return nil
}

// GetByOwner retrieves all requests received by ownerID, newest first.
func (r *GORMRequestRepository) GetByOwner(ownerID string) ([]models.Request, error) {
	var requests []models.Request
	err := r.withRelations().Where("owner_id = ?", ownerID).Order("created_at DESC").Find(&requests).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get requests for owner %s: %w", ownerID, err)
	}
	return requests, nil
}

// GetByRequester retrieves all requests sent by requesterID, newest first.
func (r *GORMRequestRepository) GetByRequester(requesterID string) ([]models.Request, error) {
	var requests []models.Request
	err := r.withRelations().Where("requester_id = ?", requesterID).Order("created_at DESC").Find(&requests).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get requests for requester %s: %w", requesterID, err)
	}
	return requests, nil
}

// FindActive looks up a pending or accepted request by requesterID on bookID.
func (r *GORMRequestRepository) FindActive(bookID, requesterID string) (*models.Request, error) {
	var request models.Request
	err := r.db.
		Where("book_id = ? AND requester_id = ? AND status IN ?", bookID, requesterID,
			[]string{models.StatusPending, models.StatusAccepted}).
		First(&request).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("active request for book %s by %s: %w", bookID, requesterID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find active request for book %s: %w", bookID, err)
	}
	return &request, nil
}

// UpdateStatus sets the status of a request.
func (r *GORMRequestRepository) UpdateStatus(id, status string) error {
	res := r.db.Model(&models.Request{}).Where("id = ?", id).Update("status", status)
	if res.Error != nil {
		return fmt.Errorf("failed to update request status: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("request with ID %s: %w", id, ErrNotFound)
	}
	return nil
}

// Accept runs the whole accept sequence in one transaction: the request
// becomes accepted, its book becomes unavailable, and every other pending
// request on that book becomes declined. Either all three writes land or
// none do.
func (r *GORMRequestRepository) Accept(id string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var request models.Request
		if err := tx.First(&request, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("request with ID %s: %w", id, ErrNotFound)
			}
			return fmt.Errorf("failed to get request by ID %s: %w", id, err)
		}

		if err := tx.Model(&models.Request{}).Where("id = ?", id).
			Update("status", models.StatusAccepted).Error; err != nil {
			return fmt.Errorf("failed to accept request %s: %w", id, err)
		}

		if err := tx.Model(&models.Book{}).Where("id = ?", request.BookID).
			Update("available", false).Error; err != nil {
			return fmt.Errorf("failed to mark book %s unavailable: %w", request.BookID, err)
		}

		err := tx.Model(&models.Request{}).
			Where("book_id = ? AND id <> ? AND status = ?", request.BookID, id, models.StatusPending).
			Update("status", models.StatusDeclined).Error
		if err != nil {
			return fmt.Errorf("failed to decline competing requests for book %s: %w", request.BookID, err)
		}
		return nil
	})
}

// DeleteByBook removes every request referencing bookID. Deleting zero rows
// is fine, a book may have no requests.
func (r *GORMRequestRepository) DeleteByBook(bookID string) error {
	if err := r.db.Delete(&models.Request{}, "book_id = ?", bookID).Error; err != nil {
		return fmt.Errorf("failed to delete requests for book %s: %w", bookID, err)
	}
	return nil
}
