package services

import (
	"errors"
	"fmt"

	"bookswap/internal/models"
	"bookswap/internal/repositories"
	"bookswap/pkg/rabbitmq"
)

// RequestService handles business logic for swap requests, including the
// pending -> accepted/declined state machine.
type RequestService struct {
	requestRepo repositories.RequestRepository
	bookRepo    repositories.BookRepository
	mqClient    *rabbitmq.Client
}

// NewRequestService creates a new RequestService.
func NewRequestService(requestRepo repositories.RequestRepository, bookRepo repositories.BookRepository, mqClient *rabbitmq.Client) *RequestService {
	return &RequestService{
		requestRepo: requestRepo,
		bookRepo:    bookRepo,
		mqClient:    mqClient,
	}
}

// CreateRequest creates a pending swap request by requesterID on bookID.
// The book's owner is snapshotted onto the request at this point and never
// re-synced.
func (s *RequestService) CreateRequest(requesterID, bookID, message string) (*models.Request, error) {
	book, err := s.bookRepo.GetByID(bookID)
	if err != nil {
		return nil, err
	}

	if book.OwnerID == requesterID {
		return nil, fmt.Errorf("cannot request your own book: %w", ErrInvalidOperation)
	}
	if !book.Available {
		return nil, fmt.Errorf("book is not available for swapping: %w", ErrInvalidOperation)
	}

	existing, err := s.requestRepo.FindActive(bookID, requesterID)
	if err != nil && !errors.Is(err, repositories.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("you have already sent a request for this book: %w", ErrConflict)
	}

	request := &models.Request{
		BookID:      bookID,
		RequesterID: requesterID,
		OwnerID:     book.OwnerID,
		Status:      models.StatusPending,
		Message:     message,
	}
	if err := s.requestRepo.Create(request); err != nil {
		return nil, err
	}

	created, err := s.requestRepo.GetByID(request.ID)
	if err != nil {
		return nil, err
	}

	publishEvent(s.mqClient, EventRequestCreated, map[string]interface{}{
		"request_id":   created.ID,
		"book_id":      created.BookID,
		"requester_id": created.RequesterID,
		"owner_id":     created.OwnerID,
	})
	return created, nil
}

// ListReceived retrieves all requests received by ownerID, newest first.
func (s *RequestService) ListReceived(ownerID string) ([]models.Request, error) {
	return s.requestRepo.GetByOwner(ownerID)
}

// ListSent retrieves all requests sent by requesterID, newest first.
func (s *RequestService) ListSent(requesterID string) ([]models.Request, error) {
	return s.requestRepo.GetByRequester(requesterID)
}

// UpdateStatus transitions a pending request to accepted or declined. Only
// the book's owner may resolve a request, and both end states are terminal.
// Accepting flips the book to unavailable and declines every other pending
// request on it before this call returns, so the caller can mirror both from
// the one response.
func (s *RequestService) UpdateStatus(requestID, actorID, newStatus string) (*models.Request, error) {
	request, err := s.requestRepo.GetByID(requestID)
	if err != nil {
		return nil, err
	}

	if request.OwnerID != actorID {
		return nil, fmt.Errorf("not authorized to update this request: %w", ErrForbidden)
	}
	if newStatus != models.StatusAccepted && newStatus != models.StatusDeclined {
		return nil, fmt.Errorf("invalid request status %q: %w", newStatus, ErrInvalidOperation)
	}
	if request.Status != models.StatusPending {
		return nil, fmt.Errorf("request is already %s: %w", request.Status, ErrInvalidOperation)
	}

	if newStatus == models.StatusAccepted {
		if err := s.requestRepo.Accept(requestID); err != nil {
			return nil, err
		}
	} else {
		if err := s.requestRepo.UpdateStatus(requestID, models.StatusDeclined); err != nil {
			return nil, err
		}
	}

	updated, err := s.requestRepo.GetByID(requestID)
	if err != nil {
		return nil, err
	}

	eventType := EventRequestDeclined
	if newStatus == models.StatusAccepted {
		eventType = EventRequestAccepted
	}
	publishEvent(s.mqClient, eventType, map[string]interface{}{
		"request_id":   updated.ID,
		"book_id":      updated.BookID,
		"requester_id": updated.RequesterID,
		"owner_id":     updated.OwnerID,
	})
	return updated, nil
}
