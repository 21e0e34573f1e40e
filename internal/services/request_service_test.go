package services_test

import (
	"errors"
	"testing"

	"bookswap/internal/models"
	"bookswap/internal/repositories"
	"bookswap/internal/services"

	"github.com/stretchr/testify/assert"
)

// The request engine tests run against the in-memory repositories so the
// cross-entity effects of accepting (book flip, sibling declines) are
// observable end to end.
func newRequestServiceFixture() (*services.RequestService, *repositories.MockBookRepository, *repositories.MockRequestRepository) {
	bookRepo := repositories.NewMockBookRepository()
	requestRepo := repositories.NewMockRequestRepository(bookRepo)
	return services.NewRequestService(requestRepo, bookRepo, nil), bookRepo, requestRepo
}

func seedBook(t *testing.T, bookRepo *repositories.MockBookRepository, ownerID, title string) *models.Book {
	t.Helper()
	book := &models.Book{
		Title:     title,
		Author:    "Author",
		Condition: models.ConditionGood,
		OwnerID:   ownerID,
		Available: true,
	}
	assert.NoError(t, bookRepo.Create(book))
	return book
}

func TestRequestService_CreateRequest(t *testing.T) {
	service, bookRepo, _ := newRequestServiceFixture()
	book := seedBook(t, bookRepo, "owner-1", "Dune")

	request, err := service.CreateRequest("requester-1", book.ID, "interested!")
	assert.NoError(t, err)
	assert.Equal(t, models.StatusPending, request.Status)
	assert.Equal(t, "owner-1", request.OwnerID)
	assert.Equal(t, "requester-1", request.RequesterID)
	assert.NotEqual(t, request.RequesterID, request.OwnerID)
}

func TestRequestService_CreateRequest_UnknownBook(t *testing.T) {
	service, _, _ := newRequestServiceFixture()

	_, err := service.CreateRequest("requester-1", "no-such-book", "")
	assert.True(t, errors.Is(err, repositories.ErrNotFound))
}

func TestRequestService_CreateRequest_OwnBook(t *testing.T) {
	service, bookRepo, _ := newRequestServiceFixture()
	book := seedBook(t, bookRepo, "owner-1", "Dune")

	_, err := service.CreateRequest("owner-1", book.ID, "")
	assert.True(t, errors.Is(err, services.ErrInvalidOperation))
	assert.Contains(t, err.Error(), "own book")
}

func TestRequestService_CreateRequest_UnavailableBook(t *testing.T) {
	service, bookRepo, _ := newRequestServiceFixture()
	book := seedBook(t, bookRepo, "owner-1", "Dune")
	book.Available = false
	assert.NoError(t, bookRepo.Update(book))

	_, err := service.CreateRequest("requester-1", book.ID, "")
	assert.True(t, errors.Is(err, services.ErrInvalidOperation))
	assert.Contains(t, err.Error(), "not available")
}

func TestRequestService_CreateRequest_Duplicate(t *testing.T) {
	service, bookRepo, _ := newRequestServiceFixture()
	book := seedBook(t, bookRepo, "owner-1", "Dune")

	_, err := service.CreateRequest("requester-1", book.ID, "")
	assert.NoError(t, err)

	// A second request while the first is pending conflicts.
	_, err = service.CreateRequest("requester-1", book.ID, "")
	assert.True(t, errors.Is(err, services.ErrConflict))

	// A different requester is fine.
	_, err = service.CreateRequest("requester-2", book.ID, "")
	assert.NoError(t, err)
}

func TestRequestService_Accept(t *testing.T) {
	service, bookRepo, _ := newRequestServiceFixture()
	book := seedBook(t, bookRepo, "owner-1", "Dune")

	first, err := service.CreateRequest("requester-1", book.ID, "")
	assert.NoError(t, err)
	second, err := service.CreateRequest("requester-2", book.ID, "")
	assert.NoError(t, err)

	// Only the book's owner may resolve.
	_, err = service.UpdateStatus(first.ID, "requester-2", models.StatusAccepted)
	assert.True(t, errors.Is(err, services.ErrForbidden))

	accepted, err := service.UpdateStatus(first.ID, "owner-1", models.StatusAccepted)
	assert.NoError(t, err)
	assert.Equal(t, models.StatusAccepted, accepted.Status)

	// The book is now unavailable.
	updatedBook, err := bookRepo.GetByID(book.ID)
	assert.NoError(t, err)
	assert.False(t, updatedBook.Available)

	// The competing pending request was declined.
	sent, err := service.ListSent("requester-2")
	assert.NoError(t, err)
	assert.Len(t, sent, 1)
	assert.Equal(t, second.ID, sent[0].ID)
	assert.Equal(t, models.StatusDeclined, sent[0].Status)

	// New requests on the unavailable book are rejected.
	_, err = service.CreateRequest("requester-3", book.ID, "")
	assert.True(t, errors.Is(err, services.ErrInvalidOperation))
}

func TestRequestService_AcceptLeavesOtherBooksAlone(t *testing.T) {
	service, bookRepo, _ := newRequestServiceFixture()
	contested := seedBook(t, bookRepo, "owner-1", "Dune")
	other := seedBook(t, bookRepo, "owner-1", "Foundation")

	reqB1, err := service.CreateRequest("requester-b", contested.ID, "")
	assert.NoError(t, err)
	reqB2, err := service.CreateRequest("requester-b", other.ID, "")
	assert.NoError(t, err)
	_, err = service.CreateRequest("requester-c", contested.ID, "")
	assert.NoError(t, err)

	_, err = service.UpdateStatus(reqB1.ID, "owner-1", models.StatusAccepted)
	assert.NoError(t, err)

	// C's request on the contested book was auto-declined.
	sentC, err := service.ListSent("requester-c")
	assert.NoError(t, err)
	assert.Equal(t, models.StatusDeclined, sentC[0].Status)

	// B's request on the other book is untouched, and the other book is
	// still available.
	sentB, err := service.ListSent("requester-b")
	assert.NoError(t, err)
	for _, r := range sentB {
		if r.ID == reqB2.ID {
			assert.Equal(t, models.StatusPending, r.Status)
		}
	}
	otherBook, err := bookRepo.GetByID(other.ID)
	assert.NoError(t, err)
	assert.True(t, otherBook.Available)
}

func TestRequestService_Decline(t *testing.T) {
	service, bookRepo, _ := newRequestServiceFixture()
	book := seedBook(t, bookRepo, "owner-1", "Dune")

	request, err := service.CreateRequest("requester-1", book.ID, "")
	assert.NoError(t, err)

	declined, err := service.UpdateStatus(request.ID, "owner-1", models.StatusDeclined)
	assert.NoError(t, err)
	assert.Equal(t, models.StatusDeclined, declined.Status)

	// Declining never changes the book's availability.
	updatedBook, err := bookRepo.GetByID(book.ID)
	assert.NoError(t, err)
	assert.True(t, updatedBook.Available)
}

func TestRequestService_UpdateStatus_StrictTransitions(t *testing.T) {
	service, bookRepo, _ := newRequestServiceFixture()
	book := seedBook(t, bookRepo, "owner-1", "Dune")

	request, err := service.CreateRequest("requester-1", book.ID, "")
	assert.NoError(t, err)

	// Only accepted/declined are valid targets.
	_, err = service.UpdateStatus(request.ID, "owner-1", "pending")
	assert.True(t, errors.Is(err, services.ErrInvalidOperation))
	_, err = service.UpdateStatus(request.ID, "owner-1", "shipped")
	assert.True(t, errors.Is(err, services.ErrInvalidOperation))

	// End states are terminal.
	_, err = service.UpdateStatus(request.ID, "owner-1", models.StatusDeclined)
	assert.NoError(t, err)
	_, err = service.UpdateStatus(request.ID, "owner-1", models.StatusAccepted)
	assert.True(t, errors.Is(err, services.ErrInvalidOperation))
	assert.Contains(t, err.Error(), "already declined")

	// The failed accept did not touch the book.
	updatedBook, err := bookRepo.GetByID(book.ID)
	assert.NoError(t, err)
	assert.True(t, updatedBook.Available)
}

func TestRequestService_UpdateStatus_UnknownRequest(t *testing.T) {
	service, _, _ := newRequestServiceFixture()

	_, err := service.UpdateStatus("no-such-request", "owner-1", models.StatusAccepted)
	assert.True(t, errors.Is(err, repositories.ErrNotFound))
}
