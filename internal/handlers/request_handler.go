package handlers

import (
	"fmt"
	"log"

	"bookswap/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// RequestHandler handles HTTP requests for swap requests.
type RequestHandler struct {
	service  *services.RequestService
	validate *validator.Validate
}

// NewRequestHandler creates a new RequestHandler.
func NewRequestHandler(service *services.RequestService) *RequestHandler {
	return &RequestHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the request routes. All of them require
// authentication.
func (h *RequestHandler) RegisterRoutes(router fiber.Router, requireAuth fiber.Handler) {
	requestRoutes := router.Group("/requests", requireAuth)
	requestRoutes.Post("/", h.HandleCreateRequest)
	requestRoutes.Get("/received", h.HandleReceivedRequests)
	requestRoutes.Get("/sent", h.HandleSentRequests)
	requestRoutes.Put("/:id/status", h.HandleUpdateStatus)
}

// CreateRequestRequest represents the request body for a new swap request.
type CreateRequestRequest struct {
	BookID  string `json:"bookId" validate:"required"`
	Message string `json:"message"`
}

// HandleCreateRequest creates a pending swap request on someone else's book.
func (h *RequestHandler) HandleCreateRequest(c *fiber.Ctx) error {
	var req CreateRequestRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing create request body: %v", err)
		return respondFailure(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := h.validate.Struct(req); err != nil {
		return respondValidationError(c, err)
	}

	userID, _ := c.Locals("user_id").(string)
	created, err := h.service.CreateRequest(userID, req.BookID, req.Message)
	if err != nil {
		log.Printf("Error creating request for book %s: %v", req.BookID, err)
		return respondError(c, err)
	}
	return respondData(c, fiber.StatusCreated, created, "Book request sent successfully")
}

// HandleReceivedRequests lists requests other users made on the
// authenticated user's books.
func (h *RequestHandler) HandleReceivedRequests(c *fiber.Ctx) error {
	userID, _ := c.Locals("user_id").(string)

	requests, err := h.service.ListReceived(userID)
	if err != nil {
		log.Printf("Error listing received requests for user %s: %v", userID, err)
		return respondError(c, err)
	}
	return respondList(c, requests, len(requests))
}

// HandleSentRequests lists requests the authenticated user made.
func (h *RequestHandler) HandleSentRequests(c *fiber.Ctx) error {
	userID, _ := c.Locals("user_id").(string)

	requests, err := h.service.ListSent(userID)
	if err != nil {
		log.Printf("Error listing sent requests for user %s: %v", userID, err)
		return respondError(c, err)
	}
	return respondList(c, requests, len(requests))
}

// UpdateStatusRequest represents the request body for resolving a request.
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// HandleUpdateStatus lets the book owner accept or decline a pending
// request.
func (h *RequestHandler) HandleUpdateStatus(c *fiber.Ctx) error {
	requestID := c.Params("id")

	var req UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing update status request body: %v", err)
		return respondFailure(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := h.validate.Struct(req); err != nil {
		return respondValidationError(c, err)
	}

	userID, _ := c.Locals("user_id").(string)
	updated, err := h.service.UpdateStatus(requestID, userID, req.Status)
	if err != nil {
		log.Printf("Error updating request %s: %v", requestID, err)
		return respondError(c, err)
	}
	return respondData(c, fiber.StatusOK, updated, fmt.Sprintf("Request %s successfully", req.Status))
}
