package handlers

import (
	"log"

	"bookswap/internal/models"
	"bookswap/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// BookHandler handles HTTP requests for the book catalog.
type BookHandler struct {
	service  *services.BookService
	validate *validator.Validate
}

// NewBookHandler creates a new BookHandler.
func NewBookHandler(service *services.BookService) *BookHandler {
	return &BookHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the book routes. Browsing the catalog is public,
// everything that mutates it requires authentication. The my-books route is
// registered before /:id so the literal path wins.
func (h *BookHandler) RegisterRoutes(router fiber.Router, requireAuth fiber.Handler) {
	bookRoutes := router.Group("/books")
	bookRoutes.Get("/user/my-books", requireAuth, h.HandleMyBooks)
	bookRoutes.Get("/", h.HandleListBooks)
	bookRoutes.Get("/:id", h.HandleGetBook)
	bookRoutes.Post("/", requireAuth, h.HandleCreateBook)
	bookRoutes.Put("/:id", requireAuth, h.HandleUpdateBook)
	bookRoutes.Delete("/:id", requireAuth, h.HandleDeleteBook)
}

// HandleListBooks returns all books still available for swapping.
func (h *BookHandler) HandleListBooks(c *fiber.Ctx) error {
	books, err := h.service.ListBooks(true)
	if err != nil {
		log.Printf("Error listing books: %v", err)
		return respondError(c, err)
	}
	return respondList(c, books, len(books))
}

// HandleGetBook returns a single book by its ID.
func (h *BookHandler) HandleGetBook(c *fiber.Ctx) error {
	bookID := c.Params("id")
	book, err := h.service.GetBook(bookID)
	if err != nil {
		log.Printf("Error getting book %s: %v", bookID, err)
		return respondError(c, err)
	}
	return respondData(c, fiber.StatusOK, book, "")
}

// CreateBookRequest represents the request body for adding a book.
type CreateBookRequest struct {
	Title       string `json:"title" validate:"required,max=255"`
	Author      string `json:"author" validate:"required,max=255"`
	Condition   string `json:"condition" validate:"omitempty,oneof=excellent good fair poor"`
	Description string `json:"description"`
	Image       string `json:"image"`
}

// HandleCreateBook adds a new listing owned by the authenticated user.
func (h *BookHandler) HandleCreateBook(c *fiber.Ctx) error {
	var req CreateBookRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing create book request body: %v", err)
		return respondFailure(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := h.validate.Struct(req); err != nil {
		return respondValidationError(c, err)
	}

	userID, _ := c.Locals("user_id").(string)
	book := &models.Book{
		Title:       req.Title,
		Author:      req.Author,
		Condition:   req.Condition,
		Description: req.Description,
		Image:       req.Image,
	}

	created, err := h.service.CreateBook(userID, book)
	if err != nil {
		log.Printf("Error creating book: %v", err)
		return respondError(c, err)
	}
	return respondData(c, fiber.StatusCreated, created, "Book added successfully")
}

// HandleMyBooks returns the authenticated user's own listings.
func (h *BookHandler) HandleMyBooks(c *fiber.Ctx) error {
	userID, _ := c.Locals("user_id").(string)

	books, err := h.service.MyBooks(userID)
	if err != nil {
		log.Printf("Error getting books for user %s: %v", userID, err)
		return respondError(c, err)
	}
	return respondList(c, books, len(books))
}

// HandleUpdateBook applies a partial update to a listing. Owner only.
func (h *BookHandler) HandleUpdateBook(c *fiber.Ctx) error {
	bookID := c.Params("id")

	var patch models.BookPatch
	if err := c.BodyParser(&patch); err != nil {
		log.Printf("Error parsing update book request body: %v", err)
		return respondFailure(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := h.validate.Struct(patch); err != nil {
		return respondValidationError(c, err)
	}

	userID, _ := c.Locals("user_id").(string)
	updated, err := h.service.UpdateBook(bookID, userID, patch)
	if err != nil {
		log.Printf("Error updating book %s: %v", bookID, err)
		return respondError(c, err)
	}
	return respondData(c, fiber.StatusOK, updated, "Book updated successfully")
}

// HandleDeleteBook removes a listing and its requests. Owner only.
func (h *BookHandler) HandleDeleteBook(c *fiber.Ctx) error {
	bookID := c.Params("id")
	userID, _ := c.Locals("user_id").(string)

	if err := h.service.DeleteBook(bookID, userID); err != nil {
		log.Printf("Error deleting book %s: %v", bookID, err)
		return respondError(c, err)
	}
	return respondMessage(c, "Book deleted successfully")
}
