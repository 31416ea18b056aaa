package books

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-sql-driver/mysql"
	"github.com/tsundoku-app/core/internal/middleware"
	"github.com/tsundoku-app/core/internal/models"
	"github.com/tsundoku-app/core/internal/pkg/pagination"
	"github.com/tsundoku-app/core/internal/pkg/response"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	g := rg.Group("/books", authMW)

	g.GET("", h.list)
	g.GET("/search", h.search)
	g.GET("/:id", h.get)
	g.POST("", h.create)
	g.POST("/from-google-books", h.createFromGoogleBooks)
	g.POST("/:id/refresh", h.refresh)
	g.PUT("/:id", h.update)
	g.DELETE("/:id", h.delete)
}

// GET /books?status=tsundoku
func (h *Handler) list(c *gin.Context) {
	userID := middleware.CurrentUserID(c)
	q := pagination.FromContext(c)

	var status *models.ReadingStatus
	if raw := c.Query("status"); raw != "" {
		parsed, ok := models.ParseReadingStatus(raw)
		if !ok {
			response.BadRequest(c, "unknown reading status: "+raw)
			return
		}
		status = &parsed
	}

	items, pag, err := h.svc.List(userID, q, status)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Paged(c, items, pag)
}

// GET /books/search?q=...&author=...&max=...
func (h *Handler) search(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		response.BadRequest(c, "search query is required")
		return
	}
	maxResults := 0
	if raw := c.Query("max"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil {
			maxResults = v
		}
	}

	results := h.svc.Search(c.Request.Context(), query, c.Query("author"), maxResults)
	response.OK(c, gin.H{"books": results})
}

func (h *Handler) get(c *gin.Context) {
	book, err := h.svc.GetByID(middleware.CurrentUserID(c), c.Param("id"))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if book == nil {
		response.NotFound(c)
		return
	}
	response.OK(c, book)
}

func (h *Handler) create(c *gin.Context) {
	var dto CreateBookDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	book, err := h.svc.Create(c.Request.Context(), middleware.CurrentUserID(c), &dto)
	if err != nil {
		writeCreateError(c, err)
		return
	}
	response.Created(c, book)
}

func (h *Handler) createFromGoogleBooks(c *gin.Context) {
	var dto CreateFromGoogleBooksDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	book, created, err := h.svc.CreateFromGoogleBooks(c.Request.Context(), middleware.CurrentUserID(c), &dto)
	if err != nil {
		writeCreateError(c, err)
		return
	}
	if !created {
		response.OK(c, book)
		return
	}
	response.Created(c, book)
}

func (h *Handler) refresh(c *gin.Context) {
	book, err := h.svc.RefreshFromGoogleBooks(c.Request.Context(), middleware.CurrentUserID(c), c.Param("id"))
	if errors.Is(err, ErrNoGoogleID) {
		response.UnprocessableEntity(c, err.Error())
		return
	}
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if book == nil {
		response.NotFound(c)
		return
	}
	response.OK(c, book)
}

func (h *Handler) update(c *gin.Context) {
	var dto UpdateBookDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	book, err := h.svc.Update(middleware.CurrentUserID(c), c.Param("id"), &dto)
	if errors.Is(err, ErrInvalidStatus) {
		response.BadRequest(c, err.Error())
		return
	}
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if book == nil {
		response.NotFound(c)
		return
	}
	response.OK(c, book)
}

func (h *Handler) delete(c *gin.Context) {
	deleted, err := h.svc.Delete(middleware.CurrentUserID(c), c.Param("id"))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if !deleted {
		response.NotFound(c)
		return
	}
	response.NoContent(c)
}

func writeCreateError(c *gin.Context, err error) {
	if errors.Is(err, ErrInvalidStatus) {
		response.BadRequest(c, err.Error())
		return
	}
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) && mysqlErr.Number == 1062 {
		response.Conflict(c, "book with the same identifier already exists")
		return
	}
	response.InternalError(c, err)
}
