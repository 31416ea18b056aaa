package recommend

import (
	"github.com/gin-gonic/gin"
	"github.com/tsundoku-app/core/internal/middleware"
	"github.com/tsundoku-app/core/internal/pkg/pagination"
	"github.com/tsundoku-app/core/internal/pkg/response"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, auth gin.HandlerFunc) {
	recommendations := rg.Group("/recommendations", auth)
	{
		recommendations.GET("/preview", h.Preview)
		recommendations.POST("/run", h.Run)
	}

	notifications := rg.Group("/notifications", auth)
	{
		notifications.GET("", h.ListNotifications)
	}
}

// Preview returns this week's pick for the signed-in user without sending
// mail or writing a notification.
func (h *Handler) Preview(c *gin.Context) {
	userID := middleware.CurrentUserID(c)

	book, err := h.service.SelectForUser(userID)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if book == nil {
		response.NotFoundMsg(c, "no tsundoku books eligible for recommendation")
		return
	}
	response.OK(c, book)
}

// Run triggers a full recommendation cycle immediately. Meant for testing
// the weekly job without waiting for the schedule.
func (h *Handler) Run(c *gin.Context) {
	if err := h.service.RunWeekly(c.Request.Context()); err != nil {
		response.InternalError(c, err)
		return
	}
	response.NoContent(c)
}

// ListNotifications returns the signed-in user's notification history.
func (h *Handler) ListNotifications(c *gin.Context) {
	userID := middleware.CurrentUserID(c)
	q := pagination.FromContext(c)

	items, page, err := h.service.ListNotifications(userID, q)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Paged(c, items, page)
}
