package api

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"feeder/app/feed"
)

type Handler struct {
	service *feed.Service
}

func NewHandler(service *feed.Service) *Handler {
	return &Handler{service: service}
}

type addFeedRequest struct {
	URL string `json:"url" binding:"required"`
}

// AddFeed fetches and persists a feed. A URL that resolves to something
// other than a feed document is reported as unprocessable, not as a server
// error.
func (h *Handler) AddFeed(c *gin.Context) {
	var req addFeedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	added, err := h.service.AddFeed(c.Request.Context(), req.URL)
	if err != nil {
		slog.Error("Failed to add feed", "url", req.URL, "error", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	if added == nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "document is not a feed"})
		return
	}

	entries, err := h.service.ListEntries(c.Request.Context(), added.ID)
	if err != nil {
		slog.Error("Database error", "operation", "list_entries", "feed", added.ID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusCreated, feedResponse{Feed: *added, Entries: entries})
}

func (h *Handler) GetFeed(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	f, err := h.service.GetFeed(c.Request.Context(), id)
	if err != nil {
		slog.Error("Database error", "operation", "get_feed", "id", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	if f == nil {
		c.Status(http.StatusNotFound)
		return
	}

	entries, err := h.service.ListEntries(c.Request.Context(), f.ID)
	if err != nil {
		slog.Error("Database error", "operation", "list_entries", "feed", f.ID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusOK, feedResponse{Feed: *f, Entries: entries})
}

func (h *Handler) ListFeeds(c *gin.Context) {
	feeds, err := h.service.ListFeeds(c.Request.Context())
	if err != nil {
		slog.Error("Database error", "operation", "list_feeds", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"feeds": feeds, "total": len(feeds)})
}

type addSubscriptionRequest struct {
	URL      string  `json:"url" binding:"required"`
	UserID   int64   `json:"user_id" binding:"required"`
	Category *string `json:"category"`
}

func (h *Handler) AddSubscription(c *gin.Context) {
	var req addSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sub, err := h.service.AddSubscription(c.Request.Context(), req.URL, req.UserID, req.Category)
	if err != nil {
		slog.Error("Failed to add subscription", "url", req.URL, "user", req.UserID, "error", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	if sub == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown user or not a feed"})
		return
	}

	c.JSON(http.StatusCreated, sub)
}

func (h *Handler) GetSubscription(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	sub, err := h.service.GetSubscription(c.Request.Context(), id)
	if err != nil {
		slog.Error("Database error", "operation", "get_subscription", "id", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	if sub == nil {
		c.Status(http.StatusNotFound)
		return
	}
	c.JSON(http.StatusOK, sub)
}

func (h *Handler) ListSubscriptions(c *gin.Context) {
	subs, err := h.service.ListSubscriptions(c.Request.Context())
	if err != nil {
		slog.Error("Database error", "operation", "list_subscriptions", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"subscriptions": subs, "total": len(subs)})
}

func (h *Handler) DeleteSubscription(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	deleted, err := h.service.DeleteSubscription(c.Request.Context(), id)
	if err != nil {
		slog.Error("Database error", "operation", "delete_subscription", "id", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	if !deleted {
		c.Status(http.StatusNotFound)
		return
	}
	c.Status(http.StatusNoContent)
}

type markAsReadRequest struct {
	UserID int64 `json:"user_id" binding:"required"`
}

func (h *Handler) MarkAsRead(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req markAsReadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ue, err := h.service.MarkAsRead(c.Request.Context(), id, req.UserID)
	if err != nil {
		slog.Error("Database error", "operation", "mark_as_read", "id", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	if ue == nil {
		c.Status(http.StatusNotFound)
		return
	}
	c.JSON(http.StatusOK, ue)
}

// ImportOPML reads an OPML document from the request body and subscribes the
// user named by the user_id query parameter to every feed it lists.
func (h *Handler) ImportOPML(c *gin.Context) {
	userID, err := strconv.ParseInt(c.Query("user_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user_id"})
		return
	}

	imported, err := h.service.ImportOPML(c.Request.Context(), c.Request.Body, userID)
	if err != nil {
		slog.Error("OPML import failed", "user", userID, "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "imported": imported})
		return
	}

	c.JSON(http.StatusOK, gin.H{"imported": imported})
}

type createUserRequest struct {
	Email string `json:"email" binding:"required,email"`
}

func (h *Handler) CreateUser(c *gin.Context) {
	var req createUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.service.CreateUser(c.Request.Context(), req.Email)
	if err != nil {
		slog.Error("Database error", "operation", "create_user", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusCreated, user)
}

func (h *Handler) ListUsers(c *gin.Context) {
	users, err := h.service.ListUsers(c.Request.Context())
	if err != nil {
		slog.Error("Database error", "operation", "list_users", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users, "total": len(users)})
}

func (h *Handler) ListCategories(c *gin.Context) {
	categories, err := h.service.ListCategories(c.Request.Context())
	if err != nil {
		slog.Error("Database error", "operation", "list_categories", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": categories, "total": len(categories)})
}

func (h *Handler) GetHealth(c *gin.Context) {
	health := gin.H{
		"timestamp": time.Now().Format(time.RFC3339),
	}
	if feeds, err := h.service.ListFeeds(c.Request.Context()); err == nil {
		health["feeds"] = len(feeds)
	}
	c.JSON(http.StatusOK, health)
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return id, true
}
