package bookmarks

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mpearce/linksaver/pkg/linksaver/auth"
	"github.com/mpearce/linksaver/pkg/linksaver/models"
)

// Handler handles bookmark-related requests
type Handler struct {
	store *Store
}

// NewHandler creates a new bookmarks handler
func NewHandler(store *Store) *Handler {
	return &Handler{store: store}
}

// CreateBookmarkRequest represents the request to save a bookmark
type CreateBookmarkRequest struct {
	URL  string   `json:"url" binding:"required,url"`
	Tags []string `json:"tags"`
}

// ReorderRequest represents the request to move a bookmark.
// NewPosition is a pointer so that position 0 passes required binding.
type ReorderRequest struct {
	BookmarkID  uint `json:"bookmarkId" binding:"required"`
	NewPosition *int `json:"newPosition" binding:"required"`
}

// Create saves a new bookmark
// @Summary Save a bookmark
// @Description Save a URL; the service derives title, favicon, and summary
// @Tags bookmarks
// @Accept json
// @Produce json
// @Param request body CreateBookmarkRequest true "Bookmark details"
// @Success 201 {object} map[string]interface{} "Message and saved bookmark"
// @Failure 400 {object} map[string]string "Validation error"
// @Security BearerAuth
// @Router /bookmarks [post]
func (h *Handler) Create(c *gin.Context) {
	userID, _ := auth.GetUserID(c)

	var req CreateBookmarkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Valid URL is required"})
		return
	}

	bookmark, err := h.store.Create(userID, req.URL, req.Tags)
	if err != nil {
		var validationErr *ValidationError
		if errors.As(err, &validationErr) {
			c.JSON(http.StatusBadRequest, gin.H{"error": validationErr.Message})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error while saving bookmark"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":  "Bookmark saved",
		"bookmark": bookmark,
	})
}

// List returns the caller's bookmarks
// @Summary List bookmarks
// @Description Get the caller's bookmarks sorted by position, optionally filtered by tag
// @Tags bookmarks
// @Produce json
// @Param tag query string false "Only bookmarks carrying this tag"
// @Success 200 {object} map[string]interface{} "Bookmarks in position order"
// @Security BearerAuth
// @Router /bookmarks [get]
func (h *Handler) List(c *gin.Context) {
	userID, _ := auth.GetUserID(c)

	bookmarks, err := h.store.List(userID, c.Query("tag"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch bookmarks"})
		return
	}
	if bookmarks == nil {
		bookmarks = []models.Bookmark{}
	}

	c.JSON(http.StatusOK, gin.H{"bookmarks": bookmarks})
}

// Delete removes a bookmark
// @Summary Delete a bookmark
// @Description Delete a bookmark by ID; later bookmarks shift down one position
// @Tags bookmarks
// @Produce json
// @Param id path int true "Bookmark ID"
// @Success 200 {object} map[string]string "Bookmark deleted"
// @Failure 404 {object} map[string]string "Not found or not owned"
// @Security BearerAuth
// @Router /bookmarks/{id} [delete]
func (h *Handler) Delete(c *gin.Context) {
	userID, _ := auth.GetUserID(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Bookmark not found or unauthorized"})
		return
	}

	if err := h.store.Delete(uint(id), userID); err != nil {
		if errors.Is(err, ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Bookmark not found or unauthorized"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error while deleting bookmark"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Bookmark deleted successfully"})
}

// Reorder moves a bookmark to a new position
// @Summary Reorder a bookmark
// @Description Move a bookmark to a new position; the affected range shifts by one
// @Tags bookmarks
// @Accept json
// @Produce json
// @Param request body ReorderRequest true "Bookmark ID and target position"
// @Success 200 {object} map[string]string "Bookmark reordered"
// @Failure 400 {object} map[string]string "Position out of range"
// @Failure 404 {object} map[string]string "Not found or not owned"
// @Security BearerAuth
// @Router /bookmarks/reorder [patch]
func (h *Handler) Reorder(c *gin.Context) {
	userID, _ := auth.GetUserID(c)

	var req ReorderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	changed, err := h.store.Reorder(req.BookmarkID, userID, *req.NewPosition)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Bookmark not found or unauthorized"})
			return
		}
		var validationErr *ValidationError
		if errors.As(err, &validationErr) {
			c.JSON(http.StatusBadRequest, gin.H{"error": validationErr.Message})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error while reordering bookmarks"})
		return
	}

	if !changed {
		c.JSON(http.StatusOK, gin.H{"message": "No position change needed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Bookmark reordered successfully"})
}

// RegisterRoutes registers bookmark routes
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/bookmarks", h.Create)
	rg.GET("/bookmarks", h.List)
	rg.DELETE("/bookmarks/:id", h.Delete)
	rg.PATCH("/bookmarks/reorder", h.Reorder)
}
