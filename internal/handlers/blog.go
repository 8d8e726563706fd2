// internal/handlers/blog.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/edark-import/marketplace-backend/internal/middleware"
	"github.com/edark-import/marketplace-backend/internal/models"
	"github.com/edark-import/marketplace-backend/internal/services"
	"github.com/edark-import/marketplace-backend/internal/utils"
)

type BlogHandler struct {
	blogService *services.BlogService
	authService *services.AuthService
}

func NewBlogHandler(blogService *services.BlogService, authService *services.AuthService) *BlogHandler {
	return &BlogHandler{blogService: blogService, authService: authService}
}

func (h *BlogHandler) Create(c *gin.Context) {
	var req services.CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	var author *models.User
	if userID, exists := c.Get(middleware.ContextUserID); exists {
		if user, err := h.authService.GetUser(userID.(uuid.UUID)); err == nil {
			author = user
		}
	}

	post, err := h.blogService.CreatePost(&req, author)
	if err != nil {
		if isValidationError(err) {
			utils.ValidationErrorResponse(c, utils.GetValidationErrors(err))
			return
		}
		utils.InternalErrorResponse(c, "")
		return
	}

	utils.CreatedResponse(c, post)
}

func (h *BlogHandler) GetBySlug(c *gin.Context) {
	post, err := h.blogService.GetPostBySlug(c.Param("slug"))
	if err != nil {
		if errors.Is(err, services.ErrPostNotFound) {
			utils.NotFoundResponse(c, "Post")
			return
		}
		utils.InternalErrorResponse(c, "")
		return
	}

	utils.SuccessResponse(c, post)
}

func (h *BlogHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "INVALID_ID", "Invalid post id")
		return
	}

	var req services.UpdatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	post, err := h.blogService.UpdatePost(id, &req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrPostNotFound):
			utils.NotFoundResponse(c, "Post")
		case isValidationError(err):
			utils.ValidationErrorResponse(c, utils.GetValidationErrors(err))
		default:
			utils.InternalErrorResponse(c, "")
		}
		return
	}

	utils.SuccessResponse(c, post)
}

func (h *BlogHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "INVALID_ID", "Invalid post id")
		return
	}

	if err := h.blogService.DeletePost(id); err != nil {
		if errors.Is(err, services.ErrPostNotFound) {
			utils.NotFoundResponse(c, "Post")
			return
		}
		utils.InternalErrorResponse(c, "")
		return
	}

	utils.SuccessResponse(c, gin.H{"deleted": true})
}

func (h *BlogHandler) Categories(c *gin.Context) {
	categories, err := h.blogService.Categories()
	if err != nil {
		utils.InternalErrorResponse(c, "")
		return
	}
	utils.SuccessResponse(c, categories)
}

// List serves both the public blog (published only) and the admin listing.
func (h *BlogHandler) List(c *gin.Context) {
	params := services.PostListParams{
		PaginationParams: utils.GetPaginationParams(c),
		Category:         c.Query("category"),
		Tag:              c.Query("tag"),
		Search:           c.Query("search"),
		PublishedOnly:    true,
		FeaturedOnly:     c.Query("featured") == "true",
	}

	// Admins may see drafts.
	if role, exists := c.Get(middleware.ContextRole); exists {
		if role.(models.UserRole) == models.UserRoleAdmin && c.Query("include_drafts") == "true" {
			params.PublishedOnly = false
		}
	}

	posts, total, err := h.blogService.ListPosts(params)
	if err != nil {
		utils.InternalErrorResponse(c, "")
		return
	}

	utils.SuccessResponseWithMeta(c, posts, utils.CreatePaginationMeta(params.PaginationParams, total))
}
