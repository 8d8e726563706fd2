// internal/services/blog_service.go
package services

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/edark-import/marketplace-backend/internal/models"
	"github.com/edark-import/marketplace-backend/internal/utils"
)

var ErrPostNotFound = errors.New("blog post not found")

type BlogService struct {
	db *gorm.DB
}

func NewBlogService(db *gorm.DB) *BlogService {
	return &BlogService{db: db}
}

type CreatePostRequest struct {
	Title           string   `json:"title" validate:"required,min=3,max=255"`
	Content         string   `json:"content" validate:"required"`
	Excerpt         string   `json:"excerpt" validate:"omitempty,max=500"`
	Category        string   `json:"category" validate:"omitempty,max=100"`
	Tags            []string `json:"tags" validate:"omitempty,max=10"`
	FeaturedImage   string   `json:"featured_image" validate:"omitempty,url"`
	Published       bool     `json:"published"`
	Featured        bool     `json:"featured"`
	MetaTitle       string   `json:"meta_title" validate:"omitempty,max=255"`
	MetaDescription string   `json:"meta_description" validate:"omitempty,max=500"`
	Keywords        []string `json:"keywords" validate:"omitempty,max=15"`
}

type UpdatePostRequest struct {
	Title           *string  `json:"title" validate:"omitempty,min=3,max=255"`
	Content         *string  `json:"content"`
	Excerpt         *string  `json:"excerpt" validate:"omitempty,max=500"`
	Category        *string  `json:"category" validate:"omitempty,max=100"`
	Tags            []string `json:"tags" validate:"omitempty,max=10"`
	FeaturedImage   *string  `json:"featured_image" validate:"omitempty,url"`
	Published       *bool    `json:"published"`
	Featured        *bool    `json:"featured"`
	MetaTitle       *string  `json:"meta_title" validate:"omitempty,max=255"`
	MetaDescription *string  `json:"meta_description" validate:"omitempty,max=500"`
	Keywords        []string `json:"keywords" validate:"omitempty,max=15"`
}

var slugInvalidChars = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify turns a title into a URL-safe slug, folding common Spanish
// accented characters first.
func Slugify(title string) string {
	replacer := strings.NewReplacer(
		"á", "a", "é", "e", "í", "i", "ó", "o", "ú", "u",
		"ñ", "n", "ü", "u",
	)
	slug := replacer.Replace(strings.ToLower(strings.TrimSpace(title)))
	slug = slugInvalidChars.ReplaceAllString(slug, "-")
	return strings.Trim(slug, "-")
}

func (s *BlogService) CreatePost(req *CreatePostRequest, author *models.User) (*models.BlogPost, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, err
	}

	slug, err := s.uniqueSlug(Slugify(req.Title))
	if err != nil {
		return nil, err
	}

	post := &models.BlogPost{
		Title:           req.Title,
		Slug:            slug,
		Content:         req.Content,
		Excerpt:         req.Excerpt,
		Category:        req.Category,
		Tags:            pq.StringArray(req.Tags),
		FeaturedImage:   req.FeaturedImage,
		Published:       req.Published,
		Featured:        req.Featured,
		MetaTitle:       req.MetaTitle,
		MetaDescription: req.MetaDescription,
		Keywords:        pq.StringArray(req.Keywords),
	}

	if author != nil {
		post.AuthorID = author.ID
		post.AuthorName = author.FullName()
		post.AuthorEmail = author.Email
	}

	if req.Published {
		now := time.Now()
		post.PublishedAt = &now
	}

	if err := s.db.Create(post).Error; err != nil {
		return nil, err
	}
	return post, nil
}

// uniqueSlug appends a numeric suffix until the slug is free.
func (s *BlogService) uniqueSlug(base string) (string, error) {
	if base == "" {
		base = "post"
	}
	slug := base
	for i := 2; ; i++ {
		var count int64
		if err := s.db.Model(&models.BlogPost{}).Where("slug = ?", slug).Count(&count).Error; err != nil {
			return "", err
		}
		if count == 0 {
			return slug, nil
		}
		slug = fmt.Sprintf("%s-%d", base, i)
	}
}

func (s *BlogService) GetPost(id uuid.UUID) (*models.BlogPost, error) {
	var post models.BlogPost
	err := s.db.First(&post, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	return &post, nil
}

// GetPostBySlug returns a published post and bumps its view counter.
func (s *BlogService) GetPostBySlug(slug string) (*models.BlogPost, error) {
	var post models.BlogPost
	err := s.db.Where("slug = ? AND published = ?", slug, true).First(&post).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}

	s.db.Model(&post).UpdateColumn("views", gorm.Expr("views + 1"))
	post.Views++

	return &post, nil
}

func (s *BlogService) UpdatePost(id uuid.UUID, req *UpdatePostRequest) (*models.BlogPost, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, err
	}

	post, err := s.GetPost(id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil && *req.Title != post.Title {
		post.Title = *req.Title
		slug, err := s.uniqueSlug(Slugify(*req.Title))
		if err != nil {
			return nil, err
		}
		post.Slug = slug
	}
	if req.Content != nil {
		post.Content = *req.Content
	}
	if req.Excerpt != nil {
		post.Excerpt = *req.Excerpt
	}
	if req.Category != nil {
		post.Category = *req.Category
	}
	if req.Tags != nil {
		post.Tags = pq.StringArray(req.Tags)
	}
	if req.FeaturedImage != nil {
		post.FeaturedImage = *req.FeaturedImage
	}
	if req.Published != nil {
		if *req.Published && !post.Published {
			now := time.Now()
			post.PublishedAt = &now
		}
		post.Published = *req.Published
	}
	if req.Featured != nil {
		post.Featured = *req.Featured
	}
	if req.MetaTitle != nil {
		post.MetaTitle = *req.MetaTitle
	}
	if req.MetaDescription != nil {
		post.MetaDescription = *req.MetaDescription
	}
	if req.Keywords != nil {
		post.Keywords = pq.StringArray(req.Keywords)
	}

	if err := s.db.Save(post).Error; err != nil {
		return nil, err
	}
	return post, nil
}

func (s *BlogService) DeletePost(id uuid.UUID) error {
	result := s.db.Delete(&models.BlogPost{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrPostNotFound
	}
	return nil
}

// Categories lists the distinct categories of published posts.
func (s *BlogService) Categories() ([]string, error) {
	var categories []string
	err := s.db.Model(&models.BlogPost{}).
		Where("published = ? AND category <> ''", true).
		Distinct("category").
		Order("category ASC").
		Pluck("category", &categories).Error
	if err != nil {
		return nil, err
	}
	return categories, nil
}

type PostListParams struct {
	utils.PaginationParams
	Category      string
	Tag           string
	Search        string
	PublishedOnly bool
	FeaturedOnly  bool
}

func (s *BlogService) ListPosts(params PostListParams) ([]models.BlogPost, int64, error) {
	query := s.db.Model(&models.BlogPost{})

	if params.PublishedOnly {
		query = query.Where("published = ?", true)
	}
	if params.FeaturedOnly {
		query = query.Where("featured = ?", true)
	}
	if params.Category != "" {
		query = query.Where("category = ?", params.Category)
	}
	if params.Tag != "" {
		query = query.Where("? = ANY(tags)", params.Tag)
	}
	if params.Search != "" {
		search := "%" + strings.ToLower(params.Search) + "%"
		query = query.Where("LOWER(title) LIKE ? OR LOWER(content) LIKE ?", search, search)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	allowedSorts := map[string]string{
		"created_at":   "created_at",
		"published_at": "published_at",
		"views":        "views",
		"title":        "title",
	}
	query = utils.ApplySort(query, params.PaginationParams, allowedSorts)
	query = utils.ApplyPagination(query, params.PaginationParams)

	var posts []models.BlogPost
	if err := query.Find(&posts).Error; err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}
