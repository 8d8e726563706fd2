// internal/models/blog.go
package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type BlogPost struct {
	BaseModel
	Title           string         `json:"title" gorm:"size:255;not null"`
	Slug            string         `json:"slug" gorm:"uniqueIndex;size:255;not null"`
	Content         string         `json:"content" gorm:"type:text;not null"`
	Excerpt         string         `json:"excerpt" gorm:"type:text"`
	Category        string         `json:"category" gorm:"size:100;not null;index"`
	Tags            pq.StringArray `json:"tags" gorm:"type:text[]"`
	FeaturedImage   string         `json:"featured_image" gorm:"size:512"`
	AuthorID        uuid.UUID      `json:"author_id" gorm:"type:uuid;not null"`
	AuthorName      string         `json:"author_name" gorm:"size:255"`
	AuthorEmail     string         `json:"author_email" gorm:"size:255"`
	Published       bool           `json:"published" gorm:"default:false;index"`
	PublishedAt     *time.Time     `json:"published_at"`
	Featured        bool           `json:"featured" gorm:"default:false"`
	Views           int64          `json:"views" gorm:"default:0"`
	MetaTitle       string         `json:"meta_title" gorm:"size:255"`
	MetaDescription string         `json:"meta_description" gorm:"size:512"`
	Keywords        pq.StringArray `json:"keywords" gorm:"type:text[]"`
}
