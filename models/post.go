package models

import (
	"time"

	"gorm.io/gorm"
)

// Post is a blog entry. A post is publicly visible only when it is
// published, its category is published, and its publish date is not in
// the future. Authors always see their own posts.
type Post struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Title       string    `gorm:"not null" json:"title"`
	Text        string    `gorm:"not null" json:"text"`
	PubDate     time.Time `gorm:"not null;index" json:"pub_date"`
	IsPublished bool      `gorm:"not null;default:true" json:"is_published"`
	AuthorID    uint      `gorm:"not null;index" json:"author_id"`
	Author      User      `gorm:"foreignKey:AuthorID" json:"author"`
	CategoryID  uint      `gorm:"not null;index" json:"category_id"`
	Category    Category  `gorm:"foreignKey:CategoryID" json:"category"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Visible returns a query scope selecting posts that pass the public
// visibility predicate at the given instant.
func Visible(now time.Time) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		published := db.Session(&gorm.Session{NewDB: true}).
			Model(&Category{}).
			Select("id").
			Where("is_published = ?", true)
		return db.Where(
			"posts.is_published = ? AND posts.pub_date <= ? AND posts.category_id IN (?)",
			true, now, published,
		)
	}
}

// VisibleTo reports whether the loaded post (Category must be preloaded)
// may be shown to the viewer. Pass a nil viewer for anonymous requests.
func (p *Post) VisibleTo(viewer *User, now time.Time) bool {
	if viewer != nil && viewer.ID == p.AuthorID {
		return true
	}
	return p.IsPublished && p.Category.IsPublished && !p.PubDate.After(now)
}
