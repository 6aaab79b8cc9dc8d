package models

import "gorm.io/gorm"

// PageSize is the fixed number of posts per listing page.
const PageSize = 10

// Page is one slice of a post listing, ordered newest first.
type Page struct {
	Posts    []Post
	Number   int
	NumPages int
	Total    int64
}

func (p *Page) HasPrev() bool { return p.Number > 1 }
func (p *Page) HasNext() bool { return p.Number < p.NumPages }
func (p *Page) PrevNumber() int {
	if p.HasPrev() {
		return p.Number - 1
	}
	return p.Number
}
func (p *Page) NextNumber() int {
	if p.HasNext() {
		return p.Number + 1
	}
	return p.Number
}

// PaginatePosts counts the query, clamps the requested page into range
// (invalid or out-of-range numbers never error) and fetches one page of
// posts ordered by publish date descending. The query must already carry
// its filters and preloads.
func PaginatePosts(q *gorm.DB, page int) (*Page, error) {
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, err
	}

	numPages := int((total + PageSize - 1) / PageSize)
	if numPages < 1 {
		numPages = 1
	}
	if page < 1 {
		page = 1
	}
	if page > numPages {
		page = numPages
	}

	var posts []Post
	err := q.Order("pub_date DESC").
		Offset((page - 1) * PageSize).
		Limit(PageSize).
		Find(&posts).Error
	if err != nil {
		return nil, err
	}

	return &Page{Posts: posts, Number: page, NumPages: numPages, Total: total}, nil
}
