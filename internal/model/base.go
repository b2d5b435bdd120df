package model

import (
	"time"

	"github.com/google/uuid"
)

// Base contains the common fields shared by stored entities.
type Base struct {
	ID        uuid.UUID `json:"id" db:"id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Pagination carries the common list paging parameters.
type Pagination struct {
	Page     int `json:"page" form:"page"`
	PageSize int `json:"page_size" form:"page_size"`
}

// Limit returns the page size clamped to sane bounds.
func (p Pagination) Limit() int {
	if p.PageSize <= 0 {
		return 50
	}
	if p.PageSize > 200 {
		return 200
	}
	return p.PageSize
}

// Offset returns the row offset for the requested page.
func (p Pagination) Offset() int {
	if p.Page <= 1 {
		return 0
	}
	return (p.Page - 1) * p.Limit()
}
