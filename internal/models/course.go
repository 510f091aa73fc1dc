package models

import "time"

// Course represents a course in the catalog.
// Price is stored in integer minor units (cents) with an ISO-4217 currency
// code; a PriceCents of 0 means the course is free.
type Course struct {
	ID           int64     `json:"id"`
	InstructorID int64     `json:"instructorId"`
	Slug         string    `json:"slug"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	PriceCents   int64     `json:"priceCents"`
	Currency     string    `json:"currency"`
	Published    bool      `json:"published"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Free reports whether the course can be enrolled into without a payment
func (c *Course) Free() bool {
	return c.PriceCents == 0
}

// CourseListItem represents a course in catalog list responses
type CourseListItem struct {
	ID         int64  `json:"id"`
	Slug       string `json:"slug"`
	Title      string `json:"title"`
	PriceCents int64  `json:"priceCents"`
	Currency   string `json:"currency"`
}

// CourseDetailResponse represents a course with the caller's enrollment state
type CourseDetailResponse struct {
	Course
	Enrolled           bool `json:"enrolled"`
	ProgressPercentage int  `json:"progressPercentage"`
}

// CreateCourseRequest represents a request to create a course
type CreateCourseRequest struct {
	Slug        string `json:"slug" validate:"required,max=120"`
	Title       string `json:"title" validate:"required,max=255"`
	Description string `json:"description"`
	PriceCents  int64  `json:"priceCents" validate:"gte=0"`
	Currency    string `json:"currency" validate:"required_with=PriceCents,omitempty,len=3"`
}

// UpdateCourseRequest represents a partial course update
type UpdateCourseRequest struct {
	Title       *string `json:"title,omitempty" validate:"omitempty,max=255"`
	Description *string `json:"description,omitempty"`
	PriceCents  *int64  `json:"priceCents,omitempty" validate:"omitempty,gte=0"`
	Currency    *string `json:"currency,omitempty" validate:"omitempty,len=3"`
}
