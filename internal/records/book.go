package records

import (
	"time"
)

// Book is the single record type owned by the records service.
// ISBN, Genre and Description are optional; empty string means absent.
type Book struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Author        string    `json:"author"`
	ISBN          string    `json:"isbn,omitempty"`
	PublishedYear *int      `json:"published_year,omitempty"`
	Genre         string    `json:"genre,omitempty"`
	Description   string    `json:"description,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// NewBook carries the caller-supplied fields of a Create call.
// IdempotencyKey, when set, lets the caller retry the Create safely:
// a second Create with the same key returns the already-created record.
type NewBook struct {
	Title          string
	Author         string
	ISBN           string
	PublishedYear  *int
	Genre          string
	Description    string
	IdempotencyKey string
}

// Patch is a partial update. A nil field was not supplied and keeps its
// stored value; a non-nil field replaces it. Setting ISBN, Genre or
// Description to "" clears the field. Title and Author must stay non-empty.
type Patch struct {
	Title         *string
	Author        *string
	ISBN          *string
	PublishedYear *int
	Genre         *string
	Description   *string
}

// IsZero reports whether the patch supplies no fields at all.
func (p Patch) IsZero() bool {
	return p.Title == nil && p.Author == nil && p.ISBN == nil &&
		p.PublishedYear == nil && p.Genre == nil && p.Description == nil
}

// Query defines filters and keyset pagination for listing books.
// Results are ordered by id ascending; AfterID resumes after that id.
type Query struct {
	Genre   string
	Author  string
	AfterID string
	Limit   int
}

// ListRequest is the caller-facing shape of a List call, before the
// page token is decoded and the page size clamped.
type ListRequest struct {
	PageSize  int
	PageToken string
	Genre     string
	Author    string
}

// Page is one page of list results. NextPageToken is empty on the last page.
type Page struct {
	Books         []Book
	NextPageToken string
}
