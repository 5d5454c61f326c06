package gateway

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"bookrecords/internal/httpx"
	"bookrecords/internal/records"
)

const idempotencyKeyHeader = "X-Idempotency-Key"

// BookHandler translates HTTP requests into records service calls.
// It holds no state of its own; every error kind the service produces
// maps onto exactly one HTTP status.
type BookHandler struct {
	service *records.Service
}

func NewBookHandler(service *records.Service) *BookHandler {
	return &BookHandler{service: service}
}

type createBookRequest struct {
	Title         string `json:"title" validate:"required"`
	Author        string `json:"author" validate:"required"`
	ISBN          string `json:"isbn" validate:"omitempty,isbn"`
	PublishedYear *int   `json:"published_year" validate:"omitempty,gte=0,lte=9999"`
	Genre         string `json:"genre"`
	Description   string `json:"description"`
}

type updateBookRequest struct {
	Title         *string `json:"title"`
	Author        *string `json:"author"`
	ISBN          *string `json:"isbn" validate:"omitempty,isbn"`
	PublishedYear *int    `json:"published_year" validate:"omitempty,gte=0,lte=9999"`
	Genre         *string `json:"genre"`
	Description   *string `json:"description"`
}

// Create handles POST /books.
func (h *BookHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createBookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(r, w, http.StatusBadRequest, "invalid_argument", "Malformed JSON body", nil)
		return
	}

	if details := validateRequest(req); details != nil {
		httpx.JSONError(r, w, http.StatusBadRequest, "invalid_argument", "Validation failed", details)
		return
	}

	created, err := h.service.Create(r.Context(), records.NewBook{
		Title:          req.Title,
		Author:         req.Author,
		ISBN:           req.ISBN,
		PublishedYear:  req.PublishedYear,
		Genre:          req.Genre,
		Description:    req.Description,
		IdempotencyKey: r.Header.Get(idempotencyKeyHeader),
	})
	if err != nil {
		writeServiceError(r, w, err)
		return
	}
	httpx.JSONSuccessCreated(r, w, created)
}

// Get handles GET /books/{id}.
func (h *BookHandler) Get(w http.ResponseWriter, r *http.Request) {
	book, err := h.service.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(r, w, err)
		return
	}
	httpx.JSONSuccess(r, w, book, nil)
}

// Update handles PATCH /books/{id}. Fields absent from the body keep
// their stored value; optional fields sent as "" are cleared.
func (h *BookHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req updateBookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(r, w, http.StatusBadRequest, "invalid_argument", "Malformed JSON body", nil)
		return
	}

	if details := validateRequest(req); details != nil {
		httpx.JSONError(r, w, http.StatusBadRequest, "invalid_argument", "Validation failed", details)
		return
	}

	updated, err := h.service.Update(r.Context(), r.PathValue("id"), records.Patch{
		Title:         req.Title,
		Author:        req.Author,
		ISBN:          req.ISBN,
		PublishedYear: req.PublishedYear,
		Genre:         req.Genre,
		Description:   req.Description,
	})
	if err != nil {
		writeServiceError(r, w, err)
		return
	}
	httpx.JSONSuccess(r, w, updated, nil)
}

// Delete handles DELETE /books/{id}. Deleting an id that no longer
// exists is a 404, not a silent success.
func (h *BookHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), r.PathValue("id")); err != nil {
		writeServiceError(r, w, err)
		return
	}
	httpx.JSONSuccessNoContent(w)
}

// List handles GET /books.
func (h *BookHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	var pageSize int
	if raw := query.Get("page_size"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			httpx.JSONError(r, w, http.StatusBadRequest, "invalid_argument", "Validation failed",
				[]httpx.ErrorDetail{{Field: "page_size", Message: "page_size must be an integer"}})
			return
		}
		pageSize = n
	}

	page, err := h.service.List(r.Context(), records.ListRequest{
		PageSize:  pageSize,
		PageToken: query.Get("page_token"),
		Genre:     query.Get("genre"),
		Author:    query.Get("author"),
	})
	if err != nil {
		writeServiceError(r, w, err)
		return
	}

	books := page.Books
	if books == nil {
		books = []records.Book{}
	}
	meta := map[string]interface{}{}
	if page.NextPageToken != "" {
		meta["next_page_token"] = page.NextPageToken
	}
	httpx.JSONSuccess(r, w, books, meta)
}

// writeServiceError is a pure translation of the records error taxonomy
// into HTTP statuses; it never reclassifies or swallows a kind.
func writeServiceError(r *http.Request, w http.ResponseWriter, err error) {
	var invalid *records.InvalidArgumentError
	switch {
	case errors.As(err, &invalid):
		details := make([]httpx.ErrorDetail, 0, len(invalid.Fields))
		for _, f := range invalid.Fields {
			details = append(details, httpx.ErrorDetail{Field: f.Field, Message: f.Message})
		}
		httpx.JSONError(r, w, http.StatusBadRequest, "invalid_argument", "Validation failed", details)
	case errors.Is(err, records.ErrNotFound):
		httpx.JSONError(r, w, http.StatusNotFound, "not_found", "Book not found", nil)
	case errors.Is(err, records.ErrConflict):
		httpx.JSONError(r, w, http.StatusConflict, "conflict", "ISBN already in use", nil)
	case errors.Is(err, records.ErrUnavailable):
		httpx.JSONError(r, w, http.StatusServiceUnavailable, "unavailable", "Store temporarily unavailable", nil)
	default:
		log.Printf("internal error: request_id=%s error=%v", httpx.RequestIDFrom(r), err)
		httpx.JSONError(r, w, http.StatusInternalServerError, "internal_error", "Internal server error", nil)
	}
}
