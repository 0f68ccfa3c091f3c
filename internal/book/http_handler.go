package book

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"bookstore/internal/httpx"
	"bookstore/internal/validation"
)

type HTTPHandler struct {
	service *Service
	logger  *slog.Logger
}

func NewHTTPHandler(service *Service, logger *slog.Logger) *HTTPHandler {
	return &HTTPHandler{service: service, logger: logger}
}

// Register mounts the book routes on mux.
func (h *HTTPHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /books", h.List)
	mux.HandleFunc("POST /books", h.Create)
	mux.HandleFunc("GET /books/{isbn}", h.GetByISBN)
	mux.HandleFunc("PUT /books/{isbn}", h.Update)
	mux.HandleFunc("DELETE /books/{isbn}", h.Delete)
}

// List handles GET /books
func (h *HTTPHandler) List(w http.ResponseWriter, r *http.Request) {
	books, err := h.service.List(r.Context())
	if err != nil {
		h.writeError(w, r, "", err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"books": books})
}

// GetByISBN handles GET /books/{isbn}
func (h *HTTPHandler) GetByISBN(w http.ResponseWriter, r *http.Request) {
	isbn := r.PathValue("isbn")

	b, err := h.service.GetByISBN(r.Context(), isbn)
	if err != nil {
		h.writeError(w, r, isbn, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"book": b})
}

// Create handles POST /books
func (h *HTTPHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in Book
	if !h.decodeValid(w, r, CreateSchema, &in) {
		return
	}

	b, err := h.service.Create(r.Context(), in)
	if err != nil {
		h.writeError(w, r, in.ISBN, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, map[string]any{"book": b})
}

// Update handles PUT /books/{isbn}. The body is validated before the store
// is consulted, so a bad body for an unknown isbn is a 400.
func (h *HTTPHandler) Update(w http.ResponseWriter, r *http.Request) {
	isbn := r.PathValue("isbn")

	var f Fields
	if !h.decodeValid(w, r, UpdateSchema, &f) {
		return
	}

	b, err := h.service.Update(r.Context(), isbn, f)
	if err != nil {
		h.writeError(w, r, isbn, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"book": b})
}

// Delete handles DELETE /books/{isbn}
func (h *HTTPHandler) Delete(w http.ResponseWriter, r *http.Request) {
	isbn := r.PathValue("isbn")

	if err := h.service.Delete(r.Context(), isbn); err != nil {
		h.writeError(w, r, isbn, err)
		return
	}
	httpx.JSONMessage(w, http.StatusOK, "Book deleted")
}

// decodeValid reads the body, validates it against schema and decodes the
// validated values into dst. It writes the error reply itself and reports whether the
// caller may proceed.
func (h *HTTPHandler) decodeValid(w http.ResponseWriter, r *http.Request, schema validation.Schema, dst any) bool {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			httpx.JSONError(w, http.StatusRequestEntityTooLarge, "Request body too large")
			return false
		}
		httpx.JSONValidationError(w, []string{"request body could not be read"})
		return false
	}

	payload, err := decodeObject(body)
	if err != nil {
		httpx.JSONValidationError(w, []string{err.Error()})
		return false
	}

	res := validation.Validate(payload, schema)
	if !res.Valid {
		httpx.JSONValidationError(w, res.Errors)
		return false
	}

	// Decode the normalized values: the raw body may spell integers as 100.0.
	normalized, err := json.Marshal(res.Values)
	if err != nil {
		httpx.JSONValidationError(w, []string{"request body does not match " + schema.Name})
		return false
	}
	if err := json.Unmarshal(normalized, dst); err != nil {
		httpx.JSONValidationError(w, []string{"request body does not match " + schema.Name})
		return false
	}
	return true
}

// decodeObject parses body as exactly one JSON object, keeping numbers as
// json.Number so integer checks see the literal.
func decodeObject(body []byte) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, errors.New("request body must be valid JSON")
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, errors.New("request body must contain a single JSON object")
	}
	obj, ok := v.(map[string]any)
	if !ok {
		return nil, errors.New("request body must be a JSON object")
	}
	return obj, nil
}

func (h *HTTPHandler) writeError(w http.ResponseWriter, r *http.Request, isbn string, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		httpx.JSONError(w, http.StatusNotFound, fmt.Sprintf("There is no book with an isbn of '%s'", isbn))
	case errors.Is(err, ErrDuplicateKey):
		httpx.JSONError(w, http.StatusConflict, fmt.Sprintf("A book with isbn '%s' already exists", isbn))
	default:
		h.logger.Error("book request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"request_id", httpx.RequestIDFrom(r),
			"error", err,
		)
		httpx.JSONError(w, http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
	}
}
