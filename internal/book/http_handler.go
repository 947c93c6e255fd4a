package book

import (
	"bookcatalog/internal/httpx"
	"errors"
	"log"
	"net/http"
	"strconv"
)

type HTTPHandler struct {
	service *Service
}

func NewHTTPHandler(service *Service) *HTTPHandler {
	return &HTTPHandler{service: service}
}

// Register mounts the catalog routes on mux.
func (h *HTTPHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /books", h.List)
	mux.HandleFunc("GET /book/{id}", h.Get)
}

// List handles GET /books
// @Summary List books
// @Description Return every book in the catalog
// @Tags books
// @Produce json
// @Success 200 {array} book.Book
// @Failure 500 {object} httpx.ErrorResponse
// @Router /books [get]
func (h *HTTPHandler) List(w http.ResponseWriter, r *http.Request) {
	books, err := h.service.GetAll(r.Context())
	if err != nil {
		log.Printf("book list failed request_id=%s error=%v", httpx.RequestIDFrom(r), err)
		httpx.JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, books)
}

// Get handles GET /book/{id}
// @Summary Get book by id
// @Tags books
// @Produce json
// @Param id path int true "Book id"
// @Success 200 {object} book.Book
// @Failure 400 {object} httpx.ErrorResponse
// @Failure 404 {object} httpx.ErrorResponse
// @Failure 500 {object} httpx.ErrorResponse
// @Router /book/{id} [get]
func (h *HTTPHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r.PathValue("id"))
	if err != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "BAD_REQUEST", "Book id must be an integer", []httpx.ErrorDetail{
			{Field: "id", Message: err.Error()},
		})
		return
	}

	b, err := h.service.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			httpx.JSONError(w, r, http.StatusNotFound, "NOT_FOUND", "Book not found", nil)
			return
		}
		log.Printf("book lookup failed request_id=%s id=%d error=%v", httpx.RequestIDFrom(r), id, err)
		httpx.JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, b)
}

var errInvalidID = errors.New("invalid id")

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, errInvalidID
	}
	return id, nil
}
