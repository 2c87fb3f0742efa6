package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/sirupsen/logrus"

	"github.com/Kerhoff/wishlist/internal/metrics"
	"github.com/Kerhoff/wishlist/internal/models"
	"github.com/Kerhoff/wishlist/internal/repository"
	"github.com/Kerhoff/wishlist/internal/service"
)

// Server provides the HTTP API and serves the web UI.
type Server struct {
	svc     *service.Service
	logger  *logrus.Logger
	metrics *metrics.Metrics
	mux     *http.ServeMux
	pages   *renderer
}

// NewServer creates a Server, registers all routes, and returns it.
func NewServer(svc *service.Service, logger *logrus.Logger, m *metrics.Metrics) *Server {
	s := &Server{
		svc:     svc,
		logger:  logger,
		metrics: m,
		mux:     http.NewServeMux(),
		pages:   newRenderer(),
	}
	s.routes()
	return s
}

// Handler returns the http.Handler that can be passed to http.Server.
func (s *Server) Handler() http.Handler {
	return withRequestID(s.withAccessLog(s.mux))
}

// ---------------------------------------------------------------------------
// Routes
// ---------------------------------------------------------------------------

func (s *Server) routes() {
	// API – Items
	s.mux.HandleFunc("GET /api/items", s.handleGetItems)
	s.mux.HandleFunc("POST /api/items", s.handleCreateItem)
	s.mux.HandleFunc("GET /api/items/{id}", s.handleGetItem)
	s.mux.HandleFunc("PUT /api/items/{id}", s.handleUpdateItem)
	s.mux.HandleFunc("DELETE /api/items/{id}", s.handleDeleteItem)
	s.mux.HandleFunc("GET /api/sections", s.handleGetSections)
	s.mux.HandleFunc("GET /api/categories", s.handleGetCategories)

	// API – Undo window
	s.mux.HandleFunc("GET /api/pending-deletions", s.handleGetPendingDeletions)
	s.mux.HandleFunc("POST /api/pending-deletions", s.handleScheduleDeletion)
	s.mux.HandleFunc("DELETE /api/pending-deletions/{id}", s.handleUndoDeletion)

	s.mux.HandleFunc("GET /healthz", s.handleHealth)

	// Static files & web UI
	s.mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServerFS(staticFS())))
	s.mux.HandleFunc("GET /{$}", s.handleHome)
	s.mux.HandleFunc("GET /items/new", s.handleNewItemPage)
	s.mux.HandleFunc("POST /items", s.handleCreateItemPage)
	s.mux.HandleFunc("GET /items/{id}", s.handleDetailsPage)
	s.mux.HandleFunc("GET /items/{id}/edit", s.handleEditItemPage)
	s.mux.HandleFunc("POST /items/{id}", s.handleUpdateItemPage)
	s.mux.HandleFunc("POST /items/{id}/delete", s.handleDeleteItemPage)
	s.mux.HandleFunc("POST /items/{id}/swipe-delete", s.handleSwipeDeletePage)
	s.mux.HandleFunc("POST /items/{id}/undo", s.handleUndoPage)
	s.mux.HandleFunc("GET /items/{id}/web", s.handleWebViewPage)
}

// ---------------------------------------------------------------------------
// JSON helpers
// ---------------------------------------------------------------------------

func (s *Server) respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			s.logger.WithError(err).Error("failed to encode JSON response")
		}
	}
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{"error": message})
}

// respondServiceError maps service and repository errors onto status codes.
// action completes "failed to ..." for unexpected errors.
func (s *Server) respondServiceError(w http.ResponseWriter, err error, action string) {
	switch {
	case errors.Is(err, service.ErrInvalidItem):
		s.respondJSON(w, http.StatusBadRequest, validationResponse{
			Error:   err.Error(),
			Details: service.ValidationMessages(err),
		})
	case errors.Is(err, repository.ErrNotFound):
		s.respondError(w, http.StatusNotFound, "item not found")
	case errors.Is(err, service.ErrNoPendingDeletion):
		s.respondError(w, http.StatusNotFound, "no pending deletion for item")
	case errors.Is(err, service.ErrSchedulerClosed):
		s.respondError(w, http.StatusServiceUnavailable, "server is shutting down")
	default:
		s.logger.WithError(err).Errorf("failed to %s", action)
		s.respondError(w, http.StatusInternalServerError, "failed to "+action)
	}
}

// decodeJSON reads the request body into dst and returns an error message on
// failure.  The caller should return immediately when ok == false.
func (s *Server) decodeJSON(r *http.Request, dst any) (ok bool, errMsg string) {
	if r.Body == nil || r.Body == http.NoBody {
		return false, "request body is empty"
	}
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return false, fmt.Sprintf("invalid JSON: %v", err)
	}
	return true, ""
}

// pathID extracts the {id} path value and converts it to int64.
func pathID(r *http.Request) (int64, error) {
	raw := r.PathValue("id")
	if raw == "" {
		return 0, fmt.Errorf("missing id in path")
	}
	return strconv.ParseInt(raw, 10, 64)
}

// ---------------------------------------------------------------------------
// Items
// ---------------------------------------------------------------------------

type validationResponse struct {
	Error   string   `json:"error"`
	Details []string `json:"details"`
}

// itemResponse is an item plus its undo-window state.
type itemResponse struct {
	*models.WishlistItem
	PendingDelete bool `json:"pending_delete"`
}

type sectionResponse struct {
	Title string         `json:"title"`
	Data  []itemResponse `json:"data"`
}

type scheduleDeletionRequest struct {
	ItemID int64 `json:"item_id"`
}

func (s *Server) itemResponses(items []*models.WishlistItem) []itemResponse {
	out := make([]itemResponse, len(items))
	for i, item := range items {
		out[i] = itemResponse{WishlistItem: item, PendingDelete: s.svc.IsPendingDelete(item.ID)}
	}
	return out
}

func (s *Server) handleGetItems(w http.ResponseWriter, r *http.Request) {
	items, err := s.svc.List(r.Context())
	if err != nil {
		s.respondServiceError(w, err, "list items")
		return
	}

	s.respondJSON(w, http.StatusOK, s.itemResponses(items))
}

func (s *Server) handleGetSections(w http.ResponseWriter, r *http.Request) {
	sections, err := s.svc.Sections(r.Context())
	if err != nil {
		s.respondServiceError(w, err, "list sections")
		return
	}

	out := make([]sectionResponse, len(sections))
	for i, sec := range sections {
		out[i] = sectionResponse{Title: sec.Title, Data: s.itemResponses(sec.Items)}
	}
	s.respondJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetCategories(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, models.Categories)
}

func (s *Server) handleGetItem(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	item, err := s.svc.Get(r.Context(), id)
	if err != nil {
		s.respondServiceError(w, err, "get item")
		return
	}

	s.respondJSON(w, http.StatusOK, itemResponse{WishlistItem: item, PendingDelete: s.svc.IsPendingDelete(id)})
}

func (s *Server) handleCreateItem(w http.ResponseWriter, r *http.Request) {
	var form service.ItemForm
	if ok, msg := s.decodeJSON(r, &form); !ok {
		s.respondError(w, http.StatusBadRequest, msg)
		return
	}

	created, err := s.svc.Add(r.Context(), form)
	if err != nil {
		s.respondServiceError(w, err, "create item")
		return
	}

	s.respondJSON(w, http.StatusCreated, created)
}

func (s *Server) handleUpdateItem(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	var form service.ItemForm
	if ok, msg := s.decodeJSON(r, &form); !ok {
		s.respondError(w, http.StatusBadRequest, msg)
		return
	}

	updated, err := s.svc.Update(r.Context(), id, form)
	if err != nil {
		s.respondServiceError(w, err, "update item")
		return
	}

	s.respondJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteItem(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	if err := s.svc.Delete(r.Context(), id); err != nil {
		s.respondServiceError(w, err, "delete item")
		return
	}

	s.respondJSON(w, http.StatusNoContent, nil)
}

// ---------------------------------------------------------------------------
// Pending deletions
// ---------------------------------------------------------------------------

func (s *Server) handleGetPendingDeletions(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, s.svc.PendingDeletions())
}

func (s *Server) handleScheduleDeletion(w http.ResponseWriter, r *http.Request) {
	var req scheduleDeletionRequest
	if ok, msg := s.decodeJSON(r, &req); !ok {
		s.respondError(w, http.StatusBadRequest, msg)
		return
	}
	if req.ItemID == 0 {
		s.respondError(w, http.StatusBadRequest, "item_id is required")
		return
	}

	pending, err := s.svc.ScheduleDelete(r.Context(), req.ItemID)
	if err != nil {
		s.respondServiceError(w, err, "schedule deletion")
		return
	}

	s.respondJSON(w, http.StatusAccepted, pending)
}

func (s *Server) handleUndoDeletion(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	if _, err := s.svc.UndoDelete(id); err != nil {
		s.respondServiceError(w, err, "undo deletion")
		return
	}

	s.respondJSON(w, http.StatusNoContent, nil)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.svc.Deletions.Closed() {
		s.respondJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "shutting down"})
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
