package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/iudanet/keepsake/internal/models"
	"github.com/iudanet/keepsake/internal/server/storage"
	"github.com/iudanet/keepsake/internal/validation"
	"github.com/iudanet/keepsake/pkg/api"
)

const (
	maxJSONBodyBytes = 1 << 20

	// DefaultMaxBlobBytes is used when the handler is built with a non-positive limit
	DefaultMaxBlobBytes = 64 << 20
)

// DocumentsHandler serves collection queries, document writes and blobs
type DocumentsHandler struct {
	logger       *slog.Logger
	documents    storage.DocumentStorage
	blobs        storage.BlobStorage
	maxBlobBytes int64
}

// NewDocumentsHandler creates a new documents handler
func NewDocumentsHandler(logger *slog.Logger, documents storage.DocumentStorage, blobs storage.BlobStorage, maxBlobBytes int64) *DocumentsHandler {
	if maxBlobBytes <= 0 {
		maxBlobBytes = DefaultMaxBlobBytes
	}
	return &DocumentsHandler{
		logger:       logger,
		documents:    documents,
		blobs:        blobs,
		maxBlobBytes: maxBlobBytes,
	}
}

// Query обрабатывает POST /api/v1/query
func (h *DocumentsHandler) Query(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	scope, ok := h.scope(w, r)
	if !ok {
		return
	}

	var req api.QueryRequest
	if !h.decode(w, r, &req) {
		return
	}

	if err := validation.ValidateCollectionPath(req.Collection); err != nil {
		h.sendError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if !h.authorize(w, r, scope, req.Collection) {
		return
	}
	if req.Limit < 0 {
		h.sendError(w, "limit cannot be negative", http.StatusBadRequest)
		return
	}

	records, err := h.documents.Query(ctx, storage.Query{
		Collection: req.Collection,
		OrderBy:    req.OrderBy,
		Descending: req.Descending,
		Limit:      req.Limit,
	})
	if err != nil {
		if errors.Is(err, storage.ErrInvalidOrderBy) {
			h.sendError(w, err.Error(), http.StatusBadRequest)
			return
		}
		h.logger.ErrorContext(ctx, "failed to query documents",
			slog.String("collection", req.Collection), slog.Any("error", err))
		h.sendError(w, "failed to query documents", http.StatusInternalServerError)
		return
	}

	resp := api.QueryResponse{Documents: make([]api.Document, 0, len(records))}
	for _, rec := range records {
		resp.Documents = append(resp.Documents, api.Document{
			ID:        rec.ID,
			Fields:    rec.Fields,
			CreatedAt: rec.CreatedAt,
			UpdatedAt: rec.UpdatedAt,
		})
	}

	h.sendJSON(w, resp, http.StatusOK)
}

// Write обрабатывает POST /api/v1/write
// Повтор с тем же Idempotency-Key не применяется второй раз
func (h *DocumentsHandler) Write(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	scope, ok := h.scope(w, r)
	if !ok {
		return
	}

	var req api.WriteRequest
	if !h.decode(w, r, &req) {
		return
	}

	action := models.WriteAction(req.Action)
	switch action {
	case models.WriteCreate, models.WriteUpdate, models.WriteDelete:
	default:
		h.sendError(w, fmt.Sprintf("unknown action %q", req.Action), http.StatusBadRequest)
		return
	}

	if err := validation.ValidateCollectionPath(req.Collection); err != nil {
		h.sendError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := validation.ValidateDocumentID(req.ID); err != nil {
		h.sendError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if !h.authorize(w, r, scope, req.Collection) {
		return
	}

	replayed, err := h.documents.Apply(ctx, storage.Write{
		Scope:          scope,
		IdempotencyKey: r.Header.Get(api.HeaderIdempotencyKey),
		Action:         action,
		Collection:     req.Collection,
		ID:             req.ID,
		Fields:         req.Fields,
	})
	if err != nil {
		h.storageError(w, r, err, "failed to apply write")
		return
	}

	h.logger.DebugContext(ctx, "write applied",
		slog.String("action", req.Action),
		slog.String("collection", req.Collection),
		slog.String("id", req.ID),
		slog.Bool("replayed", replayed))

	h.sendJSON(w, api.WriteResponse{ID: req.ID, Replayed: replayed}, http.StatusOK)
}

// PutBlob обрабатывает PUT /api/v1/blobs/{key...}
func (h *DocumentsHandler) PutBlob(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	scope, ok := h.scope(w, r)
	if !ok {
		return
	}

	key := r.PathValue("key")
	if err := validation.ValidateBlobKey(key); err != nil {
		h.sendError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if !h.authorize(w, r, scope, key) {
		return
	}

	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, h.maxBlobBytes))
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			h.sendError(w, fmt.Sprintf("blob exceeds %d bytes", h.maxBlobBytes), http.StatusRequestEntityTooLarge)
			return
		}
		h.sendError(w, "failed to read body", http.StatusBadRequest)
		return
	}

	contentType := r.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	blob := &storage.Blob{Key: key, ContentType: contentType, Data: data}
	replayed, err := h.blobs.PutBlob(ctx, scope, r.Header.Get(api.HeaderIdempotencyKey), blob)
	if err != nil {
		h.storageError(w, r, err, "failed to store blob")
		return
	}

	h.logger.DebugContext(ctx, "blob stored",
		slog.String("key", key), slog.Int("size", len(data)), slog.Bool("replayed", replayed))

	h.sendJSON(w, api.BlobResponse{Ref: key, Size: int64(len(data))}, http.StatusOK)
}

// GetBlob обрабатывает GET /api/v1/blobs/{key...}
func (h *DocumentsHandler) GetBlob(w http.ResponseWriter, r *http.Request) {
	scope, ok := h.scope(w, r)
	if !ok {
		return
	}

	key := r.PathValue("key")
	if err := validation.ValidateBlobKey(key); err != nil {
		h.sendError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if !h.authorize(w, r, scope, key) {
		return
	}

	blob, err := h.blobs.GetBlob(r.Context(), key)
	if err != nil {
		h.storageError(w, r, err, "failed to get blob")
		return
	}

	w.Header().Set("Content-Type", blob.ContentType)
	w.Header().Set("Content-Length", strconv.FormatInt(blob.Size, 10))
	w.Header().Set("ETag", strconv.Quote(blob.Checksum))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(blob.Data); err != nil {
		h.logger.Warn("failed to write blob", slog.String("key", key), slog.Any("error", err))
	}
}

// scope извлекает scope, установленный AuthMiddleware
func (h *DocumentsHandler) scope(w http.ResponseWriter, r *http.Request) (string, bool) {
	scope, ok := GetScope(r.Context())
	if !ok {
		h.logger.Error("Scope not found in context")
		h.sendError(w, "missing credentials", http.StatusUnauthorized)
	}
	return scope, ok
}

// authorize allows only paths under users/<scope>/
func (h *DocumentsHandler) authorize(w http.ResponseWriter, r *http.Request, scope, path string) bool {
	if validation.ScopeOf(path) == scope {
		return true
	}
	h.logger.WarnContext(r.Context(), "path outside of scope",
		slog.String("scope", scope), slog.String("path", path))
	h.sendError(w, fmt.Sprintf("%s is outside of users/%s", path, scope), http.StatusForbidden)
	return false
}

func (h *DocumentsHandler) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONBodyBytes))
	if err := dec.Decode(v); err != nil {
		h.sendError(w, "invalid request body", http.StatusBadRequest)
		return false
	}
	return true
}

func (h *DocumentsHandler) storageError(w http.ResponseWriter, r *http.Request, err error, msg string) {
	switch {
	case errors.Is(err, storage.ErrDocumentNotFound), errors.Is(err, storage.ErrBlobNotFound):
		h.sendError(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, storage.ErrIdempotencyConflict):
		h.sendError(w, err.Error(), http.StatusUnprocessableEntity)
	case errors.Is(err, storage.ErrUnknownAction):
		h.sendError(w, err.Error(), http.StatusBadRequest)
	default:
		h.logger.ErrorContext(r.Context(), msg, slog.Any("error", err))
		h.sendError(w, msg, http.StatusInternalServerError)
	}
}

// sendJSON отправляет JSON ответ
func (h *DocumentsHandler) sendJSON(w http.ResponseWriter, data any, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode JSON response", slog.Any("error", err))
	}
}

// sendError отправляет JSON ответ с ошибкой
func (h *DocumentsHandler) sendError(w http.ResponseWriter, message string, statusCode int) {
	h.sendJSON(w, api.ErrorResponse{
		Error:   http.StatusText(statusCode),
		Message: message,
	}, statusCode)
}
