// Package httptransport is the thin HTTP layer over the document engine. It
// decodes requests, builds the acting principal from authenticated claims,
// delegates to the workflow service, and encodes coded errors; business rules
// live below it.
package httptransport

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"docroute/internal/activity"
	"docroute/internal/authz"
	"docroute/internal/document/models"
	"docroute/internal/document/store"
	"docroute/internal/document/workflow"
	"docroute/internal/platform/middleware"
	"docroute/internal/transport/http/shared"
	id "docroute/pkg/domain"
	dErrors "docroute/pkg/domain-errors"
	"docroute/pkg/requestcontext"
)

// maxUploadBytes caps supplementary file uploads.
const maxUploadBytes = 32 << 20

// Service is the engine surface the HTTP layer depends on.
type Service interface {
	CreateDocument(ctx context.Context, p authz.Principal, in workflow.CreateDocumentInput) (*models.Document, error)
	UpdateStatus(ctx context.Context, p authz.Principal, docID id.DocumentID, next models.Status, comment string) (*models.Document, error)
	AttachSupplementaryFile(ctx context.Context, p authz.Principal, docID id.DocumentID, slotIndex int, name string, content io.Reader, size int64, contentType string) (*models.SupplementaryFile, error)
	SetVerification(ctx context.Context, p authz.Principal, docID id.DocumentID, slotIndex int, correct bool, comment string) (*models.SupplementaryFile, error)
	ReassignBranch(ctx context.Context, p authz.Principal, docID id.DocumentID, to id.BranchCode) (*models.Document, error)
	GetDocument(ctx context.Context, p authz.Principal, docID id.DocumentID) (*models.DocumentView, error)
	ListBranchDocuments(ctx context.Context, p authz.Principal, branch id.BranchCode, filter store.ListFilter) ([]*models.Document, error)
	GetHistory(ctx context.Context, p authz.Principal, docID id.DocumentID) ([]*models.StatusHistoryEntry, error)
	ListActivity(ctx context.Context, p authz.Principal, docID id.DocumentID) ([]activity.Event, error)
	GetAccessibleBranches(ctx context.Context, p authz.Principal) []id.BranchCode
}

// Handler handles document lifecycle endpoints.
type Handler struct {
	logger    *slog.Logger
	service   Service
	validator middleware.TokenValidator
}

// New creates the document Handler.
func New(service Service, logger *slog.Logger, validator middleware.TokenValidator) *Handler {
	return &Handler{
		logger:    logger,
		service:   service,
		validator: validator,
	}
}

// Register mounts the document routes with the full middleware chain.
func (h *Handler) Register(r chi.Router) {
	docRouter := chi.NewRouter()
	docRouter.Use(middleware.Recovery(h.logger))
	docRouter.Use(middleware.RequestID)
	docRouter.Use(middleware.RequestTime)
	docRouter.Use(middleware.Logger(h.logger))
	docRouter.Use(middleware.Timeout(30 * time.Second))
	docRouter.Use(middleware.RequireAuth(h.validator, h.logger))

	docRouter.Post("/documents", h.handleCreateDocument)
	docRouter.Get("/documents/{id}", h.handleGetDocument)
	docRouter.Get("/documents/{id}/history", h.handleGetHistory)
	docRouter.Get("/documents/{id}/activity", h.handleListActivity)
	docRouter.Post("/documents/{id}/status", h.handleUpdateStatus)
	docRouter.Post("/documents/{id}/branch", h.handleReassignBranch)
	docRouter.Put("/documents/{id}/slots/{index}", h.handleAttachFile)
	docRouter.Post("/documents/{id}/slots/{index}/verification", h.handleSetVerification)
	docRouter.Get("/branches/{code}/documents", h.handleListBranchDocuments)
	docRouter.Get("/me/branches", h.handleMyBranches)

	r.Mount("/", docRouter)
}

// principalFrom rebuilds the acting principal from claims the auth middleware
// stashed in the context.
func principalFrom(ctx context.Context) authz.Principal {
	return authz.Principal{
		ID:     requestcontext.UserID(ctx),
		Roles:  authz.RolesFromNames(requestcontext.Roles(ctx)),
		Branch: requestcontext.Branch(ctx),
	}
}

type createDocumentRequest struct {
	Branch         int      `json:"branch"`
	ReferenceNo    string   `json:"reference_no"`
	Subject        string   `json:"subject"`
	Period         string   `json:"period"`
	AdditionalDocs []string `json:"additional_docs"`
	Dispatch       bool     `json:"dispatch"`
}

func (h *Handler) handleCreateDocument(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req createDocumentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.warn(ctx, "invalid create document request", err)
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	doc, err := h.service.CreateDocument(ctx, principalFrom(ctx), workflow.CreateDocumentInput{
		Branch:         id.BranchCode(req.Branch),
		ReferenceNo:    req.ReferenceNo,
		Subject:        req.Subject,
		Period:         req.Period,
		AdditionalDocs: req.AdditionalDocs,
		Dispatch:       req.Dispatch,
	})
	if err != nil {
		h.writeServiceError(ctx, w, "create document", err)
		return
	}
	shared.WriteJSON(w, http.StatusCreated, doc)
}

func (h *Handler) handleGetDocument(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	docID, err := id.ParseDocumentID(chi.URLParam(r, "id"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	view, err := h.service.GetDocument(ctx, principalFrom(ctx), docID)
	if err != nil {
		h.writeServiceError(ctx, w, "get document", err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, view)
}

func (h *Handler) handleGetHistory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	docID, err := id.ParseDocumentID(chi.URLParam(r, "id"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	entries, err := h.service.GetHistory(ctx, principalFrom(ctx), docID)
	if err != nil {
		h.writeServiceError(ctx, w, "get history", err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, map[string]any{"history": entries})
}

func (h *Handler) handleListActivity(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	docID, err := id.ParseDocumentID(chi.URLParam(r, "id"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	events, err := h.service.ListActivity(ctx, principalFrom(ctx), docID)
	if err != nil {
		h.writeServiceError(ctx, w, "list activity", err)
		return
	}
	if events == nil {
		events = []activity.Event{}
	}
	shared.WriteJSON(w, http.StatusOK, map[string]any{"activity": events})
}

type updateStatusRequest struct {
	Status  string `json:"status"`
	Comment string `json:"comment"`
}

func (h *Handler) handleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	docID, err := id.ParseDocumentID(chi.URLParam(r, "id"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	var req updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.warn(ctx, "invalid status update request", err)
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	next := models.Status(req.Status)
	if !next.Valid() {
		shared.WriteError(w, dErrors.Newf(dErrors.CodeBadRequest, "unknown status %q", req.Status))
		return
	}

	doc, err := h.service.UpdateStatus(ctx, principalFrom(ctx), docID, next, req.Comment)
	if err != nil {
		h.writeServiceError(ctx, w, "update status", err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, doc)
}

type reassignBranchRequest struct {
	Branch int `json:"branch"`
}

func (h *Handler) handleReassignBranch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	docID, err := id.ParseDocumentID(chi.URLParam(r, "id"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	var req reassignBranchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.warn(ctx, "invalid reassign request", err)
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	doc, err := h.service.ReassignBranch(ctx, principalFrom(ctx), docID, id.BranchCode(req.Branch))
	if err != nil {
		h.writeServiceError(ctx, w, "reassign branch", err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, doc)
}

func (h *Handler) handleAttachFile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	docID, err := id.ParseDocumentID(chi.URLParam(r, "id"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	slotIndex, err := parseSlotIndex(chi.URLParam(r, "index"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	name := r.URL.Query().Get("name")
	body := http.MaxBytesReader(w, r.Body, maxUploadBytes)
	slot, err := h.service.AttachSupplementaryFile(ctx, principalFrom(ctx), docID, slotIndex,
		name, body, r.ContentLength, r.Header.Get("Content-Type"))
	if err != nil {
		h.writeServiceError(ctx, w, "attach file", err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, slot)
}

type setVerificationRequest struct {
	Correct bool   `json:"correct"`
	Comment string `json:"comment"`
}

func (h *Handler) handleSetVerification(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	docID, err := id.ParseDocumentID(chi.URLParam(r, "id"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	slotIndex, err := parseSlotIndex(chi.URLParam(r, "index"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	var req setVerificationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.warn(ctx, "invalid verification request", err)
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	slot, err := h.service.SetVerification(ctx, principalFrom(ctx), docID, slotIndex, req.Correct, req.Comment)
	if err != nil {
		h.writeServiceError(ctx, w, "set verification", err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, slot)
}

func (h *Handler) handleListBranchDocuments(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	branch, err := id.ParseBranchCode(chi.URLParam(r, "code"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	filter := store.ListFilter{Period: r.URL.Query().Get("period")}
	if raw := r.URL.Query().Get("status"); raw != "" {
		status := models.Status(raw)
		if !status.Valid() {
			shared.WriteError(w, dErrors.Newf(dErrors.CodeBadRequest, "unknown status %q", raw))
			return
		}
		filter.Status = &status
	}

	docs, err := h.service.ListBranchDocuments(ctx, principalFrom(ctx), branch, filter)
	if err != nil {
		h.writeServiceError(ctx, w, "list branch documents", err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, map[string]any{"documents": docs})
}

func (h *Handler) handleMyBranches(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	codes := h.service.GetAccessibleBranches(ctx, principalFrom(ctx))
	if codes == nil {
		codes = []id.BranchCode{}
	}
	shared.WriteJSON(w, http.StatusOK, map[string]any{"branches": codes})
}

func parseSlotIndex(raw string) (int, error) {
	idx, err := strconv.Atoi(raw)
	if err != nil || idx < 0 {
		return 0, dErrors.New(dErrors.CodeBadRequest, "slot index must be a non-negative integer")
	}
	return idx, nil
}

// writeServiceError logs unexpected failures and encodes the coded error.
// Business outcomes (4xx codes) pass through without noise.
func (h *Handler) writeServiceError(ctx context.Context, w http.ResponseWriter, op string, err error) {
	if dErrors.CodeOf(err) == dErrors.CodeInternal {
		h.logger.ErrorContext(ctx, op+" failed",
			"error", err,
			"request_id", requestcontext.RequestID(ctx))
		shared.WriteError(w, dErrors.New(dErrors.CodeInternal, "internal error"))
		return
	}
	shared.WriteError(w, err)
}

func (h *Handler) warn(ctx context.Context, msg string, err error) {
	h.logger.WarnContext(ctx, msg,
		"error", err,
		"request_id", requestcontext.RequestID(ctx))
}
