// Package workflow orchestrates the document lifecycle: role-gated status
// transitions, the supplementary-file verification sub-workflow, cache-aside
// reads, and the activity trail.
//
// Every mutation follows the same ordering: authoritative write first, then
// tag invalidation, then activity recording. Cache and activity failures are
// swallowed; once the write committed, nothing downgrades it to an error.
package workflow

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"docroute/internal/activity"
	"docroute/internal/authz"
	"docroute/internal/cache"
	"docroute/internal/document/models"
	"docroute/internal/document/store"
	"docroute/internal/filestore"
	"docroute/internal/platform/metrics"
	id "docroute/pkg/domain"
	dErrors "docroute/pkg/domain-errors"
	"docroute/pkg/platform/sentinel"
	"docroute/pkg/requestcontext"
)

// Service is the document lifecycle engine.
type Service struct {
	store       store.Store
	resolver    *authz.Resolver
	files       filestore.FileStore
	cache       *cache.Coordinator
	recorder    *activity.Recorder
	activityLog activity.Store
	metrics     *metrics.Metrics
	logger      *slog.Logger
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithLogger sets the service logger.
func WithLogger(logger *slog.Logger) ServiceOption {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithCache attaches the cache coordinator. Without it every read goes to
// the store.
func WithCache(c *cache.Coordinator) ServiceOption {
	return func(s *Service) { s.cache = c }
}

// WithActivity attaches the activity recorder.
func WithActivity(r *activity.Recorder) ServiceOption {
	return func(s *Service) { s.recorder = r }
}

// WithActivityLog attaches the activity store for trail reads; usually the
// same store the recorder writes to.
func WithActivityLog(store activity.Store) ServiceOption {
	return func(s *Service) { s.activityLog = store }
}

// WithFileStore attaches the object store holding supplementary file content.
// Without it uploads record metadata only.
func WithFileStore(fs filestore.FileStore) ServiceOption {
	return func(s *Service) { s.files = fs }
}

// WithMetrics attaches prometheus counters.
func WithMetrics(m *metrics.Metrics) ServiceOption {
	return func(s *Service) { s.metrics = m }
}

// NewService constructs the engine over the authoritative store and the
// authorization resolver.
func NewService(st store.Store, resolver *authz.Resolver, opts ...ServiceOption) *Service {
	s := &Service{
		store:    st,
		resolver: resolver,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateDocumentInput carries the fields for CreateDocument.
type CreateDocumentInput struct {
	Branch      id.BranchCode
	ReferenceNo string
	Subject     string
	Period      string
	// AdditionalDocs declares the required supplementary slots by name. A
	// blank entry reserves the index without requiring an attachment.
	AdditionalDocs []string
	// Dispatch sends the document straight to the branch instead of leaving
	// it in draft.
	Dispatch bool
}

// CreateDocument registers a new document for the uploader tier, optionally
// dispatching it to the branch immediately.
func (s *Service) CreateDocument(ctx context.Context, p authz.Principal, in CreateDocumentInput) (*models.Document, error) {
	if !s.resolver.CanActOnBranch(ctx, p, in.Branch, authz.ActionDispatch) {
		return nil, dErrors.New(dErrors.CodeForbidden, "not allowed to create documents")
	}

	status := models.StatusDraft
	if in.Dispatch {
		status = models.StatusSentToBranch
	}
	now := requestcontext.Now(ctx)
	doc, err := models.NewDocument(id.DocumentID(uuid.New()), status, in.Branch, p.ID,
		in.ReferenceNo, in.Subject, in.Period, in.AdditionalDocs, now)
	if err != nil {
		return nil, err
	}

	if err := s.store.CreateDocument(ctx, doc); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "create document")
	}
	s.appendHistory(ctx, &models.StatusHistoryEntry{
		DocumentID: doc.ID,
		ToStatus:   doc.Status,
		ActorID:    p.ID,
		CreatedAt:  now,
	})

	s.invalidate(ctx, cache.BranchTag(doc.BranchCode), cache.TagAllDocuments)
	s.record(ctx, activity.Event{
		DocumentID: doc.ID,
		ActorID:    p.ID,
		BranchCode: doc.BranchCode,
		Action:     activity.ActionDocumentCreated,
		ToStatus:   string(doc.Status),
	})
	return doc, nil
}

// UpdateStatus drives the document through one edge of the state machine.
//
// Checks run in a fixed order: existence, edge validity, actor tier, comment
// requirement, verification gate, then the conditional write. The write is
// the only concurrency control; a lost race surfaces as a conflict, never as
// a double transition.
func (s *Service) UpdateStatus(ctx context.Context, p authz.Principal, docID id.DocumentID, next models.Status, comment string) (*models.Document, error) {
	doc, err := s.loadDocument(ctx, docID)
	if err != nil {
		return nil, err
	}

	rule, ok := models.RuleFor(doc.Status, next)
	if !ok {
		s.countRejection(dErrors.CodeInvalidTransition)
		return nil, dErrors.Newf(dErrors.CodeInvalidTransition,
			"cannot transition from %s to %s", doc.Status, next)
	}
	if !s.tierAllowed(ctx, p, doc.BranchCode, rule.Tier) {
		s.countRejection(dErrors.CodeForbidden)
		return nil, dErrors.New(dErrors.CodeForbidden, "role may not perform this transition")
	}
	comment = strings.TrimSpace(comment)
	if rule.CommentRequired && comment == "" {
		s.countRejection(dErrors.CodeCommentRequired)
		return nil, dErrors.Newf(dErrors.CodeCommentRequired,
			"transition to %s requires a comment", next)
	}
	if rule.RequiresVerifiedSlots {
		verified, err := s.allRequiredSlotsVerified(ctx, doc)
		if err != nil {
			return nil, err
		}
		if !verified {
			s.countRejection(dErrors.CodeUnverifiedAttachments)
			return nil, dErrors.New(dErrors.CodeUnverifiedAttachments,
				"all supplementary documents must be verified before sending back")
		}
	}

	from := doc.Status
	now := requestcontext.Now(ctx)
	if err := s.store.UpdateDocumentStatus(ctx, docID, from, next); err != nil {
		switch {
		case errIsNotFound(err):
			return nil, dErrors.Wrap(err, dErrors.CodeNotFound, "document not found")
		case errIsConflict(err):
			s.countRejection(dErrors.CodeConflict)
			return nil, dErrors.Wrap(err, dErrors.CodeConflict, "document was modified concurrently")
		default:
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "update document status")
		}
	}
	s.appendHistory(ctx, &models.StatusHistoryEntry{
		DocumentID: docID,
		FromStatus: &from,
		ToStatus:   next,
		ActorID:    p.ID,
		Comment:    comment,
		CreatedAt:  now,
	})
	if s.metrics != nil {
		s.metrics.StatusTransitions.WithLabelValues(string(from), string(next)).Inc()
	}

	s.invalidate(ctx,
		cache.DocumentTag(docID), cache.BranchTag(doc.BranchCode), cache.TagAllDocuments)
	s.record(ctx, activity.Event{
		DocumentID: docID,
		ActorID:    p.ID,
		BranchCode: doc.BranchCode,
		Action:     activity.ActionStatusChanged,
		FromStatus: string(from),
		ToStatus:   string(next),
		Comment:    comment,
	})

	doc.Status = next
	doc.UpdatedAt = now
	return doc, nil
}

// AttachSupplementaryFile stores content for one required slot. Re-uploading
// over an incorrect verification resets it to unset; a slot verified correct
// is sealed.
func (s *Service) AttachSupplementaryFile(ctx context.Context, p authz.Principal, docID id.DocumentID,
	slotIndex int, name string, content io.Reader, size int64, contentType string) (*models.SupplementaryFile, error) {

	doc, err := s.loadDocument(ctx, docID)
	if err != nil {
		return nil, err
	}
	// The branch supplies attachments; the district verifies them.
	if !s.resolver.CanActOnBranch(ctx, p, doc.BranchCode, authz.ActionTransition) {
		return nil, dErrors.New(dErrors.CodeForbidden, "not allowed to upload for this branch")
	}
	if !doc.DeclaresSlot(slotIndex) {
		return nil, dErrors.Newf(dErrors.CodeBadRequest,
			"document declares %d supplementary slots", doc.AdditionalDocsCount)
	}
	if strings.TrimSpace(name) == "" {
		return nil, dErrors.New(dErrors.CodeBadRequest, "file name is required")
	}

	slot, err := s.store.GetSupplementarySlot(ctx, docID, slotIndex)
	switch {
	case err == nil:
		if err := slot.CanReupload(); err != nil {
			return nil, err
		}
	case errIsNotFound(err):
		slot = &models.SupplementaryFile{DocumentID: docID, SlotIndex: slotIndex}
	default:
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "load slot")
	}

	storageKey := filestore.SlotKey(docID, slotIndex, name)
	if s.files != nil {
		info, err := s.files.Put(ctx, storageKey, content, filestore.PutOptions{
			Size:        size,
			ContentType: contentType,
		})
		if err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "store file content")
		}
		size = info.Size
	}

	now := requestcontext.Now(ctx)
	slot.ApplyUpload(name, storageKey, size, p.ID, now)
	if err := s.store.SaveSupplementarySlot(ctx, slot); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "save slot")
	}

	s.invalidate(ctx, cache.DocumentTag(docID))
	idx := slotIndex
	s.record(ctx, activity.Event{
		DocumentID: docID,
		ActorID:    p.ID,
		BranchCode: doc.BranchCode,
		Action:     activity.ActionSlotUploaded,
		SlotIndex:  &idx,
	})
	return slot, nil
}

// SetVerification records the reviewer's verdict on a slot. Correct is
// terminal; incorrect requires a comment and sends the slot back for
// re-upload.
func (s *Service) SetVerification(ctx context.Context, p authz.Principal, docID id.DocumentID,
	slotIndex int, correct bool, comment string) (*models.SupplementaryFile, error) {

	doc, err := s.loadDocument(ctx, docID)
	if err != nil {
		return nil, err
	}
	if !s.resolver.CanVerifySupplementaryFile(p) {
		return nil, dErrors.New(dErrors.CodeForbidden, "role may not verify supplementary files")
	}
	if !doc.DeclaresSlot(slotIndex) {
		return nil, dErrors.Newf(dErrors.CodeBadRequest,
			"document declares %d supplementary slots", doc.AdditionalDocsCount)
	}

	slot, err := s.store.GetSupplementarySlot(ctx, docID, slotIndex)
	if err != nil {
		if errIsNotFound(err) {
			return nil, dErrors.New(dErrors.CodeNotFound, "slot has no uploaded file")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "load slot")
	}

	if err := slot.ApplyVerification(correct, comment, p.ID, requestcontext.Now(ctx)); err != nil {
		return nil, err
	}
	if err := s.store.SaveSupplementarySlot(ctx, slot); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "save slot")
	}
	if s.metrics != nil {
		verdict := "incorrect"
		if correct {
			verdict = "correct"
		}
		s.metrics.SlotVerifications.WithLabelValues(verdict).Inc()
	}

	s.invalidate(ctx, cache.DocumentTag(docID))
	idx := slotIndex
	s.record(ctx, activity.Event{
		DocumentID: docID,
		ActorID:    p.ID,
		BranchCode: doc.BranchCode,
		Action:     activity.ActionSlotVerified,
		SlotIndex:  &idx,
		Comment:    strings.TrimSpace(comment),
	})
	return slot, nil
}

// ReassignBranch moves a document to another branch. Listings of both the
// old and the new branch go stale, so both branch tags are invalidated.
func (s *Service) ReassignBranch(ctx context.Context, p authz.Principal, docID id.DocumentID, to id.BranchCode) (*models.Document, error) {
	if !s.resolver.CanActOnBranch(ctx, p, to, authz.ActionDispatch) {
		return nil, dErrors.New(dErrors.CodeForbidden, "not allowed to reassign documents")
	}
	doc, err := s.loadDocument(ctx, docID)
	if err != nil {
		return nil, err
	}
	from := doc.BranchCode
	if from == to {
		return doc, nil
	}

	if err := s.store.ReassignBranch(ctx, docID, to); err != nil {
		if errIsNotFound(err) {
			return nil, dErrors.Wrap(err, dErrors.CodeNotFound, "document not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "reassign branch")
	}

	s.invalidate(ctx,
		cache.DocumentTag(docID), cache.BranchTag(from), cache.BranchTag(to), cache.TagAllDocuments)
	s.record(ctx, activity.Event{
		DocumentID: docID,
		ActorID:    p.ID,
		BranchCode: to,
		Action:     activity.ActionBranchChanged,
		Comment:    fmt.Sprintf("moved from branch %s to %s", from, to),
	})

	doc.BranchCode = to
	doc.UpdatedAt = requestcontext.Now(ctx)
	return doc, nil
}

// GetDocument returns the cached read projection: document, slots, and the
// derived completion flag.
func (s *Service) GetDocument(ctx context.Context, p authz.Principal, docID id.DocumentID) (*models.DocumentView, error) {
	key := "document:view:" + docID.String()
	tags := []string{cache.DocumentTag(docID), cache.TagAllDocuments}

	view, err := cache.GetOrLoad(ctx, s.cache, key, 0, tags, func(ctx context.Context) (*models.DocumentView, error) {
		return s.loadView(ctx, docID)
	})
	if err != nil {
		return nil, err
	}
	if !s.resolver.CanActOnBranch(ctx, p, view.Document.BranchCode, authz.ActionRead) {
		return nil, dErrors.New(dErrors.CodeForbidden, "not allowed to read this document")
	}
	return view, nil
}

// ListBranchDocuments returns the documents of one branch, cache-aside under
// the branch tag.
func (s *Service) ListBranchDocuments(ctx context.Context, p authz.Principal, branch id.BranchCode, filter store.ListFilter) ([]*models.Document, error) {
	if !s.resolver.CanActOnBranch(ctx, p, branch, authz.ActionRead) {
		return nil, dErrors.New(dErrors.CodeForbidden, "not allowed to read this branch")
	}

	key := "branch:documents:" + branch.String() + listFilterKey(filter)
	tags := []string{cache.BranchTag(branch), cache.TagAllDocuments}
	ttl := s.cache.DefaultTTL()

	docs, err := cache.GetOrLoad(ctx, s.cache, key, ttl, tags, func(ctx context.Context) ([]*models.Document, error) {
		return s.store.ListByBranch(ctx, branch, filter)
	})
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "list branch documents")
	}
	return docs, nil
}

// GetHistory returns the append-only transition trail.
func (s *Service) GetHistory(ctx context.Context, p authz.Principal, docID id.DocumentID) ([]*models.StatusHistoryEntry, error) {
	doc, err := s.loadDocument(ctx, docID)
	if err != nil {
		return nil, err
	}
	if !s.resolver.CanActOnBranch(ctx, p, doc.BranchCode, authz.ActionRead) {
		return nil, dErrors.New(dErrors.CodeForbidden, "not allowed to read this document")
	}
	entries, err := s.store.ListHistory(ctx, docID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "list history")
	}
	return entries, nil
}

// ListActivity returns the recorded activity trail of one document. The trail
// names actors and branches across the document's whole life, so it is
// restricted to all-branch principals.
func (s *Service) ListActivity(ctx context.Context, p authz.Principal, docID id.DocumentID) ([]activity.Event, error) {
	if !p.HasCapability(authz.CapScopeAllBranches) {
		return nil, dErrors.New(dErrors.CodeForbidden, "not allowed to read the activity trail")
	}
	if _, err := s.loadDocument(ctx, docID); err != nil {
		return nil, err
	}
	if s.activityLog == nil {
		return nil, nil
	}
	events, err := s.activityLog.ListByDocument(ctx, docID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "list activity")
	}
	return events, nil
}

// GetAccessibleBranches resolves the branch codes the principal may act on.
func (s *Service) GetAccessibleBranches(ctx context.Context, p authz.Principal) []id.BranchCode {
	return s.resolver.ResolveAccessibleBranches(ctx, p)
}

// tierAllowed maps the state table's tier onto resolver actions.
func (s *Service) tierAllowed(ctx context.Context, p authz.Principal, branch id.BranchCode, tier models.Tier) bool {
	switch tier {
	case models.TierUploader:
		return s.resolver.CanActOnBranch(ctx, p, branch, authz.ActionDispatch)
	case models.TierBranch:
		return s.resolver.CanActOnBranch(ctx, p, branch, authz.ActionTransition)
	}
	return false
}

// allRequiredSlotsVerified checks the verification gate: every declared,
// non-blank slot has an upload verified correct. A document declaring no
// slots passes vacuously.
func (s *Service) allRequiredSlotsVerified(ctx context.Context, doc *models.Document) (bool, error) {
	required := doc.RequiredSlotIndexes()
	if len(required) == 0 {
		return true, nil
	}

	slots, err := s.store.ListSupplementarySlots(ctx, doc.ID)
	if err != nil {
		return false, dErrors.Wrap(err, dErrors.CodeInternal, "list slots")
	}
	verified := make(map[int]bool, len(slots))
	for _, slot := range slots {
		verified[slot.SlotIndex] = slot.Verification == models.VerificationCorrect
	}
	for _, idx := range required {
		if !verified[idx] {
			return false, nil
		}
	}
	return true, nil
}

func (s *Service) loadDocument(ctx context.Context, docID id.DocumentID) (*models.Document, error) {
	doc, err := s.store.GetDocument(ctx, docID)
	if err != nil {
		if errIsNotFound(err) {
			return nil, dErrors.New(dErrors.CodeNotFound, "document not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "load document")
	}
	return doc, nil
}

func (s *Service) loadView(ctx context.Context, docID id.DocumentID) (*models.DocumentView, error) {
	doc, err := s.loadDocument(ctx, docID)
	if err != nil {
		return nil, err
	}
	slots, err := s.store.ListSupplementarySlots(ctx, docID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "list slots")
	}
	view := &models.DocumentView{Document: *doc, Slots: slots}
	if doc.Status == models.StatusAcknowledged {
		complete, err := s.allRequiredSlotsVerified(ctx, doc)
		if err != nil {
			return nil, err
		}
		view.Complete = complete
	}
	return view, nil
}

func (s *Service) appendHistory(ctx context.Context, entry *models.StatusHistoryEntry) {
	// The trail records what already happened; a failed append is logged,
	// never propagated.
	if err := s.store.AppendHistory(ctx, entry); err != nil {
		s.logger.ErrorContext(ctx, "status history append failed",
			"document_id", entry.DocumentID, "to_status", entry.ToStatus, "error", err)
	}
}

func (s *Service) invalidate(ctx context.Context, tags ...string) {
	s.cache.Invalidate(ctx, tags...)
}

func (s *Service) record(ctx context.Context, event activity.Event) {
	if s.recorder != nil {
		s.recorder.Record(ctx, event)
	}
}

func (s *Service) countRejection(code dErrors.Code) {
	if s.metrics != nil {
		s.metrics.TransitionRejections.WithLabelValues(string(code)).Inc()
	}
}

func errIsNotFound(err error) bool { return errors.Is(err, sentinel.ErrNotFound) }
func errIsConflict(err error) bool { return errors.Is(err, sentinel.ErrConflict) }

func listFilterKey(filter store.ListFilter) string {
	var b strings.Builder
	if filter.Status != nil {
		b.WriteString(":status=")
		b.WriteString(string(*filter.Status))
	}
	if filter.Period != "" {
		b.WriteString(":period=")
		b.WriteString(filter.Period)
	}
	return b.String()
}
