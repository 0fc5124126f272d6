package workflow

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"docroute/internal/activity"
	"docroute/internal/authz"
	branch "docroute/internal/branch"
	branchmodels "docroute/internal/branch/models"
	branchstore "docroute/internal/branch/store"
	"docroute/internal/cache"
	"docroute/internal/document/models"
	"docroute/internal/document/store"
	"docroute/internal/filestore"
	id "docroute/pkg/domain"
	dErrors "docroute/pkg/domain-errors"
	"docroute/pkg/requestcontext"
)

const (
	branchNorth id.BranchCode = 1101
	branchSouth id.BranchCode = 1102
	branchOther id.BranchCode = 2201
)

type WorkflowSuite struct {
	suite.Suite
	ctx      context.Context
	now      time.Time
	docs     *store.InMemory
	events   *activity.InMemoryStore
	backend  *cache.InMemory
	files    *filestore.InMemory
	service  *Service

	admin    authz.Principal
	district authz.Principal
	uploader authz.Principal
	branchOp authz.Principal
	manager  authz.Principal
	plain    authz.Principal
}

func TestWorkflowSuite(t *testing.T) {
	suite.Run(t, new(WorkflowSuite))
}

func (s *WorkflowSuite) SetupTest() {
	s.now = time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC)
	s.ctx = requestcontext.WithTime(context.Background(), s.now)

	branches := branchstore.NewInMemory()
	for _, spec := range []struct {
		code   id.BranchCode
		region int
	}{
		{branchNorth, 11}, {branchSouth, 11}, {branchOther, 22},
	} {
		b, err := branchmodels.NewBranch(spec.code, "Branch "+spec.code.String(), spec.region, s.now)
		s.Require().NoError(err)
		s.Require().NoError(branches.Create(context.Background(), b))
	}
	resolver := authz.NewResolver(branch.NewDirectory(branches))

	s.docs = store.NewInMemory()
	s.events = activity.NewInMemoryStore()
	s.backend = cache.NewInMemory()
	s.files = filestore.NewInMemory()
	s.service = NewService(s.docs, resolver,
		WithCache(cache.NewCoordinator(s.backend, true, time.Minute)),
		WithActivity(activity.NewRecorder(s.events)),
		WithActivityLog(s.events),
		WithFileStore(s.files),
	)

	s.admin = authz.Principal{ID: id.UserID(uuid.New()), Roles: []authz.Role{authz.RoleAdmin}}
	s.district = authz.Principal{ID: id.UserID(uuid.New()), Roles: []authz.Role{authz.RoleDistrictManager}, Branch: branchNorth}
	s.uploader = authz.Principal{ID: id.UserID(uuid.New()), Roles: []authz.Role{authz.RoleUploader}, Branch: branchNorth}
	s.branchOp = authz.Principal{ID: id.UserID(uuid.New()), Roles: []authz.Role{authz.RoleBranchUser}, Branch: branchNorth}
	s.manager = authz.Principal{ID: id.UserID(uuid.New()), Roles: []authz.Role{authz.RoleBranchManager}, Branch: branchNorth}
	s.plain = authz.Principal{ID: id.UserID(uuid.New()), Roles: []authz.Role{authz.RoleUser}, Branch: branchNorth}
}

func (s *WorkflowSuite) createDocument(slots []string, dispatch bool) *models.Document {
	doc, err := s.service.CreateDocument(s.ctx, s.uploader, CreateDocumentInput{
		Branch:         branchNorth,
		ReferenceNo:    "REF-001",
		Subject:        "Quarterly reconciliation",
		Period:         "2026-Q2",
		AdditionalDocs: slots,
		Dispatch:       dispatch,
	})
	s.Require().NoError(err)
	return doc
}

func (s *WorkflowSuite) uploadAndVerify(doc *models.Document, slotIndex int) {
	_, err := s.service.AttachSupplementaryFile(s.ctx, s.branchOp, doc.ID, slotIndex,
		"receipt.pdf", strings.NewReader("content"), 7, "application/pdf")
	s.Require().NoError(err)
	_, err = s.service.SetVerification(s.ctx, s.district, doc.ID, slotIndex, true, "")
	s.Require().NoError(err)
}

func (s *WorkflowSuite) TestCreateDocument() {
	s.Run("draft by default", func() {
		doc := s.createDocument(nil, false)
		s.Equal(models.StatusDraft, doc.Status)
		s.Equal(branchNorth, doc.BranchCode)
	})

	s.Run("dispatched directly", func() {
		doc := s.createDocument(nil, true)
		s.Equal(models.StatusSentToBranch, doc.Status)
	})

	s.Run("branch tier cannot create", func() {
		_, err := s.service.CreateDocument(s.ctx, s.branchOp, CreateDocumentInput{
			Branch: branchNorth, Subject: "x",
		})
		s.True(dErrors.HasCode(err, dErrors.CodeForbidden))
	})

	s.Run("records creation history and activity", func() {
		doc := s.createDocument(nil, true)

		history, err := s.service.GetHistory(s.ctx, s.uploader, doc.ID)
		s.Require().NoError(err)
		s.Require().Len(history, 1)
		s.Nil(history[0].FromStatus)
		s.Equal(models.StatusSentToBranch, history[0].ToStatus)

		events, err := s.events.ListByDocument(s.ctx, doc.ID)
		s.Require().NoError(err)
		s.Require().Len(events, 1)
		s.Equal(activity.ActionDocumentCreated, events[0].Action)
	})
}

func (s *WorkflowSuite) TestTransitionRoleGating() {
	s.Run("uploader dispatches a draft", func() {
		doc := s.createDocument(nil, false)
		updated, err := s.service.UpdateStatus(s.ctx, s.uploader, doc.ID, models.StatusSentToBranch, "")
		s.Require().NoError(err)
		s.Equal(models.StatusSentToBranch, updated.Status)
	})

	s.Run("branch user cannot dispatch a draft", func() {
		doc := s.createDocument(nil, false)
		_, err := s.service.UpdateStatus(s.ctx, s.branchOp, doc.ID, models.StatusSentToBranch, "")
		s.True(dErrors.HasCode(err, dErrors.CodeForbidden))
	})

	s.Run("branch user acknowledges", func() {
		doc := s.createDocument(nil, true)
		updated, err := s.service.UpdateStatus(s.ctx, s.branchOp, doc.ID, models.StatusAcknowledged, "")
		s.Require().NoError(err)
		s.Equal(models.StatusAcknowledged, updated.Status)
	})

	s.Run("uploader cannot acknowledge", func() {
		doc := s.createDocument(nil, true)
		_, err := s.service.UpdateStatus(s.ctx, s.uploader, doc.ID, models.StatusAcknowledged, "")
		s.True(dErrors.HasCode(err, dErrors.CodeForbidden))
	})

	s.Run("branch user of another region cannot acknowledge", func() {
		doc := s.createDocument(nil, true)
		outsider := authz.Principal{ID: id.UserID(uuid.New()), Roles: []authz.Role{authz.RoleBranchUser}, Branch: branchOther}
		_, err := s.service.UpdateStatus(s.ctx, outsider, doc.ID, models.StatusAcknowledged, "")
		s.True(dErrors.HasCode(err, dErrors.CodeForbidden))
	})

	s.Run("district manager may drive both tiers", func() {
		doc := s.createDocument(nil, false)
		_, err := s.service.UpdateStatus(s.ctx, s.district, doc.ID, models.StatusSentToBranch, "")
		s.Require().NoError(err)
		_, err = s.service.UpdateStatus(s.ctx, s.district, doc.ID, models.StatusAcknowledged, "")
		s.Require().NoError(err)
	})
}

func (s *WorkflowSuite) TestTransitionValidation() {
	s.Run("unknown document", func() {
		_, err := s.service.UpdateStatus(s.ctx, s.admin, id.DocumentID(uuid.New()), models.StatusAcknowledged, "")
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	s.Run("undefined edge", func() {
		doc := s.createDocument(nil, false)
		_, err := s.service.UpdateStatus(s.ctx, s.admin, doc.ID, models.StatusAcknowledged, "")
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidTransition))
	})

	s.Run("send back requires comment", func() {
		doc := s.createDocument(nil, true)
		_, err := s.service.UpdateStatus(s.ctx, s.branchOp, doc.ID, models.StatusSentBackToDistrict, "  ")
		s.True(dErrors.HasCode(err, dErrors.CodeCommentRequired))
	})

	s.Run("re-send requires comment", func() {
		doc := s.createDocument(nil, true)
		_, err := s.service.UpdateStatus(s.ctx, s.branchOp, doc.ID, models.StatusSentBackToDistrict, "done")
		s.Require().NoError(err)
		_, err = s.service.UpdateStatus(s.ctx, s.uploader, doc.ID, models.StatusSentToBranch, "")
		s.True(dErrors.HasCode(err, dErrors.CodeCommentRequired))
	})

	s.Run("comment stored in history", func() {
		doc := s.createDocument(nil, true)
		_, err := s.service.UpdateStatus(s.ctx, s.branchOp, doc.ID, models.StatusSentBackToDistrict, "all reconciled")
		s.Require().NoError(err)

		history, err := s.service.GetHistory(s.ctx, s.uploader, doc.ID)
		s.Require().NoError(err)
		s.Require().Len(history, 2)
		s.Equal("all reconciled", history[1].Comment)
	})
}

func (s *WorkflowSuite) TestVerificationGate() {
	s.Run("blocks send back from sent_to_branch with unverified slots", func() {
		doc := s.createDocument([]string{"receipt", "invoice"}, true)
		_, err := s.service.UpdateStatus(s.ctx, s.branchOp, doc.ID, models.StatusSentBackToDistrict, "done")
		s.True(dErrors.HasCode(err, dErrors.CodeUnverifiedAttachments))
	})

	s.Run("blocks send back from acknowledged with unverified slots", func() {
		doc := s.createDocument([]string{"receipt"}, true)
		_, err := s.service.UpdateStatus(s.ctx, s.branchOp, doc.ID, models.StatusAcknowledged, "")
		s.Require().NoError(err)
		_, err = s.service.UpdateStatus(s.ctx, s.branchOp, doc.ID, models.StatusSentBackToDistrict, "done")
		s.True(dErrors.HasCode(err, dErrors.CodeUnverifiedAttachments))
	})

	s.Run("upload without verification is not enough", func() {
		doc := s.createDocument([]string{"receipt"}, true)
		_, err := s.service.AttachSupplementaryFile(s.ctx, s.branchOp, doc.ID, 0,
			"receipt.pdf", strings.NewReader("content"), 7, "application/pdf")
		s.Require().NoError(err)
		_, err = s.service.UpdateStatus(s.ctx, s.branchOp, doc.ID, models.StatusSentBackToDistrict, "done")
		s.True(dErrors.HasCode(err, dErrors.CodeUnverifiedAttachments))
	})

	s.Run("passes once every required slot is verified", func() {
		doc := s.createDocument([]string{"receipt", "invoice"}, true)
		s.uploadAndVerify(doc, 0)
		s.uploadAndVerify(doc, 1)

		updated, err := s.service.UpdateStatus(s.ctx, s.branchOp, doc.ID, models.StatusSentBackToDistrict, "done")
		s.Require().NoError(err)
		s.Equal(models.StatusSentBackToDistrict, updated.Status)
	})

	s.Run("vacuously true with no declared slots", func() {
		doc := s.createDocument(nil, true)
		_, err := s.service.UpdateStatus(s.ctx, s.branchOp, doc.ID, models.StatusSentBackToDistrict, "done")
		s.Require().NoError(err)
	})

	s.Run("blank slot names are not required", func() {
		doc := s.createDocument([]string{"receipt", " "}, true)
		s.uploadAndVerify(doc, 0)
		_, err := s.service.UpdateStatus(s.ctx, s.branchOp, doc.ID, models.StatusSentBackToDistrict, "done")
		s.Require().NoError(err)
	})
}

func (s *WorkflowSuite) TestSupplementaryFileLifecycle() {
	s.Run("upload stores content and metadata", func() {
		doc := s.createDocument([]string{"receipt"}, true)
		slot, err := s.service.AttachSupplementaryFile(s.ctx, s.branchOp, doc.ID, 0,
			"receipt.pdf", strings.NewReader("content"), 7, "application/pdf")
		s.Require().NoError(err)
		s.Equal(models.VerificationUnset, slot.Verification)
		s.Equal(1, s.files.Len())
	})

	s.Run("upload to undeclared slot", func() {
		doc := s.createDocument([]string{"receipt"}, true)
		_, err := s.service.AttachSupplementaryFile(s.ctx, s.branchOp, doc.ID, 5,
			"x.pdf", strings.NewReader("x"), 1, "application/pdf")
		s.True(dErrors.HasCode(err, dErrors.CodeBadRequest))
	})

	s.Run("plain user cannot upload", func() {
		doc := s.createDocument([]string{"receipt"}, true)
		_, err := s.service.AttachSupplementaryFile(s.ctx, s.plain, doc.ID, 0,
			"x.pdf", strings.NewReader("x"), 1, "application/pdf")
		s.True(dErrors.HasCode(err, dErrors.CodeForbidden))
	})

	s.Run("branch role cannot verify", func() {
		doc := s.createDocument([]string{"receipt"}, true)
		_, err := s.service.AttachSupplementaryFile(s.ctx, s.branchOp, doc.ID, 0,
			"x.pdf", strings.NewReader("x"), 1, "application/pdf")
		s.Require().NoError(err)
		for _, p := range []authz.Principal{s.branchOp, s.manager, s.plain} {
			_, err := s.service.SetVerification(s.ctx, p, doc.ID, 0, true, "")
			s.True(dErrors.HasCode(err, dErrors.CodeForbidden))
		}
	})

	s.Run("verifying an empty slot", func() {
		doc := s.createDocument([]string{"receipt"}, true)
		_, err := s.service.SetVerification(s.ctx, s.district, doc.ID, 0, true, "")
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	s.Run("incorrect requires comment", func() {
		doc := s.createDocument([]string{"receipt"}, true)
		_, err := s.service.AttachSupplementaryFile(s.ctx, s.branchOp, doc.ID, 0,
			"x.pdf", strings.NewReader("x"), 1, "application/pdf")
		s.Require().NoError(err)
		_, err = s.service.SetVerification(s.ctx, s.district, doc.ID, 0, false, " ")
		s.True(dErrors.HasCode(err, dErrors.CodeCommentRequired))
	})

	s.Run("correct verification is terminal", func() {
		doc := s.createDocument([]string{"receipt"}, true)
		s.uploadAndVerify(doc, 0)

		_, err := s.service.SetVerification(s.ctx, s.district, doc.ID, 0, false, "second thoughts")
		s.True(dErrors.HasCode(err, dErrors.CodeConflict))

		_, err = s.service.AttachSupplementaryFile(s.ctx, s.branchOp, doc.ID, 0,
			"replacement.pdf", strings.NewReader("y"), 1, "application/pdf")
		s.True(dErrors.HasCode(err, dErrors.CodeConflict))
	})

	s.Run("re-upload resets incorrect verification", func() {
		doc := s.createDocument([]string{"receipt"}, true)
		_, err := s.service.AttachSupplementaryFile(s.ctx, s.branchOp, doc.ID, 0,
			"x.pdf", strings.NewReader("x"), 1, "application/pdf")
		s.Require().NoError(err)
		_, err = s.service.SetVerification(s.ctx, s.district, doc.ID, 0, false, "wrong period")
		s.Require().NoError(err)

		slot, err := s.service.AttachSupplementaryFile(s.ctx, s.branchOp, doc.ID, 0,
			"fixed.pdf", strings.NewReader("y"), 1, "application/pdf")
		s.Require().NoError(err)
		s.Equal(models.VerificationUnset, slot.Verification)
		s.Empty(slot.VerificationComment)
	})
}

// staleReadStore serves one read with an outdated status, simulating a
// concurrent writer landing between the service's read and its conditional
// write.
type staleReadStore struct {
	store.Store
	staleStatus models.Status
	served      bool
}

func (s *staleReadStore) GetDocument(ctx context.Context, docID id.DocumentID) (*models.Document, error) {
	doc, err := s.Store.GetDocument(ctx, docID)
	if err == nil && !s.served {
		s.served = true
		doc.Status = s.staleStatus
	}
	return doc, err
}

func (s *WorkflowSuite) TestConcurrentModification() {
	doc := s.createDocument(nil, true)
	_, err := s.service.UpdateStatus(s.ctx, s.branchOp, doc.ID, models.StatusAcknowledged, "")
	s.Require().NoError(err)

	// The stale reader still believes the document is sent_to_branch; its
	// conditional write must lose, not double-apply.
	stale := &staleReadStore{Store: s.docs, staleStatus: models.StatusSentToBranch}
	svc := NewService(stale, s.service.resolver)

	_, err = svc.UpdateStatus(s.ctx, s.branchOp, doc.ID, models.StatusAcknowledged, "")
	s.True(dErrors.HasCode(err, dErrors.CodeConflict))

	current, err := s.docs.GetDocument(s.ctx, doc.ID)
	s.Require().NoError(err)
	s.Equal(models.StatusAcknowledged, current.Status)
}

func (s *WorkflowSuite) TestReads() {
	s.Run("view includes slots and derived completion", func() {
		doc := s.createDocument([]string{"receipt"}, true)
		s.uploadAndVerify(doc, 0)

		view, err := s.service.GetDocument(s.ctx, s.district, doc.ID)
		s.Require().NoError(err)
		s.False(view.Complete)

		_, err = s.service.UpdateStatus(s.ctx, s.branchOp, doc.ID, models.StatusAcknowledged, "")
		s.Require().NoError(err)

		view, err = s.service.GetDocument(s.ctx, s.district, doc.ID)
		s.Require().NoError(err)
		s.True(view.Complete)
		s.Require().Len(view.Slots, 1)
	})

	s.Run("completion is false while slots are unverified", func() {
		doc := s.createDocument([]string{"receipt"}, true)
		_, err := s.service.UpdateStatus(s.ctx, s.branchOp, doc.ID, models.StatusAcknowledged, "")
		s.Require().NoError(err)

		view, err := s.service.GetDocument(s.ctx, s.district, doc.ID)
		s.Require().NoError(err)
		s.False(view.Complete)
	})

	s.Run("plain user cannot read", func() {
		doc := s.createDocument(nil, true)
		_, err := s.service.GetDocument(s.ctx, s.plain, doc.ID)
		s.True(dErrors.HasCode(err, dErrors.CodeForbidden))
	})

	s.Run("unknown document", func() {
		_, err := s.service.GetDocument(s.ctx, s.admin, id.DocumentID(uuid.New()))
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	s.Run("branch listing scoped by region", func() {
		s.createDocument(nil, true)
		docs, err := s.service.ListBranchDocuments(s.ctx, s.district, branchNorth, store.ListFilter{})
		s.Require().NoError(err)
		s.NotEmpty(docs)

		outsider := authz.Principal{ID: id.UserID(uuid.New()), Roles: []authz.Role{authz.RoleBranchUser}, Branch: branchOther}
		_, err = s.service.ListBranchDocuments(s.ctx, outsider, branchNorth, store.ListFilter{})
		s.True(dErrors.HasCode(err, dErrors.CodeForbidden))
	})

	s.Run("accessible branches by role", func() {
		s.ElementsMatch([]id.BranchCode{branchNorth, branchSouth, branchOther},
			s.service.GetAccessibleBranches(s.ctx, s.admin))
		s.ElementsMatch([]id.BranchCode{branchNorth, branchSouth},
			s.service.GetAccessibleBranches(s.ctx, s.district))
		s.ElementsMatch([]id.BranchCode{branchNorth},
			s.service.GetAccessibleBranches(s.ctx, s.branchOp))
	})
}

func (s *WorkflowSuite) TestCacheInvalidation() {
	s.Run("transition evicts cached view and listing", func() {
		doc := s.createDocument(nil, true)

		_, err := s.service.GetDocument(s.ctx, s.district, doc.ID)
		s.Require().NoError(err)
		_, err = s.service.ListBranchDocuments(s.ctx, s.district, branchNorth, store.ListFilter{})
		s.Require().NoError(err)
		s.Require().NotZero(s.backend.Len())

		_, err = s.service.UpdateStatus(s.ctx, s.branchOp, doc.ID, models.StatusAcknowledged, "")
		s.Require().NoError(err)

		// The next read observes the new status, not the cached one.
		view, err := s.service.GetDocument(s.ctx, s.district, doc.ID)
		s.Require().NoError(err)
		s.Equal(models.StatusAcknowledged, view.Document.Status)
	})

	s.Run("reassignment evicts both branch listings", func() {
		doc := s.createDocument(nil, true)

		north, err := s.service.ListBranchDocuments(s.ctx, s.district, branchNorth, store.ListFilter{})
		s.Require().NoError(err)
		south, err := s.service.ListBranchDocuments(s.ctx, s.district, branchSouth, store.ListFilter{})
		s.Require().NoError(err)
		countNorth, countSouth := len(north), len(south)

		_, err = s.service.ReassignBranch(s.ctx, s.district, doc.ID, branchSouth)
		s.Require().NoError(err)

		north, err = s.service.ListBranchDocuments(s.ctx, s.district, branchNorth, store.ListFilter{})
		s.Require().NoError(err)
		south, err = s.service.ListBranchDocuments(s.ctx, s.district, branchSouth, store.ListFilter{})
		s.Require().NoError(err)
		s.Len(north, countNorth-1)
		s.Len(south, countSouth+1)
	})
}

// brokenBackend fails every cache operation.
type brokenBackend struct{}

func (brokenBackend) Get(context.Context, string) ([]byte, bool, error) {
	return nil, false, context.DeadlineExceeded
}

func (brokenBackend) Set(context.Context, string, []byte, time.Duration, []string) error {
	return context.DeadlineExceeded
}

func (brokenBackend) InvalidateTag(context.Context, string) (int, error) {
	return 0, context.DeadlineExceeded
}

func (s *WorkflowSuite) TestInfrastructureFailuresDoNotEscalate() {
	s.Run("cache failures are swallowed", func() {
		svc := NewService(s.docs, s.service.resolver,
			WithCache(cache.NewCoordinator(brokenBackend{}, true, time.Minute)))

		doc, err := svc.CreateDocument(s.ctx, s.uploader, CreateDocumentInput{
			Branch: branchNorth, Subject: "cache down", Dispatch: true,
		})
		s.Require().NoError(err)

		view, err := svc.GetDocument(s.ctx, s.district, doc.ID)
		s.Require().NoError(err)
		s.Equal(doc.ID, view.Document.ID)

		_, err = svc.UpdateStatus(s.ctx, s.branchOp, doc.ID, models.StatusAcknowledged, "")
		s.Require().NoError(err)
	})

	s.Run("activity failures are swallowed", func() {
		svc := NewService(s.docs, s.service.resolver,
			WithActivity(activity.NewRecorder(failingActivityStore{})))

		_, err := svc.CreateDocument(s.ctx, s.uploader, CreateDocumentInput{
			Branch: branchNorth, Subject: "recorder down", Dispatch: true,
		})
		s.Require().NoError(err)
	})
}

type failingActivityStore struct{}

func (failingActivityStore) Append(context.Context, activity.Event) error {
	return context.DeadlineExceeded
}

func (failingActivityStore) ListByDocument(context.Context, id.DocumentID) ([]activity.Event, error) {
	return nil, nil
}

func (failingActivityStore) ListByActor(context.Context, id.UserID) ([]activity.Event, error) {
	return nil, nil
}

func (s *WorkflowSuite) TestActivityTrail() {
	doc := s.createDocument([]string{"receipt"}, true)
	s.uploadAndVerify(doc, 0)
	_, err := s.service.UpdateStatus(s.ctx, s.branchOp, doc.ID, models.StatusAcknowledged, "")
	s.Require().NoError(err)

	events, err := s.events.ListByDocument(s.ctx, doc.ID)
	s.Require().NoError(err)
	s.Require().Len(events, 4)
	s.Equal(activity.ActionDocumentCreated, events[0].Action)
	s.Equal(activity.ActionSlotUploaded, events[1].Action)
	s.Equal(activity.ActionSlotVerified, events[2].Action)
	s.Equal(activity.ActionStatusChanged, events[3].Action)
	s.Equal("sent_to_branch", events[3].FromStatus)
	s.Equal("acknowledged", events[3].ToStatus)
}

func (s *WorkflowSuite) TestListActivity() {
	doc := s.createDocument(nil, true)

	s.Run("admin reads the trail", func() {
		events, err := s.service.ListActivity(s.ctx, s.admin, doc.ID)
		s.Require().NoError(err)
		s.Require().Len(events, 1)
		s.Equal(activity.ActionDocumentCreated, events[0].Action)
	})

	s.Run("branch and district principals are excluded", func() {
		for _, p := range []authz.Principal{s.district, s.uploader, s.branchOp, s.plain} {
			_, err := s.service.ListActivity(s.ctx, p, doc.ID)
			s.Require().True(dErrors.HasCode(err, dErrors.CodeForbidden))
		}
	})

	s.Run("unknown document is not found", func() {
		_, err := s.service.ListActivity(s.ctx, s.admin, id.DocumentID(uuid.New()))
		s.Require().True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})
}
