package store

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"docroute/internal/document/models"
	id "docroute/pkg/domain"
	"docroute/pkg/platform/sentinel"
)

type DocumentStoreSuite struct {
	suite.Suite
	store *InMemory
	ctx   context.Context
}

func (s *DocumentStoreSuite) SetupTest() {
	s.store = NewInMemory()
	s.ctx = context.Background()
}

func TestDocumentStoreSuite(t *testing.T) {
	suite.Run(t, new(DocumentStoreSuite))
}

func (s *DocumentStoreSuite) newDocument(branch id.BranchCode, status models.Status) *models.Document {
	return &models.Document{
		ID:         id.DocumentID(uuid.New()),
		Status:     status,
		BranchCode: branch,
		UploaderID: id.UserID(uuid.New()),
		Subject:    "Quarterly reconciliation",
		Period:     "2026-Q2",
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	}
}

func (s *DocumentStoreSuite) TestCreateAndGet() {
	s.Run("creates and finds document", func() {
		doc := s.newDocument(1101, models.StatusSentToBranch)
		s.Require().NoError(s.store.CreateDocument(s.ctx, doc))

		found, err := s.store.GetDocument(s.ctx, doc.ID)
		s.Require().NoError(err)
		s.Equal(doc.Subject, found.Subject)
		s.Equal(models.StatusSentToBranch, found.Status)
	})

	s.Run("returns ErrNotFound for unknown ID", func() {
		_, err := s.store.GetDocument(s.ctx, id.DocumentID(uuid.New()))
		s.Require().ErrorIs(err, sentinel.ErrNotFound)
	})

	s.Run("rejects duplicate ID", func() {
		doc := s.newDocument(1101, models.StatusDraft)
		s.Require().NoError(s.store.CreateDocument(s.ctx, doc))
		s.Require().ErrorIs(s.store.CreateDocument(s.ctx, doc), sentinel.ErrConflict)
	})

	s.Run("returned document is a copy", func() {
		doc := s.newDocument(1101, models.StatusDraft)
		s.Require().NoError(s.store.CreateDocument(s.ctx, doc))

		found, err := s.store.GetDocument(s.ctx, doc.ID)
		s.Require().NoError(err)
		found.Subject = "mutated"

		again, err := s.store.GetDocument(s.ctx, doc.ID)
		s.Require().NoError(err)
		s.Equal("Quarterly reconciliation", again.Subject)
	})
}

func (s *DocumentStoreSuite) TestConditionalStatusUpdate() {
	s.Run("succeeds when expected status matches", func() {
		doc := s.newDocument(1101, models.StatusSentToBranch)
		s.Require().NoError(s.store.CreateDocument(s.ctx, doc))

		err := s.store.UpdateDocumentStatus(s.ctx, doc.ID, models.StatusSentToBranch, models.StatusAcknowledged)
		s.Require().NoError(err)

		found, err := s.store.GetDocument(s.ctx, doc.ID)
		s.Require().NoError(err)
		s.Equal(models.StatusAcknowledged, found.Status)
	})

	s.Run("returns ErrConflict when expected status is stale", func() {
		doc := s.newDocument(1101, models.StatusAcknowledged)
		s.Require().NoError(s.store.CreateDocument(s.ctx, doc))

		err := s.store.UpdateDocumentStatus(s.ctx, doc.ID, models.StatusSentToBranch, models.StatusAcknowledged)
		s.Require().ErrorIs(err, sentinel.ErrConflict)
	})

	s.Run("returns ErrNotFound for unknown document", func() {
		err := s.store.UpdateDocumentStatus(s.ctx, id.DocumentID(uuid.New()), models.StatusDraft, models.StatusSentToBranch)
		s.Require().ErrorIs(err, sentinel.ErrNotFound)
	})

	s.Run("exactly one concurrent writer wins", func() {
		doc := s.newDocument(1101, models.StatusSentToBranch)
		s.Require().NoError(s.store.CreateDocument(s.ctx, doc))

		const writers = 16
		var wg sync.WaitGroup
		var wins, conflicts atomic.Int32
		for i := 0; i < writers; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				next := models.StatusAcknowledged
				if i%2 == 0 {
					next = models.StatusSentBackToDistrict
				}
				err := s.store.UpdateDocumentStatus(s.ctx, doc.ID, models.StatusSentToBranch, next)
				switch {
				case err == nil:
					wins.Add(1)
				default:
					conflicts.Add(1)
				}
			}(i)
		}
		wg.Wait()

		s.Equal(int32(1), wins.Load())
		s.Equal(int32(writers-1), conflicts.Load())
	})
}

func (s *DocumentStoreSuite) TestListByBranch() {
	ack := models.StatusAcknowledged

	s.Require().NoError(s.store.CreateDocument(s.ctx, s.newDocument(1101, models.StatusSentToBranch)))
	s.Require().NoError(s.store.CreateDocument(s.ctx, s.newDocument(1101, models.StatusAcknowledged)))
	s.Require().NoError(s.store.CreateDocument(s.ctx, s.newDocument(1102, models.StatusSentToBranch)))

	s.Run("filters by branch", func() {
		docs, err := s.store.ListByBranch(s.ctx, 1101, ListFilter{})
		s.Require().NoError(err)
		s.Len(docs, 2)
	})

	s.Run("filters by status", func() {
		docs, err := s.store.ListByBranch(s.ctx, 1101, ListFilter{Status: &ack})
		s.Require().NoError(err)
		s.Len(docs, 1)
		s.Equal(models.StatusAcknowledged, docs[0].Status)
	})

	s.Run("empty result for unknown branch", func() {
		docs, err := s.store.ListByBranch(s.ctx, 9999, ListFilter{})
		s.Require().NoError(err)
		s.Empty(docs)
	})
}

func (s *DocumentStoreSuite) TestHistory() {
	doc := s.newDocument(1101, models.StatusSentToBranch)
	s.Require().NoError(s.store.CreateDocument(s.ctx, doc))

	from := models.StatusSentToBranch
	entry := &models.StatusHistoryEntry{
		DocumentID: doc.ID,
		FromStatus: &from,
		ToStatus:   models.StatusAcknowledged,
		ActorID:    id.UserID(uuid.New()),
		CreatedAt:  time.Now(),
	}
	s.Require().NoError(s.store.AppendHistory(s.ctx, entry))

	entries, err := s.store.ListHistory(s.ctx, doc.ID)
	s.Require().NoError(err)
	s.Require().Len(entries, 1)
	s.Equal(models.StatusAcknowledged, entries[0].ToStatus)
	s.Require().NotNil(entries[0].FromStatus)
	s.Equal(models.StatusSentToBranch, *entries[0].FromStatus)
}

func (s *DocumentStoreSuite) TestSupplementarySlots() {
	doc := s.newDocument(1101, models.StatusSentToBranch)
	s.Require().NoError(s.store.CreateDocument(s.ctx, doc))

	s.Run("missing slot returns ErrNotFound", func() {
		_, err := s.store.GetSupplementarySlot(s.ctx, doc.ID, 0)
		s.Require().ErrorIs(err, sentinel.ErrNotFound)
	})

	s.Run("save and list by slot index", func() {
		for _, idx := range []int{1, 0} {
			file := &models.SupplementaryFile{
				DocumentID:   doc.ID,
				SlotIndex:    idx,
				Name:         "attachment.pdf",
				Verification: models.VerificationUnset,
				UploadedAt:   time.Now(),
			}
			s.Require().NoError(s.store.SaveSupplementarySlot(s.ctx, file))
		}

		slots, err := s.store.ListSupplementarySlots(s.ctx, doc.ID)
		s.Require().NoError(err)
		s.Require().Len(slots, 2)
		s.Equal(0, slots[0].SlotIndex)
		s.Equal(1, slots[1].SlotIndex)
	})

	s.Run("save replaces existing slot", func() {
		file := &models.SupplementaryFile{
			DocumentID:   doc.ID,
			SlotIndex:    0,
			Name:         "replacement.pdf",
			Verification: models.VerificationUnset,
			UploadedAt:   time.Now(),
		}
		s.Require().NoError(s.store.SaveSupplementarySlot(s.ctx, file))

		got, err := s.store.GetSupplementarySlot(s.ctx, doc.ID, 0)
		s.Require().NoError(err)
		s.Equal("replacement.pdf", got.Name)
	})
}
