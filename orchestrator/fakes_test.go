package orchestrator

import (
	"context"
	"fmt"

	"gorm.io/datatypes"

	"github.com/GiovaTC/HEXA-IBM/apperr"
	"github.com/GiovaTC/HEXA-IBM/database"
	"github.com/GiovaTC/HEXA-IBM/models"
	"github.com/GiovaTC/HEXA-IBM/watson"
)

type finalizeCall struct {
	ID        int64
	Status    models.ConfirmationStatus
	Confirmer string
}

type fakeStore struct {
	opened   int
	released int
	nextID   int64

	insertErr   error
	updateErr   error
	finalizeErr error
	afterInsert func()

	inserted  []models.TrigRecord
	updates   map[int64]datatypes.JSON
	finalized []finalizeCall
	calls     []string
	// ctxErrs holds ctx.Err() as seen by each write after the insert.
	ctxErrs []error
}

func newFakeStore() *fakeStore {
	return &fakeStore{nextID: 100, updates: map[int64]datatypes.JSON{}}
}

func (s *fakeStore) Connection(ctx context.Context, fn func(database.RecordConn) error) error {
	s.opened++
	defer func() { s.released++ }()
	return fn(s)
}

func (s *fakeStore) Insert(ctx context.Context, rec *models.TrigRecord) (int64, error) {
	s.calls = append(s.calls, "insert")
	if s.insertErr != nil {
		return 0, s.insertErr
	}
	s.nextID++
	rec.ID = s.nextID
	s.inserted = append(s.inserted, *rec)
	if s.afterInsert != nil {
		s.afterInsert()
	}
	return rec.ID, nil
}

func (s *fakeStore) UpdateConfirmationPayload(ctx context.Context, id int64, payload datatypes.JSON) error {
	s.calls = append(s.calls, "update")
	s.ctxErrs = append(s.ctxErrs, ctx.Err())
	if s.updateErr != nil {
		return s.updateErr
	}
	s.updates[id] = payload
	return nil
}

func (s *fakeStore) Finalize(ctx context.Context, id int64, status models.ConfirmationStatus, confirmer string) (string, error) {
	s.calls = append(s.calls, "finalize")
	s.ctxErrs = append(s.ctxErrs, ctx.Err())
	s.finalized = append(s.finalized, finalizeCall{ID: id, Status: status, Confirmer: confirmer})
	if s.finalizeErr != nil {
		return "", s.finalizeErr
	}
	return fmt.Sprintf("Record %d marked %s by %s", id, status, confirmer), nil
}

type fakeConfirmer struct {
	reply       *watson.Reply
	err         error
	validateErr error
	summaries   []watson.Summary
	ctxErrs     []error
}

func (c *fakeConfirmer) Validate() error {
	return c.validateErr
}

func (c *fakeConfirmer) Confirm(ctx context.Context, summary watson.Summary) (*watson.Reply, error) {
	c.summaries = append(c.summaries, summary)
	c.ctxErrs = append(c.ctxErrs, ctx.Err())
	if c.err != nil {
		return nil, c.err
	}
	return c.reply, nil
}

func storageErr(op string) error {
	return apperr.New(apperr.KindStorage, op, "database unavailable")
}
