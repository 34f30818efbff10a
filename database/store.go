package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/GiovaTC/HEXA-IBM/apperr"
	"github.com/GiovaTC/HEXA-IBM/config"
	"github.com/GiovaTC/HEXA-IBM/models"
)

// RecordConn is the set of writes available on one pinned connection.
type RecordConn interface {
	// Insert persists rec in its own committed transaction and returns the new id.
	Insert(ctx context.Context, rec *models.TrigRecord) (int64, error)
	// UpdateConfirmationPayload sets only the watson_response column.
	UpdateConfirmationPayload(ctx context.Context, id int64, payload datatypes.JSON) error
	// Finalize runs the confirmation routine and returns its acknowledgement.
	Finalize(ctx context.Context, id int64, status models.ConfirmationStatus, confirmer string) (string, error)
}

// Connection pins one pooled connection for the duration of fn and releases
// it on every exit path.
func (s *Store) Connection(ctx context.Context, fn func(RecordConn) error) error {
	var fnErr error
	err := s.db.WithContext(ctx).Connection(func(tx *gorm.DB) error {
		fnErr = fn(&conn{db: tx, procedure: s.procedure})
		return fnErr
	})
	if err != nil && fnErr == nil {
		// acquiring the connection failed before fn ran
		return storageError("acquire connection", err)
	}
	return err
}

type conn struct {
	db        *gorm.DB
	procedure string
}

func (c *conn) Insert(ctx context.Context, rec *models.TrigRecord) (int64, error) {
	if rec.ConfirmationStatus == "" {
		rec.ConfirmationStatus = models.StatusPending
	}
	err := c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(rec).Error
	})
	if err != nil {
		return 0, storageError("insert record", err)
	}
	return rec.ID, nil
}

func (c *conn) UpdateConfirmationPayload(ctx context.Context, id int64, payload datatypes.JSON) error {
	const op = "update confirmation payload"
	res := c.db.WithContext(ctx).
		Model(&models.TrigRecord{}).
		Where("id = ?", id).
		Update("watson_response", payload)
	if res.Error != nil {
		return storageError(op, res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.Newf(apperr.KindStorage, op, "record %d not found", id)
	}
	return nil
}

func (c *conn) Finalize(ctx context.Context, id int64, status models.ConfirmationStatus, confirmer string) (string, error) {
	const op = "finalize record"

	if c.db.Dialector.Name() == config.DriverPostgres {
		var msg string
		err := c.db.WithContext(ctx).
			Raw(procedureCall(c.procedure), id, string(status), confirmer).
			Scan(&msg).Error
		if err != nil {
			return "", storageError(op, err)
		}
		return msg, nil
	}

	// sqlite has no stored routines; run the same contract in one transaction.
	if !status.Valid() {
		return "", apperr.Newf(apperr.KindStorage, op, "invalid confirmation status %q", status)
	}
	now := time.Now().UTC()
	err := c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.TrigRecord{}).
			Where("id = ?", id).
			Updates(map[string]any{
				"confirmation_status": string(status),
				"confirmer_name":      confirmer,
				"confirmed_at":        now,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("record %d not found", id)
		}
		return nil
	})
	if err != nil {
		return "", storageError(op, err)
	}
	return confirmationMessage(id, string(status), confirmer), nil
}

// FindByID loads one record.
func (s *Store) FindByID(ctx context.Context, id int64) (*models.TrigRecord, error) {
	const op = "find record"
	var rec models.TrigRecord
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.Newf(apperr.KindNotFound, op, "record %d not found", id)
		}
		return nil, storageError(op, err)
	}
	return &rec, nil
}

// Filter narrows List. Zero fields are ignored.
type Filter struct {
	Status    models.ConfirmationStatus
	Confirmer string
	MinAngle  int64
	Limit     int
}

const (
	defaultListLimit = 50
	maxListLimit     = 500
)

// List returns the newest records matching f.
func (s *Store) List(ctx context.Context, f Filter) ([]models.TrigRecord, error) {
	query := s.db.WithContext(ctx).Model(&models.TrigRecord{})

	if f.Status != "" {
		query = query.Where("confirmation_status = ?", string(f.Status))
	}
	if f.Confirmer != "" {
		query = query.Where("confirmer_name = ?", f.Confirmer)
	}
	if f.MinAngle > 0 {
		query = query.Where("angle_deg >= ?", f.MinAngle)
	}

	limit := f.Limit
	if limit <= 0 {
		limit = defaultListLimit
	} else if limit > maxListLimit {
		limit = maxListLimit
	}

	var records []models.TrigRecord
	if err := query.Order("id DESC").Limit(limit).Find(&records).Error; err != nil {
		return nil, storageError("list records", err)
	}
	return records, nil
}

// Stats counts records per confirmation status.
func (s *Store) Stats(ctx context.Context) ([]models.StatusCount, error) {
	var counts []models.StatusCount
	err := s.db.WithContext(ctx).
		Model(&models.TrigRecord{}).
		Select("confirmation_status AS status, COUNT(*) AS total").
		Group("confirmation_status").
		Order("confirmation_status").
		Scan(&counts).Error
	if err != nil {
		return nil, storageError("record stats", err)
	}
	return counts, nil
}
