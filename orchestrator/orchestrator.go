// Package orchestrator runs one hex input through decoding, persistence,
// optional external confirmation and finalization.
package orchestrator

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/GiovaTC/HEXA-IBM/apperr"
	"github.com/GiovaTC/HEXA-IBM/database"
	"github.com/GiovaTC/HEXA-IBM/models"
	"github.com/GiovaTC/HEXA-IBM/trig"
	"github.com/GiovaTC/HEXA-IBM/watson"
)

// RecordStore lends one connection per call. *database.Store implements it.
type RecordStore interface {
	Connection(ctx context.Context, fn func(database.RecordConn) error) error
}

// Confirmer is the external confirmation service. *watson.Client implements it.
type Confirmer interface {
	Validate() error
	Confirm(ctx context.Context, summary watson.Summary) (*watson.Reply, error)
}

type Config struct {
	// Modulus folds decoded values into [0, Modulus). Zero means trig.DefaultModulus.
	Modulus int64
}

type Request struct {
	HexInput string
	// Confirm asks the external service to confirm the record.
	Confirm bool
	// ConfirmerName replaces SYSTEM as the confirmer when confirmation is skipped.
	ConfirmerName string
	// Modulus overrides the configured modulus for this call when non-zero.
	Modulus int64
}

// Orchestrator holds no per-call state and is safe for concurrent use.
type Orchestrator struct {
	store     RecordStore
	confirmer Confirmer
	modulus   int64
	logger    *zap.Logger
}

// New builds an Orchestrator. confirmer may be nil, in which case every
// request asking for confirmation fails with KindInvalidConfiguration.
func New(cfg Config, store RecordStore, confirmer Confirmer, logger *zap.Logger) (*Orchestrator, error) {
	if store == nil {
		return nil, apperr.New(apperr.KindInvalidConfiguration, "new orchestrator", "record store required")
	}
	modulus := cfg.Modulus
	if modulus == 0 {
		modulus = trig.DefaultModulus
	}
	if modulus < 0 {
		return nil, apperr.Newf(apperr.KindInvalidConfiguration, "new orchestrator", "modulus must be positive, got %d", modulus)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Orchestrator{store: store, confirmer: confirmer, modulus: modulus, logger: logger}, nil
}

// Process decodes req.HexInput, persists the record and finalizes it.
//
// Errors before insertion (invalid input or configuration) are returned
// before any connection is opened. Once the record is inserted a failed
// confirmation call or write-back only degrades the outcome; a failed
// finalization is returned without a result.
func (o *Orchestrator) Process(ctx context.Context, req Request) (*models.Result, error) {
	logger := o.logger.With(zap.String("invocation_id", uuid.NewString()))

	rec, err := o.prepare(req)
	if err != nil {
		logger.Info("Rejected input", zap.String("hex_input", req.HexInput), zap.Error(err))
		return nil, err
	}
	if req.Confirm {
		if o.confirmer == nil {
			return nil, apperr.New(apperr.KindInvalidConfiguration, "process", "confirmation requested but no confirmation service configured")
		}
		if err := o.confirmer.Validate(); err != nil {
			return nil, err
		}
	}

	var result *models.Result
	err = o.store.Connection(ctx, func(conn database.RecordConn) error {
		id, err := conn.Insert(ctx, rec)
		if err != nil {
			return err
		}
		logger := logger.With(zap.Int64("record_id", id))

		// An inserted record must reach finalization even if the caller goes
		// away; the confirmation call stays bounded by the client timeout.
		ctx := context.WithoutCancel(ctx)

		outcome := o.confirm(ctx, conn, rec, req, logger)
		rec.WatsonResponse = outcome.Response

		msg, err := conn.Finalize(ctx, id, outcome.Status, outcome.Confirmer)
		if err != nil {
			logger.Error("Finalization failed", zap.Error(err))
			return err
		}
		rec.ConfirmationStatus = outcome.Status
		rec.ConfirmerName = outcome.Confirmer

		fields := []zap.Field{
			zap.String("status", string(outcome.Status)),
			zap.String("confirmer", outcome.Confirmer),
		}
		if outcome.Reason != "" {
			fields = append(fields, zap.String("reason", outcome.Reason))
		}
		logger.Info("Record finalized", fields...)
		result = newResult(rec, msg)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// prepare runs the pure steps and builds the row to insert.
func (o *Orchestrator) prepare(req Request) (*models.TrigRecord, error) {
	modulus := o.modulus
	if req.Modulus != 0 {
		modulus = req.Modulus
	}

	value, err := trig.DecodeHex(req.HexInput)
	if err != nil {
		return nil, err
	}
	angle, err := trig.MapAngle(value, modulus)
	if err != nil {
		return nil, err
	}
	vals := trig.Compute(angle)

	return &models.TrigRecord{
		HexInput:           req.HexInput,
		IntValue:           models.NewBigInt(value),
		Modulus:            modulus,
		AngleDeg:           vals.AngleDeg,
		AngleRad:           vals.AngleRad,
		Sin:                vals.Sin,
		Cos:                vals.Cos,
		Tan:                vals.Tan,
		ConfirmationStatus: models.StatusPending,
		ConfirmerName:      defaultConfirmer(req.ConfirmerName),
	}, nil
}

// confirm decides the outcome for an inserted record. It never fails: service
// errors become a Pending outcome and a failed write-back is only logged.
func (o *Orchestrator) confirm(ctx context.Context, conn database.RecordConn, rec *models.TrigRecord, req Request, logger *zap.Logger) Outcome {
	var outcome Outcome
	if !req.Confirm {
		outcome = skippedOutcome(rec.ConfirmerName)
	} else {
		reply, err := o.confirmer.Confirm(ctx, watson.Summary{
			RecordID: rec.ID,
			HexInput: rec.HexInput,
			Sin:      rec.Sin,
			Cos:      rec.Cos,
		})
		if err != nil {
			logger.Warn("Confirmation service failed", zap.Error(err))
			outcome = failedOutcome(err)
		} else {
			outcome = decidedOutcome(reply)
		}
	}

	if !outcome.Attempted() {
		return outcome
	}
	if err := conn.UpdateConfirmationPayload(ctx, rec.ID, outcome.Response); err != nil {
		logger.Warn("Confirmation write-back failed", zap.Error(err))
	}
	return outcome
}

func defaultConfirmer(name string) string {
	if name = strings.TrimSpace(name); name != "" {
		return name
	}
	return models.ConfirmerSystem
}

func newResult(rec *models.TrigRecord, msg string) *models.Result {
	return &models.Result{
		ID:             rec.ID,
		HexInput:       rec.HexInput,
		IntValue:       rec.IntValue,
		Modulus:        rec.Modulus,
		AngleDeg:       rec.AngleDeg,
		AngleRad:       rec.AngleRad,
		Sin:            rec.Sin,
		Cos:            rec.Cos,
		Tan:            rec.Tan,
		WatsonResponse: rec.WatsonResponse,
		Message:        msg,
		Status:         rec.ConfirmationStatus,
		Confirmer:      rec.ConfirmerName,
	}
}
