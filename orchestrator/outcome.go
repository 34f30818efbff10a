package orchestrator

import (
	"encoding/json"

	"gorm.io/datatypes"

	"github.com/GiovaTC/HEXA-IBM/models"
	"github.com/GiovaTC/HEXA-IBM/watson"
)

// Outcome is the confirmation decision handed to finalization. Exactly one
// of Confirmed, Rejected or Pending holds.
type Outcome struct {
	Status    models.ConfirmationStatus
	Confirmer string
	// Response is the payload written back to the record; nil when the
	// confirmation service was not called.
	Response datatypes.JSON
	// Reason explains a Pending outcome after a failed service call.
	Reason string
}

// Attempted reports whether the confirmation service was called, in which
// case Response must be written back before finalization.
func (o Outcome) Attempted() bool {
	return o.Response != nil
}

func skippedOutcome(confirmer string) Outcome {
	return Outcome{Status: models.StatusPending, Confirmer: confirmer}
}

// decidedOutcome treats any truthy reply as a confirmation and anything else
// as a rejection.
func decidedOutcome(reply *watson.Reply) Outcome {
	status := models.StatusRejected
	if reply.Truthy {
		status = models.StatusConfirmed
	}
	body := datatypes.JSON(reply.Body)
	if len(body) == 0 {
		body = datatypes.JSON("null")
	}
	return Outcome{
		Status:    status,
		Confirmer: models.ConfirmerWatson,
		Response:  body,
	}
}

func failedOutcome(err error) Outcome {
	body, _ := json.Marshal(map[string]string{"error": err.Error()})
	return Outcome{
		Status:    models.StatusPending,
		Confirmer: models.ConfirmerWatsonError,
		Response:  datatypes.JSON(body),
		Reason:    err.Error(),
	}
}
