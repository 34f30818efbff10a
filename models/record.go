package models

import (
	"time"

	"gorm.io/datatypes"

	"github.com/GiovaTC/HEXA-IBM/trig"
)

type ConfirmationStatus string

const (
	StatusPending   ConfirmationStatus = "PENDING"
	StatusConfirmed ConfirmationStatus = "CONFIRMED"
	StatusRejected  ConfirmationStatus = "REJECTED"
)

// Valid reports whether s is one of the three known statuses.
func (s ConfirmationStatus) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusRejected:
		return true
	}
	return false
}

// Confirmer identifiers written by the system itself.
const (
	ConfirmerSystem      = "SYSTEM"
	ConfirmerWatson      = "IBM_WATSON"
	ConfirmerWatsonError = "WATSON_ERROR"
)

type TrigRecord struct {
	ID                 int64              `json:"id" gorm:"primaryKey;autoIncrement"`
	HexInput           string             `json:"hex_input" gorm:"type:text;not null"`
	IntValue           BigInt             `json:"int_value" gorm:"type:text;not null"`
	Modulus            int64              `json:"modulus" gorm:"not null"`
	AngleDeg           int64              `json:"angle_deg" gorm:"not null"`
	AngleRad           float64            `json:"angle_rad" gorm:"not null"`
	Sin                float64            `json:"sin" gorm:"not null"`
	Cos                float64            `json:"cos" gorm:"not null"`
	Tan                trig.Tangent       `json:"tan" gorm:"type:double precision"`
	WatsonResponse     datatypes.JSON     `json:"watson_response"`
	ConfirmationStatus ConfirmationStatus `json:"confirmation_status" gorm:"type:varchar(16);not null;default:'PENDING';index"`
	ConfirmerName      string             `json:"confirmer_name" gorm:"type:varchar(128);not null"`
	CreatedAt          time.Time          `json:"created_at"`
	ConfirmedAt        *time.Time         `json:"confirmed_at"`
}

func (TrigRecord) TableName() string {
	return "trig_records"
}

// Result is what one orchestrated call hands back to its caller.
type Result struct {
	ID             int64              `json:"id"`
	HexInput       string             `json:"hex_input"`
	IntValue       BigInt             `json:"int_value"`
	Modulus        int64              `json:"modulus"`
	AngleDeg       int64              `json:"angle_deg"`
	AngleRad       float64            `json:"angle_rad"`
	Sin            float64            `json:"sin"`
	Cos            float64            `json:"cos"`
	Tan            trig.Tangent       `json:"tan"`
	WatsonResponse datatypes.JSON     `json:"watson_response"`
	Message        string             `json:"message"`
	Status         ConfirmationStatus `json:"confirmation_status"`
	Confirmer      string             `json:"confirmer_name"`
}

type StatusCount struct {
	Status ConfirmationStatus `json:"status"`
	Total  int64              `json:"total"`
}
