package handlers

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/GiovaTC/HEXA-IBM/apperr"
	"github.com/GiovaTC/HEXA-IBM/database"
	"github.com/GiovaTC/HEXA-IBM/models"
	"github.com/GiovaTC/HEXA-IBM/orchestrator"
)

type Processor interface {
	Process(ctx context.Context, req orchestrator.Request) (*models.Result, error)
}

type RecordReader interface {
	FindByID(ctx context.Context, id int64) (*models.TrigRecord, error)
	List(ctx context.Context, f database.Filter) ([]models.TrigRecord, error)
	Stats(ctx context.Context) ([]models.StatusCount, error)
}

type Handler struct {
	processor Processor
	records   RecordReader
	logger    *zap.Logger
}

func New(processor Processor, records RecordReader, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{processor: processor, records: records, logger: logger}
}

type CreateRecordRequest struct {
	HexInput      string `json:"hex_input"`
	Confirm       bool   `json:"confirm"`
	ConfirmerName string `json:"confirmer_name"`
	// Modulus overrides the deployment modulus for this record when set.
	Modulus int64 `json:"modulus"`
}

func (h *Handler) CreateRecord(c *gin.Context) {
	var request CreateRecordRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "code": apperr.KindInvalidInput})
		return
	}
	if request.Modulus < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Modulus must be positive", "code": apperr.KindInvalidInput})
		return
	}

	result, err := h.processor.Process(c.Request.Context(), orchestrator.Request{
		HexInput:      request.HexInput,
		Confirm:       request.Confirm,
		ConfirmerName: request.ConfirmerName,
		Modulus:       request.Modulus,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, result)
}

func (h *Handler) GetRecord(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid record id", "code": apperr.KindInvalidInput})
		return
	}

	record, err := h.records.FindByID(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, record)
}

func (h *Handler) ListRecords(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	minAngle, _ := strconv.ParseInt(c.DefaultQuery("min_angle", "0"), 10, 64)

	filter := database.Filter{
		Confirmer: c.Query("confirmer"),
		MinAngle:  minAngle,
		Limit:     limit,
	}
	if status := c.Query("status"); status != "" {
		filter.Status = models.ConfirmationStatus(strings.ToUpper(status))
		if !filter.Status.Valid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown confirmation status", "code": apperr.KindInvalidInput})
			return
		}
	}

	records, err := h.records.List(c.Request.Context(), filter)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, records)
}

func (h *Handler) GetStats(c *gin.Context) {
	counts, err := h.records.Stats(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}

	stats := gin.H{
		string(models.StatusPending):   int64(0),
		string(models.StatusConfirmed): int64(0),
		string(models.StatusRejected):  int64(0),
	}
	var total int64
	for _, sc := range counts {
		stats[string(sc.Status)] = sc.Total
		total += sc.Total
	}
	stats["total"] = total

	c.JSON(http.StatusOK, stats)
}

func (h *Handler) writeError(c *gin.Context, err error) {
	kind := apperr.KindOf(err)
	status := http.StatusInternalServerError
	switch kind {
	case apperr.KindInvalidInput:
		status = http.StatusBadRequest
	case apperr.KindNotFound:
		status = http.StatusNotFound
	case apperr.KindInvalidConfiguration:
		status = http.StatusServiceUnavailable
	}

	if status >= http.StatusInternalServerError {
		h.logger.Error("Request failed", zap.String("path", c.FullPath()), zap.Error(err))
	}
	c.JSON(status, gin.H{"error": err.Error(), "code": kind})
}
