package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/voltdesk/voltdesk-backend/internal/calculator"
	"github.com/voltdesk/voltdesk-backend/internal/logging"
	"github.com/voltdesk/voltdesk-backend/internal/metrics"
	"github.com/voltdesk/voltdesk-backend/internal/models"
)

// CalculatorHandler serves the cable calculator page. Errors are reported as
// {"detail": ...}, which is what the page renders.
type CalculatorHandler struct {
	Logger  *zap.Logger
	Metrics *metrics.Metrics
}

func NewCalculatorHandler(logger *zap.Logger, m *metrics.Metrics) *CalculatorHandler {
	return &CalculatorHandler{Logger: logger, Metrics: m}
}

func (h *CalculatorHandler) CalculateCableSize(c *gin.Context) {
	var request models.CableSizeRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		h.Metrics.ObserveCalculation(metrics.OutcomeValidationError, 0, 0)
		c.JSON(http.StatusBadRequest, gin.H{"detail": "invalid request body: " + err.Error()})
		return
	}

	result, ok := h.run(c, request)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *CalculatorHandler) CableSizeOptions(c *gin.Context) {
	c.JSON(http.StatusOK, calculator.Options())
}

// run calculates request and records the outcome. On failure it writes the
// error response and returns false.
func (h *CalculatorHandler) run(c *gin.Context, request models.CableSizeRequest) (models.CableSizeResult, bool) {
	start := time.Now()
	result, err := calculator.Calculate(request)
	elapsed := time.Since(start)
	log := logging.FromContext(c, h.Logger)

	var verr *calculator.ValidationError
	var cerr *calculator.ConfigurationError
	switch {
	case errors.As(err, &verr):
		h.Metrics.ObserveCalculation(metrics.OutcomeValidationError, 0, elapsed)
		log.Info("cable size rejected", zap.String("field", verr.Field), zap.String("reason", verr.Message))
		c.JSON(http.StatusBadRequest, gin.H{"detail": verr.Error()})
		return result, false
	case errors.As(err, &cerr):
		h.Metrics.ObserveCalculation(metrics.OutcomeConfigurationError, 0, elapsed)
		log.Error("cable size reference data", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "reference data unavailable: " + cerr.Key})
		return result, false
	case err != nil:
		h.Metrics.ObserveCalculation(metrics.OutcomeConfigurationError, 0, elapsed)
		log.Error("cable size", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "internal error"})
		return result, false
	}

	if result.FinalSelection == nil {
		h.Metrics.ObserveCalculation(metrics.OutcomeNoSelection, 0, elapsed)
	} else {
		h.Metrics.ObserveCalculation(metrics.OutcomeSelected, result.FinalSelection.SizeMM2, elapsed)
	}
	log.Debug("cable size calculated",
		zap.Float64("load_current_a", result.DerivedValues.LoadCurrentA),
		zap.Bool("selected", result.FinalSelection != nil))
	return result, true
}
