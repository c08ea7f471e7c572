package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/voltdesk/voltdesk-backend/internal/auth"
	"github.com/voltdesk/voltdesk-backend/internal/models"
)

type CircuitStore interface {
	Insert(ctx context.Context, c *models.Circuit) error
	List(ctx context.Context, f models.CircuitFilter) ([]models.Circuit, error)
	Get(ctx context.Context, id primitive.ObjectID) (*models.Circuit, error)
	Update(ctx context.Context, c *models.Circuit) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// CircuitHandler stores sized circuits per user. Every save runs the engine
// again, so a stored result always matches its stored request.
type CircuitHandler struct {
	Store  CircuitStore
	Calc   *CalculatorHandler
	Logger *zap.Logger
}

func NewCircuitHandler(store CircuitStore, calc *CalculatorHandler, logger *zap.Logger) *CircuitHandler {
	return &CircuitHandler{Store: store, Calc: calc, Logger: logger}
}

type circuitBody struct {
	Name    string                  `json:"name"`
	Project string                  `json:"project"`
	Request models.CableSizeRequest `json:"request"`
}

func (b *circuitBody) bind(c *gin.Context) bool {
	if err := c.ShouldBindJSON(b); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "invalid request body: " + err.Error()})
		return false
	}
	b.Name = strings.TrimSpace(b.Name)
	if b.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "name: is required"})
		return false
	}
	return true
}

func (h *CircuitHandler) New(c *gin.Context) {
	var body circuitBody
	if !body.bind(c) {
		return
	}
	result, ok := h.Calc.run(c, body.Request)
	if !ok {
		return
	}

	circuit := models.Circuit{
		Name:    body.Name,
		Project: strings.TrimSpace(body.Project),
		Owner:   c.GetString(auth.UsernameKey),
		Request: body.Request,
		Result:  result,
	}
	if err := h.Store.Insert(c.Request.Context(), &circuit); err != nil {
		h.Logger.Error("insert circuit", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "failed to save circuit"})
		return
	}
	c.JSON(http.StatusCreated, circuit)
}

// Index lists the caller's circuits; admins see everyone's.
func (h *CircuitHandler) Index(c *gin.Context) {
	filter := models.CircuitFilter{Project: c.Query("project")}
	if c.GetString(auth.RoleKey) != models.RoleAdmin {
		filter.Owner = c.GetString(auth.UsernameKey)
	}

	circuits, err := h.Store.List(c.Request.Context(), filter)
	if err != nil {
		h.Logger.Error("list circuits", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "failed to list circuits"})
		return
	}
	c.JSON(http.StatusOK, circuits)
}

func (h *CircuitHandler) Edit(c *gin.Context) {
	circuit, ok := h.load(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, circuit)
}

func (h *CircuitHandler) Update(c *gin.Context) {
	circuit, ok := h.load(c)
	if !ok {
		return
	}
	var body circuitBody
	if !body.bind(c) {
		return
	}
	result, ok := h.Calc.run(c, body.Request)
	if !ok {
		return
	}

	circuit.Name = body.Name
	circuit.Project = strings.TrimSpace(body.Project)
	circuit.Request = body.Request
	circuit.Result = result
	if err := h.Store.Update(c.Request.Context(), circuit); err != nil {
		h.fail(c, "update circuit", err)
		return
	}
	c.JSON(http.StatusOK, circuit)
}

func (h *CircuitHandler) Delete(c *gin.Context) {
	circuit, ok := h.load(c)
	if !ok {
		return
	}
	if err := h.Store.Delete(c.Request.Context(), circuit.ID); err != nil {
		h.fail(c, "delete circuit", err)
		return
	}
	c.Status(http.StatusNoContent)
}

// load fetches the circuit named by the :id parameter. Circuits owned by
// someone else look missing unless the caller is an admin.
func (h *CircuitHandler) load(c *gin.Context) (*models.Circuit, bool) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "invalid id format"})
		return nil, false
	}

	circuit, err := h.Store.Get(c.Request.Context(), id)
	if err != nil {
		h.fail(c, "get circuit", err)
		return nil, false
	}
	if circuit.Owner != c.GetString(auth.UsernameKey) && c.GetString(auth.RoleKey) != models.RoleAdmin {
		c.JSON(http.StatusNotFound, gin.H{"detail": "circuit not found"})
		return nil, false
	}
	return circuit, true
}

func (h *CircuitHandler) fail(c *gin.Context, op string, err error) {
	if errors.Is(err, models.ErrCircuitNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"detail": "circuit not found"})
		return
	}
	h.Logger.Error(op, zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"detail": "circuit store error"})
}
