package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/herdwise/internal/repository/badgerstore"
	"github.com/mamadbah2/herdwise/internal/service/state"
	"github.com/mamadbah2/herdwise/pkg/clients/advisor"
)

// StateHandler exposes the state layer over HTTP: action dispatch, snapshot
// reads and the advisory proxy.
type StateHandler struct {
	provider *state.Provider
	queue    *badgerstore.Store
	advisor  advisor.Client
	logger   *zap.Logger
}

// NewStateHandler constructs the HTTP handler adapter. advisorClient may be
// nil when no API key is configured.
func NewStateHandler(provider *state.Provider, queue *badgerstore.Store, advisorClient advisor.Client, logger *zap.Logger) *StateHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StateHandler{provider: provider, queue: queue, advisor: advisorClient, logger: logger}
}

// DispatchAction decodes an action envelope and applies it. The reducer
// itself never rejects anything, so validation stops at the envelope.
func (h *StateHandler) DispatchAction(c *gin.Context) {
	var env state.Envelope
	if err := c.ShouldBindJSON(&env); err != nil {
		h.logger.Warn("invalid action envelope", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	action, err := state.DecodeEnvelope(env, time.Now())
	if err != nil {
		if errors.Is(err, state.ErrUnknownActionKind) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown action type"})
			return
		}
		h.logger.Warn("undecodable action payload", zap.String("type", env.Type), zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	h.provider.Dispatch(action)
	c.JSON(http.StatusAccepted, gin.H{"status": "accepted"})
}

// GetState returns the full canonical snapshot.
func (h *StateHandler) GetState(c *gin.Context) {
	c.JSON(http.StatusOK, h.provider.Snapshot())
}

// GetStats returns only the derived aggregates.
func (h *StateHandler) GetStats(c *gin.Context) {
	c.JSON(http.StatusOK, h.provider.Stats())
}

// GetAnimals returns the animal collection.
func (h *StateHandler) GetAnimals(c *gin.Context) {
	c.JSON(http.StatusOK, h.provider.Snapshot().Animals)
}

// GetTransactions returns the transaction collection.
func (h *StateHandler) GetTransactions(c *gin.Context) {
	c.JSON(http.StatusOK, h.provider.Snapshot().Transactions)
}

// GetTasks returns the task collection.
func (h *StateHandler) GetTasks(c *gin.Context) {
	c.JSON(http.StatusOK, h.provider.Snapshot().Tasks)
}

// GetCamps returns the camp collection.
func (h *StateHandler) GetCamps(c *gin.Context) {
	c.JSON(http.StatusOK, h.provider.Snapshot().Camps)
}

// GetEvents returns the event collection.
func (h *StateHandler) GetEvents(c *gin.Context) {
	c.JSON(http.StatusOK, h.provider.Snapshot().Events)
}

// GetInventory returns the inventory collection.
func (h *StateHandler) GetInventory(c *gin.Context) {
	c.JSON(http.StatusOK, h.provider.Snapshot().Inventory)
}

// GetPendingOffline reports how many offline actions await replay.
func (h *StateHandler) GetPendingOffline(c *gin.Context) {
	actions, err := h.queue.PendingActions(c.Request.Context())
	if err != nil {
		h.logger.Error("offline queue read failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "queue unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"pending": len(actions)})
}

type adviceRequest struct {
	Question string `json:"question" binding:"required"`
}

// GetAdvice proxies a question plus a snapshot of animals, inventory and
// tasks to the advisory model.
func (h *StateHandler) GetAdvice(c *gin.Context) {
	if h.advisor == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "advisor not configured"})
		return
	}

	var req adviceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	snap := h.provider.Snapshot()
	advice, err := h.advisor.Advise(c.Request.Context(), req.Question, advisor.FarmSnapshot{
		Animals:   snap.Animals,
		Inventory: snap.Inventory,
		Tasks:     snap.Tasks,
	})
	if err != nil {
		h.logger.Error("advisory call failed", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "advisor unavailable"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"advice": advice})
}
