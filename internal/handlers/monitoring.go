package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const (
	statusHealthy      = "healthy"
	coordinatorService = "fan-coordinator"
)

// Centralized error logging and response.
func (h *Handler) logAndJSONError(c *gin.Context, httpCode int, userMsg, logKey string, err error, kv ...interface{}) {
	if h.log != nil && err != nil {
		fields := append([]interface{}{"err", err}, kv...)
		h.log.Errorw(logKey, fields...)
	}
	c.JSON(httpCode, gin.H{"success": false, "error": userMsg})
}

// @Summary      Health check
// @Description  Liveness plus the age of the last completed poll cycle.
// @Tags         system
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Router       /api/health [get]
func (h *Handler) health(c *gin.Context) {
	snap := h.services.Monitoring.Snapshot()
	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"status":     statusHealthy,
		"service":    coordinatorService,
		"last_cycle": snap.CompletedAt,
		"nodes":      len(h.services.Monitoring.Nodes()),
	})
}

// @Summary      Latest snapshot
// @Description  Readings, control signal and fan state of the last completed cycle.
// @Tags         monitoring
// @Produce      json
// @Success      200  {object}  models.Snapshot
// @Router       /api/snapshot [get]
func (h *Handler) getSnapshot(c *gin.Context) {
	c.JSON(http.StatusOK, h.services.Monitoring.Snapshot())
}

// @Summary      Configured nodes
// @Tags         nodes
// @Produce      json
// @Success      200  {array}  models.Node
// @Router       /api/nodes [get]
func (h *Handler) getNodes(c *gin.Context) {
	c.JSON(http.StatusOK, h.services.Monitoring.Nodes())
}

// @Summary      Current node temperatures
// @Description  Readings from the last cycle keyed by node name. Failed nodes carry a failure kind instead of a temperature.
// @Tags         nodes
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "success, temperatures"
// @Router       /api/nodes/temperatures [get]
func (h *Handler) getTemperatures(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"temperatures": h.services.Monitoring.Temperatures(),
	})
}

// @Summary      Fan configuration
// @Tags         fan
// @Produce      json
// @Success      200  {object}  models.FanConfig
// @Router       /api/fan/config [get]
func (h *Handler) getFanConfig(c *gin.Context) {
	c.JSON(http.StatusOK, h.services.Monitoring.FanConfig())
}

// @Summary      Fan status
// @Description  Applied duty cycle, controller mode and the control signal that produced it.
// @Tags         fan
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "success, fan_speed, state, control"
// @Router       /api/fan/status [get]
func (h *Handler) getFanStatus(c *gin.Context) {
	st := h.services.Monitoring.FanStatus()
	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"fan_speed": st.State.DutyCycle,
		"state":     st.State,
		"control":   st.Control,
	})
}
