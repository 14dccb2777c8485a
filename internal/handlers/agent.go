package handlers

import (
	"net/http"

	"cluster_fan/internal/logger"
	"cluster_fan/internal/sensor"

	"github.com/gin-gonic/gin"
)

const (
	agentService    = "temperature-agent"
	unitCelsius     = "celsius"
	errReadSensor   = "Failed to read temperature"
	agentTempPath   = "/api/temperature"
	agentHealthPath = "/api/health"
)

// AgentHandler serves the local temperature of one node.
type AgentHandler struct {
	reader sensor.Reader
	log    *logger.Logger
}

func NewAgentHandler(reader sensor.Reader, log *logger.Logger) *AgentHandler {
	return &AgentHandler{reader: reader, log: log}
}

// InitRoutes builds the agent router.
func (h *AgentHandler) InitRoutes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET(agentTempPath, h.temperature)
	router.GET(agentHealthPath, h.health)

	return router
}

// @Summary      Node temperature
// @Tags         agent
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "success, temperature, unit, source"
// @Failure      500  {object}  map[string]interface{}  "success, error, source"
// @Router       /api/temperature [get]
func (h *AgentHandler) temperature(c *gin.Context) {
	celsius, err := h.reader.ReadCelsius(c.Request.Context())
	if err != nil {
		if h.log != nil {
			h.log.Errorw("sensor_read_failed", "err", err, "source", h.reader.Source())
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   errReadSensor,
			"source":  h.reader.Source(),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"temperature": celsius,
		"unit":        unitCelsius,
		"source":      h.reader.Source(),
	})
}

// @Summary      Agent health
// @Tags         agent
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Router       /api/health [get]
func (h *AgentHandler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success":          true,
		"status":           statusHealthy,
		"service":          agentService,
		"source":           h.reader.Source(),
		"sensor_available": h.reader.Available(),
	})
}
