package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Health godoc
// @Summary      Health check
// @Description  Returns the health status of the service, which optional subsystems are wired and the keeper's sweep totals
// @Tags         health
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Router       /health [get]
func (h *Handler) Health(c *gin.Context) {
	resp := gin.H{
		"status":   "healthy",
		"symbols":  h.symbols.Symbols(),
		"accounts": h.accounts != nil,
		"keeper":   h.keeper != nil,
		"trading":  h.trader != nil,
		"stream":   h.stream != nil,
	}
	if h.keeper != nil {
		resp["keeper_watched"] = len(h.keeper.Watched())
	}
	if h.sweeps != nil {
		resp["keeper_total"] = h.sweeps.Total()
		resp["keeper_last_error"] = h.sweeps.LastError()
	}
	c.JSON(http.StatusOK, resp)
}
