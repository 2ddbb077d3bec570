package handler

import (
	"errors"
	"net/http"

	"prediction-terminal/internal/contract"
	"prediction-terminal/internal/domain"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// statusFor maps service errors onto HTTP statuses.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrUnknownSymbol),
		errors.Is(err, domain.ErrInvalidOrder):
		return http.StatusBadRequest
	case errors.Is(err, contract.ErrNotConfigured),
		errors.Is(err, contract.ErrNoSigner),
		errors.Is(err, domain.ErrPriceUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusBadGateway
	}
}

func (h *Handler) fail(c *gin.Context, msg string, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		h.logger.Warn(msg, zap.Error(err), zap.String("path", c.FullPath()))
	}
	c.JSON(status, gin.H{"error": msg + ": " + err.Error()})
}

// addressParam parses the :address path segment, answering 400 on failure.
func addressParam(c *gin.Context) (common.Address, bool) {
	addr, err := contract.ParseAddress(c.Param("address"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return common.Address{}, false
	}
	return addr, true
}

// GetAccountHealth godoc
// @Summary      Get collateral health for an account
// @Description  Reads buying power, debt, share value and health factor from the prediction terminal and derives usage and remaining buying power.
// @Tags         accounts
// @Produce      json
// @Param        address  path  string  true  "Account address (0x-prefixed hex)"
// @Success      200  {object}  service.AccountHealth
// @Failure      400  {object}  map[string]string
// @Failure      502  {object}  map[string]string
// @Failure      503  {object}  map[string]string
// @Router       /api/accounts/{address}/health [get]
func (h *Handler) GetAccountHealth(c *gin.Context) {
	if h.accounts == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "account service unavailable"})
		return
	}

	ctx, span := h.tracer.Start(c.Request.Context(), "handler.get-account-health")
	defer span.End()

	user, ok := addressParam(c)
	if !ok {
		return
	}
	span.SetAttributes(attribute.String("user", user.Hex()))

	report, err := h.accounts.Health(ctx, user)
	if err != nil {
		span.RecordError(err)
		h.fail(c, "failed to read account", err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// GetPositions godoc
// @Summary      Get leveraged positions for an account
// @Description  Returns one row per configured symbol with P&L against live prices. Rows carry price_available=false when no price could be resolved.
// @Tags         accounts
// @Produce      json
// @Param        address  path  string  true  "Account address (0x-prefixed hex)"
// @Success      200  {object}  service.PositionsReport
// @Failure      400  {object}  map[string]string
// @Failure      502  {object}  map[string]string
// @Failure      503  {object}  map[string]string
// @Router       /api/accounts/{address}/positions [get]
func (h *Handler) GetPositions(c *gin.Context) {
	if h.accounts == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "account service unavailable"})
		return
	}

	ctx, span := h.tracer.Start(c.Request.Context(), "handler.get-positions")
	defer span.End()

	user, ok := addressParam(c)
	if !ok {
		return
	}
	span.SetAttributes(attribute.String("user", user.Hex()))

	report, err := h.accounts.Positions(ctx, user)
	if err != nil {
		span.RecordError(err)
		h.fail(c, "failed to read positions", err)
		return
	}
	c.JSON(http.StatusOK, report)
}
