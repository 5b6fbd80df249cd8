package payment

import (
	"errors"
	"net/http"

	"github.com/yashcdw/Crew-Car/internal/auth"
	"github.com/yashcdw/Crew-Car/internal/wallet"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	bridge *Bridge
}

func NewHandler(bridge *Bridge) *Handler {
	return &Handler{bridge: bridge}
}

// ListPackages godoc
// @Summary      List top-up packages
// @Description  Returns the fixed table of wallet top-up packages. No auth required.
// @Tags         wallet
// @Produce      json
// @Success      200  {object}  gin.H
// @Router       /wallet/packages [get]
func (h *Handler) ListPackages(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"packages": TopUpPackages()})
}

type TopUpRequest struct {
	PackageID string `json:"package_id" binding:"required"`
	OriginURL string `json:"origin_url" binding:"required,url"`
}

// StartTopUp godoc
// @Summary      Start wallet top-up
// @Description  Creates a hosted checkout session for a fixed package and returns its URL.
// @Tags         wallet
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request  body      TopUpRequest  true  "Package selection"
// @Success      200      {object}  TopUpSession
// @Failure      400      {object}  gin.H
// @Failure      401      {object}  gin.H
// @Failure      500      {object}  gin.H
// @Router       /wallet/topup [post]
func (h *Handler) StartTopUp(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	var req TopUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	session, err := h.bridge.StartTopUp(c.Request.Context(), userID, req.PackageID, req.OriginURL)
	if err != nil {
		switch {
		case errors.Is(err, ErrUnknownPackage):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid package"})
		case errors.Is(err, ErrPaymentUnavailable):
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Payment service not available"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to start top-up"})
		}
		return
	}

	c.JSON(http.StatusOK, session)
}

// TopUpStatus godoc
// @Summary      Reconcile top-up status
// @Description  Polls the checkout provider and applies the outcome to the wallet. Idempotent.
// @Tags         wallet
// @Security     BearerAuth
// @Produce      json
// @Param        sessionID  path      string  true  "Checkout session ID"
// @Success      200        {object}  ReconcileResult
// @Failure      401        {object}  gin.H
// @Failure      404        {object}  gin.H
// @Failure      500        {object}  gin.H
// @Router       /wallet/topup/{sessionID} [get]
func (h *Handler) TopUpStatus(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	sessionID := c.Param("sessionID")
	result, err := h.bridge.Reconcile(c.Request.Context(), sessionID, userID)
	if err != nil {
		switch {
		case errors.Is(err, wallet.ErrTransactionNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Transaction not found"})
		case errors.Is(err, ErrPaymentUnavailable):
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Payment service not available"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to reconcile top-up"})
		}
		return
	}

	c.JSON(http.StatusOK, result)
}
