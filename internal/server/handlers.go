package server

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/KryptoniteDAO/swap-extention-old/internal/chain"
	"github.com/KryptoniteDAO/swap-extention-old/internal/storage"
	"github.com/KryptoniteDAO/swap-extention-old/internal/wallet"
)

// Handlers contains all dependencies for API endpoint handlers
type Handlers struct {
	Chain   *chain.App        // Contract host
	Cache   storage.SwapCache // Redis-backed swap data cache (optional)
	DevMode bool              // Enable detailed error responses in development
	Logger  *logrus.Logger    // Structured logger
}

// err returns a standardized JSON error response
// In dev mode, includes additional error details for debugging
func (h *Handlers) err(c echo.Context, code int, msg string, details any) error {
	resp := ErrorResponse{Error: msg, Code: code}
	if h.DevMode && details != nil {
		resp.Details = details
	}
	return c.JSON(code, resp)
}

// withTimeout creates a context with timeout, defaulting to 10 seconds if duration <= 0
func (h *Handlers) withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		d = 10 * time.Second
	}
	return context.WithTimeout(ctx, d)
}

func (h *Handlers) logger() *logrus.Logger {
	if h.Logger != nil {
		return h.Logger
	}
	return logrus.StandardLogger()
}

// txFailed maps a rolled back transaction to a 400 carrying the cause
func (h *Handlers) txFailed(c echo.Context, err error) error {
	var details any
	var te *chain.TxError
	if errors.As(err, &te) {
		details = map[string]any{"tx_id": te.TxID, "contract": te.Contract}
	}
	return h.err(c, http.StatusBadRequest, chain.Cause(err).Error(), details)
}

// Health reports the chain id and current height
func (h *Handlers) Health(c echo.Context) error {
	height, err := h.Chain.Height(c.Request().Context())
	if err != nil {
		return h.err(c, http.StatusServiceUnavailable, "store unavailable", map[string]any{"err": err.Error()})
	}
	return c.JSON(http.StatusOK, HealthResponse{OK: true, ChainID: h.Chain.ChainID(), Height: height})
}

// authenticate checks the request signature against the claimed sender
func (h *Handlers) authenticate(addr string, req ExecuteRequest) error {
	if req.Signature == "" {
		return errors.New("signature is required")
	}
	return wallet.VerifyDoc(wallet.SignDoc{
		ChainID:  h.Chain.ChainID(),
		Contract: addr,
		Sender:   req.Sender,
		Nonce:    req.Nonce,
		Msg:      req.Msg,
		Funds:    req.Funds,
	}, req.Signature)
}

// Execute runs a signed contract message as one atomic transaction
// Returns 401 unless the sender signed the request, 404 if the target contract does not exist
func (h *Handlers) Execute(c echo.Context) error {
	addr := c.Param("addr")

	var req ExecuteRequest
	if err := c.Bind(&req); err != nil {
		return h.err(c, http.StatusBadRequest, "invalid json", nil)
	}
	req.Sender = strings.TrimSpace(req.Sender)
	if req.Sender == "" {
		return h.err(c, http.StatusBadRequest, "sender is required", map[string]any{"sender": "required"})
	}
	if len(req.Msg) == 0 {
		return h.err(c, http.StatusBadRequest, "msg is required", map[string]any{"msg": "required"})
	}

	if err := h.authenticate(addr, req); err != nil {
		h.logger().WithFields(logrus.Fields{
			"sender":   req.Sender,
			"contract": addr,
		}).WithError(err).Warn("Rejected unsigned execute")
		return h.err(c, http.StatusUnauthorized, "invalid signature", map[string]any{"signature": err.Error()})
	}

	ctx, cancel := h.withTimeout(c.Request().Context(), 15*time.Second)
	defer cancel()

	if _, err := h.Chain.ContractInfo(ctx, addr); err != nil {
		if chain.IsNotFound(err) {
			return h.err(c, http.StatusNotFound, "contract not found", map[string]any{"addr": addr})
		}
		return h.err(c, http.StatusInternalServerError, "failed to load contract", nil)
	}

	res, err := h.Chain.ExecuteSigned(ctx, req.Sender, req.Nonce, addr, req.Msg, req.Funds)
	if errors.Is(err, chain.ErrInvalidNonce) {
		return h.err(c, http.StatusConflict, "invalid nonce", map[string]any{"nonce": err.Error()})
	}
	if err != nil {
		return h.txFailed(c, err)
	}
	return c.JSON(http.StatusOK, ExecuteResponse{TxID: res.TxID, Height: res.Height, Events: res.Events, Data: res.Data})
}

// Query runs a read-only contract query and returns the contract's JSON as-is
func (h *Handlers) Query(c echo.Context) error {
	addr := c.Param("addr")

	var req QueryRequest
	if err := c.Bind(&req); err != nil {
		return h.err(c, http.StatusBadRequest, "invalid json", nil)
	}
	if len(req.Msg) == 0 {
		return h.err(c, http.StatusBadRequest, "msg is required", map[string]any{"msg": "required"})
	}

	ctx, cancel := h.withTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	out, err := h.Chain.Query(ctx, addr, req.Msg)
	if err != nil {
		if _, infoErr := h.Chain.ContractInfo(ctx, addr); chain.IsNotFound(infoErr) {
			return h.err(c, http.StatusNotFound, "contract not found", map[string]any{"addr": addr})
		}
		return h.err(c, http.StatusBadRequest, err.Error(), nil)
	}
	return c.JSONBlob(http.StatusOK, out)
}

// Balance returns one denom balance of an account
func (h *Handlers) Balance(c echo.Context) error {
	addr := c.Param("addr")
	denom := c.Param("denom")
	if err := h.Chain.API().AddrValidate(addr); err != nil {
		return h.err(c, http.StatusBadRequest, "invalid address", map[string]any{"addr": err.Error()})
	}
	if strings.TrimSpace(denom) == "" {
		return h.err(c, http.StatusBadRequest, "invalid denom", nil)
	}

	ctx, cancel := h.withTimeout(c.Request().Context(), 3*time.Second)
	defer cancel()

	coin, err := h.Chain.Balance(ctx, addr, denom)
	if err != nil {
		return h.err(c, http.StatusInternalServerError, "failed to get balance", nil)
	}
	return c.JSON(http.StatusOK, BalanceResponse{Address: addr, Balance: coin})
}

// Sequence returns the nonce the account's next execute must carry
func (h *Handlers) Sequence(c echo.Context) error {
	addr := c.Param("addr")
	if err := h.Chain.API().AddrValidate(addr); err != nil {
		return h.err(c, http.StatusBadRequest, "invalid address", map[string]any{"addr": err.Error()})
	}

	ctx, cancel := h.withTimeout(c.Request().Context(), 3*time.Second)
	defer cancel()

	seq, err := h.Chain.Sequence(ctx, addr)
	if err != nil {
		return h.err(c, http.StatusInternalServerError, "failed to get sequence", nil)
	}
	return c.JSON(http.StatusOK, SequenceResponse{Address: addr, Sequence: seq})
}

// MintDisabled answers the mint route when no admin key is configured
func (h *Handlers) MintDisabled(c echo.Context) error {
	return h.err(c, http.StatusForbidden, "mint is disabled", nil)
}

// Mint credits coins to an account; routed only behind the admin key
func (h *Handlers) Mint(c echo.Context) error {
	var req MintRequest
	if err := c.Bind(&req); err != nil {
		return h.err(c, http.StatusBadRequest, "invalid json", nil)
	}
	if len(req.Coins) == 0 {
		return h.err(c, http.StatusBadRequest, "coins are required", map[string]any{"coins": "required"})
	}

	ctx, cancel := h.withTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	res, err := h.Chain.Mint(ctx, req.Address, req.Coins)
	if err != nil {
		return h.txFailed(c, err)
	}
	h.logger().WithFields(logrus.Fields{
		"address": req.Address,
		"coins":   req.Coins.String(),
	}).Info("Minted coins")
	return c.JSON(http.StatusOK, ExecuteResponse{TxID: res.TxID, Height: res.Height, Events: res.Events})
}

// RecentSwaps returns the most recent swap events with optional limit parameter
// Accepts limit query parameter (default: 100, range: 1-200)
func (h *Handlers) RecentSwaps(c echo.Context) error {
	if h.Cache == nil {
		return h.err(c, http.StatusServiceUnavailable, "swap cache is not configured", nil)
	}

	limitStr := c.QueryParam("limit")
	limit := 100
	if limitStr != "" {
		n, err := strconv.Atoi(limitStr)
		if err != nil {
			return h.err(c, http.StatusBadRequest, "invalid limit", map[string]any{"limit": "must be an integer"})
		}
		limit = n
	}
	if limit < 1 || limit > 200 {
		return h.err(c, http.StatusBadRequest, "invalid limit", map[string]any{"limit": "min 1 max 200"})
	}

	ctx, cancel := h.withTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	items, err := h.Cache.GetRecentSwaps(ctx, int64(limit))
	if err != nil {
		return h.err(c, http.StatusInternalServerError, "failed to get swaps", nil)
	}
	return c.JSON(http.StatusOK, SwapsRecentResponse{Items: items})
}
