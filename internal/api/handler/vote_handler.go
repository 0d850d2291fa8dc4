package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/zkvote/voting-system/internal/api/metrics"
	"github.com/zkvote/voting-system/internal/core/domain"
	"github.com/zkvote/voting-system/internal/core/ports"
)

// VoteHandler handles HTTP requests against the vote ledger.
type VoteHandler struct {
	votes ports.VoteService
}

func NewVoteHandler(votes ports.VoteService) *VoteHandler {
	return &VoteHandler{votes: votes}
}

// Cast handles POST /api/votes.
//
// @Summary      Cast a vote
// @Tags         votes
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      castVoteRequest  true  "Election and option"
// @Success      201   {object}  castVoteResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /api/votes [post]
func (h *VoteHandler) Cast(c echo.Context) error {
	var req castVoteRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	userID, _, err := ctxClaims(c)
	if err != nil {
		return err
	}

	receipt, err := h.votes.Cast(c.Request().Context(), req.ElectionID, userID, req.OptionID)
	if err != nil {
		metrics.VotesRejectedTotal.WithLabelValues(rejectionReason(err)).Inc()
		return err
	}

	metrics.VotesCastTotal.Inc()
	return c.JSON(http.StatusCreated, toCastResponse(receipt))
}

// Verify handles GET /api/votes/verify/:token. Public, no auth.
//
// @Summary      Verify a vote receipt
// @Tags         votes
// @Produce      json
// @Param        token  path      string  true  "Receipt token"
// @Success      200    {object}  verifyVoteResponse
// @Failure      404    {object}  errorResponse
// @Router       /api/votes/verify/{token} [get]
func (h *VoteHandler) Verify(c echo.Context) error {
	receipt, err := h.votes.VerifyReceipt(c.Request().Context(), c.Param("token"))
	if err != nil {
		if errors.Is(err, domain.ErrVoteNotFound) {
			metrics.ReceiptVerificationsTotal.WithLabelValues("not_found").Inc()
		}
		return err
	}

	result := "valid"
	if !receipt.Valid {
		result = "invalid"
	}
	metrics.ReceiptVerificationsTotal.WithLabelValues(result).Inc()

	return c.JSON(http.StatusOK, toVerifyResponse(receipt))
}

// Status handles GET /api/votes/status/:election_id.
//
// @Summary      Has the caller voted in this election
// @Tags         votes
// @Produce      json
// @Security     BearerAuth
// @Param        election_id  path      string  true  "Election ID"
// @Success      200          {object}  voteStatusResponse
// @Failure      401          {object}  errorResponse
// @Router       /api/votes/status/{election_id} [get]
func (h *VoteHandler) Status(c echo.Context) error {
	userID, _, err := ctxClaims(c)
	if err != nil {
		return err
	}

	status, err := h.votes.StatusFor(c.Request().Context(), c.Param("election_id"), userID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, toStatusResponse(status))
}

// Receipts handles GET /api/votes/election/:election_id, the public receipt
// list, tokens and timestamps only.
//
// @Summary      List receipts for an election
// @Tags         votes
// @Produce      json
// @Security     BearerAuth
// @Param        election_id  path      string  true  "Election ID"
// @Success      200          {object}  receiptListResponse
// @Failure      404          {object}  errorResponse
// @Router       /api/votes/election/{election_id} [get]
func (h *VoteHandler) Receipts(c echo.Context) error {
	items, err := h.votes.ListReceipts(c.Request().Context(), c.Param("election_id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toReceiptListResponse(items))
}

// rejectionReason maps a cast failure onto a bounded metric label set.
func rejectionReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrDuplicateVote):
		return "duplicate"
	case errors.Is(err, domain.ErrInactiveElection):
		return "inactive_election"
	case errors.Is(err, domain.ErrElectionNotFound), errors.Is(err, domain.ErrOptionNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrInvalidInput):
		return "invalid_input"
	default:
		return "internal"
	}
}
