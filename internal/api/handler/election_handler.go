package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/zkvote/voting-system/internal/api/metrics"
	"github.com/zkvote/voting-system/internal/core/ports"
)

// ElectionHandler handles HTTP requests for the election registry.
type ElectionHandler struct {
	elections ports.ElectionService
	votes     ports.VoteService
}

func NewElectionHandler(elections ports.ElectionService, votes ports.VoteService) *ElectionHandler {
	return &ElectionHandler{elections: elections, votes: votes}
}

// Create handles POST /api/elections (admin only).
//
// @Summary      Create an election
// @Tags         elections
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createElectionRequest  true  "Election definition (at least 2 options)"
// @Success      201   {object}  domain.Election
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Router       /api/elections [post]
func (h *ElectionHandler) Create(c echo.Context) error {
	var req createElectionRequest
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

	election, err := h.elections.Create(c.Request().Context(), ports.CreateElectionInput{
		Title:       req.Title,
		Description: req.Description,
		OpensAt:     req.OpensAt,
		ClosesAt:    req.ClosesAt,
		Options:     req.Options,
		CreatedBy:   userID,
	})
	if err != nil {
		return err
	}

	metrics.ElectionsCreatedTotal.Inc()
	return c.JSON(http.StatusCreated, election)
}

// List handles GET /api/elections.
//
// @Summary      List elections with options
// @Tags         elections
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   domain.Election
// @Failure      401  {object}  errorResponse
// @Router       /api/elections [get]
func (h *ElectionHandler) List(c echo.Context) error {
	elections, err := h.elections.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, elections)
}

// Get handles GET /api/elections/:id.
//
// @Summary      Fetch one election
// @Tags         elections
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Election ID"
// @Success      200  {object}  domain.Election
// @Failure      404  {object}  errorResponse
// @Router       /api/elections/{id} [get]
func (h *ElectionHandler) Get(c echo.Context) error {
	election, err := h.elections.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, election)
}

// Update handles PUT /api/elections/:id (creator or admin).
//
// @Summary      Update election fields
// @Tags         elections
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                 true  "Election ID"
// @Param        body  body      updateElectionRequest  true  "Fields to change"
// @Success      200   {object}  domain.Election
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /api/elections/{id} [put]
func (h *ElectionHandler) Update(c echo.Context) error {
	var req updateElectionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	userID, role, err := ctxClaims(c)
	if err != nil {
		return err
	}

	election, err := h.elections.Update(c.Request().Context(), c.Param("id"), userID, role, ports.UpdateElectionInput{
		Title:       req.Title,
		Description: req.Description,
		OpensAt:     req.OpensAt,
		ClosesAt:    req.ClosesAt,
		Active:      req.Active,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, election)
}

// Delete handles DELETE /api/elections/:id (creator or admin). Elections with
// recorded votes are refused with 409.
//
// @Summary      Delete an election
// @Tags         elections
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Election ID"
// @Success      200  {object}  deletedResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Failure      409  {object}  errorResponse
// @Router       /api/elections/{id} [delete]
func (h *ElectionHandler) Delete(c echo.Context) error {
	userID, role, err := ctxClaims(c)
	if err != nil {
		return err
	}

	if err := h.elections.Delete(c.Request().Context(), c.Param("id"), userID, role); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, deletedResponse{Message: "election deleted"})
}

// Results handles GET /api/elections/:id/results.
//
// @Summary      Per-option tallies and total
// @Tags         elections
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Election ID"
// @Success      200  {object}  resultsResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/elections/{id}/results [get]
func (h *ElectionHandler) Results(c echo.Context) error {
	tally, err := h.votes.Tally(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toResultsResponse(tally))
}
