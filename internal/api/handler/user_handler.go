package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/perlametro/users-service/internal/core/ports"
)

// UserHandler handles HTTP requests for user account operations.
type UserHandler struct {
	users ports.UserService
	audit ports.AuditService
}

func NewUserHandler(users ports.UserService, audit ports.AuditService) *UserHandler {
	return &UserHandler{users: users, audit: audit}
}

// Create registers a new user account.
//
// @Summary      Register a new user
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body      createUserRequest  true  "User registration details"
// @Success      201   {object}  userResponse
// @Failure      400   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /users [post]
func (h *UserHandler) Create(c echo.Context) error {
	var req createUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.users.Create(c.Request().Context(), ports.CreateUserInput{
		Name:     req.Name,
		Lastname: req.Lastname,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, toUserResponse(user))
}

// List returns a page of users. Without an explicit state filter only active
// accounts are listed.
//
// @Summary      List users
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        name   query     string  false  "Filter by name substring"
// @Param        email  query     string  false  "Filter by exact email"
// @Param        state  query     bool    false  "Filter by account state (default: active only)"
// @Param        page   query     int     false  "Page number (1-based)"
// @Param        limit  query     int     false  "Page size"
// @Success      200    {object}  listUsersResponse
// @Failure      401    {object}  errorResponse
// @Failure      403    {object}  errorResponse
// @Failure      500    {object}  errorResponse
// @Router       /users [get]
func (h *UserHandler) List(c echo.Context) error {
	input := ports.ListUsersInput{
		Name:  c.QueryParam("name"),
		Email: c.QueryParam("email"),
	}
	if raw := c.QueryParam("state"); raw != "" {
		state, err := strconv.ParseBool(raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "state must be true or false")
		}
		input.State = &state
	}
	if raw := c.QueryParam("page"); raw != "" {
		input.Page, _ = strconv.Atoi(raw)
	}
	if raw := c.QueryParam("limit"); raw != "" {
		input.Limit, _ = strconv.Atoi(raw)
	}

	result, err := h.users.List(c.Request().Context(), input)
	if err != nil {
		return err
	}

	data := make([]userResponse, 0, len(result.Items))
	for i := range result.Items {
		data = append(data, toUserResponse(&result.Items[i]))
	}

	return c.JSON(http.StatusOK, listUsersResponse{
		Data: data,
		Pagination: paginationResponse{
			Total:      result.Total,
			Page:       result.Page,
			Limit:      result.Limit,
			TotalPages: result.TotalPages,
		},
	})
}

// Get returns a single user by id. Soft-deleted accounts are still
// retrievable here.
//
// @Summary      Get a user by id
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "User id"
// @Success      200  {object}  userResponse
// @Failure      401  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Failure      500  {object}  errorResponse
// @Router       /users/{id} [get]
func (h *UserHandler) Get(c echo.Context) error {
	user, err := h.users.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserResponse(user))
}

// Update applies a partial update to a user. Regular users may only update
// themselves; admins may update anyone.
//
// @Summary      Update a user
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string             true  "User id"
// @Param        body  body      updateUserRequest  true  "Fields to update"
// @Success      200   {object}  userResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /users/{id} [put]
func (h *UserHandler) Update(c echo.Context) error {
	id := c.Param("id")
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}
	if err := claims.canActOn(id); err != nil {
		return err
	}

	var req updateUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.users.Update(c.Request().Context(), id, ports.UpdateUserInput{
		Name:     req.Name,
		Lastname: req.Lastname,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, toUserResponse(user))
}

// Delete soft-deletes a user: the account flips to inactive but the record
// is kept.
//
// @Summary      Soft-delete a user
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "User id"
// @Success      200  {object}  messageResponse
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /users/{id} [delete]
func (h *UserHandler) Delete(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}

	if err := h.users.SoftDelete(c.Request().Context(), c.Param("id"), claims.UserID); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "user deactivated"})
}

// Audit returns the newest audit events recorded for a user.
//
// @Summary      Get a user's audit trail
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id     path      string  true   "User id"
// @Param        limit  query     int     false  "Maximum number of events"
// @Success      200    {array}   auditEventResponse
// @Failure      401    {object}  errorResponse
// @Failure      403    {object}  errorResponse
// @Router       /users/{id}/audit [get]
func (h *UserHandler) Audit(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	events, err := h.audit.RecentForUser(c.Request().Context(), c.Param("id"), limit)
	if err != nil {
		return err
	}

	resp := make([]auditEventResponse, 0, len(events))
	for _, e := range events {
		resp = append(resp, auditEventResponse{
			UserID:    e.UserID,
			Action:    e.Action,
			Actor:     e.Actor,
			Detail:    e.Detail,
			Timestamp: e.Timestamp,
		})
	}
	return c.JSON(http.StatusOK, resp)
}
