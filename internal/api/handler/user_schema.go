package handler

import (
	"time"

	"github.com/perlametro/users-service/internal/core/domain"
)

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Request types ---

type createUserRequest struct {
	Name     string `json:"name"     validate:"required,min=3"`
	Lastname string `json:"lastname" validate:"required,min=3"`
	Email    string `json:"email"    validate:"required,email,endswith=@perlametro.cl"`
	Password string `json:"password" validate:"required,userpassword"`
}

type updateUserRequest struct {
	Name     string `json:"name,omitempty"     validate:"omitempty,min=3"`
	Lastname string `json:"lastname,omitempty" validate:"omitempty,min=3"`
	Email    string `json:"email,omitempty"    validate:"omitempty,email,endswith=@perlametro.cl"`
	Password string `json:"password,omitempty" validate:"omitempty,userpassword"`
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// --- Response types ---
// Owned by the transport layer so the JSON contract is not coupled to
// internal changes. The password hash has no representation here at all.

type userResponse struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Lastname     string    `json:"lastname"`
	Email        string    `json:"email"`
	Role         string    `json:"role"`
	State        bool      `json:"state"`
	RegisteredAt time.Time `json:"registered_at"`
}

func toUserResponse(u *domain.User) userResponse {
	return userResponse{
		ID:           u.ID,
		Name:         u.Name,
		Lastname:     u.Lastname,
		Email:        u.Email,
		Role:         u.Role,
		State:        u.State,
		RegisteredAt: u.RegisteredAt,
	}
}

type loginResponse struct {
	Token string `json:"token"`
}

type paginationResponse struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"total_pages"`
}

type listUsersResponse struct {
	Data       []userResponse     `json:"data"`
	Pagination paginationResponse `json:"pagination"`
}

type messageResponse struct {
	Message string `json:"message"`
}

type auditEventResponse struct {
	UserID    string    `json:"user_id"`
	Action    string    `json:"action"`
	Actor     string    `json:"actor,omitempty"`
	Detail    string    `json:"detail,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}
