package dto

import (
	"time"

	"github.com/registre-medical/registry-api/internal/domain"
)

// UserResponse is the public view of an account. The password hash never
// leaves the service.
type UserResponse struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	LastName  string    `json:"nom"`
	FirstName string    `json:"prenom,omitempty"`
	Phone     string    `json:"telephone,omitempty"`
	Role      string    `json:"role"`
	RoleLabel string    `json:"role_label"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}

// NewUserResponse maps a domain user.
func NewUserResponse(u *domain.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		LastName:  u.LastName,
		FirstName: u.FirstName,
		Phone:     u.Phone,
		Role:      u.Role.String(),
		RoleLabel: u.Role.Label(),
		Active:    u.Active,
		CreatedAt: u.CreatedAt,
	}
}

// NewUserList maps a slice of domain users.
func NewUserList(users []domain.User) []UserResponse {
	out := make([]UserResponse, 0, len(users))
	for i := range users {
		out = append(out, NewUserResponse(&users[i]))
	}
	return out
}
