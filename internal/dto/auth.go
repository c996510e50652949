package dto

import "paynote/internal/models"

type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	FullName string `json:"full_name"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type UserResponse struct {
	ID           string  `json:"id"`
	Email        string  `json:"email"`
	FullName     string  `json:"full_name"`
	Plan         string  `json:"plan"`
	InvoiceLimit int     `json:"invoice_limit"`
	InvoiceCount int     `json:"invoice_count"`
	CompanyName  *string `json:"company_name,omitempty"`
	SIRET        *string `json:"siret,omitempty"`
	Address      *string `json:"address,omitempty"`
}

type AuthResponse struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	TokenType    string       `json:"token_type"`
	ExpiresIn    int64        `json:"expires_in"`
	User         UserResponse `json:"user"`
}

func NewUserResponse(u *models.User) UserResponse {
	return UserResponse{
		ID:           u.ID.String(),
		Email:        u.Email,
		FullName:     u.FullName,
		Plan:         u.Plan,
		InvoiceLimit: u.InvoiceLimit,
		InvoiceCount: u.InvoiceCount,
		CompanyName:  u.CompanyName,
		SIRET:        u.SIRET,
		Address:      u.Address,
	}
}
