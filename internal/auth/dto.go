package auth

import "github.com/lumakara/studio-backend/pkg/db/models"

// LoginInput carries the admin credentials.
type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=256"`
}

// RefreshInput rotates a refresh session. The access token may be expired;
// only its signature and session id are used.
type RefreshInput struct {
	AccessToken  string `json:"access_token" validate:"required"`
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// AdminSummary is the admin shape returned alongside tokens.
type AdminSummary struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// TokenPair is the login/refresh response.
type TokenPair struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	Admin        AdminSummary `json:"admin"`
}

func summarize(admin *models.AdminUser) AdminSummary {
	return AdminSummary{
		ID:    admin.ID.String(),
		Email: admin.Email,
		Name:  admin.Name,
	}
}
