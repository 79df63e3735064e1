// Package usecase contains the application-specific business rules.
package usecase

import (
	"context"
	"time"

	"majicmall/internal/domain/entity"
)

// AuthUsecase defines account signup and login.
type AuthUsecase interface {
	// Signup creates the account and provisions its merchant profile and default store
	// in one transaction.
	Signup(ctx context.Context, input *SignupInput) (*AuthOutput, error)
	Login(ctx context.Context, input *LoginInput) (*AuthOutput, error)
}

// --- Input DTOs ---

// SignupInput defines the data required to register an account.
type SignupInput struct {
	Username string `json:"username" validate:"required,min=3,max=150"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// LoginInput accepts either a username or an email as Login.
type LoginInput struct {
	Login    string `json:"login" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// --- Output DTOs ---

// AuthOutput is returned after a successful signup or login.
type AuthOutput struct {
	User        *entity.User
	Store       *entity.Store
	AccessToken string
	ExpiresIn   time.Duration
}
