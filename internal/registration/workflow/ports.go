package workflow

//go:generate mockgen -source=ports.go -destination=mocks/mocks.go -package=mocks Identity

import (
	"context"

	"ddinvest/internal/registration/models"
)

// Identity is the subset of the Identity Service the registration workflow
// calls. Implementations return domain-errors coded failures: rejected or
// conflict when the service declined, unavailable when the call could not
// complete. Duplicate-email rejections wrap models.ErrEmailAlreadyRegistered.
type Identity interface {
	CheckHandleAvailability(ctx context.Context, handle string) (*models.HandleAvailability, error)
	SendVerificationEmail(ctx context.Context, email string) (*models.VerificationDispatch, error)
	VerifyEmailCode(ctx context.Context, email, code string) (*models.VerificationResult, error)
	CreateAccount(ctx context.Context, req models.CreateAccountRequest) (*models.Account, error)
}
