package identity

import (
	"context"
	"net/http"
	"net/url"

	"ddinvest/internal/registration/models"
)

// CheckHandleAvailability asks whether handle is free. Length rules are the
// service's to enforce.
func (c *Client) CheckHandleAvailability(ctx context.Context, handle string) (*models.HandleAvailability, error) {
	var res availabilityResponse
	err := c.do(ctx, call{
		op:     "check_handle",
		method: http.MethodPost,
		path:   "/auth/check-username",
		query:  url.Values{"username": {handle}},
	}, &res)
	if err != nil {
		return nil, err
	}
	return &models.HandleAvailability{Available: res.Available, Message: res.Message}, nil
}

// SendVerificationEmail asks the service to mail a fresh code to email.
func (c *Client) SendVerificationEmail(ctx context.Context, email string) (*models.VerificationDispatch, error) {
	var res verificationResponse
	err := c.do(ctx, call{
		op:     "send_verification",
		method: http.MethodPost,
		path:   "/auth/send-verification-email",
		query:  url.Values{"email": {email}},
	}, &res)
	if err != nil {
		return nil, err
	}
	return &models.VerificationDispatch{Queued: res.Success, Message: res.Message}, nil
}

// VerifyEmailCode confirms code for email.
func (c *Client) VerifyEmailCode(ctx context.Context, email, code string) (*models.VerificationResult, error) {
	var res verificationResponse
	err := c.do(ctx, call{
		op:     "verify_code",
		method: http.MethodPost,
		path:   "/auth/verify-email-code",
		query:  url.Values{"email": {email}, "code": {code}},
	}, &res)
	if err != nil {
		return nil, err
	}
	return &models.VerificationResult{Verified: res.Success, Message: res.Message}, nil
}

// CreateAccount registers the account. A refusal because the email is taken
// wraps models.ErrEmailAlreadyRegistered.
func (c *Client) CreateAccount(ctx context.Context, req models.CreateAccountRequest) (*models.Account, error) {
	var res userResponse
	err := c.do(ctx, call{
		op:     "create_account",
		method: http.MethodPost,
		path:   "/auth/register",
		body:   toRegisterRequest(req),
	}, &res)
	if err != nil {
		return nil, err
	}
	acc := res.toAccount()
	return &acc, nil
}
