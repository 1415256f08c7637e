package identity

import (
	"context"
	"net/http"
	"net/url"

	regmodels "ddinvest/internal/registration/models"
	"ddinvest/internal/session/models"
)

// Login exchanges credentials for an access token.
func (c *Client) Login(ctx context.Context, creds models.Credentials) (*models.Token, error) {
	var res loginResponse
	err := c.do(ctx, call{
		op:     "login",
		method: http.MethodPost,
		path:   "/auth/login",
		body:   loginRequest{Username: creds.Handle, Password: creds.Password},
	}, &res)
	if err != nil {
		return nil, err
	}
	return &models.Token{
		AccessToken: res.AccessToken,
		TokenType:   res.TokenType,
		User:        res.User.toAccount(),
	}, nil
}

// Logout tells the service the token is no longer in use.
func (c *Client) Logout(ctx context.Context, token string) error {
	return c.do(ctx, call{
		op:     "logout",
		method: http.MethodPost,
		path:   "/auth/logout",
		token:  token,
	}, nil)
}

// CurrentUser resolves the account behind token.
func (c *Client) CurrentUser(ctx context.Context, token string) (*regmodels.Account, error) {
	var res userResponse
	err := c.do(ctx, call{
		op:     "current_user",
		method: http.MethodGet,
		path:   "/auth/me",
		query:  url.Values{"token": {token}},
	}, &res)
	if err != nil {
		return nil, err
	}
	acc := res.toAccount()
	return &acc, nil
}
