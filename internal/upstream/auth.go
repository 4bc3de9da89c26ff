package upstream

import (
	"context"
	"net/url"

	"github.com/noah-isme/scrum-console-gateway/internal/models"
	appErrors "github.com/noah-isme/scrum-console-gateway/pkg/errors"
)

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// Authenticate exchanges credentials for an access token. The login endpoint
// expects form-encoded credentials (OAuth2 password flow).
func (c *Client) Authenticate(ctx context.Context, username, password string) (string, error) {
	form := url.Values{}
	form.Set("username", username)
	form.Set("password", password)

	var body tokenResponse
	if err := c.doForm(ctx, "/api/v1/auth/login", form, &body); err != nil {
		// A 401 on the login endpoint means the credentials were rejected,
		// not that a session expired.
		if appErrors.HasCode(err, appErrors.ErrAuthExpired) {
			return "", appErrors.Clone(appErrors.ErrInvalidCredentials, "")
		}
		return "", err
	}
	if body.AccessToken == "" {
		return "", appErrors.Clone(appErrors.ErrUpstreamUnavailable, "login response carried no access token")
	}
	return body.AccessToken, nil
}

// Register creates a new account.
func (c *Client) Register(ctx context.Context, req models.RegisterRequest) (*models.User, error) {
	var user models.User
	if err := c.do(ctx, "POST", "/api/v1/auth/register", "", req, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Profile resolves an access token into the current user.
func (c *Client) Profile(ctx context.Context, token string) (*models.User, error) {
	var user models.User
	if err := c.do(ctx, "GET", "/api/v1/user/profile", token, nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}
