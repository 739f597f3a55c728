package services

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/mockmate/backend/internal/models"
	pgrepo "github.com/mockmate/backend/internal/repositories/postgres"
	"github.com/mockmate/backend/internal/utils"
)

const googleUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

type OAuthService interface {
	// LoginURL returns the consent page URL and the state nonce the caller
	// should pin to the browser session.
	LoginURL(provider string) (url string, state string, err error)
	HandleCallback(ctx context.Context, provider, code string) (*models.User, string, error)
}

type oauthService struct {
	users      pgrepo.UserRepository
	auth       AuthService
	googleConf *oauth2.Config
	httpClient *http.Client
}

func NewOAuthService(users pgrepo.UserRepository, auth AuthService, clientID, clientSecret, redirectURL string) OAuthService {
	return &oauthService{
		users: users,
		auth:  auth,
		googleConf: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Scopes: []string{
				"https://www.googleapis.com/auth/userinfo.email",
				"https://www.googleapis.com/auth/userinfo.profile",
			},
			Endpoint: google.Endpoint,
		},
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

func (s *oauthService) LoginURL(provider string) (string, string, error) {
	const op = "OAuthService.LoginURL"

	if provider != "google" {
		return "", "", utils.E(utils.CodeInvalidArgument, op, fmt.Sprintf("unsupported provider %q", provider), nil)
	}
	state, err := randomState()
	if err != nil {
		return "", "", utils.E(utils.CodeInternal, op, "failed to generate state", err)
	}
	return s.googleConf.AuthCodeURL(state), state, nil
}

func (s *oauthService) HandleCallback(ctx context.Context, provider, code string) (*models.User, string, error) {
	const op = "OAuthService.HandleCallback"

	if provider != "google" {
		return nil, "", utils.E(utils.CodeInvalidArgument, op, fmt.Sprintf("unsupported provider %q", provider), nil)
	}
	if code == "" {
		return nil, "", utils.E(utils.CodeInvalidArgument, op, "missing authorization code", nil)
	}

	tok, err := s.googleConf.Exchange(ctx, code)
	if err != nil {
		return nil, "", utils.E(utils.CodeUnauthorized, op, "code exchange failed", err)
	}

	info, err := s.fetchUserInfo(ctx, tok.AccessToken)
	if err != nil {
		return nil, "", utils.E(utils.CodeUnavailable, op, "failed to fetch Google profile", err)
	}
	if info.ID == "" || info.Email == "" {
		return nil, "", utils.E(utils.CodeUnauthorized, op, "Google profile is missing id or email", nil)
	}

	u, err := s.users.FindOrCreateGoogleUser(ctx, info.ID, info.Email, info.Name)
	if err != nil {
		return nil, "", utils.E(utils.CodeInternal, op, "failed to resolve user", err)
	}

	jwtToken, err := s.auth.IssueToken(u)
	if err != nil {
		return nil, "", utils.E(utils.CodeInternal, op, "failed to issue token", err)
	}
	return u, jwtToken, nil
}

type googleUserInfo struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

func (s *oauthService) fetchUserInfo(ctx context.Context, accessToken string) (*googleUserInfo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, googleUserInfoURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("userinfo endpoint returned %d", resp.StatusCode)
	}

	var info googleUserInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, err
	}
	return &info, nil
}

func randomState() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
