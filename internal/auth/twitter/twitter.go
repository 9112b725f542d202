// Package twitter logs users in with the social provider's OAuth 2.0
// authorization code flow with PKCE.
package twitter

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"golang.org/x/oauth2"

	"github.com/globelend/waitlist-manager/internal/auth"
)

const (
	defaultAuthURL     = "https://twitter.com/i/oauth2/authorize"
	defaultTokenURL    = "https://api.twitter.com/2/oauth2/token"
	defaultUserInfoURL = "https://api.twitter.com/2/users/me"

	userFields = "id,name,username,profile_image_url"
)

type Config struct {
	ClientID     string `mapstructure:"client_id"`
	ClientSecret string `mapstructure:"client_secret"`
	RedirectURL  string `mapstructure:"redirect_url"`

	// Endpoint overrides, empty in production.
	AuthURL     string `mapstructure:"auth_url"`
	TokenURL    string `mapstructure:"token_url"`
	UserInfoURL string `mapstructure:"user_info_url"`
}

// Provider exchanges authorization codes for provider identities.
type Provider struct {
	oauth       *oauth2.Config
	userInfoURL string
}

func New(c Config) *Provider {
	p := &Provider{
		oauth: &oauth2.Config{
			ClientID:     c.ClientID,
			ClientSecret: c.ClientSecret,
			RedirectURL:  c.RedirectURL,
			Scopes:       []string{"users.read", "tweet.read"},
			Endpoint: oauth2.Endpoint{
				AuthURL:   orDefault(c.AuthURL, defaultAuthURL),
				TokenURL:  orDefault(c.TokenURL, defaultTokenURL),
				AuthStyle: oauth2.AuthStyleInHeader,
			},
		},
		userInfoURL: orDefault(c.UserInfoURL, defaultUserInfoURL),
	}
	return p
}

// Enabled reports whether client credentials are configured.
func (p *Provider) Enabled() bool {
	return p.oauth.ClientID != ""
}

// AuthCodeURL returns the consent page URL for state and the S256 challenge of verifier.
func (p *Provider) AuthCodeURL(state, verifier string) string {
	return p.oauth.AuthCodeURL(state, oauth2.S256ChallengeOption(verifier))
}

type meResponse struct {
	Data struct {
		Id              string `json:"id"`
		Name            string `json:"name"`
		Username        string `json:"username"`
		ProfileImageURL string `json:"profile_image_url"`
	} `json:"data"`
}

// Exchange trades an authorization code for a token and fetches the user it belongs to.
func (p *Provider) Exchange(ctx context.Context, code, verifier string) (auth.Identity, error) {
	tok, err := p.oauth.Exchange(ctx, code, oauth2.VerifierOption(verifier))
	if err != nil {
		return auth.Identity{}, fmt.Errorf("exchange code: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.userInfoURL+"?user.fields="+userFields, nil)
	if err != nil {
		return auth.Identity{}, fmt.Errorf("new user request: %w", err)
	}
	resp, err := p.oauth.Client(ctx, tok).Do(req)
	if err != nil {
		return auth.Identity{}, fmt.Errorf("get user: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return auth.Identity{}, fmt.Errorf("get user: status %d: %s", resp.StatusCode, body)
	}

	var me meResponse
	if err := json.NewDecoder(resp.Body).Decode(&me); err != nil {
		return auth.Identity{}, fmt.Errorf("decode user: %w", err)
	}
	if me.Data.Id == "" {
		return auth.Identity{}, fmt.Errorf("user response has no id")
	}

	return auth.Identity{
		ExternalUserId: me.Data.Id,
		Handle:         me.Data.Username,
		Name:           me.Data.Name,
		AvatarURL:      fullSizeImage(me.Data.ProfileImageURL),
	}, nil
}

// fullSizeImage drops the provider's thumbnail size suffix.
func fullSizeImage(url string) string {
	return strings.Replace(url, "_normal", "", 1)
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
