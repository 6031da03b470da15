// internal/service/social/yandex.go
package social

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"auth-service/internal/domain/auth"
	xerrors "auth-service/internal/pkg/errors"

	"golang.org/x/oauth2"
)

const (
	YandexName = "yandex"

	yandexAuthURL  = "https://oauth.yandex.ru/authorize"
	yandexTokenURL = "https://oauth.yandex.ru/token"
	yandexInfoURL  = "https://login.yandex.ru/info"
)

type YandexConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string

	// Endpoint overrides, empty means production Yandex ID.
	AuthURL  string
	TokenURL string
	InfoURL  string
}

type Yandex struct {
	oauth   *oauth2.Config
	infoURL string
}

func NewYandex(cfg YandexConfig) *Yandex {
	endpoint := oauth2.Endpoint{
		AuthURL:   firstNonEmpty(cfg.AuthURL, yandexAuthURL),
		TokenURL:  firstNonEmpty(cfg.TokenURL, yandexTokenURL),
		AuthStyle: oauth2.AuthStyleInParams,
	}
	return &Yandex{
		oauth: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Endpoint:     endpoint,
		},
		infoURL: firstNonEmpty(cfg.InfoURL, yandexInfoURL),
	}
}

func (y *Yandex) Name() string { return YandexName }

func (y *Yandex) AuthURL(state string) string {
	return y.oauth.AuthCodeURL(state)
}

type yandexUser struct {
	ID           string `json:"id"`
	PSUID        string `json:"psuid"`
	Login        string `json:"login"`
	DefaultEmail string `json:"default_email"`
}

// UserData exchanges the authorization code and fetches the account info.
func (y *Yandex) UserData(ctx context.Context, code string) (*auth.SocialUser, error) {
	tok, err := y.oauth.Exchange(ctx, code)
	if err != nil {
		return nil, xerrors.WithCause(xerrors.ErrSocialAuth, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, y.infoURL+"?format=json", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build yandex info request: %w", err)
	}

	resp, err := y.oauth.Client(ctx, tok).Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch yandex user info: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, xerrors.WithCause(xerrors.ErrSocialAuth, fmt.Errorf("yandex info returned %d", resp.StatusCode))
	}

	var u yandexUser
	if err := json.NewDecoder(resp.Body).Decode(&u); err != nil {
		return nil, fmt.Errorf("failed to decode yandex user info: %w", err)
	}

	socialID := firstNonEmpty(u.PSUID, u.ID)
	if socialID == "" || u.DefaultEmail == "" {
		return nil, xerrors.WithCause(xerrors.ErrSocialAuth, fmt.Errorf("yandex account has no id or email"))
	}

	return &auth.SocialUser{
		ID:    socialID,
		Login: u.Login,
		Email: u.DefaultEmail,
	}, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
