// internal/pkg/session/types.go
package session

// Session is the result of a successful login: a token pair bound to one session id.
type Session struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	SessionID    string `json:"-"`
}

// ValidateOptions selects which checks Validate applies, in this order:
// decode (expiry when CheckExpired), access kind, refresh kind,
// session id presence (and store liveness when CheckSessionExpired), login presence.
type ValidateOptions struct {
	CheckExpired        bool
	CheckAccess         bool
	CheckRefresh        bool
	CheckSessionID      bool
	CheckSessionExpired bool
	CheckLogin          bool
}

func DefaultValidateOptions() ValidateOptions {
	return ValidateOptions{
		CheckExpired:   true,
		CheckSessionID: true,
		CheckLogin:     true,
	}
}
