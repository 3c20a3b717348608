package session

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

// EnvToken overrides the token file when set.
const EnvToken = "WAVE_ACCESS_TOKEN"

// User is the signed-in account as carried by the access token.
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email,omitempty"`
	ExpiresAt time.Time `json:"expires_at,omitempty"`
}

// Provider supplies the current session. Both methods are called at the
// moment of each request and must not cache.
type Provider interface {
	// AccessToken returns "" when signed out.
	AccessToken(ctx context.Context) (string, error)
	// CurrentUser returns nil when signed out.
	CurrentUser(ctx context.Context) (*User, error)
}

// Claims is the access token payload.
type Claims struct {
	Email string `json:"email"`
	jwtlib.RegisteredClaims
}

// TokenProvider reads the access token written by the external sign-in flow.
// The signature is not verified; that is the backend's job.
type TokenProvider struct {
	file   string
	now    func() time.Time
	logger *zap.Logger
}

// NewTokenProvider creates a provider backed by file.
func NewTokenProvider(file string, logger *zap.Logger) *TokenProvider {
	return &TokenProvider{file: file, now: time.Now, logger: logger}
}

// AccessToken returns the raw token. A JWT that has expired counts as signed out.
func (p *TokenProvider) AccessToken(ctx context.Context) (string, error) {
	token, err := p.read()
	if err != nil || token == "" {
		return "", err
	}
	claims, err := parseClaims(token)
	if err != nil {
		// opaque tokens are passed through untouched
		return token, nil
	}
	if p.expired(claims) {
		p.logger.Debug("Access token expired", zap.Time("expires_at", claims.ExpiresAt.Time))
		return "", nil
	}
	return token, nil
}

// CurrentUser decodes the user from the access token.
func (p *TokenProvider) CurrentUser(ctx context.Context) (*User, error) {
	token, err := p.read()
	if err != nil || token == "" {
		return nil, err
	}
	claims, err := parseClaims(token)
	if err != nil {
		return nil, fmt.Errorf("decode access token: %w", err)
	}
	if p.expired(claims) {
		return nil, nil
	}
	user := &User{ID: claims.Subject, Email: claims.Email}
	if claims.ExpiresAt != nil {
		user.ExpiresAt = claims.ExpiresAt.Time
	}
	return user, nil
}

// SignOut forgets the stored token. It does not touch WAVE_ACCESS_TOKEN.
func (p *TokenProvider) SignOut() error {
	if err := os.Remove(p.file); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove token file: %w", err)
	}
	return nil
}

// Save stores a token for later calls.
func (p *TokenProvider) Save(token string) error {
	if err := os.MkdirAll(filepath.Dir(p.file), 0o700); err != nil {
		return fmt.Errorf("create token dir: %w", err)
	}
	if err := os.WriteFile(p.file, []byte(strings.TrimSpace(token)+"\n"), 0o600); err != nil {
		return fmt.Errorf("write token file: %w", err)
	}
	return nil
}

func (p *TokenProvider) read() (string, error) {
	if token := strings.TrimSpace(os.Getenv(EnvToken)); token != "" {
		return token, nil
	}
	if p.file == "" {
		return "", nil
	}
	content, err := os.ReadFile(p.file)
	if errors.Is(err, os.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read token file: %w", err)
	}
	return strings.TrimSpace(string(content)), nil
}

func (p *TokenProvider) expired(c *Claims) bool {
	return c.ExpiresAt != nil && !c.ExpiresAt.After(p.now())
}

func parseClaims(token string) (*Claims, error) {
	claims := &Claims{}
	if _, _, err := jwtlib.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, err
	}
	return claims, nil
}

// Static is a fixed session.
type Static struct {
	Token string
	User  *User
}

func (s Static) AccessToken(context.Context) (string, error) { return s.Token, nil }

func (s Static) CurrentUser(context.Context) (*User, error) { return s.User, nil }
var _ Provider = (*TokenProvider)(nil)
