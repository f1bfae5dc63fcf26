package session

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog/log"

	"github.com/nekogravitycat/venue-admin/internal/api"
	"github.com/nekogravitycat/venue-admin/internal/pkg/apperror"
)

// Storage keys for the two halves of a persisted session. Both must be
// present together; a lone half is treated as no session at all.
const (
	identityKey = "session.identity"
	tokenKey    = "session.token"
)

var (
	ErrMissingCredentials = apperror.New(apperror.KindValidation, "email and password are required")
	ErrInvalidCredentials = apperror.New(apperror.KindValidation, "invalid credentials")
)

// Identity is the authenticated admin user.
type Identity struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// Gate holds the authenticated-identity state and mediates every change to
// it. The API client reads the token through Token; only Login, Logout and
// Restore write it, each as a single assignment under the lock.
type Gate struct {
	mu       sync.Mutex
	store    Store
	identity *Identity
	token    string
}

func NewGate(store Store) *Gate {
	return &Gate{store: store}
}

// Token returns the current bearer token, or "" when unauthenticated.
// Suitable as an api.TokenSource.
func (g *Gate) Token() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.token
}

// Identity returns the authenticated identity, or ok=false.
func (g *Gate) Identity() (Identity, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.identity == nil {
		return Identity{}, false
	}
	return *g.identity, true
}

// IsAuthenticated reports whether both identity and a non-expired token are
// held. Expiry is checked from the token's own claims without verifying the
// signature; verification is the backend's job.
func (g *Gate) IsAuthenticated() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.identity != nil && g.token != "" && !tokenExpired(g.token)
}

// Login validates the credentials, exchanges them for a token and fetches
// the admin identity. Both halves are persisted only after the whole
// sequence succeeds; on any failure the persisted state is left untouched.
func (g *Gate) Login(ctx context.Context, client *api.Client, email, password string) (Identity, error) {
	if email == "" || password == "" {
		return Identity{}, ErrMissingCredentials
	}

	var loginResp struct {
		Token string `json:"token"`
	}
	err := client.PostJSON(ctx, "/auth/login", map[string]string{
		"email":    email,
		"password": password,
	}, &loginResp)
	if err != nil {
		log.Warn().Str("email", email).Msg("admin login failed")
		return Identity{}, err
	}
	if loginResp.Token == "" {
		log.Warn().Str("email", email).Msg("admin login attempt with invalid credentials")
		return Identity{}, ErrInvalidCredentials
	}

	// Hold the token in memory so the identity fetch is authenticated,
	// but do not persist anything yet.
	g.mu.Lock()
	g.token = loginResp.Token
	g.mu.Unlock()

	var ident Identity
	if err := client.GetJSON(ctx, "/admin/me", &ident); err != nil {
		g.mu.Lock()
		g.token = ""
		g.mu.Unlock()
		return Identity{}, err
	}

	encoded, err := json.Marshal(ident)
	if err != nil {
		g.mu.Lock()
		g.token = ""
		g.mu.Unlock()
		return Identity{}, apperror.Wrap(err, apperror.KindParse, "failed to encode identity")
	}
	if err := g.store.Write(tokenKey, []byte(loginResp.Token)); err != nil {
		log.Error().Err(err).Msg("failed to persist token")
	}
	if err := g.store.Write(identityKey, encoded); err != nil {
		log.Error().Err(err).Msg("failed to persist identity")
	}

	g.mu.Lock()
	g.identity = &ident
	g.mu.Unlock()

	log.Info().Str("email", ident.Email).Msg("admin login successful")
	return ident, nil
}

// Logout clears the in-memory and persisted session unconditionally.
// It never fails, regardless of storage or network state.
func (g *Gate) Logout() {
	g.clear()
	log.Info().Msg("admin logout")
}

// Restore loads a previously persisted session. The session is accepted
// only when both halves are present and the identity is well-formed JSON;
// anything less clears both halves and leaves the gate unauthenticated.
func (g *Gate) Restore() {
	tokenData, tokenOK, err := g.store.Read(tokenKey)
	if err != nil {
		log.Warn().Err(err).Msg("failed to read persisted token")
	}
	identData, identOK, err := g.store.Read(identityKey)
	if err != nil {
		log.Warn().Err(err).Msg("failed to read persisted identity")
	}

	if !tokenOK || !identOK || len(tokenData) == 0 {
		g.clear()
		return
	}

	var ident Identity
	if err := json.Unmarshal(identData, &ident); err != nil {
		g.clear()
		log.Warn().Msg("invalid persisted session cleared")
		return
	}

	g.mu.Lock()
	g.identity = &ident
	g.token = string(tokenData)
	g.mu.Unlock()
}

func (g *Gate) clear() {
	if err := g.store.Delete(tokenKey); err != nil {
		log.Warn().Err(err).Msg("failed to delete persisted token")
	}
	if err := g.store.Delete(identityKey); err != nil {
		log.Warn().Err(err).Msg("failed to delete persisted identity")
	}
	g.mu.Lock()
	g.identity = nil
	g.token = ""
	g.mu.Unlock()
}

// tokenExpired inspects the exp claim of a JWT. Opaque tokens that do not
// parse as JWTs are assumed valid until the backend says otherwise.
func tokenExpired(token string) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return exp.Before(time.Now())
}
