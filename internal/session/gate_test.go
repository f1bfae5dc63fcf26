package session

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nekogravitycat/venue-admin/internal/api"
)

type backend struct {
	server     *httptest.Server
	loginCalls int32
	token      string
}

func newBackend(t *testing.T) *backend {
	b := &backend{token: "token-123"}
	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/login", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&b.loginCalls, 1)
		var req struct{ Email, Password string }
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		if req.Password != "correct" {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{"message": "invalid credentials"})
			return
		}
		json.NewEncoder(w).Encode(map[string]string{"token": b.token})
	})
	mux.HandleFunc("GET /admin/me", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer "+b.token {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		json.NewEncoder(w).Encode(Identity{ID: "1", Email: "admin@example.com", Name: "Admin"})
	})
	b.server = httptest.NewServer(mux)
	t.Cleanup(b.server.Close)
	return b
}

func newGate(t *testing.T) (*Gate, *FileStore) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)
	return NewGate(store), store
}

func persisted(t *testing.T, store *FileStore, key string) ([]byte, bool) {
	data, ok, err := store.Read(key)
	require.NoError(t, err)
	return data, ok
}

func TestLoginValidatesBeforeNetwork(t *testing.T) {
	b := newBackend(t)
	gate, _ := newGate(t)
	client := api.NewClient(b.server.URL, time.Second, gate.Token)

	_, err := gate.Login(context.Background(), client, "admin@example.com", "")
	require.ErrorIs(t, err, ErrMissingCredentials)
	_, err = gate.Login(context.Background(), client, "", "secret")
	require.ErrorIs(t, err, ErrMissingCredentials)

	assert.Equal(t, int32(0), atomic.LoadInt32(&b.loginCalls), "no network call for empty fields")
}

func TestLoginWrongCredentialsPersistsNothing(t *testing.T) {
	b := newBackend(t)
	gate, store := newGate(t)
	client := api.NewClient(b.server.URL, time.Second, gate.Token)

	_, err := gate.Login(context.Background(), client, "admin@example.com", "wrong")
	require.Error(t, err)
	assert.EqualError(t, err, "invalid credentials")

	assert.False(t, gate.IsAuthenticated())
	_, ok := persisted(t, store, tokenKey)
	assert.False(t, ok, "no token may be persisted after a failed login")
	_, ok = persisted(t, store, identityKey)
	assert.False(t, ok)
}

func TestLoginSuccessPersistsBothHalves(t *testing.T) {
	b := newBackend(t)
	gate, store := newGate(t)
	client := api.NewClient(b.server.URL, time.Second, gate.Token)

	ident, err := gate.Login(context.Background(), client, "admin@example.com", "correct")
	require.NoError(t, err)
	assert.Equal(t, "admin@example.com", ident.Email)
	assert.True(t, gate.IsAuthenticated())
	assert.Equal(t, "token-123", gate.Token())

	tokenData, ok := persisted(t, store, tokenKey)
	require.True(t, ok)
	assert.Equal(t, "token-123", string(tokenData))
	identData, ok := persisted(t, store, identityKey)
	require.True(t, ok)
	var restored Identity
	require.NoError(t, json.Unmarshal(identData, &restored))
	assert.Equal(t, ident, restored)
}

func TestLogoutAlwaysClears(t *testing.T) {
	b := newBackend(t)
	gate, store := newGate(t)
	client := api.NewClient(b.server.URL, time.Second, gate.Token)

	_, err := gate.Login(context.Background(), client, "admin@example.com", "correct")
	require.NoError(t, err)

	gate.Logout()
	assert.False(t, gate.IsAuthenticated())
	_, ok := persisted(t, store, tokenKey)
	assert.False(t, ok)
	_, ok = persisted(t, store, identityKey)
	assert.False(t, ok)

	// Logging out while already unauthenticated is a no-op, never an error.
	gate.Logout()
	assert.False(t, gate.IsAuthenticated())
}

func TestRestoreRequiresBothHalves(t *testing.T) {
	t.Run("token without identity", func(t *testing.T) {
		gate, store := newGate(t)
		require.NoError(t, store.Write(tokenKey, []byte("token-123")))

		gate.Restore()
		assert.False(t, gate.IsAuthenticated())
		_, ok := persisted(t, store, tokenKey)
		assert.False(t, ok, "the lone half must be cleared")
	})

	t.Run("identity without token", func(t *testing.T) {
		gate, store := newGate(t)
		require.NoError(t, store.Write(identityKey, []byte(`{"id":"1","email":"a@b.c","name":"A"}`)))

		gate.Restore()
		assert.False(t, gate.IsAuthenticated())
		_, ok := persisted(t, store, identityKey)
		assert.False(t, ok)
	})

	t.Run("both halves valid", func(t *testing.T) {
		gate, store := newGate(t)
		require.NoError(t, store.Write(tokenKey, []byte("token-123")))
		require.NoError(t, store.Write(identityKey, []byte(`{"id":"1","email":"a@b.c","name":"A"}`)))

		gate.Restore()
		assert.True(t, gate.IsAuthenticated())
		ident, ok := gate.Identity()
		require.True(t, ok)
		assert.Equal(t, "a@b.c", ident.Email)
	})
}

func TestRestoreClearsMalformedSession(t *testing.T) {
	gate, store := newGate(t)
	require.NoError(t, store.Write(tokenKey, []byte("token-123")))
	require.NoError(t, store.Write(identityKey, []byte(`{"id":"1",`)))

	gate.Restore()
	assert.False(t, gate.IsAuthenticated())

	_, ok := persisted(t, store, tokenKey)
	assert.False(t, ok, "malformed session clears the token too")
	_, ok = persisted(t, store, identityKey)
	assert.False(t, ok)
}

func TestExpiredJWTIsUnauthenticated(t *testing.T) {
	// HS256 JWT with exp in 2020; the signature is irrelevant for the
	// client-side expiry check.
	expired := "eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9." +
		"eyJzdWIiOiIxIiwiZXhwIjoxNTc3ODM2ODAwfQ." +
		"l0Grf1eGMrYlH6qCLJ-PF3rSQRzQcqUbbDJrOWr6mKY"

	gate, store := newGate(t)
	require.NoError(t, store.Write(tokenKey, []byte(expired)))
	require.NoError(t, store.Write(identityKey, []byte(`{"id":"1","email":"a@b.c","name":"A"}`)))

	gate.Restore()
	assert.False(t, gate.IsAuthenticated())

	// An opaque token has no readable expiry and is trusted until the
	// backend rejects it.
	require.NoError(t, store.Write(tokenKey, []byte("opaque-token")))
	require.NoError(t, store.Write(identityKey, []byte(`{"id":"1","email":"a@b.c","name":"A"}`)))
	gate.Restore()
	assert.True(t, gate.IsAuthenticated())
}
