package store

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenSourceReturnsCachedToken(t *testing.T) {
	ts := NewTokenSource(TokenConfig{
		AccessToken: "cached",
		Expiry:      time.Now().Add(time.Hour),
	})

	token, err := ts.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "cached", token)
}

func TestTokenSourceRefreshesExpiredToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "refresh_token", r.PostForm.Get("grant_type"))
		assert.Equal(t, "refresh-1", r.PostForm.Get("refresh_token"))

		json.NewEncoder(w).Encode(map[string]interface{}{
			"access_token": "fresh",
			"expires_in":   3600,
		})
	}))
	t.Cleanup(srv.Close)

	ts := NewTokenSource(TokenConfig{
		TokenURL:     srv.URL,
		RefreshToken: "refresh-1",
		AccessToken:  "stale",
		Expiry:       time.Now().Add(-time.Minute),
	})

	token, err := ts.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "fresh", token)

	// next call serves the refreshed token without another round trip
	srv.Close()
	token, err = ts.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "fresh", token)
}

func TestTokenSourceInvalidGrant(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"error": "invalid_grant"})
	}))
	t.Cleanup(srv.Close)

	ts := NewTokenSource(TokenConfig{
		TokenURL:     srv.URL,
		RefreshToken: "revoked",
	})

	_, err := ts.Token(context.Background())
	assert.ErrorIs(t, err, ErrReauthRequired)
}

func TestTokenSourceWithoutCredentials(t *testing.T) {
	ts := NewTokenSource(TokenConfig{})

	assert.False(t, ts.Connected())
	_, err := ts.Token(context.Background())
	assert.ErrorIs(t, err, ErrReauthRequired)
}

func TestTokenSourceClear(t *testing.T) {
	ts := NewTokenSource(TokenConfig{AccessToken: "x", RefreshToken: "y", Expiry: time.Now().Add(time.Hour)})
	require.True(t, ts.Connected())

	ts.Clear()
	assert.False(t, ts.Connected())
}
