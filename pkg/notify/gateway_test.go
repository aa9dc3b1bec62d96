package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWebhookGateway_Send(t *testing.T) {
	var got Message
	var subject string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		claims := &jwt.RegisteredClaims{}
		_, err := jwt.ParseWithClaims(auth, claims, func(*jwt.Token) (interface{}, error) {
			return []byte("hook-secret"), nil
		})
		if err != nil {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		subject = claims.Subject
		_ = json.NewDecoder(r.Body).Decode(&got)
		_, _ = w.Write([]byte(`{"messageId":"m-1"}`))
	}))
	defer srv.Close()

	gw := NewWebhookGateway(srv.URL, "hook-secret", time.Second)
	id, err := gw.Send(context.Background(), Message{To: "ada@example.com", Subject: "hi", Body: "hello", Language: "en"})
	require.NoError(t, err)
	assert.Equal(t, "m-1", id)
	assert.Equal(t, "notifications", subject)
	assert.Equal(t, "ada@example.com", got.To)

	bad := NewWebhookGateway(srv.URL, "wrong", time.Second)
	_, err = bad.Send(context.Background(), Message{To: "ada@example.com"})
	assert.Error(t, err)
}

func TestWebhookGateway_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := NewWebhookGateway(srv.URL, "", time.Second).Send(context.Background(), Message{To: "a@b.c"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}

func TestMockGateway(t *testing.T) {
	gw := NewMockGateway("test")
	id, err := gw.Send(context.Background(), Message{To: "a@b.c"})
	require.NoError(t, err)
	assert.Equal(t, "test-MOCK-MSG-1", id)
	assert.Len(t, gw.Sent(), 1)
}
