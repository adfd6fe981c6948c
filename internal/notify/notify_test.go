package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatMessage(t *testing.T) {
	s := Summary{
		Service: "Corte Caballero",
		Date:    "2025-03-10",
		Time:    "11:00 AM",
		Name:    "Ana",
		Phone:   "3001234567",
	}
	msg := FormatMessage("Norato B", s)
	assert.True(t, strings.HasPrefix(msg, "¡Hola Norato B!"))
	assert.Contains(t, msg, "• Servicio: Corte Caballero\n")
	assert.Contains(t, msg, "• Hora: 11:00 AM\n")
	assert.Contains(t, msg, "• Teléfono: 3001234567\n")
	assert.NotContains(t, msg, "Email")

	email := "ana@example.com"
	s.Email = &email
	assert.Contains(t, FormatMessage("Norato B", s), "• Email: ana@example.com\n")
}

func TestWhatsAppLink(t *testing.T) {
	link := WhatsAppLink("+57 318 274 5713", "Hola & gracias")
	u, err := url.Parse(link)
	require.NoError(t, err)
	assert.Equal(t, "wa.me", u.Host)
	assert.Equal(t, "/573182745713", u.Path)
	assert.Equal(t, "Hola & gracias", u.Query().Get("text"))
}

func TestWebhookSender(t *testing.T) {
	var got map[string]string
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	s := NewWebhookSender(srv.URL, "tok")
	require.NoError(t, s.Send(context.Background(), "573182745713", "hola"))
	assert.Equal(t, "Bearer tok", auth)
	assert.Equal(t, "573182745713", got["to"])
	assert.Equal(t, "hola", got["body"])
	assert.Equal(t, "webhook", s.ProviderID())
}

func TestWebhookSenderErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	assert.Error(t, NewWebhookSender(srv.URL, "").Send(context.Background(), "1", "x"))
	assert.Error(t, NewWebhookSender("", "").Send(context.Background(), "1", "x"))
}

func TestLinkSender(t *testing.T) {
	var buf bytes.Buffer
	s := &LinkSender{W: &buf}
	require.NoError(t, s.Send(context.Background(), "573182745713", "hola"))
	assert.Equal(t, "https://wa.me/573182745713?text=hola\n", buf.String())
}
