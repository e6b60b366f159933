package pinataclient

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourname/pin_relay/internal/models"
	"github.com/yourname/pin_relay/pkg/pinataproto"
)

func newTestClient(t *testing.T, h http.HandlerFunc) Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return New(srv.URL+"/", Credentials{APIKey: "key", APISecret: "secret"})
}

func TestPinFile(t *testing.T) {
	var gotBody string
	cli := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, pinataproto.PinFilePath, r.URL.Path)
		assert.Equal(t, "key", r.Header.Get(pinataproto.HeaderAPIKey))
		assert.Equal(t, "secret", r.Header.Get(pinataproto.HeaderAPISecret))
		assert.Equal(t, "multipart/form-data; boundary=x", r.Header.Get("Content-Type"))
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
		_, _ = io.WriteString(w, `{"IpfsHash":"bafy123","PinSize":42,"Timestamp":"2024-05-01T10:00:00Z","isDuplicate":true}`)
	})

	resp, err := cli.PinFile(context.Background(), strings.NewReader("payload"), "multipart/form-data; boundary=x")
	require.NoError(t, err)

	assert.Equal(t, "payload", gotBody)
	assert.Equal(t, "bafy123", resp.IpfsHash)
	assert.Equal(t, int64(42), resp.PinSize)
	assert.True(t, resp.IsDuplicate)
}

func TestPinFile_Non2xx(t *testing.T) {
	cli := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.Copy(io.Discard, r.Body)
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = io.WriteString(w, `{"error":{"reason":"INVALID_API_KEYS"}}`+"\n")
	})

	_, err := cli.PinFile(context.Background(), strings.NewReader("x"), "multipart/form-data")

	var upstream *models.UpstreamError
	require.ErrorAs(t, err, &upstream)
	assert.Equal(t, http.StatusUnauthorized, upstream.StatusCode)
	assert.Equal(t, `{"error":{"reason":"INVALID_API_KEYS"}}`, upstream.Message)
}

func TestPinFile_MissingHash(t *testing.T) {
	cli := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{}`)
	})

	_, err := cli.PinFile(context.Background(), strings.NewReader("x"), "multipart/form-data")
	assert.ErrorIs(t, err, models.ErrUpstreamUnavailable)
}

func TestPinFile_ErrorBodyIsCapped(t *testing.T) {
	cli := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = io.WriteString(w, strings.Repeat("x", 3*maxErrorBody))
	})

	_, err := cli.PinFile(context.Background(), strings.NewReader("x"), "multipart/form-data")

	var upstream *models.UpstreamError
	require.ErrorAs(t, err, &upstream)
	assert.Len(t, upstream.Message, maxErrorBody)
}

func TestUnpin(t *testing.T) {
	cli := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/pinning/unpin/bafy123", r.URL.Path)
		assert.Equal(t, "key", r.Header.Get(pinataproto.HeaderAPIKey))
		_, _ = io.WriteString(w, "OK")
	})

	require.NoError(t, cli.Unpin(context.Background(), "bafy123"))
}

func TestUnpin_NotFound(t *testing.T) {
	cli := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "CURRENT_USER_HAS_NOT_PINNED_CID", http.StatusNotFound)
	})

	err := cli.Unpin(context.Background(), "bafy123")

	var upstream *models.UpstreamError
	require.ErrorAs(t, err, &upstream)
	assert.Equal(t, http.StatusNotFound, upstream.StatusCode)
}

func TestTestAuthentication(t *testing.T) {
	cli := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != pinataproto.TestAuthPath || r.Header.Get(pinataproto.HeaderAPISecret) != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_, _ = io.WriteString(w, `{"message":"Congratulations! You are communicating with the Pinata API!"}`)
	})

	assert.NoError(t, cli.TestAuthentication(context.Background()))
}

func TestNew_DefaultsToPinataAPI(t *testing.T) {
	cli := New("  ", Credentials{}).(*httpClient)
	assert.Equal(t, pinataproto.DefaultBaseURL, cli.baseURL)
}
