package upstream

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newTestExecutor wires an executor against a test server with counting
// token sources, so tests can observe both HTTP traffic and mint activity.
func newTestExecutor(serverURL string) (*Executor, *fakeSource, *fakeSource) {
	identity := &fakeSource{ttl: time.Hour, base: time.Now()}
	attestation := &fakeSource{ttl: time.Hour, base: time.Now()}
	tokens := NewManager(identity, attestation)
	exec := NewExecutor(serverURL, &http.Client{Timeout: 5 * time.Second}, tokens, discardLogger())
	return exec, identity, attestation
}

func TestExecutorAttachesCredentials(t *testing.T) {
	var gotAuth, gotAttest string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotAttest = r.Header.Get("X-Attestation-Token")
		w.Write([]byte(`{"value":"hello"}`))
	}))
	defer srv.Close()

	exec, _, _ := newTestExecutor(srv.URL)

	var out struct {
		Value string `json:"value"`
	}
	err := exec.Get(context.Background(), "/ping", &out, RequestOptions{RequiresAuth: true})
	require.NoError(t, err)

	assert.Equal(t, "hello", out.Value)
	assert.Equal(t, "Bearer tok-1", gotAuth)
	assert.Equal(t, "tok-1", gotAttest)
}

func TestExecutorOmitsBearerWithoutAuth(t *testing.T) {
	var gotAuth, gotAttest string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotAttest = r.Header.Get("X-Attestation-Token")
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	exec, identity, _ := newTestExecutor(srv.URL)

	err := exec.Get(context.Background(), "/ping", nil, RequestOptions{RequiresAuth: false})
	require.NoError(t, err)

	assert.Empty(t, gotAuth)
	assert.NotEmpty(t, gotAttest)
	assert.Equal(t, 0, identity.count())
}

func TestExecutorRetriesOnceOn401ThenSucceeds(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) == 1 {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	exec, identity, _ := newTestExecutor(srv.URL)

	var out struct {
		OK bool `json:"ok"`
	}
	err := exec.Get(context.Background(), "/data", &out, RequestOptions{RequiresAuth: true})
	require.NoError(t, err)

	assert.True(t, out.OK)
	assert.Equal(t, int32(2), hits.Load())
	// The 401 invalidated the identity token, forcing a second mint.
	assert.Equal(t, 2, identity.count())
}

func TestExecutorRetriesExactlyOnceOnPersistent401(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	exec, _, _ := newTestExecutor(srv.URL)

	err := exec.Get(context.Background(), "/data", nil, RequestOptions{RequiresAuth: true})
	assert.ErrorIs(t, err, ErrAuthenticationRequired)
	assert.Equal(t, int32(2), hits.Load())
}

func TestExecutorPersistent403MapsToAttestation(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	exec, identity, attestation := newTestExecutor(srv.URL)

	err := exec.Get(context.Background(), "/data", nil, RequestOptions{RequiresAuth: true})
	assert.ErrorIs(t, err, ErrAttestationFailed)
	assert.Equal(t, int32(2), hits.Load())
	// A 403 refreshes the attestation token, not the identity token.
	assert.Equal(t, 2, attestation.count())
	assert.Equal(t, 1, identity.count())
}

func TestExecutor401WithoutAuthRefreshesAttestation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	exec, _, attestation := newTestExecutor(srv.URL)

	err := exec.Get(context.Background(), "/data", nil, RequestOptions{RequiresAuth: false})
	assert.ErrorIs(t, err, ErrAttestationFailed)
	assert.Equal(t, 2, attestation.count())
}

func TestExecutorStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("upstream exploded"))
	}))
	defer srv.Close()

	exec, _, _ := newTestExecutor(srv.URL)

	err := exec.Get(context.Background(), "/data", nil, RequestOptions{RequiresAuth: true})

	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusBadGateway, statusErr.Code)
	assert.Contains(t, statusErr.Body, "upstream exploded")
}

func TestExecutorDecodeErrorOnMalformedSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"truncated`))
	}))
	defer srv.Close()

	exec, _, _ := newTestExecutor(srv.URL)

	var out map[string]any
	err := exec.Get(context.Background(), "/data", &out, RequestOptions{RequiresAuth: true})

	// A 2xx with a bad body is a decode failure, never a status failure.
	var decodeErr *DecodeError
	assert.ErrorAs(t, err, &decodeErr)
	var statusErr *StatusError
	assert.False(t, errors.As(err, &statusErr))
}

func TestExecutorIgnoresBodyWhenOutNil(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json at all"))
	}))
	defer srv.Close()

	exec, _, _ := newTestExecutor(srv.URL)

	err := exec.Get(context.Background(), "/data", nil, RequestOptions{RequiresAuth: true})
	assert.NoError(t, err)
}

func TestExecutorEncodeError(t *testing.T) {
	exec, _, _ := newTestExecutor("http://localhost:0")

	// Channels are not JSON-serializable.
	err := exec.Post(context.Background(), "/data", make(chan int), nil, RequestOptions{})

	var encodeErr *EncodeError
	assert.ErrorAs(t, err, &encodeErr)
}

func TestExecutorTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	exec, _, _ := newTestExecutor(srv.URL)

	err := exec.Get(context.Background(), "/data", nil, RequestOptions{RequiresAuth: true})

	var transportErr *TransportError
	assert.ErrorAs(t, err, &transportErr)
}

func TestExecutorPreservesQueryString(t *testing.T) {
	var gotPath, gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	exec, _, _ := newTestExecutor(srv.URL)

	err := exec.Get(context.Background(), "/places/search?query=best+tacos&radius=500", nil, RequestOptions{RequiresAuth: true})
	require.NoError(t, err)

	assert.Equal(t, "/places/search", gotPath)
	assert.Equal(t, "query=best+tacos&radius=500", gotQuery)
}

func TestExecutorPostSendsJSONBody(t *testing.T) {
	var gotContentType string
	var gotBody []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotContentType = r.Header.Get("Content-Type")
		gotBody, _ = io.ReadAll(r.Body)
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	exec, _, _ := newTestExecutor(srv.URL)

	err := exec.Post(context.Background(), "/echo", map[string]string{"q": "pizza"}, nil, RequestOptions{RequiresAuth: true})
	require.NoError(t, err)

	assert.Equal(t, "application/json", gotContentType)
	assert.JSONEq(t, `{"q":"pizza"}`, string(gotBody))
}
