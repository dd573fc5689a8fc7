package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/forkcast/forkcast-backend/internal/metrics"
)

const maxErrorBodyBytes = 2048

// RequestOptions control credential handling for a single call.
type RequestOptions struct {
	// RequiresAuth attaches the identity bearer token. The attestation token
	// travels on every request regardless; the provider validates the calling
	// binary even on otherwise public endpoints.
	RequiresAuth bool
}

// Executor issues JSON requests against one provider base URL, attaching
// cached credentials and retrying exactly once on 401/403 after refreshing
// the offending token. It never retries a second failure of the same kind.
type Executor struct {
	baseURL    string
	httpClient *http.Client
	tokens     *Manager
	logger     *slog.Logger
}

func NewExecutor(baseURL string, httpClient *http.Client, tokens *Manager, logger *slog.Logger) *Executor {
	return &Executor{
		baseURL:    baseURL,
		httpClient: httpClient,
		tokens:     tokens,
		logger:     logger,
	}
}

func (e *Executor) Get(ctx context.Context, path string, out any, opts RequestOptions) error {
	return e.do(ctx, http.MethodGet, path, nil, out, opts)
}

func (e *Executor) Post(ctx context.Context, path string, body, out any, opts RequestOptions) error {
	return e.do(ctx, http.MethodPost, path, body, out, opts)
}

func (e *Executor) do(ctx context.Context, method, path string, body, out any, opts RequestOptions) error {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return &EncodeError{Err: err}
		}
	}

	// JoinPath escapes its elements, so the query string travels separately.
	pathOnly, query, _ := strings.Cut(path, "?")
	reqURL, err := url.JoinPath(e.baseURL, pathOnly)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	if query != "" {
		reqURL += "?" + query
	}

	status, respBody, err := e.attempt(ctx, method, reqURL, payload, opts)
	if err != nil {
		return err
	}

	// One retry, only for 401/403. The offending cached token is dropped and
	// re-minted, then the identical request goes out once more.
	if status == http.StatusUnauthorized || status == http.StatusForbidden {
		kind := e.offendingKind(status, opts)
		e.tokens.Invalidate(kind)
		metrics.UpstreamRetries.Inc()
		e.logger.Warn("upstream rejected credential, retrying once",
			"method", method, "path", path, "status", status, "kind", string(kind))

		status, respBody, err = e.attempt(ctx, method, reqURL, payload, opts)
		if err != nil {
			return err
		}
	}

	switch {
	case status >= 200 && status < 300:
		if out == nil {
			return nil
		}
		if err := json.Unmarshal(respBody, out); err != nil {
			return &DecodeError{Err: err}
		}
		return nil
	case status == http.StatusUnauthorized && opts.RequiresAuth:
		return ErrAuthenticationRequired
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return ErrAttestationFailed
	default:
		return &StatusError{Code: status, Body: string(respBody)}
	}
}

// offendingKind decides which credential a 401/403 invalidates. A 403 is
// always the attestation token. A 401 on an authenticated request is the
// identity token; on an unauthenticated request the only credential attached
// was the attestation token, so that is the one refreshed.
func (e *Executor) offendingKind(status int, opts RequestOptions) Kind {
	if status == http.StatusUnauthorized && opts.RequiresAuth {
		return KindIdentity
	}
	return KindAttestation
}

func (e *Executor) attempt(ctx context.Context, method, reqURL string, payload []byte, opts RequestOptions) (int, []byte, error) {
	var bodyReader io.Reader
	if payload != nil {
		bodyReader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, bodyReader)
	if err != nil {
		return 0, nil, ErrInvalidURL
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if opts.RequiresAuth {
		identity, err := e.tokens.Valid(ctx, KindIdentity)
		if err != nil {
			return 0, nil, err
		}
		req.Header.Set("Authorization", "Bearer "+identity)
	}
	attestation, err := e.tokens.Valid(ctx, KindAttestation)
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("X-Attestation-Token", attestation)

	start := time.Now()
	resp, err := e.httpClient.Do(req)
	if err != nil {
		metrics.UpstreamRequests.WithLabelValues(method, "transport_error").Inc()
		return 0, nil, &TransportError{Err: err}
	}
	defer resp.Body.Close()

	metrics.UpstreamRequests.WithLabelValues(method, strconv.Itoa(resp.StatusCode)).Inc()
	metrics.UpstreamLatency.Observe(time.Since(start).Seconds())

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, &TransportError{Err: err}
	}
	if resp.StatusCode >= 300 && len(respBody) > maxErrorBodyBytes {
		respBody = respBody[:maxErrorBodyBytes]
	}

	return resp.StatusCode, respBody, nil
}
