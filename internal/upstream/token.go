package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/forkcast/forkcast-backend/internal/metrics"
)

// Kind identifies which credential a request needs. Identity proves who we
// are to the provider; attestation proves the calling binary is genuine.
// The two have independent lifecycles.
type Kind string

const (
	KindIdentity    Kind = "identity"
	KindAttestation Kind = "attestation"
)

// Token is an opaque credential with its expiry instant.
type Token struct {
	Value     string
	ExpiresAt time.Time
}

func (t Token) valid(now time.Time) bool {
	return t.Value != "" && now.Before(t.ExpiresAt)
}

// Source mints a fresh token of one kind from its external provider.
type Source interface {
	Mint(ctx context.Context) (Token, error)
}

// Manager caches one token per kind and refreshes on demand. All cache
// read-modify-write happens under the mutex; a mint that loses a race simply
// overwrites the cache entry, which is harmless because minting is idempotent.
type Manager struct {
	mu      sync.Mutex
	sources map[Kind]Source
	cache   map[Kind]Token
	now     func() time.Time
}

func NewManager(identity, attestation Source) *Manager {
	return &Manager{
		sources: map[Kind]Source{
			KindIdentity:    identity,
			KindAttestation: attestation,
		},
		cache: make(map[Kind]Token),
		now:   time.Now,
	}
}

// Valid returns a cached token if it has not expired, otherwise mints a new
// one, stores it and returns it. Mint failures are surfaced as the typed
// sentinel for the kind and are never retried inside this call.
func (m *Manager) Valid(ctx context.Context, kind Kind) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if tok, ok := m.cache[kind]; ok && tok.valid(m.now()) {
		return tok.Value, nil
	}

	src, ok := m.sources[kind]
	if !ok || src == nil {
		return "", fmt.Errorf("no token source registered for kind %q", kind)
	}

	tok, err := src.Mint(ctx)
	if err != nil {
		switch kind {
		case KindAttestation:
			return "", fmt.Errorf("%w: %v", ErrAttestationFailed, err)
		default:
			return "", fmt.Errorf("%w: %v", ErrAuthenticationRequired, err)
		}
	}
	if !tok.valid(m.now()) {
		return "", fmt.Errorf("%w: freshly minted %s token already expired", ErrTokenExpired, kind)
	}
	metrics.TokenMints.WithLabelValues(string(kind)).Inc()

	m.cache[kind] = tok
	return tok.Value, nil
}

// Invalidate drops the cached token for a kind so the next Valid call mints
// a fresh one. Used after a 401/403 before the single retry.
func (m *Manager) Invalidate(kind Kind) {
	m.mu.Lock()
	delete(m.cache, kind)
	m.mu.Unlock()
}

// defaultTokenTTL is assumed when the provider omits expires_in.
const defaultTokenTTL = time.Hour

// OAuthSource mints identity tokens from the provider's client-credentials
// token endpoint.
type OAuthSource struct {
	HTTPClient   *http.Client
	TokenURL     string
	ClientID     string
	ClientSecret string
}

type oauthTokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int64  `json:"expires_in"`
}

func (s *OAuthSource) Mint(ctx context.Context) (Token, error) {
	body, err := json.Marshal(map[string]string{
		"grant_type":    "client_credentials",
		"client_id":     s.ClientID,
		"client_secret": s.ClientSecret,
	})
	if err != nil {
		return Token{}, &EncodeError{Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.TokenURL, bytes.NewReader(body))
	if err != nil {
		return Token{}, fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.HTTPClient.Do(req)
	if err != nil {
		return Token{}, &TransportError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Token{}, &StatusError{Code: resp.StatusCode}
	}

	var tr oauthTokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return Token{}, &DecodeError{Err: err}
	}
	if tr.AccessToken == "" {
		return Token{}, fmt.Errorf("token endpoint returned empty access_token")
	}

	return tokenWithTTL(tr.AccessToken, tr.ExpiresIn), nil
}

// IntegritySource mints attestation tokens from the app integrity service.
type IntegritySource struct {
	HTTPClient *http.Client
	URL        string
	APIKey     string
}

type integrityTokenResponse struct {
	AttestationToken string `json:"attestation_token"`
	ExpiresIn        int64  `json:"expires_in"`
}

func (s *IntegritySource) Mint(ctx context.Context) (Token, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.URL, nil)
	if err != nil {
		return Token{}, fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	req.Header.Set("X-API-Key", s.APIKey)

	resp, err := s.HTTPClient.Do(req)
	if err != nil {
		return Token{}, &TransportError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Token{}, &StatusError{Code: resp.StatusCode}
	}

	var tr integrityTokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return Token{}, &DecodeError{Err: err}
	}
	if tr.AttestationToken == "" {
		return Token{}, fmt.Errorf("integrity service returned empty attestation_token")
	}

	return tokenWithTTL(tr.AttestationToken, tr.ExpiresIn), nil
}

func tokenWithTTL(value string, expiresIn int64) Token {
	ttl := defaultTokenTTL
	if expiresIn > 0 {
		ttl = time.Duration(expiresIn) * time.Second
	}
	return Token{Value: value, ExpiresAt: time.Now().Add(ttl)}
}
