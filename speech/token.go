package speech

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"supportdesk/models"
)

var ErrTokenFailed = errors.New("streaming token request failed")

const (
	DefaultTokenURL     = "https://streaming.assemblyai.com/v3/token"
	DefaultWebsocketURL = "wss://streaming.assemblyai.com/v3/ws"
	tokenHTTPTimeout    = 10 * time.Second
)

// TokenIssuer exchanges the server's API key for short-lived streaming
// tokens. Browsers only ever see the temporary token.
type TokenIssuer struct {
	apiKey       string
	tokenURL     string
	websocketURL string
	ttl          time.Duration
	httpClient   *http.Client
}

func NewTokenIssuer(apiKey, tokenURL, websocketURL string, ttl time.Duration) *TokenIssuer {
	if tokenURL == "" {
		tokenURL = DefaultTokenURL
	}
	if websocketURL == "" {
		websocketURL = DefaultWebsocketURL
	}
	return &TokenIssuer{
		apiKey:       apiKey,
		tokenURL:     tokenURL,
		websocketURL: websocketURL,
		ttl:          ttl,
		httpClient:   &http.Client{Timeout: tokenHTTPTimeout},
	}
}

// Issue requests a new temporary token valid for the configured TTL.
func (t *TokenIssuer) Issue(ctx context.Context) (models.TranscriptionToken, error) {
	if t == nil || t.apiKey == "" {
		return models.TranscriptionToken{}, ErrNotConfigured
	}

	u, err := url.Parse(t.tokenURL)
	if err != nil {
		return models.TranscriptionToken{}, fmt.Errorf("%w: bad token url: %v", ErrTokenFailed, err)
	}
	seconds := int(t.ttl / time.Second)
	q := u.Query()
	q.Set("expires_in_seconds", strconv.Itoa(seconds))
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return models.TranscriptionToken{}, fmt.Errorf("%w: %v", ErrTokenFailed, err)
	}
	req.Header.Set("Authorization", t.apiKey)

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return models.TranscriptionToken{}, fmt.Errorf("%w: %v", ErrTokenFailed, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return models.TranscriptionToken{}, fmt.Errorf("%w: read response: %v", ErrTokenFailed, err)
	}
	if resp.StatusCode != http.StatusOK {
		return models.TranscriptionToken{}, fmt.Errorf("%w: provider returned %d: %s", ErrTokenFailed, resp.StatusCode, string(body))
	}

	var payload struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return models.TranscriptionToken{}, fmt.Errorf("%w: decode response: %v", ErrTokenFailed, err)
	}
	if payload.Token == "" {
		return models.TranscriptionToken{}, fmt.Errorf("%w: empty token", ErrTokenFailed)
	}

	return models.TranscriptionToken{
		Token:        payload.Token,
		WebsocketURL: t.websocketURL,
		ExpiresIn:    seconds,
	}, nil
}
