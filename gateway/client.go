// Package gateway is the typed wrapper around the Art Arena backend REST
// API. It attaches token auth where required and classifies every response
// into an Outcome so callers handle errors uniformly.
//
// The gateway never mutates session state itself: an Unauthorized outcome
// is reported to the caller, and the session controller decides what to do
// with it.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"artarena/core"
	"artarena/logging"

	"go.uber.org/zap"
)

// TokenSource supplies the current bearer token, or "" when anonymous.
// The persistent session store implements this.
type TokenSource interface {
	Token() string
}

// Client issues requests against the backend API.
// Safe for concurrent use.
type Client struct {
	baseURL string
	http    *http.Client
	tokens  TokenSource
	log     *logging.Logger
}

// NewClient creates a gateway client.
//
// Parameters:
//   - baseURL: backend base URL without trailing slash
//   - tokens: source of the current bearer token (required)
//   - httpClient: transport to use; nil gets a default with a 60s timeout
//   - logger: structured logger (required)
func NewClient(baseURL string, tokens TokenSource, httpClient *http.Client, logger *logging.Logger) (*Client, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("gateway: base URL is required")
	}
	if tokens == nil {
		return nil, fmt.Errorf("gateway: token source cannot be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("gateway: logger cannot be nil")
	}
	if httpClient == nil {
		httpClient = core.GetHTTPClient(60 * time.Second)
	}

	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
		tokens:  tokens,
		log:     logger.Named("gateway"),
	}, nil
}

// Login exchanges credentials for a bearer token and the account's credit
// balance.
func (c *Client) Login(ctx context.Context, email, password string) (LoginResult, Outcome) {
	var result LoginResult
	out := c.post(ctx, "/api/login/", map[string]string{
		"email":    email,
		"password": password,
	}, false, &result)
	if !out.OK() {
		return LoginResult{}, out
	}
	if result.Token == "" {
		return LoginResult{}, failureOutcome("login response missing token")
	}
	return result, out
}

// Register creates an account. Depending on backend configuration the
// response carries a token (immediate login) or a pending-verification
// message.
func (c *Client) Register(ctx context.Context, email, password, displayName string) (RegisterResult, Outcome) {
	payload := map[string]string{
		"email":    email,
		"password": password,
	}
	if displayName != "" {
		payload["username"] = displayName
	}

	var result RegisterResult
	out := c.post(ctx, "/api/register/", payload, false, &result)
	if !out.OK() {
		return RegisterResult{}, out
	}
	if result.Token == "" && result.Message == "" {
		return RegisterResult{}, failureOutcome("register response missing token and message")
	}
	return result, out
}

// Activate completes the out-of-band email verification flow with the
// activation token from the verification link.
func (c *Client) Activate(ctx context.Context, token string) (ActivateResult, Outcome) {
	var result ActivateResult
	out := c.post(ctx, "/api/activate/", map[string]string{"token": token}, false, &result)
	if !out.OK() {
		return ActivateResult{}, out
	}
	return result, out
}

// GenerateImage runs a free-tier generation. No auth required.
func (c *Client) GenerateImage(ctx context.Context, req GenerateRequest) (GenerateResult, Outcome) {
	return c.generate(ctx, "/api/generate-image/", req, false)
}

// GeneratePremium runs a premium generation. Requires auth.
func (c *Client) GeneratePremium(ctx context.Context, req GenerateRequest) (GenerateResult, Outcome) {
	return c.generate(ctx, "/api/generate-image-premium/", req, true)
}

func (c *Client) generate(ctx context.Context, path string, req GenerateRequest, requiresAuth bool) (GenerateResult, Outcome) {
	var result GenerateResult
	out := c.post(ctx, path, req, requiresAuth, &result)
	if !out.OK() {
		return GenerateResult{}, out
	}
	if result.ImageURL == "" {
		return GenerateResult{}, failureOutcome("generation response missing image_url")
	}
	return result, out
}

// ArenaGenerate renders one prompt with several models. Requires auth.
func (c *Client) ArenaGenerate(ctx context.Context, prompt string) ([]ArenaImage, Outcome) {
	var result arenaResponse
	out := c.post(ctx, "/api/arena-generate/", map[string]string{"prompt": prompt}, true, &result)
	if !out.OK() {
		return nil, out
	}
	if len(result.Results) == 0 {
		return nil, failureOutcome("arena response contained no images")
	}
	return result.Results, out
}

// GalleryImages fetches one gallery page. pageURL is either "" for the
// first page or an opaque cursor URL from a previous page's Next/Previous.
func (c *Client) GalleryImages(ctx context.Context, pageURL string) (GalleryPage, Outcome) {
	rawURL := pageURL
	if rawURL == "" {
		rawURL = c.baseURL + "/api/gallery-images/"
	}

	var page GalleryPage
	out := c.getURL(ctx, rawURL, false, &page)
	if !out.OK() {
		return GalleryPage{}, out
	}
	return page, out
}

// TopImage fetches the highest-voted artifact.
func (c *Client) TopImage(ctx context.Context) (GalleryItem, Outcome) {
	var item GalleryItem
	out := c.get(ctx, "/api/top-image/", false, &item)
	if !out.OK() {
		return GalleryItem{}, out
	}
	if item.URL == "" {
		return GalleryItem{}, failureOutcome("top image response missing url")
	}
	return item, out
}

// RandomPrompt fetches a starter prompt for the generators.
func (c *Client) RandomPrompt(ctx context.Context) (string, Outcome) {
	var result randomPromptResponse
	out := c.get(ctx, "/api/random-prompt/", false, &result)
	if !out.OK() {
		return "", out
	}
	if result.Prompt == "" {
		return "", failureOutcome("random prompt response was empty")
	}
	return result.Prompt, out
}

// Upvote records a vote for an artifact. Requires auth. The backend
// answers 429 when this account already voted for the image.
func (c *Client) Upvote(ctx context.Context, imageID int64) Outcome {
	return c.post(ctx, "/api/images/upvote/", map[string]int64{"image_id": imageID}, true, nil)
}

// post issues a JSON POST and decodes the response into out (when non-nil).
func (c *Client) post(ctx context.Context, path string, payload interface{}, requiresAuth bool, out interface{}) Outcome {
	body, err := json.Marshal(payload)
	if err != nil {
		return failureOutcome(fmt.Sprintf("failed to encode request: %v", err))
	}
	return c.do(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body), requiresAuth, out)
}

// get issues a GET against a path relative to the base URL.
func (c *Client) get(ctx context.Context, path string, requiresAuth bool, out interface{}) Outcome {
	return c.do(ctx, http.MethodGet, c.baseURL+path, nil, requiresAuth, out)
}

// getURL issues a GET against an absolute URL (pagination cursors).
func (c *Client) getURL(ctx context.Context, rawURL string, requiresAuth bool, out interface{}) Outcome {
	return c.do(ctx, http.MethodGet, rawURL, nil, requiresAuth, out)
}

func (c *Client) do(ctx context.Context, method, rawURL string, body io.Reader, requiresAuth bool, out interface{}) Outcome {
	req, err := http.NewRequestWithContext(ctx, method, rawURL, body)
	if err != nil {
		return failureOutcome(fmt.Sprintf("failed to build request: %v", err))
	}
	req.Header.Set("Content-Type", "application/json")

	if requiresAuth {
		// No token: the request still fires without the header and the
		// server rejects it. Callers that want to skip the round trip
		// check the session state first via the action guards.
		if token := c.tokens.Token(); token != "" {
			req.Header.Set("Authorization", "Token "+token)
		}
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		outcome := classifyTransportError(err)
		c.log.Warn("request failed before response",
			zap.String("method", method),
			zap.String("url", rawURL),
			zap.String("outcome", outcome.Kind.String()),
			zap.Error(err))
		return outcome
	}
	defer resp.Body.Close()

	respBody, readErr := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if readErr != nil {
		return failureOutcome(fmt.Sprintf("failed to read response: %v", readErr))
	}

	outcome := classifyStatus(resp.StatusCode, respBody)
	c.log.Debug("request complete",
		zap.String("method", method),
		zap.String("url", rawURL),
		zap.Int("status", resp.StatusCode),
		zap.String("outcome", outcome.Kind.String()),
		zap.Duration("elapsed", time.Since(start)))

	if !outcome.OK() {
		return outcome
	}

	if out != nil {
		if err := json.Unmarshal(respBody, out); err != nil {
			return failureOutcome(fmt.Sprintf("unexpected response shape: %v", err))
		}
	}
	return outcome
}

// classifyTransportError maps request-level failures: timeouts become
// Timeout, everything else Failure.
func classifyTransportError(err error) Outcome {
	if errors.Is(err, context.DeadlineExceeded) {
		return Outcome{Kind: Timeout, Message: "request timed out"}
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return Outcome{Kind: Timeout, Message: "request timed out"}
	}
	return failureOutcome(err.Error())
}

// classifyStatus maps an HTTP status and body to an Outcome.
func classifyStatus(status int, body []byte) Outcome {
	switch {
	case status >= 200 && status < 300:
		return successOutcome()
	case status == http.StatusUnauthorized:
		return Outcome{Kind: Unauthorized, Message: extractMessage(body, "authentication required")}
	case status == http.StatusForbidden:
		return Outcome{Kind: Forbidden, Message: extractMessage(body, "forbidden")}
	case status == http.StatusTooManyRequests:
		return Outcome{Kind: RateLimited, Message: extractMessage(body, "already performed")}
	case status == http.StatusGatewayTimeout:
		return Outcome{Kind: Timeout, Message: extractMessage(body, "server timed out")}
	default:
		return failureOutcome(extractMessage(body, http.StatusText(status)))
	}
}

// extractMessage pulls the best available human-readable message from an
// error body, falling back to the given default.
func extractMessage(body []byte, fallback string) string {
	var parsed errorBody
	if err := json.Unmarshal(body, &parsed); err == nil {
		switch {
		case parsed.Message != "":
			return parsed.Message
		case parsed.Detail != "":
			return parsed.Detail
		case parsed.Error != "":
			return parsed.Error
		}
	}

	trimmed := strings.TrimSpace(string(body))
	if trimmed != "" && len(trimmed) <= 200 && !strings.HasPrefix(trimmed, "<") {
		return trimmed
	}
	return fallback
}
