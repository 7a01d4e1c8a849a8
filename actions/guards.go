// Package actions wraps the protected backend operations with local guards.
// Each guard checks session state before any network call, deduplicates
// in-flight generations, and reacts to outcome kinds: Unauthorized drops the
// session, Forbidden is rewritten to the fixed tier message, RateLimited on a
// vote confirms the vote already counted.
package actions

import (
	"context"
	"fmt"
	"sync"

	"artarena/core"
	"artarena/gateway"
	"artarena/logging"

	"go.uber.org/zap"
)

// Guard messages shown when a protected action is attempted anonymously.
const (
	msgArenaLogin   = "Please log in to generate images in the Arena."
	msgPremiumLogin = "Please log in to use the Premium Image Generator."
	msgVoteLogin    = "Please log in to vote for images."

	// msgForbidden replaces whatever the backend sent on a 403: the causes
	// (credit balance, account tier) are indistinguishable client-side.
	msgForbidden = "You don't have enough credits or are not at the right tier for this request."
)

// Session is the slice of the session controller the guards consult.
type Session interface {
	RequireAuthenticated(message string) bool
	HandleUnauthorized()
}

// API is the slice of the gateway the guards drive.
type API interface {
	GenerateImage(ctx context.Context, req gateway.GenerateRequest) (gateway.GenerateResult, gateway.Outcome)
	GeneratePremium(ctx context.Context, req gateway.GenerateRequest) (gateway.GenerateResult, gateway.Outcome)
	ArenaGenerate(ctx context.Context, prompt string) ([]gateway.ArenaImage, gateway.Outcome)
	GalleryImages(ctx context.Context, pageURL string) (gateway.GalleryPage, gateway.Outcome)
	TopImage(ctx context.Context) (gateway.GalleryItem, gateway.Outcome)
	RandomPrompt(ctx context.Context) (string, gateway.Outcome)
	Upvote(ctx context.Context, imageID int64) gateway.Outcome
}

// DirectProvider generates an image locally with the user's own inference
// key, bypassing the backend. Returns a data URL.
type DirectProvider interface {
	Generate(ctx context.Context, prompt, negativePrompt, model string) (string, error)
}

// Artifact is the normalized unit handed to the views: one generated image
// with the context that produced it.
type Artifact struct {
	ID        int64
	RemoteURL string
	Prompt    string
	Model     string
	CreatedAt string
}

// Guards mediates all backend operations for the views.
// Safe for concurrent use.
type Guards struct {
	session Session
	api     API
	log     *logging.Logger

	mu       sync.Mutex
	voted    map[int64]bool
	inflight map[string]bool
}

// NewGuards creates the guard layer.
func NewGuards(session Session, api API, logger *logging.Logger) (*Guards, error) {
	if session == nil {
		return nil, fmt.Errorf("actions: session cannot be nil")
	}
	if api == nil {
		return nil, fmt.Errorf("actions: api cannot be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("actions: logger cannot be nil")
	}

	return &Guards{
		session:  session,
		api:      api,
		log:      logger.Named("actions"),
		voted:    make(map[int64]bool),
		inflight: make(map[string]bool),
	}, nil
}

// FreeGenerate runs a free-tier generation through the backend. No guard:
// the free generator is open to anonymous users.
func (g *Guards) FreeGenerate(ctx context.Context, req gateway.GenerateRequest) (Artifact, gateway.Outcome) {
	if !g.begin("free") {
		return Artifact{}, busyOutcome()
	}
	defer g.end("free")

	correlationID := core.NewCorrelationID()
	g.log.Info("free generation started",
		zap.String("correlation_id", correlationID),
		zap.String("model", req.SelectedModel))

	result, out := g.api.GenerateImage(ctx, req)
	if !out.OK() {
		g.log.Warn("free generation failed",
			zap.String("correlation_id", correlationID),
			zap.String("outcome", out.Kind.String()))
		return Artifact{}, g.react(out)
	}
	return artifactFromResult(result, req), out
}

// DirectGenerate runs a generation against an inference provider with the
// user's own API key, skipping the backend and its credit accounting.
func (g *Guards) DirectGenerate(ctx context.Context, provider DirectProvider, req gateway.GenerateRequest) (string, gateway.Outcome) {
	if provider == nil {
		return "", gateway.Outcome{Kind: gateway.Failure, Message: "no inference key configured"}
	}
	if !g.begin("free") {
		return "", busyOutcome()
	}
	defer g.end("free")

	correlationID := core.NewCorrelationID()
	g.log.Info("direct generation started",
		zap.String("correlation_id", correlationID),
		zap.String("model", req.SelectedModel))

	dataURL, err := provider.Generate(ctx, req.Prompt, req.NegativePrompt, req.SelectedModel)
	if err != nil {
		g.log.Warn("direct generation failed",
			zap.String("correlation_id", correlationID),
			zap.Error(err))
		return "", gateway.Outcome{Kind: gateway.Failure, Message: err.Error()}
	}
	return dataURL, gateway.Outcome{Kind: gateway.Success}
}

// PremiumGenerate runs a premium generation. Guarded: an anonymous attempt
// fires the auth prompt and makes no network call.
func (g *Guards) PremiumGenerate(ctx context.Context, req gateway.GenerateRequest) (Artifact, gateway.Outcome) {
	if !g.session.RequireAuthenticated(msgPremiumLogin) {
		return Artifact{}, unauthenticatedOutcome(msgPremiumLogin)
	}
	if !g.begin("premium") {
		return Artifact{}, busyOutcome()
	}
	defer g.end("premium")

	correlationID := core.NewCorrelationID()
	g.log.Info("premium generation started",
		zap.String("correlation_id", correlationID),
		zap.String("model", req.SelectedModel))

	result, out := g.api.GeneratePremium(ctx, req)
	if !out.OK() {
		g.log.Warn("premium generation failed",
			zap.String("correlation_id", correlationID),
			zap.String("outcome", out.Kind.String()))
		return Artifact{}, g.react(out)
	}
	return artifactFromResult(result, req), out
}

// ArenaGenerate renders one prompt across several models. Guarded.
func (g *Guards) ArenaGenerate(ctx context.Context, prompt string) ([]Artifact, gateway.Outcome) {
	if !g.session.RequireAuthenticated(msgArenaLogin) {
		return nil, unauthenticatedOutcome(msgArenaLogin)
	}
	if !g.begin("arena") {
		return nil, busyOutcome()
	}
	defer g.end("arena")

	correlationID := core.NewCorrelationID()
	g.log.Info("arena generation started",
		zap.String("correlation_id", correlationID),
		zap.String("prompt", core.TruncateText(prompt, 80)))

	images, out := g.api.ArenaGenerate(ctx, prompt)
	if !out.OK() {
		g.log.Warn("arena generation failed",
			zap.String("correlation_id", correlationID),
			zap.String("outcome", out.Kind.String()))
		return nil, g.react(out)
	}

	artifacts := make([]Artifact, 0, len(images))
	for _, img := range images {
		artifacts = append(artifacts, Artifact{
			ID:        img.ID,
			RemoteURL: img.ImageURL,
			Prompt:    img.Prompt,
			Model:     img.Model,
		})
	}
	return artifacts, out
}

// Upvote records a vote for an artifact. Guarded, and idempotent per
// session: a second vote for the same image returns already=true with no
// network call. The local latch is set before the request so a double-tap
// cannot race two requests; it is rolled back when the outcome says the
// vote may not have counted, so the user can retry.
func (g *Guards) Upvote(ctx context.Context, imageID int64) (already bool, out gateway.Outcome) {
	if !g.session.RequireAuthenticated(msgVoteLogin) {
		return false, unauthenticatedOutcome(msgVoteLogin)
	}

	g.mu.Lock()
	if g.voted[imageID] {
		g.mu.Unlock()
		return true, gateway.Outcome{Kind: gateway.Success}
	}
	g.voted[imageID] = true
	g.mu.Unlock()

	out = g.api.Upvote(ctx, imageID)
	switch out.Kind {
	case gateway.Success:
		return false, out
	case gateway.RateLimited:
		// The backend says this account already voted; keep the latch.
		return true, out
	default:
		g.mu.Lock()
		delete(g.voted, imageID)
		g.mu.Unlock()
		return false, g.react(out)
	}
}

// HasVoted reports whether this session already voted for the image.
func (g *Guards) HasVoted(imageID int64) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.voted[imageID]
}

// FetchGallery loads one gallery page. pageURL is "" for the first page or
// an opaque cursor from a previous page. Unguarded.
func (g *Guards) FetchGallery(ctx context.Context, pageURL string) (gateway.GalleryPage, gateway.Outcome) {
	page, out := g.api.GalleryImages(ctx, pageURL)
	if !out.OK() {
		return gateway.GalleryPage{}, g.react(out)
	}
	return page, out
}

// FetchTopImage loads the highest-voted artifact. Unguarded.
func (g *Guards) FetchTopImage(ctx context.Context) (Artifact, gateway.Outcome) {
	item, out := g.api.TopImage(ctx)
	if !out.OK() {
		return Artifact{}, g.react(out)
	}
	return Artifact{
		ID:        item.ID,
		RemoteURL: item.URL,
		Prompt:    item.GenerationLog.Prompt,
		Model:     item.GenerationLog.Model,
		CreatedAt: item.CreatedAt,
	}, out
}

// FetchRandomPrompt loads a starter prompt for the generators. Unguarded.
func (g *Guards) FetchRandomPrompt(ctx context.Context) (string, gateway.Outcome) {
	prompt, out := g.api.RandomPrompt(ctx)
	if !out.OK() {
		return "", g.react(out)
	}
	return prompt, out
}

// react applies the session-level consequences of a failed outcome and
// normalizes its message where the raw backend text is unhelpful.
func (g *Guards) react(out gateway.Outcome) gateway.Outcome {
	switch out.Kind {
	case gateway.Unauthorized:
		g.session.HandleUnauthorized()
	case gateway.Forbidden:
		out.Message = msgForbidden
	}
	return out
}

// begin marks an operation in flight; returns false when one of the same
// kind is already running.
func (g *Guards) begin(op string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.inflight[op] {
		return false
	}
	g.inflight[op] = true
	return true
}

func (g *Guards) end(op string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.inflight, op)
}

func artifactFromResult(result gateway.GenerateResult, req gateway.GenerateRequest) Artifact {
	prompt := req.Prompt
	if result.ImprovedPrompt != "" {
		prompt = result.ImprovedPrompt
	}
	return Artifact{
		RemoteURL: result.ImageURL,
		Prompt:    prompt,
		Model:     req.SelectedModel,
	}
}

func busyOutcome() gateway.Outcome {
	return gateway.Outcome{Kind: gateway.Failure, Message: "a generation is already in progress"}
}

func unauthenticatedOutcome(message string) gateway.Outcome {
	return gateway.Outcome{Kind: gateway.Unauthorized, Message: message}
}

// AuthRefused reports whether the outcome was produced locally by a failed
// auth guard rather than by the backend. The auth prompt already rendered
// the feedback for these, so callers should not print the message again.
func AuthRefused(out gateway.Outcome) bool {
	if out.Kind != gateway.Unauthorized {
		return false
	}
	switch out.Message {
	case msgArenaLogin, msgPremiumLogin, msgVoteLogin:
		return true
	}
	return false
}
