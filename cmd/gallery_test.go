package cmd

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"artarena/gateway"
)

// scriptedGallery feeds renderGallery canned pages and outcomes.
type scriptedGallery struct {
	pages   []gateway.GalleryPage
	outcome gateway.Outcome
	fetches int
	voted   map[int64]bool
}

func (s *scriptedGallery) FetchGallery(ctx context.Context, pageURL string) (gateway.GalleryPage, gateway.Outcome) {
	fetch := s.fetches
	s.fetches++
	if !s.outcome.OK() {
		return gateway.GalleryPage{}, s.outcome
	}
	return s.pages[fetch], s.outcome
}

func (s *scriptedGallery) HasVoted(imageID int64) bool {
	return s.voted[imageID]
}

func TestVoteFeedback(t *testing.T) {
	tests := []struct {
		name        string
		already     bool
		out         gateway.Outcome
		wantMessage string
		wantErr     bool
	}{
		{
			name:        "fresh vote",
			out:         gateway.Outcome{Kind: gateway.Success},
			wantMessage: "Voted for image 42.",
		},
		{
			name:        "local latch caught the repeat",
			already:     true,
			out:         gateway.Outcome{Kind: gateway.Success},
			wantMessage: "You already voted for image 42.",
		},
		{
			// The backend rejecting a repeat vote is the already-voted
			// state, not an error.
			name:        "backend caught the repeat",
			already:     true,
			out:         gateway.Outcome{Kind: gateway.RateLimited, Message: "You have already voted for this image."},
			wantMessage: "You already voted for image 42.",
		},
		{
			name:    "timeout",
			out:     gateway.Outcome{Kind: gateway.Timeout, Message: "request timed out"},
			wantErr: true,
		},
		{
			name:    "guard refused",
			out:     gateway.Outcome{Kind: gateway.Unauthorized, Message: "Please log in to vote for images."},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			message, err := voteFeedback(42, tt.already, tt.out)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected an error")
				}
				return
			}
			if err != nil {
				t.Fatalf("voteFeedback() error: %v", err)
			}
			if message != tt.wantMessage {
				t.Errorf("message = %q, want %q", message, tt.wantMessage)
			}
		})
	}
}

func TestRenderGallery_FailureRendersEmptyState(t *testing.T) {
	guards := &scriptedGallery{
		outcome: gateway.Outcome{Kind: gateway.Failure, Message: "internal server error"},
	}

	var buf bytes.Buffer
	shown := renderGallery(context.Background(), guards, &buf, 3)

	if shown != 0 {
		t.Errorf("shown = %d, want 0", shown)
	}
	if guards.fetches != 1 {
		t.Errorf("fetches = %d, want 1 (no retry on failure)", guards.fetches)
	}
	if buf.Len() != 0 {
		t.Errorf("gallery listing should be empty, got %q", buf.String())
	}
}

func TestRenderGallery_Pagination(t *testing.T) {
	guards := &scriptedGallery{
		outcome: gateway.Outcome{Kind: gateway.Success},
		voted:   map[int64]bool{2: true},
		pages: []gateway.GalleryPage{
			{
				Results: []gateway.GalleryItem{{ID: 1, URL: "https://cdn.example.com/1.png", Votes: 3}},
				Next:    "https://api.example.com/api/gallery-images/?page=2",
			},
			{
				Results: []gateway.GalleryItem{{ID: 2, URL: "https://cdn.example.com/2.png", Votes: 1}},
			},
		},
	}

	var buf bytes.Buffer
	shown := renderGallery(context.Background(), guards, &buf, 5)

	if shown != 2 {
		t.Errorf("shown = %d, want 2", shown)
	}
	if guards.fetches != 2 {
		t.Errorf("fetches = %d, want 2 (stop when Next is empty)", guards.fetches)
	}
	if !strings.Contains(buf.String(), "* [2]") {
		t.Errorf("voted marker missing from listing:\n%s", buf.String())
	}
}

func TestRenderGallery_RespectsPageLimit(t *testing.T) {
	guards := &scriptedGallery{
		outcome: gateway.Outcome{Kind: gateway.Success},
		pages: []gateway.GalleryPage{
			{
				Results: []gateway.GalleryItem{{ID: 1, URL: "https://cdn.example.com/1.png"}},
				Next:    "https://api.example.com/api/gallery-images/?page=2",
			},
		},
	}

	var buf bytes.Buffer
	renderGallery(context.Background(), guards, &buf, 1)

	if guards.fetches != 1 {
		t.Errorf("fetches = %d, want 1", guards.fetches)
	}
}
