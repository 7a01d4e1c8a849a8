package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"artarena/gateway"
)

var galleryPages int

var galleryCmd = &cobra.Command{
	Use:   "gallery",
	Short: "Browse the community gallery",
	Args:  cobra.NoArgs,
	RunE:  runGallery,
}

var topCmd = &cobra.Command{
	Use:   "top",
	Short: "Show the highest-voted image",
	Args:  cobra.NoArgs,
	RunE:  runTop,
}

var voteCmd = &cobra.Command{
	Use:   "vote <image-id>",
	Short: "Vote for a gallery or arena image",
	Long: `Vote for an image. One vote per image per account; voting twice in the
same session is caught locally, and the backend rejects an off-session
repeat.`,
	Args: cobra.ExactArgs(1),
	RunE: runVote,
}

func init() {
	galleryCmd.Flags().IntVar(&galleryPages, "pages", 1, "number of pages to fetch")
	rootCmd.AddCommand(galleryCmd)
	rootCmd.AddCommand(topCmd)
	rootCmd.AddCommand(voteCmd)
}

// galleryFetcher is the slice of the guards the gallery view needs.
type galleryFetcher interface {
	FetchGallery(ctx context.Context, pageURL string) (gateway.GalleryPage, gateway.Outcome)
	HasVoted(imageID int64) bool
}

func runGallery(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	if err := a.ensureUnlocked(); err != nil {
		return err
	}

	shown := renderGallery(context.Background(), a.guards, os.Stdout, galleryPages)
	if shown == 0 {
		fmt.Println("No images found.")
	}
	return nil
}

// renderGallery fetches and prints up to pages gallery pages, returning the
// number of items shown. A failed fetch renders the same empty state as an
// empty gallery; the command does not fail.
func renderGallery(ctx context.Context, guards galleryFetcher, w io.Writer, pages int) int {
	cursor := ""
	shown := 0
	for page := 0; page < pages; page++ {
		result, out := guards.FetchGallery(ctx, cursor)
		if !out.OK() {
			printOutcome(out)
			break
		}

		for _, item := range result.Results {
			voted := " "
			if guards.HasVoted(item.ID) {
				voted = "*"
			}
			fmt.Fprintf(w, "%s [%d] %3d votes  %-24s %s\n",
				voted, item.ID, item.Votes, item.GenerationLog.Model, item.URL)
			shown++
		}

		cursor = result.Next
		if cursor == "" {
			break
		}
	}
	return shown
}

func runTop(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	if err := a.ensureUnlocked(); err != nil {
		return err
	}

	artifact, out := a.guards.FetchTopImage(context.Background())
	if !out.OK() {
		printOutcome(out)
		return fmt.Errorf("failed to load the top image")
	}

	fmt.Printf("Top image [%d]\n", artifact.ID)
	fmt.Printf("  Prompt: %s\n", artifact.Prompt)
	fmt.Printf("  Model:  %s\n", artifact.Model)
	fmt.Printf("  URL:    %s\n", artifact.RemoteURL)
	return nil
}

// voteFeedback maps the guard's vote result to the user-facing line. An
// already-counted vote — caught by the local latch or by the backend's 429 —
// is the same non-error state either way.
func voteFeedback(imageID int64, already bool, out gateway.Outcome) (string, error) {
	switch {
	case already:
		return fmt.Sprintf("You already voted for image %d.", imageID), nil
	case !out.OK():
		return "", fmt.Errorf("vote failed")
	default:
		return fmt.Sprintf("Voted for image %d.", imageID), nil
	}
}

func runVote(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	if err := a.ensureUnlocked(); err != nil {
		return err
	}

	imageID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("image id must be a number: %v", args[0])
	}

	already, out := a.guards.Upvote(context.Background(), imageID)
	message, err := voteFeedback(imageID, already, out)
	if err != nil {
		reportFailure(out)
		return err
	}

	if already {
		color.Yellow("%s", message)
	} else {
		color.Green("%s", message)
	}
	return nil
}
