package cmd

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	arenaRandom   bool
	arenaDownload bool
)

var arenaCmd = &cobra.Command{
	Use:   "arena [prompt]",
	Short: "Render one prompt with several models side by side",
	Long: `Render the same prompt with several models and compare the results.
Requires a logged-in account. Vote for the best result with
` + "`artarena vote <image-id>`" + `.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runArena,
}

func init() {
	arenaCmd.Flags().BoolVar(&arenaRandom, "random", false, "start from a random prompt")
	arenaCmd.Flags().BoolVar(&arenaDownload, "download", false, "download every result to the artifacts directory")
	rootCmd.AddCommand(arenaCmd)
}

func runArena(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	if err := a.ensureUnlocked(); err != nil {
		return err
	}
	ctx := context.Background()

	var prompt string
	if len(args) > 0 {
		prompt = args[0]
	} else if arenaRandom {
		prompt, err = fetchRandomPrompt(ctx, a)
		if err != nil {
			return err
		}
		fmt.Printf("Prompt: %s\n", prompt)
	}
	if prompt == "" {
		return fmt.Errorf("a prompt is required (argument or --random)")
	}

	spinner := newSpinner("Generating arena batch")
	artifacts, out := a.guards.ArenaGenerate(ctx, prompt)
	_ = spinner.Finish()
	if !out.OK() {
		reportFailure(out)
		return fmt.Errorf("arena generation failed")
	}

	color.Green("%d results:", len(artifacts))
	for _, artifact := range artifacts {
		fmt.Printf("  [%d] %-30s %s\n", artifact.ID, artifact.Model, artifact.RemoteURL)
	}
	fmt.Println("Vote with `artarena vote <id>`.")

	if arenaDownload {
		for _, artifact := range artifacts {
			if err := saveArtifact(ctx, a, artifact.RemoteURL, fmt.Sprintf("arena_%d", artifact.ID)); err != nil {
				color.Red("download of %d failed: %v", artifact.ID, err)
			}
		}
	}
	return nil
}
