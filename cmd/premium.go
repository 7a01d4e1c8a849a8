package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"artarena/gateway"
)

var (
	premiumPrompt   string
	premiumNegative string
	premiumModel    string
	premiumImprove  bool
	premiumRandom   bool
)

var premiumCmd = &cobra.Command{
	Use:   "premium",
	Short: "Generate an image with the premium models",
	Long: `Generate an image with one of the premium models. Requires a logged-in
account with credits; each generation is billed against your balance.`,
	Args: cobra.NoArgs,
	RunE: runPremium,
}

func init() {
	premiumCmd.Flags().StringVarP(&premiumPrompt, "prompt", "p", "", "generation prompt")
	premiumCmd.Flags().StringVarP(&premiumNegative, "negative", "n", "", "negative prompt (model support varies)")
	premiumCmd.Flags().StringVarP(&premiumModel, "model", "m", "", "model id (see `artarena models`)")
	premiumCmd.Flags().BoolVar(&premiumImprove, "improve", false, "let the backend improve the prompt first")
	premiumCmd.Flags().BoolVar(&premiumRandom, "random", false, "start from a random prompt")
	rootCmd.AddCommand(premiumCmd)
}

func runPremium(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	if err := a.ensureUnlocked(); err != nil {
		return err
	}
	ctx := context.Background()

	prompt := premiumPrompt
	if premiumRandom && prompt == "" {
		prompt, err = fetchRandomPrompt(ctx, a)
		if err != nil {
			return err
		}
		fmt.Printf("Prompt: %s\n", prompt)
	}
	if prompt == "" {
		return fmt.Errorf("a prompt is required (--prompt or --random)")
	}

	model := a.catalog.DefaultPremium()
	if premiumModel != "" {
		var ok bool
		if model, ok = a.catalog.FindPremium(premiumModel); !ok {
			return fmt.Errorf("unknown premium model %q; run `artarena models`", premiumModel)
		}
	}

	spinner := newSpinner(fmt.Sprintf("Generating with %s", model.Name))
	artifact, out := a.guards.PremiumGenerate(ctx, gateway.GenerateRequest{
		Prompt:         prompt,
		NegativePrompt: premiumNegative,
		SelectedModel:  model.ID,
		ImprovePrompt:  premiumImprove,
	})
	_ = spinner.Finish()
	if !out.OK() {
		reportFailure(out)
		return fmt.Errorf("generation failed")
	}

	if artifact.Prompt != prompt {
		fmt.Printf("Improved prompt: %s\n", artifact.Prompt)
	}
	return saveArtifact(ctx, a, artifact.RemoteURL, "premium")
}
