package cmd

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"artarena/catalog"
	"artarena/gateway"
	"artarena/inference"
)

var (
	genPrompt    string
	genNegative  string
	genModel     string
	genImprove   bool
	genRandom    bool
	genOwnKey    bool
	genNoConfirm bool
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate an image with the free models",
	Long: `Generate an image with one of the free models. No account needed.

With --use-own-key the image is generated directly against the
inference provider using the API key stored via ` + "`artarena apikey set`" + `,
bypassing the backend and its credit accounting.`,
	Args: cobra.NoArgs,
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().StringVarP(&genPrompt, "prompt", "p", "", "generation prompt")
	generateCmd.Flags().StringVarP(&genNegative, "negative", "n", "", "negative prompt (model support varies)")
	generateCmd.Flags().StringVarP(&genModel, "model", "m", "", "model id (see `artarena models`)")
	generateCmd.Flags().BoolVar(&genImprove, "improve", false, "let the backend improve the prompt first")
	generateCmd.Flags().BoolVar(&genRandom, "random", false, "start from a random prompt")
	generateCmd.Flags().BoolVar(&genOwnKey, "use-own-key", false, "generate directly with your stored provider key")
	generateCmd.Flags().BoolVarP(&genNoConfirm, "yes", "y", false, "skip confirmation prompts")
	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	if err := a.ensureUnlocked(); err != nil {
		return err
	}
	ctx := context.Background()

	prompt := genPrompt
	if genRandom && prompt == "" {
		prompt, err = fetchRandomPrompt(ctx, a)
		if err != nil {
			return err
		}
		fmt.Printf("Prompt: %s\n", prompt)
	}
	if prompt == "" {
		return fmt.Errorf("a prompt is required (--prompt or --random)")
	}

	model := a.catalog.DefaultFree()
	if genModel != "" {
		var ok bool
		if model, ok = a.catalog.FindFree(genModel); !ok {
			return fmt.Errorf("unknown free model %q; run `artarena models`", genModel)
		}
	}
	if err := checkModelUsable(model); err != nil {
		return err
	}

	if genNegative != "" && !model.SupportsNegativePrompt {
		color.Yellow("Model %s ignores negative prompts.", model.Name)
	}

	req := gateway.GenerateRequest{
		Prompt:         prompt,
		NegativePrompt: genNegative,
		SelectedModel:  model.ID,
		ImprovePrompt:  genImprove,
	}

	if genOwnKey {
		return generateWithOwnKey(ctx, a, req)
	}

	spinner := newSpinner(fmt.Sprintf("Generating with %s", model.Name))
	artifact, out := a.guards.FreeGenerate(ctx, req)
	_ = spinner.Finish()
	if !out.OK() {
		printOutcome(out)
		return fmt.Errorf("generation failed")
	}

	if artifact.Prompt != prompt {
		fmt.Printf("Improved prompt: %s\n", artifact.Prompt)
	}
	return saveArtifact(ctx, a, artifact.RemoteURL, "generated")
}

// generateWithOwnKey runs the direct provider path with the stored key.
func generateWithOwnKey(ctx context.Context, a *app, req gateway.GenerateRequest) error {
	apiKey := a.store.APIKey()
	if apiKey == "" {
		return fmt.Errorf("no provider key stored; run `artarena apikey set` first")
	}

	provider, err := inference.NewProvider(inference.ProviderConfig{
		APIKey:  apiKey,
		BaseURL: a.cfg.InferenceBaseURL,
	}, a.log)
	if err != nil {
		return err
	}

	spinner := newSpinner("Generating with your own key")
	dataURL, out := a.guards.DirectGenerate(ctx, provider, req)
	_ = spinner.Finish()
	if !out.OK() {
		printOutcome(out)
		return fmt.Errorf("generation failed")
	}

	result, err := a.downloader.SaveDataURL(dataURL, artifactName("generated"))
	if err != nil {
		return err
	}
	color.Green("Saved %s (%dx%d)", result.Path, result.Width, result.Height)
	return nil
}

// checkModelUsable gates adult-rated models behind an explicit confirmation.
func checkModelUsable(model catalog.Model) error {
	if model.NSFW && !genNoConfirm {
		color.Yellow("Model %s can produce adult content.", model.Name)
		if !confirm("Continue") {
			return fmt.Errorf("canceled")
		}
	}
	return nil
}

func fetchRandomPrompt(ctx context.Context, a *app) (string, error) {
	prompt, out := a.guards.FetchRandomPrompt(ctx)
	if !out.OK() {
		printOutcome(out)
		return "", fmt.Errorf("failed to fetch a random prompt")
	}
	return prompt, nil
}

// saveArtifact downloads a generated image into the artifacts directory.
func saveArtifact(ctx context.Context, a *app, url, prefix string) error {
	result, err := a.downloader.Download(ctx, url, artifactName(prefix))
	if err != nil {
		return err
	}
	color.Green("Saved %s (%dx%d)", result.Path, result.Width, result.Height)
	return nil
}
