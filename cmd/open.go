package cmd

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"artarena/session"
	"artarena/views"
)

var openCmd = &cobra.Command{
	Use:   "open <path>",
	Short: "Open a site path the way the web client would",
	Long: `Resolve a site path to its view and run it. Supports the same deep
links as the hosted client:

  /            home (shows the top image)
  /arena       model arena
  /generate    free generator
  /premium     premium generator
  /gallery     community gallery
  /info        about page
  /activate/<token>
               account activation from a verification email

Unknown paths redirect to home. When the site gate is locked, the
password gate renders first and the requested view resumes after
unlock.`,
	Args: cobra.ExactArgs(1),
	RunE: runOpen,
}

func init() {
	rootCmd.AddCommand(openCmd)
}

func runOpen(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	route := views.Resolve(args[0], a.session.State() == session.Locked)
	if route.Redirected {
		color.Yellow("Unknown path %s, redirecting to home.", args[0])
	}

	if route.View == views.PasswordGate {
		if err := a.ensureUnlocked(); err != nil {
			return err
		}
		// Resume at the view the path originally asked for.
		route.View = route.Requested
	}

	return renderView(a, route)
}

// renderView runs the resolved view with the same flows as the dedicated
// commands.
func renderView(a *app, route views.Route) error {
	ctx := context.Background()

	switch route.View {
	case views.Home:
		artifact, out := a.guards.FetchTopImage(ctx)
		if !out.OK() {
			printOutcome(out)
			return fmt.Errorf("failed to load the top image")
		}
		fmt.Println("Welcome to Art Arena. Current top image:")
		fmt.Printf("  [%d] %s\n", artifact.ID, artifact.RemoteURL)
		fmt.Printf("  Prompt: %s\n", artifact.Prompt)
		return nil

	case views.Arena:
		return runArena(arenaCmd, nil)

	case views.FreeGenerator:
		return runGenerate(generateCmd, nil)

	case views.PremiumGenerator:
		return runPremium(premiumCmd, nil)

	case views.Gallery:
		return runGallery(galleryCmd, nil)

	case views.Info:
		fmt.Println("Art Arena: generate AI images, compare models, vote for the best.")
		fmt.Printf("Backend: %s\n", a.cfg.APIBaseURL)
		return nil

	case views.ActivateAccount:
		result, out := a.session.Activate(ctx, route.ActivationToken)
		if !out.OK() {
			printOutcome(out)
			return fmt.Errorf("activation failed")
		}
		if result.Message != "" {
			color.Green("%s", result.Message)
		} else {
			color.Green("Account activated.")
		}
		return nil

	default:
		return fmt.Errorf("view %s cannot render here", route.View)
	}
}
