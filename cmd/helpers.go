package cmd

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/manifoldco/promptui"
	"github.com/schollz/progressbar/v3"

	"artarena/actions"
	"artarena/catalog"
	"artarena/core"
	"artarena/gateway"
	"artarena/inference"
	"artarena/logging"
	"artarena/session"
	"artarena/store"
)

// app bundles the wired client components for one command invocation.
type app struct {
	cfg        *core.Config
	log        *logging.Logger
	store      *store.SessionStore
	session    *session.Controller
	guards     *actions.Guards
	catalog    *catalog.Catalog
	downloader *inference.Downloader
}

// newApp loads configuration and wires the client stack. Every command
// goes through here; the session is hydrated from the local store so a
// login in one invocation carries into the next.
func newApp() (*app, error) {
	// A .env in the working directory is a convenience, not a requirement.
	_ = godotenv.Load()

	cfg, err := core.LoadConfig()
	if err != nil {
		return nil, err
	}

	logger, err := logging.NewLogger(cfg.DevMode || verbose, cfg.LogFilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logging: %w", err)
	}

	st, err := store.Open(filepath.Join(cfg.DataDir, "session.db"))
	if err != nil {
		return nil, err
	}

	client, err := gateway.NewClient(cfg.APIBaseURL, st, core.GetHTTPClient(cfg.HTTPTimeout), logger)
	if err != nil {
		return nil, err
	}

	ctrl, err := session.NewController(st, client, session.Config{
		SitePassword:     cfg.SitePassword,
		SitePasswordHash: cfg.SitePasswordHash,
	}, printAuthPrompt, logger)
	if err != nil {
		return nil, err
	}

	guards, err := actions.NewGuards(ctrl, client, logger)
	if err != nil {
		return nil, err
	}

	models, err := catalog.Load()
	if err != nil {
		return nil, err
	}

	downloader, err := inference.NewDownloader(inference.DownloaderConfig{
		Dir:     cfg.ArtifactsDir,
		Timeout: cfg.HTTPTimeout,
	}, logger)
	if err != nil {
		return nil, err
	}

	return &app{
		cfg:        cfg,
		log:        logger,
		store:      st,
		session:    ctrl,
		guards:     guards,
		catalog:    models,
		downloader: downloader,
	}, nil
}

// close flushes logs and releases the session database.
func (a *app) close() {
	_ = a.log.Sync()
	_ = a.store.Close()
}

// ensureUnlocked enforces the site-wide password gate before a view
// renders, prompting for the password when locked.
func (a *app) ensureUnlocked() error {
	if a.session.State() != session.Locked {
		return nil
	}

	color.Yellow("This site is password protected.")
	for attempt := 0; attempt < 3; attempt++ {
		prompt := promptui.Prompt{
			Label: "Site password",
			Mask:  '*',
		}
		password, err := prompt.Run()
		if err != nil {
			return fmt.Errorf("unlock canceled: %w", err)
		}

		switch err := a.session.Unlock(password); err {
		case nil:
			color.Green("Unlocked.")
			return nil
		case session.ErrWrongPassword:
			color.Red("Incorrect password.")
		default:
			return err
		}
	}
	return fmt.Errorf("too many failed unlock attempts")
}

// printAuthPrompt is the CLI rendering of the auth modal: the message a
// guarded action supplied, plus how to log in.
func printAuthPrompt(message string) {
	color.Yellow("%s", message)
	fmt.Println("Run `artarena login` or `artarena register` first.")
}

// reportFailure renders a failed outcome unless a local auth guard refused
// the action, in which case the auth prompt already printed the feedback.
func reportFailure(out gateway.Outcome) {
	if actions.AuthRefused(out) {
		return
	}
	printOutcome(out)
}

// printOutcome renders a failed outcome in a kind-appropriate color.
func printOutcome(out gateway.Outcome) {
	switch out.Kind {
	case gateway.RateLimited:
		color.Yellow("%s", out.Message)
	case gateway.Timeout:
		color.Yellow("The server took too long to respond: %s", out.Message)
	default:
		color.Red("%s", out.Message)
	}
}

// newSpinner returns an indeterminate progress spinner for generation
// waits, which routinely take tens of seconds.
func newSpinner(description string) *progressbar.ProgressBar {
	return progressbar.NewOptions(-1,
		progressbar.OptionSetDescription(description),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionSetRenderBlankState(true),
		progressbar.OptionThrottle(100*time.Millisecond),
	)
}

// confirm asks a yes/no question, defaulting to no.
func confirm(label string) bool {
	prompt := promptui.Prompt{
		Label:     label,
		IsConfirm: true,
	}
	_, err := prompt.Run()
	return err == nil
}

// artifactName builds a filesystem-safe artifact base name from the
// current time.
func artifactName(prefix string) string {
	return fmt.Sprintf("%s_%s", prefix, time.Now().Format("20060102_150405"))
}
