package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
)

var loginCmd = &cobra.Command{
	Use:   "login [email]",
	Short: "Log in and store the session token",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runLogin,
}

var registerCmd = &cobra.Command{
	Use:   "register [email]",
	Short: "Create an account",
	Long: `Create an account. Depending on backend configuration you are either
logged in immediately or sent a verification email; in the latter case
finish with ` + "`artarena activate <token>`" + `.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRegister,
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Clear the stored session token",
	Args:  cobra.NoArgs,
	RunE:  runLogout,
}

var activateCmd = &cobra.Command{
	Use:   "activate <token>",
	Short: "Activate an account with the emailed verification token",
	Args:  cobra.ExactArgs(1),
	RunE:  runActivate,
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show session state and cached credit balance",
	Args:  cobra.NoArgs,
	RunE:  runStatus,
}

func init() {
	registerCmd.Flags().String("name", "", "display name for the new account")

	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(registerCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(activateCmd)
	rootCmd.AddCommand(statusCmd)
}

func promptEmail(args []string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	prompt := promptui.Prompt{
		Label: "Email",
		Validate: func(s string) error {
			if !strings.Contains(s, "@") {
				return fmt.Errorf("not an email address")
			}
			return nil
		},
	}
	return prompt.Run()
}

func promptPassword(label string) (string, error) {
	prompt := promptui.Prompt{
		Label: label,
		Mask:  '*',
	}
	return prompt.Run()
}

func runLogin(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	if err := a.ensureUnlocked(); err != nil {
		return err
	}

	email, err := promptEmail(args)
	if err != nil {
		return err
	}
	password, err := promptPassword("Password")
	if err != nil {
		return err
	}

	out := a.session.Login(context.Background(), email, password)
	if !out.OK() {
		printOutcome(out)
		return fmt.Errorf("login failed")
	}

	color.Green("Logged in as %s.", email)
	if credits, ok := a.session.Credits(); ok {
		fmt.Printf("Credits: %d\n", credits)
	}
	return nil
}

func runRegister(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	if err := a.ensureUnlocked(); err != nil {
		return err
	}

	email, err := promptEmail(args)
	if err != nil {
		return err
	}
	password, err := promptPassword("Password")
	if err != nil {
		return err
	}
	confirmPassword, err := promptPassword("Confirm password")
	if err != nil {
		return err
	}

	displayName, _ := cmd.Flags().GetString("name")

	message, out := a.session.Register(context.Background(), email, password, confirmPassword, displayName)
	if !out.OK() {
		printOutcome(out)
		return fmt.Errorf("registration failed")
	}

	if message != "" {
		color.Green("%s", message)
	} else {
		color.Green("Registered and logged in as %s.", email)
	}
	return nil
}

func runLogout(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	if err := a.session.Logout(); err != nil {
		return err
	}
	color.Green("Logged out.")
	return nil
}

func runActivate(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	if err := a.ensureUnlocked(); err != nil {
		return err
	}

	result, out := a.session.Activate(context.Background(), args[0])
	if !out.OK() {
		printOutcome(out)
		return fmt.Errorf("activation failed")
	}

	if result.Message != "" {
		color.Green("%s", result.Message)
	} else {
		color.Green("Account activated. You can log in now.")
	}
	return nil
}

func runStatus(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	fmt.Printf("Session:  %s\n", a.session.State())
	if credits, ok := a.session.Credits(); ok {
		fmt.Printf("Credits:  %d (as of last login)\n", credits)
	}
	if a.store.APIKey() != "" {
		fmt.Println("Own key:  configured")
	}
	fmt.Printf("Backend:  %s\n", a.cfg.APIBaseURL)
	fmt.Printf("Data dir: %s\n", a.cfg.DataDir)
	return nil
}
