package cmd

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
)

var apikeyCmd = &cobra.Command{
	Use:   "apikey",
	Short: "Manage your own inference provider API key",
	Long: `Store your own inference provider API key to generate free-tier images
directly against the provider (` + "`artarena generate --use-own-key`" + `),
bypassing the backend and its credit accounting.

The key is stored in the local session database and sent only to the
inference endpoint, never to the Art Arena backend.`,
}

var apikeySetCmd = &cobra.Command{
	Use:   "set",
	Short: "Store a provider API key",
	Args:  cobra.NoArgs,
	RunE:  runAPIKeySet,
}

var apikeyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove the stored provider API key",
	Args:  cobra.NoArgs,
	RunE:  runAPIKeyClear,
}

var apikeyStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show whether a provider API key is stored",
	Args:  cobra.NoArgs,
	RunE:  runAPIKeyStatus,
}

func init() {
	apikeyCmd.AddCommand(apikeySetCmd)
	apikeyCmd.AddCommand(apikeyClearCmd)
	apikeyCmd.AddCommand(apikeyStatusCmd)
	rootCmd.AddCommand(apikeyCmd)
}

func runAPIKeySet(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	prompt := promptui.Prompt{
		Label: "Provider API key",
		Mask:  '*',
		Validate: func(s string) error {
			if s == "" {
				return fmt.Errorf("key cannot be empty")
			}
			return nil
		},
	}
	key, err := prompt.Run()
	if err != nil {
		return err
	}

	if err := a.store.SetAPIKey(key); err != nil {
		return err
	}
	color.Green("Key stored.")
	return nil
}

func runAPIKeyClear(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	if err := a.store.ClearAPIKey(); err != nil {
		return err
	}
	color.Green("Key removed.")
	return nil
}

func runAPIKeyStatus(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	if a.store.APIKey() == "" {
		fmt.Println("No provider key stored.")
	} else {
		fmt.Println("A provider key is stored.")
	}
	return nil
}
