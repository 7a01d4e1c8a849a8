package cmd

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"artarena/catalog"
	"artarena/session"
)

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List the available generation models",
	Args:  cobra.NoArgs,
	RunE:  runModels,
}

var randomPromptCmd = &cobra.Command{
	Use:   "random-prompt",
	Short: "Fetch a random starter prompt",
	Args:  cobra.NoArgs,
	RunE:  runRandomPrompt,
}

var unlockCmd = &cobra.Command{
	Use:   "unlock",
	Short: "Unlock the site-wide password gate",
	Args:  cobra.NoArgs,
	RunE:  runUnlock,
}

func init() {
	rootCmd.AddCommand(modelsCmd)
	rootCmd.AddCommand(randomPromptCmd)
	rootCmd.AddCommand(unlockCmd)
}

func runModels(cmd *cobra.Command, args []string) error {
	models, err := catalog.Load()
	if err != nil {
		return err
	}

	color.Cyan("Free models:")
	for _, m := range models.Free {
		printModel(m)
	}
	fmt.Println()
	color.Cyan("Premium models:")
	for _, m := range models.Premium {
		printModel(m)
	}
	return nil
}

func printModel(m catalog.Model) {
	flags := ""
	if m.SupportsNegativePrompt {
		flags += " [neg]"
	}
	if m.NSFW {
		flags += " [nsfw]"
	}
	if m.Speed != "" {
		flags += " [" + m.Speed + "]"
	}
	fmt.Printf("  %-40s %s%s\n", m.ID, m.Name, flags)
	if m.Description != "" {
		fmt.Printf("      %s\n", m.Description)
	}
}

func runRandomPrompt(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	if err := a.ensureUnlocked(); err != nil {
		return err
	}

	prompt, err := fetchRandomPrompt(context.Background(), a)
	if err != nil {
		return err
	}
	fmt.Println(prompt)
	return nil
}

func runUnlock(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	if !a.cfg.SiteGateEnabled() {
		fmt.Println("No site password is configured.")
		return nil
	}
	if a.session.State() != session.Locked {
		fmt.Println("Already unlocked.")
		return nil
	}
	return a.ensureUnlocked()
}
