package main

import (
	"fmt"
	"slices"
	"strings"

	"github.com/amonks/taskmanager/internal/ai"
	"github.com/amonks/taskmanager/internal/config"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show and change configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	Long: `Print the effective configuration as TOML.

The global config file is merged with .taskmanager/config.toml, and AI
settings from .env files and the environment are applied on top. API
keys are never printed; only whether each one is set.`,
	Args: cobra.NoArgs,
	RunE: runConfigShow,
}

var configAICmd = &cobra.Command{
	Use:   "ai",
	Short: "Enable or disable AI generation for this project",
}

var configAIEnableCmd = &cobra.Command{
	Use:   "enable",
	Short: "Enable AI generation",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return setAIEnabled(cmd, true)
	},
}

var configAIDisableCmd = &cobra.Command{
	Use:   "disable",
	Short: "Disable AI generation",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return setAIEnabled(cmd, false)
	},
}

var (
	configAIProvider string
	configAIModel    string
)

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd, configAICmd)
	configAICmd.AddCommand(configAIEnableCmd, configAIDisableCmd)

	configAIEnableCmd.Flags().StringVar(&configAIProvider, "provider", "",
		"Provider ("+strings.Join(ai.Providers, ", ")+")")
	configAIEnableCmd.Flags().StringVar(&configAIModel, "model", "", "Model name (default: provider default)")
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	p, err := openProject()
	if err != nil {
		return err
	}
	data, err := config.Encode(p.cfg)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprint(out, string(data))

	keys := p.env.Keys()
	fmt.Fprintf(out, "\n# API keys\n")
	for _, provider := range ai.Providers {
		state := "not set"
		if keys.ForProvider(provider) != "" {
			state = "set"
		}
		fmt.Fprintf(out, "# %s: %s\n", provider, state)
	}
	_, sel := ai.New(p.cfg.AI, keys)
	fmt.Fprintf(out, "# generator: %s\n", sel.Provider)
	return nil
}

func setAIEnabled(cmd *cobra.Command, enabled bool) error {
	p, err := openProject()
	if err != nil {
		return err
	}
	cfg, err := config.LoadProject(p.dir)
	if err != nil {
		return err
	}
	cfg.AI.Enabled = enabled
	if enabled {
		if configAIProvider != "" {
			provider := strings.ToLower(configAIProvider)
			if !slices.Contains(ai.Providers, provider) {
				return fmt.Errorf("unknown provider %q (valid: %s)", configAIProvider, strings.Join(ai.Providers, ", "))
			}
			cfg.AI.Provider = provider
		}
		if configAIModel != "" {
			cfg.AI.Model = configAIModel
		}
		if cfg.AI.Provider == "" {
			cfg.AI.Provider = ai.Providers[0]
		}
	}
	if err := config.SaveProject(p.dir, cfg); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if !enabled {
		fmt.Fprintln(out, "AI generation disabled.")
		return nil
	}
	fmt.Fprintf(out, "AI generation enabled (provider %s).\n", cfg.AI.Provider)
	if p.env.Keys().ForProvider(cfg.AI.Provider) == "" {
		fmt.Fprintf(out, "%s set the API key in .taskmanager/.env\n", p.theme.Warning("note:"))
	}
	return nil
}
