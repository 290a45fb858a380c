package cli

import (
	"fmt"
	"strings"

	"github.com/soyeahso/arise/internal/config"
	"github.com/soyeahso/arise/internal/llm"
	"github.com/soyeahso/arise/internal/version"
	"github.com/spf13/cobra"
)

func newStatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show arise status and configuration summary",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Printf("Arise %s (commit %s)\n\n", version.Version, version.Commit)

			fmt.Printf("Config:  %s\n", paths.Config)
			fmt.Printf("Data:    %s\n", paths.Data)
			fmt.Printf("Logs:    %s\n", paths.Logs)
			fmt.Println()

			cfg, err := config.Load(paths.Config)
			if err != nil {
				fmt.Printf("Config:  error loading: %v\n", err)
				return nil
			}

			fmt.Printf("Gateway: port=%d bind=%s auth=%s\n",
				cfg.Gateway.Port, cfg.Gateway.Bind, cfg.Gateway.Auth.Mode)

			models := cfg.Model.Models
			if len(models) == 0 {
				models = llm.DefaultGeminiModels
			}
			keyState := "not set"
			if cfg.Model.APIKey != "" {
				keyState = "set"
			}
			fmt.Printf("Model:   provider=%s key=%s chain=%s\n",
				cfg.Model.Provider, keyState, strings.Join(models, " → "))

			fmt.Printf("Session: id=%s store=%s\n", cfg.Session.ID, cfg.Session.Store)
			fmt.Printf("Speech:  enabled=%v\n", cfg.Speech.Enabled)

			var configured []string
			if cfg.Actions.GitHubToken != "" {
				configured = append(configured, "github")
			}
			if cfg.Actions.OpenWeatherKey != "" {
				configured = append(configured, "weather")
			}
			if cfg.Actions.SearchKey != "" {
				configured = append(configured, "search")
			}
			if cfg.Actions.Gmail.CredentialsPath != "" && cfg.Actions.Gmail.TokenPath != "" {
				configured = append(configured, "gmail")
			}
			if len(configured) > 0 {
				fmt.Printf("Actions: %s\n", strings.Join(configured, ", "))
			} else {
				fmt.Println("Actions: (no credentials configured — degraded or simulated)")
			}

			issues := config.Validate(&cfg)
			if len(issues) > 0 {
				fmt.Printf("\nValidation issues (%d):\n", len(issues))
				for _, issue := range issues {
					fmt.Printf("  - %s: %s\n", issue.Path, issue.Message)
				}
			}

			return nil
		},
	}

	return cmd
}
