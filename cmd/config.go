package cmd

import (
	"fmt"
	"strings"

	"github.com/khrees2412/jobapplier/internal/app"
	"github.com/khrees2412/jobapplier/internal/config"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Long:  "View and update configuration settings",
}

var showConfigCmd = &cobra.Command{
	Use:   "show",
	Short: "Display current configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := getApp(cmd)
		if err != nil {
			return err
		}
		cfg := a.Config

		cmd.Println(titleStyle.Render("Configuration"))
		cmd.Printf("%s %s\n", labelStyle.Render("Config File:"), a.Store.Path())

		// Show if the token is configured (but don't show the actual token)
		if cfg.NotionToken != "" {
			cmd.Printf("%s %s\n", labelStyle.Render("Notion Token:"), "✓ Configured")
		} else {
			cmd.Printf("%s %s\n", labelStyle.Render("Notion Token:"), "✗ Not configured")
		}
		cmd.Printf("%s %s\n", labelStyle.Render("Database:"), valueStyle.Render(orUnset(cfg.DatabaseID)))
		cmd.Printf("%s %s\n", labelStyle.Render("API:"), valueStyle.Render(cfg.APIBaseURL+" ("+cfg.NotionVersion+")"))
		cmd.Printf("%s %s\n", labelStyle.Render("EN Template:"), valueStyle.Render(cfg.ENTemplate))
		cmd.Printf("%s %s\n", labelStyle.Render("FR Template:"), valueStyle.Render(cfg.FRTemplate))
		cmd.Printf("%s %s\n", labelStyle.Render("Raw Résumés:"), valueStyle.Render(cfg.CVRawDir))
		cmd.Printf("%s %s\n", labelStyle.Render("Renamed Résumés:"), valueStyle.Render(cfg.CVRenamedDir))
		cmd.Printf("%s %s\n", labelStyle.Render("Letters:"), valueStyle.Render(cfg.LettersDir))
		cmd.Printf("%s %s\n", labelStyle.Render("Journal:"), valueStyle.Render(orUnset(cfg.JournalPath)))
		cmd.Printf("%s %s\n", labelStyle.Render("Block Type:"), valueStyle.Render(cfg.BlockType))
		cmd.Printf("%s %s\n", labelStyle.Render("Position Property:"), valueStyle.Render(cfg.PositionProperty))
		cmd.Printf("%s %s\n", labelStyle.Render("HTTP Timeout:"), valueStyle.Render(cfg.HTTPTimeout.String()))
		cmd.Printf("%s %s\n", labelStyle.Render("Log Level:"), valueStyle.Render(cfg.LogLevel))

		if err := cfg.Validate(); err != nil {
			cmd.Printf("\n%s %s\n", errorStyle.Render("Problem:"), err)
		}
		return nil
	},
}

var setConfigCmd = &cobra.Command{
	Use:   "set",
	Short: "Update a configuration value",
	Example: `  jobapplier config set --key notion_token --value secret_...
  jobapplier config set --key database_id --value https://www.notion.so/me/0123...
  jobapplier config set --key block_type --value code
  jobapplier config set --key cv_raw_dir --value ~/Documents/cv`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := getApp(cmd)
		if err != nil {
			return err
		}
		key, _ := cmd.Flags().GetString("key")
		value, _ := cmd.Flags().GetString("value")

		if key == "" || value == "" {
			return fmt.Errorf("%w: both --key and --value are required", app.ErrInvalidArgument)
		}
		if key == "database_id" {
			if value, err = config.NormalizeID(value); err != nil {
				return fmt.Errorf("%w: %v", app.ErrInvalidArgument, err)
			}
		}

		if err := a.Store.Set(key, value); err != nil {
			return fmt.Errorf("%w: %v (valid keys: %s)", app.ErrInvalidArgument, err, strings.Join(config.Keys(), ", "))
		}

		cmd.Printf("✓ Configuration updated: %s\n", key)
		return nil
	},
}

func orUnset(s string) string {
	if s == "" {
		return "(not set)"
	}
	return s
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(showConfigCmd)
	configCmd.AddCommand(setConfigCmd)

	// Flags for set command
	setConfigCmd.Flags().String("key", "", "Configuration key")
	setConfigCmd.Flags().String("value", "", "Configuration value")
}
