package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"gstledger/internal/config"
	"gstledger/internal/logger"
	"gstledger/pkg/models"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show or save the company settings",
	Long: `Show the company settings used for GST computation (defaults apply when none
were saved), or replace them with the contents of a JSON file.`,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective company settings as JSON",
	Args:  cobra.NoArgs,
	RunE:  runSettingsShow,
}

var settingsSaveCmd = &cobra.Command{
	Use:   "save [settings-file]",
	Short: "Replace the company settings with a JSON file",
	Example: `  gstledger settings save company.json`,
	Args:  cobra.ExactArgs(1),
	RunE:  runSettingsSave,
}

func init() {
	rootCmd.AddCommand(settingsCmd)
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSaveCmd)
}

func runSettingsShow(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	snapshots := openStore(cmd, cfg)
	defer snapshots.Close()

	snap, err := snapshots.Load(commandContext(cmd))
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}
	return printJSON(snap.EffectiveSettings())
}

func runSettingsSave(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("settings")

	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read settings file: %w", err)
	}

	var settings models.CompanySettings
	if err := json.Unmarshal(data, &settings); err != nil {
		return fmt.Errorf("failed to parse settings file: %w", err)
	}
	if strings.TrimSpace(settings.HomeState) == "" {
		return fmt.Errorf("settings file must set homeState")
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	snapshots := openStore(cmd, cfg)
	defer snapshots.Close()

	if err := snapshots.SaveSettings(commandContext(cmd), settings); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}

	log.Info().
		Str("trade_name", settings.TradeName).
		Str("home_state", settings.HomeState).
		Msg("Settings saved")
	fmt.Printf("Settings saved for %s (%s)\n", settings.TradeName, settings.HomeState)
	return nil
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
