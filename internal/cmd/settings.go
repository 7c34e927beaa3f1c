package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mohamedfathi540/RAG-001/internal/output"
	"github.com/mohamedfathi540/RAG-001/internal/session"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show or change persisted settings",
	RunE:  runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the persisted settings",
	RunE:  runSettingsShow,
}

var settingsSetURLCmd = &cobra.Command{
	Use:   "set-url <url>",
	Short: "Set the backend base URL",
	Args:  cobra.ExactArgs(1),
	RunE:  runSettingsSetURL,
}

var settingsThemeCmd = &cobra.Command{
	Use:   "theme <dark|light>",
	Short: "Set the terminal rendering theme",
	Args:  cobra.ExactArgs(1),
	RunE:  runSettingsTheme,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetURLCmd)
	settingsCmd.AddCommand(settingsThemeCmd)
}

func runSettingsShow(cmd *cobra.Command, args []string) error {
	store, err := openStore()
	if err != nil {
		return err
	}
	state := store.Snapshot()

	fmt.Printf("backend url:    %s\n", state.APIURL)
	if state.ActiveLibraryName != "" {
		fmt.Printf("active library: %s (project %d)\n", state.ActiveLibraryName, state.ActiveProjectID)
	} else {
		fmt.Printf("active project: %d\n", state.ActiveProjectID)
	}
	fmt.Printf("theme:          %s\n", state.Theme)
	fmt.Printf("transcript:     %d message(s)\n", len(state.ChatHistory))
	fmt.Println(output.Subtle("session file: " + store.Path()))
	return nil
}

func runSettingsSetURL(cmd *cobra.Command, args []string) error {
	store, err := openStore()
	if err != nil {
		return err
	}
	if err := store.SetAPIURL(args[0]); err != nil {
		return err
	}
	output.Success("backend url set to %s", store.APIURL())
	return nil
}

func runSettingsTheme(cmd *cobra.Command, args []string) error {
	store, err := openStore()
	if err != nil {
		return err
	}
	theme := session.Theme(args[0])
	if theme != session.ThemeDark && theme != session.ThemeLight {
		return fmt.Errorf("theme must be dark or light")
	}
	if err := store.SetTheme(theme); err != nil {
		return err
	}
	output.Success("theme set to %s", theme)
	return nil
}
