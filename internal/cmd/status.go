package cmd

import (
	"github.com/spf13/cobra"

	"github.com/mohamedfathi540/RAG-001/internal/output"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Check backend availability and index health",
	RunE:  runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	store, err := openStore()
	if err != nil {
		return err
	}
	client, err := newClient(store)
	if err != nil {
		return err
	}

	health, err := client.Health(cmd.Context())
	if err != nil {
		output.Error("backend unreachable at %s", client.BaseURL())
		return err
	}
	output.Success("%s %s at %s", health.AppName, health.AppVersion, client.BaseURL())

	projectID := store.ActiveProjectID()
	info, err := client.Index.Info(cmd.Context(), projectID)
	if err != nil {
		output.Warning("index info unavailable for project %d: %v", projectID, err)
		return nil
	}
	if count, ok := info.CollectionInfo.Count(); ok {
		output.Info("project %d: %d vectors indexed", projectID, count)
	}
	return nil
}
