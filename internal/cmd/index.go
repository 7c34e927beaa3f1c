package cmd

import (
	"github.com/spf13/cobra"

	"github.com/mohamedfathi540/RAG-001/internal/ingest"
	"github.com/mohamedfathi540/RAG-001/internal/output"
)

var (
	indexProject int
	indexReset   bool
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Manage the vector index",
}

var indexPushCmd = &cobra.Command{
	Use:   "push",
	Short: "Embed processed chunks into the vector index",
	Long: `Embed processed chunks into the vector index.

With --reset the collection is dropped and rebuilt from scratch;
otherwise new chunks are appended.`,
	RunE: runIndexPush,
}

var indexInfoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show vector collection statistics",
	RunE:  runIndexInfo,
}

func init() {
	indexCmd.PersistentFlags().IntVarP(&indexProject, "project", "p", 0, "Target project id (defaults to the active selection)")
	indexPushCmd.Flags().BoolVar(&indexReset, "reset", false, "Rebuild the collection from scratch")
	indexCmd.AddCommand(indexPushCmd)
	indexCmd.AddCommand(indexInfoCmd)
}

func runIndexPush(cmd *cobra.Command, args []string) error {
	store, err := openStore()
	if err != nil {
		return err
	}
	client, err := newClient(store)
	if err != nil {
		return err
	}

	projectID := indexProject
	if projectID == 0 {
		projectID = store.ActiveProjectID()
	}

	pipeline := ingest.NewPipeline(client)
	result, err := pipeline.RunIndex(cmd.Context(), projectID, ingest.StageConfig{
		ResetBeforeRun: indexReset,
	})
	if err != nil {
		return err
	}

	output.Success("Indexing complete: %s", result.Summary)
	return nil
}

func runIndexInfo(cmd *cobra.Command, args []string) error {
	store, err := openStore()
	if err != nil {
		return err
	}
	client, err := newClient(store)
	if err != nil {
		return err
	}

	projectID := indexProject
	if projectID == 0 {
		projectID = store.ActiveProjectID()
	}

	info, err := client.Index.Info(cmd.Context(), projectID)
	if err != nil {
		return err
	}

	if count, ok := info.CollectionInfo.Count(); ok {
		output.Info("project %d: %d vectors indexed", projectID, count)
	} else {
		output.Warning("project %d: no count reported by the vector store", projectID)
	}
	return nil
}
