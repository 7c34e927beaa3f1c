package cmd

import (
	"github.com/spf13/cobra"

	"github.com/mohamedfathi540/RAG-001/internal/ingest"
	"github.com/mohamedfathi540/RAG-001/internal/output"
)

var (
	processProject int
	processReset   bool
	processChunk   int
	processOverlap int
	processFileID  string
)

var processCmd = &cobra.Command{
	Use:   "process",
	Short: "Run the chunking stage over uploaded documents",
	Long: `Run the chunking stage over uploaded documents.

Splits the uploaded assets of the active corpus into overlapping text
chunks ready for indexing. With --reset, previously processed chunks are
discarded first; otherwise the run is additive.

Examples:

    fehres process
    fehres process --reset
    fehres process --file-id 64f1a7... --chunk-size 1000 --overlap 100`,
	RunE: runProcess,
}

func init() {
	processCmd.Flags().IntVarP(&processProject, "project", "p", 0, "Target project id (defaults to the active selection)")
	processCmd.Flags().BoolVar(&processReset, "reset", false, "Discard previously processed chunks before running")
	processCmd.Flags().IntVar(&processChunk, "chunk-size", 2000, "Chunk size in characters")
	processCmd.Flags().IntVar(&processOverlap, "overlap", 200, "Overlap between consecutive chunks")
	processCmd.Flags().StringVar(&processFileID, "file-id", "", "Process a single uploaded file instead of the whole batch")
}

func runProcess(cmd *cobra.Command, args []string) error {
	store, err := openStore()
	if err != nil {
		return err
	}
	client, err := newClient(store)
	if err != nil {
		return err
	}

	projectID := processProject
	if projectID == 0 {
		projectID = store.ActiveProjectID()
	}

	pipeline := ingest.NewPipeline(client)
	result, err := pipeline.RunProcess(cmd.Context(), projectID, ingest.StageConfig{
		ResetBeforeRun: processReset,
		ChunkSize:      processChunk,
		OverlapSize:    processOverlap,
		FileID:         processFileID,
	})
	if err != nil {
		return err
	}

	output.Success("Processing complete: %s", result.Summary)
	return nil
}
