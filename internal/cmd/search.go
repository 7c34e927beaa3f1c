package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mohamedfathi540/RAG-001/fehres"
	"github.com/mohamedfathi540/RAG-001/internal/output"
)

var (
	searchProject int
	searchLimit   int
	searchJSON    bool
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Semantic search over the active corpus",
	Args:  cobra.ExactArgs(1),
	RunE:  runSearch,
}

func init() {
	searchCmd.Flags().IntVarP(&searchProject, "project", "p", 0, "Target project id (defaults to the active selection)")
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "l", 5, "Maximum number of results")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "Output results as JSON")
}

func runSearch(cmd *cobra.Command, args []string) error {
	store, err := openStore()
	if err != nil {
		return err
	}
	client, err := newClient(store)
	if err != nil {
		return err
	}

	projectID := searchProject
	if projectID == 0 {
		projectID = store.ActiveProjectID()
	}

	results, err := client.Index.Search(cmd.Context(), projectID, &fehres.SearchRequest{
		Text:  args[0],
		Limit: searchLimit,
	})
	if err != nil {
		return err
	}

	if searchJSON {
		output.JSON(results)
		return nil
	}

	if len(results) == 0 {
		output.Info("no results")
		return nil
	}
	for i, hit := range results {
		output.Card(
			fmt.Sprintf("Result %d", i+1),
			fmt.Sprintf("score %.3f", hit.Score),
			output.Truncate(hit.Text, 400),
		)
	}
	return nil
}
