package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mohamedfathi540/RAG-001/internal/output"
)

var resetForce bool

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete all uploaded assets for the corpus",
	RunE:  runReset,
}

func init() {
	resetCmd.Flags().BoolVarP(&resetForce, "force", "f", false, "Skip the confirmation prompt")
}

func runReset(cmd *cobra.Command, args []string) error {
	store, err := openStore()
	if err != nil {
		return err
	}
	client, err := newClient(store)
	if err != nil {
		return err
	}

	if !resetForce {
		fmt.Print("Delete all uploaded assets? [y/N] ")
		var answer string
		fmt.Scanln(&answer)
		if answer != "y" && answer != "Y" {
			output.Info("aborted")
			return nil
		}
	}

	if err := client.Data.Reset(cmd.Context()); err != nil {
		return err
	}
	output.Success("corpus assets deleted")
	return nil
}
