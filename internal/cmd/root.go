// Package cmd implements the Fehres CLI commands.
package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/mohamedfathi540/RAG-001/fehres"
	"github.com/mohamedfathi540/RAG-001/internal/output"
	"github.com/mohamedfathi540/RAG-001/internal/session"
	"github.com/mohamedfathi540/RAG-001/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "fehres",
	Short: "Control surface for a Fehres RAG backend",
	Long: `fehres is a terminal client for a Fehres document-ingestion and
RAG-chat backend.

Upload or scrape source material, run the chunking and indexing stages,
then query the resulting index via search or chat. Session context (the
backend URL, the active library, the chat transcript) persists across
invocations.`,
	Version:       version.Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		output.Error("%v", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(uploadCmd)
	rootCmd.AddCommand(processCmd)
	rootCmd.AddCommand(indexCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(scrapeCmd)
	rootCmd.AddCommand(librariesCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(prescriptionCmd)
	rootCmd.AddCommand(settingsCmd)
	rootCmd.AddCommand(statusCmd)
}

// openStore hydrates the persisted session store.
func openStore() (*session.Store, error) {
	dir, err := session.DefaultDir()
	if err != nil {
		return nil, err
	}
	return session.Open(dir)
}

// newClient builds a backend client bound to the session store, so a URL
// change via `fehres settings set-url` applies to the next call. FEHRES_URL
// overrides the stored URL for one-off invocations.
func newClient(store *session.Store) (*fehres.Client, error) {
	if url := os.Getenv(fehres.EnvFehresURL); url != "" {
		return fehres.NewClient(fehres.WithBaseURL(url))
	}
	return fehres.NewClient(fehres.WithBaseURLFunc(store.APIURL))
}
