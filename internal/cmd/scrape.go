package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/mohamedfathi540/RAG-001/internal/ingest"
	"github.com/mohamedfathi540/RAG-001/internal/output"
)

var (
	scrapeReset    bool
	scrapeManifest string
)

var scrapeCmd = &cobra.Command{
	Use:   "scrape",
	Short: "Scrape documentation sites into libraries",
}

var scrapeStartCmd = &cobra.Command{
	Use:   "start <library> <url>",
	Short: "Scrape a documentation site into a library",
	Long: `Scrape a documentation site into a library.

Scraping runs on the backend and can take many minutes. If the client
times out waiting, the scrape may still have completed server-side:
check the library list, or run 'fehres scrape replay <url>' to chunk the
cached pages without refetching anything.

A YAML manifest can scrape several libraries in sequence:

    libraries:
      - name: FastAPI
        url: https://fastapi.tiangolo.com
        reset: true
      - name: React
        url: https://react.dev

    fehres scrape start --manifest libs.yaml`,
	RunE: runScrapeStart,
}

var scrapeCancelCmd = &cobra.Command{
	Use:   "cancel",
	Short: "Cancel the running scrape",
	RunE:  runScrapeCancel,
}

var scrapeReplayCmd = &cobra.Command{
	Use:   "replay <url>",
	Short: "Re-run chunking from the backend's scrape cache",
	Long: `Re-run chunking from the backend's scrape cache.

Use this after a scrape timed out client-side: the backend keeps the
fetched pages in a cache keyed by base URL, and replay chunks them into
the library without repeating any network retrieval.`,
	Args: cobra.ExactArgs(1),
	RunE: runScrapeReplay,
}

func init() {
	scrapeStartCmd.Flags().BoolVar(&scrapeReset, "reset", false, "Discard existing library content first")
	scrapeStartCmd.Flags().StringVar(&scrapeManifest, "manifest", "", "YAML manifest of libraries to scrape")
	scrapeCmd.AddCommand(scrapeStartCmd)
	scrapeCmd.AddCommand(scrapeCancelCmd)
	scrapeCmd.AddCommand(scrapeReplayCmd)
}

// manifestEntry is one library in a scrape manifest.
type manifestEntry struct {
	Name  string `yaml:"name"`
	URL   string `yaml:"url"`
	Reset bool   `yaml:"reset"`
}

// manifestFile is the root of a scrape manifest.
type manifestFile struct {
	Libraries []manifestEntry `yaml:"libraries"`
}

func runScrapeStart(cmd *cobra.Command, args []string) error {
	store, err := openStore()
	if err != nil {
		return err
	}
	client, err := newClient(store)
	if err != nil {
		return err
	}
	scraper := ingest.NewScraper(client, nil)

	var entries []manifestEntry
	switch {
	case scrapeManifest != "":
		data, err := os.ReadFile(scrapeManifest)
		if err != nil {
			return err
		}
		var manifest manifestFile
		if err := yaml.Unmarshal(data, &manifest); err != nil {
			return fmt.Errorf("failed to parse manifest: %w", err)
		}
		entries = manifest.Libraries
	case len(args) == 2:
		entries = []manifestEntry{{Name: args[0], URL: args[1], Reset: scrapeReset}}
	default:
		return fmt.Errorf("pass <library> <url> or --manifest FILE")
	}

	for _, entry := range entries {
		output.Info("scraping %q from %s (this may take a while)", entry.Name, entry.URL)
		done, err := scraper.Start(cmd.Context(), entry.URL, entry.Name, entry.Reset)
		if err != nil {
			return err
		}
		<-done
		if err := reportScrape(scraper.Job()); err != nil {
			return err
		}
	}
	return nil
}

// reportScrape prints the settled job outcome.
func reportScrape(job ingest.ScrapeJob) error {
	switch job.Status {
	case ingest.ScrapeSucceeded:
		r := job.Result
		output.Success("done: %d chunks from %d pages (%d discovered)",
			r.InsertedChunks, r.ProcessedPages, r.TotalPagesScraped)
		return nil
	case ingest.ScrapeUnknown:
		output.Warning("%s", job.Message)
		return nil
	case ingest.ScrapeCancelled:
		output.Warning("scrape cancelled")
		return nil
	default:
		return fmt.Errorf("scrape failed: %s", job.Message)
	}
}

func runScrapeCancel(cmd *cobra.Command, args []string) error {
	store, err := openStore()
	if err != nil {
		return err
	}
	client, err := newClient(store)
	if err != nil {
		return err
	}

	// The CLI runs one command per process, so there is no local job to
	// cancel here; send the backend cancel signal directly. It is safe to
	// call even when nothing is running.
	resp, err := client.Data.ScrapeCancel(cmd.Context())
	if err != nil {
		return err
	}
	output.Success("%s", resp.Message)
	return nil
}

func runScrapeReplay(cmd *cobra.Command, args []string) error {
	store, err := openStore()
	if err != nil {
		return err
	}
	client, err := newClient(store)
	if err != nil {
		return err
	}
	scraper := ingest.NewScraper(client, nil)

	output.Info("replaying cached scrape for %s", args[0])
	done, err := scraper.ReplayFromCache(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	<-done
	return reportScrape(scraper.Job())
}
