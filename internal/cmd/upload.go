package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/mohamedfathi540/RAG-001/internal/ingest"
	"github.com/mohamedfathi540/RAG-001/internal/output"
)

var (
	uploadProject     int
	uploadWatchDir    string
	uploadConcurrency int
)

var uploadCmd = &cobra.Command{
	Use:   "upload [files...]",
	Short: "Upload documents to the active corpus",
	Long: `Upload documents to the active corpus.

Files are uploaded in parallel; each file succeeds or fails on its own.
With --watch, the command instead watches a directory and uploads every
file dropped into it until interrupted.

Examples:

    fehres upload report.pdf notes.txt
    fehres upload --project 10 corpus/*.md
    fehres upload --watch ./inbox`,
	RunE: runUpload,
}

func init() {
	uploadCmd.Flags().IntVarP(&uploadProject, "project", "p", 0, "Target project id (defaults to the active selection)")
	uploadCmd.Flags().StringVarP(&uploadWatchDir, "watch", "w", "", "Watch a directory and upload files dropped into it")
	uploadCmd.Flags().IntVar(&uploadConcurrency, "concurrency", 3, "Maximum parallel uploads")
}

func runUpload(cmd *cobra.Command, args []string) error {
	if uploadWatchDir == "" && len(args) == 0 {
		return fmt.Errorf("nothing to upload: pass files or --watch DIR")
	}

	store, err := openStore()
	if err != nil {
		return err
	}
	client, err := newClient(store)
	if err != nil {
		return err
	}

	projectID := uploadProject
	if projectID == 0 {
		projectID = store.ActiveProjectID()
	}

	tracker := ingest.NewTracker(client.Data)
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if uploadWatchDir != "" {
		return watchAndUpload(ctx, tracker, projectID)
	}

	for _, path := range args {
		if _, err := tracker.Add(path); err != nil {
			output.Error("%s: %v", path, err)
		}
	}
	tracker.Upload(ctx, projectID, uploadConcurrency)
	return reportUploads(tracker)
}

// reportUploads prints per-file outcomes and returns an error when any
// upload failed.
func reportUploads(tracker *ingest.Tracker) error {
	failed := 0
	for _, f := range tracker.Files() {
		switch f.Status {
		case ingest.FileUploaded:
			output.Success("uploaded %s (file id %s)", f.Name, f.ID)
		case ingest.FileError:
			failed++
			output.Error("%s: %s", f.Name, f.Error)
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d upload(s) failed", failed)
	}
	return nil
}

// watchAndUpload uploads everything dropped into a directory until the
// command is interrupted.
func watchAndUpload(ctx context.Context, tracker *ingest.Tracker, projectID int) error {
	watcher, err := ingest.NewWatcher(&ingest.WatcherConfig{
		Dir: uploadWatchDir,
		Callback: func(paths []string) {
			for _, path := range paths {
				if _, err := tracker.Add(path); err != nil {
					output.Error("%s: %v", path, err)
				}
			}
			tracker.Upload(ctx, projectID, uploadConcurrency)
			_ = reportUploads(tracker)
			// Drop settled entries so the next batch reports cleanly.
			for _, f := range tracker.Files() {
				if f.Status == ingest.FileUploaded || f.Status == ingest.FileError {
					tracker.Remove(f.ID)
				}
			}
		},
	})
	if err != nil {
		return err
	}

	output.Info("watching %s (press Ctrl-C to stop)", uploadWatchDir)
	go watcher.Run()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt)
	select {
	case <-stop:
	case <-ctx.Done():
	}
	watcher.Stop()
	return nil
}
