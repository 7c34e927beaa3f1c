package ingest

import (
	"os"
	"path/filepath"
	"sort"
	"testing"
	"time"
)

func TestIgnored(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"/drop/report.pdf", false},
		{"/drop/notes.txt", false},
		{"/drop/.hidden", true},
		{"/drop/.DS_Store", true},
		{"/drop/download.tmp", true},
		{"/drop/download.part", true},
		{"/drop/download.crdownload", true},
		{"/drop/notes.txt.swp", true},
	}
	for _, tt := range tests {
		if got := ignored(tt.path); got != tt.want {
			t.Errorf("ignored(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestWatcherBatchesDroppedFiles(t *testing.T) {
	dir := t.TempDir()

	batches := make(chan []string, 1)
	w, err := NewWatcher(&WatcherConfig{
		Dir:           dir,
		DebounceDelay: 100 * time.Millisecond,
		Callback: func(paths []string) {
			batches <- paths
		},
	})
	if err != nil {
		t.Fatalf("NewWatcher() error: %v", err)
	}
	go w.Run()
	defer w.Stop()

	for _, name := range []string{"a.txt", "b.txt", ".hidden"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("content"), 0600); err != nil {
			t.Fatal(err)
		}
	}

	select {
	case paths := <-batches:
		sort.Strings(paths)
		want := []string{filepath.Join(dir, "a.txt"), filepath.Join(dir, "b.txt")}
		if len(paths) != len(want) {
			t.Fatalf("batch = %v, want %v", paths, want)
		}
		for i := range want {
			if paths[i] != want[i] {
				t.Errorf("batch[%d] = %q, want %q", i, paths[i], want[i])
			}
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no batch delivered")
	}
}
