package ingest

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/mohamedfathi540/RAG-001/fehres"
)

// uploadFake consumes each file, reports progress, and fails the filenames
// listed in failWith.
type uploadFake struct {
	mu       sync.Mutex
	uploads  []string
	failWith map[string]error
}

func (f *uploadFake) Upload(ctx context.Context, projectID int, filename string, file io.Reader, size int64, progress fehres.ProgressFunc) (*fehres.UploadResponse, error) {
	if _, err := io.Copy(io.Discard, file); err != nil {
		return nil, err
	}
	if progress != nil {
		progress(50)
		progress(100)
	}

	f.mu.Lock()
	f.uploads = append(f.uploads, filename)
	err := f.failWith[filename]
	f.mu.Unlock()

	if err != nil {
		return nil, err
	}
	return &fehres.UploadResponse{Signal: "file_uploaded_successfully", FileID: "srv-" + filename}, nil
}

func writeTempFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestTrackerAddAndOrder(t *testing.T) {
	dir := t.TempDir()
	tr := NewTracker(&uploadFake{})

	for _, name := range []string{"a.txt", "b.txt", "c.txt"} {
		if _, err := tr.Add(writeTempFile(t, dir, name, "content")); err != nil {
			t.Fatalf("Add(%s) error: %v", name, err)
		}
	}

	files := tr.Files()
	if len(files) != 3 {
		t.Fatalf("Files() length = %d, want 3", len(files))
	}
	for i, want := range []string{"a.txt", "b.txt", "c.txt"} {
		if files[i].Name != want {
			t.Errorf("Files()[%d].Name = %q, want %q", i, files[i].Name, want)
		}
		if files[i].Status != FilePending {
			t.Errorf("Files()[%d].Status = %q, want pending", i, files[i].Status)
		}
	}
}

func TestTrackerAddMissingFile(t *testing.T) {
	tr := NewTracker(&uploadFake{})
	if _, err := tr.Add(filepath.Join(t.TempDir(), "missing.txt")); err == nil {
		t.Fatal("expected error for a file that does not exist")
	}
}

func TestUploadOneFailureDoesNotBlockSiblings(t *testing.T) {
	dir := t.TempDir()
	fake := &uploadFake{
		failWith: map[string]error{
			"b.txt": &fehres.APIError{StatusCode: 413, Message: "file too large"},
		},
	}
	tr := NewTracker(fake)

	for _, name := range []string{"a.txt", "b.txt", "c.txt"} {
		if _, err := tr.Add(writeTempFile(t, dir, name, "content of "+name)); err != nil {
			t.Fatal(err)
		}
	}

	tr.Upload(context.Background(), 1, 3)

	files := tr.Files()
	if len(files) != 3 {
		t.Fatalf("Files() length = %d, want 3: failed entries are never auto-removed", len(files))
	}

	byName := map[string]File{}
	for _, f := range files {
		byName[f.Name] = f
	}

	for _, name := range []string{"a.txt", "c.txt"} {
		f := byName[name]
		if f.Status != FileUploaded {
			t.Errorf("%s status = %q, want uploaded", name, f.Status)
		}
		if f.Progress != 100 {
			t.Errorf("%s progress = %d, want 100", name, f.Progress)
		}
		if f.ID != "srv-"+name {
			t.Errorf("%s ID = %q, want rebound to the server id", name, f.ID)
		}
	}

	b := byName["b.txt"]
	if b.Status != FileError {
		t.Errorf("b.txt status = %q, want error", b.Status)
	}
	if b.Error != "file too large" {
		t.Errorf("b.txt error detail = %q, want the server message", b.Error)
	}
}

func TestUploadSkipsSettledEntries(t *testing.T) {
	dir := t.TempDir()
	fake := &uploadFake{}
	tr := NewTracker(fake)

	if _, err := tr.Add(writeTempFile(t, dir, "a.txt", "content")); err != nil {
		t.Fatal(err)
	}
	tr.Upload(context.Background(), 1, 1)
	tr.Upload(context.Background(), 1, 1)

	fake.mu.Lock()
	uploads := len(fake.uploads)
	fake.mu.Unlock()
	if uploads != 1 {
		t.Errorf("upload calls = %d, want 1: uploaded entries are not re-sent", uploads)
	}
}

func TestUploadRebindKeepsInsertionOrder(t *testing.T) {
	dir := t.TempDir()
	tr := NewTracker(&uploadFake{})

	for _, name := range []string{"a.txt", "b.txt"} {
		if _, err := tr.Add(writeTempFile(t, dir, name, "content")); err != nil {
			t.Fatal(err)
		}
	}
	tr.Upload(context.Background(), 1, 2)

	files := tr.Files()
	if files[0].Name != "a.txt" || files[1].Name != "b.txt" {
		t.Errorf("order after rebind = [%s, %s], want [a.txt, b.txt]", files[0].Name, files[1].Name)
	}
	if files[0].ID != "srv-a.txt" {
		t.Errorf("first ID = %q, want the server id", files[0].ID)
	}
}

func TestRemoveDropsEntry(t *testing.T) {
	dir := t.TempDir()
	tr := NewTracker(&uploadFake{})

	id, err := tr.Add(writeTempFile(t, dir, "a.txt", "content"))
	if err != nil {
		t.Fatal(err)
	}
	tr.Remove(id)

	if files := tr.Files(); len(files) != 0 {
		t.Errorf("Files() length = %d after Remove, want 0", len(files))
	}

	// Removing an unknown id is a no-op.
	tr.Remove("nonexistent")
}
