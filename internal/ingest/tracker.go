package ingest

import (
	"context"
	"io"
	"os"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/mohamedfathi540/RAG-001/fehres"
)

// FileStatus is the upload state of one tracked file.
type FileStatus string

const (
	FilePending   FileStatus = "pending"
	FileUploading FileStatus = "uploading"
	FileUploaded  FileStatus = "uploaded"
	FileError     FileStatus = "error"
)

// File is a snapshot of one tracked upload. After a successful upload the
// ID is the server-issued file id; before that it is a client-synthesized
// one.
type File struct {
	ID       string
	Name     string
	Size     int64
	Status   FileStatus
	Progress int
	Error    string
}

// uploadAPI is the slice of the backend client the tracker needs.
type uploadAPI interface {
	Upload(ctx context.Context, projectID int, filename string, file io.Reader, size int64, progress fehres.ProgressFunc) (*fehres.UploadResponse, error)
}

// fileEntry is the tracker's mutable record for one file. gen invalidates
// callbacks from a superseded upload attempt: a late progress report or
// result is ignored once the generation has moved on.
type fileEntry struct {
	file File
	path string
	gen  uint64
}

// Tracker drives concurrent file uploads through
// pending -> uploading -> uploaded|error. Transitions of different files
// are independent; one failure never blocks siblings. Entries are removed
// only by an explicit Remove call.
type Tracker struct {
	api uploadAPI

	mu      sync.Mutex
	order   []string
	entries map[string]*fileEntry
}

// NewTracker creates a tracker uploading through the given client.
func NewTracker(api uploadAPI) *Tracker {
	return &Tracker{
		api:     api,
		entries: make(map[string]*fileEntry),
	}
}

// Add registers a local file for upload and returns its tracking id.
func (t *Tracker) Add(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", err
	}

	id := uuid.NewString()
	t.mu.Lock()
	defer t.mu.Unlock()
	t.entries[id] = &fileEntry{
		file: File{
			ID:     id,
			Name:   info.Name(),
			Size:   info.Size(),
			Status: FilePending,
		},
		path: path,
	}
	t.order = append(t.order, id)
	return id, nil
}

// Remove drops a tracked file. Removal is always explicit; the tracker
// never removes entries on its own, not even failed ones.
func (t *Tracker) Remove(id string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	entry, ok := t.entries[id]
	if !ok {
		return
	}
	entry.gen++
	delete(t.entries, id)
	for i, existing := range t.order {
		if existing == id {
			t.order = append(t.order[:i], t.order[i+1:]...)
			break
		}
	}
}

// Files returns a snapshot of all tracked files in insertion order.
func (t *Tracker) Files() []File {
	t.mu.Lock()
	defer t.mu.Unlock()
	files := make([]File, 0, len(t.order))
	for _, id := range t.order {
		if entry, ok := t.entries[id]; ok {
			files = append(files, entry.file)
		}
	}
	return files
}

// Upload uploads all pending files concurrently, at most concurrency at a
// time. It returns once every upload has settled; per-file outcomes are
// reported through Files, not through the return value.
func (t *Tracker) Upload(ctx context.Context, projectID, concurrency int) {
	if concurrency < 1 {
		concurrency = 1
	}

	t.mu.Lock()
	var pending []string
	for _, id := range t.order {
		if entry, ok := t.entries[id]; ok && entry.file.Status == FilePending {
			pending = append(pending, id)
		}
	}
	t.mu.Unlock()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for _, id := range pending {
		id := id
		g.Go(func() error {
			t.uploadOne(gctx, projectID, id)
			return nil
		})
	}
	// Workers never return errors; Wait is just the join point.
	_ = g.Wait()
}

// uploadOne drives a single entry through its state machine.
func (t *Tracker) uploadOne(ctx context.Context, projectID int, id string) {
	t.mu.Lock()
	entry, ok := t.entries[id]
	if !ok || entry.file.Status != FilePending {
		t.mu.Unlock()
		return
	}
	entry.file.Status = FileUploading
	gen := entry.gen
	path := entry.path
	name := entry.file.Name
	size := entry.file.Size
	t.mu.Unlock()

	f, err := os.Open(path)
	if err != nil {
		t.fail(id, gen, err.Error())
		return
	}
	defer f.Close()

	resp, err := t.api.Upload(ctx, projectID, name, f, size, func(pct int) {
		t.applyProgress(id, gen, pct)
	})
	if err != nil {
		t.fail(id, gen, err.Error())
		return
	}
	t.succeed(id, gen, resp.FileID)
}

// applyProgress records progress, keeping it monotonic per entry and
// discarding reports from superseded attempts.
func (t *Tracker) applyProgress(id string, gen uint64, pct int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	entry, ok := t.entries[id]
	if !ok || entry.gen != gen || entry.file.Status != FileUploading {
		return
	}
	if pct > entry.file.Progress {
		entry.file.Progress = pct
	}
}

// fail marks an entry failed with its user-facing error detail.
func (t *Tracker) fail(id string, gen uint64, message string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	entry, ok := t.entries[id]
	if !ok || entry.gen != gen {
		return
	}
	entry.file.Status = FileError
	entry.file.Error = message
}

// succeed marks an entry uploaded and rebinds it to the server-issued file
// id: the client id is retired and the entry re-keyed, keeping its position
// in insertion order. Later Process calls can reference the server id.
func (t *Tracker) succeed(id string, gen uint64, serverID string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	entry, ok := t.entries[id]
	if !ok || entry.gen != gen {
		return
	}
	entry.file.Status = FileUploaded
	entry.file.Progress = 100
	if serverID != "" && serverID != id {
		delete(t.entries, id)
		entry.file.ID = serverID
		t.entries[serverID] = entry
		for i, existing := range t.order {
			if existing == id {
				t.order[i] = serverID
				break
			}
		}
	}
}
