package ingest

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/mohamedfathi540/RAG-001/fehres"
)

// scrapeFake counts calls and lets a test hold the scrape call open until it
// decides the outcome.
type scrapeFake struct {
	mu          sync.Mutex
	scrapeCalls int
	cancelCalls int
	replayCalls int

	block      chan struct{}
	scrapeResp *fehres.ScrapeResponse
	scrapeErr  error
	cancelErr  error
	replayResp *fehres.ScrapeResponse
	replayErr  error
}

func (f *scrapeFake) Scrape(ctx context.Context, req *fehres.ScrapeRequest) (*fehres.ScrapeResponse, error) {
	f.mu.Lock()
	f.scrapeCalls++
	f.mu.Unlock()
	if f.block != nil {
		<-f.block
	}
	return f.scrapeResp, f.scrapeErr
}

func (f *scrapeFake) ScrapeCancel(ctx context.Context) (*fehres.ScrapeCancelResponse, error) {
	f.mu.Lock()
	f.cancelCalls++
	f.mu.Unlock()
	if f.cancelErr != nil {
		return nil, f.cancelErr
	}
	return &fehres.ScrapeCancelResponse{Signal: "scrape_cancelled"}, nil
}

func (f *scrapeFake) ProcessScrapeCache(ctx context.Context, baseURL string) (*fehres.ScrapeResponse, error) {
	f.mu.Lock()
	f.replayCalls++
	f.mu.Unlock()
	return f.replayResp, f.replayErr
}

func (f *scrapeFake) calls() (scrape, cancel, replay int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.scrapeCalls, f.cancelCalls, f.replayCalls
}

func waitDone(t *testing.T, done <-chan struct{}) {
	t.Helper()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("scrape job did not settle")
	}
}

func TestScrapeSucceeds(t *testing.T) {
	fake := &scrapeFake{
		scrapeResp: &fehres.ScrapeResponse{InsertedChunks: 42, ProcessedPages: 7},
	}
	s := newScraper(fake, nil)

	done, err := s.Start(context.Background(), "https://docs.example.com", "example", true)
	if err != nil {
		t.Fatalf("Start() error: %v", err)
	}
	waitDone(t, done)

	job := s.Job()
	if job.Status != ScrapeSucceeded {
		t.Errorf("Status = %q, want succeeded", job.Status)
	}
	if job.Result == nil || job.Result.InsertedChunks != 42 {
		t.Errorf("Result = %+v, want 42 inserted chunks", job.Result)
	}
	if job.LibraryName != "example" || !job.ResetRequested {
		t.Errorf("job = %+v, want library and reset recorded", job)
	}
}

func TestScrapeSecondStartRejectedWithoutNetworkCall(t *testing.T) {
	fake := &scrapeFake{block: make(chan struct{})}
	s := newScraper(fake, nil)

	done, err := s.Start(context.Background(), "https://docs.example.com", "example", false)
	if err != nil {
		t.Fatalf("Start() error: %v", err)
	}

	_, err = s.Start(context.Background(), "https://other.example.com", "other", false)
	var busy *BusyError
	if !errors.As(err, &busy) {
		t.Fatalf("second Start() = %v, want BusyError", err)
	}
	if !errors.Is(err, ErrBusy) {
		t.Errorf("expected ErrBusy, got %v", err)
	}

	if scrape, _, _ := fake.calls(); scrape != 1 {
		t.Errorf("scrape calls = %d, want 1: the rejected start must not reach the network", scrape)
	}

	close(fake.block)
	waitDone(t, done)
}

func TestScrapeNoResponseIsUnknownNotFailed(t *testing.T) {
	fake := &scrapeFake{
		scrapeErr: &fehres.NoResponseError{Cause: errors.New("deadline exceeded")},
	}
	s := newScraper(fake, nil)

	done, err := s.Start(context.Background(), "https://docs.example.com", "example", false)
	if err != nil {
		t.Fatalf("Start() error: %v", err)
	}
	waitDone(t, done)

	job := s.Job()
	if job.Status != ScrapeUnknown {
		t.Errorf("Status = %q, want unknown", job.Status)
	}
	if job.Message == "" {
		t.Error("expected a recovery hint in the job message")
	}
}

func TestScrapeServerErrorIsFailed(t *testing.T) {
	fake := &scrapeFake{
		scrapeErr: &fehres.APIError{StatusCode: 422, Message: "invalid base url"},
	}
	s := newScraper(fake, nil)

	done, err := s.Start(context.Background(), "not-a-url", "example", false)
	if err != nil {
		t.Fatalf("Start() error: %v", err)
	}
	waitDone(t, done)

	job := s.Job()
	if job.Status != ScrapeFailed {
		t.Errorf("Status = %q, want failed", job.Status)
	}
	if job.Message != "invalid base url" {
		t.Errorf("Message = %q, want the server message", job.Message)
	}
}

func TestCancelWhenIdleIsNoOp(t *testing.T) {
	fake := &scrapeFake{}
	s := newScraper(fake, nil)

	if err := s.Cancel(context.Background()); err != nil {
		t.Fatalf("Cancel() on idle = %v, want nil", err)
	}
	if _, cancel, _ := fake.calls(); cancel != 0 {
		t.Errorf("cancel calls = %d, want 0: idle cancel must not reach the network", cancel)
	}
	if got := s.Job().Status; got != ScrapeIdle {
		t.Errorf("Status = %q, want idle", got)
	}
}

func TestCancelDiscardsLateStartResponse(t *testing.T) {
	fake := &scrapeFake{
		block:      make(chan struct{}),
		scrapeResp: &fehres.ScrapeResponse{InsertedChunks: 99},
	}
	s := newScraper(fake, nil)

	done, err := s.Start(context.Background(), "https://docs.example.com", "example", false)
	if err != nil {
		t.Fatalf("Start() error: %v", err)
	}

	if err := s.Cancel(context.Background()); err != nil {
		t.Fatalf("Cancel() error: %v", err)
	}
	if got := s.Job().Status; got != ScrapeCancelled {
		t.Fatalf("Status after confirmed cancel = %q, want cancelled", got)
	}

	// The original start call now comes back with a success response; it is
	// stale and must not overwrite the cancelled status.
	close(fake.block)
	waitDone(t, done)

	job := s.Job()
	if job.Status != ScrapeCancelled {
		t.Errorf("Status = %q, want cancelled to survive the late response", job.Status)
	}
	if job.Result != nil {
		t.Errorf("Result = %+v, want nil for a cancelled job", job.Result)
	}
}

func TestCancelFailureKeepsJobRunning(t *testing.T) {
	fake := &scrapeFake{
		block:     make(chan struct{}),
		cancelErr: &fehres.NoResponseError{Cause: errors.New("timeout")},
	}
	s := newScraper(fake, nil)

	done, err := s.Start(context.Background(), "https://docs.example.com", "example", false)
	if err != nil {
		t.Fatalf("Start() error: %v", err)
	}

	if err := s.Cancel(context.Background()); err == nil {
		t.Fatal("Cancel() = nil, want the transport error")
	}
	if got := s.Job().Status; got != ScrapeRunning {
		t.Errorf("Status after failed cancel = %q, want running", got)
	}

	close(fake.block)
	waitDone(t, done)
}

func TestReplayRecoversAfterUnknown(t *testing.T) {
	fake := &scrapeFake{
		scrapeErr:  &fehres.NoResponseError{Cause: errors.New("deadline exceeded")},
		replayResp: &fehres.ScrapeResponse{InsertedChunks: 120, ProcessedPages: 30},
	}
	s := newScraper(fake, nil)

	done, err := s.Start(context.Background(), "https://docs.example.com", "example", false)
	if err != nil {
		t.Fatalf("Start() error: %v", err)
	}
	waitDone(t, done)
	if got := s.Job().Status; got != ScrapeUnknown {
		t.Fatalf("Status = %q, want unknown before replay", got)
	}

	done, err = s.ReplayFromCache(context.Background(), "https://docs.example.com")
	if err != nil {
		t.Fatalf("ReplayFromCache() error: %v", err)
	}
	waitDone(t, done)

	job := s.Job()
	if job.Status != ScrapeSucceeded {
		t.Errorf("Status = %q, want succeeded after replay", job.Status)
	}
	if !job.Replay {
		t.Error("job not marked as a replay")
	}
	if job.Result == nil || job.Result.InsertedChunks != 120 {
		t.Errorf("Result = %+v, want the replay result", job.Result)
	}

	// Recovery must reuse the cache, never start a second crawl.
	scrape, _, replay := fake.calls()
	if scrape != 1 || replay != 1 {
		t.Errorf("calls = (scrape %d, replay %d), want (1, 1)", scrape, replay)
	}
}
