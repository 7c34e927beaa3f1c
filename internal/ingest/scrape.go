package ingest

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/mohamedfathi540/RAG-001/fehres"
)

// ScrapeStatus is the lifecycle state of the scrape job.
type ScrapeStatus string

const (
	ScrapeIdle       ScrapeStatus = "idle"
	ScrapeRunning    ScrapeStatus = "running"
	ScrapeCancelling ScrapeStatus = "cancelling"
	ScrapeCancelled  ScrapeStatus = "cancelled"
	ScrapeSucceeded  ScrapeStatus = "succeeded"
	ScrapeFailed     ScrapeStatus = "failed"

	// ScrapeUnknown means the client timed out waiting but the backend may
	// have finished the scrape. Recover with ReplayFromCache or by checking
	// the library list; this is deliberately not "failed".
	ScrapeUnknown ScrapeStatus = "unknown"
)

// ScrapeJob is a snapshot of the single process-wide scrape job.
type ScrapeJob struct {
	LibraryName    string
	BaseURL        string
	ResetRequested bool
	Replay         bool
	Status         ScrapeStatus
	Result         *fehres.ScrapeResponse
	Message        string
}

// scrapeAPI is the slice of the backend client the manager needs.
type scrapeAPI interface {
	Scrape(ctx context.Context, req *fehres.ScrapeRequest) (*fehres.ScrapeResponse, error)
	ScrapeCancel(ctx context.Context) (*fehres.ScrapeCancelResponse, error)
	ProcessScrapeCache(ctx context.Context, baseURL string) (*fehres.ScrapeResponse, error)
}

// clientScrape adapts the fehres client to scrapeAPI.
type clientScrape struct {
	client *fehres.Client
}

func (c clientScrape) Scrape(ctx context.Context, req *fehres.ScrapeRequest) (*fehres.ScrapeResponse, error) {
	return c.client.Data.Scrape(ctx, req)
}

func (c clientScrape) ScrapeCancel(ctx context.Context) (*fehres.ScrapeCancelResponse, error) {
	return c.client.Data.ScrapeCancel(ctx)
}

func (c clientScrape) ProcessScrapeCache(ctx context.Context, baseURL string) (*fehres.ScrapeResponse, error) {
	return c.client.Data.ProcessScrapeCache(ctx, baseURL)
}

// Scraper manages the single long-running scrape job. At most one job may
// be running or cancelling at a time; Start and ReplayFromCache refuse
// further work before any network call is made. Results are applied under
// a generation counter so a response from a superseded attempt can never
// overwrite a newer status.
type Scraper struct {
	api    scrapeAPI
	logger *slog.Logger

	mu  sync.Mutex
	gen uint64
	job ScrapeJob
}

// NewScraper creates a scrape workflow manager using the given client.
func NewScraper(client *fehres.Client, logger *slog.Logger) *Scraper {
	return newScraper(clientScrape{client: client}, logger)
}

func newScraper(api scrapeAPI, logger *slog.Logger) *Scraper {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scraper{
		api:    api,
		logger: logger,
		job:    ScrapeJob{Status: ScrapeIdle},
	}
}

// Job returns a snapshot of the current job.
func (s *Scraper) Job() ScrapeJob {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.job
}

// active reports whether a job holds the single-flight slot.
// Callers must hold s.mu.
func (s *Scraper) active() bool {
	return s.job.Status == ScrapeRunning || s.job.Status == ScrapeCancelling
}

// Start begins a scrape of baseURL into the named library. It returns a
// channel closed when the job settles, or a BusyError without any network
// call if a job is already running or cancelling.
func (s *Scraper) Start(ctx context.Context, baseURL, libraryName string, reset bool) (<-chan struct{}, error) {
	s.mu.Lock()
	if s.active() {
		s.mu.Unlock()
		return nil, &BusyError{Operation: "scrape"}
	}
	s.gen++
	gen := s.gen
	s.job = ScrapeJob{
		LibraryName:    libraryName,
		BaseURL:        baseURL,
		ResetRequested: reset,
		Status:         ScrapeRunning,
	}
	s.mu.Unlock()

	req := &fehres.ScrapeRequest{
		BaseURL:     baseURL,
		LibraryName: libraryName,
	}
	if reset {
		req.DoReset = 1
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		resp, err := s.api.Scrape(ctx, req)
		s.settle(gen, resp, err)
	}()
	return done, nil
}

// ReplayFromCache recovers from a client-side timeout on Start by
// re-running only the chunking stage against the backend's scrape cache for
// baseURL. Subject to the same single-flight guard as Start.
func (s *Scraper) ReplayFromCache(ctx context.Context, baseURL string) (<-chan struct{}, error) {
	s.mu.Lock()
	if s.active() {
		s.mu.Unlock()
		return nil, &BusyError{Operation: "scrape"}
	}
	s.gen++
	gen := s.gen
	s.job = ScrapeJob{
		BaseURL: baseURL,
		Replay:  true,
		Status:  ScrapeRunning,
	}
	s.mu.Unlock()

	done := make(chan struct{})
	go func() {
		defer close(done)
		resp, err := s.api.ProcessScrapeCache(ctx, baseURL)
		s.settle(gen, resp, err)
	}()
	return done, nil
}

// settle applies a scrape outcome. The result is discarded when the
// generation has moved on or the job left the running state (for example a
// confirmed cancel): a stale response never supersedes the newer status.
func (s *Scraper) settle(gen uint64, resp *fehres.ScrapeResponse, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.gen != gen || s.job.Status != ScrapeRunning {
		s.logger.Debug("discarding stale scrape result", "status", s.job.Status)
		return
	}

	switch {
	case err == nil:
		s.job.Status = ScrapeSucceeded
		s.job.Result = resp
	case errors.Is(err, fehres.ErrNoResponse):
		// The backend may well have finished; the client just stopped
		// waiting. Surface that as unknown, not as failure.
		s.job.Status = ScrapeUnknown
		s.job.Message = "no response before the deadline; the scrape may have completed on the server. Replay from cache or check the library list."
	default:
		s.job.Status = ScrapeFailed
		s.job.Message = err.Error()
	}
}

// Cancel stops the running scrape. When nothing is running or cancelling it
// succeeds immediately with no state change and no network call. Otherwise
// it sends the short cancellation request; once the backend confirms, the
// job is cancelled and the in-flight start call's eventual response is
// discarded by settle.
func (s *Scraper) Cancel(ctx context.Context) error {
	s.mu.Lock()
	if !s.active() {
		s.mu.Unlock()
		return nil
	}
	if s.job.Status == ScrapeCancelling {
		s.mu.Unlock()
		return &BusyError{Operation: "scrape cancel"}
	}
	s.job.Status = ScrapeCancelling
	s.mu.Unlock()

	_, err := s.api.ScrapeCancel(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.job.Status != ScrapeCancelling {
		// The start call settled while the cancel was in flight.
		return err
	}
	if err != nil {
		// Cancellation never reached the backend; the job is still running
		// there, so keep reflecting that.
		s.job.Status = ScrapeRunning
		return err
	}
	s.job.Status = ScrapeCancelled
	return nil
}
