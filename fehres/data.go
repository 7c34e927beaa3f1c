package fehres

import (
	"context"
	"fmt"
	"io"
	"net/http"
)

// DataResource handles document ingestion: uploads, chunking, libraries and
// the scrape workflow.
type DataResource struct {
	http *httpClient
}

// newDataResource creates a new DataResource.
func newDataResource(http *httpClient) *DataResource {
	return &DataResource{http: http}
}

// projectPath appends the project segment when a project is addressed
// numerically. Deployments that address corpora by library name call the
// bare route.
func projectPath(base string, projectID int) string {
	if projectID > 0 {
		return fmt.Sprintf("%s/%d", base, projectID)
	}
	return base
}

// Upload sends one file to the backend and returns the server-issued file
// id. Progress, when non-nil, receives a monotonically non-decreasing
// percentage. Uses the upload deadline class.
func (r *DataResource) Upload(ctx context.Context, projectID int, filename string, file io.Reader, size int64, progress ProgressFunc) (*UploadResponse, error) {
	var resp UploadResponse
	err := r.http.upload(ctx, classUpload, projectPath("/data/upload", projectID), filename, file, size, progress, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// Process runs the chunking stage over uploaded assets. With a FileID set it
// processes that single asset, otherwise the whole project batch.
func (r *DataResource) Process(ctx context.Context, projectID int, req *ProcessRequest) (*ProcessResponse, error) {
	var resp ProcessResponse
	err := r.http.post(ctx, classDefault, projectPath("/data/process", projectID), req, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// Reset deletes all uploaded assets for the corpus.
func (r *DataResource) Reset(ctx context.Context) error {
	return r.http.delete(ctx, "/data/assets")
}

// Libraries lists the scraped documentation libraries.
func (r *DataResource) Libraries(ctx context.Context) ([]Library, error) {
	var resp LibrariesResponse
	if err := r.http.get(ctx, "/data/libraries", &resp); err != nil {
		return nil, err
	}
	return resp.Libraries, nil
}

// Scrape crawls a documentation site into a library and chunks the result.
// This is a long-running call: the backend may work for many minutes, so it
// runs under the long deadline class. A NoResponseError from this call does
// not mean the backend failed; the scrape may have completed server-side.
// Recover with ProcessScrapeCache or by checking Libraries.
func (r *DataResource) Scrape(ctx context.Context, req *ScrapeRequest) (*ScrapeResponse, error) {
	var resp ScrapeResponse
	if err := r.http.post(ctx, classLong, "/data/scrape", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ScrapeCancel asks the backend to stop the currently running scrape.
// Safe to call when nothing is running.
func (r *DataResource) ScrapeCancel(ctx context.Context) (*ScrapeCancelResponse, error) {
	var resp ScrapeCancelResponse
	if err := r.http.request(ctx, classDefault, http.MethodPost, "/data/scrape-cancel", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ProcessScrapeCache re-runs chunking from the scrape cache the backend kept
// for baseURL, without refetching any page. Chunking a large cached corpus
// can itself be slow, so it shares the long deadline class with Scrape.
func (r *DataResource) ProcessScrapeCache(ctx context.Context, baseURL string) (*ScrapeResponse, error) {
	var resp ScrapeResponse
	req := &ProcessScrapeCacheRequest{BaseURL: baseURL}
	if err := r.http.post(ctx, classLong, "/data/process-scrape-cache", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
