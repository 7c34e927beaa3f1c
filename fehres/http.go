package fehres

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strings"
	"time"
)

// HTTPDoer is an interface for making HTTP requests (for testing).
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// timeoutClass selects the deadline applied to an operation. Interactive
// calls fail fast; uploads and the scrape family are given much longer.
type timeoutClass int

const (
	classDefault timeoutClass = iota
	classUpload
	classLong
)

// Per-class deadlines. The long class covers scrape and cache replay, where
// the backend may legitimately work for many minutes before answering.
const (
	DefaultTimeout = 60 * time.Second
	UploadTimeout  = 3 * time.Minute
	LongTimeout    = 15 * time.Minute
)

// httpClient is the internal HTTP client. The base URL is resolved through
// a function on every call, so a settings change takes effect on the next
// request without rebuilding the client.
type httpClient struct {
	resolveBaseURL func() string
	client         HTTPDoer
	logger         *slog.Logger
}

// newHTTPClient creates a new HTTP client.
func newHTTPClient(resolveBaseURL func() string, doer HTTPDoer, logger *slog.Logger) *httpClient {
	if doer == nil {
		// No Timeout on the inner client; deadlines come from the
		// per-call context so each class gets its own budget.
		doer = &http.Client{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &httpClient{
		resolveBaseURL: resolveBaseURL,
		client:         doer,
		logger:         logger,
	}
}

// timeoutFor maps a class to its deadline.
func timeoutFor(class timeoutClass) time.Duration {
	switch class {
	case classUpload:
		return UploadTimeout
	case classLong:
		return LongTimeout
	default:
		return DefaultTimeout
	}
}

// url joins the current base URL with a request path.
func (h *httpClient) url(path string) string {
	return strings.TrimRight(h.resolveBaseURL(), "/") + path
}

// do sends a prepared request and normalizes every failure into exactly one
// of the client error classes. It returns the raw response body on success.
func (h *httpClient) do(req *http.Request) ([]byte, error) {
	start := time.Now()
	resp, err := h.client.Do(req)
	if err != nil {
		h.logger.Debug("request failed", "method", req.Method, "url", req.URL.String(), "err", err)
		return nil, newNoResponseError(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, newNoResponseError(fmt.Errorf("failed to read response body: %w", err))
	}

	h.logger.Debug("request done",
		"method", req.Method,
		"url", req.URL.String(),
		"status", resp.StatusCode,
		"elapsed", time.Since(start))

	if resp.StatusCode >= 400 {
		return nil, newAPIError(resp.StatusCode, extractErrorMessage(body))
	}

	if resp.StatusCode == http.StatusNoContent || len(body) == 0 {
		return []byte("{}"), nil
	}
	return body, nil
}

// request performs a JSON request within the deadline of the given class and
// decodes the response into result when result is non-nil.
func (h *httpClient) request(ctx context.Context, class timeoutClass, method, path string, body, result interface{}) error {
	ctx, cancel := context.WithTimeout(ctx, timeoutFor(class))
	defer cancel()

	var bodyReader io.Reader
	if body != nil {
		bodyBytes, err := json.Marshal(body)
		if err != nil {
			return newRequestError(fmt.Errorf("failed to marshal request body: %w", err))
		}
		bodyReader = bytes.NewReader(bodyBytes)
	}

	req, err := http.NewRequestWithContext(ctx, method, h.url(path), bodyReader)
	if err != nil {
		return newRequestError(err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	respBody, err := h.do(req)
	if err != nil {
		return err
	}
	if result != nil {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("failed to parse response: %w", err)
		}
	}
	return nil
}

// get makes a GET request with the default deadline.
func (h *httpClient) get(ctx context.Context, path string, result interface{}) error {
	return h.request(ctx, classDefault, http.MethodGet, path, nil, result)
}

// post makes a POST request with the given deadline class.
func (h *httpClient) post(ctx context.Context, class timeoutClass, path string, body, result interface{}) error {
	return h.request(ctx, class, http.MethodPost, path, body, result)
}

// delete makes a DELETE request with the default deadline.
func (h *httpClient) delete(ctx context.Context, path string) error {
	return h.request(ctx, classDefault, http.MethodDelete, path, nil, nil)
}

// ProgressFunc receives upload progress as a percentage in [0, 100].
// Values are monotonically non-decreasing for one upload.
type ProgressFunc func(percent int)

// progressReader wraps a reader and reports cumulative read progress.
type progressReader struct {
	r        io.Reader
	total    int64
	read     int64
	lastPct  int
	progress ProgressFunc
}

func (p *progressReader) Read(buf []byte) (int, error) {
	n, err := p.r.Read(buf)
	if n > 0 && p.progress != nil && p.total > 0 {
		p.read += int64(n)
		pct := int(p.read * 100 / p.total)
		if pct > 100 {
			pct = 100
		}
		// Never report a lower percentage than already seen.
		if pct > p.lastPct {
			p.lastPct = pct
			p.progress(pct)
		}
	}
	return n, err
}

// upload posts a single file as a multipart form within the upload-class
// deadline. The body is streamed through a pipe so large files are never
// buffered whole, and progress is measured on bytes consumed from the file.
func (h *httpClient) upload(ctx context.Context, class timeoutClass, path, filename string, file io.Reader, size int64, progress ProgressFunc, result interface{}) error {
	ctx, cancel := context.WithTimeout(ctx, timeoutFor(class))
	defer cancel()

	src := &progressReader{r: file, total: size, progress: progress}

	pr, pw := io.Pipe()
	writer := multipart.NewWriter(pw)
	go func() {
		part, err := writer.CreateFormFile("file", filename)
		if err != nil {
			pw.CloseWithError(err)
			return
		}
		if _, err := io.Copy(part, src); err != nil {
			pw.CloseWithError(err)
			return
		}
		pw.CloseWithError(writer.Close())
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.url(path), pr)
	if err != nil {
		return newRequestError(err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Accept", "application/json")

	respBody, err := h.do(req)
	if err != nil {
		return err
	}
	if result != nil {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("failed to parse response: %w", err)
		}
	}
	return nil
}
