package fehres

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestNewClientRequiresBaseURL(t *testing.T) {
	t.Setenv(EnvFehresURL, "")

	_, err := NewClient()
	if err == nil {
		t.Fatal("expected error when no base URL is configured")
	}
	if !errors.Is(err, ErrConfiguration) {
		t.Errorf("expected ErrConfiguration, got %v", err)
	}
}

func TestNewClientBaseURLFromEnv(t *testing.T) {
	t.Setenv(EnvFehresURL, "http://example.com/api/v1/")

	client, err := NewClient()
	if err != nil {
		t.Fatalf("NewClient() error: %v", err)
	}
	if got := client.BaseURL(); got != "http://example.com/api/v1" {
		t.Errorf("BaseURL() = %q, want trailing slash trimmed", got)
	}
}

func TestBaseURLResolvedPerCall(t *testing.T) {
	first := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"app_name": "first", "app_version": "1"}`)
	}))
	defer first.Close()
	second := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"app_name": "second", "app_version": "2"}`)
	}))
	defer second.Close()

	baseURL := first.URL
	client, err := NewClient(WithBaseURLFunc(func() string { return baseURL }))
	if err != nil {
		t.Fatalf("NewClient() error: %v", err)
	}

	resp, err := client.Health(context.Background())
	if err != nil {
		t.Fatalf("Health() error: %v", err)
	}
	if resp.AppName != "first" {
		t.Errorf("AppName = %q, want %q", resp.AppName, "first")
	}

	// A settings change between calls must take effect without a new client.
	baseURL = second.URL
	resp, err = client.Health(context.Background())
	if err != nil {
		t.Fatalf("Health() error: %v", err)
	}
	if resp.AppName != "second" {
		t.Errorf("AppName = %q, want %q", resp.AppName, "second")
	}
}

func TestServerErrorBecomesAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		io.WriteString(w, `{"signal": "no_files_to_process"}`)
	}))
	defer server.Close()

	client, err := NewClient(WithBaseURL(server.URL))
	if err != nil {
		t.Fatalf("NewClient() error: %v", err)
	}

	_, err = client.Data.Process(context.Background(), 1, &ProcessRequest{})
	if err == nil {
		t.Fatal("expected error for 422 response")
	}
	if !errors.Is(err, ErrServerRejected) {
		t.Errorf("expected ErrServerRejected, got %v", err)
	}

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %T", err)
	}
	if apiErr.StatusCode != http.StatusUnprocessableEntity {
		t.Errorf("StatusCode = %d, want 422", apiErr.StatusCode)
	}
	if apiErr.Message != "no_files_to_process" {
		t.Errorf("Message = %q, want %q", apiErr.Message, "no_files_to_process")
	}
}

type failingDoer struct {
	err error
}

func (d *failingDoer) Do(req *http.Request) (*http.Response, error) {
	return nil, d.err
}

func TestTransportFailureBecomesNoResponseError(t *testing.T) {
	cause := errors.New("connection refused")
	client, err := NewClient(
		WithBaseURL("http://localhost:9"),
		WithHTTPDoer(&failingDoer{err: cause}),
	)
	if err != nil {
		t.Fatalf("NewClient() error: %v", err)
	}

	_, err = client.Health(context.Background())
	if err == nil {
		t.Fatal("expected error from failing transport")
	}
	if !errors.Is(err, ErrNoResponse) {
		t.Errorf("expected ErrNoResponse, got %v", err)
	}
	if !errors.Is(err, cause) {
		t.Errorf("expected wrapped cause to be reachable, got %v", err)
	}
	want := "No response from server. Please check if the API is running."
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestEmptyResponseBodyDecodesAsEmptyObject(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	client, err := NewClient(WithBaseURL(server.URL))
	if err != nil {
		t.Fatalf("NewClient() error: %v", err)
	}

	resp, err := client.Health(context.Background())
	if err != nil {
		t.Fatalf("Health() error: %v", err)
	}
	if resp.AppName != "" {
		t.Errorf("AppName = %q, want empty", resp.AppName)
	}
}

func TestProjectPath(t *testing.T) {
	tests := []struct {
		name      string
		projectID int
		want      string
	}{
		{"numeric project", 5, "/data/process/5"},
		{"zero project omits segment", 0, "/data/process"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := projectPath("/data/process", tt.projectID); got != tt.want {
				t.Errorf("projectPath() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestUploadSendsMultipartFile(t *testing.T) {
	content := strings.Repeat("chunk of text. ", 100)

	var gotPath, gotFilename, gotContent string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("ParseMultipartForm() error: %v", err)
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		file, header, err := r.FormFile("file")
		if err != nil {
			t.Errorf("FormFile(file) error: %v", err)
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		defer file.Close()
		gotFilename = header.Filename
		data, _ := io.ReadAll(file)
		gotContent = string(data)
		io.WriteString(w, `{"signal": "file_uploaded_successfully", "file_id": "abc123.txt"}`)
	}))
	defer server.Close()

	client, err := NewClient(WithBaseURL(server.URL))
	if err != nil {
		t.Fatalf("NewClient() error: %v", err)
	}

	var reports []int
	resp, err := client.Data.Upload(context.Background(), 3, "notes.txt",
		strings.NewReader(content), int64(len(content)), func(pct int) {
			reports = append(reports, pct)
		})
	if err != nil {
		t.Fatalf("Upload() error: %v", err)
	}

	if gotPath != "/data/upload/3" {
		t.Errorf("request path = %q, want %q", gotPath, "/data/upload/3")
	}
	if gotFilename != "notes.txt" {
		t.Errorf("filename = %q, want %q", gotFilename, "notes.txt")
	}
	if gotContent != content {
		t.Errorf("uploaded content does not match source (%d bytes vs %d)", len(gotContent), len(content))
	}
	if resp.FileID != "abc123.txt" {
		t.Errorf("FileID = %q, want %q", resp.FileID, "abc123.txt")
	}

	if len(reports) == 0 {
		t.Fatal("expected at least one progress report")
	}
	for i := 1; i < len(reports); i++ {
		if reports[i] <= reports[i-1] {
			t.Errorf("progress not strictly increasing: %v", reports)
			break
		}
	}
	if last := reports[len(reports)-1]; last != 100 {
		t.Errorf("final progress = %d, want 100", last)
	}
}

// deadlineDoer records the context deadline of each request it sees.
type deadlineDoer struct {
	deadlines []time.Duration
}

func (d *deadlineDoer) Do(req *http.Request) (*http.Response, error) {
	if deadline, ok := req.Context().Deadline(); ok {
		d.deadlines = append(d.deadlines, time.Until(deadline))
	}
	if req.Body != nil {
		io.Copy(io.Discard, req.Body)
		req.Body.Close()
	}
	return &http.Response{
		StatusCode: http.StatusOK,
		Body:       io.NopCloser(strings.NewReader("{}")),
	}, nil
}

func TestTimeoutClassPerOperation(t *testing.T) {
	doer := &deadlineDoer{}
	client, err := NewClient(WithBaseURL("http://localhost:8000/api/v1"), WithHTTPDoer(doer))
	if err != nil {
		t.Fatalf("NewClient() error: %v", err)
	}
	ctx := context.Background()

	if _, err := client.Health(ctx); err != nil {
		t.Fatalf("Health() error: %v", err)
	}
	if _, err := client.Data.Upload(ctx, 1, "a.txt", strings.NewReader("x"), 1, nil); err != nil {
		t.Fatalf("Upload() error: %v", err)
	}
	if _, err := client.Data.Scrape(ctx, &ScrapeRequest{BaseURL: "https://docs.example.com"}); err != nil {
		t.Fatalf("Scrape() error: %v", err)
	}

	if len(doer.deadlines) != 3 {
		t.Fatalf("saw %d deadlines, want 3", len(doer.deadlines))
	}
	wants := []time.Duration{DefaultTimeout, UploadTimeout, LongTimeout}
	for i, want := range wants {
		got := doer.deadlines[i]
		if got <= 0 || got > want || got < want-30*time.Second {
			t.Errorf("request %d deadline = %v, want about %v", i, got, want)
		}
	}
}

func TestCollectionInfoCount(t *testing.T) {
	n := func(v int) *int { return &v }

	tests := []struct {
		name   string
		info   CollectionInfo
		want   int
		wantOK bool
	}{
		{"vectors count preferred", CollectionInfo{VectorsCount: n(10), PointsCount: n(20)}, 10, true},
		{"points count next", CollectionInfo{PointsCount: n(20), IndexedVectorsCount: n(30)}, 20, true},
		{"indexed vectors last", CollectionInfo{IndexedVectorsCount: n(30)}, 30, true},
		{"nothing populated", CollectionInfo{}, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.info.Count()
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("Count() = (%d, %v), want (%d, %v)", got, ok, tt.want, tt.wantOK)
			}
		})
	}
}
