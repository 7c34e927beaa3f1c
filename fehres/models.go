package fehres

// Wire types for the Fehres backend. JSON tags mirror the backend exactly,
// mixed casing included ("signal" vs "Signal", "Inserted_chunks"); the
// casing quirks stop at this package.

// HealthResponse is returned by GET /.
type HealthResponse struct {
	AppName    string `json:"app_name"`
	AppVersion string `json:"app_version"`
}

// UploadResponse is returned by POST /data/upload/{projectID}.
type UploadResponse struct {
	Signal string `json:"signal"`
	FileID string `json:"file_id"`
}

// ProcessRequest configures a chunking run. DoReset is the backend's 0/1
// flag: 1 discards previously processed chunks for the project first.
type ProcessRequest struct {
	ChunkSize   int    `json:"chunk_size,omitempty"`
	OverlapSize int    `json:"overlap_size,omitempty"`
	DoReset     int    `json:"Do_reset"`
	FileID      string `json:"file_id,omitempty"`
}

// ProcessResponse is returned by POST /data/process/{projectID}.
type ProcessResponse struct {
	Signal         string `json:"signal"`
	InsertedChunks int    `json:"Inserted_chunks"`
	ProcessedFiles int    `json:"processed_files"`
}

// PushRequest configures an index push.
type PushRequest struct {
	DoReset bool `json:"do_reset"`
}

// PushResponse is returned by POST /nlp/index/push/{projectID}.
type PushResponse struct {
	Signal             string `json:"Signal"`
	InsertedItemsCount int    `json:"InsertedItemsCount"`
}

// CollectionInfo describes the vector collection backing a project. Which
// count field is populated depends on the vector store in use.
type CollectionInfo struct {
	VectorsCount        *int `json:"vectors_count,omitempty"`
	PointsCount         *int `json:"points_count,omitempty"`
	IndexedVectorsCount *int `json:"indexed_vectors_count,omitempty"`
}

// Count returns the first available count, preferring vectors_count, then
// points_count, then indexed_vectors_count. The second return reports
// whether any count was present.
func (c CollectionInfo) Count() (int, bool) {
	switch {
	case c.VectorsCount != nil:
		return *c.VectorsCount, true
	case c.PointsCount != nil:
		return *c.PointsCount, true
	case c.IndexedVectorsCount != nil:
		return *c.IndexedVectorsCount, true
	default:
		return 0, false
	}
}

// IndexInfoResponse is returned by GET /nlp/index/info/{projectID}.
type IndexInfoResponse struct {
	Signal         string         `json:"Signal"`
	CollectionInfo CollectionInfo `json:"CollectionInfo"`
}

// SearchRequest configures a semantic search.
type SearchRequest struct {
	Text  string `json:"text"`
	Limit int    `json:"limit"`
}

// SearchResult is one semantic search hit.
type SearchResult struct {
	Text     string                 `json:"text"`
	Score    float64                `json:"score"`
	Metadata map[string]interface{} `json:"metadata,omitempty"`
}

// SearchResponse is returned by POST /nlp/index/search/{projectID}.
type SearchResponse struct {
	Signal  string         `json:"Signal"`
	Results []SearchResult `json:"Results"`
}

// AnswerRequest configures a RAG-augmented answer. ProjectName scopes the
// answer to a named library on deployments that address corpora by name.
type AnswerRequest struct {
	Text        string `json:"text"`
	Limit       int    `json:"limit"`
	ProjectName string `json:"project_name,omitempty"`
}

// AnswerResponse is returned by POST /nlp/index/answer/{projectID} and by
// POST /prescription/chat.
type AnswerResponse struct {
	Signal      string        `json:"Signal"`
	Answer      string        `json:"Answer"`
	FullPrompt  string        `json:"FullPrompt"`
	ChatHistory []interface{} `json:"ChatHistory"`
}

// Library is one scraped documentation corpus.
type Library struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// LibrariesResponse is returned by GET /data/libraries.
type LibrariesResponse struct {
	Signal    string    `json:"signal"`
	Libraries []Library `json:"libraries"`
}

// ScrapeRequest starts a documentation scrape. DoReset is the backend's 0/1
// flag: 1 discards existing content for the library first.
type ScrapeRequest struct {
	BaseURL     string `json:"base_url"`
	LibraryName string `json:"library_name"`
	DoReset     int    `json:"Do_reset"`
}

// ScrapeResponse is returned by POST /data/scrape and by
// POST /data/process-scrape-cache.
type ScrapeResponse struct {
	Signal            string `json:"signal"`
	InsertedChunks    int    `json:"Inserted_chunks"`
	ProcessedPages    int    `json:"processed_pages"`
	TotalPagesScraped int    `json:"total_pages_scraped"`
}

// ScrapeCancelResponse is returned by POST /data/scrape-cancel.
type ScrapeCancelResponse struct {
	Signal  string `json:"signal"`
	Message string `json:"message"`
}

// ProcessScrapeCacheRequest re-runs chunking from a saved scrape cache.
type ProcessScrapeCacheRequest struct {
	BaseURL string `json:"base_url"`
}

// Medicine is one medicine extracted from a prescription image.
type Medicine struct {
	Name             string `json:"name"`
	ActiveIngredient string `json:"active_ingredient"`
	ImageURL         string `json:"image_url"`
}

// PrescriptionResponse is returned by POST /prescription/analyze.
type PrescriptionResponse struct {
	Signal    string     `json:"signal"`
	OCRText   string     `json:"ocr_text"`
	Medicines []Medicine `json:"medicines"`
	ProjectID int        `json:"project_id"`
}

// PrescriptionChatRequest configures a chat about an analyzed prescription.
type PrescriptionChatRequest struct {
	Text      string `json:"text"`
	Limit     int    `json:"limit"`
	ProjectID int    `json:"project_id"`
}
