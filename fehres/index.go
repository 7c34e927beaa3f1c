package fehres

import (
	"context"
	"fmt"
)

// IndexResource handles the vector index: push, info, search and
// RAG-augmented answers.
type IndexResource struct {
	http *httpClient
}

// newIndexResource creates a new IndexResource.
func newIndexResource(http *httpClient) *IndexResource {
	return &IndexResource{http: http}
}

// Push embeds processed chunks into the vector collection. With doReset the
// collection is dropped and rebuilt from scratch.
func (r *IndexResource) Push(ctx context.Context, projectID int, doReset bool) (*PushResponse, error) {
	var resp PushResponse
	req := &PushRequest{DoReset: doReset}
	err := r.http.post(ctx, classDefault, fmt.Sprintf("/nlp/index/push/%d", projectID), req, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// Info returns vector collection statistics for a project.
func (r *IndexResource) Info(ctx context.Context, projectID int) (*IndexInfoResponse, error) {
	var resp IndexInfoResponse
	if err := r.http.get(ctx, fmt.Sprintf("/nlp/index/info/%d", projectID), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Search runs a semantic search over the project's index.
func (r *IndexResource) Search(ctx context.Context, projectID int, req *SearchRequest) ([]SearchResult, error) {
	var resp SearchResponse
	err := r.http.post(ctx, classDefault, fmt.Sprintf("/nlp/index/search/%d", projectID), req, &resp)
	if err != nil {
		return nil, err
	}
	return resp.Results, nil
}

// Answer produces a RAG-augmented answer grounded in the project's index.
func (r *IndexResource) Answer(ctx context.Context, projectID int, req *AnswerRequest) (*AnswerResponse, error) {
	var resp AnswerResponse
	err := r.http.post(ctx, classDefault, fmt.Sprintf("/nlp/index/answer/%d", projectID), req, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}
