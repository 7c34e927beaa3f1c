package ingest

import (
	"context"
	"fmt"
	"sync"

	"github.com/mohamedfathi540/RAG-001/fehres"
)

// Stage identifies one step of the ingestion pipeline.
type Stage string

const (
	StageProcess Stage = "process"
	StageIndex   Stage = "index"
)

// StageStatus is the lifecycle state of one pipeline stage.
type StageStatus string

const (
	StageIdle    StageStatus = "idle"
	StageRunning StageStatus = "running"
	StageSuccess StageStatus = "success"
	StageFailure StageStatus = "error"
)

// StageConfig configures one stage run. ResetBeforeRun asks the backend to
// discard that stage's prior state before running; without it the run is
// additive.
type StageConfig struct {
	ResetBeforeRun bool
	ChunkSize      int
	OverlapSize    int
	FileID         string
}

// StageResult is the outcome of the most recent run of a stage.
type StageResult struct {
	Status  StageStatus
	Summary string
	Message string
}

// pipelineAPI is the slice of the backend client the controller needs.
type pipelineAPI interface {
	Process(ctx context.Context, projectID int, req *fehres.ProcessRequest) (*fehres.ProcessResponse, error)
	Push(ctx context.Context, projectID int, doReset bool) (*fehres.PushResponse, error)
}

// clientPipeline adapts the fehres client to pipelineAPI.
type clientPipeline struct {
	client *fehres.Client
}

func (c clientPipeline) Process(ctx context.Context, projectID int, req *fehres.ProcessRequest) (*fehres.ProcessResponse, error) {
	return c.client.Data.Process(ctx, projectID, req)
}

func (c clientPipeline) Push(ctx context.Context, projectID int, doReset bool) (*fehres.PushResponse, error) {
	return c.client.Index.Push(ctx, projectID, doReset)
}

// Pipeline sequences the Process and Index stages. The stages are
// independently invokable and the controller does not require Process to
// precede Index; the backend does not enforce that either. Concurrent
// re-invocation of the same stage is rejected with a BusyError so two runs
// with different reset flags can never interleave.
type Pipeline struct {
	api pipelineAPI

	mu      sync.Mutex
	results map[Stage]StageResult
}

// NewPipeline creates a stage controller using the given client.
func NewPipeline(client *fehres.Client) *Pipeline {
	return newPipeline(clientPipeline{client: client})
}

func newPipeline(api pipelineAPI) *Pipeline {
	return &Pipeline{
		api: api,
		results: map[Stage]StageResult{
			StageProcess: {Status: StageIdle},
			StageIndex:   {Status: StageIdle},
		},
	}
}

// Status returns the recorded result for a stage.
func (p *Pipeline) Status(stage Stage) StageResult {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.results[stage]
}

// begin transitions a stage to running, refusing a duplicate run.
func (p *Pipeline) begin(stage Stage) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.results[stage].Status == StageRunning {
		return &BusyError{Operation: string(stage) + " stage"}
	}
	p.results[stage] = StageResult{Status: StageRunning}
	return nil
}

// finish records a stage outcome.
func (p *Pipeline) finish(stage Stage, summary string, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err != nil {
		p.results[stage] = StageResult{Status: StageFailure, Message: err.Error()}
		return
	}
	p.results[stage] = StageResult{Status: StageSuccess, Summary: summary}
}

// RunProcess runs the chunking stage and returns its result.
func (p *Pipeline) RunProcess(ctx context.Context, projectID int, cfg StageConfig) (StageResult, error) {
	if err := p.begin(StageProcess); err != nil {
		return p.Status(StageProcess), err
	}

	req := &fehres.ProcessRequest{
		ChunkSize:   cfg.ChunkSize,
		OverlapSize: cfg.OverlapSize,
		FileID:      cfg.FileID,
	}
	if cfg.ResetBeforeRun {
		req.DoReset = 1
	}

	resp, err := p.api.Process(ctx, projectID, req)
	if err != nil {
		p.finish(StageProcess, "", err)
		return p.Status(StageProcess), err
	}

	summary := fmt.Sprintf("%d chunks inserted from %d files", resp.InsertedChunks, resp.ProcessedFiles)
	p.finish(StageProcess, summary, nil)
	return p.Status(StageProcess), nil
}

// RunIndex runs the vector index push stage and returns its result.
func (p *Pipeline) RunIndex(ctx context.Context, projectID int, cfg StageConfig) (StageResult, error) {
	if err := p.begin(StageIndex); err != nil {
		return p.Status(StageIndex), err
	}

	resp, err := p.api.Push(ctx, projectID, cfg.ResetBeforeRun)
	if err != nil {
		p.finish(StageIndex, "", err)
		return p.Status(StageIndex), err
	}

	summary := fmt.Sprintf("%d items indexed", resp.InsertedItemsCount)
	p.finish(StageIndex, summary, nil)
	return p.Status(StageIndex), nil
}
