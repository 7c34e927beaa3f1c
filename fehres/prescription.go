package fehres

import (
	"context"
	"io"
)

// PrescriptionResource handles prescription image analysis and follow-up
// chat about the extracted medicines.
type PrescriptionResource struct {
	http *httpClient
}

// newPrescriptionResource creates a new PrescriptionResource.
func newPrescriptionResource(http *httpClient) *PrescriptionResource {
	return &PrescriptionResource{http: http}
}

// Analyze uploads a prescription image for OCR and medicine extraction.
// OCR plus retrieval takes time, so the call runs under the upload deadline
// class rather than the interactive one.
func (r *PrescriptionResource) Analyze(ctx context.Context, filename string, file io.Reader, size int64, progress ProgressFunc) (*PrescriptionResponse, error) {
	var resp PrescriptionResponse
	err := r.http.upload(ctx, classUpload, "/prescription/analyze", filename, file, size, progress, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// Chat asks a question about a previously analyzed prescription. ProjectID
// must be the project id returned by Analyze.
func (r *PrescriptionResource) Chat(ctx context.Context, req *PrescriptionChatRequest) (*AnswerResponse, error) {
	var resp AnswerResponse
	if err := r.http.post(ctx, classDefault, "/prescription/chat", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
