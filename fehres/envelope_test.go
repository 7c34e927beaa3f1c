package fehres

import "testing"

func TestExtractErrorMessage(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{
			name: "lowercase signal",
			body: `{"signal": "file_processing_failed"}`,
			want: "file_processing_failed",
		},
		{
			name: "uppercase signal",
			body: `{"Signal": "vectordb_push_error"}`,
			want: "vectordb_push_error",
		},
		{
			name: "error field",
			body: `{"error": "file too large"}`,
			want: "file too large",
		},
		{
			name: "signal wins over error",
			body: `{"signal": "upload_failed", "error": "ignored"}`,
			want: "upload_failed",
		},
		{
			name: "lowercase signal wins over uppercase",
			body: `{"signal": "lower", "Signal": "upper"}`,
			want: "lower",
		},
		{
			name: "uppercase signal wins over error",
			body: `{"Signal": "upper", "error": "ignored"}`,
			want: "upper",
		},
		{
			name: "empty object",
			body: `{}`,
			want: "An error occurred",
		},
		{
			name: "empty fields fall through",
			body: `{"signal": "", "error": ""}`,
			want: "An error occurred",
		},
		{
			name: "not json",
			body: `<html>502 Bad Gateway</html>`,
			want: "An error occurred",
		},
		{
			name: "empty body",
			body: "",
			want: "An error occurred",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := extractErrorMessage([]byte(tt.body))
			if got != tt.want {
				t.Errorf("extractErrorMessage(%q) = %q, want %q", tt.body, got, tt.want)
			}
		})
	}
}
