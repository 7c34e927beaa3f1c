// Package session holds the persisted, cross-command session state: backend
// settings, the active corpus selection, the chat transcript and the last
// prescription analysis. The store is the single source of truth for this
// context; commands read it instead of keeping their own copies.
package session

import (
	"time"

	"github.com/google/uuid"

	"github.com/mohamedfathi540/RAG-001/fehres"
)

// Theme selects the terminal rendering style.
type Theme string

const (
	ThemeDark  Theme = "dark"
	ThemeLight Theme = "light"
)

// Role identifies the author of a chat message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// MaxChatHistory caps the persisted transcript; the oldest messages are
// evicted first once the cap is reached.
const MaxChatHistory = 50

// MessageMetadata carries optional diagnostics attached to an assistant
// message: the full prompt the backend built and its view of the history.
type MessageMetadata struct {
	FullPrompt  string        `json:"fullPrompt,omitempty"`
	ChatHistory []interface{} `json:"chatHistory,omitempty"`
}

// ChatMessage is one transcript entry. Messages are immutable once
// appended; they are never edited in place.
type ChatMessage struct {
	ID        string           `json:"id"`
	Role      Role             `json:"role"`
	Content   string           `json:"content"`
	Timestamp time.Time        `json:"timestamp"`
	Metadata  *MessageMetadata `json:"metadata,omitempty"`
}

// NewChatMessage builds a transcript entry with a fresh id and timestamp.
func NewChatMessage(role Role, content string) ChatMessage {
	return ChatMessage{
		ID:        uuid.NewString(),
		Role:      role,
		Content:   content,
		Timestamp: time.Now().UTC(),
	}
}

// PrescriptionResult is the cached outcome of the last prescription
// analysis. PreviewDataURL holds the analyzed image as a data URL so the
// result can be shown again without re-reading the original file.
type PrescriptionResult struct {
	SourceName     string            `json:"sourceName"`
	PreviewDataURL string            `json:"previewDataUrl,omitempty"`
	OCRText        string            `json:"ocrText"`
	Medicines      []fehres.Medicine `json:"medicines"`
	ProjectID      int               `json:"projectId"`
	AnalyzedAt     time.Time         `json:"analyzedAt"`
}

// State is the full persisted session record. It is stored as one JSON
// document and mutated only through the named Store actions.
type State struct {
	APIURL            string              `json:"apiUrl"`
	ActiveProjectID   int                 `json:"activeProjectId"`
	ActiveLibraryName string              `json:"activeLibraryName,omitempty"`
	Theme             Theme               `json:"theme"`
	ChatHistory       []ChatMessage       `json:"chatHistory"`
	Prescription      *PrescriptionResult `json:"prescription,omitempty"`
}

// DefaultState returns the state used when no session file exists yet.
func DefaultState() State {
	return State{
		APIURL:          "http://localhost:8000/api/v1",
		ActiveProjectID: 1,
		Theme:           ThemeDark,
	}
}
