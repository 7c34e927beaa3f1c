package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Store persists the session state as one JSON record. Every mutator runs
// under the store mutex, applies its change fully and flushes to disk before
// returning, so near-simultaneous actions cannot interleave partial writes.
type Store struct {
	mu    sync.Mutex
	path  string
	state State
}

// DefaultDir returns the platform config directory for the session file
// (e.g. ~/.config/fehres on Linux).
func DefaultDir() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user config dir: %w", err)
	}
	return filepath.Join(configDir, "fehres"), nil
}

// Open hydrates a store from dir/session.json. A missing file yields the
// default state; a corrupt file is an error rather than a silent reset.
func Open(dir string) (*Store, error) {
	path := filepath.Join(dir, "session.json")

	s := &Store{
		path:  path,
		state: DefaultState(),
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, fmt.Errorf("failed to read session file: %w", err)
	}

	var state State
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("failed to parse session file: %w", err)
	}
	if state.Theme != ThemeLight {
		state.Theme = ThemeDark
	}
	s.state = state
	return s, nil
}

// save flushes the current state to disk. Callers must hold s.mu.
func (s *Store) save() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("failed to create session dir: %w", err)
	}
	data, err := json.MarshalIndent(s.state, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0600); err != nil {
		return fmt.Errorf("failed to write session file: %w", err)
	}
	return nil
}

// Path returns the location of the session file.
func (s *Store) Path() string {
	return s.path
}

// Snapshot returns a deep copy of the current state.
func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.copyState()
}

// copyState clones the state. Callers must hold s.mu.
func (s *Store) copyState() State {
	state := s.state
	state.ChatHistory = append([]ChatMessage(nil), s.state.ChatHistory...)
	if s.state.Prescription != nil {
		p := *s.state.Prescription
		p.Medicines = append(p.Medicines[:0:0], s.state.Prescription.Medicines...)
		state.Prescription = &p
	}
	return state
}

// APIURL returns the backend base URL. Suitable as a base URL resolver for
// fehres.WithBaseURLFunc so settings changes apply to the next call.
func (s *Store) APIURL() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.APIURL
}

// ActiveProjectID returns the numeric corpus selection (0 when unset).
func (s *Store) ActiveProjectID() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.ActiveProjectID
}

// ActiveLibraryName returns the named corpus selection ("" when unset).
func (s *Store) ActiveLibraryName() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.ActiveLibraryName
}

// Theme returns the configured rendering theme.
func (s *Store) Theme() Theme {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Theme
}

// ChatHistory returns a copy of the transcript in insertion order.
func (s *Store) ChatHistory() []ChatMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]ChatMessage(nil), s.state.ChatHistory...)
}

// Prescription returns a copy of the cached analysis result, or nil.
func (s *Store) Prescription() *PrescriptionResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.Prescription == nil {
		return nil
	}
	p := *s.state.Prescription
	p.Medicines = append(p.Medicines[:0:0], s.state.Prescription.Medicines...)
	return &p
}

// SetAPIURL updates the backend base URL.
func (s *Store) SetAPIURL(url string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.APIURL = strings.TrimRight(url, "/")
	return s.save()
}

// SelectProject targets a corpus by numeric project id and clears any named
// library selection.
func (s *Store) SelectProject(id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.ActiveProjectID = id
	s.state.ActiveLibraryName = ""
	return s.save()
}

// SelectLibrary targets a corpus by library name, along with its backing
// project id.
func (s *Store) SelectLibrary(name string, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.ActiveLibraryName = name
	s.state.ActiveProjectID = id
	return s.save()
}

// SetTheme updates the rendering theme.
func (s *Store) SetTheme(theme Theme) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if theme != ThemeLight {
		theme = ThemeDark
	}
	s.state.Theme = theme
	return s.save()
}

// AppendChatMessage appends to the transcript, evicting the oldest entries
// beyond MaxChatHistory. Strict FIFO: eviction order never depends on the
// message role or content.
func (s *Store) AppendChatMessage(msg ChatMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.ChatHistory = append(s.state.ChatHistory, msg)
	if n := len(s.state.ChatHistory); n > MaxChatHistory {
		s.state.ChatHistory = append([]ChatMessage(nil), s.state.ChatHistory[n-MaxChatHistory:]...)
	}
	return s.save()
}

// ClearChatHistory empties the transcript.
func (s *Store) ClearChatHistory() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.ChatHistory = nil
	return s.save()
}

// SetPrescription caches the latest analysis result.
func (s *Store) SetPrescription(result *PrescriptionResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Prescription = result
	return s.save()
}

// ClearPrescription drops the cached analysis result.
func (s *Store) ClearPrescription() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Prescription = nil
	return s.save()
}
