package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func newTestStorage(t *testing.T) *SessionStorage {
	t.Helper()
	storage, err := NewSessionStorage(t.TempDir())
	if err != nil {
		t.Fatalf("failed to create storage: %v", err)
	}
	return storage
}

func sampleSession(name string) *Session {
	return &Session{
		Name:     name,
		Provider: "ollama",
		Model:    "llama3.1",
		Messages: []Message{
			{Role: "user", Content: "What's the weather?", Timestamp: time.Now()},
			{Role: "assistant", Content: "Sunny all day.", Timestamp: time.Now()},
		},
	}
}

func TestSaveAssignsIDAndTimestamps(t *testing.T) {
	storage := newTestStorage(t)
	session := sampleSession("weather chat")

	if err := storage.Save(session); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if session.ID == "" {
		t.Error("expected an ID assigned on first save")
	}
	if session.CreatedAt.IsZero() || session.UpdatedAt.IsZero() {
		t.Error("expected timestamps set on save")
	}
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	storage := newTestStorage(t)
	session := sampleSession("roundtrip")
	session.Messages = append(session.Messages, Message{
		Role:     "assistant",
		ToolName: "web_search",
		ToolArgs: map[string]any{"query": "weather"},
	})

	if err := storage.Save(session); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	loaded, err := storage.Load(session.ID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if loaded.Name != "roundtrip" {
		t.Errorf("expected name preserved, got %q", loaded.Name)
	}
	if len(loaded.Messages) != 3 {
		t.Fatalf("expected 3 messages, got %d", len(loaded.Messages))
	}
	if loaded.Messages[2].ToolName != "web_search" {
		t.Errorf("tool turn not preserved: %+v", loaded.Messages[2])
	}
}

func TestSessionFilePermissions(t *testing.T) {
	dataDir := t.TempDir()
	storage, err := NewSessionStorage(dataDir)
	if err != nil {
		t.Fatalf("failed to create storage: %v", err)
	}

	session := sampleSession("private")
	if err := storage.Save(session); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	info, err := os.Stat(filepath.Join(dataDir, "sessions", session.ID+".json"))
	if err != nil {
		t.Fatalf("stat failed: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("expected 0600 permissions, got %o", perm)
	}
}

func TestListSkipsCorruptedAndSortsNewestFirst(t *testing.T) {
	dataDir := t.TempDir()
	storage, err := NewSessionStorage(dataDir)
	if err != nil {
		t.Fatalf("failed to create storage: %v", err)
	}

	older := sampleSession("older")
	if err := storage.Save(older); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	time.Sleep(10 * time.Millisecond)
	newer := sampleSession("newer")
	if err := storage.Save(newer); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	corrupted := filepath.Join(dataDir, "sessions", "broken.json")
	if err := os.WriteFile(corrupted, []byte("{not json"), 0600); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	list, err := storage.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 sessions (corrupted skipped), got %d", len(list))
	}
	if list[0].Name != "newer" || list[1].Name != "older" {
		t.Errorf("expected newest first, got %q then %q", list[0].Name, list[1].Name)
	}
	if list[0].MessageCount != 2 {
		t.Errorf("expected message count 2, got %d", list[0].MessageCount)
	}
}

func TestDelete(t *testing.T) {
	storage := newTestStorage(t)
	session := sampleSession("doomed")
	if err := storage.Save(session); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	if err := storage.Delete(session.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, err := storage.Load(session.ID); err == nil {
		t.Error("expected load to fail after delete")
	}
}

func TestCurrentSessionPointer(t *testing.T) {
	storage := newTestStorage(t)

	if err := storage.SaveCurrentSessionID("session-abc"); err != nil {
		t.Fatalf("save pointer failed: %v", err)
	}
	id, err := storage.LoadCurrentSessionID()
	if err != nil {
		t.Fatalf("load pointer failed: %v", err)
	}
	if id != "session-abc" {
		t.Errorf("expected session-abc, got %q", id)
	}
}

func TestRenameSession(t *testing.T) {
	storage := newTestStorage(t)
	session := sampleSession("old name")
	if err := storage.Save(session); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	if err := storage.RenameSession(session.ID, "new name"); err != nil {
		t.Fatalf("rename failed: %v", err)
	}
	loaded, err := storage.Load(session.ID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if loaded.Name != "new name" {
		t.Errorf("expected renamed session, got %q", loaded.Name)
	}
}

func TestGenerateSessionName(t *testing.T) {
	tests := []struct {
		name  string
		first string
		check func(string) bool
	}{
		{
			name:  "short message used as-is",
			first: "What's the weather?",
			check: func(s string) bool { return s == "What's the weather?" },
		},
		{
			name:  "long message truncated",
			first: strings.Repeat("asking a very long question ", 5),
			check: func(s string) bool { return strings.HasSuffix(s, "...") && len(s) <= 40 },
		},
		{
			name:  "empty message gets a timestamp name",
			first: "",
			check: func(s string) bool { return strings.HasPrefix(s, "Session ") },
		},
		{
			name:  "newlines flattened",
			first: "line one\nline two",
			check: func(s string) bool { return !strings.Contains(s, "\n") },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := GenerateSessionName(tt.first)
			if !tt.check(got) {
				t.Errorf("GenerateSessionName(%q) = %q", tt.first, got)
			}
		})
	}
}

func TestSanitizeFilename(t *testing.T) {
	got := SanitizeFilename("What's: the/weather? <today>")
	if strings.ContainsAny(got, `/\:*?"<>|`) {
		t.Errorf("sanitized name still has reserved characters: %q", got)
	}
}
