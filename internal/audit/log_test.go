package audit

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"clubhub.org/internal/auth"
	"clubhub.org/internal/obs"
)

func TestLogEventIncludesCallerAndRequestID(t *testing.T) {
	logger := obs.Logger()
	origWriter := logger.Writer()
	var buf bytes.Buffer
	logger.SetOutput(&buf)
	defer logger.SetOutput(origWriter)

	ctx := WithRequestID(context.Background(), "req-123")
	ctx = auth.ContextWithIdentity(ctx, auth.Identity{UserID: "user-1", Roles: []string{"admin"}})

	if err := LogEvent(ctx, "club.join", map[string]any{"club_id": "club-9"}); err != nil {
		t.Fatalf("LogEvent: %v", err)
	}

	line := strings.TrimSpace(buf.String())
	var entry map[string]any
	if err := json.Unmarshal([]byte(line), &entry); err != nil {
		t.Fatalf("audit line is not valid JSON: %v", err)
	}
	if entry["event"] != "club.join" {
		t.Fatalf("unexpected event: %v", entry["event"])
	}
	if entry["request_id"] != "req-123" {
		t.Fatalf("missing request id: %v", entry["request_id"])
	}
	if entry["user_id"] != "user-1" {
		t.Fatalf("missing user id: %v", entry["user_id"])
	}
	fields, ok := entry["fields"].(map[string]any)
	if !ok || fields["club_id"] != "club-9" {
		t.Fatalf("fields not recorded: %v", entry["fields"])
	}
}

func TestLogEventRequiresName(t *testing.T) {
	if err := LogEvent(context.Background(), "  ", nil); err == nil {
		t.Fatalf("expected error for blank event name")
	}
}
