package jobs

import (
	"strings"
	"testing"
)

func TestGenerateID(t *testing.T) {
	id := GenerateID("video-")
	if !strings.HasPrefix(id, "video-") {
		t.Errorf("expected video- prefix, got %q", id)
	}
	if len(id) != len("video-")+32 {
		t.Errorf("expected 32 hex chars after prefix, got %q", id)
	}
	if id == GenerateID("video-") {
		t.Error("two generated IDs collided")
	}
}

func TestParseRoute(t *testing.T) {
	tests := []struct {
		name       string
		path       string
		wantID     string
		wantAction string
		wantOK     bool
	}{
		{"full id", "/api/video/video-abc123/status", "video-abc123", "status", true},
		{"bare id gets prefix", "/api/video/abc123/status", "video-abc123", "status", true},
		{"missing action", "/api/video/video-abc123", "", "", false},
		{"empty path", "/api/video/", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, action, ok := ParseRoute(tt.path, "/api/video/", "video-")
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if id != tt.wantID || action != tt.wantAction {
				t.Errorf("got (%q, %q), want (%q, %q)", id, action, tt.wantID, tt.wantAction)
			}
		})
	}
}
