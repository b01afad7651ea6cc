package jsonutil

import "testing"

type sample struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func TestParseJSON(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    sample
		wantErr bool
	}{
		{
			name: "plain object",
			raw:  `{"name": "chair", "count": 2}`,
			want: sample{Name: "chair", Count: 2},
		},
		{
			name: "json fence",
			raw:  "```json\n{\"name\": \"chair\", \"count\": 2}\n```",
			want: sample{Name: "chair", Count: 2},
		},
		{
			name: "bare fence",
			raw:  "```\n{\"name\": \"chair\", \"count\": 2}\n```",
			want: sample{Name: "chair", Count: 2},
		},
		{
			name: "prose around object",
			raw:  "Here is the analysis:\n{\"name\": \"chair\", \"count\": 2}\nHope that helps!",
			want: sample{Name: "chair", Count: 2},
		},
		{
			name:    "no json at all",
			raw:     "I could not produce structured output.",
			wantErr: true,
		},
		{
			name:    "malformed json",
			raw:     `{"name": "chair",`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseJSON[sample](tt.raw)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestExtractJSONArray(t *testing.T) {
	raw := "Results:\n[\"a\", \"b\"]\ndone"
	got, err := ExtractJSON(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != `["a", "b"]` {
		t.Errorf("got %q", got)
	}
}
