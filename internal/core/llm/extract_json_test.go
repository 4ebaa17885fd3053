package llm

import "testing"

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "bare object",
			input: `{"a":1}`,
			want:  `{"a":1}`,
		},
		{
			name:  "object wrapped in prose",
			input: "Here is the analysis:\n{\"a\":1}\nHope that helps!",
			want:  `{"a":1}`,
		},
		{
			name:  "object in code fence",
			input: "```json\n{\"a\":1}\n```",
			want:  `{"a":1}`,
		},
		{
			name:  "array wrapped in prose",
			input: "Suggestions: [1,2,3] as requested.",
			want:  `[1,2,3]`,
		},
		{
			name:  "no json returns input",
			input: "no structured data here",
			want:  "no structured data here",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := extractJSON(tt.input); got != tt.want {
				t.Fatalf("extractJSON(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestDecodeResponseFallback(t *testing.T) {
	var parsed struct {
		Summary string `json:"summary"`
	}

	raw := "Sure! Here is the JSON you asked for:\n\n{\"summary\": \"growth is slowing\"}"
	if err := decodeResponse(raw, &parsed); err != nil {
		t.Fatalf("decodeResponse: %v", err)
	}

	if parsed.Summary != "growth is slowing" {
		t.Fatalf("unexpected summary: %q", parsed.Summary)
	}

	if err := decodeResponse("not json at all", &parsed); err == nil {
		t.Fatal("expected error for unparseable response")
	}
}
