package provider_test

import (
	"errors"
	"testing"

	"github.com/vibelabs/vibechat/internal/provider"
)

func TestParsePost(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		input     string
		wantTitle string
		wantBody  string
		wantErr   error
	}{
		{
			name:      "Heading and body",
			input:     "# My Title\nFirst line.\nSecond line.",
			wantTitle: "My Title",
			wantBody:  "First line.\nSecond line.",
		},
		{
			name:      "Fence marker line discarded",
			input:     "```text\n# My Title\nLine one\nLine two",
			wantTitle: "My Title",
			wantBody:  "Line one\nLine two",
		},
		{
			name:      "Markdown fence marker",
			input:     "```markdown\n# Fenced Title\nBody text.",
			wantTitle: "Fenced Title",
			wantBody:  "Body text.",
		},
		{
			name:      "Deep heading stripped",
			input:     "### Deep Title\nBody.",
			wantTitle: "Deep Title",
			wantBody:  "Body.",
		},
		{
			name:    "Empty response",
			input:   "",
			wantErr: provider.ErrMalformedOutput,
		},
		{
			name:    "Missing heading",
			input:   "Just some text\nwith no heading.",
			wantErr: provider.ErrMalformedOutput,
		},
		{
			name:    "Blank body",
			input:   "# Title Only\n \n",
			wantErr: provider.ErrMalformedOutput,
		},
		{
			name:    "Blank title",
			input:   "#\nBody text.",
			wantErr: provider.ErrMalformedOutput,
		},
		{
			name:    "Fence marker with nothing after",
			input:   "```go",
			wantErr: provider.ErrMalformedOutput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			post, err := provider.ParsePost(tt.input)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("ParsePost() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParsePost() unexpected error: %v", err)
			}
			if post.Title != tt.wantTitle {
				t.Errorf("ParsePost() title = %q, want %q", post.Title, tt.wantTitle)
			}
			if post.Body != tt.wantBody {
				t.Errorf("ParsePost() body = %q, want %q", post.Body, tt.wantBody)
			}
		})
	}
}
