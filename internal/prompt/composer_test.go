package prompt_test

import (
	"testing"

	"github.com/vibelabs/vibechat/internal/prompt"
	"github.com/vibelabs/vibechat/internal/vector"
)

func TestBuildWithMemory(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		memories []vector.ChatMemory
		message  string
		expected string
	}{
		{
			name:     "No memories",
			memories: nil,
			message:  "hello",
			expected: "Q: hello\nA: ",
		},
		{
			name: "Single memory",
			memories: []vector.ChatMemory{
				{UserInput: "what is my favorite color?", AIResponse: "You said it is blue."},
			},
			message:  "and my favorite food?",
			expected: "Q: what is my favorite color?\nA: You said it is blue.\n\nQ: and my favorite food?\nA: ",
		},
		{
			name: "Memories keep retrieval order",
			memories: []vector.ChatMemory{
				{UserInput: "first", AIResponse: "one", Score: 0.9},
				{UserInput: "second", AIResponse: "two", Score: 0.8},
			},
			message:  "third",
			expected: "Q: first\nA: one\n\nQ: second\nA: two\n\nQ: third\nA: ",
		},
		{
			name: "Empty message still gets a question block",
			memories: []vector.ChatMemory{
				{UserInput: "q", AIResponse: "a"},
			},
			message:  "",
			expected: "Q: q\nA: a\n\nQ: \nA: ",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			result := prompt.BuildWithMemory(tt.memories, tt.message)
			if result != tt.expected {
				t.Errorf("BuildWithMemory() = %q, want %q", result, tt.expected)
			}
		})
	}
}

func TestBuildWithMemoryDeterministic(t *testing.T) {
	t.Parallel()

	memories := []vector.ChatMemory{
		{UserInput: "I love blue", AIResponse: "Blue is a great color!", Score: 0.91},
	}

	first := prompt.BuildWithMemory(memories, "what color do I love?")
	second := prompt.BuildWithMemory(memories, "what color do I love?")
	if first != second {
		t.Errorf("BuildWithMemory() not deterministic: %q vs %q", first, second)
	}
}
