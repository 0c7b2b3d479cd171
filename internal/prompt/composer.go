// Package prompt renders retrieved chat memories and the new user message
// into the augmented prompt sent to a provider.
package prompt

import (
	"strings"

	"github.com/vibelabs/vibechat/internal/vector"
)

// BuildWithMemory renders each memory as a Q/A block in the given order,
// separated by blank lines, followed by a trailing question block for the new
// message with an empty answer slot. It is a pure function: identical inputs
// always produce identical output. Bounding the number of memories is the
// caller's job (via the retrieval topK).
func BuildWithMemory(memories []vector.ChatMemory, message string) string {
	var sb strings.Builder

	for _, m := range memories {
		sb.WriteString("Q: ")
		sb.WriteString(m.UserInput)
		sb.WriteString("\nA: ")
		sb.WriteString(m.AIResponse)
		sb.WriteString("\n\n")
	}

	sb.WriteString("Q: ")
	sb.WriteString(message)
	sb.WriteString("\nA: ")
	return sb.String()
}
