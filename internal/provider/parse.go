package provider

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	fenceMarkerRe   = regexp.MustCompile(`^` + "```" + `\w+\s*$`)
	headingPrefixRe = regexp.MustCompile(`^#+\s*`)
)

// ParsePost extracts a titled post from raw model output. The expected shape
// is an optional fenced-code-block language marker line (discarded), then a
// Markdown heading whose stripped text becomes the title, then the body as
// all remaining lines joined unchanged.
func ParsePost(content string) (Post, error) {
	if content == "" {
		return Post{}, fmt.Errorf("%w: empty response", ErrMalformedOutput)
	}

	lines := strings.Split(content, "\n")
	if fenceMarkerRe.MatchString(strings.TrimSpace(lines[0])) {
		lines = lines[1:]
	}
	if len(lines) == 0 {
		return Post{}, fmt.Errorf("%w: empty response", ErrMalformedOutput)
	}

	rawTitle := strings.TrimSpace(lines[0])
	if !strings.HasPrefix(rawTitle, "#") {
		return Post{}, fmt.Errorf("%w: response does not start with a heading", ErrMalformedOutput)
	}
	title := headingPrefixRe.ReplaceAllString(rawTitle, "")
	body := strings.Join(lines[1:], "\n")

	if strings.TrimSpace(title) == "" || strings.TrimSpace(body) == "" {
		return Post{}, fmt.Errorf("%w: blank title or body", ErrMalformedOutput)
	}
	return Post{Title: title, Body: body}, nil
}
