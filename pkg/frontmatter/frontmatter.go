// Package frontmatter reads optional YAML frontmatter from markdown profiles.
package frontmatter

import (
	"bytes"
	"strings"

	"gopkg.in/yaml.v3"
)

// Meta is the frontmatter pmx understands in a profile. Unknown keys are
// ignored.
type Meta struct {
	Description string   `yaml:"description"`
	Tags        []string `yaml:"tags"`
}

// Split separates a leading "---" delimited block from the rest of content.
// ok is false when content has no complete frontmatter block, in which case
// body is content unchanged.
func Split(content []byte) (matter, body []byte, ok bool) {
	var rest []byte
	switch {
	case bytes.HasPrefix(content, []byte("---\n")):
		rest = content[4:]
	case bytes.HasPrefix(content, []byte("---\r\n")):
		rest = content[5:]
	default:
		return nil, content, false
	}

	// Closing delimiter directly after the opener means an empty block.
	for _, closer := range [][]byte{[]byte("---\n"), []byte("---\r\n")} {
		if bytes.HasPrefix(rest, closer) {
			return nil, rest[len(closer):], true
		}
	}
	if bytes.Equal(rest, []byte("---")) {
		return nil, nil, true
	}

	idx := bytes.Index(rest, []byte("\n---"))
	if idx < 0 {
		return nil, content, false
	}

	matter = rest[:idx+1]
	body = rest[idx+4:]
	if bytes.HasPrefix(body, []byte("\r")) {
		body = body[1:]
	}
	if bytes.HasPrefix(body, []byte("\n")) {
		body = body[1:]
	}
	return matter, body, true
}

// Parse decodes frontmatter into matter and returns the body. Content without
// frontmatter is returned whole and matter is left untouched.
func Parse[T any](content []byte, matter *T) (body []byte, err error) {
	fm, body, ok := Split(content)
	if !ok || len(bytes.TrimSpace(fm)) == 0 {
		return body, nil
	}
	if err := yaml.Unmarshal(fm, matter); err != nil {
		return nil, err
	}
	return body, nil
}

// Description returns the trimmed frontmatter description of a profile, or
// an empty string when there is none or the block does not parse.
func Description(content string) string {
	var m Meta
	if _, err := Parse([]byte(content), &m); err != nil {
		return ""
	}
	return strings.TrimSpace(m.Description)
}
