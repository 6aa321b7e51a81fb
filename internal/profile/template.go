package profile

import (
	"fmt"
	"strings"
)

const templateHint = "<!-- Add your profile content here -->"

// Template returns the starting content offered when creating a profile.
func Template(name string) string {
	return fmt.Sprintf("# %s\n\n%s\n", name, templateHint)
}

// IsBlank reports whether edited content adds nothing to the template: it is
// empty, or every line is blank, a heading or an HTML comment.
func IsBlank(name, content string) bool {
	trimmed := strings.TrimSpace(content)
	header := "# " + name

	if trimmed == "" || trimmed == header || trimmed == strings.TrimSpace(Template(name)) {
		return true
	}

	for _, line := range strings.Split(trimmed, "\n") {
		line = strings.TrimSpace(line)
		if line != "" && !strings.HasPrefix(line, "#") && !strings.HasPrefix(line, "<!--") {
			return false
		}
	}
	return true
}
