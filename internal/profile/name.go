package profile

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/thoreinstein/pmx/internal/errors"
)

// MaxNameLength is the longest accepted profile name in bytes.
const MaxNameLength = 255

// forbiddenChars may not appear anywhere in a profile name.
const forbiddenChars = `<>:"|?*`

// Name is a validated profile name: slash separated segments, no extension.
type Name string

func (n Name) String() string {
	return string(n)
}

// ValidateName checks raw against the profile naming rules and returns it
// unchanged as a Name. Failures are *errors.PathError.
func ValidateName(raw string) (Name, error) {
	reject := func(reason string) (Name, error) {
		return "", &errors.PathError{Name: raw, Reason: reason}
	}

	if raw == "" {
		return reject("name is empty")
	}
	if len(raw) > MaxNameLength {
		return reject(fmt.Sprintf("name is longer than %d characters", MaxNameLength))
	}
	if strings.Contains(raw, "..") {
		return reject("name contains '..'")
	}
	if strings.Contains(raw, `\`) {
		return reject("name contains a backslash")
	}

	for _, seg := range strings.Split(raw, "/") {
		switch seg {
		case "":
			return reject("name has an empty path segment")
		case ".", "..":
			return reject(fmt.Sprintf("name has a %q path segment", seg))
		}
		for _, r := range seg {
			if strings.ContainsRune(forbiddenChars, r) {
				return reject(fmt.Sprintf("name contains invalid character %q", r))
			}
			if unicode.IsControl(r) {
				return reject("name contains a control character")
			}
		}
	}

	return Name(raw), nil
}
