package logging

import "strings"

// secretKeyPatterns are key substrings whose values are masked in text output.
var secretKeyPatterns = []string{
	"TOKEN",
	"SECRET",
	"PASSWORD",
	"CREDENTIAL",
	"API_KEY",
}

// tokenPrefixes mark values as secrets regardless of key name.
var tokenPrefixes = []string{
	"ghp_",
	"gho_",
	"sk-",
	"AKIA",
	"xoxb-",
	"xoxp-",
}

func shouldMask(key string) bool {
	upper := strings.ToUpper(key)
	for _, p := range secretKeyPatterns {
		if strings.Contains(upper, p) {
			return true
		}
	}
	return false
}

func hasTokenPrefix(value string) bool {
	for _, p := range tokenPrefixes {
		if strings.HasPrefix(value, p) {
			return true
		}
	}
	return false
}

// mask keeps the last four bytes of values longer than four bytes.
func mask(value string) string {
	if len(value) <= 4 {
		return "********"
	}
	return "****" + value[len(value)-4:]
}
