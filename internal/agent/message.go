package agent

import "fmt"

// SetMessage is the confirmation printed after Set.
func SetMessage(res Result, name string) string {
	return fmt.Sprintf("Successfully applied profile '%s' to %s", name, res.Target)
}

// AppendMessage is the confirmation printed after Append.
func AppendMessage(res Result, name string) string {
	if res.Created {
		return fmt.Sprintf("Successfully created profile '%s' at %s (no existing profile found)", name, res.Target)
	}
	return fmt.Sprintf("Successfully appended profile '%s' to %s", name, res.Target)
}

// ResetMessage is the confirmation printed after Reset.
func ResetMessage(res Result) string {
	if res.Removed {
		return fmt.Sprintf("Successfully reset %s profile (removed %s)", res.Agent.DisplayName(), res.Target)
	}
	return fmt.Sprintf("No %s profile found at %s (already reset)", res.Agent.DisplayName(), res.Target)
}
