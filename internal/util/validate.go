package util

import (
	"fmt"
	"regexp"
)

// validNameChars matches only alphanumeric characters, hyphens, underscores
// and periods.
var validNameChars = regexp.MustCompile(`^[a-zA-Z0-9._\-]+$`)

// MaxAccountNameLen is the longest account name accepted.
const MaxAccountNameLen = 64

// ValidateAccountName checks that an account name is usable as a keyring
// key and as password hashing input:
//   - Between 2 and MaxAccountNameLen characters
//   - Only alphanumeric characters, hyphens (-), underscores (_) and periods (.)
//   - First character must be alphanumeric
func ValidateAccountName(name string) error {
	if len(name) < 2 {
		return fmt.Errorf("account name must be at least 2 characters, got %d", len(name))
	}
	if len(name) > MaxAccountNameLen {
		return fmt.Errorf("account name must be at most %d characters, got %d", MaxAccountNameLen, len(name))
	}

	if !validNameChars.MatchString(name) {
		return fmt.Errorf("account name %q contains invalid characters (only a-z, A-Z, 0-9, hyphens, underscores and periods are allowed)", name)
	}

	first := name[0]
	if !isAlphanumeric(first) {
		return fmt.Errorf("account name must start with an alphanumeric character, got %q", string(first))
	}

	return nil
}

func isAlphanumeric(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}
