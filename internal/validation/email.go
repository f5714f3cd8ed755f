package validation

import (
	"fmt"
	"regexp"
	"strings"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// ValidateEmail checks basic email format
func ValidateEmail(email string) error {
	if !emailRegex.MatchString(email) {
		return fmt.Errorf("invalid email format")
	}

	if len(email) > 254 {
		return fmt.Errorf("email must not exceed 254 characters")
	}

	return nil
}

// ValidateInstitutionalEmail checks format and that the address belongs to
// the configured university domain. An empty domain disables the domain
// restriction.
func ValidateInstitutionalEmail(email, domain string) error {
	if err := ValidateEmail(email); err != nil {
		return err
	}

	if domain == "" {
		return nil
	}

	at := strings.LastIndex(email, "@")
	if at < 0 || !strings.EqualFold(email[at+1:], domain) {
		return fmt.Errorf("email must belong to the @%s domain", domain)
	}

	return nil
}
