package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateEmail(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		email   string
		wantErr bool
	}{
		{"Valid", "student@usa.edu.co", false},
		{"Valid Subaddress", "student+forum@usa.edu.co", false},
		{"Missing At", "student.usa.edu.co", true},
		{"Missing Domain", "student@", true},
		{"Spaces", "stu dent@usa.edu.co", true},
		{"Too Long", strings.Repeat("a", 250) + "@usa.edu.co", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateEmail(tt.email)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateInstitutionalEmail(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		email   string
		domain  string
		wantErr bool
	}{
		{"Matching Domain", "student@usa.edu.co", "usa.edu.co", false},
		{"Case Insensitive", "Student@USA.EDU.CO", "usa.edu.co", false},
		{"Wrong Domain", "student@gmail.com", "usa.edu.co", true},
		{"Subdomain Rejected", "student@mail.usa.edu.co", "usa.edu.co", true},
		{"Suffix Trick Rejected", "student@evilusa.edu.co", "usa.edu.co", true},
		{"No Restriction", "anyone@gmail.com", "", false},
		{"Invalid Email Still Rejected", "not-an-email", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateInstitutionalEmail(tt.email, tt.domain)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
