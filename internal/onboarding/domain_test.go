package onboarding

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDomainFromEmail(t *testing.T) {
	tests := []struct {
		name  string
		email string
		want  string
	}{
		{"plain address", "alice@acme.com", "acme.com"},
		{"subdomain", "bob@mail.acme.co.uk", "mail.acme.co.uk"},
		{"plus tag", "carol+test@acme.com", "acme.com"},
		{"no at sign", "not-an-email", ""},
		{"empty string", "", ""},
		{"two at signs", "a@b@c.com", ""},
		{"at sign last", "alice@", ""},
		{"only at sign", "@", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DomainFromEmail(tt.email))
		})
	}
}

func TestSplitFullName(t *testing.T) {
	tests := []struct {
		name      string
		full      string
		wantFirst string
		wantLast  string
	}{
		{"two parts", "Jane Doe", "Jane", "Doe"},
		{"three parts keep remainder", "Mary Jane Watson", "Mary", "Jane Watson"},
		{"single name", "Prince", "Prince", ""},
		{"surrounding whitespace", "  Jane Doe  ", "Jane", "Doe"},
		{"empty", "", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			first, last := SplitFullName(tt.full)
			assert.Equal(t, tt.wantFirst, first)
			assert.Equal(t, tt.wantLast, last)
		})
	}
}
