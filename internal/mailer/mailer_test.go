package mailer

import (
	"errors"
	"testing"

	"github.com/dgclarke/offermail/internal/config"
)

func TestConfigured(t *testing.T) {
	tests := []struct {
		name     string
		cfg      config.Config
		expected bool
	}{
		{"Nothing set", config.Config{}, false},
		{"Host only", config.Config{SMTPHost: "smtp.example.com"}, false},
		{"Missing recipient", config.Config{SMTPHost: "smtp.example.com", SMTPFrom: "a@example.com"}, false},
		{
			"Fully set",
			config.Config{SMTPHost: "smtp.example.com", SMTPFrom: "a@example.com", SMTPTo: "b@example.com"},
			true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := New(tt.cfg).Configured(); got != tt.expected {
				t.Errorf("Configured() = %v; want %v", got, tt.expected)
			}
		})
	}
}

func TestSendTestUnconfigured(t *testing.T) {
	err := New(config.Config{}).SendTest("Offer table", "<table></table>")
	if !errors.Is(err, ErrNotConfigured) {
		t.Errorf("err = %v; want ErrNotConfigured", err)
	}
}
