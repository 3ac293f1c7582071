package config

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func envFrom(values map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := values[key]
		return v, ok
	}
}

func fullEnv() map[string]string {
	return map[string]string{
		"SENDER_EMAIL":    "relay@example.com",
		"RECIPIENT_EMAIL": "me@example.com",
		"SMTP_SERVER":     "smtp.example.com",
		"SMTP_PORT":       "587",
		"SMTP_USERNAME":   "relay",
		"SMTP_PASSWORD":   "secret",
	}
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(envFrom(fullEnv()), true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !cfg.SMTPUseTLS {
		t.Errorf("expected TLS to default to enabled")
	}
	if cfg.SMTPTimeout != DefaultSMTPTimeout {
		t.Errorf("timeout = %v, want %v", cfg.SMTPTimeout, DefaultSMTPTimeout)
	}
	if cfg.Sender.Address != "relay@example.com" || cfg.Recipient.Address != "me@example.com" {
		t.Errorf("sender=%v recipient=%v", cfg.Sender, cfg.Recipient)
	}
	if cfg.Address() != "smtp.example.com:587" {
		t.Errorf("address = %q", cfg.Address())
	}
}

func TestLoadTLSFlag(t *testing.T) {
	cases := map[string]bool{
		"True":  true,
		"true":  true,
		"TRUE":  true,
		"false": false,
		"0":     false,
		"yes":   false,
		"":      false,
	}
	for value, want := range cases {
		env := fullEnv()
		env["SMTP_USE_TLS"] = value
		cfg, err := Load(envFrom(env), true)
		if err != nil {
			t.Fatalf("SMTP_USE_TLS=%q: unexpected error: %v", value, err)
		}
		if cfg.SMTPUseTLS != want {
			t.Errorf("SMTP_USE_TLS=%q: got %v, want %v", value, cfg.SMTPUseTLS, want)
		}
	}
}

func TestLoadTimeout(t *testing.T) {
	env := fullEnv()
	env["SMTP_TIMEOUT"] = "5s"
	cfg, err := Load(envFrom(env), true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.SMTPTimeout != 5*time.Second {
		t.Errorf("timeout = %v, want 5s", cfg.SMTPTimeout)
	}
}

func TestLoadReportsAllProblems(t *testing.T) {
	env := fullEnv()
	delete(env, "SENDER_EMAIL")
	delete(env, "SMTP_PASSWORD")
	env["SMTP_PORT"] = "smtp"

	_, err := Load(envFrom(env), true)
	if !errors.Is(err, ErrConfigurationMissing) {
		t.Fatalf("expected ErrConfigurationMissing, got %v", err)
	}
	for _, want := range []string{"SENDER_EMAIL", "SMTP_PASSWORD", "SMTP_PORT"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q does not mention %s", err, want)
		}
	}
}

func TestLoadWithoutSMTP(t *testing.T) {
	env := map[string]string{
		"SENDER_EMAIL":    "relay@example.com",
		"RECIPIENT_EMAIL": "me@example.com",
	}
	if _, err := Load(envFrom(env), false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := Load(envFrom(env), true); err == nil {
		t.Fatalf("expected error when SMTP settings are required")
	}
}

func TestLoadParsesAddresses(t *testing.T) {
	env := fullEnv()
	env["SENDER_EMAIL"] = "SMS Relay <relay@example.com>"
	cfg, err := Load(envFrom(env), true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Sender.Name != "SMS Relay" || cfg.Sender.Address != "relay@example.com" {
		t.Errorf("sender = %+v", cfg.Sender)
	}
}

func TestLoadRejectsInvalidAddresses(t *testing.T) {
	env := fullEnv()
	env["SENDER_EMAIL"] = "not an address"
	env["RECIPIENT_EMAIL"] = "me@"
	delete(env, "SMTP_SERVER")

	_, err := Load(envFrom(env), false)
	if !errors.Is(err, ErrConfigurationMissing) {
		t.Fatalf("expected ErrConfigurationMissing, got %v", err)
	}
	for _, want := range []string{"SENDER_EMAIL", "RECIPIENT_EMAIL"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q does not mention %s", err, want)
		}
	}
}

func TestLoadTLSUnsetDefaultsOn(t *testing.T) {
	cfg, err := Load(envFrom(fullEnv()), true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !cfg.SMTPUseTLS {
		t.Fatalf("expected STARTTLS when SMTP_USE_TLS is unset")
	}
}
