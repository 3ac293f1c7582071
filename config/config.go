package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/emersion/go-message/mail"
)

var ErrConfigurationMissing = errors.New("configuration missing")

const DefaultSMTPTimeout = 30 * time.Second

// Config is read once at startup and never modified afterwards.
type Config struct {
	Sender    mail.Address
	Recipient mail.Address

	SMTPServer   string
	SMTPPort     int
	SMTPUseTLS   bool
	SMTPUsername string
	SMTPPassword string
	SMTPTimeout  time.Duration
}

// Address returns the host:port of the SMTP submission server.
func (c Config) Address() string {
	return fmt.Sprintf("%s:%d", c.SMTPServer, c.SMTPPort)
}

// Load builds a Config using lookup, usually os.LookupEnv. All missing or
// invalid settings are reported in a single error. When requireSMTP is false
// only the addressing settings are mandatory.
func Load(lookup func(string) (string, bool), requireSMTP bool) (Config, error) {
	cfg := Config{
		SMTPUseTLS:  true,
		SMTPTimeout: DefaultSMTPTimeout,
	}
	var problems []string

	required := func(key string) string {
		v, _ := lookup(key)
		v = strings.TrimSpace(v)
		if v == "" {
			problems = append(problems, key+" is not set")
		}
		return v
	}
	address := func(key string) mail.Address {
		v := required(key)
		if v == "" {
			return mail.Address{}
		}
		addr, err := mail.ParseAddress(v)
		if err != nil {
			problems = append(problems, fmt.Sprintf("%s %q is not a valid address", key, v))
			return mail.Address{}
		}
		return *addr
	}

	cfg.Sender = address("SENDER_EMAIL")
	cfg.Recipient = address("RECIPIENT_EMAIL")

	if requireSMTP {
		cfg.SMTPServer = required("SMTP_SERVER")
		if port := required("SMTP_PORT"); port != "" {
			n, err := strconv.Atoi(port)
			if err != nil || n <= 0 || n > 65535 {
				problems = append(problems, fmt.Sprintf("SMTP_PORT %q is not a valid port", port))
			}
			cfg.SMTPPort = n
		}
		cfg.SMTPUsername = required("SMTP_USERNAME")
		cfg.SMTPPassword = required("SMTP_PASSWORD")
	}

	// Once set, anything but "true" turns STARTTLS off, including an empty value
	if v, ok := lookup("SMTP_USE_TLS"); ok {
		cfg.SMTPUseTLS = strings.EqualFold(strings.TrimSpace(v), "true")
	}
	if v, _ := lookup("SMTP_TIMEOUT"); strings.TrimSpace(v) != "" {
		d, err := time.ParseDuration(strings.TrimSpace(v))
		if err != nil || d <= 0 {
			problems = append(problems, fmt.Sprintf("SMTP_TIMEOUT %q is not a positive duration", v))
		} else {
			cfg.SMTPTimeout = d
		}
	}

	if len(problems) > 0 {
		return Config{}, fmt.Errorf("%w: %s", ErrConfigurationMissing, strings.Join(problems, "; "))
	}
	return cfg, nil
}
