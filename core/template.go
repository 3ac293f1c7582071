package core

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"strings"
	"time"
)

var ErrFormat = errors.New("invalid timestamp")

const receivedLayout = "02 January 2006 at 15:04:05"

// Accepted ISO-8601 forms, tried in order. Offsets are optional; a value
// without one is treated as UTC.
var timestampLayouts = []string{
	"2006-01-02T15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04Z07:00",
	"2006-01-02T15:04",
	"2006-01-02",
}

// ParseTimestamp parses an ISO-8601 timestamp as sent by the SMS provider.
// A trailing "Z" is rewritten to "+00:00" first.
func ParseTimestamp(value string) (time.Time, error) {
	normalized := strings.TrimSpace(value)
	if strings.HasSuffix(normalized, "Z") {
		normalized = strings.TrimSuffix(normalized, "Z") + "+00:00"
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, normalized); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q is not an ISO-8601 timestamp", ErrFormat, value)
}

type emailView struct {
	From     string
	To       string
	Received string
	Body     string
}

var emailTemplate = template.Must(template.New("email").Parse(`<html>
<head>
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
</head>
<body style="font-family: Arial, sans-serif; margin: 0; padding: 20px; background-color: #f0f0f0;">
    <div style="max-width: 600px; margin: 0 auto; background-color: white; border-radius: 8px; overflow: hidden; box-shadow: 0 2px 4px rgba(0,0,0,0.1);">
        <div style="background-color: #f8f9fa; padding: 25px; border-bottom: 1px solid #dee2e6;">
            <h2 style="color: #333; margin: 0 0 10px 0; font-size: 24px;">New SMS Message Received</h2>
            <p style="color: #666; margin: 0; font-size: 16px;">SMS to Email Notification</p>
        </div>
        <div style="padding: 25px;">
            <table style="width: 100%; border-collapse: separate; border-spacing: 0 10px;">
                <tr>
                    <td style="color: #666; padding-right: 15px; width: 80px; vertical-align: top;">From:</td>
                    <td style="color: #333; font-weight: bold; word-break: break-word;">{{.From}}</td>
                </tr>
                <tr>
                    <td style="color: #666; padding-right: 15px; width: 80px; vertical-align: top;">To:</td>
                    <td style="color: #333; font-weight: bold; word-break: break-word;">{{.To}}</td>
                </tr>
                <tr>
                    <td style="color: #666; padding-right: 15px; width: 80px; vertical-align: top;">Received:</td>
                    <td style="color: #333; font-weight: bold; word-break: break-word;">{{.Received}}</td>
                </tr>
            </table>
        </div>
        <div style="padding: 0 25px 25px 25px;">
            <div style="background-color: #f8f9fa; padding: 25px; border-radius: 6px;">
                <h3 style="color: #333; margin: 0 0 15px 0; font-size: 18px;">Message Content:</h3>
                <div style="background-color: white; padding: 25px; border-radius: 4px; border: 1px solid #dee2e6; min-height: 100px;">
                    <p style="white-space: pre-wrap; margin: 0; color: #333; font-size: 16px; line-height: 1.6; word-break: break-word; overflow-wrap: break-word;">{{.Body}}</p>
                </div>
            </div>
        </div>
        <div style="text-align: center; padding: 25px; background-color: #f8f9fa; border-top: 1px solid #dee2e6;">
            <div style="background-color: #fff3cd; border: 1px solid #ffeeba; color: #856404; padding: 12px 20px; border-radius: 4px; font-size: 14px; text-align: center;">
                ⚠️ Do not reply to this email. It will not be delivered to the sender.
            </div>
        </div>
    </div>
</body>
</html>
`))

// BuildEmailHTML renders the notification email for one SMS. Every value is
// HTML-escaped. The output depends only on the arguments.
func BuildEmailHTML(fromNumber, toNumber, messageBody, receivedAt string) (string, error) {
	t, err := ParseTimestamp(receivedAt)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	err = emailTemplate.Execute(&buf, emailView{
		From:     FormatPhoneNumber(fromNumber),
		To:       FormatPhoneNumber(toNumber),
		Received: t.Format(receivedLayout),
		Body:     messageBody,
	})
	if err != nil {
		return "", fmt.Errorf("failed to render email: %w", err)
	}
	return buf.String(), nil
}
