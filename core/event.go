package core

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

const EventMessageReceived = "message.received"

var ErrMalformedPayload = errors.New("malformed payload")

// object is one level of a webhook document. Keys are matched exactly.
type object map[string]json.RawMessage

func decodeObject(raw json.RawMessage) (object, bool) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, false
	}
	var obj object
	if err := json.Unmarshal(trimmed, &obj); err != nil {
		return nil, false
	}
	return obj, true
}

// lookup reports false for absent keys and explicit nulls alike.
func (o object) lookup(key string) (json.RawMessage, bool) {
	raw, ok := o[key]
	if !ok || isNull(raw) {
		return nil, false
	}
	return raw, true
}

// payloadParser collects every problem with the message payload so they can
// be reported together.
type payloadParser struct {
	problems []string
}

func (p *payloadParser) missing(path string) {
	p.problems = append(p.problems, "missing "+path)
}

func (p *payloadParser) invalid(path, want string) {
	p.problems = append(p.problems, path+" is not "+want)
}

func (p *payloadParser) object(raw json.RawMessage, path string) (object, bool) {
	obj, ok := decodeObject(raw)
	if !ok {
		p.invalid(path, "an object")
	}
	return obj, ok
}

func (p *payloadParser) str(obj object, key, path string) string {
	raw, ok := obj.lookup(key)
	if !ok {
		p.missing(path)
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		p.invalid(path, "a string")
		return ""
	}
	return s
}

func (p *payloadParser) phoneNumber(raw json.RawMessage, path string) string {
	obj, ok := p.object(raw, path)
	if !ok {
		return ""
	}
	return p.str(obj, "phone_number", path+".phone_number")
}

func (p *payloadParser) firstRecipient(payload object) string {
	const path = "data.payload.to"
	raw, ok := payload.lookup("to")
	if !ok {
		p.missing(path + "[0].phone_number")
		return ""
	}
	var list []json.RawMessage
	if err := json.Unmarshal(raw, &list); err != nil {
		p.invalid(path, "a list")
		return ""
	}
	if len(list) == 0 || isNull(list[0]) {
		p.missing(path + "[0].phone_number")
		return ""
	}
	return p.phoneNumber(list[0], path+"[0]")
}

// ParseWebhook extracts an SMS from a provider webhook body. The boolean is
// false when the event is valid JSON but not a received message; that case is
// not an error. Every missing or mistyped field is reported in one
// ErrMalformedPayload.
func ParseWebhook(body []byte) (SMS, bool, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return SMS{}, false, fmt.Errorf("%w: request body is not a JSON object", ErrMalformedPayload)
	}
	var envelope object
	if err := json.Unmarshal(trimmed, &envelope); err != nil {
		return SMS{}, false, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}

	rawData, ok := envelope.lookup("data")
	if !ok {
		return SMS{}, false, nil
	}
	data, ok := decodeObject(rawData)
	if !ok {
		return SMS{}, false, fmt.Errorf("%w: data is not an object", ErrMalformedPayload)
	}
	var eventType string
	if raw, ok := data.lookup("event_type"); !ok || json.Unmarshal(raw, &eventType) != nil || eventType != EventMessageReceived {
		return SMS{}, false, nil
	}

	rawPayload, ok := data.lookup("payload")
	if !ok {
		return SMS{}, false, fmt.Errorf("%w: missing data.payload", ErrMalformedPayload)
	}
	var p payloadParser
	payload, ok := p.object(rawPayload, "data.payload")
	if !ok {
		return SMS{}, false, fmt.Errorf("%w: %s", ErrMalformedPayload, strings.Join(p.problems, "; "))
	}

	sms := SMS{}
	if raw, ok := payload.lookup("from"); ok {
		sms.From = p.phoneNumber(raw, "data.payload.from")
	} else {
		p.missing("data.payload.from.phone_number")
	}
	sms.To = p.firstRecipient(payload)
	sms.Text = p.str(payload, "text", "data.payload.text")
	sms.ReceivedAt = p.str(payload, "received_at", "data.payload.received_at")

	if len(p.problems) > 0 {
		return SMS{}, false, fmt.Errorf("%w: %s", ErrMalformedPayload, strings.Join(p.problems, "; "))
	}
	return sms, true, nil
}

func isNull(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || string(trimmed) == "null"
}
