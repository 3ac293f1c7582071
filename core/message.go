package core

// SMS is a single received text message, as extracted from a provider webhook.
type SMS struct {
	Id         string `json:"forward_id"`
	From       string `json:"from"`
	To         string `json:"to"`
	Text       string `json:"text"`
	ReceivedAt string `json:"received_at"`
}
