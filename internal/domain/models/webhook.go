package models

// WebhookRequest is the envelope the messaging platform POSTs to /callback.
type WebhookRequest struct {
	Destination string         `json:"destination"`
	Events      []WebhookEvent `json:"events"`
}

// WebhookEvent is one event in a webhook delivery. Only text message events
// from one-on-one chats are acted upon; everything else is ignored.
type WebhookEvent struct {
	Type       string         `json:"type"`
	ReplyToken string         `json:"replyToken"`
	Timestamp  int64          `json:"timestamp"`
	Source     WebhookSource  `json:"source"`
	Message    WebhookMessage `json:"message"`
}

// WebhookSource identifies where an event originated.
type WebhookSource struct {
	Type    string `json:"type"` // "user", "group" or "room"
	UserID  string `json:"userId"`
	GroupID string `json:"groupId,omitempty"`
	RoomID  string `json:"roomId,omitempty"`
}

// WebhookMessage is the message attached to a message event.
type WebhookMessage struct {
	ID   string `json:"id"`
	Type string `json:"type"` // only "text" is handled
	Text string `json:"text"`
}

// IsPrivateText reports whether the event is a text message sent in a
// one-on-one chat. The secret phrase is only honored there; group and room
// chatter never triggers a fetch.
func (e WebhookEvent) IsPrivateText() bool {
	return e.Type == "message" && e.Message.Type == "text" && e.Source.Type == "user"
}
