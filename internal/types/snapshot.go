package types

// HostSnapshot is the chat application's exported sidebar state. The host
// feed applies it to the live surface tree; the pin layer never reads it
// directly.
type HostSnapshot struct {
	Version       int            `json:"version"`
	Host          string         `json:"host"`
	Location      string         `json:"location"`
	Conversations []Conversation `json:"conversations"`
}
