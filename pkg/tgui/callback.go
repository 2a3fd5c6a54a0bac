package tgui

import "strings"

// Data formats inline callback data as "action" or "action:payload".
// Payload is kept as-is (no escaping).
func Data(action, payload string) string {
	action = strings.TrimSpace(action)
	if payload == "" {
		return action
	}
	return action + ":" + payload
}

// SplitData splits callback data into action and payload. The payload may
// itself contain ':' characters; only the first separator counts.
func SplitData(data string) (action, payload string) {
	action, payload, _ = strings.Cut(data, ":")
	return action, payload
}
