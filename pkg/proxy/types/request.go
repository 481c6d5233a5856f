package types

import "encoding/json"

// MessageRequest is the body of POST /inbox/send_message.
type MessageRequest struct {
	Data MessageData `json:"data"`
}

// MessageData holds the caller supplied fields. Both are optional. A field
// that is absent, null or not a JSON string decodes to "", and so does every
// field of a "data" member that is not an object.
type MessageData struct {
	// Recipient names the persona that answers.
	Recipient string

	// Msg is the user's message.
	Msg string
}

// UnmarshalJSON implements lenient decoding of the data member.
func (d *MessageData) UnmarshalJSON(b []byte) error {
	*d = MessageData{}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(b, &fields); err != nil {
		return nil
	}
	d.Recipient = optionalString(fields["recipient"])
	d.Msg = optionalString(fields["msg"])
	return nil
}

// MarshalJSON encodes the data member with both fields present.
func (d MessageData) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Recipient string `json:"recipient"`
		Msg       string `json:"msg"`
	}{d.Recipient, d.Msg})
}

func optionalString(raw json.RawMessage) string {
	var s string
	if len(raw) == 0 || json.Unmarshal(raw, &s) != nil {
		return ""
	}
	return s
}
