package types

// DataResponse is the generic success envelope.
type DataResponse struct {
	Data any `json:"data"`
}

// MessageResponse is the success body of POST /inbox/send_message.
type MessageResponse struct {
	Data MessageReply `json:"data"`
}

// MessageReply carries the generated reply. Msg is omitted when the
// upstream produced no content; an empty reply is still sent as "".
type MessageReply struct {
	Msg *string `json:"msg,omitempty"`
}

// NewMessageResponse wraps reply in the response envelope.
func NewMessageResponse(reply string) *MessageResponse {
	return &MessageResponse{Data: MessageReply{Msg: &reply}}
}

// NewEmptyMessageResponse is the envelope for a reply without content.
func NewEmptyMessageResponse() *MessageResponse {
	return &MessageResponse{}
}
