package handlers

import (
	"fmt"
	"log/slog"
	"net/http"

	"lovepaws/gateway/pkg/completion"
	"lovepaws/gateway/pkg/proxy"
	"lovepaws/gateway/pkg/proxy/types"
	"lovepaws/gateway/pkg/sanitize"
	"lovepaws/gateway/pkg/telemetry/logging"
)

// MessageConfig configures a MessageHandler.
type MessageConfig struct {
	// MaxBodyBytes caps the request body.
	MaxBodyBytes int64

	// MaxRecipientRunes bounds the sanitized recipient. Zero means unbounded.
	MaxRecipientRunes int

	// MaxMessageRunes bounds the sanitized message. Zero means unbounded.
	MaxMessageRunes int

	// EmptyReplyIsError turns an upstream success without content into a
	// 500 instead of a 200 with no msg.
	EmptyReplyIsError bool
}

// MessageHandler handles POST /inbox/send_message.
type MessageHandler struct {
	client completion.Client
	config MessageConfig
	logger *slog.Logger
}

// NewMessageHandler creates a message handler. A nil logger means
// slog.Default().
func NewMessageHandler(client completion.Client, config MessageConfig, logger *slog.Logger) *MessageHandler {
	return &MessageHandler{
		client: client,
		config: config,
		logger: logger,
	}
}

// ServeHTTP implements http.Handler.
func (h *MessageHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logging.FromContext(ctx, h.logger)

	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		_ = proxy.WriteErrorResponse(w, types.NewMethodNotAllowedError())
		return
	}

	req, err := proxy.ParseMessageRequest(r, h.config.MaxBodyBytes)
	if err != nil {
		log.WarnContext(ctx, "invalid message request", "error", err)
		_ = proxy.WriteErrorResponse(w, proxy.HandleError(err))
		return
	}

	recipient := sanitize.Field(req.Data.Recipient, h.config.MaxRecipientRunes)
	msg := sanitize.Field(req.Data.Msg, h.config.MaxMessageRunes)

	res, err := h.client.Complete(ctx, recipient, msg)
	outcome := completion.Outcome(res, err)
	if err == nil {
		var body *types.MessageResponse
		body, err = h.reply(res)
		if err == nil {
			_ = proxy.WriteJSONResponse(w, http.StatusOK, body)
			return
		}
	}

	log.ErrorContext(ctx, "message request failed",
		append(proxy.LogAttrs(err), "outcome", outcome)...,
	)
	_ = proxy.WriteErrorResponse(w, proxy.HandleError(err))
}

// reply builds the success body for res.
func (h *MessageHandler) reply(res completion.Result) (*types.MessageResponse, error) {
	switch v := res.(type) {
	case completion.Reply:
		return types.NewMessageResponse(v.Text), nil
	case completion.EmptyChoices:
		if h.config.EmptyReplyIsError {
			return nil, proxy.ErrEmptyReply
		}
		return types.NewEmptyMessageResponse(), nil
	case completion.MalformedResponse:
		return nil, &proxy.MalformedError{Response: v}
	default:
		return nil, fmt.Errorf("unexpected completion result %T", res)
	}
}
