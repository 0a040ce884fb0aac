package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/solatis/nexusgate/internal/core/auth"
	"github.com/solatis/nexusgate/internal/types"
)

// RPC status values. Anything but a processed result is an error to the
// caller.
const (
	rpcSuccess = "success"
	rpcError   = "error"
)

// messageRequest is the body of POST /messages/handle.
type messageRequest struct {
	Type      string          `json:"type"`
	Params    json.RawMessage `json:"params"`
	RequestID json.RawMessage `json:"request_id"`
}

// messageResponse echoes the caller's request_id verbatim, whatever its JSON
// type (null when absent).
type messageResponse struct {
	RequestID json.RawMessage `json:"request_id"`
	Status    string         `json:"status"`
	Result    map[string]any `json:"result"`
	Timestamp time.Time      `json:"timestamp"`
}

// HandleMessage answers one synchronous RPC message.
//
// The surface is unsigned unless RequireMessageSignature is set, in which
// case X-Nexus-Signature is verified against the nexus secret exactly like
// a webhook.
func (g *Gateway) HandleMessage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	receivedAt := g.clock()

	body, err := readBody(w, r, g.maxBodyBytes)
	if err != nil {
		writeError(w, err)
		return
	}

	if g.requireMessageSignature {
		signature := r.Header.Get(auth.SignatureHeader(MessageSignatureSource))
		if err := g.verifier.Verify(MessageSignatureSource, body, signature); err != nil {
			g.logger.WithContext(ctx).Warn("message signature rejected", "error", err.Error())
			writeError(w, authError(err))
			return
		}
	}

	var result types.HandlerResult
	var msg messageRequest
	if err := json.Unmarshal(body, &msg); err != nil {
		result = types.Failed("invalid JSON body")
	} else {
		result = g.dispatch(ctx, g.messages, types.Envelope{
			Type:       msg.Type,
			RequestID:  msg.RequestID,
			Params:     msg.Params,
			ReceivedAt: receivedAt,
		})
	}

	resp, result := g.messageResponse(msg.RequestID, result)
	g.logger.WithContext(ctx).Info("message handled", "type", msg.Type, "status", string(result.Status))
	writeJSON(w, http.StatusOK, resp)

	g.record(ctx, types.Delivery{
		Surface:       types.SurfaceMessage,
		Kind:          msg.Type,
		Status:        result.Status,
		Reason:        result.Reason,
		PayloadSHA256: types.PayloadDigest(body),
		ReceivedAt:    receivedAt,
	})
}

// messageResponse builds the RPC reply. The result holds the payload fields;
// on failure "error" carries the reason next to any supporting numbers. The
// returned result is the one actually sent, which differs from the input
// when the payload cannot be encoded.
func (g *Gateway) messageResponse(requestID json.RawMessage, result types.HandlerResult) (messageResponse, types.HandlerResult) {
	fields, err := payloadFields(result.Payload)
	if err != nil {
		result = types.Failed("failed to encode handler result")
		fields = map[string]any{}
	}
	status := rpcSuccess
	if !result.OK() {
		status = rpcError
		fields["error"] = result.Reason
	}
	return messageResponse{
		RequestID: requestID,
		Status:    status,
		Result:    fields,
		Timestamp: g.clock(),
	}, result
}
