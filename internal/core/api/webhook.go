package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/solatis/nexusgate/internal/core/auth"
	"github.com/solatis/nexusgate/internal/types"
)

// webhookEvent is the body of POST /webhooks/{source}.
type webhookEvent struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// HandleWebhook ingests one signed event.
//
// Verification strictly precedes decoding and routing: a request whose
// signature does not match is answered with 401 and never reaches a handler.
// Every authenticated request is answered with 200 and a structured result,
// including handler errors and timeouts.
func (g *Gateway) HandleWebhook(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	receivedAt := g.clock()
	source := strings.ToLower(r.PathValue("source"))

	body, err := readBody(w, r, g.maxBodyBytes)
	if err != nil {
		g.logger.WithContext(ctx).Warn("webhook body rejected", "source", source, "error", err.Error())
		writeError(w, err)
		return
	}

	signature := r.Header.Get(auth.SignatureHeader(source))
	if err := g.verifier.Verify(source, body, signature); err != nil {
		g.logger.WithContext(ctx).Warn("webhook signature rejected", "source", source, "error", err.Error())
		writeError(w, authError(err))
		return
	}

	var result types.HandlerResult
	var evt webhookEvent
	if err := json.Unmarshal(body, &evt); err != nil {
		result = types.Failed("invalid JSON body")
	} else {
		result = g.dispatch(ctx, g.events, types.Envelope{
			Type:       evt.Type,
			Params:     evt.Data,
			ReceivedAt: receivedAt,
		})
	}

	resp, result := webhookResponse(result)
	g.logger.WithContext(ctx).Info("webhook handled",
		"source", source, "type", evt.Type, "status", string(result.Status))
	writeJSON(w, http.StatusOK, resp)

	g.record(ctx, types.Delivery{
		Surface:       types.SurfaceEvent,
		Source:        source,
		Kind:          evt.Type,
		Status:        result.Status,
		Reason:        result.Reason,
		PayloadSHA256: types.PayloadDigest(body),
		ReceivedAt:    receivedAt,
	})
}

// webhookResponse flattens the payload next to status and reason:
// {"status": "...", "reason": "...", <payload fields>}. A payload that cannot
// be encoded turns into an error result, which is returned alongside.
func webhookResponse(result types.HandlerResult) (map[string]any, types.HandlerResult) {
	fields, err := payloadFields(result.Payload)
	if err != nil {
		result = types.Failed("failed to encode handler result")
		fields = map[string]any{}
	}
	fields["status"] = string(result.Status)
	if result.Reason != "" {
		fields["reason"] = result.Reason
	}
	return fields, result
}
