package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/feral-file/ff-smartdial/internal/adapter"
)

// SIGNATURE_PREFIX prefixes the hex digest in the signature header
const SIGNATURE_PREFIX = "sha256="

// GenerateSignedPayload serializes the event and signs it with the hex encoded secret.
// Returns the JSON payload, signature header value, unix timestamp and any error
func GenerateSignedPayload(jsonAdapter adapter.JSON, secret string, event WebhookEvent, now time.Time) (payload []byte, signature string, timestamp int64, err error) {
	secretBytes, err := hex.DecodeString(secret)
	if err != nil {
		return nil, "", 0, fmt.Errorf("failed to decode hex secret: %w", err)
	}

	payload, err = jsonAdapter.Marshal(event)
	if err != nil {
		return nil, "", 0, fmt.Errorf("failed to marshal event: %w", err)
	}

	timestamp = now.Unix()
	signature = Sign(secretBytes, timestamp, event.EventID, payload)

	return payload, signature, timestamp, nil
}

// Sign computes the signature over {timestamp}.{event_id}.{json_body}
func Sign(secret []byte, timestamp int64, eventID string, payload []byte) string {
	h := hmac.New(sha256.New, secret)
	fmt.Fprintf(h, "%d.%s.", timestamp, eventID)
	h.Write(payload)
	return SIGNATURE_PREFIX + hex.EncodeToString(h.Sum(nil))
}
