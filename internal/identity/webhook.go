package identity

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"strconv"
	"strings"
	"time"
)

// webhookTolerance bounds how stale a webhook timestamp may be.
const webhookTolerance = 5 * time.Minute

// WebhookSignature holds the provider delivery headers needed to verify a
// webhook payload (svix scheme: id, unix timestamp, "v1,<base64 mac>").
type WebhookSignature struct {
	ID        string
	Timestamp string
	Signature string
}

// VerifyWebhook checks the HMAC-SHA256 signature over "<id>.<timestamp>.<body>"
// using the provider webhook secret. Secrets prefixed with "whsec_" are
// base64-decoded first.
func VerifyWebhook(secret string, sig WebhookSignature, body []byte, now time.Time) bool {
	if secret == "" || sig.ID == "" || sig.Timestamp == "" || sig.Signature == "" {
		return false
	}

	ts, err := strconv.ParseInt(sig.Timestamp, 10, 64)
	if err != nil {
		return false
	}
	age := now.Unix() - ts
	if age > int64(webhookTolerance.Seconds()) || age < -int64(webhookTolerance.Seconds()) {
		return false
	}

	key := []byte(secret)
	if trimmed, ok := strings.CutPrefix(secret, "whsec_"); ok {
		if decoded, err := base64.StdEncoding.DecodeString(trimmed); err == nil {
			key = decoded
		}
	}

	mac := hmac.New(sha256.New, key)
	mac.Write([]byte(sig.ID + "." + sig.Timestamp + "."))
	mac.Write(body)
	expected := base64.StdEncoding.EncodeToString(mac.Sum(nil))

	// The header may carry several space-separated versioned signatures.
	for _, candidate := range strings.Fields(sig.Signature) {
		value := candidate
		if version, rest, ok := strings.Cut(candidate, ","); ok {
			if version != "v1" {
				continue
			}
			value = rest
		}
		if hmac.Equal([]byte(expected), []byte(value)) {
			return true
		}
	}

	return false
}
