package utils

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"strconv"
	"strings"
	"time"
)

// Webhook endpoints carry no session token; the signature over the raw body is
// the only authentication for that channel.

const identityTimestampTolerance = 5 * time.Minute

// VerifyBillingSignature checks a hex-encoded HMAC-SHA256 of the raw body.
func VerifyBillingSignature(secret string, body []byte, signature string) error {
	if secret == "" || signature == "" {
		return ErrInvalidSignature
	}

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))

	if !hmac.Equal([]byte(expected), []byte(strings.TrimSpace(signature))) {
		return ErrInvalidSignature
	}
	return nil
}

// VerifyIdentitySignature checks the identity provider's webhook scheme: an
// HMAC-SHA256 over "<msgID>.<timestamp>.<body>", base64-encoded, delivered as
// space-separated "v1,<sig>" entries. The secret may carry a "whsec_" prefix
// around a base64-encoded key. Timestamps outside the tolerance window are
// rejected to stop replayed deliveries.
func VerifyIdentitySignature(secret string, msgID, timestamp, sigHeader string, body []byte, now time.Time) error {
	if secret == "" || msgID == "" || timestamp == "" || sigHeader == "" {
		return ErrInvalidSignature
	}

	key, err := identityKey(secret)
	if err != nil {
		return ErrInvalidSignature
	}

	ts, err := strconv.ParseInt(timestamp, 10, 64)
	if err != nil {
		return ErrInvalidSignature
	}
	sent := time.Unix(ts, 0)
	if sent.Before(now.Add(-identityTimestampTolerance)) || sent.After(now.Add(identityTimestampTolerance)) {
		return ErrInvalidSignature
	}

	mac := hmac.New(sha256.New, key)
	mac.Write([]byte(msgID))
	mac.Write([]byte("."))
	mac.Write([]byte(timestamp))
	mac.Write([]byte("."))
	mac.Write(body)
	expected := base64.StdEncoding.EncodeToString(mac.Sum(nil))

	for _, entry := range strings.Fields(sigHeader) {
		version, sig, found := strings.Cut(entry, ",")
		if !found || version != "v1" {
			continue
		}
		if hmac.Equal([]byte(expected), []byte(sig)) {
			return nil
		}
	}
	return ErrInvalidSignature
}

func identityKey(secret string) ([]byte, error) {
	if raw, ok := strings.CutPrefix(secret, "whsec_"); ok {
		return base64.StdEncoding.DecodeString(raw)
	}
	return []byte(secret), nil
}
