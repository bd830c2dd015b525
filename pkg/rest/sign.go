package rest

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"time"

	"mbx/pkg/core"
)

// Sign computes the lowercase hexadecimal HMAC-SHA256 digest of payload
// keyed by secret. It is pure and deterministic.
func Sign(secret, payload string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(payload))
	return hex.EncodeToString(mac.Sum(nil))
}

// SignForm encodes form, appends the freshness window and the timestamp
// taken from now, signs the resulting byte string, and appends the signature
// as the trailing field. The signature covers exactly the bytes returned, so
// the caller must transmit the result verbatim with no re-encoding.
func SignForm(secret string, form *core.Form, recvWindow int64, now time.Time) (string, error) {
	if secret == "" {
		return "", core.ErrNoCredentials
	}
	payload := form.Encode() +
		"&recvWindow=" + strconv.FormatInt(recvWindow, 10) +
		"&timestamp=" + strconv.FormatInt(now.UnixMilli(), 10)
	return payload + "&signature=" + Sign(secret, payload), nil
}

// SignTimestamp builds a timestamp-only signed form. Listen-key keepalives
// carry no other parameters.
func SignTimestamp(secret string, now time.Time) (string, error) {
	if secret == "" {
		return "", core.ErrNoCredentials
	}
	payload := "timestamp=" + strconv.FormatInt(now.UnixMilli(), 10)
	return payload + "&signature=" + Sign(secret, payload), nil
}
