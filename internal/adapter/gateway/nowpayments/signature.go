package nowpayments

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// SignatureHeader carries the IPN signature on webhook deliveries.
const SignatureHeader = "x-nowpayments-sig"

// Sign computes the IPN signature of payload: HMAC-SHA512 over the sorted
// key=value pairs joined by '&', hex encoded.
func Sign(payload map[string]any, secret string) string {
	mac := hmac.New(sha512.New, []byte(secret))
	mac.Write([]byte(canonicalize(payload)))
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifySignature checks signature against payload in constant time.
func VerifySignature(payload map[string]any, signature, secret string) bool {
	if secret == "" || signature == "" {
		return false
	}

	expected := Sign(payload, secret)
	return hmac.Equal([]byte(expected), []byte(strings.ToLower(strings.TrimSpace(signature))))
}

func canonicalize(payload map[string]any) string {
	keys := make([]string, 0, len(payload))
	for k := range payload {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+"="+formatValue(payload[k]))
	}

	return strings.Join(parts, "&")
}

func formatValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case json.Number:
		return val.String()
	case bool:
		if val {
			return "true"
		}
		return "false"
	case float64:
		return fmt.Sprint(val)
	default:
		return compactJSON(val)
	}
}

func compactJSON(v any) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return fmt.Sprint(v)
	}
	return strings.TrimSuffix(buf.String(), "\n")
}
