// Package signer produces the request authentication material required by
// the Binance REST API: a canonical query string over the call parameters
// and an HMAC-SHA256 signature over that string.
package signer

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strings"
)

// Canonicalize serializes a parameter set into the exchange-mandated wire
// form: keys sorted lexicographically, joined as key=value pairs with '&'.
// No URL encoding is applied; values are expected to be wire-safe tokens
// (symbols, numbers, enum literals). The output is a pure function of the
// input mapping, independent of insertion order.
func Canonicalize(params map[string]string) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, k+"="+params[k])
	}
	return strings.Join(pairs, "&")
}

// Sign computes the HMAC-SHA256 of message using secret as the key and
// returns the lowercase hex encoding of the digest. HMAC accepts keys of
// any length, including empty, so Sign never fails; the result is always
// exactly 64 hex characters.
func Sign(secret []byte, message string) string {
	mac := hmac.New(sha256.New, secret)
	mac.Write([]byte(message))
	return hex.EncodeToString(mac.Sum(nil))
}
