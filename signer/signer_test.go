package signer

import (
	"fmt"
	"math/rand"
	"strings"
	"testing"
)

func TestCanonicalizeSortsKeys(t *testing.T) {
	params := map[string]string{
		"symbol":    "BTCUSDT",
		"side":      "BUY",
		"timestamp": "1640995200000",
	}

	got := Canonicalize(params)
	want := "side=BUY&symbol=BTCUSDT&timestamp=1640995200000"
	if got != want {
		t.Errorf("Canonicalize() = %q, want %q", got, want)
	}
}

func TestCanonicalizeDeterministic(t *testing.T) {
	// Build the same logical mapping many times with varying insertion
	// order; the canonical form must never change.
	keys := []string{"symbol", "side", "type", "quantity", "price", "timeInForce", "timestamp"}
	want := ""
	for i := 0; i < 50; i++ {
		params := make(map[string]string, len(keys))
		for _, j := range rand.Perm(len(keys)) {
			params[keys[j]] = fmt.Sprintf("v%d", j)
		}
		got := Canonicalize(params)
		if want == "" {
			want = got
		}
		if got != want {
			t.Fatalf("Canonicalize not deterministic: %q vs %q", got, want)
		}
	}

	// Keys must come out in non-decreasing order.
	pairs := strings.Split(want, "&")
	for i := 1; i < len(pairs); i++ {
		prev := strings.SplitN(pairs[i-1], "=", 2)[0]
		cur := strings.SplitN(pairs[i], "=", 2)[0]
		if prev > cur {
			t.Errorf("keys out of order: %q before %q", prev, cur)
		}
	}
}

func TestCanonicalizeEmpty(t *testing.T) {
	if got := Canonicalize(nil); got != "" {
		t.Errorf("Canonicalize(nil) = %q, want empty", got)
	}
	if got := Canonicalize(map[string]string{}); got != "" {
		t.Errorf("Canonicalize(empty) = %q, want empty", got)
	}
}

// Reference vector from the Binance signed endpoint documentation.
func TestSignKnownVector(t *testing.T) {
	secret := []byte("NhqPtmdSJYdKjVHjA7PZj4Mge3R5YNiP1e3UZjInClVN65XAbvqqM6A7H5fATj0j")
	message := "symbol=LTCBTC&side=BUY&type=LIMIT&timeInForce=GTC&quantity=1&price=0.1&recvWindow=5000&timestamp=1499827319559"

	got := Sign(secret, message)
	want := "c8db56825ae71d6d79447849e617115f4a920fa2acdcab2b053c4b2838bd6b71"
	if got != want {
		t.Errorf("Sign() = %q, want %q", got, want)
	}
}

func TestSignConsistency(t *testing.T) {
	secret := []byte("test_secret_key")
	message := "side=BUY&symbol=BTCUSDT&timestamp=1640995200000"

	sig1 := Sign(secret, message)
	sig2 := Sign(secret, message)
	if sig1 != sig2 {
		t.Errorf("same input produced different signatures: %q vs %q", sig1, sig2)
	}
}

func TestSignDiffersForDifferentMessages(t *testing.T) {
	secret := []byte("test_secret_key")

	sig1 := Sign(secret, "side=BUY&symbol=BTCUSDT&timestamp=1640995200000")
	sig2 := Sign(secret, "side=SELL&symbol=BTCUSDT&timestamp=1640995200000")
	if sig1 == sig2 {
		t.Error("different messages produced the same signature")
	}

	// Randomized distinct strings should collide with negligible
	// probability.
	seen := make(map[string]string)
	for i := 0; i < 200; i++ {
		msg := fmt.Sprintf("nonce=%d&ord=%d", rand.Int63(), i)
		sig := Sign(secret, msg)
		if prev, ok := seen[sig]; ok && prev != msg {
			t.Fatalf("signature collision between %q and %q", prev, msg)
		}
		seen[sig] = msg
	}
}

func TestSignOutputShape(t *testing.T) {
	secrets := [][]byte{
		nil,
		[]byte(""),
		[]byte("k"),
		[]byte("a much longer secret key than the hash block size, repeated a few times to exceed it entirely"),
	}

	for _, secret := range secrets {
		sig := Sign(secret, "test=123&time=456")
		if len(sig) != 64 {
			t.Errorf("signature length = %d for secret %q, want 64", len(sig), secret)
		}
		for _, c := range sig {
			if !strings.ContainsRune("0123456789abcdef", c) {
				t.Errorf("signature contains non lowercase hex char %q", c)
			}
		}
	}
}
