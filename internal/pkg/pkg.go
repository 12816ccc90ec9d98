package pkg

import (
	"crypto/rand"
	"crypto/sha1" //nolint: gosec // mandated by RFC 6455 for the handshake
	"encoding/base64"
	"encoding/hex"
	"fmt"
)

// websocketMagicGUID is the fixed GUID from RFC 6455 used to compute the
// Sec-WebSocket-Accept header.
const websocketMagicGUID = "258EAFA5-E914-47DA-95CA-C5AB0DC85B11"

// ambiguous characters (0/O, 1/I) are left out of game codes
const gameIDAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

const gameIDLength = 6

// GenerateNewSessionID returns a random 128-bit hex session identifier.
func GenerateNewSessionID() string {
	return hex.EncodeToString(mustRandomBytes(16))
}

// GenerateGameID returns a short shareable game code.
func GenerateGameID() string {
	buf := mustRandomBytes(gameIDLength)
	for i, b := range buf {
		buf[i] = gameIDAlphabet[int(b)%len(gameIDAlphabet)]
	}

	return string(buf)
}

// GenerateAcceptKey computes the Sec-WebSocket-Accept value for a client's
// Sec-WebSocket-Key.
func GenerateAcceptKey(key string) string {
	hash := sha1.Sum([]byte(key + websocketMagicGUID)) //nolint: gosec // mandated by RFC 6455
	return base64.StdEncoding.EncodeToString(hash[:])
}

func mustRandomBytes(n int) []byte {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		panic(fmt.Errorf("failed to read random bytes: %w", err))
	}

	return buf
}
