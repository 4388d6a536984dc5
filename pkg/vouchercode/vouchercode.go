package vouchercode

import (
	"crypto/rand"
	"strings"
)

// Codes are read over the phone and typed from printed certificates, so the
// alphabet drops the lookalikes 0/O, 1/I and L.
const alphabet = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"

// Generate returns a human-shareable voucher code such as "GV-7XK2-Q9MD".
// Eight symbols over a 31-character alphabet give ~8.5e11 combinations, so
// generation does not check for collisions; the unique index on the codes
// table is the backstop.
func Generate(prefix string) string {
	return prefix + "-" + randomGroup(4) + "-" + randomGroup(4)
}

// OrderNumber returns a human-readable order number such as "LW-7XK2Q9".
func OrderNumber(prefix string) string {
	return prefix + "-" + randomGroup(6)
}

func randomGroup(n int) string {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand never fails on supported platforms
		panic(err)
	}

	var sb strings.Builder
	sb.Grow(n)
	for _, b := range buf {
		sb.WriteByte(alphabet[int(b)%len(alphabet)])
	}
	return sb.String()
}
