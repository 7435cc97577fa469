// Package gravatar derives a deterministic avatar URL from an email
// address, with the mystery-man fallback and a PG rating.
package gravatar

import (
	"crypto/md5"
	"encoding/hex"
	"net/url"
	"strings"
)

const baseURL = "https://www.gravatar.com/avatar/"

func URL(email string) string {
	normalized := strings.ToLower(strings.TrimSpace(email))
	sum := md5.Sum([]byte(normalized))

	q := url.Values{}
	q.Set("s", "200")
	q.Set("r", "pg")
	q.Set("d", "mm")

	return baseURL + hex.EncodeToString(sum[:]) + "?" + q.Encode()
}
