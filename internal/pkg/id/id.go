package id

import (
	"crypto/rand"
	"strings"

	"github.com/oklog/ulid/v2"
)

// New generates a new ULID string. ULIDs are lexicographically sortable
// by creation time and safe for use as DynamoDB partition keys.
func New() string {
	return ulid.MustNew(ulid.Now(), rand.Reader).String()
}

// MessageID builds an RFC 5322 Message-ID for mail sent from the given address.
// The domain part of from is reused so receiving servers attribute the id to the sender.
func MessageID(from string) string {
	host := "localhost"
	if at := strings.LastIndexByte(from, '@'); at >= 0 && at < len(from)-1 {
		host = strings.Trim(from[at+1:], "<> ")
	}
	return "<" + strings.ToLower(New()) + "@" + host + ">"
}
