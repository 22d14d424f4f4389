package validate

import "strings"

// Providers whose mailboxes ignore a sub-address suffix, keyed by domain, valued by the separator.
var subaddressSeparators = map[string]string{
	"gmail.com":   "+",
	"outlook.com": "+",
	"hotmail.com": "+",
	"live.com":    "+",
	"icloud.com":  "+",
	"me.com":      "+",
	"yahoo.com":   "-",
}

// NormalizeEmail canonicalises an address so that every spelling of one mailbox maps to the same key.
// The whole address is lower-cased; for Gmail dots are dropped from the local part and
// googlemail.com becomes gmail.com; known providers lose their sub-address suffix.
// Input that is not a single local@domain pair is returned lower-cased and trimmed.
func NormalizeEmail(addr string) string {
	addr = strings.ToLower(strings.TrimSpace(addr))
	at := strings.LastIndexByte(addr, '@')
	if at <= 0 || at == len(addr)-1 {
		return addr
	}
	local, domain := addr[:at], addr[at+1:]

	if domain == "googlemail.com" {
		domain = "gmail.com"
	}
	if sep, ok := subaddressSeparators[domain]; ok {
		if i := strings.Index(local, sep); i > 0 {
			local = local[:i]
		}
	}
	if domain == "gmail.com" {
		local = strings.ReplaceAll(local, ".", "")
	}
	if local == "" {
		return addr
	}
	return local + "@" + domain
}
