// Package validators holds request-level checks that need network I/O.
package validators

import (
	"net"
	"strings"
)

// IsEmailDomainValid reports whether the domain behind an email address
// resolves at all, MX records first and a plain host lookup as fallback. It
// catches typo domains before an account gets created with an unreachable
// email; it does not prove the mailbox itself exists.
func IsEmailDomainValid(email string) bool {
	at := strings.LastIndex(email, "@")
	if at <= 0 || at == len(email)-1 {
		return false
	}
	domain := email[at+1:]

	if mx, err := net.LookupMX(domain); err == nil && len(mx) > 0 {
		return true
	}

	ips, err := net.LookupIP(domain)
	return err == nil && len(ips) > 0
}
