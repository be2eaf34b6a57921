package anchors

import (
	"fmt"
	"strconv"
	"strings"
)

// Characters that are never legitimate in a hostname and usually signal an
// injection attempt when they show up in configuration.
const domainBlockedRunes = `<>&'";`

// ValidateAndEscapeDomains validates a comma-separated list of embed parent
// domains and returns the same list with every entry escaped for safe
// interpolation into an embed URL. Alphanumerics and dots pass through;
// every other byte, the port colon included, is percent-encoded. The input
// is rejected outright when empty, when any entry carries markup or quote
// characters, or when an entry does not look like a hostname with an
// optional port.
func ValidateAndEscapeDomains(domains string) (string, error) {
	if strings.TrimSpace(domains) == "" {
		return "", ErrEmptyDomains
	}

	entries := []string{}
	for _, raw := range strings.Split(domains, ",") {
		entry := strings.TrimSpace(raw)
		if entry == "" {
			continue
		}
		if err := validateDomainEntry(entry); err != nil {
			return "", err
		}
		entries = append(entries, escapeDomainEntry(entry))
	}

	if len(entries) == 0 {
		return "", ErrEmptyDomains
	}
	return strings.Join(entries, ","), nil
}

func validateDomainEntry(entry string) error {
	if strings.ContainsAny(entry, domainBlockedRunes) {
		return fmt.Errorf("%w: %q contains blocked characters", ErrInvalidDomain, entry)
	}

	host := entry
	if idx := strings.LastIndex(entry, ":"); idx >= 0 {
		host = entry[:idx]
		port := entry[idx+1:]
		n, err := strconv.Atoi(port)
		if err != nil || n < 1 || n > 65535 {
			return fmt.Errorf("%w: %q has an invalid port", ErrInvalidDomain, entry)
		}
	}

	if !validHost(host) {
		return fmt.Errorf("%w: %q", ErrInvalidDomain, entry)
	}
	return nil
}

// validHost accepts hostnames that start and end with an alphanumeric and
// use only alphanumerics, hyphens, and dots in between.
func validHost(host string) bool {
	if host == "" {
		return false
	}
	for i, r := range host {
		alnum := (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
		if i == 0 || i == len(host)-1 {
			if !alnum {
				return false
			}
			continue
		}
		if !alnum && r != '-' && r != '.' {
			return false
		}
	}
	return true
}

// escapeDomainEntry percent-encodes everything except alphanumerics and
// dots, so a validated "localhost:8080" becomes "localhost%3A8080".
func escapeDomainEntry(entry string) string {
	var b strings.Builder
	b.Grow(len(entry))
	for i := 0; i < len(entry); i++ {
		c := entry[i]
		if (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') || c == '.' {
			b.WriteByte(c)
			continue
		}
		fmt.Fprintf(&b, "%%%02X", c)
	}
	return b.String()
}
