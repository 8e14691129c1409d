package core

import (
	"fmt"
	"net/netip"
	"strings"
)

const (
	maxHostnameLength = 253
	maxLabelLength    = 63
)

// HostEntry maps an address to one or more hostnames.
// A disabled entry stays in its environment but is rendered commented out.
type HostEntry struct {
	Address   string
	Hostnames []string
	Comment   string
	Enabled   bool
}

// NewHostEntry creates an enabled entry. Each hostname argument may itself
// hold several whitespace separated names.
func NewHostEntry(address string, hostnames ...string) (HostEntry, error) {
	addr, err := ParseAddress(address)
	if err != nil {
		return HostEntry{}, err
	}

	var names []string
	for _, h := range hostnames {
		names = append(names, strings.Fields(h)...)
	}

	entry := HostEntry{
		Address:   addr,
		Hostnames: names,
		Enabled:   true,
	}
	if err := entry.Validate(); err != nil {
		return HostEntry{}, err
	}
	return entry, nil
}

// WithComment returns a copy of the entry with the comment set.
func (e HostEntry) WithComment(comment string) HostEntry {
	e.Comment = strings.TrimSpace(comment)
	return e
}

// WithEnabled returns a copy of the entry with the enabled flag set.
func (e HostEntry) WithEnabled(enabled bool) HostEntry {
	e.Enabled = enabled
	return e
}

// Validate checks the address and every hostname token.
func (e HostEntry) Validate() error {
	if _, err := ParseAddress(e.Address); err != nil {
		return err
	}
	if len(e.Hostnames) == 0 {
		return fmt.Errorf("%w: at least one hostname is required", ErrInvalidEntry)
	}
	for _, h := range e.Hostnames {
		if !IsValidHostname(h) {
			return fmt.Errorf("%w: invalid hostname %q", ErrInvalidEntry, h)
		}
	}
	if strings.ContainsAny(e.Comment, "\r\n") {
		return fmt.Errorf("%w: comment must be a single line", ErrInvalidEntry)
	}
	return nil
}

// HasHostname reports whether hostname is one of the entry's tokens.
func (e HostEntry) HasHostname(hostname string) bool {
	for _, h := range e.Hostnames {
		if h == hostname {
			return true
		}
	}
	return false
}

// PrimaryHostname returns the first hostname token.
func (e HostEntry) PrimaryHostname() string {
	if len(e.Hostnames) == 0 {
		return ""
	}
	return e.Hostnames[0]
}

// Line renders the entry in hosts file syntax.
func (e HostEntry) Line() string {
	var b strings.Builder
	if !e.Enabled {
		b.WriteString("# ")
	}
	b.WriteString(e.Address)
	for _, h := range e.Hostnames {
		b.WriteByte(' ')
		b.WriteString(h)
	}
	if e.Comment != "" {
		b.WriteString(" # ")
		b.WriteString(e.Comment)
	}
	return b.String()
}

func (e HostEntry) clone() HostEntry {
	e.Hostnames = append([]string(nil), e.Hostnames...)
	return e
}

// ParseAddress validates an IPv4 or IPv6 address and returns its canonical form.
func ParseAddress(address string) (string, error) {
	addr, err := netip.ParseAddr(strings.TrimSpace(address))
	if err != nil {
		return "", fmt.Errorf("%w: invalid IP address %q", ErrInvalidEntry, address)
	}
	return addr.String(), nil
}

// IsValidHostname reports whether hostname is a syntactically valid DNS name:
// dot separated labels of letters, digits and hyphens.
func IsValidHostname(hostname string) bool {
	if hostname == "" || len(hostname) > maxHostnameLength {
		return false
	}
	for _, label := range strings.Split(hostname, ".") {
		if label == "" || len(label) > maxLabelLength {
			return false
		}
		if label[0] == '-' || label[len(label)-1] == '-' {
			return false
		}
		for i := 0; i < len(label); i++ {
			c := label[i]
			if !isAlnum(c) && c != '-' {
				return false
			}
		}
	}
	return true
}

func isAlnum(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}
