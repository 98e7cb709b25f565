// Package format holds the client-side input formatting the sign-up
// forms apply before anything reaches the network: progressive CPF/CNPJ
// masks and the final-shape checks.
package format

import (
	"regexp"
	"strings"
)

var (
	cpfPattern   = regexp.MustCompile(`^\d{3}\.\d{3}\.\d{3}-\d{2}$`)
	cnpjPattern  = regexp.MustCompile(`^\d{2}\.\d{3}\.\d{3}/\d{4}-\d{2}$`)
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
)

// digits strips everything but 0-9 and caps the length.
func digits(value string, limit int) string {
	var b strings.Builder
	for _, r := range value {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
			if b.Len() == limit {
				break
			}
		}
	}
	return b.String()
}

// CPF progressively masks value as XXX.XXX.XXX-XX. Partial input gets a
// partial mask, so it can run on every keystroke.
func CPF(value string) string {
	d := digits(value, 11)

	switch {
	case len(d) <= 3:
		return d
	case len(d) <= 6:
		return d[:3] + "." + d[3:]
	case len(d) <= 9:
		return d[:3] + "." + d[3:6] + "." + d[6:]
	default:
		return d[:3] + "." + d[3:6] + "." + d[6:9] + "-" + d[9:]
	}
}

// CNPJ progressively masks value as XX.XXX.XXX/XXXX-XX.
func CNPJ(value string) string {
	d := digits(value, 14)

	switch {
	case len(d) <= 2:
		return d
	case len(d) <= 5:
		return d[:2] + "." + d[2:]
	case len(d) <= 8:
		return d[:2] + "." + d[2:5] + "." + d[5:]
	case len(d) <= 12:
		return d[:2] + "." + d[2:5] + "." + d[5:8] + "/" + d[8:]
	default:
		return d[:2] + "." + d[2:5] + "." + d[5:8] + "/" + d[8:12] + "-" + d[12:]
	}
}

// ValidCPF reports whether value is a fully masked CPF.
func ValidCPF(value string) bool {
	return cpfPattern.MatchString(value)
}

// ValidCNPJ reports whether value is a fully masked CNPJ.
func ValidCNPJ(value string) bool {
	return cnpjPattern.MatchString(value)
}

// ValidEmail applies the same lenient shape check the sign-up form uses.
func ValidEmail(value string) bool {
	return emailPattern.MatchString(value)
}
