package util

import (
	"strings"
	"unicode"
)

// SomenteDigitos strips every non-digit rune from a document number
func SomenteDigitos(s string) string {
	var b strings.Builder
	for _, r := range s {
		if unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ValidarCNPJ reports whether the value holds exactly 14 digits after stripping
func ValidarCNPJ(cnpj string) bool {
	return len(SomenteDigitos(cnpj)) == 14
}

// ValidarCEP reports whether the value holds exactly 8 digits after stripping
func ValidarCEP(cep string) bool {
	return len(SomenteDigitos(cep)) == 8
}

// FormatarCNPJ renders a 14-digit CNPJ as XX.XXX.XXX/XXXX-XX
func FormatarCNPJ(cnpj string) string {
	digits := SomenteDigitos(cnpj)
	if len(digits) != 14 {
		return cnpj
	}
	return digits[:2] + "." + digits[2:5] + "." + digits[5:8] + "/" + digits[8:12] + "-" + digits[12:]
}

// FormatarCEP renders an 8-digit CEP as XXXXX-XXX
func FormatarCEP(cep string) string {
	digits := SomenteDigitos(cep)
	if len(digits) != 8 {
		return cep
	}
	return digits[:5] + "-" + digits[5:]
}
