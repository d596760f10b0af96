package infosimples

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidCNPJ is returned before any network call when the document
	// does not hold exactly 14 digits
	ErrInvalidCNPJ = errors.New("CNPJ inválido: deve conter 14 dígitos")

	// ErrTokenNotConfigured is returned when no provider token is set
	ErrTokenNotConfigured = errors.New("Token Infosimples não configurado")

	// ErrUnauthorized is returned for provider code 601 (invalid token)
	ErrUnauthorized = errors.New("token de autenticação inválido")

	// ErrForbidden is returned for provider code 603 (token lacks access)
	ErrForbidden = errors.New("token sem autorização para este serviço")

	// ErrTimeout is returned for provider code 605; safe to retry
	ErrTimeout = errors.New("tempo de consulta excedido")

	// ErrNotFound is returned for provider codes 608 and 612
	ErrNotFound = errors.New("CNPJ não encontrado na Receita Federal")

	// ErrUnavailable is returned for provider code 615 and for transport
	// failures; safe to retry
	ErrUnavailable = errors.New("Receita Federal temporariamente indisponível")

	// ErrPermanent is returned for provider code 620
	ErrPermanent = errors.New("erro permanente na consulta")

	// ErrUnknown is returned for provider codes outside the mapping table
	ErrUnknown = errors.New("erro desconhecido ao consultar CNPJ")
)

// ProviderError wraps a non-200 provider code with its local classification.
// errors.Is matches the sentinel error of the classified kind.
type ProviderError struct {
	Code    int
	Message string
	kind    error
}

func (e *ProviderError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("infosimples: código %d: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("infosimples: código %d: %s", e.Code, e.kind.Error())
}

func (e *ProviderError) Unwrap() error {
	return e.kind
}

// classify maps a provider response code to its local error kind
func classify(code int) error {
	switch code {
	case 601:
		return ErrUnauthorized
	case 603:
		return ErrForbidden
	case 604:
		return ErrInvalidCNPJ
	case 605:
		return ErrTimeout
	case 608, 612:
		return ErrNotFound
	case 615:
		return ErrUnavailable
	case 620:
		return ErrPermanent
	default:
		return ErrUnknown
	}
}

// retryableCode reports whether the provider code is transient. Only timeout
// and unavailability are retried; every other code surfaces immediately.
func retryableCode(code int) bool {
	return code == 605 || code == 615
}
