package infosimples

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/abrefacil/briefing-backend/pkg/logger"
	"github.com/abrefacil/briefing-backend/pkg/util"
)

// Client queries the Infosimples Receita Federal CNPJ lookup. It is the single
// production implementation of the registry lookup; the call is read-only and
// never touches persisted state.
type Client struct {
	config     Config
	httpClient *resty.Client
}

// NewClient creates a new lookup client with the given configuration
func NewClient(config Config) (*Client, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	timeout := config.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	httpClient := resty.New().
		SetBaseURL(config.BaseURL).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json").
		SetRetryCount(2).
		SetRetryWaitTime(500 * time.Millisecond).
		SetRetryMaxWaitTime(4 * time.Second).
		AddRetryCondition(func(r *resty.Response, err error) bool {
			// Retry transport failures and transient provider codes only;
			// classified business errors surface immediately.
			if err != nil {
				return true
			}
			if r.StatusCode() >= 500 {
				return true
			}
			if resp, ok := r.Result().(*consultaResponse); ok && resp != nil {
				return retryableCode(resp.Code)
			}
			return false
		})

	return &Client{
		config:     config,
		httpClient: httpClient,
	}, nil
}

// Consultar looks up a legal entity by CNPJ and returns the canonical
// registry record, or a classified error.
func (c *Client) Consultar(ctx context.Context, cnpj string) (*Registro, error) {
	digits := util.SomenteDigitos(cnpj)
	if len(digits) != 14 {
		return nil, ErrInvalidCNPJ
	}

	if c.config.Token == "" {
		return nil, ErrTokenNotConfigured
	}

	logger.Info("Consultando CNPJ na Receita Federal", map[string]interface{}{
		"cnpj": digits,
	})

	var result consultaResponse
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetQueryParam("cnpj", digits).
		SetQueryParam("token", c.config.Token).
		SetResult(&result).
		Get("")
	if err != nil {
		logger.Error("Falha de transporte na consulta de CNPJ", err, map[string]interface{}{
			"cnpj": digits,
		})
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	if resp.IsError() {
		logger.Error("Consulta de CNPJ retornou status HTTP inesperado", nil, map[string]interface{}{
			"cnpj":        digits,
			"status_code": resp.StatusCode(),
		})
		return nil, fmt.Errorf("%w: status HTTP %d", ErrUnavailable, resp.StatusCode())
	}

	if result.Code != 200 {
		kind := classify(result.Code)
		logger.Warn("Consulta de CNPJ rejeitada pelo provedor", map[string]interface{}{
			"cnpj":    digits,
			"code":    result.Code,
			"message": result.CodeMessage,
		})
		return nil, &ProviderError{
			Code:    result.Code,
			Message: result.CodeMessage,
			kind:    kind,
		}
	}

	if len(result.Data) == 0 {
		return nil, &ProviderError{
			Code:    result.Code,
			Message: "nenhum dado encontrado para este CNPJ",
			kind:    ErrNotFound,
		}
	}

	registro := normalizar(result.Data[0], result.SiteReceipts)

	logger.Info("CNPJ encontrado", map[string]interface{}{
		"cnpj":  digits,
		"razao": registro.Nome,
	})

	return registro, nil
}
