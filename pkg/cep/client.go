package cep

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/abrefacil/briefing-backend/pkg/logger"
	"github.com/abrefacil/briefing-backend/pkg/util"
)

var (
	// ErrInvalidCEP is returned before any network call when the value does
	// not hold exactly 8 digits
	ErrInvalidCEP = errors.New("CEP inválido: deve conter 8 dígitos")

	// ErrNotFound is returned when the CEP does not exist
	ErrNotFound = errors.New("CEP não encontrado")

	// ErrUnavailable is returned on transport failures; safe to retry
	ErrUnavailable = errors.New("serviço de CEP temporariamente indisponível")
)

// Endereco is the normalized ViaCEP result
type Endereco struct {
	CEP         string `json:"cep"`
	Logradouro  string `json:"logradouro"`
	Complemento string `json:"complemento"`
	Bairro      string `json:"bairro"`
	Cidade      string `json:"cidade"`
	UF          string `json:"uf"`
	IBGE        string `json:"ibge"`
	DDD         string `json:"ddd"`
}

// erroFlag tolerates ViaCEP emitting "erro" as a bool or as a string
type erroFlag bool

func (e *erroFlag) UnmarshalJSON(data []byte) error {
	trimmed := bytes.Trim(data, `"`)
	*e = erroFlag(string(trimmed) == "true")
	return nil
}

type viacepResponse struct {
	CEP         string   `json:"cep"`
	Logradouro  string   `json:"logradouro"`
	Complemento string   `json:"complemento"`
	Bairro      string   `json:"bairro"`
	Localidade  string   `json:"localidade"`
	UF          string   `json:"uf"`
	IBGE        string   `json:"ibge"`
	DDD         string   `json:"ddd"`
	Erro        erroFlag `json:"erro"`
}

// Client queries the public ViaCEP postal-code service
type Client struct {
	httpClient *resty.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	httpClient := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json").
		SetRetryCount(2).
		SetRetryWaitTime(500 * time.Millisecond).
		SetRetryMaxWaitTime(4 * time.Second)

	return &Client{httpClient: httpClient}
}

// Consultar looks up a Brazilian postal code and returns the normalized
// address, with the CEP formatted as XXXXX-XXX.
func (c *Client) Consultar(ctx context.Context, cep string) (*Endereco, error) {
	digits := util.SomenteDigitos(cep)
	if len(digits) != 8 {
		return nil, ErrInvalidCEP
	}

	logger.Debug("Consultando CEP", map[string]interface{}{
		"cep": digits,
	})

	var result viacepResponse
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetResult(&result).
		Get(fmt.Sprintf("/ws/%s/json/", digits))
	if err != nil {
		logger.Error("Falha de transporte na consulta de CEP", err, map[string]interface{}{
			"cep": digits,
		})
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	if resp.IsError() {
		return nil, fmt.Errorf("%w: status HTTP %d", ErrUnavailable, resp.StatusCode())
	}

	// ViaCEP answers 200 with erro=true for unknown codes
	if bool(result.Erro) {
		return nil, ErrNotFound
	}

	return &Endereco{
		CEP:         util.FormatarCEP(digits),
		Logradouro:  result.Logradouro,
		Complemento: result.Complemento,
		Bairro:      result.Bairro,
		Cidade:      result.Localidade,
		UF:          result.UF,
		IBGE:        result.IBGE,
		DDD:         result.DDD,
	}, nil
}
