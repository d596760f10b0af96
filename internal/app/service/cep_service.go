package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/abrefacil/briefing-backend/pkg/cep"
	"github.com/abrefacil/briefing-backend/pkg/redis"
	"github.com/abrefacil/briefing-backend/pkg/util"
)

// CEPService resolves postal codes through ViaCEP, cached like CNPJ lookups
type CEPService interface {
	ConsultarCEP(ctx context.Context, codigo string) (*cep.Endereco, error)
}

type cepService struct {
	client   *cep.Client
	cacheTTL time.Duration
}

func NewCEPService(client *cep.Client, cacheTTL time.Duration) CEPService {
	return &cepService{
		client:   client,
		cacheTTL: cacheTTL,
	}
}

func (s *cepService) ConsultarCEP(ctx context.Context, codigo string) (*cep.Endereco, error) {
	digits := util.SomenteDigitos(codigo)
	if !util.ValidarCEP(digits) {
		return nil, cep.ErrInvalidCEP
	}

	cacheKey := "cep:" + digits
	if cached, err := redis.GetLookup(ctx, cacheKey); err == nil && cached != "" {
		var endereco cep.Endereco
		if err := json.Unmarshal([]byte(cached), &endereco); err == nil {
			return &endereco, nil
		}
	}

	endereco, err := s.client.Consultar(ctx, digits)
	if err != nil {
		return nil, err
	}

	if payload, err := json.Marshal(endereco); err == nil {
		_ = redis.SetLookup(ctx, cacheKey, string(payload), s.cacheTTL)
	}

	return endereco, nil
}
