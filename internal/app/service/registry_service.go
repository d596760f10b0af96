package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/abrefacil/briefing-backend/pkg/logger"
	"github.com/abrefacil/briefing-backend/pkg/redis"
	"github.com/abrefacil/briefing-backend/pkg/registry/infosimples"
	"github.com/abrefacil/briefing-backend/pkg/util"
)

// RegistryService resolves CNPJ numbers into normalized company records,
// with a read-through cache in front of the provider when Redis is enabled.
type RegistryService interface {
	ConsultarCNPJ(ctx context.Context, cnpj string) (*infosimples.Registro, error)
}

type registryService struct {
	client   *infosimples.Client
	cacheTTL time.Duration
}

func NewRegistryService(client *infosimples.Client, cacheTTL time.Duration) RegistryService {
	return &registryService{
		client:   client,
		cacheTTL: cacheTTL,
	}
}

func (s *registryService) ConsultarCNPJ(ctx context.Context, cnpj string) (*infosimples.Registro, error) {
	digits := util.SomenteDigitos(cnpj)
	if !util.ValidarCNPJ(digits) {
		return nil, infosimples.ErrInvalidCNPJ
	}

	cacheKey := "cnpj:" + digits
	if cached, err := redis.GetLookup(ctx, cacheKey); err == nil && cached != "" {
		var registro infosimples.Registro
		if err := json.Unmarshal([]byte(cached), &registro); err == nil {
			return &registro, nil
		}
		// Corrupt cache entry falls through to a fresh lookup
		logger.Warn("Discarding unreadable cached CNPJ record", map[string]interface{}{
			"cnpj": digits,
		})
	}

	registro, err := s.client.Consultar(ctx, digits)
	if err != nil {
		return nil, err
	}

	if payload, err := json.Marshal(registro); err == nil {
		_ = redis.SetLookup(ctx, cacheKey, string(payload), s.cacheTTL)
	}

	return registro, nil
}
