package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/abrefacil/briefing-backend/internal/app/service"
	apperrors "github.com/abrefacil/briefing-backend/internal/errors"
	"github.com/abrefacil/briefing-backend/internal/middleware"
	"github.com/abrefacil/briefing-backend/pkg/registry/infosimples"
)

type RegistryController struct {
	registryService service.RegistryService
}

func NewRegistryController(registryService service.RegistryService) *RegistryController {
	return &RegistryController{
		registryService: registryService,
	}
}

// registryFailure maps a lookup error onto HTTP status, error code and
// user-facing message. The provider's raw code, when present, goes out in the
// response body for diagnostics.
func registryFailure(err error) (int, string, string) {
	switch {
	case errors.Is(err, infosimples.ErrInvalidCNPJ):
		return http.StatusBadRequest, apperrors.RegistryInvalidCNPJ, "CNPJ inválido: informe os 14 dígitos"
	case errors.Is(err, infosimples.ErrTokenNotConfigured):
		// Missing token is a deployment problem, not a client one
		return http.StatusInternalServerError, apperrors.RegistryTokenMissing, "consulta de CNPJ não configurada no servidor"
	case errors.Is(err, infosimples.ErrUnauthorized):
		return http.StatusUnauthorized, apperrors.RegistryUnauthorized, "token de consulta inválido"
	case errors.Is(err, infosimples.ErrForbidden):
		return http.StatusForbidden, apperrors.RegistryForbidden, "token sem autorização para esta consulta"
	case errors.Is(err, infosimples.ErrNotFound):
		return http.StatusNotFound, apperrors.RegistryNotFound, "CNPJ não encontrado na Receita Federal"
	case errors.Is(err, infosimples.ErrTimeout):
		return http.StatusRequestTimeout, apperrors.RegistryTimeout, "tempo de consulta excedido, tente novamente"
	case errors.Is(err, infosimples.ErrUnavailable):
		return http.StatusServiceUnavailable, apperrors.RegistryUnavailable, "serviço da Receita Federal indisponível no momento"
	case errors.Is(err, infosimples.ErrPermanent):
		return http.StatusInternalServerError, apperrors.RegistryPermanentError, "erro permanente na consulta do CNPJ"
	default:
		return http.StatusInternalServerError, apperrors.RegistryUnknownError, "erro inesperado ao consultar o CNPJ"
	}
}

// ConsultarCNPJ looks up a CNPJ at the federal registry and returns the
// normalized company record used to pre-fill the briefing form.
// GET /api/v1/cnpj/:cnpj
func (ctrl *RegistryController) ConsultarCNPJ(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	cnpj := c.Param("cnpj")

	registro, err := ctrl.registryService.ConsultarCNPJ(c.Request.Context(), cnpj)
	if err != nil {
		status, code, message := registryFailure(err)

		if status >= 500 {
			log.Error("CNPJ lookup failed", err, map[string]interface{}{
				"cnpj": cnpj,
			})
		} else {
			log.Warn("CNPJ lookup rejected", map[string]interface{}{
				"cnpj":  cnpj,
				"error": err.Error(),
			})
		}

		var providerErr *infosimples.ProviderError
		if errors.As(err, &providerErr) {
			apperrors.RespondWithProviderError(c, status, code, message, providerErr.Code)
			return
		}
		apperrors.RespondWithError(c, status, code, message)
		return
	}

	log.Info("CNPJ lookup successful", map[string]interface{}{
		"cnpj": registro.CNPJ,
		"nome": registro.Nome,
	})

	c.JSON(http.StatusOK, gin.H{"dados": registro})
}
