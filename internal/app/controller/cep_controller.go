package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/abrefacil/briefing-backend/internal/app/service"
	apperrors "github.com/abrefacil/briefing-backend/internal/errors"
	"github.com/abrefacil/briefing-backend/internal/middleware"
	"github.com/abrefacil/briefing-backend/pkg/cep"
)

type CEPController struct {
	cepService service.CEPService
}

func NewCEPController(cepService service.CEPService) *CEPController {
	return &CEPController{
		cepService: cepService,
	}
}

// ConsultarCEP resolves a postal code into a structured address
// GET /api/v1/cep/:cep
func (ctrl *CEPController) ConsultarCEP(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	codigo := c.Param("cep")

	endereco, err := ctrl.cepService.ConsultarCEP(c.Request.Context(), codigo)
	if err != nil {
		switch {
		case errors.Is(err, cep.ErrInvalidCEP):
			apperrors.BadRequest(c, apperrors.RegistryInvalidCEP, "CEP inválido: informe os 8 dígitos")
		case errors.Is(err, cep.ErrNotFound):
			apperrors.NotFound(c, apperrors.RegistryNotFound, "CEP não encontrado")
		case errors.Is(err, cep.ErrUnavailable):
			log.Error("CEP lookup failed", err, map[string]interface{}{
				"cep": codigo,
			})
			apperrors.RespondWithError(c, http.StatusServiceUnavailable, apperrors.RegistryUnavailable, "serviço de CEP indisponível no momento")
		default:
			log.Error("CEP lookup failed", err, map[string]interface{}{
				"cep": codigo,
			})
			apperrors.InternalError(c, "erro inesperado ao consultar o CEP")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"endereco": endereco})
}
