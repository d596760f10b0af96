package controller

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/abrefacil/briefing-backend/internal/app/model"
	"github.com/abrefacil/briefing-backend/internal/app/repository"
	"github.com/abrefacil/briefing-backend/internal/app/service"
	apperrors "github.com/abrefacil/briefing-backend/internal/errors"
	"github.com/abrefacil/briefing-backend/internal/middleware"
)

type BriefingController struct {
	briefingService service.BriefingService
	exportService   service.ExportService
}

func NewBriefingController(briefingService service.BriefingService, exportService service.ExportService) *BriefingController {
	return &BriefingController{
		briefingService: briefingService,
		exportService:   exportService,
	}
}

type ListBriefingsRequest struct {
	Search       string `form:"search"`
	TipoEntidade string `form:"tipoEntidade"`
	Status       string `form:"status"`
	Finalidade   string `form:"finalidade"`
	DataInicio   string `form:"dataInicio"` // YYYY-MM-DD
	DataFim      string `form:"dataFim"`    // YYYY-MM-DD
	Page         int    `form:"page,default=1"`
	Limit        int    `form:"limit,default=10"`
	OrderBy      string `form:"orderBy,default=createdAt"`
	Order        string `form:"order,default=desc"`
}

func (req *ListBriefingsRequest) toFilter() (repository.BriefingFilter, map[string]string) {
	problems := make(map[string]string)
	filter := repository.BriefingFilter{
		Search:    req.Search,
		Page:      req.Page,
		Limit:     req.Limit,
		OrderBy:   repository.BriefingSort(req.OrderBy),
		Ascending: req.Order == "asc",
	}

	if req.TipoEntidade != "" {
		tipo := model.TipoEntidade(req.TipoEntidade)
		if !model.ValidTipoEntidade(tipo) {
			problems["tipoEntidade"] = "tipo de entidade inválido"
		}
		filter.TipoEntidade = &tipo
	}
	if req.Status != "" {
		status := model.BriefingStatus(req.Status)
		if !model.ValidBriefingStatus(status) {
			problems["status"] = "status inválido"
		}
		filter.Status = &status
	}
	if req.Finalidade != "" {
		finalidade := model.Finalidade(req.Finalidade)
		if !model.ValidFinalidade(finalidade) {
			problems["finalidade"] = "finalidade inválida"
		}
		filter.Finalidade = &finalidade
	}
	if req.DataInicio != "" {
		inicio, err := time.Parse("2006-01-02", req.DataInicio)
		if err != nil {
			problems["dataInicio"] = "data deve estar no formato YYYY-MM-DD"
		} else {
			filter.DataInicio = &inicio
		}
	}
	if req.DataFim != "" {
		fim, err := time.Parse("2006-01-02", req.DataFim)
		if err != nil {
			problems["dataFim"] = "data deve estar no formato YYYY-MM-DD"
		} else {
			// dataFim is inclusive: extend to the end of the day
			fim = fim.Add(24*time.Hour - time.Nanosecond)
			filter.DataFim = &fim
		}
	}

	if len(problems) > 0 {
		return filter, problems
	}
	return filter, nil
}

// Create handles briefing submission. Authentication is optional: anonymous
// submissions are accepted and identified by protocol only.
// POST /api/v1/briefings
func (ctrl *BriefingController) Create(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var input service.CreateBriefingInput
	if err := c.ShouldBindJSON(&input); err != nil {
		log.Warn("Invalid briefing create request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "dados do briefing inválidos")
		return
	}

	var userID *string
	if id, ok := middleware.GetUserID(c); ok {
		userID = &id
	}

	briefing, err := ctrl.briefingService.Create(input, userID)
	if err != nil {
		var validation service.ValidationErrors
		if errors.As(err, &validation) {
			apperrors.RespondWithValidationError(c, validation)
			return
		}
		log.Error("Failed to create briefing", err, map[string]interface{}{
			"nome_cliente": input.NomeCliente,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "create briefing")
		return
	}

	log.Info("Briefing created", map[string]interface{}{
		"briefing_id": briefing.ID,
		"protocolo":   briefing.Protocolo,
	})

	c.JSON(http.StatusCreated, gin.H{
		"message":  "Briefing criado com sucesso",
		"briefing": briefing,
	})
}

// List returns briefings with filters and pagination. Admins see everything;
// regular users only the briefings they own.
// GET /api/v1/briefings
func (ctrl *BriefingController) List(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req ListBriefingsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "parâmetros de busca inválidos")
		return
	}

	filter, problems := req.toFilter()
	if problems != nil {
		apperrors.RespondWithValidationError(c, problems)
		return
	}

	if !middleware.IsAdmin(c) {
		userID, _ := middleware.GetUserID(c)
		filter.UserID = userID
	}

	briefings, total, err := ctrl.briefingService.List(filter)
	if err != nil {
		log.Error("Failed to list briefings", err, nil)
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "list briefings")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"briefings": briefings,
		"pagination": gin.H{
			"page":  filter.Page,
			"limit": filter.Limit,
			"total": total,
		},
	})
}

// canAccessBriefing reports whether the caller may read or change the record
func canAccessBriefing(c *gin.Context, briefing *model.Briefing) bool {
	if middleware.IsAdmin(c) {
		return true
	}
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return false
	}
	return briefing.UserID != nil && *briefing.UserID == userID
}

// GetByID returns a single briefing
// GET /api/v1/briefings/:id
func (ctrl *BriefingController) GetByID(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	id := c.Param("id")

	briefing, err := ctrl.briefingService.GetByID(id)
	if err != nil {
		if errors.Is(err, service.ErrBriefingNotFound) {
			apperrors.NotFound(c, apperrors.BriefingNotFound, "briefing não encontrado")
			return
		}
		log.Error("Failed to get briefing", err, map[string]interface{}{
			"briefing_id": id,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "get briefing")
		return
	}

	if !canAccessBriefing(c, briefing) {
		apperrors.Forbidden(c, "acesso não autorizado a este briefing")
		return
	}

	c.JSON(http.StatusOK, gin.H{"briefing": briefing})
}

// GetByProtocolo returns a briefing by its protocol number. The protocol works
// as the public lookup handle for anonymous submitters.
// GET /api/v1/briefings/protocolo/:protocolo
func (ctrl *BriefingController) GetByProtocolo(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	protocolo := c.Param("protocolo")

	briefing, err := ctrl.briefingService.GetByProtocolo(protocolo)
	if err != nil {
		if errors.Is(err, service.ErrBriefingNotFound) {
			apperrors.NotFound(c, apperrors.BriefingNotFound, "protocolo não encontrado")
			return
		}
		log.Error("Failed to get briefing by protocolo", err, map[string]interface{}{
			"protocolo": protocolo,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "get briefing by protocolo")
		return
	}

	c.JSON(http.StatusOK, gin.H{"briefing": briefing})
}

// Update applies a partial update to a briefing
// PATCH /api/v1/briefings/:id
func (ctrl *BriefingController) Update(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	id := c.Param("id")

	existing, err := ctrl.briefingService.GetByID(id)
	if err != nil {
		if errors.Is(err, service.ErrBriefingNotFound) {
			apperrors.NotFound(c, apperrors.BriefingNotFound, "briefing não encontrado")
			return
		}
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "get briefing")
		return
	}
	if !canAccessBriefing(c, existing) {
		apperrors.Forbidden(c, "acesso não autorizado a este briefing")
		return
	}

	var input service.UpdateBriefingInput
	if err := c.ShouldBindJSON(&input); err != nil {
		log.Warn("Invalid briefing update request", map[string]interface{}{
			"briefing_id": id,
			"error":       err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "dados do briefing inválidos")
		return
	}

	briefing, err := ctrl.briefingService.Update(id, input, middleware.IsAdmin(c))
	if err != nil {
		var validation service.ValidationErrors
		switch {
		case errors.As(err, &validation):
			apperrors.RespondWithValidationError(c, validation)
		case errors.Is(err, service.ErrInvalidTransition):
			apperrors.BadRequest(c, apperrors.BriefingInvalidTransition, "transição de status não permitida")
		case errors.Is(err, service.ErrBriefingNotFound):
			apperrors.NotFound(c, apperrors.BriefingNotFound, "briefing não encontrado")
		default:
			log.Error("Failed to update briefing", err, map[string]interface{}{
				"briefing_id": id,
			})
			apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "update briefing")
		}
		return
	}

	log.Info("Briefing updated", map[string]interface{}{
		"briefing_id": briefing.ID,
		"status":      briefing.Status,
	})

	c.JSON(http.StatusOK, gin.H{
		"message":  "Briefing atualizado com sucesso",
		"briefing": briefing,
	})
}

// Delete removes a briefing and its partners
// DELETE /api/v1/briefings/:id
func (ctrl *BriefingController) Delete(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	id := c.Param("id")

	if err := ctrl.briefingService.Delete(id); err != nil {
		if errors.Is(err, service.ErrBriefingNotFound) {
			apperrors.NotFound(c, apperrors.BriefingNotFound, "briefing não encontrado")
			return
		}
		log.Error("Failed to delete briefing", err, map[string]interface{}{
			"briefing_id": id,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "delete briefing")
		return
	}

	log.Info("Briefing deleted", map[string]interface{}{
		"briefing_id": id,
	})

	c.JSON(http.StatusOK, gin.H{
		"message": "Briefing removido com sucesso",
	})
}

// GetStatistics returns the admin dashboard numbers
// GET /api/v1/briefings/statistics
func (ctrl *BriefingController) GetStatistics(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	stats, err := ctrl.briefingService.GetStatistics()
	if err != nil {
		log.Error("Failed to compute briefing statistics", err, nil)
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "briefing statistics")
		return
	}

	c.JSON(http.StatusOK, gin.H{"statistics": stats})
}

// Export downloads the filtered briefing list as Excel or CSV
// GET /api/v1/briefings/export?format=excel|csv
func (ctrl *BriefingController) Export(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req ListBriefingsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "parâmetros de busca inválidos")
		return
	}
	filter, problems := req.toFilter()
	if problems != nil {
		apperrors.RespondWithValidationError(c, problems)
		return
	}

	format := service.ExportFormat(c.DefaultQuery("format", string(service.ExportExcel)))
	if format != service.ExportExcel && format != service.ExportCSV {
		apperrors.BadRequest(c, apperrors.ValidationInvalidFormat, "formato deve ser excel ou csv")
		return
	}

	data, contentType, err := ctrl.exportService.ExportBriefings(filter, format)
	if err != nil {
		log.Error("Failed to export briefings", err, map[string]interface{}{
			"format": format,
		})
		apperrors.RespondWithError(c, http.StatusInternalServerError, apperrors.ExportFailed, "falha ao gerar o arquivo de exportação")
		return
	}

	extension := "xlsx"
	if format == service.ExportCSV {
		extension = "csv"
	}
	filename := fmt.Sprintf("briefings_%s.%s", time.Now().Format("20060102_150405"), extension)

	log.Info("Briefings exported", map[string]interface{}{
		"format":   format,
		"filename": filename,
		"bytes":    len(data),
	})

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, contentType, data)
}
