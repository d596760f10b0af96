package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/abrefacil/briefing-backend/internal/app/model"
	"github.com/abrefacil/briefing-backend/internal/app/repository"
	"github.com/abrefacil/briefing-backend/pkg/logger"
)

var (
	ErrBriefingNotFound  = errors.New("briefing não encontrado")
	ErrInvalidTransition = errors.New("transição de status não permitida")
)

// ValidationErrors carries one message per rejected field
type ValidationErrors map[string]string

func (v ValidationErrors) Error() string {
	fields := make([]string, 0, len(v))
	for field := range v {
		fields = append(fields, field)
	}
	return fmt.Sprintf("campos inválidos: %s", strings.Join(fields, ", "))
}

type SocioInput struct {
	Tipo          model.TipoSocio  `json:"tipo"`
	Nome          string           `json:"nome" binding:"required"`
	CpfCnpj       string           `json:"cpfCnpj" binding:"required"`
	RG            string           `json:"rg"`
	EstadoCivil   string           `json:"estadoCivil"`
	RegimeBens    string           `json:"regimeBens"`
	Qualificacao  string           `json:"qualificacao"`
	Participacao  float64          `json:"participacao"`
	Administrador bool             `json:"administrador"`
	Restricoes    model.Restricoes `json:"restricoes"`
	Email         string           `json:"email"`
	Telefone      string           `json:"telefone"`
	Endereco      string           `json:"endereco"`
}

type CreateBriefingInput struct {
	NomeCliente string           `json:"nomeCliente" binding:"required"`
	CpfCnpj     string           `json:"cpfCnpj" binding:"required"`
	Email       string           `json:"email" binding:"required,email"`
	Telefone    string           `json:"telefone" binding:"required"`
	Finalidade  model.Finalidade `json:"finalidade" binding:"required"`

	TipoEntidade        model.TipoEntidade `json:"tipoEntidade" binding:"required"`
	EntidadeNome        string             `json:"entidadeNome" binding:"required"`
	ObjetoSocial        string             `json:"objetoSocial"`
	FaturamentoEstimado string             `json:"faturamentoEstimado"`

	Endereco    model.Endereco   `json:"endereco"`
	Inscricoes  model.Inscricoes `json:"inscricoes"`
	Especificos model.JSONMap    `json:"especificos"`

	DadosReceita model.JSONMap `json:"dadosReceita"`
	Documentos   []string      `json:"documentos"`

	Socios []SocioInput `json:"socios"`

	// Accepted on create: rascunho (default) or completo
	Status model.BriefingStatus `json:"status"`
}

// UpdateBriefingInput is a partial update: nil pointers leave the stored value
// untouched. Slices and maps replace the whole value when present.
type UpdateBriefingInput struct {
	NomeCliente *string           `json:"nomeCliente"`
	CpfCnpj     *string           `json:"cpfCnpj"`
	Email       *string           `json:"email"`
	Telefone    *string           `json:"telefone"`
	Finalidade  *model.Finalidade `json:"finalidade"`

	TipoEntidade        *model.TipoEntidade `json:"tipoEntidade"`
	EntidadeNome        *string             `json:"entidadeNome"`
	ObjetoSocial        *string             `json:"objetoSocial"`
	FaturamentoEstimado *string             `json:"faturamentoEstimado"`

	Endereco    *model.Endereco   `json:"endereco"`
	Inscricoes  *model.Inscricoes `json:"inscricoes"`
	Especificos model.JSONMap     `json:"especificos"`

	DadosReceita model.JSONMap `json:"dadosReceita"`
	Documentos   []string      `json:"documentos"`

	Socios []SocioInput `json:"socios"`

	Status *model.BriefingStatus `json:"status"`
}

type BriefingService interface {
	Create(input CreateBriefingInput, userID *string) (*model.Briefing, error)
	List(filter repository.BriefingFilter) ([]model.Briefing, int64, error)
	GetByID(id string) (*model.Briefing, error)
	GetByProtocolo(protocolo string) (*model.Briefing, error)
	Update(id string, input UpdateBriefingInput, isAdmin bool) (*model.Briefing, error)
	Delete(id string) error
	GetStatistics() (*repository.Statistics, error)
}

type briefingService struct {
	briefingRepo repository.BriefingRepository
	now          func() time.Time
}

func NewBriefingService(briefingRepo repository.BriefingRepository) BriefingService {
	return &briefingService{
		briefingRepo: briefingRepo,
		now:          time.Now,
	}
}

func validateSocios(socios []SocioInput) ValidationErrors {
	problems := ValidationErrors{}
	for i, socio := range socios {
		prefix := fmt.Sprintf("socios[%d]", i)
		if strings.TrimSpace(socio.Nome) == "" {
			problems[prefix+".nome"] = "nome do sócio é obrigatório"
		}
		if strings.TrimSpace(socio.CpfCnpj) == "" {
			problems[prefix+".cpfCnpj"] = "CPF/CNPJ do sócio é obrigatório"
		}
		if socio.Participacao < 0 || socio.Participacao > 100 {
			problems[prefix+".participacao"] = "participação deve estar entre 0 e 100"
		}
		if socio.Tipo != "" && socio.Tipo != model.SocioPF && socio.Tipo != model.SocioPJ {
			problems[prefix+".tipo"] = "tipo de sócio inválido"
		}
		switch socio.Restricoes {
		case "", model.RestricoesSim, model.RestricoesNao, model.RestricoesNaoSabe:
		default:
			problems[prefix+".restricoes"] = "valor de restrições inválido"
		}
	}
	if len(problems) == 0 {
		return nil
	}
	return problems
}

func sociosFromInput(inputs []SocioInput) []model.Socio {
	socios := make([]model.Socio, 0, len(inputs))
	for _, in := range inputs {
		tipo := in.Tipo
		if tipo == "" {
			tipo = model.SocioPF
		}
		restricoes := in.Restricoes
		if restricoes == "" {
			restricoes = model.RestricoesNao
		}
		socios = append(socios, model.Socio{
			Tipo:          tipo,
			Nome:          in.Nome,
			CpfCnpj:       in.CpfCnpj,
			RG:            in.RG,
			EstadoCivil:   in.EstadoCivil,
			RegimeBens:    in.RegimeBens,
			Qualificacao:  in.Qualificacao,
			Participacao:  in.Participacao,
			Administrador: in.Administrador,
			Restricoes:    restricoes,
			Email:         in.Email,
			Telefone:      in.Telefone,
			Endereco:      in.Endereco,
		})
	}
	return socios
}

func (s *briefingService) Create(input CreateBriefingInput, userID *string) (*model.Briefing, error) {
	logger.Info("Creating briefing", map[string]interface{}{
		"nome_cliente":  input.NomeCliente,
		"tipo_entidade": input.TipoEntidade,
		"finalidade":    input.Finalidade,
	})

	problems := ValidationErrors{}
	if !model.ValidFinalidade(input.Finalidade) {
		problems["finalidade"] = "finalidade inválida"
	}
	if !model.ValidTipoEntidade(input.TipoEntidade) {
		problems["tipoEntidade"] = "tipo de entidade inválido"
	}

	status := input.Status
	if status == "" {
		status = model.StatusRascunho
	}
	if status != model.StatusRascunho && status != model.StatusCompleto {
		problems["status"] = "status inicial deve ser rascunho ou completo"
	}

	if model.ValidTipoEntidade(input.TipoEntidade) {
		for field, message := range model.ValidateEspecificos(input.TipoEntidade, input.Especificos) {
			problems["especificos."+field] = message
		}
	}
	for field, message := range validateSocios(input.Socios) {
		problems[field] = message
	}
	if len(problems) > 0 {
		logger.Warn("Briefing create rejected by validation", map[string]interface{}{
			"fields": problems,
		})
		return nil, problems
	}

	briefing := &model.Briefing{
		NomeCliente:         input.NomeCliente,
		CpfCnpj:             input.CpfCnpj,
		Email:               input.Email,
		Telefone:            input.Telefone,
		Finalidade:          input.Finalidade,
		TipoEntidade:        input.TipoEntidade,
		EntidadeNome:        input.EntidadeNome,
		ObjetoSocial:        input.ObjetoSocial,
		FaturamentoEstimado: input.FaturamentoEstimado,
		Endereco:            input.Endereco,
		Inscricoes:          input.Inscricoes,
		Especificos:         input.Especificos,
		DadosReceita:        input.DadosReceita,
		Documentos:          input.Documentos,
		Socios:              sociosFromInput(input.Socios),
		Status:              status,
		UserID:              userID,
	}

	if err := s.briefingRepo.Create(briefing, s.now()); err != nil {
		return nil, err
	}

	logger.Info("Briefing created", map[string]interface{}{
		"briefing_id": briefing.ID,
		"protocolo":   briefing.Protocolo,
	})
	return briefing, nil
}

func (s *briefingService) List(filter repository.BriefingFilter) ([]model.Briefing, int64, error) {
	return s.briefingRepo.FindWithFilter(filter)
}

func (s *briefingService) GetByID(id string) (*model.Briefing, error) {
	briefing, err := s.briefingRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBriefingNotFound
		}
		return nil, err
	}
	return briefing, nil
}

func (s *briefingService) GetByProtocolo(protocolo string) (*model.Briefing, error) {
	briefing, err := s.briefingRepo.FindByProtocolo(protocolo)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBriefingNotFound
		}
		return nil, err
	}
	return briefing, nil
}

func (s *briefingService) Update(id string, input UpdateBriefingInput, isAdmin bool) (*model.Briefing, error) {
	logger.Info("Updating briefing", map[string]interface{}{
		"briefing_id": id,
		"is_admin":    isAdmin,
	})

	briefing, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}

	problems := ValidationErrors{}

	if input.NomeCliente != nil {
		briefing.NomeCliente = *input.NomeCliente
	}
	if input.CpfCnpj != nil {
		briefing.CpfCnpj = *input.CpfCnpj
	}
	if input.Email != nil {
		briefing.Email = *input.Email
	}
	if input.Telefone != nil {
		briefing.Telefone = *input.Telefone
	}
	if input.Finalidade != nil {
		if !model.ValidFinalidade(*input.Finalidade) {
			problems["finalidade"] = "finalidade inválida"
		} else {
			briefing.Finalidade = *input.Finalidade
		}
	}
	if input.TipoEntidade != nil {
		if !model.ValidTipoEntidade(*input.TipoEntidade) {
			problems["tipoEntidade"] = "tipo de entidade inválido"
		} else {
			briefing.TipoEntidade = *input.TipoEntidade
		}
	}
	if input.EntidadeNome != nil {
		briefing.EntidadeNome = *input.EntidadeNome
	}
	if input.ObjetoSocial != nil {
		briefing.ObjetoSocial = *input.ObjetoSocial
	}
	if input.FaturamentoEstimado != nil {
		briefing.FaturamentoEstimado = *input.FaturamentoEstimado
	}
	if input.Endereco != nil {
		briefing.Endereco = *input.Endereco
	}
	if input.Inscricoes != nil {
		briefing.Inscricoes = *input.Inscricoes
	}
	if input.Especificos != nil {
		briefing.Especificos = input.Especificos
	}
	if input.DadosReceita != nil {
		briefing.DadosReceita = input.DadosReceita
	}
	if input.Documentos != nil {
		briefing.Documentos = input.Documentos
	}

	// Especificos are re-checked against the (possibly changed) entity type
	for field, message := range model.ValidateEspecificos(briefing.TipoEntidade, briefing.Especificos) {
		problems["especificos."+field] = message
	}
	if input.Socios != nil {
		for field, message := range validateSocios(input.Socios) {
			problems[field] = message
		}
	}

	if input.Status != nil && *input.Status != briefing.Status {
		if !model.CanTransition(briefing.Status, *input.Status, isAdmin) {
			logger.Warn("Status transition rejected", map[string]interface{}{
				"briefing_id": id,
				"from":        briefing.Status,
				"to":          *input.Status,
				"is_admin":    isAdmin,
			})
			return nil, ErrInvalidTransition
		}
		briefing.Status = *input.Status
	}

	if len(problems) > 0 {
		logger.Warn("Briefing update rejected by validation", map[string]interface{}{
			"briefing_id": id,
			"fields":      problems,
		})
		return nil, problems
	}

	if err := s.briefingRepo.Update(briefing); err != nil {
		return nil, err
	}

	if input.Socios != nil {
		if err := s.briefingRepo.ReplaceSocios(briefing.ID, sociosFromInput(input.Socios)); err != nil {
			return nil, err
		}
	}

	// Reload so the response carries the persisted associations
	return s.GetByID(briefing.ID)
}

func (s *briefingService) Delete(id string) error {
	logger.Info("Deleting briefing", map[string]interface{}{
		"briefing_id": id,
	})

	err := s.briefingRepo.Delete(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrBriefingNotFound
	}
	return err
}

func (s *briefingService) GetStatistics() (*repository.Statistics, error) {
	return s.briefingRepo.GetStatistics()
}
