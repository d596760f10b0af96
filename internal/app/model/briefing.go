package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

type Finalidade string // objetivo do briefing

const (
	FinalidadeAbertura      Finalidade = "abertura"      // abertura de empresa
	FinalidadeRegularizacao Finalidade = "regularizacao" // regularização de empresa existente
	FinalidadeViabilidade   Finalidade = "viabilidade"   // estudo de viabilidade
)

type TipoEntidade string // categoria jurídica da entidade

const (
	TipoAssociacao TipoEntidade = "associacao"
	TipoOscip      TipoEntidade = "oscip"
	TipoSpe        TipoEntidade = "spe"
	TipoSa         TipoEntidade = "sa"
	TipoHolding    TipoEntidade = "holding"
	TipoLimitada   TipoEntidade = "limitada"
	TipoSimples    TipoEntidade = "simples"
)

type BriefingStatus string // estágio do briefing

const (
	StatusRascunho  BriefingStatus = "rascunho"
	StatusCompleto  BriefingStatus = "completo"
	StatusEmAnalise BriefingStatus = "em_analise"
	StatusAprovado  BriefingStatus = "aprovado"
)

// ValidFinalidade reports whether the value is a known finalidade
func ValidFinalidade(f Finalidade) bool {
	switch f {
	case FinalidadeAbertura, FinalidadeRegularizacao, FinalidadeViabilidade:
		return true
	}
	return false
}

// ValidTipoEntidade reports whether the value is a known entity category
func ValidTipoEntidade(t TipoEntidade) bool {
	switch t {
	case TipoAssociacao, TipoOscip, TipoSpe, TipoSa, TipoHolding, TipoLimitada, TipoSimples:
		return true
	}
	return false
}

// ValidBriefingStatus reports whether the value is a known status
func ValidBriefingStatus(s BriefingStatus) bool {
	switch s {
	case StatusRascunho, StatusCompleto, StatusEmAnalise, StatusAprovado:
		return true
	}
	return false
}

// statusTransitions is the allowed status graph. em_analise may be sent back
// to completo when the review requires changes.
var statusTransitions = map[BriefingStatus][]BriefingStatus{
	StatusRascunho:  {StatusCompleto},
	StatusCompleto:  {StatusEmAnalise},
	StatusEmAnalise: {StatusAprovado, StatusCompleto},
	StatusAprovado:  {},
}

// CanTransition reports whether the status change is allowed. Admins may force
// any valid status (administrative override); aprovado is admin-only.
func CanTransition(from, to BriefingStatus, isAdmin bool) bool {
	if !ValidBriefingStatus(to) {
		return false
	}
	if from == to {
		return true
	}
	if isAdmin {
		return true
	}
	if to == StatusAprovado {
		return false
	}
	for _, allowed := range statusTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// Endereco is the structured address stored as a JSON document
type Endereco struct {
	Logradouro  string `json:"logradouro"`
	Numero      string `json:"numero"`
	Complemento string `json:"complemento"`
	Bairro      string `json:"bairro"`
	Cidade      string `json:"cidade"`
	UF          string `json:"uf"`
	CEP         string `json:"cep"`
	TipoImovel  string `json:"tipoImovel"`
}

func (e Endereco) Value() (driver.Value, error) {
	return json.Marshal(e)
}

func (e *Endereco) Scan(value interface{}) error {
	if value == nil {
		*e = Endereco{}
		return nil
	}
	bytes, err := jsonBytes(value)
	if err != nil {
		return err
	}
	return json.Unmarshal(bytes, e)
}

// Inscricoes holds the registration flags stored as a JSON document
type Inscricoes struct {
	Estadual  bool `json:"estadual"`
	Municipal bool `json:"municipal"`
	Especial  bool `json:"especial"`
}

func (i Inscricoes) Value() (driver.Value, error) {
	return json.Marshal(i)
}

func (i *Inscricoes) Scan(value interface{}) error {
	if value == nil {
		*i = Inscricoes{}
		return nil
	}
	bytes, err := jsonBytes(value)
	if err != nil {
		return err
	}
	return json.Unmarshal(bytes, i)
}

// JSONMap is an open key/value document column (jsonb)
type JSONMap map[string]interface{}

func (m JSONMap) Value() (driver.Value, error) {
	if m == nil {
		return nil, nil
	}
	return json.Marshal(m)
}

func (m *JSONMap) Scan(value interface{}) error {
	if value == nil {
		*m = nil
		return nil
	}
	bytes, err := jsonBytes(value)
	if err != nil {
		return err
	}
	return json.Unmarshal(bytes, m)
}

func jsonBytes(value interface{}) ([]byte, error) {
	switch v := value.(type) {
	case []byte:
		return v, nil
	case string:
		return []byte(v), nil
	}
	return nil, errors.New("unsupported column type for JSON scan")
}

type Briefing struct {
	ID string `gorm:"type:uuid;primarykey" json:"id"`

	// Dados gerais
	NomeCliente string     `gorm:"not null" json:"nomeCliente"`                       // nome do solicitante
	CpfCnpj     string     `gorm:"not null" json:"cpfCnpj"`                           // CPF ou CNPJ do solicitante
	Email       string     `gorm:"not null" json:"email"`                             // email de contato
	Telefone    string     `gorm:"not null" json:"telefone"`                          // telefone de contato
	Finalidade  Finalidade `gorm:"type:varchar(20);not null;index" json:"finalidade"` // abertura | regularizacao | viabilidade

	// Protocolo único, gerado no servidor na criação (BRF-YYYYMMDD-NNNN)
	Protocolo string `gorm:"uniqueIndex;not null" json:"protocolo"`

	// Entidade
	TipoEntidade        TipoEntidade `gorm:"type:varchar(20);not null;index" json:"tipoEntidade"`
	EntidadeNome        string       `gorm:"not null" json:"entidadeNome"`
	ObjetoSocial        string       `gorm:"type:text" json:"objetoSocial"`
	FaturamentoEstimado string       `json:"faturamentoEstimado"`

	// Subestruturas sempre presentes (possivelmente com campos vazios)
	Endereco   Endereco   `gorm:"type:jsonb;not null" json:"endereco"`
	Inscricoes Inscricoes `gorm:"type:jsonb;not null" json:"inscricoes"`

	// Campos variáveis por tipo de entidade, validados na borda
	Especificos JSONMap `gorm:"type:jsonb" json:"especificos,omitempty"`

	// Snapshot da consulta à Receita Federal, quando o formulário foi
	// pré-preenchido por CNPJ
	DadosReceita JSONMap `gorm:"type:jsonb" json:"dadosReceita,omitempty"`

	// URLs de documentos enviados
	// Stored as a Postgres array literal in a text column, which keeps the
	// schema identical across the production and test dialects
	Documentos pq.StringArray `gorm:"type:text" json:"documentos,omitempty"`

	Status BriefingStatus `gorm:"type:varchar(20);default:'rascunho';index" json:"status"`

	UserID *string `gorm:"type:uuid;index" json:"userId,omitempty"`
	User   *User   `gorm:"foreignKey:UserID" json:"user,omitempty"`

	Socios []Socio `gorm:"foreignKey:BriefingID;constraint:OnDelete:CASCADE" json:"socios"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Briefing) TableName() string {
	return "briefings"
}

func (b *Briefing) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.New().String()
	}
	return nil
}
