package model

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TipoSocio string // pessoa física ou jurídica

const (
	SocioPF TipoSocio = "pf"
	SocioPJ TipoSocio = "pj"
)

type Restricoes string // restrições cadastrais declaradas

const (
	RestricoesSim     Restricoes = "sim"
	RestricoesNao     Restricoes = "nao"
	RestricoesNaoSabe Restricoes = "nao-sabe"
)

// Socio is a partner/administrator of a briefing. It has no identity outside
// its parent briefing and is removed with it (ON DELETE CASCADE).
type Socio struct {
	ID   string    `gorm:"type:uuid;primarykey" json:"id"`
	Tipo TipoSocio `gorm:"type:varchar(2);default:'pf'" json:"tipo"`

	Nome    string `gorm:"not null" json:"nome"`
	CpfCnpj string `gorm:"not null" json:"cpfCnpj"`

	RG          string `json:"rg,omitempty"`
	EstadoCivil string `json:"estadoCivil,omitempty"`
	RegimeBens  string `json:"regimeBens,omitempty"`

	Qualificacao  string  `json:"qualificacao,omitempty"`
	Participacao  float64 `gorm:"type:decimal(5,2)" json:"participacao"` // percentual de participação
	Administrador bool    `gorm:"default:false" json:"administrador"`

	Restricoes Restricoes `gorm:"type:varchar(10);default:'nao'" json:"restricoes"`

	Email    string `json:"email,omitempty"`
	Telefone string `json:"telefone,omitempty"`
	Endereco string `json:"endereco,omitempty"`

	BriefingID string `gorm:"type:uuid;not null;index" json:"briefingId"`
}

func (Socio) TableName() string {
	return "socios"
}

func (s *Socio) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	return nil
}
