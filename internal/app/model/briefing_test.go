package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		name    string
		from    BriefingStatus
		to      BriefingStatus
		isAdmin bool
		want    bool
	}{
		{"Draft to completo", StatusRascunho, StatusCompleto, false, true},
		{"Completo to em_analise", StatusCompleto, StatusEmAnalise, false, true},
		{"Em_analise back to completo", StatusEmAnalise, StatusCompleto, false, true},
		{"User cannot approve", StatusEmAnalise, StatusAprovado, false, false},
		{"Admin approves", StatusEmAnalise, StatusAprovado, true, true},
		{"Draft cannot skip to em_analise", StatusRascunho, StatusEmAnalise, false, false},
		{"Completo cannot go back to rascunho", StatusCompleto, StatusRascunho, false, false},
		{"Aprovado is terminal for users", StatusAprovado, StatusCompleto, false, false},
		{"Admin forces any status", StatusAprovado, StatusRascunho, true, true},
		{"Same status is a no-op", StatusEmAnalise, StatusEmAnalise, false, true},
		{"Unknown target is rejected even for admin", StatusCompleto, BriefingStatus("arquivado"), true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanTransition(tt.from, tt.to, tt.isAdmin))
		})
	}
}

func TestValidFinalidade(t *testing.T) {
	assert.True(t, ValidFinalidade(FinalidadeAbertura))
	assert.True(t, ValidFinalidade(FinalidadeRegularizacao))
	assert.True(t, ValidFinalidade(FinalidadeViabilidade))
	assert.False(t, ValidFinalidade(Finalidade("fusao")))
	assert.False(t, ValidFinalidade(Finalidade("")))
}

func TestValidTipoEntidade(t *testing.T) {
	for _, tipo := range []TipoEntidade{TipoAssociacao, TipoOscip, TipoSpe, TipoSa, TipoHolding, TipoLimitada, TipoSimples} {
		assert.True(t, ValidTipoEntidade(tipo), string(tipo))
	}
	assert.False(t, ValidTipoEntidade(TipoEntidade("mei")))
}

func TestValidateEspecificos(t *testing.T) {
	tests := []struct {
		name        string
		tipo        TipoEntidade
		especificos JSONMap
		wantFields  []string
	}{
		{
			name: "Common fields accepted for any type",
			tipo: TipoLimitada,
			especificos: JSONMap{
				"regimeTributario": "simples_nacional",
				"faixaFaturamento": "ate_360k",
				"cnaes":            []interface{}{"6201-5/01"},
				"observacoes":      "urgente",
			},
		},
		{
			name: "Holding specific fields",
			tipo: TipoHolding,
			especificos: JSONMap{
				"empresasControladas": "3 empresas",
				"patrimonioTotal":     "R$ 2.000.000",
				"bensImoveis":         []interface{}{"casa", "terreno"},
			},
		},
		{
			name: "SA numeric field",
			tipo: TipoSa,
			especificos: JSONMap{
				"capitalSocial":   "R$ 500.000",
				"quantidadeAcoes": float64(1000),
			},
		},
		{
			name:        "Holding field rejected for limitada",
			tipo:        TipoLimitada,
			especificos: JSONMap{"patrimonioTotal": "R$ 1.000"},
			wantFields:  []string{"patrimonioTotal"},
		},
		{
			name:        "Wrong value shape",
			tipo:        TipoAssociacao,
			especificos: JSONMap{"numeroMembros": "cinquenta"},
			wantFields:  []string{"numeroMembros"},
		},
		{
			name:        "Unknown key",
			tipo:        TipoSpe,
			especificos: JSONMap{"campoInventado": true},
			wantFields:  []string{"campoInventado"},
		},
		{
			name:        "Empty map is fine",
			tipo:        TipoOscip,
			especificos: nil,
		},
		{
			name:        "Null values pass shape check",
			tipo:        TipoSpe,
			especificos: JSONMap{"objetivoSPE": nil},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			problems := ValidateEspecificos(tt.tipo, tt.especificos)
			if len(tt.wantFields) == 0 {
				assert.Nil(t, problems)
				return
			}
			for _, field := range tt.wantFields {
				assert.Contains(t, problems, field)
			}
		})
	}
}
