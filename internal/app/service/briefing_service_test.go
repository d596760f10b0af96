package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abrefacil/briefing-backend/internal/app/model"
	"github.com/abrefacil/briefing-backend/internal/app/repository"
	"github.com/abrefacil/briefing-backend/internal/db"
)

func setupBriefingServiceTest(t *testing.T) BriefingService {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	return NewBriefingService(repository.NewBriefingRepository(testDB))
}

func validCreateInput() CreateBriefingInput {
	return CreateBriefingInput{
		NomeCliente:  "Maria Silva",
		CpfCnpj:      "123.456.789-01",
		Email:        "maria@example.com",
		Telefone:     "(11) 98765-4321",
		Finalidade:   model.FinalidadeAbertura,
		TipoEntidade: model.TipoLimitada,
		EntidadeNome: "Silva Tecnologia LTDA",
		Endereco: model.Endereco{
			Logradouro: "Av. Paulista",
			Numero:     "1000",
			Cidade:     "São Paulo",
			UF:         "SP",
			CEP:        "01310-100",
		},
		Socios: []SocioInput{
			{Nome: "Maria Silva", CpfCnpj: "12345678901", Participacao: 100, Administrador: true},
		},
	}
}

func TestBriefingService_Create(t *testing.T) {
	svc := setupBriefingServiceTest(t)

	briefing, err := svc.Create(validCreateInput(), nil)
	require.NoError(t, err)

	assert.NotEmpty(t, briefing.ID)
	assert.Regexp(t, `^BRF-\d{8}-\d{4}$`, briefing.Protocolo)
	assert.Equal(t, model.StatusRascunho, briefing.Status)
	assert.Nil(t, briefing.UserID)
	require.Len(t, briefing.Socios, 1)
	assert.Equal(t, model.SocioPF, briefing.Socios[0].Tipo)
	assert.Equal(t, model.RestricoesNao, briefing.Socios[0].Restricoes)
}

func TestBriefingService_Create_Validation(t *testing.T) {
	svc := setupBriefingServiceTest(t)

	tests := []struct {
		name      string
		mutate    func(*CreateBriefingInput)
		wantField string
	}{
		{
			name:      "Invalid finalidade",
			mutate:    func(in *CreateBriefingInput) { in.Finalidade = "fusao" },
			wantField: "finalidade",
		},
		{
			name:      "Invalid tipo de entidade",
			mutate:    func(in *CreateBriefingInput) { in.TipoEntidade = "mei" },
			wantField: "tipoEntidade",
		},
		{
			name:      "Initial status cannot be aprovado",
			mutate:    func(in *CreateBriefingInput) { in.Status = model.StatusAprovado },
			wantField: "status",
		},
		{
			name: "Especifico of another entity type",
			mutate: func(in *CreateBriefingInput) {
				in.Especificos = model.JSONMap{"patrimonioTotal": "R$ 1.000.000"}
			},
			wantField: "especificos.patrimonioTotal",
		},
		{
			name: "Participacao above 100",
			mutate: func(in *CreateBriefingInput) {
				in.Socios[0].Participacao = 150
			},
			wantField: "socios[0].participacao",
		},
		{
			name: "Socio without name",
			mutate: func(in *CreateBriefingInput) {
				in.Socios[0].Nome = "  "
			},
			wantField: "socios[0].nome",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := validCreateInput()
			tt.mutate(&input)

			briefing, err := svc.Create(input, nil)
			assert.Nil(t, briefing)

			var validation ValidationErrors
			require.ErrorAs(t, err, &validation)
			assert.Contains(t, validation, tt.wantField)
		})
	}
}

func TestBriefingService_Create_WithOwnerAndEspecificos(t *testing.T) {
	svc := setupBriefingServiceTest(t)

	userID := "2f1a4c9e-0000-0000-0000-000000000001"
	input := validCreateInput()
	input.TipoEntidade = model.TipoHolding
	input.Especificos = model.JSONMap{
		"patrimonioTotal": "R$ 2.000.000",
		"cnaes":           []interface{}{"6462-0/00"},
	}
	input.Status = model.StatusCompleto

	briefing, err := svc.Create(input, &userID)
	require.NoError(t, err)
	require.NotNil(t, briefing.UserID)
	assert.Equal(t, userID, *briefing.UserID)
	assert.Equal(t, model.StatusCompleto, briefing.Status)

	// Round trip: protocol lookup returns the same record
	found, err := svc.GetByProtocolo(briefing.Protocolo)
	require.NoError(t, err)
	assert.Equal(t, briefing.ID, found.ID)
	assert.Equal(t, "R$ 2.000.000", found.Especificos["patrimonioTotal"])
}

func TestBriefingService_Update_StatusTransitions(t *testing.T) {
	svc := setupBriefingServiceTest(t)

	briefing, err := svc.Create(validCreateInput(), nil)
	require.NoError(t, err)

	status := func(s model.BriefingStatus) *model.BriefingStatus { return &s }

	t.Run("Draft to completo", func(t *testing.T) {
		updated, err := svc.Update(briefing.ID, UpdateBriefingInput{Status: status(model.StatusCompleto)}, false)
		require.NoError(t, err)
		assert.Equal(t, model.StatusCompleto, updated.Status)
	})

	t.Run("Completo to em_analise", func(t *testing.T) {
		updated, err := svc.Update(briefing.ID, UpdateBriefingInput{Status: status(model.StatusEmAnalise)}, false)
		require.NoError(t, err)
		assert.Equal(t, model.StatusEmAnalise, updated.Status)
	})

	t.Run("User cannot approve", func(t *testing.T) {
		_, err := svc.Update(briefing.ID, UpdateBriefingInput{Status: status(model.StatusAprovado)}, false)
		assert.ErrorIs(t, err, ErrInvalidTransition)
	})

	t.Run("Review sends it back to completo", func(t *testing.T) {
		updated, err := svc.Update(briefing.ID, UpdateBriefingInput{Status: status(model.StatusCompleto)}, false)
		require.NoError(t, err)
		assert.Equal(t, model.StatusCompleto, updated.Status)
	})

	t.Run("Admin approves from em_analise", func(t *testing.T) {
		_, err := svc.Update(briefing.ID, UpdateBriefingInput{Status: status(model.StatusEmAnalise)}, false)
		require.NoError(t, err)

		updated, err := svc.Update(briefing.ID, UpdateBriefingInput{Status: status(model.StatusAprovado)}, true)
		require.NoError(t, err)
		assert.Equal(t, model.StatusAprovado, updated.Status)
	})
}

func TestBriefingService_Update_PartialFields(t *testing.T) {
	svc := setupBriefingServiceTest(t)

	briefing, err := svc.Create(validCreateInput(), nil)
	require.NoError(t, err)
	originalProtocolo := briefing.Protocolo

	novoNome := "Maria Silva Santos"
	objeto := "Consultoria em tecnologia"
	updated, err := svc.Update(briefing.ID, UpdateBriefingInput{
		NomeCliente:  &novoNome,
		ObjetoSocial: &objeto,
		Socios: []SocioInput{
			{Nome: "Maria Silva Santos", CpfCnpj: "12345678901", Participacao: 70, Administrador: true},
			{Nome: "Pedro Santos", CpfCnpj: "10987654321", Participacao: 30},
		},
	}, false)
	require.NoError(t, err)

	assert.Equal(t, novoNome, updated.NomeCliente)
	assert.Equal(t, objeto, updated.ObjetoSocial)
	assert.Len(t, updated.Socios, 2)
	// Untouched fields keep their values
	assert.Equal(t, "maria@example.com", updated.Email)
	assert.Equal(t, originalProtocolo, updated.Protocolo)
}

func TestBriefingService_Update_NotFound(t *testing.T) {
	svc := setupBriefingServiceTest(t)

	nome := "Qualquer"
	_, err := svc.Update("00000000-0000-0000-0000-000000000000", UpdateBriefingInput{NomeCliente: &nome}, true)
	assert.ErrorIs(t, err, ErrBriefingNotFound)
}

func TestBriefingService_Delete(t *testing.T) {
	svc := setupBriefingServiceTest(t)

	briefing, err := svc.Create(validCreateInput(), nil)
	require.NoError(t, err)

	require.NoError(t, svc.Delete(briefing.ID))

	_, err = svc.GetByID(briefing.ID)
	assert.ErrorIs(t, err, ErrBriefingNotFound)

	assert.ErrorIs(t, svc.Delete(briefing.ID), ErrBriefingNotFound)
}

func TestBriefingService_GetStatistics(t *testing.T) {
	svc := setupBriefingServiceTest(t)

	_, err := svc.Create(validCreateInput(), nil)
	require.NoError(t, err)

	stats, err := svc.GetStatistics()
	require.NoError(t, err)
	assert.EqualValues(t, 1, stats.Total)
}
