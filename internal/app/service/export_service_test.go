package service

import (
	"bytes"
	"encoding/csv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/abrefacil/briefing-backend/internal/app/model"
	"github.com/abrefacil/briefing-backend/internal/app/repository"
	"github.com/abrefacil/briefing-backend/internal/db"
)

func setupExportServiceTest(t *testing.T) (ExportService, BriefingService) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)

	briefingRepo := repository.NewBriefingRepository(testDB)
	return NewExportService(briefingRepo), NewBriefingService(briefingRepo)
}

func seedExportData(t *testing.T, briefingService BriefingService) {
	t.Helper()

	input := validCreateInput()
	input.Status = model.StatusCompleto
	_, err := briefingService.Create(input, nil)
	require.NoError(t, err)

	segundo := validCreateInput()
	segundo.NomeCliente = "Pedro Alves"
	segundo.TipoEntidade = model.TipoHolding
	_, err = briefingService.Create(segundo, nil)
	require.NoError(t, err)
}

func TestExportService_ExportExcel(t *testing.T) {
	exportService, briefingService := setupExportServiceTest(t)
	seedExportData(t, briefingService)

	data, contentType, err := exportService.ExportBriefings(repository.BriefingFilter{}, ExportExcel)
	require.NoError(t, err)
	assert.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", contentType)
	require.NotEmpty(t, data)

	// The produced bytes must be a readable workbook
	file, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer file.Close()

	rows, err := file.GetRows("Briefings")
	require.NoError(t, err)
	require.Len(t, rows, 3) // header + 2 briefings
	assert.Equal(t, "Protocolo", rows[0][0])
	assert.Regexp(t, `^BRF-\d{8}-\d{4}$`, rows[1][0])
}

func TestExportService_ExportCSV(t *testing.T) {
	exportService, briefingService := setupExportServiceTest(t)
	seedExportData(t, briefingService)

	data, contentType, err := exportService.ExportBriefings(repository.BriefingFilter{}, ExportCSV)
	require.NoError(t, err)
	assert.Equal(t, "text/csv; charset=utf-8", contentType)

	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, exportHeader, records[0])
}

func TestExportService_ExportFiltered(t *testing.T) {
	exportService, briefingService := setupExportServiceTest(t)
	seedExportData(t, briefingService)

	tipo := model.TipoHolding
	data, _, err := exportService.ExportBriefings(repository.BriefingFilter{TipoEntidade: &tipo}, ExportCSV)
	require.NoError(t, err)

	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2) // header + 1 holding
	assert.Equal(t, "Pedro Alves", records[1][1])
}

func TestExportService_ExportEmpty(t *testing.T) {
	exportService, _ := setupExportServiceTest(t)

	data, _, err := exportService.ExportBriefings(repository.BriefingFilter{}, ExportCSV)
	require.NoError(t, err)

	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	require.NoError(t, err)
	assert.Len(t, records, 1) // header only
}
