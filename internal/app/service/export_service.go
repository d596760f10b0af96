package service

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"

	"github.com/xuri/excelize/v2"

	"github.com/abrefacil/briefing-backend/internal/app/model"
	"github.com/abrefacil/briefing-backend/internal/app/repository"
	"github.com/abrefacil/briefing-backend/pkg/logger"
)

// ExportFormat selects the spreadsheet flavour for briefing exports
type ExportFormat string

const (
	ExportExcel ExportFormat = "excel"
	ExportCSV   ExportFormat = "csv"
)

// exportLimit caps the number of rows per export file
const exportLimit = 5000

var exportHeader = []string{
	"Protocolo",
	"Nome do Cliente",
	"CPF/CNPJ",
	"E-mail",
	"Telefone",
	"Finalidade",
	"Tipo de Entidade",
	"Nome da Entidade",
	"Cidade",
	"UF",
	"Faturamento Estimado",
	"Sócios",
	"Status",
	"Criado em",
}

type ExportService interface {
	ExportBriefings(filter repository.BriefingFilter, format ExportFormat) ([]byte, string, error)
}

type exportService struct {
	briefingRepo repository.BriefingRepository
}

func NewExportService(briefingRepo repository.BriefingRepository) ExportService {
	return &exportService{briefingRepo: briefingRepo}
}

func exportRow(b *model.Briefing) []string {
	return []string{
		b.Protocolo,
		b.NomeCliente,
		b.CpfCnpj,
		b.Email,
		b.Telefone,
		string(b.Finalidade),
		string(b.TipoEntidade),
		b.EntidadeNome,
		b.Endereco.Cidade,
		b.Endereco.UF,
		b.FaturamentoEstimado,
		strconv.Itoa(len(b.Socios)),
		string(b.Status),
		b.CreatedAt.Format("02/01/2006 15:04"),
	}
}

// ExportBriefings renders the filtered briefing list as a downloadable file
// and returns the file bytes along with its content type.
func (s *exportService) ExportBriefings(filter repository.BriefingFilter, format ExportFormat) ([]byte, string, error) {
	logger.Info("Exporting briefings", map[string]interface{}{
		"format": format,
	})

	filter.Page = 1
	filter.Limit = exportLimit
	briefings, total, err := s.briefingRepo.FindWithFilter(filter)
	if err != nil {
		return nil, "", err
	}
	if total > exportLimit {
		logger.Warn("Export truncated to row limit", map[string]interface{}{
			"total": total,
			"limit": exportLimit,
		})
	}

	switch format {
	case ExportCSV:
		data, err := s.renderCSV(briefings)
		return data, "text/csv; charset=utf-8", err
	default:
		data, err := s.renderExcel(briefings)
		return data, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", err
	}
}

func (s *exportService) renderExcel(briefings []model.Briefing) ([]byte, error) {
	file := excelize.NewFile()
	defer file.Close()

	const sheet = "Briefings"
	index, err := file.NewSheet(sheet)
	if err != nil {
		return nil, err
	}
	file.SetActiveSheet(index)
	file.DeleteSheet("Sheet1")

	headerStyle, err := file.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"DDEBF7"}},
	})
	if err != nil {
		return nil, err
	}

	headerRow := make([]interface{}, len(exportHeader))
	for i, title := range exportHeader {
		headerRow[i] = title
	}
	if err := file.SetSheetRow(sheet, "A1", &headerRow); err != nil {
		return nil, err
	}
	lastCol, _ := excelize.ColumnNumberToName(len(exportHeader))
	if err := file.SetCellStyle(sheet, "A1", lastCol+"1", headerStyle); err != nil {
		return nil, err
	}

	for i := range briefings {
		values := exportRow(&briefings[i])
		row := make([]interface{}, len(values))
		for j, v := range values {
			row[j] = v
		}
		cell := fmt.Sprintf("A%d", i+2)
		if err := file.SetSheetRow(sheet, cell, &row); err != nil {
			return nil, err
		}
	}

	if err := file.SetColWidth(sheet, "A", lastCol, 22); err != nil {
		return nil, err
	}

	buf, err := file.WriteToBuffer()
	if err != nil {
		logger.Error("Failed to render Excel export", err, nil)
		return nil, err
	}
	return buf.Bytes(), nil
}

func (s *exportService) renderCSV(briefings []model.Briefing) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write(exportHeader); err != nil {
		return nil, err
	}
	for i := range briefings {
		if err := writer.Write(exportRow(&briefings[i])); err != nil {
			return nil, err
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		logger.Error("Failed to render CSV export", err, nil)
		return nil, err
	}
	return buf.Bytes(), nil
}
