package main

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"

	"github.com/abrefacil/briefing-backend/config"
	"github.com/abrefacil/briefing-backend/internal/app/model"
	"github.com/abrefacil/briefing-backend/internal/app/repository"
	"github.com/abrefacil/briefing-backend/internal/db"
	"github.com/abrefacil/briefing-backend/pkg/util"
)

// Importa briefings de uma planilha legada e garante a conta de administrador.
// Uso: go run cmd/seed/main.go [arquivo.xlsx]
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	if err := db.Initialize(&cfg.Database); err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	userRepo := repository.NewUserRepository(db.GetDB())
	briefingRepo := repository.NewBriefingRepository(db.GetDB())

	if err := ensureAdmin(userRepo); err != nil {
		log.Fatal("Failed to ensure admin account:", err)
	}

	// Sem planilha, apenas a conta de administrador é criada
	if len(os.Args) < 2 {
		fmt.Println("Admin account ready. Pass an .xlsx file to import legacy briefings.")
		return
	}

	filePath := os.Args[1]
	fmt.Printf("Reading XLSX file: %s\n", filePath)
	briefings, err := readBriefingsFromXLSX(filePath)
	if err != nil {
		log.Fatal("Failed to read XLSX:", err)
	}

	fmt.Printf("Total briefings to import: %d\n", len(briefings))

	fmt.Print("Do you want to proceed with the import? (yes/no): ")
	var confirm string
	fmt.Scanln(&confirm)
	if confirm != "yes" && confirm != "y" {
		fmt.Println("Import cancelled.")
		return
	}

	imported := 0
	for i := range briefings {
		// Create aloca o protocolo de cada registro importado
		if err := briefingRepo.Create(&briefings[i], time.Now()); err != nil {
			log.Printf("row %d: failed to import briefing for %q: %v", i+2, briefings[i].NomeCliente, err)
			continue
		}
		imported++
	}

	fmt.Println("Import completed successfully!")
	fmt.Printf("Total briefings imported: %d\n", imported)
}

// ensureAdmin cria a conta de administrador caso ainda não exista
func ensureAdmin(userRepo repository.UserRepository) error {
	email := os.Getenv("ADMIN_EMAIL")
	if email == "" {
		email = "admin@abrefacil.com.br"
	}
	password := os.Getenv("ADMIN_PASSWORD")
	if password == "" {
		password = "admin1234"
		fmt.Println("WARNING: ADMIN_PASSWORD not set, using the default development password")
	}

	_, err := userRepo.FindByEmail(email)
	if err == nil {
		fmt.Printf("Admin account already exists: %s\n", email)
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	hash, err := util.HashPassword(password)
	if err != nil {
		return err
	}

	admin := &model.User{
		Email:        email,
		PasswordHash: hash,
		Name:         "Administrador",
		Role:         model.RoleAdmin,
		IsActive:     true,
	}
	if err := userRepo.Create(admin); err != nil {
		return err
	}

	fmt.Printf("Admin account created: %s\n", email)
	return nil
}

// Colunas esperadas na planilha legada:
// A=Nome Cliente, B=CPF/CNPJ, C=Email, D=Telefone, E=Finalidade,
// F=Tipo Entidade, G=Nome Entidade, H=Cidade, I=UF, J=Status
func readBriefingsFromXLSX(filePath string) ([]model.Briefing, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open XLSX file: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, fmt.Errorf("no sheets found in XLSX file")
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("sheet %s has no data rows", sheetName)
	}

	cell := func(row []string, idx int) string {
		if idx < len(row) {
			return strings.TrimSpace(row[idx])
		}
		return ""
	}

	var briefings []model.Briefing
	for i, row := range rows[1:] {
		nome := cell(row, 0)
		if nome == "" {
			continue
		}

		finalidade := model.Finalidade(cell(row, 4))
		if !model.ValidFinalidade(finalidade) {
			log.Printf("row %d: unknown finalidade %q, defaulting to abertura", i+2, finalidade)
			finalidade = model.FinalidadeAbertura
		}

		tipo := model.TipoEntidade(cell(row, 5))
		if !model.ValidTipoEntidade(tipo) {
			log.Printf("row %d: unknown tipo de entidade %q, defaulting to limitada", i+2, tipo)
			tipo = model.TipoLimitada
		}

		status := model.BriefingStatus(cell(row, 9))
		if !model.ValidBriefingStatus(status) {
			status = model.StatusCompleto
		}

		briefings = append(briefings, model.Briefing{
			NomeCliente:  nome,
			CpfCnpj:      util.SomenteDigitos(cell(row, 1)),
			Email:        cell(row, 2),
			Telefone:     cell(row, 3),
			Finalidade:   finalidade,
			TipoEntidade: tipo,
			EntidadeNome: cell(row, 6),
			Endereco: model.Endereco{
				Cidade: cell(row, 7),
				UF:     strings.ToUpper(cell(row, 8)),
			},
			Status: status,
		})
	}

	return briefings, nil
}
