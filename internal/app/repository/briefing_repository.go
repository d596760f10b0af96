package repository

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/abrefacil/briefing-backend/internal/app/model"
	"github.com/abrefacil/briefing-backend/pkg/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type BriefingSort string

const (
	BriefingSortCreatedAt   BriefingSort = "createdAt"
	BriefingSortUpdatedAt   BriefingSort = "updatedAt"
	BriefingSortNomeCliente BriefingSort = "nomeCliente"
	BriefingSortProtocolo   BriefingSort = "protocolo"
	BriefingSortStatus      BriefingSort = "status"
)

// sortColumns whitelists orderBy values against their column names
var sortColumns = map[BriefingSort]string{
	BriefingSortCreatedAt:   "created_at",
	BriefingSortUpdatedAt:   "updated_at",
	BriefingSortNomeCliente: "nome_cliente",
	BriefingSortProtocolo:   "protocolo",
	BriefingSortStatus:      "status",
}

type BriefingFilter struct {
	Search       string
	TipoEntidade *model.TipoEntidade
	Status       *model.BriefingStatus
	Finalidade   *model.Finalidade
	DataInicio   *time.Time
	DataFim      *time.Time
	UserID       string
	Page         int
	Limit        int
	OrderBy      BriefingSort
	Ascending    bool
}

// CountByField is a grouped count row for the dashboard statistics
type CountByField struct {
	Field string `json:"field"`
	Count int64  `json:"count"`
}

// MonthCount is the number of briefings created in a given YYYY-MM month
type MonthCount struct {
	Mes   string `json:"mes"`
	Count int64  `json:"count"`
}

// Statistics aggregates the dashboard numbers
type Statistics struct {
	Total         int64            `json:"total"`
	PorTipo       []CountByField   `json:"porTipo"`
	PorStatus     []CountByField   `json:"porStatus"`
	PorFinalidade []CountByField   `json:"porFinalidade"`
	PorMes        []MonthCount     `json:"porMes"`
	Recentes      []model.Briefing `json:"recentes"`
}

type BriefingRepository interface {
	// Create allocates the protocol and persists the briefing atomically
	Create(briefing *model.Briefing, now time.Time) error
	FindWithFilter(filter BriefingFilter) ([]model.Briefing, int64, error)
	FindByID(id string) (*model.Briefing, error)
	FindByProtocolo(protocolo string) (*model.Briefing, error)
	Update(briefing *model.Briefing) error
	ReplaceSocios(briefingID string, socios []model.Socio) error
	Delete(id string) error
	GetStatistics() (*Statistics, error)
	DeleteStaleDrafts(olderThan time.Time) (int64, error)
}

type briefingRepository struct {
	db *gorm.DB
}

func NewBriefingRepository(db *gorm.DB) BriefingRepository {
	return &briefingRepository{db: db}
}

// allocateProtocolo draws the next number from the per-day counter row inside
// tx. The insert-if-absent plus atomic increment serializes concurrent
// allocators on the row lock, so two transactions can never read the same
// sequence value.
func allocateProtocolo(tx *gorm.DB, now time.Time) (string, error) {
	day := now.Format("20060102")

	if err := tx.Clauses(clause.OnConflict{DoNothing: true}).
		Create(&model.ProtocolCounter{Day: day, LastSeq: 0}).Error; err != nil {
		return "", err
	}

	if err := tx.Model(&model.ProtocolCounter{}).
		Where("day = ?", day).
		UpdateColumn("last_seq", gorm.Expr("last_seq + 1")).Error; err != nil {
		return "", err
	}

	var counter model.ProtocolCounter
	if err := tx.Where("day = ?", day).First(&counter).Error; err != nil {
		return "", err
	}

	if counter.LastSeq > 9999 {
		// Keeps allocating with a 5-digit suffix rather than refusing
		// submissions; the fixed-width format is broken past this point.
		logger.Warn("Daily protocol sequence exceeded 9999", map[string]interface{}{
			"day":      day,
			"last_seq": counter.LastSeq,
		})
	}

	return fmt.Sprintf("BRF-%s-%04d", day, counter.LastSeq), nil
}

func (r *briefingRepository) Create(briefing *model.Briefing, now time.Time) error {
	logger.Debug("Creating briefing in database", map[string]interface{}{
		"nome_cliente":  briefing.NomeCliente,
		"tipo_entidade": briefing.TipoEntidade,
	})

	err := r.db.Transaction(func(tx *gorm.DB) error {
		protocolo, err := allocateProtocolo(tx, now)
		if err != nil {
			return err
		}
		briefing.Protocolo = protocolo

		return tx.Create(briefing).Error
	})
	if err != nil {
		logger.Error("Failed to create briefing in database", err, map[string]interface{}{
			"nome_cliente": briefing.NomeCliente,
		})
		return err
	}

	logger.Debug("Briefing created in database", map[string]interface{}{
		"briefing_id": briefing.ID,
		"protocolo":   briefing.Protocolo,
	})
	return nil
}

func (r *briefingRepository) baseQuery() *gorm.DB {
	return r.db.Model(&model.Briefing{}).
		Preload("Socios").
		Preload("User")
}

func (r *briefingRepository) FindWithFilter(filter BriefingFilter) ([]model.Briefing, int64, error) {
	logger.Debug("Finding briefings with filter", map[string]interface{}{
		"search":        filter.Search,
		"tipo_entidade": filter.TipoEntidade,
		"status":        filter.Status,
		"finalidade":    filter.Finalidade,
		"user_id":       filter.UserID,
		"page":          filter.Page,
		"limit":         filter.Limit,
	})

	query := r.baseQuery()

	if filter.Search != "" {
		like := "%" + strings.ToLower(filter.Search) + "%"
		query = query.Where(
			"LOWER(nome_cliente) LIKE ? OR LOWER(cpf_cnpj) LIKE ? OR LOWER(entidade_nome) LIKE ?",
			like, like, like,
		)
	}

	if filter.TipoEntidade != nil {
		query = query.Where("tipo_entidade = ?", *filter.TipoEntidade)
	}

	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}

	if filter.Finalidade != nil {
		query = query.Where("finalidade = ?", *filter.Finalidade)
	}

	if filter.DataInicio != nil {
		query = query.Where("created_at >= ?", *filter.DataInicio)
	}
	if filter.DataFim != nil {
		query = query.Where("created_at <= ?", *filter.DataFim)
	}

	if filter.UserID != "" {
		query = query.Where("user_id = ?", filter.UserID)
	}

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		logger.Error("Failed to count briefings", err)
		return nil, 0, err
	}

	column, ok := sortColumns[filter.OrderBy]
	if !ok {
		column = "created_at"
	}
	direction := "DESC"
	if filter.Ascending {
		direction = "ASC"
	}
	query = query.Order(fmt.Sprintf("%s %s", column, direction))

	page := filter.Page
	if page < 1 {
		page = 1
	}
	limit := filter.Limit
	if limit < 1 {
		limit = 10
	}
	query = query.Offset((page - 1) * limit).Limit(limit)

	var briefings []model.Briefing
	if err := query.Find(&briefings).Error; err != nil {
		logger.Error("Failed to find briefings", err)
		return nil, 0, err
	}

	logger.Debug("Briefings found", map[string]interface{}{
		"count": len(briefings),
		"total": total,
	})
	return briefings, total, nil
}

func (r *briefingRepository) FindByID(id string) (*model.Briefing, error) {
	var briefing model.Briefing
	err := r.baseQuery().Where("briefings.id = ?", id).First(&briefing).Error
	if err != nil {
		logger.Error("Failed to find briefing by ID in database", err, map[string]interface{}{
			"briefing_id": id,
		})
		return nil, err
	}
	return &briefing, nil
}

func (r *briefingRepository) FindByProtocolo(protocolo string) (*model.Briefing, error) {
	var briefing model.Briefing
	err := r.baseQuery().Where("protocolo = ?", protocolo).First(&briefing).Error
	if err != nil {
		logger.Error("Failed to find briefing by protocolo in database", err, map[string]interface{}{
			"protocolo": protocolo,
		})
		return nil, err
	}
	return &briefing, nil
}

func (r *briefingRepository) Update(briefing *model.Briefing) error {
	logger.Debug("Updating briefing in database", map[string]interface{}{
		"briefing_id": briefing.ID,
		"protocolo":   briefing.Protocolo,
	})

	if err := r.db.Omit("Socios", "User").Save(briefing).Error; err != nil {
		logger.Error("Failed to update briefing in database", err, map[string]interface{}{
			"briefing_id": briefing.ID,
		})
		return err
	}
	return nil
}

// ReplaceSocios swaps the full partner list of a briefing
func (r *briefingRepository) ReplaceSocios(briefingID string, socios []model.Socio) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("briefing_id = ?", briefingID).Delete(&model.Socio{}).Error; err != nil {
			return err
		}
		for i := range socios {
			socios[i].ID = ""
			socios[i].BriefingID = briefingID
		}
		if len(socios) == 0 {
			return nil
		}
		return tx.Create(&socios).Error
	})
}

func (r *briefingRepository) Delete(id string) error {
	logger.Debug("Deleting briefing from database", map[string]interface{}{
		"briefing_id": id,
	})

	// Hard delete; socios go with it (ON DELETE CASCADE)
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("briefing_id = ?", id).Delete(&model.Socio{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&model.Briefing{}, "id = ?", id)
		if result.Error != nil {
			logger.Error("Failed to delete briefing from database", result.Error, map[string]interface{}{
				"briefing_id": id,
			})
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

func (r *briefingRepository) GetStatistics() (*Statistics, error) {
	stats := &Statistics{}

	if err := r.db.Model(&model.Briefing{}).Count(&stats.Total).Error; err != nil {
		return nil, err
	}

	grouped := func(column string) ([]CountByField, error) {
		var rows []CountByField
		err := r.db.Model(&model.Briefing{}).
			Select(fmt.Sprintf("%s AS field, COUNT(*) AS count", column)).
			Group(column).
			Scan(&rows).Error
		return rows, err
	}

	var err error
	if stats.PorTipo, err = grouped("tipo_entidade"); err != nil {
		return nil, err
	}
	if stats.PorStatus, err = grouped("status"); err != nil {
		return nil, err
	}
	if stats.PorFinalidade, err = grouped("finalidade"); err != nil {
		return nil, err
	}

	// Month bucketing happens in Go to stay portable across dialects
	var createdAts []time.Time
	if err := r.db.Model(&model.Briefing{}).
		Where("created_at >= ?", time.Now().AddDate(-1, 0, 0)).
		Pluck("created_at", &createdAts).Error; err != nil {
		return nil, err
	}
	buckets := make(map[string]int64)
	for _, ts := range createdAts {
		buckets[ts.Format("2006-01")]++
	}
	for mes, count := range buckets {
		stats.PorMes = append(stats.PorMes, MonthCount{Mes: mes, Count: count})
	}
	// newest month first
	sort.Slice(stats.PorMes, func(i, j int) bool {
		return stats.PorMes[i].Mes > stats.PorMes[j].Mes
	})

	if err := r.db.Model(&model.Briefing{}).
		Preload("User").
		Order("created_at DESC").
		Limit(5).
		Find(&stats.Recentes).Error; err != nil {
		return nil, err
	}

	return stats, nil
}

// DeleteStaleDrafts removes rascunho briefings untouched since olderThan
func (r *briefingRepository) DeleteStaleDrafts(olderThan time.Time) (int64, error) {
	var removed int64
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var ids []string
		if err := tx.Model(&model.Briefing{}).
			Where("status = ? AND updated_at < ?", model.StatusRascunho, olderThan).
			Pluck("id", &ids).Error; err != nil {
			return err
		}
		if len(ids) == 0 {
			return nil
		}
		if err := tx.Where("briefing_id IN ?", ids).Delete(&model.Socio{}).Error; err != nil {
			return err
		}
		result := tx.Where("id IN ?", ids).Delete(&model.Briefing{})
		if result.Error != nil {
			return result.Error
		}
		removed = result.RowsAffected
		return nil
	})
	return removed, err
}
