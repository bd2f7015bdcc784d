package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"github.com/sirupsen/logrus"

	"health-finance-api/internal/model"
)

// AggregationRepository читает справочные агрегаты из истории займов
type AggregationRepository struct {
	db     *sql.DB
	logger *logrus.Logger
}

func NewAggregationRepository(db *sql.DB, logger *logrus.Logger) *AggregationRepository {
	return &AggregationRepository{db: db, logger: logger}
}

func (r *AggregationRepository) LoadAggregationMaps(ctx context.Context) (*model.AggregationMaps, error) {
	maps := model.NewAggregationMaps()

	provinceQuery := `
		SELECT COALESCE(provinsi, 'Unknown'), AVG(jumlah_pinjaman)
		FROM loan_history
		GROUP BY 1
	`
	if err := r.loadInto(ctx, provinceQuery, maps.ProvinceMeanLoan); err != nil {
		if isUndefinedTable(err) {
			r.logger.Warn("Таблица loan_history не найдена, используются значения по умолчанию")
			return &maps, nil
		}
		return nil, fmt.Errorf("failed to load province means: %w", err)
	}

	sectorQuery := `
		SELECT COALESCE(sektor_usaha, 'Unknown'), AVG((total_pengembalian - jumlah_pinjaman) / NULLIF(jumlah_pinjaman, 0))
		FROM loan_history
		GROUP BY 1
	`
	if err := r.loadInto(ctx, sectorQuery, maps.SectorMeanInterest); err != nil {
		return nil, fmt.Errorf("failed to load sector interest means: %w", err)
	}

	r.logger.WithFields(logrus.Fields{
		"provinces": len(maps.ProvinceMeanLoan),
		"sectors":   len(maps.SectorMeanInterest),
	}).Debug("Агрегаты займов загружены из базы данных")

	return &maps, nil
}

func (r *AggregationRepository) loadInto(ctx context.Context, query string, dst map[string]float64) error {
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var key string
		var value sql.NullFloat64
		if err := rows.Scan(&key, &value); err != nil {
			return fmt.Errorf("failed to scan aggregate row: %w", err)
		}
		if value.Valid {
			dst[key] = value.Float64
		}
	}
	return rows.Err()
}

func isUndefinedTable(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code.Name() == "undefined_table"
}
