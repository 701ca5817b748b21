package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"github.com/suhailullakhan1/FruitMandi/internal/model"
)

// DashboardStats are the four aggregates shown on the landing page. Amounts
// are zero-valued, not null, when nothing matches.
type DashboardStats struct {
	MerchantCount    int64           `json:"merchantCount"`
	TodayRevenue     decimal.Decimal `json:"todayRevenue"`
	TotalWeight      decimal.Decimal `json:"totalWeight"`
	TransactionCount int64           `json:"transactionCount"`
}

// GetDashboardStats recomputes the dashboard aggregates from source data for
// the calendar day containing now. There is no caching layer; every call runs
// the four queries again.
func (s *Store) GetDashboardStats(ctx context.Context, now time.Time) (*DashboardStats, error) {
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	dayEnd := dayStart.AddDate(0, 0, 1)

	stats := &DashboardStats{
		TodayRevenue: decimal.Zero,
		TotalWeight:  decimal.Zero,
	}

	if err := s.db.WithContext(ctx).Model(&model.Merchant{}).
		Where("is_active = ?", true).
		Count(&stats.MerchantCount).Error; err != nil {
		return nil, err
	}

	var revenue decimal.NullDecimal
	row := s.db.WithContext(ctx).Model(&model.Bill{}).
		Select("SUM(net_amount)").
		Where("status = ? AND created_at >= ? AND created_at < ?", model.BillStatusCompleted, dayStart, dayEnd).
		Row()
	if err := row.Scan(&revenue); err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if revenue.Valid {
		stats.TodayRevenue = revenue.Decimal
	}

	var weight decimal.NullDecimal
	row = s.db.WithContext(ctx).Model(&model.WeightEntry{}).
		Select("SUM(weight)").
		Where("created_at >= ? AND created_at < ?", dayStart, dayEnd).
		Row()
	if err := row.Scan(&weight); err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if weight.Valid {
		stats.TotalWeight = weight.Decimal
	}

	if err := s.db.WithContext(ctx).Model(&model.WeightEntry{}).
		Where("created_at >= ? AND created_at < ?", dayStart, dayEnd).
		Count(&stats.TransactionCount).Error; err != nil {
		return nil, err
	}

	return stats, nil
}
