package database

import (
	"time"

	"gorm.io/gorm"
)

// ReceptionRepository handles reception log database operations
type ReceptionRepository struct {
	db *gorm.DB
}

// NewReceptionRepository creates a new reception repository
func NewReceptionRepository(db *gorm.DB) *ReceptionRepository {
	return &ReceptionRepository{db: db}
}

// Create adds a new reception record
func (r *ReceptionRepository) Create(rec *Reception) error {
	return r.db.Create(rec).Error
}

// GetRecent retrieves the most recent N receptions
func (r *ReceptionRepository) GetRecent(limit int) ([]Reception, error) {
	var receptions []Reception
	err := r.db.Order("received_at DESC").Limit(limit).Find(&receptions).Error
	return receptions, err
}

// GetRecentPaginated retrieves receptions with pagination
func (r *ReceptionRepository) GetRecentPaginated(page, perPage int) ([]Reception, int64, error) {
	var receptions []Reception
	var total int64

	if err := r.db.Model(&Reception{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * perPage
	err := r.db.Order("received_at DESC").
		Offset(offset).
		Limit(perPage).
		Find(&receptions).Error

	return receptions, total, err
}

// GetByModel retrieves receptions for a specific device model
func (r *ReceptionRepository) GetByModel(model string, limit int) ([]Reception, error) {
	var receptions []Reception
	err := r.db.Where("model = ?", model).
		Order("received_at DESC").
		Limit(limit).
		Find(&receptions).Error
	return receptions, err
}

// CountByModel returns the number of receptions per model
func (r *ReceptionRepository) CountByModel() (map[string]int64, error) {
	type row struct {
		Model string
		N     int64
	}
	var rows []row
	err := r.db.Model(&Reception{}).
		Select("model, count(*) as n").
		Group("model").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(rows))
	for _, rr := range rows {
		counts[rr.Model] = rr.N
	}
	return counts, nil
}

// DeleteOlderThan removes receptions received before the cutoff and
// returns the number of deleted rows
func (r *ReceptionRepository) DeleteOlderThan(cutoff time.Time) (int64, error) {
	res := r.db.Where("received_at < ?", cutoff).Delete(&Reception{})
	return res.RowsAffected, res.Error
}
