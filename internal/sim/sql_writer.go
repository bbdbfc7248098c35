package sim

import (
	"fmt"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"campaign-sim/internal/telemetry"
)

type missionEventRecord struct {
	ID uint `gorm:"primaryKey"`
	telemetry.MissionEventRow
}

func (missionEventRecord) TableName() string { return telemetry.MissionEventTableName }

type interestRecord struct {
	ID uint `gorm:"primaryKey"`
	telemetry.InterestRow
}

func (interestRecord) TableName() string { return telemetry.InterestTableName }

type campaignStateRecord struct {
	ID uint `gorm:"primaryKey"`
	telemetry.CampaignStateRow
}

func (campaignStateRecord) TableName() string { return telemetry.CampaignStateTableName }

// SQLWriter stores campaign rows in a local SQLite database.
type SQLWriter struct {
	db *gorm.DB
}

// NewSQLWriter opens (or creates) the SQLite database at path and migrates
// the campaign tables. An empty path uses a shared in-memory database.
func NewSQLWriter(path string) (*SQLWriter, error) {
	dsn := path
	if dsn == "" {
		dsn = "file::memory:?cache=shared"
	}
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		SkipDefaultTransaction: true,
		CreateBatchSize:        500,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode = WAL;",
		"PRAGMA synchronous = NORMAL;",
	} {
		if err := db.Exec(pragma).Error; err != nil {
			return nil, fmt.Errorf("error setting PRAGMA: %w", err)
		}
	}
	if err := db.AutoMigrate(&missionEventRecord{}, &interestRecord{}, &campaignStateRecord{}); err != nil {
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}
	return &SQLWriter{db: db}, nil
}

// WriteEvent stores a single mission event.
func (w *SQLWriter) WriteEvent(row telemetry.MissionEventRow) error {
	return w.WriteEvents([]telemetry.MissionEventRow{row})
}

// WriteEvents stores multiple mission events.
func (w *SQLWriter) WriteEvents(rows []telemetry.MissionEventRow) error {
	if len(rows) == 0 {
		return nil
	}
	recs := make([]missionEventRecord, len(rows))
	for i, r := range rows {
		recs[i] = missionEventRecord{MissionEventRow: r}
	}
	return w.db.Create(&recs).Error
}

// WriteInterest stores a single interest change.
func (w *SQLWriter) WriteInterest(row telemetry.InterestRow) error {
	return w.WriteInterests([]telemetry.InterestRow{row})
}

// WriteInterests stores multiple interest changes.
func (w *SQLWriter) WriteInterests(rows []telemetry.InterestRow) error {
	if len(rows) == 0 {
		return nil
	}
	recs := make([]interestRecord, len(rows))
	for i, r := range rows {
		recs[i] = interestRecord{InterestRow: r}
	}
	return w.db.Create(&recs).Error
}

// WriteState stores a campaign state row.
func (w *SQLWriter) WriteState(row telemetry.CampaignStateRow) error {
	return w.db.Create(&campaignStateRecord{CampaignStateRow: row}).Error
}

// MissionEvents returns the stored events of one mission in insertion order.
func (w *SQLWriter) MissionEvents(missionID string) ([]telemetry.MissionEventRow, error) {
	var recs []missionEventRecord
	if err := w.db.Where("mission_id = ?", missionID).Order("id").Find(&recs).Error; err != nil {
		return nil, err
	}
	rows := make([]telemetry.MissionEventRow, len(recs))
	for i, r := range recs {
		rows[i] = r.MissionEventRow
	}
	return rows, nil
}

// InterestTotals sums the stored deltas per category.
func (w *SQLWriter) InterestTotals() (map[string]float64, error) {
	var out []struct {
		Category string
		Total    float64
	}
	err := w.db.Model(&interestRecord{}).
		Select("category, SUM(delta) AS total").
		Group("category").
		Scan(&out).Error
	if err != nil {
		return nil, err
	}
	totals := make(map[string]float64, len(out))
	for _, r := range out {
		totals[r.Category] = r.Total
	}
	return totals, nil
}

// Close closes the underlying database.
func (w *SQLWriter) Close() error {
	sqlDB, err := w.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
