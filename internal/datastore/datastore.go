// Package datastore persists generated alerts to a SQLite database so
// alert history survives restarts and can be queried by the HTTP API.
package datastore

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"

	"github.com/firesight-ai/firesight/internal/domain"
)

// AlertRecord is the persisted form of a domain.Alert. Details are stored
// as a JSON blob since their shape varies by alert type.
type AlertRecord struct {
	ID                  string    `gorm:"primaryKey"`
	Type                string    `gorm:"index"`
	Severity            string    `gorm:"index"`
	Confidence          float64
	Time                time.Time `gorm:"index"`
	Lat                 float64
	Lon                 float64
	RecommendedResponse string
	Details             string
	CreatedAt           time.Time
}

// Store wraps the alert history database.
type Store struct {
	db     *gorm.DB
	logger *slog.Logger
}

// Open opens (creating if needed) the SQLite database at path and runs
// migrations. Pass ":memory:" for an ephemeral store.
func Open(path string, logger *slog.Logger) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open alert database: %w", err)
	}
	if err := db.AutoMigrate(&AlertRecord{}); err != nil {
		return nil, fmt.Errorf("migrate alert database: %w", err)
	}
	return &Store{db: db, logger: logger}, nil
}

// SaveAlerts upserts a batch of alerts. Alert IDs are deterministic, so a
// replayed cycle producing the same alerts updates in place rather than
// duplicating rows.
func (s *Store) SaveAlerts(alerts []domain.Alert) error {
	if len(alerts) == 0 {
		return nil
	}
	records := make([]AlertRecord, 0, len(alerts))
	for i := range alerts {
		rec, err := toRecord(alerts[i])
		if err != nil {
			return err
		}
		records = append(records, rec)
	}
	err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		UpdateAll: true,
	}).Create(&records).Error
	if err != nil {
		return fmt.Errorf("save alerts: %w", err)
	}
	return nil
}

// RecentAlerts returns up to limit alerts ordered most recent first.
func (s *Store) RecentAlerts(limit int) ([]domain.Alert, error) {
	var records []AlertRecord
	err := s.db.Order("time DESC").Limit(limit).Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("query alerts: %w", err)
	}
	alerts := make([]domain.Alert, 0, len(records))
	for i := range records {
		alert, err := fromRecord(records[i])
		if err != nil {
			s.logger.Warn("skipping corrupt alert record", "id", records[i].ID, "error", err)
			continue
		}
		alerts = append(alerts, alert)
	}
	return alerts, nil
}

// CountBySeverity returns the number of stored alerts per severity label.
func (s *Store) CountBySeverity() (map[string]int64, error) {
	type row struct {
		Severity string
		N        int64
	}
	var rows []row
	err := s.db.Model(&AlertRecord{}).
		Select("severity, count(*) as n").
		Group("severity").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("count alerts: %w", err)
	}
	counts := make(map[string]int64, len(rows))
	for _, r := range rows {
		counts[r.Severity] = r.N
	}
	return counts, nil
}

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func toRecord(alert domain.Alert) (AlertRecord, error) {
	details := ""
	if len(alert.Details) > 0 {
		data, err := json.Marshal(alert.Details)
		if err != nil {
			return AlertRecord{}, fmt.Errorf("serialize alert details: %w", err)
		}
		details = string(data)
	}
	return AlertRecord{
		ID:                  alert.ID,
		Type:                alert.Type,
		Severity:            alert.Severity,
		Confidence:          alert.Confidence,
		Time:                alert.Time.UTC(),
		Lat:                 alert.Location.Lat,
		Lon:                 alert.Location.Lon,
		RecommendedResponse: alert.RecommendedResponse,
		Details:             details,
	}, nil
}

func fromRecord(rec AlertRecord) (domain.Alert, error) {
	var details map[string]any
	if rec.Details != "" {
		if err := json.Unmarshal([]byte(rec.Details), &details); err != nil {
			return domain.Alert{}, fmt.Errorf("decode alert details: %w", err)
		}
	}
	return domain.Alert{
		ID:                  rec.ID,
		Type:                rec.Type,
		Severity:            rec.Severity,
		Confidence:          rec.Confidence,
		Time:                rec.Time.UTC(),
		Location:            domain.Geo{Lat: rec.Lat, Lon: rec.Lon},
		RecommendedResponse: rec.RecommendedResponse,
		Details:             details,
	}, nil
}
