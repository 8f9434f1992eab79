// Package postgres persists priorities and the match log through gorm.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"github.com/jose-valero/pug-picker-bot/internal/domain/match"
	"github.com/jose-valero/pug-picker-bot/internal/storage"
)

type priorityRow struct {
	Player      string `gorm:"primaryKey"`
	TimesQueued int    `gorm:"not null;default:0"`
	LastGameAt  int64  `gorm:"not null;default:0"`
}

func (priorityRow) TableName() string { return "priorities" }

type gameRow struct {
	ID           string    `gorm:"primaryKey"`
	BlueTank     string    `gorm:"not null"`
	BlueDPS1     string    `gorm:"column:blue_dps1;not null"`
	BlueDPS2     string    `gorm:"column:blue_dps2;not null"`
	BlueSupport1 string    `gorm:"not null"`
	BlueSupport2 string    `gorm:"not null"`
	RedTank      string    `gorm:"not null"`
	RedDPS1      string    `gorm:"column:red_dps1;not null"`
	RedDPS2      string    `gorm:"column:red_dps2;not null"`
	RedSupport1  string    `gorm:"not null"`
	RedSupport2  string    `gorm:"not null"`
	Captain1     string    `gorm:"not null"`
	Captain2     string    `gorm:"not null"`
	Winner       string    `gorm:"not null"`
	RecordedAt   time.Time `gorm:"not null;index"`
}

func (gameRow) TableName() string { return "games" }

func (r gameRow) slots() storage.Slots {
	return storage.Slots{
		r.BlueTank, r.BlueDPS1, r.BlueDPS2, r.BlueSupport1, r.BlueSupport2,
		r.RedTank, r.RedDPS1, r.RedDPS2, r.RedSupport1, r.RedSupport2,
	}
}

// Store is the gorm-backed implementation of storage.Store.
type Store struct {
	db  *gorm.DB
	log *zap.Logger
}

// Open connects with the given DSN and migrates the schema.
func Open(dsn string, log *zap.Logger) (*Store, error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, fmt.Errorf("database url is required")
	}
	if log == nil {
		log = zap.NewNop()
	}
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.AutoMigrate(&priorityRow{}, &gameRow{}); err != nil {
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	log.Debug("postgres store ready")
	return &Store{db: db, log: log}, nil
}

// Close releases the underlying pool.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (s *Store) Get(ctx context.Context, player string) (storage.Priority, error) {
	var row priorityRow
	err := s.db.WithContext(ctx).Where("player = ?", player).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return storage.Priority{Player: player}, nil
	}
	if err != nil {
		return storage.Priority{}, fmt.Errorf("get priority %s: %w", player, err)
	}
	return storage.Priority{Player: row.Player, TimesQueued: row.TimesQueued, LastGameAt: row.LastGameAt}, nil
}

func (s *Store) IncrementAll(ctx context.Context, players []string) error {
	if len(players) == 0 {
		return nil
	}
	rows := make([]priorityRow, 0, len(players))
	for _, p := range players {
		rows = append(rows, priorityRow{Player: p, TimesQueued: 1})
	}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "player"}},
		DoUpdates: clause.Assignments(map[string]any{
			"times_queued": gorm.Expr("priorities.times_queued + 1"),
		}),
	}).Create(&rows).Error
	if err != nil {
		return fmt.Errorf("increment priorities: %w", err)
	}
	return nil
}

func (s *Store) Reset(ctx context.Context, players []string, now time.Time) error {
	if len(players) == 0 {
		return nil
	}
	rows := make([]priorityRow, 0, len(players))
	for _, p := range players {
		rows = append(rows, priorityRow{Player: p, LastGameAt: now.Unix()})
	}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "player"}},
		DoUpdates: clause.AssignmentColumns([]string{"times_queued", "last_game_at"}),
	}).Create(&rows).Error
	if err != nil {
		return fmt.Errorf("reset priorities: %w", err)
	}
	return nil
}

func (s *Store) Log(ctx context.Context, rec storage.GameRecord) error {
	sl, err := storage.SlotsOf(rec)
	if err != nil {
		return err
	}
	if rec.RecordedAt.IsZero() {
		rec.RecordedAt = time.Now()
	}
	row := gameRow{
		ID:           rec.ID,
		BlueTank:     sl[0],
		BlueDPS1:     sl[1],
		BlueDPS2:     sl[2],
		BlueSupport1: sl[3],
		BlueSupport2: sl[4],
		RedTank:      sl[5],
		RedDPS1:      sl[6],
		RedDPS2:      sl[7],
		RedSupport1:  sl[8],
		RedSupport2:  sl[9],
		Captain1:     rec.Captain1,
		Captain2:     rec.Captain2,
		Winner:       string(rec.Winner),
		RecordedAt:   rec.RecordedAt.UTC(),
	}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return fmt.Errorf("log game %s: %w", rec.ID, err)
	}
	return nil
}

// Games returns the newest logged games first.
func (s *Store) Games(ctx context.Context, limit int) ([]storage.GameRecord, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("limit must be greater than zero")
	}
	var rows []gameRow
	if err := s.db.WithContext(ctx).Order("recorded_at DESC").Limit(limit).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list games: %w", err)
	}
	out := make([]storage.GameRecord, 0, len(rows))
	for _, r := range rows {
		t1, t2 := r.slots().Teams()
		out = append(out, storage.GameRecord{
			ID:         r.ID,
			Team1:      t1,
			Team2:      t2,
			Captain1:   r.Captain1,
			Captain2:   r.Captain2,
			Winner:     match.Winner(r.Winner),
			RecordedAt: r.RecordedAt,
		})
	}
	return out, nil
}
