package history

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	applog "github.com/prajalsharma/mezo-wallet/internal/logger"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SQLiteTransaction is the GORM row shape for one history record.
type SQLiteTransaction struct {
	gorm.Model
	Account   string `gorm:"index:idx_partition"`
	ChainID   int64  `gorm:"index:idx_partition"`
	Hash      string `gorm:"index"`
	FromAddr  string
	ToAddr    string
	Value     string
	Symbol    string
	Timestamp int64
	Status    string
	Type      string
}

// SQLiteStore is the row-per-record backend. Insertion order (the row id)
// gives the most-recent-first read order.
type SQLiteStore struct {
	mu       sync.Mutex
	db       *gorm.DB
	notifier notifier
}

// NewSQLiteStore initializes the SQLite history database
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	dir := filepath.Dir(dbPath)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create directory: %w", err)
		}
	}

	// Configure GORM to be less verbose
	config := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Error),
	}

	db, err := gorm.Open(sqlite.Open(dbPath), config)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.AutoMigrate(&SQLiteTransaction{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Read(account string, chainID int64) []Transaction {
	if account == "" {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.readLocked(account, chainID)
}

func (s *SQLiteStore) Append(account string, chainID int64, tx Transaction) {
	if account == "" {
		return
	}

	row := SQLiteTransaction{
		Account:   account,
		ChainID:   chainID,
		Hash:      tx.Hash,
		FromAddr:  tx.From,
		ToAddr:    tx.To,
		Value:     tx.Value,
		Symbol:    tx.Symbol,
		Timestamp: tx.Timestamp,
		Status:    string(tx.Status),
		Type:      string(tx.Type),
	}

	s.mu.Lock()
	err := s.db.Create(&row).Error
	if err == nil {
		s.evictLocked(account, chainID)
	}
	s.mu.Unlock()

	if err != nil {
		applog.GetLogger().Error().Err(err).Str("hash", tx.Hash).Msg("Failed to persist transaction record")
		return
	}
	s.notifier.emit()
}

func (s *SQLiteStore) Update(account string, chainID int64, hash string, changes Changes) {
	if account == "" || changes.Status == nil {
		return
	}

	s.mu.Lock()
	result := s.db.Model(&SQLiteTransaction{}).
		Where("account = ? AND chain_id = ? AND hash = ?", account, chainID, hash).
		Update("status", string(*changes.Status))
	s.mu.Unlock()

	if result.Error != nil {
		applog.GetLogger().Error().Err(result.Error).Str("hash", hash).Msg("Failed to persist transaction update")
		return
	}
	if result.RowsAffected == 0 {
		return
	}
	s.notifier.emit()
}

func (s *SQLiteStore) Subscribe(fn func()) func() {
	return s.notifier.subscribe(fn)
}

func (s *SQLiteStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (s *SQLiteStore) readLocked(account string, chainID int64) []Transaction {
	var rows []SQLiteTransaction
	err := s.db.Where("account = ? AND chain_id = ?", account, chainID).
		Order("id desc").
		Limit(maxEntries).
		Find(&rows).Error
	if err != nil {
		return nil
	}

	txs := make([]Transaction, len(rows))
	for i, row := range rows {
		txs[i] = Transaction{
			Hash:      row.Hash,
			From:      row.FromAddr,
			To:        row.ToAddr,
			Value:     row.Value,
			Symbol:    row.Symbol,
			Timestamp: row.Timestamp,
			Status:    Status(row.Status),
			Type:      TxType(row.Type),
		}
	}
	return txs
}

// evictLocked drops the oldest rows of a partition beyond the cap.
func (s *SQLiteStore) evictLocked(account string, chainID int64) {
	var count int64
	if err := s.db.Model(&SQLiteTransaction{}).
		Where("account = ? AND chain_id = ?", account, chainID).
		Count(&count).Error; err != nil {
		return
	}
	if count <= maxEntries {
		return
	}

	var victims []SQLiteTransaction
	if err := s.db.Where("account = ? AND chain_id = ?", account, chainID).
		Order("id asc").
		Limit(int(count) - maxEntries).
		Find(&victims).Error; err != nil {
		return
	}
	for _, v := range victims {
		s.db.Unscoped().Delete(&SQLiteTransaction{}, v.ID)
	}
}
