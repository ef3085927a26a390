// Package sqlite implementa el almacenamiento clave-valor del dispositivo sobre SQLite (GORM).
// Es el driver por defecto: sobrevive reinicios sin servicios externos.
package sqlite

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"

	"github.com/jhoicas/luxy-checkout/internal/domain"
	"github.com/jhoicas/luxy-checkout/internal/domain/repository"
)

var _ repository.KVStore = (*KVStore)(nil)

// KVEntry fila de la tabla kv_entries.
type KVEntry struct {
	Key       string `gorm:"primaryKey;size:128"`
	Value     []byte `gorm:"not null"`
	UpdatedAt time.Time
}

// TableName nombre de la tabla.
func (KVEntry) TableName() string { return "kv_entries" }

// KVStore almacenamiento clave-valor sobre una base SQLite.
type KVStore struct {
	db *gorm.DB
}

// Open abre (o crea) la base en path y migra la tabla. path ":memory:" sirve para tests.
func Open(path string) (*KVStore, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("sqlite: abrir %s: %w", path, err)
	}
	return NewKVStore(db)
}

// NewKVStore usa una conexión GORM existente y migra la tabla.
func NewKVStore(db *gorm.DB) (*KVStore, error) {
	if err := db.AutoMigrate(&KVEntry{}); err != nil {
		return nil, fmt.Errorf("sqlite: migrar kv_entries: %w", err)
	}
	return &KVStore{db: db}, nil
}

// Get devuelve el valor o domain.ErrNotFound.
func (s *KVStore) Get(ctx context.Context, key string) ([]byte, error) {
	var row KVEntry
	err := s.db.WithContext(ctx).Where("key = ?", key).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return row.Value, nil
}

// Set inserta o reemplaza el valor en una sola sentencia.
func (s *KVStore) Set(ctx context.Context, key string, value []byte) error {
	row := KVEntry{Key: key, Value: value, UpdatedAt: time.Now().UTC()}
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).
		Create(&row).Error
}

// Delete elimina la clave; no falla si no existe.
func (s *KVStore) Delete(ctx context.Context, key string) error {
	return s.db.WithContext(ctx).Where("key = ?", key).Delete(&KVEntry{}).Error
}

// Close cierra la conexión subyacente.
func (s *KVStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
