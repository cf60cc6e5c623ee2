package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/Aashish23092/ocr-financial-ratios/dto"
	"github.com/phuslu/log"
	"github.com/timshannon/badgerhold/v4"
)

// resultRecord is the persisted form of an AnalysisResult. The result is
// kept as JSON so the ratio set's own encoding stays authoritative.
type resultRecord struct {
	ID        string `badgerhold:"key"`
	Filename  string
	Payload   []byte
	CreatedAt time.Time `badgerhold:"index"`
}

// BadgerStore persists results in an embedded badger database.
type BadgerStore struct {
	store *badgerhold.Store
	path  string
}

// NewBadgerStore opens (or creates) the database at path.
func NewBadgerStore(path string) (*BadgerStore, error) {
	if err := os.MkdirAll(path, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	options := badgerhold.DefaultOptions
	options.Dir = path
	options.ValueDir = path
	options.Logger = nil

	store, err := badgerhold.Open(options)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger database: %w", err)
	}

	log.Debug().Str("path", path).Msg("badger result store opened")
	return &BadgerStore{store: store, path: path}, nil
}

func (s *BadgerStore) Put(ctx context.Context, result *dto.AnalysisResult) error {
	if result == nil || result.ID == "" {
		return errors.New("result id is required")
	}
	payload, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}

	record := &resultRecord{
		ID:        result.ID,
		Filename:  result.Filename,
		Payload:   payload,
		CreatedAt: result.ProcessedAt,
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now()
	}

	if err := s.store.Upsert(record.ID, record); err != nil {
		return fmt.Errorf("failed to save result: %w", err)
	}
	return nil
}

func (s *BadgerStore) Get(ctx context.Context, id string) (*dto.AnalysisResult, error) {
	var record resultRecord
	if err := s.store.Get(id, &record); err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get result: %w", err)
	}

	var result dto.AnalysisResult
	if err := json.Unmarshal(record.Payload, &result); err != nil {
		return nil, fmt.Errorf("failed to decode result %s: %w", id, err)
	}
	return &result, nil
}

func (s *BadgerStore) Delete(ctx context.Context, id string) error {
	if err := s.store.Delete(id, &resultRecord{}); err != nil {
		if err == badgerhold.ErrNotFound {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete result: %w", err)
	}
	return nil
}

func (s *BadgerStore) Close() error {
	if s.store != nil {
		return s.store.Close()
	}
	return nil
}
