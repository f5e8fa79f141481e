// Package store persists verification reports in badger, keyed by document
// fingerprint.
package store

import (
	"errors"
	"fmt"

	"gofvm/model"

	"github.com/dgraph-io/badger/v3"
	"go.uber.org/zap"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

var ErrNotFound = errors.New("store: no reports for fingerprint")

const prefix = "reports/"

type Store struct {
	db  *badger.DB
	log *zap.Logger
}

// Open the store in directory path. An empty path or the InMemory option
// keeps everything in memory.
func Open(path string, opts ...Option) (*Store, error) {
	var (
		log      = zap.NewNop()
		inMemory = path == ""
	)
	for _, opt := range opts {
		switch t := opt.(type) {
		case loggerOption:
			log = t.log
		case inMemoryOption:
			inMemory = true
		}
	}
	bopts := badger.DefaultOptions(path).WithLogger(badgerLogger{log.Sugar()})
	if inMemory {
		bopts = bopts.WithDir("").WithValueDir("").WithInMemory(true)
	}
	db, err := badger.Open(bopts)
	if err != nil {
		return nil, fmt.Errorf("store: open %q: %w", path, err)
	}
	log.Debug("Opened report store", zap.String("path", path), zap.Bool("inMemory", inMemory))
	return &Store{db: db, log: log}, nil
}

func key(fingerprint string) []byte {
	return []byte(prefix + fingerprint)
}

// Put replaces the reports stored for the fingerprint.
func (s *Store) Put(fingerprint string, rs []model.Report) error {
	st, err := model.ReportsStruct(rs)
	if err != nil {
		return err
	}
	value, err := proto.Marshal(st)
	if err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key(fingerprint), value)
	})
}

// Get returns the reports stored for the fingerprint, or ErrNotFound.
func (s *Store) Get(fingerprint string) ([]model.Report, error) {
	st := &structpb.Struct{}
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key(fingerprint))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return proto.Unmarshal(val, st)
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, fmt.Errorf("%w: %v", ErrNotFound, fingerprint)
	}
	if err != nil {
		return nil, err
	}
	return model.ReportsFromStruct(st)
}

func (s *Store) Delete(fingerprint string) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(key(fingerprint))
	})
}

// Fingerprints returns the stored fingerprints in key order.
func (s *Store) Fingerprints() ([]string, error) {
	fps := []string{}
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = []byte(prefix)
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			fps = append(fps, string(it.Item().Key()[len(prefix):]))
		}
		return nil
	})
	return fps, err
}

func (s *Store) Close() error {
	return s.db.Close()
}

// badgerLogger routes badger's logging to zap.
type badgerLogger struct{ *zap.SugaredLogger }

func (l badgerLogger) Warningf(format string, args ...any) {
	l.Warnf(format, args...)
}
