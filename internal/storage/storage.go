// Package storage provides the single-key snapshot slots a board persists to.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Backend names.
const (
	BackendFile   = "file"
	BackendRedis  = "redis"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

// ErrUnknownBackend is returned by Open for an unrecognised backend name.
var ErrUnknownBackend = errors.New("unknown storage backend")

// Backend is a snapshot slot that owns resources.
type Backend interface {
	Load(ctx context.Context) ([]byte, error)
	Save(ctx context.Context, data []byte) error
	Delete(ctx context.Context) error
	// Describe returns a short human-readable location, e.g. "redis://host:6379/0#daily-tasks".
	Describe() string
	Close() error
}

// Options selects and configures a backend.
type Options struct {
	Backend       string
	Key           string
	SnapshotFile  string
	DatabaseFile  string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
}

// Backends lists the supported backend names.
func Backends() []string {
	return []string{BackendFile, BackendRedis, BackendSQLite, BackendMemory}
}

// NormalizeBackend lowercases name and resolves aliases. It returns "" for
// unknown names.
func NormalizeBackend(name string) string {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "file", "json":
		return BackendFile
	case "redis":
		return BackendRedis
	case "sqlite", "sqlite3":
		return BackendSQLite
	case "memory", "mem":
		return BackendMemory
	}
	return ""
}

// Open creates the backend described by opts.
func Open(ctx context.Context, opts Options) (Backend, error) {
	switch NormalizeBackend(opts.Backend) {
	case BackendFile:
		return NewFileSlot(opts.SnapshotFile)
	case BackendRedis:
		return OpenRedisSlot(ctx, opts.RedisAddr, opts.RedisPassword, opts.RedisDB, opts.Key)
	case BackendSQLite:
		return OpenSQLiteSlot(ctx, opts.DatabaseFile, opts.Key)
	case BackendMemory:
		return NewMemorySlot(), nil
	}
	return nil, fmt.Errorf("%w: %q (expected %s)", ErrUnknownBackend, opts.Backend, strings.Join(Backends(), "|"))
}
