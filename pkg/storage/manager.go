package storage

import (
	"context"
	"fmt"
	"sync"

	"github.com/AkaOko/react-trpo/config"
	"github.com/AkaOko/react-trpo/pkg/logger"
)

// Manager holds the configured disks.
type Manager struct {
	mu       sync.RWMutex
	disks    map[string]Disk
	fallback string
}

// NewManager returns a manager whose default disk is name.
func NewManager(name string) *Manager {
	return &Manager{disks: map[string]Disk{}, fallback: name}
}

// FromConfig always boots the local disk, and the s3 disk when S3_BUCKET is
// set. A misconfigured s3 disk is logged and skipped.
func FromConfig(ctx context.Context) (*Manager, error) {
	m := NewManager(config.StorageDefault())
	m.Register("local", NewLocalDisk(config.StorageLocalRoot(), config.StorageURL()))

	if config.StorageS3Bucket() != "" {
		d, err := NewS3Disk(ctx, S3Options{
			Bucket:   config.StorageS3Bucket(),
			Region:   config.StorageS3Region(),
			Key:      config.StorageS3Key(),
			Secret:   config.StorageS3Secret(),
			Endpoint: config.StorageS3Endpoint(),
			BaseURL:  config.StorageS3URL(),
		})
		if err != nil {
			logger.Warn("s3 disk disabled", "error", err)
		} else {
			m.Register("s3", d)
		}
	}

	if _, err := m.Disk(m.fallback); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Manager) Register(name string, d Disk) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.disks[name] = d
}

func (m *Manager) Disk(name string) (Disk, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	d, ok := m.disks[name]
	if !ok {
		return nil, fmt.Errorf("storage: disk %q is not configured", name)
	}
	return d, nil
}

// Default returns the disk named by STORAGE_DISK. FromConfig guarantees it
// exists.
func (m *Manager) Default() Disk {
	d, err := m.Disk(m.fallback)
	if err != nil {
		panic(err)
	}
	return d
}
