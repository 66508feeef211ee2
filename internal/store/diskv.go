package store

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/peterbourgon/diskv/v3"
)

// DiskvPersistence stores the document as a single file inside a diskv
// base directory.
type DiskvPersistence struct {
	d    *diskv.Diskv
	slot string
}

// NewDiskv opens (or creates) a diskv store rooted at basePath.
func NewDiskv(basePath, slot string) (*DiskvPersistence, error) {
	if slot == "" {
		slot = DefaultSlot
	}
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}
	d := diskv.New(diskv.Options{
		BasePath:     basePath,
		Transform:    func(string) []string { return []string{} },
		TempDir:      filepath.Join(basePath, ".tmp"),
		CacheSizeMax: 1024 * 1024, // 1MB
	})
	return &DiskvPersistence{d: d, slot: slot}, nil
}

func (p *DiskvPersistence) Load() (UserState, bool) {
	if !p.d.Has(p.slot) {
		return UserState{}, false
	}
	data, err := p.d.Read(p.slot)
	if err != nil {
		log().Warnw("read slot", "backend", "diskv", "slot", p.slot, "error", err)
		return UserState{}, false
	}
	return decodeSlot(data, "diskv")
}

// Save writes through to disk with fsync so a returned Update is durable.
func (p *DiskvPersistence) Save(state UserState) error {
	data, err := Encode(state)
	if err != nil {
		return err
	}
	if err := p.d.WriteStream(p.slot, bytes.NewReader(data), true); err != nil {
		return fmt.Errorf("write slot %q: %w", p.slot, err)
	}
	return nil
}

// Erase removes the slot; a missing slot is not an error.
func (p *DiskvPersistence) Erase() error {
	if err := p.d.Erase(p.slot); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("erase slot %q: %w", p.slot, err)
	}
	return nil
}

func (p *DiskvPersistence) Close() error { return nil }
