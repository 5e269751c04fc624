// Package storage keeps the panel configuration in flash using LittleFS.
// It handles atomic writes, version checking, and cleanup of temporary files.
package storage

import (
	"errors"
	"os"
	"strings"

	"github.com/tuffrabit/tinygo-pool-screen/pkg/config"

	"tinygo.org/x/tinyfs"
	"tinygo.org/x/tinyfs/littlefs"
)

const (
	configDir  = "/config"
	panelFile  = "/config/panel.bin"
	tempSuffix = ".tmp"
)

var (
	ErrConfigNotFound  = errors.New("panel config not found")
	ErrInvalidConfig   = errors.New("invalid panel config data")
	ErrVersionMismatch = errors.New("config version mismatch")
)

// Manager handles config persistence using LittleFS.
type Manager struct {
	fs       *littlefs.LFS
	blockDev tinyfs.BlockDevice
	mounted  bool
}

// New mounts the filesystem on blockDev and performs boot-time cleanup.
// If format is true and mount fails, it will format the filesystem.
func New(blockDev tinyfs.BlockDevice, format bool) (*Manager, error) {
	lfs := littlefs.New(blockDev)

	// Conservative settings, the config is a single small file
	lfs.Configure(&littlefs.Config{
		CacheSize:     512,
		LookaheadSize: 128,
	})

	err := lfs.Mount()
	if err != nil {
		if !format {
			return nil, err
		}
		if err := lfs.Format(); err != nil {
			return nil, err
		}
		if err := lfs.Mount(); err != nil {
			return nil, err
		}
	}

	m := &Manager{
		fs:       lfs,
		blockDev: blockDev,
		mounted:  true,
	}

	// Leftover temp files are harmless, keep going if cleanup fails
	m.bootCleanup()

	// A config written by an older layout is dropped so defaults apply
	var cfg config.PanelConfig
	if err := m.LoadPanel(&cfg); errors.Is(err, ErrVersionMismatch) {
		if err := m.Reset(); err != nil {
			return nil, err
		}
	}

	return m, nil
}

// Close unmounts the filesystem.
func (m *Manager) Close() error {
	if m.mounted {
		m.mounted = false
		return m.fs.Unmount()
	}
	return nil
}

// bootCleanup removes temporary files left over from interrupted writes.
func (m *Manager) bootCleanup() error {
	f, err := m.fs.Open(configDir)
	if err != nil {
		// Config dir might not exist yet
		return nil
	}
	defer f.Close()

	if !f.IsDir() {
		return errors.New("not a directory")
	}

	entries, err := f.Readdir(-1)
	if err != nil {
		return err
	}

	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, tempSuffix) {
			m.fs.Remove(configDir + "/" + name)
		}
	}
	return nil
}

// ensureDir creates the config directory if it doesn't exist.
func (m *Manager) ensureDir() error {
	if err := m.fs.Mkdir(configDir, 0755); err != nil && !isExist(err) {
		return err
	}
	return nil
}

// isExist checks if an error is "already exists".
// LittleFS errors don't always match os.IsExist, so we check the message too.
func isExist(err error) bool {
	if err == nil {
		return false
	}
	if os.IsExist(err) {
		return true
	}
	return strings.Contains(err.Error(), "already exists")
}

// isNotExist is the "missing file" counterpart of isExist.
func isNotExist(err error) bool {
	if os.IsNotExist(err) {
		return true
	}
	return strings.Contains(err.Error(), "No directory entry")
}

// LoadPanel loads the stored panel configuration.
// It returns ErrConfigNotFound on first boot and ErrVersionMismatch when the
// stored record was written by a different layout.
func (m *Manager) LoadPanel(cfg *config.PanelConfig) error {
	f, err := m.fs.Open(panelFile)
	if err != nil {
		if isNotExist(err) {
			return ErrConfigNotFound
		}
		return err
	}
	defer f.Close()

	buf := make([]byte, config.PanelConfigSize)
	n, err := f.Read(buf)
	if err != nil {
		return err
	}
	if n != config.PanelConfigSize {
		return ErrInvalidConfig
	}

	if err := cfg.UnmarshalBinary(buf); err != nil {
		return err
	}
	if cfg.Version != config.CurrentVersion {
		return ErrVersionMismatch
	}
	return nil
}

// SavePanel stores cfg atomically, stamping the current version.
func (m *Manager) SavePanel(cfg *config.PanelConfig) error {
	if err := m.ensureDir(); err != nil {
		return err
	}

	cfg.Version = config.CurrentVersion

	data, err := cfg.MarshalBinary()
	if err != nil {
		return err
	}

	return m.atomicWrite(panelFile, data)
}

// Reset removes the stored panel configuration.
func (m *Manager) Reset() error {
	if err := m.fs.Remove(panelFile); err != nil && !isNotExist(err) {
		return err
	}
	return nil
}

// atomicWrite writes data to a temporary file, syncs it, then renames.
// The original file is never in a partially written state.
func (m *Manager) atomicWrite(filepath string, data []byte) error {
	tempPath := filepath + tempSuffix

	// Remove temp file if it exists (from interrupted previous write)
	m.fs.Remove(tempPath)

	f, err := m.fs.OpenFile(tempPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC)
	if err != nil {
		return err
	}

	if _, err := f.Write(data); err != nil {
		f.Close()
		m.fs.Remove(tempPath)
		return err
	}

	// Sync ensures data hits flash
	if syncer, ok := f.(interface{ Sync() error }); ok {
		if err := syncer.Sync(); err != nil {
			f.Close()
			m.fs.Remove(tempPath)
			return err
		}
	}

	if err := f.Close(); err != nil {
		m.fs.Remove(tempPath)
		return err
	}

	// LittleFS rename doesn't replace
	m.fs.Remove(filepath)

	if err := m.fs.Rename(tempPath, filepath); err != nil {
		m.fs.Remove(tempPath)
		return err
	}

	return nil
}
