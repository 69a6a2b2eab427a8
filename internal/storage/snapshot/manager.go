package snapshot

import (
	"bufio"
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"
)

var magicBytes = []byte("CRXSNAP1")

const (
	filePrefix    = "state-"
	fileExtension = ".snap"
	checksumSize  = 32
	headerVersion = 1

	// DefaultRetentionCount is the number of snapshot files kept.
	DefaultRetentionCount = 5
)

type snapshotHeader struct {
	Version   int   `json:"version"`
	CreatedAt int64 `json:"created_at"`
	DataSize  int   `json:"data_size"`
}

var (
	ErrInvalidMagic     = errors.New("snapshot: invalid magic bytes")
	ErrChecksumMismatch = errors.New("snapshot: checksum mismatch")
	ErrTruncated        = errors.New("snapshot: truncated file")
)

// Config configures the snapshot manager.
type Config struct {
	Dir string

	// RetentionCount is the number of files kept after each write.
	RetentionCount int

	Logger *slog.Logger
}

// DefaultConfig returns the default configuration for dir.
func DefaultConfig(dir string) Config {
	return Config{
		Dir:            dir,
		RetentionCount: DefaultRetentionCount,
	}
}

// Manager stores encoded ledger states as snapshot files.
type Manager struct {
	cfg    Config
	logger *slog.Logger

	mu     sync.Mutex
	lastID int64
}

// NewManager creates the snapshot directory if needed.
func NewManager(cfg Config) (*Manager, error) {
	if cfg.Dir == "" {
		return nil, fmt.Errorf("snapshot: dir is required")
	}
	if err := os.MkdirAll(cfg.Dir, 0750); err != nil {
		return nil, fmt.Errorf("snapshot: create dir: %w", err)
	}
	if cfg.RetentionCount <= 0 {
		cfg.RetentionCount = DefaultRetentionCount
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	return &Manager{
		cfg:    cfg,
		logger: cfg.Logger.With("component", "snapshot"),
	}, nil
}

// Info contains metadata about a snapshot file.
type Info struct {
	ID        string `json:"id"`
	CreatedAt int64  `json:"created_at"`
	Size      int64  `json:"size"`
	Path      string `json:"path"`
	Checksum  string `json:"checksum,omitempty"`
}

// Name returns the backend name.
func (m *Manager) Name() string { return "file" }

// Write stores data as a new snapshot and prunes old ones.
func (m *Manager) Write(ctx context.Context, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, err := m.create(data); err != nil {
		return err
	}
	if err := m.prune(); err != nil {
		m.logger.WarnContext(ctx, "snapshot prune failed", "error", err)
	}
	return nil
}

// Read returns the data of the newest readable snapshot. found is false
// when the directory holds no snapshot. Unreadable newer snapshots are
// skipped and kept on disk; the error of the newest one is returned only
// when no snapshot can be read.
func (m *Manager) Read(ctx context.Context) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	infos, err := m.List()
	if err != nil {
		return nil, false, err
	}
	if len(infos) == 0 {
		return nil, false, nil
	}

	var (
		skipped  []string
		firstErr error
	)
	for i := len(infos) - 1; i >= 0; i-- {
		info := infos[i]
		data, _, err := m.loadFile(info.Path)
		if err != nil {
			if firstErr == nil {
				firstErr = fmt.Errorf("snapshot %s: %w", info.ID, err)
			}
			m.logger.WarnContext(ctx, "snapshot unreadable", "path", info.Path, "error", err)
			skipped = append(skipped, info.ID)
			continue
		}
		if len(skipped) > 0 {
			m.logger.WarnContext(ctx, "restored from older snapshot",
				"id", info.ID,
				"skipped", skipped,
			)
		}
		return data, true, nil
	}
	return nil, true, firstErr
}

// Close releases nothing; files are closed after each operation.
func (m *Manager) Close() error { return nil }

func (m *Manager) create(data []byte) (*Info, error) {
	now := time.Now()
	id := m.nextID(now)

	tempPath := filepath.Join(m.cfg.Dir, id+".tmp")
	file, err := os.OpenFile(tempPath, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0600)
	if err != nil {
		return nil, fmt.Errorf("snapshot: create temp file: %w", err)
	}
	defer os.Remove(tempPath)

	hash := sha256.New()
	w := bufio.NewWriter(io.MultiWriter(file, hash))

	hdrJSON, err := json.Marshal(snapshotHeader{
		Version:   headerVersion,
		CreatedAt: now.UnixMilli(),
		DataSize:  len(data),
	})
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("snapshot: marshal header: %w", err)
	}

	var lenBuf [4]byte
	w.Write(magicBytes)
	binary.BigEndian.PutUint32(lenBuf[:], uint32(len(hdrJSON)))
	w.Write(lenBuf[:])
	w.Write(hdrJSON)
	binary.BigEndian.PutUint32(lenBuf[:], uint32(len(data)))
	w.Write(lenBuf[:])
	w.Write(data)
	if err := w.Flush(); err != nil {
		file.Close()
		return nil, fmt.Errorf("snapshot: write: %w", err)
	}

	// Checksum trailer is not part of the hash.
	sum := hash.Sum(nil)
	if _, err := file.Write(sum); err != nil {
		file.Close()
		return nil, fmt.Errorf("snapshot: write checksum: %w", err)
	}
	if err := file.Sync(); err != nil {
		file.Close()
		return nil, fmt.Errorf("snapshot: sync: %w", err)
	}
	stat, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, err
	}
	if err := file.Close(); err != nil {
		return nil, fmt.Errorf("snapshot: close: %w", err)
	}

	finalPath := filepath.Join(m.cfg.Dir, id+fileExtension)
	if err := os.Rename(tempPath, finalPath); err != nil {
		return nil, fmt.Errorf("snapshot: rename: %w", err)
	}
	if err := syncDir(m.cfg.Dir); err != nil {
		return nil, fmt.Errorf("snapshot: sync dir: %w", err)
	}

	return &Info{
		ID:        id,
		CreatedAt: now.UnixMilli(),
		Size:      stat.Size(),
		Path:      finalPath,
		Checksum:  hex.EncodeToString(sum),
	}, nil
}

func (m *Manager) loadFile(path string) ([]byte, *Info, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return nil, nil, err
	}
	if stat.Size() < int64(len(magicBytes))+8+checksumSize {
		return nil, nil, ErrTruncated
	}

	// Verify checksum.
	bodyLen := stat.Size() - checksumSize
	expected := make([]byte, checksumSize)
	if _, err := io.ReadFull(io.NewSectionReader(f, bodyLen, checksumSize), expected); err != nil {
		return nil, nil, err
	}
	h := sha256.New()
	if _, err := io.Copy(h, io.NewSectionReader(f, 0, bodyLen)); err != nil {
		return nil, nil, err
	}
	if !bytes.Equal(h.Sum(nil), expected) {
		return nil, nil, ErrChecksumMismatch
	}

	br := bufio.NewReader(io.NewSectionReader(f, 0, bodyLen))

	magic := make([]byte, len(magicBytes))
	if _, err := io.ReadFull(br, magic); err != nil {
		return nil, nil, err
	}
	if !bytes.Equal(magic, magicBytes) {
		return nil, nil, ErrInvalidMagic
	}

	hdrJSON, err := readBlock(br)
	if err != nil {
		return nil, nil, err
	}
	var hdr snapshotHeader
	if err := json.Unmarshal(hdrJSON, &hdr); err != nil {
		return nil, nil, fmt.Errorf("snapshot: unmarshal header: %w", err)
	}
	if hdr.Version != headerVersion {
		return nil, nil, fmt.Errorf("snapshot: unsupported header version %d", hdr.Version)
	}

	data, err := readBlock(br)
	if err != nil {
		return nil, nil, err
	}

	return data, &Info{
		ID:        strings.TrimSuffix(filepath.Base(path), fileExtension),
		CreatedAt: hdr.CreatedAt,
		Size:      stat.Size(),
		Path:      path,
		Checksum:  hex.EncodeToString(expected),
	}, nil
}

func readBlock(r io.Reader) ([]byte, error) {
	var lenBuf [4]byte
	if _, err := io.ReadFull(r, lenBuf[:]); err != nil {
		return nil, ErrTruncated
	}
	block := make([]byte, binary.BigEndian.Uint32(lenBuf[:]))
	if _, err := io.ReadFull(r, block); err != nil {
		return nil, ErrTruncated
	}
	return block, nil
}

// List lists snapshot files, oldest first.
func (m *Manager) List() ([]*Info, error) {
	entries, err := os.ReadDir(m.cfg.Dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var names []string
	for _, e := range entries {
		name := e.Name()
		if !e.IsDir() && strings.HasPrefix(name, filePrefix) && strings.HasSuffix(name, fileExtension) {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	infos := make([]*Info, 0, len(names))
	for _, name := range names {
		p := filepath.Join(m.cfg.Dir, name)
		stat, err := os.Stat(p)
		if err != nil {
			continue
		}
		infos = append(infos, &Info{
			ID:   strings.TrimSuffix(name, fileExtension),
			Path: p,
			Size: stat.Size(),
		})
	}
	return infos, nil
}

// Prune deletes all but the newest RetentionCount snapshots.
func (m *Manager) Prune() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.prune()
}

func (m *Manager) prune() error {
	infos, err := m.List()
	if err != nil {
		return err
	}
	excess := len(infos) - m.cfg.RetentionCount
	for i := 0; i < excess; i++ {
		if err := os.Remove(infos[i].Path); err != nil && !os.IsNotExist(err) {
			return err
		}
	}
	return nil
}

// nextID returns a file ID that sorts after every previous one, even when
// the clock does not advance.
func (m *Manager) nextID(t time.Time) string {
	n := t.UnixNano()
	if n <= m.lastID {
		n = m.lastID + 1
	}
	if infos, _ := m.List(); len(infos) > 0 {
		var last int64
		fmt.Sscanf(strings.TrimPrefix(infos[len(infos)-1].ID, filePrefix), "%d", &last)
		if n <= last {
			n = last + 1
		}
	}
	m.lastID = n
	return fmt.Sprintf("%s%020d", filePrefix, n)
}

func syncDir(dir string) error {
	d, err := os.Open(dir)
	if err != nil {
		return err
	}
	defer d.Close()
	return d.Sync()
}
