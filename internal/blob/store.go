// Package blob implements a local, zstd-compressed store for encoded
// audio payloads. Blobs are addressed by name and referenced with
// blob:// URIs so callers can pass payloads around without carrying
// the bytes.
package blob

import (
	"bytes"
	"crypto/sha256"
	"encoding/gob"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/klauspost/compress/zstd"
)

// URIScheme prefixes every URI handed out by the store.
const URIScheme = "blob://"

const indexFile = "blobs.index"

var (
	// ErrNotFound is returned when no blob exists under the given name.
	ErrNotFound = errors.New("blob not found")

	// ErrTooLarge is returned when a payload exceeds the store capacity.
	ErrTooLarge = errors.New("blob exceeds store capacity")
)

// Entry describes a stored blob.
type Entry struct {
	Name        string
	ContentType string
	Size        int64 // original payload size
	StoredSize  int64 // size on disk, possibly compressed
	Compressed  bool
	CreatedAt   time.Time
	file        string
}

// URI returns the blob:// reference for the entry.
func (e Entry) URI() string {
	return URIScheme + e.Name
}

// Store keeps named payloads on disk under a single directory.
// Payloads above the compression threshold are stored zstd-compressed
// when that actually shrinks them. The index survives restarts.
type Store struct {
	dir      string
	capacity int64
	size     int64

	encoder *zstd.Encoder
	decoder *zstd.Decoder

	mu    sync.Mutex
	index map[string]*Entry
}

// compressThreshold is the minimum payload size worth compressing.
const compressThreshold = 1024

// Open opens (or creates) a store rooted at dir. Capacity is the
// maximum total size on disk in bytes; oldest blobs are evicted to
// make room for new ones.
func Open(dir string, capacity int64) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create blob directory: %w", err)
	}

	encoder, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd encoder: %w", err)
	}
	decoder, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd decoder: %w", err)
	}

	s := &Store{
		dir:      dir,
		capacity: capacity,
		encoder:  encoder,
		decoder:  decoder,
		index:    make(map[string]*Entry),
	}

	if err := s.loadIndex(); err != nil {
		// Corrupt or missing index, start fresh.
		s.index = make(map[string]*Entry)
	}
	for _, e := range s.index {
		e.file = s.pathFor(e.Name)
		s.size += e.StoredSize
	}

	return s, nil
}

// ParseURI extracts the blob name from a blob:// URI.
func ParseURI(uri string) (string, error) {
	name, ok := strings.CutPrefix(uri, URIScheme)
	if !ok || name == "" {
		return "", fmt.Errorf("invalid blob URI %q", uri)
	}
	return name, nil
}

// Put stores a payload under name, replacing any existing blob, and
// returns its blob:// URI.
func (s *Store) Put(name string, data []byte, contentType string) (string, error) {
	if name == "" {
		return "", errors.New("blob name must not be empty")
	}

	stored := data
	compressed := false
	if len(data) >= compressThreshold {
		if c := s.encoder.EncodeAll(data, nil); len(c) < len(data) {
			stored = c
			compressed = true
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if int64(len(stored)) > s.capacity {
		return "", ErrTooLarge
	}

	if old, ok := s.index[name]; ok {
		s.size -= old.StoredSize
		os.Remove(old.file)
		delete(s.index, name)
	}

	for s.size+int64(len(stored)) > s.capacity && len(s.index) > 0 {
		s.evictOldest()
	}

	path := s.pathFor(name)
	if err := writeAtomic(path, stored); err != nil {
		return "", fmt.Errorf("failed to write blob: %w", err)
	}

	e := &Entry{
		Name:        name,
		ContentType: contentType,
		Size:        int64(len(data)),
		StoredSize:  int64(len(stored)),
		Compressed:  compressed,
		CreatedAt:   time.Now(),
		file:        path,
	}
	s.index[name] = e
	s.size += e.StoredSize

	if err := s.saveIndex(); err != nil {
		// Roll back so a failed put leaves no trace in the store.
		os.Remove(path)
		delete(s.index, name)
		s.size -= e.StoredSize
		return "", fmt.Errorf("failed to save blob index: %w", err)
	}
	return e.URI(), nil
}

// Get returns the payload stored under name.
func (s *Store) Get(name string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.index[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}

	data, err := os.ReadFile(e.file)
	if err != nil {
		// File vanished out from under the index.
		s.size -= e.StoredSize
		delete(s.index, name)
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}

	if e.Compressed {
		data, err = s.decoder.DecodeAll(data, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to decompress blob %s: %w", name, err)
		}
	}
	return data, nil
}

// OpenBlob returns a reader over the payload stored under name.
func (s *Store) OpenBlob(name string) (io.ReadCloser, error) {
	data, err := s.Get(name)
	if err != nil {
		return nil, err
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

// Stat returns the index entry for name without reading the payload.
func (s *Store) Stat(name string) (Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.index[name]
	if !ok {
		return Entry{}, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return *e, nil
}

// Delete removes the blob stored under name. Deleting a missing blob
// is not an error.
func (s *Store) Delete(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.index[name]
	if !ok {
		return nil
	}

	os.Remove(e.file)
	s.size -= e.StoredSize
	delete(s.index, name)

	return s.saveIndex()
}

// List returns all entries sorted by name.
func (s *Store) List() []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries := make([]Entry, 0, len(s.index))
	for _, e := range s.index {
		entries = append(entries, *e)
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name < entries[j].Name
	})
	return entries
}

// Size returns the total size on disk in bytes.
func (s *Store) Size() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.size
}

// Close persists the index and releases the compressor.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.saveIndex()
	s.encoder.Close()
	s.decoder.Close()
	return err
}

func (s *Store) pathFor(name string) string {
	hash := sha256.Sum256([]byte(name))
	return filepath.Join(s.dir, hex.EncodeToString(hash[:16])+".blob")
}

func (s *Store) evictOldest() {
	var oldest *Entry
	for _, e := range s.index {
		if oldest == nil || e.CreatedAt.Before(oldest.CreatedAt) {
			oldest = e
		}
	}
	if oldest != nil {
		os.Remove(oldest.file)
		s.size -= oldest.StoredSize
		delete(s.index, oldest.Name)
	}
}

func (s *Store) loadIndex() error {
	file, err := os.Open(filepath.Join(s.dir, indexFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	defer file.Close()

	return gob.NewDecoder(file).Decode(&s.index)
}

func (s *Store) saveIndex() error {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(s.index); err != nil {
		return err
	}
	return writeAtomic(filepath.Join(s.dir, indexFile), buf.Bytes())
}

// writeAtomic writes data to a temp file and renames it into place.
func writeAtomic(path string, data []byte) error {
	tempPath := path + ".tmp"

	file, err := os.Create(tempPath)
	if err != nil {
		return err
	}

	_, err = file.Write(data)
	closeErr := file.Close()

	if err != nil {
		os.Remove(tempPath)
		return err
	}
	if closeErr != nil {
		os.Remove(tempPath)
		return closeErr
	}

	return os.Rename(tempPath, path)
}
