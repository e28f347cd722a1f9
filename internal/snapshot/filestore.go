package snapshot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// FileStore keeps snapshots as JSON documents under one directory. File
// names embed the creation time, so the lexicographically last file is the
// latest snapshot; prior snapshots are kept, never rewritten.
type FileStore struct {
	dir string
}

// NewFileStore creates the directory if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create snapshot dir: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

func (s *FileStore) Save(ctx context.Context, doc *Document) error {
	prior, err := s.LoadMetadata(ctx)
	if err != nil && !errors.Is(err, ErrNoSnapshot) {
		return err
	}
	if err := checkDegraded(doc, prior); err != nil {
		return err
	}

	name := fmt.Sprintf("rules-%s.json", doc.CreatedAt.Format("20060102T150405"))
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	tmp := filepath.Join(s.dir, name+".tmp")
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	if err := os.Rename(tmp, filepath.Join(s.dir, name)); err != nil {
		return fmt.Errorf("finalize snapshot: %w", err)
	}
	return nil
}

func (s *FileStore) LoadLatest(ctx context.Context) (*Document, error) {
	path, err := s.latestPath()
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode snapshot %s: %w", filepath.Base(path), err)
	}
	return &doc, nil
}

// LoadMetadata decodes only the document header; the entry table is left
// untouched on disk.
func (s *FileStore) LoadMetadata(ctx context.Context) (*Metadata, error) {
	path, err := s.latestPath()
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}
	var meta Metadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("decode snapshot metadata: %w", err)
	}
	return &meta, nil
}

func (s *FileStore) latestPath() (string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return "", fmt.Errorf("read snapshot dir: %w", err)
	}
	var names []string
	for _, e := range entries {
		name := e.Name()
		if !e.IsDir() && strings.HasPrefix(name, "rules-") && strings.HasSuffix(name, ".json") {
			names = append(names, name)
		}
	}
	if len(names) == 0 {
		return "", ErrNoSnapshot
	}
	sort.Strings(names)
	return filepath.Join(s.dir, names[len(names)-1]), nil
}
