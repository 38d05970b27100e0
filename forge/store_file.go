package forge

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zstd"
)

const snapshotFileExt = ".snap"

// FileStore persists one zstd-compressed snapshot file per profile. Saves
// write to a temp file in the same directory and rename over the previous
// file, so a crash mid-save can never corrupt the last valid snapshot.
type FileStore struct {
	dir string
}

// NewFileStore creates the snapshot directory if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if dir == "" {
		return nil, ErrBadInput
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &FileStore{dir: dir}, nil
}

func (s *FileStore) path(profileID string) (string, error) {
	if profileID == "" || strings.ContainsAny(profileID, `/\`) {
		return "", fmt.Errorf("%w: invalid profile id %q", ErrBadInput, profileID)
	}
	return filepath.Join(s.dir, profileID+snapshotFileExt), nil
}

func (s *FileStore) Load(_ context.Context, profileID string) (*ProgressionSnapshot, error) {
	path, err := s.path(profileID)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		// First activation for this profile.
		return NewSnapshot(profileID), nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	dec, err := zstd.NewReader(f, zstd.WithDecoderConcurrency(1))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSnapshotCorrupt, err)
	}
	defer dec.Close()

	data, err := io.ReadAll(dec)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSnapshotCorrupt, err)
	}
	return decodeSnapshot(data, profileID)
}

func (s *FileStore) Save(_ context.Context, snap *ProgressionSnapshot) error {
	data, err := encodeSnapshot(snap)
	if err != nil {
		return err
	}
	path, err := s.path(snap.ProfileID)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(s.dir, snap.ProfileID+".tmp-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name()) // no-op after a successful rename

	enc, err := zstd.NewWriter(tmp, zstd.WithEncoderConcurrency(1))
	if err != nil {
		tmp.Close()
		return err
	}
	if _, err := enc.Write(data); err != nil {
		enc.Close()
		tmp.Close()
		return err
	}
	if err := enc.Close(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	return os.Rename(tmp.Name(), path)
}

func (s *FileStore) Close() error {
	return nil
}
