// Package filestore persists submitted artifacts on the local filesystem.
package filestore

import (
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/uniquest/uniquest/core"
	"github.com/uniquest/uniquest/core/submission"
)

type localStore struct {
	dir     string
	maxSize int64
}

var _ submission.FileStore = (*localStore)(nil)

func NewLocalStore(conf *core.Config) (*localStore, error) {
	if err := os.MkdirAll(conf.Upload.Dir, 0o755); err != nil {
		return nil, errors.Wrap(err, "creating upload dir")
	}
	return &localStore{dir: conf.Upload.Dir, maxSize: conf.Upload.MaxSize}, nil
}

// Save writes the artifact under a unique name and returns its path
// relative to the upload dir. The original filename is kept as a suffix
// so downloads stay recognizable.
func (st *localStore) Save(filename string, r io.Reader) (string, error) {
	name := uuid.New().String()[:8] + "_" + filepath.Base(filename)

	f, err := os.Create(filepath.Join(st.dir, name))
	if err != nil {
		return "", errors.Wrap(err, "creating artifact file")
	}
	defer func() { _ = f.Close() }()

	if st.maxSize > 0 {
		r = io.LimitReader(r, st.maxSize)
	}
	if _, err = io.Copy(f, r); err != nil {
		return "", errors.Wrap(err, "writing artifact")
	}
	return name, nil
}
