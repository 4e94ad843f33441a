package storage

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/zeebo/errs"

	"github.com/opdss/nbkit/contracts/storage"
)

type LocalConfig struct {
	Root string `help:"根目录,为空时使用工作目录" default:"" json:"root"`
}

var _ storage.FileSystem = (*Local)(nil)

// Local stores files on the local disk below root. An empty root resolves paths
// against the working directory.
type Local struct {
	root string
}

func NewLocal(config LocalConfig) *Local {
	return &Local{root: config.Root}
}

func (r *Local) Delete(ctx context.Context, files ...string) error {
	for _, file := range files {
		fileInfo, err := os.Stat(r.fullPath(file))
		if err != nil {
			return err
		}

		if fileInfo.IsDir() {
			return errors.New("can't delete directory")
		}
	}

	for _, file := range files {
		if err := os.Remove(r.fullPath(file)); err != nil {
			return err
		}
	}

	return nil
}

func (r *Local) Exists(ctx context.Context, file string) bool {
	_, err := os.Stat(r.fullPath(file))
	return err == nil
}

func (r *Local) Files(ctx context.Context, path string) ([]string, error) {
	var files []string
	fileInfo, err := os.ReadDir(r.fullPath(path))
	if err != nil {
		return nil, err
	}
	for _, f := range fileInfo {
		if !f.IsDir() {
			files = append(files, f.Name())
		}
	}

	return files, nil
}

func (r *Local) Get(ctx context.Context, file string) ([]byte, error) {
	rs, err := r.GetStream(ctx, file)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = rs.Close()
	}()
	return io.ReadAll(rs)
}

func (r *Local) GetStream(ctx context.Context, file string) (io.ReadCloser, error) {
	return os.Open(r.fullPath(file))
}

func (r *Local) LastModified(ctx context.Context, file string) (time.Time, error) {
	return LastModified(r.fullPath(file))
}

func (r *Local) MimeType(ctx context.Context, file string) (string, error) {
	return MimeType(r.fullPath(file))
}

func (r *Local) Missing(ctx context.Context, file string) bool {
	return !r.Exists(ctx, file)
}

func (r *Local) Path(file string) string {
	return r.fullPath(file)
}

func (r *Local) Put(ctx context.Context, file string, content []byte) error {
	return r.PutStream(ctx, file, bytes.NewReader(content))
}

// PutStream writes rs to file through a temporary sibling and a rename, so readers
// never see a half written file.
func (r *Local) PutStream(ctx context.Context, file string, rs io.Reader) (err error) {
	file = r.fullPath(file)
	if err := os.MkdirAll(filepath.Dir(file), os.ModePerm); err != nil {
		return err
	}

	fh, err := os.CreateTemp(filepath.Dir(file), "."+filepath.Base(file)+".*")
	if err != nil {
		return err
	}
	needsClose, needsRemove := true, true

	defer func() {
		if needsClose {
			err = errs.Combine(err, fh.Close())
		}
		if needsRemove {
			err = errs.Combine(err, os.Remove(fh.Name()))
		}
	}()

	if _, err := io.Copy(fh, rs); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	needsClose = false
	if err := fh.Close(); err != nil {
		return err
	}
	if err := os.Chmod(fh.Name(), 0o644); err != nil {
		return err
	}
	if err := os.Rename(fh.Name(), file); err != nil {
		return err
	}
	needsRemove = false

	return nil
}

func (r *Local) Size(ctx context.Context, file string) (int64, error) {
	return Size(r.fullPath(file))
}

func (r *Local) fullPath(path string) string {
	realPath := filepath.Clean(path)
	if r.root == "" {
		return realPath
	}
	if realPath == "." {
		return r.root
	}
	return filepath.Join(r.root, realPath)
}
