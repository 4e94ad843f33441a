package tabular

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"

	"github.com/zeebo/errs"
	"go.uber.org/zap"

	"github.com/opdss/nbkit/contracts/storage"
	localfs "github.com/opdss/nbkit/storage"
	"github.com/opdss/nbkit/table"
)

var (
	// Error is the class of table (de)serialization failures that are neither parse nor io errors.
	Error = errs.Class("tabular")
	// ErrParse wraps malformed content on load.
	ErrParse = errs.Class("parse")
	// ErrIO wraps failures writing the destination on save.
	ErrIO = errs.Class("io")

	ErrMaximumLimit = errors.New("table exceeds maximum row limit")
)

// Manager loads uploaded bytes into tables and saves tables to files. Unrecognized
// formats are declined silently: the result is nil and so is the error.
type Manager struct {
	fs      storage.FileSystem
	logger  *zap.Logger
	options *options
}

func NewManager(logger *zap.Logger, fs storage.FileSystem, opts ...Option) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	if fs == nil {
		fs = localfs.NewLocal(localfs.LocalConfig{})
	}
	return &Manager{
		fs:      fs,
		logger:  logger,
		options: newOptions(opts...),
	}
}

// Formats returns the formats this manager accepts.
func (m *Manager) Formats() []string {
	return m.options.formatList()
}

// Load turns content into a table. Empty content gives an empty table. The format is
// taken from meta.Type, or sniffed from content when the type is blank; a format
// outside Formats gives (nil, nil).
func (m *Manager) Load(ctx context.Context, content []byte, meta Metadata) (*table.Table, error) {
	if len(content) == 0 {
		return table.New(), nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	typ := meta.Type
	if typ == "" {
		typ = sniff(content)
	}
	format := formatFromType(typ)
	if !m.options.allowed(format) {
		m.logger.Debug("load declined",
			zap.String("Name", meta.Name),
			zap.String("Type", typ))
		return nil, nil
	}
	return m.decode(content, format)
}

// Stat describes a stored file the way an upload widget would. The type comes from
// the file extension and falls back to sniffing the stored content.
func (m *Manager) Stat(ctx context.Context, path string) (Metadata, error) {
	size, err := m.fs.Size(ctx, path)
	if err != nil {
		return Metadata{}, ErrIO.Wrap(err)
	}
	modified, err := m.fs.LastModified(ctx, path)
	if err != nil {
		return Metadata{}, ErrIO.Wrap(err)
	}
	meta := Metadata{
		Name:         filepath.Base(path),
		Size:         size,
		LastModified: modified,
	}
	if format := formatFromPath(path); m.options.allowed(format) {
		meta.Type = typeOf(format)
	} else if size > 0 {
		if meta.Type, err = m.fs.MimeType(ctx, path); err != nil {
			return Metadata{}, ErrIO.Wrap(err)
		}
	}
	return meta, nil
}

// Open loads a file from the manager's storage using the metadata from Stat.
func (m *Manager) Open(ctx context.Context, path string) (*table.Table, error) {
	meta, err := m.Stat(ctx, path)
	if err != nil {
		return nil, err
	}
	content, err := m.fs.Get(ctx, path)
	if err != nil {
		return nil, ErrIO.Wrap(err)
	}
	return m.Load(ctx, content, meta)
}

// Save writes t to path in the format named by the path's extension, creating
// missing directories. It returns the written path, or "" when the extension is
// not a recognized format.
func (m *Manager) Save(ctx context.Context, t *table.Table, path string) (string, error) {
	format := formatFromPath(path)
	if !m.options.allowed(format) {
		m.logger.Debug("save declined", zap.String("Path", path))
		return "", nil
	}
	if t == nil {
		return "", Error.New("nil table")
	}
	if m.options.maxRows > 0 && t.Len() > m.options.maxRows {
		return "", ErrMaximumLimit
	}

	var buf bytes.Buffer
	if err := m.encode(&buf, t, format); err != nil {
		return "", err
	}
	if err := m.fs.PutStream(ctx, path, &buf); err != nil {
		return "", ErrIO.Wrap(err)
	}

	written := m.fs.Path(path)
	m.logger.Info("table saved",
		zap.String("Path", written),
		zap.String("Format", format),
		zap.Int("Rows", t.Len()),
		zap.Int("Columns", t.Width()))
	return written, nil
}
