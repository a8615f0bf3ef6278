// Package storage keeps uploaded images on local disk under content-addressed
// names. Files are served read-only from /content/.
package storage

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/h2non/filetype"
	apperrors "github.com/segyhp/isp-admin/pkg/errors"
)

// PublicPrefix is the URL path stored files are served under.
const PublicPrefix = "/content/"

// sniffLen is how many leading bytes filetype needs to recognise a format.
const sniffLen = 261

type StoredFile struct {
	Name        string `json:"name"`
	URL         string `json:"url"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size"`
}

type DiskStore struct {
	dir      string
	maxBytes int64
	now      func() time.Time
}

func NewDiskStore(dir string, maxBytes int64) (*DiskStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create content dir: %w", err)
	}
	return &DiskStore{dir: dir, maxBytes: maxBytes, now: time.Now}, nil
}

func (d *DiskStore) Dir() string {
	return d.dir
}

// Save stores an image. The name is the hex sha256 of the original name and
// the upload time, plus the extension of the detected type.
func (d *DiskStore) Save(ctx context.Context, originalName string, r io.Reader) (*StoredFile, error) {
	data, err := io.ReadAll(io.LimitReader(r, d.maxBytes+1))
	if err != nil {
		return nil, apperrors.WrapStorageError(err)
	}
	if int64(len(data)) > d.maxBytes {
		return nil, apperrors.WrapValidation(fmt.Sprintf("file exceeds the %d byte upload limit", d.maxBytes), nil)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	head := data
	if len(head) > sniffLen {
		head = head[:sniffLen]
	}
	kind, _ := filetype.Match(head)
	if kind == filetype.Unknown || !filetype.IsImage(head) {
		contentType := kind.MIME.Value
		if contentType == "" {
			contentType = "unknown"
		}
		return nil, apperrors.WrapUnsupportedFile(contentType)
	}

	sum := sha256.Sum256([]byte(originalName + strconv.FormatInt(d.now().UnixNano(), 10)))
	name := hex.EncodeToString(sum[:]) + "." + kind.Extension

	if err := os.WriteFile(filepath.Join(d.dir, name), data, 0o644); err != nil {
		return nil, apperrors.WrapStorageError(err)
	}

	return &StoredFile{
		Name:        name,
		URL:         PublicPrefix + name,
		ContentType: kind.MIME.Value,
		Size:        int64(len(data)),
	}, nil
}

// Open returns a stored file by name. Names carrying a path are rejected.
func (d *DiskStore) Open(name string) (*os.File, error) {
	if name == "" || filepath.Base(name) != name {
		return nil, apperrors.WrapNotFound("File", name)
	}
	f, err := os.Open(filepath.Join(d.dir, name))
	if os.IsNotExist(err) {
		return nil, apperrors.WrapNotFound("File", name)
	}
	if err != nil {
		return nil, apperrors.WrapStorageError(err)
	}
	return f, nil
}

// Delete removes a stored file. A missing file is not an error.
func (d *DiskStore) Delete(name string) error {
	if name == "" || filepath.Base(name) != name {
		return nil
	}
	err := os.Remove(filepath.Join(d.dir, name))
	if err != nil && !os.IsNotExist(err) {
		return apperrors.WrapStorageError(err)
	}
	return nil
}
