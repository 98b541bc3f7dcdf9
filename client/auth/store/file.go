package store

import (
	"bytes"
	"context"
	"sync"

	"github.com/viant/afs"
)

// FileStore persists the snapshot as a JSON document at an afs URL
// (plain path, file://, mem:// or any registered scheme).
type FileStore struct {
	mu  sync.Mutex
	URL string
	fs  afs.Service
}

// FileStoreOption customises a FileStore
type FileStoreOption func(*FileStore)

// WithFileService sets the afs service used for storage
func WithFileService(fs afs.Service) FileStoreOption {
	return func(f *FileStore) {
		f.fs = fs
	}
}

// NewFileStore creates a store persisted at URL
func NewFileStore(URL string, options ...FileStoreOption) *FileStore {
	ret := &FileStore{URL: URL, fs: afs.New()}
	for _, opt := range options {
		opt(ret)
	}
	return ret
}

func (f *FileStore) Load(ctx context.Context) (*Snapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ok, err := f.fs.Exists(ctx, f.URL)
	if err != nil || !ok {
		return nil, err
	}
	data, err := f.fs.DownloadWithURL(ctx, f.URL)
	if err != nil {
		return nil, err
	}
	return decode(data)
}

func (f *FileStore) Save(ctx context.Context, snapshot *Snapshot) error {
	data, err := encode(snapshot)
	if err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	tmp := f.URL + ".tmp"
	if err = f.fs.Upload(ctx, tmp, 0o600, bytes.NewReader(data)); err != nil {
		return err
	}
	return f.fs.Move(ctx, tmp, f.URL)
}

func (f *FileStore) Clear(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	ok, err := f.fs.Exists(ctx, f.URL)
	if err != nil || !ok {
		return err
	}
	return f.fs.Delete(ctx, f.URL)
}
