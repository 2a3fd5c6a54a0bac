package bot

import (
	"os"
	"path/filepath"
)

// ProtocolStore tracks the protocol template file on disk plus the
// platform file id of the last pinned copy. Access is serialized by the
// event loop, so no locking here.
type ProtocolStore struct {
	path       string
	attachedID string
}

func NewProtocolStore(path string) *ProtocolStore {
	return &ProtocolStore{path: path}
}

func (p *ProtocolStore) Path() string     { return p.path }
func (p *ProtocolStore) FileName() string { return filepath.Base(p.path) }

func (p *ProtocolStore) Exists() bool {
	info, err := os.Stat(p.path)
	return err == nil && !info.IsDir()
}

func (p *ProtocolStore) Size() int64 {
	info, err := os.Stat(p.path)
	if err != nil {
		return 0
	}
	return info.Size()
}

// Delete removes the file and forgets the pinned copy.
func (p *ProtocolStore) Delete() error {
	p.attachedID = ""
	return os.Remove(p.path)
}

func (p *ProtocolStore) AttachedID() string      { return p.attachedID }
func (p *ProtocolStore) SetAttachedID(id string) { p.attachedID = id }
