//go:build windows

package subtitle

import (
	"os"
	"path/filepath"
)

// renameio does not build on windows; same contract over os.Rename.
type pendingDocument struct {
	*os.File
	path string
	done bool
}

func newPendingDocument(path string) (*pendingDocument, error) {
	f, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return nil, err
	}
	return &pendingDocument{File: f, path: path}, nil
}

func (p *pendingDocument) Cleanup() error {
	if p.done {
		return nil
	}
	_ = p.File.Close()
	return os.Remove(p.File.Name())
}

func (p *pendingDocument) CloseAtomicallyReplace() error {
	if err := p.File.Close(); err != nil {
		return err
	}
	if err := os.Rename(p.File.Name(), p.path); err != nil {
		return err
	}
	p.done = true
	return nil
}
