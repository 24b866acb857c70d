//go:build !windows

package subtitle

import "github.com/google/renameio/v2"

// pendingDocument only appears at its target path once
// CloseAtomicallyReplace succeeds. Cleanup after that is a no-op.
type pendingDocument = renameio.PendingFile

func newPendingDocument(path string) (*pendingDocument, error) {
	return renameio.NewPendingFile(path, renameio.WithPermissions(0644))
}
