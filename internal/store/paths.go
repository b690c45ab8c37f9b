package store

import (
	"os"
	"path/filepath"
)

func MarkerPath(root string) string {
	return filepath.Join(root, "last-update")
}

func AuditPath(root string) string {
	return filepath.Join(root, "audit.log")
}

func EnsureLayout(root string) error {
	return os.MkdirAll(root, 0o755)
}
