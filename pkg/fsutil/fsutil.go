// Package fsutil writes result files with optional UID:GID ownership, for
// runs executed as root on behalf of another user.
package fsutil

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Owner holds a parsed UID/GID pair for result-file ownership.
type Owner struct {
	UID int
	GID int
}

// ParseOwner parses a "UID:GID" string. An empty string means no
// ownership change and yields a nil Owner.
func ParseOwner(owner string) (*Owner, error) {
	if owner == "" {
		return nil, nil
	}

	uidStr, gidStr, ok := strings.Cut(owner, ":")
	if !ok {
		return nil, fmt.Errorf("invalid owner %q, expected UID:GID", owner)
	}

	uid, err := strconv.Atoi(uidStr)
	if err != nil {
		return nil, fmt.Errorf("invalid UID %q: %w", uidStr, err)
	}

	gid, err := strconv.Atoi(gidStr)
	if err != nil {
		return nil, fmt.Errorf("invalid GID %q: %w", gidStr, err)
	}

	return &Owner{UID: uid, GID: gid}, nil
}

// Chown sets ownership on path. Best-effort; a nil receiver or a chown
// failure is silently ignored.
func (o *Owner) Chown(path string) {
	if o == nil {
		return
	}

	_ = os.Chown(path, o.UID, o.GID)
}

// MkdirAll creates the directory tree and applies ownership to the leaf.
func MkdirAll(path string, perm os.FileMode, owner *Owner) error {
	if err := os.MkdirAll(path, perm); err != nil {
		return err
	}

	owner.Chown(path)

	return nil
}

// Create creates a file and applies ownership.
func Create(path string, owner *Owner) (*os.File, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}

	owner.Chown(path)

	return f, nil
}
