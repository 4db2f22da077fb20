package fileappender

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrNoStorage is returned by a Resolver that has no storage available
var ErrNoStorage = errors.New("fileappender: no storage directory available")

// Resolver supplies the writable storage directory of the host application
type Resolver interface {
	Resolve() (string, error)
}

// ResolverFunc adapts a function to the Resolver interface
type ResolverFunc func() (string, error)

// Resolve calls f
func (f ResolverFunc) Resolve() (string, error) {
	return f()
}

// StaticResolver always resolves to the same directory
type StaticResolver string

// Resolve returns the directory, or ErrNoStorage when it is empty
func (s StaticResolver) Resolve() (string, error) {
	if s == "" {
		return "", ErrNoStorage
	}
	return string(s), nil
}

// UserCacheResolver resolves to the per-user cache directory joined with app
func UserCacheResolver(app string) Resolver {
	return ResolverFunc(func() (string, error) {
		dir, err := os.UserCacheDir()
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrNoStorage, err)
		}
		return filepath.Join(dir, app), nil
	})
}
