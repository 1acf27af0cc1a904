// Package publish ships build artifacts to their deployment target.
package publish

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// ErrNoArtifacts is returned when a release has nothing to publish.
var ErrNoArtifacts = errors.New("publish: release has no artifacts")

// Artifact is a single file to publish.
type Artifact struct {
	// Name is the artifact's path within the release (e.g. "bundle.js").
	Name string

	// ContentType is the MIME type the artifact is served with.
	ContentType string

	// Body is the artifact content.
	Body []byte
}

// Release is one versioned set of build outputs.
type Release struct {
	// Version names the release (e.g. a git sha or timestamp).
	Version string

	// Artifacts are the files in the release.
	Artifacts []Artifact

	// CreatedAt is when the release was built.
	CreatedAt time.Time
}

// Publisher ships a release to a deployment target.
type Publisher interface {
	Publish(ctx context.Context, rel Release) error
}

// DirPublisher writes releases to a local directory, one subdirectory
// per version. It is the default target and the reference for remote
// implementations.
type DirPublisher struct {
	// Root is the directory releases are written under.
	Root string
}

// NewDirPublisher creates a directory-backed publisher.
func NewDirPublisher(root string) *DirPublisher {
	return &DirPublisher{Root: root}
}

// Publish writes every artifact under Root/Version/.
func (p *DirPublisher) Publish(ctx context.Context, rel Release) error {
	if len(rel.Artifacts) == 0 {
		return ErrNoArtifacts
	}
	if rel.Version == "" {
		return fmt.Errorf("publish: release version is empty")
	}

	dir := filepath.Join(p.Root, rel.Version)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	for _, a := range rel.Artifacts {
		if err := ctx.Err(); err != nil {
			return err
		}
		dst := filepath.Join(dir, filepath.FromSlash(a.Name))
		if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
			return err
		}
		if err := os.WriteFile(dst, a.Body, 0644); err != nil {
			return err
		}
	}

	return nil
}

// Prune removes release directories older than maxAge, keeping at
// least keep of the newest ones regardless of age.
func (p *DirPublisher) Prune(maxAge time.Duration, keep int) error {
	entries, err := os.ReadDir(p.Root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	type rel struct {
		name string
		mod  time.Time
	}
	var rels []rel
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		rels = append(rels, rel{name: e.Name(), mod: info.ModTime()})
	}

	// Newest first.
	for i := 0; i < len(rels); i++ {
		for j := i + 1; j < len(rels); j++ {
			if rels[j].mod.After(rels[i].mod) {
				rels[i], rels[j] = rels[j], rels[i]
			}
		}
	}

	cutoff := time.Now().Add(-maxAge)
	for i, r := range rels {
		if i < keep {
			continue
		}
		if r.mod.Before(cutoff) {
			os.RemoveAll(filepath.Join(p.Root, r.name))
		}
	}

	return nil
}
