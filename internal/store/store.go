package store

import (
	"fmt"
	"sort"
	"sync"

	"github.com/opencontainers/go-digest"
)

// A packaged build output, immutable once created.
type Artifact struct {
	AssetName   string        // Registry asset name the artifact is keyed by.
	Path        string        // Host path of the packaged archive.
	ContentType string        // MIME type the artifact is uploaded with.
	Digest      digest.Digest // Content digest of the archive.
}

// Holds one packaged artifact per target until the fan-in stage.
//
// Safe for concurrent use. Asset names are statically assigned by the
// registry and unique by construction, so a duplicate put is a logic
// error, not a race, and fails loudly rather than silently overwriting.
type Store struct {
	mu        sync.Mutex
	artifacts map[string]Artifact
}

// Creates an empty store.
func New() *Store {
	return &Store{artifacts: make(map[string]Artifact)}
}

// Adds an artifact. Fails on a duplicate asset name.
func (s *Store) Put(artifact Artifact) error {
	if artifact.AssetName == "" {
		return fmt.Errorf("%w: artifact with empty asset name", ErrStore)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.artifacts[artifact.AssetName]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicateArtifact, artifact.AssetName)
	}

	s.artifacts[artifact.AssetName] = artifact
	return nil
}

// Looks up an artifact by asset name.
func (s *Store) Get(assetName string) (Artifact, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	artifact, ok := s.artifacts[assetName]
	return artifact, ok
}

// Returns all artifacts sorted by asset name.
//
// Sorting keeps reports and upload order deterministic regardless of job
// completion order.
func (s *Store) All() []Artifact {
	s.mu.Lock()
	defer s.mu.Unlock()

	all := make([]Artifact, 0, len(s.artifacts))
	for _, artifact := range s.artifacts {
		all = append(all, artifact)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].AssetName < all[j].AssetName })
	return all
}

// Returns the number of stored artifacts.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.artifacts)
}
