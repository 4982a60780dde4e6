package release

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/relforgehq/relforge/internal/registry"
	"github.com/relforgehq/relforge/internal/store"
)

// Publisher state.
//
// The publisher moves strictly forward: NotTriggered -> Creating ->
// Uploading -> Completed | PartiallyFailed.
type State string

const (
	StateNotTriggered    State = "not-triggered"
	StateCreating        State = "creating"
	StateUploading       State = "uploading"
	StateCompleted       State = "completed"
	StatePartiallyFailed State = "partially-failed"
)

// The release produced by a pipeline run.
//
// Uploaded assets are keyed by the name they were published under, which
// is the packaged archive's file name. At completion the set holds
// exactly one entry per registry target; a superset or subset signals a
// defect.
type Record struct {
	Tag            string              // Tag the release was created for.
	UploadedAssets map[string]struct{} // Published asset names, one per uploaded archive.
}

// Outcome of a publish attempt.
type Result struct {
	State   State    // Terminal publisher state.
	Record  *Record  // Release record; nil when no release was created.
	Missing []string // Asset names absent from the store, in registry order.
	Failed  []string // Asset names whose upload failed, in registry order.
}

// Publishes packaged artifacts as assets of a single release.
type Publisher struct {
	client Client             // Release API boundary.
	reg    *registry.Registry // Expected asset set.
	st     *store.Store       // Packaged artifacts from the fan-out stage.
}

// Creates a publisher over the given API client, registry, and store.
func NewPublisher(client Client, reg *registry.Registry, st *store.Store) *Publisher {
	return &Publisher{client: client, reg: reg, st: st}
}

// Creates one release for the tag and uploads every registry artifact.
//
// Missing artifacts are a hard stop checked before any API call: a
// release with three of five platform binaries is worse than no release,
// so nothing is created and the missing asset names are reported. After
// creation, upload failures are accumulated across all assets rather than
// stopping at the first, and any failure yields PartiallyFailed.
// Completed is returned only when every registry asset was uploaded.
func (p *Publisher) Publish(ctx context.Context, tag string) (*Result, error) {
	if missing := p.missing(); len(missing) > 0 {
		slog.Error("refusing to create an incomplete release",
			"tag", tag,
			"missing", strings.Join(missing, ", "),
		)
		return &Result{State: StatePartiallyFailed, Missing: missing},
			fmt.Errorf("%w: %s", ErrMissingAssets, strings.Join(missing, ", "))
	}

	slog.Info("creating release", "tag", tag)

	uploadURL, err := p.client.CreateRelease(ctx, tag, tag)
	if err != nil {
		return &Result{State: StateCreating},
			fmt.Errorf("%w: tag %s: %w", ErrReleaseCreate, tag, err)
	}

	record := &Record{Tag: tag, UploadedAssets: make(map[string]struct{})}
	result := &Result{State: StateUploading, Record: record}

	var uploadErrs []error
	for _, spec := range p.reg.Targets() {
		artifact, ok := p.st.Get(spec.AssetName)
		if !ok {
			// The preflight makes this unreachable; check anyway so a
			// racing store can never shrink a published release silently.
			result.Missing = append(result.Missing, spec.AssetName)
			uploadErrs = append(uploadErrs, fmt.Errorf("%w: %s", ErrMissingAssets, spec.AssetName))
			continue
		}

		name := filepath.Base(artifact.Path)
		slog.Info("uploading asset", "asset", name, "content_type", artifact.ContentType)

		if err := p.client.UploadAsset(ctx, uploadURL, artifact.Path, name, artifact.ContentType); err != nil {
			result.Failed = append(result.Failed, spec.AssetName)
			uploadErrs = append(uploadErrs, fmt.Errorf("%w: %s: %w", ErrUpload, name, err))
			continue
		}

		record.UploadedAssets[name] = struct{}{}
	}

	if len(uploadErrs) > 0 {
		result.State = StatePartiallyFailed
		return result, errors.Join(uploadErrs...)
	}

	result.State = StateCompleted
	slog.Info("release completed", "tag", tag, "assets", len(record.UploadedAssets))
	return result, nil
}

// Returns the registry asset names absent from the store, in registry
// order.
func (p *Publisher) missing() []string {
	var missing []string
	for _, name := range p.reg.AssetNames() {
		if _, ok := p.st.Get(name); !ok {
			missing = append(missing, name)
		}
	}
	return missing
}
