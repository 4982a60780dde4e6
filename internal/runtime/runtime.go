package runtime

import (
	"context"
	"fmt"
	"log/slog"
	goruntime "runtime"

	containerd "github.com/containerd/containerd/v2/client"
	"github.com/containerd/platforms"
)

const (

	// Snapshotter used for container filesystems. fuse-overlayfs provides
	// overlay semantics without requiring root privileges (no mount(2)),
	// allowing the pipeline to run as a regular user.
	snapshotter = "fuse-overlayfs"

	// OCI runtime shim for running build containers.
	ociRuntime = "io.containerd.runc.v2"

	// Directory the source tree is staged into inside a build container.
	containerSource = "/src"
)

// Containerd-backed environment provider.
//
// Every job gets its own container started from its platform class's build
// image, with the source tree staged into it. Cross-platform targets run
// on Linux builder images; the class only selects which cross-toolchain
// the provisioner installs.
type Containerd struct {
	client *containerd.Client // Containerd client for managing containers and images.
	source string             // Host source tree staged into each container.
}

// Creates a containerd provider connected to the socket at the given
// address.
//
// The namespace scopes all containerd operations. The provider must be
// closed when no longer needed.
func NewContainerd(address, namespace, source string) (*Containerd, error) {
	client, err := containerd.New(address, containerd.WithDefaultNamespace(namespace))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRuntime, err)
	}
	return &Containerd{client: client, source: source}, nil
}

// Closes the containerd client connection.
func (c *Containerd) Close() error {
	return c.client.Close()
}

// Creates a container environment for one job.
//
// The build image is pulled and unpacked for the host platform, a
// container is created with a fresh snapshot, a long-running task is
// started so that subsequent Exec calls have a running process to attach
// to, and the source tree is staged into the container. Any stale
// container with the same ID from a previous run is removed first.
func (c *Containerd) Environment(ctx context.Context, id string, opts EnvironmentOptions) (Environment, error) {
	image, err := c.pull(ctx, opts.Image)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRuntime, err)
	}

	ctr := &Container{
		client:   c.client,
		id:       id,
		platform: hostPlatform(),
	}

	// Remove any stale container from a previous run with the same ID.
	ctr.remove(ctx)

	created, err := ctr.create(ctx, image)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRuntime, err)
	}

	if err := ctr.startTask(ctx, created); err != nil {
		created.Delete(ctx, containerd.WithSnapshotCleanup)
		return nil, fmt.Errorf("%w: %w", ErrRuntime, err)
	}

	if err := ctr.stageSource(ctx, c.source, containerSource); err != nil {
		ctr.Close(ctx)
		return nil, fmt.Errorf("%w: %w", ErrRuntime, err)
	}

	slog.Debug("container environment ready", "id", id, "image", opts.Image)

	return ctr, nil
}

// Pulls and unpacks a build image for the host platform.
//
// Pulling an already-present image is a cheap no-op, so concurrent jobs
// sharing a build image do not repeat the download.
func (c *Containerd) pull(ctx context.Context, ref string) (containerd.Image, error) {
	p, err := platforms.Parse(hostPlatform())
	if err != nil {
		return nil, err
	}

	return c.client.Pull(ctx, ref,
		containerd.WithPlatformMatcher(platforms.Only(p)),
		containerd.WithPullSnapshotter(snapshotter),
		containerd.WithPullUnpack,
	)
}

// Returns the OCI platform build containers run as.
//
// Containers always run natively; producing code for a foreign target is
// the cross-toolchain's job, not QEMU's.
func hostPlatform() string {
	return "linux/" + goruntime.GOARCH
}
