// Package runtime provides isolated execution environments for build jobs.
//
// Each job owns one [Environment]: commands are executed inside it, the
// built binary is pulled out of it, and closing it releases all resources.
// Because provisioning mutates the environment (installed packages, search
// paths), per-job environments are what keep concurrent jobs from
// interfering with each other.
//
// Two [Provider] backends exist. [Containerd] starts one container per job
// from its platform class's build image, stages the source tree into it,
// and attaches provisioning and build commands as exec processes.
// [Local] runs commands as host subprocesses; it trades isolation for
// zero setup and is intended for development machines.
//
// Example usage:
//
//	provider, err := runtime.NewContainerd("/run/containerd/containerd.sock", "relforge", ".")
//	if err != nil {
//	    return err
//	}
//	defer provider.Close()
//
//	env, err := provider.Environment(ctx, "job-linux-x86_64", runtime.EnvironmentOptions{
//	    Image: "docker.io/library/rust:1-bookworm",
//	})
//	if err != nil {
//	    return err
//	}
//	defer env.Close(ctx)
//
//	result, err := env.Exec(ctx, "cargo build --release", nil, "")
package runtime
