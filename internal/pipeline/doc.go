// Package pipeline orchestrates one build-and-release run.
//
// A run fans out one concurrent job per registry target. Each job owns a
// fresh isolated environment and moves through provisioning, building,
// and packaging; its terminal status and error are recorded on the job
// rather than propagated, so sibling jobs are never affected by a
// failure. The fan-in point waits for every job unconditionally.
//
// After fan-in, release publishing runs only when the triggering ref is a
// release tag. Publishing with failed jobs is intentional: the
// publisher's preflight is the single place that decides an incomplete
// asset set must not become a release.
//
//	trigger, err := pipeline.Detect(ref, cfg.Release.TagPattern)
//	if err != nil { ... }
//	report := p.Run(ctx, trigger, false)
//	for _, name := range report.Failed() { ... }
package pipeline
