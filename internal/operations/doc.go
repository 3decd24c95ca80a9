// Package operations tracks what a cleaning run did.
//
// RunManifest is the single source of truth for one run: per-file ingestion
// outcomes, row accounting for every cleaning step, and the written
// artifacts with their BLAKE2b-256 content digests. The cleaning pipeline
// fills it in as it goes and saves it as JSON next to the artifacts, in
// both the success and the failure case, so a run can be audited without
// replaying it.
package operations
