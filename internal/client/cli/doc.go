// Package cli implements contentctl, the yardcms admin tool.
//
// Local commands open the configured store directly:
//   - user create USERNAME   add an operator (password prompted twice)
//   - seed --file F          write default content when none exists
//   - history list | prune   inspect the index, delete orphaned snapshots
//   - export                 archive live content and snapshots to a file or S3
//
// Remote commands log in to a running server over HTTP:
//   - remote history | show TS | revert TS
package cli
