// Package integration contains the Integration bounded context.
//
// Key concepts:
//   - Integration: aggregate root for a configured data-sync flow and its deployment status
//   - LogEntry: append-only timeline event recorded by lifecycle transitions and executions
//   - Repository / LogRepository: persistence ports implemented in the infrastructure layer
//
// Status transitions are owned by the aggregate; the application layer is
// responsible for persisting the returned timeline entries in the same
// transaction as the status change.
package integration
