// package tasks implements the contact reconciliation run between the CRM
// and the shared phone directory.
//
// The core abstraction is SyncEngine, which fetches today's CRM contacts and
// the full shared directory, builds in-memory lookup indexes, and walks every
// contact through a fixed decision order to produce creates, updates, deletes,
// and skips. Operations emit progress updates via channels for non-blocking
// status reporting to CLI/UI layers.
package tasks
