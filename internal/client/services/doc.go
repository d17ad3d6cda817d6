// Package services contains the page-scoped coordinators of the file-drop
// client.
//
// Each coordinator owns the state of one page and reconciles it with the API:
//
//   - Uploader stages local files, streams them with progress telemetry and
//     surfaces the pickup code and management path.
//   - Pickup redeems a pickup code for a retrieval capability, lists the files
//     and throttles sequential downloads behind a per-file lock table.
//   - Manager polls a file group's status, persists the auto-refresh
//     preference and runs the two-step delete confirmation.
//
// Coordinators never share state. Each one guards its state with a mutex,
// performs network calls without holding it, and renders a full state
// snapshot to its view after every transition. Views are called with the
// coordinator's lock held and must not call back into the coordinator.
//
// Every failure is both alerted to the view with a user-facing message and
// returned to the caller; nothing is retried automatically.
package services
