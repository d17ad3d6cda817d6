// Package client contains the client-side building blocks for talking to the
// file-drop server.
//
// # Overview
//
//  1. A transport-agnostic API contract (see the Client interface): Upload,
//     Pickup, FileGroup, Delete and Download.
//  2. A concrete HTTP implementation (see HTTPClient) that streams multipart
//     uploads with byte-level progress, stamps every request with an
//     X-Request-ID, and classifies failures.
//  3. Local persistence bootstrap (InitDatabase, RunMigrations) wiring an
//     SQLite database and applying embedded goose migrations.
//
// # Error Handling
//
// Every API failure is an *APIError whose Message is safe to show the user.
// Match the failure class with errors.Is: ErrTransport (non-OK status or
// network failure), ErrApplication (in-band success=false), or
// ErrMalformedResponse (a 200 reply that could not be read). A 413 reply also
// matches ErrFileTooLarge.
//
// # Paths
//
// ManagePath and DownloadPath build same-origin relative paths; the server is
// never trusted to supply absolute URLs.
package client
