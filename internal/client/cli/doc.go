// Package cli implements the interactive filedrop terminal client.
//
// The client mirrors the pages of the file-drop web front end. Each page is
// a REPL mode backed by one coordinator from package services:
//
//	/upload        stage files, pick retention, upload, copy the pickup code
//	/pickup        redeem a pickup code, list and download files
//	/manage/{id}   watch download status, toggle auto-refresh, delete
//
// "go <path>" switches pages. Platform capabilities of the browser are
// replaced by terminal equivalents: OSC 52 for the clipboard, background
// HTTP downloads into the configured directory for the download anchor,
// and the local SQLite database for localStorage.
package cli
