// Package models defines domain entities for the contact sync service.
//
// The package contains two categories of types:
//
// 1. Data Transfer Objects (DTOs): lightweight structs representing external platform data
//   - [Contact] : a CRM contact, normalized on construction
//   - [DirectoryEntry] : a shared phone-directory entry with its anchor sets
//
// 2. Persistent Entities: database-backed records
//   - [SyncRun] : the summary of one reconciliation run, kept for history
//
// Contacts and directory entries live only for the duration of one run; they
// are never persisted. Normalization (lowercased/trimmed emails, trimmed
// phones) happens when the DTOs are built so the reconciliation engine can
// compare values directly.
package models
