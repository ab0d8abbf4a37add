// Package services defines the [SourceService] and [DirectoryService]
// interfaces for the two upstream platforms and implements them for HubSpot
// and Dialpad.
//
// # Authentication
//
// Both platforms use static bearer API keys. Authenticate builds an
// [oauth2] client from a [oauth2.StaticTokenSource] so every request
// carries the Authorization header; there is no token exchange or refresh.
//
// # Pagination
//
// Both clients follow cursor-based pagination until the backend stops
// returning a cursor, accumulating every page into one ordered slice.
// HubSpot uses an `after` token inside the search request body (or as a
// query parameter on the plain list endpoint); Dialpad uses a `cursor`
// query parameter. A non-2xx status on any page fails the whole fetch;
// there is no partial-result tolerance.
//
// # Error Handling
//
// Services use typed errors from the shared package:
//   - [shared.ErrAPIRequest] : HTTP request returned a non-2xx status
//   - [shared.ErrMissingCredentials] : required credential absent
//
// # API Mappings
//
// Both services convert platform-specific JSON payloads to [models.Contact]
// and [models.DirectoryEntry], normalizing emails (lowercase, trimmed) and
// phones (trimmed) on the way in.
package services
