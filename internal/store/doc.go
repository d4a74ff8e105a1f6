// Package store provides an HTTP client for the remote travel-record store.
//
// The remote API offers plain CRUD over two collections, /voyages and
// /journals, addressable by id and filterable by simple equality query
// parameters (userId, isPublic, voyageId). There are no transactions and no
// server-side search; all reconciliation intelligence lives in the catalog
// controller, not here.
//
// The client is deliberately thin:
//
//   - No caching or retries; callers decide refresh cadence.
//   - Journals are read-only from this client's perspective.
//   - A 404 from update or delete surfaces as ErrNotFound so callers can
//     apply the fallback-to-create and idempotent-delete rules.
//
// Wire types keep the remote schema's French field names in their JSON tags
// (titre, pays, dateDebut, dateFin, galleries). Voyage.Normalize resolves the
// legacy single-image fields into the gallery representation used everywhere
// above this layer.
//
// The Client struct is safe for concurrent use; the underlying http.Client
// handles pooling. Requests carry a 5-second timeout and a nomadex/ user
// agent.
package store
