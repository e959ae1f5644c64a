// package tidal implements the remote TIDAL capability: the persisted OAuth
// session handle, the non-blocking device-authorization handshake, and the
// Catalog interface the operation layer calls for search, favorites, track
// radio, and playlist edits.
//
// Everything here is a thin, typed HTTP client. Policy — pagination,
// fan-out, retry decisions, response envelopes — lives above in
// internal/tasks and internal/routes.
package tidal
