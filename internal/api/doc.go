// Package api exposes the JSON HTTP surface: session lifecycle, chat
// turns, ingestion triggering, administrative key listing, and health
// probes.
//
// Routing uses net/http method patterns on a plain ServeMux. Handlers
// translate domain errors to status codes at this boundary and nowhere
// else: invalid input maps to 400, a missing session to 404, and every
// infrastructure failure to a generic 500 so provider details never
// leak to clients.
package api
