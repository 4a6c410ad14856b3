// Package api handles incoming HTTP requests, request validation and
// response formatting. It adapts HTTP to the services in internal/service.
//
// Errors are written as {"error": ..., "trace_id": ...}. Status codes come
// from MapErrorToStatusCode; AI parse and validation failures additionally
// carry the offending model text as "raw_response".
package api
