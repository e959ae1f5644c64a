// package routes implements every account operation as a
// validate → call-remote → reshape step returning a (payload, status) pair.
//
// The contract is uniform: status 200 means success and the payload is the
// result body; any other status carries an {"error": ...} payload. The HTTP
// server, MCP tools, and CLI all unwrap it the same way. Remote failures on
// listing operations degrade to partial results inside internal/tasks;
// everything surfacing here as non-200 is either caller error, an auth
// problem, or a mutating call that genuinely failed.
package routes
