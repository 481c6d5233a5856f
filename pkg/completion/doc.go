// Package completion calls the upstream chat completion service.
//
// Client.Complete sends a two-turn conversation (a system turn built from
// the persona template and a user turn carrying the message) and classifies
// what came back:
//
//   - Reply: the first choice carried string content, possibly ""
//   - EmptyChoices: no choices, or the first one had no or null content
//   - MalformedResponse: the body was not the expected JSON shape
//
// Transport-level failures are returned as errors instead: *StatusError for
// non-2xx responses, *TimeoutError when the call exceeded its deadline, and
// *TransportError for network failures. Each call is bounded by the
// configured timeout and by the caller's context. There are no retries.
//
// Callers must pass already-sanitized persona and message text.
package completion
