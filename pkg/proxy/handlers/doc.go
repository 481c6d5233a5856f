// Package handlers provides the HTTP endpoint handlers.
//
// # Handler Types
//
//   - MessageHandler: POST /inbox/send_message, relays a message to the
//     completion service and returns the persona's reply
//   - WelcomeHandler: ANY /, a fixed greeting
//   - PingHandler: ANY /ping, a liveness probe
//   - NotFoundHandler: every other path
//
// # Request Flow
//
// MessageHandler follows a fixed pipeline:
//
//  1. Reject methods other than POST with 405
//  2. Decode the body, capped in size; malformed input is 400
//  3. Sanitize and bound recipient and msg
//  4. Call the completion client
//  5. Map the result to 200 or an opaque 500
//
// Failure details are logged with the request ID. Clients only ever see
// the HTTP status text.
package handlers
