// Package types defines the JSON bodies exchanged on the public HTTP surface.
//
// Every successful response wraps its payload in a "data" member:
//
//	{"data": "pong"}
//	{"data": {"msg": "Meow! What did you have for lunch?"}}
//
// Every error response carries only the HTTP status text:
//
//	{"error": "Internal Server Error"}
//
// Internal failure details never appear in a response body.
package types
