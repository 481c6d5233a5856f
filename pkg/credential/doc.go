// Package credential loads and holds the upstream API key.
//
// The key is read once at startup from a Source (a JSON file under the
// installation root, or an environment variable) into a Holder. The Holder
// is passed by reference to the completion client; nothing in the process
// can read the key through package-level state.
//
// A Credential never prints its value. String, GoString and LogValue all
// return a redacted form, so passing one to fmt or slog is safe. Use Reveal
// only where the raw key must go on the wire.
//
// Security considerations:
//   - Credential files should be mode 0600 or 0400; wider modes are logged
//   - Relative paths may not escape the installation root
//   - An optional Watcher reports file changes, but the held key is never
//     swapped at runtime; a restart is required
package credential
