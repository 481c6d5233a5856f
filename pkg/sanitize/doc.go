// Package sanitize normalizes free-text fields before they are embedded in an
// upstream completion request.
//
// Only Unicode letters, Unicode numbers and whitespace survive. Punctuation,
// symbols, control characters and invalid UTF-8 are dropped, which keeps
// prompt-injection style markup out of the system turn without mangling
// legitimate multilingual text:
//
//	sanitize.Sanitize("Tom!! <script>")   // "Tom script"
//	sanitize.Sanitize("Café № 5, 東京")    // "Café  5 東京"
//
// Whitespace is the set IsSpace accepts: the Zs category, the ASCII
// controls \t \n \v \f \r, the line and paragraph separators and U+FEFF.
// U+0085 is not whitespace here.
//
// Truncate bounds the result by rune count so multi-byte text is never split.
package sanitize
