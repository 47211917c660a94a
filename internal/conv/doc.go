// Package conv converts untrusted integers read from disk into ints.
//
// Row counts, blob lengths and entry tables all arrive as fixed-width
// integers. Converting them with a plain cast would wrap on 32-bit
// platforms or on corrupt input, so decoders go through ToInt and surface
// ErrOverflow instead.
package conv
