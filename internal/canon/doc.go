// Package canon produces canonical JSON encodings and domain-separated
// SHA-256 digests of engine state.
//
// Two encodings of equal values are byte-identical: object keys are
// sorted by UTF-16 code units, strings are NFC normalized, and HTML
// characters are never escaped. The controller relies on this to compare
// table state across independent runs of the same session.
package canon
