// Package conv provides allocation free, locale independent scalar converters.
// Each converter reads from the start of a byte slice and reports how many bytes it consumed,
// so callers can either scan a buffer in place or require a whole token to be used.
package conv
