// Package sanitizer provides input normalization functions applied to
// user-supplied text before validation and storage.
//
// All normalization functions are idempotent - applying them multiple times
// produces the same result. Functions handle invalid input gracefully,
// returning empty strings rather than errors.
package sanitizer
