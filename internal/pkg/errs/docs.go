// Package errs defines the error vocabulary shared by the domain model, the
// use cases, and the adapters.
//
// Four validation error types cover malformed input and missing objects:
//   - ValueIsRequiredError: a mandatory value is absent
//   - ValueIsInvalidError: a value fails a domain rule
//   - ValueIsOutOfRangeError: a value falls outside its allowed interval
//   - ObjectNotFoundError: a referenced object does not exist
//
// Each comes as a struct with detail fields, constructors with and without a
// cause, and an Unwrap that yields the matching sentinel (ErrValueIsRequired
// and friends) so callers can classify with errors.Is.
//
// RejectionError is different in kind: it reports a well-formed request that a
// domain rule refuses (closed hours, exhausted capacity, stale state) and
// carries a stable machine-readable reason code. Transports map rejections
// onto structured failure responses and everything else onto transport-level
// errors.
package errs
