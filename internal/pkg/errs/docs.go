// Package errs defines the standardized error family used across the
// fulfillment service.
//
// Each kind pairs a sentinel (for errors.Is classification) with a struct
// type carrying the parameter name, the offending value and an optional
// cause. Constructors come in plain and WithCause forms; Unwrap always
// resolves to the kind's sentinel, so callers classify without caring which
// layer produced the error.
//
// ObjectNotFound and VersionIsInvalid originate in the persistence adapters;
// the ValueIs* kinds originate in domain and command validation.
package errs
