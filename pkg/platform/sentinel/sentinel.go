package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Stores return these (optionally
// wrapped) so services can translate them into domain errors.
//
// These represent factual states about resources, not validation failures:
// - ErrNotFound: document does not exist in the store
//
// For validation errors (bad input, malformed ids), use pkg/domain-errors
// directly.
var ErrNotFound = errors.New("not found")
