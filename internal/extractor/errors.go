package extractor

import "errors"

// ErrValidation marks a request rejected before any model call is
// made. No artifacts exist for a request that fails this way.
var ErrValidation = errors.New("extractor: invalid request")
