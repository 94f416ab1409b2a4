package game

import "errors"

// ErrDataIntegrity marks malformed definitions: a missing card, an unknown
// effect kind, an enemy without a pattern. Inside a sequence it aborts only
// the step that hit it.
var ErrDataIntegrity = errors.New("data integrity violation")
