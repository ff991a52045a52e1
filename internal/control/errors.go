package control

import "github.com/pkg/errors"

// ErrInconsistentWorld is returned by the switch director when no pattern's
// guard matches the observed world. Unlike a topology
// violation, this can happen with a correctly configured layout -- two
// trains occupying positions the pattern table never anticipated -- so it is
// reported rather than panicked: Update() leaves Command untouched for that
// tick and surfaces the fault to its caller.
var ErrInconsistentWorld = errors.New("switch director: no pattern matches the observed world")
