package renderer

import "errors"

// ErrUnknownColor is returned for a flat colour that is neither a palette
// index nor one of the FlatColor constants.
var ErrUnknownColor = errors.New("renderer: unrecognized color")
