package lang

import "errors"

// ErrUnsupported indicates a language name or code absent from the backend's table.
var ErrUnsupported = errors.New("unsupported language")
