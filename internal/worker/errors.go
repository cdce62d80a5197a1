package worker

import "errors"

// Error taxonomy. Input and render errors are fatal for the run; synthesis
// and media errors are contained to the item that raised them.
var (
	ErrInput     = errors.New("input error")
	ErrSynthesis = errors.New("synthesis error")
	ErrMedia     = errors.New("media error")
	ErrRender    = errors.New("render error")
)
