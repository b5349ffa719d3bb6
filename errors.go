package armstrong

import "errors"

var (
	ErrInvalidTool      = errors.New("invalid tool specification")
	ErrInvalidParameter = errors.New("invalid parameter")
	ErrInvalidHistory   = errors.New("invalid history")
	ErrNoResponse       = errors.New("no response from model")
)
