package domain

import "errors"

var ErrInvalidTransition = errors.New("invalid card status transition")
