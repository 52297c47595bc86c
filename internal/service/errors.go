package service

import "errors"

var ErrInvalidProvider = errors.New("not a valid payment provider")
