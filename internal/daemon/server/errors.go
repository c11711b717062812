package server

import (
	"errors"
	"fmt"
)

var errMissingPath = errors.New("path is required")

func errInvalidCount(raw string) error {
	return fmt.Errorf("invalid entry count %q", raw)
}
