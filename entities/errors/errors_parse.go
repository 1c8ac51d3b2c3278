//                           _       _
// __      _____  __ ___   ___  __ _| |_ ___
// \ \ /\ / / _ \/ _` \ \ / / |/ _` | __/ _ \
//  \ V  V /  __/ (_| |\ V /| | (_| | ||  __/
//   \_/\_/ \___|\__,_| \_/ |_|\__,_|\__\___|
//
//  Copyright © 2016 - 2026 Weaviate B.V. All rights reserved.
//
//  CONTACT: hello@weaviate.io
//

package errors

import (
	"errors"
	"fmt"
)

// ParseError is returned when a token can not be converted to a uint64.
type ParseError struct {
	// Source describes where the token came from, e.g. a file path or "list".
	Source string
	// Line is 1-based. For list sources it is the position in the list.
	Line  int64
	Token string
	Err   error
}

func NewParseError(source string, line int64, token string, err error) *ParseError {
	return &ParseError{Source: source, Line: line, Token: token, Err: err}
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s:%d: invalid token %q: %v", e.Source, e.Line, e.Token, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

func IsParseError(err error) bool {
	var pe *ParseError
	return errors.As(err, &pe)
}
