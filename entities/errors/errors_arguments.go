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

// ErrInvalidArgument marks programmer errors such as a nil source or an empty
// value list handed to a pipeline builder.
var ErrInvalidArgument = errors.New("invalid argument")

// ErrSelfReference is returned when a pipeline is asked to stream its own
// result back into itself.
var ErrSelfReference = fmt.Errorf("pipeline can not consume its own result: %w", ErrInvalidArgument)

func NewInvalidArgument(format string, args ...interface{}) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrInvalidArgument)
}

func IsInvalidArgument(err error) bool {
	return errors.Is(err, ErrInvalidArgument)
}
