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
	"strconv"
	"testing"

	pkgerrors "github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestInvalidArgument(t *testing.T) {
	err := NewInvalidArgument("source for %s must not be nil", "distinct")

	assert.EqualError(t, err, "source for distinct must not be nil: invalid argument")
	assert.True(t, IsInvalidArgument(err))
	assert.True(t, IsInvalidArgument(pkgerrors.Wrap(err, "append step")))
	assert.True(t, IsInvalidArgument(ErrSelfReference))
	assert.False(t, IsInvalidArgument(errors.New("other")))
}

func TestParseError(t *testing.T) {
	_, cause := strconv.ParseUint("abc", 10, 64)
	err := NewParseError("ids.txt", 3, "abc", cause)

	assert.Contains(t, err.Error(), `ids.txt:3`)
	assert.Contains(t, err.Error(), `"abc"`)
	assert.True(t, IsParseError(pkgerrors.Wrap(err, "execute")))
	assert.True(t, errors.Is(err, strconv.ErrSyntax))
	assert.False(t, IsParseError(cause))
}
