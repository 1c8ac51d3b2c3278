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

package sources

import (
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weaviate/setstream/adapters/repos/roaringset"
	enterrors "github.com/weaviate/setstream/entities/errors"
)

func drain(t *testing.T, src Source) []uint64 {
	t.Helper()

	values, err := tryDrain(src)
	require.NoError(t, err)
	return values
}

func tryDrain(src Source) ([]uint64, error) {
	p, err := src.Open()
	if err != nil {
		return nil, err
	}
	defer p.Close()

	var values []uint64
	for p.HasNext() {
		if _, err := p.Next(func(v uint64) bool {
			values = append(values, v)
			return true
		}); err != nil {
			return values, err
		}
	}
	return values, p.Err()
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestParseToken(t *testing.T) {
	tests := []struct {
		token    string
		expected uint64
		wantErr  bool
	}{
		{token: "0", expected: 0},
		{token: "42", expected: 42},
		{token: " 42\r", expected: 42},
		{token: "+7", expected: 7},
		{token: "18446744073709551615", expected: 1<<64 - 1},
		{token: "18446744073709551616", wantErr: true},
		{token: "-1", wantErr: true},
		{token: "1.5", wantErr: true},
		{token: "abc", wantErr: true},
		{token: "", wantErr: true},
	}

	for _, test := range tests {
		t.Run(strconv.Quote(test.token), func(t *testing.T) {
			v, err := ParseToken(test.token)
			if test.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, test.expected, v)
		})
	}
}

func TestListSource(t *testing.T) {
	t.Run("typed values in order", func(t *testing.T) {
		assert.Equal(t, []uint64{3, 1, 2, 2}, drain(t, Values(3, 1, 2, 2)))
	})

	t.Run("string tokens", func(t *testing.T) {
		assert.Equal(t, []uint64{3, 1, 2}, drain(t, Strings("3", " 1", "+2")))
	})

	t.Run("skip and limit", func(t *testing.T) {
		src := List([]uint64{1, 2, 3, 4, 5}, WithSkip(1), WithLimit(2))
		assert.Equal(t, []uint64{2, 3}, drain(t, src))

		src = List([]uint64{1, 2, 3}, WithSkip(10))
		assert.Empty(t, drain(t, src))

		src = List([]uint64{1, 2, 3}, WithLimit(0))
		assert.Empty(t, drain(t, src))
	})

	t.Run("malformed token fails", func(t *testing.T) {
		values, err := tryDrain(Strings("1", "x", "3"))
		require.Error(t, err)
		assert.True(t, enterrors.IsParseError(err))
		assert.Equal(t, []uint64{1}, values)
	})

	t.Run("invalid arguments", func(t *testing.T) {
		for name, src := range map[string]Source{
			"empty values":   Values(),
			"empty tokens":   Strings(),
			"negative skip":  List([]uint64{1}, WithSkip(-1)),
			"negative limit": List([]uint64{1}, WithLimit(-1)),
		} {
			err := src.Validate()
			assert.True(t, enterrors.IsInvalidArgument(err), name)
		}
	})

	t.Run("producer is single use", func(t *testing.T) {
		p, err := Values(1).Open()
		require.NoError(t, err)
		_, err = p.Next(func(uint64) bool { return true })
		require.NoError(t, err)
		assert.False(t, p.HasNext())
		_, err = p.Next(func(uint64) bool { return true })
		assert.Error(t, err)
	})
}

func TestFileSource(t *testing.T) {
	dir := t.TempDir()
	first := writeFile(t, dir, "first.txt", "1\n2\n3\n3\n4\n")
	second := writeFile(t, dir, "second.txt", "5\r\n6\r\n\r\n")
	empty := writeFile(t, dir, "empty.txt", "")
	blanks := writeFile(t, dir, "blanks.txt", "7\n\n  \n8")
	broken := writeFile(t, dir, "broken.txt", "1\n2\nnot-a-number\n4\n")

	t.Run("single file", func(t *testing.T) {
		assert.Equal(t, []uint64{1, 2, 3, 3, 4}, drain(t, Files(first)))
	})

	t.Run("skip", func(t *testing.T) {
		assert.Equal(t, []uint64{2, 3, 3, 4}, drain(t, FilesSkip(1, first)))
	})

	t.Run("skip and limit", func(t *testing.T) {
		assert.Equal(t, []uint64{3}, drain(t, FilesWindow(2, 1, first)))
	})

	t.Run("skip beyond end", func(t *testing.T) {
		assert.Empty(t, drain(t, FilesSkip(100, first)))
	})

	t.Run("empty file", func(t *testing.T) {
		assert.Empty(t, drain(t, Files(empty)))
	})

	t.Run("crlf and blank lines", func(t *testing.T) {
		assert.Equal(t, []uint64{5, 6}, drain(t, Files(second)))
		assert.Equal(t, []uint64{7, 8}, drain(t, Files(blanks)))
	})

	t.Run("skip counts blank lines", func(t *testing.T) {
		gaps := writeFile(t, dir, "gaps.txt", "1\n\n2\n3\n")
		assert.Equal(t, []uint64{2, 3}, drain(t, FilesSkip(2, gaps)))
		assert.Equal(t, []uint64{8}, drain(t, FilesSkip(2, blanks)))
		assert.Equal(t, []uint64{2}, drain(t, FilesWindow(1, 1, gaps)))
	})

	t.Run("concatenated in path order", func(t *testing.T) {
		assert.Equal(t, []uint64{5, 6, 1, 2, 3, 3, 4},
			drain(t, Files(second, empty, first)))
	})

	t.Run("skip and limit span files", func(t *testing.T) {
		assert.Equal(t, []uint64{4, 5},
			drain(t, FilesWindow(4, 2, first, empty, second)))
	})

	t.Run("parse error reports file and line", func(t *testing.T) {
		values, err := tryDrain(Files(broken))
		require.Error(t, err)

		var pe *enterrors.ParseError
		require.ErrorAs(t, err, &pe)
		assert.Equal(t, broken, pe.Source)
		assert.Equal(t, int64(3), pe.Line)
		assert.Equal(t, []uint64{1, 2}, values)
	})

	t.Run("missing file fails validation", func(t *testing.T) {
		src := Files(first, filepath.Join(dir, "missing.txt"))
		err := src.Validate()
		require.Error(t, err)
		assert.ErrorIs(t, err, os.ErrNotExist)
		assert.False(t, enterrors.IsInvalidArgument(err))
	})

	t.Run("invalid arguments", func(t *testing.T) {
		assert.True(t, enterrors.IsInvalidArgument(Files().Validate()))
		assert.True(t, enterrors.IsInvalidArgument(Files("").Validate()))
		assert.True(t, enterrors.IsInvalidArgument(FilesSkip(-1, first).Validate()))
	})

	t.Run("bytes read", func(t *testing.T) {
		p, err := Files(first).Open()
		require.NoError(t, err)
		for p.HasNext() {
			_, err := p.Next(func(uint64) bool { return true })
			require.NoError(t, err)
		}
		require.NoError(t, p.Close())
		assert.Equal(t, int64(len("1\n2\n3\n3\n4\n")), p.(*fileProducer).BytesRead())
	})
}

func TestSetSource(t *testing.T) {
	for _, backend := range []roaringset.Backend{roaringset.BackendSroar, roaringset.BackendRoaring64} {
		t.Run(string(backend), func(t *testing.T) {
			set := roaringset.New(backend, 9, 1, 5)
			assert.Equal(t, []uint64{1, 5, 9}, drain(t, FromSet(set)))
			assert.Empty(t, drain(t, FromSet(roaringset.New(backend))))
			assert.Same(t, set, FromSet(set).Backing())
		})
	}

	assert.True(t, enterrors.IsInvalidArgument(FromSet(nil).Validate()))
}
