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
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"

	"github.com/weaviate/setstream/entities/diskio"
	enterrors "github.com/weaviate/setstream/entities/errors"
)

const maxLineSize = 1024 * 1024

// FileSource reads one value per line from one or more files. Skip and limit
// apply to the concatenation of all files in the given order. Skip drops
// leading raw lines, blank ones included. Blank lines after that are ignored
// and do not count toward limit, which caps the delivered tokens.
type FileSource struct {
	paths  []string
	window window
}

// Files reads every line of paths.
func Files(paths ...string) *FileSource {
	return NewFileSource(paths)
}

// FilesSkip drops the first skip lines of the concatenated paths.
func FilesSkip(skip int64, paths ...string) *FileSource {
	return NewFileSource(paths, WithSkip(skip))
}

// FilesWindow drops the first skip lines and delivers at most limit lines.
func FilesWindow(skip, limit int64, paths ...string) *FileSource {
	return NewFileSource(paths, WithSkip(skip), WithLimit(limit))
}

func NewFileSource(paths []string, opts ...Option) *FileSource {
	return &FileSource{paths: paths, window: newWindow(opts)}
}

// Validate checks the arguments and makes sure every file can be read, so a
// missing file is reported when the step is added rather than halfway
// through an execution.
func (s *FileSource) Validate() error {
	if s == nil || len(s.paths) == 0 {
		return enterrors.NewInvalidArgument("file source needs at least one path")
	}
	for i, path := range s.paths {
		if path == "" {
			return enterrors.NewInvalidArgument("file source path %d is empty", i)
		}
	}
	if err := s.window.validate(); err != nil {
		return err
	}

	for _, path := range s.paths {
		if err := diskio.CheckReadable(path); err != nil {
			return errors.Wrap(err, "file source")
		}
	}
	return nil
}

func (s *FileSource) Open() (Producer, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &fileProducer{paths: s.paths, window: s.window, skip: s.window.skip}, nil
}

func (s *FileSource) String() string {
	if s == nil {
		return "files(nil)"
	}
	return fmt.Sprintf("files(%s)", strings.Join(s.paths, ","))
}

type fileProducer struct {
	paths  []string
	window window

	next    int
	path    string
	file    *os.File
	scanner *bufio.Scanner
	line    int64

	skip      int64
	delivered int64
	bytesRead int64

	pending     string
	pendingLine int64
	hasPending  bool

	err error
}

func (p *fileProducer) HasNext() bool {
	if p.hasPending {
		return true
	}
	if p.err != nil || p.window.exhausted(p.delivered) {
		return false
	}

	for {
		if p.scanner == nil {
			if p.next >= len(p.paths) {
				return false
			}
			if err := p.openNext(); err != nil {
				p.err = err
				return false
			}
		}

		if p.scanner.Scan() {
			p.line++
			if p.skip > 0 {
				p.skip--
				continue
			}
			token := strings.TrimSpace(p.scanner.Text())
			if token == "" {
				continue
			}
			p.pending, p.pendingLine, p.hasPending = token, p.line, true
			return true
		}

		if err := p.scanner.Err(); err != nil {
			p.err = errors.Wrapf(err, "read %q", p.path)
			return false
		}
		if err := p.closeCurrent(); err != nil {
			p.err = err
			return false
		}
	}
}

func (p *fileProducer) Next(consume Consumer) (bool, error) {
	if !p.HasNext() {
		if p.err != nil {
			return false, p.err
		}
		return false, io.EOF
	}
	p.hasPending = false

	v, err := ParseToken(p.pending)
	if err != nil {
		return false, enterrors.NewParseError(p.path, p.pendingLine, p.pending, err)
	}
	p.delivered++
	return consume(v), nil
}

func (p *fileProducer) Err() error {
	return p.err
}

func (p *fileProducer) Close() error {
	p.next = len(p.paths)
	p.hasPending = false
	return p.closeCurrent()
}

// BytesRead is the number of bytes consumed from all files so far.
func (p *fileProducer) BytesRead() int64 {
	return p.bytesRead
}

func (p *fileProducer) openNext() error {
	path := p.paths[p.next]
	p.next++

	f, err := os.Open(path)
	if err != nil {
		return errors.Wrapf(err, "open %q", path)
	}

	r := diskio.NewMeteredReader(f, func(read int64) {
		p.bytesRead += read
	})
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	p.path, p.file, p.scanner, p.line = path, f, scanner, 0
	return nil
}

func (p *fileProducer) closeCurrent() error {
	if p.file == nil {
		return nil
	}
	err := p.file.Close()
	p.file, p.scanner = nil, nil
	if err != nil {
		return errors.Wrapf(err, "close %q", p.path)
	}
	return nil
}
