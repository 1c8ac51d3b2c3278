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

package setops

import (
	"bufio"
	"io"
	"strconv"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/weaviate/setstream/adapters/repos/roaringset"
	"github.com/weaviate/setstream/adapters/sources"
	"github.com/weaviate/setstream/entities/diskio"
	"github.com/weaviate/setstream/usecases/monitoring"
)

// ResultView exposes a set for reading and export. Views obtained through
// Pipeline.Read share the pipeline's set, views from RandomExtract own the
// extracted set.
type ResultView struct {
	set     roaringset.Set
	owner   *Pipeline
	logger  logrus.FieldLogger
	metrics *monitoring.Metrics
}

// Fetch returns all elements in ascending order. The whole set is
// materialized in memory.
func (v *ResultView) Fetch() []uint64 {
	values := v.set.ToArray()
	if values == nil {
		return []uint64{}
	}
	return values
}

// Iterator walks the elements lazily in ascending order.
func (v *ResultView) Iterator() roaringset.Iterator {
	return v.set.Iterator()
}

func (v *ResultView) ForEach(fn func(value uint64)) {
	it := v.set.Iterator()
	for value, ok := it.Next(); ok; value, ok = it.Next() {
		fn(value)
	}
}

// Write writes headers verbatim, then every element in ascending order, one
// per line. It returns the number of lines written.
func (v *ResultView) Write(w io.Writer, headers ...string) (int, error) {
	bw := bufio.NewWriter(w)
	lines := 0

	for _, header := range headers {
		if _, err := bw.WriteString(header); err != nil {
			return lines, err
		}
		if err := bw.WriteByte('\n'); err != nil {
			return lines, err
		}
		lines++
	}

	buf := make([]byte, 0, 21)
	it := v.set.Iterator()
	for value, ok := it.Next(); ok; value, ok = it.Next() {
		buf = strconv.AppendUint(buf[:0], value, 10)
		buf = append(buf, '\n')
		if _, err := bw.Write(buf); err != nil {
			return lines, err
		}
		lines++
	}

	if err := bw.Flush(); err != nil {
		return lines, err
	}
	return lines, nil
}

// WriteFile truncates or creates path and writes the view to it, see Write.
func (v *ResultView) WriteFile(path string, headers ...string) (lines int, err error) {
	started := time.Now()

	f, err := diskio.CreateFile(path)
	if err != nil {
		return 0, err
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			err = multierror.Append(err, errors.Wrapf(cerr, "close %q", path))
		}
	}()

	lines, err = v.Write(f, headers...)
	v.metrics.AddLinesWritten(lines)
	if err != nil {
		return lines, errors.Wrapf(err, "write %q", path)
	}

	v.logger.WithFields(logrus.Fields{
		"action": "setops_write_file",
		"path":   path,
		"lines":  lines,
		"took":   time.Since(started),
	}).Debug("wrote result file")
	return lines, nil
}

func (v *ResultView) Size() uint64 {
	return v.set.Cardinality()
}

func (v *ResultView) IsEmpty() bool {
	return v.set.IsEmpty()
}

// Clear empties the underlying set. For views on a pipeline this clears the
// pipeline itself, including its queued steps.
func (v *ResultView) Clear() {
	if v.owner != nil {
		v.owner.Clear()
		return
	}
	v.set.Clear()
}

// Source turns the view into the input of another pipeline.
func (v *ResultView) Source() *sources.SetSource {
	return sources.FromSet(v.set)
}
