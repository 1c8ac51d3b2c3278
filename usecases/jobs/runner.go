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

// Package jobs executes the pipelines described by a job file in order and
// writes their results.
package jobs

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/weaviate/setstream/adapters/sources"
	"github.com/weaviate/setstream/usecases/config"
	"github.com/weaviate/setstream/usecases/setops"
)

const namespace = "job"

// Report summarizes one executed pipeline.
type Report struct {
	RunID        string
	Name         string
	Cardinality  uint64
	Extracted    bool
	LinesWritten int
	Output       string
	Took         time.Duration
}

type Runner struct {
	registry *setops.Registry
	logger   logrus.FieldLogger
}

func NewRunner(registry *setops.Registry, logger logrus.FieldLogger) *Runner {
	return &Runner{registry: registry, logger: logger}
}

type result struct {
	key       setops.Key
	view      *setops.ResultView
	extracted bool
}

// Run executes every pipeline of job. It stops at the first failing
// pipeline and returns the reports of the pipelines completed so far.
func (r *Runner) Run(job *config.Job) ([]Report, error) {
	if err := job.Validate(); err != nil {
		return nil, err
	}

	runID := uuid.NewString()
	results := make(map[string]result, len(job.Pipelines))
	reports := make([]Report, 0, len(job.Pipelines))
	for _, pj := range job.Pipelines {
		report, res, err := r.runPipeline(job, pj, results)
		if err != nil {
			r.logger.WithFields(logrus.Fields{
				"action":   "setstream_job",
				"run_id":   runID,
				"pipeline": pj.Name,
			}).WithError(err).Error("pipeline failed")
			return reports, errors.Wrapf(err, "pipeline %q", pj.Name)
		}
		report.RunID = runID
		results[pj.Name] = res
		reports = append(reports, report)

		r.logger.WithFields(logrus.Fields{
			"action":      "setstream_job",
			"run_id":      runID,
			"pipeline":    report.Name,
			"cardinality": report.Cardinality,
			"extracted":   report.Extracted,
			"output":      report.Output,
			"took":        report.Took,
		}).Info("pipeline finished")
	}
	return reports, nil
}

func (r *Runner) runPipeline(job *config.Job, pj config.PipelineJob,
	results map[string]result,
) (Report, result, error) {
	started := time.Now()
	key := setops.Key{Namespace: namespace, Name: pj.Name}

	p, created := r.registry.GetOrCreate(key)
	if !created {
		p.Clear()
	}

	for i, sj := range pj.Steps {
		op, err := setops.ParseOperator(sj.Op)
		if err != nil {
			return Report{}, result{}, errors.Wrapf(err, "step %d", i)
		}
		src, err := r.source(job, sj, results)
		if err != nil {
			return Report{}, result{}, errors.Wrapf(err, "step %d", i)
		}
		if err := p.Append(op, src); err != nil {
			return Report{}, result{}, errors.Wrapf(err, "step %d", i)
		}
	}

	view, err := p.Stream()
	if err != nil {
		return Report{}, result{}, err
	}

	res := result{key: key, view: view}
	if pj.Extract != nil {
		res.view = p.RandomExtract(*pj.Extract)
		res.extracted = true
	}

	report := Report{
		Name:        pj.Name,
		Cardinality: res.view.Size(),
		Extracted:   res.extracted,
	}

	if pj.Output != nil {
		path := job.ResolvePath(pj.Output.Path)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return Report{}, result{}, errors.Wrapf(err, "create output dir for %q", path)
		}
		lines, err := res.view.WriteFile(path, pj.Output.Headers...)
		if err != nil {
			return Report{}, result{}, err
		}
		report.Output = path
		report.LinesWritten = lines
	}

	report.Took = time.Since(started)
	return report, res, nil
}

func (r *Runner) source(job *config.Job, sj config.StepJob,
	results map[string]result,
) (sources.Source, error) {
	var opts []sources.Option
	if sj.Skip != 0 {
		opts = append(opts, sources.WithSkip(sj.Skip))
	}
	if sj.Limit != nil {
		opts = append(opts, sources.WithLimit(*sj.Limit))
	}

	switch {
	case len(sj.Values) > 0:
		return sources.List(sj.Values, opts...), nil
	case len(sj.Tokens) > 0:
		return sources.Tokens(sj.Tokens, opts...), nil
	case len(sj.Files) > 0:
		paths, err := expandFiles(job, sj.Files)
		if err != nil {
			return nil, err
		}
		return sources.NewFileSource(paths, opts...), nil
	case sj.Pipeline != "":
		if len(opts) > 0 {
			return nil, fmt.Errorf("skip and limit are not supported for pipeline inputs")
		}
		res, ok := results[sj.Pipeline]
		if !ok {
			return nil, fmt.Errorf("pipeline %q has not run", sj.Pipeline)
		}
		// views on a registry pipeline are emptied when it gets evicted
		if !res.extracted && !r.registry.Contains(res.key) {
			return nil, fmt.Errorf("result of pipeline %q was evicted, increase registry_size", sj.Pipeline)
		}
		return res.view.Source(), nil
	default:
		return nil, fmt.Errorf("step has no input")
	}
}

// expandFiles resolves the file entries of a step. Entries containing glob
// meta characters, including "**", are expanded in lexical order and must
// match at least one file.
func expandFiles(job *config.Job, entries []string) ([]string, error) {
	var paths []string
	for _, entry := range entries {
		path := job.ResolvePath(entry)
		if !strings.ContainsAny(entry, "*?[{") {
			paths = append(paths, path)
			continue
		}

		matches, err := doublestar.Glob(path)
		if err != nil {
			return nil, errors.Wrapf(err, "expand %q", entry)
		}
		if len(matches) == 0 {
			return nil, fmt.Errorf("no files match %q", entry)
		}
		sort.Strings(matches)
		paths = append(paths, matches...)
	}
	return paths, nil
}
