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

package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// Job describes a batch of named pipelines executed in order. A later
// pipeline may consume the result of an earlier one through a step's
// Pipeline field.
//
//	config:
//	  backend: sroar
//	pipelines:
//	  - name: active
//	    steps:
//	      - op: distinct
//	        files: [users.txt]
//	        skip: 1
//	      - op: exclude
//	        values: [1, 2, 3]
//	    output:
//	      path: active.txt
//	      headers: [user_id]
type Job struct {
	Config    *Config       `json:"config" yaml:"config"`
	Pipelines []PipelineJob `json:"pipelines" yaml:"pipelines"`

	baseDir string
}

type PipelineJob struct {
	Name  string    `json:"name" yaml:"name"`
	Steps []StepJob `json:"steps" yaml:"steps"`
	// Extract, if set, replaces the result by a random sample of that size.
	Extract *int64     `json:"extract" yaml:"extract"`
	Output  *OutputJob `json:"output" yaml:"output"`
}

// StepJob is a single chain step. Exactly one of Values, Tokens, Files or
// Pipeline has to be set.
type StepJob struct {
	Op       string   `json:"op" yaml:"op"`
	Values   []uint64 `json:"values" yaml:"values"`
	Tokens   []string `json:"tokens" yaml:"tokens"`
	Files    []string `json:"files" yaml:"files"`
	Pipeline string   `json:"pipeline" yaml:"pipeline"`
	Skip     int64    `json:"skip" yaml:"skip"`
	Limit    *int64   `json:"limit" yaml:"limit"`
}

type OutputJob struct {
	Path    string   `json:"path" yaml:"path"`
	Headers []string `json:"headers" yaml:"headers"`
}

// LoadJob reads a yaml or json job file. Relative paths inside the job are
// resolved against the directory of the job file.
func LoadJob(path string) (*Job, error) {
	file, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read job file: %w", err)
	}

	job := &Job{}
	if err := parseFile(file, path, job); err != nil {
		return nil, fmt.Errorf("parse job file: %w", err)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	job.baseDir = filepath.Dir(abs)

	if err := job.Validate(); err != nil {
		return nil, err
	}
	return job, nil
}

// ResolvePath makes path absolute relative to the job file location.
func (j *Job) ResolvePath(path string) string {
	if path == "" || filepath.IsAbs(path) || j.baseDir == "" {
		return path
	}
	return filepath.Join(j.baseDir, path)
}

func (j *Job) Validate() error {
	if len(j.Pipelines) == 0 {
		return fmt.Errorf("invalid job: no pipelines defined")
	}

	seen := map[string]struct{}{}
	for i, p := range j.Pipelines {
		if p.Name == "" {
			return fmt.Errorf("invalid job: pipeline %d has no name", i)
		}
		if _, ok := seen[p.Name]; ok {
			return fmt.Errorf("invalid job: duplicate pipeline name %q", p.Name)
		}
		if len(p.Steps) == 0 {
			return fmt.Errorf("invalid job: pipeline %q has no steps", p.Name)
		}
		for k, step := range p.Steps {
			if err := step.validate(seen); err != nil {
				return fmt.Errorf("invalid job: pipeline %q step %d: %w", p.Name, k, err)
			}
		}
		if p.Output != nil && p.Output.Path == "" {
			return fmt.Errorf("invalid job: pipeline %q output has no path", p.Name)
		}
		seen[p.Name] = struct{}{}
	}

	return nil
}

// Overlay copies the settings the job sets explicitly onto cfg.
func (j *Job) Overlay(cfg *Config) {
	if j.Config == nil {
		return
	}
	if j.Config.Backend != "" {
		cfg.Backend = j.Config.Backend
	}
	if j.Config.RandomSeed != 0 {
		cfg.RandomSeed = j.Config.RandomSeed
	}
	if j.Config.RegistrySize > 0 {
		cfg.RegistrySize = j.Config.RegistrySize
	}
	if j.Config.Logging.Level != "" {
		cfg.Logging.Level = j.Config.Logging.Level
	}
	if j.Config.Logging.Format != "" {
		cfg.Logging.Format = j.Config.Logging.Format
	}
	if j.Config.Monitoring.Enabled {
		cfg.Monitoring.Enabled = true
	}
}

func (s StepJob) validate(earlier map[string]struct{}) error {
	if s.Op == "" {
		return fmt.Errorf("op is required")
	}

	inputs := 0
	for _, set := range []bool{
		len(s.Values) > 0, len(s.Tokens) > 0, len(s.Files) > 0, s.Pipeline != "",
	} {
		if set {
			inputs++
		}
	}
	if inputs != 1 {
		return fmt.Errorf("exactly one of values, tokens, files or pipeline is required, got %d", inputs)
	}

	if s.Pipeline != "" {
		if _, ok := earlier[s.Pipeline]; !ok {
			return fmt.Errorf("pipeline %q is not defined before it is used", s.Pipeline)
		}
	}
	return nil
}
