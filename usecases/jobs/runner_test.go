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

package jobs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weaviate/setstream/usecases/config"
	"github.com/weaviate/setstream/usecases/setops"
)

func newRunner(t *testing.T, registrySize int) (*Runner, *test.Hook) {
	t.Helper()

	logger, hook := test.NewNullLogger()
	cfg := config.Defaults()
	cfg.RandomSeed = 3

	factory, err := setops.NewFactory(cfg, logger, nil)
	require.NoError(t, err)
	registry, err := setops.NewRegistry(registrySize, factory, logger)
	require.NoError(t, err)
	return NewRunner(registry, logger), hook
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func int64Ptr(v int64) *int64 {
	return &v
}

func TestRunner_JobFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "users.txt", "user_id\n5\n3\n1\n3\n9\n")
	writeFile(t, dir, "banned.txt", "9\n")
	jobPath := writeFile(t, dir, "job.yaml", `
config:
  random_seed: 11
pipelines:
  - name: active
    steps:
      - op: distinct
        files: [users.txt]
        skip: 1
      - op: exclude
        files: [banned.txt]
    output:
      path: out/active.txt
      headers: [user_id]
  - name: vip
    steps:
      - op: distinct
        values: [1, 2, 3]
      - op: intersect
        pipeline: active
  - name: sample
    steps:
      - op: union
        pipeline: active
    extract: 2
`)

	job, err := config.LoadJob(jobPath)
	require.NoError(t, err)

	runner, hook := newRunner(t, 8)
	reports, err := runner.Run(job)
	require.NoError(t, err)
	require.Len(t, reports, 3)

	assert.Equal(t, "active", reports[0].Name)
	assert.Equal(t, uint64(3), reports[0].Cardinality)
	assert.Equal(t, 4, reports[0].LinesWritten)
	assert.Equal(t, filepath.Join(dir, "out", "active.txt"), reports[0].Output)

	content, err := os.ReadFile(filepath.Join(dir, "out", "active.txt"))
	require.NoError(t, err)
	assert.Equal(t, "user_id\n1\n3\n5\n", string(content))

	assert.Equal(t, uint64(2), reports[1].Cardinality)

	assert.True(t, reports[2].Extracted)
	assert.Equal(t, uint64(2), reports[2].Cardinality)

	assert.NotEmpty(t, reports[0].RunID)
	assert.Equal(t, reports[0].RunID, reports[2].RunID)

	var finished int
	for _, entry := range hook.AllEntries() {
		if entry.Data["action"] == "setstream_job" {
			finished++
		}
	}
	assert.Equal(t, 3, finished)
}

func TestRunner_FileGlobs(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "shards", "b"), 0o755))
	writeFile(t, dir, "shards/a.ids", "1\n2\n")
	writeFile(t, dir, "shards/b/c.ids", "3\n")
	writeFile(t, dir, "shards/b/skip.txt", "4\n")

	t.Run("recursive pattern", func(t *testing.T) {
		job := &config.Job{Pipelines: []config.PipelineJob{{
			Name:  "all",
			Steps: []config.StepJob{{Op: "union", Files: []string{filepath.Join(dir, "shards", "**", "*.ids")}}},
		}}}
		runner, _ := newRunner(t, 2)
		reports, err := runner.Run(job)
		require.NoError(t, err)
		assert.Equal(t, uint64(3), reports[0].Cardinality)
	})

	t.Run("limit spans matched files", func(t *testing.T) {
		job := &config.Job{Pipelines: []config.PipelineJob{{
			Name: "first",
			Steps: []config.StepJob{{
				Op: "union", Files: []string{filepath.Join(dir, "shards", "**", "*.ids")}, Skip: 1, Limit: int64Ptr(2),
			}},
		}}}
		runner, _ := newRunner(t, 2)
		reports, err := runner.Run(job)
		require.NoError(t, err)
		assert.Equal(t, uint64(2), reports[0].Cardinality)
	})

	t.Run("no match", func(t *testing.T) {
		job := &config.Job{Pipelines: []config.PipelineJob{{
			Name:  "none",
			Steps: []config.StepJob{{Op: "union", Files: []string{filepath.Join(dir, "*.csv")}}},
		}}}
		runner, _ := newRunner(t, 2)
		_, err := runner.Run(job)
		assert.ErrorContains(t, err, "no files match")
	})
}

func TestRunner_Rerun(t *testing.T) {
	job := &config.Job{Pipelines: []config.PipelineJob{{
		Name:  "ids",
		Steps: []config.StepJob{{Op: "union", Tokens: []string{"1", "2"}}},
	}}}

	runner, _ := newRunner(t, 2)
	for i := 0; i < 2; i++ {
		reports, err := runner.Run(job)
		require.NoError(t, err)
		assert.Equal(t, uint64(2), reports[0].Cardinality)
	}
}

func TestRunner_Errors(t *testing.T) {
	t.Run("unknown operator", func(t *testing.T) {
		job := &config.Job{Pipelines: []config.PipelineJob{{
			Name:  "a",
			Steps: []config.StepJob{{Op: "xor", Values: []uint64{1}}},
		}}}
		runner, _ := newRunner(t, 2)
		_, err := runner.Run(job)
		assert.ErrorContains(t, err, "unknown operator")
	})

	t.Run("missing file", func(t *testing.T) {
		job := &config.Job{Pipelines: []config.PipelineJob{{
			Name:  "a",
			Steps: []config.StepJob{{Op: "distinct", Files: []string{filepath.Join(t.TempDir(), "nope.txt")}}},
		}}}
		runner, _ := newRunner(t, 2)
		_, err := runner.Run(job)
		assert.Error(t, err)
	})

	t.Run("parse error keeps earlier reports", func(t *testing.T) {
		job := &config.Job{Pipelines: []config.PipelineJob{
			{Name: "a", Steps: []config.StepJob{{Op: "distinct", Values: []uint64{1}}}},
			{Name: "b", Steps: []config.StepJob{{Op: "distinct", Tokens: []string{"1", "x"}}}},
		}}
		runner, _ := newRunner(t, 2)
		reports, err := runner.Run(job)
		assert.ErrorContains(t, err, `pipeline "b"`)
		assert.Len(t, reports, 1)
	})

	t.Run("window on pipeline input", func(t *testing.T) {
		job := &config.Job{Pipelines: []config.PipelineJob{
			{Name: "a", Steps: []config.StepJob{{Op: "distinct", Values: []uint64{1}}}},
			{Name: "b", Steps: []config.StepJob{{Op: "distinct", Pipeline: "a", Limit: int64Ptr(1)}}},
		}}
		runner, _ := newRunner(t, 2)
		_, err := runner.Run(job)
		assert.ErrorContains(t, err, "skip and limit")
	})

	t.Run("evicted input", func(t *testing.T) {
		job := &config.Job{Pipelines: []config.PipelineJob{
			{Name: "a", Steps: []config.StepJob{{Op: "distinct", Values: []uint64{1}}}},
			{Name: "b", Steps: []config.StepJob{{Op: "distinct", Pipeline: "a"}}},
		}}
		runner, _ := newRunner(t, 1)
		_, err := runner.Run(job)
		assert.ErrorContains(t, err, "evicted")
	})

	t.Run("extracted input survives eviction", func(t *testing.T) {
		job := &config.Job{Pipelines: []config.PipelineJob{
			{
				Name:    "a",
				Steps:   []config.StepJob{{Op: "distinct", Values: []uint64{1, 2, 3}}},
				Extract: int64Ptr(3),
			},
			{Name: "b", Steps: []config.StepJob{{Op: "distinct", Pipeline: "a"}}},
		}}
		runner, _ := newRunner(t, 1)
		reports, err := runner.Run(job)
		require.NoError(t, err)
		assert.Equal(t, uint64(3), reports[1].Cardinality)
	})
}
