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

package main

import (
	"os"

	"github.com/hashicorp/go-multierror"
	"github.com/jessevdk/go-flags"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/sirupsen/logrus"

	"github.com/weaviate/setstream/usecases/config"
	"github.com/weaviate/setstream/usecases/jobs"
	"github.com/weaviate/setstream/usecases/monitoring"
	"github.com/weaviate/setstream/usecases/setops"
)

// Options overrides the config file and the environment.
type Options struct {
	Job         string `long:"job" description:"path to the yaml or json job file" required:"true"`
	Config      string `long:"config" description:"path to the yaml or json config file"`
	Backend     string `long:"backend" description:"compressed set implementation: sroar or roaring64"`
	Seed        *int64 `long:"seed" description:"random seed for reproducible extraction, 0 picks a new one per run"`
	LogLevel    string `long:"log-level" description:"log level, e.g. debug, info, warn"`
	LogFormat   string `long:"log-format" description:"log format: text or json"`
	MetricsFile string `long:"metrics-file" description:"write metrics in prometheus text format to this file, enables monitoring"`
}

func main() {
	var opts Options
	log := logrus.WithFields(logrus.Fields{"app": "setstream"}).Logger

	if _, err := flags.Parse(&opts); err != nil {
		if flags.WroteHelp(err) {
			return
		}
		log.Fatal("failed to parse command line args: ", err)
	}

	cfg, err := config.LoadConfig(opts.Config, log)
	if err != nil {
		log.Fatal(err)
	}

	job, err := config.LoadJob(opts.Job)
	if err != nil {
		log.Fatal(err)
	}
	job.Overlay(&cfg)
	applyFlags(&cfg, opts)

	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}
	logger, err := cfg.Logging.NewLogger()
	if err != nil {
		log.Fatal(err)
	}

	var reg *prometheus.Registry
	var metrics *monitoring.Metrics
	if cfg.Monitoring.Enabled {
		reg = prometheus.NewRegistry()
		metrics = monitoring.NewMetrics(reg)
	}

	factory, err := setops.NewFactory(cfg, logger, metrics)
	if err != nil {
		logger.Fatal(err)
	}
	registry, err := setops.NewRegistry(cfg.RegistrySize, factory, logger)
	if err != nil {
		logger.Fatal(err)
	}

	logger.WithFields(logrus.Fields{
		"action":    "setstream_startup",
		"backend":   cfg.Backend,
		"job":       opts.Job,
		"pipelines": len(job.Pipelines),
	}).Info("running job")

	reports, err := jobs.NewRunner(registry, logger).Run(job)
	for _, r := range reports {
		logger.WithFields(logrus.Fields{
			"action":        "setstream_report",
			"pipeline":      r.Name,
			"cardinality":   r.Cardinality,
			"extracted":     r.Extracted,
			"output":        r.Output,
			"lines_written": r.LinesWritten,
			"took":          r.Took,
		}).Info("pipeline report")
	}
	if reg != nil {
		if opts.MetricsFile != "" {
			if err := writeMetrics(opts.MetricsFile, reg); err != nil {
				logger.WithError(err).Warn("failed to write metrics file")
			}
		} else {
			logMetrics(logger, reg)
		}
	}
	if err != nil {
		logger.WithError(err).Error("job failed")
		os.Exit(1)
	}
}

func applyFlags(cfg *config.Config, opts Options) {
	if opts.Backend != "" {
		cfg.Backend = opts.Backend
	}
	if opts.Seed != nil {
		cfg.RandomSeed = *opts.Seed
	}
	if opts.LogLevel != "" {
		cfg.Logging.Level = opts.LogLevel
	}
	if opts.LogFormat != "" {
		cfg.Logging.Format = opts.LogFormat
	}
	if opts.MetricsFile != "" {
		cfg.Monitoring.Enabled = true
	}
}

func logMetrics(logger logrus.FieldLogger, reg prometheus.Gatherer) {
	families, err := reg.Gather()
	if err != nil {
		logger.WithError(err).Warn("failed to gather metrics")
		return
	}

	for _, family := range families {
		for _, m := range family.GetMetric() {
			fields := logrus.Fields{
				"action": "setstream_metrics",
				"metric": family.GetName(),
			}
			for _, label := range m.GetLabel() {
				fields[label.GetName()] = label.GetValue()
			}
			switch {
			case m.GetCounter() != nil:
				fields["value"] = m.GetCounter().GetValue()
			case m.GetHistogram() != nil:
				fields["count"] = m.GetHistogram().GetSampleCount()
				fields["sum"] = m.GetHistogram().GetSampleSum()
			}
			logger.WithFields(fields).Info("metric")
		}
	}
}

func writeMetrics(path string, reg prometheus.Gatherer) (err error) {
	families, err := reg.Gather()
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			err = multierror.Append(err, cerr)
		}
	}()

	for _, family := range families {
		if _, err := expfmt.MetricFamilyToText(f, family); err != nil {
			return err
		}
	}
	return nil
}
