// Copyright 2026 The Quarry Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or
// implied. See the License for the specific language governing
// permissions and limitations under the License.

// planstat is a developer tool for inspecting statistics propagation. It
// loads a YAML fixture describing tables, their column statistics and a plan,
// runs the propagation pass over the plan, and prints the rewritten plan
// together with the derived cardinality and column statistics.
package main

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/quarrydb/quarry/pkg/sql/opt/statsprop"
	"github.com/quarrydb/quarry/pkg/sql/opt/testutils/exprgen"
	"github.com/quarrydb/quarry/pkg/sql/plan"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const (
	formatTree = "tree"
	formatDot  = "dot"
)

type config struct {
	format  string
	verbose bool
}

func makePlanstatCommand() *cobra.Command {
	var cfg config
	command := &cobra.Command{
		Use:   "planstat <fixture>",
		Short: "planstat propagates statistics through a plan fixture and prints the result.",
		Long: `planstat loads a YAML fixture describing tables, their column statistics and
a plan, runs the statistics propagation pass over the plan, and prints the
rewritten plan together with the derived cardinality and column statistics.

A fixture looks like:

    tables:
      - definition: t (x int, y int)
        statistics:
          row_count: 1000
          columns:
            x: {min: 0, max: 100, nulls: false}
            y: {min: -50, max: 50, nulls: true}
    plan: (filter [(lt t.x 50)] (scan t))
`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlanstat(cfg, args[0], cmd.OutOrStdout())
		},
	}
	command.Flags().StringVar(&cfg.format, "format", formatTree, "output format: tree or dot")
	command.Flags().BoolVar(&cfg.verbose, "verbose", false, "log pruning and rewrite decisions")
	return command
}

func runPlanstat(cfg config, path string, out io.Writer) error {
	if cfg.format != formatTree && cfg.format != formatDot {
		return errors.Newf("unknown format %q", cfg.format)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	f, err := loadFixture(data)
	if err != nil {
		return errors.Wrapf(err, "loading fixture %s", path)
	}
	catalog, err := f.buildCatalog()
	if err != nil {
		return err
	}
	slot, names, err := exprgen.Build(catalog, f.Plan)
	if err != nil {
		return errors.Wrap(err, "building plan")
	}

	var opts []statsprop.Option
	if cfg.verbose {
		logger, err := zap.NewDevelopment()
		if err != nil {
			return err
		}
		defer func() { _ = logger.Sync() }()
		opts = append(opts, statsprop.WithLogger(logger))
	}
	p := statsprop.New(opts...)
	card, err := p.Propagate(slot)
	if err != nil {
		return err
	}

	if cfg.format == formatDot {
		fmt.Fprint(out, plan.FormatDot(slot.Node()))
		return nil
	}
	fmt.Fprint(out, plan.Format(slot.Node()))
	fmt.Fprintf(out, "cardinality: %s\n", statsprop.FormatCardinality(card))
	if stats := p.Statistics(); len(stats) > 0 {
		fmt.Fprint(out, statsprop.FormatStatistics(stats, names))
	}
	return nil
}

func main() {
	cmd := makePlanstatCommand()
	if err := cmd.Execute(); err != nil {
		log.Printf("ERROR: %+v", err)
		os.Exit(1)
	}
}
