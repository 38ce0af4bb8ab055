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

package main

import (
	"github.com/cockroachdb/errors"
	"github.com/quarrydb/quarry/pkg/sql/opt/testutils/testcat"
	"gopkg.in/yaml.v3"
)

// fixture is the YAML document planstat consumes: the tables referenced by
// the plan, optional statistics per table, and the plan itself in exprgen
// notation.
type fixture struct {
	Tables []fixtureTable `yaml:"tables"`
	Plan   string         `yaml:"plan"`
}

type fixtureTable struct {
	// Definition is a table definition in testcat form, such as
	// "t (x int, y int not null)".
	Definition string `yaml:"definition"`

	// Statistics is the table's statistics subdocument, in the form
	// testcat.InjectStats accepts. Tables without one have no statistics.
	Statistics yaml.Node `yaml:"statistics"`
}

func loadFixture(data []byte) (*fixture, error) {
	var f fixture
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, err
	}
	if len(f.Tables) == 0 {
		return nil, errors.New("fixture declares no tables")
	}
	if f.Plan == "" {
		return nil, errors.New("fixture declares no plan")
	}
	return &f, nil
}

// buildCatalog creates the fixture's tables in a fresh catalog and attaches
// their statistics.
func (f *fixture) buildCatalog() (*testcat.Catalog, error) {
	catalog := testcat.New()
	for _, t := range f.Tables {
		tab, err := catalog.CreateTable(t.Definition)
		if err != nil {
			return nil, err
		}
		if t.Statistics.IsZero() {
			continue
		}
		raw, err := yaml.Marshal(&t.Statistics)
		if err != nil {
			return nil, errors.Wrapf(err, "statistics for table %q", tab.Name())
		}
		if err := catalog.InjectStats(tab.Name(), string(raw)); err != nil {
			return nil, err
		}
	}
	return catalog, nil
}
