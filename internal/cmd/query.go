// Licensed to Apache Software Foundation (ASF) under one or more contributor
// license agreements. See the NOTICE file distributed with
// this work for additional information regarding copyright
// ownership. Apache Software Foundation (ASF) licenses this file to you under
// the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing,
// software distributed under the License is distributed on an
// "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
// KIND, either express or implied.  See the License for the
// specific language governing permissions and limitations
// under the License.

package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/quilldb/quill/pkg/engine"
	"github.com/quilldb/quill/pkg/executor"
	"github.com/quilldb/quill/pkg/meter"
	"github.com/quilldb/quill/pkg/meter/native"
	"github.com/quilldb/quill/pkg/table"
)

type queryFlags struct {
	data         string
	filter       string
	selectList   string
	orderBy      string
	continuation string
	top          uint32
	skip         uint32
	count        bool
	explain      bool
}

func newQueryCmd() *cobra.Command {
	flags := queryFlags{}
	cmd := &cobra.Command{
		Use:   "query",
		Short: "Run one query against a JSON entity fixture",
		RunE: func(cmd *cobra.Command, _ []string) error {
			source, err := loadFixture(flags.data)
			if err != nil {
				return err
			}
			provider := native.NewProvider(meter.NewHierarchicalScope("quill", "_").SubScope("query"))
			eng, err := engine.New(source, engine.DefaultConfig(), provider)
			if err != nil {
				return err
			}

			raw := engine.RawOptions{
				Filter:       flags.filter,
				Select:       flags.selectList,
				OrderBy:      flags.orderBy,
				Continuation: flags.continuation,
				Top:          flags.top,
				Skip:         flags.skip,
				Count:        flags.count,
			}
			if flags.explain {
				plan, err := eng.Explain(raw)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), plan)
				return nil
			}
			rs, err := eng.Execute(cmd.Context(), raw)
			if err != nil {
				return err
			}
			return printResult(cmd, rs)
		},
	}
	cmd.Flags().StringVar(&flags.data, "data", "", "path to a JSON entity fixture")
	cmd.Flags().StringVar(&flags.filter, "filter", "", "filter expression")
	cmd.Flags().StringVar(&flags.selectList, "select", "", "comma-separated property list to project")
	cmd.Flags().StringVar(&flags.orderBy, "orderby", "", "comma-separated property[ asc|desc] list")
	cmd.Flags().StringVar(&flags.continuation, "continuation", "", "continuation token from a previous page")
	cmd.Flags().Uint32Var(&flags.top, "top", 0, "maximum entities to return")
	cmd.Flags().Uint32Var(&flags.skip, "skip", 0, "entities to skip")
	cmd.Flags().BoolVar(&flags.count, "count", false, "include the total match count")
	cmd.Flags().BoolVar(&flags.explain, "explain", false, "print the chosen plan instead of running the query")
	_ = cmd.MarkFlagRequired("data")
	return cmd
}

type resultEntity struct {
	PartitionKey string            `json:"partitionKey"`
	RowKey       string            `json:"rowKey"`
	Timestamp    string            `json:"timestamp"`
	ETag         string            `json:"etag"`
	Properties   map[string]string `json:"properties,omitempty"`
}

type resultDoc struct {
	Count        *uint64             `json:"count,omitempty"`
	Continuation string              `json:"continuation,omitempty"`
	Entities     []resultEntity      `json:"entities"`
	Statistics   executor.Statistics `json:"statistics"`
}

// printResult renders one page as JSON, with property values in their
// literal form so the types stay visible.
func printResult(cmd *cobra.Command, rs *executor.ResultSet) error {
	doc := resultDoc{
		Count:        rs.Count,
		Continuation: rs.Continuation,
		Entities:     make([]resultEntity, 0, len(rs.Entities)),
		Statistics:   rs.Statistics,
	}
	for _, e := range rs.Entities {
		doc.Entities = append(doc.Entities, toResultEntity(e))
	}
	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return nil
}

func toResultEntity(e table.Entity) resultEntity {
	re := resultEntity{
		PartitionKey: e.PartitionKey,
		RowKey:       e.RowKey,
		Timestamp:    e.Timestamp.Format("2006-01-02T15:04:05.999999999Z"),
		ETag:         e.ETag,
	}
	if len(e.Properties) > 0 {
		re.Properties = make(map[string]string, len(e.Properties))
		for name, v := range e.Properties {
			re.Properties[name] = v.String()
		}
	}
	return re
}
