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

// Package cmd implements the quill command line tool: it loads an entity
// fixture and runs queries against it.
package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/quilldb/quill/pkg/logger"
	"github.com/quilldb/quill/pkg/version"
)

// NewRoot returns the root command.
func NewRoot() *cobra.Command {
	cmd := &cobra.Command{
		Use:               "quill",
		Short:             "quill runs typed filter queries over an entity table",
		Version:           version.Parse(),
		DisableAutoGenTag: true,
		SilenceUsage:      true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := viper.BindPFlags(cmd.Root().PersistentFlags()); err != nil {
				return err
			}
			return logger.Init(logger.Logging{
				Env:   viper.GetString("log-env"),
				Level: viper.GetString("log-level"),
			})
		},
	}
	bindLoggingFlags(cmd.PersistentFlags())
	viper.SetEnvPrefix("quill")
	viper.AutomaticEnv()
	cmd.AddCommand(newQueryCmd())
	return cmd
}

func bindLoggingFlags(fs *pflag.FlagSet) {
	fs.String("log-level", "info", "root log level")
	fs.String("log-env", "prod", "log environment, prod or dev")
}
