/*
 Licensed under the Apache License, Version 2.0 (the "License");
 you may not use this file except in compliance with the License.
 You may obtain a copy of the License at

     https://www.apache.org/licenses/LICENSE-2.0

 Unless required by applicable law or agreed to in writing, software
 distributed under the License is distributed on an "AS IS" BASIS,
 WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 See the License for the specific language governing permissions and
 limitations under the License.
*/

package control

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"gitlab.com/qtomo/go-ats/pkg/command"
	"gitlab.com/qtomo/go-ats/pkg/config"
)

// NewCommand creates the control command group, which talks to a running
// go-ats daemon over its API.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "control",
		Short: "Control a running go-ats server",
	}
	cmd.AddCommand(NewStatusCommand())
	cmd.AddCommand(NewAbortCommand())
	cmd.AddCommand(NewParamsCommand())
	return cmd
}

func NewStatusCommand() *cobra.Command {
	cfg := config.NewDefaultConfig()
	cfg.Load()
	return &cobra.Command{
		Use:   "status",
		Short: "Show engine state and buffer counters",
		RunE: func(cmd *cobra.Command, args []string) error {
			status, err := command.NewApiClient(cfg).Status()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "board: %s state: %s buffers done: %d\n",
				status.Board, status.State, status.BuffersDone)
			return nil
		},
	}
}

func NewAbortCommand() *cobra.Command {
	cfg := config.NewDefaultConfig()
	cfg.Load()
	return &cobra.Command{
		Use:   "abort",
		Short: "Abort the running acquisition at the next buffer boundary",
		RunE: func(cmd *cobra.Command, args []string) error {
			return command.NewApiClient(cfg).Abort()
		},
	}
}

func NewParamsCommand() *cobra.Command {
	cfg := config.NewDefaultConfig()
	cfg.Load()
	return &cobra.Command{
		Use:   "params",
		Short: "Show the last configuration applied to the board",
		RunE: func(cmd *cobra.Command, args []string) error {
			codes, err := command.NewApiClient(cfg).Params()
			if err != nil {
				return err
			}
			names := make([]string, 0, len(codes))
			for name := range codes {
				names = append(names, name)
			}
			sort.Strings(names)
			for _, name := range names {
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %d\n", name, codes[name])
			}
			return nil
		},
	}
}
