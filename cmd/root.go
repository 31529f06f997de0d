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

package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"gitlab.com/qtomo/go-ats/cmd/acquire"
	"gitlab.com/qtomo/go-ats/cmd/completion"
	configcmd "gitlab.com/qtomo/go-ats/cmd/config"
	"gitlab.com/qtomo/go-ats/cmd/control"
	"gitlab.com/qtomo/go-ats/cmd/serve"
	pkgconfig "gitlab.com/qtomo/go-ats/pkg/config"
	"gitlab.com/qtomo/go-ats/pkg/log"
)

const (
	LogLevelOptionName = "log-level"
)

func NewRootCommand(out io.Writer) *cobra.Command {
	var logLevel string
	cfg := pkgconfig.NewDefaultConfig()
	cfg.Load()
	cmd := &cobra.Command{
		Use:   "go-ats",
		Short: "Tool to acquire waveforms from ATS digitizer boards",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if logLevel != "" {
				cfg.LogLevel = logLevel
			}
			log.Init(cmd.ErrOrStderr(), cfg.LogLevel)
		},
	}
	cmd.SetOut(out)
	cmd.AddCommand(acquire.NewCommand())
	cmd.AddCommand(serve.NewCommand())
	cmd.AddCommand(control.NewCommand())
	cmd.AddCommand(configcmd.NewCommand())
	cmd.AddCommand(completion.NewCommand())
	cmd.PersistentFlags().StringVar(&logLevel, LogLevelOptionName, "", fmt.Sprintf("Log level. %s", log.HelpLevels))
	return cmd
}
