/*
Copyright © 2026 Consortium of Universities for the Advancement of
Hydrologic Science, Inc.

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in
all copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
THE SOFTWARE.
*/
package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/CUAHSI-APPS/timeseries-manager/internal/ioconfig"
	"github.com/CUAHSI-APPS/timeseries-manager/internal/iofs"
	"github.com/CUAHSI-APPS/timeseries-manager/internal/iologger"
	"github.com/CUAHSI-APPS/timeseries-manager/pkg/config"
	"github.com/CUAHSI-APPS/timeseries-manager/pkg/tsm"
	"github.com/gnames/gn"
	"github.com/spf13/cobra"
)

var (
	cfgPath string
	cfg     *config.Config
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Version: fmt.Sprintf("version: %s\nbuild:   %s", tsm.Version, tsm.Build),
	Use:     "tsm",
	Short:   "Collect WaterOneFlow time series into shareable datasets",
	Long: `tsm prepares hydrologic time series for publication.

It ingests Referenced Time Series (REFTS) documents, downloads the
observations they point to from WaterOneFlow services, validates the
WaterML payloads against their XSD schemas, and packages the results
as a REFTS manifest and an ODM2 SQLite database.

A typical workflow:

  tsm migrate
  tsm ingest my.refts.json --session demo
  tsm prepare --session demo --batch <id from ingest>
  tsm status --session demo
  tsm package --session demo --refts --odm2`,
	PersistentPreRunE: bootstrap,
	SilenceErrors:     true,
	SilenceUsage:      true,
}

func bootstrap(cmd *cobra.Command, args []string) error {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	if err = iofs.EnsureDirs(homeDir); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	if err = iofs.EnsureConfigFile(homeDir); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	res, err := ioconfig.Load(cfgPath)
	if err != nil {
		gn.PrintErrorMessage(err)
		return err
	}
	cfg = res.Config
	cfg.Update([]config.Option{config.OptHomeDir(homeDir)})
	if cfg.Assets.Workspace == "" {
		cfg.Update([]config.Option{
			config.OptAssetsWorkspace(config.WorkspaceDir(homeDir)),
		})
	}

	if err = iologger.Init(config.LogDir(homeDir), cfg.Log, true); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}
	slog.Info("Configuration loaded",
		"source", res.Source,
		"config_file", res.SourcePath)

	return nil
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	// Remove the automatic "tsm version" prefix
	rootCmd.SetVersionTemplate("{{.Version}}\n")

	rootCmd.Flags().BoolP("version", "V", false, "version for tsm")
	rootCmd.PersistentFlags().StringVar(
		&cfgPath, "config", "",
		"config file (default ~/.config/tsmanager/config.yaml)",
	)

	rootCmd.AddCommand(getMigrateCmd())
	rootCmd.AddCommand(getIngestCmd())
	rootCmd.AddCommand(getPrepareCmd())
	rootCmd.AddCommand(getStatusCmd())
	rootCmd.AddCommand(getSelectCmd())
	rootCmd.AddCommand(getPackageCmd())
	rootCmd.AddCommand(getMetadataCmd())
}
