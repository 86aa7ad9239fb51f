// Package main provides the tsm CLI application.
// tsm collects WaterOneFlow time series into shareable REFTS and ODM2
// datasets.
package main

import (
	"github.com/CUAHSI-APPS/timeseries-manager/cmd"
)

func main() {
	cmd.Execute()
}
