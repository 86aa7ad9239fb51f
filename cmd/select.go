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
	"context"

	"github.com/gnames/gn"
	"github.com/spf13/cobra"
)

// getSelectCmd returns the select command.
func getSelectCmd() *cobra.Command {
	var (
		sessionID    string
		timeseriesID string
		search       string
		deselect     bool
		remove       bool
	)

	selectCmd := &cobra.Command{
		Use:   "select",
		Short: "Select or remove time series references",
		Long: `Toggle the selection of references, or remove them from the
session. Without --timeseries or --search, the whole session is
affected. Only selected references are packaged.

Examples:

  tsm select -s demo --search "Logan River"
  tsm select -s demo --timeseries <id> --deselect
  tsm select -s demo --remove`,
		RunE: func(cmd *cobra.Command, args []string) error {
			err := runSelect(sessionID, timeseriesID, search, deselect, remove)
			if err != nil {
				gn.PrintErrorMessage(err)
			}
			return err
		},
	}

	selectCmd.Flags().StringVarP(
		&sessionID, "session", "s", "", "session to update",
	)
	selectCmd.Flags().StringVarP(
		&timeseriesID, "timeseries", "t", "", "single reference to update",
	)
	selectCmd.Flags().StringVar(
		&search, "search", "",
		"update references whose site or variable matches",
	)
	selectCmd.Flags().BoolVar(
		&deselect, "deselect", false, "clear the selection instead",
	)
	selectCmd.Flags().BoolVar(
		&remove, "remove", false,
		"delete the reference, or all selected references",
	)
	_ = selectCmd.MarkFlagRequired("session")

	return selectCmd
}

func runSelect(
	sessionID, timeseriesID, search string,
	deselect, remove bool,
) error {
	ctx := context.Background()

	store, err := connect(ctx)
	if err != nil {
		return err
	}
	defer store.Close()

	if remove {
		if err = store.Remove(ctx, sessionID, timeseriesID); err != nil {
			return err
		}
		gn.Message("<em>References removed</em>")
		return nil
	}

	err = store.UpdateSelections(
		ctx, sessionID, timeseriesID, search, !deselect,
	)
	if err != nil {
		return err
	}
	gn.Message("<em>Selection updated</em>")
	return nil
}
