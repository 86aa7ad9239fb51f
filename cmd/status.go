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
	"fmt"

	"github.com/gnames/gn"
	"github.com/spf13/cobra"
)

// getStatusCmd returns the status command.
func getStatusCmd() *cobra.Command {
	var sessionID string

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show the preparation status of a session",
		Long: `Print one line per time series reference of the session: its id,
its preparation status (Waiting, Downloading, Validating, Ready or
Failed) and the failure detail when there is one.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			err := runStatus(sessionID)
			if err != nil {
				gn.PrintErrorMessage(err)
			}
			return err
		},
	}

	statusCmd.Flags().StringVarP(
		&sessionID, "session", "s", "", "session to inspect",
	)
	_ = statusCmd.MarkFlagRequired("session")

	return statusCmd
}

func runStatus(sessionID string) error {
	ctx := context.Background()

	store, err := connect(ctx)
	if err != nil {
		return err
	}
	defer store.Close()

	records, err := store.Statuses(ctx, sessionID)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		gn.Message("<em>The session has no time series references</em>")
		return nil
	}

	for _, rec := range records {
		line := fmt.Sprintf("%s  %s", rec.TimeseriesID, rec.Status)
		if rec.StatusDetails != "" {
			line += "  " + rec.StatusDetails
		}
		gn.Message("%s", line)
	}
	return nil
}
