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

// getPrepareCmd returns the prepare command.
func getPrepareCmd() *cobra.Command {
	var (
		sessionID string
		batchID   string
	)

	prepareCmd := &cobra.Command{
		Use:   "prepare",
		Short: "Download and validate a pending batch",
		Long: `Download the WaterML data of a pending ingest batch, extract the
time series responses and validate them against the WaterML schemas.
Each reference ends Ready or Failed; check per-item outcomes with
the status command.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			err := runPrepare(sessionID, batchID)
			if err != nil {
				gn.PrintErrorMessage(err)
			}
			return err
		},
	}

	prepareCmd.Flags().StringVarP(
		&sessionID, "session", "s", "", "session to prepare",
	)
	prepareCmd.Flags().StringVarP(
		&batchID, "batch", "b", "", "batch id printed by ingest",
	)
	_ = prepareCmd.MarkFlagRequired("session")
	_ = prepareCmd.MarkFlagRequired("batch")

	return prepareCmd
}

func runPrepare(sessionID, batchID string) error {
	ctx := context.Background()

	store, err := connect(ctx)
	if err != nil {
		return err
	}
	defer store.Close()

	orch, err := newOrchestrator(store)
	if err != nil {
		return err
	}
	res, err := orch.Prepare(ctx, sessionID, batchID)
	if err != nil {
		return err
	}

	gn.Message("<em>%s</em>", res.Message)
	return nil
}
