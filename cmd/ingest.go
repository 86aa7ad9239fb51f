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
	"os"

	"github.com/CUAHSI-APPS/timeseries-manager/pkg/refts"
	"github.com/gnames/gn"
	"github.com/spf13/cobra"
)

// getIngestCmd returns the ingest command.
func getIngestCmd() *cobra.Command {
	var sessionID string

	ingestCmd := &cobra.Command{
		Use:   "ingest <refts-file>...",
		Short: "Add referenced time series from REFTS documents",
		Long: `Read one or more REFTS JSON documents and add their referenced
time series to the session in the Waiting state. Duplicate site and
variable pairs are skipped. The printed batch id feeds the prepare
command.

Examples:

  tsm ingest my.refts.json --session demo
  tsm ingest a.refts.json b.refts.json -s demo`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			err := runIngest(sessionID, args)
			if err != nil {
				gn.PrintErrorMessage(err)
			}
			return err
		},
	}

	ingestCmd.Flags().StringVarP(
		&sessionID, "session", "s", "",
		"session the references belong to",
	)
	_ = ingestCmd.MarkFlagRequired("session")

	return ingestCmd
}

func runIngest(sessionID string, paths []string) error {
	ctx := context.Background()

	docs := make([]*refts.Document, 0, len(paths))
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		doc, err := refts.Parse(data)
		if err != nil {
			return err
		}
		docs = append(docs, doc)
	}

	store, err := connect(ctx)
	if err != nil {
		return err
	}
	defer store.Close()

	orch, err := newOrchestrator(store)
	if err != nil {
		return err
	}
	res, err := orch.Ingest(ctx, sessionID, docs)
	if err != nil {
		return err
	}

	gn.Message("<em>%s</em>", res.Message)
	if res.ReftsID != "" {
		gn.Message("Batch id: <em>%s</em>", res.ReftsID)
	}
	return nil
}
