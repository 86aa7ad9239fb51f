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
	"strings"

	"github.com/gnames/gn"
	"github.com/spf13/cobra"
)

// getMetadataCmd returns the metadata command.
func getMetadataCmd() *cobra.Command {
	var sessionID string

	metadataCmd := &cobra.Command{
		Use:   "metadata",
		Short: "Show the derived resource metadata of a session",
		Long: `Print the default title, abstract, keywords and file name that
the package command derives from the selected references.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			err := runMetadata(sessionID)
			if err != nil {
				gn.PrintErrorMessage(err)
			}
			return err
		},
	}

	metadataCmd.Flags().StringVarP(
		&sessionID, "session", "s", "", "session to inspect",
	)
	_ = metadataCmd.MarkFlagRequired("session")

	return metadataCmd
}

func runMetadata(sessionID string) error {
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
	md, err := orch.Metadata(ctx, sessionID)
	if err != nil {
		return err
	}

	gn.Message("Title:    <em>%s</em>", md.Title)
	gn.Message("Abstract: %s", md.Abstract)
	gn.Message("Keywords: %s", strings.Join(md.Keywords, ", "))
	gn.Message("Filename: <em>%s</em>", md.Filename)
	return nil
}
