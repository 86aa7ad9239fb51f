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

	"github.com/CUAHSI-APPS/timeseries-manager/pkg/pipeline"
	"github.com/CUAHSI-APPS/timeseries-manager/pkg/refts"
	"github.com/gnames/gn"
	"github.com/spf13/cobra"
)

// getPackageCmd returns the package command.
func getPackageCmd() *cobra.Command {
	var (
		sessionID   string
		makeRefts   bool
		makeODM2    bool
		title       string
		abstract    string
		keywordsCSV string
	)

	packageCmd := &cobra.Command{
		Use:   "package",
		Short: "Build session artifacts from the selected references",
		Long: `Write the REFTS manifest and the ODM2 SQLite database for the
selected, Ready references of a session. Title, abstract and keywords
default to values derived from the selection.

Examples:

  tsm package -s demo --refts --odm2
  tsm package -s demo --odm2 --title "Logan River discharge"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			err := runPackage(
				sessionID, makeRefts, makeODM2,
				title, abstract, keywordsCSV,
			)
			if err != nil {
				gn.PrintErrorMessage(err)
			}
			return err
		},
	}

	packageCmd.Flags().StringVarP(
		&sessionID, "session", "s", "", "session to package",
	)
	packageCmd.Flags().BoolVar(
		&makeRefts, "refts", false, "write the REFTS manifest",
	)
	packageCmd.Flags().BoolVar(
		&makeODM2, "odm2", false, "write the ODM2 SQLite database",
	)
	packageCmd.Flags().StringVar(
		&title, "title", "", "resource title (default derived)",
	)
	packageCmd.Flags().StringVar(
		&abstract, "abstract", "", "resource abstract (default derived)",
	)
	packageCmd.Flags().StringVar(
		&keywordsCSV, "keywords", "",
		"comma-separated keywords (default derived)",
	)
	_ = packageCmd.MarkFlagRequired("session")

	return packageCmd
}

func runPackage(
	sessionID string,
	makeRefts, makeODM2 bool,
	title, abstract, keywordsCSV string,
) error {
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

	meta := refts.Metadata{
		Title:    title,
		Abstract: abstract,
	}
	if keywordsCSV != "" {
		meta.Keywords = strings.Split(keywordsCSV, ",")
		for i := range meta.Keywords {
			meta.Keywords[i] = strings.TrimSpace(meta.Keywords[i])
		}
	}
	if meta.Title == "" || meta.Abstract == "" || len(meta.Keywords) == 0 {
		derived, err := orch.Metadata(ctx, sessionID)
		if err != nil {
			return err
		}
		if meta.Title == "" {
			meta.Title = derived.Title
		}
		if meta.Abstract == "" {
			meta.Abstract = derived.Abstract
		}
		if len(meta.Keywords) == 0 {
			meta.Keywords = derived.Keywords
		}
	}

	res, err := orch.Package(ctx, sessionID, pipeline.PackageOptions{
		CreateRefts: makeRefts,
		CreateODM2:  makeODM2,
		Metadata:    meta,
	})
	if err != nil {
		return err
	}

	gn.Message("<em>%s</em>", res.Message)
	if res.ReftsPath != "" {
		gn.Message("REFTS file: <em>%s</em>", res.ReftsPath)
	}
	if res.ODM2Path != "" {
		gn.Message("ODM2 database: <em>%s</em>", res.ODM2Path)
	}
	return nil
}
