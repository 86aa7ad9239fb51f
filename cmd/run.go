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

	"github.com/CUAHSI-APPS/timeseries-manager/internal/iocatalog"
	"github.com/CUAHSI-APPS/timeseries-manager/internal/iofetch"
	"github.com/CUAHSI-APPS/timeseries-manager/internal/ioodm2"
	"github.com/CUAHSI-APPS/timeseries-manager/internal/iopipeline"
	"github.com/CUAHSI-APPS/timeseries-manager/internal/iovalidate"
	"github.com/CUAHSI-APPS/timeseries-manager/pkg/pipeline"
	"github.com/gnames/gn"
)

// connect opens the catalog store. The caller is responsible for
// closing it.
func connect(ctx context.Context) (*iocatalog.Store, error) {
	store := iocatalog.New()
	if err := store.Connect(ctx, &cfg.Catalog); err != nil {
		return nil, err
	}
	gn.Info("Connected to catalog: <em>%s@%s:%d/%s</em>",
		cfg.Catalog.User, cfg.Catalog.Host,
		cfg.Catalog.Port, cfg.Catalog.Database)
	return store, nil
}

// newOrchestrator wires the pipeline components around an open store.
func newOrchestrator(store *iocatalog.Store) (pipeline.Orchestrator, error) {
	validator, err := iovalidate.New(&cfg.Assets)
	if err != nil {
		return nil, err
	}
	return iopipeline.New(
		*cfg,
		store,
		iofetch.New(&cfg.Fetch),
		validator,
		ioodm2.New(*cfg, store),
	), nil
}
