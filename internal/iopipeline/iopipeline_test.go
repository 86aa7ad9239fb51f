package iopipeline_test

import (
	"archive/zip"
	"bytes"
	"context"
	"os"
	"testing"

	"github.com/CUAHSI-APPS/timeseries-manager/internal/iocatalog"
	"github.com/CUAHSI-APPS/timeseries-manager/internal/iopipeline"
	"github.com/CUAHSI-APPS/timeseries-manager/pkg/catalog"
	"github.com/CUAHSI-APPS/timeseries-manager/pkg/config"
	"github.com/CUAHSI-APPS/timeseries-manager/pkg/pipeline"
	"github.com/CUAHSI-APPS/timeseries-manager/pkg/refts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sessionID = "sess-1"

// memRepo is an in-memory catalog repository for orchestrator tests.
type memRepo struct {
	refs    map[string]*catalog.TimeSeriesReference
	order   []string
	pending map[string][]string
}

func newMemRepo() *memRepo {
	return &memRepo{
		refs:    map[string]*catalog.TimeSeriesReference{},
		pending: map[string][]string{},
	}
}

func (m *memRepo) Add(_ context.Context, ref *catalog.TimeSeriesReference) error {
	for _, id := range m.order {
		r := m.refs[id]
		if r.SiteCode == ref.SiteCode && r.VariableCode == ref.VariableCode {
			return iocatalog.DuplicateError(
				ref.SessionID, ref.SiteCode, ref.VariableCode,
			)
		}
	}
	cp := *ref
	m.refs[ref.TimeseriesID] = &cp
	m.order = append(m.order, ref.TimeseriesID)
	return nil
}

func (m *memRepo) Get(
	_ context.Context, _, timeseriesID string,
) (*catalog.TimeSeriesReference, error) {
	ref, ok := m.refs[timeseriesID]
	if !ok {
		return nil, iocatalog.NotFoundError(sessionID, timeseriesID)
	}
	cp := *ref
	return &cp, nil
}

func (m *memRepo) List(
	_ context.Context, _ string,
) ([]catalog.TimeSeriesReference, error) {
	res := make([]catalog.TimeSeriesReference, 0, len(m.order))
	for _, id := range m.order {
		res = append(res, *m.refs[id])
	}
	return res, nil
}

func (m *memRepo) ListSelected(
	ctx context.Context, s string,
) ([]catalog.TimeSeriesReference, error) {
	all, _ := m.List(ctx, s)
	var res []catalog.TimeSeriesReference
	for _, ref := range all {
		if ref.Selected {
			res = append(res, ref)
		}
	}
	return res, nil
}

func (m *memRepo) Update(
	_ context.Context, _, timeseriesID string, upd catalog.Update,
) error {
	ref, ok := m.refs[timeseriesID]
	if !ok {
		return iocatalog.NotFoundError(sessionID, timeseriesID)
	}
	if upd.Status != nil {
		ref.Status = *upd.Status
	}
	if upd.StatusDetails != nil {
		ref.StatusDetails = *upd.StatusDetails
	}
	if upd.Selected != nil {
		ref.Selected = *upd.Selected
	}
	if upd.WMLData != nil {
		ref.WMLData = upd.WMLData
	}
	if upd.ReturnType != nil {
		ref.ReturnType = *upd.ReturnType
	}
	return nil
}

func (m *memRepo) UpdateSelections(
	_ context.Context, _, _, _ string, _ bool,
) error {
	return nil
}

func (m *memRepo) Remove(_ context.Context, _, _ string) error { return nil }

func (m *memRepo) RemoveSession(_ context.Context, _ string) error { return nil }

func (m *memRepo) Statuses(
	_ context.Context, _ string,
) ([]catalog.StatusRecord, error) {
	return nil, nil
}

func (m *memRepo) GetWML(
	_ context.Context, _, timeseriesID string,
) ([]byte, string, error) {
	ref, ok := m.refs[timeseriesID]
	if !ok {
		return nil, "", iocatalog.NotFoundError(sessionID, timeseriesID)
	}
	return ref.WMLData, ref.ReturnType, nil
}

func (m *memRepo) AddPending(
	_ context.Context, p *catalog.PendingTimeseries,
) error {
	m.pending[p.ReftsID] = append(m.pending[p.ReftsID], p.TimeseriesID)
	return nil
}

func (m *memRepo) TakePending(
	_ context.Context, _, reftsID string,
) ([]string, error) {
	ids := m.pending[reftsID]
	delete(m.pending, reftsID)
	return ids, nil
}

func (m *memRepo) Metadata(
	ctx context.Context, s string,
) (*catalog.ResourceMetadata, error) {
	refs, _ := m.ListSelected(ctx, s)
	return iocatalog.Aggregate(refs), nil
}

// fakeFetcher serves canned payloads and records which requests it
// received.
type fakeFetcher struct {
	soap   map[string][]byte
	rest   map[string][]byte
	cached map[string][]byte

	soapCalls   []string
	restCalls   []string
	cachedCalls []string
}

func (f *fakeFetcher) FetchSOAP(
	_ context.Context, reqs []pipeline.SOAPRequest,
) []pipeline.Result {
	res := make([]pipeline.Result, len(reqs))
	for i, req := range reqs {
		f.soapCalls = append(f.soapCalls, req.TimeseriesID)
		res[i] = pipeline.Result{
			TimeseriesID: req.TimeseriesID,
			Payload:      f.soap[req.TimeseriesID],
		}
	}
	return res
}

func (f *fakeFetcher) FetchREST(
	_ context.Context, reqs []pipeline.RESTRequest,
) []pipeline.Result {
	res := make([]pipeline.Result, len(reqs))
	for i, req := range reqs {
		f.restCalls = append(f.restCalls, req.TimeseriesID)
		res[i] = pipeline.Result{
			TimeseriesID: req.TimeseriesID,
			Payload:      f.rest[req.TimeseriesID],
		}
	}
	return res
}

func (f *fakeFetcher) FetchCached(
	_ context.Context, reqs []pipeline.CachedRequest,
) []pipeline.Result {
	res := make([]pipeline.Result, len(reqs))
	for i, req := range reqs {
		f.cachedCalls = append(f.cachedCalls, req.TimeseriesID)
		res[i] = pipeline.Result{
			TimeseriesID: req.TimeseriesID,
			Payload:      f.cached[req.TimeseriesID],
		}
	}
	return res
}

// fakeValidator rejects payloads carrying the INVALID marker.
type fakeValidator struct{}

func (fakeValidator) Validate(payload []byte, _ string) bool {
	return !bytes.Contains(payload, []byte("INVALID"))
}

// fakeLoader records its arguments and returns a fixed path.
type fakeLoader struct {
	path    string
	gotIDs  []string
	gotMeta refts.Metadata
}

func (f *fakeLoader) Load(
	_ context.Context, _ string, ids []string, meta refts.Metadata,
) (string, error) {
	f.gotIDs = ids
	f.gotMeta = meta
	return f.path, nil
}

func soapPayload(marker string) []byte {
	return []byte(`<soap:Envelope xmlns:soap="http://schemas.xmlsoap.org/soap/envelope/">
  <soap:Body>
    <GetValuesObjectResponse>
      <timeSeriesResponse xmlns="http://www.cuahsi.org/waterML/1.1/">
        <timeSeries>` + marker + `</timeSeries>
      </timeSeriesResponse>
    </GetValuesObjectResponse>
  </soap:Body>
</soap:Envelope>`)
}

func restPayload(marker string) []byte {
	return []byte(`<timeSeriesResponse xmlns="http://www.cuahsi.org/waterML/1.1/">
  <timeSeries>` + marker + `</timeSeries>
</timeSeriesResponse>`)
}

// zipPayload wraps data the way the WaterOneFlow archive cache does,
// as the sole member of a zip archive.
func zipPayload(t *testing.T, data []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("values.xml")
	require.NoError(t, err)
	_, err = w.Write(data)
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func newOrchestrator(
	repo catalog.Repository,
	fetcher pipeline.Fetcher,
	loader pipeline.Loader,
	workspace string,
) pipeline.Orchestrator {
	cfg := config.New()
	if workspace != "" {
		cfg.Update([]config.Option{config.OptAssetsWorkspace(workspace)})
	}
	return iopipeline.New(*cfg, repo, fetcher, fakeValidator{}, loader)
}

func TestIngest(t *testing.T) {
	assert := assert.New(t)
	repo := newMemRepo()
	require.NoError(t, repo.Add(context.Background(),
		&catalog.TimeSeriesReference{
			SessionID:    sessionID,
			TimeseriesID: "existing",
			SiteCode:     "RB_KF_C",
			VariableCode: "RB_WT",
		}))

	doc := &refts.Document{File: refts.ReferenceFile{
		ReferencedTimeSeries: []refts.Entry{
			{
				Site: refts.Site{
					SiteName: "Logan River", SiteCode: "LR_FB_C",
				},
				Variable: refts.Variable{
					VariableName: "Temperature", VariableCode: "LR_WT",
				},
				RequestInfo: refts.RequestInfo{
					ServiceType: "SOAP", ReturnType: "WaterML 1.1",
				},
				WofParams: &refts.WofParams{
					WofURI: "cuahsi-wdc/iutah/LR_FB_C/LR_WT",
				},
			},
			{
				// Duplicate of the pre-existing reference.
				Site:     refts.Site{SiteCode: "RB_KF_C"},
				Variable: refts.Variable{VariableCode: "RB_WT"},
			},
		},
	}}

	orch := newOrchestrator(repo, &fakeFetcher{}, &fakeLoader{}, "")
	res, err := orch.Ingest(context.Background(), sessionID, []*refts.Document{doc})
	require.NoError(t, err)

	assert.True(res.Success)
	assert.Equal(1, res.Count)
	assert.NotEmpty(res.ReftsID)
	assert.Equal("Added 1 time series references (1 duplicates skipped).",
		res.Message)

	require.Len(t, repo.pending[res.ReftsID], 1)
	added := repo.refs[repo.pending[res.ReftsID][0]]
	assert.Equal(catalog.StatusWaiting, added.Status)
	assert.True(added.Selected)
	assert.Equal("LR_FB_C", added.SiteCode)
	assert.Equal("cuahsi-wdc/iutah/LR_FB_C/LR_WT", added.CacheURI)
}

func TestIngestNothingNew(t *testing.T) {
	repo := newMemRepo()
	orch := newOrchestrator(repo, &fakeFetcher{}, &fakeLoader{}, "")

	res, err := orch.Ingest(context.Background(), sessionID, nil)
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Zero(t, res.Count)
	assert.Empty(t, res.ReftsID)
	assert.Equal(t, "No new time series references were added.", res.Message)
}

// seedWaiting registers one Waiting reference under a pending batch.
func seedWaiting(
	t *testing.T,
	repo *memRepo,
	reftsID, timeseriesID, serviceType, cacheURI string,
) {
	t.Helper()
	require.NoError(t, repo.Add(context.Background(),
		&catalog.TimeSeriesReference{
			SessionID:    sessionID,
			TimeseriesID: timeseriesID,
			Status:       catalog.StatusWaiting,
			Selected:     true,
			SiteCode:     timeseriesID + "-site",
			VariableCode: timeseriesID + "-var",
			ServiceType:  serviceType,
			ReturnType:   "WaterML 1.1",
			CacheURI:     cacheURI,
		}))
	require.NoError(t, repo.AddPending(context.Background(),
		&catalog.PendingTimeseries{
			SessionID:    sessionID,
			ReftsID:      reftsID,
			TimeseriesID: timeseriesID,
		}))
}

func TestPrepare(t *testing.T) {
	assert := assert.New(t)
	reftsID := "batch-1"
	repo := newMemRepo()
	seedWaiting(t, repo, reftsID, "ts-soap", catalog.ServiceSOAP, "")
	seedWaiting(t, repo, reftsID, "ts-rest", catalog.ServiceREST, "")
	seedWaiting(t, repo, reftsID, "ts-cached-ok", catalog.ServiceSOAP,
		"cuahsi-wdc/a")
	seedWaiting(t, repo, reftsID, "ts-cached-retry", catalog.ServiceSOAP,
		"cuahsi-wdc/b")
	seedWaiting(t, repo, reftsID, "ts-no-data", catalog.ServiceSOAP, "")
	seedWaiting(t, repo, reftsID, "ts-invalid", catalog.ServiceSOAP, "")

	fetcher := &fakeFetcher{
		soap: map[string][]byte{
			"ts-soap":         soapPayload("ok"),
			"ts-cached-retry": soapPayload("ok"),
			"ts-invalid":      soapPayload("INVALID"),
		},
		rest: map[string][]byte{
			"ts-rest": restPayload("ok"),
		},
		cached: map[string][]byte{
			"ts-cached-ok":    soapPayload("ok"),
			"ts-cached-retry": soapPayload("INVALID"),
		},
	}

	orch := newOrchestrator(repo, fetcher, &fakeLoader{}, "")
	res, err := orch.Prepare(context.Background(), sessionID, reftsID)
	require.NoError(t, err)

	assert.True(res.Success)
	assert.Equal("Processed 6 time series.", res.Message)

	for _, id := range []string{
		"ts-soap", "ts-rest", "ts-cached-ok", "ts-cached-retry",
	} {
		ref := repo.refs[id]
		assert.Equal(catalog.StatusReady, ref.Status, id)
		assert.Empty(ref.StatusDetails, id)
		assert.Contains(string(ref.WMLData), "timeSeriesResponse", id)
	}

	assert.Equal(catalog.StatusFailed, repo.refs["ts-no-data"].Status)
	assert.Equal("The WaterOneFlow request returned no data.",
		repo.refs["ts-no-data"].StatusDetails)

	assert.Equal(catalog.StatusFailed, repo.refs["ts-invalid"].Status)
	assert.Equal("The WaterML data did not pass schema validation.",
		repo.refs["ts-invalid"].StatusDetails)

	// Cached items never hit the live service unless their cached
	// payload failed; by then the invalid one gets a second chance.
	assert.ElementsMatch(
		[]string{"ts-cached-ok", "ts-cached-retry"}, fetcher.cachedCalls)
	assert.Contains(fetcher.soapCalls, "ts-cached-retry")
	assert.NotContains(fetcher.soapCalls, "ts-cached-ok")
	assert.Equal([]string{"ts-rest"}, fetcher.restCalls)

	// The batch is consumed on the first pass.
	res, err = orch.Prepare(context.Background(), sessionID, reftsID)
	require.NoError(t, err)
	assert.Equal("Nothing to prepare.", res.Message)
}

// TestPrepareCachedRest verifies that a REST reference with a cache
// entry loads from the zip-wrapped archive payload and never hits the
// live service.
func TestPrepareCachedRest(t *testing.T) {
	assert := assert.New(t)
	reftsID := "batch-2"
	repo := newMemRepo()
	seedWaiting(t, repo, reftsID, "ts-rest-cached", catalog.ServiceREST,
		"cuahsi-wdc/c")

	fetcher := &fakeFetcher{
		cached: map[string][]byte{
			"ts-rest-cached": zipPayload(t, restPayload("ok")),
		},
	}

	orch := newOrchestrator(repo, fetcher, &fakeLoader{}, "")
	res, err := orch.Prepare(context.Background(), sessionID, reftsID)
	require.NoError(t, err)
	assert.True(res.Success)

	ref := repo.refs["ts-rest-cached"]
	assert.Equal(catalog.StatusReady, ref.Status)
	assert.Contains(string(ref.WMLData), "timeSeriesResponse")
	assert.Equal([]string{"ts-rest-cached"}, fetcher.cachedCalls)
	assert.Empty(fetcher.restCalls)
	assert.Empty(fetcher.soapCalls)
}

func TestPackage(t *testing.T) {
	assert := assert.New(t)
	repo := newMemRepo()
	for _, id := range []string{"ts-1", "ts-2"} {
		require.NoError(t, repo.Add(context.Background(),
			&catalog.TimeSeriesReference{
				SessionID:    sessionID,
				TimeseriesID: id,
				Status:       catalog.StatusReady,
				Selected:     true,
				SiteCode:     id + "-site",
				VariableCode: id + "-var",
			}))
	}

	loader := &fakeLoader{path: "/tmp/out/timeseries.odm2.sqlite"}
	orch := newOrchestrator(repo, &fakeFetcher{}, loader, t.TempDir())

	meta := refts.Metadata{Title: "Red Butte Creek observations"}
	res, err := orch.Package(context.Background(), sessionID,
		pipeline.PackageOptions{
			CreateRefts: true,
			CreateODM2:  true,
			Metadata:    meta,
		})
	require.NoError(t, err)

	assert.True(res.Success)
	assert.Equal("Session artifacts created.", res.Message)
	assert.NotEmpty(res.ReftsPath)
	assert.Equal(loader.path, res.ODM2Path)
	assert.Equal([]string{"ts-1", "ts-2"}, loader.gotIDs)
	assert.Equal(meta, loader.gotMeta)

	data, err := refts.Parse(mustRead(t, res.ReftsPath))
	require.NoError(t, err)
	assert.Equal(refts.Nullable(meta.Title), data.File.Title)
	assert.Len(data.File.ReferencedTimeSeries, 2)
}

func mustRead(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return data
}

func TestPackageNoSelection(t *testing.T) {
	orch := newOrchestrator(newMemRepo(), &fakeFetcher{}, &fakeLoader{}, "")
	res, err := orch.Package(context.Background(), sessionID,
		pipeline.PackageOptions{CreateRefts: true})
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.Equal(t, "Please select at least one row.", res.Message)
}

func TestPackageNotReady(t *testing.T) {
	repo := newMemRepo()
	require.NoError(t, repo.Add(context.Background(),
		&catalog.TimeSeriesReference{
			SessionID:    sessionID,
			TimeseriesID: "ts-1",
			Status:       catalog.StatusFailed,
			Selected:     true,
		}))

	orch := newOrchestrator(repo, &fakeFetcher{}, &fakeLoader{}, "")
	_, err := orch.Package(context.Background(), sessionID,
		pipeline.PackageOptions{CreateRefts: true})
	assert.Error(t, err)
}
