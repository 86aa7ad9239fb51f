// Package iofetch implements the concurrent WaterOneFlow fetcher.
// This is an impure I/O package that issues outbound SOAP and REST
// requests against third-party services.
package iofetch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/CUAHSI-APPS/timeseries-manager/pkg/config"
	"github.com/CUAHSI-APPS/timeseries-manager/pkg/pipeline"
	"golang.org/x/sync/errgroup"
)

// soapEnvelope is the GetValuesObject request template. Parameters:
// version (twice), location, variable, startDate, endDate, authToken.
const soapEnvelope = `<soap-env:Envelope xmlns:soap-env="http://schemas.xmlsoap.org/soap/envelope/">
  <soap-env:Body>
    <ns0:GetValuesObject xmlns:ns0="http://www.cuahsi.org/his/%s/ws/">
      <ns0:location>%s</ns0:location>
      <ns0:variable>%s</ns0:variable>
      <ns0:startDate>%s</ns0:startDate>
      <ns0:endDate>%s</ns0:endDate>
      <ns0:authToken>%s</ns0:authToken>
    </ns0:GetValuesObject>
  </soap-env:Body>
</soap-env:Envelope>`

// fetcher implements the pipeline.Fetcher interface.
type fetcher struct {
	cfg    *config.FetchConfig
	client *http.Client
}

// New creates a Fetcher sharing one connection-pooled HTTP client
// across all requests of a batch. The pool limit is the only
// concurrency cap; batches are human-scale so no explicit semaphore
// is needed.
func New(cfg *config.FetchConfig) pipeline.Fetcher {
	transport := &http.Transport{
		MaxConnsPerHost:     cfg.MaxConnsPerHost,
		MaxIdleConnsPerHost: cfg.MaxConnsPerHost,
	}
	return &fetcher{
		cfg: cfg,
		client: &http.Client{
			Transport: transport,
			Timeout:   time.Duration(cfg.Timeout) * time.Second,
		},
	}
}

// FetchSOAP issues one GetValuesObject POST per request, all
// concurrently. Every request yields a Result; transport failures
// and non-200 responses degrade to a nil payload for that item only.
func (f *fetcher) FetchSOAP(
	ctx context.Context,
	reqs []pipeline.SOAPRequest,
) []pipeline.Result {
	res := make([]pipeline.Result, len(reqs))
	g, ctx := errgroup.WithContext(ctx)
	for i, req := range reqs {
		g.Go(func() error {
			body := fmt.Sprintf(soapEnvelope,
				req.Version, req.Location, req.Variable,
				req.StartDate, req.EndDate, req.AuthToken)
			headers := map[string]string{
				"SOAPAction": fmt.Sprintf(
					"http://www.cuahsi.org/his/%s/ws/GetValuesObject",
					req.Version),
				"Content-Type": "text/xml; charset=utf-8",
			}
			payload := f.do(ctx, http.MethodPost, req.URL, body, headers)
			res[i] = pipeline.Result{
				Payload:      payload,
				TimeseriesID: req.TimeseriesID,
			}
			return nil
		})
	}
	// Workers never return errors; Wait is a pure join.
	_ = g.Wait()
	return res
}

// FetchREST issues one values query GET per request, all
// concurrently, with the same isolation contract as FetchSOAP.
func (f *fetcher) FetchREST(
	ctx context.Context,
	reqs []pipeline.RESTRequest,
) []pipeline.Result {
	res := make([]pipeline.Result, len(reqs))
	g, ctx := errgroup.WithContext(ctx)
	for i, req := range reqs {
		g.Go(func() error {
			q := url.Values{}
			q.Set("site_code", req.SiteCode)
			q.Set("variable_code", req.VariableCode)
			q.Set("start_date", req.StartDate)
			q.Set("end_date", req.EndDate)
			target := fmt.Sprintf("%svalues/?%s", req.URL, q.Encode())
			payload := f.do(ctx, http.MethodGet, target, "", nil)
			res[i] = pipeline.Result{
				Payload:      payload,
				TimeseriesID: req.TimeseriesID,
			}
			return nil
		})
	}
	_ = g.Wait()
	return res
}

// FetchCached downloads zip-wrapped payloads from the WaterOneFlow
// archive cache.
func (f *fetcher) FetchCached(
	ctx context.Context,
	reqs []pipeline.CachedRequest,
) []pipeline.Result {
	base := strings.TrimSuffix(f.cfg.CacheBase, "/")
	res := make([]pipeline.Result, len(reqs))
	g, ctx := errgroup.WithContext(ctx)
	for i, req := range reqs {
		g.Go(func() error {
			target := fmt.Sprintf("%s/%s/", base, req.CacheURI)
			payload := f.do(ctx, http.MethodGet, target, "", nil)
			res[i] = pipeline.Result{
				Payload:      payload,
				TimeseriesID: req.TimeseriesID,
			}
			return nil
		})
	}
	_ = g.Wait()
	return res
}

// do performs one HTTP request and returns the response body, or nil
// on any failure. Failures are logged and swallowed: one bad endpoint
// must never abort its sibling requests.
func (f *fetcher) do(
	ctx context.Context,
	method, target, body string,
	headers map[string]string,
) []byte {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		slog.Warn("Malformed fetch request", "url", target, "error", err)
		return nil
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		slog.Warn("Fetch failed", "url", target, "error", err)
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		slog.Warn("Fetch returned non-200 status",
			"url", target, "status", resp.StatusCode)
		return nil
	}

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		slog.Warn("Fetch body read failed", "url", target, "error", err)
		return nil
	}
	return payload
}
