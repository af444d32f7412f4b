package datasource

import (
	"context"
	"fmt"
	"net/url"
	"slices"
	"strconv"
	"time"

	"github.com/bascanada/logexplorer/pkg/http"
	"github.com/bascanada/logexplorer/pkg/log"
	"github.com/bascanada/logexplorer/pkg/ty"
)

const (
	lokiQueryRangePath  = "/loki/api/v1/query_range"
	lokiLabelValuesPath = "/loki/api/v1/label/%s/values"
)

// LokiSource queries a Loki compatible HTTP API with the composed query.
type LokiSource struct {
	client  http.HttpClient
	headers ty.MS
	auth    http.Auth
	limit   int
}

func NewLokiSource(ds Datasource) *LokiSource {
	var auth http.Auth
	if ds.Username != "" {
		auth = http.BasicAuth{
			Username: ty.ResolveString(ds.Username, nil),
			Password: ty.ResolveString(ds.Password, nil),
		}
	}
	return &LokiSource{
		client:  http.GetClient(ty.ResolveString(ds.URL, nil), ds.Insecure),
		headers: ds.Headers.ResolveVariables(),
		auth:    auth,
		limit:   ds.MaxEntries(),
	}
}

type lokiStream struct {
	Stream ty.MS       `json:"stream"`
	Values [][2]string `json:"values"`
}

type lokiQueryResponse struct {
	Status string `json:"status"`
	Data   struct {
		ResultType string       `json:"resultType"`
		Result     []lokiStream `json:"result"`
	} `json:"data"`
}

type lokiLabelValuesResponse struct {
	Status string   `json:"status"`
	Data   []string `json:"data"`
}

// Query runs req.Query over the request range, newest first.
func (l *LokiSource) Query(ctx context.Context, req Request) ([]Entry, error) {
	if req.Query == "" {
		return nil, fmt.Errorf("loki: empty query")
	}
	limit := req.Limit
	if limit <= 0 {
		limit = l.limit
	}

	params := ty.MS{
		"query":     req.Query,
		"limit":     strconv.Itoa(limit),
		"direction": "backward",
	}
	if !req.From.IsZero() {
		params["start"] = strconv.FormatInt(req.From.UnixNano(), 10)
	}
	if !req.To.IsZero() {
		params["end"] = strconv.FormatInt(req.To.UnixNano(), 10)
	}

	var res lokiQueryResponse
	if err := l.client.Get(ctx, lokiQueryRangePath, params, l.headers, &res, l.auth); err != nil {
		return nil, fmt.Errorf("loki query_range: %w", err)
	}
	if res.Status != "success" {
		return nil, fmt.Errorf("loki query_range: status %q", res.Status)
	}

	var entries []Entry
	for _, stream := range res.Data.Result {
		for _, v := range stream.Values {
			ns, err := strconv.ParseInt(v[0], 10, 64)
			if err != nil {
				log.Warn("loki: bad timestamp %q: %v", v[0], err)
				continue
			}
			e := ParseLine(v[1], FormatAuto, nil)
			e.Timestamp = time.Unix(0, ns).UTC()
			e.Labels = stream.Stream
			entries = append(entries, e)
		}
	}

	slices.SortStableFunc(entries, func(a, b Entry) int {
		return b.Timestamp.Compare(a.Timestamp)
	})
	if len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

// LabelValues lists the values of label, sorted.
func (l *LokiSource) LabelValues(ctx context.Context, label string) ([]string, error) {
	var res lokiLabelValuesResponse
	path := fmt.Sprintf(lokiLabelValuesPath, url.PathEscape(label))
	if err := l.client.Get(ctx, path, nil, l.headers, &res, l.auth); err != nil {
		return nil, fmt.Errorf("loki label values: %w", err)
	}
	values := slices.Clone(res.Data)
	slices.Sort(values)
	return values, nil
}
