package datasource

import (
	"context"
	"testing"
	"time"

	"github.com/h2non/gock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bascanada/logexplorer/pkg/ty"
)

const lokiURL = "http://loki.local:3100"

func TestLokiSource_Query(t *testing.T) {
	defer gock.Off()
	gock.DisableNetworking()

	from := time.Unix(1700000000, 0)
	to := time.Unix(1700000900, 0)

	gock.New(lokiURL).
		Get("/loki/api/v1/query_range").
		MatchParam("query", `\{service_name=`+"`api`"+`\}`).
		MatchParam("limit", "50").
		MatchParam("direction", "backward").
		MatchParam("start", "1700000000000000000").
		MatchParam("end", "1700000900000000000").
		MatchHeader("X-Scope-OrgID", "tenant").
		Reply(200).
		JSON(map[string]any{
			"status": "success",
			"data": map[string]any{
				"resultType": "streams",
				"result": []map[string]any{
					{
						"stream": map[string]string{"service_name": "api", "pod": "a"},
						"values": [][2]string{
							{"1700000001000000000", `level=info msg="first"`},
							{"1700000003000000000", `{"level":"error","msg":"third"}`},
						},
					},
					{
						"stream": map[string]string{"service_name": "api", "pod": "b"},
						"values": [][2]string{
							{"1700000002000000000", "plain second"},
							{"bad", "skipped"},
						},
					},
				},
			},
		})

	src := NewLokiSource(Datasource{
		Type:    TypeLoki,
		URL:     lokiURL,
		Headers: ty.MS{"X-Scope-OrgID": "${LOKI_TENANT:-tenant}"},
	})

	entries, err := src.Query(context.Background(), Request{
		Query: "{service_name=`api`}",
		From:  from,
		To:    to,
		Limit: 50,
	})
	require.NoError(t, err)
	require.Len(t, entries, 3)

	assert.Equal(t, `{"level":"error","msg":"third"}`, entries[0].Line)
	assert.Equal(t, "error", entries[0].Fields["level"])
	assert.Equal(t, "a", entries[0].Labels["pod"])
	assert.Equal(t, time.Unix(1700000003, 0).UTC(), entries[0].Timestamp)

	assert.Equal(t, "plain second", entries[1].Line)
	assert.Equal(t, "b", entries[1].Labels["pod"])

	assert.Equal(t, "first", entries[2].Fields["msg"])
	assert.True(t, gock.IsDone())
}

func TestLokiSource_QueryLimit(t *testing.T) {
	defer gock.Off()
	gock.DisableNetworking()

	gock.New(lokiURL).
		Get("/loki/api/v1/query_range").
		MatchParam("limit", "1").
		Reply(200).
		JSON(map[string]any{
			"status": "success",
			"data": map[string]any{
				"resultType": "streams",
				"result": []map[string]any{{
					"stream": map[string]string{"service_name": "api"},
					"values": [][2]string{
						{"1700000001000000000", "older"},
						{"1700000002000000000", "newer"},
					},
				}},
			},
		})

	src := NewLokiSource(Datasource{Type: TypeLoki, URL: lokiURL, Limit: ty.Some(1)})
	entries, err := src.Query(context.Background(), Request{Query: "{}"})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "newer", entries[0].Line)
}

func TestLokiSource_QueryErrors(t *testing.T) {
	defer gock.Off()
	gock.DisableNetworking()

	gock.New(lokiURL).
		Get("/loki/api/v1/query_range").
		Reply(400).
		BodyString("parse error at line 1")

	gock.New(lokiURL).
		Get("/loki/api/v1/query_range").
		Reply(200).
		JSON(map[string]any{"status": "error"})

	src := NewLokiSource(Datasource{Type: TypeLoki, URL: lokiURL})

	_, err := src.Query(context.Background(), Request{})
	assert.Error(t, err)

	_, err = src.Query(context.Background(), Request{Query: "{"})
	assert.ErrorContains(t, err, "parse error")

	_, err = src.Query(context.Background(), Request{Query: "{}"})
	assert.ErrorContains(t, err, `status "error"`)
}

func TestLokiSource_LabelValues(t *testing.T) {
	defer gock.Off()
	gock.DisableNetworking()

	gock.New(lokiURL).
		Get("/loki/api/v1/label/service_name/values").
		MatchHeader("Authorization", "Basic YWRtaW46c2VjcmV0").
		Reply(200).
		JSON(map[string]any{"status": "success", "data": []string{"worker", "api", "gateway"}})

	t.Setenv("LOKI_PASSWORD", "secret")
	src := NewLokiSource(Datasource{Type: TypeLoki, URL: lokiURL, Username: "admin", Password: "${LOKI_PASSWORD}"})
	values, err := src.LabelValues(context.Background(), "service_name")
	require.NoError(t, err)
	assert.Equal(t, []string{"api", "gateway", "worker"}, values)
	assert.True(t, gock.IsDone())
}
