//nolint:revive // intentional package name for testing
package http

import (
	"context"
	"net/http"
	"testing"

	"github.com/h2non/gock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bascanada/logexplorer/pkg/ty"
)

func TestHttpClient_Get_SendsHeadersAndQuery(t *testing.T) {
	defer gock.Off()
	gock.DisableNetworking()

	url := "http://example.com"

	gock.New(url).
		Get("/test").
		MatchParam("limit", "100").
		MatchHeader("X-Custom-Header", "custom-value").
		MatchHeader("Authorization", "Basic dXNlcjpwYXNz").
		Reply(200).
		JSON(map[string]string{"status": "ok"})

	client := GetClient(url+"/", false)
	assert.Equal(t, url, client.URL())

	headers := ty.MS{"X-Custom-Header": "custom-value"}

	var response map[string]string
	err := client.Get(context.Background(), "/test", ty.MS{"limit": "100"}, headers, &response, BasicAuth{Username: "user", Password: "pass"})

	require.NoError(t, err)
	assert.Equal(t, "ok", response["status"])
	assert.True(t, gock.IsDone())
}

func TestHttpClient_Get_ErrorStatus(t *testing.T) {
	defer gock.Off()
	gock.DisableNetworking()

	gock.New("http://example.com").
		Get("/broken").
		Reply(400).
		BodyString("parse error")

	client := GetClient("http://example.com", false)

	var response map[string]string
	err := client.Get(context.Background(), "/broken", nil, nil, &response, nil)
	assert.ErrorIs(t, err, ErrStatus)
	assert.Contains(t, err.Error(), "parse error")
}

func TestGetClient_DefaultsToHTTPS(t *testing.T) {
	assert.Equal(t, "https://loki.internal", GetClient("loki.internal//", false).URL())
}

func TestMaskHeaderMap(t *testing.T) {
	h := http.Header{}
	h.Set("Authorization", "Bearer secret-token")
	h.Set("X-Scope-OrgID", "abc")
	out := maskHeaderMap(h)
	assert.Contains(t, out, "Authorization: Bear...REDACTED")
	assert.Contains(t, out, "X-Scope-Orgid: REDACTED")
}
