package client

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"testing"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fivetwenty-io/workos-client/pkg/workos"
)

func warrantJSON(resourceID string) string {
	return `{"resource_type":"document","resource_id":"` + resourceID + `","relation":"viewer",` +
		`"subject":{"resource_type":"user","resource_id":"user_123"}}`
}

func TestFGAClient_ListWarrants(t *testing.T) {
	t.Parallel()

	client := newServerClient(t, func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, "/fga/v1/warrants", request.URL.Path)
		assert.Equal(t, "GET", request.Method)
		assert.Equal(t, "Bearer "+testAPIKey, request.Header.Get("Authorization"))
		assert.Equal(t, "document", request.URL.Query().Get("resource_type"))
		assert.Equal(t, "viewer", request.URL.Query().Get("relation"))
		assert.Empty(t, request.URL.Query().Get("subject_type"))
		assert.Equal(t, "wt_123", request.Header.Get("Warrant-Token"))

		writeJSON(writer, http.StatusOK, `{"data":[`+warrantJSON("doc_abc")+`],"list_metadata":{"before":null,"after":null}}`)
	})

	list, err := client.FGA().ListWarrants(context.Background(), &workos.ListWarrantsParams{
		ResourceType: "document",
		Relation:     "viewer",
		WarrantToken: "wt_123",
	})
	require.NoError(t, err)
	require.Len(t, list.Data, 1)
	assert.Equal(t, "doc_abc", list.Data[0].ResourceID)
	assert.Equal(t, "user_123", list.Data[0].Subject.ResourceID)
	assert.Nil(t, list.ListMetadata.Before)
	assert.Nil(t, list.ListMetadata.After)
}

//nolint:funlen // Test functions can be longer for comprehensive testing
func TestFGAClient_ListWarrants_Pagination(t *testing.T) {
	t.Parallel()

	client, transport := newMockClient(t)
	warrantsURL := mockBaseURL + "/fga/v1/warrants"

	page := func(resourceID, before, after string) httpmock.Responder {
		cursor := func(value string) string {
			if value == "" {
				return "null"
			}

			return `"` + value + `"`
		}

		return httpmock.NewStringResponder(http.StatusOK, `{"data":[`+warrantJSON(resourceID)+`],`+
			`"list_metadata":{"before":`+cursor(before)+`,"after":`+cursor(after)+`}}`)
	}

	transport.RegisterResponderWithQuery("GET", warrantsURL, "limit=1", page("doc_1", "", "cursor_2"))
	transport.RegisterResponderWithQuery("GET", warrantsURL, "limit=1&after=cursor_2", page("doc_2", "cursor_1", "cursor_3"))
	transport.RegisterResponderWithQuery("GET", warrantsURL, "limit=1&after=cursor_3", page("doc_3", "cursor_2", ""))
	transport.RegisterResponderWithQuery("GET", warrantsURL, "limit=1&before=cursor_2", page("doc_2", "cursor_1", "cursor_3"))
	transport.RegisterResponderWithQuery("GET", warrantsURL, "limit=1&before=cursor_1", page("doc_1", "", "cursor_2"))

	ctx := context.Background()
	fetch := func(ctx context.Context, pagination workos.PaginationParams) (*workos.List[workos.Warrant], error) {
		return client.FGA().ListWarrants(ctx, &workos.ListWarrantsParams{PaginationParams: pagination})
	}

	t.Run("forward then backward", func(t *testing.T) {
		pager := workos.NewPager(fetch, workos.PaginationParams{Limit: 1}, workos.Forward)

		var (
			forward []string
			last    *workos.List[workos.Warrant]
		)

		for pager.HasNext() {
			list, err := pager.Next(ctx)
			require.NoError(t, err)

			for _, warrant := range list.Data {
				forward = append(forward, warrant.ResourceID)
			}

			last = list
		}

		assert.Equal(t, []string{"doc_1", "doc_2", "doc_3"}, forward)
		require.NotNil(t, last.ListMetadata.Before)

		_, err := pager.Next(ctx)
		require.ErrorIs(t, err, workos.ErrNoMorePages)

		var backward []string

		backPager := workos.NewPager(fetch, workos.PaginationParams{Limit: 1, Before: *last.ListMetadata.Before}, workos.Backward)
		for warrant, err := range backPager.All(ctx) {
			require.NoError(t, err)

			backward = append(backward, warrant.ResourceID)
		}

		assert.Equal(t, []string{"doc_2", "doc_1"}, backward)
	})

	t.Run("same cursor returns same page", func(t *testing.T) {
		first, err := fetch(ctx, workos.PaginationParams{Limit: 1, After: "cursor_2"})
		require.NoError(t, err)

		second, err := fetch(ctx, workos.PaginationParams{Limit: 1, After: "cursor_2"})
		require.NoError(t, err)

		assert.Equal(t, first, second)
	})

	t.Run("collect all", func(t *testing.T) {
		items, err := workos.CollectAll(ctx, fetch, workos.PaginationParams{Limit: 1}, workos.Forward)
		require.NoError(t, err)
		assert.Len(t, items, 3)
	})
}

func TestFGAClient_GetResourceType(t *testing.T) {
	t.Parallel()

	RunGetTests(t, []TestGetOperation[workos.ResourceType]{
		{
			Name:         "inherit and union relations",
			ID:           "document",
			ExpectedPath: "/fga/v1/resource-types/document",
			StatusCode:   http.StatusOK,
			Response: `{"type":"document","relations":{` +
				`"owner":{"inherit":{"relation":"owner","from":"parent"}},` +
				`"viewer":{"union":[{"this":{}},{"inherit":{"relation":"viewer","from":"parent"}}]}}}`,
			Check: func(t *testing.T, result *workos.ResourceType) {
				t.Helper()

				owner := result.Relations["owner"]
				assert.Equal(t, workos.RelationRuleInherit, owner.Kind)
				assert.Equal(t, "parent", owner.Inherit.From)

				viewer := result.Relations["viewer"]
				require.Equal(t, workos.RelationRuleUnion, viewer.Kind)
				require.Len(t, viewer.Union, 2)
				assert.Equal(t, workos.RelationRuleThis, viewer.Union[0].Kind)
				assert.Equal(t, workos.RelationRuleInherit, viewer.Union[1].Kind)
			},
		},
		{
			Name:         "not found",
			ID:           "missing",
			ExpectedPath: "/fga/v1/resource-types/missing",
			StatusCode:   http.StatusNotFound,
			Response:     `{"message":"Resource type not found"}`,
			WantErr:      true,
		},
	}, func(c *Client) func(context.Context, string) (*workos.ResourceType, error) {
		return c.FGA().GetResourceType
	})
}

func TestFGAClient_DeleteResource(t *testing.T) {
	t.Parallel()

	client := newServerClient(t, func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, "/fga/v1/resources/document/doc_123", request.URL.Path)
		assert.Equal(t, "DELETE", request.Method)
		writer.WriteHeader(http.StatusNoContent)
	})

	err := client.FGA().DeleteResource(context.Background(), "document", "doc_123")
	require.NoError(t, err)
}

func TestFGAClient_BatchWriteResources(t *testing.T) {
	t.Parallel()

	client := newServerClient(t, func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, "/fga/v1/resources/batch", request.URL.Path)

		var body struct {
			Writes []map[string]any `json:"writes"`
		}

		assert.NoError(t, json.NewDecoder(request.Body).Decode(&body))
		assert.Len(t, body.Writes, 2)
		assert.Equal(t, "document", body.Writes[0]["type"])
		assert.Equal(t, true, body.Writes[0]["create"])
		assert.Equal(t, false, body.Writes[1]["create"])

		writer.WriteHeader(http.StatusNoContent)
	})

	err := client.FGA().BatchWriteResources(context.Background(), []workos.ResourceWrite{
		{Type: "document", ID: "doc_1", Create: true},
		{Type: "document", ID: "doc_2", Create: false},
	})
	require.NoError(t, err)
}

func TestFGAClient_ApplySchema(t *testing.T) {
	t.Parallel()

	schema := `{"resource_types":[{"type":"document","relations":{"owner":{"this":{}}}}]}`

	client := newServerClient(t, func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, "/fga/v1/schema", request.URL.Path)
		assert.Equal(t, "PUT", request.Method)

		body, err := io.ReadAll(request.Body)
		assert.NoError(t, err)
		assert.Equal(t, schema, string(body))

		writer.WriteHeader(http.StatusNoContent)
	})

	require.NoError(t, client.FGA().ApplySchema(context.Background(), schema))
}

func TestFGAClient_Check(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		response string
		allowed  bool
		wantErr  error
	}{
		{name: "allowed", response: `{"allowed":true}`, allowed: true},
		{name: "denied", response: `{"allowed":false}`, allowed: false},
		{name: "authorized result", response: `{"result":"authorized","is_implicit":false}`, allowed: true},
		{name: "not authorized result", response: `{"result":"not_authorized"}`, allowed: false},
		{name: "no answer", response: `{}`, wantErr: workos.ErrNotAllowed},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			client := newServerClient(t, func(writer http.ResponseWriter, request *http.Request) {
				assert.Equal(t, "/fga/v1/check", request.URL.Path)

				var body map[string]string

				assert.NoError(t, json.NewDecoder(request.Body).Decode(&body))
				assert.Equal(t, map[string]string{
					"subject":  "user:user_123",
					"relation": "viewer",
					"resource": "document:doc_123",
				}, body)

				writeJSON(writer, http.StatusOK, testCase.response)
			})

			allowed, err := client.FGA().Check(context.Background(), &workos.CheckParams{
				Subject:  "user:user_123",
				Relation: "viewer",
				Resource: "document:doc_123",
			})

			if testCase.wantErr != nil {
				require.ErrorIs(t, err, testCase.wantErr)
				assert.True(t, workos.IsOperation(err))

				return
			}

			require.NoError(t, err)
			assert.Equal(t, testCase.allowed, allowed)
		})
	}
}

func TestFGAClient_BatchCheck(t *testing.T) {
	t.Parallel()

	client, transport := newMockClient(t)
	transport.RegisterResponder("POST", mockBaseURL+"/fga/v1/check/batch",
		httpmock.NewStringResponder(http.StatusOK, `[
			{"subject":"user_123","relation":"viewer","resource":"document:doc_123","allowed":true},
			{"subject":"user_456","relation":"editor","resource":"document:doc_456","allowed":false}
		]`))

	results, err := client.FGA().BatchCheck(context.Background(), []workos.CheckParams{
		{Subject: "user_123", Relation: "viewer", Resource: "document:doc_123"},
		{Subject: "user_456", Relation: "editor", Resource: "document:doc_456"},
	})
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.True(t, results[0].Allowed)
	assert.False(t, results[1].Allowed)
	assert.Equal(t, 1, transport.GetTotalCallCount())
}

func TestFGAClient_Query(t *testing.T) {
	t.Parallel()

	client := newServerClient(t, func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, "/fga/v1/query", request.URL.Path)
		assert.Equal(t, "GET", request.Method)
		assert.Equal(t, "select document where user:user_123 is viewer", request.URL.Query().Get("q"))
		assert.Equal(t, "10", request.URL.Query().Get("limit"))
		assert.Equal(t, "Bearer sk_scoped", request.Header.Get("Authorization"))
		assert.Equal(t, "wt_456", request.Header.Get("Warrant-Token"))

		writeJSON(writer, http.StatusOK, `{"data":[{"resource_type":"document","resource_id":"doc_123","relation":"viewer",`+
			`"warrant":`+warrantJSON("doc_123")+`,"is_implicit":false}],"list_metadata":{"before":null,"after":null}}`)
	})

	list, err := client.FGA().Query(context.Background(), &workos.QueryParams{
		PaginationParams: workos.PaginationParams{Limit: 10},
		Q:                "select document where user:user_123 is viewer",
		WarrantToken:     "wt_456",
		Token:            "sk_scoped",
	})
	require.NoError(t, err)
	require.Len(t, list.Data, 1)
	assert.Equal(t, "doc_123", list.Data[0].ResourceID)
	assert.False(t, list.Data[0].IsImplicit)
}

func TestFGAClient_ApplyResourceTypes(t *testing.T) {
	t.Parallel()

	client := newServerClient(t, func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, "PUT", request.Method)
		assert.Equal(t, "/fga/v1/resource-types", request.URL.Path)

		var body map[string][]map[string]any

		assert.NoError(t, json.NewDecoder(request.Body).Decode(&body))
		assert.Len(t, body["resource_types"], 1)

		writeJSON(writer, http.StatusOK, `[{"type":"document","relations":{"owner":{"this":{}}}}]`)
	})

	result, err := client.FGA().ApplyResourceTypes(context.Background(), []workos.ResourceType{
		{Type: "document", Relations: map[string]workos.RelationRule{"owner": workos.ThisRule()}},
	})
	require.NoError(t, err)
	require.Len(t, result, 1)
	assert.Equal(t, workos.RelationRuleThis, result[0].Relations["owner"].Kind)
}
