package commands

import (
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommands_RequireAPIKey(t *testing.T) {
	setupViper(t, "https://api.workos.test", "json")
	viper.Set("api_key", "")

	_, err := execute(t, NewOrgsCommand(), "list")
	require.ErrorIs(t, err, ErrAPIKeyNotConfigured)
}

func TestFGACheck_Command(t *testing.T) {
	baseURL := startServer(t, func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, "/fga/v1/check", request.URL.Path)
		assert.Equal(t, "Bearer "+testAPIKey, request.Header.Get("Authorization"))

		var body map[string]string

		assert.NoError(t, json.NewDecoder(request.Body).Decode(&body))

		result := "not_authorized"
		if body["subject"] == "user:alice" {
			result = "authorized"
		}

		writeJSON(writer, http.StatusOK, `{"result":"`+result+`","is_implicit":false}`)
	})
	setupViper(t, baseURL, "table")

	out, err := execute(t, NewFGACommand(), "check", "user:alice", "viewer", "document:doc-1")
	require.NoError(t, err)
	assert.Contains(t, out, "authorized")

	out, err = execute(t, NewFGACommand(), "check", "user:bob", "viewer", "document:doc-1", "--exit-code")
	require.ErrorIs(t, err, ErrCheckDenied)
	assert.Contains(t, out, "not authorized")
}

func TestFGACheck_BatchFile(t *testing.T) {
	baseURL := startServer(t, func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, "/fga/v1/check/batch", request.URL.Path)

		var body struct {
			Checks []map[string]string `json:"checks"`
		}

		assert.NoError(t, json.NewDecoder(request.Body).Decode(&body))
		assert.Len(t, body.Checks, 2)

		writeJSON(writer, http.StatusOK, `[
			{"subject":"user:alice","relation":"viewer","resource":"document:doc-1","allowed":true},
			{"subject":"user:bob","relation":"viewer","resource":"document:doc-1","allowed":false}
		]`)
	})
	setupViper(t, baseURL, "json")

	file := filepath.Join(t.TempDir(), "checks.yaml")
	require.NoError(t, os.WriteFile(file, []byte(`- {subject: "user:alice", relation: viewer, resource: "document:doc-1"}
- {subject: "user:bob", relation: viewer, resource: "document:doc-1"}
`), 0o600))

	out, err := execute(t, NewFGACommand(), "check", "--file", file)
	require.NoError(t, err)

	var results []map[string]any

	require.NoError(t, json.Unmarshal([]byte(out), &results))
	require.Len(t, results, 2)
	assert.Equal(t, true, results[0]["allowed"])
	assert.Equal(t, false, results[1]["allowed"])
}

func TestFGAResourceTypesApply_YAML(t *testing.T) {
	baseURL := startServer(t, func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, http.MethodPut, request.Method)
		assert.Equal(t, "/fga/v1/resource-types", request.URL.Path)

		var body struct {
			ResourceTypes []map[string]any `json:"resource_types"`
		}

		assert.NoError(t, json.NewDecoder(request.Body).Decode(&body))
		if !assert.Len(t, body.ResourceTypes, 1) {
			writer.WriteHeader(http.StatusBadRequest)

			return
		}

		assert.Equal(t, map[string]any{
			"type": "document",
			"relations": map[string]any{
				"owner": map[string]any{"this": map[string]any{}},
				"viewer": map[string]any{"union": []any{
					map[string]any{"this": map[string]any{}},
					map[string]any{"inherit": map[string]any{"relation": "viewer", "from": "parent"}},
				}},
			},
		}, body.ResourceTypes[0])

		writeJSON(writer, http.StatusOK, `[{"type":"document","relations":{"owner":{"this":{}},`+
			`"viewer":{"union":[{"this":{}},{"inherit":{"relation":"viewer","from":"parent"}}]}}}]`)
	})
	setupViper(t, baseURL, "table")

	file := filepath.Join(t.TempDir(), "types.yaml")
	require.NoError(t, os.WriteFile(file, []byte(`- type: document
  relations:
    owner:
      this: {}
    viewer:
      union:
        - this: {}
        - inherit: {relation: viewer, from: parent}
`), 0o600))

	out, err := execute(t, NewFGACommand(), "resource-types", "apply", "-f", file)
	require.NoError(t, err)
	assert.Contains(t, out, "any of (this, viewer from parent)")
}

func TestFGAWarrantsCreate_Command(t *testing.T) {
	baseURL := startServer(t, func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, http.MethodPost, request.Method)
		assert.Equal(t, "/fga/v1/warrants", request.URL.Path)

		var body map[string]any

		assert.NoError(t, json.NewDecoder(request.Body).Decode(&body))
		assert.Equal(t, map[string]any{"resource_type": "team", "resource_id": "eng", "relation": "member"}, body["subject"])

		writeJSON(writer, http.StatusOK, `{"resource_type":"document","resource_id":"doc-1","relation":"viewer",`+
			`"subject":{"resource_type":"team","resource_id":"eng","relation":"member"}}`)
	})
	setupViper(t, baseURL, "table")

	out, err := execute(t, NewFGACommand(), "warrants", "create", "team:eng#member", "viewer", "document:doc-1")
	require.NoError(t, err)
	assert.Contains(t, out, "team:eng#member")

	_, err = execute(t, NewFGACommand(), "warrants", "create", "team", "viewer", "document:doc-1")
	require.ErrorIs(t, err, ErrInvalidSubjectRef)
}

func TestOrgsList_AllPages(t *testing.T) {
	var (
		mu           sync.Mutex
		afterCursors []string
	)

	baseURL := startServer(t, func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, "/organizations", request.URL.Path)

		after := request.URL.Query().Get("after")

		mu.Lock()
		afterCursors = append(afterCursors, after)
		mu.Unlock()

		if after == "" {
			writeJSON(writer, http.StatusOK, `{"data":[{"id":"org_1","name":"One","domains":[]}],`+
				`"list_metadata":{"before":null,"after":"org_1"}}`)

			return
		}

		writeJSON(writer, http.StatusOK, `{"data":[{"id":"org_2","name":"Two","domains":[]}],`+
			`"list_metadata":{"before":"org_2","after":null}}`)
	})
	setupViper(t, baseURL, "yaml")

	out, err := execute(t, NewOrgsCommand(), "list", "--all", "--limit", "1")
	require.NoError(t, err)

	mu.Lock()
	assert.Equal(t, []string{"", "org_1"}, afterCursors)
	mu.Unlock()
	assert.Contains(t, out, "id: org_1")
	assert.Contains(t, out, "id: org_2")
}

func TestOrgsUpdate_NothingToUpdate(t *testing.T) {
	setupViper(t, "https://api.workos.test", "table")

	_, err := execute(t, NewOrgsCommand(), "update", "org_1")
	require.ErrorIs(t, err, ErrNothingToUpdate)
}

func TestMembershipsList_RequiresOneFilter(t *testing.T) {
	setupViper(t, "https://api.workos.test", "table")

	_, err := execute(t, NewMembershipsCommand(), "list")
	require.ErrorIs(t, err, ErrMembershipFilter)

	_, err = execute(t, NewMembershipsCommand(), "list", "--org", "org_1", "--user", "user_1")
	require.ErrorIs(t, err, ErrMembershipFilter)
}

func TestPortalLink_Command(t *testing.T) {
	baseURL := startServer(t, func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, "/portal/generate_link", request.URL.Path)

		var body map[string]string

		assert.NoError(t, json.NewDecoder(request.Body).Decode(&body))
		assert.Equal(t, "org_123", body["organization"])
		assert.Equal(t, "dsync", body["intent"])

		writeJSON(writer, http.StatusCreated, `{"link":"https://setup.workos.com/portal/launch?secret=abc"}`)
	})
	setupViper(t, baseURL, "table")

	out, err := execute(t, NewPortalCommand(), "link", "--org", "org_123", "--intent", "dsync")
	require.NoError(t, err)
	assert.Equal(t, "https://setup.workos.com/portal/launch?secret=abc\n", out)

	_, err = execute(t, NewPortalCommand(), "link", "--org", "org_123", "--intent", "billing")
	require.ErrorIs(t, err, ErrUnknownPortalIntent)
}

func TestEventsParse_Command(t *testing.T) {
	setupViper(t, "", "table")

	cmd := NewEventsCommand()
	cmd.SetIn(strings.NewReader(`{"id":"event_01","event":"organization_domain.verification_failed",` +
		`"created_at":"2024-01-01T00:00:00Z","data":{"id":"org_domain_1","organization_id":"org_1",` +
		`"domain":"foo-corp.com","state":"failed","created_at":"2024-01-01T00:00:00Z","updated_at":"2024-01-01T00:00:00Z"}}`))

	out, err := execute(t, cmd, "parse", "-")
	require.NoError(t, err)
	assert.Contains(t, out, "foo-corp.com")
	assert.Contains(t, out, "organization_domain.verification_failed")
}

func TestEventsParse_UnknownEventJSON(t *testing.T) {
	setupViper(t, "", "json")

	cmd := NewEventsCommand()
	cmd.SetIn(strings.NewReader(`{"id":"event_02","event":"user.created","created_at":"2024-01-01T00:00:00Z","data":{"id":"user_1"}}`))

	out, err := execute(t, cmd, "parse", "-")
	require.NoError(t, err)

	var result map[string]any

	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, "user.created", result["event"])
	assert.Equal(t, map[string]any{"id": "user_1"}, result["data"])
}
