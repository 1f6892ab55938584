package commands

import (
	"bytes"
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/leapdash/internal/api"
	"github.com/leapstack-labs/leapdash/internal/cli/config"
	"github.com/leapstack-labs/leapdash/internal/cli/output"
	"github.com/leapstack-labs/leapdash/internal/testutil"
	"github.com/leapstack-labs/leapdash/pkg/core"
)

// =============================================================================
// Test Setup Helpers
// =============================================================================

func newBrowseContext(t *testing.T, mode output.Mode) (*CommandContext, *testutil.FakeAPI, *bytes.Buffer) {
	t.Helper()
	logger := testutil.NewTestLogger(t)
	fake := testutil.NewFakeAPI(t)

	client, err := api.New(api.Config{BaseURL: fake.URL(), Logger: logger})
	require.NoError(t, err)

	var out bytes.Buffer
	return &CommandContext{
		Cfg:      config.Default(),
		Logger:   logger,
		Client:   client,
		Renderer: output.NewRenderer(&out, &bytes.Buffer{}, mode),
	}, fake, &out
}

func decodeRows(t *testing.T, out *bytes.Buffer) []map[string]string {
	t.Helper()
	var rows []map[string]string
	require.NoError(t, json.Unmarshal(out.Bytes(), &rows))
	return rows
}

func ids(rows []map[string]string) []string {
	out := make([]string, len(rows))
	for i, row := range rows {
		out[i] = row["id"]
	}
	return out
}

// =============================================================================
// runBrowse Tests
// =============================================================================

func TestRunBrowse(t *testing.T) {
	tests := []struct {
		name    string
		entity  core.Entity
		opts    BrowseOptions
		wantIDs []string
		wantHit string
	}{
		{
			name:    "users",
			entity:  core.EntityUsers,
			opts:    BrowseOptions{Page: 1},
			wantIDs: []string{"1", "2", "3"},
			wantHit: "/users",
		},
		{
			name:    "users filtered by username",
			entity:  core.EntityUsers,
			opts:    BrowseOptions{Page: 1, Filter: "ANTON"},
			wantIDs: []string{"2"},
			wantHit: "/users",
		},
		{
			name:    "posts second page of five",
			entity:  core.EntityPosts,
			opts:    BrowseOptions{Page: 2, PageSize: 5},
			wantIDs: []string{"6", "7", "8", "9", "10"},
			wantHit: "/posts",
		},
		{
			name:    "posts filtered and sorted descending",
			entity:  core.EntityPosts,
			opts:    BrowseOptions{Page: 1, Filter: "dolorem", Sort: "title:desc"},
			wantIDs: []string{"6", "8"},
			wantHit: "/posts",
		},
		{
			name:    "page past the end clamps",
			entity:  core.EntityPosts,
			opts:    BrowseOptions{Page: 9},
			wantIDs: []string{"11", "12"},
			wantHit: "/posts",
		},
		{
			name:    "posts of one user",
			entity:  core.EntityPosts,
			opts:    BrowseOptions{Page: 1, UserID: 3},
			wantIDs: []string{"11", "12"},
			wantHit: "/users/3/posts",
		},
		{
			name:    "comments of a post",
			entity:  core.EntityComments,
			opts:    BrowseOptions{Page: 1, PostID: 1},
			wantIDs: []string{"1", "2", "3"},
			wantHit: "/posts/1/comments",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cctx, fake, out := newBrowseContext(t, output.ModeJSON)

			require.NoError(t, runBrowse(context.Background(), cctx, tt.entity, &tt.opts))

			assert.Equal(t, tt.wantIDs, ids(decodeRows(t, out)))
			assert.Equal(t, 1, fake.Hits(tt.wantHit))
		})
	}
}

func TestRunBrowse_Errors(t *testing.T) {
	tests := []struct {
		name      string
		entity    core.Entity
		opts      BrowseOptions
		errSubstr string
	}{
		{name: "comments without post", entity: core.EntityComments, opts: BrowseOptions{Page: 1}, errSubstr: "--post"},
		{name: "comments are not filterable", entity: core.EntityComments, opts: BrowseOptions{Page: 1, PostID: 1, Filter: "x"}, errSubstr: "no filterable columns"},
		{name: "body is not sortable", entity: core.EntityPosts, opts: BrowseOptions{Page: 1, Sort: "body"}, errSubstr: `"body" is not sortable`},
		{name: "bad direction", entity: core.EntityPosts, opts: BrowseOptions{Page: 1, Sort: "title:up"}, errSubstr: "asc or desc"},
		{name: "page size not allowed", entity: core.EntityPosts, opts: BrowseOptions{Page: 1, PageSize: 7}, errSubstr: "page size 7"},
		{name: "page zero", entity: core.EntityUsers, opts: BrowseOptions{Page: 0}, errSubstr: "at least 1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cctx, fake, _ := newBrowseContext(t, output.ModeJSON)

			err := runBrowse(context.Background(), cctx, tt.entity, &tt.opts)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errSubstr)
			assert.Zero(t, fake.Hits("/posts")+fake.Hits("/users"), "invalid options fail before fetching")
		})
	}
}

func TestRunBrowse_APIFailure(t *testing.T) {
	cctx, fake, _ := newBrowseContext(t, output.ModeJSON)
	fake.FailWith("/users", http.StatusInternalServerError)

	err := runBrowse(context.Background(), cctx, core.EntityUsers, &BrowseOptions{Page: 1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fetch users")
}

func TestRunBrowse_Markdown(t *testing.T) {
	cctx, _, out := newBrowseContext(t, output.ModeMarkdown)

	require.NoError(t, runBrowse(context.Background(), cctx, core.EntityUsers, &BrowseOptions{Page: 1}))

	s := out.String()
	assert.True(t, strings.HasPrefix(s, "# users\n"))
	assert.Contains(t, strings.ToLower(s), "| id | name | username | email |")
	assert.Contains(t, s, "Leanne Graham")
	assert.Contains(t, s, "_Page 1 of 1, 3 rows_")
}

func TestRunBrowse_Text(t *testing.T) {
	cctx, _, out := newBrowseContext(t, output.ModeText)

	require.NoError(t, runBrowse(context.Background(), cctx, core.EntityPosts, &BrowseOptions{Page: 1, PageSize: 5}))

	s := out.String()
	assert.Contains(t, s, "sunt aut facere")
	assert.Contains(t, s, "Page 1 of 3, 12 rows")
}

func TestParseSort(t *testing.T) {
	tests := []struct {
		in      string
		column  string
		dir     string
		wantErr bool
	}{
		{in: "title", column: "title", dir: "asc"},
		{in: "title:asc", column: "title", dir: "asc"},
		{in: "title:DESC", column: "title", dir: "desc"},
		{in: "title:sideways", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			column, dir, err := parseSort(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.column, column)
			assert.Equal(t, tt.dir, string(dir))
		})
	}
}

// =============================================================================
// Command wiring
// =============================================================================

func TestBrowseCommand_UsesLoadedConfig(t *testing.T) {
	fake := testutil.NewFakeAPI(t)
	config.ResetConfig()
	t.Chdir(t.TempDir())
	t.Setenv("LEAPDASH_API__BASE_URL", fake.URL())
	t.Setenv("LEAPDASH_OUTPUT", "csv")
	_, err := config.LoadConfig("", nil)
	require.NoError(t, err)
	t.Cleanup(config.ResetConfig)

	cmd := NewBrowseCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{"posts", "--user", "1", "--page-size", "5"})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, strings.ToLower(out.String()), "id,title,body")
	assert.Contains(t, out.String(), "5,nesciunt quas odio,body of post 5")
	assert.Equal(t, 1, fake.Hits("/users/1/posts"))
}

func TestBrowseCommand_RejectsUnknownCollection(t *testing.T) {
	cmd := NewBrowseCommand()
	cmd.SetOut(new(bytes.Buffer))
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetArgs([]string{"albums"})

	assert.Error(t, cmd.Execute())
}
