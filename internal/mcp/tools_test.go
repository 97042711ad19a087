package mcp

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/goccy/go-json"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blackwell-systems/tweetgenie/internal/analyzer"
	"github.com/blackwell-systems/tweetgenie/internal/logging"
	"github.com/blackwell-systems/tweetgenie/internal/source"
	"github.com/blackwell-systems/tweetgenie/internal/suggest"
)

type failingProvider struct{}

func (failingProvider) Dataset(context.Context) (*analyzer.Dataset, error) {
	return nil, errors.New("api unreachable")
}

func newTestServer() *Server {
	provider := source.FileProvider{Path: "../source/testdata/dataset.json"}
	return NewServer(provider, analyzer.DefaultPolicy(), "test", logging.Discard())
}

func TestNewServer_NilLogger(t *testing.T) {
	s := NewServer(source.FileProvider{Path: "../source/testdata/dataset.json"}, analyzer.DefaultPolicy(), "test", nil)
	require.NotNil(t, s.log)
	assert.Equal(t, io.Discard, s.log.Out)
}

// decodeText unmarshals the JSON text of a successful tool result into v.
func decodeText(t *testing.T, res *mcp.CallToolResult, v any) {
	t.Helper()
	require.NotNil(t, res)
	require.False(t, res.IsError, "unexpected tool error: %v", textOf(res))
	require.NoError(t, json.Unmarshal([]byte(textOf(res)), v))
}

func textOf(res *mcp.CallToolResult) string {
	if res == nil || len(res.Content) == 0 {
		return ""
	}
	if tc, ok := res.Content[0].(*mcp.TextContent); ok {
		return tc.Text
	}
	return ""
}

func TestGetDashboard(t *testing.T) {
	s := newTestServer()
	res, _, err := s.handleGetDashboard(context.Background(), nil, NoArgs{})
	require.NoError(t, err)

	var d analyzer.Dashboard
	decodeText(t, res, &d)
	assert.Equal(t, 30.0, d.TimeframeDays)
	assert.InDelta(t, 1.5, d.TweetsPerDay, 1e-9)
	assert.Len(t, d.Hourly, 24)
	assert.Len(t, d.Days, 7)
	assert.InDelta(t, 50.0, d.Growth.Tweets, 1e-9)
}

func TestGetRecommendedSlots(t *testing.T) {
	s := newTestServer()

	res, _, err := s.handleGetRecommendedSlots(context.Background(), nil, SlotsInput{Limit: 1})
	require.NoError(t, err)
	var out SlotsResult
	decodeText(t, res, &out)
	require.Len(t, out.Slots, 1)
	assert.Equal(t, "Tue 9 AM", out.Slots[0].String())

	res, _, err = s.handleGetRecommendedSlots(context.Background(), nil, SlotsInput{})
	require.NoError(t, err)
	decodeText(t, res, &out)
	assert.Len(t, out.Slots, 2, "only slots meeting the minimum sample are ranked")
}

func TestGetRecommendedSlots_NegativeLimit(t *testing.T) {
	res, _, err := newTestServer().handleGetRecommendedSlots(context.Background(), nil, SlotsInput{Limit: -1})
	require.NoError(t, err)
	assert.True(t, res.IsError)
}

func TestGetRecommendations_Filter(t *testing.T) {
	s := newTestServer()

	tests := []struct {
		priority string
		want     int
	}{
		{"", 3},
		{"all", 3},
		{"high", 0},
		{"medium", 2},
		{"low", 1},
	}
	for _, tt := range tests {
		t.Run("priority="+tt.priority, func(t *testing.T) {
			res, _, err := s.handleGetRecommendations(context.Background(), nil, RecommendationsInput{Priority: tt.priority})
			require.NoError(t, err)
			var out RecommendationsResult
			decodeText(t, res, &out)
			assert.Len(t, out.Recommendations, tt.want)
			assert.NotNil(t, out.Recommendations)
		})
	}
}

func TestGetRecommendations_LimitAndOrder(t *testing.T) {
	res, _, err := newTestServer().handleGetRecommendations(context.Background(), nil, RecommendationsInput{Limit: 2})
	require.NoError(t, err)
	var out RecommendationsResult
	decodeText(t, res, &out)
	require.Len(t, out.Recommendations, 2)
	for _, r := range out.Recommendations {
		assert.Equal(t, suggest.PriorityMedium, r.Priority)
	}
}

func TestGetRecommendations_BadPriority(t *testing.T) {
	res, _, err := newTestServer().handleGetRecommendations(context.Background(), nil, RecommendationsInput{Priority: "urgent"})
	require.NoError(t, err)
	assert.True(t, res.IsError)
	assert.Contains(t, textOf(res), `unknown priority "urgent"`)
}

func TestGetGoalTargets(t *testing.T) {
	res, _, err := newTestServer().handleGetGoalTargets(context.Background(), nil, NoArgs{})
	require.NoError(t, err)
	var out GoalsResult
	decodeText(t, res, &out)
	assert.Equal(t, suggest.ConfidenceHigh, out.Confidence)
	require.Len(t, out.Goals, 3)
	for _, g := range out.Goals {
		assert.GreaterOrEqual(t, g.Target, g.Current, g.Metric)
	}
}

func TestGetInsights(t *testing.T) {
	res, _, err := newTestServer().handleGetInsights(context.Background(), nil, NoArgs{})
	require.NoError(t, err)
	var out InsightsResult
	decodeText(t, res, &out)
	require.NotEmpty(t, out.Insights)
	assert.LessOrEqual(t, len(out.Insights), analyzer.DefaultPolicy().MaxInsights)
}

func TestProviderErrorIsToolError(t *testing.T) {
	s := NewServer(failingProvider{}, analyzer.DefaultPolicy(), "test", logging.Discard())
	res, _, err := s.handleGetDashboard(context.Background(), nil, NoArgs{})
	require.NoError(t, err)
	assert.True(t, res.IsError)
	assert.Contains(t, textOf(res), "api unreachable")
}

func TestSession_ListAndCall(t *testing.T) {
	ctx := context.Background()
	clientTransport, serverTransport := mcp.NewInMemoryTransports()

	ss, err := newTestServer().Connect(ctx, serverTransport)
	require.NoError(t, err)
	defer func() { _ = ss.Close() }()

	client := mcp.NewClient(&mcp.Implementation{Name: "test-client", Version: "v0.0.1"}, nil)
	cs, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)
	defer func() { _ = cs.Close() }()

	tools, err := cs.ListTools(ctx, &mcp.ListToolsParams{})
	require.NoError(t, err)
	var names []string
	for _, tool := range tools.Tools {
		names = append(names, tool.Name)
	}
	assert.ElementsMatch(t, []string{
		"get_dashboard", "get_recommended_slots", "get_recommendations", "get_goal_targets", "get_insights",
	}, names)

	res, err := cs.CallTool(ctx, &mcp.CallToolParams{
		Name:      "get_recommended_slots",
		Arguments: map[string]any{"limit": 1},
	})
	require.NoError(t, err)
	var out SlotsResult
	decodeText(t, res, &out)
	require.Len(t, out.Slots, 1)
	assert.Equal(t, 2, out.Slots[0].Day)
	assert.Equal(t, 9, out.Slots[0].Hour)
}
