package mcp

import (
	"context"
	"fmt"

	"github.com/goccy/go-json"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/blackwell-systems/tweetgenie/internal/analyzer"
	"github.com/blackwell-systems/tweetgenie/internal/suggest"
)

// NoArgs is the input of tools that take no arguments.
type NoArgs struct{}

// SlotsInput is the input of get_recommended_slots.
type SlotsInput struct {
	Limit int `json:"limit,omitempty" jsonschema:"maximum number of slots to return (default 6)"`
}

// RecommendationsInput is the input of get_recommendations.
type RecommendationsInput struct {
	Priority string `json:"priority,omitempty" jsonschema:"only return this priority: high, medium or low"`
	Limit    int    `json:"limit,omitempty" jsonschema:"maximum number of recommendations to return"`
}

// SlotsResult is the output of get_recommended_slots.
type SlotsResult struct {
	Slots []analyzer.RankedSlot `json:"slots"`
}

// RecommendationsResult is the output of get_recommendations.
type RecommendationsResult struct {
	Recommendations []suggest.Recommendation `json:"recommendations"`
}

// GoalsResult is the output of get_goal_targets.
type GoalsResult struct {
	Confidence string               `json:"confidence"`
	Goals      []suggest.GoalTarget `json:"goals"`
}

// InsightsResult is the output of get_insights.
type InsightsResult struct {
	Insights []suggest.Insight `json:"insights"`
}

// addTools registers every tool handler on s.
func addTools(s *Server) {
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "get_dashboard",
		Description: "Growth, content signals, hourly and weekday performance, ranked posting slots and audience KPIs for the reporting window.",
	}, s.handleGetDashboard)
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "get_recommended_slots",
		Description: "Best (weekday, hour) posting slots ranked by composite engagement score.",
	}, s.handleGetRecommendedSlots)
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "get_recommendations",
		Description: "Prioritized strategy recommendations, optionally filtered by priority.",
	}, s.handleGetRecommendations)
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "get_goal_targets",
		Description: "Next-period targets for posting cadence, engagement rate and impressions per post.",
	}, s.handleGetGoalTargets)
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "get_insights",
		Description: "Observations about engagement, cadence, threads, timing and reach with a confidence label.",
	}, s.handleGetInsights)
}

func (s *Server) handleGetDashboard(ctx context.Context, _ *mcp.CallToolRequest, _ NoArgs) (*mcp.CallToolResult, any, error) {
	_, report, err := s.report(ctx)
	if err != nil {
		return s.toolError(err)
	}
	return toolSuccess(report.Dashboard)
}

func (s *Server) handleGetRecommendedSlots(ctx context.Context, _ *mcp.CallToolRequest, args SlotsInput) (*mcp.CallToolResult, any, error) {
	if args.Limit < 0 {
		return toolErrorf("limit must not be negative, got %d", args.Limit)
	}
	ds, err := s.provider.Dataset(ctx)
	if err != nil {
		return s.toolError(fmt.Errorf("loading dataset: %w", err))
	}
	slots := analyzer.BuildRecommendedSlots(ds.OptimalTimes, args.Limit, s.policy)
	return toolSuccess(SlotsResult{Slots: slots})
}

func (s *Server) handleGetRecommendations(ctx context.Context, _ *mcp.CallToolRequest, args RecommendationsInput) (*mcp.CallToolResult, any, error) {
	priority, ok := suggest.ParsePriority(args.Priority)
	if !ok {
		return toolErrorf("unknown priority %q: want high, medium or low", args.Priority)
	}
	_, report, err := s.report(ctx)
	if err != nil {
		return s.toolError(err)
	}
	recs := suggest.FilterByPriority(report.Recommendations, priority)
	if args.Limit > 0 && len(recs) > args.Limit {
		recs = recs[:args.Limit]
	}
	if recs == nil {
		recs = []suggest.Recommendation{}
	}
	return toolSuccess(RecommendationsResult{Recommendations: recs})
}

func (s *Server) handleGetGoalTargets(ctx context.Context, _ *mcp.CallToolRequest, _ NoArgs) (*mcp.CallToolResult, any, error) {
	_, report, err := s.report(ctx)
	if err != nil {
		return s.toolError(err)
	}
	c := suggest.NewContext(report.Dashboard, s.policy)
	return toolSuccess(GoalsResult{Confidence: c.Confidence(), Goals: report.Goals})
}

func (s *Server) handleGetInsights(ctx context.Context, _ *mcp.CallToolRequest, _ NoArgs) (*mcp.CallToolResult, any, error) {
	_, report, err := s.report(ctx)
	if err != nil {
		return s.toolError(err)
	}
	return toolSuccess(InsightsResult{Insights: report.Insights})
}

// toolError logs err and returns it as an error result.
func (s *Server) toolError(err error) (*mcp.CallToolResult, any, error) {
	s.log.WithError(err).Warn("tool call failed")
	return toolErrorf("%v", err)
}

// toolErrorf returns an error result for a tool call.
func toolErrorf(format string, args ...any) (*mcp.CallToolResult, any, error) {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: fmt.Sprintf(format, args...)},
		},
		IsError: true,
	}, nil, nil
}

// toolSuccess returns result as indented JSON text.
func toolSuccess(result any) (*mcp.CallToolResult, any, error) {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return nil, nil, fmt.Errorf("encoding result: %w", err)
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: string(data)},
		},
	}, nil, nil
}
