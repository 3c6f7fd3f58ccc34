// Package mcptools exposes attendance reporting as MCP tools.
package mcptools

import (
	"context"
	"encoding/json"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/kintaihq/kintai/pkg/attendance"
	"github.com/kintaihq/kintai/pkg/user"
)

// Toolkit registers read-only attendance reporting tools on an MCP server.
type Toolkit struct {
	engine *attendance.Engine
	users  user.Directory
	clock  func() time.Time
}

// New creates a new attendance toolkit. Pass a nil clock to use time.Now.
func New(engine *attendance.Engine, users user.Directory, clock func() time.Time) *Toolkit {
	if clock == nil {
		clock = time.Now
	}
	return &Toolkit{engine: engine, users: users, clock: clock}
}

// Register registers all attendance tools with the MCP server.
func (t *Toolkit) Register(s *mcp.Server) {
	t.registerTodayTool(s)
	t.registerMonthlyTool(s)
}

// todayStatusInput defines the input schema for the get_today_status tool.
type todayStatusInput struct {
	UserID string `json:"user_id"`
}

// monthlyAttendanceInput defines the input schema for the get_monthly_attendance tool.
type monthlyAttendanceInput struct {
	UserID string `json:"user_id"`
	Month  string `json:"month,omitempty"`
}

// registerTodayTool registers the get_today_status tool with the MCP server.
func (t *Toolkit) registerTodayTool(s *mcp.Server) {
	mcp.AddTool(s, &mcp.Tool{
		Name: "get_today_status",
		Description: "Get a user's attendance status for the current day: clock-in and " +
			"clock-out times, break intervals, and live worked and break counters.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, func(ctx context.Context, _ *mcp.CallToolRequest, in todayStatusInput) (*mcp.CallToolResult, any, error) {
		return t.handleTodayStatus(ctx, in)
	})
}

// registerMonthlyTool registers the get_monthly_attendance tool with the MCP server.
func (t *Toolkit) registerMonthlyTool(s *mcp.Server) {
	mcp.AddTool(s, &mcp.Tool{
		Name: "get_monthly_attendance",
		Description: "Get a user's attendance summary for a month (YYYY-MM, defaults to the " +
			"current month): per-day records plus total worked minutes and hours.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, func(ctx context.Context, _ *mcp.CallToolRequest, in monthlyAttendanceInput) (*mcp.CallToolResult, any, error) {
		return t.handleMonthlyAttendance(ctx, in)
	})
}

// handleTodayStatus handles the get_today_status tool call.
func (t *Toolkit) handleTodayStatus(ctx context.Context, in todayStatusInput) (*mcp.CallToolResult, any, error) {
	if in.UserID == "" {
		return errorResult("user_id is required"), nil, nil
	}
	if res := t.checkUser(ctx, in.UserID); res != nil {
		return res, nil, nil
	}

	view, err := t.engine.Today(ctx, in.UserID, t.clock())
	if err != nil {
		return errorResult(err.Error()), nil, nil
	}
	return jsonResult(view)
}

// handleMonthlyAttendance handles the get_monthly_attendance tool call.
func (t *Toolkit) handleMonthlyAttendance(ctx context.Context, in monthlyAttendanceInput) (*mcp.CallToolResult, any, error) {
	if in.UserID == "" {
		return errorResult("user_id is required"), nil, nil
	}
	if res := t.checkUser(ctx, in.UserID); res != nil {
		return res, nil, nil
	}

	monthKey, err := attendance.ParseMonth(in.Month, t.clock(), t.engine.Offset())
	if err != nil {
		return errorResult(err.Error()), nil, nil
	}
	summary, err := t.engine.Monthly(ctx, in.UserID, monthKey)
	if err != nil {
		return errorResult(err.Error()), nil, nil
	}
	return jsonResult(summary)
}

// checkUser returns an error result when the user is not in the directory.
func (t *Toolkit) checkUser(ctx context.Context, userID string) *mcp.CallToolResult {
	u, err := t.users.Lookup(ctx, userID)
	if err != nil {
		return errorResult(err.Error())
	}
	if u == nil {
		return errorResult("user not found: " + userID)
	}
	return nil
}

func jsonResult(v any) (*mcp.CallToolResult, any, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errorResult(err.Error()), nil, nil
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: string(data)},
		},
	}, nil, nil
}

func errorResult(msg string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: "Error: " + msg},
		},
		IsError: true,
	}
}
