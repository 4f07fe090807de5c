package mcp

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"tableflip.dev/frota/pkg/app"
)

func registerTools(srv *server.MCPServer, svc *Service) {
	registerListHistoryTool(srv, svc)
	registerVehiclesOutTool(srv, svc)
	registerReferenceListsTool(srv, svc)
	registerDepartureTool(srv, svc)
	registerReturnTool(srv, svc)
}

func registerListHistoryTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"list_history",
		mcp.WithDescription("List vehicle movements, newest first."),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of movements to return (0 for all)."),
			mcp.Min(0),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		limit := request.GetInt("limit", 0)
		results, err := svc.ListHistory(ctx, limit)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(map[string]any{
			"movements": results,
			"count":     len(results),
		})
	})
}

func registerVehiclesOutTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"list_vehicles_out",
		mcp.WithDescription("List the vehicles that are currently out, with their open movement."),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		results, err := svc.VehiclesOut(ctx)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(map[string]any{
			"movements": results,
			"count":     len(results),
		})
	})
}

func registerReferenceListsTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"get_reference_lists",
		mcp.WithDescription("Get the vehicles, drivers and escorts known to the spreadsheet."),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		lists, err := svc.ReferenceLists(ctx)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(map[string]any{
			"vehicles": lists.Vehicles,
			"drivers":  lists.Drivers,
			"escorts":  lists.Escorts,
		})
	})
}

func registerDepartureTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"record_departure",
		mcp.WithDescription("Register a vehicle leaving. Fails when the vehicle is already out."),
		mcp.WithString("vehicle", mcp.Required(), mcp.Description("Vehicle leaving.")),
		mcp.WithString("driver", mcp.Required(), mcp.Description("Driver.")),
		mcp.WithString("escort", mcp.Required(), mcp.Description("Escort.")),
		mcp.WithNumber("odometer", mcp.Required(), mcp.Min(0), mcp.Description("Odometer reading in km.")),
		mcp.WithString("destination", mcp.Required(), mcp.Description("Where the vehicle is going.")),
		mcp.WithBoolean("confirm",
			mcp.Description("Record even when the odometer is below the last return."),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var args struct {
			Vehicle     string  `json:"vehicle"`
			Driver      string  `json:"driver"`
			Escort      string  `json:"escort"`
			Odometer    float64 `json:"odometer"`
			Destination string  `json:"destination"`
			Confirm     bool    `json:"confirm"`
		}
		if err := request.BindArguments(&args); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
		}

		dto, err := svc.RecordDeparture(ctx, app.DepartureForm{
			Vehicle:     args.Vehicle,
			Driver:      args.Driver,
			Escort:      args.Escort,
			Odometer:    odometer(args.Odometer),
			Destination: args.Destination,
		}, args.Confirm)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(dto)
	})
}

func registerReturnTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"record_return",
		mcp.WithDescription("Register a vehicle coming back. Driver and escort default to the departure."),
		mcp.WithString("vehicle", mcp.Required(), mcp.Description("Vehicle returning; must be out.")),
		mcp.WithNumber("odometer", mcp.Required(), mcp.Min(0), mcp.Description("Odometer reading in km.")),
		mcp.WithString("driver", mcp.Description("Driver bringing the vehicle back.")),
		mcp.WithString("escort", mcp.Description("Escort on the way back.")),
		mcp.WithBoolean("confirm",
			mcp.Description("Record even when the odometer is below the departure reading."),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var args struct {
			Vehicle  string  `json:"vehicle"`
			Driver   string  `json:"driver"`
			Escort   string  `json:"escort"`
			Odometer float64 `json:"odometer"`
			Confirm  bool    `json:"confirm"`
		}
		if err := request.BindArguments(&args); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
		}

		dto, err := svc.RecordReturn(ctx, app.ReturnForm{
			Vehicle:  args.Vehicle,
			Driver:   args.Driver,
			Escort:   args.Escort,
			Odometer: odometer(args.Odometer),
		}, args.Confirm)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(dto)
	})
}

// odometer renders a JSON number for form validation; fractions are
// rejected there.
func odometer(v float64) string {
	if v == float64(int64(v)) {
		return fmt.Sprintf("%d", int64(v))
	}
	return fmt.Sprintf("%g", v)
}

func toJSONResult(data any) (*mcp.CallToolResult, error) {
	result, err := mcp.NewToolResultJSON(data)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("marshal error: %v", err)), nil
	}
	return result, nil
}
