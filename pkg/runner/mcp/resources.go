package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

func registerResources(srv *server.MCPServer, svc *Service) {
	registerHistoryResource(srv, svc)
	registerVehicleTemplate(srv, svc)
}

func registerHistoryResource(srv *server.MCPServer, svc *Service) {
	resource := mcp.NewResource(
		"frota://history",
		"History",
		mcp.WithResourceDescription("Every vehicle movement, newest first."),
		mcp.WithMIMEType("application/json"),
	)

	srv.AddResource(resource, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		movements, err := svc.ListHistory(ctx, 0)
		if err != nil {
			return nil, err
		}
		payload := map[string]any{
			"movements": movements,
			"count":     len(movements),
		}
		return encodeResourceJSON(request.Params.URI, payload)
	})
}

func registerVehicleTemplate(srv *server.MCPServer, svc *Service) {
	template := mcp.NewResourceTemplate(
		"frota://vehicles/{name}",
		"Vehicle Movements",
		mcp.WithTemplateDescription("Movements of a single vehicle, newest first."),
		mcp.WithTemplateMIMEType("application/json"),
	)

	srv.AddResourceTemplate(template, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		name, _ := request.Params.Arguments["name"].(string)
		if name == "" {
			return nil, fmt.Errorf("vehicle name is required")
		}

		all, err := svc.ListHistory(ctx, 0)
		if err != nil {
			return nil, err
		}
		movements := make([]MovementDTO, 0)
		for _, m := range all {
			if m.Vehicle == name {
				movements = append(movements, m)
			}
		}

		payload := map[string]any{
			"vehicle":   name,
			"count":     len(movements),
			"movements": movements,
		}
		return encodeResourceJSON(request.Params.URI, payload)
	})
}

func encodeResourceJSON(uri string, payload any) ([]mcp.ResourceContents, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
