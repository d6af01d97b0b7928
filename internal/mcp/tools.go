package mcp

import (
	"context"
	"fmt"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/edges/internal/edge"
	"github.com/1broseidon/edges/internal/ipc"
)

func (s *Server) handleGetStatus(_ context.Context, _ *mcpsdk.CallToolRequest, _ GetStatusInput) (*mcpsdk.CallToolResult, GetStatusOutput, error) {
	status, err := s.daemon.GetStatus()
	if err != nil {
		return nil, GetStatusOutput{}, err
	}
	if status.Commands == nil {
		status.Commands = map[string]string{}
	}
	return nil, GetStatusOutput{StatusData: *status}, nil
}

func (s *Server) handleListMonitors(_ context.Context, _ *mcpsdk.CallToolRequest, _ ListMonitorsInput) (*mcpsdk.CallToolResult, ListMonitorsOutput, error) {
	data, err := s.daemon.GetMonitors()
	if err != nil {
		return nil, ListMonitorsOutput{}, err
	}
	monitors := data.Monitors
	if monitors == nil {
		monitors = []ipc.MonitorInfo{}
	}
	return nil, ListMonitorsOutput{Monitors: monitors}, nil
}

func (s *Server) handleTriggerEdge(_ context.Context, _ *mcpsdk.CallToolRequest, args TriggerEdgeInput) (*mcpsdk.CallToolResult, TriggerEdgeOutput, error) {
	zone, err := edge.Parse(args.Edge)
	if err != nil {
		return nil, TriggerEdgeOutput{}, err
	}
	if err := s.daemon.Trigger(zone.String()); err != nil {
		return nil, TriggerEdgeOutput{}, fmt.Errorf("trigger %s: %w", zone, err)
	}
	return nil, TriggerEdgeOutput{Edge: zone.String(), Triggered: true}, nil
}

func (s *Server) handleReloadConfig(_ context.Context, _ *mcpsdk.CallToolRequest, _ ReloadConfigInput) (*mcpsdk.CallToolResult, ReloadConfigOutput, error) {
	if err := s.daemon.Reload(); err != nil {
		return nil, ReloadConfigOutput{}, err
	}
	return nil, ReloadConfigOutput{Reloaded: true}, nil
}
