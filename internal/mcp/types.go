package mcp

import "github.com/1broseidon/edges/internal/ipc"

// GetStatusInput is the input for the get_status tool.
type GetStatusInput struct{}

// GetStatusOutput is the output for the get_status tool.
type GetStatusOutput struct {
	ipc.StatusData
}

// ListMonitorsInput is the input for the list_monitors tool.
type ListMonitorsInput struct{}

// ListMonitorsOutput is the output for the list_monitors tool.
type ListMonitorsOutput struct {
	Monitors []ipc.MonitorInfo `json:"monitors"`
}

// TriggerEdgeInput is the input for the trigger_edge tool.
type TriggerEdgeInput struct {
	Edge string `json:"edge" jsonschema:"Edge or corner to trigger: top-left, top-right, bottom-right, bottom-left, left, top, right or bottom"`
}

// TriggerEdgeOutput is the output for the trigger_edge tool.
type TriggerEdgeOutput struct {
	Edge      string `json:"edge"`
	Triggered bool   `json:"triggered"`
}

// ReloadConfigInput is the input for the reload_config tool.
type ReloadConfigInput struct{}

// ReloadConfigOutput is the output for the reload_config tool.
type ReloadConfigOutput struct {
	Reloaded bool `json:"reloaded"`
}
