// Package mcp exposes the running daemon to MCP clients over stdio.
package mcp

import (
	"context"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/edges/internal/ipc"
)

const (
	ServerName    = "edges"
	ServerVersion = "0.1.0"
)

// DaemonClient is the control surface of a running daemon. *ipc.Client
// implements it.
type DaemonClient interface {
	GetStatus() (*ipc.StatusData, error)
	GetMonitors() (*ipc.MonitorsData, error)
	Trigger(edge string) error
	Reload() error
}

var _ DaemonClient = (*ipc.Client)(nil)

// Server is the MCP server for edges.
type Server struct {
	mcpServer *mcpsdk.Server
	daemon    DaemonClient
}

// NewServer creates an MCP server that forwards tool calls to the daemon.
func NewServer(daemon DaemonClient) *Server {
	s := &Server{daemon: daemon}
	s.mcpServer = mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    ServerName,
			Version: ServerVersion,
		},
		nil,
	)
	s.registerTools()
	return s
}

// Run starts the MCP server on stdio transport, blocking until done.
func (s *Server) Run(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcpsdk.StdioTransport{})
}

func (s *Server) registerTools() {
	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "get_status",
		Description: "Get the edges daemon status: detector state, last pointer sample, last edge hit, dispatch count, confirmation delay and configured commands.",
	}, s.handleGetStatus)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "list_monitors",
		Description: "List the monitor rectangles the daemon uses to resolve edges, in enumeration order.",
	}, s.handleListMonitors)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "trigger_edge",
		Description: "Run the command bound to an edge or corner immediately, as if the pointer had hit it. Edges without a command are a no-op.",
	}, s.handleTriggerEdge)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "reload_config",
		Description: "Make the daemon re-read its configuration file. Fails without changing anything if the file is invalid.",
	}, s.handleReloadConfig)
}
