package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/1broseidon/edges/internal/edge"
	"github.com/1broseidon/edges/internal/ipc"
	"github.com/1broseidon/edges/internal/tui"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	if len(os.Args) < 2 {
		printMainUsage(os.Stdout)
		os.Exit(0)
	}

	switch os.Args[1] {
	case "daemon":
		os.Exit(runDaemon(os.Args[2:]))
	case "status":
		os.Exit(runStatus(os.Args[2:]))
	case "monitors":
		os.Exit(runMonitors(os.Args[2:]))
	case "trigger":
		os.Exit(runTrigger(os.Args[2:]))
	case "reload":
		os.Exit(runReload(os.Args[2:]))
	case "config":
		os.Exit(runConfig(os.Args[2:]))
	case "tui":
		os.Exit(runTUI(os.Args[2:]))
	case "mcp":
		os.Exit(runMCP(os.Args[2:]))
	case "version", "--version":
		fmt.Println("edges", version)
		os.Exit(0)
	case "help", "-h", "--help":
		printMainUsage(os.Stdout)
		os.Exit(0)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printMainUsage(os.Stderr)
		os.Exit(2)
	}
}

func printMainUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: edges <command> [options]")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Run commands when the pointer hits a screen edge or corner.")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  daemon              Start the edge detector (foreground)")
	fmt.Fprintln(w, "  status              Show daemon status")
	fmt.Fprintln(w, "  monitors            List monitors known to the daemon")
	fmt.Fprintln(w, "  trigger <edge>      Run the command bound to an edge now")
	fmt.Fprintln(w, "  reload              Reload the daemon configuration")
	fmt.Fprintln(w, "  tui                 Interactive dashboard for the daemon")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  config validate     Validate configuration")
	fmt.Fprintln(w, "  config print        Print configuration")
	fmt.Fprintln(w, "  config explain      Explain a config value")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  mcp serve           Start MCP server (stdio transport)")
	fmt.Fprintln(w, "  version             Print version")
	fmt.Fprintln(w, "")
	fmt.Fprintf(w, "Edges: %s\n", strings.Join(edgeNames(), ", "))
}

func edgeNames() []string {
	names := make([]string, 0, edge.Count)
	for _, z := range edge.All() {
		names = append(names, z.String())
	}
	return names
}

// parseNoArgs parses a flag set for a subcommand that takes no positional
// arguments. It returns -1 to continue, or an exit code.
func parseNoArgs(fs *flag.FlagSet, args []string) int {
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintf(os.Stderr, "%s takes no arguments\n", fs.Name())
		fs.Usage()
		return 2
	}
	return -1
}

func runStatus(args []string) int {
	fs := flag.NewFlagSet("status", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: edges status")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Show daemon status via IPC.")
	}
	if code := parseNoArgs(fs, args); code >= 0 {
		return code
	}

	status, err := ipc.NewClient().GetStatus()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	printStatus(os.Stdout, status)
	return 0
}

func printStatus(w io.Writer, status *ipc.StatusData) {
	fmt.Fprintf(w, "daemon_running: %v\n", status.DaemonRunning)
	fmt.Fprintf(w, "uptime_seconds: %d\n", status.UptimeSeconds)
	fmt.Fprintf(w, "state:          %s\n", status.State)
	fmt.Fprintf(w, "last_sample:    %d,%d\n", status.LastX, status.LastY)
	if status.LastEdge != "" {
		fmt.Fprintf(w, "last_edge:      %s (%s)\n", status.LastEdge, status.LastHit)
	}
	fmt.Fprintf(w, "dispatches:     %d\n", status.Dispatches)
	fmt.Fprintf(w, "monitors:       %d\n", status.MonitorCount)
	fmt.Fprintf(w, "delay_ms:       %d\n", status.DelayMs)
	fmt.Fprintf(w, "block:          %v\n", status.Block)
	for _, name := range edgeNames() {
		if cmd, ok := status.Commands[name]; ok {
			fmt.Fprintf(w, "  %-13s %s\n", name+":", cmd)
		}
	}
}

func runMonitors(args []string) int {
	fs := flag.NewFlagSet("monitors", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: edges monitors")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "List the monitor layout the daemon resolves edges against.")
	}
	if code := parseNoArgs(fs, args); code >= 0 {
		return code
	}

	data, err := ipc.NewClient().GetMonitors()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	for _, m := range data.Monitors {
		fmt.Printf("%d\t%s\t%dx%d+%d+%d\n", m.ID, m.Name, m.Width, m.Height, m.X, m.Y)
	}
	return 0
}

func runTrigger(args []string) int {
	fs := flag.NewFlagSet("trigger", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: edges trigger <edge>")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Run the command bound to <edge> as if the pointer had hit it.")
		fmt.Fprintf(os.Stderr, "Edges: %s\n", strings.Join(edgeNames(), ", "))
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return 2
	}
	zone, err := edge.Parse(fs.Arg(0))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}

	if err := ipc.NewClient().Trigger(zone.String()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func runReload(args []string) int {
	fs := flag.NewFlagSet("reload", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: edges reload")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Ask the daemon to re-read its configuration file.")
	}
	if code := parseNoArgs(fs, args); code >= 0 {
		return code
	}

	if err := ipc.NewClient().Reload(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	fmt.Println("config reloaded")
	return 0
}

func runTUI(args []string) int {
	fs := flag.NewFlagSet("tui", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: edges tui")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Live view of the running daemon.")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Keybindings:")
		fmt.Fprintln(os.Stderr, "  tab, 1/2   Switch between Status and Edges")
		fmt.Fprintln(os.Stderr, "  j/k, ↑/↓   Select an edge")
		fmt.Fprintln(os.Stderr, "  Enter      Run the selected edge's command")
		fmt.Fprintln(os.Stderr, "  r          Reload daemon config")
		fmt.Fprintln(os.Stderr, "  q, Ctrl+C  Quit")
	}
	if code := parseNoArgs(fs, args); code >= 0 {
		return code
	}

	if err := tui.Run(ipc.NewClient()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}
