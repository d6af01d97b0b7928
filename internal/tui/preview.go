package tui

import (
	"fmt"
	"strings"

	"github.com/1broseidon/edges/internal/ipc"
)

// pointerMark marks the last sampled pointer position on the map.
const pointerMark = '●'

// summarizeMonitors returns a one-line description of the layout.
func summarizeMonitors(monitors []ipc.MonitorInfo) string {
	if len(monitors) == 0 {
		return "no monitors"
	}
	w, h := extent(monitors)
	if len(monitors) == 1 {
		return fmt.Sprintf("1 monitor • %d×%d px", w, h)
	}
	return fmt.Sprintf("%d monitors • %d×%d px desktop", len(monitors), w, h)
}

// extent returns the size of the smallest rectangle at the origin that
// contains every monitor.
func extent(monitors []ipc.MonitorInfo) (int, int) {
	w, h := 0, 0
	for _, m := range monitors {
		w = max(w, m.X+m.Width)
		h = max(h, m.Y+m.Height)
	}
	return w, h
}

// renderMonitorMap draws the monitors scaled into a width×height canvas,
// numbered by ID, with the pointer at (px, py) when it falls inside.
func renderMonitorMap(monitors []ipc.MonitorInfo, px, py, width, height int) []string {
	if len(monitors) == 0 || width < 5 || height < 3 {
		return emptyCanvas(width, height)
	}
	rootW, rootH := extent(monitors)
	if rootW <= 0 || rootH <= 0 {
		return emptyCanvas(width, height)
	}

	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = make([]rune, width)
		for j := range canvas[i] {
			canvas[i][j] = ' '
		}
	}

	for _, m := range monitors {
		drawMonitor(canvas, m, rootW, rootH, width, height)
	}

	if px >= 0 && py >= 0 && px < rootW && py < rootH {
		cx := min(px*width/rootW, width-1)
		cy := min(py*height/rootH, height-1)
		canvas[cy][cx] = pointerMark
	}

	lines := make([]string, height)
	for i, row := range canvas {
		lines[i] = string(row)
	}
	return lines
}

func drawMonitor(canvas [][]rune, m ipc.MonitorInfo, rootW, rootH, canvasW, canvasH int) {
	x1 := m.X * canvasW / rootW
	y1 := m.Y * canvasH / rootH
	x2 := (m.X+m.Width)*canvasW/rootW - 1
	y2 := (m.Y+m.Height)*canvasH/rootH - 1

	x1 = max(x1, 0)
	y1 = max(y1, 0)
	x2 = min(x2, canvasW-1)
	y2 = min(y2, canvasH-1)

	// Need at least 2x2 for a box
	if x2 <= x1 || y2 <= y1 {
		return
	}

	for x := x1; x <= x2; x++ {
		canvas[y1][x] = '─'
		canvas[y2][x] = '─'
	}
	for y := y1; y <= y2; y++ {
		canvas[y][x1] = '│'
		canvas[y][x2] = '│'
	}
	canvas[y1][x1] = '┌'
	canvas[y1][x2] = '┐'
	canvas[y2][x1] = '└'
	canvas[y2][x2] = '┘'

	centerY := (y1 + y2) / 2
	centerX := (x1 + x2) / 2
	if centerY > y1 && centerY < y2 && centerX > x1 && centerX < x2 {
		label := fmt.Sprintf("%d", m.ID)
		startX := centerX - len(label)/2
		for i, r := range label {
			if startX+i > x1 && startX+i < x2 {
				canvas[centerY][startX+i] = r
			}
		}
	}
}

func emptyCanvas(width, height int) []string {
	if width < 0 || height < 0 {
		return nil
	}
	lines := make([]string, height)
	empty := strings.Repeat(" ", width)
	for i := range lines {
		lines[i] = empty
	}
	return lines
}
