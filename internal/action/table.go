package action

import (
	"strings"

	"github.com/1broseidon/edges/internal/edge"
)

// Table maps each active zone to a command line. The zero value has no
// commands. Tables are values: replace them, never mutate one that the
// dispatcher is reading.
type Table [edge.Count]string

// NewTable builds a table from zone names (as accepted by edge.Parse).
func NewTable(commands map[string]string) (Table, error) {
	var t Table
	for name, cmd := range commands {
		z, err := edge.Parse(name)
		if err != nil {
			return Table{}, err
		}
		t[z] = cmd
	}
	return t, nil
}

// Lookup returns the command configured for z.
func (t *Table) Lookup(z edge.Zone) (string, bool) {
	if !z.Valid() {
		return "", false
	}
	cmd := t[z]
	if strings.TrimSpace(cmd) == "" {
		return "", false
	}
	return cmd, true
}

// Set assigns cmd to z. Invalid zones are ignored.
func (t *Table) Set(z edge.Zone, cmd string) {
	if z.Valid() {
		t[z] = cmd
	}
}

// Configured returns the zones that have a command, keyed by zone name.
func (t *Table) Configured() map[string]string {
	out := make(map[string]string)
	for _, z := range edge.All() {
		if cmd, ok := t.Lookup(z); ok {
			out[z.String()] = cmd
		}
	}
	return out
}

// Tokenize splits a command line on whitespace. Quoting and escaping are not
// interpreted; wrap the command in a script if it needs them.
func Tokenize(cmd string) []string {
	return strings.Fields(cmd)
}
