package arbor

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"
)

// debugStats holds per-frame timing and traversal counts.
// Only populated when Scene.debug is true.
type debugStats struct {
	updateTime time.Duration
	drawTime   time.Duration
	nodes      int
	components int
}

// SetDebugMode enables or disables debug mode. When enabled, registry events,
// tree depth and child count warnings, and per-frame timing stats are written
// to the debug output (stderr by default).
func (s *Scene) SetDebugMode(enabled bool) {
	s.debug = enabled
}

// SetDebugOutput redirects debug output. A nil writer restores stderr.
func (s *Scene) SetDebugOutput(w io.Writer) {
	if w == nil {
		w = os.Stderr
	}
	s.debugOut = w
}

func (s *Scene) debugf(format string, args ...any) {
	_, _ = fmt.Fprintf(s.debugOut, "[arbor] "+format+"\n", args...)
}

// debugLog prints timing and traversal stats.
func (s *Scene) debugLog(stats debugStats) {
	if !s.debug {
		return
	}
	s.debugf("update: %v | draw: %v | total: %v",
		stats.updateTime, stats.drawTime, stats.updateTime+stats.drawTime)
	s.debugf("nodes: %d | components: %d | registered: %d",
		stats.nodes, stats.components, s.registry.Len())
}

// debugCheckTreeDepth warns if tree depth exceeds the threshold.
const debugMaxTreeDepth = 32

func (s *Scene) debugCheckTreeDepth(n *Node) {
	depth := 0
	for p := n; p != nil; p = p.parent {
		depth++
	}
	if depth > debugMaxTreeDepth {
		s.debugf("warning: tree depth %d exceeds %d (node %q)", depth, debugMaxTreeDepth, n.Name)
	}
}

// debugCheckChildCount warns if a node has more than 1000 children.
const debugMaxChildCount = 1000

func (s *Scene) debugCheckChildCount(n *Node) {
	if len(n.children) > debugMaxChildCount {
		s.debugf("warning: node %q has %d children (threshold %d)",
			n.Name, len(n.children), debugMaxChildCount)
	}
}

// DumpTree writes an indented listing of the tree, one node per line with its
// ID, position, rotation and component count.
func (s *Scene) DumpTree(w io.Writer) error {
	return dumpNode(w, s.root, 0)
}

func dumpNode(w io.Writer, n *Node, depth int) error {
	hidden := ""
	if !n.Visible {
		hidden = " hidden"
	}
	_, err := fmt.Fprintf(w, "%s%s #%d pos=(%g,%g) rot=%g components=%d%s\n",
		strings.Repeat("  ", depth), n.Name, n.id, n.X, n.Y, n.Rotation, len(n.components), hidden)
	if err != nil {
		return err
	}
	for _, c := range n.children {
		if err := dumpNode(w, c, depth+1); err != nil {
			return err
		}
	}
	return nil
}
