package schema

import (
	"fmt"
	"strings"
)

// Hop is one step of a join path, oriented in traversal direction. The
// foreign key behind a hop may point either way; FromOwnsKey records whether
// the From side holds the key column.
type Hop struct {
	From        string
	FromColumn  string
	To          string
	ToColumn    string
	FromOwnsKey bool
}

// JoinPath finds the shortest chain of foreign-key hops connecting two
// tables, treating edges as undirected. Ties between equally short paths are
// broken by visiting neighbors in column-declaration order. Identical tables
// yield an empty path. Disconnected tables yield *NoPathError.
func (g *Graph) JoinPath(from, to string) ([]Hop, error) {
	fromTable, ok := g.Table(from)
	if !ok {
		return nil, fmt.Errorf("unknown table %q", from)
	}
	toTable, ok := g.Table(to)
	if !ok {
		return nil, fmt.Errorf("unknown table %q", to)
	}

	start := strings.ToLower(fromTable.Name)
	goal := strings.ToLower(toTable.Name)
	if start == goal {
		return nil, nil
	}

	parents := map[string]parentLink{start: {}}
	queue := []string{start}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		if current == goal {
			return g.reconstructPath(parents, start, goal), nil
		}

		for _, n := range g.neighbors(current) {
			if _, visited := parents[n.table]; visited {
				continue
			}
			parents[n.table] = parentLink{prev: current, via: n}
			queue = append(queue, n.table)
		}
	}

	return nil, &NoPathError{From: fromTable.Name, To: toTable.Name}
}

func (g *Graph) reconstructPath(parents map[string]parentLink, start, goal string) []Hop {
	var hops []Hop
	for current := goal; current != start; {
		link := parents[current]
		prevTable := g.tables[link.prev]
		currTable := g.tables[current]
		hops = append(hops, Hop{
			From:        prevTable.Name,
			FromColumn:  link.via.localColumn,
			To:          currTable.Name,
			ToColumn:    link.via.peerColumn,
			FromOwnsKey: link.via.ownsKey,
		})
		current = link.prev
	}

	for i, j := 0, len(hops)-1; i < j; i, j = i+1, j-1 {
		hops[i], hops[j] = hops[j], hops[i]
	}
	return hops
}

type parentLink struct {
	prev string
	via  neighbor
}
