package domain

import (
	"fmt"
	"strings"
)

// Definition declares one domain of a graph
type Definition struct {
	ID     ID
	Table  string
	Key    string
	Fields []FieldDef
	Edges  []EdgeDef
}

// FieldDef declares a field of a domain
type FieldDef struct {
	Name   string
	Column string
	Type   ValueType
}

// EdgeDef declares a transition to another domain and how it joins
type EdgeDef struct {
	To           ID
	ParentColumn string
	ChildColumn  string
}

// Graph is an arena of domains addressed by ID. Edges refer to IDs rather than to nested
// values, so mutual references between domains never require recursive construction.
type Graph struct {
	domains []*Domain
	index   map[ID]int
}

// NewGraph builds and validates a graph from definitions
func NewGraph(defs ...Definition) (*Graph, error) {
	g := &Graph{
		domains: make([]*Domain, 0, len(defs)),
		index:   make(map[ID]int, len(defs)),
	}

	// First pass allocates every node so edges can point forward and backward
	for _, def := range defs {
		if def.ID == "" {
			return nil, fmt.Errorf("domain definition without an id")
		}
		if _, exists := g.index[def.ID]; exists {
			return nil, fmt.Errorf("domain %s is declared twice", def.ID)
		}
		g.index[def.ID] = len(g.domains)
		g.domains = append(g.domains, &Domain{
			ID:         def.ID,
			Table:      def.Table,
			Key:        def.Key,
			fieldIndex: make(map[string]*Field, len(def.Fields)),
			edgeIndex:  make(map[ID]*Transition, len(def.Edges)),
		})
	}

	for _, def := range defs {
		d := g.domains[g.index[def.ID]]
		members := make(map[string]bool)

		for _, fd := range def.Fields {
			if fd.Name == "" {
				return nil, fmt.Errorf("domain %s: field without a name", def.ID)
			}
			if members[fd.Name] {
				return nil, fmt.Errorf("domain %s: member %s is declared twice", def.ID, fd.Name)
			}
			members[fd.Name] = true

			column := fd.Column
			if column == "" {
				column = fd.Name
			}
			f := &Field{Name: fd.Name, Column: column, Type: fd.Type, Domain: def.ID}
			d.fields = append(d.fields, f)
			d.fieldIndex[f.Name] = f
		}

		for _, ed := range def.Edges {
			if _, ok := g.index[ed.To]; !ok {
				return nil, fmt.Errorf("domain %s: transition to undeclared domain %s", def.ID, ed.To)
			}
			if members[string(ed.To)] {
				return nil, fmt.Errorf("domain %s: member %s is declared twice", def.ID, ed.To)
			}
			members[string(ed.To)] = true

			t := &Transition{
				From: def.ID,
				To:   ed.To,
				Join: JoinMapping{ParentColumn: ed.ParentColumn, ChildColumn: ed.ChildColumn},
			}
			d.transitions = append(d.transitions, t)
			d.edgeIndex[t.To] = t
		}

		if len(d.fields) == 0 && len(d.transitions) == 0 {
			return nil, fmt.Errorf("domain %s has neither fields nor transitions", def.ID)
		}
	}

	return g, nil
}

// Domain looks a domain up by ID
func (g *Graph) Domain(id ID) (*Domain, bool) {
	i, ok := g.index[id]
	if !ok {
		return nil, false
	}
	return g.domains[i], true
}

// Domains returns every domain in declaration order
func (g *Graph) Domains() []*Domain {
	out := make([]*Domain, len(g.domains))
	copy(out, g.domains)
	return out
}

// Names returns every domain name in declaration order
func (g *Graph) Names() []string {
	names := make([]string, len(g.domains))
	for i, d := range g.domains {
		names[i] = d.Name()
	}
	return names
}

// Edge returns the transition from one domain to another, if declared
func (g *Graph) Edge(from, to ID) (*Transition, bool) {
	d, ok := g.Domain(from)
	if !ok {
		return nil, false
	}
	return d.Transition(to)
}

// Resolve maps a path onto the transitions it traverses. Every step must be a declared edge.
func (g *Graph) Resolve(path Path) ([]*Transition, error) {
	if len(path) == 0 {
		return nil, fmt.Errorf("empty domain path")
	}
	if _, ok := g.Domain(path[0]); !ok {
		return nil, fmt.Errorf("unknown domain %s", path[0])
	}

	edges := make([]*Transition, 0, len(path)-1)
	for i := 1; i < len(path); i++ {
		t, ok := g.Edge(path[i-1], path[i])
		if !ok {
			return nil, fmt.Errorf("no transition from %s to %s in path %s", path[i-1], path[i], path)
		}
		edges = append(edges, t)
	}
	return edges, nil
}

// DetectCycles returns every cycle found by a depth-first walk in declaration order
func (g *Graph) DetectCycles() [][]ID {
	var cycles [][]ID
	visited := make(map[ID]bool)
	onStack := make(map[ID]bool)

	var dfs func(node ID, path []ID)
	dfs = func(node ID, path []ID) {
		visited[node] = true
		onStack[node] = true
		path = append(path, node)

		d, _ := g.Domain(node)
		for _, t := range d.transitions {
			if !visited[t.To] {
				dfs(t.To, path)
			} else if onStack[t.To] {
				for i, n := range path {
					if n == t.To {
						cycle := make([]ID, len(path)-i)
						copy(cycle, path[i:])
						cycles = append(cycles, cycle)
						break
					}
				}
			}
		}

		onStack[node] = false
	}

	for _, d := range g.domains {
		if !visited[d.ID] {
			dfs(d.ID, nil)
		}
	}
	return cycles
}

// FormatCycles renders cycles as "a -> b -> a" lines
func FormatCycles(cycles [][]ID) string {
	var sb strings.Builder
	for i, cycle := range cycles {
		if i > 0 {
			sb.WriteString("\n")
		}
		parts := make([]string, 0, len(cycle)+1)
		for _, id := range cycle {
			parts = append(parts, string(id))
		}
		parts = append(parts, string(cycle[0]))
		sb.WriteString(strings.Join(parts, " -> "))
	}
	return sb.String()
}
