package berth

import "go.uber.org/multierr"

// DependencyGraph records the dependencies each service declares.
// The container never consults it while resolving; it backs Validate and
// Warmup ordering.
type DependencyGraph struct {
	nodes map[Key]*node
	order []Key // Preserve registration order
}

type node struct {
	key          Key
	dependencies []Key
}

// NewDependencyGraph creates a new dependency graph.
func NewDependencyGraph() *DependencyGraph {
	return &DependencyGraph{
		nodes: make(map[Key]*node),
		order: make([]Key, 0),
	}
}

// AddNode adds a node with its dependencies. Re-adding a key replaces its
// dependencies and keeps its position.
// Nodes are processed in the order they are added (FIFO) when no dependencies exist.
func (g *DependencyGraph) AddNode(key Key, dependencies []Key) {
	if _, exists := g.nodes[key]; !exists {
		g.order = append(g.order, key)
	}

	g.nodes[key] = &node{
		key:          key,
		dependencies: dependencies,
	}
}

// GetDependencies returns the dependencies declared for a node.
func (g *DependencyGraph) GetDependencies(key Key) []Key {
	if node, ok := g.nodes[key]; ok {
		return node.dependencies
	}

	return nil
}

// HasNode checks if a node exists in the graph.
func (g *DependencyGraph) HasNode(key Key) bool {
	_, ok := g.nodes[key]

	return ok
}

// Validate reports every dependency that is not a node, then any cycle.
func (g *DependencyGraph) Validate() error {
	var errs error

	for _, key := range g.order {
		for _, dep := range g.nodes[key].dependencies {
			if !g.HasNode(dep) {
				errs = multierr.Append(errs, errMissingDependency(key, dep))
			}
		}
	}

	if _, err := g.TopologicalSort(); err != nil {
		errs = multierr.Append(errs, err)
	}

	return errs
}

// TopologicalSort returns nodes in dependency order.
// Nodes without dependencies maintain their registration order (FIFO).
// Returns error if circular dependency detected.
func (g *DependencyGraph) TopologicalSort() ([]Key, error) {
	visited := make(map[Key]bool)
	visiting := make(map[Key]bool)
	result := make([]Key, 0, len(g.nodes))

	for _, key := range g.order {
		if err := g.visit(key, visited, visiting, nil, &result); err != nil {
			return nil, err
		}
	}

	return result, nil
}

// visit performs DFS traversal; path holds the keys currently being visited.
func (g *DependencyGraph) visit(key Key, visited, visiting map[Key]bool, path []Key, result *[]Key) error {
	if visited[key] {
		return nil
	}

	if visiting[key] {
		return errCircularDependency(cycleFrom(path, key))
	}

	node := g.nodes[key]
	if node == nil {
		// Not registered; Validate reports it separately
		return nil
	}

	visiting[key] = true
	path = append(path, key)

	for _, dep := range node.dependencies {
		if err := g.visit(dep, visited, visiting, path, result); err != nil {
			return err
		}
	}

	visiting[key] = false
	visited[key] = true
	*result = append(*result, key)

	return nil
}

// cycleFrom trims path to the cycle closing at key.
func cycleFrom(path []Key, key Key) []Key {
	for i, k := range path {
		if k == key {
			cycle := append([]Key(nil), path[i:]...)
			return append(cycle, key)
		}
	}

	return []Key{key}
}
