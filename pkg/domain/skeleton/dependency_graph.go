// 指示: miu200521358
package skeleton

import (
	"sort"

	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"
)

// DependencyEdge は拘束による依存辺を表す。Source の変化が Owner へ伝わる。
type DependencyEdge struct {
	Source     string
	Owner      string
	Constraint string
}

// DependencyGraph は拘束の参照関係をボーン名キーの有向グラフとして保持する。
// 骨格の所有木とは独立に検査できる。
type DependencyGraph struct {
	graph *simple.DirectedGraph
	ids   map[string]int64
	names map[int64]string
	edges []DependencyEdge
}

// NewDependencyGraph は空の依存グラフを生成する。
func NewDependencyGraph() *DependencyGraph {
	return &DependencyGraph{
		graph: simple.NewDirectedGraph(),
		ids:   map[string]int64{},
		names: map[int64]string{},
	}
}

// BuildDependencyGraph は骨格上の全拘束から依存グラフを構築する。
func BuildDependencyGraph(s *Skeleton) *DependencyGraph {
	g := NewDependencyGraph()
	for _, name := range s.BoneNames() {
		bone := s.state.Bones[name]
		for _, c := range bone.Constraints {
			for _, source := range c.Sources() {
				g.AddEdge(source, name, c.Name)
			}
		}
	}
	return g
}

// AddEdge は依存辺を追加する。自己参照と重複は無視する。
func (g *DependencyGraph) AddEdge(source, owner, constraint string) {
	if source == owner {
		return
	}
	from := g.node(source)
	to := g.node(owner)
	if g.graph.HasEdgeFromTo(from.ID(), to.ID()) {
		return
	}
	g.graph.SetEdge(g.graph.NewEdge(from, to))
	g.edges = append(g.edges, DependencyEdge{Source: source, Owner: owner, Constraint: constraint})
}

// Edges は追加順の依存辺を返す。
func (g *DependencyGraph) Edges() []DependencyEdge {
	return append([]DependencyEdge(nil), g.edges...)
}

// Nodes は登録順のボーン名を返す。
func (g *DependencyGraph) Nodes() []string {
	names := make([]string, 0, len(g.names))
	for id := int64(0); id < int64(len(g.names)); id++ {
		names = append(names, g.names[id])
	}
	return names
}

// Dependencies は owner が依存するボーン名を返す。
func (g *DependencyGraph) Dependencies(owner string) []string {
	id, ok := g.ids[owner]
	if !ok {
		return nil
	}
	return g.sortedNames(graph.NodesOf(g.graph.To(id)))
}

// Dependents は source に依存するボーン名を返す。
func (g *DependencyGraph) Dependents(source string) []string {
	id, ok := g.ids[source]
	if !ok {
		return nil
	}
	return g.sortedNames(graph.NodesOf(g.graph.From(id)))
}

// TopologicalOrder は依存元が先に来る評価順を返す。循環がある場合はエラーを返す。
func (g *DependencyGraph) TopologicalOrder() ([]string, error) {
	sorted, err := topo.SortStabilized(g.graph, func(nodes []graph.Node) {
		sort.Slice(nodes, func(i, j int) bool { return nodes[i].ID() < nodes[j].ID() })
	})
	if err != nil {
		return nil, NewDependencyCycleError(err)
	}
	names := make([]string, 0, len(sorted))
	for _, node := range sorted {
		names = append(names, g.names[node.ID()])
	}
	return names, nil
}

func (g *DependencyGraph) node(name string) graph.Node {
	if id, ok := g.ids[name]; ok {
		return g.graph.Node(id)
	}
	id := int64(len(g.ids))
	node := simple.Node(id)
	g.graph.AddNode(node)
	g.ids[name] = id
	g.names[id] = name
	return node
}

func (g *DependencyGraph) sortedNames(nodes []graph.Node) []string {
	sort.Slice(nodes, func(i, j int) bool { return nodes[i].ID() < nodes[j].ID() })
	names := make([]string, 0, len(nodes))
	for _, node := range nodes {
		names = append(names, g.names[node.ID()])
	}
	return names
}
