// 指示: miu200521358
package humanoid

// topologyEdge は役割と親役割の組。
type topologyEdge struct {
	role   CanonicalRole
	parent CanonicalRole
}

// topologyEdges は正準木の定義。子の並びは宣言順で固定する。
var topologyEdges = buildTopologyEdges()

var (
	topologyIndex    = map[CanonicalRole]int{}
	topologyParents  = map[CanonicalRole]CanonicalRole{}
	topologyChildren = map[CanonicalRole][]CanonicalRole{}
	topologyOrder    []CanonicalRole
	topologyDepth    = map[CanonicalRole]int{}
	roleByKey        = map[string]CanonicalRole{}
)

func init() {
	for i, edge := range topologyEdges {
		topologyIndex[edge.role] = i
		roleByKey[normalizeRoleKey(string(edge.role))] = edge.role
		if edge.parent == "" {
			continue
		}
		topologyParents[edge.role] = edge.parent
		topologyChildren[edge.parent] = append(topologyChildren[edge.parent], edge.role)
	}

	var visit func(role CanonicalRole, depth int)
	visit = func(role CanonicalRole, depth int) {
		topologyOrder = append(topologyOrder, role)
		topologyDepth[role] = depth
		for _, child := range topologyChildren[role] {
			visit(child, depth+1)
		}
	}
	visit(Hips, 0)
}

func buildTopologyEdges() []topologyEdge {
	edges := []topologyEdge{
		{role: Hips},
		{role: Spine, parent: Hips},
		{role: Chest, parent: Spine},
		{role: UpperChest, parent: Chest},
		{role: Neck, parent: UpperChest},
		{role: Head, parent: Neck},
	}
	for _, side := range Sides {
		shoulder := SideRole(side, "Shoulder")
		upperArm := SideRole(side, "UpperArm")
		lowerArm := SideRole(side, "LowerArm")
		hand := SideRole(side, "Hand")
		edges = append(edges,
			topologyEdge{role: shoulder, parent: UpperChest},
			topologyEdge{role: upperArm, parent: shoulder},
			topologyEdge{role: lowerArm, parent: upperArm},
			topologyEdge{role: hand, parent: lowerArm},
		)
		for _, finger := range Fingers {
			parent := hand
			for _, role := range FingerChain(side, finger) {
				edges = append(edges, topologyEdge{role: role, parent: parent})
				parent = role
			}
		}
	}
	for _, side := range Sides {
		upperLeg := SideRole(side, "UpperLeg")
		lowerLeg := SideRole(side, "LowerLeg")
		foot := SideRole(side, "Foot")
		toes := SideRole(side, "Toes")
		edges = append(edges,
			topologyEdge{role: upperLeg, parent: Hips},
			topologyEdge{role: lowerLeg, parent: upperLeg},
			topologyEdge{role: foot, parent: lowerLeg},
			topologyEdge{role: toes, parent: foot},
		)
	}
	return edges
}

// mustKnown は未知の役割で panic する。
func mustKnown(role CanonicalRole) {
	if _, ok := topologyIndex[role]; !ok {
		panic("humanoid: unknown canonical role " + string(role))
	}
}

// ParentOf は親役割を返す。根の場合は false を返す。
func ParentOf(role CanonicalRole) (CanonicalRole, bool) {
	mustKnown(role)
	parent, ok := topologyParents[role]
	return parent, ok
}

// ChildrenOf は子役割を宣言順で返す。
func ChildrenOf(role CanonicalRole) []CanonicalRole {
	mustKnown(role)
	return append([]CanonicalRole(nil), topologyChildren[role]...)
}

// AllRoles は全役割を根から深さ優先の固定順で返す。
func AllRoles() []CanonicalRole {
	return append([]CanonicalRole(nil), topologyOrder...)
}

// RoleCount は役割数を返す。
func RoleCount() int {
	return len(topologyOrder)
}

// Depth は根からの深さを返す。根は0。
func Depth(role CanonicalRole) int {
	mustKnown(role)
	return topologyDepth[role]
}

// Ancestors は親から根までの役割を近い順に返す。
func Ancestors(role CanonicalRole) []CanonicalRole {
	mustKnown(role)
	ancestors := make([]CanonicalRole, 0, topologyDepth[role])
	for parent, ok := topologyParents[role]; ok; parent, ok = topologyParents[parent] {
		ancestors = append(ancestors, parent)
	}
	return ancestors
}
