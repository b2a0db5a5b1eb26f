package impulse2d

const NullNode = -1

type TreeNode struct {
	/// Enlarged AABB
	Aabb AABB

	/// Attached body; nil for internal nodes.
	Body *Body

	// union
	// {
	Parent int
	Next   int
	//};

	Child1 int
	Child2 int

	// leaf = 0, free node = -1
	Height int
}

func (node TreeNode) IsLeaf() bool {
	return node.Child1 == NullNode
}

/// TreeQueryCallback returns false to terminate the query early.
type TreeQueryCallback func(body *Body) bool

/// A dynamic AABB tree broad-phase. The tree arranges leaf proxies in a
/// binary tree to accelerate point and region queries and overlapping-pair
/// enumeration. Leaf AABBs are enlarged by a margin so that a proxy can
/// move by small amounts without triggering a tree update.
///
/// Siblings are chosen with a best-first surface area heuristic search and
/// the tree is kept compact by local rotations applied on the way back up
/// after every insertion.
///
/// Nodes are pooled and relocatable, so we use node indices rather than
/// pointers. The index of a leaf also serves as its stable id for pair
/// deduplication.
type AABBTree struct {
	M_root int

	M_nodes        []TreeNode
	M_nodeCount    int
	M_nodeCapacity int

	M_freeList int

	M_enableRotation bool
}

func MakeAABBTree() AABBTree {
	tree := AABBTree{}
	tree.M_root = NullNode

	tree.M_nodeCapacity = 16
	tree.M_nodeCount = 0
	tree.M_nodes = make([]TreeNode, tree.M_nodeCapacity)

	// Build a linked list for the free list.
	for i := 0; i < tree.M_nodeCapacity-1; i++ {
		tree.M_nodes[i].Next = i + 1
		tree.M_nodes[i].Height = -1
	}

	tree.M_nodes[tree.M_nodeCapacity-1].Next = NullNode
	tree.M_nodes[tree.M_nodeCapacity-1].Height = -1
	tree.M_freeList = 0

	tree.M_enableRotation = true

	return tree
}

func NewAABBTree() *AABBTree {
	res := MakeAABBTree()
	return &res
}

// Allocate a node from the pool. Grow the pool if necessary.
func (tree *AABBTree) AllocateNode() int {
	// Expand the node pool as needed.
	if tree.M_freeList == NullNode {
		Assert(tree.M_nodeCount == tree.M_nodeCapacity)

		// The free list is empty. Rebuild a bigger pool.
		tree.M_nodes = append(tree.M_nodes, make([]TreeNode, tree.M_nodeCapacity)...)
		tree.M_nodeCapacity *= 2

		for i := tree.M_nodeCount; i < tree.M_nodeCapacity-1; i++ {
			tree.M_nodes[i].Next = i + 1
			tree.M_nodes[i].Height = -1
		}

		tree.M_nodes[tree.M_nodeCapacity-1].Next = NullNode
		tree.M_nodes[tree.M_nodeCapacity-1].Height = -1
		tree.M_freeList = tree.M_nodeCount
	}

	// Peel a node off the free list.
	nodeId := tree.M_freeList
	tree.M_freeList = tree.M_nodes[nodeId].Next
	tree.M_nodes[nodeId].Parent = NullNode
	tree.M_nodes[nodeId].Child1 = NullNode
	tree.M_nodes[nodeId].Child2 = NullNode
	tree.M_nodes[nodeId].Height = 0
	tree.M_nodes[nodeId].Body = nil
	tree.M_nodeCount++

	return nodeId
}

// Return a node to the pool.
func (tree *AABBTree) FreeNode(nodeId int) {
	Assert(0 <= nodeId && nodeId < tree.M_nodeCapacity)
	Assert(0 < tree.M_nodeCount)
	tree.M_nodes[nodeId].Next = tree.M_freeList
	tree.M_nodes[nodeId].Height = -1
	tree.M_nodes[nodeId].Body = nil
	tree.M_freeList = nodeId
	tree.M_nodeCount--
}

/// Create a leaf proxy for a body. The AABB is enlarged by margin (statics
/// get no margin so their leaves stay tight). Sets the body's tree
/// back-pointer and returns the node index.
func (tree *AABBTree) CreateProxy(body *Body, margin float64) int {
	proxyId := tree.AllocateNode()

	aabb := body.ComputeAABB()
	if body.M_type == BodyType.E_dynamicBody && margin > 0.0 {
		aabb = aabb.Extended(margin)
	}

	tree.M_nodes[proxyId].Aabb = aabb
	tree.M_nodes[proxyId].Body = body
	tree.M_nodes[proxyId].Height = 0

	tree.InsertLeaf(proxyId)

	body.M_node = proxyId

	return proxyId
}

/// Destroy a body's leaf proxy and clear the body's back-pointer.
func (tree *AABBTree) DestroyProxy(body *Body) {
	proxyId := body.M_node
	if proxyId == NullNode {
		return
	}

	Assert(0 <= proxyId && proxyId < tree.M_nodeCapacity)
	Assert(tree.M_nodes[proxyId].IsLeaf())
	Assert(tree.M_nodes[proxyId].Body == body)

	tree.RemoveLeaf(proxyId)
	tree.FreeNode(proxyId)
	body.M_node = NullNode
}

/// Refresh a body's leaf when its tight AABB has escaped the fat leaf
/// AABB. Implemented as remove + insert; the leaf node index is stable.
/// Returns true if the leaf was reinserted.
func (tree *AABBTree) MoveProxy(body *Body, margin float64) bool {
	proxyId := body.M_node
	Assert(0 <= proxyId && proxyId < tree.M_nodeCapacity)
	Assert(tree.M_nodes[proxyId].IsLeaf())

	aabb := body.ComputeAABB()
	if tree.M_nodes[proxyId].Aabb.Contains(aabb) {
		return false
	}

	tree.RemoveLeaf(proxyId)

	if body.M_type == BodyType.E_dynamicBody && margin > 0.0 {
		aabb = aabb.Extended(margin)
	}
	tree.M_nodes[proxyId].Aabb = aabb

	tree.InsertLeaf(proxyId)

	return true
}

// A candidate sibling in the best-first insertion search.
type siblingCandidate struct {
	index     int
	inherited float64
}

func (tree *AABBTree) InsertLeaf(leaf int) {
	if tree.M_root == NullNode {
		tree.M_root = leaf
		tree.M_nodes[tree.M_root].Parent = NullNode
		return
	}

	// Find the best sibling with a pruned best-first search. The cost of
	// choosing a sibling is the area of the new parent plus the enlargement
	// forced onto every ancestor. A subtree is descended only if its lower
	// bound could still beat the best cost found so far.
	leafAABB := tree.M_nodes[leaf].Aabb
	leafArea := leafAABB.GetArea()

	bestSibling := tree.M_root
	bestCost := MaxFloat

	queue := make([]siblingCandidate, 0, 64)
	queue = append(queue, siblingCandidate{tree.M_root, 0.0})

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		node := &tree.M_nodes[current.index]

		directCost := AABBUnion(node.Aabb, leafAABB).GetArea()
		cost := directCost + current.inherited

		if cost < bestCost {
			bestCost = cost
			bestSibling = current.index
		}

		if node.IsLeaf() {
			continue
		}

		inherited := current.inherited + (directCost - node.Aabb.GetArea())
		lowerBound := leafArea + inherited
		if lowerBound < bestCost {
			queue = append(queue, siblingCandidate{node.Child1, inherited})
			queue = append(queue, siblingCandidate{node.Child2, inherited})
		}
	}

	sibling := bestSibling

	// Create a new parent.
	oldParent := tree.M_nodes[sibling].Parent
	newParent := tree.AllocateNode()
	tree.M_nodes[newParent].Parent = oldParent
	tree.M_nodes[newParent].Body = nil
	tree.M_nodes[newParent].Aabb = AABBUnion(leafAABB, tree.M_nodes[sibling].Aabb)
	tree.M_nodes[newParent].Height = tree.M_nodes[sibling].Height + 1

	if oldParent != NullNode {
		// The sibling was not the root.
		if tree.M_nodes[oldParent].Child1 == sibling {
			tree.M_nodes[oldParent].Child1 = newParent
		} else {
			tree.M_nodes[oldParent].Child2 = newParent
		}
	} else {
		// The sibling was the root.
		tree.M_root = newParent
	}

	tree.M_nodes[newParent].Child1 = sibling
	tree.M_nodes[newParent].Child2 = leaf
	tree.M_nodes[sibling].Parent = newParent
	tree.M_nodes[leaf].Parent = newParent

	// Walk back up the tree fixing AABBs and heights, rotating where it
	// shrinks the summed area.
	index := tree.M_nodes[leaf].Parent
	for index != NullNode {
		child1 := tree.M_nodes[index].Child1
		child2 := tree.M_nodes[index].Child2

		Assert(child1 != NullNode)
		Assert(child2 != NullNode)

		tree.M_nodes[index].Aabb = AABBUnion(tree.M_nodes[child1].Aabb, tree.M_nodes[child2].Aabb)
		tree.M_nodes[index].Height = 1 + MaxInt(tree.M_nodes[child1].Height, tree.M_nodes[child2].Height)

		if tree.M_enableRotation {
			tree.Rotate(index)
		}

		index = tree.M_nodes[index].Parent
	}

	if DEBUG {
		tree.Validate()
	}
}

func (tree *AABBTree) RemoveLeaf(leaf int) {
	if leaf == tree.M_root {
		tree.M_root = NullNode
		return
	}

	parent := tree.M_nodes[leaf].Parent
	grandParent := tree.M_nodes[parent].Parent
	var sibling int
	if tree.M_nodes[parent].Child1 == leaf {
		sibling = tree.M_nodes[parent].Child2
	} else {
		sibling = tree.M_nodes[parent].Child1
	}

	if grandParent != NullNode {
		// Destroy parent and connect sibling to grandParent.
		if tree.M_nodes[grandParent].Child1 == parent {
			tree.M_nodes[grandParent].Child1 = sibling
		} else {
			tree.M_nodes[grandParent].Child2 = sibling
		}
		tree.M_nodes[sibling].Parent = grandParent
		tree.FreeNode(parent)

		// Adjust ancestor bounds.
		index := grandParent
		for index != NullNode {
			child1 := tree.M_nodes[index].Child1
			child2 := tree.M_nodes[index].Child2

			tree.M_nodes[index].Aabb = AABBUnion(tree.M_nodes[child1].Aabb, tree.M_nodes[child2].Aabb)
			tree.M_nodes[index].Height = 1 + MaxInt(tree.M_nodes[child1].Height, tree.M_nodes[child2].Height)

			index = tree.M_nodes[index].Parent
		}
	} else {
		tree.M_root = sibling
		tree.M_nodes[sibling].Parent = NullNode
		tree.FreeNode(parent)
	}
}

/// Attempt a local rotation between node and its sibling. Four candidate
/// swaps are considered: the sibling against either of node's children,
/// and node against either of the sibling's children. The swap with the
/// most negative change in grouped area is performed, and only if that
/// change is strictly negative. The grandparent's external AABB is
/// unaffected; only the arrangement beneath it changes.
func (tree *AABBTree) Rotate(index int) {
	parent := tree.M_nodes[index].Parent
	if parent == NullNode {
		return
	}

	var sibling int
	if tree.M_nodes[parent].Child1 == index {
		sibling = tree.M_nodes[parent].Child2
	} else {
		sibling = tree.M_nodes[parent].Child1
	}

	costDiffs := [4]float64{MaxFloat, MaxFloat, MaxFloat, MaxFloat}

	nodeIsLeaf := tree.M_nodes[index].IsLeaf()
	siblingIsLeaf := tree.M_nodes[sibling].IsLeaf()

	if !nodeIsLeaf {
		nodeArea := tree.M_nodes[index].Aabb.GetArea()
		child1 := tree.M_nodes[index].Child1
		child2 := tree.M_nodes[index].Child2

		// Swap sibling <-> node.Child2
		costDiffs[0] = AABBUnion(tree.M_nodes[child1].Aabb, tree.M_nodes[sibling].Aabb).GetArea() - nodeArea

		// Swap sibling <-> node.Child1
		costDiffs[1] = AABBUnion(tree.M_nodes[child2].Aabb, tree.M_nodes[sibling].Aabb).GetArea() - nodeArea
	}

	if !siblingIsLeaf {
		siblingArea := tree.M_nodes[sibling].Aabb.GetArea()
		child1 := tree.M_nodes[sibling].Child1
		child2 := tree.M_nodes[sibling].Child2

		// Swap node <-> sibling.Child2
		costDiffs[2] = AABBUnion(tree.M_nodes[child1].Aabb, tree.M_nodes[index].Aabb).GetArea() - siblingArea

		// Swap node <-> sibling.Child1
		costDiffs[3] = AABBUnion(tree.M_nodes[child2].Aabb, tree.M_nodes[index].Aabb).GetArea() - siblingArea
	}

	bestDiff := costDiffs[0]
	bestIndex := 0
	for i := 1; i < 4; i++ {
		if costDiffs[i] < bestDiff {
			bestDiff = costDiffs[i]
			bestIndex = i
		}
	}

	if bestDiff >= 0.0 {
		return
	}

	switch bestIndex {
	case 0:
		tree.swapUnderParent(parent, sibling, index, tree.M_nodes[index].Child2)
		tree.refit(index)
	case 1:
		tree.swapUnderParent(parent, sibling, index, tree.M_nodes[index].Child1)
		tree.refit(index)
	case 2:
		tree.swapUnderParent(parent, index, sibling, tree.M_nodes[sibling].Child2)
		tree.refit(sibling)
	case 3:
		tree.swapUnderParent(parent, index, sibling, tree.M_nodes[sibling].Child1)
		tree.refit(sibling)
	}
}

// Swap `outer` (a child of parent) with `inner` (a child of keep, the other
// child of parent). After the swap, inner hangs off parent and outer hangs
// under keep.
func (tree *AABBTree) swapUnderParent(parent, outer, keep, inner int) {
	if tree.M_nodes[parent].Child1 == outer {
		tree.M_nodes[parent].Child1 = inner
	} else {
		tree.M_nodes[parent].Child2 = inner
	}
	tree.M_nodes[inner].Parent = parent

	if tree.M_nodes[keep].Child1 == inner {
		tree.M_nodes[keep].Child1 = outer
	} else {
		tree.M_nodes[keep].Child2 = outer
	}
	tree.M_nodes[outer].Parent = keep
}

// Recompute a node's AABB and height from its children.
func (tree *AABBTree) refit(index int) {
	child1 := tree.M_nodes[index].Child1
	child2 := tree.M_nodes[index].Child2

	tree.M_nodes[index].Aabb = AABBUnion(tree.M_nodes[child1].Aabb, tree.M_nodes[child2].Aabb)
	tree.M_nodes[index].Height = 1 + MaxInt(tree.M_nodes[child1].Height, tree.M_nodes[child2].Height)
}

/// Query the tree for leaves whose AABB contains the point. The callback
/// returns false to terminate early. Result order is unspecified.
func (tree *AABBTree) QueryPoint(p Vec2, callback TreeQueryCallback) {
	if tree.M_root == NullNode {
		return
	}

	stack := make([]int, 0, 64)
	stack = append(stack, tree.M_root)

	for len(stack) > 0 {
		nodeId := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if nodeId == NullNode {
			continue
		}

		node := &tree.M_nodes[nodeId]

		if node.Aabb.ContainsPoint(p) {
			if node.IsLeaf() {
				if !callback(node.Body) {
					return
				}
			} else {
				stack = append(stack, node.Child1)
				stack = append(stack, node.Child2)
			}
		}
	}
}

/// Query the tree for leaves whose AABB overlaps the region. The region is
/// fixed first so that inverted bounds are accepted. Result order is
/// unspecified.
func (tree *AABBTree) QueryAABB(region AABB, callback TreeQueryCallback) {
	region.Fix()

	if tree.M_root == NullNode {
		return
	}

	stack := make([]int, 0, 64)
	stack = append(stack, tree.M_root)

	for len(stack) > 0 {
		nodeId := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if nodeId == NullNode {
			continue
		}

		node := &tree.M_nodes[nodeId]

		if TestOverlapAABB(node.Aabb, region) {
			if node.IsLeaf() {
				if !callback(node.Body) {
					return
				}
			} else {
				stack = append(stack, node.Child1)
				stack = append(stack, node.Child2)
			}
		}
	}
}

func treePairKey(a, b int) uint64 {
	if a > b {
		a, b = b, a
	}
	return uint64(uint32(a))<<32 | uint64(uint32(b))
}

/// Enumerate every overlapping pair of leaves. Each pair appears at most
/// once; pair order and element order within a pair are unspecified.
func (tree *AABBTree) GetCollisionPairs() [][2]*Body {
	if tree.M_root == NullNode || tree.M_nodes[tree.M_root].IsLeaf() {
		return nil
	}

	visited := make(map[uint64]bool)
	var pairs [][2]*Body

	tree.checkCollision(tree.M_nodes[tree.M_root].Child1, tree.M_nodes[tree.M_root].Child2, visited, &pairs)

	return pairs
}

// Descend-both-subtrees pair enumeration. Pairs entirely within one
// subtree come from the self-recursions; cross pairs are pursued only
// when the two AABBs overlap.
func (tree *AABBTree) checkCollision(ia, ib int, visited map[uint64]bool, pairs *[][2]*Body) {
	if ia == NullNode || ib == NullNode {
		return
	}

	key := treePairKey(ia, ib)
	if visited[key] {
		return
	}
	visited[key] = true

	a := &tree.M_nodes[ia]
	b := &tree.M_nodes[ib]

	aIsLeaf := a.IsLeaf()
	bIsLeaf := b.IsLeaf()

	if aIsLeaf && bIsLeaf {
		if TestOverlapAABB(a.Aabb, b.Aabb) {
			*pairs = append(*pairs, [2]*Body{a.Body, b.Body})
		}
	} else if !aIsLeaf && !bIsLeaf {
		tree.checkCollision(a.Child1, a.Child2, visited, pairs)
		tree.checkCollision(b.Child1, b.Child2, visited, pairs)

		if TestOverlapAABB(a.Aabb, b.Aabb) {
			tree.checkCollision(a.Child1, b.Child1, visited, pairs)
			tree.checkCollision(a.Child1, b.Child2, visited, pairs)
			tree.checkCollision(a.Child2, b.Child1, visited, pairs)
			tree.checkCollision(a.Child2, b.Child2, visited, pairs)
		}
	} else if aIsLeaf {
		tree.checkCollision(b.Child1, b.Child2, visited, pairs)

		if TestOverlapAABB(a.Aabb, b.Aabb) {
			tree.checkCollision(ia, b.Child1, visited, pairs)
			tree.checkCollision(ia, b.Child2, visited, pairs)
		}
	} else {
		tree.checkCollision(a.Child1, a.Child2, visited, pairs)

		if TestOverlapAABB(a.Aabb, b.Aabb) {
			tree.checkCollision(a.Child1, ib, visited, pairs)
			tree.checkCollision(a.Child2, ib, visited, pairs)
		}
	}
}

/// The summed area of every live node. Diagnostic for the quality of the
/// rotation heuristic.
func (tree *AABBTree) ComputeCost() float64 {
	cost := 0.0
	for i := 0; i < tree.M_nodeCapacity; i++ {
		node := &tree.M_nodes[i]
		if node.Height < 0 {
			// Free node in pool.
			continue
		}

		cost += node.Aabb.GetArea()
	}

	return cost
}

func (tree *AABBTree) GetHeight() int {
	if tree.M_root == NullNode {
		return 0
	}

	return tree.M_nodes[tree.M_root].Height
}

func (tree *AABBTree) validateStructure(index int) {
	if index == NullNode {
		return
	}

	if index == tree.M_root {
		Assert(tree.M_nodes[index].Parent == NullNode)
	}

	node := &tree.M_nodes[index]

	child1 := node.Child1
	child2 := node.Child2

	if node.IsLeaf() {
		Assert(child1 == NullNode)
		Assert(child2 == NullNode)
		Assert(node.Height == 0)
		Assert(node.Body != nil)
		Assert(node.Body.M_node == index)
		return
	}

	Assert(0 <= child1 && child1 < tree.M_nodeCapacity)
	Assert(0 <= child2 && child2 < tree.M_nodeCapacity)
	Assert(node.Body == nil)

	Assert(tree.M_nodes[child1].Parent == index)
	Assert(tree.M_nodes[child2].Parent == index)

	tree.validateStructure(child1)
	tree.validateStructure(child2)
}

func (tree *AABBTree) validateMetrics(index int) {
	if index == NullNode {
		return
	}

	node := &tree.M_nodes[index]

	child1 := node.Child1
	child2 := node.Child2

	if node.IsLeaf() {
		return
	}

	height1 := tree.M_nodes[child1].Height
	height2 := tree.M_nodes[child2].Height
	Assert(node.Height == 1+MaxInt(height1, height2))

	aabb := AABBUnion(tree.M_nodes[child1].Aabb, tree.M_nodes[child2].Aabb)

	Assert(aabb.LowerBound == node.Aabb.LowerBound)
	Assert(aabb.UpperBound == node.Aabb.UpperBound)

	tree.validateMetrics(child1)
	tree.validateMetrics(child2)
}

/// Walk the whole tree asserting the structural invariants: internal
/// AABBs equal the union of their children, parent/child links are
/// mutual, leaves carry bodies whose back-pointers match.
func (tree *AABBTree) Validate() {
	tree.validateStructure(tree.M_root)
	tree.validateMetrics(tree.M_root)
}
