// Package commenttree 将扁平的评论行组装成回复树
//
// 行之间通过 parent_id 关联。父评论存在时挂到父评论下，
// 父评论缺失、指向自身或成环时作为顶级评论。
// 每一层的列表都按 (创建时间, ID) 升序排列。
package commenttree

import (
	"sort"
	"time"
)

// Row 可以参与建树的评论行
type Row interface {
	TreeID() string
	TreeParentID() *string
	TreeCreatedAt() time.Time
}

// Node 树节点
type Node[T Row] struct {
	Item    T          `json:"item"`
	Replies []*Node[T] `json:"replies"`
}

const (
	unvisited = iota
	visiting
	done
)

// Build 构建评论树
//
// 环上的行中最早的一条(按创建时间, 再按 ID)成为顶级评论，
// 其余成员仍挂在各自的父评论下。重复 ID 以第一次出现为准。
func Build[T Row](rows []T) []*Node[T] {
	n := len(rows)
	nodes := make([]*Node[T], n)
	index := make(map[string]int, n)
	for i, r := range rows {
		nodes[i] = &Node[T]{Item: r, Replies: []*Node[T]{}}
		if _, dup := index[r.TreeID()]; !dup {
			index[r.TreeID()] = i
		}
	}

	parents := make([]int, n)
	for i, r := range rows {
		parents[i] = -1
		pid := r.TreeParentID()
		if pid == nil {
			continue
		}
		if j, ok := index[*pid]; ok && j != i {
			parents[i] = j
		}
	}

	less := func(a, b int) bool {
		ta, tb := rows[a].TreeCreatedAt(), rows[b].TreeCreatedAt()
		if !ta.Equal(tb) {
			return ta.Before(tb)
		}
		if rows[a].TreeID() != rows[b].TreeID() {
			return rows[a].TreeID() < rows[b].TreeID()
		}
		return a < b
	}

	// 沿父链行走，遇到正在访问的节点即发现环
	broken := make([]bool, n)
	state := make([]uint8, n)
	path := make([]int, 0, 8)
	for start := 0; start < n; start++ {
		if state[start] != unvisited {
			continue
		}
		path = path[:0]
		cur := start
		for cur != -1 && state[cur] == unvisited {
			state[cur] = visiting
			path = append(path, cur)
			cur = parents[cur]
		}
		if cur != -1 && state[cur] == visiting {
			earliest := cur
			for k := len(path) - 1; path[k] != cur; k-- {
				if less(path[k], earliest) {
					earliest = path[k]
				}
			}
			broken[earliest] = true
		}
		for _, i := range path {
			state[i] = done
		}
	}

	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool { return less(order[a], order[b]) })

	roots := make([]*Node[T], 0)
	for _, i := range order {
		p := parents[i]
		if p == -1 || broken[i] {
			roots = append(roots, nodes[i])
			continue
		}
		nodes[p].Replies = append(nodes[p].Replies, nodes[i])
	}
	return roots
}

// Flatten 把每个顶级评论下的所有后代收拢为它的直接回复，按时间升序
// 用于只展示两层的评论区
func Flatten[T Row](roots []*Node[T]) []*Node[T] {
	for _, root := range roots {
		var all []*Node[T]
		queue := append([]*Node[T](nil), root.Replies...)
		for len(queue) > 0 {
			cur := queue[0]
			queue = queue[1:]
			all = append(all, cur)
			queue = append(queue, cur.Replies...)
		}
		sort.SliceStable(all, func(a, b int) bool {
			ta, tb := all[a].Item.TreeCreatedAt(), all[b].Item.TreeCreatedAt()
			if !ta.Equal(tb) {
				return ta.Before(tb)
			}
			return all[a].Item.TreeID() < all[b].Item.TreeID()
		})
		for _, c := range all {
			c.Replies = []*Node[T]{}
		}
		if all == nil {
			all = []*Node[T]{}
		}
		root.Replies = all
	}
	return roots
}

// Count 统计节点总数
func Count[T Row](roots []*Node[T]) int {
	total := 0
	Walk(roots, func(*Node[T], int) { total++ })
	return total
}

// Walk 深度优先先序遍历，depth 从 0 开始
func Walk[T Row](roots []*Node[T], fn func(node *Node[T], depth int)) {
	var visit func(nodes []*Node[T], depth int)
	visit = func(nodes []*Node[T], depth int) {
		for _, n := range nodes {
			fn(n, depth)
			visit(n.Replies, depth+1)
		}
	}
	visit(roots, 0)
}
