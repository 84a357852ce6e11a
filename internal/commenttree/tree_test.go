package commenttree

import (
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type row struct {
	id     string
	parent *string
	at     time.Time
}

func (r row) TreeID() string           { return r.id }
func (r row) TreeParentID() *string    { return r.parent }
func (r row) TreeCreatedAt() time.Time { return r.at }

var base = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func mk(id string, parent string, minute int) row {
	r := row{id: id, at: base.Add(time.Duration(minute) * time.Minute)}
	if parent != "" {
		p := parent
		r.parent = &p
	}
	return r
}

func ids(nodes []*Node[row]) []string {
	out := make([]string, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, n.Item.id)
	}
	return out
}

func find(roots []*Node[row], id string) *Node[row] {
	var found *Node[row]
	Walk(roots, func(n *Node[row], _ int) {
		if n.Item.id == id {
			found = n
		}
	})
	return found
}

func TestBuild_Basic(t *testing.T) {
	rows := []row{
		mk("c", "a", 3),
		mk("a", "", 1),
		mk("b", "", 2),
		mk("d", "a", 2),
		mk("e", "d", 5),
	}

	roots := Build(rows)

	assert.Equal(t, []string{"a", "b"}, ids(roots))
	assert.Equal(t, []string{"d", "c"}, ids(roots[0].Replies))
	assert.Equal(t, []string{"e"}, ids(roots[0].Replies[0].Replies))
	assert.Empty(t, roots[1].Replies)
	assert.Equal(t, 5, Count(roots))
}

func TestBuild_Empty(t *testing.T) {
	roots := Build[row](nil)
	assert.NotNil(t, roots)
	assert.Empty(t, roots)
}

func TestBuild_DanglingParentBecomesRoot(t *testing.T) {
	rows := []row{
		mk("a", "", 1),
		mk("b", "missing", 0),
		mk("c", "b", 2),
	}

	roots := Build(rows)

	assert.Equal(t, []string{"b", "a"}, ids(roots))
	assert.Equal(t, []string{"c"}, ids(roots[0].Replies))
}

func TestBuild_SelfParentBecomesRoot(t *testing.T) {
	roots := Build([]row{mk("a", "a", 1)})

	require.Len(t, roots, 1)
	assert.Equal(t, "a", roots[0].Item.id)
	assert.Empty(t, roots[0].Replies)
}

func TestBuild_Cycles(t *testing.T) {
	tests := []struct {
		name      string
		rows      []row
		wantRoots []string
	}{
		{
			name:      "两元环",
			rows:      []row{mk("a", "b", 2), mk("b", "a", 1)},
			wantRoots: []string{"b"},
		},
		{
			name:      "三元环",
			rows:      []row{mk("a", "c", 5), mk("b", "a", 3), mk("c", "b", 4)},
			wantRoots: []string{"b"},
		},
		{
			name: "环外的链挂在环上",
			rows: []row{
				mk("a", "b", 1), mk("b", "a", 2),
				mk("x", "a", 0),
			},
			wantRoots: []string{"a"},
		},
		{
			name: "环与正常树并存",
			rows: []row{
				mk("r", "", 0), mk("k", "r", 1),
				mk("p", "q", 3), mk("q", "p", 3),
			},
			wantRoots: []string{"r", "p"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			roots := Build(tt.rows)

			assert.Equal(t, tt.wantRoots, ids(roots))
			assert.Equal(t, len(tt.rows), Count(roots), "每一行都必须出现且只出现一次")
		})
	}
}

func TestBuild_CycleKeepsOtherMembersAttached(t *testing.T) {
	rows := []row{mk("a", "c", 1), mk("b", "a", 2), mk("c", "b", 3)}

	roots := Build(rows)

	require.Equal(t, []string{"a"}, ids(roots))
	assert.Equal(t, "b", find(roots, "a").Replies[0].Item.id)
	assert.Equal(t, "c", find(roots, "b").Replies[0].Item.id)
}

func TestBuild_TieBreaksByID(t *testing.T) {
	rows := []row{mk("b", "", 1), mk("a", "", 1), mk("c", "", 0)}

	assert.Equal(t, []string{"c", "a", "b"}, ids(Build(rows)))
}

func TestBuild_DuplicateIDFirstWins(t *testing.T) {
	rows := []row{mk("a", "", 1), mk("a", "", 2), mk("b", "a", 3)}

	roots := Build(rows)

	require.Len(t, roots, 2)
	assert.Equal(t, []string{"b"}, ids(roots[0].Replies))
	assert.Empty(t, roots[1].Replies)
}

// 随机父指针（含环、悬空、自指）下每行恰好出现一次，
// 且能解析的父评论都被使用
func TestBuild_RandomGraphs(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for iter := 0; iter < 200; iter++ {
		n := 1 + rng.Intn(30)
		rows := make([]row, n)
		for i := range rows {
			parent := ""
			switch rng.Intn(4) {
			case 0:
			case 1:
				parent = "ghost"
			default:
				parent = fmt.Sprintf("n%d", rng.Intn(n))
			}
			rows[i] = mk(fmt.Sprintf("n%d", i), parent, rng.Intn(10))
		}

		roots := Build(rows)

		seen := map[string]int{}
		Walk(roots, func(node *Node[row], depth int) {
			seen[node.Item.id]++
			for k := 1; k < len(node.Replies); k++ {
				prev, cur := node.Replies[k-1].Item, node.Replies[k].Item
				assert.False(t, cur.at.Before(prev.at), "回复按时间升序")
			}
		})
		require.Len(t, seen, n)
		for id, c := range seen {
			assert.Equal(t, 1, c, id)
		}

		rootSet := map[string]bool{}
		for _, r := range roots {
			rootSet[r.Item.id] = true
		}
		for _, r := range rows {
			if r.parent == nil || *r.parent == "ghost" || *r.parent == r.id {
				assert.True(t, rootSet[r.id])
			}
		}
		assert.LessOrEqual(t, len(roots), n)
	}
}

func TestFlatten(t *testing.T) {
	rows := []row{
		mk("a", "", 0),
		mk("b", "a", 3),
		mk("c", "b", 1),
		mk("d", "c", 2),
		mk("e", "", 4),
	}

	roots := Flatten(Build(rows))

	require.Equal(t, []string{"a", "e"}, ids(roots))
	assert.Equal(t, []string{"c", "d", "b"}, ids(roots[0].Replies))
	for _, r := range roots[0].Replies {
		assert.Empty(t, r.Replies)
	}
	assert.NotNil(t, roots[1].Replies)
	assert.Empty(t, roots[1].Replies)
}

func TestWalkDepth(t *testing.T) {
	rows := []row{mk("a", "", 0), mk("b", "a", 1), mk("c", "b", 2)}

	depths := map[string]int{}
	Walk(Build(rows), func(n *Node[row], depth int) {
		depths[n.Item.id] = depth
	})

	assert.Equal(t, map[string]int{"a": 0, "b": 1, "c": 2}, depths)
}
