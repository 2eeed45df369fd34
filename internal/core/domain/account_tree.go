package domain

import (
	"iter"
)

// AccountNode is an account with its nested children, in input order.
type AccountNode struct {
	Account
	Children []AccountNode `json:"children,omitempty"`
}

const noParent = -1

// BuildTree arranges a flat account list into a forest.
//
// Accounts whose parent id is set but not present in the list become roots.
// Duplicate ids fail with ErrDuplicateAccount and parent cycles with
// ErrCyclicHierarchy. Roots and siblings keep their relative input order, and
// each node's Level is its depth starting at 1. The build never recurses, so
// its cost is bounded by the input size whatever the parent pointers say.
func BuildTree(accounts []Account) ([]AccountNode, error) {
	n := len(accounts)
	index := make(map[ID]int, n)
	for i, a := range accounts {
		if _, dup := index[a.AccountID]; dup {
			return nil, ErrDuplicateAccount.WithDetail("id %s", a.AccountID)
		}
		index[a.AccountID] = i
	}

	parent := make([]int, n)
	for i, a := range accounts {
		parent[i] = noParent
		if a.IsRoot() {
			continue
		}
		if p, ok := index[a.ParentAccountID]; ok {
			parent[i] = p
		}
	}

	if at, found := findCycle(parent); found {
		return nil, ErrCyclicHierarchy.WithDetail("at account %s", accounts[at].AccountID)
	}

	children := make([][]int, n)
	roots := make([]int, 0)
	for i := range accounts {
		if parent[i] == noParent {
			roots = append(roots, i)
			continue
		}
		children[parent[i]] = append(children[parent[i]], i)
	}

	// Pre-order with depths, then assemble values bottom-up so every child is
	// complete before it is copied into its parent.
	order := make([]int, 0, n)
	depth := make([]int, n)
	stack := make([]int, 0, n)
	for i := len(roots) - 1; i >= 0; i-- {
		stack = append(stack, roots[i])
	}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		order = append(order, cur)
		kids := children[cur]
		for j := len(kids) - 1; j >= 0; j-- {
			depth[kids[j]] = depth[cur] + 1
			stack = append(stack, kids[j])
		}
	}

	built := make([]AccountNode, n)
	for k := len(order) - 1; k >= 0; k-- {
		idx := order[k]
		node := AccountNode{Account: accounts[idx]}
		node.Level = depth[idx] + 1
		if kids := children[idx]; len(kids) > 0 {
			node.Children = make([]AccountNode, len(kids))
			for j, c := range kids {
				node.Children[j] = built[c]
			}
		}
		built[idx] = node
	}

	tree := make([]AccountNode, len(roots))
	for i, r := range roots {
		tree[i] = built[r]
	}
	return tree, nil
}

// findCycle walks every parent chain once. It returns an index on a cycle.
func findCycle(parent []int) (int, bool) {
	const (
		unvisited = iota
		onPath
		done
	)
	state := make([]uint8, len(parent))
	path := make([]int, 0)
	for start := range parent {
		path = path[:0]
		cur := start
		for cur != noParent && state[cur] == unvisited {
			state[cur] = onPath
			path = append(path, cur)
			cur = parent[cur]
		}
		if cur != noParent && state[cur] == onPath {
			return cur, true
		}
		for _, p := range path {
			state[p] = done
		}
	}
	return 0, false
}

// Flatten yields every account of the forest in pre-order, parents before
// children, summary accounts included. The sequence is lazy and may be
// iterated any number of times. A node reached twice is skipped.
func Flatten(tree []AccountNode) iter.Seq[Account] {
	return func(yield func(Account) bool) {
		visited := make(map[*AccountNode]struct{})
		stack := make([]*AccountNode, 0, len(tree))
		for i := len(tree) - 1; i >= 0; i-- {
			stack = append(stack, &tree[i])
		}
		for len(stack) > 0 {
			node := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if _, seen := visited[node]; seen {
				continue
			}
			visited[node] = struct{}{}
			if !yield(node.Account) {
				return
			}
			for i := len(node.Children) - 1; i >= 0; i-- {
				stack = append(stack, &node.Children[i])
			}
		}
	}
}

// SelectableOnly keeps the accounts journal lines may reference.
func SelectableOnly(seq iter.Seq[Account]) iter.Seq[Account] {
	return filterAccounts(seq, func(a Account) bool { return a.IsSelectable })
}

// SummaryOnly keeps non-selectable accounts, the candidates for a parent picker.
func SummaryOnly(seq iter.Seq[Account]) iter.Seq[Account] {
	return filterAccounts(seq, func(a Account) bool { return !a.IsSelectable })
}

func filterAccounts(seq iter.Seq[Account], keep func(Account) bool) iter.Seq[Account] {
	return func(yield func(Account) bool) {
		for a := range seq {
			if keep(a) && !yield(a) {
				return
			}
		}
	}
}

// DanglingParents lists the ids of accounts whose parent id is set but does
// not resolve to any account in the list.
func DanglingParents(accounts []Account) []ID {
	known := make(map[ID]struct{}, len(accounts))
	for _, a := range accounts {
		known[a.AccountID] = struct{}{}
	}
	var dangling []ID
	for _, a := range accounts {
		if a.IsRoot() {
			continue
		}
		if _, ok := known[a.ParentAccountID]; !ok {
			dangling = append(dangling, a.AccountID)
		}
	}
	return dangling
}

// HasChildren reports whether any account names id as its parent.
func HasChildren(accounts []Account, id ID) bool {
	for _, a := range accounts {
		if !a.IsRoot() && a.ParentAccountID == id {
			return true
		}
	}
	return false
}

// AccountIndex answers whether a journal line may reference an account.
type AccountIndex interface {
	IsSelectable(id ID) bool
}

// AccountCatalog is an AccountIndex over an in-memory account list.
type AccountCatalog map[ID]Account

// NewAccountCatalog indexes accounts by id; later duplicates win.
func NewAccountCatalog(accounts []Account) AccountCatalog {
	c := make(AccountCatalog, len(accounts))
	for _, a := range accounts {
		c[a.AccountID] = a
	}
	return c
}

// IsSelectable reports false for unknown ids.
func (c AccountCatalog) IsSelectable(id ID) bool {
	a, ok := c[id]
	return ok && a.IsSelectable
}

// Get looks an account up by id.
func (c AccountCatalog) Get(id ID) (Account, bool) {
	a, ok := c[id]
	return a, ok
}
