package hierarchy

import (
	"fmt"
	"sort"

	"github.com/openbookkeeper/ledger/internal/apperrors"
	"github.com/openbookkeeper/ledger/internal/core/domain"
)

// BuildForest assembles the account hierarchy view from a full account
// snapshot. Roots are accounts without a parent, or whose parent is missing
// from the snapshot. Children are sorted by account code for stable output.
func BuildForest(accounts []domain.Account) []*domain.AccountNode {
	nodes := make(map[string]*domain.AccountNode, len(accounts))
	for _, acc := range accounts {
		nodes[acc.AccountKey] = &domain.AccountNode{Account: acc}
	}

	var roots []*domain.AccountNode
	for _, acc := range accounts {
		node := nodes[acc.AccountKey]
		if acc.ParentAccountKey == "" {
			roots = append(roots, node)
			continue
		}
		parent, ok := nodes[acc.ParentAccountKey]
		if !ok {
			// Dangling parent reference: surface the account as a root
			// rather than dropping it from the view.
			roots = append(roots, node)
			continue
		}
		parent.Children = append(parent.Children, node)
	}

	byCode := func(ns []*domain.AccountNode) {
		sort.Slice(ns, func(i, j int) bool {
			return ns[i].Account.Code < ns[j].Account.Code
		})
	}
	byCode(roots)
	for _, n := range nodes {
		byCode(n.Children)
	}
	return roots
}

// Validate walks the parent chains of a full account snapshot and fails
// loudly on any cycle. Unlike the on-write ancestor guard, this diagnostic
// is never capped: it is meant for integrity checks over data that may have
// been corrupted by out-of-band writes.
func Validate(accounts []domain.Account) error {
	parents := make(map[string]string, len(accounts))
	for _, acc := range accounts {
		parents[acc.AccountKey] = acc.ParentAccountKey
	}

	const (
		unvisited = iota
		inProgress
		done
	)
	state := make(map[string]int, len(accounts))

	for _, acc := range accounts {
		if state[acc.AccountKey] != unvisited {
			continue
		}
		// Walk this account's ancestor chain, marking the path.
		var path []string
		key := acc.AccountKey
		for key != "" {
			if state[key] == done {
				break
			}
			if state[key] == inProgress {
				return fmt.Errorf("%w: account hierarchy contains a cycle through %q", apperrors.ErrValidation, key)
			}
			state[key] = inProgress
			path = append(path, key)
			parent, ok := parents[key]
			if !ok {
				break // dangling reference, not a cycle
			}
			key = parent
		}
		for _, k := range path {
			state[k] = done
		}
	}
	return nil
}
