// Package commenttree holds the queue-based walks over a post's comment
// thread. Comments are stored flat (each document points at its post and,
// for replies, its parent comment); this package turns the flat list into
// the nested forest the API returns, and collects subtree membership for
// cascade deletes. The same walk also backs the client-side mirror in
// sync.go, so the traversal exists exactly once.
package commenttree

import (
	"go.mongodb.org/mongo-driver/bson/primitive"

	"snapgram/models"
)

// Build assembles the nested forest from a post's flat comment list,
// preserving input order among siblings. A comment whose parent is missing
// from the list is surfaced as a root rather than dropped.
func Build(comments []models.Comment) []*models.Comment {
	nodes := make(map[primitive.ObjectID]*models.Comment, len(comments))
	order := make([]*models.Comment, 0, len(comments))
	for i := range comments {
		c := comments[i]
		c.Comments = []*models.Comment{}
		nodes[c.ID] = &c
		order = append(order, &c)
	}

	roots := []*models.Comment{}
	for _, n := range order {
		if n.ParentID != nil {
			if parent, ok := nodes[*n.ParentID]; ok {
				parent.Comments = append(parent.Comments, n)
				continue
			}
		}
		roots = append(roots, n)
	}
	return roots
}

// SubtreeIDs returns the id of the comment rooted at root plus every
// descendant reachable through parent references in the flat list. Each
// node is visited exactly once; only membership matters, so visitation
// order is irrelevant.
func SubtreeIDs(comments []models.Comment, root primitive.ObjectID) []primitive.ObjectID {
	return walk(childIndex(comments), []primitive.ObjectID{root})
}

// ForestIDs returns the id of every comment in the flat list, walking each
// root's subtree in turn. Used by the hard post-delete cascade.
func ForestIDs(comments []models.Comment) []primitive.ObjectID {
	children := childIndex(comments)
	seeds := make([]primitive.ObjectID, 0, len(comments))
	for _, c := range comments {
		if c.ParentID == nil {
			seeds = append(seeds, c.ID)
		}
	}
	return walk(children, seeds)
}

func childIndex(comments []models.Comment) map[primitive.ObjectID][]primitive.ObjectID {
	children := make(map[primitive.ObjectID][]primitive.ObjectID, len(comments))
	for _, c := range comments {
		if c.ParentID != nil {
			children[*c.ParentID] = append(children[*c.ParentID], c.ID)
		}
	}
	return children
}

// walk pops one id at a time, records it, and pushes its direct children,
// until the work queue is empty.
func walk(children map[primitive.ObjectID][]primitive.ObjectID, seeds []primitive.ObjectID) []primitive.ObjectID {
	ids := make([]primitive.ObjectID, 0, len(seeds))
	queue := append([]primitive.ObjectID{}, seeds...)
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		ids = append(ids, id)
		queue = append(queue, children[id]...)
	}
	return ids
}
