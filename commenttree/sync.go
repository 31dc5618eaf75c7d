package commenttree

import (
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"snapgram/models"
)

// ErrNotFound is returned when no comment in the forest carries the
// requested id. The caller's forest is left untouched in that case.
var ErrNotFound = errors.New("commenttree: comment not found")

// The functions in this file mirror server mutations into an in-memory copy
// of a post's comment forest, so an API consumer can patch its local thread
// after createComment/editComment/deleteComment without re-fetching the
// post. Every operation works on a deep copy: the input forest is never
// mutated, and a locate miss returns it unchanged alongside ErrNotFound.

// Clone deep-copies a comment forest, including populated user documents.
func Clone(forest []*models.Comment) []*models.Comment {
	out := make([]*models.Comment, len(forest))
	for i, n := range forest {
		c := *n
		if n.User != nil {
			u := *n.User
			c.User = &u
		}
		c.Comments = Clone(n.Comments)
		out[i] = &c
	}
	return out
}

// Edit replaces the fields of the comment matching updated.ID with the
// server's returned representation, keeping the existing children (the
// server does not echo the subtree back).
func Edit(forest []*models.Comment, updated models.Comment) ([]*models.Comment, error) {
	next := Clone(forest)
	cur, ok := locate(&next, updated.ID)
	if !ok {
		return forest, ErrNotFound
	}
	kids := cur.node.Comments
	*cur.node = updated
	cur.node.Comments = kids
	return next, nil
}

// AddReply appends a newly created comment under its parent.
func AddReply(forest []*models.Comment, parentID primitive.ObjectID, reply models.Comment) ([]*models.Comment, error) {
	next := Clone(forest)
	cur, ok := locate(&next, parentID)
	if !ok {
		return forest, ErrNotFound
	}
	reply.Comments = []*models.Comment{}
	cur.node.Comments = append(cur.node.Comments, &reply)
	return next, nil
}

// Remove applies a comment deletion. When the server returned a tombstone
// (soft delete) the node is replaced in place so the thread keeps its
// shape; when it returned nothing (hard delete) the node and its subtree
// are spliced out of the parent's child list.
func Remove(forest []*models.Comment, id primitive.ObjectID, tombstone *models.Comment) ([]*models.Comment, error) {
	next := Clone(forest)
	cur, ok := locate(&next, id)
	if !ok {
		return forest, ErrNotFound
	}
	if tombstone != nil {
		kids := cur.node.Comments
		stone := *tombstone
		if tombstone.User != nil {
			u := *tombstone.User
			stone.User = &u
		}
		*cur.node = stone
		cur.node.Comments = kids
		return next, nil
	}
	siblings := *cur.siblings
	*cur.siblings = append(siblings[:cur.index], siblings[cur.index+1:]...)
	return next, nil
}

type position struct {
	node     *models.Comment
	siblings *[]*models.Comment
	index    int
}

// locate runs a breadth-first search across the whole forest, tracking the
// child slice each node lives in so Remove can splice without re-walking.
func locate(roots *[]*models.Comment, id primitive.ObjectID) (position, bool) {
	queue := make([]position, 0, len(*roots))
	for i, n := range *roots {
		queue = append(queue, position{n, roots, i})
	}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if cur.node.ID == id {
			return cur, true
		}
		for i, child := range cur.node.Comments {
			queue = append(queue, position{child, &cur.node.Comments, i})
		}
	}
	return position{}, false
}
