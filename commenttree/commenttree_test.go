package commenttree

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"snapgram/models"
)

func oid(t *testing.T) primitive.ObjectID {
	t.Helper()
	return primitive.NewObjectID()
}

// fixture builds the five-comment thread used across these tests:
//
//	root
//	└── a
//	    ├── b
//	    │   └── d
//	    └── c
//
// Returned ids: root, a, b, c, d.
func fixture(t *testing.T) ([]models.Comment, []primitive.ObjectID) {
	t.Helper()
	postID := oid(t)
	userID := oid(t)
	root, a, b, c, d := oid(t), oid(t), oid(t), oid(t), oid(t)

	mk := func(id primitive.ObjectID, parent *primitive.ObjectID, text string) models.Comment {
		return models.Comment{ID: id, PostID: postID, UserID: userID, ParentID: parent, Text: text}
	}
	comments := []models.Comment{
		mk(root, nil, "root"),
		mk(a, &root, "a"),
		mk(b, &a, "b"),
		mk(c, &a, "c"),
		mk(d, &b, "d"),
	}
	return comments, []primitive.ObjectID{root, a, b, c, d}
}

func TestBuildNestsReplies(t *testing.T) {
	comments, ids := fixture(t)
	forest := Build(comments)

	if len(forest) != 1 {
		t.Fatalf("expected 1 root, got %d", len(forest))
	}
	root := forest[0]
	if root.ID != ids[0] {
		t.Errorf("wrong root: %s", root.ID.Hex())
	}
	if len(root.Comments) != 1 || root.Comments[0].ID != ids[1] {
		t.Fatalf("expected a as root's only child")
	}
	a := root.Comments[0]
	if len(a.Comments) != 2 {
		t.Fatalf("expected 2 children under a, got %d", len(a.Comments))
	}
	if a.Comments[0].ID != ids[2] || a.Comments[1].ID != ids[3] {
		t.Errorf("sibling order not preserved")
	}
	if len(a.Comments[0].Comments) != 1 || a.Comments[0].Comments[0].ID != ids[4] {
		t.Errorf("expected d under b")
	}
}

func TestBuildSurfacesOrphans(t *testing.T) {
	missing := primitive.NewObjectID()
	orphan := models.Comment{ID: primitive.NewObjectID(), ParentID: &missing, Text: "orphan"}
	forest := Build([]models.Comment{orphan})
	if len(forest) != 1 || forest[0].ID != orphan.ID {
		t.Fatalf("orphan should surface as a root")
	}
}

func TestSubtreeIDsCollectsExactlyTheSubtree(t *testing.T) {
	comments, ids := fixture(t)
	root, a := ids[0], ids[1]

	got := SubtreeIDs(comments, a)
	if len(got) != 4 {
		t.Fatalf("expected 4 ids (a, b, c, d), got %d", len(got))
	}
	want := map[primitive.ObjectID]bool{ids[1]: true, ids[2]: true, ids[3]: true, ids[4]: true}
	seen := map[primitive.ObjectID]bool{}
	for _, id := range got {
		if !want[id] {
			t.Errorf("unexpected id in subtree: %s", id.Hex())
		}
		if seen[id] {
			t.Errorf("id visited twice: %s", id.Hex())
		}
		seen[id] = true
	}
	if seen[root] {
		t.Errorf("root must not be part of a's subtree")
	}
}

func TestSubtreeIDsLeaf(t *testing.T) {
	comments, ids := fixture(t)
	got := SubtreeIDs(comments, ids[4])
	if len(got) != 1 || got[0] != ids[4] {
		t.Fatalf("leaf subtree should be just the leaf, got %v", got)
	}
}

func TestForestIDsCoversEveryCommentOnce(t *testing.T) {
	comments, ids := fixture(t)

	// A second root with one reply, same post.
	r2 := primitive.NewObjectID()
	r2child := primitive.NewObjectID()
	comments = append(comments,
		models.Comment{ID: r2, PostID: comments[0].PostID, Text: "r2"},
		models.Comment{ID: r2child, PostID: comments[0].PostID, ParentID: &r2, Text: "r2child"},
	)

	got := ForestIDs(comments)
	if len(got) != 7 {
		t.Fatalf("expected all 7 ids, got %d", len(got))
	}
	seen := map[primitive.ObjectID]bool{}
	for _, id := range got {
		if seen[id] {
			t.Errorf("id visited twice: %s", id.Hex())
		}
		seen[id] = true
	}
	for _, id := range append(ids, r2, r2child) {
		if !seen[id] {
			t.Errorf("id missing from forest walk: %s", id.Hex())
		}
	}
}

func TestForestIDsEmpty(t *testing.T) {
	if got := ForestIDs(nil); len(got) != 0 {
		t.Fatalf("expected no ids for empty list, got %v", got)
	}
}

func TestSubtreeIDsDeepChain(t *testing.T) {
	// A straight chain of 50 comments; membership must not depend on depth.
	postID := primitive.NewObjectID()
	comments := make([]models.Comment, 50)
	var parent *primitive.ObjectID
	for i := range comments {
		id := primitive.NewObjectID()
		comments[i] = models.Comment{ID: id, PostID: postID, ParentID: parent}
		p := id
		parent = &p
	}
	got := SubtreeIDs(comments, comments[10].ID)
	if len(got) != 40 {
		t.Fatalf("expected 40 ids from depth 10 of a 50-chain, got %d", len(got))
	}
}
