package commenttree

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"snapgram/models"
)

// syncFixture returns a built forest with the same shape as fixture():
// root -> a -> (b -> d, c).
func syncFixture(t *testing.T) ([]*models.Comment, []primitive.ObjectID) {
	t.Helper()
	comments, ids := fixture(t)
	return Build(comments), ids
}

func find(t *testing.T, forest []*models.Comment, id primitive.ObjectID) *models.Comment {
	t.Helper()
	pos, ok := locate(&forest, id)
	if !ok {
		t.Fatalf("comment %s not found", id.Hex())
	}
	return pos.node
}

func TestCloneIsDeep(t *testing.T) {
	forest, ids := syncFixture(t)
	copied := Clone(forest)

	find(t, copied, ids[1]).Text = "mutated"
	if find(t, forest, ids[1]).Text != "a" {
		t.Errorf("mutating the clone leaked into the original")
	}

	copied[0].Comments = nil
	if len(forest[0].Comments) != 1 {
		t.Errorf("clone shares child slices with the original")
	}
}

func TestEditReplacesFieldsKeepsChildren(t *testing.T) {
	forest, ids := syncFixture(t)

	updated := *find(t, forest, ids[1])
	updated.Text = "edited"
	updated.Comments = nil // the server does not echo the subtree

	next, err := Edit(forest, updated)
	if err != nil {
		t.Fatalf("Edit: %v", err)
	}

	node := find(t, next, ids[1])
	if node.Text != "edited" {
		t.Errorf("text not replaced: %q", node.Text)
	}
	if len(node.Comments) != 2 {
		t.Errorf("children lost on edit: %d", len(node.Comments))
	}
	if find(t, forest, ids[1]).Text != "a" {
		t.Errorf("input forest mutated")
	}
}

func TestAddReplyAppendsAtDepth(t *testing.T) {
	forest, ids := syncFixture(t)

	reply := models.Comment{ID: primitive.NewObjectID(), Text: "reply to d"}
	next, err := AddReply(forest, ids[4], reply)
	if err != nil {
		t.Fatalf("AddReply: %v", err)
	}

	d := find(t, next, ids[4])
	if len(d.Comments) != 1 || d.Comments[0].ID != reply.ID {
		t.Fatalf("reply not appended under d")
	}
	if len(find(t, forest, ids[4]).Comments) != 0 {
		t.Errorf("input forest mutated")
	}
}

func TestRemoveSplicesSubtree(t *testing.T) {
	forest, ids := syncFixture(t)

	next, err := Remove(forest, ids[2], nil) // remove b (and d with it)
	if err != nil {
		t.Fatalf("Remove: %v", err)
	}

	a := find(t, next, ids[1])
	if len(a.Comments) != 1 || a.Comments[0].ID != ids[3] {
		t.Fatalf("expected only c left under a")
	}
	if _, ok := locate(&next, ids[4]); ok {
		t.Errorf("d should have gone with b's subtree")
	}
	if len(find(t, forest, ids[1]).Comments) != 2 {
		t.Errorf("input forest mutated")
	}
}

func TestRemoveRootSplicesFromForest(t *testing.T) {
	forest, ids := syncFixture(t)

	next, err := Remove(forest, ids[0], nil)
	if err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if len(next) != 0 {
		t.Fatalf("expected empty forest, got %d roots", len(next))
	}
	if len(forest) != 1 {
		t.Errorf("input forest mutated")
	}
}

func TestRemoveWithTombstoneReplacesInPlace(t *testing.T) {
	forest, ids := syncFixture(t)

	now := int64(1700000000)
	tombstone := *find(t, forest, ids[1])
	tombstone.DeletedAt = &now
	tombstone.Comments = nil

	next, err := Remove(forest, ids[1], &tombstone)
	if err != nil {
		t.Fatalf("Remove: %v", err)
	}

	a := find(t, next, ids[1])
	if a.DeletedAt == nil {
		t.Errorf("tombstone not applied")
	}
	if len(a.Comments) != 2 {
		t.Errorf("tombstone replacement dropped the children")
	}
}

func TestRemoveTombstoneDoesNotShareUser(t *testing.T) {
	forest, ids := syncFixture(t)

	now := int64(1700000000)
	author := models.User{ID: primitive.NewObjectID(), UserName: "author"}
	tombstone := *find(t, forest, ids[1])
	tombstone.DeletedAt = &now
	tombstone.User = &author
	tombstone.Comments = nil

	next, err := Remove(forest, ids[1], &tombstone)
	if err != nil {
		t.Fatalf("Remove: %v", err)
	}

	author.UserName = "mutated"
	node := find(t, next, ids[1])
	if node.User == nil || node.User.UserName != "author" {
		t.Errorf("tombstone user shared with the caller: %+v", node.User)
	}
}

func TestMissingIDLeavesForestUntouched(t *testing.T) {
	forest, _ := syncFixture(t)
	stranger := primitive.NewObjectID()

	next, err := Remove(forest, stranger, nil)
	if err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if len(next) != len(forest) || next[0] != forest[0] {
		t.Errorf("miss should return the original forest as-is")
	}

	if _, err := AddReply(forest, stranger, models.Comment{}); err != ErrNotFound {
		t.Errorf("AddReply miss: expected ErrNotFound, got %v", err)
	}
	if _, err := Edit(forest, models.Comment{ID: stranger}); err != ErrNotFound {
		t.Errorf("Edit miss: expected ErrNotFound, got %v", err)
	}
}
