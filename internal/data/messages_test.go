package data_test

import (
	"context"
	"testing"

	"github.com/sendit-chat/server/internal/data"
)

func TestMessagesInsertAndHistory(t *testing.T) {
	c := setupDB(t)
	msgs := data.NewMessagesStore(c.MessagesCollection())
	ctx := context.Background()

	first, err := msgs.Insert(ctx, "alice", "bob", "hi")
	if err != nil {
		t.Fatalf("Insert failed: %v", err)
	}
	if first.ID.IsZero() || first.Timestamp.IsZero() {
		t.Fatalf("expected id and server timestamp on saved message: %+v", first)
	}

	if _, err := msgs.Insert(ctx, "bob", "alice", "hey"); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}
	if _, err := msgs.Insert(ctx, "carol", "dave", "unrelated"); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	// both participants see the conversation, a third party does not
	forAlice, err := msgs.HistoryFor(ctx, "alice")
	if err != nil {
		t.Fatalf("HistoryFor(alice) failed: %v", err)
	}
	if len(forAlice) != 2 {
		t.Fatalf("expected 2 messages for alice, got %d", len(forAlice))
	}

	forBob, err := msgs.HistoryFor(ctx, "bob")
	if err != nil || len(forBob) != 2 {
		t.Fatalf("expected 2 messages for bob, got %d (err=%v)", len(forBob), err)
	}

	forZed, err := msgs.HistoryFor(ctx, "zed")
	if err != nil || len(forZed) != 0 {
		t.Fatalf("expected no messages for zed, got %d (err=%v)", len(forZed), err)
	}

	// newest first, non-increasing timestamps
	for i := 1; i < len(forAlice); i++ {
		if forAlice[i].Timestamp.After(forAlice[i-1].Timestamp) {
			t.Fatalf("history not in newest-first order at index %d", i)
		}
	}

	// messaging a name that has never logged in is allowed
	if _, err := msgs.Insert(ctx, "alice", "never-logged-in", "hello?"); err != nil {
		t.Fatalf("Insert to unknown recipient failed: %v", err)
	}
}

func TestMessagesNoDedup(t *testing.T) {
	c := setupDB(t)
	msgs := data.NewMessagesStore(c.MessagesCollection())
	ctx := context.Background()

	// identical content is two records; only the storage-assigned id differs
	m1, err := msgs.Insert(ctx, "alice", "bob", "same")
	if err != nil {
		t.Fatalf("Insert failed: %v", err)
	}
	m2, err := msgs.Insert(ctx, "alice", "bob", "same")
	if err != nil {
		t.Fatalf("Insert failed: %v", err)
	}
	if m1.ID == m2.ID {
		t.Fatalf("expected distinct ids for duplicate-looking messages")
	}

	history, err := msgs.HistoryFor(ctx, "bob")
	if err != nil || len(history) != 2 {
		t.Fatalf("expected both duplicates in history, got %d (err=%v)", len(history), err)
	}
}
