package session

import (
	"testing"

	"github.com/pithecene-io/cue/log"
	"github.com/pithecene-io/cue/metrics"
	"github.com/pithecene-io/cue/types"
)

func newTestStore() *store {
	snap := types.NewSnapshot(types.SessionMeta{SessionID: "session-1", VideoID: "vid-1"})
	return newStore(snap, log.Nop(), nil)
}

func TestStore_CommitIncrementsVersion(t *testing.T) {
	s := newTestStore()

	next := s.Get()
	next.Video.CurrentTime = 5
	committed, accepted := s.Commit(next)
	if !accepted {
		t.Fatal("expected commit accepted")
	}
	if committed.Version != 1 {
		t.Errorf("version = %d, want 1", committed.Version)
	}

	next = s.Get()
	next.Video.CurrentTime = 10
	committed, _ = s.Commit(next)
	if committed.Version != 2 {
		t.Errorf("version = %d, want 2", committed.Version)
	}
}

func TestStore_CommitDedupesEqualSnapshots(t *testing.T) {
	collector := metrics.NewCollector("session-1", "vid-1")
	snap := types.NewSnapshot(types.SessionMeta{SessionID: "session-1", VideoID: "vid-1"})
	s := newStore(snap, log.Nop(), collector)

	next := s.Get()
	next.Video.CurrentTime = 5
	if _, accepted := s.Commit(next); !accepted {
		t.Fatal("first commit should be accepted")
	}

	// Same content, stale version field: structurally equal, suppressed.
	again := s.Get()
	again.Version = 0
	committed, accepted := s.Commit(again)
	if accepted {
		t.Error("structurally equal commit should be suppressed")
	}
	if committed.Version != 1 {
		t.Errorf("suppressed commit returned version %d, want stored 1", committed.Version)
	}

	ms := collector.Snapshot()
	if ms.CommitsAccepted != 1 || ms.CommitsDeduped != 1 {
		t.Errorf("accepted/deduped = %d/%d, want 1/1", ms.CommitsAccepted, ms.CommitsDeduped)
	}
}

func TestStore_SubscribersNotifiedInOrder(t *testing.T) {
	s := newTestStore()

	var versions []uint64
	unsub := s.Subscribe(func(snap types.Snapshot) {
		versions = append(versions, snap.Version)
	})
	defer unsub()

	for i := 1; i <= 3; i++ {
		next := s.Get()
		next.Video.CurrentTime = float64(i)
		s.Commit(next)
	}

	if len(versions) != 3 {
		t.Fatalf("got %d notifications, want 3", len(versions))
	}
	for i, v := range versions {
		if v != uint64(i+1) {
			t.Errorf("notification %d version = %d, want %d", i, v, i+1)
		}
	}
}

func TestStore_UnsubscribeStopsNotifications(t *testing.T) {
	s := newTestStore()

	calls := 0
	unsub := s.Subscribe(func(types.Snapshot) { calls++ })

	next := s.Get()
	next.Video.CurrentTime = 1
	s.Commit(next)

	unsub()

	next = s.Get()
	next.Video.CurrentTime = 2
	s.Commit(next)

	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestStore_SubscriberMayUnsubscribeDuringNotify(t *testing.T) {
	s := newTestStore()

	var unsub func()
	calls := 0
	unsub = s.Subscribe(func(types.Snapshot) {
		calls++
		unsub()
	})

	for i := 1; i <= 2; i++ {
		next := s.Get()
		next.Video.CurrentTime = float64(i)
		s.Commit(next)
	}

	if calls != 1 {
		t.Errorf("calls = %d, want 1 (unsubscribed inside callback)", calls)
	}
}

func TestStore_GetReturnsDeepCopy(t *testing.T) {
	s := newTestStore()

	next := s.Get()
	next.Messages = append(next.Messages, types.Message{ID: "m-1", Text: "hello"})
	s.Commit(next)

	got := s.Get()
	got.Messages[0].Text = "mutated"

	if s.Get().Messages[0].Text != "hello" {
		t.Error("mutating a Get() copy must not affect the stored snapshot")
	}
}
