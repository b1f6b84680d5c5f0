package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/matzehuels/pointmap/pkg/dataset"
	"github.com/matzehuels/pointmap/pkg/pointmap"
)

func TestNew(t *testing.T) {
	a, err := New(dataset.Builtin(), time.Minute)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	b, _ := New(dataset.Builtin(), time.Minute)

	if a.ID == "" || a.ID == b.ID {
		t.Errorf("IDs not unique: %q %q", a.ID, b.ID)
	}
	if a.IsExpired() {
		t.Error("new session is expired")
	}
	state, active := a.Snapshot()
	if state.Engaged || len(active) != 0 {
		t.Errorf("new session engaged: %+v %v", state, active)
	}
}

func TestSessionDo(t *testing.T) {
	sess, err := New(dataset.Builtin(), time.Minute)
	if err != nil {
		t.Fatal(err)
	}
	before := sess.ExpiresAt()
	time.Sleep(2 * time.Millisecond)

	err = sess.Do(func(m *pointmap.Map) error {
		_, err := m.Controller.Focus(4)
		return err
	})
	if err != nil {
		t.Fatal(err)
	}
	state, active := sess.Snapshot()
	if !state.Engaged || state.Active != 4 || len(active) != 1 || active[0] != 4 {
		t.Errorf("state = %+v, active = %v", state, active)
	}
	if !sess.ExpiresAt().After(before) {
		t.Error("Do did not extend the session")
	}
}

func TestSessionDoSerializes(t *testing.T) {
	sess, err := New(dataset.Builtin(), time.Minute)
	if err != nil {
		t.Fatal(err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			_ = sess.Do(func(m *pointmap.Map) error {
				_, err := m.Controller.PointerEnter(id, 0, 0)
				return err
			})
		}(i)
	}
	wg.Wait()

	if _, active := sess.Snapshot(); len(active) != 1 {
		t.Errorf("active markers = %v, want exactly one", active)
	}
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	sess, err := New(dataset.Builtin(), time.Minute)
	if err != nil {
		t.Fatal(err)
	}
	if err := store.Set(ctx, sess); err != nil {
		t.Fatal(err)
	}

	got, err := store.Get(ctx, sess.ID)
	if err != nil || got != sess {
		t.Errorf("Get() = %v, %v", got, err)
	}

	missing, err := store.Get(ctx, "nope")
	if missing != nil || err != nil {
		t.Errorf("Get(missing) = %v, %v", missing, err)
	}

	if err := store.Delete(ctx, sess.ID); err != nil {
		t.Fatal(err)
	}
	if got, _ := store.Get(ctx, sess.ID); got != nil {
		t.Error("session survived Delete")
	}
	if err := store.Delete(ctx, sess.ID); err != nil {
		t.Errorf("Delete(unknown) error: %v", err)
	}
}

func TestMemoryStoreExpiry(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	short, _ := New(dataset.Builtin(), time.Nanosecond)
	long, _ := New(dataset.Builtin(), time.Hour)
	store.Set(ctx, short)
	store.Set(ctx, long)
	time.Sleep(2 * time.Millisecond)

	if _, err := store.Get(ctx, short.ID); !errors.Is(err, ErrExpired) {
		t.Errorf("Get(expired) error = %v, want ErrExpired", err)
	}
	if store.Len() != 1 {
		t.Errorf("Len() = %d after expired Get, want 1", store.Len())
	}

	short2, _ := New(dataset.Builtin(), time.Nanosecond)
	store.Set(ctx, short2)
	time.Sleep(2 * time.Millisecond)
	if err := store.Cleanup(ctx); err != nil {
		t.Fatal(err)
	}
	if store.Len() != 1 {
		t.Errorf("Len() = %d after Cleanup, want 1", store.Len())
	}
}
