package session

import (
	"context"
	"encoding/json"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"go.uber.org/goleak"

	"github.com/adityaaditya98/news-article-ai-backend/internal/log"
	"github.com/adityaaditya98/news-article-ai-backend/internal/store"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newTestStore(t *testing.T) (*Store, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	kv := store.New(store.Config{Addr: mr.Addr()}, log.NewNop())
	t.Cleanup(func() { _ = kv.Close() })
	return New(kv, 0, log.NewNop()), mr
}

func TestCreateThenGetReturnsEmptyHistory(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	id, err := s.Create(ctx, "", 0)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if id == "" {
		t.Fatal("Create returned empty ID")
	}

	history, err := s.Get(ctx, id)
	if err != nil {
		t.Fatalf("Get after Create: %v", err)
	}
	if history == nil {
		t.Fatal("history is nil, want empty sequence")
	}
	if len(history) != 0 {
		t.Errorf("len(history) = %d, want 0", len(history))
	}
}

func TestCreateWithCallerSuppliedID(t *testing.T) {
	s, _ := newTestStore(t)

	id, err := s.Create(context.Background(), "my-session-1", 0)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if id != "my-session-1" {
		t.Errorf("Create returned %q, want caller-supplied ID", id)
	}
}

func TestGetNonexistentSession(t *testing.T) {
	s, _ := newTestStore(t)

	_, err := s.Get(context.Background(), "never-created")
	if !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Get: err = %v, want ErrSessionNotFound", err)
	}
}

func TestAppendsReflectedInOrder(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	id, err := s.Create(ctx, "", 0)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	turns := []Turn{
		NewTurn("first?", "one"),
		NewTurn("second?", "two"),
		NewTurn("third?", "three"),
	}
	for _, turn := range turns {
		if _, err := s.Append(ctx, id, turn, 0); err != nil {
			t.Fatalf("Append: %v", err)
		}
	}

	history, err := s.Get(ctx, id)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if len(history) != len(turns) {
		t.Fatalf("len(history) = %d, want %d", len(history), len(turns))
	}
	for i, want := range turns {
		if history[i].Query != want.Query || history[i].Answer != want.Answer {
			t.Errorf("history[%d] = %+v, want %+v", i, history[i], want)
		}
	}
}

func TestAppendAutoCreatesSession(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	history, err := s.Append(ctx, "fresh-id-123", NewTurn("hi", "hello"), 0)
	if err != nil {
		t.Fatalf("Append to nonexistent session: %v", err)
	}
	if len(history) != 1 {
		t.Fatalf("len(history) = %d, want 1", len(history))
	}
	if history[0].Query != "hi" || history[0].Answer != "hello" {
		t.Errorf("history[0] = %+v", history[0])
	}

	got, err := s.Get(ctx, "fresh-id-123")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if len(got) != 1 {
		t.Errorf("persisted len = %d, want 1", len(got))
	}
}

func TestSaveOverwrites(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	id, _ := s.Create(ctx, "", 0)
	if _, err := s.Append(ctx, id, NewTurn("a", "b"), 0); err != nil {
		t.Fatalf("Append: %v", err)
	}

	replacement := []Turn{NewTurn("x", "y")}
	if _, err := s.Save(ctx, id, replacement, 0); err != nil {
		t.Fatalf("Save: %v", err)
	}

	history, err := s.Get(ctx, id)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if len(history) != 1 || history[0].Query != "x" {
		t.Errorf("history = %+v, want the replacement sequence", history)
	}
}

func TestClearYieldsEmptyRegardlessOfPriorContent(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	id, _ := s.Create(ctx, "", 0)
	for i := 0; i < 3; i++ {
		if _, err := s.Append(ctx, id, NewTurn("q", "a"), 0); err != nil {
			t.Fatalf("Append: %v", err)
		}
	}

	cleared, err := s.Clear(ctx, id, 0)
	if err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if len(cleared) != 0 {
		t.Errorf("Clear returned %d turns, want 0", len(cleared))
	}

	history, err := s.Get(ctx, id)
	if err != nil {
		t.Fatalf("Get after Clear: %v (ID must remain valid)", err)
	}
	if len(history) != 0 {
		t.Errorf("len(history) = %d, want 0", len(history))
	}
}

func TestCorruptSessionData(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"not json", "{oops"},
		{"json object", `{"query":"q"}`},
		{"json null", "null"},
		{"bare string", `"hello"`},
		{"array of wrong element type", `[42]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, mr := newTestStore(t)
			if err := mr.Set("bad-session", tt.raw); err != nil {
				t.Fatalf("seed store: %v", err)
			}

			_, err := s.Get(context.Background(), "bad-session")
			if !errors.Is(err, ErrCorruptSession) {
				t.Errorf("Get(%q): err = %v, want ErrCorruptSession", tt.raw, err)
			}
		})
	}
}

func TestSessionExpiresAfterTTL(t *testing.T) {
	s, mr := newTestStore(t)
	ctx := context.Background()

	id, err := s.Create(ctx, "", time.Second)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	mr.FastForward(2 * time.Second)

	_, err = s.Get(ctx, id)
	if !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Get expired session: err = %v, want ErrSessionNotFound", err)
	}
}

func TestMutationRefreshesTTL(t *testing.T) {
	s, mr := newTestStore(t)
	ctx := context.Background()

	id, err := s.Create(ctx, "", 2*time.Second)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	mr.FastForward(time.Second)
	if _, err := s.Append(ctx, id, NewTurn("q", "a"), 2*time.Second); err != nil {
		t.Fatalf("Append: %v", err)
	}

	// Past the original deadline but within the refreshed one.
	mr.FastForward(1500 * time.Millisecond)

	history, err := s.Get(ctx, id)
	if err != nil {
		t.Fatalf("Get: %v (append should have refreshed the TTL)", err)
	}
	if len(history) != 1 {
		t.Errorf("len(history) = %d, want 1", len(history))
	}
}

func TestTurnExtraFieldsRoundTrip(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	var turn Turn
	raw := `{"query":"q","answer":"a","source":"rss","score":0.93}`
	if err := json.Unmarshal([]byte(raw), &turn); err != nil {
		t.Fatalf("unmarshal turn: %v", err)
	}

	id, _ := s.Create(ctx, "", 0)
	if _, err := s.Append(ctx, id, turn, 0); err != nil {
		t.Fatalf("Append: %v", err)
	}

	history, err := s.Get(ctx, id)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}

	out, err := json.Marshal(history[0])
	if err != nil {
		t.Fatalf("marshal turn: %v", err)
	}
	var got map[string]any
	if err := json.Unmarshal(out, &got); err != nil {
		t.Fatalf("re-unmarshal: %v", err)
	}
	want := map[string]any{"query": "q", "answer": "a", "source": "rss", "score": 0.93}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("round-tripped turn = %v, want %v", got, want)
	}
}

func TestFilterSessionIDs(t *testing.T) {
	keys := []string{
		"embed:deadbeef",
		"retrieve:cafe:5",
		"abc", // too short
		"ab1", // too short
		"health:probe",
		"session-1",
		"0f2c6e44-8f4f-4a3f-9a43-000000000000",
		"12345",
	}

	got := FilterSessionIDs(keys)
	want := []string{"session-1", "0f2c6e44-8f4f-4a3f-9a43-000000000000", "12345"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("FilterSessionIDs = %v, want %v", got, want)
	}
}
