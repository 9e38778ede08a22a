package sessions_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"

	"github.com/ZahraAsadiMSFT/hr-modernization/internal/pipeline"
	"github.com/ZahraAsadiMSFT/hr-modernization/internal/requests"
	"github.com/ZahraAsadiMSFT/hr-modernization/internal/sessions"
	"github.com/ZahraAsadiMSFT/hr-modernization/pkg/lifecycle"
)

func checkpoint(t *testing.T) pipeline.Checkpoint {
	t.Helper()

	req, err := requests.NewDocumentRequest(requests.KindPayslip, "Alex Martin", requests.PeriodScope{
		Start: requests.NewDate(2022, time.January, 1),
		End:   requests.NewDate(2022, time.January, 31),
	})
	if err != nil {
		t.Fatalf("NewDocumentRequest() error = %v", err)
	}
	candidates, err := requests.NewCandidateSet([]requests.Subject{
		{ID: "445566", DisplayName: "Alex Martin"},
		{ID: "102938", DisplayName: "Alex Martin"},
	})
	if err != nil {
		t.Fatalf("NewCandidateSet() error = %v", err)
	}

	return pipeline.Checkpoint{
		ID:         uuid.New(),
		State:      pipeline.StateAwaitingSelection,
		Text:       "Get paystub for Alex Martin from January 2022",
		Request:    req,
		Usage:      requests.TokenUsage{PromptTokens: 100, CompletionTokens: 20},
		Candidates: candidates,
		History:    []pipeline.State{pipeline.StateStart, pipeline.StateClassified, pipeline.StateAwaitingSelection},
		CreatedAt:  time.Date(2024, time.May, 1, 12, 0, 0, 0, time.UTC),
	}
}

func newRedis(t *testing.T) (*miniredis.Miniredis, *sessions.Redis) {
	t.Helper()

	mr := miniredis.RunT(t)
	cfg := &sessions.Config{Backend: sessions.BackendRedis, Addr: mr.Addr(), TTL: "10m"}
	if err := cfg.Finalize(nil); err != nil {
		t.Fatalf("Finalize() error = %v", err)
	}

	client := sessions.NewRedisClient(cfg)
	t.Cleanup(func() { client.Close() })

	return mr, sessions.NewRedis(client, cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestRedisSaveLoad(t *testing.T) {
	mr, store := newRedis(t)
	ctx := context.Background()
	cp := checkpoint(t)

	if err := store.Save(ctx, cp); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	key := "hrdocs:run:" + cp.ID.String()
	if !mr.Exists(key) {
		t.Fatalf("key %s not written", key)
	}
	if ttl := mr.TTL(key); ttl != 10*time.Minute {
		t.Errorf("ttl = %v, want 10m", ttl)
	}

	got, err := store.Load(ctx, cp.ID)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got.ID != cp.ID || got.State != pipeline.StateAwaitingSelection || got.Text != cp.Text {
		t.Errorf("loaded = %+v", got)
	}
	if got.Request.Kind() != requests.KindPayslip || got.Request.SubjectHint() != "Alex Martin" {
		t.Errorf("request = %+v", got.Request)
	}
	if period, ok := got.Request.Period(); !ok || period.End.String() != "2022-01-31" {
		t.Errorf("period = %+v", period)
	}
	if len(got.Candidates) != 2 || got.Candidates[0].ID != "102938" {
		t.Errorf("candidates = %+v", got.Candidates)
	}
	if got.Usage.Total() != 120 || len(got.History) != 3 || !got.CreatedAt.Equal(cp.CreatedAt) {
		t.Errorf("loaded = %+v", got)
	}
}

func TestRedisTakeIsOnce(t *testing.T) {
	_, store := newRedis(t)
	ctx := context.Background()
	cp := checkpoint(t)

	if err := store.Save(ctx, cp); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if _, err := store.Take(ctx, cp.ID); err != nil {
		t.Fatalf("first Take() error = %v", err)
	}
	if _, err := store.Take(ctx, cp.ID); !errors.Is(err, sessions.ErrNotFound) {
		t.Errorf("second Take() error = %v, want ErrNotFound", err)
	}
}

func TestRedisExpiryAndDelete(t *testing.T) {
	mr, store := newRedis(t)
	ctx := context.Background()

	expiring := checkpoint(t)
	if err := store.Save(ctx, expiring); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	mr.FastForward(11 * time.Minute)
	if _, err := store.Load(ctx, expiring.ID); !errors.Is(err, sessions.ErrNotFound) {
		t.Errorf("Load() after expiry error = %v, want ErrNotFound", err)
	}

	deleted := checkpoint(t)
	if err := store.Save(ctx, deleted); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if err := store.Delete(ctx, deleted.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := store.Load(ctx, deleted.ID); !errors.Is(err, sessions.ErrNotFound) {
		t.Errorf("Load() after delete error = %v, want ErrNotFound", err)
	}
	if err := store.Delete(ctx, deleted.ID); err != nil {
		t.Errorf("Delete() of missing key error = %v", err)
	}
}

func TestRedisCorruptValue(t *testing.T) {
	mr, store := newRedis(t)
	id := uuid.New()
	mr.Set("hrdocs:run:"+id.String(), "{not json")

	_, err := store.Load(context.Background(), id)
	if err == nil || errors.Is(err, sessions.ErrNotFound) {
		t.Errorf("Load() error = %v, want decode error", err)
	}
}

func TestRedisLifecycle(t *testing.T) {
	_, store := newRedis(t)
	lc := lifecycle.New()

	if err := store.Start(lc); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	lc.WaitForStartup()

	if !store.Ready() || !lc.Ready() {
		t.Error("store should be ready after a successful ping")
	}
	if err := lc.Shutdown(5 * time.Second); err != nil {
		t.Fatalf("Shutdown() error = %v", err)
	}
	if store.Ready() {
		t.Error("store should not be ready after shutdown")
	}
}
