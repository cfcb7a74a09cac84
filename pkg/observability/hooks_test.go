package observability

import (
	"context"
	"testing"
	"time"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	NoopGenerateHooks{}.OnGenerateStart(ctx, 2000, 0.004)
	NoopGenerateHooks{}.OnGenerateComplete(ctx, 2000, 17000, time.Second)

	NoopSearchHooks{}.OnSearchStart(ctx, "run", 0, 4)
	NoopSearchHooks{}.OnSearchDone(ctx, "run", 5, false, time.Millisecond)

	NoopPlaybackHooks{}.OnTick(3, 120)

	c := NoopCacheHooks{}
	c.OnCacheHit(ctx, "graph")
	c.OnCacheMiss(ctx, "graph")
	c.OnCacheSet(ctx, "graph", 1024)
}

func TestGlobalHooksRegistry(t *testing.T) {
	Reset()
	defer Reset()

	if _, ok := Generate().(NoopGenerateHooks); !ok {
		t.Error("Generate() should return NoopGenerateHooks by default")
	}
	if _, ok := Search().(NoopSearchHooks); !ok {
		t.Error("Search() should return NoopSearchHooks by default")
	}
	if _, ok := Playback().(NoopPlaybackHooks); !ok {
		t.Error("Playback() should return NoopPlaybackHooks by default")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Cache() should return NoopCacheHooks by default")
	}

	gen := &testGenerateHooks{}
	SetGenerateHooks(gen)
	if Generate() != gen {
		t.Error("SetGenerateHooks should set custom hooks")
	}

	search := &testSearchHooks{}
	SetSearchHooks(search)
	if Search() != search {
		t.Error("SetSearchHooks should set custom hooks")
	}

	playback := &testPlaybackHooks{}
	SetPlaybackHooks(playback)
	if Playback() != playback {
		t.Error("SetPlaybackHooks should set custom hooks")
	}

	cache := &testCacheHooks{}
	SetCacheHooks(cache)
	if Cache() != cache {
		t.Error("SetCacheHooks should set custom hooks")
	}

	Reset()
	if _, ok := Search().(NoopSearchHooks); !ok {
		t.Error("Reset() should restore NoopSearchHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()
	defer Reset()

	custom := &testSearchHooks{}
	SetSearchHooks(custom)
	SetSearchHooks(nil)

	if Search() != custom {
		t.Error("SetSearchHooks(nil) should be ignored")
	}
}

type testGenerateHooks struct{ NoopGenerateHooks }
type testSearchHooks struct{ NoopSearchHooks }
type testPlaybackHooks struct{ NoopPlaybackHooks }
type testCacheHooks struct{ NoopCacheHooks }
