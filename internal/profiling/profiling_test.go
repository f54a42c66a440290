package profiling

import (
	"strings"
	"testing"
	"time"
)

func TestCountersAndReset(t *testing.T) {
	ResetFrame()
	Count("batch.dropped", 2)
	Count("batch.dropped", 3)
	Count("texcache.miss", 1)
	if got := Counters()["batch.dropped"]; got != 5 {
		t.Fatalf("batch.dropped = %d, want 5", got)
	}
	if got, want := FormatCounters(), "batch.dropped=5 texcache.miss=1"; got != want {
		t.Fatalf("FormatCounters() = %q, want %q", got, want)
	}
	ResetFrame()
	if len(Counters()) != 0 || len(Snapshot()) != 0 {
		t.Fatal("ResetFrame left entries behind")
	}
}

func TestTrackAndTopN(t *testing.T) {
	ResetFrame()
	mu.Lock()
	frameTotals["renderer.Flush"] = 4200 * time.Microsecond
	frameTotals["renderer.Setup"] = 1000 * time.Microsecond
	frameTotals["texcache.Create"] = 2100 * time.Microsecond
	mu.Unlock()

	if got, want := TopN(2), "renderer.Flush:4.2ms, texcache.Create:2.1ms"; got != want {
		t.Fatalf("TopN(2) = %q, want %q", got, want)
	}
	if !strings.Contains(TopN(10), "renderer.Setup:1ms") {
		t.Fatalf("TopN(10) = %q, missing whole-millisecond entry", TopN(10))
	}
	if got := SumWithPrefix("renderer."); got != 5200*time.Microsecond {
		t.Fatalf("SumWithPrefix = %v", got)
	}

	stop := Track("x.y")
	stop()
	if _, ok := Snapshot()["x.y"]; !ok {
		t.Fatal("Track did not record")
	}
	ResetFrame()
}
