package cache

import (
	"encoding/gob"
	"reflect"
	"testing"
)

type serializeTestPayload struct {
	Name  string
	Count int
	Tags  []string
}

func init() {
	gob.Register(serializeTestPayload{})
}

func TestCodec_RoundTrip(t *testing.T) {
	c := newCodec()
	want := serializeTestPayload{Name: "widget", Count: 3, Tags: []string{"a", "b"}}

	data, err := c.encode(want)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	got, err := c.decode(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("decode() = %#v, want %#v", got, want)
	}
}

func TestCodec_RoundTrip_String(t *testing.T) {
	c := newCodec()
	data, err := c.encode("a large payload that crosses the serialize threshold")
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	got, err := c.decode(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got != "a large payload that crosses the serialize threshold" {
		t.Errorf("decode() = %v", got)
	}
}

func TestCodec_DecodeInvalidData(t *testing.T) {
	c := newCodec()
	if _, err := c.decode([]byte("not a valid zstd frame")); err == nil {
		t.Error("expected decode of garbage data to fail")
	}
}

// End-to-end scenario 5 (spec.md §8): a cache with a serialize threshold
// stores large values in compressed form, transparently, and charges their
// compressed-plus-overhead size rather than their estimated live size.
func TestCache_SerializesAboveThreshold(t *testing.T) {
	c, err := newCacheForTest(ModeLRU, 10_000, 100)
	if err != nil {
		t.Fatalf("newCacheForTest: %v", err)
	}

	big := serializeTestPayload{Name: "big", Count: 1, Tags: make([]string, 50)}
	for i := range big.Tags {
		big.Tags[i] = "tag-value-padding-to-cross-the-threshold"
	}

	if err := c.Put("big", big); err != nil {
		t.Fatalf("put: %v", err)
	}

	c.mu.Lock()
	e := c.entries["big"]
	c.mu.Unlock()
	if e == nil {
		t.Fatal("expected entry to exist")
	}
	if !e.serialized {
		t.Error("expected large value to be stored in serialized form")
	}

	got, err := c.Get("big")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !reflect.DeepEqual(got, big) {
		t.Errorf("Get() round-trip mismatch: got %#v want %#v", got, big)
	}

	ov := c.Overview()
	if ov["big"] != e.chargedBytes {
		t.Errorf("Overview()[big] = %d, want %d", ov["big"], e.chargedBytes)
	}
}

func TestCache_LeavesSmallValuesLive(t *testing.T) {
	c, err := newCacheForTest(ModeLRU, 10_000, 1_000_000)
	if err != nil {
		t.Fatalf("newCacheForTest: %v", err)
	}
	if err := c.Put("small", "tiny"); err != nil {
		t.Fatalf("put: %v", err)
	}

	c.mu.Lock()
	e := c.entries["small"]
	c.mu.Unlock()
	if e.serialized {
		t.Error("expected small value to remain live, not serialized")
	}
}
