package objectstore

import (
	"bytes"
	"testing"

	"github.com/go-git/go-git/v5/plumbing"
)

func hashOf(b byte) plumbing.Hash {
	var h plumbing.Hash
	h[0] = b
	return h
}

func TestBlobCachePutGet(t *testing.T) {
	c := NewBlobCache(4)

	if _, ok := c.Get(hashOf(1)); ok {
		t.Fatalf("Get on an empty cache should miss")
	}

	c.Put(hashOf(1), []byte("one"))
	got, ok := c.Get(hashOf(1))
	if !ok || !bytes.Equal(got, []byte("one")) {
		t.Fatalf("Get after Put = %q, %v", got, ok)
	}
	if !c.Has(hashOf(1)) {
		t.Fatalf("Has should report a cached id")
	}
}

func TestBlobCacheFIFOEviction(t *testing.T) {
	c := NewBlobCache(2)

	c.Put(hashOf(1), []byte("one"))
	c.Put(hashOf(2), []byte("two"))
	c.Put(hashOf(3), []byte("three")) // evicts 1, the oldest insertion

	if c.Has(hashOf(1)) {
		t.Fatalf("oldest entry should have been evicted")
	}
	if !c.Has(hashOf(2)) || !c.Has(hashOf(3)) {
		t.Fatalf("newer entries should survive eviction")
	}

	c.Put(hashOf(4), []byte("four")) // slot pointer has advanced, evicts 2

	if c.Has(hashOf(2)) {
		t.Fatalf("entry 2 should have been evicted next")
	}
	if !c.Has(hashOf(3)) || !c.Has(hashOf(4)) {
		t.Fatalf("entries 3 and 4 should be cached")
	}
}

func TestBlobCacheDuplicatePutKeepsSlot(t *testing.T) {
	c := NewBlobCache(2)

	c.Put(hashOf(1), []byte("one"))
	c.Put(hashOf(1), []byte("one again")) // no-op, id already cached
	c.Put(hashOf(2), []byte("two"))

	// Both still fit: the duplicate Put must not have consumed a slot.
	if !c.Has(hashOf(1)) || !c.Has(hashOf(2)) {
		t.Fatalf("duplicate Put should not evict anything")
	}
	got, _ := c.Get(hashOf(1))
	if !bytes.Equal(got, []byte("one")) {
		t.Fatalf("duplicate Put should keep the original bytes, got %q", got)
	}
}
