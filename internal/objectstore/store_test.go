package objectstore

import (
	"bytes"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/go-git/go-git/v5/plumbing"
)

func openTestSession(t *testing.T, cacheSize int) *Session {
	t.Helper()
	dir, err := os.MkdirTemp("", "gitflix-store-test")
	if err != nil {
		t.Fatalf("MkdirTemp: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(dir) })

	session, err := Open(dir, cacheSize)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { session.Close() })
	return session
}

func writeTestChain(t *testing.T, session *Session, n int) []plumbing.Hash {
	t.Helper()
	var parent *plumbing.Hash
	var ids []plumbing.Hash
	for i := 0; i < n; i++ {
		payload := []byte(fmt.Sprintf("frame payload %d", i))
		id, err := session.WriteFrame(payload, parent, uint32(i), "raw")
		if err != nil {
			t.Fatalf("WriteFrame %d: %v", i, err)
		}
		ids = append(ids, id)
		parent = &id
	}
	return ids
}

func TestWriteFrameAdvancesTip(t *testing.T) {
	session := openTestSession(t, 4)

	if _, ok := session.Tip(); ok {
		t.Fatalf("fresh repository should have no tip")
	}

	ids := writeTestChain(t, session, 3)

	tip, ok := session.Tip()
	if !ok {
		t.Fatalf("Tip after writes should exist")
	}
	if tip != ids[2] {
		t.Fatalf("Tip = %v, want last written commit %v", tip, ids[2])
	}
}

func TestWalkChainReturnsOldestFirst(t *testing.T) {
	session := openTestSession(t, 4)
	ids := writeTestChain(t, session, 10)

	walked, err := session.WalkChain()
	if err != nil {
		t.Fatalf("WalkChain: %v", err)
	}
	if len(walked) != len(ids) {
		t.Fatalf("WalkChain returned %d ids, want %d", len(walked), len(ids))
	}
	for i := range ids {
		if walked[i] != ids[i] {
			t.Fatalf("chain position %d: got %v, want %v", i, walked[i], ids[i])
		}
	}
}

func TestGetBlobRoundTripAndCache(t *testing.T) {
	session := openTestSession(t, 4)
	ids := writeTestChain(t, session, 2)

	got, err := session.GetBlob(ids[1])
	if err != nil {
		t.Fatalf("GetBlob: %v", err)
	}
	if !bytes.Equal(got, []byte("frame payload 1")) {
		t.Fatalf("GetBlob returned %q", got)
	}

	if !session.Cache().Has(ids[1]) {
		t.Fatalf("GetBlob should populate the cache on a miss")
	}

	again, err := session.GetBlob(ids[1])
	if err != nil {
		t.Fatalf("cached GetBlob: %v", err)
	}
	if !bytes.Equal(again, got) {
		t.Fatalf("cached read differs from store read")
	}
}

func TestGetBlobUnknownCommit(t *testing.T) {
	session := openTestSession(t, 4)
	writeTestChain(t, session, 1)

	var bogus plumbing.Hash
	bogus[0] = 0xFF

	_, err := session.GetBlob(bogus)
	if _, ok := err.(*StoreError); !ok {
		t.Fatalf("want *StoreError for an unknown commit, got %v", err)
	}
}

func TestReopenSessionSeesExistingChain(t *testing.T) {
	dir, err := os.MkdirTemp("", "gitflix-store-reopen-test")
	if err != nil {
		t.Fatalf("MkdirTemp: %v", err)
	}
	defer os.RemoveAll(dir)

	session, err := Open(dir, 4)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	ids := writeTestChain(t, session, 3)
	session.Close()

	reopened, err := Open(dir, 4)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()

	walked, err := reopened.WalkChain()
	if err != nil {
		t.Fatalf("WalkChain after reopen: %v", err)
	}
	if len(walked) != 3 || walked[2] != ids[2] {
		t.Fatalf("reopened chain = %v, want %v", walked, ids)
	}
}

func TestPrefetcherWarmsCache(t *testing.T) {
	session := openTestSession(t, 8)
	ids := writeTestChain(t, session, 5)

	p := NewPrefetcher(session, ids)
	p.Start()

	allWarm := func() bool {
		for _, id := range ids {
			if !session.Cache().Has(id) {
				return false
			}
		}
		return true
	}
	deadline := time.Now().Add(5 * time.Second)
	for !allWarm() {
		if time.Now().After(deadline) {
			t.Fatalf("prefetcher did not warm the cache in time")
		}
		time.Sleep(time.Millisecond)
	}

	p.Stop() // Stop blocks until the prefetch loop has exited
	p.Stop() // and is safe to repeat
}
