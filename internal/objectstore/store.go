// Package objectstore adapts a git object store (github.com/go-git/go-git)
// into the content-addressable frame-blob repository GitFlix stores
// video in: one commit per frame, one blob ("frame.bin") per commit,
// a bounded FIFO BlobCache, and a background look-ahead Prefetcher.
//
// go-git's plumbing layer is used directly (encoded-object
// construction, Tree/Commit encode, Storer.SetEncodedObject/
// SetReference) rather than its Worktree porcelain: GitFlix never
// needs a checked-out working tree, only the object graph and a
// branch ref.
package objectstore

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/filemode"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// FrameBlobName is the single tree entry name every commit carries.
const FrameBlobName = "frame.bin"

var branchRef = plumbing.NewBranchReferenceName("main")

// Session is a single open repository plus its shared cache and the
// mutex that serializes access to the underlying, non-reentrant store.
// A Session owns every resource scoped to one open repository, so
// nothing lives in package globals.
type Session struct {
	repo *git.Repository
	path string

	mu    sync.Mutex // serializes all object-store operations
	cache *BlobCache

	tip *plumbing.Hash // current chain tip, nil before the first commit
}

// Open creates (if absent) or opens a bare git repository at path and
// wraps it in a Session with a BlobCache of the given capacity.
func Open(path string, cacheSize int) (*Session, error) {
	repo, err := git.PlainOpen(path)
	if err == git.ErrRepositoryNotExists {
		repo, err = git.PlainInit(path, true)
	}
	if err != nil {
		return nil, &StoreError{Reason: "open repository", Err: err}
	}

	s := &Session{repo: repo, path: path, cache: NewBlobCache(cacheSize)}

	if ref, err := repo.Reference(branchRef, true); err == nil {
		hash := ref.Hash()
		s.tip = &hash
	} else if err != plumbing.ErrReferenceNotFound {
		return nil, &StoreError{Reason: "read branch reference", Err: err}
	}

	return s, nil
}

// Close releases the session's resources. The underlying git.Repository
// has no explicit close; this exists for Open/Close symmetry and as a
// place for future resource teardown.
func (s *Session) Close() error { return nil }

// Cache exposes the session's BlobCache so a Prefetcher can share it.
func (s *Session) Cache() *BlobCache { return s.cache }

// Path returns the repository path this session was opened on.
func (s *Session) Path() string { return s.path }

// Tip returns the current chain tip commit id, or ok=false if the
// repository has no commits yet.
func (s *Session) Tip() (plumbing.Hash, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.tip == nil {
		return plumbing.ZeroHash, false
	}
	return *s.tip, true
}

// WalkChain returns the ordered commit ids from root to tip (oldest
// first): an ancestry walk from the tip to the root, then reversed.
func (s *Session) WalkChain() ([]plumbing.Hash, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.tip == nil {
		return nil, nil
	}

	var ids []plumbing.Hash
	hash := *s.tip
	for {
		ids = append(ids, hash)
		commit, err := s.repo.CommitObject(hash)
		if err != nil {
			return nil, &StoreError{CommitID: hash.String(), Reason: "load commit while walking chain", Err: err}
		}
		if len(commit.ParentHashes) == 0 {
			break
		}
		hash = commit.ParentHashes[0]
	}

	for i, j := 0, len(ids)-1; i < j; i, j = i+1, j-1 {
		ids[i], ids[j] = ids[j], ids[i]
	}
	return ids, nil
}

// GetBlob returns the frame.bin bytes for the given commit, consulting
// the BlobCache first and populating it on a miss.
func (s *Session) GetBlob(id plumbing.Hash) ([]byte, error) {
	if cached, ok := s.cache.Get(id); ok {
		return cached, nil
	}

	s.mu.Lock()
	data, err := s.loadBlobLocked(id)
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}

	s.cache.Put(id, data)
	return data, nil
}

func (s *Session) loadBlobLocked(id plumbing.Hash) ([]byte, error) {
	commit, err := s.repo.CommitObject(id)
	if err != nil {
		return nil, &StoreError{CommitID: id.String(), Reason: "commit not found", Err: err}
	}

	tree, err := commit.Tree()
	if err != nil {
		return nil, &StoreError{CommitID: id.String(), Reason: "tree not found", Err: err}
	}

	entry, err := tree.File(FrameBlobName)
	if err != nil {
		return nil, &StoreError{CommitID: id.String(), Reason: "frame.bin entry not found", Err: err}
	}

	r, err := entry.Reader()
	if err != nil {
		return nil, &StoreError{CommitID: id.String(), Reason: "open blob reader", Err: err}
	}
	defer r.Close()

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, &StoreError{CommitID: id.String(), Reason: "read blob", Err: err}
	}
	return data, nil
}

// WriteFrame writes payload as a blob, wraps it in a tree {frame.bin ->
// blob}, and creates a commit with the given parent (nil for the root
// commit), advancing the session's tip. The message follows the
// reference format: "Frame NNNNNN (raw|delta, B bytes)".
func (s *Session) WriteFrame(payload []byte, parent *plumbing.Hash, frameIndex uint32, mode string) (plumbing.Hash, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	blobHash, err := s.storeBlob(payload)
	if err != nil {
		return plumbing.ZeroHash, err
	}

	treeHash, err := s.storeTree(blobHash)
	if err != nil {
		return plumbing.ZeroHash, err
	}

	message := fmt.Sprintf("Frame %06d (%s, %d bytes)", frameIndex, mode, len(payload))
	commitHash, err := s.storeCommit(treeHash, parent, message)
	if err != nil {
		return plumbing.ZeroHash, err
	}

	ref := plumbing.NewHashReference(branchRef, commitHash)
	if err := s.repo.Storer.SetReference(ref); err != nil {
		return plumbing.ZeroHash, &StoreError{Reason: "advance branch reference", Err: err}
	}
	s.tip = &commitHash

	return commitHash, nil
}

func (s *Session) storeBlob(payload []byte) (plumbing.Hash, error) {
	obj := s.repo.Storer.NewEncodedObject()
	obj.SetType(plumbing.BlobObject)

	w, err := obj.Writer()
	if err != nil {
		return plumbing.ZeroHash, &StoreError{Reason: "open blob writer", Err: err}
	}
	if _, err := w.Write(payload); err != nil {
		_ = w.Close()
		return plumbing.ZeroHash, &StoreError{Reason: "write blob", Err: err}
	}
	if err := w.Close(); err != nil {
		return plumbing.ZeroHash, &StoreError{Reason: "close blob writer", Err: err}
	}

	hash, err := s.repo.Storer.SetEncodedObject(obj)
	if err != nil {
		return plumbing.ZeroHash, &StoreError{Reason: "store blob object", Err: err}
	}
	return hash, nil
}

func (s *Session) storeTree(blobHash plumbing.Hash) (plumbing.Hash, error) {
	tree := &object.Tree{
		Entries: []object.TreeEntry{
			{Name: FrameBlobName, Mode: filemode.Regular, Hash: blobHash},
		},
	}

	obj := s.repo.Storer.NewEncodedObject()
	obj.SetType(plumbing.TreeObject)
	if err := tree.Encode(obj); err != nil {
		return plumbing.ZeroHash, &StoreError{Reason: "encode tree", Err: err}
	}

	hash, err := s.repo.Storer.SetEncodedObject(obj)
	if err != nil {
		return plumbing.ZeroHash, &StoreError{Reason: "store tree object", Err: err}
	}
	return hash, nil
}

func (s *Session) storeCommit(treeHash plumbing.Hash, parent *plumbing.Hash, message string) (plumbing.Hash, error) {
	sig := object.Signature{Name: "gitflix", Email: "gitflix@localhost", When: time.Now()}

	commit := &object.Commit{
		Author:    sig,
		Committer: sig,
		Message:   message,
		TreeHash:  treeHash,
	}
	if parent != nil {
		commit.ParentHashes = []plumbing.Hash{*parent}
	}

	obj := s.repo.Storer.NewEncodedObject()
	obj.SetType(plumbing.CommitObject)
	if err := commit.Encode(obj); err != nil {
		return plumbing.ZeroHash, &StoreError{Reason: "encode commit", Err: err}
	}

	hash, err := s.repo.Storer.SetEncodedObject(obj)
	if err != nil {
		return plumbing.ZeroHash, &StoreError{Reason: "store commit object", Err: err}
	}
	return hash, nil
}
