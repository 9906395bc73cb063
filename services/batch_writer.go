package services

import (
	"context"
	"log"

	"cloud.google.com/go/firestore"
)

// BatchLimit is the maximum number of operations per commit group and
// per grouped notification send. Firestore rejects larger batches.
const BatchLimit = 500

// StagedWrite is one pending set-or-create operation. An empty DocID
// means the committer generates one. Merge limits the set to the keys
// present in Data instead of replacing the whole document.
type StagedWrite struct {
	Collection string
	DocID      string
	Data       interface{}
	Merge      bool
}

// BatchCommitter applies one group of writes as a single atomic commit.
type BatchCommitter interface {
	Commit(ctx context.Context, writes []StagedWrite) error
}

type firestoreCommitter struct {
	client *firestore.Client
}

func NewFirestoreCommitter(client *firestore.Client) BatchCommitter {
	return &firestoreCommitter{client: client}
}

func (c *firestoreCommitter) Commit(ctx context.Context, writes []StagedWrite) error {
	batch := c.client.Batch()
	for _, w := range writes {
		col := c.client.Collection(w.Collection)
		ref := col.NewDoc()
		if w.DocID != "" {
			ref = col.Doc(w.DocID)
		}
		if w.Merge {
			batch.Set(ref, w.Data, firestore.MergeAll)
		} else {
			batch.Set(ref, w.Data)
		}
	}
	_, err := batch.Commit(ctx)
	return err
}

type inflightCommit struct {
	size int
	done chan error
}

// BatchWriter buffers document writes and commits them in groups of at
// most BatchLimit. Group commits start as soon as the group fills and
// run concurrently with further staging; Finalize commits the partial
// group and waits for every commit started during the run. Staging is
// single-goroutine, like the jobs that drive it.
type BatchWriter struct {
	committer BatchCommitter
	pending   []StagedWrite
	inflight  []inflightCommit
	staged    int
}

func NewBatchWriter(committer BatchCommitter) *BatchWriter {
	return &BatchWriter{committer: committer}
}

func (b *BatchWriter) Stage(ctx context.Context, write StagedWrite) {
	b.pending = append(b.pending, write)
	b.staged++

	if len(b.pending) >= BatchLimit {
		b.startCommit(ctx)
	}
}

// Staged returns the number of writes staged so far in this run.
func (b *BatchWriter) Staged() int {
	return b.staged
}

func (b *BatchWriter) startCommit(ctx context.Context) {
	group := b.pending
	b.pending = nil

	log.Printf("[BatchWriter] Committing batch of %d", len(group))

	commit := inflightCommit{size: len(group), done: make(chan error, 1)}
	b.inflight = append(b.inflight, commit)

	go func() {
		commit.done <- b.committer.Commit(ctx, group)
	}()
}

// Finalize commits the remaining partial group and waits for every
// commit started during the run. It returns the number of writes
// committed successfully and the first commit error, if any. Groups
// are atomic individually; a failed group does not roll back others.
func (b *BatchWriter) Finalize(ctx context.Context) (int, error) {
	if len(b.pending) > 0 {
		b.startCommit(ctx)
	}

	committed := 0
	var firstErr error
	for _, commit := range b.inflight {
		if err := <-commit.done; err != nil {
			log.Printf("[BatchWriter][ERROR] Commit of %d writes failed: %v", commit.size, err)
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		committed += commit.size
	}
	b.inflight = nil

	return committed, firstErr
}
