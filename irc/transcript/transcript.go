// Copyright (c) 2026 ircwire contributors
// released under the MIT license

// Package transcript keeps a persistent record of the raw lines a client
// sent and received.
package transcript

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/tidwall/buntdb"

	"github.com/ergochat/ircwire/irc/flock"
)

const (
	// MemoryPath keeps the transcript in memory only.
	MemoryPath = ":memory:"

	keyPrefix = "line "
)

// Direction says whether a line was received or sent.
type Direction string

const (
	Inbound  Direction = "in"
	Outbound Direction = "out"
)

// Entry is one recorded line, without its terminator.
type Entry struct {
	Seq       uint64    `json:"-"`
	Direction Direction `json:"direction"`
	Time      time.Time `json:"time"`
	Line      string    `json:"line"`
}

// Store is a buntdb-backed transcript. It is safe for concurrent use.
type Store struct {
	stateMutex sync.Mutex // tier 1

	db   *buntdb.DB
	lock flock.Flocker
	seq  uint64
}

func entryKey(seq uint64) string {
	// zero-padded so that key order is sequence order
	return fmt.Sprintf("%s%020d", keyPrefix, seq)
}

// Open opens or creates the transcript at path. On-disk transcripts are
// locked against concurrent use by another process.
func Open(path string) (store *Store, err error) {
	var lock flock.Flocker = flock.NoopFlocker{}
	if path != MemoryPath {
		lock, err = flock.TryAcquireFlock(path + ".lock")
		if err != nil {
			return nil, err
		}
	}

	db, err := buntdb.Open(path)
	if err != nil {
		lock.Unlock()
		return nil, err
	}

	store = &Store{
		db:   db,
		lock: lock,
	}
	// resume numbering after the newest existing entry
	err = db.View(func(tx *buntdb.Tx) error {
		var parseErr error
		err := tx.DescendKeys(keyPrefix+"*", func(key, value string) bool {
			store.seq, parseErr = strconv.ParseUint(strings.TrimPrefix(key, keyPrefix), 10, 64)
			return false
		})
		if err != nil {
			return err
		}
		return parseErr
	})
	if err != nil {
		store.Close()
		return nil, err
	}
	return store, nil
}

// Record appends a line to the transcript.
func (store *Store) Record(direction Direction, line []byte) (err error) {
	store.stateMutex.Lock()
	defer store.stateMutex.Unlock()

	entry := Entry{
		Direction: direction,
		Time:      time.Now().UTC(),
		Line:      string(line),
	}
	value, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	seq := store.seq + 1
	err = store.db.Update(func(tx *buntdb.Tx) error {
		_, _, err := tx.Set(entryKey(seq), string(value), nil)
		return err
	})
	if err == nil {
		store.seq = seq
	}
	return
}

// Lines returns up to limit of the most recent entries, oldest first.
// A limit of 0 or less returns everything.
func (store *Store) Lines(limit int) (entries []Entry, err error) {
	err = store.db.View(func(tx *buntdb.Tx) error {
		var decodeErr error
		err := tx.DescendKeys(keyPrefix+"*", func(key, value string) bool {
			var entry Entry
			if decodeErr = json.Unmarshal([]byte(value), &entry); decodeErr != nil {
				return false
			}
			entry.Seq, decodeErr = strconv.ParseUint(strings.TrimPrefix(key, keyPrefix), 10, 64)
			if decodeErr != nil {
				return false
			}
			entries = append(entries, entry)
			return limit <= 0 || len(entries) < limit
		})
		if err != nil {
			return err
		}
		return decodeErr
	})
	if err != nil {
		return nil, err
	}
	// collected newest first
	for i, j := 0, len(entries)-1; i < j; i, j = i+1, j-1 {
		entries[i], entries[j] = entries[j], entries[i]
	}
	return entries, nil
}

// Close closes the database and releases the lock.
func (store *Store) Close() error {
	dbErr := store.db.Close()
	lockErr := store.lock.Unlock()
	if dbErr != nil {
		return dbErr
	}
	return lockErr
}
