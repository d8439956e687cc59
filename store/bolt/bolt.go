/* Copyright 2026 Comcast Cable Communications Management, LLC
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 * http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package bolt stores command declaration documents in a bbolt
// database.  Each robot's document is stored under the robot's name.
package bolt

import (
	"context"
	"errors"
	"log"
	"sort"
	"time"

	"github.com/Comcast/wxrobot/command"
	"github.com/Comcast/wxrobot/config"

	bolt "go.etcd.io/bbolt"
)

// ErrNotFound occurs when there's no document for a robot.
var ErrNotFound = errors.New("not found")

type Storage struct {
	Debug    bool
	filename string
	bucket   []byte
	db       *bolt.DB
}

// NewStorage makes a Storage for the given database file and bucket.
// Call Open before using it.
func NewStorage(filename, bucket string) (*Storage, error) {
	if bucket == "" {
		bucket = config.DefaultBucket
	}
	return &Storage{
		filename: filename,
		bucket:   []byte(bucket),
	}, nil
}

func (s *Storage) Open() error {
	opts := &bolt.Options{
		Timeout: time.Second,
	}

	db, err := bolt.Open(s.filename, 0644, opts)
	if err != nil {
		return err
	}
	s.db = db
	return nil
}

func (s *Storage) Close() error {
	return s.db.Close()
}

func (s *Storage) logf(format string, args ...interface{}) {
	if s.Debug {
		log.Printf("BoltDB Storage."+format, args...)
	}
}

// Put stores a robot's command document.  The document must parse
// (see config.ParseDeclarations), but individual declarations that
// don't compile are accepted.
func (s *Storage) Put(ctx context.Context, name string, body []byte) error {
	s.logf("Put %s (%d bytes)", name, len(body))
	if _, err := config.ParseDeclarations(body); err != nil {
		return err
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists(s.bucket)
		if err != nil {
			return err
		}
		return b.Put([]byte(name), body)
	})
}

// Get returns a robot's command document.
func (s *Storage) Get(ctx context.Context, name string) ([]byte, error) {
	s.logf("Get %s", name)
	var body []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(s.bucket)
		if b == nil {
			return ErrNotFound
		}
		v := b.Get([]byte(name))
		if v == nil {
			return ErrNotFound
		}
		// v is only valid during the transaction.
		body = make([]byte, len(v))
		copy(body, v)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return body, nil
}

// Delete removes a robot's command document.  Deleting a document
// that isn't there isn't an error.
func (s *Storage) Delete(ctx context.Context, name string) error {
	s.logf("Delete %s", name)
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(s.bucket)
		if b == nil {
			return nil
		}
		return b.Delete([]byte(name))
	})
}

// List returns the names of the stored documents, sorted.
func (s *Storage) List(ctx context.Context) ([]string, error) {
	names := make([]string, 0, 8)
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(s.bucket)
		if b == nil {
			return nil
		}
		return b.ForEach(func(k, _ []byte) error {
			names = append(names, string(k))
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(names)
	s.logf("List found %d documents", len(names))
	return names, nil
}

// Table compiles a robot's stored command document.
func (s *Storage) Table(ctx context.Context, name string) (command.Table, error) {
	body, err := s.Get(ctx, name)
	if err != nil {
		return nil, err
	}
	return config.ParseTable(body)
}
