/*
 Licensed under the Apache License, Version 2.0 (the "License");
 you may not use this file except in compliance with the License.
 You may obtain a copy of the License at

     https://www.apache.org/licenses/LICENSE-2.0

 Unless required by applicable law or agreed to in writing, software
 distributed under the License is distributed on an "AS IS" BASIS,
 WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 See the License for the specific language governing permissions and
 limitations under the License.
*/

package state

import (
	"encoding/binary"
	"os"
	"path/filepath"

	"go.etcd.io/bbolt"

	"gitlab.com/qtomo/go-ats/pkg/log"
	"gitlab.com/qtomo/go-ats/pkg/params"
)

const (
	BucketName = "params"
)

// ConfigState persists the last configuration codes applied to the board.
// It is a diagnostics cache only; the pipeline never reads it to make
// decisions.
type ConfigState struct {
	DB *bbolt.DB
}

func NewConfigState(path string) (*ConfigState, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, err
	}
	db, err := bbolt.Open(path, 0600, nil)
	if err != nil {
		return nil, err
	}
	if err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(BucketName))
		return err
	}); err != nil {
		db.Close()
		return nil, err
	}
	return &ConfigState{DB: db}, nil
}

func codeToBytes(code int) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, uint64(code))
	return b
}

// Close ...
func (s *ConfigState) Close() {
	s.DB.Close()
}

// SetParam ...
func (s *ConfigState) SetParam(p params.Param, code int) error {
	log.Debug("Caching parameter: %s code: %d", p, code)
	return s.DB.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(BucketName))
		if b == nil {
			return ErrBucketNotFound{Bucket: BucketName}
		}
		return b.Put([]byte(p), codeToBytes(code))
	})
}

// SetParams caches a batch of applied codes in one transaction.
func (s *ConfigState) SetParams(codes map[params.Param]int) error {
	return s.DB.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(BucketName))
		if b == nil {
			return ErrBucketNotFound{Bucket: BucketName}
		}
		for p, code := range codes {
			if err := b.Put([]byte(p), codeToBytes(code)); err != nil {
				return err
			}
		}
		return nil
	})
}

// GetParam ...
func (s *ConfigState) GetParam(p params.Param) (int, error) {
	var code int
	if err := s.DB.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(BucketName))
		if b == nil {
			return ErrBucketNotFound{Bucket: BucketName}
		}
		value := b.Get([]byte(p))
		if value == nil {
			return ErrParamNotCached{Param: p}
		}
		code = int(binary.BigEndian.Uint64(value))
		return nil
	}); err != nil {
		return 0, err
	}
	return code, nil
}

// GetAll returns every cached parameter code.
func (s *ConfigState) GetAll() (map[params.Param]int, error) {
	codes := make(map[params.Param]int)
	if err := s.DB.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(BucketName))
		if b == nil {
			return ErrBucketNotFound{Bucket: BucketName}
		}
		return b.ForEach(func(k, v []byte) error {
			codes[params.Param(k)] = int(binary.BigEndian.Uint64(v))
			return nil
		})
	}); err != nil {
		return nil, err
	}
	return codes, nil
}
