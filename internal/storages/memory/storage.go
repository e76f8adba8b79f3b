// Copyright 2025 Famex
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package memory

import (
	"bytes"
	"context"
	"io"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/famexio/famex/internal/storages"
	"github.com/famexio/famex/internal/storages/domains"
)

type memoryObject struct {
	data         []byte
	lastModified time.Time
	name         string
}

// Storage - in-memory report store. Used by tests and dry-run paths where no
// real destination is wanted. All sub-storages share one object table keyed
// by absolute path.
type Storage struct {
	mu       *sync.RWMutex
	basePath string
	files    map[string]*memoryObject
}

// New initializes a root in-memory storage.
func New(basePath string) *Storage {
	return &Storage{
		mu:       &sync.RWMutex{},
		basePath: basePath,
		files:    make(map[string]*memoryObject),
	}
}

func (s *Storage) GetCwd() string {
	return s.basePath
}

func (s *Storage) Dirname() string {
	return path.Base(s.basePath)
}

func (s *Storage) abs(filePath string) string {
	return path.Join(s.basePath, filePath)
}

func (s *Storage) ListDir(_ context.Context) (files []string, dirs []storages.Storager, err error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	dirSet := make(map[string]bool)

	for fp := range s.files {
		rel := strings.TrimPrefix(fp, s.basePath)
		rel = strings.TrimPrefix(rel, "/")
		parts := strings.SplitN(rel, "/", 2)

		if len(parts) == 1 {
			files = append(files, parts[0])
		} else {
			dir := parts[0]
			if !dirSet[dir] {
				dirSet[dir] = true
				dirs = append(dirs, s.SubStorage(dir, true))
			}
		}
	}
	return files, dirs, nil
}

func (s *Storage) GetObject(_ context.Context, filePath string) (io.ReadCloser, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	obj, ok := s.files[s.abs(filePath)]
	if !ok {
		return nil, storages.ErrFileNotFound
	}
	return io.NopCloser(bytes.NewReader(obj.data)), nil
}

func (s *Storage) PutObject(_ context.Context, filePath string, body io.Reader) error {
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.files[s.abs(filePath)] = &memoryObject{
		name:         s.abs(filePath),
		data:         data,
		lastModified: time.Now(),
	}
	return nil
}

func (s *Storage) Delete(_ context.Context, filePaths ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, filePath := range filePaths {
		abs := s.abs(filePath)
		for k := range s.files {
			if k == abs || strings.HasPrefix(k, abs+"/") {
				delete(s.files, k)
			}
		}
	}
	return nil
}

func (s *Storage) DeleteAll(_ context.Context, pathPrefix string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	abs := s.abs(pathPrefix)
	for k := range s.files {
		if strings.HasPrefix(k, abs) {
			delete(s.files, k)
		}
	}
	return nil
}

func (s *Storage) Exists(_ context.Context, fileName string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.files[s.abs(fileName)]
	return ok, nil
}

func (s *Storage) SubStorage(subPath string, relative bool) storages.Storager {
	newBase := subPath
	if relative {
		newBase = path.Join(s.basePath, subPath)
	}
	return &Storage{
		mu:       s.mu,
		basePath: newBase,
		files:    s.files,
	}
}

func (s *Storage) Stat(fileName string) (*domains.ObjectStat, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	obj, ok := s.files[s.abs(fileName)]
	if !ok {
		return &domains.ObjectStat{
			Name:  path.Base(fileName),
			Exist: false,
		}, nil
	}

	return &domains.ObjectStat{
		Name:         path.Base(fileName),
		Exist:        true,
		LastModified: obj.lastModified,
	}, nil
}
