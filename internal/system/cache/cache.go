/*
 * Copyright (c) 2025, Aremko SpA. (https://www.aremko.cl).
 *
 * Aremko SpA. licenses this file to you under the Apache License,
 * Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.
 * You may obtain a copy of the License at
 *
 * http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing,
 * software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
 * KIND, either express or implied.  See the License for the
 * specific language governing permissions and limitations
 * under the License.
 */

// Package cache provides a small in-process TTL cache used to keep hot
// resolve lookups off the database. Writers must invalidate the keys they
// touch; the cache itself only expires by time.
package cache

import (
	"sync"
	"time"
)

type entry struct {
	value     interface{}
	expiresAt time.Time
}

type Cache struct {
	mutex sync.Mutex
	items map[string]entry
	ttl   time.Duration
}

// NewCache creates a cache whose entries live for the given TTL.
func NewCache(ttl time.Duration) *Cache {
	return &Cache{
		items: make(map[string]entry),
		ttl:   ttl,
	}
}

// Set stores a value under the key, resetting its TTL.
func (c *Cache) Set(key string, value interface{}) {

	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.items[key] = entry{
		value:     value,
		expiresAt: time.Now().Add(c.ttl),
	}
}

// Get returns the cached value when present and unexpired. An expired entry
// is dropped on the way out so the map does not accumulate dead keys.
func (c *Cache) Get(key string) (interface{}, bool) {

	c.mutex.Lock()
	defer c.mutex.Unlock()

	item, found := c.items[key]
	if !found {
		return nil, false
	}
	if time.Now().After(item.expiresAt) {
		delete(c.items, key)
		return nil, false
	}
	return item.value, true
}

// Delete invalidates one key. Callers invalidate after every write that
// could change the key's resolution.
func (c *Cache) Delete(key string) {

	c.mutex.Lock()
	defer c.mutex.Unlock()

	delete(c.items, key)
}
