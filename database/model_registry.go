/*
 * Copyright 2025 tomoncle.
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package database

import (
	"sort"
	"sync"
)

var defaultRegistry = newModelRegistry()

// Model is an entity registered for table creation. Instance returns a bun
// model pointer; lower Priority values are created first.
type Model struct {
	Instance interface{}
	Priority int
}

// ModelRegistry keeps entity models in a deterministic order.
type ModelRegistry interface {
	Register(instance interface{}, priority int)
	Models() []Model
}

type modelRegistry struct {
	models []Model
	mutex  sync.RWMutex
}

func newModelRegistry() ModelRegistry {
	return &modelRegistry{
		models: make([]Model, 0),
	}
}

// NewModelRegistry returns an empty registry, independent of the global one.
func NewModelRegistry() ModelRegistry {
	return newModelRegistry()
}

func (r *modelRegistry) Register(instance interface{}, priority int) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.models = append(r.models, Model{Instance: instance, Priority: priority})
}

func (r *modelRegistry) Models() []Model {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	result := make([]Model, len(r.models))
	copy(result, r.models)
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Priority < result[j].Priority
	})
	return result
}

// RegisterModel adds an entity model to the global registry.
func RegisterModel(instance interface{}, priority int) {
	defaultRegistry.Register(instance, priority)
}

// RegisteredModels returns the global registry sorted by ascending priority.
func RegisteredModels() []Model {
	return defaultRegistry.Models()
}

// RegisteredModelInstances returns the registered model pointers in priority order.
func RegisteredModelInstances() []interface{} {
	return modelInstances(defaultRegistry)
}

func modelInstances(r ModelRegistry) []interface{} {
	models := r.Models()
	instances := make([]interface{}, len(models))
	for i, m := range models {
		instances[i] = m.Instance
	}
	return instances
}
