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

package dao

import "github.com/tomoncle/hummer-dao/types"

// EntityMapper converts between a DTO type D and an entity type E.
type EntityMapper[D, E any] struct {
	ToDTO    func(*E) *D
	ToEntity func(*D) *E
}

// ToDTOs maps entities in order.
func (m EntityMapper[D, E]) ToDTOs(entities []*E) []*D {
	return mapAll(entities, m.ToDTO)
}

// ToEntities maps dtos in order.
func (m EntityMapper[D, E]) ToEntities(dtos []*D) []*E {
	return mapAll(dtos, m.ToEntity)
}

// ToDTOPage maps the items of page, keeping its paging metadata and total.
func (m EntityMapper[D, E]) ToDTOPage(page *types.Pagination[E]) *types.Pagination[D] {
	if page == nil {
		return nil
	}
	return types.MapPagination(page, m.ToDTO)
}

func (m EntityMapper[D, E]) ToEntityPage(page *types.Pagination[D]) *types.Pagination[E] {
	if page == nil {
		return nil
	}
	return types.MapPagination(page, m.ToEntity)
}

// ToDTOPageWithTotal is ToDTOPage with the total replaced, for callers whose
// page items were filtered after counting.
func (m EntityMapper[D, E]) ToDTOPageWithTotal(page *types.Pagination[E], total int) *types.Pagination[D] {
	dst := m.ToDTOPage(page)
	if dst != nil {
		dst.SetTotal(total)
	}
	return dst
}

func (m EntityMapper[D, E]) ToEntityPageWithTotal(page *types.Pagination[D], total int) *types.Pagination[E] {
	dst := m.ToEntityPage(page)
	if dst != nil {
		dst.SetTotal(total)
	}
	return dst
}

func mapAll[S, D any](src []*S, fn func(*S) *D) []*D {
	out := make([]*D, 0, len(src))
	for _, s := range src {
		out = append(out, fn(s))
	}
	return out
}
