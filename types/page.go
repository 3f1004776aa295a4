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

package types

import (
	"fmt"
	"strings"
)

const (
	DefaultPage     = 1
	DefaultPageSize = 10
)

// Order is a single ORDER BY term. Field is the logical field name and is
// resolved to a column by the repository.
type Order struct {
	Field string
	Desc  bool
}

// Asc orders by field ascending.
func Asc(field string) Order { return Order{Field: field} }

// Desc orders by field descending.
func Desc(field string) Order { return Order{Field: field, Desc: true} }

// ParseOrder parses "field", "field ASC" or "field DESC".
func ParseOrder(s string) (Order, error) {
	parts := strings.Fields(s)
	switch len(parts) {
	case 1:
		return Asc(parts[0]), nil
	case 2:
		switch strings.ToUpper(parts[1]) {
		case "ASC":
			return Asc(parts[0]), nil
		case "DESC":
			return Desc(parts[0]), nil
		}
	}
	return Order{}, fmt.Errorf("invalid order expression: %q", s)
}

func (o Order) String() string {
	if o.Desc {
		return o.Field + " DESC"
	}
	return o.Field + " ASC"
}

// PageRequest describes the page to fetch and its ordering.
type PageRequest struct {
	page     int
	pageSize int
	orders   []Order
}

// NewPageRequest constructs a PageRequest. Page numbers start at 1.
func NewPageRequest(page int, pageSize int, orders ...Order) *PageRequest {
	return &PageRequest{page: page, pageSize: pageSize, orders: orders}
}

// NewDefaultPageRequest constructs a PageRequest with no ordering.
func NewDefaultPageRequest(page int, pageSize int) *PageRequest {
	return NewPageRequest(page, pageSize)
}

func (p *PageRequest) GetPageSize() int {
	if p.pageSize < 1 {
		return DefaultPageSize
	}
	return p.pageSize
}

func (p *PageRequest) GetPage() int {
	if p.page < 1 {
		return DefaultPage
	}
	return p.page
}

func (p *PageRequest) GetOffset() int {
	return (p.GetPage() - 1) * p.GetPageSize()
}

func (p *PageRequest) GetOrders() []Order {
	return p.orders
}

// Pagination holds paged result items along with pagination metadata.
type Pagination[T any] struct {
	Page       int  `json:"page"`
	PageSize   int  `json:"page_size"`
	Total      int  `json:"total"`
	TotalPages int  `json:"total_pages"`
	Items      []*T `json:"items"`
}

// NewDefaultPagination constructs an empty pagination container.
func NewDefaultPagination[T any](page int, pageSize int) *Pagination[T] {
	return &Pagination[T]{Page: page, PageSize: pageSize, Items: make([]*T, 0)}
}

// SetTotal records the total row count and derives TotalPages.
func (p *Pagination[T]) SetTotal(total int) {
	p.Total = total
	if p.PageSize > 0 {
		p.TotalPages = (total + p.PageSize - 1) / p.PageSize
	}
}

func (p *Pagination[T]) HasNext() bool {
	return p.Page < p.TotalPages
}

func (p *Pagination[T]) HasPrevious() bool {
	return p.Page > 1
}

// MapPagination converts the items of a page while keeping its metadata.
func MapPagination[S, D any](src *Pagination[S], fn func(*S) *D) *Pagination[D] {
	dst := &Pagination[D]{
		Page:       src.Page,
		PageSize:   src.PageSize,
		Total:      src.Total,
		TotalPages: src.TotalPages,
		Items:      make([]*D, 0, len(src.Items)),
	}
	for _, item := range src.Items {
		dst.Items = append(dst.Items, fn(item))
	}
	return dst
}
