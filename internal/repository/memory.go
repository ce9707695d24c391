package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"traininglog/api/internal/ids"
)

type memoryRow struct {
	id     string
	owner  string
	body   []byte
	fields map[string]any
}

// MemoryCollection keeps documents JSON-encoded in process memory, so readers
// never share state with the stored copy.
type MemoryCollection[T any] struct {
	mu     sync.RWMutex
	schema Schema
	rows   []memoryRow
}

func NewMemoryCollection[T any](schema Schema) *MemoryCollection[T] {
	return &MemoryCollection[T]{schema: schema}
}

func (c *MemoryCollection[T]) Insert(_ context.Context, owner string, doc T) (Record[T], error) {
	row, err := encodeRow(ids.New(), owner, doc)
	if err != nil {
		return Record[T]{}, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conflicts(row, "") {
		return Record[T]{}, ErrDuplicate
	}
	c.rows = append(c.rows, row)

	return Record[T]{ID: row.id, Owner: owner, Doc: doc}, nil
}

func (c *MemoryCollection[T]) Find(_ context.Context, filter Filter) ([]Record[T], error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var records []Record[T]
	for _, row := range c.rows {
		if !row.matches(filter) {
			continue
		}
		record, err := decodeRow[T](row)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, nil
}

func (c *MemoryCollection[T]) FindOne(ctx context.Context, filter Filter) (Record[T], error) {
	records, err := c.Find(ctx, filter)
	if err != nil {
		return Record[T]{}, err
	}
	if len(records) == 0 {
		return Record[T]{}, ErrNotFound
	}
	return records[0], nil
}

func (c *MemoryCollection[T]) Update(_ context.Context, filter Filter, doc T) error {
	if filter.ID == "" {
		return ErrNotFound
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	for i, row := range c.rows {
		if !row.matches(filter) {
			continue
		}
		updated, err := encodeRow(row.id, row.owner, doc)
		if err != nil {
			return err
		}
		if c.conflicts(updated, row.id) {
			return ErrDuplicate
		}
		c.rows[i] = updated
		return nil
	}
	return ErrNotFound
}

func (c *MemoryCollection[T]) Delete(_ context.Context, filter Filter) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	kept := c.rows[:0]
	var removed int64
	for _, row := range c.rows {
		if row.matches(filter) {
			removed++
			continue
		}
		kept = append(kept, row)
	}
	c.rows = kept
	return removed, nil
}

func (c *MemoryCollection[T]) Owners(_ context.Context) ([]string, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	seen := make(map[string]struct{})
	var owners []string
	for _, row := range c.rows {
		if _, ok := seen[row.owner]; ok {
			continue
		}
		seen[row.owner] = struct{}{}
		owners = append(owners, row.owner)
	}
	return owners, nil
}

// conflicts must be called with mu held.
func (c *MemoryCollection[T]) conflicts(candidate memoryRow, skipID string) bool {
	if !c.schema.UniqueOwner && c.schema.UniqueField == "" {
		return false
	}
	for _, row := range c.rows {
		if row.id == skipID || row.owner != candidate.owner {
			continue
		}
		if c.schema.UniqueOwner {
			return true
		}
		if row.fields[c.schema.UniqueField] == candidate.fields[c.schema.UniqueField] {
			return true
		}
	}
	return false
}

func (r memoryRow) matches(filter Filter) bool {
	if filter.Owner == "" || r.owner != filter.Owner {
		return false
	}
	if filter.ID != "" && r.id != filter.ID {
		return false
	}
	if filter.Field != "" {
		value, ok := r.fields[filter.Field].(string)
		if !ok || value != filter.Value {
			return false
		}
	}
	return true
}

func encodeRow[T any](id, owner string, doc T) (memoryRow, error) {
	body, err := json.Marshal(doc)
	if err != nil {
		return memoryRow{}, fmt.Errorf("encode document: %w", err)
	}
	var fields map[string]any
	if err := json.Unmarshal(body, &fields); err != nil {
		return memoryRow{}, fmt.Errorf("index document: %w", err)
	}
	return memoryRow{id: id, owner: owner, body: body, fields: fields}, nil
}

func decodeRow[T any](row memoryRow) (Record[T], error) {
	var doc T
	if err := json.Unmarshal(row.body, &doc); err != nil {
		return Record[T]{}, fmt.Errorf("decode document %s: %w", row.id, err)
	}
	return Record[T]{ID: row.id, Owner: row.owner, Doc: doc}, nil
}
