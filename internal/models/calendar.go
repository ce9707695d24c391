package models

import (
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CalendarSession is a workout logged on a free-form date key. Exercises are
// kept as the client sent them (plain strings or small objects).
type CalendarSession struct {
	Date       string    `json:"date" bson:"date"`
	Type       string    `json:"type" bson:"type"`
	Exercises  Exercises `json:"exercises" bson:"exercises"`
	Commentary string    `json:"commentary" bson:"commentary"`
}

// Exercises decodes from BSON into plain maps and slices, never
// primitive.D, so stored objects come back out as JSON objects.
type Exercises []any

func (e *Exercises) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	if t == bsontype.Null || t == bsontype.Undefined {
		*e = nil
		return nil
	}
	if t != bsontype.Array {
		return fmt.Errorf("exercises: unexpected bson type %s", t)
	}

	var raw bson.A
	if err := (bson.RawValue{Type: t, Value: data}).Unmarshal(&raw); err != nil {
		return fmt.Errorf("exercises: %w", err)
	}

	out := make(Exercises, 0, len(raw))
	for _, item := range raw {
		out = append(out, plainBSON(item))
	}
	*e = out
	return nil
}

func plainBSON(v any) any {
	switch val := v.(type) {
	case primitive.D:
		m := make(map[string]any, len(val))
		for _, elem := range val {
			m[elem.Key] = plainBSON(elem.Value)
		}
		return m
	case primitive.M:
		m := make(map[string]any, len(val))
		for k, item := range val {
			m[k] = plainBSON(item)
		}
		return m
	case primitive.A:
		s := make([]any, 0, len(val))
		for _, item := range val {
			s = append(s, plainBSON(item))
		}
		return s
	default:
		return val
	}
}

// SessionEntry is the client-facing view of a session within a day.
type SessionEntry struct {
	Type       string `json:"type"`
	Exercises  []any  `json:"exercises"`
	Commentary string `json:"commentary"`
}

func (s CalendarSession) Entry() SessionEntry {
	exercises := s.Exercises
	if exercises == nil {
		exercises = Exercises{}
	}
	return SessionEntry{
		Type:       s.Type,
		Exercises:  exercises,
		Commentary: s.Commentary,
	}
}
