package session

import (
	"encoding/json"
	"strconv"

	"github.com/tidwall/gjson"

	"github.com/kylejryan/claims-admin/internal/models"
)

// Predicate selects collection entries.
type Predicate func(models.Item) bool

// KeyIn matches entries whose identity key is one of keys.
func KeyIn(keys ...string) Predicate {
	set := make(map[string]bool, len(keys))
	for _, k := range keys {
		set[k] = true
	}
	return func(it models.Item) bool { return set[it.IdentityKey()] }
}

// Where matches entries whose JSON fields equal every value in fields. A null
// value matches a missing or null field. An empty map matches nothing.
func Where(fields map[string]any) Predicate {
	if len(fields) == 0 {
		return func(models.Item) bool { return false }
	}
	return func(it models.Item) bool {
		raw, err := json.Marshal(it)
		if err != nil {
			return false
		}
		for path, want := range fields {
			if !fieldEquals(gjson.GetBytes(raw, path), want) {
				return false
			}
		}
		return true
	}
}

func fieldEquals(got gjson.Result, want any) bool {
	switch w := want.(type) {
	case nil:
		return !got.Exists() || got.Type == gjson.Null
	case bool:
		return got.Exists() && (got.Type == gjson.True || got.Type == gjson.False) && got.Bool() == w
	case float64:
		return got.Type == gjson.Number && got.Num == w
	case int:
		return got.Type == gjson.Number && got.Int() == int64(w)
	case int64:
		return got.Type == gjson.Number && got.Int() == w
	case json.Number:
		f, err := strconv.ParseFloat(string(w), 64)
		return err == nil && got.Type == gjson.Number && got.Num == f
	case string:
		return got.Type == gjson.String && got.Str == w
	}
	return false
}
