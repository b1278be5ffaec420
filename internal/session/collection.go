package session

import "github.com/kylejryan/claims-admin/internal/models"

// row is the constraint every collection element satisfies.
type row[T any] interface {
	models.Item
	WithDeleted(bool) T
	Sanitized() T
}

// None of the helpers below mutate their input; the returned slice is always
// freshly allocated so published state stays untouched.

func sanitizeAll[T row[T]](in []T) []T {
	out := make([]T, 0, len(in))
	for _, v := range in {
		out = append(out, v.Sanitized())
	}
	return out
}

// dedupe keeps one entry per identity key: the position of the first
// occurrence, the value of the last.
func dedupe[T row[T]](in []T) []T {
	idx := make(map[string]int, len(in))
	out := make([]T, 0, len(in))
	for _, v := range in {
		k := v.IdentityKey()
		if i, ok := idx[k]; ok {
			out[i] = v
			continue
		}
		idx[k] = len(out)
		out = append(out, v)
	}
	return out
}

func activeOnly[T row[T]](in []T) []T {
	out := make([]T, 0, len(in))
	for _, v := range in {
		if !v.Deleted() {
			out = append(out, v)
		}
	}
	return out
}

// addItem links item unless an active entry with its key already exists. A
// soft-deleted entry with the same key is revived with item's data.
func addItem[T row[T]](cur []T, item T) []T {
	key := item.IdentityKey()
	hasActive, hasDeleted := false, false
	for _, v := range cur {
		if v.IdentityKey() != key {
			continue
		}
		if v.Deleted() {
			hasDeleted = true
		} else {
			hasActive = true
		}
	}
	switch {
	case hasActive:
		return sanitizeAll(cur)
	case hasDeleted:
		out := make([]T, len(cur))
		for i, v := range cur {
			if v.IdentityKey() == key {
				out[i] = item.WithDeleted(false)
			} else {
				out[i] = v
			}
		}
		return sanitizeAll(out)
	}
	next := make([]T, 0, len(cur)+1)
	next = append(next, cur...)
	next = append(next, item.WithDeleted(false))
	return sanitizeAll(dedupe(next))
}

func setDeleted[T row[T]](cur []T, match func(T) bool, deleted bool) []T {
	out := make([]T, len(cur))
	for i, v := range cur {
		if match != nil && match(v) {
			v = v.WithDeleted(deleted)
		}
		out[i] = v
	}
	return out
}

// pendingIDs returns persisted ids of soft-deleted rows that have no active
// replacement.
func pendingIDs[T row[T]](cur []T) []int64 {
	live := make(map[int64]bool)
	for _, v := range cur {
		if !v.Deleted() && v.PersistedID() != 0 {
			live[v.PersistedID()] = true
		}
	}
	var ids []int64
	seen := make(map[int64]bool)
	for _, v := range cur {
		id := v.PersistedID()
		if !v.Deleted() || id == 0 || live[id] || seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}
	return ids
}

func copyOf[T any](in []T) []T {
	out := make([]T, len(in))
	copy(out, in)
	return out
}
