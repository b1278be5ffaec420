// Package replay applies a YAML script of edit operations to a session store.
// It backs the replay command, which is used to reproduce editor sessions
// offline.
package replay

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/kylejryan/claims-admin/internal/models"
	"github.com/kylejryan/claims-admin/internal/session"
)

// Operations understood by Run.
const (
	OpReset          = "reset"
	OpTab            = "tab"
	OpPatch          = "patch"
	OpSet            = "set"
	OpAdd            = "add"
	OpSoftDelete     = "soft-delete"
	OpRestore        = "restore"
	OpUpsertDocument = "upsert-document"
	OpLoad           = "load"
)

// Step is one operation. Which fields are read depends on Op.
type Step struct {
	Op         string         `yaml:"op"`
	Slice      string         `yaml:"slice,omitempty"`
	Collection string         `yaml:"collection,omitempty"`
	Tab        string         `yaml:"tab,omitempty"`
	Fields     map[string]any `yaml:"fields,omitempty"`
	Items      []any          `yaml:"items,omitempty"`
	Item       any            `yaml:"item,omitempty"`
	Where      map[string]any `yaml:"where,omitempty"`
	Keys       []string       `yaml:"keys,omitempty"`
	Client     any            `yaml:"client,omitempty"`
}

// Script is an ordered list of steps.
type Script struct {
	Steps []Step `yaml:"steps"`
}

// Parse decodes a YAML script.
func Parse(raw []byte) (Script, error) {
	var s Script
	if err := yaml.Unmarshal(raw, &s); err != nil {
		return s, fmt.Errorf("parse script: %w", err)
	}
	return s, nil
}

// Run applies every step in order and stops at the first failure.
func Run(st *session.Store, s Script) error {
	for i, step := range s.Steps {
		if err := apply(st, step); err != nil {
			return fmt.Errorf("step %d (%s): %w", i+1, step.Op, err)
		}
	}
	return nil
}

func apply(st *session.Store, s Step) error {
	switch s.Op {
	case OpReset:
		st.Reset()
	case OpTab:
		t, err := session.ParseTab(s.Tab)
		if err != nil {
			return err
		}
		st.SelectTab(t)
	case OpPatch:
		name, err := session.ParseSliceName(s.Slice)
		if err != nil {
			return err
		}
		raw, err := toJSON(s.Fields)
		if err != nil {
			return err
		}
		f, err := session.NewFields(raw)
		if err != nil {
			return err
		}
		return st.PatchSlice(name, f)
	case OpSet, OpAdd:
		name, err := session.ParseCollectionName(s.Collection)
		if err != nil {
			return err
		}
		if s.Op == OpAdd {
			raw, err := toJSON(s.Item)
			if err != nil {
				return err
			}
			return st.AddItemJSON(name, raw)
		}
		items := s.Items
		if items == nil {
			items = []any{}
		}
		raw, err := toJSON(items)
		if err != nil {
			return err
		}
		return st.SetCollectionJSON(name, raw)
	case OpSoftDelete, OpRestore:
		name, err := session.ParseCollectionName(s.Collection)
		if err != nil {
			return err
		}
		match := session.Where(s.Where)
		if len(s.Keys) > 0 {
			match = session.KeyIn(s.Keys...)
		}
		if s.Op == OpRestore {
			return st.Restore(name, match)
		}
		return st.SoftDelete(name, match)
	case OpUpsertDocument:
		var doc models.ClientDocument
		if err := convert(s.Item, &doc); err != nil {
			return err
		}
		st.UpsertDocument(doc)
	case OpLoad:
		var c models.Client
		if err := convert(s.Client, &c); err != nil {
			return err
		}
		st.SetFromServer(c)
	default:
		return fmt.Errorf("unknown operation %q", s.Op)
	}
	return nil
}

// toJSON re-encodes a YAML-decoded value so the store's JSON entry points can
// take it.
func toJSON(v any) ([]byte, error) {
	if v == nil {
		return nil, fmt.Errorf("missing value")
	}
	return json.Marshal(v)
}

func convert(v any, out any) error {
	raw, err := toJSON(v)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, out)
}
