package ir

import (
	"errors"
	"fmt"
)

// SchemaVersion is bumped whenever the encoded graph layout changes.
const SchemaVersion uint16 = 3

// Graph is the whole declaration graph of one translation unit. Items[i]
// has ID i+1.
type Graph struct {
	Schema uint16  `msgpack:"schema"`
	Source string  `msgpack:"source,omitempty"` // header the graph was produced from
	Root   ItemID  `msgpack:"root"`
	Items  []*Item `msgpack:"items"`
}

// Item returns the item for id, or nil when id is out of range.
func (g *Graph) Item(id ItemID) *Item {
	if g == nil || id == NoItemID || int(id) > len(g.Items) {
		return nil
	}
	return g.Items[id-1]
}

// Type returns the type payload of id, or nil when id is not a type.
func (g *Graph) Type(id ItemID) *Type {
	it := g.Item(id)
	if it == nil || it.Kind != ItemType {
		return nil
	}
	return it.Type
}

// Canonical follows alias chains and returns the first non-alias type item.
// Cycles resolve to the alias where the cycle was detected.
func (g *Graph) Canonical(id ItemID) ItemID {
	seen := 0
	for {
		t := g.Type(id)
		if t == nil || t.Kind != TypeAlias || !t.Inner.Valid() {
			return id
		}
		seen++
		if seen > len(g.Items) {
			return id
		}
		id = t.Inner
	}
}

// LayoutOf returns the native layout of a type item, looking through
// aliases when the item itself carries none.
func (g *Graph) LayoutOf(id ItemID) (Layout, bool) {
	if t := g.Type(id); t != nil && t.Layout != nil {
		return *t.Layout, true
	}
	if t := g.Type(g.Canonical(id)); t != nil && t.Layout != nil {
		return *t.Layout, true
	}
	return Layout{}, false
}

// Validate checks the structural invariants the generator relies on.
func (g *Graph) Validate() error {
	if g == nil {
		return errors.New("nil graph")
	}
	if g.Schema != SchemaVersion {
		return fmt.Errorf("graph schema %d, expected %d", g.Schema, SchemaVersion)
	}
	var errs []error
	add := func(format string, args ...any) {
		if len(errs) < 32 {
			errs = append(errs, fmt.Errorf(format, args...))
		}
	}
	ref := func(owner ItemID, what string, id ItemID) {
		if id != NoItemID && g.Item(id) == nil {
			add("item %d: %s refers to missing item %d", owner, what, id)
		}
	}

	for i, it := range g.Items {
		if it == nil {
			add("item slot %d is empty", i+1)
			continue
		}
		if int(it.ID) != i+1 {
			add("item slot %d holds id %d", i+1, it.ID)
		}
		ref(it.ID, "parent", it.Parent)
		if !payloadMatches(it) {
			add("item %d (%s): payload does not match kind", it.ID, it.Kind)
			continue
		}
		switch it.Kind {
		case ItemModule:
			for _, c := range it.Module.Children {
				ref(it.ID, "child", c)
			}
		case ItemFunction:
			ref(it.ID, "signature", it.Function.Signature)
		case ItemVar:
			ref(it.ID, "type", it.Var.Type)
		case ItemType:
			validateType(it, ref)
		}
	}

	if root := g.Item(g.Root); root == nil || root.Kind != ItemModule {
		add("root %d is not a module", g.Root)
	}
	return errors.Join(errs...)
}

func payloadMatches(it *Item) bool {
	switch it.Kind {
	case ItemModule:
		return it.Module != nil
	case ItemFunction:
		return it.Function != nil
	case ItemVar:
		return it.Var != nil
	case ItemType:
		return it.Type != nil
	}
	return false
}

func validateType(it *Item, ref func(ItemID, string, ItemID)) {
	t := it.Type
	ref(it.ID, "inner", t.Inner)
	for _, p := range t.TemplateParams {
		ref(it.ID, "template param", p)
	}
	if t.Signature != nil {
		ref(it.ID, "return", t.Signature.Return)
		for _, a := range t.Signature.Args {
			ref(it.ID, "argument", a.Type)
		}
	}
	if t.Enum != nil {
		ref(it.ID, "repr", t.Enum.Repr)
	}
	if t.Instantiation != nil {
		ref(it.ID, "definition", t.Instantiation.Definition)
		for _, a := range t.Instantiation.Args {
			ref(it.ID, "template argument", a)
		}
	}
	if c := t.Comp; c != nil {
		for _, f := range c.Fields {
			switch {
			case f.Data != nil:
				ref(it.ID, "field", f.Data.Type)
			case f.Unit != nil:
				for _, bf := range f.Unit.Bitfields {
					ref(it.ID, "bitfield", bf.Type)
				}
			}
		}
		for _, b := range c.Bases {
			ref(it.ID, "base", b.Type)
		}
		for _, m := range c.Methods {
			ref(it.ID, "method", m.Function)
		}
		for _, inner := range c.InnerTypes {
			ref(it.ID, "inner type", inner)
		}
		for _, inner := range c.InnerVars {
			ref(it.ID, "inner var", inner)
		}
	}
	if o := t.ObjC; o != nil {
		for _, m := range o.Methods {
			ref(it.ID, "selector", m.Signature)
		}
		for _, p := range o.Conforms {
			ref(it.ID, "protocol", p)
		}
	}
}
