package codegen

import (
	"bindgen/internal/derive"
	"bindgen/internal/ir"
)

// withheld collects the traits the aggregate's stored members lack in the
// emitted code. Pointers are not followed: raw pointers implement every
// trait the aggregate could derive.
func (ce *compEmitter) withheld() derive.Set {
	if ce.opaque || ce.c.IsForwardDeclaration {
		return nil
	}
	var sets []derive.Set
	for _, f := range ce.c.Fields {
		if f.Kind == ir.FieldData {
			sets = append(sets, ce.gen.missingTraits(f.Data.Type))
		}
	}
	for _, base := range ce.c.Bases {
		sets = append(sets, ce.gen.missingTraits(base.Type))
	}
	return derive.Union(sets...)
}

// missingTraits returns the built-in traits a value of type id does not
// implement once emitted. The front end's facts cannot know this: whether a
// generic declaration derives anything is a generator option.
func (gen *generator) missingTraits(id ir.ItemID) derive.Set {
	id = gen.g.Canonical(id)
	if s, ok := gen.missing[id]; ok {
		return s
	}
	it := gen.g.Item(id)
	if it == nil || it.Kind != ir.ItemType {
		return nil
	}
	// Value cycles are impossible in a valid graph; the entry only stops a
	// malformed one from recursing forever.
	gen.missing[id] = nil

	var s derive.Set
	switch t := it.Type; t.Kind {
	case ir.TypeArray:
		s = gen.missingTraits(t.Inner)
	case ir.TypeComp:
		ce := &compEmitter{gen: gen, it: it, c: t.Comp, ann: gen.opts.Annotate(it.Name, it.Annotations)}
		ce.classify()
		s = derive.Missing(ce.selectDerives())
	case ir.TypeEnum:
		if style := gen.enumStyle(it); style.IsRust() || style.IsNewType() {
			ann := gen.opts.Annotate(it.Name, it.Annotations)
			s = derive.Missing(derive.Selection{Derives: derive.ForEnum(gen.opts.Derive, ann)})
		}
	case ir.TypeInstantiation:
		if def, bound, ok := gen.bindInstantiation(it); ok {
			sets := []derive.Set{gen.missingTraits(def.ID)}
			for _, p := range def.Facts.UsedTemplateParams {
				sets = append(sets, gen.missingTraits(bound[p]))
			}
			s = derive.Union(sets...)
		}
	}
	gen.missing[id] = s
	return s
}
