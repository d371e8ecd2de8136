package reflect

import (
	"fmt"

	"github.com/gogpu/spirvreflect/ir"
)

// Validate runs a set of post-hoc sanity checks over already-reflected
// entry points. It is not part of Reflect's own error path — Reflect
// rejects a malformed module outright, while Validate looks for
// reflected output that is structurally well-formed but internally
// inconsistent in a way a downstream consumer (a pipeline layout
// builder, say) would trip over. Every check accumulates independently;
// Validate returns every violation it finds rather than stopping at the
// first.
func Validate(entryPoints []ir.EntryPoint) []*Error {
	var errs []*Error
	for _, ep := range entryPoints {
		errs = append(errs, validateEntryPoint(ep)...)
	}
	return errs
}

func validateEntryPoint(ep ir.EntryPoint) []*Error {
	var errs []*Error

	type bindingKey struct{ set, binding uint32 }
	seenBindings := make(map[bindingKey]struct{})

	type locationKey struct {
		loc uint32
		dir ir.Direction
	}
	seenLocations := make(map[locationKey]struct{})
	seenStructs := make(map[ir.TypeId]struct{})

	for _, v := range ep.Vars {
		switch x := v.(type) {
		case ir.DescriptorVariable:
			k := bindingKey{x.Set, x.Binding}
			if _, dup := seenBindings[k]; dup {
				errs = append(errs, NewError(ErrDuplicateDecoration,
					fmt.Sprintf("entry point %q: descriptor set=%d binding=%d reported twice", ep.Name, x.Set, x.Binding)))
				continue
			}
			seenBindings[k] = struct{}{}
			errs = append(errs, validateStructOffsets(ep.Name, x.Type, seenStructs)...)

		case ir.InputVariable:
			k := locationKey{x.Location, ir.DirectionInput}
			if _, dup := seenLocations[k]; dup {
				errs = append(errs, NewError(ErrDuplicateDecoration,
					fmt.Sprintf("entry point %q: input location=%d reported twice", ep.Name, x.Location)))
				continue
			}
			seenLocations[k] = struct{}{}

		case ir.OutputVariable:
			k := locationKey{x.Location, ir.DirectionOutput}
			if _, dup := seenLocations[k]; dup {
				errs = append(errs, NewError(ErrDuplicateDecoration,
					fmt.Sprintf("entry point %q: output location=%d reported twice", ep.Name, x.Location)))
				continue
			}
			seenLocations[k] = struct{}{}

		case ir.PushConstantVariable:
			if _, ok := x.Type.(ir.StructType); !ok {
				errs = append(errs, NewError(ErrMissingRequiredDecoration,
					fmt.Sprintf("entry point %q: push constant block is not a struct", ep.Name)))
			}
			errs = append(errs, validateStructOffsets(ep.Name, x.Type, seenStructs)...)
		}
	}

	errs = append(errs, validateDescriptorReachability(ep)...)

	return errs
}

// validateStructOffsets walks a descriptor's or push constant's type,
// recursing through arrays and nested structs, and checks that every
// struct's Offset-decorated members appear in non-decreasing byte order.
// A struct visited by more than one variable of the same entry point is
// only checked once: seen is shared across that entry point's variables.
func validateStructOffsets(epName string, ty ir.Type, seen map[ir.TypeId]struct{}) []*Error {
	return walkStructOffsets(epName, ty, seen)
}

func walkStructOffsets(epName string, ty ir.Type, seen map[ir.TypeId]struct{}) []*Error {
	switch t := ty.(type) {
	case ir.StructType:
		if _, dup := seen[t.Id]; dup {
			return nil
		}
		seen[t.Id] = struct{}{}

		var errs []*Error
		var prevOffset uint32
		havePrev := false
		for _, m := range t.Members {
			if m.Offset != nil {
				if havePrev && *m.Offset < prevOffset {
					errs = append(errs, NewError(ErrMisorderedOffset,
						fmt.Sprintf("entry point %q: struct %d member offset %d precedes an earlier member's offset %d", epName, t.Id, *m.Offset, prevOffset)))
				}
				prevOffset = *m.Offset
				havePrev = true
			}
			errs = append(errs, walkStructOffsets(epName, m.Type, seen)...)
		}
		return errs

	case ir.ArrayType:
		return walkStructOffsets(epName, t.Element, seen)

	default:
		return nil
	}
}

// validateDescriptorReachability checks the invariant the projector's
// liveness pruning promises: when ref_all_rscs was false at projection
// time, every descriptor variable that survived pruning must carry a
// fully resolved descriptor and pointee type (classify never emits a
// DescriptorVariable without both, so a nil here means the object graph
// was built or mutated outside the normal projection path).
func validateDescriptorReachability(ep ir.EntryPoint) []*Error {
	if ep.AllResourcesReferenced {
		return nil
	}
	var errs []*Error
	for _, v := range ep.Vars {
		d, ok := v.(ir.DescriptorVariable)
		if !ok {
			continue
		}
		if d.DescType == nil || d.Type == nil {
			errs = append(errs, NewError(ErrUnresolvedDescriptor,
				fmt.Sprintf("entry point %q: descriptor set=%d binding=%d has no resolved type after liveness pruning", ep.Name, d.Set, d.Binding)))
		}
	}
	return errs
}
