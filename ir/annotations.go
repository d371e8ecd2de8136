package ir

import "fmt"

// Decoration is the SPIR-V decoration enum (OpDecorate's Decoration
// operand).
type Decoration uint32

const (
	DecorationRelaxedPrecision    Decoration = 0
	DecorationSpecId              Decoration = 1
	DecorationBlock               Decoration = 2
	DecorationBufferBlock         Decoration = 3
	DecorationRowMajor            Decoration = 4
	DecorationColMajor            Decoration = 5
	DecorationArrayStride         Decoration = 6
	DecorationMatrixStride        Decoration = 7
	DecorationBuiltIn             Decoration = 11
	DecorationNoPerspective       Decoration = 13
	DecorationFlat                Decoration = 14
	DecorationNonWritable         Decoration = 24
	DecorationNonReadable         Decoration = 25
	DecorationLocation            Decoration = 30
	DecorationComponent           Decoration = 31
	DecorationIndex               Decoration = 32
	DecorationBinding             Decoration = 33
	DecorationDescriptorSet       Decoration = 34
	DecorationOffset              Decoration = 35
	DecorationInputAttachmentIndex Decoration = 43
)

// annotationKey identifies a decoration or name target: a result id and,
// for struct members, the member index (-1 when not a member).
type annotationKey struct {
	id        uint32
	memberIdx int32
}

func memberKey(id uint32, memberIdx uint32) annotationKey {
	return annotationKey{id: id, memberIdx: int32(memberIdx)}
}

func wholeKey(id uint32) annotationKey {
	return annotationKey{id: id, memberIdx: -1}
}

type decorationKey struct {
	annotationKey
	deco Decoration
}

// DecorationRegistry is keyed by (id, optional member index, decoration
// tag) and holds the raw parameter-word slice for each decoration.
type DecorationRegistry struct {
	decos map[decorationKey][]uint32
}

// NewDecorationRegistry returns an empty decoration registry.
func NewDecorationRegistry() *DecorationRegistry {
	return &DecorationRegistry{decos: make(map[decorationKey][]uint32, 64)}
}

func (r *DecorationRegistry) set(key annotationKey, deco Decoration, params []uint32) error {
	k := decorationKey{annotationKey: key, deco: deco}
	if _, exists := r.decos[k]; exists {
		return &DuplicateError{Kind: "decoration", Id: key.id}
	}
	r.decos[k] = params
	return nil
}

// Set registers a whole-target decoration. Fails if the (id, deco) key
// already exists.
func (r *DecorationRegistry) Set(id uint32, deco Decoration, params []uint32) error {
	return r.set(wholeKey(id), deco, params)
}

// SetMember registers a per-member decoration. Fails if the (id, member,
// deco) key already exists.
func (r *DecorationRegistry) SetMember(id uint32, memberIdx uint32, deco Decoration, params []uint32) error {
	return r.set(memberKey(id, memberIdx), deco, params)
}

func (r *DecorationRegistry) get(key annotationKey, deco Decoration) ([]uint32, bool) {
	params, ok := r.decos[decorationKey{annotationKey: key, deco: deco}]
	return params, ok
}

// Contains reports whether id carries deco.
func (r *DecorationRegistry) Contains(id uint32, deco Decoration) bool {
	_, ok := r.get(wholeKey(id), deco)
	return ok
}

// ContainsMember reports whether member memberIdx of id carries deco.
func (r *DecorationRegistry) ContainsMember(id uint32, memberIdx uint32, deco Decoration) bool {
	_, ok := r.get(memberKey(id, memberIdx), deco)
	return ok
}

// GetU32 returns the single-word parameter of a whole-target decoration.
func (r *DecorationRegistry) GetU32(id uint32, deco Decoration) (uint32, bool) {
	params, ok := r.get(wholeKey(id), deco)
	if !ok || len(params) < 1 {
		return 0, false
	}
	return params[0], true
}

// GetMemberU32 returns the single-word parameter of a per-member
// decoration.
func (r *DecorationRegistry) GetMemberU32(id uint32, memberIdx uint32, deco Decoration) (uint32, bool) {
	params, ok := r.get(memberKey(id, memberIdx), deco)
	if !ok || len(params) < 1 {
		return 0, false
	}
	return params[0], true
}

// AccessType derives read/write access from NonReadable/NonWritable
// presence: both -> Undefined, only NonReadable -> WriteOnly, only
// NonWritable -> ReadOnly, neither -> ReadWrite.
func (r *DecorationRegistry) AccessType(id uint32) AccessType {
	return deriveAccess(r.Contains(id, DecorationNonReadable), r.Contains(id, DecorationNonWritable))
}

// MemberAccessType is AccessType's per-member counterpart.
func (r *DecorationRegistry) MemberAccessType(id uint32, memberIdx uint32) AccessType {
	return deriveAccess(
		r.ContainsMember(id, memberIdx, DecorationNonReadable),
		r.ContainsMember(id, memberIdx, DecorationNonWritable),
	)
}

func deriveAccess(nonReadable, nonWritable bool) AccessType {
	switch {
	case nonReadable && nonWritable:
		return AccessUndefined
	case nonReadable:
		return AccessWriteOnly
	case nonWritable:
		return AccessReadOnly
	default:
		return AccessReadWrite
	}
}

// NameRegistry is keyed by (id, optional member index) and holds debug
// names from OpName/OpMemberName. Name insertion silently keeps the
// first: debug info is best-effort, unlike decorations
// which fail hard on collision.
type NameRegistry struct {
	names map[annotationKey]string
}

// NewNameRegistry returns an empty name registry.
func NewNameRegistry() *NameRegistry {
	return &NameRegistry{names: make(map[annotationKey]string, 64)}
}

// Set records a whole-target name, keeping whichever was seen first.
func (r *NameRegistry) Set(id uint32, name string) {
	k := wholeKey(id)
	if _, exists := r.names[k]; !exists {
		r.names[k] = name
	}
}

// SetMember records a per-member name, keeping whichever was seen first.
func (r *NameRegistry) SetMember(id uint32, memberIdx uint32, name string) {
	k := memberKey(id, memberIdx)
	if _, exists := r.names[k]; !exists {
		r.names[k] = name
	}
}

// Get looks up a whole-target name.
func (r *NameRegistry) Get(id uint32) (string, bool) {
	name, ok := r.names[wholeKey(id)]
	return name, ok
}

// GetMember looks up a per-member name.
func (r *NameRegistry) GetMember(id uint32, memberIdx uint32) (string, bool) {
	name, ok := r.names[memberKey(id, memberIdx)]
	return name, ok
}

// String renders a Decoration by its symbolic grammar name, falling back
// to its numeric value for decorations this table doesn't name
// (disassembly still needs to print every decoration, named or not).
func (d Decoration) String() string {
	switch d {
	case DecorationRelaxedPrecision:
		return "RelaxedPrecision"
	case DecorationSpecId:
		return "SpecId"
	case DecorationBlock:
		return "Block"
	case DecorationBufferBlock:
		return "BufferBlock"
	case DecorationRowMajor:
		return "RowMajor"
	case DecorationColMajor:
		return "ColMajor"
	case DecorationArrayStride:
		return "ArrayStride"
	case DecorationMatrixStride:
		return "MatrixStride"
	case DecorationBuiltIn:
		return "BuiltIn"
	case DecorationNoPerspective:
		return "NoPerspective"
	case DecorationFlat:
		return "Flat"
	case DecorationNonWritable:
		return "NonWritable"
	case DecorationNonReadable:
		return "NonReadable"
	case DecorationLocation:
		return "Location"
	case DecorationComponent:
		return "Component"
	case DecorationIndex:
		return "Index"
	case DecorationBinding:
		return "Binding"
	case DecorationDescriptorSet:
		return "DescriptorSet"
	case DecorationOffset:
		return "Offset"
	case DecorationInputAttachmentIndex:
		return "InputAttachmentIndex"
	default:
		return fmt.Sprintf("Decoration(%d)", uint32(d))
	}
}
