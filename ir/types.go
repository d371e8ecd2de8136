package ir

// Id types. Structurally uint32, kept distinct for clarity at call sites.
type (
	TypeId     uint32
	ConstantId uint32
	VariableId uint32
	FunctionId uint32
)

// Type is the sum type over every reconstructed SPIR-V type. Every variant
// carries the TypeId it was declared under, so diagnostics can always name
// the offending declaration.
type Type interface {
	typeInner()
	// DefiningId returns the TypeId this type was registered under.
	DefiningId() TypeId
}

// ScalarKind distinguishes the scalar flavors SPIR-V supports.
type ScalarKind uint8

const (
	ScalarVoid ScalarKind = iota
	ScalarBool
	ScalarInt
	ScalarFloat
)

// ScalarType is {Void, Bool, Int(bits, signed), Float(bits)}.
type ScalarType struct {
	Id       TypeId
	Kind     ScalarKind
	Bits     uint32 // 0 for Void and Bool
	IsSigned bool   // only meaningful for Kind == ScalarInt
}

func (ScalarType) typeInner()          {}
func (t ScalarType) DefiningId() TypeId { return t.Id }

// VectorType is a scalar repeated Count times (2..=4 in practice).
type VectorType struct {
	Id     TypeId
	Scalar ScalarType
	Count  uint32
}

func (VectorType) typeInner()          {}
func (t VectorType) DefiningId() TypeId { return t.Id }

// MatrixAxisOrder distinguishes row-major from column-major matrix layout.
type MatrixAxisOrder uint8

const (
	AxisOrderUnknown MatrixAxisOrder = iota
	AxisOrderRowMajor
	AxisOrderColumnMajor
)

// MatrixType is a matrix of Columns vectors. Stride and axis order are only
// known once the enclosing struct's member decorations have been applied;
// until then they are zero/AxisOrderUnknown.
type MatrixType struct {
	Id          TypeId
	Vector      VectorType
	Columns     uint32
	Stride      *uint32
	AxisOrder   MatrixAxisOrder
}

func (MatrixType) typeInner()          {}
func (t MatrixType) DefiningId() TypeId { return t.Id }

// Dim is the SPIR-V image dimensionality.
type Dim uint32

const (
	Dim1D Dim = iota
	Dim2D
	Dim3D
	DimCube
	DimRect
	DimBuffer
	DimSubpassData
)

// Tristate models SPIR-V's {0, 1, 2} literal tri-state operands, where 2
// conventionally means "unknown at compile time".
type Tristate uint8

const (
	TristateFalse Tristate = iota
	TristateTrue
	TristateUnknown
)

// ImageFormat is the SPIR-V image storage format enum (OpTypeImage's
// Image Format operand). Only the subset reflection needs to round-trip is
// named; everything else keeps its raw numeric value.
type ImageFormat uint32

const (
	ImageFormatUnknown ImageFormat = 0
	ImageFormatRgba32f  ImageFormat = 1
	ImageFormatRgba16f  ImageFormat = 2
	ImageFormatR32f     ImageFormat = 3
	ImageFormatRgba8    ImageFormat = 4
	ImageFormatRgba8Snorm ImageFormat = 5
	ImageFormatRg32f    ImageFormat = 6
	ImageFormatRg16f    ImageFormat = 7
	ImageFormatR11fG11fB10f ImageFormat = 8
	ImageFormatR16f     ImageFormat = 9
	ImageFormatRgba16   ImageFormat = 10
	ImageFormatRgb10A2  ImageFormat = 11
	ImageFormatRg16     ImageFormat = 12
	ImageFormatRg8      ImageFormat = 13
	ImageFormatR16      ImageFormat = 14
	ImageFormatR8       ImageFormat = 15
	ImageFormatRgba32i  ImageFormat = 21
	ImageFormatRgba8i   ImageFormat = 23
	ImageFormatR32i     ImageFormat = 24
	ImageFormatRgba32ui ImageFormat = 30
	ImageFormatRgba8ui  ImageFormat = 32
	ImageFormatR32ui    ImageFormat = 33
)

// ImageType is a non-subpass-data OpTypeImage.
type ImageType struct {
	Id             TypeId
	Scalar         ScalarType
	Dim            Dim
	IsDepth        Tristate
	IsArrayed      bool
	IsMultisampled bool
	IsSampled      Tristate
	Format         ImageFormat
}

func (ImageType) typeInner()          {}
func (t ImageType) DefiningId() TypeId { return t.Id }

// SamplerType carries no payload; SPIR-V does not distinguish color and
// depth/stencil samplers.
type SamplerType struct{ Id TypeId }

func (SamplerType) typeInner()          {}
func (t SamplerType) DefiningId() TypeId { return t.Id }

// SampledImageType is an OpTypeSampledImage: an image already paired with
// a sampler, reported as a combined image-sampler descriptor.
type SampledImageType struct {
	Id             TypeId
	Scalar         ScalarType
	Dim            Dim
	IsArrayed      bool
	IsMultisampled bool
}

func (SampledImageType) typeInner()          {}
func (t SampledImageType) DefiningId() TypeId { return t.Id }

// StorageImageType describes a storage image (OpTypeImage with Sampled=2).
// Reflection does not construct it: storage images keep their ImageType.
type StorageImageType struct {
	Id             TypeId
	Dim            Dim
	IsArrayed      bool
	IsMultisampled bool
	Format         ImageFormat
}

func (StorageImageType) typeInner()          {}
func (t StorageImageType) DefiningId() TypeId { return t.Id }

// CombinedImageSamplerType is the result of folding a separately declared
// sampler and sampled image together (Options.CombineImgSamplers).
type CombinedImageSamplerType struct {
	Id     TypeId
	Image  SampledImageType
}

func (CombinedImageSamplerType) typeInner()          {}
func (t CombinedImageSamplerType) DefiningId() TypeId { return t.Id }

// SubpassDataType is an OpTypeImage with Dim == DimSubpassData.
type SubpassDataType struct {
	Id             TypeId
	Scalar         ScalarType
	IsMultisampled bool
}

func (SubpassDataType) typeInner()          {}
func (t SubpassDataType) DefiningId() TypeId { return t.Id }

// ArrayType is OpTypeArray (Count != nil) or OpTypeRuntimeArray (Count ==
// nil). Stride is present for arrays of data and absent for arrays used
// solely as multi-binding descriptor groups.
type ArrayType struct {
	Id      TypeId
	Element Type
	Count   *uint32
	Stride  *uint32
}

func (ArrayType) typeInner()          {}
func (t ArrayType) DefiningId() TypeId { return t.Id }

// AccessType is derived from NonReadable/NonWritable decorations.
type AccessType uint8

const (
	AccessReadWrite AccessType = iota
	AccessReadOnly
	AccessWriteOnly
	AccessUndefined
)

// StructMember is one field of a StructType.
type StructMember struct {
	Name   *string
	Offset *uint32 // required for exposed blocks, absent for I/O blocks
	Type   Type
	Access AccessType
}

// StructType is OpTypeStruct.
type StructType struct {
	Id      TypeId
	Name    *string
	Members []StructMember
}

func (StructType) typeInner()          {}
func (t StructType) DefiningId() TypeId { return t.Id }

// StorageClass mirrors SPIR-V's pointer storage-class enum.
type StorageClass uint32

const (
	StorageClassUniformConstant StorageClass = 0
	StorageClassInput           StorageClass = 1
	StorageClassUniform         StorageClass = 2
	StorageClassOutput          StorageClass = 3
	StorageClassWorkgroup       StorageClass = 4
	StorageClassCrossWorkgroup  StorageClass = 5
	StorageClassPrivate         StorageClass = 6
	StorageClassFunction        StorageClass = 7
	StorageClassGeneric         StorageClass = 8
	StorageClassPushConstant    StorageClass = 9
	StorageClassAtomicCounter   StorageClass = 10
	StorageClassImage           StorageClass = 11
	StorageClassStorageBuffer   StorageClass = 12
	StorageClassPhysicalStorageBuffer StorageClass = 5349
)

// PointerType is OpTypePointer. StoreClass has already had the pre-1.3
// Uniform+BufferBlock rewrite applied at type-registration time (see §3
// at type-registration time); nothing downstream needs to special-case
// BufferBlock again.
type PointerType struct {
	Id         TypeId
	Pointee    Type
	StoreClass StorageClass
}

func (PointerType) typeInner()          {}
func (t PointerType) DefiningId() TypeId { return t.Id }

// ForwardPointerType is a sentinel installed by OpTypeForwardPointer and
// patched in place once the matching OpTypePointer is seen. A
// ForwardPointerType surviving un-patched to projection time means the
// forward target was never defined; dependent variables are silently
// dropped (see §9).
type ForwardPointerType struct {
	Id         TypeId
	StoreClass StorageClass
}

func (ForwardPointerType) typeInner()          {}
func (t ForwardPointerType) DefiningId() TypeId { return t.Id }

// AccelerationStructureType, RayQueryType and DeviceAddressType carry no
// payload.
type (
	AccelerationStructureType struct{ Id TypeId }
	RayQueryType              struct{ Id TypeId }
	DeviceAddressType         struct{ Id TypeId }
)

func (AccelerationStructureType) typeInner()          {}
func (t AccelerationStructureType) DefiningId() TypeId { return t.Id }
func (RayQueryType) typeInner()                        {}
func (t RayQueryType) DefiningId() TypeId              { return t.Id }
func (DeviceAddressType) typeInner()                   {}
func (t DeviceAddressType) DefiningId() TypeId          { return t.Id }
