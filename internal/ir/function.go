package ir

// ABI is a calling convention.
type ABI uint8

const (
	ABIC ABI = iota
	ABIStdcall
	ABIFastcall
	ABIThiscall
	ABIVectorcall
	ABIAapcs
	ABIWin64
	ABISysV64
	ABICUnwind
	ABIEfiapi
	ABIUnknown
)

var abiNames = [...]string{
	ABIC:          "C",
	ABIStdcall:    "stdcall",
	ABIFastcall:   "fastcall",
	ABIThiscall:   "thiscall",
	ABIVectorcall: "vectorcall",
	ABIAapcs:      "aapcs",
	ABIWin64:      "win64",
	ABISysV64:     "sysv64",
	ABICUnwind:    "C-unwind",
	ABIEfiapi:     "efiapi",
	ABIUnknown:    "unknown",
}

func (a ABI) String() string {
	if int(a) < len(abiNames) {
		return abiNames[a]
	}
	return "unknown"
}

// Arg is one parameter of a signature; Name may be empty.
type Arg struct {
	Name string `msgpack:"name,omitempty"`
	Type ItemID `msgpack:"type"`
}

// Signature is the payload of a TypeFunction. Method signatures include the
// implicit this pointer as their first argument.
type Signature struct {
	Args        []Arg  `msgpack:"args,omitempty"`
	Return      ItemID `msgpack:"ret,omitempty"` // NoItemID or a void type means no value
	ABI         ABI    `msgpack:"abi,omitempty"`
	IsVariadic  bool   `msgpack:"variadic,omitempty"`
	MustUse     bool   `msgpack:"must_use,omitempty"`
	IsDivergent bool   `msgpack:"noreturn,omitempty"`
}

// Linkage of a function symbol.
type Linkage uint8

const (
	LinkageExternal Linkage = iota
	LinkageInternal
)

// Function is a free function or the symbol behind a C++ method.
type Function struct {
	// Signature refers to a type item of kind TypeFunction.
	Signature   ItemID  `msgpack:"sig"`
	MangledName string  `msgpack:"mangled,omitempty"`
	LinkName    string  `msgpack:"link_name,omitempty"`
	Linkage     Linkage `msgpack:"linkage,omitempty"`
	// Method is the owning method kind, zero for free functions.
	Method MethodKind `msgpack:"method,omitempty"`
	IsPure bool       `msgpack:"pure,omitempty"`
}

// IsMethod reports whether the function implements a C++ member.
func (f *Function) IsMethod() bool { return f.Method != 0 }
