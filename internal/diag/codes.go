package diag

import (
	"fmt"
)

type Code uint16

const (
	UnknownCode Code = 0

	// Code generation: a declaration was skipped.
	CgnInfo              Code = 1000
	CgnUnsupportedABI    Code = 1001
	CgnPureVirtual       Code = 1002
	CgnVariadicInternal  Code = 1003
	CgnInternalSymbol    Code = 1004
	CgnDuplicateLinkName Code = 1005
	CgnTemplateFunction  Code = 1006
	CgnVariadicMethod    Code = 1007
	CgnWrapperType       Code = 1008
	CgnHidden            Code = 1009

	// Layout: best-effort degradation.
	LayInfo              Code = 2000
	LayUnknownLayout     Code = 2001
	LayUnknownAttribute  Code = 2002
	LayOpaqueTemplateArg Code = 2003
	LayUnsupportedAlign  Code = 2004
	LayEnumReprDefault   Code = 2005
	LayBitfieldOverflow  Code = 2006
	LayPackedGeneric     Code = 2007

	// Configuration.
	CfgInfo         Code = 3000
	CfgInvalidRegex Code = 3001
	CfgUnknownKey   Code = 3002
	CfgInvalidValue Code = 3003

	// Input/output of the outer shell.
	IOInfo         Code = 4000
	IOReadFailed   Code = 4001
	IOWriteFailed  Code = 4002
	IOInvalidGraph Code = 4003
	IOOutputClash  Code = 4004
)

var (
	codeDescription = map[Code]string{
		UnknownCode:          "Unknown error",
		CgnInfo:              "Code generation information",
		CgnUnsupportedABI:    "Function uses an unsupported calling convention",
		CgnPureVirtual:       "Pure virtual method has no symbol",
		CgnVariadicInternal:  "Variadic internal function cannot be wrapped",
		CgnInternalSymbol:    "Internal function skipped",
		CgnDuplicateLinkName: "Link name already emitted",
		CgnTemplateFunction:  "Template function has no fixed instantiation",
		CgnVariadicMethod:    "Variadic method cannot be exposed as a method",
		CgnWrapperType:       "Type cannot be spelled in the C wrapper file",
		CgnHidden:            "Declaration hidden by annotation",
		LayInfo:              "Layout information",
		LayUnknownLayout:     "Layout unknown, using a one byte placeholder",
		LayUnknownAttribute:  "Unknown attribute may affect layout",
		LayOpaqueTemplateArg: "Template instantiation emitted as an opaque blob",
		LayUnsupportedAlign:  "Alignment cannot be expressed for this target",
		LayEnumReprDefault:   "Enum has no fixed underlying type",
		LayBitfieldOverflow:  "Bitfield does not fit its storage unit",
		LayPackedGeneric:     "Packed generic aggregate emitted without derived capabilities",
		CfgInfo:              "Configuration information",
		CfgInvalidRegex:      "Invalid pattern",
		CfgUnknownKey:        "Unknown configuration key",
		CfgInvalidValue:      "Invalid configuration value",
		IOInfo:               "I/O information",
		IOReadFailed:         "Failed to read input",
		IOWriteFailed:        "Failed to write output",
		IOInvalidGraph:       "Declaration graph is malformed",
		IOOutputClash:        "Several inputs map to the same output file",
	}
)

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("CGN%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("LAY%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("CFG%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("IO%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
