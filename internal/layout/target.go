package layout

import "strings"

// MaxGuaranteedAlign is the largest alignment a zero-length array marker can
// enforce without repr(align).
const MaxGuaranteedAlign = 8

// Target describes the ABI target and what the emitted language supports on it.
type Target struct {
	Triple   string // e.g. "x86_64-unknown-linux-gnu"
	PtrSize  int    // bytes
	PtrAlign int    // bytes

	// SupportsReprAlign allows #[repr(align(N))]; without it alignment is
	// enforced with zero-length array markers.
	SupportsReprAlign bool
	// CharSigned is the signedness of plain char.
	CharSigned bool
}

func X86_64LinuxGNU() Target {
	return Target{
		Triple:            "x86_64-unknown-linux-gnu",
		PtrSize:           8,
		PtrAlign:          8,
		SupportsReprAlign: true,
		CharSigned:        true,
	}
}

func Aarch64LinuxGNU() Target {
	return Target{
		Triple:            "aarch64-unknown-linux-gnu",
		PtrSize:           8,
		PtrAlign:          8,
		SupportsReprAlign: true,
		CharSigned:        false,
	}
}

func I686LinuxGNU() Target {
	return Target{
		Triple:            "i686-unknown-linux-gnu",
		PtrSize:           4,
		PtrAlign:          4,
		SupportsReprAlign: true,
		CharSigned:        true,
	}
}

// TargetByTriple returns a known target. The vendor component is optional,
// so "x86_64-linux-gnu" matches too.
func TargetByTriple(triple string) (Target, bool) {
	norm := strings.Replace(triple, "-unknown-", "-", 1)
	for _, t := range []Target{X86_64LinuxGNU(), Aarch64LinuxGNU(), I686LinuxGNU()} {
		if t.Triple == triple || strings.Replace(t.Triple, "-unknown-", "-", 1) == norm {
			return t, true
		}
	}
	return Target{}, false
}
