package testkit

import (
	"strings"
	"testing"
)

func TestCheckOutputInvariants(t *testing.T) {
	good := `/* automatically generated by bindgen */

pub struct point {
    pub x: i32,
}
pub const VERSION: &[u8; 4usize] = b"1}\"\0";
extern "C" {
    // unbalanced ( in a comment
    pub fn point_new() -> point;
    pub static mut counter: i32;
}
fn bindgen_test_layout_point() {
    assert_eq!(::std::mem::size_of::<point>(), 4usize);
}
`
	if err := CheckOutputInvariants(good); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cases := []struct {
		name string
		src  string
		want string
	}{
		{"unclosed", "pub struct a {\n", "unclosed"},
		{"mismatch", "fn f() { ]\n", "unbalanced"},
		{"string", "pub const S: &str = \"abc;\n", "unterminated string"},
		{"duplicate type", "pub struct a {}\npub type a = u8;\n", `type "a" already declared`},
		{"duplicate extern", "extern \"C\" {\n    pub fn f();\n}\nextern \"C\" {\n    pub fn f();\n}\n", `value "f"`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := CheckOutputInvariants(tc.src)
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("error = %v, want %q", err, tc.want)
			}
		})
	}

	if err := CheckOutputInvariants("pub struct a {}\npub fn a() {}\n"); err != nil {
		t.Fatalf("types and values live in separate namespaces: %v", err)
	}
}
