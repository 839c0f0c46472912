// Package testkit holds checks shared by the generator tests.
package testkit

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	topLevelDecl = regexp.MustCompile(`^(?:pub(?:\([a-z]+\))? )?(struct|union|enum|type|const|mod|trait|fn) ([A-Za-z_][A-Za-z0-9_]*)`)
	externDecl   = regexp.MustCompile(`^    (?:pub(?:\([a-z]+\))? )?(fn|static mut|static) ([A-Za-z_][A-Za-z0-9_]*)`)
)

// CheckOutputInvariants runs structural checks on generated Rust source:
//  1. brackets, braces and parentheses are balanced outside strings and
//     comments
//  2. no two top-level declarations of the same namespace share a name
//  3. no two extern declarations share a name
func CheckOutputInvariants(src string) error {
	if err := checkBalanced(src); err != nil {
		return err
	}
	return checkUniqueNames(src)
}

func checkBalanced(src string) error {
	var stack []byte
	line := 1
	pairs := map[byte]byte{')': '(', ']': '[', '}': '{'}
	for i := 0; i < len(src); i++ {
		c := src[i]
		switch {
		case c == '\n':
			line++
		case c == '/' && i+1 < len(src) && src[i+1] == '/':
			for i < len(src) && src[i] != '\n' {
				i++
			}
			line++
		case c == '/' && i+1 < len(src) && src[i+1] == '*':
			end := strings.Index(src[i+2:], "*/")
			if end < 0 {
				return fmt.Errorf("line %d: unterminated block comment", line)
			}
			line += strings.Count(src[i:i+2+end], "\n")
			i += end + 3
		case c == '"':
			i++
			for i < len(src) && src[i] != '"' {
				if src[i] == '\\' {
					i++
				} else if src[i] == '\n' {
					line++
				}
				i++
			}
			if i >= len(src) {
				return fmt.Errorf("line %d: unterminated string", line)
			}
		case c == '(' || c == '[' || c == '{':
			stack = append(stack, c)
		case c == ')' || c == ']' || c == '}':
			if len(stack) == 0 || stack[len(stack)-1] != pairs[c] {
				return fmt.Errorf("line %d: unbalanced %q", line, c)
			}
			stack = stack[:len(stack)-1]
		}
	}
	if len(stack) > 0 {
		return fmt.Errorf("%d unclosed delimiters, innermost %q", len(stack), stack[len(stack)-1])
	}
	return nil
}

// namespaceOf groups declaration kinds that may not share a name.
func namespaceOf(kind string) string {
	switch kind {
	case "const", "static", "static mut", "fn":
		return "value"
	case "mod":
		return "module"
	}
	return "type"
}

func checkUniqueNames(src string) error {
	seen := make(map[string]int)
	inExtern := false
	for n, line := range strings.Split(src, "\n") {
		if strings.HasPrefix(line, "extern ") && strings.HasSuffix(line, "{") {
			inExtern = true
			continue
		}
		if inExtern {
			if line == "}" {
				inExtern = false
				continue
			}
			if m := externDecl.FindStringSubmatch(line); m != nil {
				if err := record(seen, namespaceOf(m[1]), m[2], n+1); err != nil {
					return err
				}
			}
			continue
		}
		if m := topLevelDecl.FindStringSubmatch(line); m != nil {
			if err := record(seen, namespaceOf(m[1]), m[2], n+1); err != nil {
				return err
			}
		}
	}
	return nil
}

func record(seen map[string]int, ns, name string, line int) error {
	key := ns + ":" + name
	if prev, ok := seen[key]; ok {
		return fmt.Errorf("line %d: %s %q already declared on line %d", line, ns, name, prev)
	}
	seen[key] = line
	return nil
}
