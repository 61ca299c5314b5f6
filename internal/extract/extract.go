// Package extract scans free-form narrative text for lines that are valid
// invocations of the agent's closed operation set. Everything that does not
// parse is narrative, not an error; extraction never fails.
package extract

import (
	"regexp"
	"strings"
)

// Operations is the closed set of invocable operation names. The grammar is
// exhaustive over this set; nothing else is ever honored.
var Operations = []string{
	"click", "double_click", "right_click", "drag",
	"write", "remember", "recall",
}

var operationSet = func() map[string]struct{} {
	m := make(map[string]struct{}, len(Operations))
	for _, op := range Operations {
		m[op] = struct{}{}
	}
	return m
}()

// IsOperation reports whether name is a member of the closed operation set.
func IsOperation(name string) bool {
	_, ok := operationSet[name]
	return ok
}

// OperationList returns the operation names joined for hint text.
func OperationList() string {
	return strings.Join(Operations, ", ")
}

// fenceRE matches markdown code fences with an optional language tag.
var fenceRE = regexp.MustCompile("(?s)```[a-zA-Z0-9_+-]*[ \t]*\r?\n(.*?)```")

// Extract returns the ordered, deduplicated list of distinct literal lines
// in raw that parse as a call to a whitelisted operation. Fenced code block
// contents are scanned first as preferred candidates, but bare invocation
// lines anywhere in the raw text are picked up as well.
func Extract(raw string) []string {
	var sources []string
	if fenced := fenceRE.FindAllStringSubmatch(raw, -1); len(fenced) > 0 {
		blocks := make([]string, 0, len(fenced))
		for _, m := range fenced {
			blocks = append(blocks, strings.TrimSpace(m[1]))
		}
		sources = append(sources, strings.Join(blocks, "\n"))
	}
	sources = append(sources, raw)

	seen := make(map[string]struct{})
	var out []string
	for _, source := range sources {
		for _, line := range strings.Split(source, "\n") {
			stripped := strings.TrimSpace(line)
			if stripped == "" {
				continue
			}
			if _, dup := seen[stripped]; dup {
				continue
			}
			seen[stripped] = struct{}{}

			inv, err := ParseInvocation(stripped)
			if err != nil {
				continue
			}
			if !IsOperation(inv.Name) {
				continue
			}
			out = append(out, stripped)
		}
	}
	return out
}
