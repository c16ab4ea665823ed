// Package raw implements the HEOS raw command shape: (group, name,
// params) and the reflection-based serializer that builds it from
// typed command structs, grounded in spirit on the original's custom
// serde::Serializer (command/raw/ser.rs) but expressed as a small Go
// reflect walk with struct tags instead of a trait-based visitor.
package raw

import (
	"fmt"
	"net/url"
	"sort"
	"strings"
)

// Command is (group, name, params). Its textual form is
// heos://<group>/<name>[?k1=v1&k2=v2...]; parameter order in the
// output string does not matter for correctness but is sorted for
// determinism (tests and logs benefit from stable output).
type Command struct {
	Group  string
	Name   string
	Params map[string]string
}

// New builds a Command with an empty parameter set.
func New(group, name string) Command {
	return Command{Group: group, Name: name, Params: map[string]string{}}
}

// Set assigns a single parameter, overwriting any existing value.
func (c Command) Set(key, value string) Command {
	c.Params[key] = value
	return c
}

// String renders the canonical heos://group/name?k=v&... form.
func (c Command) String() string {
	var b strings.Builder
	b.WriteString("heos://")
	b.WriteString(c.Group)
	b.WriteString("/")
	b.WriteString(c.Name)
	if len(c.Params) == 0 {
		return b.String()
	}
	keys := make([]string, 0, len(c.Params))
	for k := range c.Params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	b.WriteString("?")
	for i, k := range keys {
		if i > 0 {
			b.WriteString("&")
		}
		b.WriteString(url.QueryEscape(k))
		b.WriteString("=")
		b.WriteString(url.QueryEscape(c.Params[k]))
	}
	return b.String()
}

// ParseLine parses a full request line (heos://group/name[?params])
// back into a Command. Used by the mock backend to decode inbound
// lines the same way a real device's firmware would.
func ParseLine(s string) (Command, error) {
	const prefix = "heos://"
	if !strings.HasPrefix(s, prefix) {
		return Command{}, fmt.Errorf("raw: line %q missing %q prefix", s, prefix)
	}
	rest := s[len(prefix):]
	path := rest
	var query string
	if idx := strings.IndexByte(rest, '?'); idx >= 0 {
		path = rest[:idx]
		query = rest[idx+1:]
	}
	slash := strings.IndexByte(path, '/')
	if slash < 0 {
		return Command{}, fmt.Errorf("raw: line %q missing group/name separator", s)
	}
	group, name := path[:slash], path[slash+1:]
	params := map[string]string{}
	if query != "" {
		v, err := url.ParseQuery(query)
		if err != nil {
			return Command{}, fmt.Errorf("raw: parse params: %w", err)
		}
		for k := range v {
			params[k] = v.Get(k)
		}
	}
	return Command{Group: group, Name: name, Params: params}, nil
}

// ParseParams parses a rendered query string back into a parameter
// map.
func ParseParams(s string) (map[string]string, error) {
	idx := strings.IndexByte(s, '?')
	if idx < 0 {
		return map[string]string{}, nil
	}
	v, err := url.ParseQuery(s[idx+1:])
	if err != nil {
		return nil, fmt.Errorf("raw: parse params: %w", err)
	}
	out := make(map[string]string, len(v))
	for k := range v {
		out[k] = v.Get(k)
	}
	return out, nil
}

// InvalidTopLevelError reports that a value passed to Encode does not
// behave like a struct or map at its top level.
type InvalidTopLevelError struct {
	Kind string
}

func (e *InvalidTopLevelError) Error() string {
	return fmt.Sprintf("raw: invalid top-level type for command params: %s (must be struct or map)", e.Kind)
}

// SerializationError reports a value the serializer cannot represent,
// e.g. a nested struct at a non-flattened position.
type SerializationError struct {
	Field  string
	Reason string
}

func (e *SerializationError) Error() string {
	return fmt.Sprintf("raw: cannot serialize field %q: %s", e.Field, e.Reason)
}
