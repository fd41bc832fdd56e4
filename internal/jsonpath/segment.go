package jsonpath

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

var (
	ErrInvalidSegment = errors.New("invalid key-path segment")
	ErrInvalidPath    = errors.New("invalid key-path")
)

// Segment is one step of a Path.
// It is either a mapping key or a sequence index.
type Segment struct {
	key     string
	index   int
	isIndex bool
}

// Key makes a Segment that looks up a mapping key.
func Key(k string) Segment {
	return Segment{key: k}
}

// Index makes a Segment that indexes into a sequence.
func Index(i int) Segment {
	return Segment{index: i, isIndex: true}
}

// IsIndex reports the segment is a sequence index.
func (s Segment) IsIndex() bool {
	return s.isIndex
}

// Key returns the mapping key.
// For an index segment, it returns the decimal form of the index.
func (s Segment) Key() string {
	if s.isIndex {
		return strconv.Itoa(s.index)
	}
	return s.key
}

// Index returns the sequence index, or -1 for a key segment.
func (s Segment) Index() int {
	if !s.isIndex {
		return -1
	}
	return s.index
}

func (s Segment) String() string {
	if s.isIndex {
		return "[" + strconv.Itoa(s.index) + "]"
	}
	return s.key
}

func (s Segment) MarshalJSON() ([]byte, error) {
	if s.isIndex {
		return json.Marshal(s.index)
	}
	return json.Marshal(s.key)
}

func (s *Segment) UnmarshalJSON(b []byte) error {
	var raw any
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}

	switch v := raw.(type) {
	case string:
		*s = Key(v)
	case float64:
		if v != math.Trunc(v) || v < 0 || v > math.MaxInt32 {
			return fmt.Errorf("%w: %s is not a non-negative integer", ErrInvalidSegment, b)
		}
		*s = Index(int(v))
	default:
		return fmt.Errorf("%w: %s", ErrInvalidSegment, b)
	}
	return nil
}

func (s Segment) MarshalYAML() (interface{}, error) {
	if s.isIndex {
		return s.index, nil
	}
	return s.key, nil
}

func (s *Segment) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("%w: line %d: expected a string or an integer", ErrInvalidSegment, node.Line)
	}

	switch node.ShortTag() {
	case "!!int":
		i, err := strconv.Atoi(node.Value)
		if err != nil || i < 0 {
			return fmt.Errorf("%w: line %d: %s is not a non-negative integer", ErrInvalidSegment, node.Line, node.Value)
		}
		*s = Index(i)
	case "!!str":
		*s = Key(node.Value)
	default:
		return fmt.Errorf("%w: line %d: expected a string or an integer but got %s", ErrInvalidSegment, node.Line, node.Value)
	}
	return nil
}

// Path is an ordered list of segments to walk through a JSON document.
type Path []Segment

// ParsePath parses dotted notation like "status.description" or "components[0].status".
func ParsePath(s string) (Path, error) {
	var p Path

	rest := s
	for rest != "" {
		switch rest[0] {
		case '.':
			rest = rest[1:]
			if rest == "" || rest[0] == '.' || rest[0] == '[' {
				return nil, fmt.Errorf("%w: %q: empty key", ErrInvalidPath, s)
			}
		case '[':
			end := strings.IndexByte(rest, ']')
			if end < 0 {
				return nil, fmt.Errorf("%w: %q: missing ]", ErrInvalidPath, s)
			}
			i, err := strconv.Atoi(rest[1:end])
			if err != nil || i < 0 {
				return nil, fmt.Errorf("%w: %q: %q is not a non-negative integer", ErrInvalidPath, s, rest[1:end])
			}
			p = append(p, Index(i))
			rest = rest[end+1:]
		default:
			end := strings.IndexAny(rest, ".[")
			if end < 0 {
				end = len(rest)
			}
			p = append(p, Key(rest[:end]))
			rest = rest[end:]
		}
	}

	return p, nil
}

func (p Path) String() string {
	var sb strings.Builder
	for i, s := range p {
		if i > 0 && !s.isIndex {
			sb.WriteByte('.')
		}
		sb.WriteString(s.String())
	}
	return sb.String()
}

// UnmarshalYAML accepts both a list of segments and a dotted string.
func (p *Path) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		parsed, err := ParsePath(node.Value)
		if err != nil {
			return err
		}
		*p = parsed
		return nil
	}

	var ss []Segment
	if err := node.Decode(&ss); err != nil {
		return err
	}
	*p = ss
	return nil
}

// UnmarshalJSON accepts both a list of segments and a dotted string.
func (p *Path) UnmarshalJSON(b []byte) error {
	var str string
	if err := json.Unmarshal(b, &str); err == nil {
		parsed, err := ParsePath(str)
		if err != nil {
			return err
		}
		*p = parsed
		return nil
	}

	var ss []Segment
	if err := json.Unmarshal(b, &ss); err != nil {
		return err
	}
	*p = ss
	return nil
}
