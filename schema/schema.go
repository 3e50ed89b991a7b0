// Package schema loads a log-format schema document and compiles its
// regex patterns into ASTs and NFAs, producing an immutable Config
// shared by the lexer and log parser for the lifetime of a parse session.
package schema

import (
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/logsurgeon/logsurgeon/ast"
	"github.com/logsurgeon/logsurgeon/errs"
	"github.com/logsurgeon/logsurgeon/nfa"
	"github.com/logsurgeon/logsurgeon/regexparser"
)

// VariablePattern is one named variable pattern, keeping both its source
// regex and the compiled forms the lexer fuses together.
type VariablePattern struct {
	Name  string
	Regex string
	AST   ast.Node
	NFA   *nfa.NFA
}

// TimestampPattern is one timestamp pattern, in schema declaration order.
type TimestampPattern struct {
	Regex string
	AST   ast.Node
	NFA   *nfa.NFA
}

// Config is the compiled, read-only schema: ordered timestamp patterns,
// ordered named variable patterns, and a 128-entry delimiter table. Once
// built it is never mutated; share it by reference across a Lexer and a
// LogParser rather than copying it per instance.
type Config struct {
	Timestamps []TimestampPattern
	Variables  []VariablePattern
	delimiter  [128]bool
}

// ParseFromFile reads and compiles the schema document at path.
func ParseFromFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &errs.IOError{Err: err}
	}
	defer f.Close()
	return ParseFromReader(f)
}

// ParseFromReader reads and compiles a schema document from r.
func ParseFromReader(r io.Reader) (*Config, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, &errs.IOError{Err: err}
	}
	return ParseFromString(string(data))
}

// ParseFromString compiles a schema document already in memory.
func ParseFromString(src string) (*Config, error) {
	var root yaml.Node
	if err := yaml.Unmarshal([]byte(src), &root); err != nil {
		return nil, &errs.YAMLParsingError{Err: err}
	}
	if len(root.Content) == 0 {
		return nil, &errs.InvalidSchemaError{Reason: "document is empty"}
	}
	mapping := root.Content[0]
	if mapping.Kind != yaml.MappingNode {
		return nil, &errs.InvalidSchemaError{Reason: "document root is not a mapping"}
	}

	present := map[string]*yaml.Node{}
	for i := 0; i+1 < len(mapping.Content); i += 2 {
		present[mapping.Content[i].Value] = mapping.Content[i+1]
	}

	tsNode, ok := present["timestamp"]
	if !ok {
		return nil, &errs.MissingSchemaKeyError{Key: "timestamp"}
	}
	varNode, ok := present["variables"]
	if !ok {
		return nil, &errs.MissingSchemaKeyError{Key: "variables"}
	}
	delimNode, ok := present["delimiters"]
	if !ok {
		return nil, &errs.MissingSchemaKeyError{Key: "delimiters"}
	}

	timestamps, err := decodeTimestamps(tsNode)
	if err != nil {
		return nil, err
	}
	variables, err := decodeVariables(varNode)
	if err != nil {
		return nil, err
	}
	delimiters, err := decodeDelimiters(delimNode)
	if err != nil {
		return nil, err
	}

	cfg := &Config{}
	for _, c := range delimiters {
		cfg.delimiter[c] = true
	}
	cfg.delimiter['\n'] = true // always a delimiter, regardless of schema

	for _, pattern := range timestamps {
		root, nfaPattern, err := compilePattern(pattern)
		if err != nil {
			return nil, err
		}
		cfg.Timestamps = append(cfg.Timestamps, TimestampPattern{Regex: pattern, AST: root, NFA: nfaPattern})
	}
	for _, v := range variables {
		root, nfaPattern, err := compilePattern(v.regex)
		if err != nil {
			return nil, err
		}
		cfg.Variables = append(cfg.Variables, VariablePattern{Name: v.name, Regex: v.regex, AST: root, NFA: nfaPattern})
	}
	return cfg, nil
}

// compilePattern parses pattern once and builds both the AST (owned by the
// Config) and its compiled NFA from that single parse.
func compilePattern(pattern string) (ast.Node, *nfa.NFA, error) {
	root, err := regexparser.Parse(pattern)
	if err != nil {
		return nil, nil, err
	}
	b := nfa.NewBuilder(pattern)
	if err := b.AddAST(root, b.NFA().Start, b.NFA().Accept); err != nil {
		return nil, nil, err
	}
	return root, b.NFA(), nil
}

func decodeTimestamps(n *yaml.Node) ([]string, error) {
	if n.Kind != yaml.SequenceNode {
		return nil, &errs.InvalidSchemaError{Reason: "\"timestamp\" must be a sequence of strings"}
	}
	out := make([]string, 0, len(n.Content))
	for _, item := range n.Content {
		if item.Kind != yaml.ScalarNode {
			return nil, &errs.InvalidSchemaError{Reason: "\"timestamp\" entries must be strings"}
		}
		out = append(out, item.Value)
	}
	return out, nil
}

type namedRegex struct {
	name, regex string
}

func decodeVariables(n *yaml.Node) ([]namedRegex, error) {
	if n.Kind != yaml.MappingNode {
		return nil, &errs.InvalidSchemaError{Reason: "\"variables\" must be a mapping of name to regex"}
	}
	out := make([]namedRegex, 0, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		key, val := n.Content[i], n.Content[i+1]
		if key.Kind != yaml.ScalarNode || val.Kind != yaml.ScalarNode {
			return nil, &errs.InvalidSchemaError{Reason: "\"variables\" entries must be string:string"}
		}
		out = append(out, namedRegex{name: key.Value, regex: val.Value})
	}
	return out, nil
}

func decodeDelimiters(n *yaml.Node) ([]byte, error) {
	if n.Kind != yaml.ScalarNode {
		return nil, &errs.InvalidSchemaError{Reason: "\"delimiters\" must be a string"}
	}
	s := n.Value
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		if s[i] > 127 {
			return nil, &errs.NonASCIICharacterError{Byte: s[i], Context: "delimiters"}
		}
		out = append(out, s[i])
	}
	return out, nil
}

// HasDelimiter reports whether b is a configured delimiter byte. Non-ASCII
// bytes always report false rather than erroring.
func (c *Config) HasDelimiter(b byte) bool {
	if b > 127 {
		return false
	}
	return c.delimiter[b]
}
