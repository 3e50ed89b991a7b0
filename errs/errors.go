// Package errs defines the error taxonomy shared across this module's
// packages (regexparser, nfa, schema, lexer, logparser). Every kind is a
// distinct exported type implementing error, using named struct types
// rather than a single catch-all error with a string reason. Callers
// dispatch with errors.As, never by matching on Error() text.
package errs

import "fmt"

// YAMLParsingError wraps a failure to parse the schema document as YAML.
type YAMLParsingError struct {
	Err error
}

func (e *YAMLParsingError) Error() string { return fmt.Sprintf("schema: invalid yaml: %v", e.Err) }
func (e *YAMLParsingError) Unwrap() error { return e.Err }

// MissingSchemaKeyError reports that a required top-level schema key
// ("timestamp", "variables", or "delimiters") was absent.
type MissingSchemaKeyError struct {
	Key string
}

func (e *MissingSchemaKeyError) Error() string {
	return fmt.Sprintf("schema: missing required key %q", e.Key)
}

// InvalidSchemaError reports a schema key present with the wrong shape,
// e.g. "timestamp" not a sequence of strings, or "variables" not a mapping
// of string to string.
type InvalidSchemaError struct {
	Reason string
}

func (e *InvalidSchemaError) Error() string { return fmt.Sprintf("schema: invalid schema: %s", e.Reason) }

// NonASCIICharacterError reports a byte outside the 7-bit ASCII range
// where a pattern, a delimiter string, or an input stream requires one.
type NonASCIICharacterError struct {
	Byte    byte
	Context string
}

func (e *NonASCIICharacterError) Error() string {
	return fmt.Sprintf("%s: byte 0x%02x is not ASCII", e.Context, e.Byte)
}

// NegationNotSupportedError reports a negated Perl class (\D, \S, \W) or
// negated bracket expression ([^...]) in a pattern.
type NegationNotSupportedError struct {
	Pattern string
}

func (e *NegationNotSupportedError) Error() string {
	return fmt.Sprintf("regex %q: negated classes are not supported", e.Pattern)
}

// NonGreedyRepetitionNotSupportedError reports a non-greedy quantifier
// (e.g. *?, +?, ??) in a pattern.
type NonGreedyRepetitionNotSupportedError struct {
	Pattern string
}

func (e *NonGreedyRepetitionNotSupportedError) Error() string {
	return fmt.Sprintf("regex %q: non-greedy repetition is not supported", e.Pattern)
}

// UnsupportedGroupKindError reports a parenthesized group that is not an
// indexed capturing group, e.g. a non-capturing group (?:...).
type UnsupportedGroupKindError struct {
	Pattern string
}

func (e *UnsupportedGroupKindError) Error() string {
	return fmt.Sprintf("regex %q: unsupported group kind", e.Pattern)
}

// UnsupportedBracketedKindError reports a bracket expression whose inner
// form is not one of the supported ClassSetItem variants.
type UnsupportedBracketedKindError struct {
	Pattern string
}

func (e *UnsupportedBracketedKindError) Error() string {
	return fmt.Sprintf("regex %q: unsupported bracketed class kind", e.Pattern)
}

// UnsupportedClassSetTypeError reports a class-set item variant outside
// the supported set (literal, range, perl class, nested bracket, union).
type UnsupportedClassSetTypeError struct {
	Pattern string
}

func (e *UnsupportedClassSetTypeError) Error() string {
	return fmt.Sprintf("regex %q: unsupported class-set item type", e.Pattern)
}

// UnsupportedASTNodeError reports an AST node variant outside the
// supported set.
type UnsupportedASTNodeError struct {
	Pattern string
	Node    string
}

func (e *UnsupportedASTNodeError) Error() string {
	return fmt.Sprintf("regex %q: unsupported AST node %s", e.Pattern, e.Node)
}

// RegexSyntaxError wraps a malformed-regex parse failure: unbalanced
// parens/brackets, a bad escape, an invalid repetition bound.
type RegexSyntaxError struct {
	Pattern string
	Err     error
}

func (e *RegexSyntaxError) Error() string {
	return fmt.Sprintf("regex %q: %v", e.Pattern, e.Err)
}
func (e *RegexSyntaxError) Unwrap() error { return e.Err }

// IOError wraps an underlying stream or file I/O failure encountered
// while reading schema documents or log input.
type IOError struct {
	Err error
}

func (e *IOError) Error() string { return fmt.Sprintf("io error: %v", e.Err) }
func (e *IOError) Unwrap() error { return e.Err }

// LogParserInternalError reports an invariant violation in the log
// parser: a bug, not a user-facing condition (e.g. attempting to build
// a LogEvent from an empty token buffer).
type LogParserInternalError struct {
	Reason string
}

func (e *LogParserInternalError) Error() string {
	return fmt.Sprintf("log parser internal error: %s", e.Reason)
}
