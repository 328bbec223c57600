// Copyright 2026 The sqlitekit Authors
// SPDX-License-Identifier: Apache-2.0

package sqlitekit

import "strings"

// Query is an immutable pair of (SQL text with "?" placeholders,
// ordered bindings). It is built with a Builder rather than by hand:
// every Bind call appends exactly one placeholder and one binding, so
// a Query built this way always satisfies the arity invariant checked
// at Prepare time. Queries compose: Concat (and a Builder's Fragment
// method) concatenate text and bindings in order.
type Query struct {
	text     string
	bindings []Value
}

// SQL wraps literal, binding-free SQL text as a Query. Use this for
// statements with no placeholders, or as the starting point for
// Concat.
func SQL(text string) Query { return Query{text: text} }

// Val builds a single-placeholder Query: text "?" with v as its only
// binding. Useful as a fragment, e.g. for building an IN (...) list
// with Builder.Fragment.
func Val(v any) (Query, error) {
	enc, err := Encode(v)
	if err != nil {
		return Query{}, err
	}
	return Query{text: "?", bindings: []Value{enc}}, nil
}

// Text returns q's SQL text.
func (q Query) Text() string { return q.text }

// Bindings returns q's ordered bindings.
func (q Query) Bindings() []Value { return q.bindings }

// IsZero reports whether q is the absent query (empty text, no
// bindings) — the value Builder.Fragment treats as a no-op.
func (q Query) IsZero() bool { return q.text == "" && len(q.bindings) == 0 }

// Concat returns a new Query whose text and bindings are the
// concatenation of q and other, in order.
func (q Query) Concat(other Query) Query {
	bindings := make([]Value, 0, len(q.bindings)+len(other.bindings))
	bindings = append(bindings, q.bindings...)
	bindings = append(bindings, other.bindings...)
	return Query{text: q.text + other.text, bindings: bindings}
}

// Builder assembles a Query from literal text, typed bindings,
// fragments, and raw (injection-unsafe) text, mirroring the four
// interpolation forms of spec §4.4. Every form appends text; Bind and
// Fragment are the only forms that also append bindings, and each
// Bind call appends exactly one of each, so a Query produced by
// Build always has placeholder count equal to binding count.
//
//	q, err := sqlitekit.NewBuilder().
//		Text("SELECT * FROM users WHERE age > ").
//		Bind(minAge).
//		Text(" AND name LIKE ").
//		Bind(pattern).
//		Build()
type Builder struct {
	text     strings.Builder
	bindings []Value
	err      error
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder { return &Builder{} }

// Text appends s verbatim to the SQL text with no binding. This is
// the "literal text" form.
func (b *Builder) Text(s string) *Builder {
	b.text.WriteString(s)
	return b
}

// Raw appends s verbatim to the SQL text with no binding, no
// encoding, and no escaping. This is the only form that is not
// injection-safe; callers using it are responsible for the text's
// safety.
func (b *Builder) Raw(s string) *Builder {
	b.text.WriteString(s)
	return b
}

// Bind appends a single "?" placeholder and encodes v as its
// binding. If v cannot be encoded, the error is recorded and
// surfaced by Build; the Builder remains safe to keep calling.
func (b *Builder) Bind(v any) *Builder {
	enc, err := Encode(v)
	if err != nil {
		if b.err == nil {
			b.err = err
		}
		return b
	}
	b.text.WriteByte('?')
	b.bindings = append(b.bindings, enc)
	return b
}

// Fragment appends q's text verbatim and q's bindings in order. A
// zero-value Query (Query.IsZero) is the "absent" fragment and is a
// no-op, matching spec §4.4's "Q is itself a Bound Query or absent".
func (b *Builder) Fragment(q Query) *Builder {
	if q.IsZero() {
		return b
	}
	b.text.WriteString(q.text)
	b.bindings = append(b.bindings, q.bindings...)
	return b
}

// Build returns the assembled Query, or the first encoding error
// recorded by a Bind call.
func (b *Builder) Build() (Query, error) {
	if b.err != nil {
		return Query{}, b.err
	}
	return Query{text: b.text.String(), bindings: b.bindings}, nil
}
