// Copyright 2026 The sqlitekit Authors
// SPDX-License-Identifier: Apache-2.0

package sqlitekit

import "testing"

func TestBuilderBasic(t *testing.T) {
	q, err := NewBuilder().
		Text("SELECT * FROM users WHERE age > ").
		Bind(21).
		Text(" AND name = ").
		Bind("ada").
		Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if q.Text() != "SELECT * FROM users WHERE age > ? AND name = ?" {
		t.Errorf("Text() = %q", q.Text())
	}
	if len(q.Bindings()) != 2 {
		t.Fatalf("Bindings() len = %d, want 2", len(q.Bindings()))
	}
	if !q.Bindings()[0].Equal(Integer(21)) {
		t.Errorf("Bindings()[0] = %v, want Integer(21)", q.Bindings()[0])
	}
}

func TestBuilderFragmentSkipsZeroQuery(t *testing.T) {
	q, err := NewBuilder().
		Text("SELECT 1").
		Fragment(Query{}).
		Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if q.Text() != "SELECT 1" {
		t.Errorf("Text() = %q, want unchanged", q.Text())
	}
}

func TestBuilderFragmentComposesBindings(t *testing.T) {
	frag, err := Val(5)
	if err != nil {
		t.Fatalf("Val: %v", err)
	}
	q, err := NewBuilder().
		Text("SELECT * FROM t WHERE id = ").
		Fragment(frag).
		Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if q.Text() != "SELECT * FROM t WHERE id = ?" {
		t.Errorf("Text() = %q", q.Text())
	}
	if len(q.Bindings()) != 1 || !q.Bindings()[0].Equal(Integer(5)) {
		t.Errorf("Bindings() = %v", q.Bindings())
	}
}

func TestBuilderPropagatesEncodeError(t *testing.T) {
	type unsupported struct{}
	_, err := NewBuilder().Bind(unsupported{}).Build()
	if err == nil {
		t.Fatal("expected encode error to propagate")
	}
}

func TestQueryConcat(t *testing.T) {
	a := SQL("SELECT 1 ")
	b, _ := Val(2)
	got := a.Concat(b)
	if got.Text() != "SELECT 1 ?" {
		t.Errorf("Text() = %q", got.Text())
	}
	if len(got.Bindings()) != 1 {
		t.Fatalf("Bindings() len = %d, want 1", len(got.Bindings()))
	}
}

func TestQueryIsZero(t *testing.T) {
	if !(Query{}).IsZero() {
		t.Error("zero Query reports non-zero")
	}
	if SQL("x").IsZero() {
		t.Error("non-empty Query reports zero")
	}
}

func TestBuilderRawIsInjectionUnsafeButFunctionallyLikeText(t *testing.T) {
	q, err := NewBuilder().Raw("DROP TABLE x; -- ").Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if q.Text() != "DROP TABLE x; -- " {
		t.Errorf("Text() = %q", q.Text())
	}
	if len(q.Bindings()) != 0 {
		t.Errorf("Raw should not add bindings")
	}
}
