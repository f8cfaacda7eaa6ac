package core

import "testing"

func TestTransformRegistry_PutGet(t *testing.T) {
	r := NewTransformRegistry()

	r.Put(TransformState{Column: "city", Family: FamilyEncoding, Method: "label"})

	st, ok := r.Get("city", FamilyEncoding)
	if !ok {
		t.Fatal("Get() should find the stored state")
	}
	if st.Method != "label" {
		t.Errorf("Method = %q, want %q", st.Method, "label")
	}

	if _, ok := r.Get("city", FamilyScaling); ok {
		t.Error("Get() should miss for a different family")
	}
}

func TestTransformRegistry_PutOverwrites(t *testing.T) {
	r := NewTransformRegistry()
	r.Put(TransformState{Column: "age", Family: FamilyScaling, Method: "standard", Mean: 30})
	r.Put(TransformState{Column: "age", Family: FamilyScaling, Method: "minmax", Min: 0, Max: 1})

	if r.Len() != 1 {
		t.Fatalf("Len() = %d, want 1 after overwrite", r.Len())
	}
	st, _ := r.Get("age", FamilyScaling)
	if st.Method != "minmax" {
		t.Errorf("Method = %q, want %q (re-application must overwrite)", st.Method, "minmax")
	}
}

func TestTransformRegistry_Invalidate(t *testing.T) {
	r := NewTransformRegistry()
	r.Put(TransformState{Column: "city", Family: FamilyEncoding})
	r.Put(TransformState{Column: "city", Family: FamilyScaling})
	r.Put(TransformState{Column: "age", Family: FamilyScaling})

	r.Invalidate("city")

	if r.Len() != 1 {
		t.Fatalf("Len() = %d, want 1 after invalidating city", r.Len())
	}
	if _, ok := r.Get("age", FamilyScaling); !ok {
		t.Error("other columns must survive invalidation")
	}
}

func TestTransformRegistry_SerializeSorted(t *testing.T) {
	r := NewTransformRegistry()
	r.Put(TransformState{Column: "b", Family: FamilyScaling})
	r.Put(TransformState{Column: "a", Family: FamilyScaling})
	r.Put(TransformState{Column: "a", Family: FamilyEncoding})

	out := r.Serialize()
	if len(out) != 3 {
		t.Fatalf("Serialize() length = %d, want 3", len(out))
	}
	if out[0].Column != "a" || out[0].Family != FamilyEncoding {
		t.Errorf("first state = %s/%s, want a/encoding", out[0].Column, out[0].Family)
	}
	if out[2].Column != "b" {
		t.Errorf("last state column = %s, want b", out[2].Column)
	}
}

func TestTransformRegistry_Clear(t *testing.T) {
	r := NewTransformRegistry()
	r.Put(TransformState{Column: "a", Family: FamilyScaling})
	r.Clear()
	if r.Len() != 0 {
		t.Errorf("Len() = %d after Clear(), want 0", r.Len())
	}
}
