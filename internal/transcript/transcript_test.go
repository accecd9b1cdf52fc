package transcript

import "testing"

func TestAssemble_JoinsInIndexOrder(t *testing.T) {
	parts := []ChunkTranscript{
		{Index: 0, Text: "a"},
		{Index: 1, Text: "b"},
		{Index: 2, Text: "c"},
	}

	tr, err := Assemble(parts)
	if err != nil {
		t.Fatalf("assemble failed: %v", err)
	}
	if tr.Text != "a b c" {
		t.Errorf("text = %q, want %q", tr.Text, "a b c")
	}
	if tr.ChunkCount != 3 {
		t.Errorf("chunk count = %d, want 3", tr.ChunkCount)
	}
}

func TestAssemble_SortsOutOfOrderInput(t *testing.T) {
	parts := []ChunkTranscript{
		{Index: 2, Text: "third"},
		{Index: 0, Text: "first"},
		{Index: 1, Text: "second"},
	}

	tr, err := Assemble(parts)
	if err != nil {
		t.Fatalf("assemble failed: %v", err)
	}
	if tr.Text != "first second third" {
		t.Errorf("text = %q", tr.Text)
	}
}

func TestAssemble_MissingIndexFails(t *testing.T) {
	parts := []ChunkTranscript{
		{Index: 0, Text: "a"},
		{Index: 2, Text: "c"},
	}

	_, err := Assemble(parts)
	if err == nil {
		t.Fatal("expected assembly error for missing index 1")
	}
	if _, ok := err.(*AssemblyError); !ok {
		t.Errorf("expected *AssemblyError, got %T", err)
	}
}

func TestAssemble_DuplicateIndexFails(t *testing.T) {
	parts := []ChunkTranscript{
		{Index: 0, Text: "a"},
		{Index: 1, Text: "b"},
		{Index: 1, Text: "b again"},
	}

	if _, err := Assemble(parts); err == nil {
		t.Fatal("expected assembly error for duplicate index")
	}
}

func TestAssemble_EmptyInputFails(t *testing.T) {
	if _, err := Assemble(nil); err == nil {
		t.Fatal("expected assembly error for empty input")
	}
}

func TestAssemble_SingleChunk(t *testing.T) {
	tr, err := Assemble([]ChunkTranscript{{Index: 0, Text: "only"}})
	if err != nil {
		t.Fatalf("assemble failed: %v", err)
	}
	if tr.Text != "only" || tr.ChunkCount != 1 {
		t.Errorf("unexpected transcript: %+v", tr)
	}
}
