package history

import (
	"path/filepath"
	"testing"
)

func tempStore(t *testing.T) *Store {
	t.Helper()
	return NewStore(filepath.Join(t.TempDir(), "history.yml"))
}

func TestRecordFirstTouchCreatesEmptyEntry(t *testing.T) {
	s := tempStore(t)
	if err := s.Record("about.md", nil, false); err != nil {
		t.Fatalf("Record: %v", err)
	}
	versions, err := s.Versions("about.md")
	if err != nil {
		t.Fatalf("Versions: %v", err)
	}
	if len(versions) != 0 {
		t.Errorf("versions = %v, want empty", versions)
	}
}

func TestRecordAppendsPreOverwriteContent(t *testing.T) {
	s := tempStore(t)
	// Simulate create then two saves: contents A -> B -> C.
	_ = s.Record("doc.md", nil, false)
	_ = s.Record("doc.md", []byte("A"), true)
	_ = s.Record("doc.md", []byte("B"), true)

	versions, err := s.Versions("doc.md")
	if err != nil {
		t.Fatalf("Versions: %v", err)
	}
	want := []string{"A", "B"}
	if len(versions) != len(want) {
		t.Fatalf("versions = %v, want %v", versions, want)
	}
	for i := range want {
		if versions[i] != want[i] {
			t.Errorf("versions[%d] = %q, want %q", i, versions[i], want[i])
		}
	}
}

func TestDrop(t *testing.T) {
	s := tempStore(t)
	_ = s.Record("doc.md", nil, false)
	_ = s.Record("doc.md", []byte("A"), true)
	if err := s.Drop("doc.md"); err != nil {
		t.Fatalf("Drop: %v", err)
	}
	versions, _ := s.Versions("doc.md")
	if len(versions) != 0 {
		t.Errorf("versions after drop = %v", versions)
	}
	// Dropping an absent entry is a no-op.
	if err := s.Drop("ghost.md"); err != nil {
		t.Errorf("Drop absent: %v", err)
	}
}

func TestMove(t *testing.T) {
	s := tempStore(t)
	_ = s.Record("old.md", nil, false)
	_ = s.Record("old.md", []byte("v1"), true)
	if err := s.Move("old.md", "new.md"); err != nil {
		t.Fatalf("Move: %v", err)
	}
	if versions, _ := s.Versions("old.md"); len(versions) != 0 {
		t.Errorf("old entry survived: %v", versions)
	}
	versions, _ := s.Versions("new.md")
	if len(versions) != 1 || versions[0] != "v1" {
		t.Errorf("moved versions = %v", versions)
	}
}

func TestMoveReplacesTargetEntry(t *testing.T) {
	s := tempStore(t)
	_ = s.Record("a.md", nil, false)
	_ = s.Record("a.md", []byte("from-a"), true)
	_ = s.Record("b.md", nil, false)
	_ = s.Record("b.md", []byte("from-b"), true)

	if err := s.Move("a.md", "b.md"); err != nil {
		t.Fatalf("Move: %v", err)
	}
	versions, _ := s.Versions("b.md")
	if len(versions) != 1 || versions[0] != "from-a" {
		t.Errorf("versions = %v, want [from-a]", versions)
	}
}

func TestVersionsUnknownName(t *testing.T) {
	s := tempStore(t)
	versions, err := s.Versions("nobody.md")
	if err != nil {
		t.Fatalf("Versions: %v", err)
	}
	if len(versions) != 0 {
		t.Errorf("versions = %v, want empty", versions)
	}
}

func TestPersistsAcrossInstances(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.yml")
	s1 := NewStore(path)
	_ = s1.Record("doc.md", nil, false)
	_ = s1.Record("doc.md", []byte("old"), true)

	s2 := NewStore(path)
	versions, err := s2.Versions("doc.md")
	if err != nil {
		t.Fatalf("Versions: %v", err)
	}
	if len(versions) != 1 || versions[0] != "old" {
		t.Errorf("versions = %v", versions)
	}
}
