package storage

import "testing"

func TestClassifyName(t *testing.T) {
	cases := []struct {
		name string
		want Kind
	}{
		{"about.md", KindMarkdown},
		{"changes.txt", KindText},
		{"logo.png", KindImage},
		{"photo.jpg", KindImage},
		{"photo.JPEG", KindImage},
		{"archive.zip", KindUnsupported},
		{"noext", KindUnsupported},
	}
	for _, c := range cases {
		if got := ClassifyName(c.name); got != c.want {
			t.Errorf("ClassifyName(%q) = %v, want %v", c.name, got, c.want)
		}
	}
}

func TestValidateName(t *testing.T) {
	if err := ValidateName(""); err == nil || err.Error() != "A name is required." {
		t.Errorf("empty name err = %v", err)
	}
	if err := ValidateName("notes"); err == nil || err.Error() != "A valid file extension is required." {
		t.Errorf("missing extension err = %v", err)
	}
	if err := ValidateName("notes.pdf"); err == nil {
		t.Error("unsupported extension should fail")
	}
	for _, name := range []string{"a.md", "a.txt", "a.jpg", "a.jpeg", "a.png"} {
		if err := ValidateName(name); err != nil {
			t.Errorf("ValidateName(%q) = %v", name, err)
		}
	}
}

func TestCopyName(t *testing.T) {
	cases := []struct{ in, want string }{
		{"about.md", "about_copy.md"},
		{"report.v2.md", "report_copy.v2.md"},
		{"noext", "noext_copy"},
	}
	for _, c := range cases {
		if got := CopyName(c.in); got != c.want {
			t.Errorf("CopyName(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}
