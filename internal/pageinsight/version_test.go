package pageinsight

import "testing"

func TestDetectVersion(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{
			name: "html5",
			raw:  "<!DOCTYPE html><html></html>",
			want: "HTML5",
		},
		{
			name: "html5 lowercase",
			raw:  "<!doctype html><html></html>",
			want: "HTML5",
		},
		{
			name: "html 4.01 strict",
			raw:  `<!DOCTYPE HTML PUBLIC "-//W3C//DTD HTML 4.01//EN" "http://www.w3.org/TR/html4/strict.dtd"><html></html>`,
			want: "HTML 4.01",
		},
		{
			name: "html 4.01 transitional",
			raw:  `<!DOCTYPE HTML PUBLIC "-//W3C//DTD HTML 4.01 Transitional//EN" "http://www.w3.org/TR/html4/loose.dtd"><html></html>`,
			want: "HTML 4.01",
		},
		{
			name: "html 3.2",
			raw:  `<!DOCTYPE HTML PUBLIC "-//W3C//DTD HTML 3.2 Final//EN"><html></html>`,
			want: "HTML 3",
		},
		{
			name: "html 2.0",
			raw:  `<!DOCTYPE HTML PUBLIC "-//IETF//DTD HTML 2.0//EN"><html></html>`,
			want: "HTML 2",
		},
		{
			name: "xhtml keeps the legacy label",
			raw:  `<!DOCTYPE html PUBLIC "-//W3C//DTD XHTML 1.0 Strict//EN" "http://www.w3.org/TR/xhtml1/DTD/xhtml1-strict.dtd"><html></html>`,
			want: "HTML 1",
		},
		{
			name: "no doctype",
			raw:  "<html><head><title>x</title></head></html>",
			want: UnknownHTMLVersion,
		},
		{
			name: "empty document",
			raw:  "",
			want: UnknownHTMLVersion,
		},
		{
			name: "non-html doctype",
			raw:  "<!DOCTYPE svg><svg></svg>",
			want: UnknownHTMLVersion,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := ParseString(tt.raw)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got := DetectVersion(doc); got != tt.want {
				t.Errorf("DetectVersion() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestClassifyDoctype_Precedence(t *testing.T) {
	// Earlier rules win even when later fragments also match.
	decl := `html PUBLIC "-//W3C//DTD HTML 4.01 XHTML hybrid//EN"`
	if got := classifyDoctype(decl); got != "HTML 4.01" {
		t.Errorf("classifyDoctype() = %q, want %q", got, "HTML 4.01")
	}
}
