package types

import "testing"

func TestFullname_Validate(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantError bool
	}{
		{name: "valid link", input: "t3_abc123"},
		{name: "valid comment", input: "t1_z9"},
		{name: "valid account", input: "t2_1a2b3c"},
		{name: "valid award", input: "t6_award1"},
		{name: "missing separator", input: "t3abc123", wantError: true},
		{name: "unknown kind", input: "t7_abc123", wantError: true},
		{name: "empty id", input: "t3_", wantError: true},
		{name: "uppercase id", input: "t3_ABC", wantError: true},
		{name: "non base36 id", input: "t3_ab-cd", wantError: true},
		{name: "empty string", input: "", wantError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Fullname(tt.input).Validate()
			if (err != nil) != tt.wantError {
				t.Errorf("Fullname(%q).Validate() error = %v, wantError %v", tt.input, err, tt.wantError)
			}
		})
	}
}

func TestFullname_KindAndID(t *testing.T) {
	f := NewFullname(KindLink, "abc123")

	if f.String() != "t3_abc123" {
		t.Errorf("String() = %q, want %q", f.String(), "t3_abc123")
	}
	if f.Kind() != "t3" {
		t.Errorf("Kind() = %q, want %q", f.Kind(), "t3")
	}
	if f.ID() != "abc123" {
		t.Errorf("ID() = %q, want %q", f.ID(), "abc123")
	}

	malformed := Fullname("nounderscore")
	if malformed.Kind() != "" || malformed.ID() != "" {
		t.Errorf("malformed fullname Kind/ID = %q/%q, want empty", malformed.Kind(), malformed.ID())
	}
}

func TestParseFullname(t *testing.T) {
	if _, err := ParseFullname("t5_2qgzt"); err != nil {
		t.Errorf("ParseFullname(valid) error = %v", err)
	}
	if _, err := ParseFullname("bogus"); err == nil {
		t.Error("ParseFullname(invalid) expected error")
	}
}

func TestFullnameFromPermalink(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		want      Fullname
		wantError bool
	}{
		{
			name:  "absolute comments url",
			input: "https://www.reddit.com/r/golang/comments/abc123/some_title/",
			want:  "t3_abc123",
		},
		{
			name:  "relative permalink",
			input: "/r/golang/comments/xyz9/another_title/",
			want:  "t3_xyz9",
		},
		{
			name:  "comment deep link still yields the post",
			input: "https://www.reddit.com/r/golang/comments/abc123/some_title/def456/",
			want:  "t3_abc123",
		},
		{
			name:      "no comments segment",
			input:     "https://www.reddit.com/r/golang/hot",
			wantError: true,
		},
		{
			name:      "comments segment without id",
			input:     "https://www.reddit.com/r/golang/comments",
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FullnameFromPermalink(tt.input)
			if (err != nil) != tt.wantError {
				t.Fatalf("FullnameFromPermalink(%q) error = %v, wantError %v", tt.input, err, tt.wantError)
			}
			if err != nil {
				return
			}
			if got != tt.want {
				t.Errorf("FullnameFromPermalink(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
