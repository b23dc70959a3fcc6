package recipe

import (
	"testing"

	"github.com/Masterminds/semver/v3"
)

func TestParseRequirement(t *testing.T) {
	tests := []struct {
		ref            string
		wantName       string
		wantConstraint string
		wantErr        bool
	}{
		{ref: "zlib/1.3.1", wantName: "zlib", wantConstraint: "1.3.1"},
		{ref: "openssl/>=3.0", wantName: "openssl", wantConstraint: ">=3.0"},
		{ref: "boost/^1.84", wantName: "boost", wantConstraint: "^1.84"},
		{ref: "zlib", wantErr: true},
		{ref: "/1.3.1", wantErr: true},
		{ref: "zlib/", wantErr: true},
		{ref: "", wantErr: true},
		{ref: "zlib/@@@", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.ref, func(t *testing.T) {
			req, err := ParseRequirement(tt.ref)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseRequirement(%q) succeeded, want error", tt.ref)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseRequirement(%q): %v", tt.ref, err)
			}
			if req.Name != tt.wantName || req.Constraint != tt.wantConstraint {
				t.Errorf("got %s/%s, want %s/%s", req.Name, req.Constraint, tt.wantName, tt.wantConstraint)
			}
			if req.String() != tt.ref {
				t.Errorf("String = %q, want %q", req.String(), tt.ref)
			}
		})
	}
}

func TestMatches(t *testing.T) {
	tests := []struct {
		ref     string
		version string
		want    bool
	}{
		{"zlib/1.3.1", "1.3.1", true},
		{"zlib/1.3.1", "1.3.0", false},
		{"openssl/>=3.0", "3.2.1", true},
		{"openssl/>=3.0", "1.1.1", false},
		{"boost/^1.80", "1.84.0", true},
		{"boost/^1.80", "2.0.0", false},
		{"zlib/~1.3", "1.3.9", true},
		{"zlib/~1.3", "1.4.0", false},
	}

	for _, tt := range tests {
		req := MustParseRequirement(tt.ref)
		v := semver.MustParse(tt.version)
		if got := req.Matches(v); got != tt.want {
			t.Errorf("%s Matches(%s) = %v, want %v", tt.ref, tt.version, got, tt.want)
		}
		if got := req.MatchesVersion(tt.version); got != tt.want {
			t.Errorf("%s MatchesVersion(%s) = %v, want %v", tt.ref, tt.version, got, tt.want)
		}
	}
}

func TestMatchesAfterDecode(t *testing.T) {
	// A requirement rebuilt from serialized fields has no pre-parsed
	// constraint and must parse it on demand.
	req := Requirement{Name: "zlib", Constraint: ">=1.2"}
	if !req.Matches(semver.MustParse("1.3.1")) {
		t.Error("Matches should parse the constraint lazily")
	}

	bad := Requirement{Name: "zlib", Constraint: "@@@"}
	if bad.Matches(semver.MustParse("1.3.1")) {
		t.Error("invalid constraint should never match")
	}
	if req.MatchesVersion("not-a-version") {
		t.Error("unparseable version should never match")
	}
}
