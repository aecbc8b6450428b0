package offchain

import (
	"testing"

	"github.com/google/uuid"
)

func TestClassifyIdentifier(t *testing.T) {
	id := uuid.New()

	cases := []struct {
		in   string
		kind IdentifierKind
		key  string
	}{
		{id.String(), IdentifierRecordID, id.String()},
		{"MyAlias", IdentifierAliasName, "myalias"},
		{"  spaced ", IdentifierAliasName, "spaced"},
		{"urn:uuid:" + id.String(), IdentifierAliasName, "urn:uuid:" + id.String()},
		{"{" + id.String() + "}", IdentifierAliasName, "{" + id.String() + "}"},
		{"", IdentifierAliasName, ""},
	}

	for _, tc := range cases {
		kind, key := ClassifyIdentifier(tc.in)
		if kind != tc.kind || key != tc.key {
			t.Errorf("ClassifyIdentifier(%q) = (%s, %q), want (%s, %q)", tc.in, kind, key, tc.kind, tc.key)
		}
	}
}

func TestClassifyIdentifierUppercaseID(t *testing.T) {
	upper := "6BA7B810-9DAD-11D1-80B4-00C04FD430C8"
	kind, key := ClassifyIdentifier(upper)
	if kind != IdentifierAliasName {
		t.Fatalf("expected uppercase id to fall through to alias lookup, got %s", kind)
	}
	if key != "6ba7b810-9dad-11d1-80b4-00c04fd430c8" {
		t.Fatalf("unexpected key %q", key)
	}
}

func TestComposeAliasDataURL(t *testing.T) {
	got := ComposeAliasDataURL("https://offchain.syscoin.org/", "MyAlias")
	if got != "https://offchain.syscoin.org/aliasdata/myalias" {
		t.Fatalf("unexpected url %s", got)
	}
}
