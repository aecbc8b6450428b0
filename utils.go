package offchain

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/google/uuid"
)

func JsonPrint(tag string, v any) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Printf("%s: error marshaling: %v\n", tag, err)
		return
	}
	fmt.Printf("%s: %s\n", tag, string(b))
}

// NormalizeAlias returns the canonical (lowercase) form of an alias name.
func NormalizeAlias(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// ComposeAliasDataURL returns the location alias data can be fetched from.
func ComposeAliasDataURL(baseURL, alias string) string {
	return strings.TrimRight(baseURL, "/") + "/aliasdata/" + url.PathEscape(NormalizeAlias(alias))
}

type IdentifierKind int

const (
	IdentifierAliasName IdentifierKind = iota
	IdentifierRecordID
)

func (k IdentifierKind) String() string {
	switch k {
	case IdentifierRecordID:
		return "recordId"
	case IdentifierAliasName:
		return "aliasName"
	default:
		return "unknown"
	}
}

// ClassifyIdentifier decides how a read identifier is looked up. Only the
// canonical string form of a record id counts as an id; everything else,
// including ids in alternate spellings (uppercase, braces, urn prefix), is
// treated as an alias name.
func ClassifyIdentifier(identifier string) (IdentifierKind, string) {
	if id, err := uuid.Parse(identifier); err == nil && id.String() == identifier {
		return IdentifierRecordID, identifier
	}
	return IdentifierAliasName, NormalizeAlias(identifier)
}
