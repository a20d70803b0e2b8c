// Package itemfile converts between on-disk item YAML files and the Item
// domain type. Both accepted link encodings (a bare parent UID and a
// parent-UID-with-hash pair) are normalized here; nothing outside this
// package branches on the encoding.
package itemfile

import (
	"fmt"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/starford/raido/internal/models"
)

// Extension is the file suffix for item files.
const Extension = ".yml"

// Stored hashes shorter than this, or with characters outside the URL-safe
// base64 alphabet, are treated as absent rather than as verification data.
const minHashLen = 20

var hashRe = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// standardKeys are the item fields interpreted by the engine. Everything
// else is preserved verbatim as a custom attribute.
var standardKeys = map[string]struct{}{
	"active":   {},
	"type":     {},
	"text":     {},
	"header":   {},
	"links":    {},
	"reviewed": {},
	"derived":  {},
	"testable": {},
}

// FileName returns the item file name for a UID.
func FileName(uid string) string { return uid + Extension }

// Parse converts raw item file bytes into an Item. The UID comes from the
// file name, the prefix from the owning document. Parse is pure: it never
// touches the file system.
func Parse(data []byte, uid, prefix string) (*models.Item, error) {
	uid = strings.TrimSpace(uid)
	if uid == "" {
		return nil, fmt.Errorf("empty item UID")
	}

	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("invalid YAML: %w", err)
	}

	item := &models.Item{
		UID:      uid,
		Document: prefix,
		Type:     models.TypeRequirement,
		Active:   true,
		Testable: true,
	}
	if raw == nil {
		return item, nil
	}

	var err error
	if item.Text, err = stringField(raw, "text"); err != nil {
		return nil, err
	}
	if item.Header, err = stringField(raw, "header"); err != nil {
		return nil, err
	}
	if item.Active, err = boolField(raw, "active", true); err != nil {
		return nil, err
	}
	if item.Derived, err = boolField(raw, "derived", false); err != nil {
		return nil, err
	}
	if item.Testable, err = boolField(raw, "testable", true); err != nil {
		return nil, err
	}

	if v, ok := raw["type"]; ok && v != nil {
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("field type: expected string, got %T", v)
		}
		t := models.ItemType(s)
		if !t.Valid() {
			return nil, fmt.Errorf("unknown item type %q", s)
		}
		item.Type = t
	}

	// Non-string reviewed values carry no verification information.
	if v, ok := raw["reviewed"]; ok {
		if s, ok := v.(string); ok {
			item.Reviewed = s
		}
	}

	if item.Links, err = parseLinks(raw["links"]); err != nil {
		return nil, err
	}

	for k, v := range raw {
		if _, std := standardKeys[k]; std {
			continue
		}
		if item.Custom == nil {
			item.Custom = make(map[string]any)
		}
		item.Custom[k] = v
	}

	return item, nil
}

// parseLinks normalizes the two accepted on-disk encodings into Link values.
func parseLinks(raw any) ([]models.Link, error) {
	if raw == nil {
		return nil, nil
	}
	list, ok := raw.([]any)
	if !ok {
		return nil, fmt.Errorf("field links: expected list, got %T", raw)
	}

	var links []models.Link
	for _, entry := range list {
		switch v := entry.(type) {
		case string:
			uid := strings.TrimSpace(v)
			if uid == "" {
				continue
			}
			links = append(links, models.Link{Parent: uid})
		case map[string]any:
			for parent, hash := range v {
				uid := strings.TrimSpace(parent)
				if uid == "" {
					continue
				}
				link := models.Link{Parent: uid}
				if s, ok := hash.(string); ok {
					s = strings.TrimSpace(s)
					if len(s) >= minHashLen && hashRe.MatchString(s) {
						link.Hash = s
					}
				}
				links = append(links, link)
			}
		default:
			return nil, fmt.Errorf("field links: entry is not a UID or UID-hash pair: %v", entry)
		}
	}
	return links, nil
}

// fileShape controls the key order of serialized items.
type fileShape struct {
	Header   string         `yaml:"header,omitempty"`
	Active   bool           `yaml:"active"`
	Type     string         `yaml:"type"`
	Links    []any          `yaml:"links"`
	Text     string         `yaml:"text"`
	Reviewed any            `yaml:"reviewed"`
	Derived  bool           `yaml:"derived,omitempty"`
	Testable *bool          `yaml:"testable,omitempty"`
	Custom   map[string]any `yaml:",inline"`
}

// Marshal converts an Item back into file bytes. Links with a stored hash
// are emitted as one-entry maps, the rest as bare UID strings. Custom
// attributes are written back verbatim. Marshal is pure.
func Marshal(item *models.Item) ([]byte, error) {
	out := fileShape{
		Header: item.Header,
		Active: item.Active,
		Type:   string(item.Type),
		Links:  make([]any, 0, len(item.Links)),
		Text:   item.Text,
		Custom: item.Custom,
	}
	for _, l := range item.Links {
		if l.Hash != "" {
			out.Links = append(out.Links, map[string]string{l.Parent: l.Hash})
		} else {
			out.Links = append(out.Links, l.Parent)
		}
	}
	if item.Reviewed != "" {
		out.Reviewed = item.Reviewed
	}
	out.Derived = item.Derived
	if !item.Testable {
		f := false
		out.Testable = &f
	}

	data, err := yaml.Marshal(&out)
	if err != nil {
		return nil, fmt.Errorf("marshal item %s: %w", item.UID, err)
	}
	return data, nil
}

func stringField(raw map[string]any, key string) (string, error) {
	v, ok := raw[key]
	if !ok || v == nil {
		return "", nil
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("field %s: expected string, got %T", key, v)
	}
	return s, nil
}

func boolField(raw map[string]any, key string, def bool) (bool, error) {
	v, ok := raw[key]
	if !ok || v == nil {
		return def, nil
	}
	b, ok := v.(bool)
	if !ok {
		return def, fmt.Errorf("field %s: expected bool, got %T", key, v)
	}
	return b, nil
}
