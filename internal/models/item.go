// Package models defines the domain types for Raido.
package models

import "strings"

// ItemType classifies an item. The set is closed; anything else on disk is
// rejected at parse time.
type ItemType string

const (
	TypeRequirement ItemType = "requirement"
	TypeHeading     ItemType = "heading"
	TypeInfo        ItemType = "info"
)

// Valid reports whether t is one of the known item types.
func (t ItemType) Valid() bool {
	switch t {
	case TypeRequirement, TypeHeading, TypeInfo:
		return true
	}
	return false
}

// Link is a directed child→parent reference. Hash holds the parent's
// content hash recorded when the link was created or last acknowledged;
// empty means the link was never verified.
type Link struct {
	Parent string `json:"parent"`
	Hash   string `json:"hash,omitempty"`
}

// Item represents a single traceable record stored as one YAML file.
type Item struct {
	UID      string         `json:"uid"`
	Document string         `json:"document_prefix"`
	Text     string         `json:"text"`
	Header   string         `json:"header,omitempty"`
	Type     ItemType       `json:"type"`
	Active   bool           `json:"active"`
	Derived  bool           `json:"derived"`
	Testable bool           `json:"testable"`
	Links    []Link         `json:"links"`
	Reviewed string         `json:"reviewed,omitempty"`
	Custom   map[string]any `json:"custom_attributes,omitempty"`
}

// ParentUIDs returns the link targets in stored order.
func (i *Item) ParentUIDs() []string {
	if len(i.Links) == 0 {
		return nil
	}
	out := make([]string, len(i.Links))
	for n, l := range i.Links {
		out[n] = l.Parent
	}
	return out
}

// LinksTo reports whether the item has a link to the given parent UID.
func (i *Item) LinksTo(parent string) bool {
	for _, l := range i.Links {
		if l.Parent == parent {
			return true
		}
	}
	return false
}

// Normative reports whether the item participates in review and
// completeness checks: an active requirement.
func (i *Item) Normative() bool {
	return i.Active && i.Type == TypeRequirement
}

// DisplayText returns the header if present, otherwise the body text.
func (i *Item) DisplayText() string {
	if i.Header != "" {
		return i.Header
	}
	return strings.TrimSpace(i.Text)
}
