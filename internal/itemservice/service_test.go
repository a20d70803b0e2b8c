package itemservice

import (
	"errors"
	"testing"

	"github.com/starford/raido/internal/apperr"
	"github.com/starford/raido/internal/checksum"
	"github.com/starford/raido/internal/models"
	"github.com/starford/raido/internal/storage"
	"github.com/starford/raido/internal/testutil"
)

func newService(t *testing.T) (*Service, string, *storage.FS) {
	t.Helper()
	root, store := testutil.TestProject(t)
	return NewService(store, testutil.DiscardLogger()), root, store
}

func mustAdd(t *testing.T, s *Service, prefix string, draft ItemDraft) *models.Item {
	t.Helper()
	item, err := s.AddItem(prefix, draft)
	if err != nil {
		t.Fatalf("AddItem(%s): %v", prefix, err)
	}
	return item
}

func TestCreateDocument(t *testing.T) {
	s, _, store := newService(t)
	cfg := models.DocumentConfig{Prefix: "SYS", Digits: 3}
	if err := s.CreateDocument(cfg, "sys"); err != nil {
		t.Fatalf("CreateDocument: %v", err)
	}
	if !store.Exists("sys/.raido.yml") {
		t.Error("config file not written")
	}

	err := s.CreateDocument(cfg, "elsewhere")
	if !errors.Is(err, apperr.ErrAlreadyExists) {
		t.Errorf("duplicate prefix: err = %v, want ErrAlreadyExists", err)
	}
}

func TestCreateDocument_InvalidConfig(t *testing.T) {
	s, _, _ := newService(t)
	err := s.CreateDocument(models.DocumentConfig{Prefix: "bad", Digits: 3}, "bad")
	if err == nil {
		t.Error("lowercase prefix should be rejected")
	}
}

func TestAddItem_SequentialUIDs(t *testing.T) {
	s, _, _ := newService(t)
	if err := s.CreateDocument(models.DocumentConfig{Prefix: "SYS", Digits: 3}, "sys"); err != nil {
		t.Fatal(err)
	}

	first := mustAdd(t, s, "SYS", ItemDraft{Text: "First."})
	second := mustAdd(t, s, "SYS", ItemDraft{Text: "Second."})
	if first.UID != "SYS001" || second.UID != "SYS002" {
		t.Errorf("uids = %s, %s", first.UID, second.UID)
	}

	got, err := s.GetItem("SYS001")
	if err != nil {
		t.Fatalf("GetItem: %v", err)
	}
	if got.Text != "First." || !got.Active || got.Type != models.TypeRequirement {
		t.Errorf("persisted item = %+v", got)
	}
}

func TestAddItem_NumbersNotReusedAfterRemove(t *testing.T) {
	s, _, _ := newService(t)
	if err := s.CreateDocument(models.DocumentConfig{Prefix: "SYS", Digits: 3}, "sys"); err != nil {
		t.Fatal(err)
	}
	mustAdd(t, s, "SYS", ItemDraft{Text: "one"})
	mustAdd(t, s, "SYS", ItemDraft{Text: "two"})

	if _, err := s.RemoveItem("SYS002"); err != nil {
		t.Fatalf("RemoveItem: %v", err)
	}
	third := mustAdd(t, s, "SYS", ItemDraft{Text: "three"})
	if third.UID != "SYS003" {
		t.Errorf("uid after remove = %s, want SYS003 (SYS002 stays retired)", third.UID)
	}
}

func TestAddItem_UnknownDocument(t *testing.T) {
	s, _, _ := newService(t)
	_, err := s.AddItem("GHOST", ItemDraft{Text: "x"})
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestEditItem_ContentChangeClearsReview(t *testing.T) {
	s, _, _ := newService(t)
	if err := s.CreateDocument(models.DocumentConfig{Prefix: "SYS", Digits: 3}, "sys"); err != nil {
		t.Fatal(err)
	}
	mustAdd(t, s, "SYS", ItemDraft{Text: "Original."})
	if _, err := s.MarkReviewed("SYS001"); err != nil {
		t.Fatal(err)
	}

	text := "Changed."
	item, err := s.EditItem("SYS001", ItemEdit{Text: &text})
	if err != nil {
		t.Fatalf("EditItem: %v", err)
	}
	if item.Reviewed != "" {
		t.Error("review marker survived a text change")
	}
	if item.Text != "Changed." {
		t.Errorf("text = %q", item.Text)
	}
}

func TestEditItem_ActiveToggleKeepsReview(t *testing.T) {
	s, _, _ := newService(t)
	if err := s.CreateDocument(models.DocumentConfig{Prefix: "SYS", Digits: 3}, "sys"); err != nil {
		t.Fatal(err)
	}
	mustAdd(t, s, "SYS", ItemDraft{Text: "Stable."})
	if _, err := s.MarkReviewed("SYS001"); err != nil {
		t.Fatal(err)
	}

	off := false
	item, err := s.EditItem("SYS001", ItemEdit{Active: &off})
	if err != nil {
		t.Fatalf("EditItem: %v", err)
	}
	if item.Active {
		t.Error("active not toggled")
	}
	if item.Reviewed == "" {
		t.Error("deactivation must not clear the review marker")
	}
}

func TestRemoveItem_ReportsInboundLinks(t *testing.T) {
	s, _, _ := newService(t)
	if err := s.CreateDocument(models.DocumentConfig{Prefix: "SYS", Digits: 3}, "sys"); err != nil {
		t.Fatal(err)
	}
	if err := s.CreateDocument(models.DocumentConfig{Prefix: "SRS", Parents: []string{"SYS"}, Digits: 3}, "srs"); err != nil {
		t.Fatal(err)
	}
	mustAdd(t, s, "SYS", ItemDraft{Text: "parent"})
	mustAdd(t, s, "SRS", ItemDraft{Text: "child", Links: []string{"SYS001"}})

	inbound, err := s.RemoveItem("SYS001")
	if err != nil {
		t.Fatalf("RemoveItem: %v", err)
	}
	if len(inbound) != 1 || inbound[0] != "SRS001" {
		t.Errorf("inbound = %v, want [SRS001]", inbound)
	}
	if _, err := s.GetItem("SYS001"); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("item still loadable after remove: %v", err)
	}
}

func TestAddLink(t *testing.T) {
	s, _, _ := newService(t)
	if err := s.CreateDocument(models.DocumentConfig{Prefix: "SYS", Digits: 3}, "sys"); err != nil {
		t.Fatal(err)
	}
	if err := s.CreateDocument(models.DocumentConfig{Prefix: "SRS", Parents: []string{"SYS"}, Digits: 3}, "srs"); err != nil {
		t.Fatal(err)
	}
	mustAdd(t, s, "SYS", ItemDraft{Text: "parent"})
	mustAdd(t, s, "SRS", ItemDraft{Text: "child"})
	if _, err := s.MarkReviewed("SRS001"); err != nil {
		t.Fatal(err)
	}

	if err := s.AddLink("SRS001", "SYS001"); err != nil {
		t.Fatalf("AddLink: %v", err)
	}
	item, err := s.GetItem("SRS001")
	if err != nil {
		t.Fatal(err)
	}
	if !item.LinksTo("SYS001") {
		t.Error("link not persisted")
	}
	if item.Links[0].Hash != "" {
		t.Error("new link must start unverified")
	}
	if item.Reviewed != "" {
		t.Error("adding a link must clear the review marker")
	}

	err = s.AddLink("SRS001", "SYS001")
	if !errors.Is(err, apperr.ErrAlreadyExists) {
		t.Errorf("duplicate link: err = %v, want ErrAlreadyExists", err)
	}
	err = s.AddLink("SRS001", "SYS999")
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("missing parent: err = %v, want ErrNotFound", err)
	}
}

func TestRemoveLink(t *testing.T) {
	s, _, _ := newService(t)
	if err := s.CreateDocument(models.DocumentConfig{Prefix: "SYS", Digits: 3}, "sys"); err != nil {
		t.Fatal(err)
	}
	if err := s.CreateDocument(models.DocumentConfig{Prefix: "SRS", Parents: []string{"SYS"}, Digits: 3}, "srs"); err != nil {
		t.Fatal(err)
	}
	mustAdd(t, s, "SYS", ItemDraft{Text: "parent"})
	mustAdd(t, s, "SRS", ItemDraft{Text: "child", Links: []string{"SYS001"}})

	if err := s.RemoveLink("SRS001", "SYS001"); err != nil {
		t.Fatalf("RemoveLink: %v", err)
	}
	item, err := s.GetItem("SRS001")
	if err != nil {
		t.Fatal(err)
	}
	if len(item.Links) != 0 {
		t.Errorf("links = %v, want none", item.Links)
	}

	err = s.RemoveLink("SRS001", "SYS001")
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("removing absent link: err = %v, want ErrNotFound", err)
	}
}

func TestReviewLifecycle(t *testing.T) {
	s, _, _ := newService(t)
	if err := s.CreateDocument(models.DocumentConfig{Prefix: "SYS", Digits: 3}, "sys"); err != nil {
		t.Fatal(err)
	}
	if err := s.CreateDocument(models.DocumentConfig{Prefix: "SRS", Parents: []string{"SYS"}, Digits: 3}, "srs"); err != nil {
		t.Fatal(err)
	}
	parent := mustAdd(t, s, "SYS", ItemDraft{Text: "parent"})
	mustAdd(t, s, "SRS", ItemDraft{Text: "child", Links: []string{"SYS001"}})

	// Mark: review marker equals the current content hash.
	n, err := s.MarkReviewed("SRS001")
	if err != nil || n != 1 {
		t.Fatalf("MarkReviewed = %d, %v", n, err)
	}
	item, err := s.GetItem("SRS001")
	if err != nil {
		t.Fatal(err)
	}
	want := checksum.Content(item.Text, item.Header, item.ParentUIDs(), string(item.Type))
	if item.Reviewed != want {
		t.Errorf("reviewed = %q, want content hash %q", item.Reviewed, want)
	}

	// Clear suspect: link hash refreshed to the parent's content hash.
	n, err = s.ClearSuspect("SRS001")
	if err != nil || n != 1 {
		t.Fatalf("ClearSuspect = %d, %v", n, err)
	}
	item, err = s.GetItem("SRS001")
	if err != nil {
		t.Fatal(err)
	}
	parentHash := checksum.Content(parent.Text, parent.Header, parent.ParentUIDs(), string(parent.Type))
	if item.Links[0].Hash != parentHash {
		t.Errorf("link hash = %q, want %q", item.Links[0].Hash, parentHash)
	}

	// Reset: marker and link hashes both dropped.
	n, err = s.ResetReview("SRS001")
	if err != nil || n != 1 {
		t.Fatalf("ResetReview = %d, %v", n, err)
	}
	item, err = s.GetItem("SRS001")
	if err != nil {
		t.Fatal(err)
	}
	if item.Reviewed != "" || item.Links[0].Hash != "" {
		t.Errorf("reset left state behind: reviewed=%q hash=%q", item.Reviewed, item.Links[0].Hash)
	}
}

func TestMarkReviewed_Labels(t *testing.T) {
	s, _, _ := newService(t)
	if err := s.CreateDocument(models.DocumentConfig{Prefix: "SYS", Digits: 3}, "sys"); err != nil {
		t.Fatal(err)
	}
	if err := s.CreateDocument(models.DocumentConfig{Prefix: "SRS", Parents: []string{"SYS"}, Digits: 3}, "srs"); err != nil {
		t.Fatal(err)
	}
	mustAdd(t, s, "SYS", ItemDraft{Text: "a"})
	mustAdd(t, s, "SYS", ItemDraft{Text: "b"})
	mustAdd(t, s, "SRS", ItemDraft{Text: "c"})

	if n, err := s.MarkReviewed("SYS"); err != nil || n != 2 {
		t.Errorf("MarkReviewed(SYS) = %d, %v; want 2", n, err)
	}
	if n, err := s.MarkReviewed(LabelAll); err != nil || n != 3 {
		t.Errorf("MarkReviewed(all) = %d, %v; want 3", n, err)
	}
	if _, err := s.MarkReviewed("NOPE999"); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("unknown label: err = %v, want ErrNotFound", err)
	}
}

func TestDeleteDocument(t *testing.T) {
	s, _, store := newService(t)
	if err := s.CreateDocument(models.DocumentConfig{Prefix: "SYS", Digits: 3}, "sys"); err != nil {
		t.Fatal(err)
	}
	if err := s.CreateDocument(models.DocumentConfig{Prefix: "SRS", Parents: []string{"SYS"}, Digits: 3}, "srs"); err != nil {
		t.Fatal(err)
	}
	mustAdd(t, s, "SYS", ItemDraft{Text: "parent"})
	mustAdd(t, s, "SRS", ItemDraft{Text: "child", Links: []string{"SYS001"}})

	err := s.DeleteDocument("SYS", false)
	if !errors.Is(err, apperr.ErrConflict) {
		t.Fatalf("referenced document: err = %v, want ErrConflict", err)
	}

	if err := s.DeleteDocument("SYS", true); err != nil {
		t.Fatalf("forced delete: %v", err)
	}
	if store.Exists("sys/.raido.yml") {
		t.Error("document directory survived forced delete")
	}

	if err := s.DeleteDocument("GHOST", false); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("unknown document: err = %v, want ErrNotFound", err)
	}
}
