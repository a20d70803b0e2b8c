package discovery

import (
	"errors"
	"reflect"
	"testing"

	"github.com/starford/raido/internal/apperr"
	"github.com/starford/raido/internal/models"
	"github.com/starford/raido/internal/testutil"
)

func TestParseConfig(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want models.DocumentConfig
	}{
		{
			"minimal",
			"settings:\n  prefix: SYS\n",
			models.DocumentConfig{Prefix: "SYS", Digits: 3},
		},
		{
			"single parent as string",
			"settings:\n  prefix: SRS\n  parents: SYS\n",
			models.DocumentConfig{Prefix: "SRS", Parents: []string{"SYS"}, Digits: 3},
		},
		{
			"parent list",
			"settings:\n  prefix: SRS\n  parents:\n    - SYS\n    - RC\n",
			models.DocumentConfig{Prefix: "SRS", Parents: []string{"SYS", "RC"}, Digits: 3},
		},
		{
			"digits and sep",
			"settings:\n  prefix: REQ\n  digits: 5\n  sep: \"-\"\n",
			models.DocumentConfig{Prefix: "REQ", Digits: 5, Sep: "-"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseConfig([]byte(tt.yaml))
			if err != nil {
				t.Fatalf("ParseConfig: %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseConfig = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestParseConfig_Rejects(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"missing prefix", "settings:\n  digits: 3\n"},
		{"lowercase prefix", "settings:\n  prefix: srs\n"},
		{"leading digit", "settings:\n  prefix: 1RS\n"},
		{"short prefix", "settings:\n  prefix: S\n"},
		{"alnum separator", "settings:\n  prefix: SRS\n  sep: x\n"},
		{"digits out of range", "settings:\n  prefix: SRS\n  digits: 11\n"},
		{"non-string parent", "settings:\n  prefix: SRS\n  parents:\n    - 42\n"},
		{"broken yaml", "settings: [\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseConfig([]byte(tt.yaml)); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestMarshalConfig_Roundtrip(t *testing.T) {
	cfg := models.DocumentConfig{Prefix: "SRS", Parents: []string{"SYS"}, Digits: 4, Sep: "-"}
	data, err := MarshalConfig(cfg)
	if err != nil {
		t.Fatalf("MarshalConfig: %v", err)
	}
	got, err := ParseConfig(data)
	if err != nil {
		t.Fatalf("ParseConfig: %v", err)
	}
	if !reflect.DeepEqual(got, cfg) {
		t.Errorf("roundtrip = %+v, want %+v", got, cfg)
	}
}

func TestDiscover(t *testing.T) {
	root, store := testutil.TestProject(t)
	testutil.WriteDocConfig(t, root, "reqs/sys", "SYS")
	testutil.WriteDocConfig(t, root, "reqs/srs", "SRS", "SYS")

	d, issues, err := Discover(store, testutil.DiscardLogger())
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if len(issues) != 0 {
		t.Errorf("unexpected issues: %v", issues)
	}
	if got := d.Prefixes(); !reflect.DeepEqual(got, []string{"SRS", "SYS"}) {
		t.Errorf("prefixes = %v", got)
	}
	if got := d.Parents("SRS"); !reflect.DeepEqual(got, []string{"SYS"}) {
		t.Errorf("parents of SRS = %v", got)
	}
	if d.Paths["SYS"] != "reqs/sys" {
		t.Errorf("path of SYS = %q", d.Paths["SYS"])
	}
}

func TestDiscover_MalformedConfigSkipped(t *testing.T) {
	root, store := testutil.TestProject(t)
	testutil.WriteDocConfig(t, root, "sys", "SYS")
	testutil.WriteFile(t, root, "bad/.raido.yml", "settings:\n  prefix: bad lower\n")

	d, issues, err := Discover(store, testutil.DiscardLogger())
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if got := d.Prefixes(); !reflect.DeepEqual(got, []string{"SYS"}) {
		t.Errorf("prefixes = %v, want only SYS", got)
	}
	if len(issues) != 1 || issues[0].Code != "config-invalid" || issues[0].Level != models.LevelWarning {
		t.Errorf("issues = %v, want one config-invalid warning", issues)
	}
}

func TestDiscover_DuplicatePrefixFatal(t *testing.T) {
	root, store := testutil.TestProject(t)
	testutil.WriteDocConfig(t, root, "one", "SYS")
	testutil.WriteDocConfig(t, root, "two", "SYS")

	_, _, err := Discover(store, testutil.DiscardLogger())
	var derr *apperr.DiscoveryError
	if !errors.As(err, &derr) {
		t.Fatalf("expected DiscoveryError, got %v", err)
	}
	if !reflect.DeepEqual(derr.Prefixes, []string{"SYS"}) {
		t.Errorf("prefixes = %v, want [SYS]", derr.Prefixes)
	}
}

func TestDiscover_EmptyTree(t *testing.T) {
	_, store := testutil.TestProject(t)
	d, issues, err := Discover(store, testutil.DiscardLogger())
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if len(d.Prefixes()) != 0 || len(issues) != 0 {
		t.Errorf("empty tree should yield empty hierarchy, got %v / %v", d.Prefixes(), issues)
	}
}
