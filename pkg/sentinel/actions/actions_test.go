package actions

import (
	"testing"

	"github.com/johnwesleyquintero/sentinel/pkg/sentinel/types"
)

func TestDefaultSetCoversAllKinds(t *testing.T) {
	set := DefaultSet()

	kinds := []types.ActionKind{
		types.ActionAdjustMemory,
		types.ActionCleanTempFiles,
		types.ActionDefragmentDisk,
		types.ActionThemePerformance,
		types.ActionFlushDNSCache,
		types.ActionStartupAudit,
	}
	for _, kind := range kinds {
		if !set.Has(kind) {
			t.Errorf("default set missing %q", kind)
		}
		a, err := set.Get(kind)
		if err != nil {
			t.Errorf("Get(%q): %v", kind, err)
			continue
		}
		if a.Kind() != kind {
			t.Errorf("Get(%q) returned action of kind %q", kind, a.Kind())
		}
	}
}

func TestSetGetUnknown(t *testing.T) {
	set := NewSet()
	if _, err := set.Get(types.ActionAdjustMemory); err == nil {
		t.Error("Get on empty set did not fail")
	}
	if set.Has("bogus") {
		t.Error("Has reported an unregistered kind")
	}
}

func TestRequestParams(t *testing.T) {
	req := Request{Params: types.Params{
		"dry_run": true,
		"drive":   "D:",
		"level":   int64(2),
	}}

	if !req.BoolParam("dry_run", false) {
		t.Error("BoolParam missed a set value")
	}
	if req.BoolParam("missing", false) {
		t.Error("BoolParam ignored the fallback")
	}
	if req.BoolParam("level", true) != true {
		t.Error("BoolParam did not fall back for a non-bool value")
	}
	if got := req.StringParam("drive", "C:"); got != "D:" {
		t.Errorf("StringParam = %q, want D:", got)
	}
	if got := req.StringParam("missing", "C:"); got != "C:" {
		t.Errorf("StringParam fallback = %q, want C:", got)
	}
}
