package window

import "testing"

func TestLookupPreset(t *testing.T) {
	p, err := LookupPreset("Brain")
	if err != nil {
		t.Fatalf("LookupPreset(Brain) returned error: %v", err)
	}
	if p.Width != 80 || p.Center != 40 {
		t.Errorf("brain preset = %+v, want width 80 center 40", p)
	}

	if _, err := LookupPreset("kidney"); err == nil {
		t.Error("LookupPreset(kidney) should return error")
	}
}

func TestPresetNames_Sorted(t *testing.T) {
	names := PresetNames()
	if len(names) != 7 {
		t.Errorf("Expected 7 presets, got %d", len(names))
	}
	for i := 1; i < len(names); i++ {
		if names[i-1] > names[i] {
			t.Errorf("PresetNames not sorted: %v", names)
			break
		}
	}
}

func TestDefaultSpecs(t *testing.T) {
	specs := DefaultSpecs()
	want := []string{"brain", "subdural", "bone"}
	for i, s := range specs {
		if s.Name != want[i] {
			t.Errorf("DefaultSpecs()[%d].Name = %s, want %s", i, s.Name, want[i])
		}
	}
	if specs[2].Level != 400 || specs[2].Width != 2000 {
		t.Errorf("bone spec = %+v, want 2000/400", specs[2])
	}
}
