package theme

import (
	"encoding/json"
	"testing"
)

func TestLabel(t *testing.T) {
	tests := []struct {
		id   ID
		want string
	}{
		{Night, "dark"},
		{AstronomicalDawn, "dark-dimmed"},
		{NauticalDawn, "dark-soft"},
		{CivilDawn, "light-soft"},
		{Sunrise, "light"},
		{Day, "light"},
		{CivilDusk, "light-soft"},
		{NauticalDusk, "dark-soft"},
		{AstronomicalDusk, "dark-dimmed"},
	}

	if len(tests) != len(All) {
		t.Fatalf("label table covers %d phases, All has %d", len(tests), len(All))
	}

	for _, tt := range tests {
		t.Run(tt.id.String(), func(t *testing.T) {
			if got := tt.id.Label(); got != tt.want {
				t.Errorf("%v.Label() = %q, want %q", tt.id, got, tt.want)
			}
		})
	}
}

func TestDescriptionAndStringCoverEveryPhase(t *testing.T) {
	seen := make(map[string]bool)
	for _, id := range All {
		if !id.Valid() {
			t.Errorf("%d not Valid()", int(id))
		}
		if id.Description() == "" {
			t.Errorf("%v has no description", id)
		}
		name := id.String()
		if seen[name] {
			t.Errorf("duplicate name %q", name)
		}
		seen[name] = true
	}
}

func TestLabel_PanicsOnUnknown(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("Label() on unknown ID did not panic")
		}
	}()
	_ = ID(99).Label()
}

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		want    ID
		wantErr bool
	}{
		{"Night", Night, false},
		{"civildawn", CivilDawn, false},
		{"ASTRONOMICALDUSK", AstronomicalDusk, false},
		{"Noon", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.name)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Parse(%q) error = %v, wantErr %v", tt.name, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("Parse(%q) = %v, want %v", tt.name, got, tt.want)
			}
		})
	}
}

func TestJSON(t *testing.T) {
	data, err := json.Marshal(struct {
		Phase ID `json:"phase"`
	}{Sunrise})
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if string(data) != `{"phase":"Sunrise"}` {
		t.Errorf("Marshal() = %s", data)
	}

	var back struct {
		Phase ID `json:"phase"`
	}
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if back.Phase != Sunrise {
		t.Errorf("Unmarshal() phase = %v, want Sunrise", back.Phase)
	}

	if _, err := json.Marshal(ID(42)); err == nil {
		t.Error("Marshal(ID(42)) expected error")
	}
}
