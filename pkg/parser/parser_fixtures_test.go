package parser

import (
	"encoding/json"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"gopkg.in/yaml.v3"
)

// moduleFixture pairs a source snippet with the expected JSON rendering of
// its converted module.
type moduleFixture struct {
	Name   string `yaml:"name"`
	Source string `yaml:"source"`
	Module string `yaml:"module"`
}

type fixtureFile struct {
	Cases []moduleFixture `yaml:"cases"`
}

func loadFixtures(t testing.TB, name string) []moduleFixture {
	t.Helper()
	f, err := os.Open(filepath.Join("testdata", name))
	if err != nil {
		t.Fatalf("open fixtures: %v", err)
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	var file fixtureFile
	if err := dec.Decode(&file); err != nil {
		t.Fatalf("decode fixtures: %v", err)
	}
	if len(file.Cases) == 0 {
		t.Fatal("no fixture cases")
	}
	return file.Cases
}

func TestModuleFixtures(t *testing.T) {
	p := newTestParser(t)
	for _, tc := range loadFixtures(t, "modules.yaml") {
		t.Run(tc.Name, func(t *testing.T) {
			file, err := p.ParseModule([]byte(tc.Source), "fixture.py", nil)
			if err != nil {
				t.Fatalf("ParseModule error: %v", err)
			}
			gotJSON, err := json.Marshal(file)
			if err != nil {
				t.Fatalf("marshal module: %v", err)
			}

			var got, want interface{}
			if err := json.Unmarshal(gotJSON, &got); err != nil {
				t.Fatalf("round-trip module: %v", err)
			}
			if err := json.Unmarshal([]byte(tc.Module), &want); err != nil {
				t.Fatalf("bad fixture module JSON: %v", err)
			}
			if !reflect.DeepEqual(want, got) {
				wantPretty, _ := json.MarshalIndent(want, "", "  ")
				gotPretty, _ := json.MarshalIndent(got, "", "  ")
				t.Fatalf("module mismatch\nexpected: %s\n   actual: %s", wantPretty, gotPretty)
			}
		})
	}
}
