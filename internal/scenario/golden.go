package scenario

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/sebdah/goldie/v2"
)

// MarshalSnapshot encodes s as indented JSON terminated by a newline.
func MarshalSnapshot(s Snapshot) ([]byte, error) {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// RunWithGolden runs sc and compares its snapshot against
// testdata/golden/<name>.golden. Failed steps or assertions fail the test.
//
// To regenerate golden files, run:
//
//	go test ./internal/scenario -update
func RunWithGolden(t *testing.T, sc *Scenario) *Result {
	t.Helper()

	result, err := Run(context.Background(), sc)
	if err != nil {
		t.Fatalf("run scenario %s: %v", sc.Name, err)
	}
	for _, e := range result.Errors {
		t.Errorf("scenario %s: %s", sc.Name, e)
	}
	AssertGolden(t, sc.Name, result.Snapshot)
	return result
}

// AssertGolden compares snapshot against testdata/golden/<name>.golden.
func AssertGolden(t *testing.T, name string, snapshot Snapshot) {
	t.Helper()

	data, err := MarshalSnapshot(snapshot)
	if err != nil {
		t.Fatalf("marshal snapshot: %v", err)
	}
	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, data)
}
