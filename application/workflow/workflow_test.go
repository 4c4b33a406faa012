package workflow

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestMarshal_DeployWorkflow(t *testing.T) {
	data, err := Marshal(Generate())
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, yaml.Unmarshal(data, &got))

	want := map[string]any{
		"name": "Deploy",
		"on": map[string]any{
			"push": map[string]any{"branches": []any{"main"}},
		},
		"jobs": map[string]any{
			"deploy": map[string]any{
				"runs-on": "ubuntu-latest",
				"steps": []any{
					map[string]any{"uses": "actions/checkout@v2"},
					map[string]any{"name": "Setup Fluent CI", "uses": "fluentci-io/setup-fluentci@v1"},
					map[string]any{
						"name": "Run Dagger Pipelines",
						"run":  "fluentci run wasmer_pipeline",
						"env":  map[string]any{"WASMER_TOKEN": "${{ secrets.WASMER_TOKEN }}"},
					},
				},
			},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("workflow mismatch (-want +got):\n%s", diff)
	}
}

func TestMarshal_KeyOrder(t *testing.T) {
	data, err := Marshal(Generate())
	require.NoError(t, err)
	out := string(data)

	name := strings.Index(out, "name: Deploy")
	on := strings.Index(out, "on")
	jobs := strings.Index(out, "jobs:")
	require.GreaterOrEqual(t, name, 0)
	assert.Less(t, name, on)
	assert.Less(t, on, jobs)
	assert.Less(t, strings.Index(out, "runs-on:"), strings.Index(out, "steps:"))

	again, err := Marshal(Generate())
	require.NoError(t, err)
	assert.Equal(t, out, string(again))
}

func TestGenerate_Options(t *testing.T) {
	w := Generate(WithName("Release"), WithBranches("release", "main"), WithRunner("macos-14"))

	assert.Equal(t, "Release", w.Name)
	assert.Equal(t, []string{"release", "main"}, w.On.Push.Branches)
	assert.Equal(t, "macos-14", w.Jobs["deploy"].RunsOn)
}

func TestParse(t *testing.T) {
	data, err := Marshal(Generate())
	require.NoError(t, err)

	w, err := Parse(data)
	require.NoError(t, err)
	if diff := cmp.Diff(Generate(), w); diff != "" {
		t.Errorf("parsed workflow mismatch (-want +got):\n%s", diff)
	}

	_, err = Parse([]byte("name: [unterminated"))
	assert.Error(t, err)
}
