package e2e_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runJSONKit runs the command line through go run and returns stdout,
// stderr and the command error
func runJSONKit(t testing.TB, stdin string, args ...string) (string, string, error) {
	t.Helper()
	cmd := exec.Command("go", append([]string{"run", "../.."}, args...)...)
	cmd.Stdin = strings.NewReader(stdin)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	return stdout.String(), stderr.String(), err
}

const complexJSON = `{
	"id": 12345,
	"uuid": "550e8400-e29b-41d4-a716-446655440000",
	"created_at": "2023-05-20T14:56:23Z",
	"updated_at": null,
	"config": {
		"enabled": true,
		"timeout_seconds": 30,
		"retry_count": 3,
		"features": ["logging", "metrics", "alerting"],
		"rate_limits": {
			"per_second": 100,
			"per_minute": 1000,
			"burst": 150
		},
		"environments": {
			"development": {
				"debug": true,
				"log_level": "debug"
			},
			"production": {
				"debug": false,
				"log_level": "info"
			}
		}
	},
	"users": [
		{
			"id": 1,
			"name": "Alice",
			"roles": ["admin", "user"],
			"metadata": {
				"last_login": "2023-05-19T10:30:00Z",
				"login_count": 42
			}
		},
		{
			"id": 2,
			"name": "Bob",
			"roles": ["user"],
			"metadata": {
				"last_login": "2023-05-18T09:15:00Z",
				"login_count": 17
			}
		}
	],
	"stats": {
		"requests": 1234567,
		"errors": 123,
		"success_rate": 0.9999,
		"response_times": [0.045, 0.067, 0.032, 0.051]
	},
	"active": true
}`

// TestEndToEnd_ComplexNestedStructures converts a nested document to YAML
// and back and queries it
func TestEndToEnd_ComplexNestedStructures(t *testing.T) {
	tempDir := t.TempDir()
	jsonFile := filepath.Join(tempDir, "complex.json")
	require.NoError(t, os.WriteFile(jsonFile, []byte(complexJSON), 0o644))
	yamlFile := filepath.Join(tempDir, "complex.yaml")

	_, stderr, err := runJSONKit(t, "", "fmt", "--to", "yaml", "--write", yamlFile, jsonFile)
	require.NoError(t, err, "CLI command failed: %s", stderr)

	yamlText, err := os.ReadFile(yamlFile)
	require.NoError(t, err)
	assert.Contains(t, string(yamlText), "uuid: 550e8400-e29b-41d4-a716-446655440000\n")
	assert.Contains(t, string(yamlText), "  features:\n    - logging\n")
	assert.Contains(t, string(yamlText), "users:\n  - id: 1\n    name: Alice\n")

	back, stderr, err := runJSONKit(t, "", "fmt", "--to", "json", yamlFile)
	require.NoError(t, err, stderr)
	assert.JSONEq(t, complexJSON, back)

	value, _, err := runJSONKit(t, "", "get", yamlFile, "$.users[1].metadata.login_count")
	require.NoError(t, err)
	assert.Equal(t, "17\n", value)

	paths, _, err := runJSONKit(t, "", "paths", "--depth", "1", jsonFile)
	require.NoError(t, err)
	assert.Equal(t, "$\n$.id\n$.uuid\n$.created_at\n$.updated_at\n$.config\n$.users\n$.stats\n$.active\n", paths)
}

// TestEndToEnd_DiffThenApply checks that a generated patch turns the left
// document into the right one
func TestEndToEnd_DiffThenApply(t *testing.T) {
	tempDir := t.TempDir()
	left := filepath.Join(tempDir, "left.json")
	right := filepath.Join(tempDir, "right.json")
	patchFile := filepath.Join(tempDir, "patch.json")

	var doc map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(complexJSON), &doc))
	doc["active"] = false
	doc["users"] = doc["users"].([]interface{})[:1]
	doc["config"].(map[string]interface{})["features"] = []interface{}{"logging", "tracing"}
	doc["owner"] = map[string]interface{}{"team": "platform"}
	changed, err := json.Marshal(doc)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(left, []byte(complexJSON), 0o644))
	require.NoError(t, os.WriteFile(right, changed, 0o644))

	patch, stderr, err := runJSONKit(t, "", "diff", "--output", "patch", left, right)
	require.NoError(t, err, stderr)
	require.NoError(t, os.WriteFile(patchFile, []byte(patch), 0o644))

	applied, stderr, err := runJSONKit(t, "", "apply", left, patchFile)
	require.NoError(t, err, stderr)
	assert.JSONEq(t, string(changed), applied)

	_, _, err = runJSONKit(t, "", "diff", "--exit-code", writeDoc(t, tempDir, applied), right)
	assert.NoError(t, err, "patched document should equal the right document")
}

// writeDoc stores content as applied.json in dir
func writeDoc(t *testing.T, dir, content string) string {
	t.Helper()
	file := filepath.Join(dir, "applied.json")
	require.NoError(t, os.WriteFile(file, []byte(content), 0o644))
	return file
}

// generateLargeJSON generates a large JSON file with the specified number of items
func generateLargeJSON(t testing.TB, filePath string, itemCount int) {
	// Seed random for reproducible results
	rng := rand.New(rand.NewSource(42))

	items := make([]map[string]interface{}, itemCount)

	for i := 0; i < itemCount; i++ {
		items[i] = map[string]interface{}{
			"id":          i + 1,
			"guid":        fmt.Sprintf("%x-%x-%x-%x-%x", rng.Uint32(), rng.Uint32()&0xffff, rng.Uint32()&0xffff, rng.Uint32()&0xffff, rng.Uint32()<<16|rng.Uint32()),
			"name":        fmt.Sprintf("Item %d", i+1),
			"description": fmt.Sprintf("This is item number %d in the test dataset", i+1),
			"created_at":  time.Now().Add(-time.Duration(rng.Intn(10000)) * time.Hour).Format(time.RFC3339),
			"price":       rng.Float64() * 1000,
			"quantity":    rng.Intn(100),
			"active":      rng.Intn(2) == 1,
			"tags":        []string{"tag1", "tag2", "tag3"}[0 : rng.Intn(3)+1],
			"metadata": map[string]interface{}{
				"source":    "test",
				"priority":  rng.Intn(5) + 1,
				"processed": rng.Intn(2) == 1,
			},
		}
	}

	jsonData, err := json.MarshalIndent(items, "", "  ")
	require.NoError(t, err)

	err = os.WriteFile(filePath, jsonData, 0o644)
	require.NoError(t, err)
}

// TestEndToEnd_LargeDocument runs stats and a YAML round trip over a
// generated document
func TestEndToEnd_LargeDocument(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping large document test in short mode")
	}
	tempDir := t.TempDir()
	jsonFile := filepath.Join(tempDir, "large.json")
	generateLargeJSON(t, jsonFile, 500)

	stats, stderr, err := runJSONKit(t, "", "stats", "--json", jsonFile)
	require.NoError(t, err, stderr)

	var counts map[string]int
	require.NoError(t, json.Unmarshal([]byte(stats), &counts))
	assert.Equal(t, 1000, counts["objects"])
	assert.Equal(t, 3, counts["maxDepth"])

	yamlText, stderr, err := runJSONKit(t, "", "fmt", "--to", "yaml", jsonFile)
	require.NoError(t, err, stderr)
	back, stderr, err := runJSONKit(t, yamlText, "fmt", "--to", "json")
	require.NoError(t, err, stderr)

	original, err := os.ReadFile(jsonFile)
	require.NoError(t, err)
	assert.JSONEq(t, string(original), back)
}

// TestEndToEnd_EdgeCases tests various edge cases
func TestEndToEnd_EdgeCases(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		args     []string
		expected string
		isError  bool
	}{
		{name: "EmptyObject", input: `{}`, args: []string{"fmt"}, expected: "{}\n"},
		{name: "EmptyArray", input: `[]`, args: []string{"fmt", "--to", "yaml"}, expected: "[]\n"},
		{name: "SingleValue", input: `"just a string"`, args: []string{"fmt", "--to", "json"}, expected: "\"just a string\"\n"},
		{name: "SingleNumber", input: `42`, args: []string{"fmt"}, expected: "42\n"},
		{name: "SingleBoolean", input: `true`, args: []string{"fmt"}, expected: "true\n"},
		{name: "SingleNull", input: `null`, args: []string{"fmt", "--to", "json"}, expected: "null\n"},
		{name: "RepairedJSON", input: `{"name": "Invalid JSON",}`, args: []string{"fmt", "--minify"}, expected: `{"name":"Invalid JSON"}` + "\n"},
		{name: "InvalidJSON", input: `{"name": "Invalid JSON",}`, args: []string{"--no-repair", "fmt"}, isError: true},
		{name: "UnbalancedJSON", input: `{"name": ["a"}`, args: []string{"fmt"}, isError: true},
		{
			name:     "DeeplyNestedObject",
			input:    `{"level1":{"level2":{"level3":{"level4":{"level5":{"value":42}}}}}}`,
			args:     []string{"get", "-", "level1.level2.level3.level4.level5.value"},
			expected: "42\n",
		},
		{name: "DeeplyNestedArray", input: `[[[[[[42]]]]]]`, args: []string{"fmt", "--minify"}, expected: "[[[[[[42]]]]]]\n"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			stdout, stderr, err := runJSONKit(t, tc.input, tc.args...)

			if tc.isError {
				assert.Error(t, err, "Expected an error for %s", tc.name)
				assert.Contains(t, stderr, "Parse error")
			} else {
				assert.NoError(t, err, "Unexpected error for %s: %s", tc.name, stderr)
				assert.Equal(t, tc.expected, stdout, "Unexpected output for %s", tc.name)
			}
		})
	}
}
