package server

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestGetToolDefinitions(t *testing.T) {
	tools := GetToolDefinitions()

	if len(tools) == 0 {
		t.Fatal("GetToolDefinitions returned empty slice")
	}

	expectedTools := []string{
		"image_load",
		"image_dimensions",
		"image_edge_detect",
		"document_detect",
		"document_scan",
		"document_correct",
		"document_crop",
		"document_enhance",
		"document_overlay",
	}

	toolMap := make(map[string]Tool)
	for _, tool := range tools {
		toolMap[tool.Name] = tool
	}

	// Check all expected tools exist
	for _, name := range expectedTools {
		if _, ok := toolMap[name]; !ok {
			t.Errorf("Expected tool %s not found", name)
		}
	}
}

func TestToolDefinitions_Structure(t *testing.T) {
	for _, tool := range GetToolDefinitions() {
		t.Run(tool.Name, func(t *testing.T) {
			if tool.Description == "" {
				t.Error("Tool description is empty")
			}
			if tool.InputSchema["type"] != "object" {
				t.Errorf("InputSchema type: got %v, want 'object'", tool.InputSchema["type"])
			}

			props, ok := tool.InputSchema["properties"].(map[string]interface{})
			if !ok {
				t.Fatal("properties should be a map")
			}
			required, ok := tool.InputSchema["required"].([]string)
			if !ok {
				t.Fatal("required should be a string slice")
			}
			// Every required argument must be described.
			for _, r := range required {
				if _, ok := props[r]; !ok {
					t.Errorf("required parameter %q has no schema", r)
				}
			}
		})
	}
}

func TestToolDefinitions_Required(t *testing.T) {
	tests := map[string][]string{
		"image_load":        {"path"},
		"image_dimensions":  {"path"},
		"image_edge_detect": {"path"},
		"document_detect":   {"path"},
		"document_scan":     {"path"},
		"document_correct":  {"path", "corners"},
		"document_crop":     {"path", "x1", "y1", "x2", "y2"},
		"document_enhance":  {"path"},
		"document_overlay":  {"path"},
	}

	tools := make(map[string]Tool)
	for _, tool := range GetToolDefinitions() {
		tools[tool.Name] = tool
	}

	for name, want := range tests {
		t.Run(name, func(t *testing.T) {
			tool, ok := tools[name]
			if !ok {
				t.Fatalf("tool %s not found", name)
			}
			got, _ := tool.InputSchema["required"].([]string)
			if strings.Join(got, ",") != strings.Join(want, ",") {
				t.Errorf("required: got %v, want %v", got, want)
			}
		})
	}
}

func TestToolDefinitions_Corners(t *testing.T) {
	for _, name := range []string{"document_correct", "document_overlay"} {
		t.Run(name, func(t *testing.T) {
			var tool Tool
			for _, tt := range GetToolDefinitions() {
				if tt.Name == name {
					tool = tt
				}
			}
			props, _ := tool.InputSchema["properties"].(map[string]interface{})
			corners, ok := props["corners"].(map[string]interface{})
			if !ok {
				t.Fatal("corners property should exist and be a map")
			}
			if corners["minItems"] != 4 || corners["maxItems"] != 4 {
				t.Errorf("corners should hold exactly 4 points, got min %v max %v", corners["minItems"], corners["maxItems"])
			}
		})
	}
}

func TestToolDefinitions_BinarizeModes(t *testing.T) {
	tools := GetToolDefinitions()

	var tool Tool
	for _, tt := range tools {
		if tt.Name == "document_enhance" {
			tool = tt
			break
		}
	}

	if tool.Name == "" {
		t.Fatal("document_enhance tool not found")
	}

	props, ok := tool.InputSchema["properties"].(map[string]interface{})
	if !ok {
		t.Fatal("properties should be a map")
	}

	binarizeProp, ok := props["binarize"].(map[string]interface{})
	if !ok {
		t.Fatal("binarize property should exist and be a map")
	}

	enum, ok := binarizeProp["enum"].([]string)
	if !ok {
		t.Fatal("binarize should have enum")
	}

	enumMap := make(map[string]bool)
	for _, e := range enum {
		enumMap[e] = true
	}

	for _, mode := range []string{"adaptive", "global", "none"} {
		if !enumMap[mode] {
			t.Errorf("Expected mode '%s' not in enum", mode)
		}
	}
}

func TestToolDefinitions_Dispatch(t *testing.T) {
	s := New(nil, nil)

	// Every advertised tool must reach a handler; with no arguments the
	// handlers fail on the missing file, not on an unknown name.
	for _, tool := range GetToolDefinitions() {
		t.Run(tool.Name, func(t *testing.T) {
			_, err := s.executeTool(tool.Name, []byte(`{}`))
			if err != nil && strings.HasPrefix(err.Error(), "unknown tool") {
				t.Errorf("tool %s is not dispatched", tool.Name)
			}
		})
	}
}

func TestToolDefinitions_OptionalDefaults(t *testing.T) {
	tools := GetToolDefinitions()

	// Tools with optional parameters that should have defaults
	toolDefaults := map[string]map[string]interface{}{
		"document_crop":     {"scale": 1.0},
		"document_scan":     {"enhance": false, "omit_image": false},
		"document_correct":  {"enhance": false},
		"document_enhance":  {"binarize": "adaptive"},
		"document_overlay":  {"color": "#00FF00", "thickness": 3},
		"image_edge_detect": {"threshold_low": 50, "threshold_high": 150},
	}

	toolMap := make(map[string]Tool)
	for _, tool := range tools {
		toolMap[tool.Name] = tool
	}

	for toolName, expectedDefaults := range toolDefaults {
		tool, ok := toolMap[toolName]
		if !ok {
			t.Errorf("Tool %s not found", toolName)
			continue
		}

		props, ok := tool.InputSchema["properties"].(map[string]interface{})
		if !ok {
			t.Errorf("%s: properties should be a map", toolName)
			continue
		}

		for paramName, expectedDefault := range expectedDefaults {
			param, ok := props[paramName].(map[string]interface{})
			if !ok {
				t.Errorf("%s.%s: parameter not found or not a map", toolName, paramName)
				continue
			}

			actualDefault, ok := param["default"]
			if !ok {
				t.Errorf("%s.%s: missing default value", toolName, paramName)
				continue
			}

			// Compare defaults (handle type differences)
			switch expected := expectedDefault.(type) {
			case float64:
				actual, ok := actualDefault.(float64)
				if !ok || actual != expected {
					t.Errorf("%s.%s: default got %v, want %v", toolName, paramName, actualDefault, expected)
				}
			case int:
				// JSON numbers are float64
				actual, ok := actualDefault.(int)
				if !ok {
					actualFloat, ok := actualDefault.(float64)
					if !ok || int(actualFloat) != expected {
						t.Errorf("%s.%s: default got %v, want %v", toolName, paramName, actualDefault, expected)
					}
				} else if actual != expected {
					t.Errorf("%s.%s: default got %v, want %v", toolName, paramName, actualDefault, expected)
				}
			case string:
				actual, ok := actualDefault.(string)
				if !ok || actual != expected {
					t.Errorf("%s.%s: default got %v, want %v", toolName, paramName, actualDefault, expected)
				}
			case bool:
				actual, ok := actualDefault.(bool)
				if !ok || actual != expected {
					t.Errorf("%s.%s: default got %v, want %v", toolName, paramName, actualDefault, expected)
				}
			}
		}
	}
}

func TestHandleToolsList(t *testing.T) {
	s := New(nil, nil)
	resp := s.handleToolsList(&MCPRequest{JSONRPC: "2.0", ID: 1})

	if resp.Error != nil {
		t.Fatalf("Unexpected error: %v", resp.Error)
	}

	// Clients see the JSON form, so check the encoded listing.
	data, err := json.Marshal(resp.Result)
	if err != nil {
		t.Fatalf("Failed to marshal: %v", err)
	}
	var listing struct {
		Tools []struct {
			Name        string                 `json:"name"`
			InputSchema map[string]interface{} `json:"inputSchema"`
		} `json:"tools"`
	}
	if err := json.Unmarshal(data, &listing); err != nil {
		t.Fatalf("Failed to unmarshal: %v", err)
	}

	expected := GetToolDefinitions()
	if len(listing.Tools) != len(expected) {
		t.Fatalf("Tool count: got %d, want %d", len(listing.Tools), len(expected))
	}
	for i, tool := range listing.Tools {
		if tool.Name != expected[i].Name {
			t.Errorf("tool %d: got %s, want %s", i, tool.Name, expected[i].Name)
		}
		if tool.InputSchema["type"] != "object" {
			t.Errorf("%s: inputSchema not encoded", tool.Name)
		}
	}
}
