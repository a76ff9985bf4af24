package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

// Shared argument schemas

var pathProperty = map[string]interface{}{
	"type":        "string",
	"description": "Absolute path to the gauge image file",
}

var configProperty = map[string]interface{}{
	"type":        "string",
	"description": "Path to a JSON5 calibration profile",
}

var profileProperty = map[string]interface{}{
	"type":        "object",
	"description": "Inline calibration profile, used when config is omitted",
	"properties": map[string]interface{}{
		"separation_deg":       map[string]interface{}{"type": "number"},
		"min_angle_deg":        map[string]interface{}{"type": "number"},
		"max_angle_deg":        map[string]interface{}{"type": "number"},
		"min_value":            map[string]interface{}{"type": "number"},
		"max_value":            map[string]interface{}{"type": "number"},
		"units":                map[string]interface{}{"type": "string"},
		"unit_weight":          map[string]interface{}{"type": "number"},
		"zero_deviation_ticks": map[string]interface{}{"type": "integer"},
		"max_deviation_ticks":  map[string]interface{}{"type": "integer"},
	},
}

var regionProperty = map[string]interface{}{
	"type": "object",
	"properties": map[string]interface{}{
		"x1": map[string]interface{}{"type": "integer"},
		"y1": map[string]interface{}{"type": "integer"},
		"x2": map[string]interface{}{"type": "integer"},
		"y2": map[string]interface{}{"type": "integer"},
	},
	"description": "Optional region of interest for the coarse circle search. If omitted, the whole image is searched.",
}

var minRadiusProperty = map[string]interface{}{
	"type":        "integer",
	"description": "Smallest gauge face radius in pixels (default 260)",
	"default":     260,
}

var maxRadiusProperty = map[string]interface{}{
	"type":        "integer",
	"description": "Largest gauge face radius in pixels (default 310)",
	"default":     310,
}

var tieBreakProperty = map[string]interface{}{
	"type":        "string",
	"enum":        []string{"longest", "nearest-center", "first"},
	"description": "How to choose the needle when several lines are found (default longest)",
	"default":     "longest",
}

// pipelineSchema is the input schema shared by the image-reading tools.
func pipelineSchema(extra map[string]interface{}, required ...string) map[string]interface{} {
	props := map[string]interface{}{
		"path":       pathProperty,
		"config":     configProperty,
		"profile":    profileProperty,
		"region":     regionProperty,
		"min_radius": minRadiusProperty,
		"max_radius": maxRadiusProperty,
		"tie_break":  tieBreakProperty,
	}
	for k, v := range extra {
		props[k] = v
	}
	return map[string]interface{}{
		"type":       "object",
		"properties": props,
		"required":   append([]string{"path"}, required...),
	}
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		{
			Name:        "gauge_read",
			Description: "Read an analog gauge: locate the dial, calibrate it with the profile, detect the needle and return the value with its units.",
			InputSchema: pipelineSchema(nil),
		},
		{
			Name:        "gauge_locate_circle",
			Description: "Locate the gauge face on the full image. Returns the averaged circle, the raw Hough candidates and the crop rectangle used for refinement.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path":       pathProperty,
					"region":     regionProperty,
					"min_radius": minRadiusProperty,
					"max_radius": maxRadiusProperty,
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "gauge_calibrate",
			Description: "Compute the calibration frame (ticks, sweep, zero point) for a known gauge circle without touching an image.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"config":   configProperty,
					"profile":  profileProperty,
					"center_x": map[string]interface{}{"type": "integer", "description": "Circle center X"},
					"center_y": map[string]interface{}{"type": "integer", "description": "Circle center Y"},
					"radius":   map[string]interface{}{"type": "integer", "description": "Circle radius in pixels"},
				},
				"required": []string{"center_x", "center_y", "radius"},
			},
		},
		{
			Name:        "gauge_detect_needle",
			Description: "Detect the needle on a gauge image. Returns every detected line segment, the chosen needle and its tip in full-image coordinates.",
			InputSchema: pipelineSchema(nil),
		},
		{
			Name:        "gauge_overlay",
			Description: "Render the detected dial, calibration ticks, zero point and needle over the image and return it as base64-encoded PNG.",
			InputSchema: pipelineSchema(map[string]interface{}{
				"rim_color": map[string]interface{}{
					"type":        "string",
					"description": "Hex color for the dial rim (default #00C000)",
					"default":     "#00C000",
				},
				"needle_color": map[string]interface{}{
					"type":        "string",
					"description": "Hex color for the needle (default #FF0000)",
					"default":     "#FF0000",
				},
			}),
		},
		{
			Name:        "gauge_read_units",
			Description: "OCR the units label printed below the hub and check it against the profile's units.",
			InputSchema: pipelineSchema(map[string]interface{}{
				"language": map[string]interface{}{
					"type":        "string",
					"description": "Tesseract language code (default eng)",
					"default":     "eng",
				},
			}),
		},
	}
}
