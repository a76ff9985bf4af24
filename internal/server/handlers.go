package server

import (
	"encoding/json"
	"fmt"
	"image"

	"github.com/ironsheep/gauge-reader/internal/detection"
	"github.com/ironsheep/gauge-reader/internal/gauge"
	"github.com/ironsheep/gauge-reader/internal/geometry"
	"github.com/ironsheep/gauge-reader/internal/imaging"
	"github.com/ironsheep/gauge-reader/internal/ocr"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "gauge_read").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Tool execution errors return a JSON-RPC error response with code -32000.
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	result, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
		s.log.WithError(err).WithField("tool", params.Name).Info("Tool failed")
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
	}

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": mustMarshalJSON(result),
				},
			},
		},
	}
}

// executeTool dispatches tool execution to the appropriate handler function.
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	switch name {
	case "gauge_read":
		return s.handleGaugeRead(args)
	case "gauge_locate_circle":
		return s.handleGaugeLocateCircle(args)
	case "gauge_calibrate":
		return s.handleGaugeCalibrate(args)
	case "gauge_detect_needle":
		return s.handleGaugeDetectNeedle(args)
	case "gauge_overlay":
		return s.handleGaugeOverlay(args)
	case "gauge_read_units":
		return s.handleGaugeReadUnits(args)
	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	e := &MCPError{Code: code, Message: message}
	if data != "" {
		e.Data = data
	}
	return &MCPResponse{JSONRPC: "2.0", ID: id, Error: e}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// On marshal failure it returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// region is the JSON form of a rectangle.
type region struct {
	X1 int `json:"x1"`
	Y1 int `json:"y1"`
	X2 int `json:"x2"`
	Y2 int `json:"y2"`
}

// pipelineArgs are the arguments shared by the image-reading tools.
type pipelineArgs struct {
	Path      string          `json:"path"`
	Config    string          `json:"config"`
	Profile   json.RawMessage `json:"profile"`
	Region    *region         `json:"region"`
	MinRadius int             `json:"min_radius"`
	MaxRadius int             `json:"max_radius"`
	TieBreak  string          `json:"tie_break"`
}

// calibration resolves the profile from a file path or the inline object.
func calibration(path string, inline json.RawMessage) (gauge.CalibrationConfig, error) {
	switch {
	case path != "":
		return gauge.LoadConfig(path)
	case len(inline) > 0 && string(inline) != "null":
		return gauge.ParseConfig(inline)
	}
	return gauge.CalibrationConfig{}, fmt.Errorf("either config or profile is required")
}

// options turns the call arguments into pipeline options.
func (s *Server) options(a pipelineArgs) ([]gauge.Option, error) {
	opts := append([]gauge.Option{gauge.WithLogger(s.log)}, s.base...)

	if a.MinRadius > 0 || a.MaxRadius > 0 {
		minR, maxR := a.MinRadius, a.MaxRadius
		if minR == 0 {
			minR = gauge.DefaultMinRadius
		}
		if maxR == 0 {
			maxR = gauge.DefaultMaxRadius
		}
		opts = append(opts, gauge.WithRadiusRange(minR, maxR))
	}
	if a.Region != nil {
		opts = append(opts, gauge.WithRegion(image.Rect(a.Region.X1, a.Region.Y1, a.Region.X2, a.Region.Y2)))
	}
	if a.TieBreak != "" {
		tb, err := gauge.ParseTieBreak(a.TieBreak)
		if err != nil {
			return nil, err
		}
		opts = append(opts, gauge.WithTieBreak(tb))
	}
	return opts, nil
}

// prepare loads the image and builds the pipeline for a call. Tools that
// only run the coarse pass pass requireConfig false and get a placeholder
// calibration.
func (s *Server) prepare(args json.RawMessage, requireConfig bool, into interface{}) (image.Image, *gauge.Pipeline, error) {
	var a pipelineArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, nil, fmt.Errorf("invalid arguments: %w", err)
	}
	if into != nil {
		if err := json.Unmarshal(args, into); err != nil {
			return nil, nil, fmt.Errorf("invalid arguments: %w", err)
		}
	}
	if a.Path == "" {
		return nil, nil, fmt.Errorf("path is required")
	}

	cfg := locateOnlyConfig
	if requireConfig {
		var err error
		if cfg, err = calibration(a.Config, a.Profile); err != nil {
			return nil, nil, err
		}
	}

	opts, err := s.options(a)
	if err != nil {
		return nil, nil, err
	}
	p, err := gauge.NewPipeline(cfg, opts...)
	if err != nil {
		return nil, nil, err
	}

	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, nil, err
	}
	return img, p, nil
}

// locateOnlyConfig satisfies NewPipeline for tools that never calibrate.
var locateOnlyConfig = gauge.CalibrationConfig{
	SeparationDeg: 3,
	MinAngleDeg:   0,
	MaxAngleDeg:   360,
	MinValue:      0,
	MaxValue:      1,
	Units:         "-",
	UnitWeight:    1,
}

// ReadResult is the gauge_read output.
type ReadResult struct {
	Value    float64              `json:"value"`
	Units    string               `json:"units"`
	AngleDeg float64              `json:"angle_deg"`
	Circle   gauge.CircleGeometry `json:"circle"`
	Zero     geometry.Point       `json:"zero_point"`
	Tip      geometry.Point       `json:"tip"`
}

func (s *Server) handleGaugeRead(args json.RawMessage) (interface{}, error) {
	img, p, err := s.prepare(args, true, nil)
	if err != nil {
		return nil, err
	}

	reading, trace, err := p.ReadWithTrace(img)
	if err != nil {
		return nil, err
	}

	off := trace.Refined.Offset
	return &ReadResult{
		Value:    reading.Value,
		Units:    reading.Units,
		AngleDeg: trace.Needle.AngleDeg,
		Circle:   trace.Refined.Circle.Translate(off),
		Zero:     trace.Refined.Frame.ZeroPoint.Add(off),
		Tip:      trace.Needle.Needle.Tip.Add(off),
	}, nil
}

func (s *Server) handleGaugeLocateCircle(args json.RawMessage) (interface{}, error) {
	img, p, err := s.prepare(args, false, nil)
	if err != nil {
		return nil, err
	}
	return p.Coarse(img)
}

func (s *Server) handleGaugeCalibrate(args json.RawMessage) (interface{}, error) {
	var a struct {
		Config  string          `json:"config"`
		Profile json.RawMessage `json:"profile"`
		gauge.CircleGeometry
	}
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, fmt.Errorf("invalid arguments: %w", err)
	}

	cfg, err := calibration(a.Config, a.Profile)
	if err != nil {
		return nil, err
	}
	return gauge.Calibrate(a.CircleGeometry, cfg)
}

// NeedleDetection is the gauge_detect_needle output, in full-image
// coordinates.
type NeedleDetection struct {
	Center   geometry.Point      `json:"center"`
	Needle   detection.Segment   `json:"needle"`
	Tip      geometry.Point      `json:"tip"`
	Segments []detection.Segment `json:"segments"`
}

func (s *Server) handleGaugeDetectNeedle(args json.RawMessage) (interface{}, error) {
	img, p, err := s.prepare(args, true, nil)
	if err != nil {
		return nil, err
	}

	coarse, err := p.Coarse(img)
	if err != nil {
		return nil, err
	}
	refined, err := p.Refine(img, coarse)
	if err != nil {
		return nil, err
	}
	ray, segments, err := gauge.LocateNeedle(refined.Image, refined.Circle.Center(), p.Options().Needle, p.Options().Backend)
	if err != nil {
		return nil, err
	}

	off := refined.Offset
	shift := func(sg detection.Segment) detection.Segment {
		return detection.Segment{Start: sg.Start.Add(off), End: sg.End.Add(off)}
	}
	out := &NeedleDetection{
		Center:   refined.Circle.Center().Add(off),
		Needle:   shift(ray.Segment),
		Tip:      ray.Tip.Add(off),
		Segments: make([]detection.Segment, len(segments)),
	}
	for i, sg := range segments {
		out.Segments[i] = shift(sg)
	}
	return out, nil
}

// OverlayResult is the gauge_overlay output. Error carries the failing
// stage when the read did not complete; the overlay then shows the stages
// that did.
type OverlayResult struct {
	*imaging.EncodedImage
	Reading *gauge.Reading `json:"reading,omitempty"`
	Error   string         `json:"error,omitempty"`
}

func (s *Server) handleGaugeOverlay(args json.RawMessage) (interface{}, error) {
	var style struct {
		RimColor    string `json:"rim_color"`
		NeedleColor string `json:"needle_color"`
	}
	img, p, err := s.prepare(args, true, &style)
	if err != nil {
		return nil, err
	}

	st := imaging.DefaultOverlayStyle()
	if style.RimColor != "" {
		st.RimColor = style.RimColor
	}
	if style.NeedleColor != "" {
		st.NeedleColor = style.NeedleColor
	}

	reading, trace, readErr := p.ReadWithTrace(img)
	enc, err := imaging.EncodePNG(gauge.RenderOverlay(img, trace, st))
	if err != nil {
		return nil, err
	}

	out := &OverlayResult{EncodedImage: enc}
	if readErr != nil {
		out.Error = readErr.Error()
	} else {
		out.Reading = &reading
	}
	return out, nil
}

func (s *Server) handleGaugeReadUnits(args json.RawMessage) (interface{}, error) {
	var extra struct {
		Language string `json:"language"`
	}
	img, p, err := s.prepare(args, true, &extra)
	if err != nil {
		return nil, err
	}

	coarse, err := p.Coarse(img)
	if err != nil {
		return nil, err
	}
	refined, err := p.Refine(img, coarse)
	if err != nil {
		return nil, err
	}
	c := refined.Circle
	return ocr.CheckUnits(refined.Image, c.CenterX, c.CenterY, c.Radius, p.Config().Units, extra.Language)
}
