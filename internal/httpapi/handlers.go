package httpapi

import (
	"fmt"
	"image"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/ironsheep/gauge-reader/internal/gauge"
	"github.com/ironsheep/gauge-reader/internal/imaging"
)

// ReadingResponse is the body of a successful POST /v1/readings.
type ReadingResponse struct {
	Value    float64              `json:"value"`
	Units    string               `json:"units"`
	AngleDeg float64              `json:"angle_deg"`
	Circle   gauge.CircleGeometry `json:"circle"`
}

// ErrorResponse is the body of any failed request.
type ErrorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
}

func (a *API) getHealth(c *gin.Context) {
	c.IndentedJSON(http.StatusOK, gin.H{"status": "ok"})
}

func (a *API) getVersion(c *gin.Context) {
	c.IndentedJSON(http.StatusOK, gin.H{"version": a.version})
}

// postReading expects a multipart form with an "image" file and a
// "config" JSON5 profile, either as a text field or a file.
func (a *API) postReading(c *gin.Context) {
	cfg, err := formConfig(c)
	if err != nil {
		abort(c, http.StatusBadRequest, err)
		return
	}

	opts, err := a.options(c)
	if err != nil {
		abort(c, http.StatusBadRequest, err)
		return
	}

	img, err := formImage(c)
	if err != nil {
		abort(c, http.StatusBadRequest, err)
		return
	}

	p, err := gauge.NewPipeline(cfg, opts...)
	if err != nil {
		abort(c, statusFor(err), err)
		return
	}
	reading, trace, err := p.ReadWithTrace(img)
	if err != nil {
		abort(c, statusFor(err), err)
		return
	}

	c.IndentedJSON(http.StatusOK, &ReadingResponse{
		Value:    reading.Value,
		Units:    reading.Units,
		AngleDeg: trace.Needle.AngleDeg,
		Circle:   trace.Refined.Circle.Translate(trace.Refined.Offset),
	})
}

func formConfig(c *gin.Context) (gauge.CalibrationConfig, error) {
	if text := c.PostForm("config"); text != "" {
		return gauge.ParseConfig([]byte(text))
	}
	fh, err := c.FormFile("config")
	if err != nil {
		return gauge.CalibrationConfig{}, fmt.Errorf("config is required")
	}
	f, err := fh.Open()
	if err != nil {
		return gauge.CalibrationConfig{}, fmt.Errorf("failed to open config: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return gauge.CalibrationConfig{}, fmt.Errorf("failed to read config: %w", err)
	}
	return gauge.ParseConfig(data)
}

func formImage(c *gin.Context) (image.Image, error) {
	fh, err := c.FormFile("image")
	if err != nil {
		return nil, fmt.Errorf("image is required")
	}
	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	img, _, err := imaging.Decode(f)
	return img, err
}

// options reads min_radius, max_radius and tie_break from the query.
func (a *API) options(c *gin.Context) ([]gauge.Option, error) {
	opts := append([]gauge.Option{gauge.WithLogger(a.log)}, a.base...)

	minR, maxR := gauge.DefaultMinRadius, gauge.DefaultMaxRadius
	var custom bool
	for name, dst := range map[string]*int{"min_radius": &minR, "max_radius": &maxR} {
		v := c.Query(name)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid %s %q", name, v)
		}
		*dst, custom = n, true
	}
	if custom {
		opts = append(opts, gauge.WithRadiusRange(minR, maxR))
	}

	if v := c.Query("tie_break"); v != "" {
		tb, err := gauge.ParseTieBreak(v)
		if err != nil {
			return nil, err
		}
		opts = append(opts, gauge.WithTieBreak(tb))
	}
	return opts, nil
}

// statusFor maps an error kind to an HTTP status.
func statusFor(err error) int {
	switch {
	case gauge.IsConfig(err):
		return http.StatusBadRequest
	case gauge.IsDetection(err), gauge.IsGeometry(err):
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

func kindOf(err error) string {
	switch {
	case gauge.IsConfig(err):
		return "config"
	case gauge.IsDetection(err):
		return "detection"
	case gauge.IsGeometry(err):
		return "geometry"
	}
	return ""
}

func abort(c *gin.Context, status int, err error) {
	c.IndentedJSON(status, &ErrorResponse{Error: err.Error(), Kind: kindOf(err)})
	_ = c.AbortWithError(status, err)
}
