package server

import (
	"errors"
	"fmt"
	"io"
	"math"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/andresmejia3/stg/internal/media"
	"github.com/andresmejia3/stg/internal/pipeline"
	"github.com/andresmejia3/stg/internal/sniff"
	"github.com/andresmejia3/stg/pkg/stego"
)

// errBadRequest marks malformed form input.
var errBadRequest = errors.New("bad request")

// Response is the JSON body of every non-file reply.
type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// CapacityResponse describes what a cover can hold.
type CapacityResponse struct {
	Success    bool   `json:"success"`
	Kind       string `json:"kind"`
	Shape      string `json:"shape"`
	Scheme     string `json:"scheme"`
	Bits       int    `json:"bits"`
	MaxPayload int    `json:"max_payload"`
	Required   int    `json:"required,omitempty"`
	Fits       *bool  `json:"fits,omitempty"`
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"message": "stg API is running",
	})
}

func (s *Server) capacity(c *gin.Context) {
	dir, cover, ok := s.openUpload(c, "cover")
	if !ok {
		return
	}
	defer os.RemoveAll(dir)

	params, err := s.params(c)
	if err != nil {
		fail(c, err)
		return
	}
	capacity, err := pipeline.CapacityOf(cover, params)
	if err != nil {
		fail(c, err)
		return
	}

	mime := c.DefaultPostForm("mime", sniff.OctetStream)
	resp := CapacityResponse{
		Success:    true,
		Kind:       cover.Kind.String(),
		Shape:      cover.Shape(),
		Scheme:     capacity.Scheme,
		Bits:       capacity.Bits,
		MaxPayload: capacity.MaxPayload(len(mime)),
	}

	data, name, err := payload(c)
	if err == nil {
		if c.PostForm("mime") == "" {
			mime = sniff.DetectBytes(data, name)
		}
		resp.Required = pipeline.RequiredBits(data, mime)
		fits := resp.Required <= capacity.Bits
		resp.Fits = &fits
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) conceal(c *gin.Context) {
	dir, cover, ok := s.openUpload(c, "cover")
	if !ok {
		return
	}
	defer os.RemoveAll(dir)

	params, err := s.params(c)
	if err != nil {
		fail(c, err)
		return
	}
	data, name, err := payload(c)
	if err != nil {
		fail(c, err)
		return
	}
	mime := c.PostForm("mime")
	if mime == "" {
		mime = sniff.DetectBytes(data, name)
	}

	capacity, err := pipeline.CapacityOf(cover, params)
	if err != nil {
		fail(c, err)
		return
	}
	required := pipeline.RequiredBits(data, mime)

	carrier, err := pipeline.Conceal(cover, data, mime, params)
	if err != nil {
		fail(c, err)
		return
	}

	out := cover.DefaultOutput()
	if err := cover.Save(out, carrier); err != nil {
		fail(c, err)
		return
	}
	written, err := media.Open(out)
	if err != nil {
		fail(c, err)
		return
	}
	if err := pipeline.Verify(cover, written.Carrier, data, params); err != nil {
		fail(c, fmt.Errorf("stego output failed verification: %w", err))
		return
	}
	body, err := os.ReadFile(out)
	if err != nil {
		fail(c, err)
		return
	}

	if analysis, err := stego.Analyze(cover.Carrier, carrier, nil); err == nil {
		c.Header("X-Stego-PSNR", formatPSNR(analysis.PSNR))
	}
	c.Header("X-Stego-Capacity", strconv.Itoa(capacity.Bits))
	c.Header("X-Stego-Required", strconv.Itoa(required))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filepath.Base(out)))

	log.Info().
		Str("cover", cover.Format).
		Str("mime", mime).
		Int("bytes", len(data)).
		Int("required", required).
		Int("available", capacity.Bits).
		Msg("Payload concealed")
	c.Data(http.StatusOK, sniff.FromExtension(filepath.Ext(out)), body)
}

func (s *Server) reveal(c *gin.Context) {
	dir, cover, ok := s.openUpload(c, "stego")
	if !ok {
		return
	}
	defer os.RemoveAll(dir)

	params, err := s.params(c)
	if err != nil {
		fail(c, err)
		return
	}
	if v := c.PostForm("max_bits"); v != "" {
		if params.MaxBits, err = strconv.Atoi(v); err != nil || params.MaxBits < 0 {
			fail(c, fmt.Errorf("%w: max_bits %q", errBadRequest, v))
			return
		}
	}

	res, err := pipeline.Reveal(cover, params)
	if err != nil {
		fail(c, err)
		return
	}
	if err := res.Err(); err != nil {
		fail(c, err)
		return
	}

	if res.Variant != nil {
		c.Header("X-Stego-Variant", res.Variant.String())
	}
	c.Header("X-Stego-Complete", strconv.FormatBool(res.Meta.Complete))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", sniff.RecoveredName(res.Meta.MIME)))

	contentType := res.Meta.MIME
	if contentType == "" {
		contentType = sniff.OctetStream
	}
	c.Data(http.StatusOK, contentType, res.Meta.Data)
}

// openUpload stores the multipart file field in a fresh temporary directory, keeping its
// extension so the media loader can pick the format, and opens it. On failure it writes
// the error response and returns false; otherwise the caller removes dir.
func (s *Server) openUpload(c *gin.Context, field string) (string, *media.Cover, bool) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadBytes)

	header, err := c.FormFile(field)
	if err != nil {
		fail(c, fmt.Errorf("%w: %s file is required", errBadRequest, field))
		return "", nil, false
	}

	dir, err := os.MkdirTemp("", "stg-*")
	if err != nil {
		fail(c, err)
		return "", nil, false
	}
	path := filepath.Join(dir, field+strings.ToLower(filepath.Ext(header.Filename)))
	if err := c.SaveUploadedFile(header, path); err != nil {
		os.RemoveAll(dir)
		fail(c, err)
		return "", nil, false
	}

	cover, err := media.Open(path)
	if err != nil {
		os.RemoveAll(dir)
		fail(c, err)
		return "", nil, false
	}
	return dir, cover, true
}

// params overlays the form fields a request sets on the server configuration.
func (s *Server) params(c *gin.Context) (pipeline.Params, error) {
	cfg := s.cfg

	if v := c.PostForm("lsb"); v != "" {
		lsb, err := strconv.Atoi(v)
		if err != nil {
			return pipeline.Params{}, fmt.Errorf("%w: lsb %q", errBadRequest, v)
		}
		cfg.LSB = lsb
	}
	key, passphrase := c.PostForm("key"), c.PostForm("passphrase")
	switch {
	case key != "" && passphrase != "":
		return pipeline.Params{}, fmt.Errorf("%w: key and passphrase cannot both be provided", errBadRequest)
	case key != "":
		k, err := strconv.ParseUint(key, 10, 64)
		if err != nil {
			return pipeline.Params{}, fmt.Errorf("%w: key %q", errBadRequest, key)
		}
		cfg.Key = k
	case passphrase != "":
		cfg.Key = stego.KeyFromPassphrase(passphrase)
	}
	if v := c.PostForm("bit_order"); v != "" {
		cfg.BitOrder = v
	}
	if v := c.PostForm("channel_order"); v != "" {
		cfg.ChannelOrder = v
	}
	if v := c.PostForm("probe"); v != "" {
		cfg.Probe = v == "true"
	}

	if err := cfg.Validate(); err != nil {
		return pipeline.Params{}, badRequest(err)
	}
	opts, err := cfg.Options()
	if err != nil {
		return pipeline.Params{}, badRequest(err)
	}
	if opts.Region, err = stego.ParseRegion(c.PostForm("region")); err != nil {
		return pipeline.Params{}, badRequest(err)
	}
	return pipeline.Params{Options: opts, VideoScheme: cfg.VideoScheme}, nil
}

// payload reads the secret from the "payload" file field, or the "message" text field.
func payload(c *gin.Context) ([]byte, string, error) {
	if header, err := c.FormFile("payload"); err == nil {
		data, err := readAll(header)
		return data, header.Filename, err
	}
	if message, ok := c.GetPostForm("message"); ok {
		return []byte(message), "", nil
	}
	return nil, "", fmt.Errorf("%w: payload file or message is required", errBadRequest)
}

func readAll(header *multipart.FileHeader) ([]byte, error) {
	f, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

func badRequest(err error) error {
	if errors.Is(err, stego.ErrInvalidLSB) || errors.Is(err, stego.ErrBounds) {
		return err
	}
	return fmt.Errorf("%w: %v", errBadRequest, err)
}

// statusFor maps an error to the HTTP status the API reports it with.
func statusFor(err error) int {
	switch {
	case errors.Is(err, errBadRequest), errors.Is(err, stego.ErrInvalidLSB), errors.Is(err, stego.ErrBounds):
		return http.StatusBadRequest
	case errors.Is(err, stego.ErrHeaderNotFound):
		return http.StatusNotFound
	case errors.Is(err, stego.ErrKeyMismatch):
		return http.StatusConflict
	case errors.Is(err, stego.ErrCapacity), errors.Is(err, stego.ErrUnsupported):
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

func fail(c *gin.Context, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("Request failed")
	}
	c.AbortWithStatusJSON(status, Response{Success: false, Message: err.Error()})
}

func formatPSNR(psnr float64) string {
	if math.IsInf(psnr, 1) {
		return "inf"
	}
	return strconv.FormatFloat(psnr, 'f', 2, 64)
}
