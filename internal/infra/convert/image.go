package convert

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/jpeg"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/rs/zerolog"

	"telegram-file-convert/internal/config"
	"telegram-file-convert/internal/domain"
	"telegram-file-convert/internal/domain/model"
	"telegram-file-convert/internal/domain/ports/adapter"
)

var (
	_ adapter.Engine = (*ImagePDF)(nil)
	_ adapter.Engine = (*ImageCodec)(nil)
)

// ImagePDF places a JPG/PNG onto a single A4 PDF page, scaled to fit while
// keeping the original aspect ratio.
type ImagePDF struct {
	log *zerolog.Logger
}

func NewImagePDF(log *zerolog.Logger) *ImagePDF {
	return &ImagePDF{log: log}
}

func (e *ImagePDF) Name() string { return "gofpdf" }

func (e *ImagePDF) Convert(ctx context.Context, job *model.ConversionJob) (*model.ConversionResult, error) {
	start := time.Now()
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("image to pdf: %w", domain.ErrTimeout)
	}

	f, err := os.Open(job.InputPath)
	if err != nil {
		return nil, fmt.Errorf("open image: %v: %w", err, domain.ErrIO)
	}
	cfgImg, _, err := image.DecodeConfig(f)
	f.Close()
	if err != nil {
		return nil, fmt.Errorf("decode image: %v: %w", err, domain.ErrIO)
	}

	imgType := "PNG"
	switch strings.ToLower(filepath.Ext(job.InputPath)) {
	case ".jpg":
		imgType = "JPG"
	case ".jpeg":
		imgType = "JPEG"
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pageW, pageH := pdf.GetPageSize()
	pageW -= 20
	pageH -= 20

	scale := math.Min(pageW/float64(cfgImg.Width), pageH/float64(cfgImg.Height))
	w := float64(cfgImg.Width) * scale
	h := float64(cfgImg.Height) * scale
	x := (pageW-w)/2 + 10
	y := (pageH-h)/2 + 10

	opts := gofpdf.ImageOptions{ImageType: imgType}
	pdf.ImageOptions(job.InputPath, x, y, w, h, false, opts, 0, "")

	out := filepath.Join(job.OutDir, stem(job.InputPath)+".pdf")
	if err := pdf.OutputFileAndClose(out); err != nil {
		return nil, fmt.Errorf("write pdf: %v: %w", err, domain.ErrIO)
	}

	return &model.ConversionResult{
		OutputPaths: []string{out},
		Tool:        e.Name(),
		Elapsed:     time.Since(start),
	}, nil
}

// ImageCodec re-encodes between PNG and JPG in-process. Alpha is composited
// over white when the target is JPG, which has no transparency.
type ImageCodec struct {
	cfg config.ConvertConfig
	log *zerolog.Logger
}

func NewImageCodec(cfg config.ConvertConfig, log *zerolog.Logger) *ImageCodec {
	return &ImageCodec{cfg: cfg, log: log}
}

func (e *ImageCodec) Name() string { return "image" }

func (e *ImageCodec) Convert(ctx context.Context, job *model.ConversionJob) (*model.ConversionResult, error) {
	start := time.Now()
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("image codec: %w", domain.ErrTimeout)
	}

	f, err := os.Open(job.InputPath)
	if err != nil {
		return nil, fmt.Errorf("open image: %v: %w", err, domain.ErrIO)
	}
	src, _, err := image.Decode(f)
	f.Close()
	if err != nil {
		return nil, fmt.Errorf("decode image: %v: %w", err, domain.ErrIO)
	}

	out := filepath.Join(job.OutDir, stem(job.InputPath)+"."+string(job.Target))
	dst, err := os.Create(out)
	if err != nil {
		return nil, fmt.Errorf("create output: %v: %w", err, domain.ErrIO)
	}
	defer dst.Close()

	switch job.Target {
	case model.FormatJPG:
		bounds := src.Bounds()
		flat := image.NewRGBA(bounds)
		draw.Draw(flat, bounds, image.NewUniform(color.White), image.Point{}, draw.Src)
		draw.Draw(flat, bounds, src, bounds.Min, draw.Over)
		err = jpeg.Encode(dst, flat, &jpeg.Options{Quality: e.cfg.JPEGQuality})
	case model.FormatPNG:
		err = png.Encode(dst, src)
	default:
		return nil, domain.ErrUnsupportedConversion
	}
	if err != nil {
		return nil, fmt.Errorf("encode %s: %v: %w", job.Target, err, domain.ErrIO)
	}

	return &model.ConversionResult{
		OutputPaths: []string{out},
		Tool:        e.Name(),
		Elapsed:     time.Since(start),
	}, nil
}
