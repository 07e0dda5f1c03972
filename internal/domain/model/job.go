package model

import (
	"path/filepath"
	"strings"
	"time"

	"telegram-file-convert/internal/domain"
)

// Format is the closed set of file formats the bot understands.
type Format string

const (
	FormatJPG  Format = "jpg"
	FormatPNG  Format = "png"
	FormatPDF  Format = "pdf"
	FormatDOCX Format = "docx"
)

// Operation identifies one conversion strategy. The string values double as
// Telegram command names and callback data, matching the menu the bot shows.
type Operation string

const (
	OpJPGToPDF    Operation = "jpg_to_pdf"
	OpPDFToJPG    Operation = "pdf_to_jpg"
	OpDOCXToPDF   Operation = "docx_to_pdf"
	OpPDFToDOCX   Operation = "pdf_to_word"
	OpCompressPDF Operation = "compress"
	OpPNGToJPG    Operation = "png_to_jpg"
	OpJPGToPNG    Operation = "jpg_to_png"
	OpMergePDF    Operation = "merge"
)

// OperationFor maps a (source, target) pair to exactly one strategy.
// Unsupported pairs fail fast instead of silently no-oping.
func OperationFor(source, target Format) (Operation, error) {
	switch {
	case source == FormatJPG && target == FormatPDF:
		return OpJPGToPDF, nil
	case source == FormatPNG && target == FormatPDF:
		return OpJPGToPDF, nil
	case source == FormatPDF && target == FormatJPG:
		return OpPDFToJPG, nil
	case source == FormatPDF && target == FormatPNG:
		return OpPDFToJPG, nil
	case source == FormatDOCX && target == FormatPDF:
		return OpDOCXToPDF, nil
	case source == FormatPDF && target == FormatDOCX:
		return OpPDFToDOCX, nil
	case source == FormatPDF && target == FormatPDF:
		return OpCompressPDF, nil
	case source == FormatPNG && target == FormatJPG:
		return OpPNGToJPG, nil
	case source == FormatJPG && target == FormatPNG:
		return OpJPGToPNG, nil
	default:
		return "", domain.ErrUnsupportedConversion
	}
}

// SourceFormat returns the format an operation expects as its upload.
func (op Operation) SourceFormat() Format {
	switch op {
	case OpJPGToPDF, OpJPGToPNG:
		return FormatJPG
	case OpPNGToJPG:
		return FormatPNG
	case OpDOCXToPDF:
		return FormatDOCX
	default:
		return FormatPDF
	}
}

// TargetFormat returns the format an operation produces.
func (op Operation) TargetFormat() Format {
	switch op {
	case OpPDFToJPG:
		return FormatJPG
	case OpJPGToPNG:
		return FormatPNG
	case OpPDFToDOCX:
		return FormatDOCX
	default:
		return FormatPDF
	}
}

// AcceptsPhoto reports whether the operation can start from a Telegram photo
// upload. Telegram re-encodes photos as JPEG, so only JPG-sourced operations
// qualify.
func (op Operation) AcceptsPhoto() bool {
	switch op {
	case OpJPGToPDF, OpJPGToPNG:
		return true
	}
	return false
}

// FormatFromPath infers a Format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(filepath.Ext(path), ".")) {
	case "jpg", "jpeg":
		return FormatJPG, nil
	case "png":
		return FormatPNG, nil
	case "pdf":
		return FormatPDF, nil
	case "docx", "doc":
		return FormatDOCX, nil
	default:
		return "", domain.ErrUnsupportedConversion
	}
}

// ConversionJob is one stateless conversion request. InputPath is owned by
// the caller; the engine writes its result into OutDir and cleans up any
// scratch space of its own on every exit path.
type ConversionJob struct {
	ID        string
	InputPath string
	OutDir    string
	Source    Format
	Target    Format
	Options   map[string]string
}

// MergeJob concatenates the pages of InputPaths, in order, into one PDF.
type MergeJob struct {
	ID         string
	InputPaths []string
	OutDir     string
}

// ConversionResult is handed back to the caller, who then owns the output
// files. PDF rasterization yields one path per page; every other operation
// yields exactly one.
type ConversionResult struct {
	OutputPaths []string
	Tool        string
	Elapsed     time.Duration
}

// UsageRecord is one logged bot interaction, persisted for /status and the
// admin stats API.
type UsageRecord struct {
	ID         string
	TelegramID int64
	Operation  string
	CreatedAt  time.Time
}
