package model

import (
	"errors"
	"testing"

	"telegram-file-convert/internal/domain"
)

func TestOperationFor_SupportedPairs(t *testing.T) {
	t.Parallel()

	cases := []struct {
		source, target Format
		want           Operation
	}{
		{FormatJPG, FormatPDF, OpJPGToPDF},
		{FormatPNG, FormatPDF, OpJPGToPDF},
		{FormatPDF, FormatJPG, OpPDFToJPG},
		{FormatPDF, FormatPNG, OpPDFToJPG},
		{FormatDOCX, FormatPDF, OpDOCXToPDF},
		{FormatPDF, FormatDOCX, OpPDFToDOCX},
		{FormatPDF, FormatPDF, OpCompressPDF},
		{FormatPNG, FormatJPG, OpPNGToJPG},
		{FormatJPG, FormatPNG, OpJPGToPNG},
	}
	for _, c := range cases {
		got, err := OperationFor(c.source, c.target)
		if err != nil {
			t.Fatalf("OperationFor(%s, %s): %v", c.source, c.target, err)
		}
		if got != c.want {
			t.Fatalf("OperationFor(%s, %s) = %s, want %s", c.source, c.target, got, c.want)
		}
	}
}

func TestOperationFor_UnsupportedPairs(t *testing.T) {
	t.Parallel()

	cases := [][2]Format{
		{FormatDOCX, FormatJPG},
		{FormatJPG, FormatDOCX},
		{FormatDOCX, FormatDOCX},
		{FormatPNG, FormatDOCX},
		{FormatJPG, FormatJPG},
	}
	for _, c := range cases {
		if _, err := OperationFor(c[0], c[1]); !errors.Is(err, domain.ErrUnsupportedConversion) {
			t.Fatalf("OperationFor(%s, %s): want ErrUnsupportedConversion, got %v", c[0], c[1], err)
		}
	}
}

func TestFormatFromPath(t *testing.T) {
	t.Parallel()

	cases := []struct {
		path string
		want Format
	}{
		{"/tmp/a/photo.jpg", FormatJPG},
		{"scan.JPEG", FormatJPG},
		{"logo.png", FormatPNG},
		{"report.PDF", FormatPDF},
		{"letter.docx", FormatDOCX},
		{"legacy.doc", FormatDOCX},
	}
	for _, c := range cases {
		got, err := FormatFromPath(c.path)
		if err != nil {
			t.Fatalf("FormatFromPath(%q): %v", c.path, err)
		}
		if got != c.want {
			t.Fatalf("FormatFromPath(%q) = %s, want %s", c.path, got, c.want)
		}
	}

	if _, err := FormatFromPath("archive.zip"); !errors.Is(err, domain.ErrUnsupportedConversion) {
		t.Fatalf("want ErrUnsupportedConversion for .zip, got %v", err)
	}
	if _, err := FormatFromPath("noext"); err == nil {
		t.Fatal("want error for file without extension")
	}
}

func TestOperationFormats_RoundTrip(t *testing.T) {
	t.Parallel()

	// Every single-file operation's (source, target) must route back to a
	// strategy; compress collapses onto itself.
	ops := []Operation{
		OpJPGToPDF, OpPDFToJPG, OpDOCXToPDF, OpPDFToDOCX,
		OpCompressPDF, OpPNGToJPG, OpJPGToPNG,
	}
	for _, op := range ops {
		if _, err := OperationFor(op.SourceFormat(), op.TargetFormat()); err != nil {
			t.Fatalf("%s: (%s -> %s) not routable: %v", op, op.SourceFormat(), op.TargetFormat(), err)
		}
	}
}

func TestAcceptsPhoto(t *testing.T) {
	t.Parallel()

	if !OpJPGToPDF.AcceptsPhoto() || !OpJPGToPNG.AcceptsPhoto() {
		t.Fatal("JPG-sourced image ops must accept photos")
	}
	// Telegram photos arrive as JPEG, so a PNG-sourced op cannot take one.
	if OpPNGToJPG.AcceptsPhoto() || OpDOCXToPDF.AcceptsPhoto() || OpCompressPDF.AcceptsPhoto() {
		t.Fatal("non-JPG-sourced ops must not accept photos")
	}
}
