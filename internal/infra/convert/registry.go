package convert

import (
	"github.com/rs/zerolog"

	"telegram-file-convert/internal/config"
	"telegram-file-convert/internal/domain/model"
	"telegram-file-convert/internal/domain/ports/adapter"
)

// NewEngineSet wires every operation to its engine. The map is the single
// source of truth the dispatcher routes on.
func NewEngineSet(cfg config.ConvertConfig, log *zerolog.Logger) (map[model.Operation]adapter.Engine, adapter.Merger) {
	run := NewRunner(log)

	lo := NewLibreOffice(cfg, run, log)
	ras := NewRasterizer(cfg, run, log)
	gs := NewGhostscript(cfg, run, log)
	imgPDF := NewImagePDF(log)
	codec := NewImageCodec(cfg, log)

	engines := map[model.Operation]adapter.Engine{
		model.OpJPGToPDF:    imgPDF,
		model.OpPDFToJPG:    ras,
		model.OpDOCXToPDF:   lo,
		model.OpPDFToDOCX:   lo,
		model.OpCompressPDF: gs,
		model.OpPNGToJPG:    codec,
		model.OpJPGToPNG:    codec,
	}
	return engines, NewMerger(cfg, run, log)
}
