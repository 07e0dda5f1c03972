// File: internal/application/bot_facade.go
package application

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"telegram-file-convert/internal/domain"
	"telegram-file-convert/internal/domain/model"
	"telegram-file-convert/internal/domain/ports/repository"
	"telegram-file-convert/internal/infra/convert"
	"telegram-file-convert/internal/infra/logging"
	"telegram-file-convert/internal/usecase"
)

// UploadOutcome tells the transport layer what to do after a handled upload:
// which files to send back, which directory to delete once they are sent,
// and whether the uploaded file must survive (merge accumulation).
type UploadOutcome struct {
	ReplyText string
	Files     []string
	OutDir    string
	KeepInput bool
}

// BotFacade owns the action-first flow: the user picks a tool, then uploads,
// then the dispatcher runs. Transport concerns (keyboards, downloads) stay in
// the telegram adapter; user state lives in the state repository.
type BotFacade struct {
	convertUC usecase.ConvertUseCase
	stats     usecase.StatsUseCase
	state     repository.StateRepository
	workDir   string
	log       *zerolog.Logger
}

func NewBotFacade(convertUC usecase.ConvertUseCase, stats usecase.StatsUseCase, state repository.StateRepository, workDir string, log *zerolog.Logger) *BotFacade {
	return &BotFacade{convertUC: convertUC, stats: stats, state: state, workDir: workDir, log: log}
}

// prompts shown right after an action is selected.
var prompts = map[model.Operation]string{
	model.OpPDFToDOCX:   "PDF → Word selected. Please upload the PDF (send as a document).",
	model.OpDOCXToPDF:   "Word → PDF selected. Please upload the DOCX (send as a document).",
	model.OpPDFToJPG:    "PDF → JPG selected. Please upload the PDF (send as a document).",
	model.OpJPGToPDF:    "JPG → PDF selected. Please upload the image (photo or document).",
	model.OpPNGToJPG:    "PNG → JPG selected. Please upload the PNG image (send as a document).",
	model.OpJPGToPNG:    "JPG → PNG selected. Please upload the JPG image (photo or document).",
	model.OpCompressPDF: "Compress selected. Please upload the PDF (send as a document).",
	model.OpMergePDF:    "Merge selected. Upload PDFs one by one (send as documents), then press Merge Now.",
}

// ChooseAction stores the pending action and returns the upload prompt.
func (f *BotFacade) ChooseAction(ctx context.Context, tgID int64, op model.Operation) (string, error) {
	prompt, ok := prompts[op]
	if !ok {
		return "", domain.ErrInvalidArgument
	}
	// Selecting a new action abandons any half-done merge.
	f.discardMergeInputs(ctx, tgID)

	st := &repository.PendingAction{Operation: op}
	if op == model.OpMergePDF {
		st.MergeInputs = []string{}
	}
	if err := f.state.Set(ctx, tgID, st); err != nil {
		return "", err
	}
	return prompt, nil
}

// Cancel clears the pending action and any accumulated merge uploads.
func (f *BotFacade) Cancel(ctx context.Context, tgID int64) error {
	f.discardMergeInputs(ctx, tgID)
	return f.state.Clear(ctx, tgID)
}

// HandleUpload runs the pending action against one uploaded file. fromPhoto
// marks Telegram photo uploads, which arrive re-encoded as JPEG.
func (f *BotFacade) HandleUpload(ctx context.Context, tgID int64, uploadPath string, fromPhoto bool) (*UploadOutcome, error) {
	ctx = logging.WithTgID(ctx, tgID)
	st, err := f.state.Get(ctx, tgID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNoPendingAction
		}
		return nil, err
	}
	op := st.Operation

	if op == model.OpMergePDF {
		if format, ferr := model.FormatFromPath(uploadPath); ferr != nil || format != model.FormatPDF {
			return nil, domain.ErrWrongInputType
		}
		st.MergeInputs = append(st.MergeInputs, uploadPath)
		if err := f.state.Set(ctx, tgID, st); err != nil {
			return nil, err
		}
		return &UploadOutcome{
			ReplyText: fmt.Sprintf("PDF %d saved for merging. Upload more or press Merge Now.", len(st.MergeInputs)),
			KeepInput: true,
		}, nil
	}

	// Any single-file action is terminal: the pending action is consumed
	// whether the conversion succeeds or not.
	defer func() { _ = f.state.Clear(ctx, tgID) }()

	source := op.SourceFormat()
	if fromPhoto {
		if !op.AcceptsPhoto() {
			return nil, domain.ErrWrongInputType
		}
	} else if format, ferr := model.FormatFromPath(uploadPath); ferr != nil || format != source {
		return nil, domain.ErrWrongInputType
	}

	outDir, err := convert.ScratchDir(f.workDir)
	if err != nil {
		return nil, err
	}

	res, err := f.convertUC.Convert(ctx, &model.ConversionJob{
		InputPath: uploadPath,
		OutDir:    outDir,
		Source:    source,
		Target:    op.TargetFormat(),
	})
	if err != nil {
		convert.RemoveScratchDir(outDir)
		return nil, err
	}

	if err := f.stats.RecordUsage(ctx, tgID, string(op)); err != nil {
		logging.With(ctx, f.log).Warn().Err(err).Msg("record usage")
	}
	return &UploadOutcome{
		ReplyText: captionFor(op),
		Files:     res.OutputPaths,
		OutDir:    outDir,
	}, nil
}

// MergeNow concatenates the accumulated PDFs. The uploads and the pending
// action are released on every exit path.
func (f *BotFacade) MergeNow(ctx context.Context, tgID int64) (*UploadOutcome, error) {
	ctx = logging.WithTgID(ctx, tgID)
	st, err := f.state.Get(ctx, tgID)
	if err != nil || st.Operation != model.OpMergePDF {
		return nil, domain.ErrNoPendingAction
	}
	inputs := st.MergeInputs

	defer func() {
		removeUploadDirs(inputs)
		_ = f.state.Clear(ctx, tgID)
	}()

	if len(inputs) == 0 {
		return nil, domain.ErrEmptyInputSet
	}

	outDir, err := convert.ScratchDir(f.workDir)
	if err != nil {
		return nil, err
	}
	res, err := f.convertUC.Merge(ctx, &model.MergeJob{InputPaths: inputs, OutDir: outDir})
	if err != nil {
		convert.RemoveScratchDir(outDir)
		return nil, err
	}

	if err := f.stats.RecordUsage(ctx, tgID, string(model.OpMergePDF)); err != nil {
		logging.With(ctx, f.log).Warn().Err(err).Msg("record usage")
	}
	return &UploadOutcome{
		ReplyText: "Here is your merged PDF.",
		Files:     res.OutputPaths,
		OutDir:    outDir,
	}, nil
}

// StatusText returns the per-user usage summary for /status.
func (f *BotFacade) StatusText(ctx context.Context, tgID int64) (string, error) {
	count, err := f.stats.UserCount(ctx, tgID)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Your usage count: %d", count), nil
}

// SummaryText formats the all-users operation totals for the admin /stats.
func (f *BotFacade) SummaryText(ctx context.Context) (string, error) {
	totals, err := f.stats.Summary(ctx)
	if err != nil {
		return "", err
	}
	if len(totals) == 0 {
		return "No conversions yet.", nil
	}
	ops := make([]string, 0, len(totals))
	for op := range totals {
		ops = append(ops, op)
	}
	sort.Strings(ops)

	var sb strings.Builder
	sb.WriteString("Conversions by operation:\n")
	for _, op := range ops {
		fmt.Fprintf(&sb, "%s: %d\n", op, totals[op])
	}
	return strings.TrimRight(sb.String(), "\n"), nil
}

// PendingOperation reports the user's current action, if any.
func (f *BotFacade) PendingOperation(ctx context.Context, tgID int64) (model.Operation, error) {
	st, err := f.state.Get(ctx, tgID)
	if err != nil {
		return "", err
	}
	return st.Operation, nil
}

func (f *BotFacade) discardMergeInputs(ctx context.Context, tgID int64) {
	st, err := f.state.Get(ctx, tgID)
	if err != nil {
		return
	}
	if st.Operation == model.OpMergePDF {
		removeUploadDirs(st.MergeInputs)
	}
}

// removeUploadDirs deletes each upload's scratch directory.
func removeUploadDirs(paths []string) {
	for _, p := range paths {
		convert.RemoveScratchDir(filepath.Dir(p))
	}
}

func captionFor(op model.Operation) string {
	switch op {
	case model.OpPDFToDOCX:
		return "PDF converted to Word (DOCX)."
	case model.OpDOCXToPDF:
		return "DOCX converted to PDF."
	case model.OpPDFToJPG:
		return "Done — here are the page images."
	case model.OpJPGToPDF:
		return "Image converted to PDF."
	case model.OpPNGToJPG:
		return "PNG converted to JPG."
	case model.OpJPGToPNG:
		return "JPG converted to PNG."
	case model.OpCompressPDF:
		return "Here is your compressed PDF."
	default:
		return "Done."
	}
}
