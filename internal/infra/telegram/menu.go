package telegram

import (
	"errors"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"telegram-file-convert/internal/domain"
	"telegram-file-convert/internal/domain/model"
)

const welcomeText = `Welcome to the file conversion bot.

Choose a tool from the menu below or type a command, then upload the file (send it as a document).

Quick commands:
/menu /pdf_to_word /docx_to_pdf /pdf_to_jpg /jpg_to_pdf /png_to_jpg /jpg_to_png /compress /merge /status`

const helpText = `How to use:
1) Choose an action from the menu OR type a command (e.g. /pdf_to_word).
2) Upload the file AFTER selecting the action (send as a document, or a photo for image tools).
3) The bot converts and returns a downloadable file.

Commands: /menu /pdf_to_word /docx_to_pdf /pdf_to_jpg /jpg_to_pdf /png_to_jpg /jpg_to_png /compress /merge /status`

func menuKeyboard() tgbotapi.InlineKeyboardMarkup {
	btn := tgbotapi.NewInlineKeyboardButtonData
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			btn("PDF → Word", string(model.OpPDFToDOCX)),
			btn("Word → PDF", string(model.OpDOCXToPDF)),
		),
		tgbotapi.NewInlineKeyboardRow(
			btn("PDF → JPG", string(model.OpPDFToJPG)),
			btn("PNG → JPG", string(model.OpPNGToJPG)),
		),
		tgbotapi.NewInlineKeyboardRow(
			btn("JPG → PNG", string(model.OpJPGToPNG)),
			btn("JPG → PDF", string(model.OpJPGToPDF)),
		),
		tgbotapi.NewInlineKeyboardRow(
			btn("Merge PDFs", string(model.OpMergePDF)),
			btn("Compress PDF", string(model.OpCompressPDF)),
		),
		tgbotapi.NewInlineKeyboardRow(
			btn("Usage", "status"),
			btn("Help", "help"),
		),
	)
}

func mergeKeyboard() tgbotapi.InlineKeyboardMarkup {
	btn := tgbotapi.NewInlineKeyboardButtonData
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			btn("Merge Now", "merge_now"),
			btn("Cancel", "cancel_action"),
		),
	)
}

// userMessage translates dispatcher errors into something a user can act on.
// This is the only place errors cross from the domain to chat text.
func userMessage(err error, maxUploadMB int64) string {
	switch {
	case errors.Is(err, domain.ErrNoPendingAction):
		return "I received your file — but first choose what you want me to do. Use /menu or type a command (e.g. \"pdf to word\")."
	case errors.Is(err, domain.ErrWrongInputType):
		return "That file doesn't match the selected tool. Pick the tool again with /menu and upload the matching file."
	case errors.Is(err, domain.ErrUnsupportedConversion):
		return "That conversion isn't supported."
	case errors.Is(err, domain.ErrEmptyInputSet):
		return "Upload at least one PDF before pressing Merge Now."
	case errors.Is(err, domain.ErrTimeout):
		return "The conversion took too long and was cancelled. Try a smaller file."
	case errors.Is(err, domain.ErrFileTooLarge):
		return fmt.Sprintf("File too large. Max allowed is %d MB.", maxUploadMB)
	case errors.Is(err, domain.ErrExternalTool):
		return "The converter failed on this file. It may be corrupted or password-protected."
	case errors.Is(err, domain.ErrIO):
		return "I couldn't read that file. Please upload it again."
	default:
		return "Conversion failed. Please try again."
	}
}
