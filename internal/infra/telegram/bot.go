// File: internal/infra/telegram/bot.go
package telegram

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"telegram-file-convert/internal/application"
	"telegram-file-convert/internal/config"
	"telegram-file-convert/internal/domain"
	"telegram-file-convert/internal/domain/model"
	"telegram-file-convert/internal/infra/convert"
	"telegram-file-convert/internal/infra/metrics"
	"telegram-file-convert/internal/infra/worker"
)

// Bot polls Telegram for updates and translates them into facade calls. It is
// explicitly constructed and shut down from main; no package-level client.
type Bot struct {
	api     *tgbotapi.BotAPI
	cfg     *config.BotConfig
	facade  *application.BotFacade
	pool    *worker.Pool
	httpc   *http.Client
	workDir string
	log     *zerolog.Logger

	adminIDs map[int64]struct{}

	cancelPolling context.CancelFunc
}

func NewBot(cfg *config.BotConfig, workDir string, facade *application.BotFacade, pool *worker.Pool, log *zerolog.Logger) (*Bot, error) {
	if cfg == nil {
		return nil, errors.New("bot config is nil")
	}
	if facade == nil {
		return nil, errors.New("bot facade is nil")
	}

	api, err := tgbotapi.NewBotAPI(cfg.Token)
	if err != nil {
		return nil, err
	}

	adminIDs := make(map[int64]struct{}, len(cfg.AdminIDs))
	for _, id := range cfg.AdminIDs {
		adminIDs[id] = struct{}{}
	}

	return &Bot{
		api:      api,
		cfg:      cfg,
		facade:   facade,
		pool:     pool,
		httpc:    &http.Client{Timeout: 2 * time.Minute},
		workDir:  workDir,
		log:      log,
		adminIDs: adminIDs,
	}, nil
}

// StartPolling begins polling Telegram for updates concurrently.
// It runs until ctx is canceled.
func (b *Bot) StartPolling(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)

	ctx, cancel := context.WithCancel(ctx)
	b.cancelPolling = cancel

	var wg sync.WaitGroup
	updateChan := make(chan tgbotapi.Update, 100)

	for i := 0; i < b.cfg.Workers; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			for {
				select {
				case update, ok := <-updateChan:
					if !ok {
						return
					}
					if err := b.handleUpdate(ctx, update); err != nil {
						b.log.Warn().Int("worker", workerID).Err(err).Msg("handle update")
					}
				case <-ctx.Done():
					return
				}
			}
		}(i + 1)
	}

	go func() {
		defer close(updateChan)
		for {
			select {
			case update := <-updates:
				select {
				case updateChan <- update:
				case <-ctx.Done():
					return
				}
			case <-ctx.Done():
				return
			}
		}
	}()

	<-ctx.Done()
	b.api.StopReceivingUpdates()
	wg.Wait()
	return nil
}

// StopPolling stops the polling loop gracefully.
func (b *Bot) StopPolling() {
	if b.cancelPolling != nil {
		b.cancelPolling()
	}
}

func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) error {
	if update.CallbackQuery != nil {
		metrics.IncUpdate("callback")
		return b.handleCallback(ctx, update.CallbackQuery)
	}
	msg := update.Message
	if msg == nil || msg.From == nil {
		return nil
	}
	switch {
	case msg.IsCommand():
		metrics.IncUpdate("command")
		return b.handleCommand(ctx, msg.Chat.ID, msg.From.ID, msg.Command())
	case msg.Document != nil:
		metrics.IncUpdate("document")
		return b.handleDocument(ctx, msg)
	case len(msg.Photo) > 0:
		metrics.IncUpdate("photo")
		return b.handlePhoto(ctx, msg)
	case msg.Text != "":
		metrics.IncUpdate("text")
		return b.handleText(ctx, msg)
	}
	return nil
}

func (b *Bot) handleCallback(ctx context.Context, cq *tgbotapi.CallbackQuery) error {
	// Always acknowledge so the client stops its spinner.
	if _, err := b.api.Request(tgbotapi.NewCallback(cq.ID, "")); err != nil {
		b.log.Debug().Err(err).Msg("answer callback")
	}
	if cq.Message == nil || cq.From == nil {
		return nil
	}
	return b.handleCommand(ctx, cq.Message.Chat.ID, cq.From.ID, cq.Data)
}

func (b *Bot) handleCommand(ctx context.Context, chatID, tgID int64, cmd string) error {
	switch cmd {
	case "start":
		return b.sendMenu(chatID, welcomeText)
	case "help":
		return b.sendText(chatID, helpText)
	case "menu", "open_menu":
		return b.sendMenu(chatID, "Choose a tool, then upload the required file.")
	case "status":
		text, err := b.facade.StatusText(ctx, tgID)
		if err != nil {
			b.log.Warn().Int64("tg_id", tgID).Err(err).Msg("status")
			return b.sendText(chatID, "Could not load your usage right now.")
		}
		return b.sendText(chatID, text)
	case "stats":
		if !b.isAdmin(tgID) {
			return b.sendText(chatID, "You are not authorized to use this command.")
		}
		text, err := b.facade.SummaryText(ctx)
		if err != nil {
			return b.sendText(chatID, "Failed to get stats. Please try again later.")
		}
		return b.sendText(chatID, text)
	case "merge_now":
		return b.enqueue(chatID, func(ctx context.Context) error {
			outcome, err := b.facade.MergeNow(ctx, tgID)
			return b.deliver(chatID, outcome, err)
		}, nil)
	case "cancel_action":
		if err := b.facade.Cancel(ctx, tgID); err != nil {
			return err
		}
		return b.sendText(chatID, "Action cancelled.")
	}

	op := model.Operation(cmd)
	prompt, err := b.facade.ChooseAction(ctx, tgID, op)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidArgument) {
			return b.sendText(chatID, "Unknown command. Send /help for the list of commands.")
		}
		return err
	}
	if op == model.OpMergePDF {
		return b.sendWithKeyboard(chatID, prompt, mergeKeyboard())
	}
	return b.sendText(chatID, prompt)
}

// phrases maps free-text shortcuts to actions, e.g. "pdf to word".
var phrases = map[string]string{
	"pdf to word": string(model.OpPDFToDOCX),
	"docx to pdf": string(model.OpDOCXToPDF),
	"pdf to jpg":  string(model.OpPDFToJPG),
	"jpg to pdf":  string(model.OpJPGToPDF),
	"png to jpg":  string(model.OpPNGToJPG),
	"jpg to png":  string(model.OpJPGToPNG),
	"compress":    string(model.OpCompressPDF),
	"merge":       string(model.OpMergePDF),
	"menu":        "menu",
}

func (b *Bot) handleText(ctx context.Context, msg *tgbotapi.Message) error {
	cmd, ok := phrases[strings.ToLower(strings.TrimSpace(msg.Text))]
	if !ok {
		// Mid-merge chatter is common; point the user back at the flow.
		if op, err := b.facade.PendingOperation(ctx, msg.From.ID); err == nil && op == model.OpMergePDF {
			return b.sendText(msg.Chat.ID, "You're merging PDFs. Upload another one or press Merge Now.")
		}
		return b.sendText(msg.Chat.ID, "I didn't understand that. Use /menu to choose an action first.")
	}
	return b.handleCommand(ctx, msg.Chat.ID, msg.From.ID, cmd)
}

// checkUploadSize enforces the configured cap before anything is downloaded.
func checkUploadSize(size, maxMB int64) error {
	if size > maxMB<<20 {
		return domain.ErrFileTooLarge
	}
	return nil
}

func (b *Bot) handleDocument(ctx context.Context, msg *tgbotapi.Message) error {
	chatID, tgID := msg.Chat.ID, msg.From.ID
	doc := msg.Document

	if err := checkUploadSize(int64(doc.FileSize), b.cfg.MaxUploadMB); err != nil {
		metrics.IncUploadRejected("too_large")
		return b.sendText(chatID, userMessage(err, b.cfg.MaxUploadMB))
	}

	name := filepath.Base(doc.FileName)
	if name == "" || name == "." {
		name = "file_" + uuid.NewString()
	}
	path, err := b.download(ctx, doc.FileID, name)
	if err != nil {
		b.log.Warn().Int64("tg_id", tgID).Err(err).Msg("download document")
		return b.sendText(chatID, "Failed to download your file. Please try again.")
	}

	return b.enqueue(chatID, func(ctx context.Context) error {
		outcome, err := b.facade.HandleUpload(ctx, tgID, path, false)
		if err != nil || outcome == nil || !outcome.KeepInput {
			defer convert.RemoveScratchDir(filepath.Dir(path))
		}
		return b.deliver(chatID, outcome, err)
	}, func() { convert.RemoveScratchDir(filepath.Dir(path)) })
}

func (b *Bot) handlePhoto(ctx context.Context, msg *tgbotapi.Message) error {
	chatID, tgID := msg.Chat.ID, msg.From.ID
	photo := msg.Photo[len(msg.Photo)-1] // largest size last

	path, err := b.download(ctx, photo.FileID, "photo_"+uuid.NewString()+".jpg")
	if err != nil {
		b.log.Warn().Int64("tg_id", tgID).Err(err).Msg("download photo")
		return b.sendText(chatID, "Failed to download your photo. Please try again.")
	}

	return b.enqueue(chatID, func(ctx context.Context) error {
		outcome, err := b.facade.HandleUpload(ctx, tgID, path, true)
		if err != nil || outcome == nil || !outcome.KeepInput {
			defer convert.RemoveScratchDir(filepath.Dir(path))
		}
		return b.deliver(chatID, outcome, err)
	}, func() { convert.RemoveScratchDir(filepath.Dir(path)) })
}

// enqueue hands the conversion to the worker pool so polling workers are not
// held up by a long soffice run. When the pool is full the task is dropped, so
// cleanup runs here to release anything the task would have owned.
func (b *Bot) enqueue(chatID int64, task worker.Task, cleanup func()) error {
	if err := b.pool.Submit(task); err != nil {
		if cleanup != nil {
			cleanup()
		}
		metrics.IncUploadRejected("queue_full")
		return b.sendText(chatID, "I'm busy right now. Please try again in a moment.")
	}
	return b.sendText(chatID, "Working on it…")
}

// deliver sends the outcome (or a user-facing error) and releases the output
// directory once everything went out.
func (b *Bot) deliver(chatID int64, outcome *application.UploadOutcome, err error) error {
	if err != nil {
		return b.sendText(chatID, userMessage(err, b.cfg.MaxUploadMB))
	}
	if outcome.OutDir != "" {
		defer convert.RemoveScratchDir(outcome.OutDir)
	}
	for i, f := range outcome.Files {
		d := tgbotapi.NewDocument(chatID, tgbotapi.FilePath(f))
		if i == 0 {
			d.Caption = outcome.ReplyText
		}
		if _, err := b.api.Send(d); err != nil {
			b.log.Warn().Int64("chat_id", chatID).Err(err).Msg("send document")
			return b.sendText(chatID, "Conversion finished but sending the file failed.")
		}
	}
	if len(outcome.Files) == 0 {
		return b.sendText(chatID, outcome.ReplyText)
	}
	return nil
}

// download fetches a Telegram file into a fresh scratch directory and returns
// the local path. The caller owns the directory.
func (b *Bot) download(ctx context.Context, fileID, name string) (string, error) {
	file, err := b.api.GetFile(tgbotapi.FileConfig{FileID: fileID})
	if err != nil {
		return "", err
	}

	dir, err := convert.ScratchDir(b.workDir)
	if err != nil {
		return "", err
	}
	dest := filepath.Join(dir, name)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, file.Link(b.api.Token), nil)
	if err != nil {
		convert.RemoveScratchDir(dir)
		return "", err
	}
	resp, err := b.httpc.Do(req)
	if err != nil {
		convert.RemoveScratchDir(dir)
		return "", fmt.Errorf("fetch file: %v: %w", err, domain.ErrIO)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		convert.RemoveScratchDir(dir)
		return "", fmt.Errorf("fetch file: status %d: %w", resp.StatusCode, domain.ErrIO)
	}

	out, err := os.Create(dest)
	if err != nil {
		convert.RemoveScratchDir(dir)
		return "", fmt.Errorf("create %s: %v: %w", dest, err, domain.ErrIO)
	}
	_, err = io.Copy(out, resp.Body)
	out.Close()
	if err != nil {
		convert.RemoveScratchDir(dir)
		return "", fmt.Errorf("write %s: %v: %w", dest, err, domain.ErrIO)
	}
	return dest, nil
}

func (b *Bot) sendText(chatID int64, text string) error {
	_, err := b.api.Send(tgbotapi.NewMessage(chatID, text))
	return err
}

func (b *Bot) sendWithKeyboard(chatID int64, text string, kb tgbotapi.InlineKeyboardMarkup) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = kb
	_, err := b.api.Send(msg)
	return err
}

func (b *Bot) sendMenu(chatID int64, text string) error {
	return b.sendWithKeyboard(chatID, text, menuKeyboard())
}

func (b *Bot) isAdmin(tgID int64) bool {
	_, ok := b.adminIDs[tgID]
	return ok
}
