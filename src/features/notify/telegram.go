package notify

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"chronotune/src/features/config"
	"chronotune/src/features/organize"
)

// TelegramNotifier sends a run summary message to a configured chat when an
// organize run finishes.
type TelegramNotifier struct {
	bot    *tgbotapi.BotAPI
	config *config.Manager
}

// NewTelegramNotifier creates a notifier from the telegram configuration.
func NewTelegramNotifier(cfg *config.Manager) (*TelegramNotifier, error) {
	telegramConfig := cfg.Get().Telegram

	if !telegramConfig.Enabled {
		return nil, fmt.Errorf("telegram notifications are disabled in configuration")
	}
	if telegramConfig.Token == "" {
		return nil, fmt.Errorf("telegram bot token is not configured")
	}
	if telegramConfig.ChatID == 0 {
		return nil, fmt.Errorf("telegram chat id is not configured")
	}

	bot, err := tgbotapi.NewBotAPI(telegramConfig.Token)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}

	slog.Info("Telegram notifier initialized", "username", bot.Self.UserName)
	return &TelegramNotifier{bot: bot, config: cfg}, nil
}

// RunFinished sends the run summary as a Markdown message.
func (t *TelegramNotifier) RunFinished(ctx context.Context, record organize.RunRecord) error {
	msg := tgbotapi.NewMessage(t.config.Get().Telegram.ChatID, formatRunMessage(record))
	msg.ParseMode = tgbotapi.ModeMarkdown
	if _, err := t.bot.Send(msg); err != nil {
		return fmt.Errorf("failed to send run notification: %w", err)
	}
	return nil
}

func formatRunMessage(record organize.RunRecord) string {
	stats := record.Stats

	var sb strings.Builder
	sb.WriteString("🎵 *Chronotune run finished*\n\n")
	sb.WriteString(fmt.Sprintf("📂 `%s`\n", record.Root))
	sb.WriteString(fmt.Sprintf("⏱ %s\n\n", record.Finished.Sub(record.Started).Round(time.Second)))

	years := make([]int, 0, len(stats.ByYear))
	for year := range stats.ByYear {
		years = append(years, year)
	}
	sort.Ints(years)
	for _, year := range years {
		sb.WriteString(fmt.Sprintf("📅 %d: *%d*\n", year, stats.ByYear[year]))
	}

	sb.WriteString(fmt.Sprintf("🗂 Other years: *%d*\n", stats.OtherYears))
	sb.WriteString(fmt.Sprintf("❓ Unidentified: *%d*\n", stats.Unknown))
	if stats.BackedUp > 0 {
		sb.WriteString(fmt.Sprintf("💾 Backed up: *%d*\n", stats.BackedUp))
	}
	if stats.Errors > 0 {
		sb.WriteString(fmt.Sprintf("❌ Errors: *%d*\n", stats.Errors))
	}
	sb.WriteString(fmt.Sprintf("\n✅ %d/%d identified (%.0f%%)", stats.Identified(), stats.Processed, stats.IdentificationRate()*100))

	return sb.String()
}
