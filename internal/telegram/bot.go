package telegram

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"family-meal-planner/internal/app"
	"family-meal-planner/internal/config"
	"family-meal-planner/internal/metrics"
	"family-meal-planner/internal/planner"
)

const (
	historyLimit      = 5
	metricsWindowDays = 7
	requestTimeout    = time.Minute
	callbackShopping  = "list"
)

// Service is the part of the application the bot drives.
type Service interface {
	GenerateMealPlan(ctx context.Context, userID string, pr app.PlanRequest) (*app.PlanResult, error)
	StoredPlan(ctx context.Context, planID string) (*app.PlanResult, error)
	Recipes() ([]app.RecipeSummary, error)
	RecentPlans(ctx context.Context, userID string, limit int) ([]planner.StoredPlan, error)
	DailyActivity(ctx context.Context, days int) ([]metrics.DailyActivity, error)
	SysHealth() metrics.SysHealth
}

// Bot wraps the Telegram API around the meal planner.
type Bot struct {
	api    *tgbotapi.BotAPI
	svc    Service
	cfg    *config.Config
	logger *zap.Logger
}

// NewBot initializes the Telegram Bot and sets the Webhook.
func NewBot(cfg *config.Config, logger *zap.Logger, svc Service) (*Bot, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	api, err := tgbotapi.NewBotAPI(cfg.TelegramBotToken)
	if err != nil {
		return nil, fmt.Errorf("failed to init telegram api: %w", err)
	}
	logger.Info("telegram bot authorized", zap.String("account", api.Self.UserName))

	wh, err := tgbotapi.NewWebhook(cfg.TelegramWebhookURL)
	if err != nil {
		return nil, fmt.Errorf("invalid webhook url %q: %w", cfg.TelegramWebhookURL, err)
	}
	resp, err := api.Request(wh)
	if err != nil {
		return nil, fmt.Errorf("failed to set webhook to %s: %w", cfg.TelegramWebhookURL, err)
	}
	logger.Info("telegram webhook set", zap.String("description", resp.Description))

	return &Bot{api: api, svc: svc, cfg: cfg, logger: logger}, nil
}

// Handler serves Telegram webhook updates.
func (b *Bot) Handler() http.Handler {
	return http.HandlerFunc(b.handleWebhook)
}

func (b *Bot) handleWebhook(w http.ResponseWriter, r *http.Request) {
	update, err := b.api.HandleUpdate(r)
	if err != nil {
		b.logger.Warn("error parsing update", zap.Error(err))
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	w.WriteHeader(http.StatusOK)

	switch {
	case update.CallbackQuery != nil:
		if !b.cfg.IsAllowedUser(update.CallbackQuery.From.ID) {
			return
		}
		go b.handleCallbackQuery(update.CallbackQuery)
	case update.Message != nil && update.Message.From != nil:
		if !b.cfg.IsAllowedUser(update.Message.From.ID) {
			b.logger.Warn("unauthorized access attempt",
				zap.Int64("user_id", update.Message.From.ID),
				zap.String("username", update.Message.From.UserName))
			return
		}
		go b.processMessage(update.Message)
	}
}

func (b *Bot) processMessage(msg *tgbotapi.Message) {
	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	switch msg.Command() {
	case "plan":
		b.handlePlanRequest(ctx, msg)
	case "recipes":
		b.handleRecipesRequest(msg.Chat.ID)
	case "history":
		b.handleHistoryRequest(ctx, msg)
	case "metrics":
		if msg.From.ID != b.cfg.AdminTelegramID {
			b.send(msg.Chat.ID, "⛔ *Access Denied*: Admin only.", nil)
			return
		}
		b.handleMetricsCommand(ctx, msg.Chat.ID)
	default:
		b.send(msg.Chat.ID, helpText, nil)
	}
}

func (b *Bot) handlePlanRequest(ctx context.Context, msg *tgbotapi.Message) {
	req, err := parsePlanArgs(msg.CommandArguments())
	if err != nil {
		b.send(msg.Chat.ID, "⚠️ "+escape(err.Error())+"\n\n"+helpText, nil)
		return
	}

	sent, err := b.api.Send(markdownMessage(msg.Chat.ID, "🧑‍🍳 *Thinking...*\n(Balancing meals for your family)"))
	if err != nil {
		b.logger.Warn("failed to send initial reply", zap.Error(err))
		return
	}

	userID := strconv.FormatInt(msg.From.ID, 10)
	b.logger.Info("generating plan via telegram", zap.String("user_id", userID), zap.Any("request", req))

	res, err := b.svc.GenerateMealPlan(ctx, userID, req)
	if err != nil {
		b.logger.Warn("error generating plan", zap.String("user_id", userID), zap.Error(err))
		b.edit(msg.Chat.ID, sent.MessageID, planErrorText(err), nil)
		return
	}

	b.edit(msg.Chat.ID, sent.MessageID, formatPlanMarkdown(res), nil)
	b.send(msg.Chat.ID, formatShoppingMarkdown(res), nil)

	if missing := missingSlots(res.Days); missing > 0 {
		b.sendAdminAlert(fmt.Sprintf("⚠️ *Incomplete Plan Alert*\nPlan: `%s`\nUser: %s\nMissing slots: %d", res.PlanID, userID, missing))
	}
}

// missingSlots counts empty breakfast, lunch and dinner slots.
func missingSlots(days []planner.DayPlan) int {
	missing := 0
	for _, d := range days {
		for _, m := range []*planner.Meal{d.Breakfast, d.Lunch, d.Dinner} {
			if m == nil {
				missing++
			}
		}
	}
	return missing
}

// handleCallbackQuery sends the shopping list for the plan named in the
// callback data ("list|<plan id>").
func (b *Bot) handleCallbackQuery(query *tgbotapi.CallbackQuery) {
	if _, err := b.api.Request(tgbotapi.NewCallback(query.ID, "")); err != nil {
		b.logger.Warn("failed to answer callback", zap.Error(err))
	}
	if query.Message == nil {
		return
	}

	action, planID, ok := strings.Cut(query.Data, "|")
	if !ok || action != callbackShopping || planID == "" {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	res, err := b.svc.StoredPlan(ctx, planID)
	if err != nil {
		b.logger.Warn("failed to load plan for shopping list", zap.String("plan_id", planID), zap.Error(err))
		b.send(query.Message.Chat.ID, "❌ That plan is no longer available.", nil)
		return
	}
	b.send(query.Message.Chat.ID, formatShoppingMarkdown(res), nil)
}

func (b *Bot) handleRecipesRequest(chatID int64) {
	recipes, err := b.svc.Recipes()
	if err != nil {
		b.logger.Warn("failed to list recipes", zap.Error(err))
		b.send(chatID, "❌ Recipes are not available right now.", nil)
		return
	}
	b.send(chatID, formatRecipesMarkdown(recipes), nil)
}

func (b *Bot) handleHistoryRequest(ctx context.Context, msg *tgbotapi.Message) {
	plans, err := b.svc.RecentPlans(ctx, strconv.FormatInt(msg.From.ID, 10), historyLimit)
	if err != nil {
		b.logger.Warn("failed to list history", zap.Error(err))
		b.send(msg.Chat.ID, "❌ Error fetching your plans.", nil)
		return
	}
	b.send(msg.Chat.ID, formatHistoryMarkdown(plans), historyKeyboard(plans))
}

// historyKeyboard offers one shopping list button per stored plan.
func historyKeyboard(plans []planner.StoredPlan) *tgbotapi.InlineKeyboardMarkup {
	if len(plans) == 0 {
		return nil
	}
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(plans))
	for i, p := range plans {
		label := fmt.Sprintf("🛒 #%d (%s)", i+1, p.CreatedAt.Format("Jan 2"))
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(label, callbackShopping+"|"+p.ID),
		))
	}
	keyboard := tgbotapi.NewInlineKeyboardMarkup(rows...)
	return &keyboard
}

func (b *Bot) handleMetricsCommand(ctx context.Context, chatID int64) {
	activity, err := b.svc.DailyActivity(ctx, metricsWindowDays)
	if err != nil {
		b.logger.Warn("failed to fetch metrics", zap.Error(err))
		b.send(chatID, "❌ Error fetching metrics.", nil)
		return
	}
	b.send(chatID, formatMetricsReport(activity, b.svc.SysHealth()), nil)
}

func (b *Bot) send(chatID int64, text string, markup *tgbotapi.InlineKeyboardMarkup) {
	msg := markdownMessage(chatID, text)
	if markup != nil {
		msg.ReplyMarkup = markup
	}
	if _, err := b.api.Send(msg); err != nil {
		b.logger.Warn("failed to send message", zap.Int64("chat_id", chatID), zap.Error(err))
	}
}

func (b *Bot) edit(chatID int64, messageID int, text string, markup *tgbotapi.InlineKeyboardMarkup) {
	edit := tgbotapi.NewEditMessageText(chatID, messageID, text)
	edit.ParseMode = tgbotapi.ModeMarkdown
	edit.ReplyMarkup = markup
	if _, err := b.api.Send(edit); err != nil {
		b.logger.Warn("failed to edit message", zap.Int64("chat_id", chatID), zap.Error(err))
	}
}

func markdownMessage(chatID int64, text string) tgbotapi.MessageConfig {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	return msg
}

func planErrorText(err error) string {
	switch {
	case errors.Is(err, app.ErrInvalidRequest):
		return "⚠️ " + escape(err.Error())
	case errors.Is(err, planner.ErrNoEligibleRecipes):
		return "🤷 No recipes match those restrictions. Try fewer dietary filters or `kids=no`."
	default:
		safeErr := strings.ReplaceAll(err.Error(), "`", "'")
		return fmt.Sprintf("❌ *Error generating plan:*\n```\n%v\n```", safeErr)
	}
}

func (b *Bot) sendAdminAlert(text string) {
	if b.cfg.AdminTelegramID == 0 {
		return
	}
	b.send(b.cfg.AdminTelegramID, text, nil)
}
