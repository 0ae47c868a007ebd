package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/Freeeeeet/tutor_match/internal/controller/callbacks/common/formatting"
	"github.com/Freeeeeet/tutor_match/internal/controller/callbacks/common/keyboard"
	"github.com/Freeeeeet/tutor_match/internal/controller/state"
	"github.com/Freeeeeet/tutor_match/internal/model"
	"github.com/Freeeeeet/tutor_match/internal/service"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// maxListedCandidates сколько карточек отправляется за один поиск
const maxListedCandidates = 10

// HandleFind обрабатывает /find и /find <запрос>.
// Без запроса бот спрашивает строку поиска следующим сообщением.
func (h *Handlers) HandleFind(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.From == nil {
		return
	}

	identity, _, ok := h.requireUser(ctx, b, update)
	if !ok {
		return
	}

	term := commandArgument(update.Message.Text)
	if term == "" {
		h.stateManager.Begin(update.Message.From.ID, state.StateSearchingCandidates, nil)
		h.sendMessage(ctx, b, update.Message.Chat.ID, fmt.Sprintf(
			"🔎 Что ищем? Имя, курс или предмет (до %d символов).\n\n/cancel для отмены",
			h.policy.MaxSearchLength,
		), nil)
		return
	}

	h.search(ctx, b, update.Message.Chat.ID, identity, term, false)
}

// HandleMatch обрабатывает /match: кандидаты с общими предметами
func (h *Handlers) HandleMatch(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	identity, _, ok := h.requireUser(ctx, b, update)
	if !ok {
		return
	}

	h.search(ctx, b, update.Message.Chat.ID, identity, "", true)
}

func (h *Handlers) handleSearchStep(ctx context.Context, b *bot.Bot, update *models.Update) {
	identity, _, ok := h.requireUser(ctx, b, update)
	if !ok {
		return
	}

	if h.search(ctx, b, update.Message.Chat.ID, identity, update.Message.Text, false) {
		h.stateManager.ClearState(update.Message.From.ID)
	}
}

// search проверяет строку поиска и отправляет карточки кандидатов.
// Возвращает false, если строку нужно ввести заново.
func (h *Handlers) search(ctx context.Context, b *bot.Bot, chatID int64, identity model.Identity, rawTerm string, matchOnly bool) bool {
	term := strings.TrimSpace(rawTerm)
	if err := h.validator.SearchTerm(term, h.policy.MaxSearchLength); err != nil {
		h.reportError(ctx, b, chatID, "search", err)
		return false
	}

	candidates, err := h.matchService.Candidates(ctx, identity, service.CandidateQuery{
		SearchTerm: term,
		MatchOnly:  matchOnly,
	})
	if err != nil {
		h.reportError(ctx, b, chatID, "search", err)
		return true
	}

	h.logger.Debug("Bot search",
		zap.String("user_id", identity.UserID),
		zap.String("term", term),
		zap.Bool("match_only", matchOnly),
		zap.Int("found", len(candidates)),
	)

	if len(candidates) == 0 {
		h.sendMessage(ctx, b, chatID, "🤷 Никого не нашлось. Попробуйте другой запрос: /find", nil)
		return true
	}

	for i, c := range candidates {
		if i == maxListedCandidates {
			h.sendMessage(ctx, b, chatID, fmt.Sprintf("… и ещё %d. Уточните запрос, чтобы увидеть остальных.", len(candidates)-maxListedCandidates), nil)
			break
		}
		h.sendMessage(ctx, b, chatID,
			formatting.FormatProfile(c.User, c.MatchedSubjects),
			keyboard.Candidate(c.User, identity.Role).Markup(),
		)
	}
	return true
}

// commandArgument возвращает текст после команды: "/find python" -> "python".
// Суффикс с именем бота ("/find@tutor_bot") тоже отбрасывается.
func commandArgument(text string) string {
	_, arg, _ := strings.Cut(strings.TrimSpace(text), " ")
	return strings.TrimSpace(arg)
}
