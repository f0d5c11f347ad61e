package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"bunker/internal/telegram"
)

// handleWebhook accepts bot updates. Send failures are logged and
// swallowed: the bot is onboarding convenience, never part of game
// state.
func (s *Server) handleWebhook(w http.ResponseWriter, r *http.Request) {
	// Updates carry many fields beyond the decoded subset, so unknown
	// fields are tolerated here; only game protocol frames decode strictly.
	var update telegram.Update
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		writeError(w, http.StatusBadRequest, "malformed update")
		return
	}
	switch {
	case update.Message != nil:
		s.handleBotMessage(r.Context(), update.Message)
	case update.CallbackQuery != nil:
		s.handleBotCallback(r.Context(), update.CallbackQuery)
	}
	w.WriteHeader(http.StatusOK)
}

func (s *Server) handleBotMessage(ctx context.Context, msg *telegram.Message) {
	chatID := msg.Chat.ID
	name, userID := botIdentity(msg.From)
	text := msg.Text

	switch {
	case strings.HasPrefix(text, "/start"):
		if code, ok := commandArg(text); ok {
			if room, found := s.store.GetRoom(code); found && room.Status == statusWaiting {
				s.sendJoinInvite(ctx, chatID, room.Code, userID, name)
				return
			}
		}
		s.sendWelcome(ctx, chatID, name)
	case strings.HasPrefix(text, "/join"):
		code, ok := commandArg(text)
		if !ok {
			s.botSend(ctx, chatID, "Room code required: /join ABC123", nil)
			return
		}
		room, found := s.store.GetRoom(code)
		if !found || room.Status != statusWaiting {
			s.botSend(ctx, chatID, "Room not found or the game already started", nil)
			return
		}
		s.sendJoinInvite(ctx, chatID, room.Code, userID, name)
	case strings.HasPrefix(text, "/create"):
		s.botSend(ctx, chatID, "Start a new game", &telegram.InlineKeyboardMarkup{
			InlineKeyboard: [][]telegram.InlineKeyboardButton{{{
				Text:   "Create room",
				WebApp: &telegram.WebAppInfo{URL: s.miniAppLink(url.Values{"action": {"create"}, "playerId": {userID}, "name": {name}})},
			}}},
		})
	case strings.HasPrefix(text, "/help"):
		s.botSend(ctx, chatID,
			"Commands:\n/start - open the game\n/create - create a room\n/join CODE - join a room\n/help - this message", nil)
	default:
		s.botSend(ctx, chatID, "Play now", &telegram.InlineKeyboardMarkup{
			InlineKeyboard: [][]telegram.InlineKeyboardButton{{{
				Text:   "Play",
				WebApp: &telegram.WebAppInfo{URL: s.miniAppLink(url.Values{"playerId": {userID}, "name": {name}})},
			}}},
		})
	}
}

func (s *Server) handleBotCallback(ctx context.Context, query *telegram.CallbackQuery) {
	if query.Data == "create_game" && query.Message != nil {
		s.botSend(ctx, query.Message.Chat.ID, "Create a room:", &telegram.InlineKeyboardMarkup{
			InlineKeyboard: [][]telegram.InlineKeyboardButton{{{
				Text:   "Create",
				WebApp: &telegram.WebAppInfo{URL: s.cfg.MiniAppURL},
			}}},
		})
	}
	if err := s.bot.AnswerCallbackQuery(ctx, query.ID, ""); err != nil {
		log.Printf("telegram answer failed error=%v", err)
	}
}

func (s *Server) sendJoinInvite(ctx context.Context, chatID int64, code, userID, name string) {
	link := s.miniAppLink(url.Values{"room": {code}, "playerId": {userID}, "name": {name}})
	s.botSend(ctx, chatID, fmt.Sprintf("Room *%s* found!\n\nTap the button below to join:", code), &telegram.InlineKeyboardMarkup{
		InlineKeyboard: [][]telegram.InlineKeyboardButton{{{
			Text:   "Join game",
			WebApp: &telegram.WebAppInfo{URL: link},
		}}},
	})
}

func (s *Server) sendWelcome(ctx context.Context, chatID int64, name string) {
	text := fmt.Sprintf("Hi, %s!\n\nGather your friends and decide who makes it into the bunker.\n\n1. Create a room (/create)\n2. Share the code\n3. Start when everyone is in\n\nOr join an existing room: /join CODE", name)
	s.botSend(ctx, chatID, text, &telegram.InlineKeyboardMarkup{
		InlineKeyboard: [][]telegram.InlineKeyboardButton{
			{{Text: "Create game", CallbackData: "create_game"}},
		},
	})
}

func (s *Server) botSend(ctx context.Context, chatID int64, text string, markup *telegram.InlineKeyboardMarkup) {
	if err := s.bot.SendMessage(ctx, chatID, text, markup); err != nil {
		log.Printf("telegram send failed chat_id=%d error=%v", chatID, err)
	}
}

func (s *Server) miniAppLink(params url.Values) string {
	base := s.cfg.MiniAppURL
	if len(params) == 0 {
		return base
	}
	return base + "?" + params.Encode()
}

func botIdentity(from *telegram.User) (name, userID string) {
	if from == nil {
		return "Player", ""
	}
	name = from.Username
	if name == "" {
		name = from.FirstName
	}
	if name == "" {
		name = "Player"
	}
	return name, strconv.FormatInt(from.ID, 10)
}

func commandArg(text string) (string, bool) {
	parts := strings.Fields(text)
	if len(parts) < 2 {
		return "", false
	}
	return strings.ToUpper(parts[1]), true
}
