package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/animechat/anime-chatbot-backend/internal/core"
	"github.com/animechat/anime-chatbot-backend/internal/store"
)

const (
	defaultUserID = "guest"

	// sentinelReply replaces the model's answer when generation fails. The
	// request still succeeds so clients always get a well-formed body; the
	// failure itself is logged on the service side.
	sentinelReply = "⚠️ The model is unavailable right now. Please try again."
)

type APIHandler struct {
	chatService *core.ChatService
	ttsService  *core.TTSService
}

func NewAPIHandler(cs *core.ChatService, tts *core.TTSService) *APIHandler {
	return &APIHandler{
		chatService: cs,
		ttsService:  tts,
	}
}

type ChatRequest struct {
	Text   string `json:"text"`
	UserID string `json:"user_id"`
}

type ChatResponse struct {
	Reply string `json:"reply"`
}

func (h *APIHandler) ChatHandler(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if req.UserID == "" {
		req.UserID = defaultUserID
	}

	reply, err := h.chatService.GenerateReply(r.Context(), req.UserID, req.Text)
	if err != nil {
		if errors.Is(err, store.ErrUnavailable) {
			http.Error(w, "History store is unavailable", http.StatusServiceUnavailable)
			return
		}
		// Generation failures degrade to the fixed fallback reply.
		log.Printf("Returning fallback reply to user %s: %v", req.UserID, err)
		reply = sentinelReply
	}

	json.NewEncoder(w).Encode(ChatResponse{Reply: reply})
}

type ClearRequest struct {
	UserID string `json:"user_id"`
}

type ClearResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

func (h *APIHandler) ClearHandler(w http.ResponseWriter, r *http.Request) {
	var req ClearRequest
	if r.Body != http.NoBody {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
			return
		}
	}
	if req.UserID == "" {
		req.UserID = defaultUserID
	}

	removed, err := h.chatService.Clear(req.UserID)
	if err != nil {
		if errors.Is(err, store.ErrUnavailable) {
			http.Error(w, "History store is unavailable", http.StatusServiceUnavailable)
			return
		}
		log.Printf("Error clearing history for user %s: %v", req.UserID, err)
		http.Error(w, "Failed to clear chat history", http.StatusInternalServerError)
		return
	}
	log.Printf("Cleared %d messages for user %s", removed, req.UserID)

	json.NewEncoder(w).Encode(ClearResponse{
		Status:  "success",
		Message: fmt.Sprintf("Chat history cleared for %s", req.UserID),
	})
}

type HistoryEntry struct {
	Sender string `json:"sender"`
	Text   string `json:"text"`
}

type HistoryResponse struct {
	History []HistoryEntry `json:"history"`
}

func (h *APIHandler) HistoryHandler(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	messages, err := h.chatService.History(userID)
	if err != nil {
		if errors.Is(err, store.ErrUnavailable) {
			http.Error(w, "History store is unavailable", http.StatusServiceUnavailable)
			return
		}
		log.Printf("Error fetching history for user %s: %v", userID, err)
		http.Error(w, "Failed to fetch chat history", http.StatusInternalServerError)
		return
	}

	// Always marshal as a list, never null.
	history := make([]HistoryEntry, 0, len(messages))
	for _, msg := range messages {
		history = append(history, HistoryEntry{Sender: msg.Sender, Text: msg.Text})
	}
	json.NewEncoder(w).Encode(HistoryResponse{History: history})
}

type TTSRequest struct {
	Text string `json:"text"`
}

func (h *APIHandler) TTSHandler(w http.ResponseWriter, r *http.Request) {
	var req TTSRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		http.Error(w, "Text is required", http.StatusBadRequest)
		return
	}

	wav, err := h.ttsService.SynthesizeWAV(r.Context(), req.Text)
	if err != nil {
		log.Printf("Speech synthesis failed: %v", err)
		http.Error(w, "Failed to synthesize speech", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "audio/wav")
	w.Write(wav)
}
