package http

import (
	"encoding/json"
	"net/http"

	"github.com/GobLyne/ECommerce/internal/domain"
	"github.com/GobLyne/ECommerce/internal/service"
)

type ChatbotHandler struct {
	chat *service.ChatService
}

func NewChatbotHandler(chat *service.ChatService) *ChatbotHandler {
	return &ChatbotHandler{chat: chat}
}

type ChatRequestDTO struct {
	Message string `json:"message"`
}

type ChatResponseDTO struct {
	Message string              `json:"message"`
	Context service.ContextInfo `json:"context"`
}

type SearchProductsRequestDTO struct {
	Query string `json:"query"`
}

// Chat identifies the cart owner from the request credential, never from the
// body, so an anonymous caller cannot read someone else's cart context.
func (h *ChatbotHandler) Chat(w http.ResponseWriter, r *http.Request) {
	var req ChatRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	reply, info, err := h.chat.Chat(r.Context(), getUserID(r.Context()), req.Message)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, ChatResponseDTO{Message: reply, Context: info})
}

func (h *ChatbotHandler) Suggestions(w http.ResponseWriter, r *http.Request) {
	suggestions, err := h.chat.Suggestions(r.Context(), getUserID(r.Context()))
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string][]string{"suggestions": suggestions})
}

func (h *ChatbotHandler) SearchProducts(w http.ResponseWriter, r *http.Request) {
	var req SearchProductsRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	results, err := h.chat.SearchProducts(r.Context(), req.Query)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	if results == nil {
		results = []domain.SearchResult{}
	}

	respondJSON(w, http.StatusOK, map[string][]domain.SearchResult{"products": results})
}
