package service

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/GobLyne/ECommerce/internal/ai"
	"github.com/GobLyne/ECommerce/internal/catalog"
	"github.com/GobLyne/ECommerce/internal/domain"
	"github.com/GobLyne/ECommerce/pkg/logger"
	"github.com/GobLyne/ECommerce/pkg/metrics"
)

// DefaultContextProducts bounds how many catalog products go into the
// assistant prompt. The prompt grows with the cart too, but the cart is
// already bounded by what one user can put in it.
const DefaultContextProducts = 20

// FallbackReply is the user-facing sentinel shown when the upstream
// generative API is unavailable.
const FallbackReply = "Sorry, I am experiencing technical difficulties. Please try again later."

// ContextInfo summarises what the assembler saw, echoed back to the client
// alongside the reply.
type ContextInfo struct {
	HasProducts  bool    `json:"hasProducts"`
	HasCartItems bool    `json:"hasCartItems"`
	CartTotal    float64 `json:"cartTotal"`
}

type ChatService struct {
	catalog     catalog.Repository
	carts       *CartService
	client      ai.Client
	maxProducts int
}

func NewChatService(cat catalog.Repository, carts *CartService, client ai.Client) *ChatService {
	return &ChatService{
		catalog:     cat,
		carts:       carts,
		client:      client,
		maxProducts: DefaultContextProducts,
	}
}

// Chat relays a free-text message to the generative API with the store
// context prepended. An empty message is rejected before any upstream call;
// an upstream failure surfaces as a typed domain.ErrUpstream so callers can
// tell it apart from bad input.
func (s *ChatService) Chat(ctx context.Context, userID, message string) (string, ContextInfo, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		metrics.ChatRequests.WithLabelValues("invalid").Inc()
		return "", ContextInfo{}, fmt.Errorf("%w: message is required", domain.ErrInvalidInput)
	}

	prompt, info, err := s.buildPrompt(ctx, userID, message)
	if err != nil {
		return "", ContextInfo{}, err
	}

	reply, err := s.client.GenerateText(ctx, prompt)
	if err != nil {
		metrics.ChatRequests.WithLabelValues("upstream_error").Inc()
		metrics.UpstreamFailures.Inc()
		logger.FromCtx(ctx).Error("generative API call failed", "error", err)
		return "", info, &domain.UpstreamError{Cause: err}
	}

	metrics.ChatRequests.WithLabelValues("ok").Inc()
	return reply, info, nil
}

// buildPrompt assembles the bounded store-context block and the fixed
// instruction template around the user message. Deterministic for a given
// catalog/cart snapshot and message.
func (s *ChatService) buildPrompt(ctx context.Context, userID, message string) (string, ContextInfo, error) {
	products, err := s.catalog.GetAllProducts(ctx)
	if err != nil {
		return "", ContextInfo{}, err
	}

	var cart *domain.HydratedCart
	if userID != "" {
		cart, err = s.carts.Get(ctx, userID)
		if err != nil {
			return "", ContextInfo{}, err
		}
	}

	info := ContextInfo{
		HasProducts:  len(products) > 0,
		HasCartItems: cart != nil && len(cart.Items) > 0,
	}
	if cart != nil {
		info.CartTotal = cart.Total
	}

	selected := selectContextProducts(products, message, s.maxProducts)

	var b strings.Builder
	b.WriteString("You are a helpful e-commerce assistant for an online store. You have access to the following store information:\n\n")

	b.WriteString("AVAILABLE PRODUCTS:\n")
	for _, p := range selected {
		category := p.Category
		if category == "" {
			category = "No category"
		}
		availability := "Out of stock"
		if p.InStock() {
			availability = fmt.Sprintf("%d in stock", p.Stock)
		}
		fmt.Fprintf(&b, "- %s: $%.2f (%s) - %s\n", p.Name, p.Price, category, availability)
	}

	fmt.Fprintf(&b, "\nPRODUCT CATEGORIES: %s\n", strings.Join(categoriesOf(products), ", "))

	if userID != "" {
		if info.HasCartItems {
			b.WriteString("\nUSER'S CURRENT CART:\n")
			for _, item := range cart.Items {
				fmt.Fprintf(&b, "- %dx %s - $%.2f\n", item.Quantity, item.Product.Name, item.LineTotal)
			}
			fmt.Fprintf(&b, "Cart Total: $%.2f\n", cart.Total)
		} else {
			b.WriteString("\nUSER'S CART: Empty\n")
		}
	}

	b.WriteString(`
INSTRUCTIONS:
- Help users find products, answer questions about items, pricing, and availability
- Provide product recommendations based on their needs
- Help with cart-related questions and checkout guidance
- Be friendly, helpful, and concise
- If asked about products not in our store, politely explain we don't carry them and suggest alternatives
- For cart operations, guide users to use the website interface
- If users ask about shipping, mention we offer free shipping for orders over $100

USER MESSAGE: `)
	b.WriteString(message)
	b.WriteString(`

IMPORTANT: Format your response using Markdown. Use lists, bold, italics and tables to make your answer easy to read. Do not include code blocks unless asked. Do not explain Markdown, just use it.

Please provide a helpful response in Markdown:`)

	return b.String(), info, nil
}

// selectContextProducts picks at most limit products for the prompt,
// preferring ones whose name, description or category contains a term of the
// user message. Ties and the no-match case fall back to stored order, so the
// selection is stable.
func selectContextProducts(products []*domain.Product, message string, limit int) []*domain.Product {
	if len(products) <= limit {
		return products
	}

	terms := strings.Fields(strings.ToLower(message))

	type scored struct {
		product *domain.Product
		score   int
		pos     int
	}

	ranked := make([]scored, len(products))
	for i, p := range products {
		haystack := strings.ToLower(p.Name + " " + p.Description + " " + p.Category)
		score := 0
		for _, term := range terms {
			if len(term) < 3 {
				continue
			}
			if strings.Contains(haystack, term) {
				score++
			}
		}
		ranked[i] = scored{product: p, score: score, pos: i}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].score != ranked[j].score {
			return ranked[i].score > ranked[j].score
		}
		return ranked[i].pos < ranked[j].pos
	})

	out := make([]*domain.Product, 0, limit)
	for _, r := range ranked[:limit] {
		out = append(out, r.product)
	}
	return out
}

// categoriesOf returns the distinct non-empty categories in first-seen order.
func categoriesOf(products []*domain.Product) []string {
	seen := make(map[string]struct{})
	var categories []string
	for _, p := range products {
		if p.Category == "" {
			continue
		}
		if _, ok := seen[p.Category]; ok {
			continue
		}
		seen[p.Category] = struct{}{}
		categories = append(categories, p.Category)
	}
	return categories
}

// Suggestions returns up to six quick-action questions, cart-aware when the
// user is known.
func (s *ChatService) Suggestions(ctx context.Context, userID string) ([]string, error) {
	suggestions := []string{
		"What products do you have available?",
		"Can you recommend something popular?",
		"What are your product categories?",
		"Do you offer free shipping?",
	}

	if userID != "" {
		cart, err := s.carts.Get(ctx, userID)
		if err != nil {
			return nil, err
		}
		if len(cart.Items) > 0 {
			suggestions = append([]string{
				"What's in my cart?",
				"How much is my total?",
				"Do I qualify for free shipping?",
			}, suggestions...)
		}
	}

	products, err := s.catalog.GetAllProducts(ctx)
	if err != nil {
		return nil, err
	}
	if categories := categoriesOf(products); len(categories) > 0 {
		suggestions = append(suggestions, fmt.Sprintf("Show me %s products", categories[0]))
	}

	if len(suggestions) > 6 {
		suggestions = suggestions[:6]
	}
	return suggestions, nil
}

// SearchProducts is the chat-triggered quick search: case-insensitive
// substring match, capped at catalog.SearchLimit, stored order.
func (s *ChatService) SearchProducts(ctx context.Context, query string) ([]domain.SearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("%w: search query is required", domain.ErrInvalidInput)
	}

	products, err := s.catalog.SearchProducts(ctx, query)
	if err != nil {
		return nil, err
	}

	results := make([]domain.SearchResult, 0, len(products))
	for _, p := range products {
		results = append(results, domain.SearchResult{
			ID:       p.ID,
			Name:     p.Name,
			Price:    p.Price,
			Category: p.Category,
			InStock:  p.InStock(),
			Stock:    p.Stock,
		})
	}
	return results, nil
}
