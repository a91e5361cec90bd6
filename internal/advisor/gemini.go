package advisor

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/dvloznov/finance-dashboard/internal/domain"
	"google.golang.org/genai"
)

// DefaultModel is the Gemini model used when none is configured.
const DefaultModel = "gemini-2.5-flash"

const (
	roleUser  = "user"
	roleModel = "model"
)

// generator is the part of the genai client the advisor calls.
type generator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Gemini implements Advisor on the Gemini API.
type Gemini struct {
	models generator
	model  string
}

// NewGemini creates a Gemini advisor authenticated with apiKey.
func NewGemini(ctx context.Context, apiKey, model string) (*Gemini, error) {
	if apiKey == "" {
		return nil, ErrDisabled
	}
	if model == "" {
		model = DefaultModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("NewGemini: create genai client: %w", err)
	}

	return &Gemini{models: client.Models, model: model}, nil
}

func userText(text string) *genai.Content {
	return &genai.Content{Role: roleUser, Parts: []*genai.Part{{Text: text}}}
}

func (g *Gemini) generate(ctx context.Context, contents []*genai.Content, config *genai.GenerateContentConfig) (string, error) {
	resp, err := g.models.GenerateContent(ctx, g.model, contents, config)
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}
	return strings.TrimSpace(resp.Text()), nil
}

// Chat answers message in the context of the prior conversation.
func (g *Gemini) Chat(ctx context.Context, history []domain.ChatMessage, message string) (string, error) {
	if strings.TrimSpace(message) == "" {
		return "", &domain.ValidationError{Entity: "chat", Field: "message", Reason: "is required"}
	}

	contents := make([]*genai.Content, 0, len(history)+1)
	for _, m := range history {
		role := roleUser
		if m.Role == domain.RoleModel {
			role = roleModel
		}
		contents = append(contents, &genai.Content{Role: role, Parts: []*genai.Part{{Text: m.Text}}})
	}
	contents = append(contents, userText(message))

	text, err := g.generate(ctx, contents, &genai.GenerateContentConfig{
		SystemInstruction: userText(chatInstruction),
	})
	if err != nil {
		return "", fmt.Errorf("Chat: %w", err)
	}
	return text, nil
}

// AnalyzePortfolio returns a prose review of the holdings.
func (g *Gemini) AnalyzePortfolio(ctx context.Context, investments []domain.Investment) (string, error) {
	if len(investments) == 0 {
		return "Add investments to your portfolio to get an analysis.", nil
	}

	text, err := g.generate(ctx, []*genai.Content{userText(portfolioPrompt(investments))}, &genai.GenerateContentConfig{
		SystemInstruction: userText(portfolioInstruction),
	})
	if err != nil {
		return "", fmt.Errorf("AnalyzePortfolio: %w", err)
	}
	if text == "" {
		return "Unable to analyze portfolio at this time.", nil
	}
	return text, nil
}

// SuggestCategory proposes a one-word category for a transaction description.
func (g *Gemini) SuggestCategory(ctx context.Context, description string) (string, error) {
	if strings.TrimSpace(description) == "" {
		return Uncategorized, nil
	}

	text, err := g.generate(ctx, []*genai.Content{userText(categoryPrompt(description))}, nil)
	if err != nil {
		return "", fmt.Errorf("SuggestCategory: %w", err)
	}
	if fields := strings.Fields(text); len(fields) > 0 {
		return strings.Trim(fields[0], ".,;:!\"'*"), nil
	}
	return Uncategorized, nil
}

var insightSchema = &genai.Schema{
	Type: genai.TypeArray,
	Items: &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"transactionId": {Type: genai.TypeString},
			"reason":        {Type: genai.TypeString},
			"confidence":    {Type: genai.TypeString, Enum: []string{"HIGH", "MEDIUM", "LOW"}},
		},
		Required: []string{"transactionId", "reason", "confidence"},
	},
}

type expenseLine struct {
	ID          string `json:"id"`
	Description string `json:"description"`
	Amount      string `json:"amount"`
	Category    string `json:"category"`
}

// IdentifyTaxDeductions flags expenses that are likely deductible.
func (g *Gemini) IdentifyTaxDeductions(ctx context.Context, txs []domain.Transaction) ([]domain.TaxDeductionInsight, error) {
	known := make(map[string]bool)
	var lines []expenseLine
	for _, tx := range txs {
		if tx.Kind != domain.KindExpense {
			continue
		}
		known[tx.ID] = true
		lines = append(lines, expenseLine{
			ID:          tx.ID,
			Description: tx.Description,
			Amount:      tx.Amount.StringFixed(2),
			Category:    tx.Category,
		})
	}
	if len(lines) == 0 {
		return []domain.TaxDeductionInsight{}, nil
	}

	payload, err := json.Marshal(lines)
	if err != nil {
		return nil, fmt.Errorf("IdentifyTaxDeductions: marshal expenses: %w", err)
	}

	text, err := g.generate(ctx, []*genai.Content{userText(taxPrompt + string(payload))}, &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   insightSchema,
	})
	if err != nil {
		return nil, fmt.Errorf("IdentifyTaxDeductions: %w", err)
	}
	if text == "" {
		return []domain.TaxDeductionInsight{}, nil
	}

	insights, err := parseInsights(text, known)
	if err != nil {
		return nil, fmt.Errorf("IdentifyTaxDeductions: %w", err)
	}
	return insights, nil
}

// ValidateSymbol asks the model, grounded with web search, whether symbol is
// a listed security and at what price.
func (g *Gemini) ValidateSymbol(ctx context.Context, symbol string) (SymbolCheck, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return SymbolCheck{}, &domain.ValidationError{Entity: "symbol", Field: "symbol", Reason: "is required"}
	}

	text, err := g.generate(ctx, []*genai.Content{userText(symbolPrompt(symbol))}, &genai.GenerateContentConfig{
		Tools: []*genai.Tool{{GoogleSearch: &genai.GoogleSearch{}}},
	})
	if err != nil {
		return SymbolCheck{}, fmt.Errorf("ValidateSymbol: %w", err)
	}
	return parseSymbolCheck(symbol, text), nil
}

var symbolSchema = &genai.Schema{
	Type: genai.TypeArray,
	Items: &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"symbol": {Type: genai.TypeString},
			"name":   {Type: genai.TypeString},
		},
	},
}

// SearchSymbols suggests up to five tickers for a partial name or symbol.
// Queries shorter than two characters return nothing.
func (g *Gemini) SearchSymbols(ctx context.Context, query string) ([]SymbolMatch, error) {
	query = strings.TrimSpace(query)
	if len([]rune(query)) < 2 {
		return []SymbolMatch{}, nil
	}

	text, err := g.generate(ctx, []*genai.Content{userText(searchPrompt(query))}, &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   symbolSchema,
	})
	if err != nil {
		return nil, fmt.Errorf("SearchSymbols: %w", err)
	}
	if text == "" {
		return []SymbolMatch{}, nil
	}

	matches, err := parseSymbolMatches(text)
	if err != nil {
		return nil, fmt.Errorf("SearchSymbols: %w", err)
	}
	return matches, nil
}
