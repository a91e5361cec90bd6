package advisor

import (
	"fmt"
	"strings"

	"github.com/dvloznov/finance-dashboard/internal/domain"
)

const chatInstruction = "You are a world-class financial advisor and tax planner. " +
	"Provide concise, actionable, and empathetic financial advice. " +
	"Format your responses with Markdown for readability."

const portfolioInstruction = "You are a strict and analytical investment manager."

func portfolioPrompt(investments []domain.Investment) string {
	var b strings.Builder
	b.WriteString("Analyze the following investment portfolio.\n")
	b.WriteString("Provide 3 key strengths, 3 risks, and 3 actionable recommendations for diversification or optimization.\n\n")
	b.WriteString("Portfolio:\n")
	for _, inv := range investments {
		fmt.Fprintf(&b, "- %s (%s): %s shares @ $%s (Current: $%s)\n",
			inv.Name, inv.Symbol, inv.Shares, inv.AvgCost.StringFixed(2), inv.CurrentPrice.StringFixed(2))
	}
	return b.String()
}

const taxPrompt = "Review the following list of expenses. Identify which ones are likely tax-deductible " +
	"under standard US tax law for a freelancer or small business owner.\n" +
	"Return a JSON array of objects.\n"

func categoryPrompt(description string) string {
	return fmt.Sprintf("Categorize this transaction description into one word "+
		"(e.g., Food, Travel, Utilities, Salary, Software): %q", description)
}

func symbolPrompt(symbol string) string {
	return fmt.Sprintf("Check if the stock symbol '%s' represents a valid publicly traded company "+
		"currently listed on a major exchange (like NYSE, NASDAQ, etc.).\n"+
		"If it is valid, provide the exact company name and the latest available stock price in USD.\n"+
		"Output ONLY a single line in this format:\n"+
		"VALID|Company Name|Price\n\n"+
		"Example:\n"+
		"VALID|Apple Inc.|175.50\n\n"+
		"If it is not a valid or currently trading symbol, output:\n"+
		"INVALID", symbol)
}

func searchPrompt(query string) string {
	return fmt.Sprintf("Suggest up to 5 valid stock market ticker symbols matching %q.\n"+
		"The query could be a company name or part of a symbol.\n"+
		`Return a JSON array where each object has "symbol" and "name".`, query)
}
