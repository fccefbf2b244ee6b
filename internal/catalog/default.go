package catalog

import "github.com/finlane/tutordock/internal/domain"

// Default returns the built-in tutorial set for the accounting product.
// IDs are stable: they key the persisted playback positions.
func Default() *Catalog {
	return New([]domain.Tutorial{
		{
			ID:        "getting-started",
			Title:     "Getting started with your books",
			Summary:   "Company setup, chart of accounts, and your first login",
			SourceURL: "https://media.finlane.io/tutorials/getting-started.mp4",
			HomeRoute: "/dashboard",
		},
		{
			ID:        "first-invoice",
			Title:     "Creating your first invoice",
			Summary:   "Draft, preview, and send an invoice to a customer",
			SourceURL: "https://media.finlane.io/tutorials/first-invoice.mp4",
			HomeRoute: "/invoices",
		},
		{
			ID:        "expense-capture",
			Title:     "Capturing expenses and receipts",
			Summary:   "Snap receipts, categorize spend, and set up recurring expenses",
			SourceURL: "https://media.finlane.io/tutorials/expense-capture.mp4",
			HomeRoute: "/expenses",
		},
		{
			ID:        "bank-reconciliation",
			Title:     "Reconciling your bank feed",
			Summary:   "Match imported transactions against your ledger",
			SourceURL: "https://media.finlane.io/tutorials/bank-reconciliation.mp4",
			HomeRoute: "/banking",
		},
		{
			ID:        "vat-returns",
			Title:     "Preparing a VAT return",
			Summary:   "Review, adjust, and file a VAT period",
			SourceURL: "https://media.finlane.io/tutorials/vat-returns.mp4",
			HomeRoute: "/taxes",
		},
	})
}
