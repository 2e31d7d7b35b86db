package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"ledger-server/src/handlers"
	"ledger-server/src/ledger"
	"ledger-server/src/middleware"
)

func NewRouter(svc *ledger.Service, log zerolog.Logger, readOnly bool, origins []string) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.CORSMiddleware(origins))
	r.Use(middleware.RequestLogger(log))
	r.Use(middleware.ReadOnlyMiddleware(readOnly))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})

	r.Route("/api", func(r chi.Router) {
		// Accounts
		r.Post("/accounts", handlers.CreateAccount(svc))
		r.Get("/accounts", handlers.ListAccounts(svc))
		r.Get("/accounts/{account_id}", handlers.GetAccount(svc))
		r.Get("/accounts/{account_id}/balance", handlers.GetBalance(svc))
		r.Post("/accounts/{account_id}/disable", handlers.SetAccountActive(svc, false))
		r.Post("/accounts/{account_id}/enable", handlers.SetAccountActive(svc, true))

		// Categories
		r.Post("/categories", handlers.CreateCategory(svc))
		r.Get("/categories", handlers.ListCategories(svc))
		r.Put("/categories/{category_id}", handlers.RenameCategory(svc))
		r.Delete("/categories/{category_id}", handlers.DeleteCategory(svc))

		// Drafts
		r.Post("/drafts", handlers.CreateDraft(svc))
		r.Get("/drafts", handlers.ListDrafts(svc))
		r.Get("/drafts/{draft_id}", handlers.GetDraft(svc))
		r.Put("/drafts/{draft_id}", handlers.UpdateDraft(svc))
		r.Post("/drafts/{draft_id}/commit", handlers.CommitDraft(svc))
		r.Post("/drafts/{draft_id}/discard", handlers.DiscardDraft(svc))

		// Committed transactions
		r.Get("/transactions", handlers.ListTransactions(svc))
		r.Get("/transactions/{transaction_id}", handlers.GetTransaction(svc))
		r.Patch("/transactions/{transaction_id}/description", handlers.UpdateDescription(svc))
		r.Post("/transactions/{transaction_id}/reverse", handlers.ReverseTransaction(svc))

		// Reports
		r.Get("/reports/profit-and-loss", handlers.ProfitAndLoss(svc))
		r.Get("/reports/account-summary", handlers.AccountSummary(svc))
		r.Get("/reports/monthly", handlers.MonthlySummary(svc))
	})

	return r
}
