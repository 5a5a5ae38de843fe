package app

import (
	"goji.io"
	"goji.io/pat"

	"github.com/luo4lu/DCEP/ledger/endpoint"
)

// Controller binds the API
type Controller struct{}

// Bind registers the API routes.
func (c *Controller) Bind(
	mux *goji.Mux,
) {
	// Settlement.
	mux.HandleFunc(pat.Post("/transactions"), endpoint.HandlerFor(endpoint.EndPtCreateSettlement))

	// Queries.
	mux.HandleFunc(pat.Get("/currencies"), endpoint.HandlerFor(endpoint.EndPtListCurrencies))
	mux.HandleFunc(pat.Get("/currencies/:currency"), endpoint.HandlerFor(endpoint.EndPtRetrieveCurrency))
	mux.HandleFunc(pat.Get("/transactions"), endpoint.HandlerFor(endpoint.EndPtListTransactions))
	mux.HandleFunc(pat.Get("/transactions/:transaction"), endpoint.HandlerFor(endpoint.EndPtRetrieveTransaction))
	mux.HandleFunc(pat.Get("/statistics"), endpoint.HandlerFor(endpoint.EndPtRetrieveStatistics))
}
