package handlers

import (
	"log"
	"net/http"

	"github.com/skip2/go-qrcode"

	"github.com/ashwinpillai/eclauction/internal/repository"
	"github.com/ashwinpillai/eclauction/internal/results"
)

// handleGetState returns the full session snapshot
func (h *Handlers) handleGetState(w http.ResponseWriter, r *http.Request) {
	respondOK(w, h.Session.Snapshot())
}

// handleGetTeams returns the teams' live standings
func (h *Handlers) handleGetTeams(w http.ResponseWriter, r *http.Request) {
	respondOK(w, h.Session.Snapshot().Teams)
}

// handleNextIntro advances the introduction parade
func (h *Handlers) handleNextIntro(w http.ResponseWriter, r *http.Request) {
	if err := h.Session.NextIntro(); err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, h.Session.Snapshot())
}

// handleStartCategory acknowledges the pending category notice
func (h *Handlers) handleStartCategory(w http.ResponseWriter, r *http.Request) {
	if err := h.Session.StartCategory(); err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, h.Session.Snapshot())
}

// handleSelectNext surfaces the next player onto the block
func (h *Handlers) handleSelectNext(w http.ResponseWriter, r *http.Request) {
	if err := h.Session.SelectNext(); err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, h.Session.Snapshot())
}

// handleRaiseBid bumps the bid by the category increment
func (h *Handlers) handleRaiseBid(w http.ResponseWriter, r *http.Request) {
	if err := h.Session.Raise(); err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, h.Session.Snapshot())
}

// handleSetBid sets the bid to a typed amount
func (h *Handlers) handleSetBid(w http.ResponseWriter, r *http.Request) {
	var req SetBidRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}
	if err := h.Session.SetBid(req.Bid); err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, h.Session.Snapshot())
}

// handlePropose tentatively sells the on-block player to a team
func (h *Handlers) handlePropose(w http.ResponseWriter, r *http.Request) {
	var req ProposeRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}
	if req.TeamID == "" {
		respondError(w, BadRequest("team_id is required"))
		return
	}
	if err := h.Session.Propose(req.TeamID); err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, h.Session.Snapshot())
}

// handleReopen cancels a tentative sale and reopens bidding
func (h *Handlers) handleReopen(w http.ResponseWriter, r *http.Request) {
	if err := h.Session.Reopen(); err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, h.Session.Snapshot())
}

// handleConfirm finalizes the tentative sale
func (h *Handlers) handleConfirm(w http.ResponseWriter, r *http.Request) {
	if err := h.Session.Confirm(); err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, h.Session.Snapshot())
}

// handleMarkUnsold parks the on-block player in the unsold queue
func (h *Handlers) handleMarkUnsold(w http.ResponseWriter, r *http.Request) {
	if err := h.Session.MarkUnsold(); err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, h.Session.Snapshot())
}

// handleUndo reverts the most recent sale
func (h *Handlers) handleUndo(w http.ResponseWriter, r *http.Request) {
	if err := h.Session.Undo(); err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, h.Session.Snapshot())
}

// handleFinish forces session completion
func (h *Handlers) handleFinish(w http.ResponseWriter, r *http.Request) {
	if err := h.Session.Finish(); err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, h.Session.Snapshot())
}

// handleGetResults returns the end-of-auction report
func (h *Handlers) handleGetResults(w http.ResponseWriter, r *http.Request) {
	report := results.Build(h.Session.Players(), h.Session.Teams(), h.Session.Ledger())
	respondOK(w, report)
}

// handleExportResults streams the report as a CSV download
func (h *Handlers) handleExportResults(w http.ResponseWriter, r *http.Request) {
	report := results.Build(h.Session.Players(), h.Session.Teams(), h.Session.Ledger())

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="auction-results.csv"`)
	if err := results.WriteCSV(w, report); err != nil {
		// headers already sent; log and give up on this response
		log.Printf("results export failed: %v", err)
	}
}

// handleGetSales returns the persisted sale audit log for this session
func (h *Handlers) handleGetSales(w http.ResponseWriter, r *http.Request) {
	if h.Sales == nil {
		respondOK(w, []repository.Sale{})
		return
	}
	sales, err := h.Sales.ListSales(r.Context(), h.Session.ID())
	if err != nil {
		respondError(w, err)
		return
	}
	if sales == nil {
		sales = []repository.Sale{}
	}
	respondOK(w, sales)
}

// handleLiveQR serves a QR code pointing spectators at the live view
func (h *Handlers) handleLiveQR(w http.ResponseWriter, r *http.Request) {
	if h.LiveURL == "" {
		respondError(w, NotFound("live view URL not configured"))
		return
	}
	png, err := qrcode.Encode(h.LiveURL, qrcode.Medium, 256)
	if err != nil {
		respondError(w, InternalError(err))
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Write(png)
}

// handleConsolePage renders the operator console
func (h *Handlers) handleConsolePage(w http.ResponseWriter, r *http.Request) {
	data := PageData{Title: "Auction Console", LiveURL: h.LiveURL}
	if err := h.templates.Console.Execute(w, data); err != nil {
		respondError(w, InternalError(err))
	}
}

// handleLivePage renders the spectator live view
func (h *Handlers) handleLivePage(w http.ResponseWriter, r *http.Request) {
	data := PageData{Title: "Live Auction", LiveURL: h.LiveURL}
	if err := h.templates.Live.Execute(w, data); err != nil {
		respondError(w, InternalError(err))
	}
}
