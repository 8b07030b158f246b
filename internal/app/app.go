// Package app assembles the auction server: sheet data, session engine,
// sale log, websocket hub and HTTP handlers.
package app

import (
	"context"
	"fmt"
	"io/fs"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ashwinpillai/eclauction/internal/auction"
	"github.com/ashwinpillai/eclauction/internal/config"
	"github.com/ashwinpillai/eclauction/internal/handlers"
	"github.com/ashwinpillai/eclauction/internal/ledger"
	"github.com/ashwinpillai/eclauction/internal/logger"
	"github.com/ashwinpillai/eclauction/internal/repository"
	"github.com/ashwinpillai/eclauction/internal/websocket"
	"github.com/ashwinpillai/eclauction/pkg/sheets"
)

// App holds all application dependencies
type App struct {
	log      logger.Logger
	handlers *handlers.Handlers
	session  *auction.Session
	repo     *repository.Repository
	sheets   sheets.Client
}

// New creates and initializes a new application instance. Player and team
// rosters are fetched from the sheets before the server starts; the auction
// cannot open without them.
func New(ctx context.Context, log logger.Logger, cfg *config.Config, dbPath string, client sheets.Client, templatesFS, staticFS fs.FS) (*App, error) {
	players, err := client.LoadPlayers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load players: %w", err)
	}
	teams, err := client.LoadTeams(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load teams: %w", err)
	}
	log.Info("Rosters loaded", "players", len(players), "teams", len(teams))

	session, err := auction.NewSession(log, cfg, players, teams)
	if err != nil {
		return nil, err
	}

	repo, err := repository.New(dbPath)
	if err != nil {
		return nil, err
	}

	a := &App{
		log:     log,
		session: session,
		repo:    repo,
		sheets:  client,
	}

	// Every confirmed sale is mirrored to the sheet and the local log,
	// every undo removes the local row. Both run off the hot path.
	session.Ledger().SetOnCommit(a.recordSale)
	session.Ledger().SetOnUndo(a.removeSale)

	// Initialize WebSocket hub with DI
	hub := websocket.New(log, session)
	hub.Start()
	session.SetBroadcaster(hub)

	staticServer := handlers.NewStaticServer(staticFS)

	h, err := handlers.New(session, repo, hub, templatesFS, staticServer, "", log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize handlers: %w", err)
	}
	a.handlers = h

	return a, nil
}

// Router returns the configured HTTP router
func (a *App) Router() chi.Router {
	return a.handlers.Router()
}

// Close performs graceful shutdown of app resources
func (a *App) Close() {
	if a.repo != nil {
		a.repo.Close()
	}
}

// Run starts the HTTP server. The live page URL is built from the detected
// LAN IP so spectators on the venue network can reach it via the QR code.
func (a *App) Run(addr string) error {
	ip := getPreferredIP(realNetworkProvider{})
	baseURL := fmt.Sprintf("http://%s%s", ip, addr)
	a.handlers.LiveURL = baseURL + "/live"

	a.log.Info("Server starting", "url", baseURL)
	a.log.Info("Live page", "url", a.handlers.LiveURL)
	return http.ListenAndServe(addr, a.Router())
}

// recordSale mirrors a confirmed sale to the sheet and the local audit log.
// Both writes are best-effort: a failure is logged but never rolls back the
// in-memory ledger, which stays authoritative for the running auction.
func (a *App) recordSale(assignment ledger.Assignment) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	player, ok := a.session.Player(assignment.PlayerID)
	if !ok {
		a.log.Error("Sale references unknown player", "player_id", assignment.PlayerID)
		return
	}
	team, ok := a.session.Team(assignment.TeamID)
	if !ok {
		a.log.Error("Sale references unknown team", "team_id", assignment.TeamID)
		return
	}

	if err := a.sheets.SaveSale(ctx, sheets.SaleRecord{
		PlayerName: player.Name,
		TeamName:   team.Name,
		BasePrice:  player.BasePrice,
		SoldPrice:  assignment.Price,
		Category:   player.Category,
		Role:       player.Role,
		Timestamp:  time.Now(),
	}); err != nil {
		a.log.Error("Failed to record sale on sheet", "player", player.Name, "error", err)
	}

	if _, err := a.repo.InsertSale(ctx, repository.Sale{
		SessionID:  a.session.ID(),
		PlayerID:   player.ID,
		PlayerName: player.Name,
		TeamID:     team.ID,
		TeamName:   team.Name,
		BasePrice:  player.BasePrice,
		SoldPrice:  assignment.Price,
		Category:   player.Category,
		Role:       player.Role,
		PreSold:    assignment.PreSold,
	}); err != nil {
		a.log.Error("Failed to record sale locally", "player", player.Name, "error", err)
	}
}

// removeSale drops the local audit row after an undo
func (a *App) removeSale(assignment ledger.Assignment) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.repo.DeleteSale(ctx, a.session.ID(), assignment.PlayerID); err != nil {
		a.log.Error("Failed to remove sale from log", "player_id", assignment.PlayerID, "error", err)
	}
}

// networkInterface wraps net.Interface for testing
type networkInterface interface {
	Flags() net.Flags
	Addrs() ([]net.Addr, error)
}

// realInterface wraps a real net.Interface
type realInterface struct {
	iface net.Interface
}

func (r realInterface) Flags() net.Flags {
	return r.iface.Flags
}

func (r realInterface) Addrs() ([]net.Addr, error) {
	return r.iface.Addrs()
}

// networkProvider is an interface for getting network interfaces (for testing)
type networkProvider interface {
	Interfaces() ([]networkInterface, error)
}

// realNetworkProvider implements networkProvider using actual net package
type realNetworkProvider struct{}

func (realNetworkProvider) Interfaces() ([]networkInterface, error) {
	ifaces, err := net.Interfaces()
	if err != nil {
		return nil, err
	}
	result := make([]networkInterface, len(ifaces))
	for i, iface := range ifaces {
		result[i] = realInterface{iface: iface}
	}
	return result, nil
}

// getPreferredIP returns the best IP address for LAN access.
// Prefers private network addresses (192.168.x.x, 10.x.x.x, 172.16-31.x.x).
// Falls back to localhost if no suitable address is found.
func getPreferredIP(provider networkProvider) string {
	ifaces, err := provider.Interfaces()
	if err != nil {
		return "localhost"
	}

	var candidates []net.IP

	for _, iface := range ifaces {
		flags := iface.Flags()
		if flags&net.FlagUp == 0 || flags&net.FlagLoopback != 0 {
			continue
		}

		addrs, err := iface.Addrs()
		if err != nil {
			continue
		}

		for _, addr := range addrs {
			var ip net.IP
			switch v := addr.(type) {
			case *net.IPNet:
				ip = v.IP
			case *net.IPAddr:
				ip = v.IP
			}

			// Only consider IPv4 addresses
			if ip == nil || ip.To4() == nil {
				continue
			}
			if ip.IsLoopback() {
				continue
			}

			candidates = append(candidates, ip)
		}
	}

	for _, ip := range candidates {
		ipStr := ip.String()
		if strings.HasPrefix(ipStr, "192.168.") ||
			strings.HasPrefix(ipStr, "10.") ||
			isPrivate172(ip) {
			return ipStr
		}
	}

	if len(candidates) > 0 {
		return candidates[0].String()
	}

	return "localhost"
}

// isPrivate172 checks if IP is in 172.16.0.0/12 range
func isPrivate172(ip net.IP) bool {
	if ip4 := ip.To4(); ip4 != nil {
		return ip4[0] == 172 && ip4[1] >= 16 && ip4[1] <= 31
	}
	return false
}
