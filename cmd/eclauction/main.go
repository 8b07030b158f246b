package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/ashwinpillai/eclauction/internal/app"
	"github.com/ashwinpillai/eclauction/internal/browser"
	"github.com/ashwinpillai/eclauction/internal/config"
	"github.com/ashwinpillai/eclauction/internal/logger"
	"github.com/ashwinpillai/eclauction/pkg/sheets"
	"github.com/ashwinpillai/eclauction/web"
)

// ANSI escape codes
const (
	reset  = "\033[0m"
	yellow = "\033[33m"
	red    = "\033[31m"
	green  = "\033[32m"
	cyan   = "\033[36m"
	bold   = "\033[1m"
)

var (
	version = "dev"
)

// envConfig holds settings readable from the environment. Flags override
// these, so env vars act as deployment defaults.
type envConfig struct {
	Port       int    `env:"ECL_PORT" envDefault:"8080"`
	DBPath     string `env:"ECL_DB" envDefault:"auction.db"`
	ConfigFile string `env:"ECL_CONFIG"`
	PlayersURL string `env:"ECL_PLAYERS_URL"`
	TeamsURL   string `env:"ECL_TEAMS_URL"`
	ScriptURL  string `env:"ECL_SCRIPT_URL"`
	LogLevel   string `env:"ECL_LOG_LEVEL" envDefault:"info"`
}

// showBanner prints the startup logo
func showBanner() {
	width := 56
	border := ""
	for i := 0; i < width; i++ {
		border += "═"
	}

	logo := []string{
		"   _____ ____ _        _               _   _             ",
		"  | ____/ ___| |      / \\  _   _  ___| |_(_) ___  _ __  ",
		"  |  _|| |   | |     / _ \\| | | |/ __| __| |/ _ \\| '_ \\ ",
		"  | |__| |___| |___ / ___ \\ |_| | (__| |_| | (_) | | | |",
		"  |_____\\____|_____/_/   \\_\\__,_|\\___|\\__|_|\\___/|_| |_|",
	}

	fmt.Printf("\n  %s╔%s╗%s\n", cyan, border, reset)
	for _, line := range logo {
		for len(line) < width {
			line += " "
		}
		fmt.Printf("  %s║%s%.56s%s║%s\n", cyan, yellow, line, cyan, reset)
	}
	fmt.Printf("  %s╚%s╝%s\n\n", cyan, border, reset)
}

// cycleLogLevel cycles through debug -> info -> warn -> error
func cycleLogLevel(appLog *logger.SlogLogger) {
	var next string
	switch appLog.GetLevel().String() {
	case "DEBUG":
		next = "info"
	case "INFO":
		next = "warn"
	case "WARN":
		next = "error"
	case "ERROR":
		next = "debug"
	default:
		next = "info"
	}

	appLog.SetLevel(logger.ParseLevel(next))
	fmt.Printf("%sLog level: %s%s%s\r\n", green, yellow, next, reset)
}

// printKeyboardHelp displays all available keyboard shortcuts
func printKeyboardHelp() {
	fmt.Printf("\r\n%s%s  Keyboard Shortcuts:%s\r\n", bold, green, reset)
	fmt.Printf("    %so%s      - Open auction console in browser\r\n", cyan, reset)
	fmt.Printf("    %sh%s      - Toggle HTTP request logging\r\n", cyan, reset)
	fmt.Printf("    %sl%s      - Cycle log level (debug, info, warn, error)\r\n", cyan, reset)
	fmt.Printf("    %sq%s      - Quit server\r\n", cyan, reset)
	fmt.Printf("    %s?%s      - Show this help\r\n\r\n", cyan, reset)
}

func main() {
	var envCfg envConfig
	if err := env.Parse(&envCfg); err != nil {
		log.Fatal("Failed to read environment:", err)
	}

	port := flag.Int("port", envCfg.Port, "HTTP server port")
	dbPath := flag.String("db", envCfg.DBPath, "SQLite sale log path")
	configFile := flag.String("config", envCfg.ConfigFile, "Auction config JSON (defaults apply if unset)")
	playersURL := flag.String("players-url", envCfg.PlayersURL, "Players sheet CSV export URL")
	teamsURL := flag.String("teams-url", envCfg.TeamsURL, "Teams sheet CSV export URL")
	scriptURL := flag.String("script-url", envCfg.ScriptURL, "Apps Script endpoint for recording sales (optional)")
	logLevel := flag.String("loglevel", envCfg.LogLevel, "Log level (debug, info, warn, error)")
	noBrowser := flag.Bool("nobrowser", false, "Do not open the console in a browser on startup")
	noKeyboard := flag.Bool("nokeyboard", false, "Disable keyboard shortcuts")
	demo := flag.Bool("demo", false, "Run with built-in demo rosters instead of sheets")
	showVersion := flag.Bool("version", false, "Show version and exit")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, `ECL Auction - Live Player Auction Console

Usage:
  eclauction [options]

Options:
  -port int         HTTP server port (default 8080, env ECL_PORT)
  -db string        SQLite sale log path (default "auction.db", env ECL_DB)
  -config string    Auction config JSON file (env ECL_CONFIG)
  -players-url str  Players sheet CSV export URL (env ECL_PLAYERS_URL)
  -teams-url str    Teams sheet CSV export URL (env ECL_TEAMS_URL)
  -script-url str   Apps Script endpoint for sales (env ECL_SCRIPT_URL)
  -loglevel str     Log level: debug, info, warn, error (default "info")
  -nobrowser        Do not open the console on startup
  -nokeyboard       Disable keyboard shortcuts
  -demo             Run with built-in demo rosters
  -version          Show version and exit
  -help             Show this help message

Keyboard Shortcuts (when enabled):
  o                 Open auction console in browser
  h                 Toggle HTTP request logging
  l                 Cycle log level
  q                 Quit server
  ?                 Show keyboard help

Examples:
  eclauction -demo                   # Try it without sheets
  eclauction -players-url URL -teams-url URL
  eclauction -port 80 -db event.db -config season7.json

`)
	}

	flag.Parse()

	if *showVersion {
		fmt.Printf("eclauction %s\n", version)
		os.Exit(0)
	}

	showBanner()

	appLog := logger.NewWithLevel(logger.ParseLevel(*logLevel))

	cfg := config.Default()
	if *configFile != "" {
		loaded, err := config.LoadFile(*configFile)
		if err != nil {
			log.Fatal("Failed to load config:", err)
		}
		cfg = loaded
	}

	var client sheets.Client
	if *demo {
		appLog.Info("Running with demo rosters")
		client = sheets.NewMockClient()
	} else {
		if *playersURL == "" || *teamsURL == "" {
			fmt.Fprintln(os.Stderr, "Both -players-url and -teams-url are required (or use -demo)")
			os.Exit(2)
		}
		client = sheets.NewHTTPClient(*playersURL, *teamsURL, *scriptURL, appLog)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	a, err := app.New(ctx, appLog, cfg, *dbPath, client, web.GetTemplatesFS(), web.GetStaticFS())
	cancel()
	if err != nil {
		log.Fatal("Failed to initialize application:", err)
	}
	defer a.Close()

	addr := fmt.Sprintf(":%d", *port)
	consoleURL := fmt.Sprintf("http://localhost:%d/", *port)

	// Start server in goroutine
	serverErr := make(chan error, 1)
	go func() {
		serverErr <- a.Run(addr)
	}()

	// Wait a moment for server to start
	time.Sleep(100 * time.Millisecond)

	if !*noBrowser {
		if err := browser.Open(consoleURL); err != nil {
			appLog.Warn("Failed to open browser", "error", err)
		}
	}

	if !*noKeyboard {
		printKeyboardHelp()
		go listenForKeyboard(consoleURL, appLog)
	} else {
		fmt.Printf("%sKeyboard shortcuts disabled%s\n\n", yellow, reset)
	}

	if err := <-serverErr; err != nil {
		log.Fatal(err)
	}
}
