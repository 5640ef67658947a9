package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/ironsheep/mask-shape-mcp/internal/config"
	"github.com/ironsheep/mask-shape-mcp/internal/server"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func usage() {
	fmt.Println("mask-shape-mcp - MCP server for segmentation mask shape checks")
	fmt.Println()
	fmt.Println("Usage: mask-shape-mcp [options]")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  --version, -v       Print version information")
	fmt.Println("  --help, -h          Print this help message")
	fmt.Println("  --env-file <path>   Read settings from a .env file (default .env)")
	fmt.Println()
	fmt.Println("Environment variables:")
	fmt.Println("  MASK_MCP_LOG_LEVEL=debug        Enable debug logging")
	fmt.Println("  MASK_MCP_THRESHOLD=127          Default mask binarization level")
	fmt.Println("  MASK_MCP_OVERLAY_COLOR=#FF3B30  Tint for suppressed pixels in overlays")
	fmt.Println("  MASK_MCP_MAX_PASSES=8           Default limit for mask_suppress_repeatedly")
	fmt.Println()
	fmt.Println("This server communicates via MCP protocol over stdin/stdout.")
	fmt.Println("Configure it in your MCP client.")
}

func main() {
	var (
		showVersion bool
		envFile     string
	)
	flag.BoolVar(&showVersion, "version", false, "print version information")
	flag.BoolVar(&showVersion, "v", false, "print version information")
	flag.StringVar(&envFile, "env-file", ".env", "read settings from this .env file")
	flag.Usage = usage
	flag.Parse()

	if showVersion {
		fmt.Printf("mask-shape-mcp %s\n", Version)
		fmt.Printf("  Build time: %s\n", BuildTime)
		fmt.Printf("  Git commit: %s\n", GitCommit)
		return
	}

	// Configure logging to stderr (stdout is for MCP protocol)
	log.SetOutput(os.Stderr)
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	cfg, err := config.Load(envFile)
	if err != nil {
		log.Fatalf("Config error: %v", err)
	}

	if cfg.Debug() {
		log.Printf("Mask Shape MCP Server v%s (built %s, commit %s)", Version, BuildTime, GitCommit)
		log.Printf("threshold=%d overlay=%s max_passes=%d", cfg.Threshold, cfg.OverlayColor, cfg.MaxPasses)
	}

	srv := server.New(cfg)
	if err := srv.Run(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
