package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/ironsheep/docscan-mcp/internal/config"
	"github.com/ironsheep/docscan-mcp/internal/server"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	// Handle --version and -v flags
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "-v", "version":
			fmt.Printf("docscan-mcp %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		case "--help", "-h", "help":
			printUsage()
			return
		}
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "docscan-mcp: %v\n", err)
		os.Exit(2)
	}

	// stdout is reserved for the MCP protocol
	log := cfg.NewLogger(os.Stderr)
	srv := server.New(cfg, log)

	if len(os.Args) > 1 && os.Args[1] == "scan" {
		os.Exit(runScan(srv, log, os.Args[2:]))
	}

	log.WithFields(logrus.Fields{
		"version": Version,
		"built":   BuildTime,
		"commit":  GitCommit,
	}).Debug("Document scanner MCP server starting")

	if err := srv.Run(); err != nil {
		log.WithError(err).Fatal("Server error")
	}
}

// runScan handles "scan <input> <output> [--enhance]" and returns the exit code.
func runScan(srv *server.Server, log logrus.FieldLogger, args []string) int {
	var paths []string
	enhance := false
	for _, a := range args {
		if a == "--enhance" {
			enhance = true
			continue
		}
		paths = append(paths, a)
	}
	if len(paths) != 2 {
		fmt.Fprintln(os.Stderr, "Usage: docscan-mcp scan <input> <output> [--enhance]")
		return 2
	}

	res, err := srv.Scan(paths[0], server.ScanOptions{
		Enhance:    enhance,
		OutputPath: paths[1],
		OmitImage:  true,
	})
	if err != nil {
		log.WithError(err).WithField("input", paths[0]).Error("Scan failed")
		return 1
	}
	if !res.Found {
		fmt.Fprintf(os.Stderr, "no document found in %s: %s\n", paths[0], res.Reason)
		return 1
	}

	fmt.Printf("%s: %dx%d page written to %s\n", paths[0], res.Width, res.Height, res.OutputPath)
	return 0
}

func printUsage() {
	fmt.Println("docscan-mcp - MCP server for document scanning")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  docscan-mcp                               Run the MCP server on stdin/stdout")
	fmt.Println("  docscan-mcp scan <input> <output> [--enhance]")
	fmt.Println("                                            Detect, correct and save one page")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  --version, -v    Print version information")
	fmt.Println("  --help, -h       Print this help message")
	fmt.Println()
	fmt.Println("Environment variables:")
	fmt.Println("  DOCSCAN_LOG_LEVEL=info          panic, fatal, error, warn, info, debug or trace")
	fmt.Println("  DOCSCAN_LOG_FORMAT=text         text or json")
	fmt.Println("  DOCSCAN_MAX_DIMENSION=1600      Longest side used for detection, 0 for full size")
	fmt.Println("  DOCSCAN_THRESHOLD_LOW=50        Canny low threshold")
	fmt.Println("  DOCSCAN_THRESHOLD_HIGH=150      Canny high threshold")
	fmt.Println("  DOCSCAN_AUTO_THRESHOLD=false    Derive thresholds from the median intensity")
	fmt.Println("  DOCSCAN_ADAPTIVE_FALLBACK=true  Retry with adaptive thresholding when Canny finds nothing")
	fmt.Println("  DOCSCAN_MIN_AREA_RATIO=0.10     Smallest page as a share of the image")
	fmt.Println()
	fmt.Println("The server communicates via MCP protocol over stdin/stdout.")
	fmt.Println("Configure it in your MCP client.")
}
