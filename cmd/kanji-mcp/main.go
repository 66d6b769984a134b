package main

import (
	"fmt"
	"log"
	"os"

	"github.com/ChanGohi195/kanji-master-3rd-grade/internal/config"
	"github.com/ChanGohi195/kanji-master-3rd-grade/internal/glyph"
	"github.com/ChanGohi195/kanji-master-3rd-grade/internal/logging"
	"github.com/ChanGohi195/kanji-master-3rd-grade/internal/recognition"
	"github.com/ChanGohi195/kanji-master-3rd-grade/internal/server"
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
			fmt.Printf("kanji-mcp %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		case "--help", "-h", "help":
			fmt.Println("kanji-mcp - MCP server for handwritten kanji recognition")
			fmt.Println()
			fmt.Println("Usage: kanji-mcp [options]")
			fmt.Println()
			fmt.Println("Options:")
			fmt.Println("  --version, -v    Print version information")
			fmt.Println("  --help, -h       Print this help message")
			fmt.Println()
			fmt.Println("Environment variables (also read from ./.env):")
			fmt.Println("  KANJI_FONT_PATH=/path/font.ttf   CJK TrueType font for reference glyphs (required to recognize)")
			fmt.Println("  KANJI_IMAGE_SIZE=64              Working canvas size in pixels")
			fmt.Println("  KANJI_THRESHOLD=0.35             Acceptance score")
			fmt.Println("  KANJI_STROKE_RATIO=0.8           Fraction of expected strokes required")
			fmt.Println("  KANJI_MAX_COVERAGE=0.6           Scribble rejection coverage")
			fmt.Println("  KANJI_MAX_COVERAGE_RATIO=2.5     Scribble rejection ratio to the reference")
			fmt.Println("  KANJI_OCR_LANGUAGE=jpn           Tesseract language for kanji_ocr")
			fmt.Println("  KANJI_LOG_LEVEL=info             debug, info, warn, or error")
			fmt.Println()
			fmt.Println("This server communicates via MCP protocol over stdin/stdout.")
			fmt.Println("Configure it in your MCP client (e.g., Claude Desktop).")
			return
		}
	}

	// Configure logging to stderr (stdout is for MCP protocol)
	log.SetOutput(os.Stderr)
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Config error: %v", err)
	}

	logger := logging.New(os.Stderr, "kanji-mcp", cfg.Level())
	logger.Debug("starting", "version", Version, "built", BuildTime, "commit", GitCommit)

	var renderer recognition.GlyphRenderer = glyph.Unavailable{}
	if cfg.FontPath != "" {
		r, err := glyph.Load(cfg.FontPath)
		if err != nil {
			log.Fatalf("Font error: %v", err)
		}
		renderer = r
		logger.Info("loaded font", "path", cfg.FontPath)
	} else {
		logger.Warn("no font configured, recognition tools will fail", "env", config.EnvFontPath)
	}

	recognizer := recognition.New(renderer,
		recognition.WithParams(cfg.RecognitionParams()),
		recognition.WithLogger(logger.With("component", "recognition")),
	)

	srv := server.New(recognizer, cfg, logger.With("component", "server"))
	if err := srv.Run(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
