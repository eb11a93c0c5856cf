// Package main is the entrypoint for the media-bridge.
package main

import (
	"fmt"
	"log"
	"os"

	jsoniter "github.com/json-iterator/go"

	"github.com/morezero/media-bridge/internal/config"
	"github.com/morezero/media-bridge/internal/server"
	"github.com/morezero/media-bridge/pkg/bootstrap"
	"github.com/morezero/media-bridge/pkg/catalog"
)

const usage = `Usage: media-bridge [command]
       media-bridge serve      Start the bridge (NATS subjects, HTTP health).
       media-bridge tools      Print the tool catalogue as JSON and exit.
       media-bridge check      Load config and model registry, report problems, and exit.

Commands:
  serve   (default) Start the media bridge.
  tools   Print the tool-discovery payload (name, description, input schema per tool).
  check   Validate FAL_API_KEY, timeouts, output directory, and the model registry file.

Environment: FAL_API_KEY (required for serve), FAL_BASE_URL, MEDIA_TIMEOUT_MS, MEDIA_OUTPUT_DIR, MEDIA_MODELS_FILE, COMMS_URL, HTTP_PORT, LOG_LEVEL. See README.
`

func main() {
	args := os.Args[1:]
	cmd := ""
	if len(args) > 0 && args[0] != "" {
		cmd = args[0]
	}

	switch cmd {
	case "tools":
		if err := runTools(); err != nil {
			log.Fatalf("media-bridge tools: %v", err)
		}
		return
	case "check":
		if err := runCheck(); err != nil {
			log.Fatalf("media-bridge check: %v", err)
		}
		return
	case "help", "-h", "--help":
		fmt.Print(usage)
		return
	case "serve", "":
		// serve (explicit or default)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command %q.\n%s", cmd, usage)
		os.Exit(1)
	}

	if err := server.Run(); err != nil {
		log.Fatalf("media-bridge: %v", err)
	}
}

// runTools prints the catalogue with model registry overrides applied, the
// same payload served on the tools subject.
func runTools() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	cat := catalog.New()
	bootstrapCfg, err := bootstrap.LoadBootstrapConfig(cfg.ModelsFile)
	if err != nil {
		return fmt.Errorf("load model registry: %w", err)
	}
	bootstrapCfg.Apply(cat)

	data, err := jsoniter.ConfigCompatibleWithStandardLibrary.MarshalIndent(cat.RenderTools(), "", "  ")
	if err != nil {
		return fmt.Errorf("encode tools: %w", err)
	}
	fmt.Println(string(data))
	return nil
}

func runCheck() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := cfg.ValidateForServe(); err != nil {
		return err
	}
	bootstrapCfg, err := bootstrap.LoadBootstrapConfig(cfg.ModelsFile)
	if err != nil {
		return fmt.Errorf("load model registry: %w", err)
	}
	cat := catalog.New()
	bootstrapCfg.Apply(cat)
	fmt.Printf("Config OK. %d tools available, base timeout %s, output dir %s.\n",
		len(cat.List()), cfg.Timeout(), cfg.OutputDir)
	return nil
}
