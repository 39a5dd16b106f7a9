// Package main implements the nesgo NES emulator executable.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"nesgo/internal/config"
	"nesgo/internal/emulator"
	"nesgo/internal/host"
	"nesgo/internal/version"
)

func main() {
	var (
		romFile    = flag.String("rom", "", "Path to NES ROM file")
		configFile = flag.String("config", "config.json", "Path to configuration file")
		headless   = flag.Bool("headless", false, "Run without a window, dumping one PNG frame and exiting")
		out        = flag.String("out", "frame.png", "Output PNG path in -headless mode")
		frames     = flag.Int("frames", 60, "Number of frames to run before dumping, in -headless mode")
		showHelp   = flag.Bool("help", false, "Show help message")
		showVer    = flag.Bool("version", false, "Show version information")
	)
	flag.Parse()

	if *showHelp {
		flag.Usage()
		os.Exit(0)
	}
	if *showVer {
		fmt.Println(version.GetDetailedVersion())
		os.Exit(0)
	}
	if *romFile == "" {
		log.Fatal("a ROM file is required: -rom <path>")
	}

	cfg, err := config.Load(*configFile)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	romData, err := os.ReadFile(*romFile)
	if err != nil {
		log.Fatalf("failed to read ROM: %v", err)
	}

	emu := emulator.New()
	if err := emu.Load(romData); err != nil {
		log.Fatalf("failed to load ROM: %v", err)
	}

	if *headless {
		runHeadless(emu, *frames, *out, cfg.Window.Scale)
		return
	}

	if err := host.Run(emu, cfg, "nesgo"); err != nil {
		log.Fatalf("emulator exited with error: %v", err)
	}
}

func runHeadless(emu *emulator.Emulator, frameCount int, outPath string, scale int) {
	for i := 0; i < frameCount; i++ {
		emu.RunUntilFrame()
	}

	if err := dumpPNG(emu.View(), outPath, scale); err != nil {
		log.Fatalf("failed to write frame dump: %v", err)
	}
	fmt.Printf("wrote %s after %d frames\n", outPath, frameCount)
}
