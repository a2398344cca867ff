// Command mudra-live runs a realtime mudra practice session: it
// streams microphone audio and periodic frames to Gemini Live, plays
// the model's spoken replies, and prints transcript turns and gesture
// validations as they land.
//
// Usage:
//
//	mudra-live [-config session.yaml] [-target gyan] [-frames-dir ./hands] [-metrics-addr :9090]
//
// Environment:
//
//	GEMINI_API_KEY - required
//
// Controls:
//
//	/t <text>  - send a typed message
//	q          - quit
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/veyralabs/mudra-live/pkg/audio"
	"github.com/veyralabs/mudra-live/pkg/gesture"
	"github.com/veyralabs/mudra-live/pkg/live"
	"github.com/veyralabs/mudra-live/pkg/metrics"
)

func main() {
	configPath := flag.String("config", "", "session config file (yaml or json)")
	target := flag.String("target", "", "mudra challenge target label")
	framesDir := flag.String("frames-dir", "", "directory of still frames standing in for the camera")
	metricsAddr := flag.String("metrics-addr", "", "listen address for /metrics (disabled when empty)")
	debug := flag.Bool("debug", false, "verbose logging")
	flag.Parse()

	_ = godotenv.Load()

	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		log.Fatal("GEMINI_API_KEY required")
	}

	level := slog.LevelInfo
	if *debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	cfg, err := live.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	if *metricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
		go func() {
			if err := http.ListenAndServe(*metricsAddr, mux); err != nil {
				logger.Error("metrics listener failed", "error", err)
			}
		}()
		logger.Info("serving metrics", "addr", *metricsAddr)
	}

	sink, err := newSpeakerSink(audio.DefaultPlaybackConfig())
	if err != nil {
		log.Fatalf("open speaker: %v", err)
	}
	defer sink.Close()

	provider := &localProvider{captureRate: cfg.CaptureRate, framesDir: *framesDir}
	session := live.NewSession(cfg, apiKey, provider,
		live.WithLogger(logger),
		live.WithMetrics(m),
		live.WithSink(sink),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Println("\nShutting down...")
		cancel()
	}()

	go printEvents(session)

	if err := session.Start(ctx, *target); err != nil {
		log.Fatalf("start session: %v", err)
	}
	defer session.Stop()

	fmt.Println("Session active. Speak naturally; show your hands to the camera.")
	fmt.Println("Commands: /t <text> to type a message, q to quit.")

	go readCommands(session, cancel)
	<-ctx.Done()
}

func readCommands(session *live.Session, cancel context.CancelFunc) {
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		switch {
		case line == "q":
			cancel()
			return
		case strings.HasPrefix(line, "/t "):
			text := strings.TrimSpace(strings.TrimPrefix(line, "/t "))
			if text == "" {
				continue
			}
			if err := session.SendPrompt(text); err != nil {
				fmt.Printf("send failed: %v\n", err)
			}
		}
	}
}

func printEvents(session *live.Session) {
	for e := range session.Events() {
		switch ev := e.(type) {
		case live.SessionStartedEvent:
			if ev.Target != "" {
				fmt.Printf("[session %s] challenge: %s\n", ev.SessionID, ev.Target)
			}
		case live.TurnCommittedEvent:
			fmt.Printf("%s: %s\n", ev.Turn.Speaker, ev.Turn.Text)
		case live.GestureChangedEvent:
			printGesture(ev.Validation)
		case live.ErrorEvent:
			fmt.Printf("error (%s): %s\n", ev.Code, ev.Message)
		case live.CredentialInvalidEvent:
			fmt.Println("API key rejected; set a valid GEMINI_API_KEY and restart.")
		case live.SessionClosedEvent:
			fmt.Printf("session closed (%s)\n", ev.Reason)
		}
	}
}

func printGesture(v *gesture.Validation) {
	switch {
	case v == nil:
		fmt.Println("◦ gesture display cleared")
	case v.Intuitive:
		fmt.Println("✦ intuitive form recognized")
	default:
		fmt.Printf("✦ %s (%s, power %d)\n", v.Name, v.Tier, v.Power)
	}
}
