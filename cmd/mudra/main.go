package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ayusman/mudra/internal/action"
	"github.com/ayusman/mudra/internal/app"
	"github.com/ayusman/mudra/internal/capture"
	"github.com/ayusman/mudra/internal/config"
	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/effect"
	"github.com/ayusman/mudra/internal/gesture"
	"github.com/ayusman/mudra/internal/plugin"
	"github.com/ayusman/mudra/internal/server"
	"github.com/ayusman/mudra/internal/store"
	"github.com/ayusman/mudra/internal/system"
	"github.com/ayusman/mudra/internal/tray"
)

func main() {
	configDir := flag.String("config", config.DefaultDir, "configuration directory")
	addr := flag.String("addr", "", "HTTP server address (overrides settings)")
	pluginDir := flag.String("plugins", "", "plugin directory (overrides settings)")
	headless := flag.Bool("headless", false, "run without the system tray")
	flag.Parse()

	fmt.Println("Mudra - Hand Gesture Control")

	cfg := config.NewManager(*configDir)
	if err := cfg.LoadAll(); err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	settings := cfg.Settings

	det, err := detector.NewMediaPipeDetector(cfg.DetectorConfig())
	if err != nil {
		log.Fatalf("Failed to initialize hand detector: %v", err)
	}

	gestures := gesture.NewService(det, cfg.ServiceConfig())

	// Plugins back the keyboard/mouse/system action types.
	dir := settings.Plugins.Dir
	if *pluginDir != "" {
		dir = *pluginDir
	}
	plugins := plugin.NewManager(dir)
	if err := plugins.Discover(); err != nil {
		log.Printf("Plugin discovery failed: %v", err)
	}
	host := plugin.NewHost(plugins, plugin.NewExecutor(time.Duration(settings.Plugins.TimeoutMS)*time.Millisecond))
	adapter := system.NewAdapter(host, settings.Screen.Width, settings.Screen.Height)

	renderer := effect.NewRenderer(settings.Effects.ParticleCount)
	for name, ec := range cfg.Effects.Effects {
		renderer.LoadConfig(name, ec)
	}

	st, err := store.New(settings.Database.Path)
	if err != nil {
		log.Fatalf("Failed to initialize store: %v", err)
	}
	defer st.Close()

	// First run: carry the file-based default mappings into the database.
	if err := st.Mappings().Seed(cfg.Gestures.GestureMappings); err != nil {
		log.Printf("Failed to seed mappings: %v", err)
	}

	actions := action.NewService(adapter, renderer, mergedRecords(cfg, st))

	camera := capture.NewCamera(settings.Camera)
	orch := app.NewOrchestrator(camera, gestures, actions, app.Options{
		ShowSkeleton: settings.Display.ShowSkeleton,
	})

	if settings.Server.Enabled {
		listenAddr := settings.Server.Addr
		if *addr != "" {
			listenAddr = *addr
		}
		srv := server.New(server.Config{
			Store:    st,
			Pipeline: orch,
			OnMappingsChanged: func() {
				actions.ReloadMappings(mergedRecords(cfg, st))
			},
		})
		go func() {
			fmt.Printf("Starting server on %s\n", listenAddr)
			if err := srv.ListenAndServe(listenAddr); err != nil {
				log.Printf("Server failed: %v", err)
			}
		}()
	}

	if !orch.Start() {
		log.Fatalf("Failed to start gesture pipeline")
	}
	defer orch.Stop()

	if *headless {
		runHeadless()
		return
	}
	runTray(orch)
}

// mergedRecords layers database mappings over the gestures.json records.
// Later records win per gesture name, so a stored row overrides the file.
func mergedRecords(cfg *config.Manager, st *store.Store) []action.Record {
	records := append([]action.Record(nil), cfg.Gestures.GestureMappings...)
	stored, err := st.Mappings().Records()
	if err != nil {
		log.Printf("Failed to load mappings from store, using file defaults: %v", err)
		return records
	}
	return append(records, stored...)
}

// runHeadless blocks until an interrupt or termination signal arrives.
func runHeadless() {
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	<-sig
	fmt.Println("Shutting down")
}

// runTray drives the pipeline from the system tray menu. Blocks until
// quit is selected.
func runTray(orch *app.Orchestrator) {
	t := tray.New()
	t.OnPause(func(paused bool) {
		if paused {
			orch.Pause()
		} else {
			orch.Resume()
		}
	})
	t.OnQuit(func() {
		orch.Stop()
	})
	orch.OnGesture(func(event *gesture.Event, _ *action.Result) {
		t.SetLastGesture(event.Name)
	})

	// Ctrl-C also tears the tray down.
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sig
		t.Quit()
	}()

	t.Run()
}
