package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"runtime"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/ayusman/mudra/internal/action"
	"github.com/ayusman/mudra/internal/app"
	"github.com/ayusman/mudra/internal/cloud"
	"github.com/ayusman/mudra/internal/config"
	"github.com/ayusman/mudra/internal/console"
	"github.com/ayusman/mudra/internal/server"
	"github.com/ayusman/mudra/internal/store"
	"github.com/ayusman/mudra/internal/tray"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the gesture daemon",
	Long: `Starts the camera pipeline, the trigger journal, and the status server.
The daemon runs until it receives an interrupt, the operator types "q"
on the terminal, or the camera fails.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := config.Load()
		applyFlags(cmd, cfg)

		dryRun, _ := cmd.Flags().GetBool("dry-run")
		withTray, _ := cmd.Flags().GetBool("tray")

		fmt.Println("Mudra - Finger Gesture Cloud Triggers")

		// Open the trigger journal
		dbPath, err := cfg.ResolveDBPath()
		if err != nil {
			log.Fatalf("Failed to resolve journal path: %v", err)
		}
		if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
			log.Fatalf("Failed to create data directory: %v", err)
		}
		st, err := store.New(dbPath)
		if err != nil {
			log.Fatalf("Failed to initialize journal: %v", err)
		}
		defer st.Close()

		// Build the cloud clients
		var compute cloud.Compute
		var storage cloud.Storage
		if dryRun {
			fmt.Println("Dry run: cloud calls are simulated against a seeded inventory")
			compute, storage = demoClients()
		} else {
			clients, err := cloud.NewAWSClients(context.Background())
			if err != nil {
				log.Fatalf("Failed to load AWS configuration: %v", err)
			}
			fmt.Printf("AWS region: %s\n", clients.Region())
			compute, storage = clients, clients
		}

		cons := console.New()
		registry := action.NewRegistry(action.RegistryConfig{
			Compute:  compute,
			Storage:  storage,
			Prompter: cons,
		})

		application := app.New(app.Config{
			Store:          st,
			Bindings:       registry,
			CameraID:       cfg.CameraID,
			MotionThresh:   cfg.MotionThreshold,
			DebounceFrames: cfg.DebounceFrames,
			Cooldown:       cfg.Cooldown(),
		})

		// Find web directory for the dashboard
		webDir := findWebDir()
		if webDir != "" {
			fmt.Printf("Serving static files from: %s\n", webDir)
		}

		srv := server.New(server.Config{
			StaticDir: webDir,
			Store:     st,
			Bindings:  registry.Bindings(),
			Status:    func() any { return application.Status() },
		})
		go func() {
			fmt.Printf("Status server on %s\n", cfg.HTTPAddr)
			if err := srv.ListenAndServe(cfg.HTTPAddr); err != nil {
				log.Printf("Status server failed: %v", err)
			}
		}()

		if err := application.Start(); err != nil {
			log.Fatalf("Failed to start pipeline: %v", err)
		}
		defer application.Stop()

		printBindings(os.Stdout, registry.Bindings())

		cons.Start()
		if cons.Interactive() {
			fmt.Println(`Type "q" then Enter to quit.`)
		}

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

		if withTray {
			runWithTray(application, cfg, cons, sigCh, srv)
			return
		}

		waitExit(sigCh, cons, application)
		shutdownServer(srv)
	},
}

// waitExit blocks until a signal arrives, the operator quits on the
// console, or the pipeline dies.
func waitExit(sigCh chan os.Signal, cons *console.Console, application *app.App) {
	select {
	case sig := <-sigCh:
		log.Printf("Received signal %v, shutting down", sig)
	case <-cons.Quit():
		fmt.Println("Shutting down")
	case err := <-application.Done():
		log.Printf("Pipeline stopped: %v", err)
	}
}

// shutdownServer drains the status server, bounded so a stuck client
// cannot hold up exit.
func shutdownServer(srv *server.Server) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Status server shutdown: %v", err)
	}
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().Int("camera", 0, "Camera device ID (overrides MUDRA_CAMERA_ID)")
	runCmd.Flags().Int("debounce", 8, "Consecutive frames before a count is stable (overrides MUDRA_DEBOUNCE_FRAMES)")
	runCmd.Flags().Int("cooldown", 4, "Seconds between accepted triggers (overrides MUDRA_COOLDOWN_SECONDS)")
	runCmd.Flags().Float64("motion", 1.0, "Percent of pixels that must change to wake the detector (overrides MUDRA_MOTION_THRESHOLD)")
	runCmd.Flags().String("addr", ":8080", "Status server listen address (overrides MUDRA_HTTP_ADDR)")
	runCmd.Flags().String("db", "", "Journal database path (overrides MUDRA_DB_PATH)")
	runCmd.Flags().Bool("tray", false, "Show the menu bar item")
	runCmd.Flags().Bool("dry-run", false, "Use an in-memory cloud inventory instead of AWS")

	// Make 'run' the default if no command is provided
	rootCmd.Run = runCmd.Run
}

// applyFlags overrides the loaded configuration with any flag the user
// set explicitly, so flags beat environment variables.
func applyFlags(cmd *cobra.Command, cfg *config.Config) {
	if cmd.Flags().Changed("camera") {
		cfg.CameraID, _ = cmd.Flags().GetInt("camera")
	}
	if cmd.Flags().Changed("debounce") {
		cfg.DebounceFrames, _ = cmd.Flags().GetInt("debounce")
	}
	if cmd.Flags().Changed("cooldown") {
		cfg.CooldownSeconds, _ = cmd.Flags().GetInt("cooldown")
	}
	if cmd.Flags().Changed("motion") {
		cfg.MotionThreshold, _ = cmd.Flags().GetFloat64("motion")
	}
	if cmd.Flags().Changed("addr") {
		cfg.HTTPAddr, _ = cmd.Flags().GetString("addr")
	}
	if cmd.Flags().Changed("db") {
		cfg.DBPath, _ = cmd.Flags().GetString("db")
	}
}

// runWithTray hands the main goroutine to the menu bar loop, which
// macOS requires, and moves shutdown waiting onto a helper goroutine.
func runWithTray(application *app.App, cfg *config.Config, cons *console.Console, sigCh chan os.Signal, srv *server.Server) {
	tr := tray.New(tray.Config{
		Armed:       application.IsArmed(),
		OnToggle:    application.SetArmed,
		OnDashboard: func() { openBrowser(dashboardURL(cfg.HTTPAddr)) },
	})
	application.OnTriggerAccepted = tr.SetLastTrigger

	go func() {
		waitExit(sigCh, cons, application)
		tr.Quit()
	}()

	tr.Run()
	shutdownServer(srv)
}

// demoClients returns in-memory clients over a small seeded inventory,
// so every binding can be exercised without touching a real account.
func demoClients() (cloud.Compute, cloud.Storage) {
	compute := cloud.NewMockCompute()
	compute.SetInstances([]cloud.Instance{
		{ID: "i-0demo1111", State: "stopped", Type: "t3.micro", Name: "demo-web"},
		{ID: "i-0demo2222", State: "running", Type: "t3.small", Name: "demo-worker"},
	})
	storage := cloud.NewMockStorage()
	storage.SetBuckets([]cloud.Bucket{
		{Name: "mudra-demo-artifacts", CreatedAt: time.Now()},
	})
	return compute, storage
}

// dashboardURL turns a listen address into a browsable URL.
func dashboardURL(addr string) string {
	if strings.HasPrefix(addr, ":") {
		return "http://localhost" + addr
	}
	return "http://" + addr
}

// openBrowser launches the default browser for the given URL.
func openBrowser(url string) {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	if err := cmd.Start(); err != nil {
		log.Printf("Failed to open browser: %v", err)
	}
}

// findWebDir searches for the web directory in common locations.
// It checks: "web", "../web", "../../web", and ~/.mudra/web.
// Returns the first existing directory or empty string if none found.
func findWebDir() string {
	// Check relative paths from current working directory
	relativePaths := []string{"web", "../web", "../../web"}
	for _, p := range relativePaths {
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			absPath, err := filepath.Abs(p)
			if err == nil {
				return absPath
			}
			return p
		}
	}

	// Check home directory
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	homeWebDir := filepath.Join(homeDir, ".mudra", "web")
	if info, err := os.Stat(homeWebDir); err == nil && info.IsDir() {
		return homeWebDir
	}

	return ""
}
