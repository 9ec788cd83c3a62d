package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"

	"github.com/ayusman/mudra/internal/app"
	"github.com/ayusman/mudra/internal/server"
	"github.com/ayusman/mudra/internal/store"
	"github.com/ayusman/mudra/internal/tray"
)

func main() {
	var (
		addr     = flag.String("addr", ":8080", "HTTP listen address")
		cameraID = flag.Int("camera", 0, "camera device ID")
		mirror   = flag.Bool("mirror", true, "mirror the camera horizontally")
		noTray   = flag.Bool("no-tray", false, "run without the system tray")
	)
	flag.Parse()

	fmt.Println("Mudra - Spatial Interaction Engine")

	// Initialize the data directory and store
	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Fatalf("Failed to get home directory: %v", err)
	}

	dataDir := filepath.Join(homeDir, ".mudra")
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		log.Fatalf("Failed to create data directory: %v", err)
	}

	dbPath := filepath.Join(dataDir, "mudra.db")
	st, err := store.New(dbPath)
	if err != nil {
		log.Fatalf("Failed to initialize store: %v", err)
	}
	defer st.Close()

	// Build and start the interaction pipeline
	a := app.New(app.Config{
		Store:    st,
		DataDir:  dataDir,
		CameraID: *cameraID,
		Mirror:   *mirror,
	})
	a.SetEnabled(true)

	if err := a.Start(); err != nil {
		log.Fatalf("Failed to start pipeline: %v", err)
	}
	defer a.Stop()

	// Find web directory
	webDir := findWebDir()
	if webDir != "" {
		fmt.Printf("Serving static files from: %s\n", webDir)
	}

	// Configure and start the server
	srv := server.New(server.Config{
		StaticDir: webDir,
		Store:     st,
		App:       a,
	})

	fmt.Printf("Starting server on %s\n", *addr)
	go func() {
		if err := srv.ListenAndServe(*addr); err != nil {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	if *noTray {
		select {}
	}

	// The tray owns the main thread until quit.
	t := tray.New()
	t.OnToggle(a.SetEnabled)
	t.OnOpen(func() { openBrowser(hudURL(*addr)) })
	t.OnQuit(a.Stop)
	t.Run()
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

// hudURL turns a listen address into a browsable URL.
func hudURL(addr string) string {
	if addr != "" && addr[0] == ':' {
		return "http://localhost" + addr
	}
	return "http://" + addr
}

// openBrowser opens the given URL in the default browser.
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
