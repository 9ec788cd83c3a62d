// Package tray provides a macOS system tray interface for the Mudra
// spatial interaction engine.
package tray

import (
	"sync"

	"github.com/getlantern/systray"
)

// Tray represents the macOS system tray application.
type Tray struct {
	onToggle func(enabled bool)
	onOpen   func()
	onQuit   func()
	enabled  bool
	mu       sync.RWMutex

	// Menu items stored for later updates
	menuToggle   *systray.MenuItem
	menuSelected *systray.MenuItem
}

// New creates a new Tray instance with enabled state set to true by default.
func New() *Tray {
	return &Tray{
		enabled: true,
	}
}

// OnToggle sets the callback function to be called when the enabled state is toggled.
func (t *Tray) OnToggle(fn func(enabled bool)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onToggle = fn
}

// OnOpen sets the callback function to be called when the open-HUD menu item is clicked.
func (t *Tray) OnOpen(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onOpen = fn
}

// OnQuit sets the callback function to be called when the quit menu item is clicked.
func (t *Tray) OnQuit(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onQuit = fn
}

// Run starts the system tray application.
// This function blocks until systray.Quit() is called.
func (t *Tray) Run() {
	systray.Run(t.onReady, t.onExit)
}

// onReady is called when the system tray is ready.
// It sets up the menu structure.
func (t *Tray) onReady() {
	// Set the tray title and tooltip
	systray.SetTitle("Mudra")
	systray.SetTooltip("Mudra Spatial Interaction")

	// Create menu items
	t.menuToggle = systray.AddMenuItem("● Enabled", "Toggle gesture interaction")
	systray.AddSeparator()

	t.menuSelected = systray.AddMenuItem("Selected: none", "Currently selected detection")
	t.menuSelected.Disable()
	systray.AddSeparator()

	menuOpen := systray.AddMenuItem("Open HUD...", "Open the HUD in a browser")
	systray.AddSeparator()

	menuQuit := systray.AddMenuItem("Quit", "Quit Mudra")

	// Handle menu item clicks in a separate goroutine
	go func() {
		for {
			select {
			case <-t.menuToggle.ClickedCh:
				t.handleToggle()
			case <-menuOpen.ClickedCh:
				t.handleOpen()
			case <-menuQuit.ClickedCh:
				t.handleQuit()
				return
			}
		}
	}()
}

// onExit is called when the system tray is about to exit.
// It performs cleanup tasks.
func (t *Tray) onExit() {
	// Cleanup resources if needed
}

// handleToggle handles the toggle menu item click.
func (t *Tray) handleToggle() {
	t.mu.Lock()
	t.enabled = !t.enabled
	enabled := t.enabled

	// Update menu item text based on new state
	if enabled {
		t.menuToggle.SetTitle("● Enabled")
	} else {
		t.menuToggle.SetTitle("○ Disabled")
	}

	callback := t.onToggle
	t.mu.Unlock()

	// Call the callback outside the lock to prevent deadlocks
	if callback != nil {
		callback(enabled)
	}
}

// handleOpen handles the open-HUD menu item click.
func (t *Tray) handleOpen() {
	t.mu.RLock()
	callback := t.onOpen
	t.mu.RUnlock()

	if callback != nil {
		callback()
	}
}

// handleQuit handles the quit menu item click.
func (t *Tray) handleQuit() {
	t.mu.RLock()
	callback := t.onQuit
	t.mu.RUnlock()

	if callback != nil {
		callback()
	}

	systray.Quit()
}

// SetSelected updates the selected-detection display in the menu.
func (t *Tray) SetSelected(label string) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if t.menuSelected != nil {
		if label == "" {
			t.menuSelected.SetTitle("Selected: none")
		} else {
			t.menuSelected.SetTitle("Selected: " + label)
		}
	}
}

// IsEnabled returns the current enabled state.
func (t *Tray) IsEnabled() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.enabled
}
