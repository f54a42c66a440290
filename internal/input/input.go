package input

import (
	"sync"

	"github.com/go-gl/glfw/v3.3/glfw"
)

// Action represents a logical viewer action, not a physical key
type Action int

// Action constants using iota
const (
	ActionMoveForward Action = iota
	ActionMoveBackward
	ActionTurnLeft
	ActionTurnRight
	ActionToggleBatching
	ActionFlushTextures
	ActionToggleCulling
	ActionShrinkViewport
	ActionGrowViewport
	ActionToggleProfiling
	ActionQuit
	ActionCount // Sentinel value for array sizing
)

// InputManager tracks keyboard state and maps physical keys to logical actions
type InputManager struct {
	mu sync.RWMutex

	// Key to action mapping (one key can map to multiple actions)
	keyToActions map[glfw.Key][]Action

	// Current frame state (indexed by Action)
	currentState [ActionCount]bool

	// Just pressed flags (reset each frame)
	justPressed [ActionCount]bool
}

// NewInputManager creates a new InputManager with default key bindings
func NewInputManager() *InputManager {
	im := &InputManager{
		keyToActions: make(map[glfw.Key][]Action),
	}

	im.BindKey(glfw.KeyW, ActionMoveForward)
	im.BindKey(glfw.KeyUp, ActionMoveForward)
	im.BindKey(glfw.KeyS, ActionMoveBackward)
	im.BindKey(glfw.KeyDown, ActionMoveBackward)
	im.BindKey(glfw.KeyA, ActionTurnLeft)
	im.BindKey(glfw.KeyLeft, ActionTurnLeft)
	im.BindKey(glfw.KeyD, ActionTurnRight)
	im.BindKey(glfw.KeyRight, ActionTurnRight)
	im.BindKey(glfw.KeyB, ActionToggleBatching)
	im.BindKey(glfw.KeyF, ActionFlushTextures)
	im.BindKey(glfw.KeyC, ActionToggleCulling)
	im.BindKey(glfw.KeyMinus, ActionShrinkViewport)
	im.BindKey(glfw.KeyEqual, ActionGrowViewport)
	im.BindKey(glfw.KeyV, ActionToggleProfiling)
	im.BindKey(glfw.KeyEscape, ActionQuit)

	return im
}

// BindKey binds a physical key to a logical action
// Multiple keys can be bound to the same action (e.g., WASD and arrow keys)
func (im *InputManager) BindKey(key glfw.Key, action Action) {
	im.mu.Lock()
	defer im.mu.Unlock()

	if action < 0 || action >= ActionCount {
		return
	}

	im.keyToActions[key] = append(im.keyToActions[key], action)
}

// HandleKeyEvent processes a key event and updates internal state
// This can be called from a custom key callback
func (im *InputManager) HandleKeyEvent(key glfw.Key, action glfw.Action) {
	im.mu.RLock()
	actions, exists := im.keyToActions[key]
	im.mu.RUnlock()

	if !exists {
		return
	}

	isPressed := action == glfw.Press || action == glfw.Repeat

	im.mu.Lock()
	for _, act := range actions {
		if act >= 0 && act < ActionCount {
			// Detect edges immediately when event arrives
			if isPressed && !im.currentState[act] {
				im.justPressed[act] = true
			}
			im.currentState[act] = isPressed
		}
	}
	im.mu.Unlock()
}

// SetKeyCallback sets up the GLFW key callback for this input manager
// This should be called once during initialization
func (im *InputManager) SetKeyCallback(window *glfw.Window) {
	window.SetKeyCallback(func(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
		im.HandleKeyEvent(key, action)
	})
}

// PostUpdate must be called at the end of each frame to update edge detection states
// This should be called after all input checks are done
func (im *InputManager) PostUpdate() {
	im.mu.Lock()
	defer im.mu.Unlock()

	// Reset edge flags
	for i := range ActionCount {
		im.justPressed[i] = false
	}
}

func (im *InputManager) read(state *[ActionCount]bool, action Action) bool {
	if action < 0 || action >= ActionCount {
		return false
	}

	im.mu.RLock()
	defer im.mu.RUnlock()

	return state[action]
}

// IsActive returns true if the action is currently being held down
func (im *InputManager) IsActive(action Action) bool {
	return im.read(&im.currentState, action)
}

// JustPressed returns true only if the action was pressed in the current frame
func (im *InputManager) JustPressed(action Action) bool {
	return im.read(&im.justPressed, action)
}

// Axis returns -1, 0 or 1 for a pair of opposing held actions.
func (im *InputManager) Axis(negative, positive Action) int {
	v := 0
	if im.IsActive(negative) {
		v--
	}
	if im.IsActive(positive) {
		v++
	}
	return v
}
