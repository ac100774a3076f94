package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/SeamusWaldron/cubescene/internal/app"
	"github.com/SeamusWaldron/cubescene/internal/config"
	"github.com/SeamusWaldron/cubescene/internal/journal"
	"github.com/SeamusWaldron/cubescene/internal/metrics"
	"github.com/SeamusWaldron/cubescene/internal/notation"
	"github.com/SeamusWaldron/cubescene/internal/orbit"
	"github.com/SeamusWaldron/cubescene/internal/puzzle"
	"github.com/SeamusWaldron/cubescene/internal/scene"
)

var (
	playRecord    bool
	playSmartCube bool
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play the puzzle interactively",
	Long: `Start an interactive TUI showing the puzzle as an unfolded net.

Keyboard shortcuts:
  arrows  - Move the pointer over the puzzle
  space   - Press or release the pointer (drag a layer to turn it)
  a/d     - Orbit the camera left or right
  w       - Flip the camera above or below the puzzle
  0       - Return the camera home
  s       - Start a new scramble
  x       - Show the answer and offer to auto solve
  r       - Reset to a solved puzzle
  :       - Type letter notation, enter to play it
  y/n     - Answer a dialog
  q/Esc   - Quit`,
	RunE: runPlay,
}

func init() {
	playCmd.Flags().BoolVar(&playRecord, "record", false, "Journal to the default database when journal.path is unset")
	playCmd.Flags().BoolVar(&playSmartCube, "smartcube", false, "Mirror a GoCube smart cube over Bluetooth")
	rootCmd.AddCommand(playCmd)
}

// Messages
type tickMsg time.Time
type smartMovesMsg struct{ moves []notation.Move }

// cursorStep is how far one arrow key moves the pointer in world units.
const cursorStep = 0.25

// frameInterval drives the scene at 60 frames per second.
const frameInterval = time.Second / 60

// Model
type playModel struct {
	session *app.Session
	order   int
	logger  logrus.FieldLogger

	// pointer in the camera's view plane through the origin
	cursorX float64
	cursorY float64
	pressed bool

	typing bool
	buffer string

	prompt *app.Prompt
	answer func(yes bool)

	lastMove string
	moves    int
	err      error

	smartName  string
	smartMoves chan []notation.Move
	quitting   bool
}

// Confirm shows p in the TUI until the user answers.
func (m *playModel) Confirm(p app.Prompt, done func(yes bool)) {
	m.prompt = &p
	m.answer = done
}

func (m *playModel) onMove(ev puzzle.MoveEvent) {
	m.lastMove = ev.Letter
	m.moves++
}

func (m *playModel) Init() tea.Cmd {
	cmds := []tea.Cmd{m.tickCmd()}
	if m.smartMoves != nil {
		cmds = append(cmds, m.listenForMoves())
	}
	return tea.Batch(cmds...)
}

func (m *playModel) tickCmd() tea.Cmd {
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m *playModel) listenForMoves() tea.Cmd {
	return func() tea.Msg {
		moves, ok := <-m.smartMoves
		if !ok {
			return nil
		}
		return smartMovesMsg{moves: moves}
	}
}

func (m *playModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		m.session.Tick()
		return m, m.tickCmd()

	case smartMovesMsg:
		if err := m.session.ApplySmartCube(msg.moves); err != nil {
			m.err = err
		}
		return m, m.listenForMoves()

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *playModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if key == "ctrl+c" {
		m.quitting = true
		return m, tea.Quit
	}

	if m.prompt != nil {
		switch key {
		case "y", "enter":
			m.resolve(true)
		case "n", "esc":
			m.resolve(false)
		}
		return m, nil
	}

	if m.typing {
		switch msg.Type {
		case tea.KeyEnter:
			m.typing = false
			m.err = m.session.RotateByLetters(m.buffer)
			m.buffer = ""
		case tea.KeyEsc:
			m.typing = false
			m.buffer = ""
		case tea.KeyBackspace:
			if m.buffer != "" {
				m.buffer = m.buffer[:len(m.buffer)-1]
			}
		case tea.KeyRunes, tea.KeySpace:
			m.buffer += string(msg.Runes)
		}
		return m, nil
	}

	m.err = nil
	switch key {
	case "q", "esc":
		m.quitting = true
		return m, tea.Quit
	case "up", "down", "left", "right":
		m.moveCursor(key)
	case " ":
		m.togglePointer()
	case "a":
		m.session.StepCamera(-1)
	case "d":
		m.session.StepCamera(1)
	case "w":
		m.session.ToggleElevation()
	case "0":
		m.session.ResetCamera()
	case "s":
		m.err = m.session.Start()
	case "x":
		m.err = m.session.AutoSolve()
	case "r":
		m.err = m.session.Reset()
	case ":":
		m.typing = true
	}
	return m, nil
}

func (m *playModel) resolve(yes bool) {
	done := m.answer
	m.prompt = nil
	m.answer = nil
	m.pressed = false
	if done != nil {
		done(yes)
	}
}

func (m *playModel) moveCursor(key string) {
	limit := float64(m.order)/2 + 1
	switch key {
	case "up":
		m.cursorY = mgl64.Clamp(m.cursorY+cursorStep, -limit, limit)
	case "down":
		m.cursorY = mgl64.Clamp(m.cursorY-cursorStep, -limit, limit)
	case "left":
		m.cursorX = mgl64.Clamp(m.cursorX-cursorStep, -limit, limit)
	case "right":
		m.cursorX = mgl64.Clamp(m.cursorX+cursorStep, -limit, limit)
	}
	if m.pressed {
		m.session.PointerMove(m.ray())
	}
}

func (m *playModel) togglePointer() {
	if !m.pressed {
		m.pressed = true
		m.session.PointerDown(m.ray())
		return
	}
	m.pressed = false
	m.session.PointerUp()
}

func (m *playModel) ray() scene.Ray {
	return cursorRay(m.session.Camera(), m.cursorX, m.cursorY)
}

// cursorRay casts from the camera through the point (x, y) of the view plane
// that contains the origin.
func cursorRay(cam *orbit.Camera, x, y float64) scene.Ray {
	forward := cam.Position().Mul(-1).Normalize()
	right := forward.Cross(mgl64.Vec3{0, 1, 0}).Normalize()
	up := right.Cross(forward)
	return cam.Ray(right.Mul(x).Add(up.Mul(y)))
}

func (m *playModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	cube := m.session.Cube()

	b.WriteString(titleStyle.Render(fmt.Sprintf("cubescene %dx%dx%d", m.order, m.order, m.order)))
	b.WriteString("\n\n")
	b.WriteString(renderNet(cube.Facelets(), m.order))
	b.WriteString("\n\n")

	b.WriteString(phaseStyle.Render("State: " + m.stateLabel()))
	b.WriteString("\n")

	az, el := m.session.Orbit().Stop()
	b.WriteString(statusStyle.Render(fmt.Sprintf("Camera: stop %d, %s", az+1, elevationLabel(el))))
	b.WriteString("\n")

	pointer := "released"
	if m.pressed {
		pointer = "pressed"
	}
	b.WriteString(statusStyle.Render(fmt.Sprintf("Pointer: (%+.2f, %+.2f) %s", m.cursorX, m.cursorY, pointer)))
	if cand, ok := m.session.Gesture().Armed(); ok {
		b.WriteString(moveStyle.Render("  armed " + notation.Letter(cand.Move(0), m.order)))
	}
	b.WriteString("\n")

	if m.lastMove != "" {
		b.WriteString(fmt.Sprintf("Last move: %s  ", moveStyle.Render(m.lastMove)))
	}
	b.WriteString(statusStyle.Render(fmt.Sprintf("Moves: %d", m.moves)))
	b.WriteString("\n")

	if m.smartName != "" {
		b.WriteString(statusStyle.Render("Smart cube: " + m.smartName))
		b.WriteString("\n")
	}

	if m.typing {
		b.WriteString("\n> " + m.buffer + "_\n")
	}
	if m.err != nil {
		b.WriteString("\n" + errorStyle.Render("Error: "+m.err.Error()) + "\n")
	}
	if m.prompt != nil {
		b.WriteString("\n" + renderPrompt(*m.prompt) + "\n")
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render("arrows/space: drag • a/d/w/0: camera • s: start • x: solve • r: reset • : letters • q: quit"))
	b.WriteString("\n")
	return b.String()
}

func (m *playModel) stateLabel() string {
	cube := m.session.Cube()
	switch {
	case cube.IsRotating():
		return fmt.Sprintf("rotating (%d queued)", cube.Pending())
	case cube.IsSolved():
		return "solved"
	default:
		return "idle"
	}
}

func elevationLabel(el int) string {
	if el == 0 {
		return "above"
	}
	return "below"
}

func renderPrompt(p app.Prompt) string {
	body := titleStyle.Render(p.Title) + "\n\n" + p.Body + "\n\n" +
		helpStyle.Render(fmt.Sprintf("[y] %s   [n] %s", p.Yes, p.No))
	return dialogStyle.Render(body)
}

// newPlayModel wires a session whose dialogs are answered in the TUI.
func newPlayModel(cfg *config.Config, logger logrus.FieldLogger, opts ...app.Option) (*playModel, error) {
	m := &playModel{order: cfg.Puzzle.Order, logger: logger}
	opts = append(opts, app.WithLogger(logger), app.WithMoveObserver(m.onMove))
	s, err := app.New(cfg, m, opts...)
	if err != nil {
		return nil, err
	}
	m.session = s
	return m, nil
}

func runPlay(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger, closer, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer closer.Close()
	if cfg.Log.File == "" {
		// stderr output would tear the alt screen
		logger.SetOutput(io.Discard)
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	var opts []app.Option

	db, err := openJournal(cfg, playRecord)
	if err != nil {
		return err
	}
	if db != nil {
		defer db.Close()
		opts = append(opts, app.WithRecorder(journal.NewRecorder(db, journal.WithLogger(logger))))
	}

	if cfg.Metrics.Addr != "" {
		mtr := metrics.New()
		opts = append(opts, app.WithMetrics(mtr))
		go func() {
			if err := mtr.Serve(ctx, cfg.Metrics.Addr, logger); err != nil {
				logger.WithError(err).Error("metrics server stopped")
			}
		}()
	}

	model, err := newPlayModel(cfg, logger, opts...)
	if err != nil {
		return err
	}
	defer model.session.Close()

	if playSmartCube {
		model.smartMoves = make(chan []notation.Move, 100)
		fmt.Println("Scanning for GoCube devices...")
		client, err := connectSmartCube(ctx, cfg, logger, func(moves []notation.Move) {
			select {
			case model.smartMoves <- moves:
			default:
				logger.Warn("smart cube moves dropped")
			}
		})
		if err != nil {
			return err
		}
		defer client.Disconnect()
		model.smartName = client.DeviceName()
	}

	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
