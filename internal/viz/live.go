package viz

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/pendsim/internal/angle"
	"github.com/san-kum/pendsim/internal/dynamo"
	"github.com/san-kum/pendsim/internal/realtime"
)

const (
	width           = 60
	height          = 22
	historyCapacity = 300
	trailCapacity   = 150
)

var (
	canvasStyle = lipgloss.NewStyle().Padding(1, 2)
	statsStyle  = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(lipgloss.Color("240")).Padding(1, 2).Width(42)
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).MarginBottom(1)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(12)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	graphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(2)
)

type TickMsg time.Time

// LiveModel is the bubbletea model of the real-time view. It owns the frame
// loop: every tick advances the stepper by one frame and redraws.
type LiveModel struct {
	stepper  *realtime.Stepper
	kind     dynamo.Kind
	title    string
	fps      int
	reach    float64
	canvas   *Canvas
	camera   *Camera
	guide    *Wireframe
	frame    realtime.Frame
	trail    []dynamo.Point
	energy   []float64
	running  bool
	showHelp bool
}

// NewLiveModel prepares a view of s drawn at fps frames per second.
func NewLiveModel(title string, s *realtime.Stepper, fps int) LiveModel {
	if fps <= 0 {
		fps = 60
	}
	reach := Reach(s.Model)
	cam := NewCamera()
	cam.Zoom = 1.2 / reach
	cam.RotX = 0.35
	guide := CreateSphereGuide(reach, 48)
	guide.Edges = append(guide.Edges, CreateAxesWireframe(0.25*reach).Edges...)

	m := LiveModel{
		stepper: s,
		kind:    s.Model.Kind(),
		title:   title,
		fps:     fps,
		reach:   reach,
		canvas:  NewCanvas(width, height),
		camera:  cam,
		guide:   guide,
		trail:   make([]dynamo.Point, 0, trailCapacity),
		energy:  make([]float64, 0, historyCapacity),
		running: true,
	}
	m.frame = s.Current()
	m.record()
	return m
}

// Reach is the distance from the pivot to the outermost bob when the chain
// is straight.
func Reach(sys dynamo.System) float64 {
	c, ok := sys.(dynamo.Configurable)
	if !ok {
		return 1
	}
	r := 0.0
	for _, k := range []string{"L", "L1", "L2", "L3"} {
		r += c.Params()[k]
	}
	if r <= 0 {
		return 1
	}
	return r
}

func (m LiveModel) tick() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(m.fps), func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m LiveModel) Init() tea.Cmd {
	return m.tick()
}

// Update handles input events and steps the simulation.
func (m LiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "r":
			m.stepper.Reset()
			m.trail = m.trail[:0]
			m.energy = m.energy[:0]
			m.frame = m.stepper.Current()
			m.record()
		case "?":
			m.showHelp = !m.showHelp
		case "t":
			NextTheme()
		case "x":
			m.camera.RotateX(0.1)
		case "X":
			m.camera.RotateX(-0.1)
		case "y":
			m.camera.RotateY(0.1)
		case "Y":
			m.camera.RotateY(-0.1)
		case "+", "=":
			m.camera.ZoomIn()
		case "-", "_":
			m.camera.ZoomOut()
		}
	case TickMsg:
		if m.running && m.frame.State.IsValid() {
			m.frame = m.stepper.Next()
			m.record()
		}
		return m, m.tick()
	}
	return m, nil
}

func (m *LiveModel) record() {
	if len(m.frame.Bodies) > 0 {
		m.trail = append(m.trail, m.frame.Bodies[len(m.frame.Bodies)-1])
		if len(m.trail) > trailCapacity {
			m.trail = m.trail[1:]
		}
	}
	m.energy = append(m.energy, m.frame.Energy)
	if len(m.energy) > historyCapacity {
		m.energy = m.energy[1:]
	}
}

// Frame returns the frame currently on screen.
func (m LiveModel) Frame() realtime.Frame { return m.frame }

func (m LiveModel) Running() bool { return m.running }

// View renders the TUI interface.
func (m LiveModel) View() string {
	m.draw()
	canvasView := canvasStyle.Foreground(CurrentTheme.Primary).Render(m.canvas.String())

	var s strings.Builder
	s.WriteString(headerStyle.Foreground(CurrentTheme.Secondary).Render(strings.ToUpper(m.title)) + "\n")

	status := StatusRunning.Render("RUNNING")
	switch {
	case !m.frame.State.IsValid():
		status = StatusFault.Render("INVALID STATE")
	case !m.running:
		status = StatusPaused.Render("PAUSED")
	}
	s.WriteString(status + "\n\n")

	if len(m.energy) > 1 {
		chart := asciigraph.Plot(m.energy, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("Energy"))
		s.WriteString(graphStyle.Render(chart) + "\n\n")
	}

	s.WriteString(labelStyle.Render("Time") + valueStyle.Render(fmt.Sprintf("%.2fs", m.frame.Time)) + "\n")
	s.WriteString(labelStyle.Render("Energy") + valueStyle.Render(fmt.Sprintf("%.4f J", m.frame.Energy)) + "\n")
	if len(m.energy) > 0 && m.energy[0] != 0 {
		drift := math.Abs(m.frame.Energy-m.energy[0]) / math.Abs(m.energy[0])
		s.WriteString(labelStyle.Render("Drift") + valueStyle.Render(fmt.Sprintf("%.2e", drift)) + "\n")
	}
	s.WriteString(labelStyle.Render("dt") + valueStyle.Render(fmt.Sprintf("%g x %d", m.stepper.Dt, m.stepper.Substeps)) + "\n")

	s.WriteString("\nANGLES\n")
	for i, name := range angleNames(m.kind) {
		if 2*i >= len(m.frame.State) {
			break
		}
		deg := angle.Degrees(angle.Normalize(m.frame.State[2*i]))
		s.WriteString("  " + labelStyle.Render(name) + valueStyle.Render(fmt.Sprintf("%7.1f°", deg)) + "\n")
	}

	help := "SP:Pause R:Reset Q:Quit\nT:Theme  ?:Help"
	if m.kind == dynamo.Spherical {
		help += "\nX/Y:Rotate +/-:Zoom"
	}
	s.WriteString(helpStyle.Render("\n" + Separator(22) + "\n" + help))

	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsStyle.Render(s.String()))
	if m.showHelp {
		return `
╔══════════════════════════════════════╗
║           KEYBOARD SHORTCUTS         ║
╠══════════════════════════════════════╣
║  Space    - Pause/Resume simulation  ║
║  R        - Reset simulation         ║
║  Q        - Quit                     ║
║  T        - Cycle themes             ║
║  X/Y      - Rotate camera (3D)       ║
║  +/-      - Zoom (3D)                ║
║  ?        - Toggle this help         ║
╚══════════════════════════════════════╝
` + "\n\n" + mainView
	}
	return mainView
}

func angleNames(k dynamo.Kind) []string {
	switch k {
	case dynamo.Double:
		return []string{"θ1", "θ2"}
	case dynamo.Triple:
		return []string{"θ1", "θ2", "θ3"}
	case dynamo.Spherical:
		return []string{"θ", "φ"}
	default:
		return []string{"θ"}
	}
}

// draw renders the current frame onto the canvas.
func (m *LiveModel) draw() {
	m.canvas.Clear()
	if !m.frame.State.IsValid() || len(m.frame.Bodies) == 0 {
		return
	}
	if m.kind == dynamo.Spherical {
		m.drawSpherical()
		return
	}
	m.drawChain()
}

func (m *LiveModel) drawChain() {
	vp := FitViewport(m.canvas, m.reach)

	for _, p := range m.trail {
		x, y := vp.Map(p.X, p.Y)
		m.canvas.Set(x, y)
	}

	px, py := vp.OX, vp.OY
	m.canvas.Dot(px, py, 1)
	for _, b := range m.frame.Bodies {
		bx, by := vp.Map(b.X, b.Y)
		m.canvas.DrawLine(px, py, bx, by)
		m.canvas.Dot(bx, by, 1)
		px, py = bx, by
	}
}

func (m *LiveModel) drawSpherical() {
	cw, ch := m.canvas.Pixels()
	Render3D(m.canvas, m.guide, m.camera)

	for _, p := range m.trail {
		if x, y, _, ok := m.camera.Project(FromPoint(p), cw, ch); ok {
			m.canvas.Set(x, y)
		}
	}

	ox, oy, _, _ := m.camera.Project(Vec3{}, cw, ch)
	bx, by, _, ok := m.camera.Project(FromPoint(m.frame.Bodies[0]), cw, ch)
	if !ok {
		return
	}
	m.canvas.DrawLine(ox, oy, bx, by)
	m.canvas.Dot(bx, by, 1)
}

// RunLive shows m until the user quits or ctx is cancelled.
func RunLive(ctx context.Context, m LiveModel) error {
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	if err != nil && errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
