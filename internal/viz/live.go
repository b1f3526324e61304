package viz

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/mkarlsen/radflow/internal/config"
	"github.com/mkarlsen/radflow/internal/metrics"
	"github.com/mkarlsen/radflow/internal/solver"
)

const (
	canvasWidth     = 80
	canvasHeight    = 24
	historyCapacity = 600
	stepsPerTick    = 2
)

var (
	canvasStyle = lipgloss.NewStyle().Padding(1, 2)
	statsStyle  = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(lipgloss.Color("240")).Padding(1, 2).Width(45)
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).MarginBottom(1)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(14)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	graphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(2)
)

type TickMsg time.Time

var fieldNames = []string{"smoke", "pressure", "speed"}

// Model runs the simulation inside a bubbletea program: each tick
// advances the solver a couple of steps and redraws the tunnel.
type Model struct {
	cfg      *config.Config
	scenario string
	sol      *solver.Solver
	step     int
	running  bool
	field    int // index into fieldNames
	canvas   *Canvas
	divHist  []float64
	err      error
}

// NewModel builds the live view for a scenario. The solver is
// constructed up front so a bad scenario fails before the TUI starts.
func NewModel(scenario string, cfg *config.Config) (Model, error) {
	sol, err := cfg.BuildSolver()
	if err != nil {
		return Model{}, err
	}
	return Model{
		cfg:      cfg,
		scenario: scenario,
		sol:      sol,
		running:  true,
		canvas:   NewCanvas(canvasWidth, canvasHeight),
		divHist:  make([]float64, 0, historyCapacity),
	}, nil
}

func (m Model) Init() tea.Cmd {
	return tea.Tick(time.Second/30, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "r":
			m.reset()
		case "f", "tab":
			m.field = (m.field + 1) % len(fieldNames)
		case "[":
			m.rotateRadiator(-5)
		case "]":
			m.rotateRadiator(5)
		}
	case TickMsg:
		if m.running && m.err == nil {
			dt := m.cfg.Step.Dt
			for k := 0; k < stepsPerTick; k++ {
				diag := m.sol.Step(dt)
				m.divHist = append(m.divHist, diag.MaxDivergence)
				m.step++
			}
			if len(m.divHist) > historyCapacity {
				m.divHist = m.divHist[len(m.divHist)-historyCapacity:]
			}
		}
		return m, tea.Tick(time.Second/30, func(t time.Time) tea.Msg { return TickMsg(t) })
	}
	return m, nil
}

func (m *Model) reset() {
	sol, err := m.cfg.BuildSolver()
	if err != nil {
		m.err = err
		return
	}
	m.sol = sol
	m.step = 0
	m.divHist = m.divHist[:0]
	m.err = nil
}

// rotateRadiator nudges the matrix angle and rebuilds the solver, so
// the effect of orientation can be explored interactively.
func (m *Model) rotateRadiator(deltaDeg float64) {
	cfg := m.cfg
	if cfg.Radiator == nil {
		return
	}
	cfg.Radiator.AngleDeg += deltaDeg
	m.reset()
}

func (m Model) View() string {
	if m.err != nil {
		return fmt.Sprintf("error: %v\n(q to quit)\n", m.err)
	}

	m.draw()
	canvasView := canvasStyle.Render(m.canvas.String())

	cfg := m.cfg
	var s strings.Builder
	s.WriteString(headerStyle.Render(strings.ToUpper(m.scenario)) + "\n")
	if m.running {
		s.WriteString("RUNNING\n\n")
	} else {
		s.WriteString("PAUSED\n\n")
	}

	if len(m.divHist) > 1 {
		chart := asciigraph.Plot(m.divHist, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("Max divergence"))
		s.WriteString(graphStyle.Render(chart) + "\n\n")
	}

	s.WriteString(labelStyle.Render("Step") + valueStyle.Render(fmt.Sprintf("%d", m.step)) + "\n")
	s.WriteString(labelStyle.Render("Time") + valueStyle.Render(fmt.Sprintf("%.2fs", float64(m.step)*cfg.Step.Dt)) + "\n")
	s.WriteString(labelStyle.Render("Field") + valueStyle.Render(fieldNames[m.field]) + "\n")
	s.WriteString(labelStyle.Render("Inflow") + valueStyle.Render(fmt.Sprintf("%.1f m/s", cfg.Flow.InflowSpeed)) + "\n")

	if cfg.Radiator != nil {
		rec := metrics.Compute(m.sol, cfg.BuildRadiator(), metrics.Axial(cfg.Flow.InflowSpeed))
		s.WriteString("\nRADIATOR\n")
		s.WriteString(labelStyle.Render("Angle") + valueStyle.Render(fmt.Sprintf("%.1f deg", cfg.Radiator.AngleDeg)) + "\n")
		s.WriteString(labelStyle.Render("Mass flow") + valueStyle.Render(fmt.Sprintf("%.3f kg/s", rec.MassFlowRate)) + "\n")
		s.WriteString(labelStyle.Render("Pressure drop") + valueStyle.Render(fmt.Sprintf("%.1f Pa", rec.PressureDrop)) + "\n")
		s.WriteString(labelStyle.Render("Efficiency") + valueStyle.Render(fmt.Sprintf("%.3f", rec.CoolingEfficiency)) + "\n")
	}

	s.WriteString(helpStyle.Render("\n─────────────────────\nSP:Pause R:Reset Q:Quit\nF:Field  [ ]:Rotate radiator"))
	statsView := statsStyle.Render(s.String())

	return lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsView)
}

// draw renders the selected field and the solid obstacles.
func (m *Model) draw() {
	m.canvas.Clear()
	snap := m.sol.Snapshot()

	values := make([]float64, snap.NX*snap.NY)
	lo, hi := math.Inf(1), math.Inf(-1)
	for k := range values {
		var v float64
		switch fieldNames[m.field] {
		case "pressure":
			v = snap.Pressure[k]
		case "speed":
			v = math.Hypot(snap.U[k], snap.V[k])
		default:
			v = snap.Smoke[k]
		}
		values[k] = v
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}

	m.canvas.DrawField(values, snap.NX, snap.NY, lo, hi)
	m.canvas.DrawSolids(snap, m.sol.SolidAt)
}

// Run starts the live view and blocks until the user quits.
func Run(scenario string, cfg *config.Config) error {
	m, err := NewModel(scenario, cfg)
	if err != nil {
		return err
	}
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err = p.Run()
	return err
}
