package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/unicornviz/unicornviz/pkg/config"
	"github.com/unicornviz/unicornviz/pkg/layout"
	"github.com/unicornviz/unicornviz/pkg/pipeline"
	"github.com/unicornviz/unicornviz/pkg/source"
)

// countStep is how much +/- changes the dataset size in the dashboard.
const countStep = 100

// newDashCmd creates the dash command for the interactive terminal
// dashboard.
func newDashCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "dash",
		Short: "Open the interactive terminal dashboard",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			return runDash(cmd.Context(), cfg)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to TOML config file")

	return cmd
}

// runDash builds the runner and starts the bubbletea program.
func runDash(ctx context.Context, cfg config.Config) error {
	logger := loggerFromContext(ctx)

	c, err := newCacheBackend(ctx, cfg.Cache, logger)
	if err != nil {
		return err
	}
	runner := pipeline.NewRunner(c, nil, logger)
	defer runner.Close()

	m := newDashModel(ctx, runner, cfg)
	_, err = tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}

// =============================================================================
// DashModel - Interactive pipeline dashboard
// =============================================================================

// renderDoneMsg carries a finished pipeline run back into the model.
type renderDoneMsg struct {
	result *pipeline.Result
	err    error
}

// tickMsg drives the auto-refresh clock.
type tickMsg time.Time

// savedMsg reports the outcome of writing the HTML artifact.
type savedMsg struct {
	path string
	err  error
}

// dashModel is the bubbletea model for the terminal dashboard.
type dashModel struct {
	ctx    context.Context
	runner *pipeline.Runner
	cfg    config.Config

	engines   []layout.Engine
	sources   []string
	engineIdx int
	sourceIdx int
	count     int

	refresh   pipeline.RefreshState
	result    *pipeline.Result
	rendering bool
	err       error
	saved     string
}

// newDashModel builds the initial dashboard state from the config
// defaults.
func newDashModel(ctx context.Context, runner *pipeline.Runner, cfg config.Config) dashModel {
	m := dashModel{
		ctx:     ctx,
		runner:  runner,
		cfg:     cfg,
		engines: layout.Engines(),
		count:   cfg.Defaults.Count,
		refresh: pipeline.NewRefreshState(time.Now()),
	}
	if interval := cfg.Refresh.Interval.Std(); interval > 0 {
		m.refresh.Interval = interval
	}

	for _, name := range source.Names() {
		if runner.HasSource(name) {
			m.sources = append(m.sources, name)
		}
	}
	for i, e := range m.engines {
		if string(e) == cfg.Defaults.Engine {
			m.engineIdx = i
		}
	}
	for i, s := range m.sources {
		if s == cfg.Defaults.Source {
			m.sourceIdx = i
		}
	}
	return m
}

func (m dashModel) engine() layout.Engine { return m.engines[m.engineIdx] }

func (m dashModel) sourceName() string { return m.sources[m.sourceIdx] }

// options builds the pipeline options for the current selection. HTML is
// always rendered alongside JSON so "s" can save without a second run.
func (m dashModel) options(refresh bool) pipeline.Options {
	return pipeline.Options{
		Engine:  string(m.engine()),
		Source:  m.sourceName(),
		Count:   m.count,
		Formats: []string{pipeline.FormatJSON, pipeline.FormatHTML},
		Opacity: m.cfg.Defaults.Opacity,
		Refresh: refresh,
	}
}

// renderCmd runs the pipeline off the UI goroutine.
func (m dashModel) renderCmd(refresh bool) tea.Cmd {
	opts := m.options(refresh)
	return func() tea.Msg {
		result, err := m.runner.Execute(m.ctx, opts)
		return renderDoneMsg{result: result, err: err}
	}
}

// saveCmd writes the rendered HTML page to disk.
func (m dashModel) saveCmd() tea.Cmd {
	data := m.result.Artifacts[pipeline.FormatHTML]
	path := fmt.Sprintf("unicorns_%s.html", m.engine())
	return func() tea.Msg {
		return savedMsg{path: path, err: os.WriteFile(path, data, 0o644)}
	}
}

func tick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m dashModel) Init() tea.Cmd {
	return tea.Batch(m.renderCmd(false), tick())
}

func (m dashModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "left", "h":
			m.engineIdx = (m.engineIdx + len(m.engines) - 1) % len(m.engines)
			return m.startRender(false)
		case "right", "l":
			m.engineIdx = (m.engineIdx + 1) % len(m.engines)
			return m.startRender(false)
		case "tab":
			m.sourceIdx = (m.sourceIdx + 1) % len(m.sources)
			return m.startRender(false)
		case "+", "=":
			if m.count+countStep <= pipeline.MaxCount {
				m.count += countStep
				return m.startRender(false)
			}
		case "-":
			if m.count-countStep >= countStep {
				m.count -= countStep
				return m.startRender(false)
			}
		case "r":
			return m.startRender(true)
		case "a":
			m.refresh = m.refresh.Toggle()
		case "s":
			if m.result != nil && !m.rendering {
				return m, m.saveCmd()
			}
		}

	case tickMsg:
		if m.refresh.Due(time.Time(msg)) && !m.rendering {
			model, cmd := m.startRender(true)
			return model, tea.Batch(cmd, tick())
		}
		return m, tick()

	case renderDoneMsg:
		m.rendering = false
		m.err = msg.err
		if msg.err == nil {
			m.result = msg.result
			m.refresh = m.refresh.Touch(time.Now())
		}

	case savedMsg:
		if msg.err != nil {
			m.err = msg.err
		} else {
			m.saved = msg.path
		}
	}
	return m, nil
}

// startRender kicks off a pipeline run unless one is in flight.
func (m dashModel) startRender(refresh bool) (tea.Model, tea.Cmd) {
	if m.rendering {
		return m, nil
	}
	m.rendering = true
	m.saved = ""
	return m, m.renderCmd(refresh)
}

var (
	dashSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	dashNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	dashDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

func (m dashModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Unicornviz Dashboard"))
	b.WriteString("\n")
	b.WriteString(dashDimStyle.Render("←/→ engine  tab source  +/- size  r refresh  a auto  s save  q quit"))
	b.WriteString("\n\n")

	// Engine picker
	b.WriteString(dashDimStyle.Render("Engine  "))
	for i, e := range m.engines {
		name := " " + string(e) + " "
		if i == m.engineIdx {
			b.WriteString(dashSelectedStyle.Render("[" + string(e) + "]"))
		} else {
			b.WriteString(dashNormalStyle.Render(name))
		}
	}
	b.WriteString("\n")

	// Source picker and size
	b.WriteString(dashDimStyle.Render("Source  "))
	for i, s := range m.sources {
		if i == m.sourceIdx {
			b.WriteString(dashSelectedStyle.Render("[" + s + "]"))
		} else {
			b.WriteString(dashNormalStyle.Render(" " + s + " "))
		}
	}
	b.WriteString(dashDimStyle.Render("   Size "))
	b.WriteString(StyleHighlight.Render(fmt.Sprintf("%d", m.count)))
	b.WriteString("\n\n")

	b.WriteString(StyleValue.Render(m.engine().Title()))
	b.WriteString("\n\n")

	switch {
	case m.rendering:
		b.WriteString(StyleWarning.Render("rendering..."))
	case m.err != nil:
		b.WriteString(styleIconError.Render(iconError) + " " + m.err.Error())
	case m.result != nil:
		r := m.result
		b.WriteString(fmt.Sprintf("  %s %s\n",
			dashDimStyle.Render("records"),
			StyleValue.Render(fmt.Sprintf("%-8d", r.Stats.RecordCount))))
		b.WriteString(fmt.Sprintf("  %s %s\n",
			dashDimStyle.Render("points "),
			StyleValue.Render(fmt.Sprintf("%-8d", r.Stats.PointCount))))
		b.WriteString(fmt.Sprintf("  %s %s\n",
			dashDimStyle.Render("source "),
			StyleValue.Render(r.SourceUsed)))
		b.WriteString(fmt.Sprintf("  %s %s\n",
			dashDimStyle.Render("fetch  "),
			timingLine(r.Stats.FetchTime, r.CacheInfo.FetchHit)))
		b.WriteString(fmt.Sprintf("  %s %s\n",
			dashDimStyle.Render("layout "),
			timingLine(r.Stats.LayoutTime, r.CacheInfo.LayoutHit)))
		b.WriteString(fmt.Sprintf("  %s %s\n",
			dashDimStyle.Render("render "),
			timingLine(r.Stats.RenderTime, r.CacheInfo.RenderHit)))
	}
	b.WriteString("\n")

	// Refresh line
	auto := "off"
	if m.refresh.AutoRefresh {
		auto = fmt.Sprintf("every %s", m.refresh.Interval)
	}
	b.WriteString(dashDimStyle.Render(fmt.Sprintf("auto refresh %s · last refresh %s ago",
		auto, m.refresh.Age(time.Now()).Round(time.Second))))
	if m.saved != "" {
		b.WriteString("\n")
		b.WriteString(StyleSuccess.Render(iconSuccess + " saved " + m.saved))
	}
	b.WriteString("\n")

	return b.String()
}

// timingLine formats a stage duration with its cache status.
func timingLine(d time.Duration, cached bool) string {
	s := StyleValue.Render(d.Round(time.Millisecond).String())
	if cached {
		return s + " " + styleCached.Render(iconCached)
	}
	return s + " " + styleComputed.Render(iconFresh)
}
