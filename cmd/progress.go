package cmd

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verityio/data-reconciler/cmd/recon"
)

var (
	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#626262")).
			Margin(0, 2)

	stageStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#04B575")).
			Margin(0, 2)

	tableHeaderStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#FFAA00")).
				Bold(true).
				Margin(0, 2)

	progressInfoStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#888888")).
				Margin(0, 2)
)

// phaseLabels maps engine phase names to display text.
var phaseLabels = map[string]string{
	"metadata":    "Comparing metadata",
	"fingerprint": "Fingerprinting rows",
	"sampling":    "Sampling and checking drift",
	"full":        "Running full chunked comparison",
}

type reconEventMsg recon.ProgressEvent

type batchDoneMsg struct {
	result *recon.ConsolidatedResult
}

type datasetLine struct {
	name    string
	failed  bool
	err     error
	elapsed time.Duration
}

type progressModel struct {
	overallProgress progress.Model
	currentSpinner  spinner.Model

	datasetTotal   int
	datasetDone    int
	currentDataset string
	currentPhase   string
	currentStart   time.Time
	completed      []datasetLine

	result   *recon.ConsolidatedResult
	done     bool
	quitting bool
	width    int
	start    time.Time
}

func newProgressModel(datasetTotal int) progressModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	overall := progress.New(
		progress.WithScaledGradient("#FF7CCB", "#FDFF8C"),
		progress.WithWidth(60),
	)

	return progressModel{
		overallProgress: overall,
		currentSpinner:  s,
		datasetTotal:    datasetTotal,
		start:           time.Now(),
	}
}

func (m progressModel) Init() tea.Cmd {
	return m.currentSpinner.Tick
}

func (m progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyMsg(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.overallProgress.Width = msg.Width - 10
		return m, nil
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.currentSpinner, cmd = m.currentSpinner.Update(msg)
		return m, cmd
	case progress.FrameMsg:
		updated, cmd := m.overallProgress.Update(msg)
		if pm, ok := updated.(progress.Model); ok {
			m.overallProgress = pm
		}
		return m, cmd
	case reconEventMsg:
		return m.handleReconEvent(recon.ProgressEvent(msg))
	case batchDoneMsg:
		m.result = msg.result
		m.done = true
		return m, tea.Quit
	}
	return m, nil
}

func (m progressModel) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" || msg.String() == "q" {
		m.quitting = true
		return m, tea.Quit
	}
	return m, nil
}

func (m progressModel) handleReconEvent(event recon.ProgressEvent) (tea.Model, tea.Cmd) {
	// Phase events carry no batch position
	if event.DatasetTotal > 0 {
		m.datasetTotal = event.DatasetTotal
	}

	if event.Done {
		m.datasetDone = event.DatasetIndex + 1
		m.completed = append(m.completed, datasetLine{
			name:    event.Dataset,
			failed:  event.Err != nil,
			err:     event.Err,
			elapsed: time.Since(m.currentStart),
		})
		m.currentDataset = ""
		m.currentPhase = ""

		percent := float64(m.datasetDone) / float64(m.datasetTotal)
		return m, m.overallProgress.SetPercent(percent)
	}

	if event.Dataset != m.currentDataset {
		m.currentDataset = event.Dataset
		m.currentStart = time.Now()
	}
	if event.Phase != "" {
		m.currentPhase = event.Phase
	}
	return m, nil
}

func (m progressModel) View() string {
	if m.done {
		return ""
	}

	var sections []string

	sections = append(sections, "")
	sections = append(sections, tableHeaderStyle.Render(fmt.Sprintf("🔍 Data Reconciler v%s", Version)))
	sections = append(sections, "")

	for _, line := range m.completed {
		mark := "✅"
		detail := fmt.Sprintf("%.1fs", line.elapsed.Seconds())
		if line.failed {
			mark = "❌"
			detail = line.err.Error()
		}
		sections = append(sections, progressInfoStyle.Render(fmt.Sprintf("%s %s (%s)", mark, line.name, detail)))
	}

	if m.currentDataset != "" {
		label := phaseLabels[m.currentPhase]
		if label == "" {
			label = "Loading datasets"
		}
		sections = append(sections, stageStyle.Render(fmt.Sprintf("%s %s: %s", m.currentSpinner.View(), m.currentDataset, label)))
	}

	sections = append(sections, "")
	sections = append(sections, "  "+m.overallProgress.View())
	sections = append(sections, progressInfoStyle.Render(fmt.Sprintf("Dataset %d of %d · elapsed %s",
		min(m.datasetDone+1, m.datasetTotal), m.datasetTotal, time.Since(m.start).Round(time.Second))))

	sections = append(sections, "")
	sections = append(sections, helpStyle.Render("Press Ctrl+C or 'q' to quit"))

	return lipgloss.JoinVertical(lipgloss.Left, sections...) + "\n"
}

// runWithProgressUI runs the batch behind a live terminal display. The
// engine runs on its own goroutine and feeds phase events into the
// program; quitting the display cancels the batch.
func runWithProgressUI(ctx context.Context, engine *recon.Engine, pairs []recon.DatasetPair) (*recon.ConsolidatedResult, error) {
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	model := newProgressModel(len(pairs))
	program := tea.NewProgram(model, tea.WithContext(runCtx))

	// Chain any observer already installed (task file updates) so the
	// display does not swallow its events.
	prior := engine.Progress
	engine.Progress = func(event recon.ProgressEvent) {
		if prior != nil {
			prior(event)
		}
		program.Send(reconEventMsg(event))
	}
	defer func() { engine.Progress = prior }()

	resultChan := make(chan *recon.ConsolidatedResult, 1)
	go func() {
		result := engine.RunBatch(runCtx, pairs)
		resultChan <- result
		program.Send(batchDoneMsg{result: result})
	}()

	finalModel, err := program.Run()
	if final, ok := finalModel.(progressModel); ok && final.quitting {
		// The user quit before the batch finished
		cancel()
	}

	result := <-resultChan
	if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return result, err
	}
	return result, nil
}
