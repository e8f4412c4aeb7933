package cmd

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/verityio/data-reconciler/cmd/recon"
)

func TestProgressModelInit(t *testing.T) {
	model := newProgressModel(3)

	if model.datasetTotal != 3 {
		t.Errorf("expected dataset total 3, got %d", model.datasetTotal)
	}
	if model.datasetDone != 0 {
		t.Errorf("expected no completed datasets, got %d", model.datasetDone)
	}
	if model.Init() == nil {
		t.Error("Init should return the spinner tick command")
	}
}

func TestProgressModelReconEvents(t *testing.T) {
	t.Run("phase updates current dataset", func(t *testing.T) {
		model := newProgressModel(2)

		updated, _ := model.Update(reconEventMsg(recon.ProgressEvent{
			Dataset:      "orders",
			DatasetIndex: 0,
			DatasetTotal: 2,
			Phase:        "metadata",
		}))

		m, ok := updated.(progressModel)
		if !ok {
			t.Fatal("Update should return a progressModel")
		}
		if m.currentDataset != "orders" {
			t.Errorf("expected current dataset orders, got %q", m.currentDataset)
		}
		if m.currentPhase != "metadata" {
			t.Errorf("expected current phase metadata, got %q", m.currentPhase)
		}
	})

	t.Run("done event records completion", func(t *testing.T) {
		model := newProgressModel(2)

		updated, _ := model.Update(reconEventMsg(recon.ProgressEvent{
			Dataset:      "orders",
			DatasetIndex: 0,
			DatasetTotal: 2,
			Done:         true,
		}))

		m := updated.(progressModel)
		if m.datasetDone != 1 {
			t.Errorf("expected 1 done dataset, got %d", m.datasetDone)
		}
		if len(m.completed) != 1 {
			t.Fatalf("expected 1 completed line, got %d", len(m.completed))
		}
		if m.completed[0].name != "orders" {
			t.Errorf("expected completed line for orders, got %q", m.completed[0].name)
		}
		if m.completed[0].failed {
			t.Error("successful dataset should not be marked failed")
		}
		if m.currentDataset != "" {
			t.Errorf("current dataset should reset after completion, got %q", m.currentDataset)
		}
	})

	t.Run("failed dataset keeps the error", func(t *testing.T) {
		model := newProgressModel(1)

		updated, _ := model.Update(reconEventMsg(recon.ProgressEvent{
			Dataset:      "inventory",
			DatasetIndex: 0,
			DatasetTotal: 1,
			Done:         true,
			Err:          errors.New("connection refused"),
		}))

		m := updated.(progressModel)
		if len(m.completed) != 1 {
			t.Fatalf("expected 1 completed line, got %d", len(m.completed))
		}
		if !m.completed[0].failed {
			t.Error("dataset with error should be marked failed")
		}
	})
}

func TestProgressModelQuit(t *testing.T) {
	model := newProgressModel(1)

	updated, cmd := model.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	m := updated.(progressModel)

	if !m.quitting {
		t.Error("ctrl+c should set quitting")
	}
	if cmd == nil {
		t.Error("ctrl+c should return a quit command")
	}
}

func TestProgressModelBatchDone(t *testing.T) {
	model := newProgressModel(1)
	result := &recon.ConsolidatedResult{TotalDatasets: 1}

	updated, cmd := model.Update(batchDoneMsg{result: result})
	m := updated.(progressModel)

	if !m.done {
		t.Error("batch completion should set done")
	}
	if m.result != result {
		t.Error("batch completion should capture the result")
	}
	if cmd == nil {
		t.Error("batch completion should return a quit command")
	}
	if m.View() != "" {
		t.Error("finished model should render nothing")
	}
}

func TestProgressModelView(t *testing.T) {
	model := newProgressModel(2)

	updated, _ := model.Update(reconEventMsg(recon.ProgressEvent{
		Dataset:      "orders",
		DatasetIndex: 0,
		DatasetTotal: 2,
		Phase:        "fingerprint",
	}))
	m := updated.(progressModel)

	view := m.View()
	if !strings.Contains(view, "orders") {
		t.Error("view should name the current dataset")
	}
	if !strings.Contains(view, "Fingerprinting rows") {
		t.Error("view should show the phase label")
	}
	if !strings.Contains(view, "Dataset 1 of 2") {
		t.Error("view should show overall position")
	}
}
