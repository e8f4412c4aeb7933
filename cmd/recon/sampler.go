package recon

import (
	"fmt"
	"math"
)

// Strategy selects how a representative subset is drawn from a source.
// The set is closed: unknown names are rejected at parse time.
type Strategy int

const (
	StrategyRandom Strategy = iota
	StrategySystematic
	StrategyStratified
	StrategyAdaptive
)

func (s Strategy) String() string {
	switch s {
	case StrategyRandom:
		return "random"
	case StrategySystematic:
		return "systematic"
	case StrategyStratified:
		return "stratified"
	case StrategyAdaptive:
		return "adaptive"
	default:
		return fmt.Sprintf("strategy(%d)", int(s))
	}
}

// ParseStrategy resolves a sampling strategy name from configuration.
func ParseStrategy(name string) (Strategy, error) {
	switch name {
	case "random":
		return StrategyRandom, nil
	case "systematic":
		return StrategySystematic, nil
	case "stratified":
		return StrategyStratified, nil
	case "adaptive":
		return StrategyAdaptive, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownStrategy, name)
	}
}

// Sampler draws reduced-size subsets of a source. All strategies are
// deterministic for a fixed seed.
type Sampler struct {
	Seed int64
}

// NewSampler returns a sampler with the default seed.
func NewSampler() *Sampler { return &Sampler{Seed: DefaultSeed} }

// Sample draws up to sampleSize rows using the given strategy. The
// stratify column is only consulted by the stratified strategy; the
// adaptive strategy picks one itself.
func (s *Sampler) Sample(src Source, sampleSize int, strategy Strategy, stratifyColumn string) (*Table, error) {
	if sampleSize <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrSampleSizeInvalid, sampleSize)
	}
	t := Materialize("sample", src)
	switch strategy {
	case StrategyRandom:
		return s.randomSample(t, sampleSize), nil
	case StrategySystematic:
		return s.systematicSample(t, sampleSize), nil
	case StrategyStratified:
		return s.stratifiedSample(t, sampleSize, stratifyColumn), nil
	case StrategyAdaptive:
		return s.adaptiveSample(t, sampleSize), nil
	default:
		return nil, fmt.Errorf("%w: %v", ErrUnknownStrategy, strategy)
	}
}

// randomSample draws each row with probability sampleSize/totalRows,
// without replacement. Sources no larger than the budget come back
// unchanged.
func (s *Sampler) randomSample(t *Table, sampleSize int) *Table {
	total := t.RowCount()
	if total <= sampleSize {
		return t
	}
	return t.SampleFraction(float64(sampleSize)/float64(total), s.Seed)
}

// systematicSample keeps every interval-th row in position order, where
// interval = totalRows / sampleSize, capped at sampleSize rows.
func (s *Sampler) systematicSample(t *Table, sampleSize int) *Table {
	total := t.RowCount()
	if total <= sampleSize {
		return t
	}
	interval := total / sampleSize
	kept := 0
	return t.Filter(func(row int) bool {
		if kept >= sampleSize {
			return false
		}
		// Positions are 1-based so the first kept row is at index
		// interval-1, not 0.
		if (row+1)%interval != 0 {
			return false
		}
		kept++
		return true
	})
}

// stratifiedSample allocates the budget across the distinct values of the
// stratify column in proportion to each stratum's share of the rows, every
// stratum getting at least one row while budget remains. Strata are
// visited in first-seen row order; later strata see whatever budget the
// earlier ones left. Any internal failure falls back to plain random
// sampling over the whole source.
func (s *Sampler) stratifiedSample(t *Table, sampleSize int, stratifyColumn string) *Table {
	if t.columnIndex(stratifyColumn) < 0 {
		return s.randomSample(t, sampleSize)
	}
	total := t.RowCount()
	if total == 0 {
		return t
	}

	var order []string
	counts := make(map[string]int)
	for row := 0; row < total; row++ {
		v, _ := t.ValueAt(row, stratifyColumn)
		key := canonicalString(v)
		if _, seen := counts[key]; !seen {
			order = append(order, key)
		}
		counts[key]++
	}

	remaining := sampleSize
	var sampled []*Table
	for _, key := range order {
		if remaining <= 0 {
			break
		}
		count := counts[key]
		alloc := int(math.Round(float64(count) / float64(total) * float64(sampleSize)))
		if alloc < 1 {
			alloc = 1
		}
		if alloc > count {
			alloc = count
		}
		if alloc > remaining {
			alloc = remaining
		}

		stratum := t.Filter(func(row int) bool {
			v, _ := t.ValueAt(row, stratifyColumn)
			return canonicalString(v) == key
		})
		sampled = append(sampled, limitRows(stratum.SampleFraction(float64(alloc)/float64(count), s.Seed), alloc))
		remaining -= alloc
	}

	return unionTables(t, sampled)
}

// adaptiveSample stratifies on the first column whose declared type is
// numeric and falls back to random sampling when none exists.
func (s *Sampler) adaptiveSample(t *Table, sampleSize int) *Table {
	for _, c := range t.Columns() {
		if isSystemColumn(c.Name) {
			continue
		}
		if isNumericType(c.Type) {
			return s.stratifiedSample(t, sampleSize, c.Name)
		}
	}
	return s.randomSample(t, sampleSize)
}

// limitRows keeps the first n rows of a table.
func limitRows(t *Table, n int) *Table {
	if t.RowCount() <= n {
		return t
	}
	return t.Slice(0, n)
}

// unionTables concatenates sample tables sharing base's schema.
func unionTables(base *Table, parts []*Table) *Table {
	var rows [][]interface{}
	for _, p := range parts {
		rows = append(rows, p.rows...)
	}
	return &Table{name: base.name, columns: base.columns, index: base.index, rows: rows}
}
