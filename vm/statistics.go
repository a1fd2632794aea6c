package vm

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"time"
)

// InstructionStats tracks how often one mnemonic retired.
type InstructionStats struct {
	Mnemonic string
	Count    uint64
}

// HotPathEntry is a frequently-visited fetch address.
type HotPathEntry struct {
	Address uint64
	Count   uint64
}

// PerformanceStatistics accumulates execution counters across a Run, for
// export after the guest program exits.
type PerformanceStatistics struct {
	Enabled bool

	TotalInstructions  uint64
	TotalCycles        uint64
	ExecutionTime      time.Duration
	InstructionsPerSec float64

	InstructionCounts map[string]uint64
	HotPath           map[uint64]uint64

	BranchCount      uint64
	BranchTakenCount uint64

	MemoryReads  uint64
	MemoryWrites uint64
	BytesRead    uint64
	BytesWritten uint64

	startTime time.Time
}

func NewPerformanceStatistics() *PerformanceStatistics {
	return &PerformanceStatistics{
		Enabled:           true,
		InstructionCounts: make(map[string]uint64),
		HotPath:           make(map[uint64]uint64),
	}
}

func (s *PerformanceStatistics) Start() {
	s.startTime = time.Now()
}

// RecordInstruction tallies one retired instruction by mnemonic and fetch
// address.
func (s *PerformanceStatistics) RecordInstruction(mnemonic string, pc uint64) {
	if !s.Enabled {
		return
	}
	s.TotalInstructions++
	s.InstructionCounts[mnemonic]++
	s.HotPath[pc]++
}

func (s *PerformanceStatistics) RecordBranch(taken bool) {
	if !s.Enabled {
		return
	}
	s.BranchCount++
	if taken {
		s.BranchTakenCount++
	}
}

func (s *PerformanceStatistics) RecordMemoryRead(bytes uint64) {
	if !s.Enabled {
		return
	}
	s.MemoryReads++
	s.BytesRead += bytes
}

func (s *PerformanceStatistics) RecordMemoryWrite(bytes uint64) {
	if !s.Enabled {
		return
	}
	s.MemoryWrites++
	s.BytesWritten += bytes
}

// Finalize computes derived metrics; call once before exporting.
func (s *PerformanceStatistics) Finalize() {
	s.ExecutionTime = time.Since(s.startTime)
	if s.ExecutionTime > 0 {
		s.InstructionsPerSec = float64(s.TotalInstructions) / s.ExecutionTime.Seconds()
	}
}

func (s *PerformanceStatistics) GetTopInstructions(n int) []InstructionStats {
	out := make([]InstructionStats, 0, len(s.InstructionCounts))
	for mnemonic, count := range s.InstructionCounts {
		out = append(out, InstructionStats{Mnemonic: mnemonic, Count: count})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	if len(out) > n {
		out = out[:n]
	}
	return out
}

func (s *PerformanceStatistics) GetTopHotPath(n int) []HotPathEntry {
	out := make([]HotPathEntry, 0, len(s.HotPath))
	for addr, count := range s.HotPath {
		out = append(out, HotPathEntry{Address: addr, Count: count})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	if len(out) > n {
		out = out[:n]
	}
	return out
}

// ExportJSON writes the summary and top-N breakdowns as indented JSON.
func (s *PerformanceStatistics) ExportJSON(w io.Writer) error {
	s.Finalize()
	data := map[string]interface{}{
		"total_instructions":   s.TotalInstructions,
		"total_cycles":         s.TotalCycles,
		"execution_time_ms":    s.ExecutionTime.Milliseconds(),
		"instructions_per_sec": s.InstructionsPerSec,
		"branch_count":         s.BranchCount,
		"branch_taken":         s.BranchTakenCount,
		"memory_reads":         s.MemoryReads,
		"memory_writes":        s.MemoryWrites,
		"bytes_read":           s.BytesRead,
		"bytes_written":        s.BytesWritten,
		"top_instructions":     s.GetTopInstructions(20),
		"hot_path":             s.GetTopHotPath(20),
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

// ExportCSV writes the summary metrics as a two-column CSV.
func (s *PerformanceStatistics) ExportCSV(w io.Writer) error {
	s.Finalize()
	writer := csv.NewWriter(w)
	defer writer.Flush()

	if err := writer.Write([]string{"Metric", "Value"}); err != nil {
		return err
	}
	rows := [][]string{
		{"Total Instructions", fmt.Sprintf("%d", s.TotalInstructions)},
		{"Total Cycles", fmt.Sprintf("%d", s.TotalCycles)},
		{"Execution Time (ms)", fmt.Sprintf("%d", s.ExecutionTime.Milliseconds())},
		{"Instructions/Sec", fmt.Sprintf("%.2f", s.InstructionsPerSec)},
		{"Branch Count", fmt.Sprintf("%d", s.BranchCount)},
		{"Branch Taken", fmt.Sprintf("%d", s.BranchTakenCount)},
		{"Memory Reads", fmt.Sprintf("%d", s.MemoryReads)},
		{"Memory Writes", fmt.Sprintf("%d", s.MemoryWrites)},
		{"Bytes Read", fmt.Sprintf("%d", s.BytesRead)},
		{"Bytes Written", fmt.Sprintf("%d", s.BytesWritten)},
	}
	for _, row := range rows {
		if err := writer.Write(row); err != nil {
			return err
		}
	}
	return nil
}
