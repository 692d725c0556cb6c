package services

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/Vamsichris04/finals-scheduler/internal/scheduling/domain"
)

// ExportMetadata is the JSON export's top-level metadata block (§6).
type ExportMetadata struct {
	Algorithm  string         `json:"algorithm"`
	RuntimeSec float64        `json:"runtime_s"`
	Penalty    float64        `json:"penalty"`
	Violations map[string]any `json:"violations"`
	Seed       int64          `json:"seed"`
}

// ExportWorker is one roster entry in the JSON export.
type ExportWorker struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Tier         int    `json:"tier"`
	IsCommuter   bool   `json:"is_commuter"`
	IsActive     bool   `json:"is_active"`
	DesiredHours int    `json:"desired_hours"`
}

// ExportSlot is one catalog slot in the JSON export.
type ExportSlot struct {
	SlotIndex int    `json:"slot_index"`
	Date      string `json:"date"`
	StartHour int    `json:"start_hour"`
	Duration  int    `json:"duration_hours"`
	Kind      string `json:"kind"`
	StaffMin  int    `json:"staff_min"`
	StaffMax  int    `json:"staff_max"`
}

// ExportBlock is one schedule block in the JSON export.
type ExportBlock struct {
	Date      string   `json:"date"`
	Start     string   `json:"start"`
	End       string   `json:"end"`
	Kind      string   `json:"kind"`
	Assignees []string `json:"assignees"`
}

// ExportWorkerSummary is one worker_summary entry in the JSON export.
type ExportWorkerSummary struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Hours   int    `json:"hours"`
	Desired int    `json:"desired"`
}

// Export is the full JSON export document (§6).
type Export struct {
	Metadata      ExportMetadata        `json:"metadata"`
	Workers       []ExportWorker        `json:"workers"`
	Slots         []ExportSlot          `json:"slots"`
	Assignment    [][]string            `json:"assignment"`
	Schedule      []ExportBlock         `json:"schedule"`
	WorkerSummary []ExportWorkerSummary `json:"worker_summary"`
}

// BuildExport assembles the full export document for a finished run.
func BuildExport(env *Environment, result Result, seed int64) Export {
	breakdown := result.Breakdown

	workers := make([]ExportWorker, 0, env.Roster().Len())
	for _, w := range env.Roster().All() {
		workers = append(workers, ExportWorker{
			ID:           w.ID,
			Name:         w.Name,
			Tier:         int(w.Tier),
			IsCommuter:   w.IsCommuter,
			IsActive:     w.IsActive,
			DesiredHours: w.DesiredHours,
		})
	}

	slots := make([]ExportSlot, 0, env.Catalog().Len())
	assignment := make([][]string, env.Catalog().Len())
	for _, s := range env.Catalog().Slots() {
		slots = append(slots, ExportSlot{
			SlotIndex: s.SlotIndex,
			Date:      s.Date.Format("2006-01-02"),
			StartHour: s.StartHour,
			Duration:  s.DurationHours,
			Kind:      string(s.ShiftKind),
			StaffMin:  s.StaffMin,
			StaffMax:  s.StaffMax,
		})
		assignment[s.SlotIndex] = append([]string(nil), result.State.Assignees(s.SlotIndex)...)
	}

	blocks := domain.DeriveBlocks(result.State)
	exportBlocks := make([]ExportBlock, 0, len(blocks))
	for _, b := range blocks {
		exportBlocks = append(exportBlocks, ExportBlock{
			Date:      b.Date.Format("2006-01-02"),
			Start:     b.Start.Format("15:04"),
			End:       b.End.Format("15:04"),
			Kind:      string(b.ShiftKind),
			Assignees: b.Assignees,
		})
	}

	totals := domain.ComputeWorkerTotals(result.State, env.Roster())
	summary := make([]ExportWorkerSummary, 0, len(totals))
	for _, t := range totals {
		summary = append(summary, ExportWorkerSummary{ID: t.WorkerID, Name: t.Name, Hours: t.Hours, Desired: t.Desired})
	}

	return Export{
		Metadata: ExportMetadata{
			Algorithm:  string(result.Algorithm),
			RuntimeSec: result.Runtime.Seconds(),
			Penalty:    result.Penalty,
			Violations: violationMap(breakdown),
			Seed:       seed,
		},
		Workers:       workers,
		Slots:         slots,
		Assignment:    assignment,
		Schedule:      exportBlocks,
		WorkerSummary: summary,
	}
}

func violationMap(b domain.Breakdown) map[string]any {
	return map[string]any{
		"coverage_under":     b.CoverageUnder,
		"coverage_over":      b.CoverageOver,
		"worker_conflict":    b.WorkerConflict,
		"commuter_violation": b.CommuterViolation,
		"hour_over":          b.HourOver,
		"hour_under":         b.HourUnder,
		"desired_deviation":  b.DesiredDeviation,
		"tier_mismatch":      b.TierMismatch,
		"morning_overload":   b.MorningOverload,
		"fairness_variance":  b.FairnessVariance,
		"shift_length":       b.ShiftLength,
	}
}

// ToJSON marshals the export document with stable indentation.
func (e Export) ToJSON() ([]byte, error) {
	return json.MarshalIndent(e, "", "  ")
}

// ToCSV renders one row per block: date, day, start, end, kind, assignees
// (assignees joined by "|").
func (e Export) ToCSV() string {
	var b strings.Builder
	b.WriteString("date,day,start,end,kind,assignees\n")
	for _, blk := range e.Schedule {
		day := dayOfWeekFromDate(blk.Date)
		fmt.Fprintf(&b, "%s,%s,%s,%s,%s,%s\n", blk.Date, day, blk.Start, blk.End, blk.Kind, strings.Join(blk.Assignees, "|"))
	}
	return b.String()
}

func dayOfWeekFromDate(dateStr string) string {
	t, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		return ""
	}
	return t.Weekday().String()
}

// ShiftRecord is one record per block for the shift-record list export
// format (§6).
type ShiftRecord struct {
	Date       string   `json:"date"`
	StartTime  string   `json:"start_time"`
	EndTime    string   `json:"end_time"`
	AssignedTo []string `json:"assigned_to"`
	ShiftType  string   `json:"shift_type"`
	Notes      string   `json:"notes"`
}

// ToShiftRecords renders the shift-record list export format.
func (e Export) ToShiftRecords() []ShiftRecord {
	records := make([]ShiftRecord, 0, len(e.Schedule))
	for _, blk := range e.Schedule {
		records = append(records, ShiftRecord{
			Date:       blk.Date,
			StartTime:  blk.Start,
			EndTime:    blk.End,
			AssignedTo: blk.Assignees,
			ShiftType:  blk.Kind,
		})
	}
	return records
}
