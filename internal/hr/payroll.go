package hr

import (
	"bytes"
	"encoding/json"
	"sort"
	"time"
)

const (
	// StandardPeriodHours is the nominal working-hour count of one pay period.
	StandardPeriodHours = 160

	// Overtime is paid at 1.5x the hourly rate. Expressed as a ratio so the
	// whole computation stays in integer arithmetic.
	overtimeMultiplierNum = 3
	overtimeMultiplierDen = 2
)

// OvertimePay computes the overtime component of a pay run in minor units.
//
//	hourlyRate = baseSalary / StandardPeriodHours
//	overtime   = overtimeHours * hourlyRate * 1.5
//
// All factors are multiplied before the single truncating division, so the
// result is reproducible bit-for-bit for identical inputs.
func OvertimePay(baseSalary, overtimeMinutes int64) int64 {
	if baseSalary <= 0 || overtimeMinutes <= 0 {
		return 0
	}
	return overtimeMinutes * baseSalary * overtimeMultiplierNum /
		(overtimeMultiplierDen * StandardPeriodHours * 60)
}

// SumDeductions totals a deduction mapping. Negative entries are ignored:
// a deduction can only reduce pay, never increase it.
func SumDeductions(deductions map[string]int64) int64 {
	var total int64
	for _, amount := range deductions {
		if amount > 0 {
			total += amount
		}
	}
	return total
}

// NetSalary computes base + overtime - deductions.
func NetSalary(baseSalary, overtimePay int64, deductions map[string]int64) int64 {
	return baseSalary + overtimePay - SumDeductions(deductions)
}

// ParseDeductions decodes a free-form deduction payload into a key -> minor
// units mapping. An unparseable payload degrades to an empty map rather than
// failing the surrounding payroll operation; individual non-numeric values
// are skipped.
func ParseDeductions(raw []byte) map[string]int64 {
	out := map[string]int64{}
	if len(raw) == 0 {
		return out
	}
	var generic map[string]any
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&generic); err != nil {
		return map[string]int64{}
	}
	for key, val := range generic {
		num, ok := val.(json.Number)
		if !ok {
			continue
		}
		v, err := num.Int64()
		if err != nil {
			continue
		}
		out[key] = v
	}
	return out
}

// DeductionKeys returns the mapping's keys in stable order, for logging and
// serialization.
func DeductionKeys(deductions map[string]int64) []string {
	keys := make([]string, 0, len(deductions))
	for k := range deductions {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// OvertimeMinutesInRange sums overtime minutes of attendance records whose
// date falls inside [start, end] inclusive.
func OvertimeMinutesInRange(records []AttendanceRecord, start, end time.Time) int64 {
	var total int64
	for _, rec := range records {
		if rec.Date.Before(start) || rec.Date.After(end) {
			continue
		}
		if rec.OvertimeMinutes > 0 {
			total += rec.OvertimeMinutes
		}
	}
	return total
}

// ComputePayroll derives the monetary fields of a pay run from attendance
// inputs and a deduction mapping. Pure: no clock, no store access.
func ComputePayroll(baseSalary int64, records []AttendanceRecord, deductions map[string]int64, start, end time.Time) (overtimePay, netSalary int64) {
	minutes := OvertimeMinutesInRange(records, start, end)
	overtimePay = OvertimePay(baseSalary, minutes)
	netSalary = NetSalary(baseSalary, overtimePay, deductions)
	return overtimePay, netSalary
}
