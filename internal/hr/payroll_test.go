package hr

import (
	"testing"
	"time"
)

func day(d int) time.Time {
	return time.Date(2026, time.March, d, 0, 0, 0, 0, time.UTC)
}

func TestOvertimePay(t *testing.T) {
	// base 160000 minor units over a 160h period -> 1000/h -> 1500/h at 1.5x.
	// 600 minutes = 10h -> 15000.
	if got := OvertimePay(160000, 600); got != 15000 {
		t.Fatalf("OvertimePay = %d, want 15000", got)
	}
	if got := OvertimePay(160000, 0); got != 0 {
		t.Fatalf("zero minutes: got %d", got)
	}
	if got := OvertimePay(0, 600); got != 0 {
		t.Fatalf("zero base: got %d", got)
	}
	if got := OvertimePay(160000, -30); got != 0 {
		t.Fatalf("negative minutes: got %d", got)
	}
}

func TestOvertimePayTruncates(t *testing.T) {
	// 1 minute at base 160000: 160000*3/(2*160*60) = 25 exactly.
	if got := OvertimePay(160000, 1); got != 25 {
		t.Fatalf("got %d, want 25", got)
	}
	// 1 minute at base 100: 100*3/19200 truncates to 0.
	if got := OvertimePay(100, 1); got != 0 {
		t.Fatalf("got %d, want 0", got)
	}
}

func TestNetSalary(t *testing.T) {
	deductions := map[string]int64{"tax": 20000, "pension": 8000}
	if got := NetSalary(160000, 15000, deductions); got != 147000 {
		t.Fatalf("NetSalary = %d, want 147000", got)
	}
	// Negative deduction entries must not inflate pay.
	deductions["bogus"] = -5000
	if got := NetSalary(160000, 15000, deductions); got != 147000 {
		t.Fatalf("NetSalary with negative entry = %d, want 147000", got)
	}
}

func TestParseDeductions(t *testing.T) {
	got := ParseDeductions([]byte(`{"tax": 20000, "pension": 8000}`))
	if len(got) != 2 || got["tax"] != 20000 || got["pension"] != 8000 {
		t.Fatalf("unexpected mapping: %v", got)
	}

	// Unparseable payloads degrade to an empty map.
	for _, raw := range []string{``, `not json`, `[1,2]`, `42`} {
		if got := ParseDeductions([]byte(raw)); len(got) != 0 {
			t.Fatalf("ParseDeductions(%q) = %v, want empty", raw, got)
		}
	}

	// Non-numeric values are skipped, numeric siblings survive.
	got = ParseDeductions([]byte(`{"tax": 20000, "note": "march", "frac": 10.5}`))
	if len(got) != 1 || got["tax"] != 20000 {
		t.Fatalf("mixed payload: %v", got)
	}
}

func TestOvertimeMinutesInRange(t *testing.T) {
	records := []AttendanceRecord{
		{Date: day(1), OvertimeMinutes: 120},
		{Date: day(15), OvertimeMinutes: 480},
		{Date: day(31), OvertimeMinutes: 60},
		{Date: time.Date(2026, time.April, 1, 0, 0, 0, 0, time.UTC), OvertimeMinutes: 300},
		{Date: day(20), OvertimeMinutes: -15},
	}
	got := OvertimeMinutesInRange(records, day(1), day(31))
	if got != 660 {
		t.Fatalf("got %d minutes, want 660", got)
	}
}

func TestComputePayroll(t *testing.T) {
	records := []AttendanceRecord{
		{Date: day(5), OvertimeMinutes: 300},
		{Date: day(12), OvertimeMinutes: 300},
	}
	deductions := map[string]int64{"tax": 20000}

	overtime, net := ComputePayroll(160000, records, deductions, day(1), day(31))
	if overtime != 15000 {
		t.Fatalf("overtime = %d, want 15000", overtime)
	}
	if net != 155000 {
		t.Fatalf("net = %d, want 155000", net)
	}

	// Determinism: same inputs, same outputs.
	for i := 0; i < 3; i++ {
		o2, n2 := ComputePayroll(160000, records, deductions, day(1), day(31))
		if o2 != overtime || n2 != net {
			t.Fatalf("run %d diverged: %d/%d", i, o2, n2)
		}
	}
}

func TestPayrollTransitions(t *testing.T) {
	chain := []PayrollStatus{PayrollPending, PayrollCalculated, PayrollVerified, PayrollApproved, PayrollPaid}
	for i := 0; i < len(chain)-1; i++ {
		if !chain[i].CanTransition(chain[i+1]) {
			t.Fatalf("%s -> %s should be allowed", chain[i], chain[i+1])
		}
	}
	// No skipping, no going back, Paid is terminal.
	if PayrollPending.CanTransition(PayrollVerified) {
		t.Fatal("pending -> verified must be rejected")
	}
	if PayrollVerified.CanTransition(PayrollCalculated) {
		t.Fatal("verified -> calculated must be rejected")
	}
	for _, to := range chain {
		if PayrollPaid.CanTransition(to) {
			t.Fatalf("paid -> %s must be rejected", to)
		}
	}
}
