package domain

import (
	"errors"
	"testing"
)

func TestRegistryHasFourteenStatuses(t *testing.T) {
	all := All()
	if len(all) != 14 {
		t.Fatalf("expected 14 statuses, got %d", len(all))
	}

	seen := make(map[Status]bool)
	for _, info := range all {
		if seen[info.Status] {
			t.Fatalf("duplicate status %q", info.Status)
		}
		seen[info.Status] = true
		if info.Label == "" {
			t.Errorf("status %q has no label", info.Status)
		}
	}
}

func TestTerminalStatuses(t *testing.T) {
	terminal := map[Status]bool{
		StatusRentalClosed: true,
		StatusDead:         true,
		StatusDoNotServe:   true,
	}

	for _, info := range All() {
		if got := IsTerminal(info.Status); got != terminal[info.Status] {
			t.Errorf("IsTerminal(%q) = %v, want %v", info.Status, got, terminal[info.Status])
		}
	}

	if !IsWon(StatusRentalClosed) || IsWon(StatusDead) {
		t.Errorf("only renta_concretada is won")
	}
	if !IsLost(StatusDoNotServe) || IsLost(StatusRentalClosed) {
		t.Errorf("no_dar_servicio is lost, renta_concretada is not")
	}
}

func TestPipelineOrderExcludesTerminalAndOutliers(t *testing.T) {
	want := []Status{
		StatusNewLead,
		StatusOptionsSent,
		StatusAppointmentSet,
		StatusAppointmentDone,
		StatusReschedule,
		StatusInterested,
		StatusOfferSent,
		StatusRentalFormSent,
		StatusRentalInProgress,
	}

	got := PipelineOrder()
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("position %d: got %q, want %q", i, got[i], want[i])
		}
	}

	got[0] = "mutated"
	if PipelineOrder()[0] != StatusNewLead {
		t.Fatalf("PipelineOrder must return a copy")
	}
}

func TestParseStatus(t *testing.T) {
	if s, err := ParseStatus(" interesado "); err != nil || s != StatusInterested {
		t.Fatalf("ParseStatus trimmed value: got %q, %v", s, err)
	}

	_, err := ParseStatus("Interesado")
	var invalid *InvalidStatusError
	if !errors.As(err, &invalid) || !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("expected InvalidStatusError, got %v", err)
	}
}

func TestLabel(t *testing.T) {
	if StatusRentalFormSent.Label() != "Formato de renta enviado" {
		t.Errorf("unexpected label %q", StatusRentalFormSent.Label())
	}
	if Status("bogus").Label() != "bogus" {
		t.Errorf("unknown status should label as its raw value")
	}
}
