// Package domain provides core business rules for the leads bounded context:
// the status registry, the transition validator and the assignment manager.
// Everything here is pure; persistence and time are supplied by callers.
package domain

import "strings"

// Status is a lead's position in the sales pipeline.
type Status string

const (
	StatusNewLead             Status = "nuevo_lead"
	StatusOptionsSent         Status = "opciones_enviadas"
	StatusAppointmentSet      Status = "cita_coordinada"
	StatusAppointmentDone     Status = "cita_concretada"
	StatusAppointmentCanceled Status = "cita_cancelada"
	StatusReschedule          Status = "reprogramar_cita"
	StatusInterested          Status = "interesado"
	StatusOfferSent           Status = "oferta_enviada"
	StatusRentalFormSent      Status = "formato_renta_enviado"
	StatusRentalInProgress    Status = "proceso_renta"
	StatusRentalClosed        Status = "renta_concretada"
	StatusNoResponse          Status = "no_responde"
	StatusDead                Status = "muerto"
	StatusDoNotServe          Status = "no_dar_servicio"
)

// StatusInfo is the metadata attached to each status. Label and Color are
// what UIs render; they must not be re-declared elsewhere.
type StatusInfo struct {
	Status   Status `json:"status"`
	Label    string `json:"label"`
	Color    string `json:"color"`
	Rank     int    `json:"rank"`
	Terminal bool   `json:"terminal"`
	Won      bool   `json:"won"`
	// Outlier statuses are counted but kept out of the primary funnel.
	Outlier bool `json:"outlier"`
}

// registry is ordered; Rank is the funnel position for non-outliers.
var registry = []StatusInfo{
	{Status: StatusNewLead, Label: "Nuevo lead", Color: "blue", Rank: 1},
	{Status: StatusOptionsSent, Label: "Opciones enviadas", Color: "sky", Rank: 2},
	{Status: StatusAppointmentSet, Label: "Cita coordinada", Color: "indigo", Rank: 3},
	{Status: StatusAppointmentDone, Label: "Cita concretada", Color: "violet", Rank: 4},
	{Status: StatusAppointmentCanceled, Label: "Cita cancelada", Color: "orange", Outlier: true},
	{Status: StatusReschedule, Label: "Reprogramar cita", Color: "amber", Rank: 5},
	{Status: StatusInterested, Label: "Interesado", Color: "teal", Rank: 6},
	{Status: StatusOfferSent, Label: "Oferta enviada", Color: "cyan", Rank: 7},
	{Status: StatusRentalFormSent, Label: "Formato de renta enviado", Color: "lime", Rank: 8},
	{Status: StatusRentalInProgress, Label: "Proceso de renta", Color: "emerald", Rank: 9},
	{Status: StatusRentalClosed, Label: "Renta concretada", Color: "green", Rank: 10, Terminal: true, Won: true},
	{Status: StatusNoResponse, Label: "No responde", Color: "gray", Outlier: true},
	{Status: StatusDead, Label: "Muerto", Color: "red", Terminal: true},
	{Status: StatusDoNotServe, Label: "No dar servicio", Color: "rose", Terminal: true},
}

var (
	registryIndex = buildIndex()
	pipelineOrder = buildPipelineOrder()
)

func buildIndex() map[Status]StatusInfo {
	idx := make(map[Status]StatusInfo, len(registry))
	for _, info := range registry {
		idx[info.Status] = info
	}
	return idx
}

func buildPipelineOrder() []Status {
	out := make([]Status, 0, len(registry))
	for _, info := range registry {
		if info.Terminal || info.Outlier {
			continue
		}
		out = append(out, info.Status)
	}
	return out
}

// IsValid reports whether s is one of the registered statuses.
func IsValid(s Status) bool {
	_, ok := registryIndex[s]
	return ok
}

// IsTerminal reports whether s exits the active pipeline (won or lost).
func IsTerminal(s Status) bool {
	return registryIndex[s].Terminal
}

// IsWon reports whether s is the closed-won status.
func IsWon(s Status) bool {
	return registryIndex[s].Won
}

// IsLost reports whether s is a dead-end terminal status.
func IsLost(s Status) bool {
	info := registryIndex[s]
	return info.Terminal && !info.Won
}

// Lookup returns the metadata for s.
func Lookup(s Status) (StatusInfo, bool) {
	info, ok := registryIndex[s]
	return info, ok
}

// Label returns the display label, or the raw value for unknown statuses.
func (s Status) Label() string {
	if info, ok := registryIndex[s]; ok {
		return info.Label
	}
	return string(s)
}

// All returns every status with metadata in registry order.
func All() []StatusInfo {
	return append([]StatusInfo(nil), registry...)
}

// PipelineOrder returns the active, non-outlier statuses in funnel order.
// Metrics pipeline counts are parallel to this slice.
func PipelineOrder() []Status {
	return append([]Status(nil), pipelineOrder...)
}

// ParseStatus validates a raw value. Surrounding whitespace is ignored;
// matching is otherwise exact.
func ParseStatus(raw string) (Status, error) {
	s := Status(strings.TrimSpace(raw))
	if !IsValid(s) {
		return s, &InvalidStatusError{Status: raw}
	}
	return s, nil
}
