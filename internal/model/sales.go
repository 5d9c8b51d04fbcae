package model

import "slices"

// SPIN holds the Situation/Problem/Implication/Need discovery notes.
type SPIN struct {
	Situacao    string `json:"situacao,omitempty"`
	Problema    string `json:"problema,omitempty"`
	Implicacao  string `json:"implicacao,omitempty"`
	Necessidade string `json:"necessidade,omitempty"`
}

// BANT holds the Budget/Authority/Need/Timeline qualification notes.
type BANT struct {
	Budget    string `json:"budget,omitempty"`
	Authority string `json:"authority,omitempty"`
	Need      string `json:"need,omitempty"`
	Timeline  string `json:"timeline,omitempty"`
}

// SalesData is the structured sales signal extracted from a call transcript.
// Field names are the stored wire format and must not change.
type SalesData struct {
	Empresa       string   `json:"empresa,omitempty"`
	SPIN          SPIN     `json:"spin"`
	BANT          BANT     `json:"bant"`
	Stakeholders  []string `json:"stakeholders"`
	Dores         []string `json:"dores"`
	Oportunidades []string `json:"oportunidades"`
	Marcas        []string `json:"marcas"`

	// ContextoPersonalizacao is free text some prompts return alongside the
	// core fields; the report context falls back to it for the company description.
	ContextoPersonalizacao string `json:"contexto_personalizacao,omitempty"`
}

// EmptySalesData returns a SalesData with every container initialized.
func EmptySalesData() SalesData {
	var s SalesData
	s.Normalize()
	return s
}

// Normalize replaces nil lists with empty ones so the JSON encoding never
// carries null containers.
func (s *SalesData) Normalize() {
	if s.Stakeholders == nil {
		s.Stakeholders = []string{}
	}
	if s.Dores == nil {
		s.Dores = []string{}
	}
	if s.Oportunidades == nil {
		s.Oportunidades = []string{}
	}
	if s.Marcas == nil {
		s.Marcas = []string{}
	}
}

// IsEmpty reports whether nothing was detected.
func (s SalesData) IsEmpty() bool {
	return s.Empresa == "" &&
		s.SPIN == (SPIN{}) &&
		s.BANT == (BANT{}) &&
		len(s.Stakeholders) == 0 &&
		len(s.Dores) == 0 &&
		len(s.Oportunidades) == 0 &&
		len(s.Marcas) == 0
}

// Clone returns a copy that shares no lists with s.
func (s SalesData) Clone() SalesData {
	s.Stakeholders = slices.Clone(s.Stakeholders)
	s.Dores = slices.Clone(s.Dores)
	s.Oportunidades = slices.Clone(s.Oportunidades)
	s.Marcas = slices.Clone(s.Marcas)
	return s
}
