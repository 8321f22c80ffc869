package dtos

import (
	"time"

	"locus/api/models"
)

// ---- variant queries

type VariantResponse struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
}

type VariantGetResponse struct {
	VariantResponse
	Count             int              `json:"count"`
	MatchedChromosome *string          `json:"matched_chromosome"`
	ChromosomeHint    *ChromosomeHint  `json:"chromosome_hint,omitempty"`
	Results           []models.Variant `json:"results"`
}

// ChromosomeHint helps callers whose requested chromosome spelling did
// not match the file's naming convention.
type ChromosomeHint struct {
	Requested         string   `json:"requested"`
	SuggestedSpelling string   `json:"suggested_spelling"`
	SampleChromosomes []string `json:"sample_chromosomes"`
}

// ---- streaming sessions

type StreamResponse struct {
	VariantResponse
	SessionId         string          `json:"session_id,omitempty"`
	Variant           *models.Variant `json:"variant"`
	HasMore           bool            `json:"has_more"`
	Exhausted         bool            `json:"exhausted"`
	MatchedChromosome *string         `json:"matched_chromosome,omitempty"`
	ChromosomeHint    *ChromosomeHint `json:"chromosome_hint,omitempty"`
}

type StreamCloseResponse struct {
	VariantResponse
	Existed bool `json:"existed"`
}

// ---- metadata & statistics

type MetadataResponse struct {
	VariantResponse
	Metadata models.VcfMetadata `json:"metadata"`
}

type StatisticsResponse struct {
	VariantResponse
	Statistics models.VcfStatistics `json:"statistics"`
}

type ChromosomesResponse struct {
	VariantResponse
	Chromosomes []string `json:"chromosomes"`
}

type HeaderResponse struct {
	VariantResponse
	Header string `json:"header"`
}

// ---- errors

type GeneralErrorResponseDto struct {
	Code      int            `json:"code"`
	Message   string         `json:"message"`
	Timestamp time.Time      `json:"timestamp"`
	Errors    []GeneralError `json:"errors"`
}

type GeneralError struct {
	Message string `json:"message"`
}
