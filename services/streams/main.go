package streamsService

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"locus/api/models"
	"locus/api/models/dtos"
	filtersService "locus/api/services/filters"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionExpired  = errors.New("session expired")
)

type (
	// VariantSource is the slice of the variant service a session needs:
	// chromosome resolution and positional queries.
	VariantSource interface {
		ResolveChromosome(chromosome string) (string, bool)
		ChromosomeHint(requested string) *dtos.ChromosomeHint
		QueryResolvedRegion(chromosome string, start, end uint64) ([]models.Variant, error)
	}

	StreamService struct {
		config        *models.Config
		source        VariantSource
		filterService *filtersService.FilterService

		sessions    map[string]*session
		sessionsMux sync.Mutex
	}

	// session is a paginated cursor over one region query. Advancement
	// is serialized by the session's own mutex; the service map mutex
	// only guards bookkeeping so a slow advance never blocks other
	// sessions.
	session struct {
		id         string
		chromosome string
		start, end uint64
		filter     string

		// nextStart is the first position the next fill pass will
		// query; buffer holds fetched-but-undelivered records.
		nextStart uint64
		buffer    []models.Variant

		// createdAt is never written after the session is published,
		// so expiry can be checked under either mutex.
		createdAt time.Time
		mux       sync.Mutex
	}
)

func NewStreamService(cfg *models.Config, source VariantSource, filterService *filtersService.FilterService) *StreamService {
	return &StreamService{
		config:        cfg,
		source:        source,
		filterService: filterService,
		sessions:      map[string]*session{},
	}
}

// StartQuery opens a session over [start, end] and delivers its first
// record. A query that matches nothing (or an unknown chromosome) comes
// back already exhausted and leaves no session behind.
func (ss *StreamService) StartQuery(chromosome string, start, end uint64, filter string) (*dtos.StreamResponse, error) {
	matched, found := ss.source.ResolveChromosome(chromosome)
	if !found {
		return &dtos.StreamResponse{
			Exhausted:      true,
			ChromosomeHint: ss.source.ChromosomeHint(chromosome),
		}, nil
	}

	if filter != "" {
		if err := ss.filterService.Parse(filter); err != nil {
			return nil, fmt.Errorf("invalid filter expression : %w", err)
		}
	}

	s := &session{
		id:         uuid.New().String(),
		chromosome: matched,
		start:      start,
		end:        end,
		filter:     filter,
		nextStart:  start,
		createdAt:  time.Now(),
	}

	ss.sessionsMux.Lock()
	ss.sessions[s.id] = s
	ss.sessionsMux.Unlock()

	s.mux.Lock()
	response := ss.advanceLocked(s)
	s.mux.Unlock()

	response.MatchedChromosome = &matched
	return response, nil
}

// AdvanceQuery delivers the session's next record. The session is
// deleted as soon as it reports exhaustion, so a further advance on the
// same id yields ErrSessionNotFound.
func (ss *StreamService) AdvanceQuery(sessionId string) (*dtos.StreamResponse, error) {
	ss.sessionsMux.Lock()
	s, found := ss.sessions[sessionId]
	ss.sessionsMux.Unlock()
	if !found {
		return nil, ErrSessionNotFound
	}

	s.mux.Lock()
	defer s.mux.Unlock()

	if ss.expired(s) {
		ss.remove(s.id)
		return nil, ErrSessionExpired
	}

	return ss.advanceLocked(s), nil
}

// CloseQuery discards a session. Closing an unknown or already-closed
// session is not an error; the response says whether one existed.
func (ss *StreamService) CloseQuery(sessionId string) *dtos.StreamCloseResponse {
	ss.sessionsMux.Lock()
	_, existed := ss.sessions[sessionId]
	delete(ss.sessions, sessionId)
	ss.sessionsMux.Unlock()

	return &dtos.StreamCloseResponse{Existed: existed}
}

// SweepExpired removes every session older than the timeout and
// returns how many were dropped. Expiry is also checked lazily on
// advance, so the sweep only reclaims memory for abandoned sessions.
func (ss *StreamService) SweepExpired() int {
	ss.sessionsMux.Lock()
	defer ss.sessionsMux.Unlock()

	swept := 0
	for id, s := range ss.sessions {
		if ss.expired(s) {
			delete(ss.sessions, id)
			swept++
		}
	}
	return swept
}

func (ss *StreamService) SessionCount() int {
	ss.sessionsMux.Lock()
	defer ss.sessionsMux.Unlock()
	return len(ss.sessions)
}

// advanceLocked pops the next record and peeks ahead for has_more.
// Caller holds the session mutex.
func (ss *StreamService) advanceLocked(s *session) *dtos.StreamResponse {
	ss.fill(s)

	if len(s.buffer) == 0 {
		ss.remove(s.id)
		return &dtos.StreamResponse{
			SessionId: s.id,
			Exhausted: true,
		}
	}

	variant := s.buffer[0]
	s.buffer = s.buffer[1:]

	// refill now so has_more reflects reality rather than a guess
	ss.fill(s)

	return &dtos.StreamResponse{
		SessionId: s.id,
		Variant:   &variant,
		HasMore:   len(s.buffer) > 0,
	}
}

// fill queries forward one window at a time until it has at least one
// undelivered record or the region is spent. Windows are capped at the
// configured region size to bound per-advance latency.
func (ss *StreamService) fill(s *session) {
	window := ss.config.Api.MaxRegionSize
	if window == 0 {
		window = 1
	}

	for len(s.buffer) == 0 && s.nextStart != 0 && s.nextStart <= s.end {
		windowStart := s.nextStart
		segmentEnd := windowStart + window - 1
		if segmentEnd < windowStart || segmentEnd > s.end {
			segmentEnd = s.end
		}

		results, err := ss.source.QueryResolvedRegion(s.chromosome, windowStart, segmentEnd)
		if err != nil {
			fmt.Printf("[%s] - Stream fill %s:%d-%d failed : %v\n", time.Now(), s.chromosome, windowStart, segmentEnd, err)
		}
		for _, variant := range results {
			// interval overlap hands a record whose REF spans the
			// window boundary back to the next window too; a record
			// belongs to the window its POS falls in
			if variant.Position < windowStart && windowStart != s.start {
				continue
			}
			if s.filter != "" {
				// evaluation failures on a row count as no-match
				match, err := ss.filterService.Evaluate(s.filter, variant.RawRow)
				if err != nil || !match {
					continue
				}
			}
			s.buffer = append(s.buffer, variant)
		}

		if segmentEnd == s.end {
			s.nextStart = 0
		} else {
			s.nextStart = segmentEnd + 1
		}
	}
}

func (ss *StreamService) expired(s *session) bool {
	timeout := time.Duration(ss.config.Streams.SessionTimeoutSeconds) * time.Second
	return time.Since(s.createdAt) > timeout
}

func (ss *StreamService) remove(sessionId string) {
	ss.sessionsMux.Lock()
	delete(ss.sessions, sessionId)
	ss.sessionsMux.Unlock()
}
