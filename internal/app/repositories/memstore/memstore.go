// Package memstore keeps the register and the certificate counters in process memory.
package memstore

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/yigit/certdesk/internal/app/models"
	"github.com/yigit/certdesk/internal/pkg/apperrors"
)

// StudentStore is a map backed register safe for concurrent use.
type StudentStore struct {
	mu       sync.RWMutex
	students map[string]models.StudentRecord
	now      func() time.Time
}

// NewStudentStore creates an empty register.
func NewStudentStore() *StudentStore {
	return &StudentStore{
		students: make(map[string]models.StudentRecord),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (s *StudentStore) Get(_ context.Context, grn string) (*models.StudentRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.students[grn]
	if !ok {
		return nil, apperrors.ErrStudentNotFound
	}
	return &rec, nil
}

func (s *StudentStore) Insert(_ context.Context, rec *models.StudentRecord) (*models.StudentRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.students[rec.GRN]; ok {
		return nil, apperrors.ErrStudentAlreadyExists
	}
	stored := *rec
	now := s.now()
	stored.CreatedAt = now
	stored.LastUpdated = now
	s.students[rec.GRN] = stored
	return &stored, nil
}

// writable returns the stored record or the error a mutation must fail with. Callers hold mu.
func (s *StudentStore) writable(grn string) (models.StudentRecord, error) {
	rec, ok := s.students[grn]
	if !ok {
		return rec, apperrors.ErrStudentNotFound
	}
	if rec.Frozen {
		return rec, apperrors.ErrStudentFrozen
	}
	return rec, nil
}

func (s *StudentStore) Update(_ context.Context, grn string, patch models.StudentPatch) (*models.StudentRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, err := s.writable(grn)
	if err != nil {
		return nil, err
	}
	patch.Apply(&rec)
	if patch.LastUpdated == nil {
		rec.LastUpdated = s.now()
	}
	s.students[grn] = rec
	return &rec, nil
}

func (s *StudentStore) Delete(_ context.Context, grn string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.writable(grn); err != nil {
		return err
	}
	delete(s.students, grn)
	return nil
}

func (s *StudentStore) ListAll(_ context.Context) ([]*models.StudentRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sorted(), nil
}

func (s *StudentStore) List(_ context.Context, offset uint64, limit int) ([]*models.StudentRecord, int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := s.sorted()
	total := int64(len(all))
	if offset >= uint64(len(all)) {
		return []*models.StudentRecord{}, total, nil
	}
	end := len(all)
	if limit > 0 && int(offset)+limit < end {
		end = int(offset) + limit
	}
	return all[offset:end], total, nil
}

// sorted copies the register ordered by GRN. Callers hold mu.
func (s *StudentStore) sorted() []*models.StudentRecord {
	out := make([]*models.StudentRecord, 0, len(s.students))
	for _, rec := range s.students {
		rec := rec
		out = append(out, &rec)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].GRN < out[j].GRN })
	return out
}

func (s *StudentStore) IncrementGeneratedCount(_ context.Context, grn string, t models.CertificateType) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.students[grn]
	if !ok {
		return apperrors.ErrStudentNotFound
	}
	switch t {
	case models.CertificateLeave:
		rec.LeaveGeneratedCount++
	case models.CertificateBonafide:
		rec.BonafideGeneratedCount++
	default:
		return fmt.Errorf("%w: %q", apperrors.ErrUnknownCertificateType, t)
	}
	s.students[grn] = rec
	return nil
}

func (s *StudentStore) SetFrozen(_ context.Context, grn string, frozen bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.students[grn]
	if !ok {
		return apperrors.ErrStudentNotFound
	}
	rec.Frozen = frozen
	rec.LastUpdated = s.now()
	s.students[grn] = rec
	return nil
}

// CounterStore holds certificate number sequences in memory.
type CounterStore struct {
	mu       sync.Mutex
	counters map[models.CertificateType]int
}

// NewCounterStore creates a store with no counters; call EnsureSeed for each type.
func NewCounterStore() *CounterStore {
	return &CounterStore{counters: make(map[models.CertificateType]int)}
}

func notSeeded(t models.CertificateType) error {
	return apperrors.NewResourceNotFoundError(fmt.Sprintf("certificate counter %q is not seeded", t))
}

func (c *CounterStore) GetNext(_ context.Context, t models.CertificateType) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	next, ok := c.counters[t]
	if !ok {
		return 0, notSeeded(t)
	}
	return next, nil
}

func (c *CounterStore) Increment(_ context.Context, t models.CertificateType) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.counters[t]; !ok {
		return notSeeded(t)
	}
	c.counters[t]++
	return nil
}

func (c *CounterStore) EnsureSeed(_ context.Context, t models.CertificateType, seed int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.counters[t]; !ok {
		c.counters[t] = seed
	}
	return nil
}

func (c *CounterStore) All(_ context.Context) ([]models.CertificateCounter, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]models.CertificateCounter, 0, len(c.counters))
	for t, next := range c.counters {
		out = append(out, models.CertificateCounter{Type: t, NextNumber: next})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Type < out[j].Type })
	return out, nil
}
