package form

import (
	"github.com/google/uuid"
	"github.com/hashicorp/go-hclog"
	"github.com/kahvecikaan/buildingMicroservices/menu-web/internal/domain"
	"sync"
	"time"
)

// Store keeps the open creation forms by id
type Store struct {
	submitter  Submitter
	validation *domain.Validation
	ttl        time.Duration
	logger     hclog.Logger

	mutex sync.Mutex
	forms map[string]*Form
}

func NewStore(
	submitter Submitter,
	validation *domain.Validation,
	ttl time.Duration,
	logger hclog.Logger) *Store {
	return &Store{
		submitter:  submitter,
		validation: validation,
		ttl:        ttl,
		logger:     logger,
		forms:      make(map[string]*Form),
	}
}

// Open creates a new form; it is dropped from the store once closed
func (s *Store) Open() *Form {
	s.Sweep(time.Now())

	id := uuid.NewString()
	f := New(id, s.submitter, s.validation, s.logger, s.remove)

	s.mutex.Lock()
	s.forms[id] = f
	s.mutex.Unlock()

	s.logger.Debug("Opened form", "form", id)
	return f
}

func (s *Store) Get(id string) (*Form, bool) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	f, ok := s.forms[id]
	return f, ok
}

func (s *Store) Len() int {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return len(s.forms)
}

// Sweep drops forms idle for longer than the store ttl
func (s *Store) Sweep(now time.Time) int {
	if s.ttl <= 0 {
		return 0
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	removed := 0
	for id, f := range s.forms {
		if f.expired(now, s.ttl) {
			delete(s.forms, id)
			removed++
		}
	}
	if removed > 0 {
		s.logger.Debug("Swept idle forms", "count", removed)
	}
	return removed
}

func (s *Store) remove(id string) {
	s.mutex.Lock()
	delete(s.forms, id)
	s.mutex.Unlock()
	s.logger.Debug("Closed form", "form", id)
}
