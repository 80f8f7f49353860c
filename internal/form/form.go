package form

import (
	"context"
	"errors"
	"github.com/hashicorp/go-hclog"
	"github.com/kahvecikaan/buildingMicroservices/menu-web/internal/domain"
	apperrors "github.com/kahvecikaan/buildingMicroservices/menu-web/internal/errors"
	"math"
	"strconv"
	"strings"
	"sync"
	"time"
)

// State of a creation form
type State int

const (
	StateEditing State = iota
	StateValidating
	StateInvalid
	StateSubmitting
	StateSuccess
	StateError
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateEditing:
		return "editing"
	case StateValidating:
		return "validating"
	case StateInvalid:
		return "invalid"
	case StateSubmitting:
		return "submitting"
	case StateSuccess:
		return "success"
	case StateError:
		return "error"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

var (
	ErrSubmissionPending = errors.New("a submission is already in progress")
	ErrFormClosed        = errors.New("form is closed")
	ErrUnknownField      = errors.New("unknown form field")
)

// Submitter sends a validated item to the backend
type Submitter interface {
	Submit(ctx context.Context, item domain.NewItem) error
}

// Form collects and validates a new menu item
type Form struct {
	id         string
	submitter  Submitter
	validation *domain.Validation
	logger     hclog.Logger
	onClose    func(id string)

	mutex      sync.Mutex
	state      State
	values     map[domain.FieldKind]string
	invalid    domain.FieldKind
	formErr    error
	submitErr  error
	lastActive time.Time
}

// New creates a form in the Editing state. onClose, if set, runs once the
// form closes after a successful submission or a cancel.
func New(
	id string,
	submitter Submitter,
	validation *domain.Validation,
	logger hclog.Logger,
	onClose func(id string)) *Form {
	return &Form{
		id:         id,
		submitter:  submitter,
		validation: validation,
		logger:     logger,
		onClose:    onClose,
		state:      StateEditing,
		values:     make(map[domain.FieldKind]string),
		invalid:    -1,
		lastActive: time.Now(),
	}
}

func (f *Form) ID() string {
	return f.id
}

func (f *Form) State() State {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	return f.state
}

// Set edits a field. Leaving Invalid or Error goes back to Editing.
func (f *Form) Set(kind domain.FieldKind, value string) error {
	if _, ok := domain.Descriptor(kind); !ok {
		return ErrUnknownField
	}

	f.mutex.Lock()
	defer f.mutex.Unlock()

	switch f.state {
	case StateClosed:
		return ErrFormClosed
	case StateSubmitting, StateValidating:
		return ErrSubmissionPending
	}

	f.values[kind] = value
	f.state = StateEditing
	f.lastActive = time.Now()
	return nil
}

// Submit validates the fields in order and, when they pass, sends the item.
// Validation failures return an application validation error and make no request.
func (f *Form) Submit(ctx context.Context) error {
	f.mutex.Lock()
	switch f.state {
	case StateClosed:
		f.mutex.Unlock()
		return ErrFormClosed
	case StateSubmitting, StateValidating:
		f.mutex.Unlock()
		return ErrSubmissionPending
	}

	f.state = StateValidating
	f.formErr = nil
	f.submitErr = nil
	f.invalid = -1
	f.lastActive = time.Now()

	item, err := f.validateLocked()
	if err != nil {
		f.state = StateInvalid
		f.formErr = err
		f.mutex.Unlock()
		f.logger.Debug("Form rejected", "form", f.id, "error", err)
		return err
	}

	f.state = StateSubmitting
	f.mutex.Unlock()

	f.logger.Debug("Submitting form", "form", f.id, "title", item.Title)
	err = f.submitter.Submit(ctx, item)

	f.mutex.Lock()
	f.lastActive = time.Now()
	if err != nil {
		f.state = StateError
		f.submitErr = err
		f.mutex.Unlock()
		return err
	}

	f.state = StateSuccess
	closed := f.enterLocked(StateSuccess)
	f.mutex.Unlock()

	closed()
	return nil
}

// Cancel closes the form without submitting and discards its values
func (f *Form) Cancel() error {
	f.mutex.Lock()
	switch f.state {
	case StateClosed:
		f.mutex.Unlock()
		return ErrFormClosed
	case StateSubmitting, StateValidating:
		f.mutex.Unlock()
		return ErrSubmissionPending
	}

	closed := f.enterLocked(StateClosed)
	f.mutex.Unlock()

	closed()
	return nil
}

// enterLocked runs the transition handler of a state. The returned func must
// be called once the lock is released.
func (f *Form) enterLocked(state State) func() {
	switch state {
	case StateSuccess, StateClosed:
		f.values = make(map[domain.FieldKind]string)
		f.formErr = nil
		f.submitErr = nil
		f.invalid = -1
		f.state = StateClosed
		return func() {
			if f.onClose != nil {
				f.onClose(f.id)
			}
		}
	default:
		f.state = state
		return func() {}
	}
}

func (f *Form) validateLocked() (domain.NewItem, error) {
	var item domain.NewItem

	for _, desc := range domain.Fields {
		raw := strings.TrimSpace(f.values[desc.Kind])

		var err error
		switch desc.Kind {
		case domain.FieldTitle:
			item.Title = raw
			err = f.validation.ValidateField(desc, raw)
		case domain.FieldPrice:
			price, perr := strconv.ParseFloat(raw, 64)
			if perr != nil || math.IsInf(price, 0) {
				err = desc.Err
				break
			}
			item.Price = price
			err = f.validation.ValidateField(desc, price)
		case domain.FieldImage:
			item.Image = raw
			err = f.validation.ValidateField(desc, raw)
		}

		if err != nil {
			f.invalid = desc.Kind
			return item, apperrors.NewValidationError(desc.Name, err)
		}
	}

	if errs := f.validation.Validate(&item); len(errs) > 0 {
		return item, apperrors.NewValidationError(errs[0].Field, errs.First())
	}
	return item, nil
}

// expired reports whether an idle form outlived ttl
func (f *Form) expired(now time.Time, ttl time.Duration) bool {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	if f.state == StateSubmitting || f.state == StateValidating {
		return false
	}
	return now.Sub(f.lastActive) > ttl
}
