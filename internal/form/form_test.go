package form

import (
	"context"
	"errors"
	"github.com/hashicorp/go-hclog"
	"github.com/kahvecikaan/buildingMicroservices/menu-web/internal/domain"
	apperrors "github.com/kahvecikaan/buildingMicroservices/menu-web/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"sync"
	"testing"
)

// recordingSubmitter captures submitted items
type recordingSubmitter struct {
	mutex   sync.Mutex
	items   []domain.NewItem
	err     error
	block   chan struct{}
	entered chan struct{}
}

func (r *recordingSubmitter) Submit(ctx context.Context, item domain.NewItem) error {
	if r.entered != nil {
		close(r.entered)
	}
	if r.block != nil {
		<-r.block
	}
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.items = append(r.items, item)
	return r.err
}

// fieldValue reads a field through the render snapshot
func fieldValue(f *Form, kind domain.FieldKind) string {
	for _, field := range f.View().Fields {
		if field.Kind == kind {
			return field.Value
		}
	}
	return ""
}

func (r *recordingSubmitter) calls() int {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	return len(r.items)
}

func newTestForm(s Submitter, onClose func(string)) *Form {
	return New("form-1", s, domain.NewValidation(), hclog.NewNullLogger(), onClose)
}

func fill(t *testing.T, f *Form, title, price, image string) {
	t.Helper()
	require.NoError(t, f.Set(domain.FieldTitle, title))
	require.NoError(t, f.Set(domain.FieldPrice, price))
	require.NoError(t, f.Set(domain.FieldImage, image))
}

func TestForm_SubmitValid(t *testing.T) {
	testCases := []struct {
		name  string
		title string
		price string
		image string
		want  domain.NewItem
	}{
		{"plain", "Pizza", "29.9", "http://x/a.png", domain.NewItem{Title: "Pizza", Price: 29.9, Image: "http://x/a.png"}},
		{"trims values", "  Pastel ", " 8 ", " https://cdn.example.com/p.png ", domain.NewItem{Title: "Pastel", Price: 8, Image: "https://cdn.example.com/p.png"}},
		{"smallest price", "Bala", "0.01", "https://x.io/b.jpg", domain.NewItem{Title: "Bala", Price: 0.01, Image: "https://x.io/b.jpg"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			sub := &recordingSubmitter{}
			closed := 0
			f := newTestForm(sub, func(id string) {
				assert.Equal(t, "form-1", id)
				closed++
			})
			fill(t, f, tc.title, tc.price, tc.image)

			err := f.Submit(context.Background())

			require.NoError(t, err)
			require.Equal(t, 1, sub.calls())
			assert.Equal(t, tc.want, sub.items[0])
			assert.Equal(t, StateClosed, f.State())
			assert.Equal(t, 1, closed)
			for _, kind := range []domain.FieldKind{domain.FieldTitle, domain.FieldPrice, domain.FieldImage} {
				assert.Empty(t, fieldValue(f, kind))
			}

			// the success handler does not run again
			assert.ErrorIs(t, f.Submit(context.Background()), ErrFormClosed)
			assert.Equal(t, 1, closed)
		})
	}
}

func TestForm_ValidationFailures(t *testing.T) {
	testCases := []struct {
		name    string
		title   string
		price   string
		image   string
		wantErr error
		field   string
	}{
		{"empty title", "", "10", "http://x/a.png", domain.ErrTitleRequired, "title"},
		{"whitespace title", " \t ", "10", "http://x/a.png", domain.ErrTitleRequired, "title"},
		{"title checked first", "", "abc", "nope", domain.ErrTitleRequired, "title"},
		{"non numeric price", "Pizza", "abc", "http://x/a.png", domain.ErrInvalidPrice, "price"},
		{"empty price", "Pizza", "", "http://x/a.png", domain.ErrInvalidPrice, "price"},
		{"zero price", "Pizza", "0", "http://x/a.png", domain.ErrInvalidPrice, "price"},
		{"negative price", "Pizza", "-5", "http://x/a.png", domain.ErrInvalidPrice, "price"},
		{"NaN price", "Pizza", "NaN", "http://x/a.png", domain.ErrInvalidPrice, "price"},
		{"infinite price", "Pizza", "Inf", "http://x/a.png", domain.ErrInvalidPrice, "price"},
		{"price checked before image", "Pizza", "0", "", domain.ErrInvalidPrice, "price"},
		{"empty image", "Pizza", "10", "   ", domain.ErrInvalidImage, "image"},
		{"relative image", "Pizza", "10", "/img/a.png", domain.ErrInvalidImage, "image"},
		{"not a url", "Pizza", "10", "just text", domain.ErrInvalidImage, "image"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			sub := &recordingSubmitter{}
			f := newTestForm(sub, nil)
			fill(t, f, tc.title, tc.price, tc.image)

			err := f.Submit(context.Background())

			require.Error(t, err)
			assert.ErrorIs(t, err, tc.wantErr)
			assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeValidation))
			assert.Equal(t, 0, sub.calls())
			assert.Equal(t, StateInvalid, f.State())

			v := f.View()
			assert.Equal(t, tc.wantErr.Error(), v.FormError)
			for _, field := range v.Fields {
				assert.Equal(t, field.Name == tc.field, field.Invalid, field.Name)
			}

			// editing leaves the invalid state and keeps the values
			require.NoError(t, f.Set(domain.FieldTitle, "Pizza"))
			assert.Equal(t, StateEditing, f.State())
			assert.Equal(t, tc.price, fieldValue(f, domain.FieldPrice))
		})
	}
}

func TestForm_BackendFailureKeepsFormOpen(t *testing.T) {
	sub := &recordingSubmitter{err: apperrors.NewTransportError("createItem", 500, errors.New("createItem (status 500): 500 Internal Server Error"))}
	closed := 0
	f := newTestForm(sub, func(string) { closed++ })
	fill(t, f, "Pizza", "29.9", "http://x/a.png")

	err := f.Submit(context.Background())

	require.Error(t, err)
	assert.Equal(t, StateError, f.State())
	assert.Equal(t, 0, closed)
	assert.Equal(t, "Pizza", fieldValue(f, domain.FieldTitle))

	v := f.View()
	assert.Contains(t, v.SubmitError, "status 500")
	assert.Empty(t, v.FormError)
	assert.False(t, v.Pending)

	require.NoError(t, f.Set(domain.FieldPrice, "30"))
	assert.Equal(t, StateEditing, f.State())

	sub.mutex.Lock()
	sub.err = nil
	sub.mutex.Unlock()
	require.NoError(t, f.Submit(context.Background()))
	assert.Equal(t, 2, sub.calls())
	assert.Equal(t, 1, closed)
}

func TestForm_SubmitWhilePending(t *testing.T) {
	sub := &recordingSubmitter{block: make(chan struct{}), entered: make(chan struct{})}
	f := newTestForm(sub, nil)
	fill(t, f, "Pizza", "29.9", "http://x/a.png")

	done := make(chan error)
	go func() { done <- f.Submit(context.Background()) }()
	<-sub.entered

	assert.Equal(t, StateSubmitting, f.State())
	v := f.View()
	assert.True(t, v.Pending)
	assert.Equal(t, "Salvando...", v.SubmitLabel)

	assert.ErrorIs(t, f.Submit(context.Background()), ErrSubmissionPending)
	assert.ErrorIs(t, f.Set(domain.FieldTitle, "Other"), ErrSubmissionPending)
	assert.ErrorIs(t, f.Cancel(), ErrSubmissionPending)

	close(sub.block)
	require.NoError(t, <-done)
	assert.Equal(t, 1, sub.calls())
}

func TestForm_Cancel(t *testing.T) {
	sub := &recordingSubmitter{}
	closed := 0
	f := newTestForm(sub, func(string) { closed++ })
	fill(t, f, "Pizza", "29.9", "http://x/a.png")

	require.NoError(t, f.Cancel())

	assert.Equal(t, StateClosed, f.State())
	assert.Equal(t, 1, closed)
	assert.Equal(t, 0, sub.calls())
	assert.Empty(t, fieldValue(f, domain.FieldTitle))
	assert.ErrorIs(t, f.Cancel(), ErrFormClosed)
	assert.ErrorIs(t, f.Set(domain.FieldTitle, "x"), ErrFormClosed)
}

func TestForm_ViewDescriptors(t *testing.T) {
	f := newTestForm(&recordingSubmitter{}, nil)
	require.NoError(t, f.Set(domain.FieldTitle, "Pizza"))

	v := f.View()

	require.Len(t, v.Fields, 3)
	assert.Equal(t, "Título", v.Fields[0].Label)
	assert.Equal(t, "Pizza", v.Fields[0].Value)
	assert.Equal(t, "number", v.Fields[1].InputType)
	assert.Equal(t, "0.01", v.Fields[1].Step)
	assert.Equal(t, "URL da Imagem", v.Fields[2].Label)
	assert.Equal(t, "Salvar", v.SubmitLabel)
	assert.Equal(t, StateEditing, v.State)
}

func TestForm_SetUnknownField(t *testing.T) {
	f := New("f1", &recordingSubmitter{}, domain.NewValidation(), hclog.NewNullLogger(), nil)

	assert.ErrorIs(t, f.Set(domain.FieldKind(42), "x"), ErrUnknownField)
	assert.Equal(t, StateEditing, f.State())
}
