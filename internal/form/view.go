package form

import (
	"github.com/kahvecikaan/buildingMicroservices/menu-web/internal/domain"
	apperrors "github.com/kahvecikaan/buildingMicroservices/menu-web/internal/errors"
)

// Field is a form input ready to be rendered
type Field struct {
	domain.FieldDescriptor
	Value   string
	Invalid bool
}

// View is a render snapshot of a form
type View struct {
	ID    string
	State State
	// Fields in validation order
	Fields []Field
	// FormError is the validation message shown above the inputs
	FormError string
	// SubmitError is the backend failure detail shown below the actions
	SubmitError string
	// Pending disables every input and button
	Pending     bool
	SubmitLabel string
}

// View returns the current render snapshot
func (f *Form) View() View {
	f.mutex.Lock()
	defer f.mutex.Unlock()

	v := View{
		ID:          f.id,
		State:       f.state,
		Pending:     f.state == StateSubmitting || f.state == StateValidating,
		SubmitLabel: "Salvar",
	}
	if v.Pending {
		v.SubmitLabel = "Salvando..."
	}

	for _, desc := range domain.Fields {
		v.Fields = append(v.Fields, Field{
			FieldDescriptor: desc,
			Value:           f.values[desc.Kind],
			Invalid:         f.formErr != nil && f.invalid == desc.Kind,
		})
	}

	if f.formErr != nil {
		v.FormError = apperrors.GetUserMessage(f.formErr)
	}
	if f.submitErr != nil {
		v.SubmitError = apperrors.GetUserMessage(f.submitErr)
	}
	return v
}
