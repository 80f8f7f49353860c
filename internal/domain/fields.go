package domain

// FieldKind enumerates the inputs of the item creation form
type FieldKind int

const (
	FieldTitle FieldKind = iota
	FieldPrice
	FieldImage
)

// FieldDescriptor maps a field kind to its label, input kind and constraints.
// Rules is a go-playground/validator tag applied to the normalized value.
type FieldDescriptor struct {
	Kind      FieldKind
	Name      string
	Label     string
	InputType string
	Min       string
	Step      string
	Rules     string
	Err       error
}

// Fields lists the form fields in validation order
var Fields = []FieldDescriptor{
	{
		Kind:      FieldTitle,
		Name:      "title",
		Label:     "Título",
		InputType: "text",
		Rules:     "notblank",
		Err:       ErrTitleRequired,
	},
	{
		Kind:      FieldPrice,
		Name:      "price",
		Label:     "Preço (R$)",
		InputType: "number",
		Min:       "0.01",
		Step:      "0.01",
		Rules:     "gt=0",
		Err:       ErrInvalidPrice,
	},
	{
		Kind:      FieldImage,
		Name:      "image",
		Label:     "URL da Imagem",
		InputType: "text",
		Rules:     "required,url",
		Err:       ErrInvalidImage,
	},
}

// Descriptor returns the descriptor for the given kind
func Descriptor(kind FieldKind) (FieldDescriptor, bool) {
	for _, f := range Fields {
		if f.Kind == kind {
			return f, true
		}
	}
	return FieldDescriptor{}, false
}

// String returns the form name of the field
func (k FieldKind) String() string {
	switch k {
	case FieldTitle:
		return "title"
	case FieldPrice:
		return "price"
	case FieldImage:
		return "image"
	default:
		return "unknown"
	}
}
