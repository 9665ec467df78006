package domain

import (
	"errors"
	"reflect"
	"testing"
)

func TestFieldsValidate(t *testing.T) {
	tests := []struct {
		name    string
		fields  Fields
		missing []string
	}{
		{
			name:   "all required present",
			fields: Fields{Name: "Ana", Surname: "Diaz", Phone: "555-1111"},
		},
		{
			name:   "optional fields empty",
			fields: Fields{Name: "Ana", Surname: "Diaz", Phone: "555-1111", Email: "", Address: ""},
		},
		{
			name:    "missing name",
			fields:  Fields{Surname: "Diaz", Phone: "555-1111"},
			missing: []string{"name"},
		},
		{
			name:    "blank surname",
			fields:  Fields{Name: "Ana", Surname: "   ", Phone: "555-1111"},
			missing: []string{"surname"},
		},
		{
			name:    "everything missing",
			fields:  Fields{Email: "ana@example.com"},
			missing: []string{"name", "surname", "phone"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.fields.Validate()
			if tt.missing == nil {
				if err != nil {
					t.Fatalf("Validate() error = %v, want nil", err)
				}
				return
			}

			if !errors.Is(err, ErrValidation) {
				t.Fatalf("Validate() error = %v, want ErrValidation", err)
			}

			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("Validate() error type = %T, want *ValidationError", err)
			}
			if !reflect.DeepEqual(verr.Fields, tt.missing) {
				t.Errorf("missing fields = %v, want %v", verr.Fields, tt.missing)
			}
		})
	}
}

func TestErrorsMatchSentinels(t *testing.T) {
	if !errors.Is(&NotFoundError{ID: 3}, ErrNotFound) {
		t.Error("NotFoundError should match ErrNotFound")
	}

	cause := errors.New("disk full")
	ioErr := &IOError{Op: "write", Path: "images/a.png", Err: cause}
	if !errors.Is(ioErr, ErrIO) {
		t.Error("IOError should match ErrIO")
	}
	if !errors.Is(ioErr, cause) {
		t.Error("IOError should unwrap to its cause")
	}
}
