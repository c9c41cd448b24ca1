package prescription

import "context"

type Repository interface {
	// Create inserts p under p.ID. It returns ErrDuplicateID when the id is taken.
	Create(ctx context.Context, p *Prescription) error
	GetByID(ctx context.Context, id string) (*Prescription, error)
	ListByPatientName(ctx context.Context, name string, limit, offset int) ([]*Prescription, int, error)
	SearchByDiagnosis(ctx context.Context, term string, limit, offset int) ([]*Prescription, int, error)
}
