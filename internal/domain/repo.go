package domain

import "context"

type SampleRepo interface {
	List(ctx context.Context) ([]Sample, error)
	Insert(ctx context.Context, s *Sample) error
	Update(ctx context.Context, s *Sample) error
}

type InspectionRepo interface {
	List(ctx context.Context) ([]Inspection, error)
	Insert(ctx context.Context, i *Inspection) error
}

type SheetRepo interface {
	List(ctx context.Context) ([]TechnicalSheet, error)
	Insert(ctx context.Context, sh *TechnicalSheet) error
}

type ProviderRepo interface {
	List(ctx context.Context) ([]Provider, error)
	Insert(ctx context.Context, p *Provider) error
	Update(ctx context.Context, p *Provider) error
	Delete(ctx context.Context, id string) error
}

type UserRepo interface {
	List(ctx context.Context) ([]User, error)
	Insert(ctx context.Context, u *User) error
	Delete(ctx context.Context, id string) error
	FindByEmail(ctx context.Context, email string) (*User, error)
}

// FileStorage guarda un archivo binario y devuelve una URL recuperable.
type FileStorage interface {
	Store(ctx context.Context, data []byte, filename, contentType string) (string, error)
}

// SnapshotCache guarda el último snapshot obtenido de cada colección,
// consultado cuando el store remoto no responde.
type SnapshotCache interface {
	Get(ctx context.Context, collection string) ([]byte, error)
	Set(ctx context.Context, collection string, data []byte) error
}
