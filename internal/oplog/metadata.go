package oplog

import "context"

type Metadata struct {
	Account  string
	DataName string
}

type metadataKey struct{}

// WithMetadata attaches log metadata to a context, keeping earlier values
// for fields left empty.
func WithMetadata(ctx context.Context, meta Metadata) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	existing, _ := ctx.Value(metadataKey{}).(Metadata)
	merged := Metadata{
		Account:  pick(meta.Account, existing.Account),
		DataName: pick(meta.DataName, existing.DataName),
	}
	return context.WithValue(ctx, metadataKey{}, merged)
}

// MetadataFromContext returns log metadata stored in the context.
func MetadataFromContext(ctx context.Context) Metadata {
	if ctx == nil {
		return Metadata{}
	}
	meta, _ := ctx.Value(metadataKey{}).(Metadata)
	return meta
}

func pick(next, fallback string) string {
	if next != "" {
		return next
	}
	return fallback
}
