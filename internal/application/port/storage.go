package port

import "context"

// ReceiptStorage stores uploaded receipt artifacts and hands back stable
// references that expense items carry.
type ReceiptStorage interface {
	// Save stores the uploaded content under a fresh reference. filename is
	// only used for its extension.
	Save(ctx context.Context, filename string, content []byte) (string, error)

	// Read returns the stored artifact for the reference.
	Read(ctx context.Context, ref string) ([]byte, error)

	// Exists reports whether the reference resolves to a stored artifact.
	Exists(ctx context.Context, ref string) bool

	// Preview returns a PNG preview of the artifact. PDF receipts are
	// rendered to an image of their first page; images pass through.
	Preview(ctx context.Context, ref string) ([]byte, string, error)
}
