package storage

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/creser-psicologia/creser-api/internal/httperr"
)

// MaxProofSize bounds payment-proof uploads.
const MaxProofSize = 2 << 20 // 2MB

var allowedProofTypes = map[string]string{
	"image/jpeg":      "jpg",
	"image/png":       "png",
	"image/webp":      "webp",
	"application/pdf": "pdf",
}

// Store persists raw objects. Implemented by LocalStore and S3Store.
type Store interface {
	Save(ctx context.Context, key string, contentType string, data []byte) (string, error)
}

// ProofStore validates, names and persists payment proofs, generating a webp
// thumbnail for image proofs so admins can review without downloading.
type ProofStore struct {
	store Store
}

func NewProofStore(store Store) *ProofStore {
	return &ProofStore{store: store}
}

func (p *ProofStore) SaveProof(
	ctx context.Context,
	contentType string,
	data []byte,
) (proofPath string, thumbPath string, err error) {

	ext, ok := allowedProofTypes[strings.ToLower(contentType)]
	if !ok {
		return "", "", httperr.ErrBusiness("invalid_proof_type")
	}
	if len(data) == 0 {
		return "", "", httperr.ErrBusiness("empty_proof")
	}
	if len(data) > MaxProofSize {
		return "", "", httperr.ErrBusiness("proof_too_large")
	}

	id := uuid.New().String()
	key := fmt.Sprintf("comprobantes/comprobante_%s.%s", id, ext)

	proofPath, err = p.store.Save(ctx, key, contentType, data)
	if err != nil {
		return "", "", err
	}

	if strings.HasPrefix(contentType, "image/") {
		thumb, terr := Thumbnail(data, contentType)
		if terr == nil {
			thumbKey := fmt.Sprintf("comprobantes/comprobante_%s_thumb.webp", id)
			thumbPath, _ = p.store.Save(ctx, thumbKey, "image/webp", thumb)
		}
	}

	return proofPath, thumbPath, nil
}
