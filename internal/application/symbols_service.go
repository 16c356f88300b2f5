package application

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"strings"
	"time"

	_ "github.com/chai2010/webp"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"plan-intervention-api/internal/domain/model"
	"plan-intervention-api/internal/domain/repository"
)

// tailleMaxImage plafond de la charge utile image d'un symbole personnalisé.
// 2 Mio décodés: assez pour une icône haute résolution, assez petit pour ne
// pas alourdir les documents de plans qui figent ces images.
const tailleMaxImage = 2 << 20

// CustomSymbolRequest charge utile de création ou mise à jour d'un symbole
type CustomSymbolRequest struct {
	Nom         string `json:"nom"`
	ImageBase64 string `json:"image_base64"`
	Couleur     string `json:"couleur"`
}

// SymbolsService catalogue des symboles plaçables: groupes intégrés
// immuables plus le CRUD des symboles personnalisés du service d'incendie
type SymbolsService interface {
	// ListCatalog retourne toujours les groupes intégrés. Si la lecture des
	// symboles personnalisés échoue, le catalogue revient sans eux et
	// l'erreur est retournée à côté: le placement des intégrés reste possible.
	ListCatalog(ctx context.Context, tenantID string) (*model.SymbolCatalog, error)
	CreateCustom(ctx context.Context, tenantID string, req *CustomSymbolRequest) (*model.CustomSymbol, error)
	UpdateCustom(ctx context.Context, tenantID, id string, req *CustomSymbolRequest) (*model.CustomSymbol, error)
	DeleteCustom(ctx context.Context, tenantID, id string) error
}

type symbolsServiceImpl struct {
	symboles repository.CustomSymbolsRepository
	logger   *zap.Logger
}

// NewSymbolsService crée le service de catalogue
func NewSymbolsService(symboles repository.CustomSymbolsRepository, logger *zap.Logger) SymbolsService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &symbolsServiceImpl{symboles: symboles, logger: logger}
}

func (s *symbolsServiceImpl) ListCatalog(ctx context.Context, tenantID string) (*model.SymbolCatalog, error) {
	catalogue := &model.SymbolCatalog{Groupes: model.BuiltInGroups()}

	personnalises, err := s.symboles.ListByTenant(ctx, tenantID)
	if err != nil {
		s.logger.Warn("lecture des symboles personnalisés échouée",
			zap.String("tenant_id", tenantID),
			zap.Error(err))
		return catalogue, err
	}
	catalogue.Personnalises = personnalises
	return catalogue, nil
}

func (s *symbolsServiceImpl) CreateCustom(ctx context.Context, tenantID string, req *CustomSymbolRequest) (*model.CustomSymbol, error) {
	if err := validerSymbole(req); err != nil {
		return nil, err
	}

	symbole := &model.CustomSymbol{
		ID:          uuid.New().String(),
		TenantID:    tenantID,
		Nom:         req.Nom,
		ImageBase64: req.ImageBase64,
		Categorie:   model.CategoriePersonnalise,
		Couleur:     req.Couleur,
		CreatedAt:   time.Now().UTC(),
	}

	if err := s.symboles.Create(ctx, symbole); err != nil {
		return nil, err
	}
	return symbole, nil
}

func (s *symbolsServiceImpl) UpdateCustom(ctx context.Context, tenantID, id string, req *CustomSymbolRequest) (*model.CustomSymbol, error) {
	if err := validerSymbole(req); err != nil {
		return nil, err
	}

	existant, err := s.symboles.GetByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	existant.Nom = req.Nom
	existant.ImageBase64 = req.ImageBase64
	existant.Couleur = req.Couleur

	if err := s.symboles.Update(ctx, existant); err != nil {
		return nil, err
	}
	return existant, nil
}

func (s *symbolsServiceImpl) DeleteCustom(ctx context.Context, tenantID, id string) error {
	// les enregistrements qui référencent ce symbole gardent leur visuel
	// figé; seule l'offre du catalogue change
	return s.symboles.Delete(ctx, tenantID, id)
}

// validerSymbole contrôles de création: nom, image présente, taille bornée,
// et l'image doit se décoder comme un raster (png, jpeg, gif ou webp)
func validerSymbole(req *CustomSymbolRequest) error {
	if req == nil {
		return model.NewValidationError("symbole", "charge utile manquante")
	}
	if strings.TrimSpace(req.Nom) == "" {
		return model.NewValidationError("nom", "le nom est requis")
	}
	if req.ImageBase64 == "" {
		return model.NewValidationError("image", "une image est requise")
	}

	brut, err := decoderDataURL(req.ImageBase64)
	if err != nil {
		return err
	}
	if len(brut) > tailleMaxImage {
		return model.NewValidationError("image", fmt.Sprintf("l'image dépasse la taille maximale de %d octets", tailleMaxImage))
	}
	if _, _, err := image.DecodeConfig(bytes.NewReader(brut)); err != nil {
		return model.NewValidationError("image", "l'image ne se décode pas comme un raster (png, jpeg, gif ou webp)")
	}
	return nil
}

// decoderDataURL accepte un data URL ("data:image/png;base64,....") ou du
// base64 nu, et retourne les octets de l'image
func decoderDataURL(data string) ([]byte, error) {
	charge := data
	if strings.HasPrefix(data, "data:") {
		virgule := strings.Index(data, ",")
		if virgule < 0 {
			return nil, model.NewValidationError("image", "data URL mal formé")
		}
		charge = data[virgule+1:]
	}
	brut, err := base64.StdEncoding.DecodeString(charge)
	if err != nil {
		return nil, model.NewValidationError("image", "encodage base64 invalide")
	}
	return brut, nil
}
