package services

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"gestionale-magazzino/internal/cache"
	"gestionale-magazzino/internal/models"
	"gestionale-magazzino/internal/pdf"
	"gestionale-magazzino/internal/repository"
	"gestionale-magazzino/internal/store"
)

// DocumentoService genera i documenti del magazzino: buono di prelievo,
// documento di trasporto, etichetta colli.
type DocumentoService interface {
	GeneraBuono(ctx context.Context, ids []int, ruolo, utente string) ([]byte, error)
	EmettiDdt(ctx context.Context, ids []int, destinatario string) (string, []byte, error)
	GeneraEtichetta(ctx context.Context, id int, ruolo, utente string) ([]byte, error)
}

type documentoService struct {
	repo        repository.ArticoloRepository
	progressivi *store.ProgressiviStore
	destinatari *store.DestinatariStore
	reportCache *cache.ReportCache
	logger      *zap.Logger
}

// NewDocumentoService crea una nuova istanza del service
func NewDocumentoService(repo repository.ArticoloRepository, progressivi *store.ProgressiviStore, destinatari *store.DestinatariStore, reportCache *cache.ReportCache, logger *zap.Logger) DocumentoService {
	return &documentoService{
		repo:        repo,
		progressivi: progressivi,
		destinatari: destinatari,
		reportCache: reportCache,
		logger:      logger,
	}
}

// GeneraBuono produce il PDF del buono di prelievo. Un client può includere
// solo articoli del proprio cliente.
func (s *documentoService) GeneraBuono(ctx context.Context, ids []int, ruolo, utente string) ([]byte, error) {
	articoli, err := s.caricaSelezione(ctx, ids, ruolo, utente)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Buono di prelievo generato", zap.Int("articoli", len(articoli)))
	return pdf.Buono(articoli)
}

// EmettiDdt emette un documento di trasporto: alloca il numero progressivo,
// timbra uscita su tutti gli articoli e produce il PDF.
//
// L'emissione su un articolo già uscito viene rifiutata prima di toccare il
// contatore: un numero non va mai bruciato su una richiesta respinta.
func (s *documentoService) EmettiDdt(ctx context.Context, ids []int, destinatario string) (string, []byte, error) {
	articoli, err := s.caricaSelezione(ctx, ids, models.RuoloAdmin, "")
	if err != nil {
		return "", nil, err
	}
	for _, art := range articoli {
		if art.Uscito() {
			return "", nil, ErrGiaUscito
		}
	}

	var profilo *models.Destinatario
	if destinatario != "" {
		profilo = s.destinatari.Get(destinatario)
	}

	adesso := time.Now()
	numero, err := s.progressivi.Next(adesso)
	if err != nil {
		return "", nil, err
	}

	oggi := time.Date(adesso.Year(), adesso.Month(), adesso.Day(), 0, 0, 0, 0, time.UTC)
	if err := s.repo.SegnaUscita(ctx, ids, numero, oggi); err != nil {
		return "", nil, err
	}

	// Il PDF riflette lo stato timbrato
	for _, art := range articoli {
		art.NDdtUscita = numero
		art.DataUscita = &oggi
	}

	s.reportCache.Invalidate(ctx)
	s.logger.Info("DDT emesso",
		zap.String("numero", numero),
		zap.Int("articoli", len(articoli)),
		zap.String("destinatario", destinatario))

	doc, err := pdf.Ddt(numero, oggi, articoli, profilo)
	if err != nil {
		return "", nil, err
	}
	return numero, doc, nil
}

// GeneraEtichetta produce l'etichetta colli di un singolo articolo.
func (s *documentoService) GeneraEtichetta(ctx context.Context, id int, ruolo, utente string) ([]byte, error) {
	art, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if art == nil {
		return nil, ErrNonTrovato
	}
	if ruolo == models.RuoloClient && !strings.EqualFold(art.Cliente, utente) {
		return nil, ErrNonAutorizzato
	}
	return pdf.Etichetta(art)
}

// caricaSelezione carica gli articoli selezionati applicando la restrizione
// di ruolo: per un client la selezione non può contenere articoli altrui.
func (s *documentoService) caricaSelezione(ctx context.Context, ids []int, ruolo, utente string) ([]*models.Articolo, error) {
	articoli, err := s.repo.ListByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	if len(articoli) == 0 {
		return nil, ErrNonTrovato
	}
	if ruolo == models.RuoloClient {
		for _, art := range articoli {
			if !strings.EqualFold(art.Cliente, utente) {
				return nil, ErrNonAutorizzato
			}
		}
	}
	return articoli, nil
}
