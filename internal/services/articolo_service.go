package services

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"gestionale-magazzino/internal/cache"
	"gestionale-magazzino/internal/fields"
	"gestionale-magazzino/internal/models"
	"gestionale-magazzino/internal/repository"
)

// Estensioni ammesse per gli allegati caricati.
var estensioniAmmesse = map[string]bool{
	".pdf": true, ".jpg": true, ".jpeg": true, ".png": true,
	".xlsx": true, ".xls": true,
}

// ArticoloService definisce le operazioni applicative sugli articoli e sui
// loro allegati.
type ArticoloService interface {
	// Letture
	List(ctx context.Context, filtro *repository.Filtro) ([]*models.Articolo, error)
	Get(ctx context.Context, id int, ruolo, utente string) (*models.ArticoloWithAllegati, error)

	// Mutazioni singole
	Create(ctx context.Context, form models.ArticoloForm) (*models.Articolo, error)
	Update(ctx context.Context, id int, form models.ArticoloForm) (*models.Articolo, error)
	Duplica(ctx context.Context, id int) (*models.Articolo, error)
	Delete(ctx context.Context, id int) error

	// Mutazioni multiple
	BulkEdit(ctx context.Context, req *models.BulkEditRequest) (int, error)
	BulkDelete(ctx context.Context, ids []int) (int64, error)

	// Allegati
	AggiungiAllegato(ctx context.Context, articoloID int, filename string, src io.Reader) (*models.Allegato, error)
	DeleteAllegato(ctx context.Context, id int) (int, error)

	// Report
	ReportGiacenze(ctx context.Context, ruolo, utente string) ([]*models.ReportRiga, error)
}

// articoloService implementa ArticoloService
type articoloService struct {
	repo         repository.ArticoloRepository
	allegatiRepo repository.AllegatoRepository
	reportCache  *cache.ReportCache
	uploadDir    string
	logger       *zap.Logger
}

// NewArticoloService crea una nuova istanza del service
func NewArticoloService(repo repository.ArticoloRepository, allegatiRepo repository.AllegatoRepository, reportCache *cache.ReportCache, uploadDir string, logger *zap.Logger) ArticoloService {
	return &articoloService{
		repo:         repo,
		allegatiRepo: allegatiRepo,
		reportCache:  reportCache,
		uploadDir:    uploadDir,
		logger:       logger,
	}
}

// List esegue la ricerca filtrata, ultimi inseriti per primi
func (s *articoloService) List(ctx context.Context, filtro *repository.Filtro) ([]*models.Articolo, error) {
	return s.repo.List(ctx, filtro, false)
}

// Get ritorna un articolo con i suoi allegati. Un client può vedere solo gli
// articoli del proprio cliente.
func (s *articoloService) Get(ctx context.Context, id int, ruolo, utente string) (*models.ArticoloWithAllegati, error) {
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

	allegati, err := s.allegatiRepo.ListByArticolo(ctx, id)
	if err != nil {
		return nil, err
	}
	return &models.ArticoloWithAllegati{Articolo: *art, Allegati: allegati}, nil
}

// Create inserisce un nuovo articolo dal form, con misure ricalcolate
func (s *articoloService) Create(ctx context.Context, form models.ArticoloForm) (*models.Articolo, error) {
	art := &models.Articolo{Stato: models.StatoInGiacenza}
	fields.Apply(art, form)
	fields.Ricalcola(art)

	if err := verificaDate(art); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, art); err != nil {
		return nil, err
	}

	s.reportCache.Invalidate(ctx)
	s.logger.Info("Articolo creato",
		zap.Int("id", art.ID),
		zap.String("codice_articolo", art.CodiceArticolo),
		zap.String("cliente", art.Cliente))
	return art, nil
}

// Update applica il form all'articolo esistente e ricalcola le misure
func (s *articoloService) Update(ctx context.Context, id int, form models.ArticoloForm) (*models.Articolo, error) {
	art, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if art == nil {
		return nil, ErrNonTrovato
	}

	fields.Apply(art, form)
	fields.Ricalcola(art)

	if err := verificaDate(art); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, art); err != nil {
		return nil, err
	}

	s.reportCache.Invalidate(ctx)
	s.logger.Info("Articolo aggiornato", zap.Int("id", id))
	return art, nil
}

// Duplica clona un articolo azzerando i campi di uscita: la copia rientra in
// giacenza con data di ingresso odierna e senza DDT di uscita né buono.
func (s *articoloService) Duplica(ctx context.Context, id int) (*models.Articolo, error) {
	art, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if art == nil {
		return nil, ErrNonTrovato
	}

	copia := *art
	copia.ID = 0
	adesso := time.Now()
	oggi := time.Date(adesso.Year(), adesso.Month(), adesso.Day(), 0, 0, 0, 0, time.UTC)
	copia.DataIngresso = &oggi
	copia.DataUscita = nil
	copia.NDdtUscita = ""
	copia.BuonoN = ""
	copia.Stato = models.StatoInGiacenza

	if err := s.repo.Create(ctx, &copia); err != nil {
		return nil, err
	}

	s.reportCache.Invalidate(ctx)
	s.logger.Info("Articolo duplicato",
		zap.Int("origine", id),
		zap.Int("copia", copia.ID))
	return &copia, nil
}

// Delete elimina un articolo: le righe allegato cadono in cascata, i file su
// disco vengono rimossi best-effort.
func (s *articoloService) Delete(ctx context.Context, id int) error {
	allegati, err := s.allegatiRepo.ListByArticolo(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.rimuoviFiles(allegati)
	s.reportCache.Invalidate(ctx)
	s.logger.Info("Articolo eliminato", zap.Int("id", id), zap.Int("allegati", len(allegati)))
	return nil
}

// BulkEdit applica lo stesso insieme sparso di campi a più articoli in
// un'unica transazione, ricalcolando le misure quando il form tocca uno degli
// input di calcolo.
func (s *articoloService) BulkEdit(ctx context.Context, req *models.BulkEditRequest) (int, error) {
	articoli, err := s.repo.ListByIDs(ctx, req.IDs)
	if err != nil {
		return 0, err
	}

	ricalcolo := fields.ToccaMisure(req.Campi)
	for _, art := range articoli {
		fields.Apply(art, req.Campi)
		if ricalcolo {
			fields.Ricalcola(art)
		}
		if err := verificaDate(art); err != nil {
			return 0, fmt.Errorf("articolo %d: %w", art.ID, err)
		}
	}

	if err := s.repo.UpdateBatch(ctx, articoli); err != nil {
		return 0, err
	}

	s.reportCache.Invalidate(ctx)
	s.logger.Info("Modifica multipla applicata",
		zap.Int("articoli", len(articoli)),
		zap.Int("campi", len(req.Campi)))
	return len(articoli), nil
}

// BulkDelete elimina più articoli in un'unica transazione
func (s *articoloService) BulkDelete(ctx context.Context, ids []int) (int64, error) {
	allegati, err := s.allegatiRepo.ListByArticoli(ctx, ids)
	if err != nil {
		return 0, err
	}

	eliminati, err := s.repo.DeleteBatch(ctx, ids)
	if err != nil {
		return 0, err
	}

	for _, lista := range allegati {
		s.rimuoviFiles(lista)
	}

	s.reportCache.Invalidate(ctx)
	s.logger.Info("Eliminazione multipla completata", zap.Int64("articoli", eliminati))
	return eliminati, nil
}

// AggiungiAllegato salva il file nella directory upload e registra i
// metadati. Il nome su disco include id articolo e timestamp per evitare
// collisioni.
func (s *articoloService) AggiungiAllegato(ctx context.Context, articoloID int, filename string, src io.Reader) (*models.Allegato, error) {
	art, err := s.repo.GetByID(ctx, articoloID)
	if err != nil {
		return nil, err
	}
	if art == nil {
		return nil, ErrNonTrovato
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if !estensioniAmmesse[ext] {
		return nil, fmt.Errorf("estensione %q non ammessa", ext)
	}

	nomeSicuro := fmt.Sprintf("%d_%d_%s", articoloID, time.Now().UnixNano(), sanitizza(filename))
	destPath := filepath.Join(s.uploadDir, nomeSicuro)

	dest, err := os.Create(destPath)
	if err != nil {
		return nil, fmt.Errorf("failed to save allegato: %w", err)
	}
	defer dest.Close()
	if _, err := io.Copy(dest, src); err != nil {
		return nil, fmt.Errorf("failed to save allegato: %w", err)
	}

	tipo := models.AllegatoTipoFoto
	if ext == ".pdf" {
		tipo = models.AllegatoTipoDoc
	}

	allegato := &models.Allegato{Filename: nomeSicuro, Tipo: tipo, ArticoloID: articoloID}
	if err := s.allegatiRepo.Create(ctx, allegato); err != nil {
		return nil, err
	}

	s.logger.Info("Allegato caricato",
		zap.Int("articolo_id", articoloID),
		zap.String("filename", nomeSicuro),
		zap.String("tipo", tipo))
	return allegato, nil
}

// DeleteAllegato elimina un allegato: il file su disco best-effort, i
// metadati incondizionatamente. Ritorna l'id dell'articolo proprietario.
func (s *articoloService) DeleteAllegato(ctx context.Context, id int) (int, error) {
	allegato, err := s.allegatiRepo.GetByID(ctx, id)
	if err != nil {
		return 0, err
	}
	if allegato == nil {
		return 0, ErrNonTrovato
	}

	s.rimuoviFiles([]*models.Allegato{allegato})

	if err := s.allegatiRepo.Delete(ctx, id); err != nil {
		return 0, err
	}

	s.logger.Info("Allegato eliminato",
		zap.Int("id", id),
		zap.Int("articolo_id", allegato.ArticoloID))
	return allegato.ArticoloID, nil
}

// ReportGiacenze ritorna l'aggregato per cliente e mese, dalla cache quando
// possibile.
func (s *articoloService) ReportGiacenze(ctx context.Context, ruolo, utente string) ([]*models.ReportRiga, error) {
	firma := cache.Firma(ruolo, utente)
	if righe := s.reportCache.Get(ctx, firma); righe != nil {
		return righe, nil
	}

	filtro := &repository.Filtro{Ruolo: ruolo, Utente: utente}
	righe, err := s.repo.ReportGiacenze(ctx, filtro)
	if err != nil {
		return nil, err
	}

	s.reportCache.Set(ctx, firma, righe)
	return righe, nil
}

// rimuoviFiles cancella i file degli allegati dal disco. Gli errori (file già
// assente, permessi) vengono ignorati: i metadati vanno eliminati comunque.
func (s *articoloService) rimuoviFiles(allegati []*models.Allegato) {
	for _, a := range allegati {
		if err := os.Remove(filepath.Join(s.uploadDir, a.Filename)); err != nil {
			s.logger.Debug("Rimozione file allegato fallita",
				zap.String("filename", a.Filename),
				zap.Error(err))
		}
	}
}

// verificaDate impone data_uscita >= data_ingresso quando entrambe presenti.
func verificaDate(art *models.Articolo) error {
	if art.DataIngresso != nil && art.DataUscita != nil && art.DataUscita.Before(*art.DataIngresso) {
		return ErrDateIncoerenti
	}
	return nil
}

// sanitizza riduce il nome file originale a un nome sicuro per il filesystem.
func sanitizza(filename string) string {
	base := filepath.Base(filename)
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '.', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, base)
}
