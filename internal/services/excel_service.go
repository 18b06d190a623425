package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"gestionale-magazzino/internal/cache"
	"gestionale-magazzino/internal/fields"
	"gestionale-magazzino/internal/models"
	"gestionale-magazzino/internal/repository"
	"gestionale-magazzino/internal/store"
)

// Ordine delle colonne del foglio di esportazione.
var colonneExport = []string{
	"id", "codice_articolo", "descrizione", "cliente", "fornitore",
	"data_ingresso", "n_ddt_ingresso", "commessa", "ordine", "n_colli",
	"peso", "larghezza", "lunghezza", "altezza", "m2", "m3", "posizione",
	"stato", "data_uscita", "n_ddt_uscita", "buono_n", "pezzo", "protocollo",
	"serial_number", "n_arrivo", "ns_rif", "mezzi_in_uscita", "note",
	"allegati",
}

// ExcelService importa ed esporta articoli da fogli di calcolo.
type ExcelService interface {
	Import(ctx context.Context, src io.Reader, profilo string) (*models.ImportResponse, error)
	Export(ctx context.Context, filtro *repository.Filtro, ids []int) ([]byte, error)
	Profili() ([]string, error)
}

type excelService struct {
	repo         repository.ArticoloRepository
	allegatiRepo repository.AllegatoRepository
	mappe        *store.MappeStore
	reportCache  *cache.ReportCache
	logger       *zap.Logger
}

// NewExcelService crea una nuova istanza del service
func NewExcelService(repo repository.ArticoloRepository, allegatiRepo repository.AllegatoRepository, mappe *store.MappeStore, reportCache *cache.ReportCache, logger *zap.Logger) ExcelService {
	return &excelService{
		repo:         repo,
		allegatiRepo: allegatiRepo,
		mappe:        mappe,
		reportCache:  reportCache,
		logger:       logger,
	}
}

// Profili ritorna i nomi dei profili di importazione disponibili.
func (s *excelService) Profili() ([]string, error) {
	profili, err := s.mappe.All()
	if err != nil {
		return nil, err
	}
	nomi := make([]string, 0, len(profili))
	for nome := range profili {
		nomi = append(nomi, nome)
	}
	return nomi, nil
}

// Import legge il foglio con la mappa colonne del profilo indicato e inserisce
// gli articoli in un'unica transazione: qualunque errore annulla l'intero
// batch. Le righe con tutte le colonne mappate vuote vengono saltate.
func (s *excelService) Import(ctx context.Context, src io.Reader, profilo string) (*models.ImportResponse, error) {
	mappa, err := s.mappe.Get(profilo)
	if err != nil {
		return nil, err
	}

	f, err := excelize.OpenReader(src)
	if err != nil {
		return nil, fmt.Errorf("failed to open excel: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	righe, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}
	if len(righe) <= mappa.HeaderRow {
		return &models.ImportResponse{Success: true, Message: "Nessuna riga da importare"}, nil
	}

	// Indice di colonna per ogni intestazione sorgente
	intestazioni := map[string]int{}
	for idx, nome := range righe[mappa.HeaderRow] {
		intestazioni[strings.TrimSpace(nome)] = idx
	}

	var articoli []*models.Articolo
	saltate := 0
	for _, riga := range righe[mappa.HeaderRow+1:] {
		form := models.ArticoloForm{}
		vuota := true
		for colonna, campo := range mappa.ColumnMap {
			idx, ok := intestazioni[colonna]
			if !ok {
				continue
			}
			valore := ""
			if idx < len(riga) {
				valore = normalizzaCella(riga[idx])
			}
			if valore != "" {
				vuota = false
			}
			form[campo] = valore
		}
		if vuota {
			saltate++
			continue
		}

		art := &models.Articolo{Stato: models.StatoInGiacenza}
		fields.Apply(art, form)
		fields.Ricalcola(art)
		articoli = append(articoli, art)
	}

	if len(articoli) > 0 {
		if err := s.repo.CreateBatch(ctx, articoli); err != nil {
			return nil, fmt.Errorf("importazione annullata: %w", err)
		}
		s.reportCache.Invalidate(ctx)
	}

	s.logger.Info("Importazione Excel completata",
		zap.String("profilo", profilo),
		zap.Int("aggiunti", len(articoli)),
		zap.Int("saltate", saltate))

	return &models.ImportResponse{
		Success:  true,
		Message:  fmt.Sprintf("Importazione completata. %d articoli aggiunti.", len(articoli)),
		Aggiunti: len(articoli),
		Saltate:  saltate,
	}, nil
}

// Export produce il foglio "Giacenze" con tutti i campi più l'elenco dei
// nomi file degli allegati. Ordine ascendente per id; la restrizione di ruolo
// del filtro resta applicata anche quando si esporta un sottoinsieme di id.
func (s *excelService) Export(ctx context.Context, filtro *repository.Filtro, ids []int) ([]byte, error) {
	articoli, err := s.repo.List(ctx, filtro, true)
	if err != nil {
		return nil, err
	}

	if len(ids) > 0 {
		selezione := make(map[int]bool, len(ids))
		for _, id := range ids {
			selezione[id] = true
		}
		filtrati := articoli[:0]
		for _, art := range articoli {
			if selezione[art.ID] {
				filtrati = append(filtrati, art)
			}
		}
		articoli = filtrati
	}
	if len(articoli) == 0 {
		return nil, ErrNonTrovato
	}

	articoloIDs := make([]int, len(articoli))
	for i, art := range articoli {
		articoloIDs[i] = art.ID
	}
	allegati, err := s.allegatiRepo.ListByArticoli(ctx, articoloIDs)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()
	const sheet = "Giacenze"
	f.SetSheetName(f.GetSheetName(0), sheet)

	for col, nome := range colonneExport {
		cella, _ := excelize.CoordinatesToCellName(col+1, 1)
		f.SetCellValue(sheet, cella, nome)
	}

	for rigaIdx, art := range articoli {
		valori := valoriExport(art, allegati[art.ID])
		for col, valore := range valori {
			cella, _ := excelize.CoordinatesToCellName(col+1, rigaIdx+2)
			f.SetCellValue(sheet, cella, valore)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to write excel: %w", err)
	}

	s.logger.Info("Esportazione Excel completata", zap.Int("articoli", len(articoli)))
	return buf.Bytes(), nil
}

func valoriExport(art *models.Articolo, allegati []*models.Allegato) []any {
	nomi := make([]string, len(allegati))
	for i, a := range allegati {
		nomi[i] = a.Filename
	}

	return []any{
		art.ID, art.CodiceArticolo, art.Descrizione, art.Cliente, art.Fornitore,
		dataExport(art.DataIngresso), art.NDdtIngresso, art.Commessa, art.Ordine,
		intExport(art.NColli), floatExport(art.Peso), floatExport(art.Larghezza),
		floatExport(art.Lunghezza), floatExport(art.Altezza), floatExport(art.M2),
		floatExport(art.M3), art.Posizione, art.Stato, dataExport(art.DataUscita),
		art.NDdtUscita, art.BuonoN, art.Pezzo, art.Protocollo, art.SerialNumber,
		art.NArrivo, art.NsRif, art.MezziInUscita, art.Note,
		strings.Join(nomi, ", "),
	}
}

func dataExport(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02")
}

func intExport(v *int) any {
	if v == nil {
		return ""
	}
	return *v
}

func floatExport(v *float64) any {
	if v == nil {
		return ""
	}
	return *v
}

// normalizzaCella riporta a vuoto i segnaposto di cella mancante prodotti dai
// tracciati dei fornitori ("none", "nan").
func normalizzaCella(valore string) string {
	valore = strings.TrimSpace(valore)
	switch strings.ToLower(valore) {
	case "none", "nan":
		return ""
	}
	return valore
}
