package services

import (
	"context"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"gestionale-magazzino/internal/cache"
	"gestionale-magazzino/internal/models"
	"gestionale-magazzino/internal/repository"
)

// nuovaCacheTest costruisce una ReportCache con un client Redis irraggiungibile:
// il livello L2 fallisce in silenzio e resta attivo solo il livello L1.
func nuovaCacheTest() *cache.ReportCache {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 10 * time.Millisecond,
	})
	return cache.NewReportCache(client, time.Minute, zap.NewNop())
}

// fakeArticoloRepo è un'implementazione in memoria di ArticoloRepository.
type fakeArticoloRepo struct {
	articoli map[int]*models.Articolo
	nextID   int

	chiamateReport int
	report         []*models.ReportRiga
}

func nuovoFakeArticoloRepo() *fakeArticoloRepo {
	return &fakeArticoloRepo{articoli: map[int]*models.Articolo{}}
}

func (r *fakeArticoloRepo) GetByID(_ context.Context, id int) (*models.Articolo, error) {
	art, ok := r.articoli[id]
	if !ok {
		return nil, nil
	}
	copia := *art
	return &copia, nil
}

func (r *fakeArticoloRepo) Create(_ context.Context, art *models.Articolo) error {
	r.nextID++
	art.ID = r.nextID
	copia := *art
	r.articoli[art.ID] = &copia
	return nil
}

func (r *fakeArticoloRepo) Update(_ context.Context, art *models.Articolo) error {
	copia := *art
	r.articoli[art.ID] = &copia
	return nil
}

func (r *fakeArticoloRepo) Delete(_ context.Context, id int) error {
	delete(r.articoli, id)
	return nil
}

func (r *fakeArticoloRepo) List(_ context.Context, filtro *repository.Filtro, ordineAsc bool) ([]*models.Articolo, error) {
	var lista []*models.Articolo
	for _, art := range r.articoli {
		if filtro.Ruolo == models.RuoloClient && !strings.EqualFold(art.Cliente, filtro.Utente) {
			continue
		}
		copia := *art
		lista = append(lista, &copia)
	}
	sort.Slice(lista, func(i, j int) bool {
		if ordineAsc {
			return lista[i].ID < lista[j].ID
		}
		return lista[i].ID > lista[j].ID
	})
	return lista, nil
}

func (r *fakeArticoloRepo) ListByIDs(_ context.Context, ids []int) ([]*models.Articolo, error) {
	var lista []*models.Articolo
	for _, id := range ids {
		if art, ok := r.articoli[id]; ok {
			copia := *art
			lista = append(lista, &copia)
		}
	}
	sort.Slice(lista, func(i, j int) bool { return lista[i].ID < lista[j].ID })
	return lista, nil
}

func (r *fakeArticoloRepo) CreateBatch(ctx context.Context, articoli []*models.Articolo) error {
	for _, art := range articoli {
		if err := r.Create(ctx, art); err != nil {
			return err
		}
	}
	return nil
}

func (r *fakeArticoloRepo) UpdateBatch(ctx context.Context, articoli []*models.Articolo) error {
	for _, art := range articoli {
		if err := r.Update(ctx, art); err != nil {
			return err
		}
	}
	return nil
}

func (r *fakeArticoloRepo) DeleteBatch(_ context.Context, ids []int) (int64, error) {
	var eliminati int64
	for _, id := range ids {
		if _, ok := r.articoli[id]; ok {
			delete(r.articoli, id)
			eliminati++
		}
	}
	return eliminati, nil
}

func (r *fakeArticoloRepo) SegnaUscita(_ context.Context, ids []int, nDdt string, dataUscita time.Time) error {
	for _, id := range ids {
		if art, ok := r.articoli[id]; ok {
			art.NDdtUscita = nDdt
			art.DataUscita = &dataUscita
			art.Stato = "Uscito"
		}
	}
	return nil
}

func (r *fakeArticoloRepo) ReportGiacenze(_ context.Context, _ *repository.Filtro) ([]*models.ReportRiga, error) {
	r.chiamateReport++
	return r.report, nil
}

// fakeAllegatoRepo è un'implementazione in memoria di AllegatoRepository.
type fakeAllegatoRepo struct {
	allegati map[int]*models.Allegato
	nextID   int
}

func nuovoFakeAllegatoRepo() *fakeAllegatoRepo {
	return &fakeAllegatoRepo{allegati: map[int]*models.Allegato{}}
}

func (r *fakeAllegatoRepo) GetByID(_ context.Context, id int) (*models.Allegato, error) {
	a, ok := r.allegati[id]
	if !ok {
		return nil, nil
	}
	copia := *a
	return &copia, nil
}

func (r *fakeAllegatoRepo) Create(_ context.Context, allegato *models.Allegato) error {
	r.nextID++
	allegato.ID = r.nextID
	copia := *allegato
	r.allegati[allegato.ID] = &copia
	return nil
}

func (r *fakeAllegatoRepo) Delete(_ context.Context, id int) error {
	delete(r.allegati, id)
	return nil
}

func (r *fakeAllegatoRepo) ListByArticolo(_ context.Context, articoloID int) ([]*models.Allegato, error) {
	var lista []*models.Allegato
	for _, a := range r.allegati {
		if a.ArticoloID == articoloID {
			copia := *a
			lista = append(lista, &copia)
		}
	}
	sort.Slice(lista, func(i, j int) bool { return lista[i].ID < lista[j].ID })
	return lista, nil
}

func (r *fakeAllegatoRepo) ListByArticoli(ctx context.Context, articoloIDs []int) (map[int][]*models.Allegato, error) {
	result := map[int][]*models.Allegato{}
	for _, id := range articoloIDs {
		lista, err := r.ListByArticolo(ctx, id)
		if err != nil {
			return nil, err
		}
		if len(lista) > 0 {
			result[id] = lista
		}
	}
	return result, nil
}

// articoloGiacenza costruisce un articolo in giacenza per i test.
func articoloGiacenza(cliente string) *models.Articolo {
	ingresso := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)
	colli := 2
	l, w, h := 1.0, 2.0, 0.5
	return &models.Articolo{
		CodiceArticolo: "ART-TEST",
		Descrizione:    "Pompa centrifuga",
		Cliente:        cliente,
		NColli:         &colli,
		Lunghezza:      &l,
		Larghezza:      &w,
		Altezza:        &h,
		DataIngresso:   &ingresso,
		Stato:          models.StatoInGiacenza,
	}
}

func nuovoArticoloServiceTest(t *testing.T, repo *fakeArticoloRepo, allegati *fakeAllegatoRepo) ArticoloService {
	t.Helper()
	return NewArticoloService(repo, allegati, nuovaCacheTest(), t.TempDir(), zap.NewNop())
}
