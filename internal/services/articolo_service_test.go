package services

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"gestionale-magazzino/internal/models"
	"gestionale-magazzino/internal/repository"
)

func TestCreateCoerceERicalcola(t *testing.T) {
	repo := nuovoFakeArticoloRepo()
	svc := nuovoArticoloServiceTest(t, repo, nuovoFakeAllegatoRepo())

	art, err := svc.Create(context.Background(), models.ArticoloForm{
		"codice_articolo": "ART-001",
		"cliente":         "ACME",
		"lunghezza":       "2",
		"larghezza":       "3",
		"altezza":         "0,5",
		"n_colli":         "4",
	})
	require.NoError(t, err)

	assert.Equal(t, 1, art.ID)
	assert.Equal(t, models.StatoInGiacenza, art.Stato)
	require.NotNil(t, art.M2)
	require.NotNil(t, art.M3)
	assert.Equal(t, 24.0, *art.M2)
	assert.Equal(t, 12.0, *art.M3)
}

func TestCreateRifiutaDateIncoerenti(t *testing.T) {
	svc := nuovoArticoloServiceTest(t, nuovoFakeArticoloRepo(), nuovoFakeAllegatoRepo())

	_, err := svc.Create(context.Background(), models.ArticoloForm{
		"data_ingresso": "2025-06-10",
		"data_uscita":   "2025-06-01",
	})
	assert.ErrorIs(t, err, ErrDateIncoerenti)
}

func TestUpdateRicalcolaLeMisure(t *testing.T) {
	repo := nuovoFakeArticoloRepo()
	svc := nuovoArticoloServiceTest(t, repo, nuovoFakeAllegatoRepo())
	require.NoError(t, repo.Create(context.Background(), articoloGiacenza("ACME")))

	art, err := svc.Update(context.Background(), 1, models.ArticoloForm{"n_colli": "10"})
	require.NoError(t, err)

	require.NotNil(t, art.M2)
	assert.Equal(t, 20.0, *art.M2) // 1 * 2 * 10
	require.NotNil(t, art.M3)
	assert.Equal(t, 10.0, *art.M3) // 1 * 2 * 0.5 * 10
}

func TestUpdateArticoloInesistente(t *testing.T) {
	svc := nuovoArticoloServiceTest(t, nuovoFakeArticoloRepo(), nuovoFakeAllegatoRepo())

	_, err := svc.Update(context.Background(), 99, models.ArticoloForm{"note": "x"})
	assert.ErrorIs(t, err, ErrNonTrovato)
}

func TestGetRestrizioneRuoloClient(t *testing.T) {
	repo := nuovoFakeArticoloRepo()
	svc := nuovoArticoloServiceTest(t, repo, nuovoFakeAllegatoRepo())
	require.NoError(t, repo.Create(context.Background(), articoloGiacenza("ACME")))

	// Il proprietario vede il proprio articolo, anche con case diverso
	art, err := svc.Get(context.Background(), 1, models.RuoloClient, "acme")
	require.NoError(t, err)
	assert.Equal(t, "ACME", art.Cliente)

	// Un altro cliente no
	_, err = svc.Get(context.Background(), 1, models.RuoloClient, "ALTRI")
	assert.ErrorIs(t, err, ErrNonAutorizzato)

	// L'admin vede tutto
	_, err = svc.Get(context.Background(), 1, models.RuoloAdmin, "")
	assert.NoError(t, err)
}

func TestDuplicaAzzeraICampiDiUscita(t *testing.T) {
	repo := nuovoFakeArticoloRepo()
	svc := nuovoArticoloServiceTest(t, repo, nuovoFakeAllegatoRepo())

	originale := articoloGiacenza("ACME")
	uscita := time.Date(2025, 5, 20, 0, 0, 0, 0, time.UTC)
	originale.DataUscita = &uscita
	originale.NDdtUscita = "007/25"
	originale.BuonoN = "B-12"
	originale.Stato = "Uscito"
	require.NoError(t, repo.Create(context.Background(), originale))

	copia, err := svc.Duplica(context.Background(), originale.ID)
	require.NoError(t, err)

	assert.NotEqual(t, originale.ID, copia.ID)
	assert.Equal(t, originale.CodiceArticolo, copia.CodiceArticolo)
	assert.Equal(t, originale.Cliente, copia.Cliente)

	// I campi di uscita sono azzerati e la copia rientra in giacenza oggi
	assert.Nil(t, copia.DataUscita)
	assert.Empty(t, copia.NDdtUscita)
	assert.Empty(t, copia.BuonoN)
	assert.Equal(t, models.StatoInGiacenza, copia.Stato)
	require.NotNil(t, copia.DataIngresso)
	adesso := time.Now()
	oggi := time.Date(adesso.Year(), adesso.Month(), adesso.Day(), 0, 0, 0, 0, time.UTC)
	assert.True(t, copia.DataIngresso.Equal(oggi))

	// L'originale non è stato toccato
	salvato, err := repo.GetByID(context.Background(), originale.ID)
	require.NoError(t, err)
	assert.Equal(t, "007/25", salvato.NDdtUscita)
}

func TestBulkEditRicalcolaSoloSeToccaLeMisure(t *testing.T) {
	repo := nuovoFakeArticoloRepo()
	svc := nuovoArticoloServiceTest(t, repo, nuovoFakeAllegatoRepo())
	require.NoError(t, repo.Create(context.Background(), articoloGiacenza("ACME")))
	require.NoError(t, repo.Create(context.Background(), articoloGiacenza("ACME")))

	aggiornati, err := svc.BulkEdit(context.Background(), &models.BulkEditRequest{
		IDs:   []int{1, 2},
		Campi: models.ArticoloForm{"posizione": "SCAFFALE-B", "n_colli": "5"},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, aggiornati)

	for _, id := range []int{1, 2} {
		art, err := repo.GetByID(context.Background(), id)
		require.NoError(t, err)
		assert.Equal(t, "SCAFFALE-B", art.Posizione)
		require.NotNil(t, art.M2)
		assert.Equal(t, 10.0, *art.M2) // 1 * 2 * 5
	}
}

func TestDeleteRimuoveIFileDegliAllegati(t *testing.T) {
	repo := nuovoFakeArticoloRepo()
	allegati := nuovoFakeAllegatoRepo()
	uploadDir := t.TempDir()
	svc := NewArticoloService(repo, allegati, nuovaCacheTest(), uploadDir, zap.NewNop())

	require.NoError(t, repo.Create(context.Background(), articoloGiacenza("ACME")))
	require.NoError(t, allegati.Create(context.Background(), &models.Allegato{
		Filename: "1_x_scheda.pdf", Tipo: models.AllegatoTipoDoc, ArticoloID: 1,
	}))
	path := filepath.Join(uploadDir, "1_x_scheda.pdf")
	require.NoError(t, os.WriteFile(path, []byte("pdf"), 0o644))

	require.NoError(t, svc.Delete(context.Background(), 1))

	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))
	art, err := repo.GetByID(context.Background(), 1)
	require.NoError(t, err)
	assert.Nil(t, art)
}

func TestAggiungiAllegato(t *testing.T) {
	repo := nuovoFakeArticoloRepo()
	allegati := nuovoFakeAllegatoRepo()
	uploadDir := t.TempDir()
	svc := NewArticoloService(repo, allegati, nuovaCacheTest(), uploadDir, zap.NewNop())
	require.NoError(t, repo.Create(context.Background(), articoloGiacenza("ACME")))

	allegato, err := svc.AggiungiAllegato(context.Background(), 1, "scheda tecnica.pdf", strings.NewReader("contenuto"))
	require.NoError(t, err)

	// Il PDF è un documento, il nome su disco è sanificato e prefissato
	assert.Equal(t, models.AllegatoTipoDoc, allegato.Tipo)
	assert.True(t, strings.HasPrefix(allegato.Filename, "1_"))
	assert.True(t, strings.HasSuffix(allegato.Filename, "_scheda_tecnica.pdf"))

	contenuto, err := os.ReadFile(filepath.Join(uploadDir, allegato.Filename))
	require.NoError(t, err)
	assert.Equal(t, "contenuto", string(contenuto))
}

func TestAggiungiAllegatoEstensioneNonAmmessa(t *testing.T) {
	repo := nuovoFakeArticoloRepo()
	svc := nuovoArticoloServiceTest(t, repo, nuovoFakeAllegatoRepo())
	require.NoError(t, repo.Create(context.Background(), articoloGiacenza("ACME")))

	_, err := svc.AggiungiAllegato(context.Background(), 1, "script.exe", strings.NewReader("x"))
	assert.Error(t, err)
}

func TestDeleteAllegatoRitornaIlProprietario(t *testing.T) {
	repo := nuovoFakeArticoloRepo()
	allegati := nuovoFakeAllegatoRepo()
	svc := nuovoArticoloServiceTest(t, repo, allegati)
	require.NoError(t, allegati.Create(context.Background(), &models.Allegato{
		Filename: "foto.jpg", Tipo: models.AllegatoTipoFoto, ArticoloID: 7,
	}))

	articoloID, err := svc.DeleteAllegato(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 7, articoloID)

	resto, err := allegati.GetByID(context.Background(), 1)
	require.NoError(t, err)
	assert.Nil(t, resto)
}

func TestReportGiacenzeUsaLaCache(t *testing.T) {
	repo := nuovoFakeArticoloRepo()
	repo.report = []*models.ReportRiga{
		{Cliente: "ACME", Mese: "2025-01", NumArticoli: 3, TotaleColli: 6},
	}
	svc := nuovoArticoloServiceTest(t, repo, nuovoFakeAllegatoRepo())

	prima, err := svc.ReportGiacenze(context.Background(), models.RuoloAdmin, "")
	require.NoError(t, err)
	require.Len(t, prima, 1)

	// La seconda lettura arriva dalla cache L1, non dal repository
	_, err = svc.ReportGiacenze(context.Background(), models.RuoloAdmin, "")
	require.NoError(t, err)
	assert.Equal(t, 1, repo.chiamateReport)
}

func TestListOrdineDiscendente(t *testing.T) {
	repo := nuovoFakeArticoloRepo()
	svc := nuovoArticoloServiceTest(t, repo, nuovoFakeAllegatoRepo())
	for i := 0; i < 3; i++ {
		require.NoError(t, repo.Create(context.Background(), articoloGiacenza("ACME")))
	}

	lista, err := svc.List(context.Background(), &repository.Filtro{Ruolo: models.RuoloAdmin})
	require.NoError(t, err)
	require.Len(t, lista, 3)
	assert.Equal(t, 3, lista[0].ID)
	assert.Equal(t, 1, lista[2].ID)
}
