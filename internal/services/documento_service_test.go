package services

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"gestionale-magazzino/internal/models"
	"gestionale-magazzino/internal/store"
)

func nuovoDocumentoServiceTest(t *testing.T, repo *fakeArticoloRepo) (DocumentoService, *store.ProgressiviStore, *store.DestinatariStore) {
	t.Helper()
	dir := t.TempDir()
	progressivi := store.NewProgressiviStore(filepath.Join(dir, "progressivi_ddt.json"))
	destinatari := store.NewDestinatariStore(filepath.Join(dir, "destinatari.json"), zap.NewNop())
	svc := NewDocumentoService(repo, progressivi, destinatari, nuovaCacheTest(), zap.NewNop())
	return svc, progressivi, destinatari
}

func TestEmettiDdtTimbraLaSelezione(t *testing.T) {
	repo := nuovoFakeArticoloRepo()
	svc, _, _ := nuovoDocumentoServiceTest(t, repo)
	require.NoError(t, repo.Create(context.Background(), articoloGiacenza("ACME")))
	require.NoError(t, repo.Create(context.Background(), articoloGiacenza("ACME")))

	numero, doc, err := svc.EmettiDdt(context.Background(), []int{1, 2}, "")
	require.NoError(t, err)

	anno := time.Now().Format("06")
	assert.Equal(t, fmt.Sprintf("001/%s", anno), numero)
	assert.NotEmpty(t, doc)

	for _, id := range []int{1, 2} {
		art, err := repo.GetByID(context.Background(), id)
		require.NoError(t, err)
		assert.Equal(t, numero, art.NDdtUscita)
		assert.Equal(t, "Uscito", art.Stato)
		assert.NotNil(t, art.DataUscita)
	}
}

func TestEmettiDdtRifiutaArticoloGiaUscito(t *testing.T) {
	repo := nuovoFakeArticoloRepo()
	svc, progressivi, _ := nuovoDocumentoServiceTest(t, repo)

	require.NoError(t, repo.Create(context.Background(), articoloGiacenza("ACME")))
	uscito := articoloGiacenza("ACME")
	uscito.NDdtUscita = "005/25"
	require.NoError(t, repo.Create(context.Background(), uscito))

	_, _, err := svc.EmettiDdt(context.Background(), []int{1, 2}, "")
	assert.ErrorIs(t, err, ErrGiaUscito)

	// Il rifiuto non ha bruciato un numero
	numero, err := progressivi.Next(time.Now())
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("001/%s", time.Now().Format("06")), numero)

	// E l'articolo in giacenza non è stato toccato
	art, err := repo.GetByID(context.Background(), 1)
	require.NoError(t, err)
	assert.Empty(t, art.NDdtUscita)
}

func TestEmettiDdtSelezioneVuota(t *testing.T) {
	repo := nuovoFakeArticoloRepo()
	svc, _, _ := nuovoDocumentoServiceTest(t, repo)

	_, _, err := svc.EmettiDdt(context.Background(), []int{99}, "")
	assert.ErrorIs(t, err, ErrNonTrovato)
}

func TestEmettiDdtConDestinatario(t *testing.T) {
	repo := nuovoFakeArticoloRepo()
	svc, _, destinatari := nuovoDocumentoServiceTest(t, repo)
	require.NoError(t, repo.Create(context.Background(), articoloGiacenza("ACME")))

	destinatari.Set("rossi", models.Destinatario{
		RagioneSociale: "Rossi S.r.l.",
		Indirizzo:      "Via Roma 1, Genova",
		Piva:           "01234567890",
	})

	_, doc, err := svc.EmettiDdt(context.Background(), []int{1}, "rossi")
	require.NoError(t, err)
	assert.NotEmpty(t, doc)
}

func TestGeneraBuonoRestrizioneClient(t *testing.T) {
	repo := nuovoFakeArticoloRepo()
	svc, _, _ := nuovoDocumentoServiceTest(t, repo)
	require.NoError(t, repo.Create(context.Background(), articoloGiacenza("ACME")))
	require.NoError(t, repo.Create(context.Background(), articoloGiacenza("ALTRI")))

	// La selezione mista viene rifiutata in blocco per il client
	_, err := svc.GeneraBuono(context.Background(), []int{1, 2}, models.RuoloClient, "ACME")
	assert.ErrorIs(t, err, ErrNonAutorizzato)

	doc, err := svc.GeneraBuono(context.Background(), []int{1}, models.RuoloClient, "ACME")
	require.NoError(t, err)
	assert.NotEmpty(t, doc)
}

func TestGeneraEtichetta(t *testing.T) {
	repo := nuovoFakeArticoloRepo()
	svc, _, _ := nuovoDocumentoServiceTest(t, repo)
	require.NoError(t, repo.Create(context.Background(), articoloGiacenza("ACME")))

	doc, err := svc.GeneraEtichetta(context.Background(), 1, models.RuoloAdmin, "")
	require.NoError(t, err)
	assert.NotEmpty(t, doc)

	_, err = svc.GeneraEtichetta(context.Background(), 1, models.RuoloClient, "ALTRI")
	assert.ErrorIs(t, err, ErrNonAutorizzato)

	_, err = svc.GeneraEtichetta(context.Background(), 99, models.RuoloAdmin, "")
	assert.ErrorIs(t, err, ErrNonTrovato)
}
