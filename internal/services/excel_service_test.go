package services

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"gestionale-magazzino/internal/models"
	"gestionale-magazzino/internal/repository"
	"gestionale-magazzino/internal/store"
)

const mappeTest = `{
  "fornitore_a": {
    "header_row": 0,
    "column_map": {
      "Codice":  "codice_articolo",
      "Cliente": "cliente",
      "Colli":   "n_colli",
      "Peso":    "peso"
    }
  }
}`

func nuovoExcelServiceTest(t *testing.T, repo *fakeArticoloRepo, allegati *fakeAllegatoRepo) ExcelService {
	t.Helper()
	path := filepath.Join(t.TempDir(), "mappe_excel.json")
	require.NoError(t, os.WriteFile(path, []byte(mappeTest), 0o644))
	return NewExcelService(repo, allegati, store.NewMappeStore(path), nuovaCacheTest(), zap.NewNop())
}

// foglioTest costruisce un foglio con intestazioni e righe date.
func foglioTest(t *testing.T, righe [][]any) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)
	for r, riga := range righe {
		for c, valore := range riga {
			cella, err := excelize.CoordinatesToCellName(c+1, r+1)
			require.NoError(t, err)
			require.NoError(t, f.SetCellValue(sheet, cella, valore))
		}
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf
}

func TestImportSaltaLeRigheVuote(t *testing.T) {
	repo := nuovoFakeArticoloRepo()
	svc := nuovoExcelServiceTest(t, repo, nuovoFakeAllegatoRepo())

	foglio := foglioTest(t, [][]any{
		{"Codice", "Cliente", "Colli", "Peso", "Extra"},
		{"ART-001", "ACME", "3", "120,5", "ignorata"},
		{"", "", "", "", "solo colonne non mappate"},
		{"none", "nan", "", "", ""},
		{"ART-002", "ALTRI", "1", "45"},
	})

	resp, err := svc.Import(context.Background(), foglio, "fornitore_a")
	require.NoError(t, err)

	assert.True(t, resp.Success)
	assert.Equal(t, 2, resp.Aggiunti)
	assert.Equal(t, 2, resp.Saltate)

	primo, err := repo.GetByID(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "ART-001", primo.CodiceArticolo)
	assert.Equal(t, "ACME", primo.Cliente)
	require.NotNil(t, primo.NColli)
	assert.Equal(t, 3, *primo.NColli)
	require.NotNil(t, primo.Peso)
	assert.Equal(t, 120.5, *primo.Peso)
	assert.Equal(t, models.StatoInGiacenza, primo.Stato)
}

func TestImportProfiloInesistente(t *testing.T) {
	svc := nuovoExcelServiceTest(t, nuovoFakeArticoloRepo(), nuovoFakeAllegatoRepo())

	foglio := foglioTest(t, [][]any{{"Codice"}, {"ART-001"}})
	_, err := svc.Import(context.Background(), foglio, "profilo_fantasma")
	assert.Error(t, err)
}

func TestImportFoglioSenzaRighe(t *testing.T) {
	repo := nuovoFakeArticoloRepo()
	svc := nuovoExcelServiceTest(t, repo, nuovoFakeAllegatoRepo())

	foglio := foglioTest(t, [][]any{{"Codice", "Cliente"}})
	resp, err := svc.Import(context.Background(), foglio, "fornitore_a")
	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.Zero(t, resp.Aggiunti)
	assert.Empty(t, repo.articoli)
}

func TestExportProduceIlFoglioGiacenze(t *testing.T) {
	repo := nuovoFakeArticoloRepo()
	allegati := nuovoFakeAllegatoRepo()
	svc := nuovoExcelServiceTest(t, repo, allegati)

	require.NoError(t, repo.Create(context.Background(), articoloGiacenza("ACME")))
	require.NoError(t, repo.Create(context.Background(), articoloGiacenza("ALTRI")))
	require.NoError(t, allegati.Create(context.Background(), &models.Allegato{
		Filename: "1_x_scheda.pdf", Tipo: models.AllegatoTipoDoc, ArticoloID: 1,
	}))

	data, err := svc.Export(context.Background(), &repository.Filtro{Ruolo: models.RuoloAdmin}, nil)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	righe, err := f.GetRows("Giacenze")
	require.NoError(t, err)
	require.Len(t, righe, 3)

	assert.Equal(t, "id", righe[0][0])
	assert.Equal(t, "codice_articolo", righe[0][1])

	// Ordine ascendente per id, allegati elencati per nome file
	assert.Equal(t, "1", righe[1][0])
	assert.Equal(t, "2", righe[2][0])
	assert.Equal(t, "1_x_scheda.pdf", righe[1][len(colonneExport)-1])
}

func TestExportSottoinsiemeDiID(t *testing.T) {
	repo := nuovoFakeArticoloRepo()
	svc := nuovoExcelServiceTest(t, repo, nuovoFakeAllegatoRepo())
	require.NoError(t, repo.Create(context.Background(), articoloGiacenza("ACME")))
	require.NoError(t, repo.Create(context.Background(), articoloGiacenza("ACME")))

	data, err := svc.Export(context.Background(), &repository.Filtro{Ruolo: models.RuoloAdmin}, []int{2})
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	righe, err := f.GetRows("Giacenze")
	require.NoError(t, err)
	require.Len(t, righe, 2)
	assert.Equal(t, "2", righe[1][0])
}

func TestExportClientNonVedeAltriClienti(t *testing.T) {
	repo := nuovoFakeArticoloRepo()
	svc := nuovoExcelServiceTest(t, repo, nuovoFakeAllegatoRepo())
	require.NoError(t, repo.Create(context.Background(), articoloGiacenza("ALTRI")))

	// La restrizione di ruolo vale anche esportando per id espliciti
	_, err := svc.Export(context.Background(), &repository.Filtro{Ruolo: models.RuoloClient, Utente: "ACME"}, []int{1})
	assert.ErrorIs(t, err, ErrNonTrovato)
}

func TestExportSenzaArticoli(t *testing.T) {
	svc := nuovoExcelServiceTest(t, nuovoFakeArticoloRepo(), nuovoFakeAllegatoRepo())

	_, err := svc.Export(context.Background(), &repository.Filtro{Ruolo: models.RuoloAdmin}, nil)
	assert.ErrorIs(t, err, ErrNonTrovato)
}
