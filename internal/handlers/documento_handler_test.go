package handlers

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeDocumentoService struct {
	numero string
	doc    []byte
	err    error

	emissioni int
}

func (f *fakeDocumentoService) GeneraBuono(_ context.Context, _ []int, _, _ string) ([]byte, error) {
	return f.doc, f.err
}

func (f *fakeDocumentoService) EmettiDdt(_ context.Context, _ []int, _ string) (string, []byte, error) {
	if f.err != nil {
		return "", nil, f.err
	}
	f.emissioni++
	return f.numero, f.doc, nil
}

func (f *fakeDocumentoService) GeneraEtichetta(_ context.Context, _ int, _, _ string) ([]byte, error) {
	return f.doc, f.err
}

type fakeMailService struct {
	err     error
	inviati int
}

func (f *fakeMailService) InviaDocumento(_, _, _, _ string, _ []byte) error {
	if f.err != nil {
		return f.err
	}
	f.inviati++
	return nil
}

func inviaMailTest(t *testing.T, documenti *fakeDocumentoService, mail *fakeMailService, body string) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)
	router := gin.New()
	handler := NewDocumentoHandler(documenti, mail, zap.NewNop())
	router.POST("/documenti/mail", handler.InviaMail)

	req := httptest.NewRequest(http.MethodPost, "/documenti/mail", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestInviaMailDdt(t *testing.T) {
	documenti := &fakeDocumentoService{numero: "007/25", doc: []byte("%PDF-ddt")}
	mail := &fakeMailService{}

	w := inviaMailTest(t, documenti, mail, `{"ids":[1,2],"tipo":"ddt","email":"ops@camar.it"}`)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, mail.inviati)
	assert.Contains(t, w.Body.String(), "ops@camar.it")
}

func TestInviaMailDdtConSmtpGuastoRestituisceIlDocumento(t *testing.T) {
	documenti := &fakeDocumentoService{numero: "007/25", doc: []byte("%PDF-ddt")}
	mail := &fakeMailService{err: errors.New("connessione SMTP rifiutata")}

	w := inviaMailTest(t, documenti, mail, `{"ids":[1,2],"tipo":"ddt","email":"ops@camar.it"}`)

	// Il DDT è già emesso: il PDF torna al chiamante invece di andare perso
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Equal(t, "007/25", w.Header().Get("X-Numero-Ddt"))
	assert.Equal(t, "fallito", w.Header().Get("X-Invio-Mail"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "DDT_007-25.pdf")
	assert.Equal(t, "%PDF-ddt", w.Body.String())
	assert.Equal(t, 1, documenti.emissioni)
}

func TestInviaMailBuonoConSmtpGuasto(t *testing.T) {
	documenti := &fakeDocumentoService{doc: []byte("%PDF-buono")}
	mail := &fakeMailService{err: errors.New("connessione SMTP rifiutata")}

	w := inviaMailTest(t, documenti, mail, `{"ids":[1],"tipo":"buono","email":"ops@camar.it"}`)

	// Un buono si può rigenerare: l'errore di invio resta un errore
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestInviaMailRichiestaNonValida(t *testing.T) {
	documenti := &fakeDocumentoService{doc: []byte("%PDF")}
	mail := &fakeMailService{}

	w := inviaMailTest(t, documenti, mail, `{"ids":[],"tipo":"fattura","email":"non-una-mail"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Zero(t, mail.inviati)
}
