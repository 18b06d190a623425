package models

// ===== REQUEST DTOs =====

// LoginRequest DTO per il login
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// ArticoloForm è la mappa campo→valore inviata dai form di creazione e
// modifica. Solo i campi presenti nell'allow-list tipizzata (fields.Descrittori)
// vengono applicati; il resto viene ignorato.
type ArticoloForm map[string]string

// BulkEditRequest DTO per la modifica multipla: applica gli stessi campi a più articoli
type BulkEditRequest struct {
	IDs   []int        `json:"ids" validate:"required,min=1"`
	Campi ArticoloForm `json:"campi" validate:"required"`
}

// BulkDeleteRequest DTO per l'eliminazione multipla
type BulkDeleteRequest struct {
	IDs []int `json:"ids" validate:"required,min=1"`
}

// BuonoRequest DTO per la generazione del buono di prelievo
type BuonoRequest struct {
	IDs []int `json:"ids" validate:"required,min=1"`
}

// DdtRequest DTO per l'emissione del documento di trasporto
type DdtRequest struct {
	IDs          []int  `json:"ids" validate:"required,min=1"`
	Destinatario string `json:"destinatario"`
}

// DestinatarioRequest DTO per creare/aggiornare un profilo destinatario
type DestinatarioRequest struct {
	Nickname       string `json:"nickname" validate:"required"`
	RagioneSociale string `json:"ragione_sociale" validate:"required"`
	Indirizzo      string `json:"indirizzo"`
	Piva           string `json:"piva"`
}

// InvioMailRequest DTO per l'invio via email di un documento generato
type InvioMailRequest struct {
	IDs          []int  `json:"ids" validate:"required,min=1"`
	Tipo         string `json:"tipo" validate:"required,oneof=buono ddt"`
	Email        string `json:"email" validate:"required,email"`
	Destinatario string `json:"destinatario"`
}

// ===== RESPONSE DTOs =====

// ImportResponse risposta all'importazione da Excel
type ImportResponse struct {
	Success  bool   `json:"success"`
	Message  string `json:"message"`
	Aggiunti int    `json:"aggiunti"`
	Saltate  int    `json:"saltate"`
}

// ReportRiga è una riga del report giacenze aggregato per cliente e mese di ingresso.
type ReportRiga struct {
	Cliente     string  `json:"cliente"`
	Mese        string  `json:"mese"`
	NumArticoli int     `json:"num_articoli"`
	TotaleColli int     `json:"totale_colli"`
	TotalePeso  float64 `json:"totale_peso"`
	TotaleM2    float64 `json:"totale_m2"`
	TotaleM3    float64 `json:"totale_m3"`
}
