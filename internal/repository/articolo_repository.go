package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"

	"gestionale-magazzino/internal/models"
)

// colonneArticolo è la lista colonne condivisa da tutte le SELECT: l'ordine
// deve combaciare con scanArticolo.
const colonneArticolo = `id, codice_articolo, descrizione, cliente, fornitore,
	data_ingresso, n_ddt_ingresso, commessa, ordine, n_colli, peso,
	larghezza, lunghezza, altezza, m2, m3, posizione, stato,
	data_uscita, n_ddt_uscita, buono_n, pezzo, protocollo, serial_number,
	n_arrivo, ns_rif, mezzi_in_uscita, note`

// ArticoloRepository definisce le operazioni di persistenza sugli articoli.
type ArticoloRepository interface {
	GetByID(ctx context.Context, id int) (*models.Articolo, error)
	Create(ctx context.Context, art *models.Articolo) error
	Update(ctx context.Context, art *models.Articolo) error
	Delete(ctx context.Context, id int) error

	// Ricerche
	List(ctx context.Context, filtro *Filtro, ordineAsc bool) ([]*models.Articolo, error)
	ListByIDs(ctx context.Context, ids []int) ([]*models.Articolo, error)

	// Operazioni multiple, ognuna in una singola transazione
	CreateBatch(ctx context.Context, articoli []*models.Articolo) error
	UpdateBatch(ctx context.Context, articoli []*models.Articolo) error
	DeleteBatch(ctx context.Context, ids []int) (int64, error)
	SegnaUscita(ctx context.Context, ids []int, nDdt string, dataUscita time.Time) error

	// Report
	ReportGiacenze(ctx context.Context, filtro *Filtro) ([]*models.ReportRiga, error)
}

// articoloRepository implementa ArticoloRepository
type articoloRepository struct {
	db    *sql.DB
	stmts map[string]*sql.Stmt
}

// NewArticoloRepository crea una nuova istanza del repository
func NewArticoloRepository(db *sql.DB) (ArticoloRepository, error) {
	repo := &articoloRepository{
		db:    db,
		stmts: make(map[string]*sql.Stmt),
	}

	if err := repo.prepareStatements(); err != nil {
		return nil, fmt.Errorf("failed to prepare statements: %w", err)
	}

	return repo, nil
}

const insertArticolo = `
	INSERT INTO articoli
	(codice_articolo, descrizione, cliente, fornitore, data_ingresso,
	 n_ddt_ingresso, commessa, ordine, n_colli, peso, larghezza, lunghezza,
	 altezza, m2, m3, posizione, stato, data_uscita, n_ddt_uscita, buono_n,
	 pezzo, protocollo, serial_number, n_arrivo, ns_rif, mezzi_in_uscita, note)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15,
	 $16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $26, $27)
	RETURNING id
`

const updateArticolo = `
	UPDATE articoli SET
	 codice_articolo = $1, descrizione = $2, cliente = $3, fornitore = $4,
	 data_ingresso = $5, n_ddt_ingresso = $6, commessa = $7, ordine = $8,
	 n_colli = $9, peso = $10, larghezza = $11, lunghezza = $12, altezza = $13,
	 m2 = $14, m3 = $15, posizione = $16, stato = $17, data_uscita = $18,
	 n_ddt_uscita = $19, buono_n = $20, pezzo = $21, protocollo = $22,
	 serial_number = $23, n_arrivo = $24, ns_rif = $25, mezzi_in_uscita = $26,
	 note = $27
	WHERE id = $28
`

// prepareStatements prepara le query fisse; le ricerche filtrate restano
// dinamiche perché la WHERE dipende dai parametri.
func (r *articoloRepository) prepareStatements() error {
	statements := map[string]string{
		"get_articolo":    `SELECT ` + colonneArticolo + ` FROM articoli WHERE id = $1`,
		"insert_articolo": insertArticolo,
		"update_articolo": updateArticolo,
		"delete_articolo": `DELETE FROM articoli WHERE id = $1`,
		"list_by_ids":     `SELECT ` + colonneArticolo + ` FROM articoli WHERE id = ANY($1) ORDER BY id`,
		"segna_uscita": `
			UPDATE articoli
			SET n_ddt_uscita = $1, data_uscita = $2, stato = 'Uscito'
			WHERE id = ANY($3)
		`,
	}

	for name, query := range statements {
		stmt, err := r.db.Prepare(query)
		if err != nil {
			return fmt.Errorf("failed to prepare %s: %w", name, err)
		}
		r.stmts[name] = stmt
	}

	return nil
}

func argomentiArticolo(art *models.Articolo) []any {
	return []any{
		art.CodiceArticolo, art.Descrizione, art.Cliente, art.Fornitore,
		art.DataIngresso, art.NDdtIngresso, art.Commessa, art.Ordine,
		art.NColli, art.Peso, art.Larghezza, art.Lunghezza, art.Altezza,
		art.M2, art.M3, art.Posizione, art.Stato, art.DataUscita,
		art.NDdtUscita, art.BuonoN, art.Pezzo, art.Protocollo,
		art.SerialNumber, art.NArrivo, art.NsRif, art.MezziInUscita, art.Note,
	}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanArticolo(row scanner) (*models.Articolo, error) {
	var art models.Articolo
	err := row.Scan(
		&art.ID, &art.CodiceArticolo, &art.Descrizione, &art.Cliente,
		&art.Fornitore, &art.DataIngresso, &art.NDdtIngresso, &art.Commessa,
		&art.Ordine, &art.NColli, &art.Peso, &art.Larghezza, &art.Lunghezza,
		&art.Altezza, &art.M2, &art.M3, &art.Posizione, &art.Stato,
		&art.DataUscita, &art.NDdtUscita, &art.BuonoN, &art.Pezzo,
		&art.Protocollo, &art.SerialNumber, &art.NArrivo, &art.NsRif,
		&art.MezziInUscita, &art.Note,
	)
	if err != nil {
		return nil, err
	}
	return &art, nil
}

// GetByID ritorna l'articolo con l'id dato, nil se non esiste
func (r *articoloRepository) GetByID(ctx context.Context, id int) (*models.Articolo, error) {
	art, err := scanArticolo(r.stmts["get_articolo"].QueryRowContext(ctx, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get articolo: %w", err)
	}
	return art, nil
}

// Create inserisce un nuovo articolo e ne valorizza l'ID
func (r *articoloRepository) Create(ctx context.Context, art *models.Articolo) error {
	err := r.stmts["insert_articolo"].QueryRowContext(ctx, argomentiArticolo(art)...).Scan(&art.ID)
	if err != nil {
		return fmt.Errorf("failed to create articolo: %w", err)
	}
	return nil
}

// Update sovrascrive tutti i campi dell'articolo
func (r *articoloRepository) Update(ctx context.Context, art *models.Articolo) error {
	args := append(argomentiArticolo(art), art.ID)
	result, err := r.stmts["update_articolo"].ExecContext(ctx, args...)
	if err != nil {
		return fmt.Errorf("failed to update articolo: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("articolo %d non trovato", art.ID)
	}
	return nil
}

// Delete elimina un articolo; gli allegati cadono per ON DELETE CASCADE
func (r *articoloRepository) Delete(ctx context.Context, id int) error {
	if _, err := r.stmts["delete_articolo"].ExecContext(ctx, id); err != nil {
		return fmt.Errorf("failed to delete articolo: %w", err)
	}
	return nil
}

// List esegue la ricerca filtrata. Ordine discendente per le liste a video
// (gli ultimi inseriti prima), ascendente per l'esportazione.
func (r *articoloRepository) List(ctx context.Context, filtro *Filtro, ordineAsc bool) ([]*models.Articolo, error) {
	where, args := BuildWhere(filtro, 1)
	ordine := " ORDER BY id DESC"
	if ordineAsc {
		ordine = " ORDER BY id"
	}
	query := `SELECT ` + colonneArticolo + ` FROM articoli` + where + ordine

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list articoli: %w", err)
	}
	defer rows.Close()

	var articoli []*models.Articolo
	for rows.Next() {
		art, err := scanArticolo(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan articolo: %w", err)
		}
		articoli = append(articoli, art)
	}
	return articoli, rows.Err()
}

// ListByIDs ritorna gli articoli con gli id dati, in ordine di id
func (r *articoloRepository) ListByIDs(ctx context.Context, ids []int) ([]*models.Articolo, error) {
	rows, err := r.stmts["list_by_ids"].QueryContext(ctx, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("failed to list articoli by ids: %w", err)
	}
	defer rows.Close()

	var articoli []*models.Articolo
	for rows.Next() {
		art, err := scanArticolo(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan articolo: %w", err)
		}
		articoli = append(articoli, art)
	}
	return articoli, rows.Err()
}

// CreateBatch inserisce gli articoli in un'unica transazione: o entrano tutti
// o nessuno (usata dall'importazione Excel).
func (r *articoloRepository) CreateBatch(ctx context.Context, articoli []*models.Articolo) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, insertArticolo)
	if err != nil {
		return fmt.Errorf("failed to prepare batch insert: %w", err)
	}
	defer stmt.Close()

	for _, art := range articoli {
		if err := stmt.QueryRowContext(ctx, argomentiArticolo(art)...).Scan(&art.ID); err != nil {
			return fmt.Errorf("failed to insert articolo %q: %w", art.CodiceArticolo, err)
		}
	}

	return tx.Commit()
}

// UpdateBatch aggiorna gli articoli in un'unica transazione (modifica multipla)
func (r *articoloRepository) UpdateBatch(ctx context.Context, articoli []*models.Articolo) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, updateArticolo)
	if err != nil {
		return fmt.Errorf("failed to prepare batch update: %w", err)
	}
	defer stmt.Close()

	for _, art := range articoli {
		args := append(argomentiArticolo(art), art.ID)
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return fmt.Errorf("failed to update articolo %d: %w", art.ID, err)
		}
	}

	return tx.Commit()
}

// DeleteBatch elimina gli articoli indicati e ritorna quanti ne ha eliminati.
// I metadati degli allegati cadono in cascata.
func (r *articoloRepository) DeleteBatch(ctx context.Context, ids []int) (int64, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM articoli WHERE id = ANY($1)`, pq.Array(ids))
	if err != nil {
		return 0, fmt.Errorf("failed to delete articoli: %w", err)
	}
	return result.RowsAffected()
}

// SegnaUscita timbra numero DDT e data di uscita su tutti gli articoli indicati
func (r *articoloRepository) SegnaUscita(ctx context.Context, ids []int, nDdt string, dataUscita time.Time) error {
	if _, err := r.stmts["segna_uscita"].ExecContext(ctx, nDdt, dataUscita, pq.Array(ids)); err != nil {
		return fmt.Errorf("failed to segnare uscita: %w", err)
	}
	return nil
}

// ReportGiacenze aggrega gli articoli in giacenza per cliente e mese di ingresso
func (r *articoloRepository) ReportGiacenze(ctx context.Context, filtro *Filtro) ([]*models.ReportRiga, error) {
	where, args := BuildWhere(filtro, 1)
	if where == "" {
		where = ` WHERE COALESCE(n_ddt_uscita, '') = ''`
	} else {
		where += ` AND COALESCE(n_ddt_uscita, '') = ''`
	}

	query := `
		SELECT COALESCE(cliente, ''), TO_CHAR(data_ingresso, 'YYYY-MM'),
		       COUNT(*), COALESCE(SUM(n_colli), 0), COALESCE(SUM(peso), 0),
		       COALESCE(SUM(m2), 0), COALESCE(SUM(m3), 0)
		FROM articoli` + where + `
		GROUP BY 1, 2
		ORDER BY 1, 2
	`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to build report giacenze: %w", err)
	}
	defer rows.Close()

	var righe []*models.ReportRiga
	for rows.Next() {
		var riga models.ReportRiga
		var mese sql.NullString
		err := rows.Scan(&riga.Cliente, &mese, &riga.NumArticoli,
			&riga.TotaleColli, &riga.TotalePeso, &riga.TotaleM2, &riga.TotaleM3)
		if err != nil {
			return nil, fmt.Errorf("failed to scan report riga: %w", err)
		}
		riga.Mese = mese.String
		righe = append(righe, &riga)
	}
	return righe, rows.Err()
}
